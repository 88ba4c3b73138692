// Package manifest handles uwu.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked up in a project directory.
const FileName = "uwu.toml"

// SourceExt is the extension of uwu source files.
const SourceExt = ".uwu"

// Manifest represents a uwu.toml project configuration.
type Manifest struct {
	Project Project       `toml:"project" json:"project"`
	Source  Source        `toml:"source" json:"source"`
	Output  Output        `toml:"output" json:"output"`
	Compile CompileConfig `toml:"compile" json:"compile"`
	Cache   CacheConfig   `toml:"cache" json:"cache"`
	Server  ServerConfig  `toml:"server" json:"server"`

	// Dir is the directory containing the uwu.toml file (set at load time).
	Dir string `toml:"-" json:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name" json:"name"`
	Version string `toml:"version" json:"version"`
}

// Source configures source file locations.
type Source struct {
	Dirs []string `toml:"dirs" json:"dirs"`
}

// Output configures where generated JavaScript is written.
type Output struct {
	Dir       string `toml:"dir" json:"dir"`
	Extension string `toml:"extension" json:"extension"`
}

// CompileConfig configures code generation.
type CompileConfig struct {
	// Globals are names that calls may target without a declaring function.
	Globals []string `toml:"globals" json:"globals"`
}

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	Path     string `toml:"path" json:"path"`
	Disabled bool   `toml:"disabled" json:"disabled"`
}

// ServerConfig configures the RPC server ports.
type ServerConfig struct {
	Port     int `toml:"port" json:"port"`
	GRPCPort int `toml:"grpc-port" json:"grpc-port"`
}

// Default returns a manifest rooted at dir with every default applied.
func Default(dir string) *Manifest {
	m := &Manifest{Dir: dir}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if len(m.Source.Dirs) == 0 {
		m.Source.Dirs = []string{"src"}
	}
	if m.Output.Dir == "" {
		m.Output.Dir = "dist"
	}
	if m.Output.Extension == "" {
		m.Output.Extension = ".js"
	}
	if m.Compile.Globals == nil {
		m.Compile.Globals = []string{}
	}
	if m.Cache.Path == "" {
		m.Cache.Path = filepath.Join(".uwu", "cache.db")
	}
	if m.Server.Port == 0 {
		m.Server.Port = 4567
	}
}

// Load parses and validates a uwu.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a uwu.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// SourceDirPaths returns absolute paths for the configured source directories.
func (m *Manifest) SourceDirPaths() []string {
	var paths []string
	for _, d := range m.Source.Dirs {
		paths = append(paths, m.resolve(d))
	}
	return paths
}

// OutputDirPath returns the absolute output directory.
func (m *Manifest) OutputDirPath() string {
	return m.resolve(m.Output.Dir)
}

// CachePath returns the absolute path of the cache database.
func (m *Manifest) CachePath() string {
	return m.resolve(m.Cache.Path)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
