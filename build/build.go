// Package build compiles uwu projects and files to JavaScript, reusing
// cached output for programs whose content hash has been seen before.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/uwu/cache"
	"github.com/chazu/uwu/compiler"
	"github.com/chazu/uwu/compiler/hash"
	"github.com/chazu/uwu/manifest"
)

var log = commonlog.GetLogger("uwu.build")

// Builder compiles sources with a fixed set of globals. Every file gets a
// fresh generator, so files never see each other's functions.
type Builder struct {
	Manifest *manifest.Manifest
	Cache    *cache.Cache // nil disables caching
	Globals  []string
	Jobs     int // parallel files in BuildAll; 0 means GOMAXPROCS
}

// New creates a builder for a project. The manifest's globals are used.
func New(m *manifest.Manifest, c *cache.Cache) *Builder {
	b := &Builder{Manifest: m, Cache: c}
	if m != nil {
		b.Globals = append(b.Globals, m.Compile.Globals...)
	}
	return b
}

// Result is the outcome of compiling one source.
type Result struct {
	Path    string // source path; empty for in-memory sources
	OutPath string // written file; empty unless produced by BuildAll
	Hash    [32]byte
	Output  string
	Cached  bool
}

// FileError records a file that could not be built.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Report summarizes a BuildAll run.
type Report struct {
	Compiled int
	Cached   int
	Failed   []*FileError
	Results  []*Result
}

// CompileSource compiles source text. Parse errors are returned as
// *compiler.ParseError and nothing is cached for them.
func (b *Builder) CompileSource(ctx context.Context, source string) (*Result, error) {
	prog, err := compiler.Parse(source)
	if err != nil {
		return nil, err
	}

	res := &Result{Hash: hash.HashProgram(prog, b.Globals)}

	if b.Cache != nil {
		entry, err := b.Cache.Get(ctx, res.Hash)
		switch {
		case err == nil && entry.Compiler == compiler.Version:
			res.Output = entry.Output
			res.Cached = true
			return res, nil
		case err != nil && !errors.Is(err, cache.ErrNotFound):
			log.Warningf("cache lookup failed: %s", err)
		}
	}

	res.Output = compiler.NewGenerator(compiler.WithGlobals(b.Globals...)).Generate(prog)

	if b.Cache != nil {
		entry := &cache.Entry{Hash: res.Hash, Output: res.Output, Compiler: compiler.Version}
		if err := b.Cache.Put(ctx, entry); err != nil {
			log.Warningf("cache store failed: %s", err)
		}
	}
	return res, nil
}

// BuildFile compiles a single source file.
func (b *Builder) BuildFile(ctx context.Context, path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res, err := b.CompileSource(ctx, string(content))
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", path, err)
	}
	res.Path = path
	log.Debugf("%s: %s (cached=%t)", filepath.Base(path), hash.Hex(res.Hash)[:12], res.Cached)
	return res, nil
}

// BuildAll compiles every source file under the manifest's source
// directories and writes each result below the output directory, keeping
// the path relative to its source directory. Files that fail are reported
// in Report.Failed; the returned error is only set when the build could
// not run at all.
func (b *Builder) BuildAll(ctx context.Context) (*Report, error) {
	if b.Manifest == nil {
		return nil, errors.New("build: no manifest")
	}

	type job struct {
		src     string
		srcRoot string
	}
	var jobs []job
	for _, dir := range b.Manifest.SourceDirPaths() {
		files, err := CollectFiles(dir + "/...")
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			jobs = append(jobs, job{src: f, srcRoot: dir})
		}
	}

	outDir := b.Manifest.OutputDirPath()
	report := &Report{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	limit := b.Jobs
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := b.BuildFile(gctx, j.src)
			if err == nil {
				res.OutPath = OutputPath(outDir, j.srcRoot, j.src, b.Manifest.Output.Extension)
				err = writeOutput(res.OutPath, res.Output)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, &FileError{Path: j.src, Err: err})
				log.Errorf("%s: %s", j.src, err)
				return nil
			}
			report.Results = append(report.Results, res)
			if res.Cached {
				report.Cached++
			} else {
				report.Compiled++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Results, func(i, j int) bool { return report.Results[i].Path < report.Results[j].Path })
	sort.Slice(report.Failed, func(i, j int) bool { return report.Failed[i].Path < report.Failed[j].Path })

	log.Infof("built %d files (%d cached, %d failed)", report.Compiled+report.Cached, report.Cached, len(report.Failed))
	return report, nil
}

// OutputPath maps a source file below srcRoot to its output file below
// outDir with the given extension.
func OutputPath(outDir, srcRoot, src, ext string) string {
	rel, err := filepath.Rel(srcRoot, src)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(src)
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+ext)
}

func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// CollectFiles lists the source files named by path: a single .uwu file,
// the .uwu files directly inside a directory, or, with a "/..." suffix,
// every .uwu file below a directory. Files are returned sorted.
func CollectFiles(path string) ([]string, error) {
	// Check for recursive pattern
	recursive := false
	if strings.HasSuffix(path, "/...") {
		recursive = true
		path = strings.TrimSuffix(path, "/...")
	}

	// Resolve path
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %q: %w", path, err)
	}

	var files []string
	if info.IsDir() {
		if recursive {
			// Walk directory tree
			err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.HasSuffix(p, manifest.SourceExt) {
					files = append(files, p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %q: %w", path, err)
			}
		} else {
			// Just this directory
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("reading %q: %w", path, err)
			}
			for _, e := range entries {
				if !e.IsDir() && strings.HasSuffix(e.Name(), manifest.SourceExt) {
					files = append(files, filepath.Join(path, e.Name()))
				}
			}
		}
	} else {
		// Single file
		if !strings.HasSuffix(path, manifest.SourceExt) {
			return nil, fmt.Errorf("%q is not a %s file", path, manifest.SourceExt)
		}
		files = append(files, path)
	}

	sort.Strings(files)
	return files, nil
}
