// uwu CLI - compiles uwu source files to JavaScript
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/chazu/uwu/build"
	"github.com/chazu/uwu/cache"
	"github.com/chazu/uwu/compiler"
	"github.com/chazu/uwu/manifest"
	"github.com/chazu/uwu/server"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("uwu.cli")

func main() {
	if len(os.Args) > 1 && os.Args[1] == "build" {
		os.Exit(handleBuildCommand(os.Args[2:]))
	}

	verbose := flag.Int("v", 0, "Log verbosity (0 = errors only, 2 = info, 4 = debug)")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stderr")
	interactive := flag.Bool("i", false, "Start interactive REPL")
	outDir := flag.String("o", "", "Write compiled files to this directory instead of stdout")
	globalsFlag := flag.String("g", "", "Comma-separated names calls may target without a declaration")
	noCache := flag.Bool("no-cache", false, "Do not read or write the artifact cache")
	serveMode := flag.Bool("serve", false, "Start compile server (Connect HTTP/JSON)")
	servePort := flag.Int("port", 0, "Compile server port (used with --serve; default from uwu.toml or 4567)")
	grpcPort := flag.Int("grpc-port", 0, "Also serve gRPC on this port (used with --serve)")
	lspMode := flag.Bool("lsp", false, "Start language server on stdio")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: uwu [options] [paths...]\n")
		fmt.Fprintf(os.Stderr, "       uwu build [--no-cache] [-j N] [-v N]\n\n")
		fmt.Fprintf(os.Stderr, "Compiles .uwu files from the given paths to JavaScript.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  uwu main.uwu               # Print JavaScript to stdout\n")
		fmt.Fprintf(os.Stderr, "  uwu ./src/... -o dist      # Compile recursively into dist/\n")
		fmt.Fprintf(os.Stderr, "  uwu -g console.log x.uwu   # Allow calls to console.log\n")
		fmt.Fprintf(os.Stderr, "  uwu -i                     # Start REPL\n")
		fmt.Fprintf(os.Stderr, "  uwu build                  # Build the project in uwu.toml\n")
		fmt.Fprintf(os.Stderr, "\nServers:\n")
		fmt.Fprintf(os.Stderr, "  uwu --serve                        # Compile server on :4567\n")
		fmt.Fprintf(os.Stderr, "  uwu --serve --port 8080 --grpc-port 9090\n")
		fmt.Fprintf(os.Stderr, "  uwu --lsp                          # Language server on stdio\n")
	}
	flag.Parse()

	configureLogging(*verbose, *logFile)

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}

	globals := splitGlobals(*globalsFlag)
	if m != nil {
		globals = append(append([]string(nil), m.Compile.Globals...), globals...)
		log.Infof("using %s", filepath.Join(m.Dir, manifest.FileName))
	}

	if *lspMode {
		if err := server.NewLSP(globals).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "LSP error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	b := &build.Builder{Manifest: m, Globals: globals}
	if m != nil && !m.Cache.Disabled && !*noCache {
		c, err := cache.Open(m.CachePath())
		if err != nil {
			log.Warningf("cache unavailable: %s", err)
		} else {
			defer c.Close()
			b.Cache = c
		}
	}

	// Start compile server if requested
	if *serveMode {
		port := *servePort
		if port == 0 {
			port = 4567
			if m != nil {
				port = m.Server.Port
			}
		}
		gport := *grpcPort
		if gport == 0 && m != nil {
			gport = m.Server.GRPCPort
		}
		os.Exit(serve(b, port, gport))
	}

	paths := flag.Args()
	if len(paths) > 0 {
		if err := compilePaths(context.Background(), b, paths, *outDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Start REPL if requested or if no paths given
	if *interactive || len(paths) == 0 {
		os.Exit(runREPL(globals))
	}
}

func configureLogging(verbosity int, path string) {
	if path != "" {
		commonlog.Configure(verbosity, &path)
		return
	}
	commonlog.Configure(verbosity, nil)
}

// splitGlobals parses the -g flag value.
func splitGlobals(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func serve(b *build.Builder, port, grpcPort int) int {
	srv := server.New(b)
	defer srv.Stop()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		srv.Stop()
	}()

	if grpcPort != 0 {
		go func() {
			if err := srv.ServeGRPC(fmt.Sprintf(":%d", grpcPort)); err != nil {
				log.Errorf("gRPC server: %s", err)
			}
		}()
	}

	if err := srv.ListenAndServe(fmt.Sprintf(":%d", port)); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		return 1
	}
	return 0
}

// compilePaths compiles every file named by paths. Each file is compiled on
// its own; output goes to stdout, or to outDir as <name>.js when set.
func compilePaths(ctx context.Context, b *build.Builder, paths []string, outDir string) error {
	var failed int
	for _, path := range paths {
		files, err := build.CollectFiles(path)
		if err != nil {
			return err
		}
		root := strings.TrimSuffix(path, "/...")
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
		root, _ = filepath.Abs(root)

		for _, file := range files {
			res, err := b.BuildFile(ctx, file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				failed++
				continue
			}

			if outDir == "" {
				fmt.Print(res.Output)
				if !strings.HasSuffix(res.Output, "\n") {
					fmt.Println()
				}
				continue
			}

			out := build.OutputPath(outDir, root, file, ".js")
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, []byte(res.Output), 0o644); err != nil {
				return err
			}
			log.Infof("%s -> %s", file, out)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to compile", failed)
	}
	return nil
}

// versionString is shown by the REPL banner.
func versionString() string {
	return "uwu " + compiler.Version
}
