package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/chazu/uwu/cache"
	"github.com/chazu/uwu/compiler"
	"github.com/chazu/uwu/manifest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func memCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(cache.MemoryPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCompileSource_CachesByHash(t *testing.T) {
	ctx := context.Background()
	b := &Builder{Cache: memCache(t)}

	first, err := b.CompileSource(ctx, "fn f(): end f()")
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Error("first compile should not be cached")
	}
	if want := compiler.Banner + "function f(){}f();"; first.Output != want {
		t.Errorf("Output = %q, want %q", first.Output, want)
	}

	// Same program, different formatting.
	second, err := b.CompileSource(ctx, "fn f():\nend\nf() # again")
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("reformatted program should hit the cache")
	}
	if second.Output != first.Output || second.Hash != first.Hash {
		t.Error("cached result differs from the original")
	}
}

func TestCompileSource_GlobalsChangeKey(t *testing.T) {
	ctx := context.Background()
	c := memCache(t)

	plain := &Builder{Cache: c}
	withPrint := &Builder{Cache: c, Globals: []string{"print"}}

	a, _ := plain.CompileSource(ctx, "print(1)")
	b, _ := withPrint.CompileSource(ctx, "print(1)")

	if b.Cached {
		t.Error("different globals must not share a cache entry")
	}
	if a.Output != compiler.Banner {
		t.Errorf("without globals: %q", a.Output)
	}
	if b.Output != compiler.Banner+"print(1);" {
		t.Errorf("with globals: %q", b.Output)
	}
}

func TestCompileSource_StaleCompilerVersionIgnored(t *testing.T) {
	ctx := context.Background()
	c := memCache(t)
	b := &Builder{Cache: c}

	res, err := b.CompileSource(ctx, "x")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put(ctx, &cache.Entry{Hash: res.Hash, Output: "stale", Compiler: "v9.9"}); err != nil {
		t.Fatal(err)
	}

	again, err := b.CompileSource(ctx, "x")
	if err != nil {
		t.Fatal(err)
	}
	if again.Cached || again.Output == "stale" {
		t.Error("output from another compiler version should not be reused")
	}
}

func TestCompileSource_ParseError(t *testing.T) {
	b := &Builder{}
	_, err := b.CompileSource(context.Background(), "let = 1")

	var pe *compiler.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *compiler.ParseError", err)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.uwu"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	writeFile(t, filepath.Join(dir, "sub", "b.uwu"), "")
	writeFile(t, filepath.Join(dir, "sub", "deep", "c.uwu"), "")

	flat, err := CollectFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{filepath.Join(dir, "a.uwu")}; !reflect.DeepEqual(flat, want) {
		t.Errorf("flat = %v, want %v", flat, want)
	}

	all, err := CollectFiles(dir + "/...")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.uwu"),
		filepath.Join(dir, "sub", "b.uwu"),
		filepath.Join(dir, "sub", "deep", "c.uwu"),
	}
	if !reflect.DeepEqual(all, want) {
		t.Errorf("recursive = %v, want %v", all, want)
	}

	single, err := CollectFiles(filepath.Join(dir, "sub", "b.uwu"))
	if err != nil || len(single) != 1 {
		t.Errorf("single file = %v, %v", single, err)
	}

	if _, err := CollectFiles(filepath.Join(dir, "notes.txt")); err == nil {
		t.Error("expected an error for a non-.uwu file")
	}
	if _, err := CollectFiles(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected an error for a missing path")
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("/out", "/proj/src", "/proj/src/lib/util.uwu", ".mjs")
	if want := filepath.Join("/out", "lib", "util.mjs"); got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}

func TestBuildAll(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.uwu"), "fn main(): log!(\"hi\") end main()")
	writeFile(t, filepath.Join(dir, "src", "lib", "math.uwu"), "fn sq(x): return x * x end")
	writeFile(t, filepath.Join(dir, "src", "broken.uwu"), "let = 1")

	m := manifest.Default(dir)
	b := New(m, memCache(t))

	report, err := b.BuildAll(ctx)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if report.Compiled != 2 || report.Cached != 0 {
		t.Errorf("compiled=%d cached=%d, want 2/0", report.Compiled, report.Cached)
	}
	if len(report.Failed) != 1 || filepath.Base(report.Failed[0].Path) != "broken.uwu" {
		t.Errorf("Failed = %v", report.Failed)
	}

	out, err := os.ReadFile(filepath.Join(dir, "dist", "main.js"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if want := compiler.Banner + `function main(){console.log("hi");}main();`; string(out) != want {
		t.Errorf("main.js = %q, want %q", out, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist", "lib", "math.js")); err != nil {
		t.Errorf("nested output missing: %v", err)
	}

	// Second run is served from the cache.
	report, err = b.BuildAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Cached != 2 || report.Compiled != 0 {
		t.Errorf("second run compiled=%d cached=%d, want 0/2", report.Compiled, report.Cached)
	}
}

func TestBuildAll_FilesDoNotShareScope(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "a.uwu"), "fn helper(): end")
	writeFile(t, filepath.Join(dir, "src", "b.uwu"), "helper()")

	b := New(manifest.Default(dir), nil)
	b.Jobs = 1
	if _, err := b.BuildAll(context.Background()); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "dist", "b.js"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != compiler.Banner {
		t.Errorf("b.js = %q, want banner only", out)
	}
}

func TestBuildAll_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "a.uwu"), "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(manifest.Default(dir), nil).BuildAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
