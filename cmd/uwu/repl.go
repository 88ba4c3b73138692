package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/chazu/uwu/compiler"
)

const (
	historyFile = ".uwu_history"
	promptMain  = "uwu> "
	promptCont  = "...> "
)

const replHelp = `Commands:
  :scope   list the names calls may target
  :reset   forget every declared function
  :help    show this help
  :quit    leave the REPL
Input is compiled as soon as it parses; unfinished functions and blocks
continue on the next line.`

// replSession holds the state that persists between REPL inputs.
type replSession struct {
	globals []string
	gen     *compiler.Generator
	out     io.Writer
}

func newREPLSession(globals []string, out io.Writer) *replSession {
	r := &replSession{globals: globals, out: out}
	r.reset()
	return r
}

func (r *replSession) reset() {
	r.gen = compiler.NewGenerator(compiler.WithGlobals(r.globals...))
}

// eval compiles one input with the session scope and returns the generated
// JavaScript, one statement per line. Dropped statements produce no line.
func (r *replSession) eval(src string) (string, int, error) {
	prog, err := compiler.Parse(src)
	if err != nil {
		return "", 0, err
	}

	var lines []string
	dropped := 0
	for _, stmt := range prog.Statements {
		if _, ok := stmt.(*compiler.Blank); ok {
			break
		}
		text, ok := r.gen.RenderStatement(stmt)
		if !ok {
			dropped++
			continue
		}
		lines = append(lines, strings.TrimRight(text, " \n"))
	}
	return strings.Join(lines, "\n"), dropped, nil
}

// command runs a ':' command. It reports whether the REPL should exit.
func (r *replSession) command(cmd string) bool {
	switch strings.ToLower(strings.TrimSpace(cmd)) {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Fprintln(r.out, replHelp)
	case ":reset":
		r.reset()
		fmt.Fprintln(r.out, "scope cleared")
	case ":scope":
		names := r.gen.Scope().Names()
		sort.Strings(names)
		if len(names) == 0 {
			fmt.Fprintln(r.out, "(empty)")
		}
		for _, name := range names {
			fmt.Fprintln(r.out, name)
		}
	default:
		fmt.Fprintf(r.out, "unknown command %s. Type :help for commands.\n", cmd)
	}
	return false
}

// complete offers keywords, macros and scope names for the word being typed.
func (r *replSession) complete(line string) []string {
	start := strings.LastIndexAny(line, " \t()[]{},;:=+-*/!<>&|") + 1
	head, word := line[:start], line[start:]
	if word == "" {
		return nil
	}

	var candidates []string
	candidates = append(candidates, compiler.Keywords()...)
	candidates = append(candidates, r.gen.Scope().Names()...)
	for _, name := range compiler.DefaultMacros().Names() {
		candidates = append(candidates, name+"!(")
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			out = append(out, head+c)
		}
	}
	sort.Strings(out)
	return out
}

func runREPL(globals []string) int {
	fmt.Printf("%s REPL (type :help for commands, :quit to exit)\n\n", versionString())

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	session := newREPLSession(globals, os.Stdout)
	ln.SetCompleter(session.complete)

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if session.command(trimmed) {
				return 0
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		js, dropped, err := session.eval(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if js != "" {
			fmt.Println(js)
		}
		if dropped > 0 {
			fmt.Fprintf(os.Stderr, "(%d statement(s) produced no output)\n", dropped)
		}
	}

	return 0
}

// readByParseProbe reads lines until the accumulated input parses or fails
// for a reason other than ending early.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C drops the pending input
			b.Reset()
			continue
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if !needsMore(src) {
			return src, true
		}
	}
}

// needsMore reports whether src stopped inside an unfinished construct.
func needsMore(src string) bool {
	_, err := compiler.Parse(src)
	var pe *compiler.ParseError
	return errors.As(err, &pe) && pe.Incomplete
}
