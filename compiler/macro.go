package compiler

import (
	"sort"
	"strings"
)

// Renderer renders expressions to target text. Macros receive the active
// generator as a Renderer so their arguments share the pass's scope.
type Renderer interface {
	RenderExpr(expr Expr) (string, bool)
}

// MacroFunc expands a macro invocation. It returns false when the
// arguments cannot be expanded.
type MacroFunc func(r Renderer, args []Expr) (string, bool)

// MacroTable maps macro names to their expansion routines.
type MacroTable struct {
	macros map[string]MacroFunc
}

// NewMacroTable creates an empty macro table.
func NewMacroTable() *MacroTable {
	return &MacroTable{macros: make(map[string]MacroFunc)}
}

// DefaultMacros returns a table holding the built-in macros.
func DefaultMacros() *MacroTable {
	t := NewMacroTable()
	t.Register("log", expandLog)
	t.Register("assert", expandAssert)
	t.Register("concat", expandConcat)
	t.Register("typeof", expandTypeof)
	return t
}

// Register adds or replaces a macro.
func (t *MacroTable) Register(name string, fn MacroFunc) {
	t.macros[name] = fn
}

// Lookup returns the macro registered under name.
func (t *MacroTable) Lookup(name string) (MacroFunc, bool) {
	fn, ok := t.macros[name]
	return fn, ok
}

// Names returns the registered macro names in sorted order.
func (t *MacroTable) Names() []string {
	names := make([]string, 0, len(t.macros))
	for name := range t.macros {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// renderArgs renders every argument; any failure fails the whole list.
func renderArgs(r Renderer, args []Expr) ([]string, bool) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		s, ok := r.RenderExpr(arg)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// log!(a, b) -> console.log(a,b);
func expandLog(r Renderer, args []Expr) (string, bool) {
	parts, ok := renderArgs(r, args)
	if !ok {
		return "", false
	}
	return "console.log(" + strings.Join(parts, ",") + ");", true
}

// assert!(cond) or assert!(cond, message)
func expandAssert(r Renderer, args []Expr) (string, bool) {
	if len(args) < 1 || len(args) > 2 {
		return "", false
	}
	parts, ok := renderArgs(r, args)
	if !ok {
		return "", false
	}
	msg := `"assertion failed"`
	if len(parts) == 2 {
		msg = parts[1]
	}
	return "if(!(" + parts[0] + ")){throw new Error(" + msg + ")}", true
}

// concat!(a, b) -> [a,b].join("")
func expandConcat(r Renderer, args []Expr) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	parts, ok := renderArgs(r, args)
	if !ok {
		return "", false
	}
	return "[" + strings.Join(parts, ",") + `].join("")`, true
}

// typeof!(x) -> typeof x
func expandTypeof(r Renderer, args []Expr) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	parts, ok := renderArgs(r, args)
	if !ok {
		return "", false
	}
	return "typeof " + parts[0], true
}
