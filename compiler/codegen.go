package compiler

import (
	"strings"

	"github.com/tliron/commonlog"
)

// ---------------------------------------------------------------------------
// Codegen: Render AST to JavaScript
// ---------------------------------------------------------------------------

// Version identifies the generator. Cached output from another version is
// never reused.
const Version = "v0.0"

// Banner is the first line of every generated program.
const Banner = "// Generated by uwu compiler " + Version + "\n"

var log = commonlog.GetLogger("uwu.compiler")

// Generator renders one program to JavaScript. Each pass should use a fresh
// Generator unless scope sharing is intended (see WithScope).
type Generator struct {
	scope  *Scope
	macros *MacroTable
}

// Option configures a Generator.
type Option func(*generatorConfig)

type generatorConfig struct {
	scope   *Scope
	globals []string
	macros  *MacroTable
}

// WithScope makes the generator declare into and consult an existing scope.
func WithScope(s *Scope) Option {
	return func(c *generatorConfig) { c.scope = s }
}

// WithGlobals pre-declares names so calls to them pass the scope check.
func WithGlobals(names ...string) Option {
	return func(c *generatorConfig) { c.globals = append(c.globals, names...) }
}

// WithMacros replaces the built-in macro table.
func WithMacros(t *MacroTable) Option {
	return func(c *generatorConfig) { c.macros = t }
}

// NewGenerator creates a generator.
func NewGenerator(opts ...Option) *Generator {
	cfg := &generatorConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.scope == nil {
		cfg.scope = NewScope()
	}
	if cfg.macros == nil {
		cfg.macros = DefaultMacros()
	}
	for _, name := range cfg.globals {
		cfg.scope.Declare(name)
	}
	return &Generator{scope: cfg.scope, macros: cfg.macros}
}

// Scope returns the scope this generator declares into. A zero Generator
// starts with an empty scope and the built-in macros.
func (g *Generator) Scope() *Scope {
	if g.scope == nil {
		g.scope = NewScope()
	}
	return g.scope
}

func (g *Generator) macroTable() *MacroTable {
	if g.macros == nil {
		g.macros = DefaultMacros()
	}
	return g.macros
}

// Generate renders a whole program. It never fails: statements that cannot
// be rendered are left out, and a Blank statement ends the output.
func (g *Generator) Generate(prog *Program) string {
	var sb strings.Builder
	sb.WriteString(Banner)

	for _, stmt := range prog.Statements {
		if _, ok := stmt.(*Blank); ok {
			sb.WriteString("\n")
			break
		}
		if text, ok := g.RenderStatement(stmt); ok {
			sb.WriteString(text)
		}
	}
	return sb.String()
}

// RenderStatement renders one top-level statement. Only expression
// statements produce text at the top level.
func (g *Generator) RenderStatement(stmt Stmt) (string, bool) {
	switch n := stmt.(type) {
	case *ExprStmt:
		text, ok := g.RenderExpr(n.Expr)
		if !ok {
			log.Debugf("line %d: statement dropped", n.Span().Start.Line)
		}
		return text, ok
	case *Blank:
		return "\n", true
	default:
		log.Debugf("line %d: %T not allowed at top level", stmt.Span().Start.Line, stmt)
		return "", false
	}
}

// renderBlock renders a body. Unlike the top level it is all-or-nothing.
func (g *Generator) renderBlock(b *Block) (string, bool) {
	if b == nil {
		return "", true
	}

	var sb strings.Builder
	for _, stmt := range b.Statements {
		switch n := stmt.(type) {
		case *Blank:
			sb.WriteString("\n")
			return sb.String(), true
		case *ExprStmt:
			text, ok := g.RenderExpr(n.Expr)
			if !ok {
				return "", false
			}
			sb.WriteString(text)
		case *Return:
			sb.WriteString("return ")
			text, ok := g.RenderExpr(n.Value)
			if !ok {
				return "", false
			}
			sb.WriteString(text)
		default:
			return "", false
		}
	}
	return sb.String(), true
}

// RenderExpr renders one expression. It returns false when the expression,
// or anything it depends on, cannot be rendered.
func (g *Generator) RenderExpr(expr Expr) (string, bool) {
	switch n := expr.(type) {
	case *Let:
		value, ok := g.RenderExpr(n.Value)
		if !ok {
			return "", false
		}
		return "let " + n.Name + " = " + value + "; \n", true

	case *Assign:
		value, ok := g.RenderExpr(n.Value)
		if !ok {
			return "", false
		}
		target, ok := g.RenderExpr(n.Target)
		if !ok {
			return "", false
		}
		return target + " = " + value + "; \n", true

	case *Prefix:
		operand, ok := g.RenderExpr(n.Operand)
		if !ok {
			return "", false
		}
		return n.Operator + operand, true

	case *Infix:
		left, ok := g.RenderExpr(n.Left)
		if !ok {
			return "", false
		}
		right, ok := g.RenderExpr(n.Right)
		if !ok {
			return "", false
		}
		return left + n.Operator + right, true

	case *Index:
		base, ok := g.RenderExpr(n.Base)
		if !ok {
			return "", false
		}
		key, ok := g.RenderExpr(n.Key)
		if !ok {
			return "", false
		}
		return base + "[" + key + "]", true

	case *Accessor:
		base, ok := g.RenderExpr(n.Base)
		if !ok || len(n.Names) == 0 {
			return "", false
		}
		// Only the first segment is emitted.
		return base + "." + n.Names[0], true

	case Literal:
		return g.renderLiteral(n)

	case *Ident:
		return n.Name, true

	case *FuncLiteral:
		return g.renderFunc(n)

	case *Call:
		return g.renderCall(n)

	case *MacroCall:
		return g.renderMacro(n)

	case *Regex:
		pattern, ok := g.RenderExpr(n.Pattern)
		if !ok {
			return "", false
		}
		return "/" + pattern + "/" + n.Flags, true

	case *While:
		cond, ok := g.RenderExpr(n.Cond)
		if !ok {
			return "", false
		}
		body, ok := g.renderBlock(n.Body)
		if !ok {
			return "", false
		}
		return "while(" + cond + "){" + body + "}", true

	case *If:
		return g.renderIf(n)
	}
	return "", false
}

// renderFunc renders a named function literal. Anonymous functions render
// to nothing. The name is declared before the body so the body can call
// it; it stays declared even if the body fails.
func (g *Generator) renderFunc(n *FuncLiteral) (string, bool) {
	if n.Name == "" {
		return "", true
	}
	g.Scope().Declare(n.Name)

	body, ok := g.renderBlock(n.Body)
	if !ok {
		return "", false
	}
	return "function " + n.Name + "(" + strings.Join(n.Params, ",") + "){" + body + "}", true
}

// renderCall renders `callee(args);`. The rendered callee text must already
// be declared in the scope.
func (g *Generator) renderCall(n *Call) (string, bool) {
	callee, ok := g.RenderExpr(n.Callee)
	if !ok {
		return "", false
	}
	if !g.Scope().Has(callee) {
		log.Debugf("line %d: call to undeclared function %q dropped", n.Span().Start.Line, callee)
		return "", false
	}

	args := make([]string, 0, len(n.Args))
	for _, arg := range n.Args {
		text, ok := g.RenderExpr(arg)
		if !ok {
			return "", false
		}
		args = append(args, text)
	}
	return callee + "(" + strings.Join(args, ",") + ");", true
}

// renderMacro looks the macro up by its rendered name and splices its
// expansion verbatim.
func (g *Generator) renderMacro(n *MacroCall) (string, bool) {
	name, ok := g.RenderExpr(n.Name)
	if !ok {
		return "", false
	}
	expand, ok := g.macroTable().Lookup(name)
	if !ok {
		log.Debugf("line %d: unknown macro %q", n.Span().Start.Line, name)
		return "", false
	}
	return expand(g, n.Args)
}

func (g *Generator) renderIf(n *If) (string, bool) {
	cond, ok := g.RenderExpr(n.Cond)
	if !ok {
		return "", false
	}
	consequence, ok := g.renderBlock(n.Consequence)
	if !ok {
		return "", false
	}

	out := "if(" + cond + "){" + consequence + "}"
	if n.Alternative != nil {
		alt, ok := g.renderBlock(n.Alternative)
		if !ok {
			return "", false
		}
		out += "else{" + alt + "}"
	}
	return out, true
}
