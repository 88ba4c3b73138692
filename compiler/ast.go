package compiler

// ---------------------------------------------------------------------------
// AST: Abstract Syntax Tree for uwu
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Contains reports whether the 1-based line falls inside the span.
func (s Span) Contains(line int) bool {
	return line >= s.Start.Line && line <= s.End.Line
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Span() Span
	node() // marker method
}

// ---------------------------------------------------------------------------
// Expression nodes
// ---------------------------------------------------------------------------

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr() // marker method
}

// Literal is the interface for literal value nodes.
type Literal interface {
	Expr
	literal() // marker method
}

// IntLiteral represents an integer literal.
type IntLiteral struct {
	SpanVal Span
	Value   int64
}

func (n *IntLiteral) Span() Span { return n.SpanVal }
func (n *IntLiteral) node()      {}
func (n *IntLiteral) expr()      {}
func (n *IntLiteral) literal()   {}

// FloatLiteral represents a floating-point literal.
type FloatLiteral struct {
	SpanVal Span
	Value   float64
}

func (n *FloatLiteral) Span() Span { return n.SpanVal }
func (n *FloatLiteral) node()      {}
func (n *FloatLiteral) expr()      {}
func (n *FloatLiteral) literal()   {}

// StringLiteral represents a string literal. Value carries the surrounding
// quote characters exactly as written.
type StringLiteral struct {
	SpanVal Span
	Value   string
}

func (n *StringLiteral) Span() Span { return n.SpanVal }
func (n *StringLiteral) node()      {}
func (n *StringLiteral) expr()      {}
func (n *StringLiteral) literal()   {}

// BoolLiteral represents true or false.
type BoolLiteral struct {
	SpanVal Span
	Value   bool
}

func (n *BoolLiteral) Span() Span { return n.SpanVal }
func (n *BoolLiteral) node()      {}
func (n *BoolLiteral) expr()      {}
func (n *BoolLiteral) literal()   {}

// ArrayLiteral represents [a, b, c].
type ArrayLiteral struct {
	SpanVal  Span
	Elements []Expr
}

func (n *ArrayLiteral) Span() Span { return n.SpanVal }
func (n *ArrayLiteral) node()      {}
func (n *ArrayLiteral) expr()      {}
func (n *ArrayLiteral) literal()   {}

// MapEntry is one key/value pair of a map literal.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLiteral represents { k: v, ... }. Entries keep source order.
type MapLiteral struct {
	SpanVal Span
	Entries []MapEntry
}

func (n *MapLiteral) Span() Span { return n.SpanVal }
func (n *MapLiteral) node()      {}
func (n *MapLiteral) expr()      {}
func (n *MapLiteral) literal()   {}

// Ident represents an identifier reference.
type Ident struct {
	SpanVal Span
	Name    string
}

func (n *Ident) Span() Span { return n.SpanVal }
func (n *Ident) node()      {}
func (n *Ident) expr()      {}

// Let represents a binding (let name = value).
type Let struct {
	SpanVal Span
	Name    string
	Value   Expr
}

func (n *Let) Span() Span { return n.SpanVal }
func (n *Let) node()      {}
func (n *Let) expr()      {}

// Assign represents an assignment (target = value).
type Assign struct {
	SpanVal Span
	Target  Expr
	Value   Expr
}

func (n *Assign) Span() Span { return n.SpanVal }
func (n *Assign) node()      {}
func (n *Assign) expr()      {}

// Prefix represents a prefix operator application (!x, -x).
type Prefix struct {
	SpanVal  Span
	Operator string
	Operand  Expr
}

func (n *Prefix) Span() Span { return n.SpanVal }
func (n *Prefix) node()      {}
func (n *Prefix) expr()      {}

// Infix represents a binary operator application (a + b).
type Infix struct {
	SpanVal  Span
	Operator string
	Left     Expr
	Right    Expr
}

func (n *Infix) Span() Span { return n.SpanVal }
func (n *Infix) node()      {}
func (n *Infix) expr()      {}

// Index represents base[key].
type Index struct {
	SpanVal Span
	Base    Expr
	Key     Expr
}

func (n *Index) Span() Span { return n.SpanVal }
func (n *Index) node()      {}
func (n *Index) expr()      {}

// Accessor represents member access (base.a.b). Names holds every segment
// after the base.
type Accessor struct {
	SpanVal Span
	Base    Expr
	Names   []string
}

func (n *Accessor) Span() Span { return n.SpanVal }
func (n *Accessor) node()      {}
func (n *Accessor) expr()      {}

// FuncLiteral represents fn name(params): body end. Name is empty for an
// anonymous function.
type FuncLiteral struct {
	SpanVal Span
	Name    string
	Params  []string
	Body    *Block
}

func (n *FuncLiteral) Span() Span { return n.SpanVal }
func (n *FuncLiteral) node()      {}
func (n *FuncLiteral) expr()      {}

// Call represents callee(args).
type Call struct {
	SpanVal Span
	Callee  Expr
	Args    []Expr
}

func (n *Call) Span() Span { return n.SpanVal }
func (n *Call) node()      {}
func (n *Call) expr()      {}

// MacroCall represents name!(args).
type MacroCall struct {
	SpanVal Span
	Name    Expr
	Args    []Expr
}

func (n *MacroCall) Span() Span { return n.SpanVal }
func (n *MacroCall) node()      {}
func (n *MacroCall) expr()      {}

// Regex represents a regular expression literal /pattern/flags. Flags is
// empty when none were given.
type Regex struct {
	SpanVal Span
	Pattern Expr
	Flags   string
}

func (n *Regex) Span() Span { return n.SpanVal }
func (n *Regex) node()      {}
func (n *Regex) expr()      {}

// While represents while cond: body end.
type While struct {
	SpanVal Span
	Cond    Expr
	Body    *Block
}

func (n *While) Span() Span { return n.SpanVal }
func (n *While) node()      {}
func (n *While) expr()      {}

// If represents if cond: body [else: alternative] end. Alternative is nil
// when there is no else branch.
type If struct {
	SpanVal     Span
	Cond        Expr
	Consequence *Block
	Alternative *Block
}

func (n *If) Span() Span { return n.SpanVal }
func (n *If) node()      {}
func (n *If) expr()      {}

// ---------------------------------------------------------------------------
// Statement nodes
// ---------------------------------------------------------------------------

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmt() // marker method
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	SpanVal Span
	Expr    Expr
}

func (n *ExprStmt) Span() Span { return n.SpanVal }
func (n *ExprStmt) node()      {}
func (n *ExprStmt) stmt()      {}

// Return represents a return statement.
type Return struct {
	SpanVal Span
	Value   Expr
}

func (n *Return) Span() Span { return n.SpanVal }
func (n *Return) node()      {}
func (n *Return) stmt()      {}

// Blank is the terminator sentinel. Generation stops where it appears.
type Blank struct {
	SpanVal Span
}

func (n *Blank) Span() Span { return n.SpanVal }
func (n *Blank) node()      {}
func (n *Blank) stmt()      {}

// Block is an ordered statement sequence (a function or control-flow body).
type Block struct {
	SpanVal    Span
	Statements []Stmt
}

func (n *Block) Span() Span { return n.SpanVal }
func (n *Block) node()      {}

// ---------------------------------------------------------------------------
// Top-level structure
// ---------------------------------------------------------------------------

// Program represents a complete source file.
type Program struct {
	SpanVal    Span
	Statements []Stmt
}

func (n *Program) Span() Span { return n.SpanVal }
func (n *Program) node()      {}

// ---------------------------------------------------------------------------
// Helper functions
// ---------------------------------------------------------------------------

// MakeSpan creates a span from start and end positions.
func MakeSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// ZeroSpan returns an empty span.
func ZeroSpan() Span {
	return Span{}
}
