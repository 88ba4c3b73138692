package compiler

import (
	"testing"
)

func parseOne(t *testing.T, input string) Expr {
	t.Helper()
	p := NewParser(input)
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse %q: %v", input, p.Errors())
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("parse %q: got %d statements, want 1", input, len(prog.Statements))
	}
	stmt, ok := prog.Statements[0].(*ExprStmt)
	if !ok {
		t.Fatalf("parse %q: statement is %T, want *ExprStmt", input, prog.Statements[0])
	}
	return stmt.Expr
}

func TestParseLiterals(t *testing.T) {
	if lit, ok := parseOne(t, "42").(*IntLiteral); !ok || lit.Value != 42 {
		t.Errorf("42 parsed as %#v", lit)
	}
	if lit, ok := parseOne(t, "2.5").(*FloatLiteral); !ok || lit.Value != 2.5 {
		t.Errorf("2.5 parsed as %#v", lit)
	}
	if lit, ok := parseOne(t, `"hi"`).(*StringLiteral); !ok || lit.Value != `"hi"` {
		t.Errorf(`"hi" parsed as %#v`, lit)
	}
	if lit, ok := parseOne(t, "false").(*BoolLiteral); !ok || lit.Value {
		t.Errorf("false parsed as %#v", lit)
	}
}

func TestParseArrayAndMap(t *testing.T) {
	arr, ok := parseOne(t, "[1, x, [2]]").(*ArrayLiteral)
	if !ok {
		t.Fatal("expected *ArrayLiteral")
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(arr.Elements))
	}
	if _, ok := arr.Elements[2].(*ArrayLiteral); !ok {
		t.Errorf("element 2 is %T, want nested array", arr.Elements[2])
	}

	m, ok := parseOne(t, `{ a: 1, "b": two }`).(*MapLiteral)
	if !ok {
		t.Fatal("expected *MapLiteral")
	}
	if len(m.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(m.Entries))
	}
	if key, ok := m.Entries[0].Key.(*Ident); !ok || key.Name != "a" {
		t.Errorf("entry 0 key = %#v", m.Entries[0].Key)
	}
	if key, ok := m.Entries[1].Key.(*StringLiteral); !ok || key.Value != `"b"` {
		t.Errorf("entry 1 key = %#v", m.Entries[1].Key)
	}

	if empty, ok := parseOne(t, "[]").(*ArrayLiteral); !ok || len(empty.Elements) != 0 {
		t.Errorf("[] parsed as %#v", empty)
	}
	if empty, ok := parseOne(t, "{}").(*MapLiteral); !ok || len(empty.Entries) != 0 {
		t.Errorf("{} parsed as %#v", empty)
	}
}

func TestParsePrecedence(t *testing.T) {
	// x + 2 * 3 - 1 groups as (x + (2 * 3)) - 1
	outer, ok := parseOne(t, "x + 2 * 3 - 1").(*Infix)
	if !ok || outer.Operator != "-" {
		t.Fatalf("outer = %#v, want - infix", outer)
	}
	sum, ok := outer.Left.(*Infix)
	if !ok || sum.Operator != "+" {
		t.Fatalf("left = %#v, want + infix", outer.Left)
	}
	if prod, ok := sum.Right.(*Infix); !ok || prod.Operator != "*" {
		t.Errorf("sum.Right = %#v, want * infix", sum.Right)
	}

	or, ok := parseOne(t, "a && b || c == d").(*Infix)
	if !ok || or.Operator != "||" {
		t.Fatalf("got %#v, want || at the root", or)
	}
	if eq, ok := or.Right.(*Infix); !ok || eq.Operator != "==" {
		t.Errorf("or.Right = %#v, want ==", or.Right)
	}
}

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		input string
		op    string
	}{
		{"!x", "!"},
		{"-5", "-"},
		{"!!done", "!"},
	}
	for _, tc := range tests {
		pre, ok := parseOne(t, tc.input).(*Prefix)
		if !ok || pre.Operator != tc.op {
			t.Errorf("%q parsed as %#v", tc.input, pre)
		}
	}

	// Prefix binds tighter than infix.
	if inf, ok := parseOne(t, "-a + b").(*Infix); !ok {
		t.Errorf("-a + b parsed as %T, want *Infix", inf)
	} else if _, ok := inf.Left.(*Prefix); !ok {
		t.Errorf("-a + b left = %T, want *Prefix", inf.Left)
	}
}

func TestParseAssignIsRightAssociative(t *testing.T) {
	outer, ok := parseOne(t, "a = b = 1").(*Assign)
	if !ok {
		t.Fatal("expected *Assign")
	}
	if target, ok := outer.Target.(*Ident); !ok || target.Name != "a" {
		t.Errorf("target = %#v", outer.Target)
	}
	if _, ok := outer.Value.(*Assign); !ok {
		t.Errorf("value = %T, want nested *Assign", outer.Value)
	}
}

func TestParseLet(t *testing.T) {
	let, ok := parseOne(t, "let total = a + 1").(*Let)
	if !ok {
		t.Fatal("expected *Let")
	}
	if let.Name != "total" {
		t.Errorf("name = %q", let.Name)
	}
	if _, ok := let.Value.(*Infix); !ok {
		t.Errorf("value = %T, want *Infix", let.Value)
	}
}

func TestParsePostfix(t *testing.T) {
	call, ok := parseOne(t, "f(1, g(2))").(*Call)
	if !ok {
		t.Fatal("expected *Call")
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
	if _, ok := call.Args[1].(*Call); !ok {
		t.Errorf("arg 1 = %T, want *Call", call.Args[1])
	}

	idx, ok := parseOne(t, "xs[i + 1]").(*Index)
	if !ok {
		t.Fatal("expected *Index")
	}
	if _, ok := idx.Key.(*Infix); !ok {
		t.Errorf("key = %T, want *Infix", idx.Key)
	}

	acc, ok := parseOne(t, "a.b.c").(*Accessor)
	if !ok {
		t.Fatal("expected *Accessor")
	}
	if len(acc.Names) != 2 || acc.Names[0] != "b" || acc.Names[1] != "c" {
		t.Errorf("names = %v, want [b c]", acc.Names)
	}

	method, ok := parseOne(t, "console.log(1)").(*Call)
	if !ok {
		t.Fatal("expected *Call")
	}
	if _, ok := method.Callee.(*Accessor); !ok {
		t.Errorf("callee = %T, want *Accessor", method.Callee)
	}
}

func TestParseMacroCall(t *testing.T) {
	mc, ok := parseOne(t, `log!("a", 1)`).(*MacroCall)
	if !ok {
		t.Fatal("expected *MacroCall")
	}
	if name, ok := mc.Name.(*Ident); !ok || name.Name != "log" {
		t.Errorf("name = %#v", mc.Name)
	}
	if len(mc.Args) != 2 {
		t.Errorf("got %d args, want 2", len(mc.Args))
	}
}

func TestParseRegex(t *testing.T) {
	re, ok := parseOne(t, "/ab+c/gi").(*Regex)
	if !ok {
		t.Fatal("expected *Regex")
	}
	if pat, ok := re.Pattern.(*Ident); !ok || pat.Name != "ab+c" {
		t.Errorf("pattern = %#v", re.Pattern)
	}
	if re.Flags != "gi" {
		t.Errorf("flags = %q, want gi", re.Flags)
	}
}

func TestParseFunction(t *testing.T) {
	fn, ok := parseOne(t, "fn add(x, y): return x + y end").(*FuncLiteral)
	if !ok {
		t.Fatal("expected *FuncLiteral")
	}
	if fn.Name != "add" {
		t.Errorf("name = %q", fn.Name)
	}
	if len(fn.Params) != 2 || fn.Params[0] != "x" || fn.Params[1] != "y" {
		t.Errorf("params = %v", fn.Params)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("body has %d statements", len(fn.Body.Statements))
	}
	if _, ok := fn.Body.Statements[0].(*Return); !ok {
		t.Errorf("body[0] = %T, want *Return", fn.Body.Statements[0])
	}

	anon, ok := parseOne(t, "fn(): end").(*FuncLiteral)
	if !ok {
		t.Fatal("expected anonymous *FuncLiteral")
	}
	if anon.Name != "" || len(anon.Params) != 0 || len(anon.Body.Statements) != 0 {
		t.Errorf("anonymous = %#v", anon)
	}
}

func TestParseIfWhile(t *testing.T) {
	ifExpr, ok := parseOne(t, "if x > 1: f(x) else: g(x) end").(*If)
	if !ok {
		t.Fatal("expected *If")
	}
	if ifExpr.Alternative == nil {
		t.Fatal("missing else branch")
	}
	if len(ifExpr.Consequence.Statements) != 1 || len(ifExpr.Alternative.Statements) != 1 {
		t.Errorf("branches = %d/%d statements", len(ifExpr.Consequence.Statements), len(ifExpr.Alternative.Statements))
	}

	noElse, ok := parseOne(t, "if(ok): end").(*If)
	if !ok {
		t.Fatal("expected *If")
	}
	if noElse.Alternative != nil {
		t.Error("Alternative should be nil without else")
	}

	loop, ok := parseOne(t, "while(i < 3): i = i + 1; end").(*While)
	if !ok {
		t.Fatal("expected *While")
	}
	if len(loop.Body.Statements) != 1 {
		t.Errorf("body has %d statements, want 1", len(loop.Body.Statements))
	}
}

func TestParseSemicolonsAndSequence(t *testing.T) {
	p := NewParser("let a = 1;; let b = 2 ; a")
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("errors: %v", p.Errors())
	}
	if len(prog.Statements) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog.Statements))
	}
}

func TestParseErrorEndsWithBlank(t *testing.T) {
	p := NewParser("let a = 1; let = 2; let c = 3")
	prog := p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error")
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Statements))
	}
	if _, ok := prog.Statements[1].(*Blank); !ok {
		t.Errorf("last statement = %T, want *Blank", prog.Statements[1])
	}
	if p.Incomplete() {
		t.Error("error in the middle of input should not be incomplete")
	}
}

func TestParseIllegalTokenEndsWithBlank(t *testing.T) {
	p := NewParser("x @ y")
	prog := p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected an error for illegal character")
	}
	last := prog.Statements[len(prog.Statements)-1]
	if _, ok := last.(*Blank); !ok {
		t.Errorf("last statement = %T, want *Blank", last)
	}
}

func TestParseIncomplete(t *testing.T) {
	for _, input := range []string{"fn f(): ", "if x: f(x)", "let a =", "[1, 2"} {
		p := NewParser(input)
		p.ParseProgram()
		if len(p.Errors()) == 0 {
			t.Errorf("%q: expected an error", input)
			continue
		}
		if !p.Incomplete() {
			t.Errorf("%q: expected Incomplete", input)
		}
	}
}

func TestParseSpans(t *testing.T) {
	fn := parseOne(t, "fn f():\n  g()\nend").(*FuncLiteral)
	span := fn.Span()
	if span.Start.Line != 1 || span.End.Line != 3 {
		t.Errorf("span = %+v, want lines 1..3", span)
	}
	if !span.Contains(2) || span.Contains(4) {
		t.Errorf("Contains mismatch for %+v", span)
	}
}
