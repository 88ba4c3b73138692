package compiler

import (
	"testing"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `( ) [ ] { } , : ; .`
	expected := []struct {
		typ TokenType
		lit string
	}{
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBracket, "["},
		{TokenRBracket, "]"},
		{TokenLBrace, "{"},
		{TokenRBrace, "}"},
		{TokenComma, ","},
		{TokenColon, ":"},
		{TokenSemicolon, ";"},
		{TokenDot, "."},
		{TokenEOF, ""},
	}

	l := NewLexer(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.typ {
			t.Errorf("token[%d] type = %v, want %v", i, tok.Type, exp.typ)
		}
		if tok.Literal != exp.lit {
			t.Errorf("token[%d] literal = %q, want %q", i, tok.Literal, exp.lit)
		}
	}
}

func TestLexerOperators(t *testing.T) {
	input := `a = b == c != d < e > f <= g >= h && i || j + k - l * m / n % o !p`
	want := []TokenType{
		TokenIdentifier, TokenAssign, TokenIdentifier, TokenEq, TokenIdentifier,
		TokenNotEq, TokenIdentifier, TokenLT, TokenIdentifier, TokenGT, TokenIdentifier,
		TokenLTE, TokenIdentifier, TokenGTE, TokenIdentifier, TokenAnd, TokenIdentifier,
		TokenOr, TokenIdentifier, TokenPlus, TokenIdentifier, TokenMinus, TokenIdentifier,
		TokenStar, TokenIdentifier, TokenSlash, TokenIdentifier, TokenPercent, TokenIdentifier,
		TokenBang, TokenIdentifier, TokenEOF,
	}

	tokens := Tokenize(input)
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, typ := range want {
		if tokens[i].Type != typ {
			t.Errorf("token[%d] = %v, want %v", i, tokens[i], typ)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
		want  string
	}{
		{"42", TokenInteger, "42"},
		{"0", TokenInteger, "0"},
		{"3.14", TokenFloat, "3.14"},
		{"1e10", TokenFloat, "1e10"},
		{"1.5e-3", TokenFloat, "1.5e-3"},
		{"2E+5", TokenFloat, "2E+5"},
	}

	for _, tc := range tests {
		tok := NewLexer(tc.input).NextToken()
		if tok.Type != tc.typ {
			t.Errorf("Lexer(%q): type = %v, want %v", tc.input, tok.Type, tc.typ)
		}
		if tok.Literal != tc.want {
			t.Errorf("Lexer(%q): literal = %q, want %q", tc.input, tok.Literal, tc.want)
		}
	}
}

func TestLexerIntegerFollowedByDot(t *testing.T) {
	tokens := Tokenize("1.foo")
	if tokens[0].Type != TokenInteger || tokens[1].Type != TokenDot || tokens[2].Type != TokenIdentifier {
		t.Errorf("tokens = %v, want INTEGER . IDENTIFIER", tokens)
	}
}

func TestLexerStringsKeepQuotes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello world"`, `"hello world"`},
		{`'single'`, `'single'`},
		{`""`, `""`},
		{`"say \"hi\""`, `"say \"hi\""`},
	}

	for _, tc := range tests {
		tok := NewLexer(tc.input).NextToken()
		if tok.Type != TokenString {
			t.Errorf("Lexer(%q): type = %v, want STRING", tc.input, tok.Type)
		}
		if tok.Literal != tc.want {
			t.Errorf("Lexer(%q): literal = %q, want %q", tc.input, tok.Literal, tc.want)
		}
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	tok := NewLexer(`"open`).NextToken()
	if tok.Type != TokenIllegal {
		t.Errorf("type = %v, want ILLEGAL", tok.Type)
	}
}

func TestLexerKeywords(t *testing.T) {
	for _, kw := range Keywords() {
		tok := NewLexer(kw).NextToken()
		if tok.Type != keywords[kw] {
			t.Errorf("Lexer(%q): type = %v, want %v", kw, tok.Type, keywords[kw])
		}
	}

	tok := NewLexer("letter").NextToken()
	if tok.Type != TokenIdentifier {
		t.Errorf("Lexer(letter): type = %v, want IDENTIFIER", tok.Type)
	}
}

func TestLexerIdentifiers(t *testing.T) {
	for _, input := range []string{"foo", "_private", "$el", "café", "x2"} {
		tok := NewLexer(input).NextToken()
		if tok.Type != TokenIdentifier || tok.Literal != input {
			t.Errorf("Lexer(%q) = %v, want IDENTIFIER(%q)", input, tok, input)
		}
	}
}

func TestLexerRegexVersusDivision(t *testing.T) {
	tests := []struct {
		input string
		want  []TokenType
	}{
		{"/ab+c/gi", []TokenType{TokenRegex, TokenEOF}},
		{"a / b", []TokenType{TokenIdentifier, TokenSlash, TokenIdentifier, TokenEOF}},
		{"x = /a/", []TokenType{TokenIdentifier, TokenAssign, TokenRegex, TokenEOF}},
		{"1 / 2 / 3", []TokenType{TokenInteger, TokenSlash, TokenInteger, TokenSlash, TokenInteger, TokenEOF}},
		{"f(/x/)", []TokenType{TokenIdentifier, TokenLParen, TokenRegex, TokenRParen, TokenEOF}},
		{"(a) / 2", []TokenType{TokenLParen, TokenIdentifier, TokenRParen, TokenSlash, TokenInteger, TokenEOF}},
	}

	for _, tc := range tests {
		tokens := Tokenize(tc.input)
		if len(tokens) != len(tc.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.input, tokens, tc.want)
			continue
		}
		for i, typ := range tc.want {
			if tokens[i].Type != typ {
				t.Errorf("Tokenize(%q)[%d] = %v, want %v", tc.input, i, tokens[i], typ)
			}
		}
	}
}

func TestLexerRegexLiteral(t *testing.T) {
	tok := NewLexer(`/[a/b]+\/x/m`).NextToken()
	if tok.Type != TokenRegex {
		t.Fatalf("type = %v, want REGEX", tok.Type)
	}
	if tok.Literal != `/[a/b]+\/x/m` {
		t.Errorf("literal = %q", tok.Literal)
	}

	tok = NewLexer("/open\n/").NextToken()
	if tok.Type != TokenIllegal {
		t.Errorf("unterminated regex type = %v, want ILLEGAL", tok.Type)
	}
}

func TestLexerComments(t *testing.T) {
	tokens := Tokenize("# a comment\nfoo # trailing\n# last")
	if len(tokens) != 2 {
		t.Fatalf("got %v, want IDENTIFIER EOF", tokens)
	}
	if tokens[0].Literal != "foo" {
		t.Errorf("token[0] = %v, want foo", tokens[0])
	}
}

func TestLexerPositions(t *testing.T) {
	l := NewLexer("let a\n  = 1")
	want := []Position{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 4, Line: 1, Column: 5},
		{Offset: 8, Line: 2, Column: 3},
		{Offset: 10, Line: 2, Column: 5},
	}
	for i, pos := range want {
		tok := l.NextToken()
		if tok.Pos != pos {
			t.Errorf("token[%d] %v pos = %+v, want %+v", i, tok, tok.Pos, pos)
		}
	}
}

func TestLexerIllegal(t *testing.T) {
	tokens := Tokenize("a @ b")
	last := tokens[len(tokens)-1]
	if last.Type != TokenIllegal {
		t.Errorf("last token = %v, want ILLEGAL", last)
	}
	if len(tokens) != 2 {
		t.Errorf("Tokenize stops at ILLEGAL, got %v", tokens)
	}
}
