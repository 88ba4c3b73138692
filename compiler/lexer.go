package compiler

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Lexer: Tokenizer for uwu source
// ---------------------------------------------------------------------------

// Lexer tokenizes uwu source code.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      rune // current character
	line    int  // current line (1-based)
	col     int  // current column (1-based)

	prev    TokenType // type of the last token returned
	started bool      // true once a token has been returned
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else if l.pos < len(l.input) {
		l.col++
	}

	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
		l.pos = l.readPos
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// position returns the current position.
func (l *Lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	tok := l.scan()
	l.prev = tok.Type
	l.started = true
	return tok
}

func (l *Lexer) scan() Token {
	l.skipWhitespaceAndComments()

	pos := l.position()

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Literal: "", Pos: pos}

	case l.ch == '/' && l.regexAllowed():
		return l.readRegex(pos)

	case l.ch == '"' || l.ch == '\'':
		return l.readString(pos)

	case isDigit(l.ch):
		return l.readNumber(pos)

	case isIdentStart(l.ch):
		return l.readIdentifier(pos)
	}

	if tok, ok := l.readOperator(pos); ok {
		return tok
	}

	ch := l.ch
	l.readChar()
	return Token{Type: TokenIllegal, Literal: fmt.Sprintf("unexpected character: %c", ch), Pos: pos}
}

// singleChar maps one-character tokens that never start a longer token.
var singleChar = map[rune]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'%': TokenPercent,
	'(': TokenLParen,
	')': TokenRParen,
	'[': TokenLBracket,
	']': TokenRBracket,
	'{': TokenLBrace,
	'}': TokenRBrace,
	',': TokenComma,
	':': TokenColon,
	';': TokenSemicolon,
	'.': TokenDot,
}

// readOperator reads an operator or delimiter token.
func (l *Lexer) readOperator(pos Position) (Token, bool) {
	two := func(t TokenType, lit string) (Token, bool) {
		l.readChar()
		l.readChar()
		return Token{Type: t, Literal: lit, Pos: pos}, true
	}
	one := func(t TokenType) (Token, bool) {
		lit := string(l.ch)
		l.readChar()
		return Token{Type: t, Literal: lit, Pos: pos}, true
	}

	next := l.peekChar()
	switch l.ch {
	case '=':
		if next == '=' {
			return two(TokenEq, "==")
		}
		return one(TokenAssign)
	case '!':
		if next == '=' {
			return two(TokenNotEq, "!=")
		}
		return one(TokenBang)
	case '<':
		if next == '=' {
			return two(TokenLTE, "<=")
		}
		return one(TokenLT)
	case '>':
		if next == '=' {
			return two(TokenGTE, ">=")
		}
		return one(TokenGT)
	case '&':
		if next == '&' {
			return two(TokenAnd, "&&")
		}
	case '|':
		if next == '|' {
			return two(TokenOr, "||")
		}
	}

	if t, ok := singleChar[l.ch]; ok {
		return one(t)
	}
	return Token{}, false
}

// skipWhitespaceAndComments skips whitespace and # line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}

		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		break
	}
}

// regexAllowed reports whether a '/' at the current position begins a regex
// literal rather than a division. A regex may only appear where an operand
// is expected.
func (l *Lexer) regexAllowed() bool {
	if !l.started {
		return true
	}
	if l.prev.isOperator() {
		return true
	}
	switch l.prev {
	case TokenLParen, TokenLBracket, TokenLBrace, TokenComma, TokenColon, TokenSemicolon,
		TokenLet, TokenFn, TokenReturn, TokenIf, TokenElse, TokenWhile:
		return true
	}
	return false
}

// readRegex reads a regex literal /pattern/flags. The literal keeps the
// slashes and flags.
func (l *Lexer) readRegex(pos Position) Token {
	start := l.pos
	l.readChar() // consume opening /

	inClass := false
	for {
		switch {
		case l.ch == 0 || l.ch == '\n':
			return Token{Type: TokenIllegal, Literal: "unterminated regex", Pos: pos}
		case l.ch == '\\':
			l.readChar()
			if l.ch == 0 || l.ch == '\n' {
				return Token{Type: TokenIllegal, Literal: "unterminated regex", Pos: pos}
			}
		case l.ch == '[':
			inClass = true
		case l.ch == ']':
			inClass = false
		case l.ch == '/' && !inClass:
			l.readChar() // consume closing /
			for isLetter(l.ch) {
				l.readChar()
			}
			return Token{Type: TokenRegex, Literal: l.input[start:l.pos], Pos: pos}
		}
		l.readChar()
	}
}

// readString reads a string literal. The literal keeps its quotes; escapes
// are left untouched for the target language.
func (l *Lexer) readString(pos Position) Token {
	start := l.pos
	quote := l.ch
	l.readChar() // consume opening quote

	for l.ch != quote {
		if l.ch == 0 {
			return Token{Type: TokenIllegal, Literal: "unterminated string", Pos: pos}
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 {
				return Token{Type: TokenIllegal, Literal: "unterminated string", Pos: pos}
			}
		}
		l.readChar()
	}
	l.readChar() // consume closing quote

	return Token{Type: TokenString, Literal: l.input[start:l.pos], Pos: pos}
}

// readNumber reads an integer or float literal.
func (l *Lexer) readNumber(pos Position) Token {
	start := l.pos
	isFloat := false

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // consume .
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	if isFloat {
		return Token{Type: TokenFloat, Literal: l.input[start:l.pos], Pos: pos}
	}
	return Token{Type: TokenInteger, Literal: l.input[start:l.pos], Pos: pos}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(pos Position) Token {
	start := l.pos
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}

	literal := l.input[start:l.pos]
	if tokType, ok := keywords[literal]; ok {
		return Token{Type: tokType, Literal: literal, Pos: pos}
	}
	return Token{Type: TokenIdentifier, Literal: literal, Pos: pos}
}

// Helper functions

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}

func isIdentStart(r rune) bool {
	return isLetter(r) || r == '_' || r == '$'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenIllegal {
			break
		}
	}
	return tokens
}
