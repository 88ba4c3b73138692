package compiler

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the uwu lexer
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenInteger    // 42
	TokenFloat      // 3.14, 1.5e10
	TokenString     // "hello", 'hello'
	TokenRegex      // /ab+c/gi
	TokenIdentifier // foo, bar_2

	// Operators
	TokenAssign   // =
	TokenPlus     // +
	TokenMinus    // -
	TokenStar     // *
	TokenSlash    // /
	TokenPercent  // %
	TokenBang     // !
	TokenEq       // ==
	TokenNotEq    // !=
	TokenLT       // <
	TokenGT       // >
	TokenLTE      // <=
	TokenGTE      // >=
	TokenAnd      // &&
	TokenOr       // ||

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenLBrace    // {
	TokenRBrace    // }
	TokenComma     // ,
	TokenColon     // :
	TokenSemicolon // ;
	TokenDot       // .

	// Keywords
	TokenLet
	TokenFn
	TokenReturn
	TokenIf
	TokenElse
	TokenWhile
	TokenEnd
	TokenTrue
	TokenFalse
)

var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenIllegal:    "ILLEGAL",
	TokenInteger:    "INTEGER",
	TokenFloat:      "FLOAT",
	TokenString:     "STRING",
	TokenRegex:      "REGEX",
	TokenIdentifier: "IDENTIFIER",
	TokenAssign:     "=",
	TokenPlus:       "+",
	TokenMinus:      "-",
	TokenStar:       "*",
	TokenSlash:      "/",
	TokenPercent:    "%",
	TokenBang:       "!",
	TokenEq:         "==",
	TokenNotEq:      "!=",
	TokenLT:         "<",
	TokenGT:         ">",
	TokenLTE:        "<=",
	TokenGTE:        ">=",
	TokenAnd:        "&&",
	TokenOr:         "||",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBracket:   "[",
	TokenRBracket:   "]",
	TokenLBrace:     "{",
	TokenRBrace:     "}",
	TokenComma:      ",",
	TokenColon:      ":",
	TokenSemicolon:  ";",
	TokenDot:        ".",
	TokenLet:        "let",
	TokenFn:         "fn",
	TokenReturn:     "return",
	TokenIf:         "if",
	TokenElse:       "else",
	TokenWhile:      "while",
	TokenEnd:        "end",
	TokenTrue:       "true",
	TokenFalse:      "false",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string   // the raw text
	Pos     Position // start position
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	if t.Type == TokenIllegal {
		return fmt.Sprintf("ILLEGAL(%s)", t.Literal)
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Type, t.Literal[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}

// Keywords mapped to their token types.
var keywords = map[string]TokenType{
	"let":    TokenLet,
	"fn":     TokenFn,
	"return": TokenReturn,
	"if":     TokenIf,
	"else":   TokenElse,
	"while":  TokenWhile,
	"end":    TokenEnd,
	"true":   TokenTrue,
	"false":  TokenFalse,
}

// Keywords returns the reserved words of the language.
func Keywords() []string {
	return []string{"let", "fn", "return", "if", "else", "while", "end", "true", "false"}
}

// isOperator reports whether t is an infix or prefix operator token.
func (t TokenType) isOperator() bool {
	return t >= TokenAssign && t <= TokenOr
}
