package compiler

import (
	"fmt"
	"strings"
)

// ParseError is returned when source text cannot be parsed.
type ParseError struct {
	Messages   []string
	Incomplete bool // input ended inside an unfinished construct
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse errors: %s", strings.Join(e.Messages, "; "))
}

// Parse parses source text into a Program.
func Parse(source string) (*Program, error) {
	p := NewParser(source)
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		return prog, &ParseError{Messages: p.Errors(), Incomplete: p.Incomplete()}
	}
	return prog, nil
}

// Compile parses source text and renders it with a fresh generator.
func Compile(source string, opts ...Option) (string, error) {
	prog, err := Parse(source)
	if err != nil {
		return "", err
	}
	return NewGenerator(opts...).Generate(prog), nil
}
