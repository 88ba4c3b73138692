package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Parser: Pratt parser for uwu syntax
// ---------------------------------------------------------------------------

// Operator precedence levels, lowest first.
const (
	precLowest = iota
	precAssign
	precOr
	precAnd
	precEquals
	precCompare
	precSum
	precProduct
	precPrefix
	precPostfix
)

var infixPrecedence = map[TokenType]int{
	TokenAssign:   precAssign,
	TokenOr:       precOr,
	TokenAnd:      precAnd,
	TokenEq:       precEquals,
	TokenNotEq:    precEquals,
	TokenLT:       precCompare,
	TokenGT:       precCompare,
	TokenLTE:      precCompare,
	TokenGTE:      precCompare,
	TokenPlus:     precSum,
	TokenMinus:    precSum,
	TokenStar:     precProduct,
	TokenSlash:    precProduct,
	TokenPercent:  precProduct,
	TokenLParen:   precPostfix,
	TokenLBracket: precPostfix,
	TokenDot:      precPostfix,
	TokenBang:     precPostfix, // only as name!(...)
}

// Parser parses uwu source code into an AST.
type Parser struct {
	lexer      *Lexer
	prevToken  Token
	curToken   Token
	peekToken  Token
	errors     []string
	incomplete bool
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
	}
	// Read two tokens to fill curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// curTokenIs checks if the current token is of the given type.
func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs checks if the peek token is of the given type.
func (p *Parser) peekTokenIs(t TokenType) bool {
	return p.peekToken.Type == t
}

// expect advances if the current token matches, otherwise records an error.
func (p *Parser) expect(t TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.curToken.Type)
	return false
}

// errorf records a parse error.
func (p *Parser) errorf(format string, args ...interface{}) {
	if p.curTokenIs(TokenEOF) {
		p.incomplete = true
	}
	msg := fmt.Sprintf("line %d: %s", p.curToken.Pos.Line, fmt.Sprintf(format, args...))
	p.errors = append(p.errors, msg)
}

// Errors returns accumulated parse errors.
func (p *Parser) Errors() []string {
	return p.errors
}

// Incomplete reports whether parsing failed because the input ended inside
// an unfinished construct.
func (p *Parser) Incomplete() bool {
	return p.incomplete
}

// endPos returns the position just past the last consumed token.
func (p *Parser) endPos() Position {
	pos := p.prevToken.Pos
	pos.Offset += len(p.prevToken.Literal)
	pos.Column += len(p.prevToken.Literal)
	return pos
}

// ---------------------------------------------------------------------------
// Top-level parsing
// ---------------------------------------------------------------------------

// ParseProgram parses a whole source file. A parse error ends the program
// with a Blank statement; nothing after it is parsed.
func (p *Parser) ParseProgram() *Program {
	start := p.curToken.Pos
	prog := &Program{}

	for !p.curTokenIs(TokenEOF) {
		if p.curTokenIs(TokenSemicolon) {
			p.nextToken()
			continue
		}

		pos := p.curToken.Pos
		stmt := p.ParseStatement()
		if stmt == nil {
			prog.Statements = append(prog.Statements, &Blank{SpanVal: MakeSpan(pos, pos)})
			break
		}
		prog.Statements = append(prog.Statements, stmt)
	}

	prog.SpanVal = MakeSpan(start, p.curToken.Pos)
	return prog
}

// ParseStatement parses a single statement. Returns nil on error.
func (p *Parser) ParseStatement() Stmt {
	var stmt Stmt

	switch p.curToken.Type {
	case TokenIllegal:
		p.errorf("%s", p.curToken.Literal)
		return nil
	case TokenReturn:
		ret := p.parseReturn()
		if ret == nil {
			return nil
		}
		stmt = ret
	default:
		expr := p.ParseExpression()
		if expr == nil {
			return nil
		}
		stmt = &ExprStmt{SpanVal: expr.Span(), Expr: expr}
	}

	// Semicolons are optional separators
	for p.curTokenIs(TokenSemicolon) {
		p.nextToken()
	}
	return stmt
}

// parseReturn parses return expr
func (p *Parser) parseReturn() *Return {
	startPos := p.curToken.Pos
	p.nextToken() // consume return

	value := p.ParseExpression()
	if value == nil {
		return nil
	}

	return &Return{
		SpanVal: MakeSpan(startPos, p.endPos()),
		Value:   value,
	}
}

// parseBlock parses statements up to (not including) end or else.
func (p *Parser) parseBlock() *Block {
	start := p.curToken.Pos
	block := &Block{}

	for !p.curTokenIs(TokenEnd) && !p.curTokenIs(TokenElse) {
		if p.curTokenIs(TokenEOF) {
			p.errorf("expected end, got EOF")
			return nil
		}
		if p.curTokenIs(TokenSemicolon) {
			p.nextToken()
			continue
		}
		stmt := p.ParseStatement()
		if stmt == nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
	}

	block.SpanVal = MakeSpan(start, p.curToken.Pos)
	return block
}

// ---------------------------------------------------------------------------
// Expression parsing
// ---------------------------------------------------------------------------

// ParseExpression parses a single expression.
func (p *Parser) ParseExpression() Expr {
	return p.parseExpression(precLowest)
}

func (p *Parser) parseExpression(prec int) Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for {
		next, ok := infixPrecedence[p.curToken.Type]
		if !ok || next <= prec {
			return left
		}
		if p.curTokenIs(TokenBang) {
			ident, isIdent := left.(*Ident)
			if !isIdent || !p.peekTokenIs(TokenLParen) {
				return left
			}
			left = p.parseMacroCall(ident)
		} else {
			left = p.parseInfix(left, next)
		}
		if left == nil {
			return nil
		}
	}
}

// parsePrefix parses an operand: literals, identifiers, prefix operators
// and the keyword-introduced expressions.
func (p *Parser) parsePrefix() Expr {
	switch p.curToken.Type {
	case TokenInteger:
		return p.parseInteger()
	case TokenFloat:
		return p.parseFloat()
	case TokenString:
		return p.parseString()
	case TokenRegex:
		return p.parseRegex()
	case TokenTrue, TokenFalse:
		return p.parseBool()
	case TokenIdentifier:
		return p.parseIdentifier()
	case TokenLParen:
		return p.parseParenExpr()
	case TokenLBracket:
		return p.parseArray()
	case TokenLBrace:
		return p.parseMap()
	case TokenBang, TokenMinus:
		return p.parsePrefixOp()
	case TokenLet:
		return p.parseLet()
	case TokenFn:
		return p.parseFunc()
	case TokenIf:
		return p.parseIf()
	case TokenWhile:
		return p.parseWhile()
	case TokenIllegal:
		p.errorf("%s", p.curToken.Literal)
		return nil
	default:
		p.errorf("unexpected token: %s", p.curToken.Type)
		return nil
	}
}

// parseInfix parses binary operators, assignment and the postfix forms.
func (p *Parser) parseInfix(left Expr, prec int) Expr {
	start := left.Span().Start

	switch p.curToken.Type {
	case TokenLParen:
		return p.parseCall(left)
	case TokenLBracket:
		return p.parseIndex(left)
	case TokenDot:
		return p.parseAccessor(left)
	case TokenAssign:
		p.nextToken()
		// Right associative
		value := p.parseExpression(precLowest)
		if value == nil {
			return nil
		}
		return &Assign{SpanVal: MakeSpan(start, p.endPos()), Target: left, Value: value}
	}

	op := p.curToken.Literal
	p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &Infix{
		SpanVal:  MakeSpan(start, p.endPos()),
		Operator: op,
		Left:     left,
		Right:    right,
	}
}

func (p *Parser) parsePrefixOp() Expr {
	pos := p.curToken.Pos
	op := p.curToken.Literal
	p.nextToken()

	operand := p.parseExpression(precPrefix)
	if operand == nil {
		return nil
	}
	return &Prefix{SpanVal: MakeSpan(pos, p.endPos()), Operator: op, Operand: operand}
}

func (p *Parser) parseCall(callee Expr) Expr {
	args, ok := p.parseExprList(TokenLParen, TokenRParen)
	if !ok {
		return nil
	}
	return &Call{SpanVal: MakeSpan(callee.Span().Start, p.endPos()), Callee: callee, Args: args}
}

func (p *Parser) parseMacroCall(name *Ident) Expr {
	p.nextToken() // consume !
	args, ok := p.parseExprList(TokenLParen, TokenRParen)
	if !ok {
		return nil
	}
	return &MacroCall{SpanVal: MakeSpan(name.Span().Start, p.endPos()), Name: name, Args: args}
}

func (p *Parser) parseIndex(base Expr) Expr {
	p.nextToken() // consume [
	key := p.ParseExpression()
	if key == nil {
		return nil
	}
	if !p.expect(TokenRBracket) {
		return nil
	}
	return &Index{SpanVal: MakeSpan(base.Span().Start, p.endPos()), Base: base, Key: key}
}

func (p *Parser) parseAccessor(base Expr) Expr {
	var names []string
	for p.curTokenIs(TokenDot) {
		p.nextToken() // consume .
		if !p.curTokenIs(TokenIdentifier) {
			p.errorf("expected member name after '.', got %s", p.curToken.Type)
			return nil
		}
		names = append(names, p.curToken.Literal)
		p.nextToken()
	}
	return &Accessor{SpanVal: MakeSpan(base.Span().Start, p.endPos()), Base: base, Names: names}
}

// parseExprList parses open expr, expr, ... close.
func (p *Parser) parseExprList(open, close TokenType) ([]Expr, bool) {
	if !p.expect(open) {
		return nil, false
	}

	var list []Expr
	for !p.curTokenIs(close) {
		expr := p.ParseExpression()
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)

		if !p.curTokenIs(TokenComma) {
			break
		}
		p.nextToken() // consume ,
	}

	if !p.expect(close) {
		return nil, false
	}
	return list, true
}

// ---------------------------------------------------------------------------
// Literal parsing
// ---------------------------------------------------------------------------

func (p *Parser) parseInteger() Expr {
	pos := p.curToken.Pos
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf("invalid integer: %s", p.curToken.Literal)
		return nil
	}
	p.nextToken()
	return &IntLiteral{SpanVal: MakeSpan(pos, p.endPos()), Value: value}
}

func (p *Parser) parseFloat() Expr {
	pos := p.curToken.Pos
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf("invalid float: %s", p.curToken.Literal)
		return nil
	}
	p.nextToken()
	return &FloatLiteral{SpanVal: MakeSpan(pos, p.endPos()), Value: value}
}

func (p *Parser) parseString() Expr {
	pos := p.curToken.Pos
	value := p.curToken.Literal
	p.nextToken()
	return &StringLiteral{SpanVal: MakeSpan(pos, p.endPos()), Value: value}
}

func (p *Parser) parseBool() Expr {
	pos := p.curToken.Pos
	value := p.curTokenIs(TokenTrue)
	p.nextToken()
	return &BoolLiteral{SpanVal: MakeSpan(pos, p.endPos()), Value: value}
}

// parseRegex splits /pattern/flags at the closing slash.
func (p *Parser) parseRegex() Expr {
	pos := p.curToken.Pos
	lit := p.curToken.Literal
	p.nextToken()

	closing := strings.LastIndex(lit, "/")
	pattern := &Ident{SpanVal: MakeSpan(pos, pos), Name: lit[1:closing]}
	return &Regex{
		SpanVal: MakeSpan(pos, p.endPos()),
		Pattern: pattern,
		Flags:   lit[closing+1:],
	}
}

func (p *Parser) parseIdentifier() Expr {
	pos := p.curToken.Pos
	name := p.curToken.Literal
	p.nextToken()
	return &Ident{SpanVal: MakeSpan(pos, p.endPos()), Name: name}
}

func (p *Parser) parseParenExpr() Expr {
	p.nextToken() // consume (
	expr := p.ParseExpression()
	if expr == nil {
		return nil
	}
	if !p.expect(TokenRParen) {
		return nil
	}
	return expr
}

func (p *Parser) parseArray() Expr {
	pos := p.curToken.Pos
	elements, ok := p.parseExprList(TokenLBracket, TokenRBracket)
	if !ok {
		return nil
	}
	return &ArrayLiteral{SpanVal: MakeSpan(pos, p.endPos()), Elements: elements}
}

func (p *Parser) parseMap() Expr {
	pos := p.curToken.Pos
	p.nextToken() // consume {

	var entries []MapEntry
	for !p.curTokenIs(TokenRBrace) {
		key := p.ParseExpression()
		if key == nil {
			return nil
		}
		if !p.expect(TokenColon) {
			return nil
		}
		value := p.ParseExpression()
		if value == nil {
			return nil
		}
		entries = append(entries, MapEntry{Key: key, Value: value})

		if !p.curTokenIs(TokenComma) {
			break
		}
		p.nextToken() // consume ,
	}

	if !p.expect(TokenRBrace) {
		return nil
	}
	return &MapLiteral{SpanVal: MakeSpan(pos, p.endPos()), Entries: entries}
}

// ---------------------------------------------------------------------------
// Keyword expressions
// ---------------------------------------------------------------------------

// parseLet parses let name = value
func (p *Parser) parseLet() Expr {
	pos := p.curToken.Pos
	p.nextToken() // consume let

	if !p.curTokenIs(TokenIdentifier) {
		p.errorf("expected name after let, got %s", p.curToken.Type)
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(TokenAssign) {
		return nil
	}

	value := p.ParseExpression()
	if value == nil {
		return nil
	}
	return &Let{SpanVal: MakeSpan(pos, p.endPos()), Name: name, Value: value}
}

// parseFunc parses fn [name](params): body end
func (p *Parser) parseFunc() Expr {
	pos := p.curToken.Pos
	p.nextToken() // consume fn

	var name string
	if p.curTokenIs(TokenIdentifier) {
		name = p.curToken.Literal
		p.nextToken()
	}

	if !p.expect(TokenLParen) {
		return nil
	}
	var params []string
	for !p.curTokenIs(TokenRParen) {
		if !p.curTokenIs(TokenIdentifier) {
			p.errorf("expected parameter name, got %s", p.curToken.Type)
			return nil
		}
		params = append(params, p.curToken.Literal)
		p.nextToken()

		if !p.curTokenIs(TokenComma) {
			break
		}
		p.nextToken() // consume ,
	}
	if !p.expect(TokenRParen) || !p.expect(TokenColon) {
		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	if !p.expect(TokenEnd) {
		return nil
	}

	return &FuncLiteral{
		SpanVal: MakeSpan(pos, p.endPos()),
		Name:    name,
		Params:  params,
		Body:    body,
	}
}

// parseWhile parses while cond: body end
func (p *Parser) parseWhile() Expr {
	pos := p.curToken.Pos
	p.nextToken() // consume while

	cond := p.ParseExpression()
	if cond == nil {
		return nil
	}
	if !p.expect(TokenColon) {
		return nil
	}

	body := p.parseBlock()
	if body == nil {
		return nil
	}
	if !p.expect(TokenEnd) {
		return nil
	}

	return &While{SpanVal: MakeSpan(pos, p.endPos()), Cond: cond, Body: body}
}

// parseIf parses if cond: body [else: alternative] end
func (p *Parser) parseIf() Expr {
	pos := p.curToken.Pos
	p.nextToken() // consume if

	cond := p.ParseExpression()
	if cond == nil {
		return nil
	}
	if !p.expect(TokenColon) {
		return nil
	}

	consequence := p.parseBlock()
	if consequence == nil {
		return nil
	}

	var alternative *Block
	if p.curTokenIs(TokenElse) {
		p.nextToken() // consume else
		if !p.expect(TokenColon) {
			return nil
		}
		alternative = p.parseBlock()
		if alternative == nil {
			return nil
		}
		if p.curTokenIs(TokenElse) {
			p.errorf("unexpected else")
			return nil
		}
	}

	if !p.expect(TokenEnd) {
		return nil
	}

	return &If{
		SpanVal:     MakeSpan(pos, p.endPos()),
		Cond:        cond,
		Consequence: consequence,
		Alternative: alternative,
	}
}
