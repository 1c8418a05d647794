// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package parser implements a recursive-descent parser for probescript.
//
// Design overview:
//
//   - Every precedence level is its own method; binary levels share one
//     generic routine that is handed the level's operator set.
//   - Binary levels fold to the left, except power which re-enters itself for
//     its right operand and is therefore right-associative.
//   - The first error aborts the parse. There is no recovery and no
//     multi-error reporting.
//
// Precedence, lowest to highest:
//
//	statements        a; b
//	dispatch          let, function, if, while
//	combination       &  |  ^^  &&  ||
//	comparison        ==  !=  >  >=  <  <=
//	shift             <<  >>
//	not               !x  ~x
//	additive          +  -
//	multiplicative    *  /
//	power             ^   (right-assoc)
//	sign              +x  -x
//	call              f(a, b)
//	list              [a, b]
//	group             (e)
//	atom              literal, identifier, end of input
package parser

import (
	"fmt"

	"github.com/probechain/probescript/lang/ast"
	"github.com/probechain/probescript/lang/lexer"
	"github.com/probechain/probescript/lang/token"
)

// Operator sets for the binary levels.
var (
	combinationOps    = []token.Type{token.AMP, token.PIPE, token.XOR, token.AND, token.OR}
	comparisonOps     = []token.Type{token.EQ, token.NEQ, token.GT, token.GTE, token.LT, token.LTE}
	shiftOps          = []token.Type{token.LSHIFT, token.RSHIFT}
	additiveOps       = []token.Type{token.PLUS, token.MINUS}
	multiplicativeOps = []token.Type{token.STAR, token.SLASH}
	powerOps          = []token.Type{token.CARET}
)

// Error is a syntax error. Like lexer errors it carries a message only; Pos
// is kept for hosts that want it.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Parser holds the mutable state for a single parse run.
type Parser struct {
	tokens []token.Token
	idx    int

	cur  token.Token // current token
	prev token.Type  // type of the most recently consumed token
}

// parseFunc parses one precedence level.
type parseFunc func() (ast.Node, error)

// New creates a parser over a token stream as produced by lexer.Tokenize.
func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens, prev: token.ILLEGAL}
	p.cur = p.at(0)
	return p
}

// Parse is the public entry point. It parses a whole program and requires the
// token stream to be consumed up to EOF.
func Parse(tokens []token.Token) (*ast.StatementBlock, error) {
	return New(tokens).ParseProgram()
}

// ParseSource tokenises source and parses the result.
func ParseSource(source string) (*ast.StatementBlock, error) {
	toks, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

// ParseProgram parses the top-level statement block.
func (p *Parser) ParseProgram() (*ast.StatementBlock, error) {
	block, err := p.parseBlock(token.EOF)
	if err != nil {
		return nil, err
	}
	if !p.curIs(token.EOF) {
		return nil, p.errorf(p.cur.Pos, "unexpected token %s", describe(p.cur))
	}
	return block, nil
}

// ---------------------------------------------------------------------------
// Token navigation helpers
// ---------------------------------------------------------------------------

// at returns the i-th token, or a synthetic EOF past the end of the stream.
func (p *Parser) at(i int) token.Token {
	if i < len(p.tokens) {
		return p.tokens[i]
	}
	var pos token.Position
	if n := len(p.tokens); n > 0 {
		pos = p.tokens[n-1].Pos
	}
	return token.Token{Type: token.EOF, Pos: pos}
}

// advance moves to the next token. EOF is sticky.
func (p *Parser) advance() {
	p.prev = p.cur.Type
	if p.cur.Type == token.EOF {
		return
	}
	p.idx++
	p.cur = p.at(p.idx)
}

// curIs returns true if the current token has the given type.
func (p *Parser) curIs(typ token.Type) bool { return p.cur.Type == typ }

func (p *Parser) curIn(types []token.Type) bool {
	for _, t := range types {
		if p.cur.Type == t {
			return true
		}
	}
	return false
}

// expect consumes the current token if it matches typ, otherwise it fails
// without consuming anything.
func (p *Parser) expect(typ token.Type) (token.Token, error) {
	if p.cur.Type != typ {
		return p.cur, p.errorf(p.cur.Pos, "expected %s, found %s", expected(typ), describe(p.cur))
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// describe renders a found token for diagnostics.
func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return tok.String()
	}
	return "'" + tok.String() + "'"
}

// expected renders a wanted token type for diagnostics.
func expected(typ token.Type) string {
	if typ == token.IDENT {
		return "identifier"
	}
	return "'" + typ.String() + "'"
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// parseBlock parses statements until end (or EOF). Statements are separated
// by one or more semicolons; a statement that ends with a closing brace needs
// no separator. The terminator itself is left for the caller.
func (p *Parser) parseBlock(end token.Type) (*ast.StatementBlock, error) {
	block := &ast.StatementBlock{Token: p.cur}
	for p.curIs(token.SEMICOLON) {
		p.advance()
	}
	for !p.curIs(end) && !p.curIs(token.EOF) {
		stmt, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
		block.Trailing = false

		if p.curIs(token.SEMICOLON) {
			for p.curIs(token.SEMICOLON) {
				p.advance()
			}
			block.Trailing = true
			continue
		}
		if p.prev != token.RBRACE {
			break
		}
	}
	return block, nil
}

// parseBody parses the body of an if/else/while: a brace block or a single
// expression.
func (p *Parser) parseBody() (ast.Node, error) {
	switch p.cur.Type {
	case token.EOF:
		return nil, p.errorf(p.cur.Pos, "unexpected end of input")
	case token.LBRACE:
		return p.parseBraced()
	}
	return p.parseExpression()
}

func (p *Parser) parseBraced() (*ast.StatementBlock, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	block, err := p.parseBlock(token.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

// ---------------------------------------------------------------------------
// Keyword dispatch
// ---------------------------------------------------------------------------

// parseExpression is the dispatch level: keyword forms, else an operator
// expression.
func (p *Parser) parseExpression() (ast.Node, error) {
	switch p.cur.Type {
	case token.LET:
		return p.parseVarDef()
	case token.FUNCTION:
		return p.parseFuncDef()
	case token.IF:
		return p.parseConditional()
	case token.WHILE:
		return p.parseWhileLoop()
	}
	return p.parseCombination()
}

func (p *Parser) parseVarDef() (ast.Node, error) {
	def := &ast.VarDef{Token: p.cur}
	p.advance() // consume 'let'

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	def.Name = name.Literal
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	if def.Value, err = p.parseExpression(); err != nil {
		return nil, err
	}
	return def, nil
}

func (p *Parser) parseFuncDef() (ast.Node, error) {
	fn := &ast.FuncDef{Token: p.cur}
	p.advance() // consume 'function'

	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	fn.Name = name.Literal

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	fn.Params = []string{}
	if !p.curIs(token.RPAREN) {
		for {
			param, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, param.Literal)
			if !p.curIs(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if fn.Body, err = p.parseBraced(); err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *Parser) parseConditional() (ast.Node, error) {
	cond := &ast.Conditional{Token: p.cur}
	p.advance() // consume 'if'

	var err error
	if cond.Cond, err = p.parseCondition(); err != nil {
		return nil, err
	}
	if cond.Then, err = p.parseBody(); err != nil {
		return nil, err
	}
	if !p.curIs(token.ELSE) {
		cond.Else = &ast.Empty{Token: p.cur}
		return cond, nil
	}
	p.advance() // consume 'else'
	if cond.Else, err = p.parseBody(); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseWhileLoop() (ast.Node, error) {
	loop := &ast.WhileLoop{Token: p.cur}
	p.advance() // consume 'while'

	var err error
	if loop.Cond, err = p.parseCondition(); err != nil {
		return nil, err
	}
	if loop.Body, err = p.parseBody(); err != nil {
		return nil, err
	}
	return loop, nil
}

// parseCondition parses the parenthesised condition of if and while.
func (p *Parser) parseCondition() (ast.Node, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return cond, nil
}

// ---------------------------------------------------------------------------
// Operator levels
// ---------------------------------------------------------------------------

// binaryOp parses one binary level. left parses the level above; right parses
// each right operand. Passing the same function for both folds to the left.
func (p *Parser) binaryOp(left, right parseFunc, ops []token.Type) (ast.Node, error) {
	lhs, err := left()
	if err != nil {
		return nil, err
	}
	for p.curIn(ops) {
		op := p.cur
		p.advance()
		rhs, err := right()
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryOp{Token: op, Left: lhs, Op: op.Type, Right: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseCombination() (ast.Node, error) {
	return p.binaryOp(p.parseComparison, p.parseComparison, combinationOps)
}

func (p *Parser) parseComparison() (ast.Node, error) {
	return p.binaryOp(p.parseShift, p.parseShift, comparisonOps)
}

func (p *Parser) parseShift() (ast.Node, error) {
	return p.binaryOp(p.parseNot, p.parseNot, shiftOps)
}

// parseNot handles the prefix ! and ~ operators, which bind looser than
// arithmetic: !a + b is !(a + b).
func (p *Parser) parseNot() (ast.Node, error) {
	if p.curIs(token.BANG) || p.curIs(token.TILDE) {
		return p.parsePrefix(p.parseNot)
	}
	return p.parseAdditive()
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	return p.binaryOp(p.parseMultiplicative, p.parseMultiplicative, additiveOps)
}

func (p *Parser) parseMultiplicative() (ast.Node, error) {
	return p.binaryOp(p.parsePower, p.parsePower, multiplicativeOps)
}

// parsePower re-enters itself for the right operand, so 2 ^ 3 ^ 2 groups as
// 2 ^ (3 ^ 2).
func (p *Parser) parsePower() (ast.Node, error) {
	return p.binaryOp(p.parseSign, p.parsePower, powerOps)
}

func (p *Parser) parseSign() (ast.Node, error) {
	if p.curIs(token.PLUS) || p.curIs(token.MINUS) {
		return p.parsePrefix(p.parseSign)
	}
	return p.parseCall()
}

func (p *Parser) parsePrefix(operand parseFunc) (ast.Node, error) {
	op := p.cur
	p.advance()
	x, err := operand()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{Token: op, Op: op.Type, Operand: x}, nil
}

// ---------------------------------------------------------------------------
// Postfix and primaries
// ---------------------------------------------------------------------------

func (p *Parser) parseCall() (ast.Node, error) {
	callee, err := p.parseList()
	if err != nil {
		return nil, err
	}
	for p.curIs(token.LPAREN) {
		call := &ast.FuncCall{Token: p.cur, Callee: callee}
		p.advance() // consume '('
		if call.Args, err = p.parseSequence(token.RPAREN); err != nil {
			return nil, err
		}
		callee = call
	}
	return callee, nil
}

func (p *Parser) parseList() (ast.Node, error) {
	if !p.curIs(token.LBRACKET) {
		return p.parseGroup()
	}
	list := &ast.ListLiteral{Token: p.cur}
	p.advance() // consume '['
	var err error
	if list.Elements, err = p.parseSequence(token.RBRACKET); err != nil {
		return nil, err
	}
	return list, nil
}

// parseSequence parses a comma separated expression list up to and including
// the closing delimiter. Trailing commas are rejected.
func (p *Parser) parseSequence(closer token.Type) ([]ast.Node, error) {
	items := []ast.Node{}
	if p.curIs(closer) {
		p.advance()
		return items, nil
	}
	for {
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.curIs(token.COMMA) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(closer); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *Parser) parseGroup() (ast.Node, error) {
	if !p.curIs(token.LPAREN) {
		return p.parseAtom()
	}
	p.advance() // consume '('
	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return inner, nil
}

func (p *Parser) parseAtom() (ast.Node, error) {
	tok := p.cur
	switch tok.Type {
	case token.INT:
		p.advance()
		return &ast.IntLiteral{Token: tok, Value: tok.Int}, nil
	case token.FLOAT:
		p.advance()
		return &ast.FloatLiteral{Token: tok, Value: tok.Float}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}, nil
	case token.IDENT:
		p.advance()
		return &ast.VarAccess{Token: tok, Name: tok.Literal}, nil
	case token.EOF:
		// Not consumed: callers further up still need to see EOF.
		return &ast.EOFMarker{Token: tok}, nil
	}
	return nil, p.errorf(tok.Pos, "unexpected token %s", describe(tok))
}
