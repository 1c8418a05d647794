// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package lexer implements a single-pass, no-backtracking lexer for
// probescript.
//
// Design principles:
//   - One character of lookahead, never more
//   - Whitespace (space, tab, CR, LF) separates tokens and is otherwise dropped
//   - String literals use either quote character and decode a single level of
//     backslash escapes while scanning
//   - The first malformed input aborts tokenization; there is no recovery
package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/probechain/probescript/lang/token"
)

// Error is a lexical error. The message never includes the position; Pos is
// available to hosts that want to point at the offending input.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Lexer holds the state for a single-pass tokenization run.
type Lexer struct {
	input []byte

	// pos is the index into input of the next byte to be loaded into ch.
	// After advance(), ch == input[pos-1] and pos points one past it.
	pos  int
	line int // 1-based current line number
	col  int // 1-based current column number

	ch   byte // current character
	done bool // set once advance() runs past the last byte
}

// New creates a new Lexer for the given source text.
func New(input string) *Lexer {
	l := &Lexer{
		input: []byte(input),
		line:  1,
		col:   0,
	}
	l.advance() // prime l.ch with the first byte
	return l
}

// Tokenize lexes source in full. The returned slice always ends with exactly
// one EOF token.
func Tokenize(source string) ([]token.Token, error) {
	return New(source).Tokenize()
}

// advance moves to the next byte in the input, updating line/column tracking.
func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	if l.pos >= len(l.input) {
		l.ch = 0
		l.done = true
		l.pos = len(l.input) + 1
		return
	}
	l.ch = l.input[l.pos]
	l.pos++
}

// currentPos returns a token.Position capturing the lexer's state right now.
// Call this before consuming the first character of a token.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos - 1,
	}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func makeToken(typ token.Type, pos token.Position) token.Token {
	return token.Token{Type: typ, Pos: pos}
}

func (l *Lexer) skipWhitespace() {
	for !l.done && isWhitespace(l.ch) {
		l.advance()
	}
}

// NextToken scans and returns the next token from the input.
// After EOF is reached, subsequent calls continue returning EOF tokens.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	pos := l.currentPos()
	if l.done {
		return makeToken(token.EOF, pos), nil
	}
	ch := l.ch

	switch {
	case isDigit(ch):
		return l.readNumber(pos)
	case isIdentStart(ch):
		lit := l.readIdent()
		typ := token.IDENT
		if isKeyword(lit) {
			typ = token.LookupIdent(lit)
		}
		return token.Token{Type: typ, Literal: lit, Pos: pos}, nil
	case isQuote(ch):
		return l.readString(pos)
	}

	l.advance() // consume ch; from here on, l.ch is the character AFTER ch

	switch ch {
	// Operators resolved with one character of lookahead. Running out of
	// input before the second character is decided is an error.
	case '=':
		return l.either(pos, ch, '=', token.EQ, token.ASSIGN)
	case '!':
		return l.either(pos, ch, '=', token.NEQ, token.BANG)
	case '|':
		return l.either(pos, ch, '|', token.OR, token.PIPE)
	case '&':
		return l.either(pos, ch, '&', token.AND, token.AMP)
	case '>':
		if l.done {
			return token.Token{}, l.errorf(pos, "unexpected end of input after '>'")
		}
		switch l.ch {
		case '=':
			l.advance()
			return makeToken(token.GTE, pos), nil
		case '>':
			l.advance()
			return makeToken(token.RSHIFT, pos), nil
		}
		return makeToken(token.GT, pos), nil
	case '<':
		if l.done {
			return token.Token{}, l.errorf(pos, "unexpected end of input after '<'")
		}
		switch l.ch {
		case '=':
			l.advance()
			return makeToken(token.LTE, pos), nil
		case '<':
			l.advance()
			return makeToken(token.LSHIFT, pos), nil
		}
		return makeToken(token.LT, pos), nil
	case '^':
		if !l.done && l.ch == '^' {
			l.advance()
			return makeToken(token.XOR, pos), nil
		}
		return makeToken(token.CARET, pos), nil

	// Single-character tokens
	case '+':
		return makeToken(token.PLUS, pos), nil
	case '-':
		return makeToken(token.MINUS, pos), nil
	case '*':
		return makeToken(token.STAR, pos), nil
	case '/':
		return makeToken(token.SLASH, pos), nil
	case '~':
		return makeToken(token.TILDE, pos), nil
	case ';':
		return makeToken(token.SEMICOLON, pos), nil
	case ',':
		return makeToken(token.COMMA, pos), nil
	case '(':
		return makeToken(token.LPAREN, pos), nil
	case ')':
		return makeToken(token.RPAREN, pos), nil
	case '{':
		return makeToken(token.LBRACE, pos), nil
	case '}':
		return makeToken(token.RBRACE, pos), nil
	case '[':
		return makeToken(token.LBRACKET, pos), nil
	case ']':
		return makeToken(token.RBRACKET, pos), nil
	}

	r, _ := utf8.DecodeRune(l.input[pos.Offset:])
	return token.Token{}, l.errorf(pos, "unknown character '%c'", r)
}

// Tokenize returns all tokens (including the final EOF) produced by repeated
// calls to NextToken, or the first error encountered.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

// either resolves a two-character operator whose first character (already
// consumed) is first: when the next character is second the result is long,
// otherwise short.
func (l *Lexer) either(pos token.Position, first, second byte, long, short token.Type) (token.Token, error) {
	if l.done {
		return token.Token{}, l.errorf(pos, "unexpected end of input after '%c'", first)
	}
	if l.ch == second {
		l.advance()
		return makeToken(long, pos), nil
	}
	return makeToken(short, pos), nil
}

// readIdent consumes a run of identifier characters starting at l.ch.
func (l *Lexer) readIdent() string {
	buf := make([]byte, 0, 16)
	for !l.done && isIdentContinue(l.ch) {
		buf = append(buf, l.ch)
		l.advance()
	}
	return string(buf)
}

// readNumber consumes digits and at most one decimal point. A second point
// ends the literal and is left for the next token.
func (l *Lexer) readNumber(pos token.Position) (token.Token, error) {
	buf := make([]byte, 0, 24)
	point := false
	for !l.done && (isDigit(l.ch) || (l.ch == '.' && !point)) {
		if l.ch == '.' {
			point = true
		}
		buf = append(buf, l.ch)
		l.advance()
	}
	lit := string(buf)

	tok := token.Token{Literal: lit, Pos: pos}
	if point {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return token.Token{}, l.errorf(pos, "malformed number literal '%s'", lit)
		}
		tok.Type, tok.Float = token.FLOAT, f
		return tok, nil
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return token.Token{}, l.errorf(pos, "malformed number literal '%s'", lit)
	}
	tok.Type, tok.Int = token.INT, n
	return tok, nil
}

// readString reads a string literal opened by the quote at l.ch and closed by
// the same quote character. The token's Literal is the decoded body.
func (l *Lexer) readString(pos token.Position) (token.Token, error) {
	quote := l.ch
	l.advance() // consume opening quote

	buf := make([]byte, 0, 32)
	for {
		if l.done {
			return token.Token{}, l.errorf(pos, "unterminated string")
		}
		switch l.ch {
		case '\\':
			l.advance() // consume '\'
			if l.done {
				return token.Token{}, l.errorf(pos, "unterminated string")
			}
			if sub, ok := escapes[l.ch]; ok {
				buf = append(buf, sub)
			} else {
				buf = append(buf, l.ch)
			}
			l.advance()
		case quote:
			l.advance() // consume closing quote
			return token.Token{Type: token.STRING, Literal: string(buf), Pos: pos}, nil
		default:
			buf = append(buf, l.ch)
			l.advance()
		}
	}
}
