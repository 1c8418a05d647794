// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package token defines the lexical token types for probescript.
package token

import (
	"fmt"
	"strconv"
)

// Token represents a lexical token.
//
// Literal holds the identifier or keyword text, the decoded string body, or
// the source text of a number. Numeric tokens also carry their parsed value
// in Int or Float. Punctuation tokens leave every payload field empty.
type Token struct {
	Type    Type
	Literal string
	Int     int64
	Float   float64
	Pos     Position
}

// String renders the token the way it appears in diagnostics.
func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case INT:
		return strconv.FormatInt(t.Int, 10)
	case FLOAT:
		return strconv.FormatFloat(t.Float, 'f', -1, 64)
	case STRING:
		return strconv.Quote(t.Literal)
	}
	if t.Literal != "" {
		return t.Literal
	}
	return t.Type.String()
}

// Position tracks source location.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Type is the set of lexical token types.
type Type int

const (
	// Special tokens
	ILLEGAL Type = iota
	EOF

	// Literals
	IDENT  // x, helloWorld, _tmp
	INT    // 42
	FLOAT  // 3.14
	STRING // "hello"

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	CARET  // ^  (power)
	XOR    // ^^ (bitwise xor)
	TILDE  // ~  (bitwise not)
	AMP    // &  (bitwise and)
	PIPE   // |  (bitwise or)
	BANG   // !  (logical not)
	LSHIFT // <<
	RSHIFT // >>

	// Comparison
	EQ  // ==
	NEQ // !=
	LT  // <
	GT  // >
	LTE // <=
	GTE // >=

	// Logical
	AND // &&
	OR  // ||

	ASSIGN // =

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	SEMICOLON // ;

	keywordStart
	LET      // let
	FUNCTION // function
	IF       // if
	ELSE     // else
	WHILE    // while
	keywordEnd
)

var tokenNames = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	STRING: "STRING",

	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	CARET:  "^",
	XOR:    "^^",
	TILDE:  "~",
	AMP:    "&",
	PIPE:   "|",
	BANG:   "!",
	LSHIFT: "<<",
	RSHIFT: ">>",

	EQ:  "==",
	NEQ: "!=",
	LT:  "<",
	GT:  ">",
	LTE: "<=",
	GTE: ">=",

	AND: "&&",
	OR:  "||",

	ASSIGN: "=",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	SEMICOLON: ";",

	LET:      "let",
	FUNCTION: "function",
	IF:       "if",
	ELSE:     "else",
	WHILE:    "while",
}

// String returns the string form of a token type.
func (t Type) String() string {
	if int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword returns true if the token is a keyword.
func (t Type) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

// IsOperator returns true if the token is a unary or binary operator.
func (t Type) IsOperator() bool {
	return t >= PLUS && t <= OR
}

// IsLiteral returns true if the token is a literal value.
func (t Type) IsLiteral() bool {
	return t >= IDENT && t <= STRING
}

// keywords maps keyword strings to token types.
var keywords map[string]Type

func init() {
	keywords = make(map[string]Type)
	for i := keywordStart + 1; i < keywordEnd; i++ {
		keywords[tokenNames[i]] = i
	}
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	words := make([]string, 0, keywordEnd-keywordStart-1)
	for i := keywordStart + 1; i < keywordEnd; i++ {
		words = append(words, tokenNames[i])
	}
	return words
}

// LookupIdent checks if an identifier is a keyword.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
