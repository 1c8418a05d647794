// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/probechain/probescript/lang/token"
)

func ident(name string) *VarAccess {
	return &VarAccess{Token: token.Token{Type: token.IDENT, Literal: name}, Name: name}
}

func TestNodeStrings(t *testing.T) {
	one := &IntLiteral{Token: token.Token{Type: token.INT, Literal: "1"}, Value: 1}
	half := &FloatLiteral{Token: token.Token{Type: token.FLOAT, Literal: "0.5"}, Value: 0.5}
	str := &StringLiteral{Token: token.Token{Type: token.STRING, Literal: "a\nb"}, Value: "a\nb"}

	cases := []struct {
		node Node
		want string
	}{
		{one, "1"},
		{half, "0.5"},
		{str, `"a\nb"`},
		{&UnaryOp{Op: token.MINUS, Operand: one}, "(-1)"},
		{&BinaryOp{Left: one, Op: token.XOR, Right: half}, "(1 ^^ 0.5)"},
		{&VarDef{Name: "x", Value: one}, "(let x = 1)"},
		{&ListLiteral{Elements: []Node{one, str}}, `[1, "a\nb"]`},
		{&ListLiteral{}, "[]"},
		{&FuncCall{Callee: ident("f"), Args: []Node{one, ident("y")}}, "f(1, y)"},
		{&FuncDef{Name: "id", Params: []string{"v"}, Body: &StatementBlock{Statements: []Node{ident("v")}}}, "function id(v) { v }"},
		{&FuncDef{Name: "nop", Params: []string{}, Body: &StatementBlock{}}, "function nop() {}"},
		{&StatementBlock{Statements: []Node{one, half}, Trailing: true}, "1; 0.5;"},
		{&Conditional{Cond: ident("c"), Then: one, Else: &Empty{}}, "if (c) 1"},
		{&Conditional{Cond: ident("c"), Then: &StatementBlock{Statements: []Node{one}}, Else: half}, "if (c) { 1 } else 0.5"},
		{&WhileLoop{Cond: ident("c"), Body: &StatementBlock{}}, "while (c) {}"},
		{&EOFMarker{}, "<eof>"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.node.String())
	}
}

func TestYieldsLast(t *testing.T) {
	assert.False(t, (&StatementBlock{}).YieldsLast())
	assert.True(t, (&StatementBlock{Statements: []Node{ident("x")}}).YieldsLast())
	assert.False(t, (&StatementBlock{Statements: []Node{ident("x")}, Trailing: true}).YieldsLast())
}

func TestTokenLiteralAndPos(t *testing.T) {
	pos := token.Position{Line: 3, Column: 7, Offset: 20}
	def := &VarDef{Token: token.Token{Type: token.LET, Literal: "let", Pos: pos}, Name: "x"}
	assert.Equal(t, "let", def.TokenLiteral())
	assert.Equal(t, pos, def.Pos())

	bin := &BinaryOp{Token: token.Token{Type: token.PLUS}, Left: def, Op: token.PLUS, Right: ident("y")}
	assert.Equal(t, "+", bin.TokenLiteral())
	assert.Equal(t, pos, bin.Pos())

	call := &FuncCall{Token: token.Token{Type: token.LPAREN}, Callee: def}
	assert.Equal(t, "(", call.TokenLiteral())
	assert.Equal(t, pos, call.Pos())
}
