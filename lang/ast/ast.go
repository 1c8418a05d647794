// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package ast defines the Abstract Syntax Tree for probescript.
//
// Design overview:
//
//   - Every construct is an expression; all nodes implement Node via
//     TokenLiteral and String.
//   - A tree is built once per parse and never mutated afterwards, so parsed
//     programs can be cached and evaluated any number of times.
//   - Composite nodes own their children outright. Nothing is shared and
//     nothing is cyclic.
//   - Nodes keep the token.Token that originated them so hosts can point at
//     source locations.
package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/probechain/probescript/lang/token"
)

// Node is the base interface that every AST node must implement.
type Node interface {
	// TokenLiteral returns the literal value of the token that originated this
	// node. Used primarily for debugging and testing.
	TokenLiteral() string

	// String returns a human-readable, parenthesised representation of the node
	// suitable for unit tests and debug output.
	String() string

	// Pos reports where the node starts in the source.
	Pos() token.Position
}

// ---------------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------------

// IntLiteral is an integer constant: 42.
type IntLiteral struct {
	Token token.Token
	Value int64
}

func (n *IntLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *IntLiteral) String() string       { return strconv.FormatInt(n.Value, 10) }
func (n *IntLiteral) Pos() token.Position  { return n.Token.Pos }

// FloatLiteral is a floating point constant: 3.14.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (n *FloatLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *FloatLiteral) String() string       { return strconv.FormatFloat(n.Value, 'f', -1, 64) }
func (n *FloatLiteral) Pos() token.Position  { return n.Token.Pos }

// StringLiteral is a string constant with escapes already decoded.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (n *StringLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *StringLiteral) String() string       { return strconv.Quote(n.Value) }
func (n *StringLiteral) Pos() token.Position  { return n.Token.Pos }

// ListLiteral is a bracketed, comma separated list of expressions: [a, 1].
type ListLiteral struct {
	Token    token.Token // '['
	Elements []Node
}

func (n *ListLiteral) TokenLiteral() string { return n.Token.Type.String() }
func (n *ListLiteral) String() string       { return "[" + joinNodes(n.Elements, ", ") + "]" }
func (n *ListLiteral) Pos() token.Position  { return n.Token.Pos }

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

// UnaryOp is a prefix operator applied to one operand: -x, !ok, ~mask.
type UnaryOp struct {
	Token   token.Token // the operator token
	Op      token.Type
	Operand Node
}

func (n *UnaryOp) TokenLiteral() string { return n.Op.String() }
func (n *UnaryOp) String() string       { return "(" + n.Op.String() + n.Operand.String() + ")" }
func (n *UnaryOp) Pos() token.Position  { return n.Token.Pos }

// BinaryOp is an infix operator: a + b, x << 2, p && q.
type BinaryOp struct {
	Token token.Token // the operator token
	Left  Node
	Op    token.Type
	Right Node
}

func (n *BinaryOp) TokenLiteral() string { return n.Op.String() }
func (n *BinaryOp) String() string {
	return "(" + n.Left.String() + " " + n.Op.String() + " " + n.Right.String() + ")"
}
func (n *BinaryOp) Pos() token.Position { return n.Left.Pos() }

// ---------------------------------------------------------------------------
// Variables and functions
// ---------------------------------------------------------------------------

// VarDef binds a name in the current scope: let x = expr.
type VarDef struct {
	Token token.Token // 'let'
	Name  string
	Value Node
}

func (n *VarDef) TokenLiteral() string { return n.Token.Literal }
func (n *VarDef) String() string       { return "(let " + n.Name + " = " + n.Value.String() + ")" }
func (n *VarDef) Pos() token.Position  { return n.Token.Pos }

// VarAccess reads a name through the scope chain.
type VarAccess struct {
	Token token.Token // the IDENT token
	Name  string
}

func (n *VarAccess) TokenLiteral() string { return n.Token.Literal }
func (n *VarAccess) String() string       { return n.Name }
func (n *VarAccess) Pos() token.Position  { return n.Token.Pos }

// FuncDef declares a named function: function f(a, b) { body }.
type FuncDef struct {
	Token  token.Token // 'function'
	Name   string
	Params []string
	Body   *StatementBlock
}

func (n *FuncDef) TokenLiteral() string { return n.Token.Literal }
func (n *FuncDef) String() string {
	return "function " + n.Name + "(" + strings.Join(n.Params, ", ") + ") " + braced(n.Body)
}
func (n *FuncDef) Pos() token.Position { return n.Token.Pos }

// FuncCall applies a callee to arguments. The callee is any primary
// expression, so f(1)(2) is a call of a call.
type FuncCall struct {
	Token  token.Token // '('
	Callee Node
	Args   []Node
}

func (n *FuncCall) TokenLiteral() string { return n.Token.Type.String() }
func (n *FuncCall) String() string {
	return n.Callee.String() + "(" + joinNodes(n.Args, ", ") + ")"
}
func (n *FuncCall) Pos() token.Position { return n.Callee.Pos() }

// ---------------------------------------------------------------------------
// Blocks and control flow
// ---------------------------------------------------------------------------

// StatementBlock is a semicolon separated sequence of expressions. It is the
// root of every parse and the body of functions and brace-bodied branches.
type StatementBlock struct {
	Token      token.Token // first token of the block
	Statements []Node

	// Trailing is set when the final statement was followed by a semicolon.
	// Such a block yields null instead of its last value.
	Trailing bool
}

// YieldsLast reports whether the block evaluates to its final statement.
func (n *StatementBlock) YieldsLast() bool { return !n.Trailing && len(n.Statements) > 0 }

func (n *StatementBlock) TokenLiteral() string { return n.Token.Literal }
func (n *StatementBlock) String() string {
	var out bytes.Buffer
	out.WriteString(joinNodes(n.Statements, "; "))
	if n.Trailing {
		out.WriteByte(';')
	}
	return out.String()
}
func (n *StatementBlock) Pos() token.Position { return n.Token.Pos }

// Conditional is if (cond) then [else otherwise]. Else is an *Empty when the
// source has no else branch.
type Conditional struct {
	Token token.Token // 'if'
	Cond  Node
	Then  Node
	Else  Node
}

// HasElse reports whether an else branch was written.
func (n *Conditional) HasElse() bool {
	_, empty := n.Else.(*Empty)
	return n.Else != nil && !empty
}

func (n *Conditional) TokenLiteral() string { return n.Token.Literal }
func (n *Conditional) String() string {
	s := "if (" + n.Cond.String() + ") " + braced(n.Then)
	if n.HasElse() {
		s += " else " + braced(n.Else)
	}
	return s
}
func (n *Conditional) Pos() token.Position { return n.Token.Pos }

// WhileLoop is while (cond) body.
type WhileLoop struct {
	Token token.Token // 'while'
	Cond  Node
	Body  Node
}

func (n *WhileLoop) TokenLiteral() string { return n.Token.Literal }
func (n *WhileLoop) String() string {
	return "while (" + n.Cond.String() + ") " + braced(n.Body)
}
func (n *WhileLoop) Pos() token.Position { return n.Token.Pos }

// ---------------------------------------------------------------------------
// Placeholders
// ---------------------------------------------------------------------------

// Empty stands in for a branch that was not written.
type Empty struct {
	Token token.Token
}

func (n *Empty) TokenLiteral() string { return "" }
func (n *Empty) String() string       { return "" }
func (n *Empty) Pos() token.Position  { return n.Token.Pos }

// EOFMarker is produced where an operand was expected but the input ended.
// It evaluates to null.
type EOFMarker struct {
	Token token.Token // the EOF token
}

func (n *EOFMarker) TokenLiteral() string { return "" }
func (n *EOFMarker) String() string       { return "<eof>" }
func (n *EOFMarker) Pos() token.Position  { return n.Token.Pos }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func joinNodes(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

// braced renders blocks inside braces and any other body as-is.
func braced(n Node) string {
	if b, ok := n.(*StatementBlock); ok {
		if len(b.Statements) == 0 {
			return "{}"
		}
		return "{ " + b.String() + " }"
	}
	return n.String()
}
