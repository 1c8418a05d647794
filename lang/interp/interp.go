// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package interp implements the tree-walking evaluator for probescript.
//
// The scope to evaluate in is always passed explicitly. Every run owns one
// scope.Manager; the interpreter creates scopes in it but never removes any:
//
//	conditional   a fresh child of the current scope per branch taken
//	while         one child of the current scope shared by all iterations
//	function def  a closure scope, child of the defining scope
//	function call an argument scope and a body scope, both children of the
//	              closure scope (siblings, not nested)
package interp

import (
	"errors"

	"github.com/probechain/probescript/lang/ast"
	"github.com/probechain/probescript/lang/scope"
	"github.com/probechain/probescript/lang/token"
	"github.com/probechain/probescript/lang/value"
	"github.com/probechain/probescript/log"
)

// Config bounds a run. Zero values mean unlimited.
type Config struct {
	MaxCallDepth  int // nested function calls
	MaxIterations int // iterations of any single while loop
}

var binaryOps = map[token.Type]value.BinaryFunc{
	token.PLUS:   value.Add,
	token.MINUS:  value.Sub,
	token.STAR:   value.Mul,
	token.SLASH:  value.Div,
	token.CARET:  value.Pow,
	token.EQ:     value.Equal,
	token.NEQ:    value.NotEqual,
	token.GT:     value.Greater,
	token.GTE:    value.GreaterEq,
	token.LT:     value.Less,
	token.LTE:    value.LessEq,
	token.AND:    value.And,
	token.OR:     value.Or,
	token.AMP:    value.BitAnd,
	token.PIPE:   value.BitOr,
	token.XOR:    value.BitXor,
	token.LSHIFT: value.Shl,
	token.RSHIFT: value.Shr,
}

// Interpreter evaluates AST nodes against a scope registry.
type Interpreter struct {
	scopes *scope.Manager[value.Value]
	cfg    Config
	depth  int
	log    log.Logger
}

// New returns an interpreter that evaluates against scopes.
func New(scopes *scope.Manager[value.Value], cfg Config) *Interpreter {
	return &Interpreter{
		scopes: scopes,
		cfg:    cfg,
		log:    log.Root(),
	}
}

// SetLogger replaces the logger used for call tracing.
func (it *Interpreter) SetLogger(l log.Logger) { it.log = l }

// Interpret evaluates root in scope h with no limits. The result may be a
// Pointer; use value.Deref to obtain the underlying value.
func Interpret(root ast.Node, h scope.Handle, scopes *scope.Manager[value.Value]) (value.Value, error) {
	return New(scopes, Config{}).Visit(root, h)
}

// Visit evaluates n in scope h.
func (it *Interpreter) Visit(n ast.Node, h scope.Handle) (value.Value, error) {
	switch n := n.(type) {
	case *ast.IntLiteral:
		return value.Int(n.Value), nil
	case *ast.FloatLiteral:
		return value.Float(n.Value), nil
	case *ast.StringLiteral:
		return value.Str(n.Value), nil
	case *ast.StatementBlock:
		return it.visitBlock(n, h)
	case *ast.UnaryOp:
		return it.visitUnaryOp(n, h)
	case *ast.BinaryOp:
		return it.visitBinaryOp(n, h)
	case *ast.VarDef:
		return it.visitVarDef(n, h)
	case *ast.VarAccess:
		return it.visitVarAccess(n, h)
	case *ast.ListLiteral:
		return it.visitList(n, h)
	case *ast.FuncDef:
		return it.visitFuncDef(n, h)
	case *ast.FuncCall:
		return it.visitFuncCall(n, h)
	case *ast.Conditional:
		return it.visitConditional(n, h)
	case *ast.WhileLoop:
		return it.visitWhileLoop(n, h)
	case *ast.Empty, *ast.EOFMarker, nil:
		return value.Null{}, nil
	}
	return nil, value.Errorf("cannot evaluate %T", n)
}

func (it *Interpreter) visitBlock(n *ast.StatementBlock, h scope.Handle) (value.Value, error) {
	var last value.Value = value.Null{}
	for _, stmt := range n.Statements {
		v, err := it.Visit(stmt, h)
		if err != nil {
			return nil, err
		}
		last = v
	}
	if !n.YieldsLast() {
		return value.Null{}, nil
	}
	return last, nil
}

func (it *Interpreter) visitUnaryOp(n *ast.UnaryOp, h scope.Handle) (value.Value, error) {
	v, err := it.Visit(n.Operand, h)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.PLUS:
		return value.Mul(it.scopes, v, value.Int(1))
	case token.MINUS:
		return value.Mul(it.scopes, v, value.Int(-1))
	case token.TILDE:
		return value.BitNot(it.scopes, v)
	case token.BANG:
		return value.Not(it.scopes, v)
	}
	return v, nil
}

// visitBinaryOp always evaluates both operands, left first, including for
// && and || whose operators only select one of the two results.
func (it *Interpreter) visitBinaryOp(n *ast.BinaryOp, h scope.Handle) (value.Value, error) {
	left, err := it.Visit(n.Left, h)
	if err != nil {
		return nil, err
	}
	right, err := it.Visit(n.Right, h)
	if err != nil {
		return nil, err
	}
	op, ok := binaryOps[n.Op]
	if !ok {
		return nil, value.Errorf("illegal operator %s", n.Op)
	}
	return op(it.scopes, left, right)
}

func (it *Interpreter) visitVarDef(n *ast.VarDef, h scope.Handle) (value.Value, error) {
	v, err := it.Visit(n.Value, h)
	if err != nil {
		return nil, err
	}
	resolved, err := value.Deref(it.scopes, v)
	if err != nil {
		return nil, err
	}
	if !resolved.Kind().IsReference() {
		v = resolved
	}
	if err := it.scopes.Set(h, n.Name, v); err != nil {
		return nil, err
	}
	self := value.Pointer{Scope: h, Name: n.Name}

	// let s = s and friends would make the binding point at itself.
	if _, err := value.Deref(it.scopes, self); errors.Is(err, value.ErrReferenceCycle) {
		if err := it.scopes.Set(h, n.Name, resolved); err != nil {
			return nil, err
		}
	}
	return self, nil
}

func (it *Interpreter) visitVarAccess(n *ast.VarAccess, h scope.Handle) (value.Value, error) {
	v, ok := it.scopes.Lookup(h, n.Name)
	if !ok {
		return nil, value.Errorf("`%s` is not defined", n.Name)
	}
	resolved, err := value.Deref(it.scopes, v)
	if err != nil {
		return nil, err
	}
	if resolved.Kind().IsReference() {
		return value.Pointer{Scope: h, Name: n.Name}, nil
	}
	return resolved, nil
}

func (it *Interpreter) visitList(n *ast.ListLiteral, h scope.Handle) (value.Value, error) {
	list := make(value.List, 0, len(n.Elements))
	for _, elem := range n.Elements {
		v, err := it.Visit(elem, h)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

func (it *Interpreter) visitFuncDef(n *ast.FuncDef, h scope.Handle) (value.Value, error) {
	closure, err := it.scopes.Create(h)
	if err != nil {
		return nil, err
	}
	fn := value.Func{
		Name:    n.Name,
		Params:  n.Params,
		Body:    n.Body,
		Closure: closure,
	}
	if err := it.scopes.Set(h, n.Name, fn); err != nil {
		return nil, err
	}
	return fn, nil
}

func (it *Interpreter) visitFuncCall(n *ast.FuncCall, h scope.Handle) (value.Value, error) {
	callee, err := it.Visit(n.Callee, h)
	if err != nil {
		return nil, err
	}
	target, err := value.Deref(it.scopes, callee)
	if err != nil {
		return nil, err
	}
	fn, ok := target.(value.Func)
	if !ok {
		return nil, value.Errorf("`%s` is not a function", value.Print(it.scopes, callee))
	}
	if it.cfg.MaxCallDepth > 0 && it.depth >= it.cfg.MaxCallDepth {
		return nil, value.Errorf("maximum call depth exceeded")
	}

	argScope, err := it.scopes.Create(fn.Closure)
	if err != nil {
		return nil, err
	}
	bodyScope, err := it.scopes.Create(fn.Closure)
	if err != nil {
		return nil, err
	}
	for i, param := range fn.Params {
		var arg value.Value = value.Null{}
		if i < len(n.Args) {
			if arg, err = it.Visit(n.Args[i], argScope); err != nil {
				return nil, err
			}
		}
		if err := it.scopes.Set(bodyScope, param, arg); err != nil {
			return nil, err
		}
	}

	it.depth++
	defer func() { it.depth-- }()
	it.log.Trace("Calling function", "name", fn.Name, "depth", it.depth, "scope", bodyScope)
	return it.Visit(fn.Body, bodyScope)
}

func (it *Interpreter) visitConditional(n *ast.Conditional, h scope.Handle) (value.Value, error) {
	cond, err := it.Visit(n.Cond, h)
	if err != nil {
		return nil, err
	}
	taken, err := value.Truthy(it.scopes, cond)
	if err != nil {
		return nil, err
	}
	branch := n.Then
	if !taken {
		if !n.HasElse() {
			return value.Null{}, nil
		}
		branch = n.Else
	}
	child, err := it.scopes.Create(h)
	if err != nil {
		return nil, err
	}
	return it.Visit(branch, child)
}

// visitWhileLoop evaluates the condition in the scope enclosing the loop and
// the body in a single scope reused by every iteration.
func (it *Interpreter) visitWhileLoop(n *ast.WhileLoop, h scope.Handle) (value.Value, error) {
	loopScope, err := it.scopes.Create(h)
	if err != nil {
		return nil, err
	}
	var result value.Value = value.Null{}
	for iterations := 0; ; iterations++ {
		cond, err := it.Visit(n.Cond, h)
		if err != nil {
			return nil, err
		}
		again, err := value.Truthy(it.scopes, cond)
		if err != nil {
			return nil, err
		}
		if !again {
			return result, nil
		}
		if it.cfg.MaxIterations > 0 && iterations >= it.cfg.MaxIterations {
			return nil, value.Errorf("maximum loop iterations exceeded")
		}
		if result, err = it.Visit(n.Body, loopScope); err != nil {
			return nil, err
		}
	}
}
