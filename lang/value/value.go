// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package value defines probescript's runtime values and the operators that
// act on them.
//
// Int, Float and Boolean are plain copies. Reading a Str, List or Func
// binding yields a Pointer, a (scope, name) pair that is re-resolved through
// a Resolver every time an operator touches it, so later reassignment of the
// binding is observed.
package value

import (
	"errors"
	"fmt"

	"github.com/probechain/probescript/lang/ast"
	"github.com/probechain/probescript/lang/scope"
)

// ErrReferenceCycle is wrapped by errors raised when a chain of Pointers
// leads back to itself.
var ErrReferenceCycle = errors.New("reference cycle")

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindStr
	KindBoolean
	KindList
	KindFunc
	KindPointer
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindBoolean:
		return "boolean"
	case KindList:
		return "list"
	case KindFunc:
		return "function"
	case KindPointer:
		return "pointer"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is implemented by every runtime value.
type Value interface {
	Kind() Kind
}

type (
	Int     int64
	Float   float64
	Str     string
	Boolean bool

	// List is an ordered sequence. Elements may themselves be Pointers.
	List []Value

	// Null is the absence of a value.
	Null struct{}
)

// Func is a user-defined function together with the scope it closes over.
type Func struct {
	Name    string
	Params  []string
	Body    *ast.StatementBlock
	Closure scope.Handle
}

// Pointer refers to the binding Name as seen from Scope.
type Pointer struct {
	Scope scope.Handle
	Name  string
}

func (Int) Kind() Kind     { return KindInt }
func (Float) Kind() Kind   { return KindFloat }
func (Str) Kind() Kind     { return KindStr }
func (Boolean) Kind() Kind { return KindBoolean }
func (List) Kind() Kind    { return KindList }
func (Null) Kind() Kind    { return KindNull }
func (Func) Kind() Kind    { return KindFunc }
func (Pointer) Kind() Kind { return KindPointer }

// IsReference reports whether reading a binding of kind k yields a Pointer
// rather than a copy.
func (k Kind) IsReference() bool {
	return k == KindStr || k == KindList || k == KindFunc
}

// Resolver gives operators read access to the bindings of the current run.
// *scope.Manager[Value] implements it.
type Resolver interface {
	Lookup(h scope.Handle, name string) (Value, bool)
}

// RuntimeError is raised by evaluation. Like lexer and parser errors it
// carries a message only.
type RuntimeError struct {
	Msg string
	Err error // optional cause
}

func (e *RuntimeError) Error() string { return e.Msg }
func (e *RuntimeError) Unwrap() error { return e.Err }

// Errorf builds a RuntimeError from a format string.
func Errorf(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

// Deref follows v through any chain of Pointers and returns the first
// non-Pointer value. Values that are not Pointers are returned unchanged.
func Deref(r Resolver, v Value) (Value, error) {
	p, ok := v.(Pointer)
	if !ok {
		return v, nil
	}
	var seen map[Pointer]struct{}
	for {
		target, found := r.Lookup(p.Scope, p.Name)
		if !found {
			return nil, Errorf("`%s` is not defined", p.Name)
		}
		next, ok := target.(Pointer)
		if !ok {
			return target, nil
		}
		if seen == nil {
			seen = make(map[Pointer]struct{})
		}
		seen[p] = struct{}{}
		if _, loop := seen[next]; loop {
			return nil, &RuntimeError{
				Msg: fmt.Sprintf("`%s` refers to itself", p.Name),
				Err: ErrReferenceCycle,
			}
		}
		p = next
	}
}

// Truthy maps any value onto a boolean for conditions and logical operators.
func Truthy(r Resolver, v Value) (bool, error) {
	v, err := Deref(r, v)
	if err != nil {
		return false, err
	}
	switch x := v.(type) {
	case Int:
		return x != 0, nil
	case Float:
		return x != 0, nil
	case Boolean:
		return bool(x), nil
	case Str:
		return len(x) > 0, nil
	case List:
		return len(x) > 0, nil
	case Func:
		return true, nil
	case Null:
		return false, nil
	}
	return false, Errorf("cannot take truth value of %T", v)
}
