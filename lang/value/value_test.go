// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package value

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probechain/probescript/lang/scope"
)

// newScopes returns a registry with one root scope.
func newScopes(t *testing.T) (*scope.Manager[Value], scope.Handle) {
	t.Helper()
	m := scope.NewManager[Value]()
	root, err := m.Create(scope.None)
	require.NoError(t, err)
	return m, root
}

func TestArithmetic(t *testing.T) {
	r, _ := newScopes(t)
	cases := []struct {
		name string
		fn   BinaryFunc
		a, b Value
		want Value
	}{
		{"int+int", Add, Int(1), Int(1), Int(2)},
		{"float+int", Add, Float(1), Int(1), Float(2)},
		{"int+float", Add, Int(1), Float(0.5), Float(1.5)},
		{"str+str", Add, Str("a"), Str("b"), Str("ab")},
		{"str+int", Add, Str("x"), Int(1), Str("x1")},
		{"str+bool", Add, Str("is "), Boolean(true), Str("is true")},
		{"str+null", Add, Str("v="), Null{}, Str("v=null")},
		{"str+list", Add, Str("l="), List{Int(1), Str("a")}, Str("l=[1, a]")},
		{"int-int", Sub, Int(5), Int(7), Int(-2)},
		{"float-int", Sub, Float(2.5), Int(1), Float(1.5)},
		{"int*int", Mul, Int(6), Int(7), Int(42)},
		{"int*float", Mul, Int(2), Float(1.25), Float(2.5)},
		{"exact div", Div, Int(4), Int(2), Int(2)},
		{"inexact div", Div, Int(5), Int(2), Float(2.5)},
		{"negative exact div", Div, Int(-9), Int(3), Int(-3)},
		{"float div", Div, Float(4), Int(2), Float(2)},
		{"pow", Pow, Int(2), Int(10), Int(1024)},
		{"pow zero", Pow, Int(7), Int(0), Int(1)},
		{"pow negative", Pow, Int(2), Int(-1), Float(0.5)},
		{"pow float", Pow, Float(4), Float(0.5), Float(2)},
	}
	for _, tc := range cases {
		got, err := tc.fn(r, tc.a, tc.b)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestDivisionByZero(t *testing.T) {
	r, _ := newScopes(t)

	v, err := Div(r, Int(1), Int(0))
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(v.(Float)), 1))

	v, err = Div(r, Int(-1), Int(0))
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(v.(Float)), -1))

	v, err = Div(r, Int(0), Int(0))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(v.(Float))))
}

func TestIntOverflowWraps(t *testing.T) {
	r, _ := newScopes(t)
	v, err := Add(r, Int(math.MaxInt64), Int(1))
	require.NoError(t, err)
	assert.Equal(t, Int(math.MinInt64), v)

	v, err = Div(r, Int(math.MinInt64), Int(-1))
	require.NoError(t, err)
	assert.Equal(t, Int(math.MinInt64), v)
}

func TestArithmeticTypeErrors(t *testing.T) {
	r, _ := newScopes(t)
	cases := []struct {
		fn   BinaryFunc
		a, b Value
		want string
	}{
		{Sub, Str("a"), Int(1), "illegal operation - on a and 1"},
		{Mul, List{}, Int(2), "illegal operation * on [] and 2"},
		{Div, Boolean(true), Int(2), "illegal operation / on true and 2"},
		{Pow, Null{}, Int(2), "illegal operation ^ on null and 2"},
		{Add, Boolean(true), Int(2), "illegal operation + on true and 2"},
		{Add, Int(1), Str("x"), "illegal operation + on 1 and x"},
		{Add, Null{}, Str("x"), "illegal operation + on null and x"},
		{Less, Str("a"), Str("b"), "illegal operation < on a and b"},
	}
	for _, tc := range cases {
		_, err := tc.fn(r, tc.a, tc.b)
		require.Error(t, err)
		var rerr *RuntimeError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, tc.want, rerr.Msg)
	}
}

func TestComparisons(t *testing.T) {
	r, _ := newScopes(t)
	cases := []struct {
		fn   BinaryFunc
		a, b Value
		want bool
	}{
		{Greater, Int(2), Int(1), true},
		{Greater, Int(1), Float(1.5), false},
		{GreaterEq, Float(1), Int(1), true},
		{Less, Int(-1), Int(0), true},
		{LessEq, Int(3), Int(2), false},
		{LessEq, Int(2), Int(2), true},
	}
	for _, tc := range cases {
		got, err := tc.fn(r, tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, Boolean(tc.want), got)
	}
}

func TestEqualityIsPartial(t *testing.T) {
	r, _ := newScopes(t)
	truths := []struct {
		a, b Value
		want bool
	}{
		{Int(1), Float(1), true},
		{Int(1), Int(2), false},
		{Boolean(true), Boolean(true), true},
		{Str("a"), Str("a"), true},
		{Str("a"), Str("b"), false},
		{Null{}, Null{}, true},
	}
	for _, tc := range truths {
		eq, err := Equal(r, tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, Boolean(tc.want), eq)

		neq, err := NotEqual(r, tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, Boolean(!tc.want), neq)
	}

	_, err := Equal(r, Int(1), Str("1"))
	assert.EqualError(t, err, "illegal operation == on 1 and 1")
	_, err = NotEqual(r, Null{}, Boolean(false))
	assert.EqualError(t, err, "illegal operation != on null and false")
	_, err = Equal(r, List{}, List{})
	assert.Error(t, err)
}

func TestLogical(t *testing.T) {
	r, _ := newScopes(t)

	v, err := And(r, Int(1), Str("right"))
	require.NoError(t, err)
	assert.Equal(t, Str("right"), v)

	v, err = And(r, Int(0), Str("right"))
	require.NoError(t, err)
	assert.Equal(t, Int(0), v)

	v, err = Or(r, Str("left"), Int(2))
	require.NoError(t, err)
	assert.Equal(t, Str("left"), v)

	v, err = Or(r, Str(""), Int(2))
	require.NoError(t, err)
	assert.Equal(t, Int(2), v)

	v, err = Not(r, List{})
	require.NoError(t, err)
	assert.Equal(t, Boolean(true), v)
}

func TestBitwise(t *testing.T) {
	r, _ := newScopes(t)
	cases := []struct {
		fn   BinaryFunc
		a, b Int
		want Int
	}{
		{BitAnd, 6, 3, 2},
		{BitOr, 6, 3, 7},
		{BitXor, 6, 3, 5},
		{Shl, 1, 4, 16},
		{Shr, 16, 2, 4},
		{Shr, -8, 1, -4},
	}
	for _, tc := range cases {
		got, err := tc.fn(r, tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	v, err := BitNot(r, Int(5))
	require.NoError(t, err)
	assert.Equal(t, Int(-6), v)

	_, err = Shl(r, Int(1), Int(-1))
	assert.EqualError(t, err, "negative shift count -1")
}

func TestBitwiseTypeErrors(t *testing.T) {
	r, _ := newScopes(t)
	for name, tc := range map[string]struct {
		fn   BinaryFunc
		want string
	}{
		"and": {BitAnd, "illegal operation & on 1.5 and 2"},
		"or":  {BitOr, "illegal operation | on 1.5 and 2"},
		"xor": {BitXor, "illegal operation ^^ on 1.5 and 2"},
		"shl": {Shl, "illegal operation << on 1.5 and 2"},
		"shr": {Shr, "illegal operation >> on 1.5 and 2"},
	} {
		_, err := tc.fn(r, Float(1.5), Int(2))
		assert.EqualError(t, err, tc.want, name)
	}
	_, err := BitNot(r, Str("x"))
	assert.EqualError(t, err, "illegal operation ~ on x")
}

func TestTruthy(t *testing.T) {
	r, root := newScopes(t)
	require.NoError(t, r.Set(root, "s", Str("")))

	cases := []struct {
		v    Value
		want bool
	}{
		{Int(0), false},
		{Int(-3), true},
		{Float(0), false},
		{Float(0.1), true},
		{Boolean(false), false},
		{Str(""), false},
		{Str("x"), true},
		{List{}, false},
		{List{Null{}}, true},
		{Func{Name: "f"}, true},
		{Null{}, false},
		{Pointer{Scope: root, Name: "s"}, false},
	}
	for _, tc := range cases {
		got, err := Truthy(r, tc.v)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%#v", tc.v)
	}
}

func TestPointersAreResolvedOnEveryUse(t *testing.T) {
	r, root := newScopes(t)
	require.NoError(t, r.Set(root, "s", Str("a")))
	p := Pointer{Scope: root, Name: "s"}

	v, err := Add(r, p, Str("!"))
	require.NoError(t, err)
	assert.Equal(t, Str("a!"), v)

	require.NoError(t, r.Set(root, "s", Str("b")))
	v, err = Add(r, p, Str("!"))
	require.NoError(t, err)
	assert.Equal(t, Str("b!"), v)
}

func TestDeref(t *testing.T) {
	r, root := newScopes(t)
	child, err := r.Create(root)
	require.NoError(t, err)

	require.NoError(t, r.Set(root, "a", Str("x")))
	require.NoError(t, r.Set(child, "b", Pointer{Scope: root, Name: "a"}))

	v, err := Deref(r, Pointer{Scope: child, Name: "b"})
	require.NoError(t, err)
	assert.Equal(t, Str("x"), v)

	_, err = Deref(r, Pointer{Scope: root, Name: "b"})
	assert.EqualError(t, err, "`b` is not defined")

	require.NoError(t, r.Set(root, "loop", Pointer{Scope: root, Name: "loop"}))
	_, err = Deref(r, Pointer{Scope: root, Name: "loop"})
	assert.True(t, errors.Is(err, ErrReferenceCycle))
}

func TestPrint(t *testing.T) {
	r, root := newScopes(t)
	require.NoError(t, r.Set(root, "name", Str("probe")))

	cases := []struct {
		v    Value
		want string
	}{
		{Int(-12), "-12"},
		{Float(2), "2"},
		{Float(2.5), "2.5"},
		{Float(math.Inf(1)), "+Inf"},
		{Boolean(false), "false"},
		{Str("verbatim \"text\""), "verbatim \"text\""},
		{Null{}, "null"},
		{Func{Name: "add", Params: []string{"a", "b"}}, "add(a, b)"},
		{Func{Name: "nop"}, "nop()"},
		{List{Int(1), List{Str("x")}, Null{}}, "[1, [x], null]"},
		{Pointer{Scope: root, Name: "name"}, "probe"},
		{Pointer{Scope: root, Name: "gone"}, "null"},
		{List{Pointer{Scope: root, Name: "name"}}, "[probe]"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Print(r, tc.v))
	}
}

func TestPrintSelfContainingList(t *testing.T) {
	r, root := newScopes(t)
	self := Pointer{Scope: root, Name: "l"}
	require.NoError(t, r.Set(root, "l", List{Int(1), self}))
	assert.Equal(t, "[1, [...]]", Print(r, self))
}

func TestKinds(t *testing.T) {
	assert.Equal(t, "int", Int(1).Kind().String())
	assert.Equal(t, "function", Func{}.Kind().String())
	assert.True(t, KindStr.IsReference())
	assert.True(t, KindList.IsReference())
	assert.True(t, KindFunc.IsReference())
	assert.False(t, KindInt.IsReference())
	assert.False(t, KindNull.IsReference())
}
