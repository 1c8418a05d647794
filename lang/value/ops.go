// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package value

import "math"

// BinaryFunc is the common shape of every binary operator.
type BinaryFunc func(r Resolver, a, b Value) (Value, error)

// UnaryFunc is the common shape of every unary operator.
type UnaryFunc func(r Resolver, v Value) (Value, error)

// illegal reports an operator applied to operands it does not support.
func illegal(r Resolver, op string, a, b Value) error {
	return Errorf("illegal operation %s on %s and %s", op, Print(r, a), Print(r, b))
}

// resolve2 dereferences both operands.
func resolve2(r Resolver, a, b Value) (Value, Value, error) {
	x, err := Deref(r, a)
	if err != nil {
		return nil, nil, err
	}
	y, err := Deref(r, b)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// number is a numeric operand. f is always set; i only when isInt.
type number struct {
	i     int64
	f     float64
	isInt bool
}

func asNumber(v Value) (number, bool) {
	switch x := v.(type) {
	case Int:
		return number{i: int64(x), f: float64(x), isInt: true}, true
	case Float:
		return number{f: float64(x)}, true
	}
	return number{}, false
}

func numbers(a, b Value) (number, number, bool) {
	x, ok := asNumber(a)
	if !ok {
		return x, number{}, false
	}
	y, ok := asNumber(b)
	return x, y, ok
}

// arith applies an arithmetic operator with Int/Float promotion: two Ints
// stay Int, anything else becomes Float.
func arith(r Resolver, op string, a, b Value, onInt func(x, y int64) int64, onFloat func(x, y float64) float64) (Value, error) {
	x, y, err := resolve2(r, a, b)
	if err != nil {
		return nil, err
	}
	m, n, ok := numbers(x, y)
	if !ok {
		return nil, illegal(r, op, a, b)
	}
	if m.isInt && n.isInt {
		return Int(onInt(m.i, n.i)), nil
	}
	return Float(onFloat(m.f, n.f)), nil
}

// Add sums numbers and concatenates strings. When the left side is a Str the
// right side contributes its printable form; a Str on the right alone is an
// error.
func Add(r Resolver, a, b Value) (Value, error) {
	x, y, err := resolve2(r, a, b)
	if err != nil {
		return nil, err
	}
	if s, ok := x.(Str); ok {
		return s + Str(Print(r, y)), nil
	}
	return arith(r, "+", x, y,
		func(m, n int64) int64 { return m + n },
		func(m, n float64) float64 { return m + n })
}

// Sub subtracts numbers.
func Sub(r Resolver, a, b Value) (Value, error) {
	return arith(r, "-", a, b,
		func(m, n int64) int64 { return m - n },
		func(m, n float64) float64 { return m - n })
}

// Mul multiplies numbers.
func Mul(r Resolver, a, b Value) (Value, error) {
	return arith(r, "*", a, b,
		func(m, n int64) int64 { return m * n },
		func(m, n float64) float64 { return m * n })
}

// Div divides numbers. Int / Int stays Int only when the division is exact;
// a zero divisor is never exact and so follows floating point rules.
func Div(r Resolver, a, b Value) (Value, error) {
	x, y, err := resolve2(r, a, b)
	if err != nil {
		return nil, err
	}
	m, n, ok := numbers(x, y)
	if !ok {
		return nil, illegal(r, "/", a, b)
	}
	if m.isInt && n.isInt && n.i != 0 && m.i%n.i == 0 {
		return Int(m.i / n.i), nil
	}
	return Float(m.f / n.f), nil
}

// Pow raises a to the power b. Int ^ Int with a non-negative exponent stays
// Int (wrapping on overflow); any other combination is Float.
func Pow(r Resolver, a, b Value) (Value, error) {
	x, y, err := resolve2(r, a, b)
	if err != nil {
		return nil, err
	}
	m, n, ok := numbers(x, y)
	if !ok {
		return nil, illegal(r, "^", a, b)
	}
	if m.isInt && n.isInt && n.i >= 0 {
		return Int(ipow(m.i, n.i)), nil
	}
	return Float(math.Pow(m.f, n.f)), nil
}

// ipow computes base^exp by repeated squaring.
func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// compare orders two numbers. Two Ints compare exactly; a mixed pair is
// compared as floats.
func compare(r Resolver, op string, a, b Value, test func(c int) bool) (Value, error) {
	x, y, err := resolve2(r, a, b)
	if err != nil {
		return nil, err
	}
	m, n, ok := numbers(x, y)
	if !ok {
		return nil, illegal(r, op, a, b)
	}
	var c int
	switch {
	case m.isInt && n.isInt:
		c = cmpOrdered(m.i, n.i)
	default:
		c = cmpOrdered(m.f, n.f)
	}
	return Boolean(test(c)), nil
}

func cmpOrdered[T int64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func Greater(r Resolver, a, b Value) (Value, error) {
	return compare(r, ">", a, b, func(c int) bool { return c > 0 })
}

func GreaterEq(r Resolver, a, b Value) (Value, error) {
	return compare(r, ">=", a, b, func(c int) bool { return c >= 0 })
}

func Less(r Resolver, a, b Value) (Value, error) {
	return compare(r, "<", a, b, func(c int) bool { return c < 0 })
}

func LessEq(r Resolver, a, b Value) (Value, error) {
	return compare(r, "<=", a, b, func(c int) bool { return c <= 0 })
}

// Equal is partial: numbers compare across Int and Float, and Boolean, Str
// and Null compare with their own kind. Any other pairing is an error.
func Equal(r Resolver, a, b Value) (Value, error) {
	eq, err := equal(r, "==", a, b)
	if err != nil {
		return nil, err
	}
	return Boolean(eq), nil
}

// NotEqual negates Equal, including its errors.
func NotEqual(r Resolver, a, b Value) (Value, error) {
	eq, err := equal(r, "!=", a, b)
	if err != nil {
		return nil, err
	}
	return Boolean(!eq), nil
}

func equal(r Resolver, op string, a, b Value) (bool, error) {
	x, y, err := resolve2(r, a, b)
	if err != nil {
		return false, err
	}
	if m, n, ok := numbers(x, y); ok {
		if m.isInt && n.isInt {
			return m.i == n.i, nil
		}
		return m.f == n.f, nil
	}
	switch x := x.(type) {
	case Boolean:
		if y, ok := y.(Boolean); ok {
			return x == y, nil
		}
	case Str:
		if y, ok := y.(Str); ok {
			return x == y, nil
		}
	case Null:
		if _, ok := y.(Null); ok {
			return true, nil
		}
	}
	return false, illegal(r, op, a, b)
}

// And yields b when a is truthy, else a. Both operands are already
// evaluated; only the choice of result short-circuits.
func And(r Resolver, a, b Value) (Value, error) {
	t, err := Truthy(r, a)
	if err != nil {
		return nil, err
	}
	if t {
		return b, nil
	}
	return a, nil
}

// Or yields a when a is truthy, else b.
func Or(r Resolver, a, b Value) (Value, error) {
	t, err := Truthy(r, a)
	if err != nil {
		return nil, err
	}
	if t {
		return a, nil
	}
	return b, nil
}

// Not is the Boolean negation of v's truthiness.
func Not(r Resolver, v Value) (Value, error) {
	t, err := Truthy(r, v)
	if err != nil {
		return nil, err
	}
	return Boolean(!t), nil
}

// bitwise applies an Int-only operator.
func bitwise(r Resolver, op string, a, b Value, fn func(x, y int64) (int64, error)) (Value, error) {
	x, y, err := resolve2(r, a, b)
	if err != nil {
		return nil, err
	}
	m, mok := x.(Int)
	n, nok := y.(Int)
	if !mok || !nok {
		return nil, illegal(r, op, a, b)
	}
	res, err := fn(int64(m), int64(n))
	if err != nil {
		return nil, err
	}
	return Int(res), nil
}

func BitAnd(r Resolver, a, b Value) (Value, error) {
	return bitwise(r, "&", a, b, func(x, y int64) (int64, error) { return x & y, nil })
}

func BitOr(r Resolver, a, b Value) (Value, error) {
	return bitwise(r, "|", a, b, func(x, y int64) (int64, error) { return x | y, nil })
}

func BitXor(r Resolver, a, b Value) (Value, error) {
	return bitwise(r, "^^", a, b, func(x, y int64) (int64, error) { return x ^ y, nil })
}

// Shl shifts left. A negative count is an error.
func Shl(r Resolver, a, b Value) (Value, error) {
	return bitwise(r, "<<", a, b, func(x, y int64) (int64, error) {
		if y < 0 {
			return 0, Errorf("negative shift count %d", y)
		}
		return x << uint64(y), nil
	})
}

// Shr is an arithmetic right shift. A negative count is an error.
func Shr(r Resolver, a, b Value) (Value, error) {
	return bitwise(r, ">>", a, b, func(x, y int64) (int64, error) {
		if y < 0 {
			return 0, Errorf("negative shift count %d", y)
		}
		return x >> uint64(y), nil
	})
}

// BitNot complements an Int.
func BitNot(r Resolver, v Value) (Value, error) {
	x, err := Deref(r, v)
	if err != nil {
		return nil, err
	}
	n, ok := x.(Int)
	if !ok {
		return nil, Errorf("illegal operation ~ on %s", Print(r, v))
	}
	return ^n, nil
}
