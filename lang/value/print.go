// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package value

import (
	"strconv"
	"strings"
)

// Print renders v in its printable form. Pointers are resolved; one that no
// longer resolves prints as null. A list that contains itself prints the
// inner occurrence as [...].
func Print(r Resolver, v Value) string {
	var sb strings.Builder
	p := printer{r: r, sb: &sb}
	p.print(v)
	return sb.String()
}

type printer struct {
	r  Resolver
	sb *strings.Builder

	// path holds the Pointers being printed further up, to cut
	// self-containing lists short.
	path []Pointer
}

func (p *printer) print(v Value) {
	switch x := v.(type) {
	case Int:
		p.sb.WriteString(strconv.FormatInt(int64(x), 10))
	case Float:
		p.sb.WriteString(strconv.FormatFloat(float64(x), 'f', -1, 64))
	case Str:
		p.sb.WriteString(string(x))
	case Boolean:
		p.sb.WriteString(strconv.FormatBool(bool(x)))
	case Null, nil:
		p.sb.WriteString("null")
	case Func:
		p.sb.WriteString(x.Name)
		p.sb.WriteByte('(')
		p.sb.WriteString(strings.Join(x.Params, ", "))
		p.sb.WriteByte(')')
	case List:
		p.sb.WriteByte('[')
		for i, elem := range x {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.print(elem)
		}
		p.sb.WriteByte(']')
	case Pointer:
		for _, q := range p.path {
			if q == x {
				p.sb.WriteString("[...]")
				return
			}
		}
		target, err := Deref(p.r, x)
		if err != nil {
			p.sb.WriteString("null")
			return
		}
		p.path = append(p.path, x)
		p.print(target)
		p.path = p.path[:len(p.path)-1]
	default:
		p.sb.WriteString(x.Kind().String())
	}
}
