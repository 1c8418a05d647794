// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	assert.Equal(t, LET, LookupIdent("let"))
	assert.Equal(t, FUNCTION, LookupIdent("function"))
	assert.Equal(t, IF, LookupIdent("if"))
	assert.Equal(t, ELSE, LookupIdent("else"))
	assert.Equal(t, WHILE, LookupIdent("while"))

	// Host-seeded names are plain identifiers.
	assert.Equal(t, IDENT, LookupIdent("true"))
	assert.Equal(t, IDENT, LookupIdent("null"))
	assert.Equal(t, IDENT, LookupIdent("Let"))
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"let", "function", "if", "else", "while"}, Keywords())
	for _, kw := range Keywords() {
		assert.True(t, LookupIdent(kw).IsKeyword(), kw)
	}
}

func TestTypeClasses(t *testing.T) {
	assert.True(t, XOR.IsOperator())
	assert.True(t, OR.IsOperator())
	assert.False(t, ASSIGN.IsOperator())
	assert.True(t, STRING.IsLiteral())
	assert.False(t, EOF.IsLiteral())
	assert.Equal(t, "^^", XOR.String())
	assert.Equal(t, "token(999)", Type(999).String())
}

func TestTokenString(t *testing.T) {
	assert.Equal(t, "end of input", Token{Type: EOF}.String())
	assert.Equal(t, "42", Token{Type: INT, Literal: "42", Int: 42}.String())
	assert.Equal(t, "2.5", Token{Type: FLOAT, Literal: "2.5", Float: 2.5}.String())
	assert.Equal(t, `"hi"`, Token{Type: STRING, Literal: "hi"}.String())
	assert.Equal(t, "foo", Token{Type: IDENT, Literal: "foo"}.String())
	assert.Equal(t, ";", Token{Type: SEMICOLON}.String())
}
