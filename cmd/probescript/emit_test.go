// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probechain/probescript/lang/lexer"
	"github.com/probechain/probescript/lang/parser"
)

func TestWriteTokens(t *testing.T) {
	toks, err := lexer.Tokenize(`let s = "a b"`)
	require.NoError(t, err)

	var buf bytes.Buffer
	writeTokens(&buf, toks)
	out := buf.String()
	for _, want := range []string{"POS", "TYPE", "LITERAL", "1:1", "let", "1:9", `"a b"`, "EOF"} {
		assert.Contains(t, out, want)
	}
}

func TestWriteAST(t *testing.T) {
	prog, err := parser.ParseSource("let x = 1 + 2 * 3; if (x) x")
	require.NoError(t, err)

	var buf bytes.Buffer
	writeAST(&buf, prog, false)
	assert.Equal(t, "(let x = (1 + (2 * 3)))\nif (x) x\n", buf.String())

	buf.Reset()
	writeAST(&buf, prog, true)
	assert.Contains(t, buf.String(), "ast.VarDef")
	assert.Contains(t, buf.String(), "Name: (string) (len=1) \"x\"")
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := parser.ParseSource("1 +\n  $")
	require.Error(t, err)
	assert.Equal(t, "2:3: unknown character '$'", syntaxError(err))
	assert.Equal(t, "boom", syntaxError(errors.New("boom")))
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"function f(a) {", true},
		{`let s = "open`, true},
		{"if (x", true},
		{"while (x)", true},
		{"let x =", true},
		{"1 >", true},
		{"1 2", false},
		{"$", false},
	}
	for _, tt := range tests {
		_, err := parser.ParseSource(tt.src)
		require.Error(t, err, tt.src)
		assert.Equal(t, tt.want, incomplete(err), tt.src)
	}
}
