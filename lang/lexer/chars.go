// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package lexer

import (
	mapset "github.com/deckarep/golang-set"

	"github.com/probechain/probescript/lang/token"
)

// Fixed classification tables. They are built once and only read afterwards.
var (
	digits   = charSet("0123456789")
	letters  = charSet("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_")
	keywords = wordSet(token.Keywords())

	// escapes maps the character following a backslash inside a string
	// literal to its substitution. Unmapped characters pass through as-is.
	escapes = map[byte]byte{
		'n': '\n',
	}
)

func charSet(chars string) mapset.Set {
	s := mapset.NewThreadUnsafeSet()
	for i := 0; i < len(chars); i++ {
		s.Add(chars[i])
	}
	return s
}

func wordSet(words []string) mapset.Set {
	s := mapset.NewThreadUnsafeSet()
	for _, w := range words {
		s.Add(w)
	}
	return s
}

func isDigit(ch byte) bool {
	return digits.Contains(ch)
}

func isIdentStart(ch byte) bool {
	return letters.Contains(ch)
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isKeyword(word string) bool {
	return keywords.Contains(word)
}

func isQuote(ch byte) bool {
	return ch == '"' || ch == '\''
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}
