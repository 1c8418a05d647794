// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package scope implements the scope registry shared by a single interpreter
// run. Scopes are addressed by opaque handles, chained to an optional parent,
// and never destroyed.
package scope

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScope is returned when a handle does not name a registered scope.
var ErrUnknownScope = errors.New("unknown scope")

// Handle identifies a scope within a Manager. The zero Handle is never
// allocated and means "no parent".
type Handle uint32

// None is the parent of root scopes.
const None Handle = 0

func (h Handle) String() string {
	if h == None {
		return "scope(none)"
	}
	return fmt.Sprintf("scope(%d)", uint32(h))
}

type frame[V any] struct {
	vars   map[string]V
	parent Handle
}

// Manager owns every scope of a run. Handles are allocated from a monotonic
// counter, so a handle is also the 1-based index of its scope in the arena.
//
// A Manager is not safe for concurrent use.
type Manager[V any] struct {
	scopes []frame[V]
}

// NewManager returns an empty registry.
func NewManager[V any]() *Manager[V] {
	return &Manager[V]{}
}

func (m *Manager[V]) frame(h Handle) (*frame[V], bool) {
	if h == None || int(h) > len(m.scopes) {
		return nil, false
	}
	return &m.scopes[h-1], true
}

// Create registers an empty scope whose parent is parent (None for a root)
// and returns its handle. The parent must already exist, which keeps every
// parent chain acyclic.
func (m *Manager[V]) Create(parent Handle) (Handle, error) {
	if parent != None && !m.Exists(parent) {
		return None, fmt.Errorf("%w: parent %s", ErrUnknownScope, parent)
	}
	m.scopes = append(m.scopes, frame[V]{vars: make(map[string]V), parent: parent})
	return Handle(len(m.scopes)), nil
}

// Set inserts or overwrites name in scope h only. Parents are never searched.
func (m *Manager[V]) Set(h Handle, name string, v V) error {
	f, ok := m.frame(h)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownScope, h)
	}
	f.vars[name] = v
	return nil
}

// Lookup returns the binding of name visible from h, walking the parent
// chain outwards.
func (m *Manager[V]) Lookup(h Handle, name string) (V, bool) {
	for f, ok := m.frame(h); ok; f, ok = m.frame(f.parent) {
		if v, found := f.vars[name]; found {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// LookupLocal returns the binding of name in h itself.
func (m *Manager[V]) LookupLocal(h Handle, name string) (V, bool) {
	if f, ok := m.frame(h); ok {
		v, found := f.vars[name]
		return v, found
	}
	var zero V
	return zero, false
}

// Exists reports whether h names a registered scope.
func (m *Manager[V]) Exists(h Handle) bool {
	_, ok := m.frame(h)
	return ok
}

// Parent returns the parent of h, or None for roots and unknown handles.
func (m *Manager[V]) Parent(h Handle) Handle {
	if f, ok := m.frame(h); ok {
		return f.parent
	}
	return None
}

// Names returns the names bound locally in h, sorted.
func (m *Manager[V]) Names(h Handle) []string {
	f, ok := m.frame(h)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(f.vars))
	for name := range f.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of scopes ever created.
func (m *Manager[V]) Len() int { return len(m.scopes) }
