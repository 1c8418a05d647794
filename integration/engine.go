// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Package integration embeds the probescript pipeline in a host. An Engine
// owns one scope registry for its whole lifetime, so bindings made by one
// Eval are visible to the next, which is what a REPL session needs.
package integration

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/crypto/sha3"

	"github.com/probechain/probescript/lang/ast"
	"github.com/probechain/probescript/lang/interp"
	"github.com/probechain/probescript/lang/lexer"
	"github.com/probechain/probescript/lang/parser"
	"github.com/probechain/probescript/lang/scope"
	"github.com/probechain/probescript/lang/value"
	"github.com/probechain/probescript/log"
)

var (
	// ErrSyntax wraps lexer and parser failures.
	ErrSyntax = errors.New("syntax error")

	// ErrRuntime wraps evaluation failures.
	ErrRuntime = errors.New("runtime error")
)

// builtins are seeded into every root scope.
var builtins = []struct {
	name string
	val  value.Value
}{
	{"true", value.Boolean(true)},
	{"false", value.Boolean(false)},
	{"null", value.Null{}},
}

// Engine runs probescript source against a persistent root scope.
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg    Config
	scopes *scope.Manager[value.Value]
	root   scope.Handle
	interp *interp.Interpreter

	cache *lru.Cache // sha3-256(source) -> *ast.StatementBlock

	id  uuid.UUID
	log log.Logger
}

// New creates an engine, seeds its root scope and runs the configured
// prelude.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		scopes: scope.NewManager[value.Value](),
		id:     uuid.New(),
	}
	e.log = log.New("session", e.id.String()[:8])

	if cfg.ParseCacheSize > 0 {
		cache, err := lru.New(cfg.ParseCacheSize)
		if err != nil {
			return nil, err
		}
		e.cache = cache
	}

	root, err := e.scopes.Create(scope.None)
	if err != nil {
		return nil, err
	}
	e.root = root
	for _, b := range builtins {
		if err := e.scopes.Set(root, b.name, b.val); err != nil {
			return nil, err
		}
	}

	e.interp = interp.New(e.scopes, interp.Config{
		MaxCallDepth:  cfg.MaxCallDepth,
		MaxIterations: cfg.MaxIterations,
	})
	e.interp.SetLogger(e.log)

	if cfg.Prelude != "" {
		if _, err := e.Eval(cfg.Prelude); err != nil {
			return nil, fmt.Errorf("prelude: %w", err)
		}
	}
	e.log.Debug("Engine created", "cache", cfg.ParseCacheSize, "maxdepth", cfg.MaxCallDepth, "globals", len(e.Globals()))
	return e, nil
}

// ID returns the engine's session identifier.
func (e *Engine) ID() uuid.UUID { return e.id }

// Root returns the handle of the root scope.
func (e *Engine) Root() scope.Handle { return e.root }

// Scopes exposes the engine's scope registry.
func (e *Engine) Scopes() *scope.Manager[value.Value] { return e.scopes }

// Globals lists the names bound in the root scope.
func (e *Engine) Globals() []string { return e.scopes.Names(e.root) }

// Lookup resolves name in the root scope.
func (e *Engine) Lookup(name string) (value.Value, bool) {
	v, ok := e.scopes.Lookup(e.root, name)
	if !ok {
		return nil, false
	}
	resolved, err := value.Deref(e.scopes, v)
	if err != nil {
		return nil, false
	}
	return resolved, true
}

// Parse tokenises and parses src, consulting the parse cache first. Parsed
// programs are never mutated, so a cached tree can be evaluated again.
func (e *Engine) Parse(src string) (*ast.StatementBlock, error) {
	key := sha3.Sum256([]byte(src))
	if e.cache != nil {
		if prog, ok := e.cache.Get(key); ok {
			e.log.Trace("Parse cache hit", "hash", fmt.Sprintf("%x", key[:4]))
			return prog.(*ast.StatementBlock), nil
		}
	}
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if e.cache != nil {
		e.cache.Add(key, prog)
	}
	return prog, nil
}

// Eval parses src and evaluates it in the root scope. The result is fully
// dereferenced.
func (e *Engine) Eval(src string) (value.Value, error) {
	start := time.Now()
	prog, err := e.Parse(src)
	if err != nil {
		e.log.Debug("Rejected source", "err", err)
		return nil, err
	}
	scopesBefore := e.scopes.Len()

	v, err := e.interp.Visit(prog, e.root)
	if err == nil {
		v, err = value.Deref(e.scopes, v)
	}
	if err != nil {
		e.log.Debug("Evaluation failed", "err", err, "elapsed", time.Since(start))
		return nil, fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	e.log.Debug("Evaluated source", "statements", len(prog.Statements),
		"newscopes", e.scopes.Len()-scopesBefore, "elapsed", time.Since(start))
	return v, nil
}

// Print renders v in its printable form.
func (e *Engine) Print(v value.Value) string {
	return value.Print(e.scopes, v)
}

// CacheLen returns the number of parsed programs currently cached.
func (e *Engine) CacheLen() int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}
