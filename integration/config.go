// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package integration

import "fmt"

// Config tunes an Engine. Zero limits mean unlimited.
type Config struct {
	// ParseCacheSize is the number of parsed programs kept, keyed by a hash
	// of their source. Zero disables the cache.
	ParseCacheSize int

	MaxCallDepth  int
	MaxIterations int

	// Prelude is evaluated in the root scope right after true, false and
	// null are seeded.
	Prelude string
}

// DefaultConfig contains the settings used when none are given.
var DefaultConfig = Config{
	ParseCacheSize: 256,
	MaxCallDepth:   10000,
	MaxIterations:  0,
}

// Validate reports settings that cannot be honoured.
func (c *Config) Validate() error {
	switch {
	case c.ParseCacheSize < 0:
		return fmt.Errorf("invalid parse cache size %d", c.ParseCacheSize)
	case c.MaxCallDepth < 0:
		return fmt.Errorf("invalid maximum call depth %d", c.MaxCallDepth)
	case c.MaxIterations < 0:
		return fmt.Errorf("invalid maximum loop iterations %d", c.MaxIterations)
	}
	return nil
}
