// Copyright (c) parun contributors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pathcache resolves executable names to absolute paths, caching
// results for the lifetime of the process. It is grounded on the
// teacher's internal/commands/commandinpath PATH walk, generalized from a
// one-shot search into a concurrent, insertion-once cache per §4.6/§5.
package pathcache

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"parun/internal/ctxlog"
)

// ErrNotFound is the sentinel for a name that could not be resolved. It is
// joined with the underlying lookup error; the Cache stores that joined
// error and returns it to every later caller for the same name.
var ErrNotFound = errors.New("executable not found in PATH")

// entry is the cached result for one executable name.
type entry struct {
	path string
	err  error
}

// Lookup resolves an executable name to an absolute path. It matches
// exec.LookPath's signature so tests can pass a fake through NewWithLookup
// or Disabled.Lookup.
type Lookup func(name string) (string, error)

// Cache is a concurrent map from executable name to resolved path, with
// singleflight-coalesced misses (§4.6, §5 "If latency matters, layer a
// singleflight on top" — the spec's own suggested upgrade from the
// baseline "duplicate lookups are acceptable" map).
type Cache struct {
	lookup Lookup
	group  singleflight.Group
	cache  map[string]entry
	mu     sync.Mutex
}

// New creates a path cache backed by exec.LookPath.
func New() *Cache {
	return NewWithLookup(exec.LookPath)
}

// NewWithLookup creates a path cache backed by a custom lookup function,
// used by tests to avoid touching the real filesystem/PATH.
func NewWithLookup(lookup Lookup) *Cache {
	return &Cache{
		lookup: lookup,
		cache:  make(map[string]entry),
	}
}

// Disabled wraps a Lookup as a pass-through "cache" that performs a fresh
// lookup on every call, for --disable-path-cache.
type Disabled struct {
	Lookup Lookup
}

// Resolve performs a fresh, uncached lookup.
func (d Disabled) Resolve(_ context.Context, name string) (string, error) {
	lookup := d.Lookup
	if lookup == nil {
		lookup = exec.LookPath
	}

	path, err := lookup(name)
	if err != nil {
		return "", errors.Join(ErrNotFound, err)
	}

	return path, nil
}

// Resolver is implemented by both Cache and Disabled.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

var (
	_ Resolver = (*Cache)(nil)
	_ Resolver = Disabled{}
)

// Resolve resolves name to an absolute path. Names containing a path
// separator bypass the cache entirely and are returned verbatim (§4.6).
// Misses for a key that arrive while a lookup for it is in flight share that
// lookup through singleflight. A miss that checked the cache just before a
// finished lookup stored its result runs one more lookup.
func (c *Cache) Resolve(ctx context.Context, name string) (string, error) {
	if strings.ContainsRune(name, '/') {
		return name, nil
	}

	c.mu.Lock()
	e, ok := c.cache[name]
	c.mu.Unlock()

	if ok {
		return e.path, e.err
	}

	v, err, _ := c.group.Do(name, func() (any, error) {
		path, lookupErr := c.lookup(name)
		if lookupErr != nil {
			lookupErr = errors.Join(ErrNotFound, lookupErr)
		}

		c.mu.Lock()
		c.cache[name] = entry{path: path, err: lookupErr}
		c.mu.Unlock()

		ctxlog.Logger(ctx).Debug("path cache miss", "name", name, "path", path, "error", lookupErr)

		return path, lookupErr
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil //nolint:forcetypeassert
}
