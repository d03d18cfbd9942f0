// Package cache provides a coalescing, memoizing fetch wrapper for expensive
// reads shared across views (configuration, prompt/role indexes, and similar).
//
// The central invariant: N concurrent callers against a cold entry issue
// exactly one underlying fetch and all receive its result. Invalidation bumps
// a generation counter so a fetch issued before Invalidate can never clobber a
// value fetched after it.
package cache

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value from the backing source (normally the network).
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Cache memoizes a single named resource.
//
// There is no TTL: entries stay valid until a mutation calls Invalidate, which
// is the contract every mutation path follows before the UI re-reads.
type Cache[T any] struct {
	name  string
	fetch FetchFunc[T]

	mu  sync.Mutex
	val T
	has bool
	gen uint64

	group singleflight.Group
}

// New creates a cache for one named resource. The name only appears in
// diagnostics.
func New[T any](name string, fetch FetchFunc[T]) *Cache[T] {
	return &Cache[T]{name: name, fetch: fetch}
}

func (c *Cache[T]) Name() string { return c.name }

// Get returns the cached value, or fetches it.
//
// With force=false a valid cached value is returned without any network call,
// and concurrent callers during a cold fetch join the same in-flight
// operation. With force=true the cached value is bypassed; callers still
// coalesce onto the current generation's fetch if one is already under way
// (that fetch is the freshest result available).
//
// On fetch failure nothing is cached and the error propagates to every
// coalesced waiter; the next Get re-fetches.
func (c *Cache[T]) Get(ctx context.Context, force bool) (T, error) {
	c.mu.Lock()
	if c.has && !force {
		v := c.val
		c.mu.Unlock()
		return v, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		val, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		// A fetch that raced with Invalidate is superseded: discard its
		// result instead of overwriting the newer generation.
		if c.gen == gen {
			c.val = val
			c.has = true
		}
		c.mu.Unlock()
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate discards the cached value and detaches any in-flight fetch.
//
// The in-flight network call is not cancelled; its late result is simply
// ignored (generation mismatch). A Get immediately after Invalidate always
// starts a fresh fetch.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	var zero T
	c.val = zero
	c.has = false
	c.gen++
	c.mu.Unlock()
}

// Peek reports the cached value without triggering a fetch.
func (c *Cache[T]) Peek() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val, c.has
}
