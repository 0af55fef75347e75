// Package cache memoizes expensive geometry builds keyed by their
// construction parameters. Concurrent requests for the same key share
// a single build.
package cache

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Key identifies one cached build. Build it with NewKey so equal
// parameters always produce equal keys.
type Key string

// NewKey derives a cache key from an operation name and its
// parameters. Floats are formatted with the shortest representation
// that round-trips, so distinct float values never collide.
func NewKey(op string, params ...any) Key {
	var b strings.Builder
	b.WriteString(op)
	for _, p := range params {
		b.WriteByte('|')
		switch v := p.(type) {
		case float64:
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		case int:
			b.WriteString(strconv.Itoa(v))
		case bool:
			b.WriteString(strconv.FormatBool(v))
		case string:
			b.WriteString(v)
		default:
			fmt.Fprintf(&b, "%v", v)
		}
	}
	return Key(b.String())
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Cache is a concurrency-safe memoization table. Failed builds are
// never stored, so a later request with the same key retries.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[Key]V
	group   singleflight.Group
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// New returns an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[Key]V)}
}

func (c *Cache[V]) lookup(key Key) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache[V]) store(key Key, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// GetOrBuild returns the cached value for key, or runs build and
// stores the result. Concurrent callers with the same key wait on one
// shared build instead of each running their own.
func (c *Cache[V]) GetOrBuild(key Key, build func() (V, error)) (V, error) {
	if v, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)

	res, err, _ := c.group.Do(string(key), func() (any, error) {
		// A shared flight may already have stored the value between
		// our lookup and here.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := build()
		if err != nil {
			return nil, err
		}
		c.store(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Len returns the number of stored entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the hit and miss counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
