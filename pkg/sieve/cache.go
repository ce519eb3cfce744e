package sieve

import (
	"sync"

	"github.com/tidwall/btree"
)

// cacheEntry pairs a built sieve with its bound, ordered by bound.
type cacheEntry struct {
	maxValue uint64
	sieve    *Sieve[uint64]
}

func cacheEntryLess(a, b cacheEntry) bool {
	return a.maxValue < b.maxValue
}

// Cache keeps built sieves ordered by their bound and answers point queries
// by reusing the smallest sieve that already covers the requested value.
// Safe for concurrent use; cached sieves are only read through cursor-free
// methods.
type Cache struct {
	mu      sync.RWMutex
	entries *btree.BTreeG[cacheEntry]
}

// NewCache returns an empty cache. Sieves it builds use the default
// configuration (compression 6, 64-bit words).
func NewCache() *Cache {
	return &Cache{
		entries: btree.NewBTreeG(cacheEntryLess),
	}
}

// For returns a sieve covering n, building and caching one on miss. Built
// bounds get 25% headroom so a run of slowly growing queries does not build
// a sieve per query.
func (c *Cache) For(n uint64) (*Sieve[uint64], error) {
	c.mu.RLock()
	s := c.lookup(n)
	c.mu.RUnlock()
	if s != nil {
		return s, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s = c.lookup(n); s != nil {
		return s, nil
	}

	bound := n + n/4
	if bound < n { // overflow on absurd n; New will report ErrAllocation
		bound = n
	}
	wheel, err := wheelFor(DefaultCompression)
	if err != nil {
		return nil, err
	}
	if bound < wheel.MinValue() {
		bound = wheel.MinValue()
	}
	s, err = New(bound)
	if err != nil {
		return nil, err
	}
	c.entries.Set(cacheEntry{maxValue: s.MaxValue(), sieve: s})
	return s, nil
}

// lookup finds the smallest cached sieve whose bound is >= n. Callers hold
// at least a read lock.
func (c *Cache) lookup(n uint64) *Sieve[uint64] {
	var found *Sieve[uint64]
	c.entries.Ascend(cacheEntry{maxValue: n}, func(e cacheEntry) bool {
		found = e.sieve
		return false
	})
	return found
}

// IsPrime answers a point primality query, short-circuiting n < 210 through
// the static table and otherwise going through a covering sieve.
func (c *Cache) IsPrime(n uint64) (bool, error) {
	if n < smallTableLimit {
		return IsSmallPrime(n), nil
	}
	s, err := c.For(n)
	if err != nil {
		return false, err
	}
	return s.IsPrime(n), nil
}

// Len returns the number of cached sieves.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Len()
}
