// Package cache implements the bounded value cache used for dependent-item
// fanout: a mapping from item_id to the most recently processed sample.
//
// Eviction is LRU, backed by github.com/hashicorp/golang-lru/v2 (the same
// dependency the go-ethereum/bor examples in this project's retrieval pack
// pull in for bounded in-memory maps). Readers see either a complete entry
// or absence, never a partially written one, because the underlying cache
// serializes Add/Get under its own lock.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Entry pairs a cached value with the timestamp it was produced at.
type Entry[V any] struct {
	Value     V
	Timestamp time.Time
}

// ValueCache is a bounded, LRU-evicted item_id -> Entry map. The zero value
// is not usable; construct with New.
type ValueCache[V any] struct {
	inner *lru.Cache[uint64, Entry[V]]
}

// New constructs a ValueCache holding at most capacity entries.
func New[V any](capacity int) (*ValueCache[V], error) {
	inner, err := lru.New[uint64, Entry[V]](capacity)
	if err != nil {
		return nil, err
	}
	return &ValueCache[V]{inner: inner}, nil
}

// Put writes (or overwrites) the entry for itemID. Single-writer-per-item is
// the caller's responsibility (the task queue's sequence-serialization
// enforces it for VALUE_SEQ/SEQUENCE streams; plain VALUE tasks for one
// item_id are expected not to run concurrently either).
func (c *ValueCache[V]) Put(itemID uint64, v V, ts time.Time) {
	c.inner.Add(itemID, Entry[V]{Value: v, Timestamp: ts})
}

// Get returns the cached entry for itemID, if present.
func (c *ValueCache[V]) Get(itemID uint64) (Entry[V], bool) {
	return c.inner.Get(itemID)
}

// Len returns the number of entries currently cached.
func (c *ValueCache[V]) Len() int {
	return c.inner.Len()
}
