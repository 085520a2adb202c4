package domain

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/zerr"
)

// Collection is a keyed set whose entries are enumerated in key order.
// Key uniqueness is enforced on Add.
type Collection[K comparable, V any] struct {
	mu      sync.RWMutex
	items   map[K]V
	keyOf   func(V) K
	compare func(a, b K) int
}

// NewCollection creates an empty collection keyed by keyOf and ordered by compare.
func NewCollection[K comparable, V any](keyOf func(V) K, compare func(a, b K) int) *Collection[K, V] {
	return &Collection[K, V]{
		items:   make(map[K]V),
		keyOf:   keyOf,
		compare: compare,
	}
}

// Add inserts v, failing with ErrDuplicateKey if its key is already present.
func (c *Collection[K, V]) Add(v V) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.keyOf(v)
	if _, ok := c.items[k]; ok {
		return zerr.With(ErrDuplicateKey, "key", k)
	}
	c.items[k] = v
	return nil
}

// Set inserts v, replacing any entry with the same key.
func (c *Collection[K, V]) Set(v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[c.keyOf(v)] = v
}

// Get returns the entry stored under k.
func (c *Collection[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[k]
	return v, ok
}

// Contains reports whether an entry is stored under k.
func (c *Collection[K, V]) Contains(k K) bool {
	_, ok := c.Get(k)
	return ok
}

// Remove deletes the entry stored under k and reports whether it existed.
func (c *Collection[K, V]) Remove(k K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[k]; !ok {
		return false
	}
	delete(c.items, k)
	return true
}

// Len returns the number of entries.
func (c *Collection[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// All returns a snapshot of the entries sorted by key.
func (c *Collection[K, V]) All() []V {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]K, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, c.compare)

	out := make([]V, len(keys))
	for i, k := range keys {
		out[i] = c.items[k]
	}
	return out
}

// Clone returns an independent copy of the collection.
func (c *Collection[K, V]) Clone() *Collection[K, V] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := NewCollection(c.keyOf, c.compare)
	maps.Copy(out.items, c.items)
	return out
}

// Restore replaces the entries of c with those of from.
func (c *Collection[K, V]) Restore(from *Collection[K, V]) {
	items := from.Clone().items
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
}
