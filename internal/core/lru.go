package core

import "sync"

// LRU is a fixed-size, mutex-guarded least-recently-used map. Entries live
// in a circular doubly linked list anchored at a sentinel; sentinel.next is
// the most recently used entry.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[K]*lruNode[K, V]
	sentinel lruNode[K, V]
	stats    LRUStats
}

type lruNode[K comparable, V any] struct {
	key        K
	value      V
	prev, next *lruNode[K, V]
}

type LRUStats struct {
	Hits, Misses, Evictions uint64
	Size, Capacity          int
}

const defaultLRUCapacity = 1024

// NewLRU returns an empty cache. capacity <= 0 selects 1024.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = defaultLRUCapacity
	}
	c := &LRU[K, V]{capacity: capacity, entries: make(map[K]*lruNode[K, V])}
	c.sentinel.prev = &c.sentinel
	c.sentinel.next = &c.sentinel
	return c
}

func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(key)
}

func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, value)
}

// GetOrLoad returns the cached value or stores the result of load. Errors
// are not cached. load runs under the lock, so it must be quick and must
// not touch c.
func (c *LRU[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.lookup(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.store(key, v)
	return v, nil
}

func (c *LRU[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.entries[key]
	if ok {
		c.unlink(n)
	}
	return ok
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU[K, V]) Stats() LRUStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size, s.Capacity = len(c.entries), c.capacity
	return s
}

func (c *LRU[K, V]) lookup(key K) (V, bool) {
	n, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}
	c.stats.Hits++
	c.moveToFront(n)
	return n.value, true
}

func (c *LRU[K, V]) store(key K, value V) {
	if n, ok := c.entries[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}
	n := &lruNode[K, V]{key: key, value: value}
	c.entries[key] = n
	c.pushFront(n)
	for len(c.entries) > c.capacity {
		c.unlink(c.sentinel.prev)
		c.stats.Evictions++
	}
}

func (c *LRU[K, V]) pushFront(n *lruNode[K, V]) {
	n.prev = &c.sentinel
	n.next = c.sentinel.next
	n.next.prev = n
	c.sentinel.next = n
}

func (c *LRU[K, V]) moveToFront(n *lruNode[K, V]) {
	if c.sentinel.next == n {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	c.pushFront(n)
}

func (c *LRU[K, V]) unlink(n *lruNode[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
	delete(c.entries, n.key)
}
