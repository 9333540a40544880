package query

import (
	"container/list"
	"sync"
)

// lruCache implements a thread-safe LRU cache keyed by expression source
type lruCache[V any] struct {
	size      int
	evictList *list.List
	items     map[string]*list.Element
	mu        sync.Mutex
}

// entry is stored in the cache
type entry[V any] struct {
	key   string
	value V
}

// newLRUCache creates a new LRU cache with the given size
func newLRUCache[V any](size int) *lruCache[V] {
	return &lruCache[V]{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}
}

// Get retrieves a value and marks it most recently used
func (c *lruCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, exists := c.items[key]
	if !exists {
		var zero V
		return zero, false
	}

	c.evictList.MoveToFront(node)
	return node.Value.(*entry[V]).value, true
}

// Put adds or updates a value in the cache
func (c *lruCache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, exists := c.items[key]; exists {
		c.evictList.MoveToFront(node)
		node.Value.(*entry[V]).value = value
		return
	}

	node := c.evictList.PushFront(&entry[V]{key: key, value: value})
	c.items[key] = node

	if c.evictList.Len() > c.size {
		c.removeOldest()
	}
}

// removeOldest removes the least recently used item
func (c *lruCache[V]) removeOldest() {
	node := c.evictList.Back()
	if node != nil {
		c.evictList.Remove(node)
		delete(c.items, node.Value.(*entry[V]).key)
	}
}

// Len returns the number of items in the cache
func (c *lruCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.evictList.Len()
}
