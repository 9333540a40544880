package query

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUCache(t *testing.T) {
	c := newLRUCache[int](2)

	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("a")
	c.Put("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := newLRUCache[int](8)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i%10))
			c.Put(key, i)
			c.Get(key)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 8)
}
