// SPDX-License-Identifier: MIT

package gridgraph

import "sync"

type shape struct{ h, w int }

// Cache memoizes Structures by shape. The zero value is not usable; call
// NewCache. Lookups take a read lock; a Structure is built at most once per
// shape and never replaced.
type Cache struct {
	mu    sync.RWMutex
	items map[shape]*Structure
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{items: make(map[shape]*Structure)}
}

// Get returns the Structure for (h, w), building it on first use.
// Errors: those of Build; failed builds are not cached.
func (c *Cache) Get(h, w int) (*Structure, error) {
	key := shape{h, w}
	c.mu.RLock()
	s, ok := c.items[key]
	c.mu.RUnlock()
	if ok {
		return s, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok = c.items[key]; ok {
		return s, nil
	}
	s, err := Build(h, w)
	if err != nil {
		return nil, err
	}
	c.items[key] = s

	return s, nil
}

// Len returns the number of cached shapes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}
