package cache

import (
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	// maxEntries is the capacity bound; exceeding it triggers eviction.
	maxEntries = 1000
	// evictBatch is how many of the oldest entries one eviction removes.
	evictBatch = 100
)

// MemoryCache is an in-process cache bounded by entry count. When the count
// exceeds maxEntries, the evictBatch oldest entries by insertion order are
// dropped. Entries do not expire by age.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]string
	// order tracks insertion order for eviction.
	order []string
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]string),
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(sourceLang, targetLang, text string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.entries[Key(sourceLang, targetLang, text)]
	return value, ok
}

// Set implements Cache.
func (c *MemoryCache) Set(sourceLang, targetLang, text, translation string) {
	key := Key(sourceLang, targetLang, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = translation

	if len(c.entries) > maxEntries {
		evicted := 0
		for _, old := range c.order[:evictBatch] {
			if _, ok := c.entries[old]; ok {
				delete(c.entries, old)
				evicted++
			}
		}
		c.order = c.order[evictBatch:]
		logrus.Debugf("Translation cache evicted %d oldest entries", evicted)
	}
}

// Close implements Cache.
func (c *MemoryCache) Close() error {
	return nil
}

// Len returns the current entry count.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
