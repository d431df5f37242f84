package crossref

import "sync"

// cache memoizes API responses by request URL for the lifetime of a
// single run, so repeated lookups for the same reference string cost
// one network call. Cached slices are treated as read-only.
type cache struct {
	mu      sync.Mutex
	entries map[string][]Work
	hits    int
	misses  int
}

func newCache() *cache {
	return &cache{entries: make(map[string][]Work)}
}

func (c *cache) get(key string) ([]Work, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	works, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return works, ok
}

func (c *cache) put(key string, works []Work) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = works
}

func (c *cache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
