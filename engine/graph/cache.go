package graph

import (
	"strings"
	"sync"

	"github.com/loregraph/loregraph/engine/domain"
)

// queryCache is a content-addressed result cache keyed by normalized
// query text. No eviction: the lore graph workload is a handful of
// distinct queries per session. Concurrent identical queries may
// populate the same key redundantly; last writer wins.
type queryCache struct {
	mu sync.RWMutex
	m  map[string]domain.ResultSet
}

func newQueryCache() *queryCache {
	return &queryCache{m: make(map[string]domain.ResultSet)}
}

// cacheKey normalizes query text for content addressing.
func cacheKey(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

func (c *queryCache) get(key string) (domain.ResultSet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rs, ok := c.m[key]
	return rs, ok
}

func (c *queryCache) put(key string, rs domain.ResultSet) {
	c.mu.Lock()
	c.m[key] = rs
	c.mu.Unlock()
}
