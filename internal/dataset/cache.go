package dataset

import (
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheInfo describes the fetcher's document cache.
type CacheInfo struct {
	Size  int
	Keys  []string
	Bytes int
}

// docCache keeps fetched documents by location. A ttl of 0 never expires.
type docCache struct {
	lru *expirable.LRU[string, []byte]
}

func newDocCache(ttl time.Duration) *docCache {
	// size 0 is unbounded; expirable treats ttl <= 0 as no expiry
	return &docCache{lru: expirable.NewLRU[string, []byte](0, nil, ttl)}
}

func (c *docCache) get(key string) ([]byte, bool) {
	return c.lru.Get(key)
}

func (c *docCache) set(key string, body []byte) {
	c.lru.Add(key, body)
}

func (c *docCache) clear() {
	c.lru.Purge()
}

func (c *docCache) info() CacheInfo {
	keys := c.lru.Keys()
	info := CacheInfo{Keys: make([]string, 0, len(keys))}
	for _, key := range keys {
		body, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		info.Keys = append(info.Keys, key)
		info.Bytes += len(body)
	}
	info.Size = len(info.Keys)
	sort.Strings(info.Keys)
	return info
}
