package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem wraps cached data with its expiry.
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// LocalCache is a size-bounded in-process cache with per-entry TTL.
type LocalCache struct {
	lruCache *lru.Cache[string, CacheItem]
	now      func() time.Time
}

// NewCache creates a cache holding at most size entries.
func NewCache(size int) (*LocalCache, error) {
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		return nil, err
	}
	return &LocalCache{lruCache: l, now: time.Now}, nil
}

func (c *LocalCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: c.now().Add(ttl),
	})
}

// Get returns nil when the key is missing or expired.
func (c *LocalCache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if c.now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

func (c *LocalCache) Delete(key string) {
	c.lruCache.Remove(key)
}
