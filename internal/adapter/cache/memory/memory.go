// Package memory provides an in-process, size-bounded URL cache.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/vadimbarashkov/base62-shortener/internal/entity"
)

// Cache keeps up to size records keyed by short code, evicting the least
// recently used ones and dropping entries older than ttl.
type Cache struct {
	lru *expirable.LRU[string, entity.URL]
}

func New(size int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, entity.URL](size, nil, ttl),
	}
}

func (c *Cache) Get(_ context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.cache.memory.Cache.Get"

	url, ok := c.lru.Get(shortCode)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrCacheMiss)
	}

	return &url, nil
}

func (c *Cache) Set(_ context.Context, url *entity.URL) error {
	c.lru.Add(url.ShortCode, *url)
	return nil
}
