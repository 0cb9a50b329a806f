// Package redis provides a URL cache shared between service instances.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/base62-shortener/internal/entity"
)

const keyPrefix = "url:"

func key(shortCode string) string {
	return keyPrefix + shortCode
}

// Cache stores JSON-encoded records under "url:<short code>".
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func New(client redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

func (c *Cache) Get(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.cache.redis.Cache.Get"

	data, err := c.client.Get(ctx, key(shortCode)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrCacheMiss)
		}

		return nil, fmt.Errorf("%s: failed to get key: %w", op, err)
	}

	var url entity.URL

	if err := json.Unmarshal(data, &url); err != nil {
		return nil, fmt.Errorf("%s: failed to decode cached url: %w", op, err)
	}

	return &url, nil
}

func (c *Cache) Set(ctx context.Context, url *entity.URL) error {
	const op = "adapter.cache.redis.Cache.Set"

	data, err := json.Marshal(url)
	if err != nil {
		return fmt.Errorf("%s: failed to encode url: %w", op, err)
	}

	if err := c.client.Set(ctx, key(url.ShortCode), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: failed to set key: %w", op, err)
	}

	return nil
}
