package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/base62-shortener/internal/entity"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "url:ba", key("ba"))
}

func TestCache_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() {
		client.Close()
	})

	c := New(client, time.Minute)

	t.Run("get", func(t *testing.T) {
		url, err := c.Get(context.Background(), "b")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, entity.ErrCacheMiss)
		assert.Nil(t, url)
	})

	t.Run("set", func(t *testing.T) {
		err := c.Set(context.Background(), &entity.URL{ID: 1, ShortCode: "b"})

		assert.Error(t, err)
	})
}
