package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/base62-shortener/internal/entity"
)

func TestCache(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss", func(t *testing.T) {
		c := New(10, time.Minute)

		url, err := c.Get(ctx, "b")

		assert.ErrorIs(t, err, entity.ErrCacheMiss)
		assert.Nil(t, url)
	})

	t.Run("set and get", func(t *testing.T) {
		c := New(10, time.Minute)

		err := c.Set(ctx, &entity.URL{ID: 1, ShortCode: "b", OriginalURL: "https://example.com/a"})
		assert.NoError(t, err)

		url, err := c.Get(ctx, "b")

		assert.NoError(t, err)
		assert.Equal(t, &entity.URL{ID: 1, ShortCode: "b", OriginalURL: "https://example.com/a"}, url)
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		c := New(10, time.Minute)
		_ = c.Set(ctx, &entity.URL{ID: 1, ShortCode: "b", OriginalURL: "https://example.com/a"})

		url, _ := c.Get(ctx, "b")
		url.OriginalURL = "https://evil.example.com"

		again, err := c.Get(ctx, "b")

		assert.NoError(t, err)
		assert.Equal(t, "https://example.com/a", again.OriginalURL)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		c := New(2, time.Minute)

		_ = c.Set(ctx, &entity.URL{ID: 1, ShortCode: "b"})
		_ = c.Set(ctx, &entity.URL{ID: 2, ShortCode: "c"})
		_, _ = c.Get(ctx, "b")
		_ = c.Set(ctx, &entity.URL{ID: 3, ShortCode: "d"})

		_, err := c.Get(ctx, "d")
		assert.NoError(t, err)

		_, err = c.Get(ctx, "c")
		assert.ErrorIs(t, err, entity.ErrCacheMiss)

		_, err = c.Get(ctx, "b")
		assert.NoError(t, err)
	})

	t.Run("expires entries", func(t *testing.T) {
		c := New(10, 10*time.Millisecond)
		_ = c.Set(ctx, &entity.URL{ID: 1, ShortCode: "b"})

		assert.Eventually(t, func() bool {
			_, err := c.Get(ctx, "b")
			return err != nil
		}, time.Second, 5*time.Millisecond)
	})
}
