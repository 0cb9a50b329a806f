// Package cached decorates a URL repository with a read-through cache keyed
// by short code. Records never change once their short code is assigned, so
// cached entries are never invalidated, only evicted or expired by the cache.
package cached

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vadimbarashkov/base62-shortener/internal/entity"
)

type urlRepository interface {
	FindByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error)
	CreateAndAssignCode(ctx context.Context, originalURL string, encode func(uint64) string) (*entity.URL, error)
	FindByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
}

type urlCache interface {
	Get(ctx context.Context, shortCode string) (*entity.URL, error)
	Set(ctx context.Context, url *entity.URL) error
}

type URLRepository struct {
	next   urlRepository
	cache  urlCache
	logger *slog.Logger
}

func NewURLRepository(next urlRepository, cache urlCache, logger *slog.Logger) *URLRepository {
	return &URLRepository{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

func (r *URLRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	return r.next.FindByOriginalURL(ctx, originalURL)
}

func (r *URLRepository) CreateAndAssignCode(ctx context.Context, originalURL string, encode func(uint64) string) (*entity.URL, error) {
	url, err := r.next.CreateAndAssignCode(ctx, originalURL, encode)
	if err != nil {
		return nil, err
	}

	r.store(ctx, url)

	return url, nil
}

// FindByShortCode serves from the cache when possible. Cache failures are
// logged and the lookup falls through to the wrapped repository.
func (r *URLRepository) FindByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.cached.URLRepository.FindByShortCode"

	url, err := r.cache.Get(ctx, shortCode)
	if err == nil {
		return url, nil
	}

	if !errors.Is(err, entity.ErrCacheMiss) {
		r.logger.WarnContext(ctx, "failed to read url from cache",
			slog.String("op", op),
			slog.String("short_code", shortCode),
			slog.Any("err", err),
		)
	}

	url, err = r.next.FindByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	r.store(ctx, url)

	return url, nil
}

func (r *URLRepository) store(ctx context.Context, url *entity.URL) {
	const op = "adapter.repository.cached.URLRepository.store"

	if err := r.cache.Set(ctx, url); err != nil {
		r.logger.WarnContext(ctx, "failed to write url to cache",
			slog.String("op", op),
			slog.String("short_code", url.ShortCode),
			slog.Any("err", err),
		)
	}
}
