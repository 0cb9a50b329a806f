// Package usecase implements shortening and resolving of URLs on top of a URL store.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vadimbarashkov/base62-shortener/internal/entity"
	"github.com/vadimbarashkov/base62-shortener/pkg/base62"
)

type urlRepository interface {
	FindByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error)
	CreateAndAssignCode(ctx context.Context, originalURL string, encode func(uint64) string) (*entity.URL, error)
	FindByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
}

type URLUseCase struct {
	baseURL string
	urlRepo urlRepository
}

// NewURLUseCase returns a use case building short URLs as "<baseURL>/<short code>".
func NewURLUseCase(baseURL string, urlRepo urlRepository) *URLUseCase {
	return &URLUseCase{
		baseURL: strings.TrimRight(baseURL, "/"),
		urlRepo: urlRepo,
	}
}

// ShortenURL returns the short URL of originalURL, creating the record on first use.
//
// A concurrent request may create the record between the lookup and the
// insert; the store then reports entity.ErrURLExists and the record created
// by the other request is returned instead.
func (uc *URLUseCase) ShortenURL(ctx context.Context, originalURL string) (string, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	url, err := uc.urlRepo.FindByOriginalURL(ctx, originalURL)
	if err == nil {
		return uc.shortURL(url), nil
	}

	if !errors.Is(err, entity.ErrURLNotFound) {
		return "", fmt.Errorf("%s: failed to find url: %w", op, err)
	}

	url, err = uc.urlRepo.CreateAndAssignCode(ctx, originalURL, base62.Encode)
	if err != nil {
		if !errors.Is(err, entity.ErrURLExists) {
			return "", fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		url, err = uc.urlRepo.FindByOriginalURL(ctx, originalURL)
		if err != nil {
			return "", fmt.Errorf("%s: failed to find concurrently created url: %w", op, err)
		}
	}

	return uc.shortURL(url), nil
}

// ResolveShortCode returns the record identified by shortCode.
// The returned error wraps entity.ErrURLNotFound when no record matches.
func (uc *URLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveShortCode"

	url, err := uc.urlRepo.FindByShortCode(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	return url, nil
}

func (uc *URLUseCase) shortURL(url *entity.URL) string {
	return uc.baseURL + "/" + url.ShortCode
}
