// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which represents a shortened URL record, along
// with the error values shared by the repository, cache and use case layers.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrURLNotFound is returned when no URL matches the requested short code or original URL.
	ErrURLNotFound = errors.New("url not found")
	// ErrURLExists is returned when attempting to create a record for an original URL that is already stored.
	ErrURLExists = errors.New("original url exists")
	// ErrEmptyShortCode is returned when the encoder produced an empty short code for a new record.
	ErrEmptyShortCode = errors.New("empty short code")
	// ErrCacheMiss is returned by caches when the requested short code is not cached.
	ErrCacheMiss = errors.New("cache miss")
)

// URL represents a shortened URL.
type URL struct {
	ID          int64     `json:"id"`           // ID is the unique identifier of the URL assigned by the store.
	ShortCode   string    `json:"short_code"`   // ShortCode is the base62 encoding of ID.
	OriginalURL string    `json:"original_url"` // OriginalURL is the string the short code resolves to.
	CreatedAt   time.Time `json:"created_at"`   // CreatedAt is the timestamp when the URL was created.
}
