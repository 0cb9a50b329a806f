// Package sqlite implements the URL store on top of a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/vadimbarashkov/base62-shortener/internal/entity"
)

func isUniqueViolationError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

const urlColumns = `id, original_url, short_code, created_at`

type urlDB struct {
	ID          int64          `db:"id"`
	OriginalURL string         `db:"original_url"`
	ShortCode   sql.NullString `db:"short_code"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (u *urlDB) toEntity() *entity.URL {
	return &entity.URL{
		ID:          u.ID,
		ShortCode:   u.ShortCode.String,
		OriginalURL: u.OriginalURL,
		CreatedAt:   u.CreatedAt,
	}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.sqlite.URLRepository.FindByOriginalURL"
	const query = `SELECT ` + urlColumns + ` FROM urls WHERE original_url = ?`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, originalURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) CreateAndAssignCode(ctx context.Context, originalURL string, encode func(uint64) string) (*entity.URL, error) {
	const op = "adapter.repository.sqlite.URLRepository.CreateAndAssignCode"
	const insertQuery = `INSERT INTO urls(original_url) VALUES (?)`
	const updateQuery = `UPDATE urls SET short_code = ? WHERE id = ?`
	const selectQuery = `SELECT ` + urlColumns + ` FROM urls WHERE id = ?`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, insertQuery, originalURL)
	if err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get inserted id: %w", op, err)
	}

	shortCode := encode(uint64(id))
	if shortCode == "" {
		return nil, fmt.Errorf("%s: id %d: %w", op, id, entity.ErrEmptyShortCode)
	}

	if _, err := tx.ExecContext(ctx, updateQuery, shortCode, id); err != nil {
		return nil, fmt.Errorf("%s: failed to assign short code: %w", op, err)
	}

	var url urlDB

	if err := tx.GetContext(ctx, &url, selectQuery, id); err != nil {
		return nil, fmt.Errorf("%s: failed to get created row: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) FindByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.sqlite.URLRepository.FindByShortCode"
	const query = `SELECT ` + urlColumns + ` FROM urls WHERE short_code = ?`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}
