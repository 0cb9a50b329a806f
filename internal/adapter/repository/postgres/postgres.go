package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/base62-shortener/internal/entity"
)

const uniqueViolationErrCode = "23505"

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolationErrCode
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

// URLRepository stores URL records in PostgreSQL.
type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

// FindByOriginalURL looks the record up through the md5 index on original_url;
// the second comparison keeps the match byte-exact.
func (r *URLRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.FindByOriginalURL"
	const query = `SELECT ` + urlColumns + ` FROM urls WHERE md5(original_url) = md5($1) AND original_url = $1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, originalURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

// CreateAndAssignCode inserts a record for originalURL and sets its short code
// to encode(id) in the same transaction, so no other session sees the record
// without a code.
func (r *URLRepository) CreateAndAssignCode(ctx context.Context, originalURL string, encode func(uint64) string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.CreateAndAssignCode"
	const insertQuery = `INSERT INTO urls(original_url) VALUES ($1) RETURNING id`
	const updateQuery = `UPDATE urls SET short_code = $1 WHERE id = $2 RETURNING ` + urlColumns

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	var id int64

	if err := tx.GetContext(ctx, &id, insertQuery, originalURL); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	shortCode := encode(uint64(id))
	if shortCode == "" {
		return nil, fmt.Errorf("%s: id %d: %w", op, id, entity.ErrEmptyShortCode)
	}

	var url urlDB

	if err := tx.GetContext(ctx, &url, updateQuery, shortCode, id); err != nil {
		return nil, fmt.Errorf("%s: failed to assign short code: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) FindByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.FindByShortCode"
	const query = `SELECT ` + urlColumns + ` FROM urls WHERE short_code = $1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, shortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}
