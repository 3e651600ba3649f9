package postgres

import (
	"context"
	"errors"
	"time"

	domain "authbox/backend/internal/domain/auth"

	"github.com/jackc/pgx/v5"
)

// TokenRepository persists bearer tokens in PostgreSQL.
type TokenRepository struct {
	pool Querier
}

// NewTokenRepository constructs a repository.
func NewTokenRepository(pool Querier) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Create inserts a new token record. A value collision maps to
// domain.ErrTokenExists so the caller can regenerate.
func (r *TokenRepository) Create(ctx context.Context, token *domain.Token) error {
	const query = `
INSERT INTO tokens (id, token, username, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := r.pool.Exec(ctx, query,
		token.ID,
		token.Value,
		token.Username,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrTokenExists
		}
		return err
	}
	return nil
}

// GetByValue fetches a token by its opaque value.
func (r *TokenRepository) GetByValue(ctx context.Context, value string) (*domain.Token, error) {
	const query = `
SELECT id, token, username, expires_at, created_at
FROM tokens WHERE token = $1
`
	row := r.pool.QueryRow(ctx, query, value)

	var t domain.Token
	err := row.Scan(
		&t.ID,
		&t.Value,
		&t.Username,
		&t.ExpiresAt,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Delete removes a token by value. Deleting an absent token is a no-op.
func (r *TokenRepository) Delete(ctx context.Context, value string) error {
	const query = `DELETE FROM tokens WHERE token = $1`
	_, err := r.pool.Exec(ctx, query, value)
	return err
}

// DeleteExpired removes all tokens expiring at or before cutoff.
func (r *TokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM tokens WHERE expires_at <= $1`
	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
