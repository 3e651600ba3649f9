package postgres

import (
	"context"
	"testing"
	"time"

	domain "authbox/backend/internal/domain/auth"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepository_Create(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	tok := &domain.Token{
		ID:        "t-1",
		Value:     "opaque-value",
		Username:  "alice",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}

	t.Run("successful insert", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO tokens`).
			WithArgs("t-1", "opaque-value", "alice", tok.ExpiresAt, tok.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewTokenRepository(mock)
		require.NoError(t, repo.Create(context.Background(), tok))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("value collision maps to ErrTokenExists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO tokens`).
			WithArgs("t-1", "opaque-value", "alice", tok.ExpiresAt, tok.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		repo := NewTokenRepository(mock)
		assert.ErrorIs(t, repo.Create(context.Background(), tok), domain.ErrTokenExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTokenRepository_GetByValue(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id", "token", "username", "expires_at", "created_at"}).
			AddRow("t-1", "opaque-value", "alice", now.Add(time.Hour), now)
		mock.ExpectQuery(`SELECT id, token, username, expires_at, created_at`).
			WithArgs("opaque-value").
			WillReturnRows(rows)

		repo := NewTokenRepository(mock)
		tok, err := repo.GetByValue(context.Background(), "opaque-value")
		require.NoError(t, err)
		assert.Equal(t, "alice", tok.Username)
		assert.Equal(t, now.Add(time.Hour), tok.ExpiresAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, token, username, expires_at, created_at`).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		repo := NewTokenRepository(mock)
		_, err = repo.GetByValue(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrTokenNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTokenRepository_Delete_Idempotent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// Zero rows affected is still success.
	mock.ExpectExec(`DELETE FROM tokens WHERE token`).
		WithArgs("already-gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewTokenRepository(mock)
	assert.NoError(t, repo.Delete(context.Background(), "already-gone"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_DeleteExpired(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cutoff := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM tokens WHERE expires_at`).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	repo := NewTokenRepository(mock)
	removed, err := repo.DeleteExpired(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
