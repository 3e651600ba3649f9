package auth

import (
	"context"
	"time"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts a new user. The store-level unique constraint on the
	// username is the authority for duplicates; Create returns ErrUserExists
	// when it fires.
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// TokenRepository defines persistence operations for bearer tokens.
type TokenRepository interface {
	// Create inserts a new token. Returns ErrTokenExists on a value collision.
	Create(ctx context.Context, token *Token) error
	GetByValue(ctx context.Context, value string) (*Token, error)
	// Delete removes a token by value. Deleting an absent token is not an error.
	Delete(ctx context.Context, value string) error
	// DeleteExpired removes all tokens expiring at or before cutoff and
	// reports how many rows were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
