package auth

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials indicates a login failure. Unknown usernames and
	// wrong passwords both map here so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists signals a duplicate username registration.
	ErrUserExists = errors.New("username already registered")
	// ErrTokenInvalid means a presented token is unknown or expired.
	ErrTokenInvalid = errors.New("token invalid or expired")
	// ErrUserNotFound indicates missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrTokenNotFound indicates a token value absent from storage.
	ErrTokenNotFound = errors.New("token not found")
	// ErrTokenExists signals a token value collision at the store level.
	ErrTokenExists = errors.New("token value already exists")
)

// User models the authentication entity persisted in storage.
// The username is the unique key and never changes after registration.
type User struct {
	ID           string    `json:"-"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Token is an opaque bearer credential bound to a user until expiry.
// Tokens are only ever created and deleted, never updated.
type Token struct {
	ID        string
	Value     string
	Username  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Credentials captures raw credential input for login.
type Credentials struct {
	Username string
	Password string
}
