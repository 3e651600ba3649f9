package auth

import (
	"context"

	domain "authbox/backend/internal/domain/auth"
)

// TokenManager abstracts bearer token issuance and resolution.
type TokenManager interface {
	Issue(ctx context.Context, username string) (string, error)
	Resolve(ctx context.Context, value string) (*domain.User, error)
}
