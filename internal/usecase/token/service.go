package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	domain "authbox/backend/internal/domain/auth"
	usecase "authbox/backend/internal/usecase/auth"

	"github.com/google/uuid"
)

// DefaultTTL is how long an issued token stays valid unless configured otherwise.
const DefaultTTL = time.Hour

// valueBytes is the entropy of a token value before encoding.
const valueBytes = 32

// maxIssueAttempts bounds value regeneration on a store-level collision.
const maxIssueAttempts = 3

// Service issues, resolves, and expires store-backed bearer tokens. All
// expiry arithmetic is done in UTC.
type Service struct {
	tokens  domain.TokenRepository
	users   domain.UserRepository
	ttl     time.Duration
	nowFunc func() time.Time
}

// NewService constructs a token service. A non-positive ttl falls back to
// DefaultTTL.
func NewService(tokens domain.TokenRepository, users domain.UserRepository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		tokens:  tokens,
		users:   users,
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Ensure Service satisfies the credential manager's contract.
var _ usecase.TokenManager = (*Service)(nil)

// Issue mints an opaque bearer token for username using the configured TTL.
// Issuing never touches previously issued tokens; a user may hold several
// live tokens at once.
func (s *Service) Issue(ctx context.Context, username string) (string, error) {
	return s.IssueWithTTL(ctx, username, s.ttl)
}

// IssueWithTTL mints a token with an explicit validity window and returns the
// raw value. The value is not re-derivable from storage afterwards.
func (s *Service) IssueWithTTL(ctx context.Context, username string, ttl time.Duration) (string, error) {
	now := s.nowFunc().UTC()
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		value, err := newTokenValue()
		if err != nil {
			return "", err
		}

		tok := &domain.Token{
			ID:        uuid.NewString(),
			Value:     value,
			Username:  username,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		}

		err = s.tokens.Create(ctx, tok)
		if err == nil {
			return value, nil
		}
		if !errors.Is(err, domain.ErrTokenExists) {
			return "", err
		}
		// Value collision: regenerate and retry.
	}
	return "", fmt.Errorf("token issuance failed after %d attempts", maxIssueAttempts)
}

// Resolve maps a presented token back to its owner. Unknown, expired, and
// orphaned tokens are indistinguishable: all yield ErrTokenInvalid. An
// expired token is deleted as a side effect of being discovered.
func (s *Service) Resolve(ctx context.Context, value string) (*domain.User, error) {
	tok, err := s.tokens.GetByValue(ctx, value)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	now := s.nowFunc().UTC()
	if !tok.ExpiresAt.After(now) {
		// Delete is idempotent, so a concurrent resolve of the same expiring
		// token is safe.
		if err := s.tokens.Delete(ctx, tok.Value); err != nil {
			return nil, err
		}
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.users.GetByUsername(ctx, tok.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	copy := *user
	copy.PasswordHash = ""
	return &copy, nil
}

// Sweep deletes every token that has already expired and reports the count.
// Lazy deletion in Resolve is the mechanism of record; the sweep only keeps
// the table from accumulating never-presented tokens.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, s.nowFunc().UTC())
}

// newTokenValue returns a URL-safe string carrying valueBytes of entropy.
func newTokenValue() (string, error) {
	buf := make([]byte, valueBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token value: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
