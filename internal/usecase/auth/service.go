package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "authbox/backend/internal/domain/auth"

	"github.com/google/uuid"
)

// Service coordinates credential workflows between domain and infrastructure.
type Service struct {
	users   domain.UserRepository
	tokens  TokenManager
	nowFunc func() time.Time
}

// NewService constructs a credential service.
func NewService(users domain.UserRepository, tokens TokenManager) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		nowFunc: time.Now,
	}
}

// Register creates a new user and returns the persisted entity without a
// password hash. Usernames are unique; a duplicate yields ErrUserExists.
func (s *Service) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if password == "" {
		return nil, errors.New("password is required")
	}

	// Pre-check is an optimization only; the unique constraint on username
	// decides concurrent duplicate registrations.
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    s.nowFunc().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

// Authenticate checks a username/password pair. Unknown usernames and wrong
// passwords both return ErrInvalidCredentials; no state is mutated.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a comparison so an unknown username costs the same as a
			// wrong password.
			VerifyPassword(password, dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

// Login validates credentials and returns a bearer token plus user.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error) {
	username := strings.TrimSpace(creds.Username)
	password := strings.TrimSpace(creds.Password)
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	value, err := s.tokens.Issue(ctx, user.Username)
	if err != nil {
		return "", nil, err
	}

	return value, user, nil
}

// VerifyToken resolves a bearer token to the owning user.
func (s *Service) VerifyToken(ctx context.Context, value string) (*domain.User, error) {
	return s.tokens.Resolve(ctx, value)
}

func sanitizeUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	copy := *u
	copy.PasswordHash = ""
	return &copy
}
