// Package auth registers users and checks their credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"ledger/internal/domain"
	"ledger/internal/middleware"
)

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3ELPuCIYBcIh1ZKXsXnKmMe")

// Session is the result of a successful login.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Service implements registration and login on top of a user repository.
type Service struct {
	users  domain.UserRepository
	secret string
	ttl    time.Duration
	cost   int
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(users domain.UserRepository, secret string, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		users:  users,
		secret: secret,
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		logger: logger,
		now:    time.Now,
	}
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return domain.NewValidationError("credentials", "Email and password required")
	}
	if !strings.Contains(email, "@") {
		return domain.NewValidationError("email", "Email is invalid")
	}
	if len(password) > 72 {
		return domain.NewValidationError("password", "Password must be at most 72 bytes")
	}
	return nil
}

// Register creates a user. A taken email yields domain.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login verifies the credentials and issues a bearer token. Unknown emails and
// wrong passwords both yield domain.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("credentials", "Email and password required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.logger.Warn().Msg("login for unknown email")
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn().Str("user_id", user.ID).Msg("incorrect password")
		return nil, domain.ErrInvalidCredentials
	}
	token, expiresAt, err := middleware.SignJWT(s.secret, user.ID, user.Email, s.ttl, s.now())
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
