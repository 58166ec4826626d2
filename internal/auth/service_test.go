package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"ledger/internal/domain"
	"ledger/internal/middleware"
)

type memoryUsers struct {
	byEmail map[string]*domain.User
	err     error
}

func (m *memoryUsers) Create(_ context.Context, email, hash string) (*domain.User, error) {
	if _, ok := m.byEmail[email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	u := &domain.User{ID: "user-" + email, Email: email, PasswordHash: hash}
	m.byEmail[email] = u
	return u, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func newTestService() (*Service, *memoryUsers) {
	users := &memoryUsers{byEmail: map[string]*domain.User{}}
	s := NewService(users, "secret", time.Hour, zerolog.Nop())
	s.cost = bcrypt.MinCost
	return s, users
}

func TestRegisterAndLogin(t *testing.T) {
	s, users := newTestService()
	ctx := context.Background()

	u, err := s.Register(ctx, "  Ali@Example.org ", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ali@example.org" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if users.byEmail["ali@example.org"].PasswordHash == "hunter2" {
		t.Fatalf("password stored in clear")
	}

	sess, err := s.Login(ctx, "ALI@example.org", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := middleware.VerifyJWT("secret", sess.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.Subject != u.ID {
		t.Fatalf("subject = %q, want %q", claims.Subject, u.ID)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	if _, err := s.Register(ctx, "a@b.co", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := s.Register(ctx, "A@B.co", "pw"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestService()
	tests := []struct {
		name, email, password string
	}{
		{"missing email", "", "pw"},
		{"missing password", "a@b.co", ""},
		{"malformed email", "not-an-email", "pw"},
		{"password too long", "a@b.co", string(make([]byte, 73))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tc.email, tc.password)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	if _, err := s.Register(ctx, "a@b.co", "right"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := s.Login(ctx, "a@b.co", "wrong")
	_, unknownEmail := s.Login(ctx, "nobody@b.co", "right")
	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) || !errors.Is(unknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v / %v", wrongPassword, unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("failure messages differ")
	}
}

func TestLoginStorageErrorPropagates(t *testing.T) {
	s, users := newTestService()
	boom := errors.New("boom")
	users.err = boom
	if _, err := s.Login(context.Background(), "a@b.co", "pw"); !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
