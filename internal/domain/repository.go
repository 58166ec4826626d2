package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Scope restricts which donation rows an operation may see. The zero value is
// platform-wide.
type Scope struct {
	OwnerID string
}

// Shared reports whether the scope covers every record.
func (s Scope) Shared() bool {
	return s.OwnerID == ""
}

// OwnerArg returns the owner as a nullable query argument.
func (s Scope) OwnerArg() *string {
	if s.Shared() {
		return nil
	}
	owner := s.OwnerID
	return &owner
}

// LeaderboardEntry is one ranked name with its summed amount.
type LeaderboardEntry struct {
	Name  string
	Total decimal.Decimal
}

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// DonationRepository handles donation persistence.
type DonationRepository interface {
	Create(ctx context.Context, in DonationInput, recordedBy string) (*Donation, error)
	Update(ctx context.Context, scope Scope, id string, in DonationInput) (*Donation, error)
	Delete(ctx context.Context, scope Scope, id string) (*Donation, error)
	GetByID(ctx context.Context, scope Scope, id string) (*Donation, error)
	List(ctx context.Context, scope Scope) ([]Donation, error)
	ListRecentByType(ctx context.Context, scope Scope, t DonationType, limit int) ([]Donation, error)
	Count(ctx context.Context, scope Scope) (int64, error)
	SumByType(ctx context.Context, scope Scope, t DonationType) (decimal.Decimal, error)
	SumAll(ctx context.Context, scope Scope) (decimal.Decimal, error)
	Leaderboard(ctx context.Context, scope Scope, t DonationType, limit int) ([]LeaderboardEntry, error)
}

// AuditRepository persists donation lifecycle events.
type AuditRepository interface {
	Insert(ctx context.Context, entry AuditEntry) error
}
