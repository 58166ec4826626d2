package reporting

import (
	"fmt"
	"strings"

	"ledger/internal/domain"
)

// Visibility decides which records an authenticated user may read.
type Visibility string

const (
	// VisibilityShared exposes every record to every authenticated user.
	VisibilityShared Visibility = "shared"
	// VisibilityOwner limits reads to the records a user created.
	VisibilityOwner Visibility = "owner"
)

// ParseVisibility parses a policy name; empty means shared.
func ParseVisibility(v string) (Visibility, error) {
	switch Visibility(strings.ToLower(strings.TrimSpace(v))) {
	case "", VisibilityShared:
		return VisibilityShared, nil
	case VisibilityOwner:
		return VisibilityOwner, nil
	default:
		return "", fmt.Errorf("unknown donation visibility %q", v)
	}
}

// ScopeFor builds the read scope for userID under policy v.
func ScopeFor(v Visibility, userID string) (domain.Scope, error) {
	if v != VisibilityOwner {
		return domain.Scope{}, nil
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Scope{}, domain.ErrUnauthorized
	}
	return domain.Scope{OwnerID: userID}, nil
}

// CheckRequestedUser enforces that a caller-supplied user id matches the
// authenticated subject when records are owner-scoped. Under the shared policy
// the parameter is accepted for compatibility and carries no meaning.
func CheckRequestedUser(v Visibility, requested, subject string) error {
	if v != VisibilityOwner {
		return nil
	}
	if strings.TrimSpace(requested) != subject {
		return domain.ErrForbidden
	}
	return nil
}
