package domain

import (
	"strings"
	"time"
)

// User represents a registered account. Users are never updated after creation.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeEmail trims and lower-cases an address before lookup or insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
