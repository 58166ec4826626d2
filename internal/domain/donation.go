package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DonationType tags the direction of a transaction.
type DonationType string

const (
	DonationGiven    DonationType = "GIVEN"
	DonationReceived DonationType = "RECEIVED"
)

// Constant column values kept for compatibility with the existing schema.
const (
	DefaultCurrency = "PKR"
	DefaultStatus   = "COMPLETED"
	DefaultCategory = "General"
)

// Valid reports whether t is one of the two supported directions.
func (t DonationType) Valid() bool {
	return t == DonationGiven || t == DonationReceived
}

// ParseDonationType accepts the canonical upper-case form only.
func ParseDonationType(v string) (DonationType, error) {
	t := DonationType(strings.TrimSpace(v))
	if !t.Valid() {
		return "", NewValidationError("type", "Type must be GIVEN or RECEIVED")
	}
	return t, nil
}

// Donation represents a single given or received record.
type Donation struct {
	ID            string
	Amount        decimal.Decimal
	Currency      string
	Type          DonationType
	DonorName     string
	RecipientName string
	Location      *string
	DonatedAt     time.Time
	Status        string
	Category      string
	RecordedBy    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LocationOrEmpty returns the location or "" when unset.
func (d Donation) LocationOrEmpty() string {
	if d.Location == nil {
		return ""
	}
	return *d.Location
}

// DonationInput carries the mutable fields of a donation for create and update.
type DonationInput struct {
	Amount        decimal.Decimal
	Type          DonationType
	DonorName     string
	RecipientName string
	Location      *string
	DonatedAt     *time.Time
}

// Normalize trims free-form text and drops blank locations.
func (in *DonationInput) Normalize() {
	in.DonorName = strings.TrimSpace(in.DonorName)
	in.RecipientName = strings.TrimSpace(in.RecipientName)
	if in.Location != nil {
		loc := strings.TrimSpace(*in.Location)
		if loc == "" {
			in.Location = nil
		} else {
			in.Location = &loc
		}
	}
}

// Amounts are stored as numeric(14,2).
const amountScale = 2

var maxAmount = decimal.New(1, 12)

// Validate enforces the record invariants. It must run before any storage access.
func (in DonationInput) Validate() error {
	if !in.Amount.IsPositive() {
		return NewValidationError("amount", "Amount must be positive")
	}
	if !in.Amount.Equal(in.Amount.Truncate(amountScale)) {
		return NewValidationError("amount", "Amount must have at most 2 decimal places")
	}
	if in.Amount.GreaterThanOrEqual(maxAmount) {
		return NewValidationError("amount", "Amount must be less than 1,000,000,000,000")
	}
	if !in.Type.Valid() {
		return NewValidationError("type", "Type must be GIVEN or RECEIVED")
	}
	if strings.TrimSpace(in.DonorName) == "" {
		return NewValidationError("donorName", "Donor name is required")
	}
	if strings.TrimSpace(in.RecipientName) == "" {
		return NewValidationError("recipientName", "Recipient name is required")
	}
	return nil
}

// DonatedAtOr returns the supplied donation time or fallback when none was given.
func (in DonationInput) DonatedAtOr(fallback time.Time) time.Time {
	if in.DonatedAt == nil || in.DonatedAt.IsZero() {
		return fallback
	}
	return *in.DonatedAt
}
