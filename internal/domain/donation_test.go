package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validInput() DonationInput {
	return DonationInput{
		Amount:        decimal.NewFromInt(500),
		Type:          DonationGiven,
		DonorName:     "A",
		RecipientName: "B",
	}
}

func TestDonationInputValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*DonationInput)
		field string
	}{
		{name: "valid", edit: func(*DonationInput) {}},
		{name: "zero amount", edit: func(in *DonationInput) { in.Amount = decimal.Zero }, field: "amount"},
		{name: "negative amount", edit: func(in *DonationInput) { in.Amount = decimal.NewFromInt(-3) }, field: "amount"},
		{name: "rounds to zero", edit: func(in *DonationInput) { in.Amount = decimal.RequireFromString("0.001") }, field: "amount"},
		{name: "three decimal places", edit: func(in *DonationInput) { in.Amount = decimal.RequireFromString("10.555") }, field: "amount"},
		{name: "trailing zeros", edit: func(in *DonationInput) { in.Amount = decimal.RequireFromString("10.5000") }},
		{name: "largest amount", edit: func(in *DonationInput) { in.Amount = decimal.RequireFromString("999999999999.99") }},
		{name: "too large", edit: func(in *DonationInput) { in.Amount = decimal.RequireFromString("1000000000000") }, field: "amount"},
		{name: "unknown type", edit: func(in *DonationInput) { in.Type = "PLEDGED" }, field: "type"},
		{name: "lower case type", edit: func(in *DonationInput) { in.Type = "given" }, field: "type"},
		{name: "blank donor", edit: func(in *DonationInput) { in.DonorName = "   " }, field: "donorName"},
		{name: "missing recipient", edit: func(in *DonationInput) { in.RecipientName = "" }, field: "recipientName"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.edit(&in)
			err := in.Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("Validate() field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestDonationInputNormalize(t *testing.T) {
	blank := "   "
	in := DonationInput{DonorName: "  Ali ", RecipientName: " Edhi ", Location: &blank}
	in.Normalize()
	if in.DonorName != "Ali" || in.RecipientName != "Edhi" {
		t.Fatalf("Normalize() names = %q/%q", in.DonorName, in.RecipientName)
	}
	if in.Location != nil {
		t.Fatalf("Normalize() kept blank location %q", *in.Location)
	}

	loc := " Lahore "
	in = DonationInput{Location: &loc}
	in.Normalize()
	if in.Location == nil || *in.Location != "Lahore" {
		t.Fatalf("Normalize() location = %v", in.Location)
	}
}

func TestDonatedAtOrDefaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := validInput()
	if got := in.DonatedAtOr(now); !got.Equal(now) {
		t.Fatalf("DonatedAtOr() = %v, want %v", got, now)
	}
	supplied := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	in.DonatedAt = &supplied
	if got := in.DonatedAtOr(now); !got.Equal(supplied) {
		t.Fatalf("DonatedAtOr() = %v, want %v", got, supplied)
	}
}

func TestParseDonationType(t *testing.T) {
	if got, err := ParseDonationType(" RECEIVED "); err != nil || got != DonationReceived {
		t.Fatalf("ParseDonationType() = %q, %v", got, err)
	}
	if _, err := ParseDonationType("ALL"); !IsValidation(err) {
		t.Fatalf("ParseDonationType(ALL) error = %v, want validation error", err)
	}
}

func TestScopeOwnerArg(t *testing.T) {
	if arg := (Scope{}).OwnerArg(); arg != nil {
		t.Fatalf("shared scope OwnerArg() = %v, want nil", *arg)
	}
	arg := Scope{OwnerID: "u-1"}.OwnerArg()
	if arg == nil || *arg != "u-1" {
		t.Fatalf("owner scope OwnerArg() = %v", arg)
	}
}
