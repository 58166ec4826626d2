package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatEnglishGrouping(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{amount: "1500", want: "PKR 1,500"},
		{amount: "1234.5", want: "PKR 1,234.5"},
		{amount: "0", want: "PKR 0"},
	}
	for _, tc := range tests {
		got := Format(decimal.RequireFromString(tc.amount), "en")
		if got != tc.want {
			t.Fatalf("Format(%s, en) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestFormatIndonesianUsesDotGrouping(t *testing.T) {
	got := Format(decimal.NewFromInt(1500), "id-ID")
	if !strings.HasPrefix(got, "PKR ") || !strings.Contains(got, "1.500") {
		t.Fatalf("Format(1500, id) = %q, want PKR 1.500", got)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	if got := Float(decimal.RequireFromString("0.10")); got != 0.1 {
		t.Fatalf("Float(0.10) = %v", got)
	}
	if got := Float(decimal.RequireFromString("12345.67")); got != 12345.67 {
		t.Fatalf("Float(12345.67) = %v", got)
	}
}
