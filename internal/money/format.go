// Package money renders donation amounts for people.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"ledger/internal/domain"
)

// Currency is the unit every record is kept in.
var Currency = currency.MustParseISO(domain.DefaultCurrency)

// Format renders amount as "PKR 1,234.5" using the grouping rules of locale
// ("en" or "id"). Up to two fraction digits are kept.
func Format(amount decimal.Decimal, locale string) string {
	p := message.NewPrinter(tagFor(locale))
	value := number.Decimal(amount.Round(2).InexactFloat64(), number.MaxFractionDigits(2))
	return p.Sprintf("%s %v", Currency.String(), value)
}

func tagFor(locale string) language.Tag {
	if strings.HasPrefix(strings.ToLower(locale), "id") {
		return language.Indonesian
	}
	return language.English
}

// Float exposes a decimal at the JSON boundary. The value passes through its
// text form so the float is the closest one to the printed decimal.
func Float(d decimal.Decimal) float64 {
	f, _ := decimal.RequireFromString(d.String()).Float64()
	return f
}
