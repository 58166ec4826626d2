package reporting

import (
	"sort"

	"github.com/shopspring/decimal"

	"ledger/internal/domain"
)

const (
	// DefaultLimit is the leaderboard and recent-list size.
	DefaultLimit = 5
	maxLimit     = 100
)

// NormalizeLimit maps non-positive limits to DefaultLimit and caps large ones.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// Rank sums amounts per donor (GIVEN) or recipient (RECEIVED) name and returns
// the top entries by total, descending. Equal totals are ordered by name.
func Rank(records []domain.Donation, t domain.DonationType, limit int) []domain.LeaderboardEntry {
	limit = NormalizeLimit(limit)
	totals := make(map[string]decimal.Decimal)
	for _, d := range records {
		if d.Type != t {
			continue
		}
		name := d.DonorName
		if t == domain.DonationReceived {
			name = d.RecipientName
		}
		totals[name] = totals[name].Add(d.Amount)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(totals))
	for name, total := range totals {
		entries = append(entries, domain.LeaderboardEntry{Name: name, Total: total})
	}
	SortLeaderboard(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// SortLeaderboard orders entries by total descending, then name ascending.
func SortLeaderboard(entries []domain.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if c := entries[i].Total.Cmp(entries[j].Total); c != 0 {
			return c > 0
		}
		return entries[i].Name < entries[j].Name
	})
}
