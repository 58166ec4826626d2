// Package reporting turns raw donation rows into totals, leaderboards, recent
// lists and filtered report pages.
package reporting

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"ledger/internal/domain"
)

// Store is the read side the engine needs from persistence.
type Store interface {
	SumByType(ctx context.Context, scope domain.Scope, t domain.DonationType) (decimal.Decimal, error)
	SumAll(ctx context.Context, scope domain.Scope) (decimal.Decimal, error)
	Leaderboard(ctx context.Context, scope domain.Scope, t domain.DonationType, limit int) ([]domain.LeaderboardEntry, error)
	ListRecentByType(ctx context.Context, scope domain.Scope, t domain.DonationType, limit int) ([]domain.Donation, error)
	List(ctx context.Context, scope domain.Scope) ([]domain.Donation, error)
	Count(ctx context.Context, scope domain.Scope) (int64, error)
}

// Totals holds the per-direction sums.
type Totals struct {
	Given    decimal.Decimal
	Received decimal.Decimal
}

// Balance is received minus given; positive means more was received.
func (t Totals) Balance() decimal.Decimal {
	return t.Received.Sub(t.Given)
}

// Summary is the totals pair plus the derived balance.
type Summary struct {
	TotalGiven    decimal.Decimal
	TotalReceived decimal.Decimal
	Balance       decimal.Decimal
}

// Recent holds the latest records of each direction.
type Recent struct {
	Given    []domain.Donation
	Received []domain.Donation
}

// Report is the platform overview.
type Report struct {
	TotalAmount  decimal.Decimal
	TopDonors    []domain.LeaderboardEntry
	TopReceivers []domain.LeaderboardEntry
	Summary      Summary
}

// FilteredReport is one page of the filtered record set with counts and
// leaderboards computed over the whole filtered set.
type FilteredReport struct {
	Page          Page
	Filter        Filter
	FilterKey     string
	TotalRecords  int
	GivenCount    int
	ReceivedCount int
	Totals        Totals
	TopDonors     []domain.LeaderboardEntry
	TopReceivers  []domain.LeaderboardEntry
}

// Service runs reporting queries under a visibility policy.
type Service struct {
	store      Store
	visibility Visibility
}

// NewService wires a Store. An empty policy means shared visibility.
func NewService(store Store, visibility Visibility) *Service {
	if visibility == "" {
		visibility = VisibilityShared
	}
	return &Service{store: store, visibility: visibility}
}

// Visibility returns the configured policy.
func (s *Service) Visibility() Visibility {
	return s.visibility
}

// ScopeFor returns the read scope for an authenticated user.
func (s *Service) ScopeFor(userID string) (domain.Scope, error) {
	return ScopeFor(s.visibility, userID)
}

// ComputeTotals sums amounts per direction. An empty set yields zeros.
func (s *Service) ComputeTotals(ctx context.Context, scope domain.Scope) (Totals, error) {
	var totals Totals
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.store.SumByType(gctx, scope, domain.DonationGiven)
		if err != nil {
			return fmt.Errorf("sum given: %w", err)
		}
		totals.Given = v
		return nil
	})
	g.Go(func() error {
		v, err := s.store.SumByType(gctx, scope, domain.DonationReceived)
		if err != nil {
			return fmt.Errorf("sum received: %w", err)
		}
		totals.Received = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return Totals{}, err
	}
	return totals, nil
}

// ComputeBalance returns received minus given.
func (s *Service) ComputeBalance(ctx context.Context, scope domain.Scope) (decimal.Decimal, error) {
	totals, err := s.ComputeTotals(ctx, scope)
	if err != nil {
		return decimal.Zero, err
	}
	return totals.Balance(), nil
}

// Summary returns totals with the derived balance.
func (s *Service) Summary(ctx context.Context, scope domain.Scope) (Summary, error) {
	totals, err := s.ComputeTotals(ctx, scope)
	if err != nil {
		return Summary{}, err
	}
	return summaryOf(totals), nil
}

func summaryOf(t Totals) Summary {
	return Summary{TotalGiven: t.Given, TotalReceived: t.Received, Balance: t.Balance()}
}

// TopDonors ranks donor names over GIVEN records.
func (s *Service) TopDonors(ctx context.Context, scope domain.Scope, limit int) ([]domain.LeaderboardEntry, error) {
	return s.leaderboard(ctx, scope, domain.DonationGiven, limit)
}

// TopReceivers ranks recipient names over RECEIVED records.
func (s *Service) TopReceivers(ctx context.Context, scope domain.Scope, limit int) ([]domain.LeaderboardEntry, error) {
	return s.leaderboard(ctx, scope, domain.DonationReceived, limit)
}

func (s *Service) leaderboard(ctx context.Context, scope domain.Scope, t domain.DonationType, limit int) ([]domain.LeaderboardEntry, error) {
	limit = NormalizeLimit(limit)
	entries, err := s.store.Leaderboard(ctx, scope, t, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard %s: %w", t, err)
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// RecentByType returns the latest records of one direction by donation date.
func (s *Service) RecentByType(ctx context.Context, scope domain.Scope, t domain.DonationType, limit int) ([]domain.Donation, error) {
	if !t.Valid() {
		return nil, domain.NewValidationError("type", "Type must be GIVEN or RECEIVED")
	}
	items, err := s.store.ListRecentByType(ctx, scope, t, NormalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("recent %s: %w", t, err)
	}
	return items, nil
}

// Recent returns the latest records of both directions.
func (s *Service) Recent(ctx context.Context, scope domain.Scope, limit int) (Recent, error) {
	var out Recent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Given, err = s.RecentByType(gctx, scope, domain.DonationGiven, limit)
		return err
	})
	g.Go(func() (err error) {
		out.Received, err = s.RecentByType(gctx, scope, domain.DonationReceived, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return Recent{}, err
	}
	return out, nil
}

// Count returns the number of visible records.
func (s *Service) Count(ctx context.Context, scope domain.Scope) (int64, error) {
	n, err := s.store.Count(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("count donations: %w", err)
	}
	return n, nil
}

// All returns every visible record, newest donation first.
func (s *Service) All(ctx context.Context, scope domain.Scope) ([]domain.Donation, error) {
	items, err := s.store.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return items, nil
}

// Report builds the overview; its queries run concurrently.
func (s *Service) Report(ctx context.Context, scope domain.Scope) (Report, error) {
	var (
		report Report
		totals Totals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.store.SumAll(gctx, scope)
		if err != nil {
			return fmt.Errorf("sum all: %w", err)
		}
		report.TotalAmount = v
		return nil
	})
	g.Go(func() (err error) {
		report.TopDonors, err = s.TopDonors(gctx, scope, DefaultLimit)
		return err
	})
	g.Go(func() (err error) {
		report.TopReceivers, err = s.TopReceivers(gctx, scope, DefaultLimit)
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.ComputeTotals(gctx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	report.Summary = summaryOf(totals)
	return report, nil
}

// Filtered loads the visible records once and filters, ranks and pages them in
// memory.
func (s *Service) Filtered(ctx context.Context, scope domain.Scope, pager Pager, pageSize int) (FilteredReport, error) {
	all, err := s.All(ctx, scope)
	if err != nil {
		return FilteredReport{}, err
	}
	return BuildFilteredReport(all, pager, pageSize), nil
}

// BuildFilteredReport is the pure part of Filtered.
func BuildFilteredReport(all []domain.Donation, pager Pager, pageSize int) FilteredReport {
	matched := pager.Filter.Apply(all)
	out := FilteredReport{
		Page:         Paginate(matched, pager.Page, pageSize),
		Filter:       pager.Filter,
		FilterKey:    pager.Filter.Key(),
		TotalRecords: len(all),
		TopDonors:    Rank(matched, domain.DonationGiven, DefaultLimit),
		TopReceivers: Rank(matched, domain.DonationReceived, DefaultLimit),
	}
	for _, d := range matched {
		switch d.Type {
		case domain.DonationGiven:
			out.GivenCount++
			out.Totals.Given = out.Totals.Given.Add(d.Amount)
		case domain.DonationReceived:
			out.ReceivedCount++
			out.Totals.Received = out.Totals.Received.Add(d.Amount)
		}
	}
	return out
}
