package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"ledger/internal/domain"
	"ledger/internal/infra"
	"ledger/internal/sqlinline"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	sql infra.SQLExecutor
	now func() time.Time
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(sql infra.SQLExecutor) *DonationRepositoryPG {
	return &DonationRepositoryPG{sql: sql, now: time.Now}
}

// Create inserts a new donation record. The input must already be validated.
func (r *DonationRepositoryPG) Create(ctx context.Context, in domain.DonationInput, recordedBy string) (*domain.Donation, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertDonation,
		in.Amount.String(),
		string(in.Type),
		in.DonorName,
		in.RecipientName,
		in.Location,
		recordedBy,
		in.DonatedAtOr(r.now()).UTC(),
	)
	d, err := scanDonation(row)
	if err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}
	return d, nil
}

// Update replaces every mutable field of the donation with the given id.
func (r *DonationRepositoryPG) Update(ctx context.Context, scope domain.Scope, id string, in domain.DonationInput) (*domain.Donation, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateDonation,
		scope.OwnerArg(),
		id,
		in.Amount.String(),
		string(in.Type),
		in.DonorName,
		in.RecipientName,
		in.Location,
		in.DonatedAtOr(r.now()).UTC(),
	)
	return r.one(row, "update donation")
}

// Delete removes the donation and returns the removed row.
func (r *DonationRepositoryPG) Delete(ctx context.Context, scope domain.Scope, id string) (*domain.Donation, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return r.one(r.sql.QueryRow(ctx, sqlinline.QDeleteDonation, scope.OwnerArg(), id), "delete donation")
}

// GetByID fetches one donation.
func (r *DonationRepositoryPG) GetByID(ctx context.Context, scope domain.Scope, id string) (*domain.Donation, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	return r.one(r.sql.QueryRow(ctx, sqlinline.QSelectDonationByID, scope.OwnerArg(), id), "get donation")
}

func (r *DonationRepositoryPG) one(row pgx.Row, op string) (*domain.Donation, error) {
	d, err := scanDonation(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

// List returns every visible donation, newest donation date first.
func (r *DonationRepositoryPG) List(ctx context.Context, scope domain.Scope) ([]domain.Donation, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListDonations, scope.OwnerArg())
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return collectDonations(rows)
}

// ListRecentByType returns the latest donations of one direction.
func (r *DonationRepositoryPG) ListRecentByType(ctx context.Context, scope domain.Scope, t domain.DonationType, limit int) ([]domain.Donation, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListRecentDonationsByType, scope.OwnerArg(), string(t), limit)
	if err != nil {
		return nil, fmt.Errorf("list recent donations: %w", err)
	}
	return collectDonations(rows)
}

// Count returns the number of visible donations.
func (r *DonationRepositoryPG) Count(ctx context.Context, scope domain.Scope) (int64, error) {
	var n int64
	if err := r.sql.QueryRow(ctx, sqlinline.QCountDonations, scope.OwnerArg()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count donations: %w", err)
	}
	return n, nil
}

// SumByType sums amounts of one direction.
func (r *DonationRepositoryPG) SumByType(ctx context.Context, scope domain.Scope, t domain.DonationType) (decimal.Decimal, error) {
	return scanSum(r.sql.QueryRow(ctx, sqlinline.QSumDonationsByType, scope.OwnerArg(), string(t)))
}

// SumAll sums every visible amount regardless of direction.
func (r *DonationRepositoryPG) SumAll(ctx context.Context, scope domain.Scope) (decimal.Decimal, error) {
	return scanSum(r.sql.QueryRow(ctx, sqlinline.QSumDonations, scope.OwnerArg()))
}

// Leaderboard ranks donor (GIVEN) or recipient (RECEIVED) names by summed amount.
func (r *DonationRepositoryPG) Leaderboard(ctx context.Context, scope domain.Scope, t domain.DonationType, limit int) ([]domain.LeaderboardEntry, error) {
	query := sqlinline.QDonorLeaderboard
	if t == domain.DonationReceived {
		query = sqlinline.QRecipientLeaderboard
	}
	rows, err := r.sql.Query(ctx, query, scope.OwnerArg(), limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var (
			name  string
			total string
		)
		if err := rows.Scan(&name, &total); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		amount, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse leaderboard total %q: %w", total, err)
		}
		entries = append(entries, domain.LeaderboardEntry{Name: name, Total: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func scanSum(row pgx.Row) (decimal.Decimal, error) {
	var total string
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum donations: %w", err)
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse sum %q: %w", total, err)
	}
	return amount, nil
}

func collectDonations(rows pgx.Rows) ([]domain.Donation, error) {
	defer rows.Close()
	items := []domain.Donation{}
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donation: %w", err)
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var (
		d      domain.Donation
		amount string
		typ    string
	)
	if err := row.Scan(
		&d.ID,
		&amount,
		&d.Currency,
		&typ,
		&d.DonorName,
		&d.RecipientName,
		&d.Location,
		&d.DonatedAt,
		&d.Status,
		&d.Category,
		&d.RecordedBy,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	d.Amount = parsed
	d.Type = domain.DonationType(typ)
	return &d, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var _ domain.DonationRepository = (*DonationRepositoryPG)(nil)
