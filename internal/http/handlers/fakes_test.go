package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ledger/internal/auth"
	"ledger/internal/domain"
	"ledger/internal/events"
	"ledger/internal/middleware"
	"ledger/internal/reporting"
)

// memDonations is an in-memory donation store honouring scopes.
type memDonations struct {
	mu    sync.Mutex
	items []domain.Donation
	err   error
}

func (m *memDonations) visible(scope domain.Scope, d domain.Donation) bool {
	if scope.Shared() {
		return true
	}
	return d.RecordedBy != nil && *d.RecordedBy == scope.OwnerID
}

func (m *memDonations) Create(_ context.Context, in domain.DonationInput, recordedBy string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	now := time.Now().UTC()
	owner := recordedBy
	d := domain.Donation{
		ID:            uuid.NewString(),
		Amount:        in.Amount,
		Currency:      domain.DefaultCurrency,
		Type:          in.Type,
		DonorName:     in.DonorName,
		RecipientName: in.RecipientName,
		Location:      in.Location,
		DonatedAt:     in.DonatedAtOr(now),
		Status:        domain.DefaultStatus,
		Category:      domain.DefaultCategory,
		RecordedBy:    &owner,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.items = append(m.items, d)
	return &d, nil
}

func (m *memDonations) find(scope domain.Scope, id string) (int, error) {
	if m.err != nil {
		return -1, m.err
	}
	for i, d := range m.items {
		if d.ID == id && m.visible(scope, d) {
			return i, nil
		}
	}
	return -1, domain.ErrNotFound
}

func (m *memDonations) Update(_ context.Context, scope domain.Scope, id string, in domain.DonationInput) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.find(scope, id)
	if err != nil {
		return nil, err
	}
	d := &m.items[i]
	d.Amount, d.Type, d.DonorName, d.RecipientName, d.Location = in.Amount, in.Type, in.DonorName, in.RecipientName, in.Location
	d.DonatedAt = in.DonatedAtOr(time.Now().UTC())
	out := *d
	return &out, nil
}

func (m *memDonations) Delete(_ context.Context, scope domain.Scope, id string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.find(scope, id)
	if err != nil {
		return nil, err
	}
	d := m.items[i]
	m.items = append(m.items[:i], m.items[i+1:]...)
	return &d, nil
}

func (m *memDonations) GetByID(_ context.Context, scope domain.Scope, id string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, err := m.find(scope, id)
	if err != nil {
		return nil, err
	}
	d := m.items[i]
	return &d, nil
}

func (m *memDonations) List(_ context.Context, scope domain.Scope) ([]domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Donation{}
	for _, d := range m.items {
		if m.visible(scope, d) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DonatedAt.After(out[j].DonatedAt) })
	return out, nil
}

func (m *memDonations) ListRecentByType(ctx context.Context, scope domain.Scope, t domain.DonationType, limit int) ([]domain.Donation, error) {
	all, err := m.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	out := []domain.Donation{}
	for _, d := range all {
		if d.Type == t && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDonations) Count(ctx context.Context, scope domain.Scope) (int64, error) {
	all, err := m.List(ctx, scope)
	return int64(len(all)), err
}

func (m *memDonations) SumByType(ctx context.Context, scope domain.Scope, t domain.DonationType) (decimal.Decimal, error) {
	all, err := m.List(ctx, scope)
	total := decimal.Zero
	for _, d := range all {
		if d.Type == t {
			total = total.Add(d.Amount)
		}
	}
	return total, err
}

func (m *memDonations) SumAll(ctx context.Context, scope domain.Scope) (decimal.Decimal, error) {
	all, err := m.List(ctx, scope)
	total := decimal.Zero
	for _, d := range all {
		total = total.Add(d.Amount)
	}
	return total, err
}

func (m *memDonations) Leaderboard(ctx context.Context, scope domain.Scope, t domain.DonationType, limit int) ([]domain.LeaderboardEntry, error) {
	all, err := m.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return reporting.Rank(all, t, limit), nil
}

func (m *memDonations) seed(owner string, t domain.DonationType, amount, donor, recipient string, at time.Time) domain.Donation {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := owner
	d := domain.Donation{
		ID:            uuid.NewString(),
		Amount:        decimal.RequireFromString(amount),
		Currency:      domain.DefaultCurrency,
		Type:          t,
		DonorName:     donor,
		RecipientName: recipient,
		DonatedAt:     at,
		Status:        domain.DefaultStatus,
		Category:      domain.DefaultCategory,
		RecordedBy:    &o,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	m.items = append(m.items, d)
	return d
}

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
}

func (m *memUsers) Create(_ context.Context, email, hash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	u := &domain.User{ID: uuid.NewString(), Email: email, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	m.byEmail[email] = u
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.DonationEvent
	err    error
}

func (p *recordingPublisher) PublishDonationEvent(_ context.Context, e *events.DonationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

const testUser = "9b2f4d0e-1c1a-4f7e-8d1b-2f7a5c3e9a01"

type testEnv struct {
	app       *App
	donations *memDonations
	users     *memUsers
	events    *recordingPublisher
}

func newTestEnv(visibility reporting.Visibility) *testEnv {
	donations := &memDonations{}
	users := &memUsers{byEmail: map[string]*domain.User{}}
	pub := &recordingPublisher{}
	app := &App{
		Logger:    zerolog.Nop(),
		Donations: donations,
		Reporting: reporting.NewService(donations, visibility),
		Auth:      auth.NewService(users, "secret", time.Hour, zerolog.Nop()),
		Events:    pub,
		Now:       func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	return &testEnv{app: app, donations: donations, users: users, events: pub}
}

// request builds a request authenticated as user; an empty user sends none.
func request(method, target, body, user string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req = req.WithContext(middleware.ContextWithUserID(req.Context(), user))
	}
	return req
}

type simpleRow struct {
	scan func(dest ...any) error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (testRowsBase) Conn() *pgx.Conn { return nil }

func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (testRowsBase) RawValues() [][]byte { return nil }

type tableRows struct {
	testRowsBase
	names []string
	idx   int
}

func (t *tableRows) Next() bool {
	if t.idx >= len(t.names) {
		return false
	}
	t.idx++
	return true
}

func (t *tableRows) Scan(dest ...any) error {
	*dest[0].(*string) = t.names[t.idx-1]
	return nil
}

func (t *tableRows) Err() error { return nil }

func (t *tableRows) Close() {}

// readySQL answers the readiness queries.
type readySQL struct {
	pingErr error
	tables  []string
}

func (s *readySQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *readySQL) QueryRow(context.Context, string, ...any) pgx.Row {
	return simpleRow{scan: func(dest ...any) error {
		if s.pingErr != nil {
			return s.pingErr
		}
		*dest[0].(*int) = 1
		return nil
	}}
}

func (s *readySQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return &tableRows{names: s.tables}, nil
}
