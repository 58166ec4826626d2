package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

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

type call struct {
	query string
	args  []any
}

// fakeSQL records every statement and answers from canned rows.
type fakeSQL struct {
	calls   []call
	row     pgx.Row
	rows    func() pgx.Rows
	execErr error
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, call{query: query, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.calls = append(f.calls, call{query: query, args: args})
	if f.row == nil {
		return simpleRow{}
	}
	return f.row
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.calls = append(f.calls, call{query: query, args: args})
	if f.rows == nil {
		return &scanRows{}, nil
	}
	return f.rows(), nil
}

func (f *fakeSQL) last() call {
	if len(f.calls) == 0 {
		return call{}
	}
	return f.calls[len(f.calls)-1]
}

// scanRows yields one scan func per row.
type scanRows struct {
	testRowsBase
	scans  []func(dest ...any) error
	idx    int
	closed bool
}

func (r *scanRows) Next() bool {
	if r.idx >= len(r.scans) {
		return false
	}
	r.idx++
	return true
}

func (r *scanRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.scans) {
		return pgx.ErrNoRows
	}
	return r.scans[r.idx-1](dest...)
}

func (r *scanRows) Err() error { return nil }

func (r *scanRows) Close() { r.closed = true }

type donationRow struct {
	id         string
	amount     string
	typ        string
	donor      string
	recipient  string
	location   *string
	donatedAt  time.Time
	recordedBy *string
}

func (d donationRow) scan(dest ...any) error {
	if len(dest) != 13 {
		return fmt.Errorf("unexpected scan args: %d", len(dest))
	}
	*dest[0].(*string) = d.id
	*dest[1].(*string) = d.amount
	*dest[2].(*string) = "PKR"
	*dest[3].(*string) = d.typ
	*dest[4].(*string) = d.donor
	*dest[5].(*string) = d.recipient
	*dest[6].(**string) = d.location
	*dest[7].(*time.Time) = d.donatedAt
	*dest[8].(*string) = "COMPLETED"
	*dest[9].(*string) = "General"
	*dest[10].(**string) = d.recordedBy
	*dest[11].(*time.Time) = d.donatedAt
	*dest[12].(*time.Time) = d.donatedAt
	return nil
}
