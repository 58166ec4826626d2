package infra

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLExecutor defines the contract required by repositories for executing SQL queries.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

var markerRegexp = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// SQLRunner executes marker-tagged statements on the pool and logs each one by
// its marker. AcquireTimeout bounds the wait for a free connection.
type SQLRunner struct {
	Pool           *pgxpool.Pool
	Logger         zerolog.Logger
	AcquireTimeout time.Duration
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{Pool: pool, Logger: logger}
}

func (r *SQLRunner) acquire(ctx context.Context, marker string) (*pgxpool.Conn, error) {
	actx := ctx
	if r.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, r.AcquireTimeout)
		defer cancel()
	}
	conn, err := r.Pool.Acquire(actx)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", ErrPoolExhausted, err)
		}
		r.Logger.Error().Err(err).Msgf("sql[%s] acquire error", marker)
		return nil, err
	}
	return conn, nil
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	conn, err := r.acquire(ctx, marker)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	defer conn.Release()

	r.Logger.Info().Msgf("sql[%s] exec", marker)
	tag, err := conn.Exec(ctx, trimmed, args...)
	if err != nil {
		r.Logger.Error().Err(err).Msgf("sql[%s] error", marker)
		return tag, err
	}
	r.Logger.Info().Msgf("sql[%s] ok rows=%d", marker, tag.RowsAffected())
	return tag, nil
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		return errorRow{err: err}
	}
	conn, err := r.acquire(ctx, marker)
	if err != nil {
		return errorRow{err: err}
	}
	r.Logger.Info().Msgf("sql[%s] query_row", marker)
	row := conn.QueryRow(ctx, trimmed, args...)
	return loggingRow{row: row, logger: r.Logger, marker: marker, release: conn.Release}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		return nil, err
	}
	conn, err := r.acquire(ctx, marker)
	if err != nil {
		return nil, err
	}
	r.Logger.Info().Msgf("sql[%s] query", marker)
	rows, err := conn.Query(ctx, trimmed, args...)
	if err != nil {
		conn.Release()
		r.Logger.Error().Err(err).Msgf("sql[%s] error", marker)
		return nil, err
	}
	return &loggingRows{Rows: rows, logger: r.Logger, marker: marker, release: conn.Release}, nil
}

// loggingRow releases its connection once scanned.
type loggingRow struct {
	row     pgx.Row
	logger  zerolog.Logger
	marker  string
	release func()
}

func (l loggingRow) Scan(dest ...any) error {
	defer l.release()
	err := l.row.Scan(dest...)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		l.logger.Error().Err(err).Msgf("sql[%s] scan error", l.marker)
	}
	return err
}

// loggingRows releases its connection on the first Close.
type loggingRows struct {
	pgx.Rows
	logger  zerolog.Logger
	marker  string
	release func()
	once    sync.Once
}

func (l *loggingRows) Close() {
	l.once.Do(func() {
		l.Rows.Close()
		if err := l.Rows.Err(); err != nil {
			l.logger.Error().Err(err).Msgf("sql[%s] rows error", l.marker)
		}
		l.logger.Debug().Msgf("sql[%s] rows close", l.marker)
		l.release()
	})
}

type errorRow struct {
	err error
}

func (e errorRow) Scan(dest ...any) error {
	return e.err
}

func extractMarker(query string) (string, string, error) {
	trimmed := strings.TrimSpace(query)
	lines := strings.Split(trimmed, "\n")
	if len(lines) == 0 {
		return "", "", errors.New("empty query")
	}
	markerLine := strings.TrimSpace(lines[0])
	if !markerRegexp.MatchString(markerLine) {
		return "", "", errors.New("sql marker missing or invalid")
	}
	return strings.TrimSpace(strings.TrimPrefix(markerLine, "--sql ")), strings.Join(lines[1:], "\n"), nil
}

var _ SQLExecutor = (*SQLRunner)(nil)
