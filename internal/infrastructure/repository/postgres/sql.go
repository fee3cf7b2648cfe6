package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
)

const (
	defaultQueryTimeout = 3 * time.Second

	pqUniqueViolation = pq.ErrorCode("23505")
)

// Options tune every repository built on the same pool.
type Options struct {
	QueryTimeout time.Duration
	Breaker      *resilience.CircuitBreaker
}

// store bounds each statement with QueryTimeout and routes it through the
// shared circuit breaker. No-rows and unique violations are answers, not
// outages, so they never trip the breaker.
type store struct {
	db      *sqlx.DB
	timeout time.Duration
	breaker *resilience.CircuitBreaker
}

func newStore(db *sqlx.DB, opts Options) store {
	timeout := opts.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return store{db: db, timeout: timeout, breaker: opts.Breaker}
}

func (s store) run(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.breaker.Run(func() error {
		queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return fn(queryCtx)
	}, countsAsOutage)
}

func countsAsOutage(err error) bool {
	return !isNotFound(err) && !isUniqueViolation(err, "") && !errors.Is(err, context.Canceled)
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation matches 23505, optionally only for the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqUniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
