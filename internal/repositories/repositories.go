// Package repositories is the persistence boundary: each repository owns one
// document collection backed by a Postgres table carrying the aggregate as a
// JSONB payload next to its key columns, with a version column for
// compare-and-swap updates.
package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hotel-backend/internal/apperr"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so repository methods
// can run standalone or inside a caller-owned transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// storeErr wraps an underlying store failure, surfacing context timeouts as
// their own error kind instead of a generic storage error.
func storeErr(err error, format string, args ...interface{}) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(err, format, args...)
	}
	return apperr.Storage(err, format, args...)
}
