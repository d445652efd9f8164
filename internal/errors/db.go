package errors

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps database errors to AppError instances:
// - context timeouts/cancellations → Timeout/Canceled
// - pgx.ErrNoRows → NotFound
// - missing relation (e.g. allow-list table not provisioned) → Unavailable
// - connection-class failures → Unavailable
//
// If the error is not a recognized database error, it returns the original
// error untouched.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "Resource not found",
			Cause:   err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UndefinedTable:
			return &AppError{
				Code:    ErrCodeUnavailable,
				Message: "Required table is not provisioned",
				Cause:   err,
			}
		case pgerrcode.IsConnectionException(pgErr.Code):
			return &AppError{
				Code:    ErrCodeUnavailable,
				Message: "Database is unreachable",
				Cause:   err,
			}
		}
	}

	return err
}
