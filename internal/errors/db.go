package errors

import (
	"context"
	"database/sql"
	"errors"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the column from a unique violation detail: "Key (field)=(value) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapDBError maps database errors to AppError instances:
//   - pgx.ErrNoRows / sql.ErrNoRows → NotFound
//   - unique violations → Conflict
//   - foreign key, check and NOT NULL violations → Validation
//   - context deadline / cancellation → Timeout / Canceled
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "database operation timed out")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "database operation was canceled")
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "resource not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		e := Wrap(pgErr, ErrCodeConflict, "value already exists")
		e.Field = uniqueField(pgErr)
		return e
	case pgerrcode.ForeignKeyViolation:
		e := Wrap(pgErr, ErrCodeValidation, "referenced record does not exist")
		e.Field = pgErr.ColumnName
		return e
	case pgerrcode.CheckViolation:
		e := Wrap(pgErr, ErrCodeValidation, "value violates constraint "+pgErr.ConstraintName)
		e.Field = pgErr.ColumnName
		return e
	case pgerrcode.NotNullViolation:
		e := Wrap(pgErr, ErrCodeValidation, "required field is missing")
		e.Field = pgErr.ColumnName
		return e
	default:
		return Wrap(pgErr, ErrCodeInternal, "database error")
	}
}

func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	return ""
}
