package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the column list from a unique violation detail:
// "Key (user_id, name)=(alice, nightly) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MapDBError maps database errors to AppError instances.
//   - pgx.ErrNoRows → NotFound
//   - unique violations → Conflict
//   - check and NOT NULL violations → Validation
//   - context timeouts/cancellations → Timeout/Canceled
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Resource not found")
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
		return &AppError{
			Code:    ErrCodeConflict,
			Message: conflictMessage(pgErr.TableName),
			Field:   uniqueField(pgErr),
			Cause:   pgErr,
		}
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		msg := "Invalid data. Please check your input."
		if pgErr.Code == pgerrcode.NotNullViolation {
			msg = "Required field is missing. Please check your input."
		}
		return &AppError{
			Code:    ErrCodeValidation,
			Message: msg,
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	default:
		return &AppError{
			Code:    ErrCodeInternal,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}

// uniqueField reports the user-facing column behind a unique violation.
// Composite keys scoped by user_id report the remaining column.
func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	m := reKeyField.FindStringSubmatch(pgErr.Detail)
	if len(m) != 2 {
		return ""
	}
	var cols []string
	for _, c := range strings.Split(m[1], ",") {
		if c = strings.TrimSpace(c); c != "" && c != "user_id" {
			cols = append(cols, c)
		}
	}
	if len(cols) != 1 {
		return ""
	}
	return cols[0]
}

func conflictMessage(table string) string {
	switch strings.ToLower(strings.TrimSpace(table)) {
	case "saved_queries":
		return "A saved query with this name already exists."
	default:
		return "This value already exists. Please choose a different one."
	}
}
