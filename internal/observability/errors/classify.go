// Package errors derives metric and log tags from errors.
package errors

import (
	"context"
	goerrors "errors"
	"reflect"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

// Classify returns a low-cardinality label for err. Application errors use
// their reason, or their code when no reason is set. Context errors map to
// "timeout" and "canceled", Postgres errors to "pg_<condition>". Anything
// else is named after the innermost concrete type, e.g. "net_operror".
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if reason := apperrors.GetReason(err); reason != "" {
		return reason
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	}
	var pgErr *pgconn.PgError
	if goerrors.As(err, &pgErr) {
		return pgClass(pgErr.Code)
	}

	for next := goerrors.Unwrap(err); next != nil; next = goerrors.Unwrap(err) {
		err = next
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := strings.ReplaceAll(strings.ToLower(t.String()), ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}

var pgClasses = map[string]string{
	pgerrcode.UniqueViolation:      "pg_unique_violation",
	pgerrcode.ForeignKeyViolation:  "pg_foreign_key_violation",
	pgerrcode.CheckViolation:       "pg_check_violation",
	pgerrcode.NotNullViolation:     "pg_not_null_violation",
	pgerrcode.SerializationFailure: "pg_serialization_failure",
	pgerrcode.DeadlockDetected:     "pg_deadlock",
	pgerrcode.QueryCanceled:        "pg_query_canceled",
	pgerrcode.UndefinedTable:       "pg_undefined_table",
}

func pgClass(code string) string {
	if c, ok := pgClasses[code]; ok {
		return c
	}
	if len(code) >= 2 {
		return "pg_class_" + strings.ToLower(code[:2])
	}
	return "pg_error"
}
