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

// constraintMessages gives named constraints a message callers can act on.
// Postgres names inline CHECKs <table>_<column>_check.
var constraintMessages = map[string]struct{ field, message string }{ //nolint:gochecknoglobals // read-only lookup
	"users_email_key":                     {"email", "An account with this email already exists."},
	"employers_user_id_key":               {"user_id", "This user already has an employer profile."},
	"subscription_plans_code_key":         {"code", "A plan with this code already exists."},
	"applications_job_candidate_key":      {"job_id", "You have already applied to this job."},
	"saved_jobs_pkey":                     {"job_id", "This job is already saved."},
	"jobs_salary_range":                   {"salary_max", "salary_max must be greater than or equal to salary_min."},
	"jobs_experience_max_check":           {"experience_max", "experience_max must be greater than or equal to experience_min."},
	"jobs_openings_check":                 {"openings", "openings must be at least 1."},
	"employers_subscription_plan_id_fkey": {"subscription_plan_id", "This plan cannot be deleted while employers are subscribed to it."},
}

var (
	reDetailKey      = regexp.MustCompile(`Key \(([^)]+)\)=`)
	reReferencedFrom = regexp.MustCompile(`still referenced from table "?([^"]+)"?`)
	reNotPresent     = regexp.MustCompile(`not present in table "?([^"]+)"?`)
)

// MapDBError turns driver and context errors into AppErrors. Errors it does
// not recognise, including existing AppErrors, are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Resource not found.")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return constraintError(pgErr, ErrCodeConflict, "This value already exists.")
	case pgerrcode.ForeignKeyViolation:
		// A missing parent row is bad input; a row still referenced blocks the change.
		if reNotPresent.MatchString(pgErr.Detail) {
			return constraintError(pgErr, ErrCodeValidation, foreignKeyMessage(pgErr))
		}
		return constraintError(pgErr, ErrCodeForeignKey, foreignKeyMessage(pgErr))
	case pgerrcode.CheckViolation:
		return constraintError(pgErr, ErrCodeValidation, "Invalid value. Please check your input.")
	case pgerrcode.NotNullViolation:
		return constraintError(pgErr, ErrCodeValidation, "This field is required.")
	case pgerrcode.InvalidTextRepresentation:
		return Wrap(pgErr, ErrCodeNotFound, "Resource not found.")
	default:
		return Wrap(pgErr, ErrCodeInternal, "A database error occurred. Please try again.")
	}
}

// constraintError prefers a registered message for the constraint, then the
// column reported by the server, then the column named in Detail.
func constraintError(pgErr *pgconn.PgError, code ErrorCode, fallback string) *AppError {
	e := Wrap(pgErr, code, fallback)
	if known, ok := constraintMessages[pgErr.ConstraintName]; ok {
		e.Field, e.Message = known.field, known.message
		return e
	}
	switch {
	case pgErr.ColumnName != "":
		e.Field = pgErr.ColumnName
	case pgErr.Detail != "":
		if m := reDetailKey.FindStringSubmatch(pgErr.Detail); len(m) == 2 && !strings.Contains(m[1], ",") {
			e.Field = strings.TrimSpace(m[1])
		}
	}
	return e
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	if m := reReferencedFrom.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return "Cannot delete because it is still used by " + resourceName(m[1]) + "."
	}
	if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return "The referenced record in " + resourceName(m[1]) + " does not exist."
	}
	return "Cannot complete the operation because a related record is missing or in use."
}

// resourceName renders a table name for messages: "saved_jobs" -> "saved jobs".
func resourceName(table string) string {
	switch table = strings.ToLower(strings.TrimSpace(table)); table {
	case "subscription_plans":
		return "plans"
	case "candidate_profiles":
		return "candidate profiles"
	default:
		return strings.ReplaceAll(table, "_", " ")
	}
}
