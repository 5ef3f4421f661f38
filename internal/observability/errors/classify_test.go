package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

type kycError struct{}

func (*kycError) Error() string { return "kyc" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"reason wins", fmt.Errorf("approve: %w", apperrors.Forbidden("no").WithReason("employer_not_verified")), "employer_not_verified"},
		{"code", apperrors.Validation("bad"), "validation"},
		{"deadline", fmt.Errorf("reap: %w", context.DeadlineExceeded), "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"plain", goerrors.New("plain"), "errors_errorstring"},
		{"innermost type", fmt.Errorf("submit: %w", &kycError{}), "errors_kycerror"},
		{"deadlock", fmt.Errorf("query: %w", &pgconn.PgError{Code: "40P01"}), "pg_deadlock"},
		{"other pg class", &pgconn.PgError{Code: "22001"}, "pg_class_22"},
		{"pg without code", &pgconn.PgError{}, "pg_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
