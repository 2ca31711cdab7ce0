package dberrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "applications_pkey"})

	assert.True(t, IsDuplicateConstraintError(err, "applications_pkey"))
	assert.False(t, IsDuplicateConstraintError(err, "users_email_key"))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), "applications_pkey"))
}

func TestIsForeignKeyError(t *testing.T) {
	err := &pgconn.PgError{Code: "23503", ConstraintName: "applications_project_id_fkey"}

	assert.True(t, IsForeignKeyError(err, ""))
	assert.True(t, IsForeignKeyError(err, "applications_project_id_fkey"))
	assert.False(t, IsForeignKeyError(err, "applications_student_id_fkey"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
		validation  bool
	}{
		{"deadline", context.DeadlineExceeded, true, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true, false},
		{"connection exception class", &pgconn.PgError{Code: "08006"}, true, false},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true, false},
		{"check violation", &pgconn.PgError{Code: "23514", ConstraintName: "students_year_check"}, false, true},
		{"unique violation stays permanent", &pgconn.PgError{Code: "23505"}, false, false},
		{"plain error", errors.New("syntax"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, "test op")
			assert.Error(t, got)
			assert.Equal(t, tt.unavailable, errors.Is(got, apperrors.ErrStoreUnavailable))
			assert.Equal(t, tt.unavailable, apperrors.IsRetryable(got))
			assert.Equal(t, tt.validation, errors.Is(got, apperrors.ErrValidationFailed))
		})
	}
}

func TestClassify_KeepsCause(t *testing.T) {
	cause := &pgconn.PgError{Code: "40P01"}
	got := Classify(cause, "decide")

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(got, &pgErr))
	assert.Equal(t, "40P01", pgErr.Code)
	assert.Nil(t, Classify(nil, "noop"))
}
