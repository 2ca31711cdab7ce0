package dberrors

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

// SQLSTATE codes the store cares about
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeTooManyConnections   = "53300"
	codeAdminShutdown        = "57P01"
	codeCrashShutdown        = "57P02"
	codeCannotConnectNow     = "57P03"
	codeQueryCanceled        = "57014"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	// Check if the error is a PgError, if the code is unique_violation (23505),
	// and if the constraint name matches the provided one.
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsForeignKeyError checks if the error is a foreign key violation on the named constraint.
// An empty constraintName matches any foreign key violation.
func IsForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeForeignKeyViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// IsTransient reports whether err is an infrastructure failure worth retrying:
// timeouts, lost connections, serialization failures and server shutdowns.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeTooManyConnections,
			codeAdminShutdown, codeCrashShutdown, codeCannotConnectNow, codeQueryCanceled:
			return true
		}
		// Class 08: connection exception
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == "08"
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// Classify maps a raw driver error onto the application taxonomy. Transient
// failures become apperrors.ErrStoreUnavailable with the cause kept in the chain;
// check violations become validation failures. Everything else is returned
// wrapped so it is still visible to errors.As.
func Classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrStoreUnavailable) {
		return err
	}
	if IsTransient(err) {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeCheckViolation {
		return fmt.Errorf("%w: %s: %s", apperrors.ErrValidationFailed, op, pgErr.ConstraintName)
	}

	return fmt.Errorf("%s: %w", op, err)
}
