package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/labmatch/internal/db"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
	"github.com/yigit/labmatch/internal/pkg/dberrors"
	"github.com/yigit/labmatch/internal/pkg/logger"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgRepository carries what every PostgreSQL repository needs
type pgRepository struct {
	pg *db.PostgresDB
	// Use squirrel instance with placeholder format
	sb squirrel.StatementBuilderType
}

func newPGRepository(pg *db.PostgresDB) pgRepository {
	return pgRepository{
		pg: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// validID filters out ids PostgreSQL would reject as malformed uuids, so they
// read as missing rather than as driver errors.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// rowError turns a single-row lookup error into the store taxonomy
func rowError(err error, op, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewResourceNotFoundError(what + " not found")
	}
	return buildOrStoreError(err, op)
}

// buildOrStoreError classifies a driver error and logs unexpected ones
func buildOrStoreError(err error, op string) error {
	classified := dberrors.Classify(err, op)
	if !apperrors.IsRetryable(classified) && !errors.Is(classified, apperrors.ErrValidationFailed) {
		logger.Error().Err(err).Str("op", op).Msg("Store operation failed")
	}
	return classified
}

// toSQL renders a squirrel builder, logging build failures
func toSQL(b squirrel.Sqlizer, op string) (string, []interface{}, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building SQL")
		return "", nil, fmt.Errorf("failed to build %s query: %w", op, err)
	}
	return sql, args, nil
}
