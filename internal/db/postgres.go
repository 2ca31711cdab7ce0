package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/labmatch/internal/config"
	"github.com/yigit/labmatch/internal/pkg/dberrors"
	"github.com/yigit/labmatch/internal/pkg/logger"
)

// DefaultQueryTimeout bounds a single store operation when none is configured
const DefaultQueryTimeout = 5 * time.Second

// PostgresDB database connection structure
type PostgresDB struct {
	Pool         *pgxpool.Pool
	QueryTimeout time.Duration
}

// NewPostgresDB creates a new PostgreSQL connection pool
func NewPostgresDB(cfg *config.Config) (*PostgresDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	poolConfig.MaxConnLifetime = maxLifetime

	// Add health check for connections
	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		err := conn.Ping(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Unhealthy connection detected")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	timeout, err := time.ParseDuration(cfg.Database.QueryTimeout)
	if err != nil || timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	return &PostgresDB{Pool: pool, QueryTimeout: timeout}, nil
}

// Close closing method
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks that the pool can reach the server
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctx, cancel := db.WithTimeout(ctx)
	defer cancel()
	return dberrors.Classify(db.Pool.Ping(ctx), "ping")
}

// WithTimeout bounds ctx by the configured query timeout unless it already has
// an earlier deadline.
func (db *PostgresDB) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := db.QueryTimeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx pgx.Tx) error

// WithTransaction runs fn within a transaction bounded by the query timeout.
// Errors returned by fn are passed through untouched; failures to begin or
// commit are classified so callers can tell transient ones apart.
func (db *PostgresDB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	ctx, cancel := db.WithTimeout(ctx)
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return dberrors.Classify(err, "begin transaction")
	}

	// Rollback on panic
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberrors.Classify(err, "commit transaction")
	}

	return nil
}
