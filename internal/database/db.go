// Package database opens the SQL connection used by repositories
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	_ "github.com/go-sql-driver/mysql"
	"github.com/japanesestudent/learning-summary/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// connectRetryDelay is the first pause between ping attempts, later pauses grow exponentially
var connectRetryDelay = 500 * time.Millisecond

// Open opens a connection pool for the configured driver without contacting the server
func Open(cfg *config.Config) (*sqlx.DB, error) {
	dsn := cfg.DSN()
	if dsn == "" {
		return nil, fmt.Errorf("database connection settings are missing for %s driver", cfg.Database.Driver)
	}

	db, err := sqlx.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		// A single writer avoids "database is locked" errors and keeps ":memory:" databases shared
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	return db, nil
}

// Connect opens the database and verifies the connection.
//
// The ping is retried cfg.Database.ConnectAttempts times so the service can start before
// the database server accepts connections.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	attempts := cfg.Database.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	err = retry.Do(
		func() error {
			return db.PingContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(connectRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("database is not reachable yet",
				zap.Uint("attempt", n+1),
				zap.Uint("attempts", attempts),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
