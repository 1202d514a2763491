// Package database opens the PostgreSQL connection used by the repositories
// and bootstraps the schema they expect.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"sistema-vendas/internal/config"
	"sistema-vendas/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
)

// Service owns the *sql.DB shared by the repositories
type Service struct {
	db     *sql.DB
	logger *zap.Logger
}

// New parses the configured DSN, attaches zap query tracing and verifies the
// database answers a ping before returning
func New(cfg *config.Config, log *zap.Logger) (*Service, error) {
	connConfig, err := pgx.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	connConfig.Tracer = &tracelog.TraceLog{
		Logger:   logger.PgxTraceLogger(log),
		LogLevel: logger.PgxTraceLevel(cfg.Server.Env),
	}

	db := stdlib.OpenDB(*connConfig)

	timeout := time.Duration(cfg.Database.ConnectTimeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Connected to database", zap.Stringer("database", cfg.Database))

	return NewFromDB(db, log), nil
}

// NewFromDB wraps an already opened database
func NewFromDB(db *sql.DB, log *zap.Logger) *Service {
	return &Service{db: db, logger: log}
}

// DB returns the underlying connection pool
func (s *Service) DB() *sql.DB {
	return s.db
}

// Health reports connectivity and pool statistics
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		s.logger.Warn("Database health check failed", zap.Error(err))
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	return stats
}

// Close closes the connection pool
func (s *Service) Close() error {
	s.logger.Info("Closing database connection")
	return s.db.Close()
}
