package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"suraksha-api/internal/config"
	"suraksha-api/pkg/logger"
)

// PostgresDB wraps the pgx connection pool
type PostgresDB struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewPostgres creates a new PostgreSQL connection pool and ensures the
// incident audit schema exists.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*PostgresDB, error) {
	log = log.WithComponent("postgres")
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Str("dbname", cfg.DBName).Msg("connecting to PostgreSQL")

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &PostgresDB{pool: pool, logger: log}
	if err := db.migrate(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("connected to PostgreSQL successfully")
	return db, nil
}

// Pool returns the underlying connection pool
func (db *PostgresDB) Pool() *pgxpool.Pool {
	return db.pool
}

// Close closes the connection pool
func (db *PostgresDB) Close() {
	db.logger.Info().Msg("closing PostgreSQL connection pool")
	db.pool.Close()
}

// migrate creates the incident audit tables if they are missing
func (db *PostgresDB) migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS report_incidents (
	id            UUID PRIMARY KEY,
	complaint_type TEXT NOT NULL,
	incident_text TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS alert_incidents (
	id            UUID PRIMARY KEY,
	user_email    TEXT NOT NULL DEFAULT '',
	location      TEXT NOT NULL,
	incident_text TEXT NOT NULL,
	recipients    TEXT[] NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`
	_, err := db.pool.Exec(ctx, ddl)
	return err
}
