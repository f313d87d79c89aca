// pkg/connector/sqlite.go
package connector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteConnector reads datasets from a local SQLite file
type SQLiteConnector struct {
	db     *sql.DB
	logger *zap.Logger
	path   string
}

// NewSQLiteConnector opens the database at path
func NewSQLiteConnector(ctx context.Context, path string) (*SQLiteConnector, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	logger := zap.L().Named("sqlite-connector")
	logger.Info("Opening SQLite database", zap.String("path", path))

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite connection: %w", err)
	}
	ApplyConnectionSettings(db, 1, 1, 0, 0)

	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	return &SQLiteConnector{
		db:     db,
		logger: logger,
		path:   path,
	}, nil
}

// Name identifies the source
func (c *SQLiteConnector) Name() string {
	return "sqlite3:" + c.path
}

// DB returns the underlying database connection
func (c *SQLiteConnector) DB() *sql.DB {
	return c.db
}

// Validate checks the database answers queries
func (c *SQLiteConnector) Validate(ctx context.Context) error {
	var version string
	if err := c.db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query SQLite version: %w", err)
	}
	c.logger.Info("SQLite connection validated", zap.String("version", version))
	return nil
}

// Close closes the database connection
func (c *SQLiteConnector) Close() error {
	LogConnectionStats(c.logger, c.path, c.db)
	return c.db.Close()
}
