// pkg/connector/factory.go
package connector

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/raw-to-ready/pkg/config"
)

// Source names accepted by CreateSource
const (
	SourceSnowflake = "snowflake"
	SourcePostgres  = "postgres"
	SourceSQLite    = "sqlite3"
)

// ConnectorFactory creates database connectors
type ConnectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, logger *zap.Logger) *ConnectorFactory {
	return &ConnectorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSource opens and validates a source given as
// "snowflake", "postgres" or "sqlite3:<path>".
func (f *ConnectorFactory) CreateSource(ctx context.Context, source string) (DatabaseConnector, error) {
	name, arg, _ := strings.Cut(source, ":")

	var (
		c   DatabaseConnector
		err error
	)
	switch name {
	case SourceSnowflake:
		c, err = f.CreateSnowflakeConnector(ctx)
	case SourcePostgres:
		c, err = f.CreatePostgresConnector(ctx)
	case SourceSQLite:
		f.logger.Info("Creating SQLite connector")
		c, err = NewSQLiteConnector(ctx, arg)
		if err != nil {
			err = fmt.Errorf("failed to create SQLite connector: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
	if err != nil {
		return nil, err
	}

	if err := c.Validate(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to validate %s: %w", c.Name(), err)
	}
	return c, nil
}

// CreateSnowflakeConnector creates a new Snowflake connector
func (f *ConnectorFactory) CreateSnowflakeConnector(ctx context.Context) (*SnowflakeConnector, error) {
	f.logger.Info("Creating Snowflake connector")

	connector, err := NewSnowflakeConnector(ctx, f.cfg.Snowflake)
	if err != nil {
		return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
	}

	return connector, nil
}

// CreatePostgresConnector creates a new PostgreSQL connector
func (f *ConnectorFactory) CreatePostgresConnector(ctx context.Context) (*PostgresConnector, error) {
	f.logger.Info("Creating PostgreSQL connector")

	connector, err := NewPostgresConnector(ctx, f.cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
	}

	return connector, nil
}
