// pkg/history/store.go
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// TableName is the history table
const TableName = "cleaning_history"

// ErrNotFound is returned when no entry has the requested id
var ErrNotFound = errors.New("history entry not found")

const defaultTimeout = 10 * time.Second

// Store records cleaning runs in a SQL table
type Store struct {
	db      *sqlx.DB
	logger  *zap.Logger
	table   string
	timeout time.Duration
}

// Open connects to the history database and ensures the table exists.
// driver is "postgres" or "sqlite3".
func Open(driver, dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if driver == "sqlite3" {
		// sqlite serializes writers; one connection also keeps :memory: databases shared
		db.SetMaxOpenConns(1)
	}

	store, err := NewStore(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore creates a Store on an open connection and ensures the history
// table exists
func NewStore(db *sqlx.DB, logger *zap.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	store := &Store{
		db:      db,
		logger:  logger,
		table:   pq.QuoteIdentifier(TableName),
		timeout: defaultTimeout,
	}

	if err := store.setupHistoryTable(); err != nil {
		return nil, fmt.Errorf("failed to setup history table: %w", err)
	}

	return store, nil
}

// DB returns the underlying connection
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the underlying connection
func (s *Store) Close() error {
	return s.db.Close()
}

// setupHistoryTable ensures the history table exists
func (s *Store) setupHistoryTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	idColumn, tsType := "id INTEGER PRIMARY KEY AUTOINCREMENT", "TIMESTAMP"
	if s.db.DriverName() != "sqlite3" {
		idColumn, tsType = "id BIGSERIAL PRIMARY KEY", "TIMESTAMP WITH TIME ZONE"
	}

	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s,
			owner TEXT NOT NULL,
			filename TEXT NOT NULL,
			run_id TEXT NOT NULL,
			rows_before INTEGER NOT NULL,
			rows_after INTEGER NOT NULL,
			nulls_before INTEGER NOT NULL,
			nulls_after INTEGER NOT NULL,
			duplicates_before INTEGER NOT NULL,
			duplicates_after INTEGER NOT NULL,
			anomalies_detected INTEGER NOT NULL,
			options TEXT NOT NULL,
			created_at %s NOT NULL
		)
	`, s.table, idColumn, tsType)

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create history table: %w", err)
	}

	s.logger.Debug("Ensured history table exists", zap.String("table", TableName))
	return nil
}

// Record inserts entries in one transaction and sets their ids
func (s *Store) Record(ctx context.Context, entries ...*Entry) (err error) {
	if len(entries) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Begin transaction
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.NamedError("cause", err))
			}
		}
	}()

	// Prepare statement
	stmt, err := tx.PreparexContext(ctx, s.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s
		(owner, filename, run_id, rows_before, rows_after, nulls_before, nulls_after,
		 duplicates_before, duplicates_after, anomalies_detected, options, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, s.table)))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		err = stmt.QueryRowxContext(ctx,
			e.Owner,
			e.Filename,
			e.RunID,
			e.RowsBefore,
			e.RowsAfter,
			e.NullsBefore,
			e.NullsAfter,
			e.DuplicatesBefore,
			e.DuplicatesAfter,
			e.AnomaliesDetected,
			e.Options,
			e.CreatedAt,
		).Scan(&e.ID)
		if err != nil {
			return fmt.Errorf("failed to insert history entry: %w", err)
		}
	}

	// Commit transaction
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Recorded cleaning history", zap.Int("count", len(entries)))
	return nil
}

// List returns the entries of owner, newest first
func (s *Store) List(ctx context.Context, owner string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var entries []Entry
	query := s.db.Rebind(fmt.Sprintf(
		`SELECT * FROM %s WHERE owner = ? ORDER BY created_at DESC, id DESC`, s.table))
	if err := s.db.SelectContext(ctx, &entries, query, owner); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given id
func (s *Store) Get(ctx context.Context, id int64) (*Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var entry Entry
	query := s.db.Rebind(fmt.Sprintf(`SELECT * FROM %s WHERE id = ?`, s.table))
	if err := s.db.GetContext(ctx, &entry, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get history entry %d: %w", id, err)
	}
	return &entry, nil
}

// Rename changes the filename recorded for one of owner's entries
func (s *Store) Rename(ctx context.Context, owner string, id int64, filename string) error {
	if owner == "" {
		return errors.New("owner cannot be empty")
	}
	if filename == "" {
		return errors.New("filename cannot be empty")
	}
	query := s.db.Rebind(fmt.Sprintf(`UPDATE %s SET filename = ? WHERE id = ? AND owner = ?`, s.table))
	return s.execOne(ctx, "rename", id, query, filename, id, owner)
}

// Delete removes one of owner's entries. Entries of other owners are
// reported as ErrNotFound.
func (s *Store) Delete(ctx context.Context, owner string, id int64) error {
	if owner == "" {
		return errors.New("owner cannot be empty")
	}
	query := s.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND owner = ?`, s.table))
	return s.execOne(ctx, "delete", id, query, id, owner)
}

func (s *Store) execOne(ctx context.Context, op string, id int64, query string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s history entry %d: %w", op, id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s history entry %d: %w", op, id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info("Updated cleaning history", zap.String("operation", op), zap.Int64("id", id))
	return nil
}
