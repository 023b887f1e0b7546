package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DatabaseName is the logical name of the board database. The default
// file on disk is DatabaseName + ".db".
const DatabaseName = "TaskDatabase"

// ErrSchemaTooNew is returned by Open when the file was written by a newer
// build with a schema version this one does not know.
var ErrSchemaTooNew = errors.New("database schema is newer than supported")

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// Open opens (or creates) a SQLite database at dbPath, enables WAL mode
// and foreign keys, and runs any pending schema migrations.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection: pragmas are per connection and ":memory:" databases
	// are per connection too.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Version returns the schema version recorded in the database.
func (s *SQLiteStore) Version() (int, error) {
	var v int
	if err := s.db.Get(&v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		currentVersion, err = s.Version()
		if err != nil {
			return err
		}
	}

	if currentVersion > SchemaVersion {
		return fmt.Errorf("%w: found v%d, want <= v%d", ErrSchemaTooNew, currentVersion, SchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// notFound maps sql.ErrNoRows onto ErrNotFound, leaving other errors alone.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// setPositions writes position = index for every id, scoped by the given
// UPDATE statement, inside tx.
func setPositions(ctx context.Context, tx *sqlx.Tx, query, kind string, ids []string, scope ...any) error {
	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing %s reorder: %w", kind, err)
	}
	defer stmt.Close()

	for i, id := range ids {
		args := append([]any{i, id}, scope...)
		result, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return fmt.Errorf("positioning %s %s: %w", kind, id, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
	}
	return nil
}
