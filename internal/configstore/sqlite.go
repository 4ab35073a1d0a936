package configstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps configuration items in a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// itemRow mirrors a config_items row.
type itemRow struct {
	ID        string    `db:"id"`
	Directory string    `db:"directory"`
	Name      string    `db:"name"`
	Value     string    `db:"value"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
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
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
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

// Lookup retrieves a single item by directory and name.
func (s *SQLiteStore) Lookup(
	ctx context.Context,
	directory, name string,
) (*Item, error) {
	var row itemRow
	err := s.db.GetContext(ctx, &row,
		"SELECT * FROM config_items WHERE directory = ? AND name = ?",
		directory, name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting item %s/%s: %w", directory, name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item %s/%s: %w", directory, name, err)
	}

	return &Item{Directory: row.Directory, Name: row.Name, Value: row.Value}, nil
}

// Put inserts an item or replaces the value of an existing one. The row id
// and creation time of an existing item are kept.
func (s *SQLiteStore) Put(ctx context.Context, item Item) error {
	if !validName(item.Name) {
		return fmt.Errorf("%q: %w", item.Name, ErrInvalidName)
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config_items (id, directory, name, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(directory, name) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		uuid.New().String(), item.Directory, item.Name, item.Value, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting item %s/%s: %w", item.Directory, item.Name, err)
	}

	return nil
}

// Delete removes an item by directory and name.
func (s *SQLiteStore) Delete(ctx context.Context, directory, name string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM config_items WHERE directory = ? AND name = ?",
		directory, name,
	)
	if err != nil {
		return fmt.Errorf("deleting item %s/%s: %w", directory, name, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting item %s/%s: %w", directory, name, ErrNotFound)
	}
	return nil
}

// List retrieves all items in a directory ordered by name.
func (s *SQLiteStore) List(ctx context.Context, directory string) ([]Item, error) {
	var rows []itemRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM config_items WHERE directory = ? ORDER BY name",
		directory,
	)
	if err != nil {
		return nil, fmt.Errorf("querying items in %s: %w", directory, err)
	}

	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, Item{Directory: r.Directory, Name: r.Name, Value: r.Value})
	}
	return items, nil
}
