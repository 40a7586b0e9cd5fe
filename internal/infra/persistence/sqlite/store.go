// Package sqlite persists the customer sequence as one JSON row in an
// embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"customerdesk/internal/infra/persistence/snapshot"
	"customerdesk/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "customerdesk.db"

const bucket = "customers"

var _ domain.Persister = (*Store)(nil)

// Store keeps the full snapshot under a single bucket row of the
// customer_state table and overwrites it on every save.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// New opens (or creates) the database at path and ensures the state table.
func New(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS customer_state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// DB exposes the underlying handle for tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Driver() domain.StorageDriver { return domain.StorageSQLite }

// Load reads the snapshot row. No row means nothing was saved yet.
func (s *Store) Load(ctx context.Context) ([]domain.Customer, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM customer_state WHERE bucket = ?`, bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.Customer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	customers, err := snapshot.Unmarshal(payload)
	if err != nil {
		return nil, &domain.CorruptError{Driver: domain.StorageSQLite, Location: s.path, Err: err}
	}
	return customers, nil
}

// Save upserts the snapshot row inside a transaction.
func (s *Store) Save(ctx context.Context, customers []domain.Customer) error {
	if err := s.persist(ctx, customers); err != nil {
		return &domain.WriteError{Driver: domain.StorageSQLite, Location: s.path, Err: err}
	}
	return nil
}

func (s *Store) persist(ctx context.Context, customers []domain.Customer) (retErr error) {
	data, err := snapshot.Marshal(customers)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `INSERT INTO customer_state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
		return fmt.Errorf("upsert %s: %w", bucket, err)
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
