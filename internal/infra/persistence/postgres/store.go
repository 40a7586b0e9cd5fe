// Package postgres persists the customer sequence as a JSONB row in a
// PostgreSQL table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"customerdesk/internal/infra/persistence/snapshot"
	"customerdesk/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

var _ domain.Persister = (*Store)(nil)

const (
	defaultDriver = "pgx"
	// DefaultDSN is used when no DSN is configured.
	DefaultDSN = "postgres://localhost/customerdesk?sslmode=disable"

	bucket = "customers"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store upserts the full snapshot under one bucket of the customer_state table.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New connects using dsn (falls back to DefaultDSN) and ensures the state table.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureStateTable(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Driver() domain.StorageDriver { return domain.StoragePostgres }

func ensureStateTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS customer_state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure state table: %w", err)
	}
	return nil
}

// Load reads the snapshot row; no row is an empty sequence.
func (s *Store) Load(ctx context.Context) ([]domain.Customer, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM customer_state WHERE bucket = $1`, bucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.Customer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	customers, err := snapshot.Unmarshal(payload)
	if err != nil {
		return nil, &domain.CorruptError{Driver: domain.StoragePostgres, Location: "customer_state/" + bucket, Err: err}
	}
	return customers, nil
}

// Save replaces the snapshot row in a single transaction.
func (s *Store) Save(ctx context.Context, customers []domain.Customer) error {
	if err := s.persist(ctx, customers); err != nil {
		return &domain.WriteError{Driver: domain.StoragePostgres, Location: "customer_state/" + bucket, Err: err}
	}
	return nil
}

func (s *Store) persist(ctx context.Context, customers []domain.Customer) error {
	data, err := snapshot.Marshal(customers)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `INSERT INTO customer_state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`, bucket, string(data)); err != nil {
		return fmt.Errorf("upsert %s: %w", bucket, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
