// Package pebble persists the customer sequence under one key of an embedded
// pebble store.
package pebble

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"customerdesk/internal/infra/persistence/snapshot"
	"customerdesk/pkg/domain"
)

// DefaultDir is used when no directory is configured.
const DefaultDir = "customerdesk.pebble"

var snapshotKey = []byte("customers/snapshot")

var _ domain.Persister = (*Store)(nil)

// Store wraps a pebble DB. Every save is a synced Set of the full snapshot.
type Store struct {
	db  *pebble.DB
	dir string
}

// New opens the pebble directory. A nil fs uses the OS filesystem.
func New(dir string, fs vfs.FS) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	opts := &pebble.Options{}
	if fs != nil {
		opts.FS = fs
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble %s: %w", dir, err)
	}
	return &Store{db: db, dir: dir}, nil
}

func (s *Store) Driver() domain.StorageDriver { return domain.StoragePebble }

// Load reads the snapshot key. A missing key is an empty sequence.
func (s *Store) Load(ctx context.Context) ([]domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	val, closer, err := s.db.Get(snapshotKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return []domain.Customer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	defer func() { _ = closer.Close() }()
	customers, err := snapshot.Unmarshal(val)
	if err != nil {
		return nil, &domain.CorruptError{Driver: domain.StoragePebble, Location: s.dir, Err: err}
	}
	return customers, nil
}

// Save writes the full snapshot with fsync.
func (s *Store) Save(ctx context.Context, customers []domain.Customer) error {
	if err := ctx.Err(); err != nil {
		return &domain.WriteError{Driver: domain.StoragePebble, Location: s.dir, Err: err}
	}
	data, err := snapshot.Marshal(customers)
	if err != nil {
		return &domain.WriteError{Driver: domain.StoragePebble, Location: s.dir, Err: err}
	}
	if err := s.db.Set(snapshotKey, data, pebble.Sync); err != nil {
		return &domain.WriteError{Driver: domain.StoragePebble, Location: s.dir, Err: err}
	}
	return nil
}

// Close flushes and closes the DB.
func (s *Store) Close() error { return s.db.Close() }
