// Package file persists the customer sequence as a single indented JSON file.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"customerdesk/internal/infra/persistence/snapshot"
	"customerdesk/pkg/domain"
)

// DefaultPath is used when no path is configured.
const DefaultPath = "customers.json"

var _ domain.Persister = (*Store)(nil)

// Store reads and rewrites one JSON file. Writes go to a temp file in the same
// directory which is then renamed over the target, so readers never observe a
// half-written file. It is not safe for concurrent writers across processes.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a store for path. The parent directory must already exist.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the configured file path.
func (s *Store) Path() string { return s.path }

func (s *Store) Driver() domain.StorageDriver { return domain.StorageFile }

// Load reads the file. A missing file is an empty sequence.
func (s *Store) Load(ctx context.Context) ([]domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Customer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	customers, err := snapshot.Unmarshal(data)
	if err != nil {
		return nil, &domain.CorruptError{Driver: domain.StorageFile, Location: s.path, Err: err}
	}
	return customers, nil
}

// Save overwrites the file with the full sequence.
func (s *Store) Save(ctx context.Context, customers []domain.Customer) error {
	if err := ctx.Err(); err != nil {
		return &domain.WriteError{Driver: domain.StorageFile, Location: s.path, Err: err}
	}
	data, err := snapshot.Marshal(customers)
	if err != nil {
		return &domain.WriteError{Driver: domain.StorageFile, Location: s.path, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeFile(s.path, data); err != nil {
		return &domain.WriteError{Driver: domain.StorageFile, Location: s.path, Err: err}
	}
	return nil
}

func (s *Store) Close() error { return nil }

func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".customers-*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
