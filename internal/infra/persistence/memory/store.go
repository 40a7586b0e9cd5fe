// Package memory keeps the persisted customer sequence in process memory. It
// backs tests and ephemeral deployments where nothing should touch disk.
package memory

import (
	"context"
	"slices"
	"sync"

	"customerdesk/pkg/domain"
)

var _ domain.Persister = (*Store)(nil)

// Store holds a private copy of the last saved sequence.
type Store struct {
	mu        sync.RWMutex
	customers []domain.Customer
	saves     int
	failWith  error
}

// New returns a store seeded with a copy of initial.
func New(initial ...domain.Customer) *Store {
	return &Store{customers: slices.Clone(initial)}
}

func (s *Store) Driver() domain.StorageDriver { return domain.StorageMemory }

// Load returns a copy of the last saved sequence.
func (s *Store) Load(ctx context.Context) ([]domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Customer, len(s.customers))
	copy(out, s.customers)
	return out, nil
}

// Save replaces the held sequence with a copy of customers.
func (s *Store) Save(ctx context.Context, customers []domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return &domain.WriteError{Driver: domain.StorageMemory, Location: "memory", Err: err}
	}
	if s.failWith != nil {
		return &domain.WriteError{Driver: domain.StorageMemory, Location: "memory", Err: s.failWith}
	}
	s.customers = slices.Clone(customers)
	s.saves++
	return nil
}

// Saves reports how many saves succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// FailSaves makes every later Save fail with err. A nil err clears it.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	s.failWith = err
	s.mu.Unlock()
}

func (s *Store) Close() error { return nil }
