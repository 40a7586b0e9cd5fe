package core

import (
	"slices"
	"sync"
)

// RecordStore holds the accepted customers in ascending (lastName, firstName)
// order. It is the single source of truth while the process runs; callers
// persist it explicitly.
type RecordStore struct {
	mu        sync.RWMutex
	customers []Customer
}

// NewRecordStore seeds a store with a previously persisted sequence. The
// sequence is taken as-is: persisted state is already in store order.
func NewRecordStore(initial []Customer) *RecordStore {
	return &RecordStore{customers: slices.Clone(initial)}
}

// List returns a copy of the ordered sequence. It is never nil.
func (s *RecordStore) List() []Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// FindCustomer implements domain.RuleView.
func (s *RecordStore) FindCustomer(id int) (Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// Len reports the number of held records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.customers)
}

// Insert places an accepted customer at its sorted position and returns the index.
func (s *RecordStore) Insert(c Customer) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var idx int
	s.customers, idx = InsertSorted(s.customers, c)
	return idx
}

// InsertSorted inserts c before the first element that sorts strictly after
// it. Elements with an equal (lastName, firstName) key stay ahead of c.
func InsertSorted(list []Customer, c Customer) ([]Customer, int) {
	idx := 0
	for idx < len(list) && c.Compare(list[idx]) >= 0 {
		idx++
	}
	return slices.Insert(list, idx, c), idx
}
