package memory

import (
	"context"
	"sync"

	"github.com/cardgate/cardgate/internal/gate/store"
)

// EmployeeStore is an in-memory employee table keyed by card number.
// Intended for tests and dev environments.
type EmployeeStore struct {
	mu     sync.RWMutex
	byCard map[string]store.EmployeeRecord
}

func NewEmployeeStore(employees ...store.EmployeeRecord) *EmployeeStore {
	byCard := make(map[string]store.EmployeeRecord, len(employees))
	for _, e := range employees {
		if e.CardNumber != "" {
			byCard[e.CardNumber] = e
		}
	}
	return &EmployeeStore{byCard: byCard}
}

func (s *EmployeeStore) FindByCardNumber(_ context.Context, cardNumber string) (store.EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byCard[cardNumber]
	if !ok {
		return store.EmployeeRecord{}, store.ErrNotFound
	}
	return rec, nil
}

// Put upserts an employee. Test-only helper.
func (s *EmployeeStore) Put(rec store.EmployeeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCard[rec.CardNumber] = rec
}
