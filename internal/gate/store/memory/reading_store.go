package memory

import (
	"context"
	"sync"

	"github.com/cardgate/cardgate/internal/gate/store"
)

// ReadingStore is an in-memory append-only journal of scan readings.
// Intended for tests and dev environments.
type ReadingStore struct {
	mu       sync.Mutex
	readings []store.ReadingRecord
}

func NewReadingStore() *ReadingStore {
	return &ReadingStore{}
}

func (s *ReadingStore) Append(_ context.Context, rec store.ReadingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, rec)
	return nil
}

// Readings returns a copy of all journaled readings. Test-only helper.
func (s *ReadingStore) Readings() []store.ReadingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.ReadingRecord, len(s.readings))
	copy(out, s.readings)
	return out
}
