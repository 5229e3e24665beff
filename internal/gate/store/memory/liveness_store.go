package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cardgate/cardgate/internal/gate/store"
)

type LivenessStore struct {
	mu    sync.Mutex
	pings []store.LivenessPing
}

func NewLivenessStore() *LivenessStore {
	return &LivenessStore{}
}

func (s *LivenessStore) RecordPing(_ context.Context, ping store.LivenessPing) error {
	if ping.ReceivedAt.IsZero() {
		ping.ReceivedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pings = append(s.pings, ping)
	return nil
}

func (s *LivenessStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.pings[:0]
	var deleted int64
	for _, p := range s.pings {
		if p.ReceivedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	s.pings = kept
	return deleted, nil
}

// Pings returns a copy of all recorded pings. Test-only helper.
func (s *LivenessStore) Pings() []store.LivenessPing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.LivenessPing, len(s.pings))
	copy(out, s.pings)
	return out
}
