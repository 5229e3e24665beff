package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cardgate/cardgate/internal/gate/store"
)

type DeviceStore struct {
	mu       sync.RWMutex
	bySerial map[string]store.DeviceRecord
}

func NewDeviceStore(devices ...store.DeviceRecord) *DeviceStore {
	bySerial := make(map[string]store.DeviceRecord, len(devices))
	for _, d := range devices {
		if d.Serial != "" {
			bySerial[d.Serial] = d
		}
	}
	return &DeviceStore{bySerial: bySerial}
}

func (s *DeviceStore) FindBySerial(_ context.Context, serial string) (store.DeviceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.bySerial[serial]
	if !ok {
		return store.DeviceRecord{}, store.ErrNotFound
	}
	return rec, nil
}

// Provision mirrors the sqlite store's insert-or-get semantics: if the
// serial already exists the existing row wins.
func (s *DeviceStore) Provision(_ context.Context, rec store.DeviceRecord) (store.DeviceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.bySerial[rec.Serial]; ok {
		return existing, nil
	}
	s.bySerial[rec.Serial] = rec
	return rec, nil
}

func (s *DeviceStore) TouchLastSeen(_ context.Context, serial string, t time.Time) error {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil
	}
	if t.IsZero() {
		t = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.bySerial[serial]
	if !ok {
		return nil
	}
	rec.LastSeenAt = t
	s.bySerial[serial] = rec
	return nil
}

// Count returns the number of device rows. Test-only helper.
func (s *DeviceStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bySerial)
}
