package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "github.com/cardgate/cardgate/internal/db"
	"github.com/cardgate/cardgate/internal/gate/store"
)

type DeviceStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewDeviceStore(db *sql.DB, writer *dbpkg.Worker) *DeviceStore {
	return &DeviceStore{db: db, writer: writer}
}

func (s *DeviceStore) FindBySerial(ctx context.Context, serial string) (store.DeviceRecord, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return store.DeviceRecord{}, store.ErrNotFound
	}
	return s.lookup(ctx, serial)
}

// Provision inserts the device keyed on its unique serial.
// ON CONFLICT DO NOTHING plus the re-read collapses the concurrent
// first-sight race: whichever request wins the insert, both get the
// same row back.
func (s *DeviceStore) Provision(ctx context.Context, rec store.DeviceRecord) (store.DeviceRecord, error) {
	nowMs := time.Now().UTC().UnixMilli()

	var lastSeen any
	if !rec.LastSeenAt.IsZero() {
		lastSeen = rec.LastSeenAt.UTC().UnixMilli()
	}

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO devices(
  device_id, serial, name, model, status, last_seen_at_ms, created_at_ms, updated_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(serial) DO NOTHING;
`, rec.ID, rec.Serial, rec.Name, rec.Model, rec.Status, lastSeen, nowMs, nowMs); err != nil {
			return fmt.Errorf("Provision insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.DeviceRecord{}, err
	}

	return s.lookup(ctx, rec.Serial)
}

func (s *DeviceStore) TouchLastSeen(ctx context.Context, serial string, t time.Time) error {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return nil
	}
	if t.IsZero() {
		t = time.Now().UTC()
	}
	ms := t.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
UPDATE devices
SET last_seen_at_ms = ?,
    updated_at_ms   = ?
WHERE serial = ?;
`, ms, ms, serial); err != nil {
			return fmt.Errorf("TouchLastSeen update: %w", err)
		}
		return nil
	})
}

func (s *DeviceStore) lookup(ctx context.Context, serial string) (store.DeviceRecord, error) {
	var (
		rec      store.DeviceRecord
		lastSeen sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
SELECT device_id, serial, name, model, status, last_seen_at_ms
FROM devices
WHERE serial = ?;
`, serial).Scan(&rec.ID, &rec.Serial, &rec.Name, &rec.Model, &rec.Status, &lastSeen)

	if err == sql.ErrNoRows {
		return store.DeviceRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.DeviceRecord{}, fmt.Errorf("device lookup query: %w", err)
	}

	if lastSeen.Valid {
		rec.LastSeenAt = time.UnixMilli(lastSeen.Int64).UTC()
	}
	return rec, nil
}
