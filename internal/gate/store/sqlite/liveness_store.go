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

type LivenessStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewLivenessStore(db *sql.DB, writer *dbpkg.Worker) *LivenessStore {
	return &LivenessStore{db: db, writer: writer}
}

func (s *LivenessStore) RecordPing(ctx context.Context, ping store.LivenessPing) error {
	serial := strings.TrimSpace(ping.DeviceSerial)
	if serial == "" {
		return nil
	}
	if ping.ReceivedAt.IsZero() {
		ping.ReceivedAt = time.Now().UTC()
	}
	recvMs := ping.ReceivedAt.UTC().UnixMilli()

	var ip any
	if ping.RemoteIP != "" {
		ip = ping.RemoteIP
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO liveness_pings(device_serial, received_at_ms, remote_ip)
VALUES (?, ?, ?);
`, serial, recvMs, ip); err != nil {
			return fmt.Errorf("RecordPing insert: %w", err)
		}
		return nil
	})
}

// PruneOlderThan deletes ping rows received before the given cutoff.
// Returns the number of rows deleted.
//
// Uses the idx_liveness_time index for an efficient range scan.
func (s *LivenessStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffMs := cutoff.UTC().UnixMilli()

	var deleted int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
DELETE FROM liveness_pings
WHERE received_at_ms < ?;
`, cutoffMs)
		if err != nil {
			return fmt.Errorf("PruneOlderThan: %w", err)
		}
		deleted, _ = res.RowsAffected()
		return nil
	})
	return deleted, err
}
