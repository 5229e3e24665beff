package store

import (
	"context"
	"time"
)

// LivenessPing is one telemetry row noting that a device was heard from.
// Unlike readings this is disposable data and is pruned on a retention
// schedule.
type LivenessPing struct {
	DeviceSerial string
	ReceivedAt   time.Time
	RemoteIP     string
}

type LivenessStore interface {
	RecordPing(ctx context.Context, ping LivenessPing) error

	// PruneOlderThan deletes pings received before cutoff and returns
	// the number of rows removed.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
