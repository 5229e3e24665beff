package store

import (
	"context"
	"time"
)

const (
	DeviceStatusActive = "active"

	// DeviceModelTerminal is the model category assigned to
	// auto-provisioned readers.
	DeviceModelTerminal = "AccessControlTerminal"
)

type DeviceRecord struct {
	ID         string
	Serial     string
	Name       string
	Model      string
	Status     string
	LastSeenAt time.Time
}

type DeviceStore interface {
	// FindBySerial returns the device with the given serial number,
	// or ErrNotFound.
	FindBySerial(ctx context.Context, serial string) (DeviceRecord, error)

	// Provision inserts rec keyed on its unique serial. If another
	// request provisioned the same serial first, the existing row wins
	// and is returned; two concurrent first-sights must not produce two
	// rows.
	Provision(ctx context.Context, rec DeviceRecord) (DeviceRecord, error)

	// TouchLastSeen refreshes the device's liveness timestamp.
	TouchLastSeen(ctx context.Context, serial string, t time.Time) error
}
