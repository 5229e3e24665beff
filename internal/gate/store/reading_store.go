package store

import (
	"context"
	"time"
)

// Reading outcome statuses. Stored as plain strings so the audit table
// stays greppable without a lookup table.
const (
	ReadingStatusSuccess = "success"
	ReadingStatusDenied  = "denied"
	ReadingStatusError   = "error"
)

// ReadingRecord is one append-only journal entry for an inbound scan.
// Employee and device fields are denormalized copies captured at read
// time: a reading must stay interpretable after the employee or device
// row is edited or deleted.
type ReadingRecord struct {
	ID           string
	CardToken    string // raw token as received
	DeviceSerial string // raw serial as received

	EmployeeID    *string // nil when the token did not resolve
	EmployeeName  string
	EmployeePhoto string

	DeviceID   *string
	DeviceName string

	Status     string
	Granted    bool
	DenyReason string // empty on success

	CreatedAt time.Time // server clock, never the device's
}

// ReadingStore persists scan outcomes as an append-only audit log.
// Rows are never updated or deleted by this subsystem.
type ReadingStore interface {
	Append(ctx context.Context, rec ReadingRecord) error
}
