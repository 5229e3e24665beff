package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	dbpkg "github.com/cardgate/cardgate/internal/db"
	"github.com/cardgate/cardgate/internal/gate/store"
)

type ReadingStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewReadingStore(db *sql.DB, writer *dbpkg.Worker) *ReadingStore {
	return &ReadingStore{db: db, writer: writer}
}

// Append inserts one reading row. There is no update or delete path on
// this table anywhere in the codebase — it is an audit trail.
func (s *ReadingStore) Append(ctx context.Context, rec store.ReadingRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	createdMs := rec.CreatedAt.UTC().UnixMilli()

	var employeeID, deviceID any
	if rec.EmployeeID != nil {
		employeeID = *rec.EmployeeID
	}
	if rec.DeviceID != nil {
		deviceID = *rec.DeviceID
	}

	var photo any
	if rec.EmployeePhoto != "" {
		photo = rec.EmployeePhoto
	}

	var reason any
	if rec.DenyReason != "" {
		reason = rec.DenyReason
	}

	var granted int
	if rec.Granted {
		granted = 1
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO readings(
  reading_id, card_token, device_serial,
  employee_id, employee_name, employee_photo,
  device_id, device_name,
  status, granted, deny_reason, created_at_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
			rec.ID, rec.CardToken, rec.DeviceSerial,
			employeeID, rec.EmployeeName, photo,
			deviceID, rec.DeviceName,
			rec.Status, granted, reason, createdMs,
		); err != nil {
			return fmt.Errorf("Append insert: %w", err)
		}
		return nil
	})
}
