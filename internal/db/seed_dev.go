package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeedDev inserts a permitted employee and a pre-registered device so a
// fresh dev checkout answers scans immediately. Idempotent: the card
// number and serial are stable natural keys, re-running is a no-op.
func SeedDev(ctx context.Context, db *sql.DB) error {
	now := time.Now().UTC().UnixMilli()

	if _, err := db.ExecContext(ctx, `
INSERT INTO employees(
  employee_id, first_name, last_name, card_number,
  access_permission, created_at_ms, updated_at_ms
) VALUES (?, 'Dev', 'Badge', 'DEV-CARD-001', 1, ?, ?)
ON CONFLICT(card_number) DO NOTHING;
`, uuid.NewString(), now, now); err != nil {
		return fmt.Errorf("seed employee: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
INSERT INTO devices(
  device_id, serial, name, model, status, created_at_ms, updated_at_ms
) VALUES (?, 'DEV-READER-001', 'Dev Front Door', 'AccessControlTerminal', 'active', ?, ?)
ON CONFLICT(serial) DO NOTHING;
`, uuid.NewString(), now, now); err != nil {
		return fmt.Errorf("seed device: %w", err)
	}

	return nil
}
