package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cardgate/cardgate/internal/gate/store"
	sqlitestore "github.com/cardgate/cardgate/internal/gate/store/sqlite"
)

func newDevice(serial string) store.DeviceRecord {
	return store.DeviceRecord{
		ID:         uuid.NewString(),
		Serial:     serial,
		Name:       "Device-" + serial,
		Model:      store.DeviceModelTerminal,
		Status:     store.DeviceStatusActive,
		LastSeenAt: time.Now().UTC(),
	}
}

func TestDeviceStore_ProvisionAndFind(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDeviceStore(conn, w)
	ctx := context.Background()

	in := newDevice("SN1")
	out, err := ds.Provision(ctx, in)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if out.ID != in.ID {
		t.Errorf("expected id %s, got %s", in.ID, out.ID)
	}

	got, err := ds.FindBySerial(ctx, "SN1")
	if err != nil {
		t.Fatalf("FindBySerial: %v", err)
	}
	if got.Name != "Device-SN1" {
		t.Errorf("expected name Device-SN1, got %q", got.Name)
	}
	if got.Model != store.DeviceModelTerminal {
		t.Errorf("expected model %s, got %q", store.DeviceModelTerminal, got.Model)
	}
	if got.Status != store.DeviceStatusActive {
		t.Errorf("expected status active, got %q", got.Status)
	}
}

func TestDeviceStore_ProvisionIsIdempotentPerSerial(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDeviceStore(conn, w)
	ctx := context.Background()

	first, err := ds.Provision(ctx, newDevice("SN1"))
	if err != nil {
		t.Fatalf("first Provision: %v", err)
	}

	// Same serial, different generated id: the existing row must win.
	second, err := ds.Provision(ctx, newDevice("SN1"))
	if err != nil {
		t.Fatalf("second Provision: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected existing row id %s, got %s", first.ID, second.ID)
	}

	var count int
	if err := conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM devices WHERE serial = ?`, "SN1",
	).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 device row, got %d", count)
	}
}

func TestDeviceStore_TouchLastSeen(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDeviceStore(conn, w)
	ctx := context.Background()

	if _, err := ds.Provision(ctx, newDevice("SN1")); err != nil {
		t.Fatalf("Provision: %v", err)
	}

	seen := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	if err := ds.TouchLastSeen(ctx, "SN1", seen); err != nil {
		t.Fatalf("TouchLastSeen: %v", err)
	}

	got, err := ds.FindBySerial(ctx, "SN1")
	if err != nil {
		t.Fatalf("FindBySerial: %v", err)
	}
	if !got.LastSeenAt.Equal(seen) {
		t.Errorf("expected last_seen %v, got %v", seen, got.LastSeenAt)
	}
}

func TestDeviceStore_FindBySerial_NotFound(t *testing.T) {
	conn := openTestDB(t)
	w := newTestWriter(t, conn)
	ds := sqlitestore.NewDeviceStore(conn, w)

	_, err := ds.FindBySerial(context.Background(), "NO-SUCH-SERIAL")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
