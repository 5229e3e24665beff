package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cardgate/cardgate/internal/gate/store"
)

// DeviceResolution is the registry's answer for an inbound serial.
// Known is false only when auto-provisioning is disabled and the serial
// has never been registered.
type DeviceResolution struct {
	Known       bool
	Provisioned bool // true when this request created the row
	Device      store.DeviceRecord
	Err         error
}

// RegistryConfig holds the parameters for NewDeviceRegistry.
type RegistryConfig struct {
	// AutoProvision enables upsert-on-first-sight: an unrecognized
	// serial gets a device row instead of a deny. Zero-touch hardware
	// onboarding, at the cost of spoofed serials creating rows.
	AutoProvision bool

	// LookupTimeout bounds each store call. Defaults to 3s — reader
	// hardware does not wait long.
	LookupTimeout time.Duration
}

// DeviceRegistry resolves inbound device serials, lazily provisioning
// rows for serials never seen before.
type DeviceRegistry struct {
	devices  store.DeviceStore
	liveness store.LivenessStore
	cfg      RegistryConfig
	logger   *zap.Logger
}

func NewDeviceRegistry(devices store.DeviceStore, liveness store.LivenessStore, cfg RegistryConfig, logger *zap.Logger) *DeviceRegistry {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 3 * time.Second
	}
	return &DeviceRegistry{devices: devices, liveness: liveness, cfg: cfg, logger: logger}
}

// Resolve finds or provisions the device for serial and kicks off the
// liveness refresh. The refresh is fire-and-forget: its failure is
// logged but never delays or alters the access decision.
func (r *DeviceRegistry) Resolve(ctx context.Context, serial, remoteIP string) DeviceResolution {
	now := time.Now().UTC()

	lookupCtx, cancel := context.WithTimeout(ctx, r.cfg.LookupTimeout)
	defer cancel()

	dev, err := r.devices.FindBySerial(lookupCtx, serial)
	if err == nil {
		r.noteSeen(ctx, serial, remoteIP, now)
		return DeviceResolution{Known: true, Device: dev}
	}
	if !errors.Is(err, store.ErrNotFound) {
		return DeviceResolution{Err: err}
	}

	if !r.cfg.AutoProvision {
		return DeviceResolution{Known: false}
	}

	// First sight: provision. The store's conflict handling collapses
	// concurrent first-sights for the same serial into one row.
	provCtx, cancel := context.WithTimeout(ctx, r.cfg.LookupTimeout)
	defer cancel()

	dev, err = r.devices.Provision(provCtx, store.DeviceRecord{
		ID:         uuid.NewString(),
		Serial:     serial,
		Name:       "Device-" + serial,
		Model:      store.DeviceModelTerminal,
		Status:     store.DeviceStatusActive,
		LastSeenAt: now,
	})
	if err != nil {
		return DeviceResolution{Err: err}
	}

	r.logger.Info("auto-provisioned device",
		zap.String("serial", serial),
		zap.String("device_id", dev.ID))
	r.noteSeen(ctx, serial, remoteIP, now)

	return DeviceResolution{Known: true, Provisioned: true, Device: dev}
}

// noteSeen refreshes last_seen and appends a liveness ping in the
// background. Non-critical telemetry: the request does not wait on it
// and keeps its verdict if it fails.
func (r *DeviceRegistry) noteSeen(ctx context.Context, serial, remoteIP string, t time.Time) {
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.LookupTimeout)
	go func() {
		defer cancel()
		if err := r.devices.TouchLastSeen(bg, serial, t); err != nil {
			r.logger.Warn("liveness touch failed", zap.String("serial", serial), zap.Error(err))
		}
		if err := r.liveness.RecordPing(bg, store.LivenessPing{
			DeviceSerial: serial,
			ReceivedAt:   t,
			RemoteIP:     remoteIP,
		}); err != nil {
			r.logger.Warn("liveness ping failed", zap.String("serial", serial), zap.Error(err))
		}
	}()
}
