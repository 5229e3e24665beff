package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cardgate/cardgate/internal/gate/store"
	"github.com/cardgate/cardgate/internal/gate/wire"
)

// ScanResult carries everything the response encoder needs.
type ScanResult struct {
	Verdict      Verdict
	ReadingID    string
	EmployeeName string
	DecidedAt    time.Time
}

// ScanService runs one decoded scan through the full pipeline:
// resolve identity, resolve device, decide, journal.
type ScanService struct {
	resolver *Resolver
	registry *DeviceRegistry
	readings store.ReadingStore
	logger   *zap.Logger
}

func NewScanService(resolver *Resolver, registry *DeviceRegistry, readings store.ReadingStore, logger *zap.Logger) *ScanService {
	return &ScanService{
		resolver: resolver,
		registry: registry,
		readings: readings,
		logger:   logger,
	}
}

// Process evaluates one scan. It always returns a usable ScanResult:
// lookup failures become deny verdicts, never errors, because hardware
// must receive a well-formed relay answer no matter what broke.
//
// Exactly one reading is journaled per call, whatever the outcome. The
// journal write happens after the verdict and is best-effort — a broken
// audit pipe must never lock people out of (or into) a building.
func (s *ScanService) Process(ctx context.Context, scan wire.Scan, remoteIP string) ScanResult {
	res := s.resolver.Resolve(ctx, scan.CardToken)
	if res.Outcome == ResolutionError {
		s.logger.Error("identity lookup failed",
			zap.String("device_serial", scan.DeviceSerial),
			zap.Error(res.Err))
	}

	dev := s.registry.Resolve(ctx, scan.DeviceSerial, remoteIP)
	if dev.Err != nil {
		s.logger.Error("device lookup failed",
			zap.String("device_serial", scan.DeviceSerial),
			zap.Error(dev.Err))
	}

	verdict := Decide(res, dev)
	now := time.Now().UTC()

	result := ScanResult{
		Verdict:   verdict,
		ReadingID: uuid.NewString(),
		DecidedAt: now,
	}
	if res.Outcome == ResolutionPermitted || res.Outcome == ResolutionForbidden {
		result.EmployeeName = res.Employee.DisplayName()
	}

	s.journal(ctx, scan, res, dev, result)
	return result
}

// journal appends the reading. Failures are logged, never propagated:
// the relay answer was already decided.
func (s *ScanService) journal(ctx context.Context, scan wire.Scan, res Resolution, dev DeviceResolution, result ScanResult) {
	rec := store.ReadingRecord{
		ID:           result.ReadingID,
		CardToken:    scan.CardToken,
		DeviceSerial: scan.DeviceSerial,
		Status:       result.Verdict.Status,
		Granted:      result.Verdict.Granted,
		DenyReason:   result.Verdict.Reason,
		CreatedAt:    result.DecidedAt,
	}

	// Denormalized snapshots: the reading must stay interpretable after
	// the employee or device rows change.
	if res.Outcome == ResolutionPermitted || res.Outcome == ResolutionForbidden {
		id := res.Employee.ID
		rec.EmployeeID = &id
		rec.EmployeeName = res.Employee.DisplayName()
		rec.EmployeePhoto = res.Employee.PhotoURL
	}
	if dev.Known {
		id := dev.Device.ID
		rec.DeviceID = &id
		rec.DeviceName = dev.Device.Name
	}

	if err := s.readings.Append(ctx, rec); err != nil {
		s.logger.Error("journal write failed",
			zap.String("reading_id", rec.ID),
			zap.String("device_serial", rec.DeviceSerial),
			zap.Bool("granted", rec.Granted),
			zap.Error(err))
	}
}
