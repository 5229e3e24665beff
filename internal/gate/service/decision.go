package service

import "github.com/cardgate/cardgate/internal/gate/store"

// Deny reasons recorded in the journal. These are diagnostics for
// operators; hardware only ever sees the sanitized Public phrase.
const (
	ReasonTokenUnknown  = "token not recognized"
	ReasonNoPermission  = "no access permission"
	ReasonLookupFailed  = "lookup failed"
	ReasonUnknownDevice = "unknown device"
)

// Verdict is the decision engine's output: the relay action plus enough
// context for the journal and the response encoder.
type Verdict struct {
	Granted bool
	Status  string // store.ReadingStatus*
	Reason  string // recorded in the reading; empty on success
	Public  string // sanitized phrase allowed into the response body
}

// Decide combines the identity and device resolutions into an
// admit/deny verdict. Pure function, no I/O, no state between calls.
//
// Admission requires a Permitted identity. Device resolution never
// blocks admission once a row exists (auto-provisioned or not); it only
// denies when provisioning is disabled and the serial is unregistered,
// or when either lookup failed — infrastructure faults fail closed.
func Decide(res Resolution, dev DeviceResolution) Verdict {
	if res.Outcome == ResolutionError || dev.Err != nil {
		return Verdict{
			Status: store.ReadingStatusError,
			Reason: ReasonLookupFailed,
			Public: "access denied",
		}
	}

	switch res.Outcome {
	case ResolutionUnresolved:
		return Verdict{
			Status: store.ReadingStatusDenied,
			Reason: ReasonTokenUnknown,
			Public: "card not recognized",
		}
	case ResolutionForbidden:
		return Verdict{
			Status: store.ReadingStatusDenied,
			Reason: ReasonNoPermission,
			Public: "access denied",
		}
	}

	if !dev.Known {
		return Verdict{
			Status: store.ReadingStatusDenied,
			Reason: ReasonUnknownDevice,
			Public: "access denied",
		}
	}

	return Verdict{Granted: true, Status: store.ReadingStatusSuccess}
}
