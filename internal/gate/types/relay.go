package types

import "time"

// RelayResponse is the wire shape returned to the reader hardware.
// Firmware does an exact string match on Response, so the populated
// values are dictated by the fleet's Dialect and must never be
// improvised per call site.
type RelayResponse struct {
	Response     string `json:"response"`
	Confirmation string `json:"confirmation,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
	ReadingID    string `json:"reading_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Dialect selects which historical response convention a hardware fleet
// expects. A deployment pins exactly one dialect for its fleet.
type Dialect string

const (
	// DialectRelay answers open_relay/close_relay.
	DialectRelay Dialect = "relay"

	// DialectLegacy answers grant/deny with relay_opened/relay_closed
	// confirmations.
	DialectLegacy Dialect = "legacy"
)

// ParseDialect maps a config string onto a Dialect, defaulting to
// DialectRelay for anything unrecognized.
func ParseDialect(s string) Dialect {
	if Dialect(s) == DialectLegacy {
		return DialectLegacy
	}
	return DialectRelay
}

// Admit builds the admit-shaped response for the dialect.
func (d Dialect) Admit(employeeName, readingID string, decidedAt time.Time) RelayResponse {
	resp := RelayResponse{
		Response:     "open_relay",
		Confirmation: "relay_opened",
		EmployeeName: employeeName,
		Timestamp:    decidedAt.UTC().Format(time.RFC3339),
		ReadingID:    readingID,
	}
	if d == DialectLegacy {
		resp.Response = "grant"
	}
	return resp
}

// Deny builds the deny-shaped response for the dialect. reason must
// already be sanitized for untrusted hardware; pass "" to omit it.
func (d Dialect) Deny(reason string) RelayResponse {
	resp := RelayResponse{
		Response: "close_relay",
		Error:    reason,
	}
	if d == DialectLegacy {
		resp.Response = "deny"
		resp.Confirmation = "relay_closed"
	}
	return resp
}
