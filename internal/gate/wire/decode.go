// Package wire decodes the inbound card-reader payload.
//
// The reader fleet has gone through several firmware generations and each
// one names its fields differently. The decoder accepts the union of the
// observed shapes and normalizes them to a (card token, device serial)
// pair; everything downstream works with the normalized form only.
package wire

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidPayload means the body was not a JSON object at all.
var ErrInvalidPayload = errors.New("invalid payload")

// MissingFieldError means the JSON parsed but no non-empty token or
// serial could be derived. Field names which of the two is absent, in
// the oldest firmware's vocabulary since that is what installers grep
// their reader logs for.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing field: " + e.Field
}

// swipePrefix marks a card-swipe token as opposed to a keypad entry.
// Older firmware prepends it inside the packed field.
const swipePrefix = "%T"

// Scan is the normalized inbound event.
type Scan struct {
	CardToken    string
	DeviceSerial string
}

// Decode extracts a Scan from a raw JSON body.
//
// Shapes are tried in precedence order, first match wins:
//
//  1. a packed "user_id,serial" (or "user_id_serial") field whose string
//     value is "token,serial", optionally with the %T swipe prefix
//  2. separate "user_id" + "serial" fields
//  3. separate "card_no" + "device_id" fields
//  4. whichever of user_id/card_no and serial/device_id is present
//
// Decode has no side effects and touches no store.
func Decode(body []byte) (Scan, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return Scan{}, ErrInvalidPayload
	}

	// Shape 1: packed token,serial in a single field.
	for _, key := range []string{"user_id,serial", "user_id_serial"} {
		if scan, ok := splitPacked(stringField(fields, key)); ok {
			return scan, nil
		}
	}

	// Shapes 2-4. The pairwise shapes collapse into the fallback: take
	// the first non-empty candidate on each side, in the same order the
	// dedicated shapes would have checked them.
	token := firstNonEmpty(stringField(fields, "user_id"), stringField(fields, "card_no"))
	serial := firstNonEmpty(stringField(fields, "serial"), stringField(fields, "device_id"))

	if token == "" {
		return Scan{}, &MissingFieldError{Field: "user_id"}
	}
	if serial == "" {
		return Scan{}, &MissingFieldError{Field: "serial"}
	}
	return Scan{CardToken: token, DeviceSerial: serial}, nil
}

// splitPacked parses the legacy "token,serial" packed value. A value
// without a comma does not match this shape and falls through to the
// field-per-value shapes.
func splitPacked(v string) (Scan, bool) {
	v = strings.TrimSpace(v)
	if v == "" || !strings.Contains(v, ",") {
		return Scan{}, false
	}

	left, right, _ := strings.Cut(v, ",")
	token := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(left), swipePrefix))
	serial := strings.TrimSpace(right)
	if token == "" || serial == "" {
		return Scan{}, false
	}
	return Scan{CardToken: token, DeviceSerial: serial}, true
}

func stringField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
