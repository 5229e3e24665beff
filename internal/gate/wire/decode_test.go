package wire_test

import (
	"errors"
	"testing"

	"github.com/cardgate/cardgate/internal/gate/wire"
)

func TestDecode_Shapes(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		token  string
		serial string
	}{
		{
			name:   "packed with swipe prefix",
			body:   `{"user_id,serial": "%TABC,SN1"}`,
			token:  "ABC",
			serial: "SN1",
		},
		{
			name:   "packed without prefix",
			body:   `{"user_id,serial": "ABC,SN1"}`,
			token:  "ABC",
			serial: "SN1",
		},
		{
			name:   "packed underscore variant",
			body:   `{"user_id_serial": "%T0042,GATE-7"}`,
			token:  "0042",
			serial: "GATE-7",
		},
		{
			name:   "separate user_id and serial",
			body:   `{"user_id": "X", "serial": "Y"}`,
			token:  "X",
			serial: "Y",
		},
		{
			name:   "card_no and device_id",
			body:   `{"card_no": "X", "device_id": "Y"}`,
			token:  "X",
			serial: "Y",
		},
		{
			name:   "mixed fallback",
			body:   `{"card_no": "X", "serial": "Y"}`,
			token:  "X",
			serial: "Y",
		},
		{
			name:   "packed wins over separate fields",
			body:   `{"user_id,serial": "%TAAA,BBB", "user_id": "X", "serial": "Y"}`,
			token:  "AAA",
			serial: "BBB",
		},
		{
			name:   "user_id wins over card_no",
			body:   `{"user_id": "A", "card_no": "B", "serial": "S"}`,
			token:  "A",
			serial: "S",
		},
		{
			name:   "packed without comma falls through",
			body:   `{"user_id_serial": "JUSTATOKEN", "user_id": "X", "serial": "Y"}`,
			token:  "X",
			serial: "Y",
		},
		{
			name:   "whitespace trimmed",
			body:   `{"user_id,serial": " %TABC , SN1 "}`,
			token:  "ABC",
			serial: "SN1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scan, err := wire.Decode([]byte(tc.body))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if scan.CardToken != tc.token {
				t.Errorf("token: expected %q, got %q", tc.token, scan.CardToken)
			}
			if scan.DeviceSerial != tc.serial {
				t.Errorf("serial: expected %q, got %q", tc.serial, scan.DeviceSerial)
			}
		})
	}
}

func TestDecode_MissingSerial(t *testing.T) {
	_, err := wire.Decode([]byte(`{"user_id": "X"}`))

	var missing *wire.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "serial" {
		t.Errorf("expected missing field serial, got %q", missing.Field)
	}
}

func TestDecode_EmptyObject_ReportsTokenFirst(t *testing.T) {
	_, err := wire.Decode([]byte(`{}`))

	var missing *wire.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "user_id" {
		t.Errorf("expected missing field user_id, got %q", missing.Field)
	}
}

func TestDecode_MissingToken(t *testing.T) {
	_, err := wire.Decode([]byte(`{"serial": "SN1"}`))

	var missing *wire.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "user_id" {
		t.Errorf("expected missing field user_id, got %q", missing.Field)
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	for _, body := range []string{`not json`, ``, `null`, `[1,2,3]`} {
		if _, err := wire.Decode([]byte(body)); !errors.Is(err, wire.ErrInvalidPayload) {
			t.Errorf("body %q: expected ErrInvalidPayload, got %v", body, err)
		}
	}
}

func TestDecode_NonStringFieldsIgnored(t *testing.T) {
	scan, err := wire.Decode([]byte(`{"user_id": 123, "card_no": "X", "serial": "Y"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if scan.CardToken != "X" {
		t.Errorf("expected token X, got %q", scan.CardToken)
	}
	if scan.DeviceSerial != "Y" {
		t.Errorf("expected serial Y, got %q", scan.DeviceSerial)
	}
}
