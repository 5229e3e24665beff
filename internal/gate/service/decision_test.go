package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardgate/cardgate/internal/gate/service"
	"github.com/cardgate/cardgate/internal/gate/store"
)

func TestDecide(t *testing.T) {
	knownDev := service.DeviceResolution{Known: true, Device: store.DeviceRecord{ID: "dev-1"}}

	cases := []struct {
		name    string
		res     service.Resolution
		dev     service.DeviceResolution
		granted bool
		status  string
		reason  string
	}{
		{
			name:    "permitted",
			res:     service.Resolution{Outcome: service.ResolutionPermitted},
			dev:     knownDev,
			granted: true,
			status:  store.ReadingStatusSuccess,
		},
		{
			name:   "unresolved token",
			res:    service.Resolution{Outcome: service.ResolutionUnresolved},
			dev:    knownDev,
			status: store.ReadingStatusDenied,
			reason: service.ReasonTokenUnknown,
		},
		{
			name:   "forbidden",
			res:    service.Resolution{Outcome: service.ResolutionForbidden},
			dev:    knownDev,
			status: store.ReadingStatusDenied,
			reason: service.ReasonNoPermission,
		},
		{
			name:   "identity lookup error",
			res:    service.Resolution{Outcome: service.ResolutionError, Err: errors.New("down")},
			dev:    knownDev,
			status: store.ReadingStatusError,
			reason: service.ReasonLookupFailed,
		},
		{
			name:   "device lookup error fails closed even when permitted",
			res:    service.Resolution{Outcome: service.ResolutionPermitted},
			dev:    service.DeviceResolution{Err: errors.New("down")},
			status: store.ReadingStatusError,
			reason: service.ReasonLookupFailed,
		},
		{
			name:   "unknown device with provisioning off",
			res:    service.Resolution{Outcome: service.ResolutionPermitted},
			dev:    service.DeviceResolution{Known: false},
			status: store.ReadingStatusDenied,
			reason: service.ReasonUnknownDevice,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := service.Decide(tc.res, tc.dev)
			assert.Equal(t, tc.granted, v.Granted)
			assert.Equal(t, tc.status, v.Status)
			assert.Equal(t, tc.reason, v.Reason)
			if !tc.granted {
				assert.NotEmpty(t, v.Public, "deny verdicts carry a sanitized phrase")
			}
		})
	}
}
