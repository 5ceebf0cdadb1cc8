package models

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"exposure/internal/framework"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorReason
	}{
		{"sign in", &framework.APIError{Code: framework.StatusSignInRequired}, ErrorSignInRequired},
		{"wrapped network", fmt.Errorf("start: %w", &framework.APIError{Code: framework.StatusNetworkError}), ErrorNetwork},
		{"api not connected", &framework.APIError{Code: framework.StatusAPINotConnected}, ErrorAPINotConnected},
		{"unmapped code", &framework.APIError{Code: framework.StatusCode(42)}, ErrorUnknown},
		{"plain error", errors.New("boom"), ErrorUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := Classify(tc.err)
			assert.Equal(t, tc.want, got)
		})
	}

	// every vocabulary code has its own reason
	seen := map[ErrorReason]bool{}
	for code := range reasonByCode {
		reason, apiErr := Classify(&framework.APIError{Code: code})
		assert.NotNil(t, apiErr)
		assert.NotEqual(t, ErrorUnknown, reason)
		assert.False(t, seen[reason], "duplicate reason %s", reason)
		seen[reason] = true
	}
}

func TestIsCancellation(t *testing.T) {
	assert.True(t, IsCancellation(context.Canceled))
	assert.True(t, IsCancellation(fmt.Errorf("start: %w", context.Canceled)))
	assert.False(t, IsCancellation(&framework.APIError{Code: framework.StatusCanceled}))
}

func TestServiceReason(t *testing.T) {
	assert.Equal(t, ReasonServiceMissing, ServiceReason(framework.ServiceMissing))
	assert.Equal(t, ReasonServiceUpdating, ServiceReason(framework.ServiceUpdating))
	assert.Equal(t, ReasonServiceUnavailable, ServiceReason(framework.ServiceStatus(77)))
}

func TestDescribe(t *testing.T) {
	d := Describe(CriticalFrameworkError{Register: true, Reason: ErrorTimeout})
	assert.Equal(t, "critical_framework_error", d["phase"])
	assert.Equal(t, "timeout", d["reason"])
	assert.Equal(t, true, d["register"])

	assert.True(t, UserVisible(BluetoothNotEnabled{}))
	assert.False(t, Refreshable(BluetoothNotEnabled{}))
	assert.False(t, UserVisible(FrameworkRunning{}))
}
