package simulated

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure/internal/framework"
	"exposure/pkg/platform/sentinel"
)

var (
	_ framework.Client              = (*Device)(nil)
	_ framework.StateWatcher        = (*Device)(nil)
	_ framework.ServiceAvailability = (*Device)(nil)
	_ framework.Bluetooth           = (*Device)(nil)
)

func TestStartStop(t *testing.T) {
	ctx := context.Background()
	d := New()
	ch, cancel := d.WatchState()
	defer cancel()

	require.NoError(t, d.Start(ctx))
	enabled, _ := d.IsEnabled(ctx)
	assert.True(t, enabled)
	assert.Len(t, ch, 1)

	d.FailStop(&framework.APIError{Code: framework.StatusInternalError})
	assert.Error(t, d.Stop(ctx))
	enabled, _ = d.IsEnabled(ctx)
	assert.True(t, enabled)

	starts, stops := d.Calls()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
}

func TestSubmitBatchUsesMatcher(t *testing.T) {
	ctx := context.Background()
	d := New()
	d.SetMatcher(func(files []string) (framework.ExposureSummary, []framework.ExposureInformation) {
		return framework.ExposureSummary{MatchedKeyCount: len(files)}, nil
	})

	var hooked string
	d.OnSubmitted(func(token string) { hooked = token })

	finished, err := d.SubmitBatch(ctx, []string{"a", "b"}, "tok")
	require.NoError(t, err)
	assert.False(t, finished)
	assert.Equal(t, "tok", hooked)

	summary, err := d.ExposureSummary(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.MatchedKeyCount)

	_, err = d.ExposureSummary(ctx, "other")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestAPIErrorString(t *testing.T) {
	err := &framework.APIError{Code: framework.StatusCode(99)}
	assert.Equal(t, "exposure framework: UNKNOWN(99)", err.Error())
}
