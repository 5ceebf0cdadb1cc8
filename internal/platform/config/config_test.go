package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Processing.ScheduledDelay)
	assert.Equal(t, 50*time.Millisecond, cfg.Processing.StatusDebounce)
	assert.Empty(t, cfg.Redis.URL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("EXPOSURE_DB", "/tmp/device.db")
	t.Setenv("EXPOSURE_FETCH_INTERVAL", "90m")
	t.Setenv("EXPOSURE_DOWNLOAD_CONCURRENCY", "2")
	t.Setenv("EXPOSURE_ARCHIVE_RPS", "0.5")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/device.db", cfg.Store.Path)
	assert.Equal(t, 90*time.Minute, cfg.Processing.FetchInterval)
	assert.Equal(t, 2, cfg.Processing.DownloadConcurrency)
	assert.InDelta(t, 0.5, cfg.Archive.RequestsPerSec, 0.0001)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("EXPOSURE_STATUS_DEBOUNCE", "soon")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "EXPOSURE_STATUS_DEBOUNCE")
	})

	t.Run("integer", func(t *testing.T) {
		t.Setenv("EXPOSURE_MIN_SERVICE_VERSION", "v2")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "EXPOSURE_MIN_SERVICE_VERSION")
	})
}
