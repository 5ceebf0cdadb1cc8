package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the process-level configuration, read once at startup from the
// environment and treated as immutable afterwards.
type Config struct {
	Server       Server
	Store        StoreConfig
	Redis        RedisConfig
	Archive      ArchiveConfig
	RemoteConfig RemoteConfig
	Processing   ProcessingConfig
	Framework    FrameworkConfig
	LogLevel     string
}

// Server captures the local status HTTP surface.
type Server struct {
	Addr string
}

// StoreConfig locates the device-local SQLite database and download cache.
type StoreConfig struct {
	Path     string
	CacheDir string
}

// RedisConfig enables the optional Redis preference backend. Empty URL disables it.
type RedisConfig struct {
	URL          string
	Device       string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ArchiveConfig addresses the diagnosis-key content delivery network.
type ArchiveConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
}

// RemoteConfig addresses the remote configuration document.
type RemoteConfig struct {
	URL             string
	RefreshInterval time.Duration
}

// ProcessingConfig tunes background diagnosis-key processing.
type ProcessingConfig struct {
	FetchInterval       time.Duration
	ScheduledDelay      time.Duration
	StatusDebounce      time.Duration
	DownloadConcurrency int
	TEKCleanupInterval  time.Duration
	ReminderInterval    time.Duration
}

// FrameworkConfig tunes the exposure framework registration machine.
type FrameworkConfig struct {
	PollInterval      time.Duration
	MinServiceVersion int
}

// Default returns the configuration used when no environment overrides are set.
func Default() Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".exposure")
	return Config{
		Server: Server{Addr: "127.0.0.1:8780"},
		Store: StoreConfig{
			Path:     filepath.Join(base, "exposure.db"),
			CacheDir: filepath.Join(base, "batches"),
		},
		Redis: RedisConfig{
			Device:       "local",
			PoolSize:     4,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Archive: ArchiveConfig{
			Timeout:        30 * time.Second,
			RequestsPerSec: 5,
			Burst:          5,
		},
		RemoteConfig: RemoteConfig{
			RefreshInterval: 6 * time.Hour,
		},
		Processing: ProcessingConfig{
			FetchInterval:       4 * time.Hour,
			ScheduledDelay:      5 * time.Minute,
			StatusDebounce:      50 * time.Millisecond,
			DownloadConcurrency: 4,
			TEKCleanupInterval:  24 * time.Hour,
			ReminderInterval:    24 * time.Hour,
		},
		Framework: FrameworkConfig{
			PollInterval:      30 * time.Second,
			MinServiceVersion: 201813000,
		},
		LogLevel: "info",
	}
}

// FromEnv builds a Config from EXPOSURE_* environment variables on top of Default.
// Unset variables keep their defaults; malformed values are reported as errors.
func FromEnv() (Config, error) {
	cfg := Default()
	var err error

	setString(&cfg.Server.Addr, "EXPOSURE_ADDR")
	setString(&cfg.Store.Path, "EXPOSURE_DB")
	setString(&cfg.Store.CacheDir, "EXPOSURE_CACHE_DIR")
	setString(&cfg.Redis.URL, "EXPOSURE_REDIS_URL")
	setString(&cfg.Redis.Device, "EXPOSURE_REDIS_DEVICE")
	setString(&cfg.Archive.BaseURL, "EXPOSURE_ARCHIVE_URL")
	setString(&cfg.RemoteConfig.URL, "EXPOSURE_CONFIG_URL")
	setString(&cfg.LogLevel, "EXPOSURE_LOG_LEVEL")

	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&cfg.Archive.Timeout, "EXPOSURE_ARCHIVE_TIMEOUT"},
		{&cfg.RemoteConfig.RefreshInterval, "EXPOSURE_CONFIG_REFRESH_INTERVAL"},
		{&cfg.Processing.FetchInterval, "EXPOSURE_FETCH_INTERVAL"},
		{&cfg.Processing.ScheduledDelay, "EXPOSURE_SCHEDULED_PROCESSING_DELAY"},
		{&cfg.Processing.StatusDebounce, "EXPOSURE_STATUS_DEBOUNCE"},
		{&cfg.Processing.TEKCleanupInterval, "EXPOSURE_TEK_CLEANUP_INTERVAL"},
		{&cfg.Processing.ReminderInterval, "EXPOSURE_REMINDER_INTERVAL"},
		{&cfg.Framework.PollInterval, "EXPOSURE_FRAMEWORK_POLL_INTERVAL"},
	}
	for _, d := range durations {
		if err = setDuration(d.dst, d.key); err != nil {
			return Config{}, err
		}
	}

	ints := []struct {
		dst *int
		key string
	}{
		{&cfg.Redis.PoolSize, "EXPOSURE_REDIS_POOL_SIZE"},
		{&cfg.Archive.Burst, "EXPOSURE_ARCHIVE_BURST"},
		{&cfg.Processing.DownloadConcurrency, "EXPOSURE_DOWNLOAD_CONCURRENCY"},
		{&cfg.Framework.MinServiceVersion, "EXPOSURE_MIN_SERVICE_VERSION"},
	}
	for _, i := range ints {
		if err = setInt(i.dst, i.key); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv("EXPOSURE_ARCHIVE_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("EXPOSURE_ARCHIVE_RPS: %w", err)
		}
		cfg.Archive.RequestsPerSec = rps
	}

	return cfg, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
