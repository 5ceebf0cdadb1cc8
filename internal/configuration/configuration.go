// Package configuration supplies the remotely managed risk and quarantine
// parameters. The last good document is cached and served to readers; a failed
// refresh never disturbs them.
package configuration

import (
	"encoding/json"
	"time"
)

// Fallbacks applied when the remote document omits or zeroes a value.
const (
	DefaultRedWarningQuarantineHours    = 336
	DefaultYellowWarningQuarantineHours = 168
	DefaultSelfDiagnosedQuarantineHours = 168
	DefaultDailyRiskThreshold           = 900
	DefaultUploadKeysDays               = 14
)

// Configuration is the remote configuration document.
// Zero numeric fields mean "not provided" and read through their defaults.
type Configuration struct {
	RedWarningQuarantineHours    int  `json:"red_warning_quarantine"`
	YellowWarningQuarantineHours int  `json:"yellow_warning_quarantine"`
	SelfDiagnosedQuarantineHours int  `json:"self_diagnosed_quarantine"`
	DailyRiskThreshold           int  `json:"daily_risk_threshold"`
	UploadKeysDays               int  `json:"upload_keys_days"`
	ScheduledProcessingIn5Min    bool `json:"scheduled_processing_in_5_min"`
}

// Default returns a configuration with every fallback filled in.
func Default() Configuration {
	return Configuration{}.WithDefaults()
}

// WithDefaults fills zero or negative values with their fallbacks.
func (c Configuration) WithDefaults() Configuration {
	c.RedWarningQuarantineHours = orDefault(c.RedWarningQuarantineHours, DefaultRedWarningQuarantineHours)
	c.YellowWarningQuarantineHours = orDefault(c.YellowWarningQuarantineHours, DefaultYellowWarningQuarantineHours)
	c.SelfDiagnosedQuarantineHours = orDefault(c.SelfDiagnosedQuarantineHours, DefaultSelfDiagnosedQuarantineHours)
	c.DailyRiskThreshold = orDefault(c.DailyRiskThreshold, DefaultDailyRiskThreshold)
	c.UploadKeysDays = orDefault(c.UploadKeysDays, DefaultUploadKeysDays)
	return c
}

// RedWarningQuarantine is how long a red contact keeps the user in quarantine.
func (c Configuration) RedWarningQuarantine() time.Duration {
	return hours(orDefault(c.RedWarningQuarantineHours, DefaultRedWarningQuarantineHours))
}

// YellowWarningQuarantine is how long a yellow contact keeps the user in quarantine.
func (c Configuration) YellowWarningQuarantine() time.Duration {
	return hours(orDefault(c.YellowWarningQuarantineHours, DefaultYellowWarningQuarantineHours))
}

// SelfDiagnosedQuarantine is how long a positive self diagnosis keeps the user in quarantine.
func (c Configuration) SelfDiagnosedQuarantine() time.Duration {
	return hours(orDefault(c.SelfDiagnosedQuarantineHours, DefaultSelfDiagnosedQuarantineHours))
}

// RiskThreshold is the per-day summed risk score at which a day counts as a warning.
func (c Configuration) RiskThreshold() int {
	return orDefault(c.DailyRiskThreshold, DefaultDailyRiskThreshold)
}

// UploadKeysWindow is how far back keys are uploaded when reporting.
func (c Configuration) UploadKeysWindow() time.Duration {
	return 24 * time.Hour * time.Duration(orDefault(c.UploadKeysDays, DefaultUploadKeysDays))
}

// Decode parses a configuration document and applies defaults.
func Decode(raw []byte) (Configuration, error) {
	var c Configuration
	if err := json.Unmarshal(raw, &c); err != nil {
		return Configuration{}, err
	}
	return c.WithDefaults(), nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func hours(h int) time.Duration {
	return time.Duration(h) * time.Hour
}
