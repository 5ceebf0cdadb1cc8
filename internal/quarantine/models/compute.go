package models

import (
	"time"

	"exposure/internal/configuration"
)

// Inputs are the persisted source timestamps the status is derived from.
type Inputs struct {
	FirstMedicalConfirmation *time.Time
	LastSelfDiagnose         *time.Time
	LastRedContact           *time.Time
	LastYellowContact        *time.Time
	LastSelfMonitoring       *time.Time
}

// Compute folds the inputs into a status as of now. It never fails; configuration
// values that are missing fall back to their defaults.
func Compute(cfg configuration.Configuration, in Inputs, now time.Time) Status {
	if in.FirstMedicalConfirmation != nil {
		return JailedForever{}
	}

	byRed := expiry(in.LastRedContact, cfg.RedWarningQuarantine(), now)
	byYellow := expiry(in.LastYellowContact, cfg.YellowWarningQuarantine(), now)
	bySelf := expiry(in.LastSelfDiagnose, cfg.SelfDiagnosedQuarantine(), now)
	selfMonitoring := in.LastSelfMonitoring != nil

	end := latest(byRed, byYellow, bySelf)
	if end == nil {
		return Free{SelfMonitoring: selfMonitoring}
	}
	return JailedLimited{
		End:                   *end,
		BySelfYellowDiagnosis: bySelf,
		ByRedWarning:          byRed,
		ByYellowWarning:       byYellow,
		SelfMonitoring:        selfMonitoring,
	}
}

// NextUpdate returns the earliest instant at which s could change on its own,
// or nil when nothing in s expires.
func NextUpdate(s Status) *time.Time {
	limited, ok := s.(JailedLimited)
	if !ok {
		return nil
	}
	return earliest(limited.ByRedWarning, limited.ByYellowWarning, limited.BySelfYellowDiagnosis)
}

func expiry(source *time.Time, d time.Duration, now time.Time) *time.Time {
	if source == nil {
		return nil
	}
	end := source.Add(d).UTC()
	if !end.After(now) {
		return nil
	}
	return &end
}

func latest(ts ...*time.Time) *time.Time {
	var out *time.Time
	for _, t := range ts {
		if t != nil && (out == nil || t.After(*out)) {
			out = t
		}
	}
	return out
}

func earliest(ts ...*time.Time) *time.Time {
	var out *time.Time
	for _, t := range ts {
		if t != nil && (out == nil || t.Before(*out)) {
			out = t
		}
	}
	return out
}
