package models

import (
	"sort"
	"time"

	"exposure/internal/framework"
)

// Transmission risk levels that classify an exposure as coming from a red
// (medically confirmed) or yellow (suspected) warning.
const (
	TransmissionRiskRed    = 2
	TransmissionRiskYellow = 1
)

// WarningDays is the outcome of evaluating a set of exposures.
type WarningDays struct {
	FirstRedDay    *time.Time
	FirstYellowDay *time.Time
}

// ExtractWarningDays groups exposures by UTC day and classifies each day:
// below threshold is ignored, red-only score at or above threshold is red,
// anything else over threshold is yellow. The earliest day of each colour wins.
func ExtractWarningDays(infos []framework.ExposureInformation, threshold int) WarningDays {
	type dayScore struct {
		total int
		red   int
	}
	days := make(map[time.Time]*dayScore)
	for _, info := range infos {
		day := utcDay(info.Day)
		ds, ok := days[day]
		if !ok {
			ds = &dayScore{}
			days[day] = ds
		}
		ds.total += info.RiskScore
		if info.TransmissionRiskLevel >= TransmissionRiskRed {
			ds.red += info.RiskScore
		}
	}

	ordered := make([]time.Time, 0, len(days))
	for day := range days {
		ordered = append(ordered, day)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	var out WarningDays
	for _, day := range ordered {
		ds := days[day]
		if ds.total < threshold {
			continue
		}
		d := day
		if ds.red >= threshold {
			if out.FirstRedDay == nil {
				out.FirstRedDay = &d
			}
		} else if out.FirstYellowDay == nil {
			out.FirstYellowDay = &d
		}
	}
	return out
}

func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
