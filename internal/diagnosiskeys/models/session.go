// Package models holds the persisted diagnosis-key processing session.
package models

import (
	"sort"
	"time"

	quarantine "exposure/internal/quarantine/models"
)

// ProcessingPhase is the step a session is in.
type ProcessingPhase string

const (
	PhaseFullBatch  ProcessingPhase = "full_batch"
	PhaseDailyBatch ProcessingPhase = "daily_batch"
)

// BatchType distinguishes the two part collections of a session.
type BatchType string

const (
	BatchFull  BatchType = "full"
	BatchDaily BatchType = "daily"
)

// BatchPart is one downloaded archive file. Parts sharing a BatchNumber are
// submitted together.
type BatchPart struct {
	BatchNumber   int
	IntervalStart int64
	FileName      string
	Processed     bool
}

// Session correlates an asynchronous matching round with its inputs. It survives
// process restarts.
type Session struct {
	Token             string
	WarningType       quarantine.WarningType
	ProcessingPhase   ProcessingPhase
	FirstYellowDay    *time.Time
	FullBatchParts    []BatchPart
	DailyBatchesParts []BatchPart
	CreatedAt         time.Time
}

// ScheduledSession marks that a timeout continuation is pending for Token.
type ScheduledSession struct {
	Token     string
	CreatedAt time.Time
}

// RecordYellowDay stores day unless a yellow day was already recorded.
func (s *Session) RecordYellowDay(day *time.Time) {
	if s.FirstYellowDay != nil || day == nil {
		return
	}
	d := day.UTC()
	s.FirstYellowDay = &d
}

// HasUnprocessedDaily reports whether any daily part is still waiting.
func (s *Session) HasUnprocessedDaily() bool {
	for _, p := range s.DailyBatchesParts {
		if !p.Processed {
			return true
		}
	}
	return false
}

// NextDailyGroup returns the unprocessed daily parts with the lowest batch number.
func (s *Session) NextDailyGroup() (int, []BatchPart, bool) {
	next := -1
	for _, p := range s.DailyBatchesParts {
		if !p.Processed && (next < 0 || p.BatchNumber < next) {
			next = p.BatchNumber
		}
	}
	if next < 0 {
		return 0, nil, false
	}
	var group []BatchPart
	for _, p := range s.DailyBatchesParts {
		if p.BatchNumber == next && !p.Processed {
			group = append(group, p)
		}
	}
	return next, group, true
}

// MarkDailyProcessed flags every daily part of batchNumber as processed.
func (s *Session) MarkDailyProcessed(batchNumber int) {
	for i := range s.DailyBatchesParts {
		if s.DailyBatchesParts[i].BatchNumber == batchNumber {
			s.DailyBatchesParts[i].Processed = true
		}
	}
}

// AllFiles returns every file of the session, full batch first.
func (s *Session) AllFiles() []string {
	files := FileNames(s.FullBatchParts)
	return append(files, FileNames(s.DailyBatchesParts)...)
}

// FileNames lists the files of parts, ordered by batch number.
func FileNames(parts []BatchPart) []string {
	sorted := append([]BatchPart(nil), parts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].BatchNumber < sorted[j].BatchNumber })
	out := make([]string, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, p.FileName)
	}
	return out
}
