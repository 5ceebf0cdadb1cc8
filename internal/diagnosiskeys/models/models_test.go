package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure/internal/framework"
)

func day(d int, hour int) time.Time {
	return time.Date(2024, 5, d, hour, 0, 0, 0, time.UTC)
}

func TestExtractWarningDays(t *testing.T) {
	t.Run("days under threshold are ignored", func(t *testing.T) {
		got := ExtractWarningDays([]framework.ExposureInformation{
			{Day: day(1, 0), RiskScore: 400, TransmissionRiskLevel: TransmissionRiskRed},
			{Day: day(1, 5), RiskScore: 400, TransmissionRiskLevel: TransmissionRiskRed},
		}, 900)
		assert.Nil(t, got.FirstRedDay)
		assert.Nil(t, got.FirstYellowDay)
	})

	t.Run("scores are summed per UTC day", func(t *testing.T) {
		got := ExtractWarningDays([]framework.ExposureInformation{
			{Day: day(3, 1), RiskScore: 500, TransmissionRiskLevel: TransmissionRiskRed},
			{Day: day(3, 23), RiskScore: 500, TransmissionRiskLevel: TransmissionRiskRed},
		}, 900)
		require.NotNil(t, got.FirstRedDay)
		assert.Equal(t, day(3, 0), *got.FirstRedDay)
	})

	t.Run("mixed day without enough red score is yellow", func(t *testing.T) {
		got := ExtractWarningDays([]framework.ExposureInformation{
			{Day: day(4, 0), RiskScore: 600, TransmissionRiskLevel: TransmissionRiskRed},
			{Day: day(4, 0), RiskScore: 600, TransmissionRiskLevel: TransmissionRiskYellow},
		}, 900)
		assert.Nil(t, got.FirstRedDay)
		require.NotNil(t, got.FirstYellowDay)
		assert.Equal(t, day(4, 0), *got.FirstYellowDay)
	})

	t.Run("earliest day of each colour wins", func(t *testing.T) {
		got := ExtractWarningDays([]framework.ExposureInformation{
			{Day: day(9, 0), RiskScore: 1000, TransmissionRiskLevel: TransmissionRiskRed},
			{Day: day(7, 0), RiskScore: 1000, TransmissionRiskLevel: TransmissionRiskYellow},
			{Day: day(5, 0), RiskScore: 1000, TransmissionRiskLevel: TransmissionRiskRed},
			{Day: day(8, 0), RiskScore: 1000, TransmissionRiskLevel: TransmissionRiskYellow},
		}, 900)
		assert.Equal(t, day(5, 0), *got.FirstRedDay)
		assert.Equal(t, day(7, 0), *got.FirstYellowDay)
	})
}

func TestSessionDailyGroups(t *testing.T) {
	s := &Session{DailyBatchesParts: []BatchPart{
		{BatchNumber: 2, FileName: "c"},
		{BatchNumber: 1, FileName: "a"},
		{BatchNumber: 1, FileName: "b"},
	}}

	n, group, ok := s.NextDailyGroup()
	require.True(t, ok)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"a", "b"}, FileNames(group))

	s.MarkDailyProcessed(1)
	n, _, ok = s.NextDailyGroup()
	require.True(t, ok)
	assert.Equal(t, 2, n)

	s.MarkDailyProcessed(2)
	_, _, ok = s.NextDailyGroup()
	assert.False(t, ok)
	assert.False(t, s.HasUnprocessedDaily())
}

func TestRecordYellowDayIsSticky(t *testing.T) {
	s := &Session{}
	first := day(2, 10)
	s.RecordYellowDay(&first)
	s.RecordYellowDay(nil)
	later := day(6, 0)
	s.RecordYellowDay(&later)
	require.NotNil(t, s.FirstYellowDay)
	assert.Equal(t, first, *s.FirstYellowDay)
}
