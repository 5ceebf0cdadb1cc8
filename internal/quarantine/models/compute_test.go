package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"exposure/internal/configuration"
)

type ComputeSuite struct {
	suite.Suite
	cfg configuration.Configuration
	now time.Time
}

func TestComputeSuite(t *testing.T) {
	suite.Run(t, new(ComputeSuite))
}

func (s *ComputeSuite) SetupTest() {
	s.cfg = configuration.Default()
	s.now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
}

func (s *ComputeSuite) ago(d time.Duration) *time.Time {
	t := s.now.Add(-d)
	return &t
}

func (s *ComputeSuite) TestMedicalConfirmationTakesPrecedence() {
	inputs := []Inputs{
		{FirstMedicalConfirmation: s.ago(0)},
		{FirstMedicalConfirmation: s.ago(1000 * time.Hour), LastRedContact: s.ago(time.Hour)},
		{FirstMedicalConfirmation: s.ago(time.Hour), LastYellowContact: s.ago(time.Hour), LastSelfDiagnose: s.ago(time.Hour), LastSelfMonitoring: s.ago(time.Hour)},
	}
	for _, in := range inputs {
		s.Equal(JailedForever{}, Compute(s.cfg, in, s.now))
	}
}

func (s *ComputeSuite) TestLimitedEndIsLatestExpiry() {
	s.Run("all three contribute", func() {
		status := Compute(s.cfg, Inputs{
			LastRedContact:    s.ago(10 * time.Hour),
			LastYellowContact: s.ago(time.Hour),
			LastSelfDiagnose:  s.ago(2 * time.Hour),
		}, s.now)

		limited, ok := status.(JailedLimited)
		s.Require().True(ok)
		s.Equal(s.now.Add(336*time.Hour-10*time.Hour), limited.End)
		s.Equal(s.now.Add(168*time.Hour-time.Hour), *limited.ByYellowWarning)
		s.Equal(s.now.Add(168*time.Hour-2*time.Hour), *limited.BySelfYellowDiagnosis)
	})

	s.Run("null source never contributes", func() {
		status := Compute(s.cfg, Inputs{LastYellowContact: s.ago(time.Hour)}, s.now)
		limited, ok := status.(JailedLimited)
		s.Require().True(ok)
		s.Nil(limited.ByRedWarning)
		s.Nil(limited.BySelfYellowDiagnosis)
		s.Equal(*limited.ByYellowWarning, limited.End)
	})

	s.Run("expired candidate is dropped", func() {
		status := Compute(s.cfg, Inputs{
			LastRedContact:    s.ago(400 * time.Hour),
			LastYellowContact: s.ago(time.Hour),
		}, s.now)
		limited, ok := status.(JailedLimited)
		s.Require().True(ok)
		s.Nil(limited.ByRedWarning)
	})
}

func (s *ComputeSuite) TestFreeAfterExpiry() {
	status := Compute(s.cfg, Inputs{LastYellowContact: s.ago(168*time.Hour + time.Hour)}, s.now)
	s.Equal(Free{}, status)

	status = Compute(s.cfg, Inputs{LastSelfMonitoring: s.ago(time.Hour)}, s.now)
	s.Equal(Free{SelfMonitoring: true}, status)
}

func (s *ComputeSuite) TestExpiryExactlyNowIsFree() {
	status := Compute(s.cfg, Inputs{LastYellowContact: s.ago(168 * time.Hour)}, s.now)
	s.Equal(Free{}, status)
}

func (s *ComputeSuite) TestConfigurationChangesDurations() {
	cfg := configuration.Configuration{YellowWarningQuarantineHours: 2}.WithDefaults()
	s.Equal(Free{}, Compute(cfg, Inputs{LastYellowContact: s.ago(3 * time.Hour)}, s.now))
}

func (s *ComputeSuite) TestNextUpdateIsEarliestExpiry() {
	status := Compute(s.cfg, Inputs{
		LastRedContact:    s.ago(time.Hour),
		LastYellowContact: s.ago(100 * time.Hour),
	}, s.now)
	next := NextUpdate(status)
	s.Require().NotNil(next)
	s.Equal(s.now.Add(68*time.Hour), *next)

	s.Nil(NextUpdate(Free{}))
	s.Nil(NextUpdate(JailedForever{}))
}

func (s *ComputeSuite) TestWarningTypeOf() {
	s.Equal(WarningGreen, WarningTypeOf(JailedForever{}))
	s.Equal(WarningGreen, WarningTypeOf(Free{SelfMonitoring: true}))

	red := Compute(s.cfg, Inputs{LastRedContact: s.ago(time.Hour), LastYellowContact: s.ago(time.Hour)}, s.now)
	s.Equal(WarningRed, WarningTypeOf(red))

	yellow := Compute(s.cfg, Inputs{LastYellowContact: s.ago(time.Hour)}, s.now)
	s.Equal(WarningYellow, WarningTypeOf(yellow))

	selfOnly := Compute(s.cfg, Inputs{LastSelfDiagnose: s.ago(time.Hour)}, s.now)
	s.Equal(WarningGreen, WarningTypeOf(selfOnly))

	// red contact 300h ago ends before a fresh yellow contact does
	yellowDominant := Compute(s.cfg, Inputs{LastRedContact: s.ago(300 * time.Hour), LastYellowContact: s.ago(time.Hour)}, s.now)
	s.Equal(WarningYellow, WarningTypeOf(yellowDominant))
}

func (s *ComputeSuite) TestEqual() {
	a := Compute(s.cfg, Inputs{LastYellowContact: s.ago(time.Hour)}, s.now)
	b := Compute(s.cfg, Inputs{LastYellowContact: s.ago(time.Hour)}, s.now)
	s.True(Equal(a, b))
	s.False(Equal(a, Free{}))
	s.True(Equal(Free{SelfMonitoring: true}, Free{SelfMonitoring: true}))
	s.False(Equal(nil, Free{}))
	s.True(Equal(nil, nil))
}

func (s *ComputeSuite) TestSameUTCDay() {
	a := time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC)
	s.True(SameUTCDay(a, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)))
	s.False(SameUTCDay(a, a.Add(time.Hour)))
	// 01:00 CEST on the 11th is still the 10th in UTC
	s.True(SameUTCDay(a, time.Date(2024, 5, 11, 1, 0, 0, 0, time.FixedZone("CEST", 2*3600))))
}
