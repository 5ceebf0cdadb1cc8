package prefs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"exposure/internal/platform/sqlite"
)

// PreferencesSuite runs the same behaviour checks against every backend.
type PreferencesSuite struct {
	suite.Suite
	newPrefs func() *Preferences
	prefs    *Preferences
}

func TestMemoryPreferences(t *testing.T) {
	suite.Run(t, &PreferencesSuite{newPrefs: NewMemory})
}

func TestSQLitePreferences(t *testing.T) {
	suite.Run(t, &PreferencesSuite{newPrefs: func() *Preferences {
		db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "prefs.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return NewSQLite(db)
	}})
}

func (s *PreferencesSuite) SetupTest() {
	s.prefs = s.newPrefs()
}

func (s *PreferencesSuite) TestTime() {
	ctx := context.Background()

	s.Run("unset key reads as nil", func() {
		got, err := s.prefs.Time(ctx, KeyLastRedContact)
		s.NoError(err)
		s.Nil(got)
	})

	s.Run("set then read round trips in UTC", func() {
		local := time.Date(2024, 3, 2, 14, 30, 0, 123, time.FixedZone("CET", 3600))
		s.Require().NoError(s.prefs.SetTime(ctx, KeyLastRedContact, &local))

		got, err := s.prefs.Time(ctx, KeyLastRedContact)
		s.NoError(err)
		s.Require().NotNil(got)
		s.True(local.Equal(*got))
		s.Equal(time.UTC, got.Location())
	})

	s.Run("nil clears the key", func() {
		s.Require().NoError(s.prefs.SetTime(ctx, KeyLastRedContact, nil))
		got, err := s.prefs.Time(ctx, KeyLastRedContact)
		s.NoError(err)
		s.Nil(got)
	})
}

func (s *PreferencesSuite) TestBool() {
	ctx := context.Background()

	v, err := s.prefs.Bool(ctx, KeyExposureFrameworkWanted)
	s.NoError(err)
	s.False(v)

	s.Require().NoError(s.prefs.SetBool(ctx, KeyExposureFrameworkWanted, true))
	v, err = s.prefs.Bool(ctx, KeyExposureFrameworkWanted)
	s.NoError(err)
	s.True(v)
}

func (s *PreferencesSuite) TestWatch() {
	ctx := context.Background()

	s.Run("filtered watcher only sees its keys", func() {
		ch, cancel := s.prefs.Watch(KeyLastYellowContact)
		defer cancel()

		s.Require().NoError(s.prefs.SetBool(ctx, KeyShowQuarantineEnd, true))
		s.Len(ch, 0)

		now := time.Now()
		s.Require().NoError(s.prefs.SetTime(ctx, KeyLastYellowContact, &now))
		s.Len(ch, 1)
	})

	s.Run("writes coalesce into one pending signal", func() {
		ch, cancel := s.prefs.Watch()
		defer cancel()

		now := time.Now()
		s.Require().NoError(s.prefs.SetTime(ctx, KeyLastRedContact, &now))
		s.Require().NoError(s.prefs.SetTime(ctx, KeyLastSelfDiagnose, &now))
		s.Require().NoError(s.prefs.Clear(ctx, KeyLastRedContact))
		s.Len(ch, 1)
	})

	s.Run("cancelled watcher is not notified", func() {
		ch, cancel := s.prefs.Watch()
		cancel()

		s.Require().NoError(s.prefs.SetBool(ctx, KeyShowQuarantineEnd, false))
		s.Len(ch, 0)
	})
}
