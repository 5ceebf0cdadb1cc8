package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"exposure/internal/configuration"
	"exposure/internal/tek/models"
	"exposure/internal/tek/store"
)

type CleanerSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.InMemoryStore
	cleaner *Cleaner
	now     time.Time
}

func TestCleanerSuite(t *testing.T) {
	suite.Run(t, new(CleanerSuite))
}

func (s *CleanerSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.store = store.NewInMemory()
	c, err := New(s.store, configuration.NewProvider(nil), WithClock(func() time.Time { return s.now }))
	s.Require().NoError(err)
	s.cleaner = c
}

func (s *CleanerSuite) sentAgo(mt models.MessageType, ago time.Duration) {
	s.Require().NoError(s.cleaner.Record(s.ctx, mt, []models.SentKey{{
		RollingStartIntervalNumber: models.IntervalNumber(s.now.Add(-ago)),
		Password:                   "pw",
	}}))
}

func (s *CleanerSuite) TestRetention() {
	cfg := configuration.Default()
	s.Equal(28*24*time.Hour, Retention(cfg, models.MessageInfection))
	s.Equal(21*24*time.Hour, Retention(cfg, models.MessageSuspicion))
	s.Equal(24*time.Hour, Retention(cfg, models.MessageRevoke))

	cfg.SelfDiagnosedQuarantineHours = 240
	s.Equal(24*24*time.Hour, Retention(cfg, models.MessageSuspicion))
}

func (s *CleanerSuite) TestCleanupRemovesExpiredPerMessageType() {
	day := 24 * time.Hour
	s.sentAgo(models.MessageInfection, 27*day)
	s.sentAgo(models.MessageInfection, 29*day)
	s.sentAgo(models.MessageSuspicion, 20*day)
	s.sentAgo(models.MessageSuspicion, 22*day)
	s.sentAgo(models.MessageRevoke, 2*time.Hour)
	s.sentAgo(models.MessageRevoke, 25*time.Hour)

	n, err := s.cleaner.Cleanup(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	for _, mt := range []models.MessageType{models.MessageInfection, models.MessageSuspicion, models.MessageRevoke} {
		keys, err := s.cleaner.List(s.ctx, mt)
		s.Require().NoError(err)
		s.Len(keys, 1, string(mt))
	}
}

func (s *CleanerSuite) TestRecordStampsMessageTypeAndTime() {
	s.sentAgo(models.MessageSuspicion, time.Hour)

	keys, err := s.cleaner.List(s.ctx, models.MessageSuspicion)
	s.Require().NoError(err)
	s.Require().Len(keys, 1)
	s.Equal(models.MessageSuspicion, keys[0].MessageType)
	s.True(keys[0].CreatedAt.Equal(s.now))
}

func (s *CleanerSuite) TestParseMessageType() {
	mt, err := models.ParseMessageType("revoke")
	s.Require().NoError(err)
	s.Equal(models.MessageRevoke, mt)

	_, err = models.ParseMessageType("upgrade")
	s.Error(err)
}
