package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"exposure/internal/diagnosiskeys/models"
	"exposure/internal/platform/sqlite"
	quarantine "exposure/internal/quarantine/models"
	"exposure/pkg/platform/sentinel"
)

type sessionStore interface {
	InsertSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	UpdateSession(ctx context.Context, oldToken string, session *models.Session) error
	DeleteSession(ctx context.Context, token string) error
	ListSessions(ctx context.Context) ([]*models.Session, error)
	InsertScheduledSession(ctx context.Context, token string, at time.Time) error
	ScheduledSessionExists(ctx context.Context, token string) (bool, error)
	DeleteScheduledSession(ctx context.Context, token string) (int64, error)
}

// StoreSuite runs the same contract against every store implementation.
type StoreSuite struct {
	suite.Suite
	newStore func() sessionStore
	store    sessionStore
	ctx      context.Context
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func() sessionStore { return NewInMemory() }})
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func() sessionStore {
		db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "sessions.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return NewSQLite(db)
	}})
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *StoreSuite) session(token string) *models.Session {
	return &models.Session{
		Token:           token,
		WarningType:     quarantine.WarningYellow,
		ProcessingPhase: models.PhaseFullBatch,
		CreatedAt:       time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		FullBatchParts: []models.BatchPart{
			{BatchNumber: 0, IntervalStart: 100, FileName: "/cache/full-a.zip"},
			{BatchNumber: 0, IntervalStart: 100, FileName: "/cache/full-b.zip"},
		},
		DailyBatchesParts: []models.BatchPart{
			{BatchNumber: 0, IntervalStart: 200, FileName: "/cache/daily-1.zip"},
			{BatchNumber: 1, IntervalStart: 344, FileName: "/cache/daily-2.zip"},
		},
	}
}

func (s *StoreSuite) TestInsertAndGet() {
	s.Require().NoError(s.store.InsertSession(s.ctx, s.session("t1")))

	got, err := s.store.GetSession(s.ctx, "t1")
	s.Require().NoError(err)
	s.Equal(quarantine.WarningYellow, got.WarningType)
	s.Equal(models.PhaseFullBatch, got.ProcessingPhase)
	s.Nil(got.FirstYellowDay)
	s.Equal(s.session("t1").FullBatchParts, got.FullBatchParts)
	s.Equal(s.session("t1").DailyBatchesParts, got.DailyBatchesParts)
	s.True(s.session("t1").CreatedAt.Equal(got.CreatedAt))

	s.ErrorIs(s.store.InsertSession(s.ctx, s.session("t1")), sentinel.ErrConflict)

	_, err = s.store.GetSession(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreSuite) TestUpdateMovesToNewToken() {
	s.Require().NoError(s.store.InsertSession(s.ctx, s.session("t1")))

	updated := s.session("t2")
	updated.ProcessingPhase = models.PhaseDailyBatch
	yellow := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	updated.FirstYellowDay = &yellow
	updated.MarkDailyProcessed(0)
	s.Require().NoError(s.store.UpdateSession(s.ctx, "t1", updated))

	_, err := s.store.GetSession(s.ctx, "t1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	got, err := s.store.GetSession(s.ctx, "t2")
	s.Require().NoError(err)
	s.Equal(models.PhaseDailyBatch, got.ProcessingPhase)
	s.Require().NotNil(got.FirstYellowDay)
	s.True(yellow.Equal(*got.FirstYellowDay))
	s.True(got.DailyBatchesParts[0].Processed)
	s.False(got.DailyBatchesParts[1].Processed)

	s.ErrorIs(s.store.UpdateSession(s.ctx, "t1", updated), sentinel.ErrNotFound)
}

func (s *StoreSuite) TestDeleteSession() {
	s.Require().NoError(s.store.InsertSession(s.ctx, s.session("t1")))
	s.Require().NoError(s.store.DeleteSession(s.ctx, "t1"))
	s.Require().NoError(s.store.DeleteSession(s.ctx, "t1"))

	sessions, err := s.store.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Empty(sessions)
}

func (s *StoreSuite) TestScheduledSessionClaim() {
	at := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.InsertScheduledSession(s.ctx, "t1", at))
	s.Require().NoError(s.store.InsertScheduledSession(s.ctx, "t1", at))

	exists, err := s.store.ScheduledSessionExists(s.ctx, "t1")
	s.Require().NoError(err)
	s.True(exists)

	n, err := s.store.DeleteScheduledSession(s.ctx, "t1")
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	n, err = s.store.DeleteScheduledSession(s.ctx, "t1")
	s.Require().NoError(err)
	s.Zero(n)
}
