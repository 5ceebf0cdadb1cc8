package service

import (
	"context"
	"time"

	"exposure/internal/archive"
	"exposure/internal/configuration"
	"exposure/internal/diagnosiskeys/models"
	"exposure/internal/framework"
	quarantine "exposure/internal/quarantine/models"
	"exposure/internal/scheduler"
)

// SessionStore persists sessions and scheduled-session markers.
type SessionStore interface {
	InsertSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	UpdateSession(ctx context.Context, oldToken string, session *models.Session) error
	DeleteSession(ctx context.Context, token string) error
	ListSessions(ctx context.Context) ([]*models.Session, error)
	InsertScheduledSession(ctx context.Context, token string, at time.Time) error
	ScheduledSessionExists(ctx context.Context, token string) (bool, error)
	DeleteScheduledSession(ctx context.Context, token string) (int64, error)
}

// Archive fetches the published diagnosis-key archives.
type Archive interface {
	Index(ctx context.Context) (archive.Index, error)
	Download(ctx context.Context, remotePath string) (string, error)
	Remove(files []string) error
}

// Matcher is the part of the exposure framework that matches diagnosis keys.
type Matcher interface {
	SubmitBatch(ctx context.Context, files []string, token string) (bool, error)
	ExposureSummary(ctx context.Context, token string) (framework.ExposureSummary, error)
	ExposureInformation(ctx context.Context, token string) ([]framework.ExposureInformation, error)
	RemoveBatchParts(ctx context.Context, files []string) error
}

// Quarantine receives the warnings the pipeline derives.
type Quarantine interface {
	CurrentWarningType(ctx context.Context) (quarantine.WarningType, error)
	ReceivedWarning(ctx context.Context, warning quarantine.WarningType, at time.Time) error
	RevokeLastRedContact(ctx context.Context) error
	RevokeLastYellowContact(ctx context.Context) error
}

// ConfigProvider supplies the risk threshold and timeout behaviour.
type ConfigProvider interface {
	Current() configuration.Configuration
}

// Scheduler runs the timeout continuation of a submitted batch.
type Scheduler interface {
	ScheduleOnce(name string, delay time.Duration, job scheduler.Job)
	Cancel(name string) bool
}
