// Package framework describes the platform capabilities the core coordinates:
// the exposure notification framework, the platform service that hosts it, and
// the Bluetooth adapter.
package framework

import (
	"context"
	"fmt"
	"time"
)

// StatusCode is an exposure framework API status code.
type StatusCode int

const (
	StatusSignInRequired     StatusCode = 4
	StatusInvalidAccount     StatusCode = 5
	StatusResolutionRequired StatusCode = 6
	StatusNetworkError       StatusCode = 7
	StatusInternalError      StatusCode = 8
	StatusDeveloperError     StatusCode = 10
	StatusError              StatusCode = 13
	StatusInterrupted        StatusCode = 14
	StatusTimeout            StatusCode = 15
	StatusCanceled           StatusCode = 16
	StatusAPINotConnected    StatusCode = 17
)

func (c StatusCode) String() string {
	switch c {
	case StatusSignInRequired:
		return "SIGN_IN_REQUIRED"
	case StatusInvalidAccount:
		return "INVALID_ACCOUNT"
	case StatusResolutionRequired:
		return "RESOLUTION_REQUIRED"
	case StatusNetworkError:
		return "NETWORK_ERROR"
	case StatusInternalError:
		return "INTERNAL_ERROR"
	case StatusDeveloperError:
		return "DEVELOPER_ERROR"
	case StatusError:
		return "ERROR"
	case StatusInterrupted:
		return "INTERRUPTED"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusCanceled:
		return "CANCELED"
	case StatusAPINotConnected:
		return "API_NOT_CONNECTED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(c))
	}
}

// APIError is a failed framework call. Resolution is set for StatusResolutionRequired
// and identifies the user-facing flow that can fix it.
type APIError struct {
	Code       StatusCode
	Resolution string
}

func (e *APIError) Error() string {
	return "exposure framework: " + e.Code.String()
}

// ServiceStatus is the availability of the platform service hosting the framework.
type ServiceStatus int

const (
	ServiceSuccess               ServiceStatus = 0
	ServiceMissing               ServiceStatus = 1
	ServiceVersionUpdateRequired ServiceStatus = 2
	ServiceDisabled              ServiceStatus = 3
	ServiceInvalid               ServiceStatus = 9
	ServiceUpdating              ServiceStatus = 18
)

// ExposureSummary aggregates the matches for one submission token.
type ExposureSummary struct {
	SummationRiskScore    int
	MaximumRiskScore      int
	MatchedKeyCount       int
	DaysSinceLastExposure int
}

// ExposureInformation is a single matched exposure.
type ExposureInformation struct {
	Day                   time.Time
	RiskScore             int
	TransmissionRiskLevel int
}

// Client is the exposure notification framework.
type Client interface {
	IsEnabled(ctx context.Context) (bool, error)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	// SubmitBatch hands downloaded archive files to the matcher. finished reports
	// whether matching completed before the call returned.
	SubmitBatch(ctx context.Context, files []string, token string) (finished bool, err error)
	ExposureSummary(ctx context.Context, token string) (ExposureSummary, error)
	ExposureInformation(ctx context.Context, token string) ([]ExposureInformation, error)
	RemoveBatchParts(ctx context.Context, files []string) error
	SystemSettingsURL() string
}

// StateWatcher is implemented by clients that can push registration state changes
// instead of only being polled.
type StateWatcher interface {
	WatchState() (<-chan struct{}, func())
}

// ServiceAvailability reports on the platform service hosting the framework.
type ServiceAvailability interface {
	ServiceStatus(ctx context.Context) ServiceStatus
	ServiceVersion(ctx context.Context) int
}

// Bluetooth is the local Bluetooth adapter.
type Bluetooth interface {
	Supported() bool
	Enabled() bool
	Watch() (<-chan struct{}, func())
}
