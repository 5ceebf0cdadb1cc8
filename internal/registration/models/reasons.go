package models

import (
	"context"
	"errors"

	"exposure/internal/framework"
)

// PrerequisitesReason explains a PrerequisitesError.
type PrerequisitesReason string

const (
	ReasonServiceMissing               PrerequisitesReason = "service_missing"
	ReasonServiceVersionUpdateRequired PrerequisitesReason = "service_version_update_required"
	ReasonServiceDisabled              PrerequisitesReason = "service_disabled"
	ReasonServiceInvalid               PrerequisitesReason = "service_invalid"
	ReasonServiceUpdating              PrerequisitesReason = "service_updating"
	ReasonServiceUnavailable           PrerequisitesReason = "service_unavailable"
	ReasonInvalidServiceVersion        PrerequisitesReason = "invalid_service_version"
	ReasonBluetoothNotSupported        PrerequisitesReason = "bluetooth_not_supported"
)

// ServiceReason maps an unavailable service status onto its reason.
func ServiceReason(status framework.ServiceStatus) PrerequisitesReason {
	switch status {
	case framework.ServiceMissing:
		return ReasonServiceMissing
	case framework.ServiceVersionUpdateRequired:
		return ReasonServiceVersionUpdateRequired
	case framework.ServiceDisabled:
		return ReasonServiceDisabled
	case framework.ServiceInvalid:
		return ReasonServiceInvalid
	case framework.ServiceUpdating:
		return ReasonServiceUpdating
	default:
		return ReasonServiceUnavailable
	}
}

// ErrorReason classifies a failed start or stop call.
type ErrorReason string

const (
	ErrorSignInRequired     ErrorReason = "sign_in_required"
	ErrorInvalidAccount     ErrorReason = "invalid_account"
	ErrorResolutionRequired ErrorReason = "resolution_required"
	ErrorNetwork            ErrorReason = "network_error"
	ErrorInternal           ErrorReason = "internal_error"
	ErrorDeveloper          ErrorReason = "developer_error"
	ErrorGeneric            ErrorReason = "error"
	ErrorInterrupted        ErrorReason = "interrupted"
	ErrorTimeout            ErrorReason = "timeout"
	ErrorCanceled           ErrorReason = "canceled"
	ErrorAPINotConnected    ErrorReason = "api_not_connected"
	ErrorUnknown            ErrorReason = "unknown"
)

var reasonByCode = map[framework.StatusCode]ErrorReason{
	framework.StatusSignInRequired:     ErrorSignInRequired,
	framework.StatusInvalidAccount:     ErrorInvalidAccount,
	framework.StatusResolutionRequired: ErrorResolutionRequired,
	framework.StatusNetworkError:       ErrorNetwork,
	framework.StatusInternalError:      ErrorInternal,
	framework.StatusDeveloperError:     ErrorDeveloper,
	framework.StatusError:              ErrorGeneric,
	framework.StatusInterrupted:        ErrorInterrupted,
	framework.StatusTimeout:            ErrorTimeout,
	framework.StatusCanceled:           ErrorCanceled,
	framework.StatusAPINotConnected:    ErrorAPINotConnected,
}

// Classify maps err onto an ErrorReason. Unrecognised errors and codes are
// ErrorUnknown. The second result is the API error, if err carried one.
func Classify(err error) (ErrorReason, *framework.APIError) {
	var apiErr *framework.APIError
	if !errors.As(err, &apiErr) {
		return ErrorUnknown, nil
	}
	if reason, ok := reasonByCode[apiErr.Code]; ok {
		return reason, apiErr
	}
	return ErrorUnknown, apiErr
}

// IsCancellation reports whether err is a cancelled operation rather than a failure.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}
