// Package models defines the registration phases of the exposure framework.
package models

// Phase is the registration progress. Exactly one phase is current at a time.
type Phase interface {
	Name() string
	isPhase()
}

// WaitingForWantedState idles until the user asks for exposure notifications.
type WaitingForWantedState struct{}

// CheckPrerequisites verifies the platform service and Bluetooth support.
type CheckPrerequisites struct{}

// PrerequisitesError means the device cannot run the framework as is.
type PrerequisitesError struct {
	Reason PrerequisitesReason
}

// RegisterToFramework issues a start (Register) or stop against the framework.
type RegisterToFramework struct {
	Register bool
}

// CheckingFrameworkError awaits the outcome of the start or stop call.
type CheckingFrameworkError struct {
	Register bool
	// Call identifies the start or stop call whose outcome is awaited.
	Call uint64
}

// CriticalFrameworkError is a classified start or stop failure.
type CriticalFrameworkError struct {
	Register bool
	Reason   ErrorReason
}

// ResolutionRequired waits for the user to complete a resolution flow.
type ResolutionRequired struct {
	Register   bool
	Resolution string
}

// ResolutionDeclined means the user cancelled the resolution flow.
type ResolutionDeclined struct {
	Register bool
}

// BluetoothNotEnabled means the framework is registered but cannot scan.
type BluetoothNotEnabled struct{}

// CheckingFrameworkRunning waits for the framework to report itself enabled.
type CheckingFrameworkRunning struct{}

// FrameworkRunning is the steady state.
type FrameworkRunning struct{}

func (WaitingForWantedState) Name() string    { return "waiting_for_wanted_state" }
func (CheckPrerequisites) Name() string       { return "check_prerequisites" }
func (PrerequisitesError) Name() string       { return "prerequisites_error" }
func (RegisterToFramework) Name() string      { return "register_to_framework" }
func (CheckingFrameworkError) Name() string   { return "checking_framework_error" }
func (CriticalFrameworkError) Name() string   { return "critical_framework_error" }
func (ResolutionRequired) Name() string       { return "resolution_required" }
func (ResolutionDeclined) Name() string       { return "resolution_declined" }
func (BluetoothNotEnabled) Name() string      { return "bluetooth_not_enabled" }
func (CheckingFrameworkRunning) Name() string { return "checking_framework_running" }
func (FrameworkRunning) Name() string         { return "framework_running" }

func (WaitingForWantedState) isPhase()    {}
func (CheckPrerequisites) isPhase()       {}
func (PrerequisitesError) isPhase()       {}
func (RegisterToFramework) isPhase()      {}
func (CheckingFrameworkError) isPhase()   {}
func (CriticalFrameworkError) isPhase()   {}
func (ResolutionRequired) isPhase()       {}
func (ResolutionDeclined) isPhase()       {}
func (BluetoothNotEnabled) isPhase()      {}
func (CheckingFrameworkRunning) isPhase() {}
func (FrameworkRunning) isPhase()         {}

// UserVisible reports whether p should be rendered with a refresh or resolution action.
func UserVisible(p Phase) bool {
	switch p.(type) {
	case PrerequisitesError, CriticalFrameworkError, ResolutionRequired, ResolutionDeclined, BluetoothNotEnabled:
		return true
	default:
		return false
	}
}

// Refreshable reports whether Refresh applies to p.
func Refreshable(p Phase) bool {
	switch p.(type) {
	case PrerequisitesError, CriticalFrameworkError, ResolutionRequired, ResolutionDeclined:
		return true
	default:
		return false
	}
}

// Describe renders p with its payload for logs and the status surface.
func Describe(p Phase) map[string]any {
	out := map[string]any{"phase": p.Name()}
	switch v := p.(type) {
	case PrerequisitesError:
		out["reason"] = string(v.Reason)
	case RegisterToFramework:
		out["register"] = v.Register
	case CheckingFrameworkError:
		out["register"] = v.Register
	case CriticalFrameworkError:
		out["register"] = v.Register
		out["reason"] = string(v.Reason)
	case ResolutionRequired:
		out["register"] = v.Register
		out["resolution"] = v.Resolution
	case ResolutionDeclined:
		out["register"] = v.Register
	}
	return out
}
