package service

import (
	"context"

	"exposure/internal/framework"
	"exposure/internal/prefs"
	"exposure/internal/registration/models"
)

func (m *Machine) onEnter(sc *scope, phase models.Phase) {
	intent := subscription(func() (<-chan struct{}, func()) {
		return m.intent.Watch(prefs.KeyExposureFrameworkWanted)
	})
	bluetooth := subscription(m.bluetooth.Watch)
	frameworkState := subscription(m.frameworkCh.Subscribe)

	switch p := phase.(type) {
	case models.WaitingForWantedState:
		sc.follow(func(ctx context.Context) (models.Phase, bool) {
			if m.wanted(ctx) {
				return models.CheckPrerequisites{}, true
			}
			return nil, false
		}, intent)

	case models.CheckPrerequisites:
		sc.goFn(func(ctx context.Context) {
			sc.moveTo(m.checkPrerequisites(ctx))
		})

	case models.PrerequisitesError:
		sc.follow(func(ctx context.Context) (models.Phase, bool) {
			if !m.wanted(ctx) {
				return models.WaitingForWantedState{}, true
			}
			return nil, false
		}, intent)

	case models.RegisterToFramework:
		sc.goFn(func(ctx context.Context) {
			sc.moveTo(m.register(ctx, p.Register))
		})

	case models.CheckingFrameworkError:
		sc.follow(func(ctx context.Context) (models.Phase, bool) {
			done, err := m.calls.take(p.Call)
			if !done {
				return nil, false
			}
			return m.outcome(ctx, p.Register, err), true
		}, m.calls.subscribe)

	case models.CriticalFrameworkError:
		sc.follow(m.intentDrift(p.Register), intent)
	case models.ResolutionRequired:
		sc.follow(m.intentDrift(p.Register), intent)
	case models.ResolutionDeclined:
		sc.follow(m.intentDrift(p.Register), intent)

	case models.BluetoothNotEnabled:
		sc.follow(func(ctx context.Context) (models.Phase, bool) {
			if !m.wanted(ctx) {
				return models.RegisterToFramework{Register: false}, true
			}
			if m.bluetooth.Enabled() {
				return models.CheckingFrameworkRunning{}, true
			}
			return nil, false
		}, intent, bluetooth)

	case models.CheckingFrameworkRunning:
		sc.follow(func(ctx context.Context) (models.Phase, bool) {
			if !m.wanted(ctx) {
				return models.RegisterToFramework{Register: false}, true
			}
			if !m.bluetooth.Enabled() {
				return models.BluetoothNotEnabled{}, true
			}
			if enabled, known := m.frameworkEnabled(ctx); known && enabled {
				return models.FrameworkRunning{}, true
			}
			return nil, false
		}, intent, bluetooth, frameworkState)

	case models.FrameworkRunning:
		sc.follow(func(ctx context.Context) (models.Phase, bool) {
			if !m.wanted(ctx) {
				return models.RegisterToFramework{Register: false}, true
			}
			if enabled, known := m.frameworkEnabled(ctx); known && !enabled {
				m.logger.InfoContext(ctx, "exposure framework disabled outside the app")
				m.clearIntent(ctx)
				return models.RegisterToFramework{Register: false}, true
			}
			if !m.bluetooth.Enabled() {
				return models.BluetoothNotEnabled{}, true
			}
			return nil, false
		}, intent, bluetooth, frameworkState)
	}
}

func (m *Machine) checkPrerequisites(ctx context.Context) models.Phase {
	if status := m.services.ServiceStatus(ctx); status != framework.ServiceSuccess {
		return models.PrerequisitesError{Reason: models.ServiceReason(status)}
	}
	if version := m.services.ServiceVersion(ctx); version < m.minVersion {
		m.logger.InfoContext(ctx, "platform service too old", "version", version, "min_version", m.minVersion)
		return models.PrerequisitesError{Reason: models.ReasonInvalidServiceVersion}
	}
	if !m.bluetooth.Supported() {
		return models.PrerequisitesError{Reason: models.ReasonBluetoothNotSupported}
	}
	return models.RegisterToFramework{Register: true}
}

// register issues the start or stop call unless the framework is already in the
// wanted state.
func (m *Machine) register(ctx context.Context, register bool) models.Phase {
	enabled, err := m.client.IsEnabled(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return models.WaitingForWantedState{}
		}
		return m.outcome(ctx, register, err)
	}
	if enabled == register {
		return settled(register)
	}
	call := m.client.Stop
	if register {
		call = m.client.Start
	}
	return models.CheckingFrameworkError{Register: register, Call: m.calls.issue(m.runCtx, call)}
}

// outcome maps the result of a start or stop call onto the next phase.
func (m *Machine) outcome(ctx context.Context, register bool, err error) models.Phase {
	if err == nil {
		return settled(register)
	}
	if models.IsCancellation(err) {
		m.logger.InfoContext(ctx, "framework registration cancelled", "register", register)
		// a cancelled scope is shutdown, not the user backing out
		if register && ctx.Err() == nil {
			m.clearIntent(ctx)
		}
		return models.WaitingForWantedState{}
	}

	reason, apiErr := models.Classify(err)
	m.metrics.IncrementFrameworkError(string(reason))
	if reason == models.ErrorResolutionRequired {
		m.logger.InfoContext(ctx, "framework registration needs user resolution", "register", register)
		return models.ResolutionRequired{Register: register, Resolution: apiErr.Resolution}
	}
	m.silent.SilentError(ctx, m.logger, "registration."+string(reason), err, "register", register)
	return models.CriticalFrameworkError{Register: register, Reason: reason}
}

// intentDrift leaves an error phase when the user's intent stops matching the
// direction that failed.
func (m *Machine) intentDrift(register bool) func(ctx context.Context) (models.Phase, bool) {
	return func(ctx context.Context) (models.Phase, bool) {
		wanted := m.wanted(ctx)
		switch {
		case register && !wanted:
			return models.RegisterToFramework{Register: false}, true
		case !register && wanted:
			return models.CheckPrerequisites{}, true
		default:
			return nil, false
		}
	}
}

func settled(register bool) models.Phase {
	if register {
		return models.CheckingFrameworkRunning{}
	}
	return models.WaitingForWantedState{}
}

func (m *Machine) wanted(ctx context.Context) bool {
	v, err := m.intent.Bool(ctx, prefs.KeyExposureFrameworkWanted)
	if err != nil {
		if ctx.Err() == nil {
			m.silent.SilentError(ctx, m.logger, "registration.intent", err)
		}
		return false
	}
	return v
}

func (m *Machine) clearIntent(ctx context.Context) {
	if err := m.intent.SetBool(ctx, prefs.KeyExposureFrameworkWanted, false); err != nil {
		m.silent.SilentError(ctx, m.logger, "registration.intent", err)
	}
}

// frameworkEnabled reads the registration state. known is false when the
// framework could not be queried.
func (m *Machine) frameworkEnabled(ctx context.Context) (enabled, known bool) {
	enabled, err := m.client.IsEnabled(ctx)
	if err != nil {
		if ctx.Err() == nil {
			m.silent.SilentError(ctx, m.logger, "registration.is_enabled", err)
		}
		return false, false
	}
	return enabled, true
}
