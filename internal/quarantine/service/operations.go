package service

import (
	"context"
	"time"

	"exposure/internal/prefs"
	"exposure/internal/quarantine/models"
	dErrors "exposure/pkg/domain-errors"
)

// ReceivedWarning records a contact of the given type. A contact on the same UTC
// day as the stored one keeps the stored timestamp. GREEN records nothing.
func (r *Repository) ReceivedWarning(ctx context.Context, warning models.WarningType, at time.Time) error {
	var key prefs.Key
	switch warning {
	case models.WarningRed:
		key = prefs.KeyLastRedContact
	case models.WarningYellow:
		key = prefs.KeyLastYellowContact
	case models.WarningGreen:
		return nil
	default:
		return dErrors.New(dErrors.CodeInvalidInput, "unknown warning type: "+string(warning))
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	stored, err := r.store.Time(ctx, key)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read last contact")
	}
	if stored != nil && models.SameUTCDay(*stored, at) {
		return nil
	}
	return r.set(ctx, key, &at)
}

// ReportMedicalConfirmation jails the user for good. Self diagnose dates are moved
// aside so a later revocation can restore them.
func (r *Repository) ReportMedicalConfirmation(ctx context.Context, at time.Time) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	first, err := r.store.Time(ctx, prefs.KeyFirstSelfDiagnose)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read self diagnose")
	}
	last, err := r.store.Time(ctx, prefs.KeyLastSelfDiagnose)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read self diagnose")
	}
	if first != nil || last != nil {
		if err := r.set(ctx, prefs.KeyFirstSelfDiagnoseBackup, first); err != nil {
			return err
		}
		if err := r.set(ctx, prefs.KeyLastSelfDiagnoseBackup, last); err != nil {
			return err
		}
	}
	if err := r.set(ctx, prefs.KeyFirstSelfDiagnose, nil); err != nil {
		return err
	}
	if err := r.set(ctx, prefs.KeyLastSelfDiagnose, nil); err != nil {
		return err
	}

	confirmed, err := r.store.Time(ctx, prefs.KeyFirstMedicalConfirmation)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read medical confirmation")
	}
	if confirmed != nil {
		return nil
	}
	return r.set(ctx, prefs.KeyFirstMedicalConfirmation, &at)
}

// RevokeMedicalConfirmation downgrades red to yellow: the confirmation is dropped
// and any backed up self diagnose dates come back into effect.
func (r *Repository) RevokeMedicalConfirmation(ctx context.Context) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	first, err := r.store.Time(ctx, prefs.KeyFirstSelfDiagnoseBackup)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read self diagnose backup")
	}
	last, err := r.store.Time(ctx, prefs.KeyLastSelfDiagnoseBackup)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read self diagnose backup")
	}
	if first != nil || last != nil {
		if err := r.set(ctx, prefs.KeyFirstSelfDiagnose, first); err != nil {
			return err
		}
		if err := r.set(ctx, prefs.KeyLastSelfDiagnose, last); err != nil {
			return err
		}
	}
	for _, key := range []prefs.Key{prefs.KeyFirstSelfDiagnoseBackup, prefs.KeyLastSelfDiagnoseBackup, prefs.KeyFirstMedicalConfirmation} {
		if err := r.set(ctx, key, nil); err != nil {
			return err
		}
	}
	return nil
}

// ReportPositiveSelfDiagnose records a positive self diagnosis at at.
func (r *Repository) ReportPositiveSelfDiagnose(ctx context.Context, at time.Time) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	first, err := r.store.Time(ctx, prefs.KeyFirstSelfDiagnose)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read self diagnose")
	}
	if first == nil {
		if err := r.set(ctx, prefs.KeyFirstSelfDiagnose, &at); err != nil {
			return err
		}
	}
	return r.set(ctx, prefs.KeyLastSelfDiagnose, &at)
}

// RevokePositiveSelfDiagnose clears the self diagnosis and its backups.
func (r *Repository) RevokePositiveSelfDiagnose(ctx context.Context) error {
	return r.clear(ctx, prefs.KeyFirstSelfDiagnose, prefs.KeyLastSelfDiagnose,
		prefs.KeyFirstSelfDiagnoseBackup, prefs.KeyLastSelfDiagnoseBackup)
}

func (r *Repository) ReportSelfMonitoring(ctx context.Context, at time.Time) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.set(ctx, prefs.KeyLastSelfMonitoring, &at)
}

func (r *Repository) RevokeSelfMonitoring(ctx context.Context) error {
	return r.clear(ctx, prefs.KeyLastSelfMonitoring)
}

func (r *Repository) RevokeLastRedContact(ctx context.Context) error {
	return r.clear(ctx, prefs.KeyLastRedContact)
}

func (r *Repository) RevokeLastYellowContact(ctx context.Context) error {
	return r.clear(ctx, prefs.KeyLastYellowContact)
}

// ShowQuarantineEnd reports whether a quarantine ended and the user has not seen it yet.
func (r *Repository) ShowQuarantineEnd(ctx context.Context) (bool, error) {
	v, err := r.store.Bool(ctx, prefs.KeyShowQuarantineEnd)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read quarantine end flag")
	}
	return v, nil
}

// ObserveShowQuarantineEnd signals whenever the quarantine end flag is written.
func (r *Repository) ObserveShowQuarantineEnd() (<-chan struct{}, func()) {
	return r.store.Watch(prefs.KeyShowQuarantineEnd)
}

// QuarantineEndSeen lowers the quarantine end flag.
func (r *Repository) QuarantineEndSeen(ctx context.Context) error {
	if err := r.store.SetBool(ctx, prefs.KeyShowQuarantineEnd, false); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear quarantine end flag")
	}
	return nil
}

func (r *Repository) clear(ctx context.Context, keys ...prefs.Key) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	for _, key := range keys {
		if err := r.set(ctx, key, nil); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) set(ctx context.Context, key prefs.Key, t *time.Time) error {
	if err := r.store.SetTime(ctx, key, t); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write "+string(key))
	}
	return nil
}
