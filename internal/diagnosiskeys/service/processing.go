package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"exposure/internal/diagnosiskeys/models"
	quarantine "exposure/internal/quarantine/models"
	dErrors "exposure/pkg/domain-errors"
	"exposure/pkg/platform/sentinel"
	"exposure/pkg/requestcontext"
)

// ProcessKeysBasedOnToken evaluates the matching results for token. It runs at
// most once per token: a pending scheduled marker is claimed by deleting it, and
// concurrent calls for the same token return immediately. Once a session is
// finished its files, rows and pending timeout are removed, even when
// evaluation failed.
func (s *Service) ProcessKeysBasedOnToken(ctx context.Context, token string) error {
	trigger := requestcontext.Trigger(ctx)
	ctx, span := s.tracer.Start(ctx, "diagnosiskeys.Process", trace.WithAttributes(
		attribute.String("token", token),
		attribute.String("trigger", trigger),
	))
	defer span.End()
	s.metrics.IncrementProcessing(trigger)

	if _, busy := s.processing.LoadOrStore(token, struct{}{}); busy {
		s.metrics.IncrementClaimLost()
		s.logger.InfoContext(ctx, "diagnosis key processing already running", "token", token, "trigger", trigger)
		return nil
	}
	defer s.processing.Delete(token)

	scheduled, err := s.store.ScheduledSessionExists(ctx, token)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read scheduled session")
	}
	if scheduled {
		n, err := s.store.DeleteScheduledSession(ctx, token)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to claim scheduled session")
		}
		if n == 0 {
			s.metrics.IncrementClaimLost()
			s.logger.InfoContext(ctx, "diagnosis key processing already claimed", "token", token, "trigger", trigger)
			return nil
		}
	}

	session, err := s.store.GetSession(ctx, token)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.silent.SilentError(ctx, s.logger, "diagnosis_keys.process", err, "token", token, "trigger", trigger)
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	span.SetAttributes(attribute.String("phase", string(session.ProcessingPhase)))
	s.metrics.IncrementPhase(string(session.ProcessingPhase))

	finished := true
	defer func() {
		if finished {
			s.cleanup(ctx, token, session)
		}
	}()

	var done bool
	switch session.ProcessingPhase {
	case models.PhaseFullBatch:
		done, err = s.processFullBatch(ctx, session)
	case models.PhaseDailyBatch:
		done, err = s.processDailyBatch(ctx, session)
	default:
		err = dErrors.New(dErrors.CodeInvariantViolation, "unknown processing phase "+string(session.ProcessingPhase))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "processing failed")
		s.logger.ErrorContext(ctx, "diagnosis key processing failed", "token", token, "trigger", trigger, "error", err)
		return err
	}
	finished = done
	return nil
}

// processFullBatch evaluates the summary of the full batch. A session that
// started with an active warning is refined day by day when daily parts exist.
func (s *Service) processFullBatch(ctx context.Context, session *models.Session) (bool, error) {
	threshold := s.config.Current().RiskThreshold()
	summary, err := s.matcher.ExposureSummary(ctx, session.Token)
	if err != nil {
		return true, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read exposure summary")
	}
	if summary.SummationRiskScore < threshold {
		s.logger.InfoContext(ctx, "exposure summary below threshold", "token", session.Token, "score", summary.SummationRiskScore)
		return true, s.revokeContacts(ctx)
	}
	if session.WarningType != quarantine.WarningGreen && session.HasUnprocessedDaily() {
		return s.advance(ctx, session)
	}

	infos, err := s.matcher.ExposureInformation(ctx, session.Token)
	if err != nil {
		return true, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read exposure information")
	}
	days := models.ExtractWarningDays(infos, threshold)
	if days.FirstRedDay != nil {
		if err := s.warn(ctx, quarantine.WarningRed, *days.FirstRedDay); err != nil {
			return true, err
		}
	}
	if days.FirstYellowDay != nil {
		return true, s.warn(ctx, quarantine.WarningYellow, *days.FirstYellowDay)
	}
	return true, nil
}

// processDailyBatch evaluates one day group. A red day ends the session; a
// yellow day is remembered until the last group has been evaluated.
func (s *Service) processDailyBatch(ctx context.Context, session *models.Session) (bool, error) {
	threshold := s.config.Current().RiskThreshold()
	infos, err := s.matcher.ExposureInformation(ctx, session.Token)
	if err != nil {
		return true, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read exposure information")
	}
	days := models.ExtractWarningDays(infos, threshold)
	session.RecordYellowDay(days.FirstYellowDay)

	if days.FirstRedDay != nil {
		if err := s.warn(ctx, quarantine.WarningRed, *days.FirstRedDay); err != nil {
			return true, err
		}
		if session.FirstYellowDay != nil {
			return true, s.warn(ctx, quarantine.WarningYellow, *session.FirstYellowDay)
		}
		return true, nil
	}
	if !session.HasUnprocessedDaily() {
		if err := s.quarantine.RevokeLastRedContact(ctx); err != nil {
			return true, dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke red contact")
		}
		if session.FirstYellowDay != nil {
			return true, s.warn(ctx, quarantine.WarningYellow, *session.FirstYellowDay)
		}
		return true, dErrors.Wrap(s.quarantine.RevokeLastYellowContact(ctx), dErrors.CodeInternal, "failed to revoke yellow contact")
	}
	return s.advance(ctx, session)
}

// advance submits the next daily group under a fresh token. The session keeps
// running, so it reports false unless nothing was left to submit.
func (s *Service) advance(ctx context.Context, session *models.Session) (bool, error) {
	number, group, ok := session.NextDailyGroup()
	if !ok {
		return true, nil
	}
	previous := session.Token
	session.MarkDailyProcessed(number)
	session.ProcessingPhase = models.PhaseDailyBatch
	session.Token = uuid.NewString()
	if err := s.store.UpdateSession(ctx, previous, session); err != nil {
		session.Token = previous
		return true, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update session")
	}
	if s.scheduler != nil {
		s.scheduler.Cancel(jobPrefix + previous)
	}
	s.logger.InfoContext(ctx, "submitting daily batch", "token", session.Token, "batch", number, "files", len(group))
	if err := s.StartDiagnosisKeyMatching(ctx, session.Token, models.FileNames(group)); err != nil {
		return true, err
	}
	return false, nil
}

func (s *Service) warn(ctx context.Context, warning quarantine.WarningType, day time.Time) error {
	if err := s.quarantine.ReceivedWarning(ctx, warning, day); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record warning")
	}
	s.metrics.IncrementWarning(string(warning))
	s.logger.InfoContext(ctx, "exposure warning recorded", "warning_type", warning, "day", day)
	return nil
}

func (s *Service) revokeContacts(ctx context.Context) error {
	if err := s.quarantine.RevokeLastRedContact(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke red contact")
	}
	if err := s.quarantine.RevokeLastYellowContact(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke yellow contact")
	}
	return nil
}

// cleanup removes everything a finished session still holds. claimed is the
// token the processing call was started with; the session may have moved on.
func (s *Service) cleanup(ctx context.Context, claimed string, session *models.Session) {
	files := session.AllFiles()
	if err := s.matcher.RemoveBatchParts(ctx, files); err != nil {
		s.silent.SilentError(ctx, s.logger, "diagnosis_keys.cleanup", err, "token", session.Token)
	}
	s.removeFiles(ctx, files)
	if err := s.store.DeleteSession(ctx, session.Token); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.silent.SilentError(ctx, s.logger, "diagnosis_keys.cleanup", err, "token", session.Token)
	}
	for _, token := range uniqueTokens(claimed, session.Token) {
		if _, err := s.store.DeleteScheduledSession(ctx, token); err != nil {
			s.silent.SilentError(ctx, s.logger, "diagnosis_keys.cleanup", err, "token", token)
		}
		if s.scheduler != nil {
			s.scheduler.Cancel(jobPrefix + token)
		}
	}
	s.metrics.IncrementSessionFinished()
	s.logger.InfoContext(ctx, "diagnosis key session finished", "token", session.Token)
}

func uniqueTokens(a, b string) []string {
	if a == b {
		return []string{a}
	}
	return []string{a, b}
}
