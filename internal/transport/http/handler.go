// Package httptransport is the local status and control surface of the daemon.
// Handlers only translate HTTP to service calls.
package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	dkmodels "exposure/internal/diagnosiskeys/models"
	dkservice "exposure/internal/diagnosiskeys/service"
	qmodels "exposure/internal/quarantine/models"
	regmodels "exposure/internal/registration/models"
	tekmodels "exposure/internal/tek/models"
	dErrors "exposure/pkg/domain-errors"
	"exposure/pkg/platform/httputil"
	"exposure/pkg/platform/middleware/requesttime"
	"exposure/pkg/requestcontext"
)

// Registration controls the exposure framework registration.
type Registration interface {
	Phase() regmodels.Phase
	Refresh(ctx context.Context) error
	ResolutionResult(ctx context.Context, ok bool) error
	SetWanted(ctx context.Context, wanted bool) error
	SystemSettingsURL() string
}

// Quarantine exposes the quarantine status.
type Quarantine interface {
	Current(ctx context.Context) (qmodels.Status, error)
	ShowQuarantineEnd(ctx context.Context) (bool, error)
	QuarantineEndSeen(ctx context.Context) error

	ReportMedicalConfirmation(ctx context.Context, at time.Time) error
	RevokeMedicalConfirmation(ctx context.Context) error
	ReportPositiveSelfDiagnose(ctx context.Context, at time.Time) error
	RevokePositiveSelfDiagnose(ctx context.Context) error
	ReportSelfMonitoring(ctx context.Context, at time.Time) error
	RevokeSelfMonitoring(ctx context.Context) error
}

// DiagnosisKeys drives the diagnosis-key pipeline.
type DiagnosisKeys interface {
	Fetch(ctx context.Context) bool
	FetchState() dkservice.FetchState
	ProcessKeysBasedOnToken(ctx context.Context, token string) error
	Sessions(ctx context.Context) ([]*dkmodels.Session, error)
}

// SentKeys records keys reported by the submission flow.
type SentKeys interface {
	Record(ctx context.Context, mt tekmodels.MessageType, keys []tekmodels.SentKey) error
	List(ctx context.Context, mt tekmodels.MessageType) ([]tekmodels.SentKey, error)
}

// Handler serves the status and control endpoints.
type Handler struct {
	registration  Registration
	quarantine    Quarantine
	diagnosisKeys DiagnosisKeys
	sentKeys      SentKeys
	logger        *slog.Logger
}

func New(registration Registration, quarantine Quarantine, diagnosisKeys DiagnosisKeys, sentKeys SentKeys, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		registration:  registration,
		quarantine:    quarantine,
		diagnosisKeys: diagnosisKeys,
		sentKeys:      sentKeys,
		logger:        logger,
	}
}

// NewRouter mounts h and the metrics endpoint on a chi router.
func NewRouter(h *Handler, metrics http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, requesttime.Middleware)
	h.Register(r)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	return r
}

// Register mounts the endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/status", h.HandleStatus)

	r.Route("/registration", func(r chi.Router) {
		r.Post("/refresh", h.HandleRefresh)
		r.Post("/resolution", h.HandleResolution)
		r.Post("/intent", h.HandleIntent)
	})

	r.Route("/diagnosis-keys", func(r chi.Router) {
		r.Post("/fetch", h.HandleFetch)
		r.With(requesttime.Trigger(requestcontext.TriggerBroadcast)).Post("/process/{token}", h.HandleProcess)
	})

	r.Route("/quarantine", func(r chi.Router) {
		r.Post("/end-seen", h.HandleQuarantineEndSeen)
		r.Post("/medical-confirmation", h.report("report medical confirmation", h.quarantine.ReportMedicalConfirmation))
		r.Delete("/medical-confirmation", h.revoke("revoke medical confirmation", h.quarantine.RevokeMedicalConfirmation))
		r.Post("/self-diagnosis", h.report("report self diagnosis", h.quarantine.ReportPositiveSelfDiagnose))
		r.Delete("/self-diagnosis", h.revoke("revoke self diagnosis", h.quarantine.RevokePositiveSelfDiagnose))
		r.Post("/self-monitoring", h.report("report self monitoring", h.quarantine.ReportSelfMonitoring))
		r.Delete("/self-monitoring", h.revoke("revoke self monitoring", h.quarantine.RevokeSelfMonitoring))
	})

	r.Post("/sent-keys", h.HandleRecordSentKeys)
	r.Get("/sent-keys", h.HandleListSentKeys)
}

// HandleStatus handles GET /status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := h.quarantine.Current(ctx)
	if err != nil {
		h.fail(ctx, w, "read quarantine status", err)
		return
	}
	showEnd, err := h.quarantine.ShowQuarantineEnd(ctx)
	if err != nil {
		h.fail(ctx, w, "read quarantine end flag", err)
		return
	}
	sessions, err := h.diagnosisKeys.Sessions(ctx)
	if err != nil {
		h.fail(ctx, w, "list sessions", err)
		return
	}

	phase := h.registration.Phase()
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Registration:      newPhaseView(phase, h.registration.SystemSettingsURL()),
		Quarantine:        newStatusView(status),
		WarningType:       string(qmodels.WarningTypeOf(status)),
		ShowQuarantineEnd: showEnd,
		Fetch:             h.diagnosisKeys.FetchState(),
		PendingSessions:   newSessionViews(sessions),
	})
}

// HandleRefresh handles POST /registration/refresh.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.registration.Refresh(r.Context()); err != nil {
		h.fail(r.Context(), w, "refresh registration", err)
		return
	}
	h.writePhase(w)
}

// HandleResolution handles POST /registration/resolution?ok=bool.
func (h *Handler) HandleResolution(w http.ResponseWriter, r *http.Request) {
	ok, err := boolParam(r, "ok")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.registration.ResolutionResult(r.Context(), ok); err != nil {
		h.fail(r.Context(), w, "deliver resolution result", err)
		return
	}
	h.writePhase(w)
}

// HandleIntent handles POST /registration/intent?enabled=bool.
func (h *Handler) HandleIntent(w http.ResponseWriter, r *http.Request) {
	enabled, err := boolParam(r, "enabled")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.registration.SetWanted(r.Context(), enabled); err != nil {
		h.fail(r.Context(), w, "set registration intent", err)
		return
	}
	h.logger.InfoContext(r.Context(), "registration intent changed", "enabled", enabled)
	h.writePhase(w)
}

// HandleFetch handles POST /diagnosis-keys/fetch. The fetch runs within the
// request; a rejected or failed fetch is reported through the fetch state.
func (h *Handler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	submitted := h.diagnosisKeys.Fetch(r.Context())
	status := http.StatusOK
	if !submitted {
		status = http.StatusAccepted
	}
	httputil.WriteJSON(w, status, FetchResponse{Submitted: submitted, State: h.diagnosisKeys.FetchState()})
}

// HandleProcess handles POST /diagnosis-keys/process/{token}, the stand-in for
// the framework's matching-finished broadcast.
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "token is required"))
		return
	}
	if err := h.diagnosisKeys.ProcessKeysBasedOnToken(r.Context(), token); err != nil {
		h.fail(r.Context(), w, "process diagnosis keys", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleQuarantineEndSeen handles POST /quarantine/end-seen.
func (h *Handler) HandleQuarantineEndSeen(w http.ResponseWriter, r *http.Request) {
	if err := h.quarantine.QuarantineEndSeen(r.Context()); err != nil {
		h.fail(r.Context(), w, "clear quarantine end flag", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// report handles POST on a quarantine fact. The fact is dated by the optional
// at query parameter (RFC 3339) and by the request time otherwise.
func (h *Handler) report(op string, fn func(context.Context, time.Time) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := requestcontext.Now(ctx).UTC()
		at := now
		if raw := r.URL.Query().Get("at"); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "at must be an RFC 3339 timestamp"))
				return
			}
			if parsed.After(now) {
				httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "at must not be in the future"))
				return
			}
			at = parsed.UTC()
		}
		if err := fn(ctx, at); err != nil {
			h.fail(ctx, w, op, err)
			return
		}
		h.logger.InfoContext(ctx, "quarantine fact changed", "operation", op, "at", at)
		w.WriteHeader(http.StatusNoContent)
	}
}

// revoke handles DELETE on a quarantine fact.
func (h *Handler) revoke(op string, fn func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r.Context()); err != nil {
			h.fail(r.Context(), w, op, err)
			return
		}
		h.logger.InfoContext(r.Context(), "quarantine fact changed", "operation", op)
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleRecordSentKeys handles POST /sent-keys. Keys are stamped with the
// request time.
func (h *Handler) HandleRecordSentKeys(w http.ResponseWriter, r *http.Request) {
	var req RecordSentKeysRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	mt, err := tekmodels.ParseMessageType(req.MessageType)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if len(req.Keys) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "keys are required"))
		return
	}
	createdAt := requestcontext.Now(r.Context()).UTC()
	keys := make([]tekmodels.SentKey, 0, len(req.Keys))
	for _, k := range req.Keys {
		keys = append(keys, tekmodels.SentKey{
			RollingStartIntervalNumber: k.RollingStartIntervalNumber,
			Password:                   k.Password,
			CreatedAt:                  createdAt,
		})
	}
	if err := h.sentKeys.Record(r.Context(), mt, keys); err != nil {
		h.fail(r.Context(), w, "record sent keys", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListSentKeys handles GET /sent-keys?message_type=. Passwords are not
// returned.
func (h *Handler) HandleListSentKeys(w http.ResponseWriter, r *http.Request) {
	mt, err := tekmodels.ParseMessageType(r.URL.Query().Get("message_type"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	keys, err := h.sentKeys.List(r.Context(), mt)
	if err != nil {
		h.fail(r.Context(), w, "list sent keys", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newSentKeyViews(keys))
}

func (h *Handler) writePhase(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusOK, newPhaseView(h.registration.Phase(), h.registration.SystemSettingsURL()))
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	h.logger.ErrorContext(ctx, "request failed", "operation", op, "request_id", middleware.GetReqID(ctx), "error", err)
	httputil.WriteError(w, err)
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, dErrors.New(dErrors.CodeInvalidInput, name+" is required")
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, dErrors.New(dErrors.CodeInvalidInput, name+" must be a boolean")
	}
	return v, nil
}
