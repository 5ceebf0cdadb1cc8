package httptransport

import (
	"time"

	dkmodels "exposure/internal/diagnosiskeys/models"
	dkservice "exposure/internal/diagnosiskeys/service"
	qmodels "exposure/internal/quarantine/models"
	regmodels "exposure/internal/registration/models"
	tekmodels "exposure/internal/tek/models"
)

type StatusResponse struct {
	Registration      PhaseView            `json:"registration"`
	Quarantine        StatusView           `json:"quarantine"`
	WarningType       string               `json:"warning_type"`
	ShowQuarantineEnd bool                 `json:"show_quarantine_end"`
	Fetch             dkservice.FetchState `json:"fetch"`
	PendingSessions   []SessionView        `json:"pending_sessions"`
}

type PhaseView struct {
	Phase             string         `json:"phase"`
	Details           map[string]any `json:"details,omitempty"`
	UserVisible       bool           `json:"user_visible"`
	Refreshable       bool           `json:"refreshable"`
	SystemSettingsURL string         `json:"system_settings_url,omitempty"`
}

type StatusView struct {
	Kind                  string     `json:"kind"`
	End                   *time.Time `json:"end,omitempty"`
	BySelfYellowDiagnosis *time.Time `json:"by_self_yellow_diagnosis,omitempty"`
	ByRedWarning          *time.Time `json:"by_red_warning,omitempty"`
	ByYellowWarning       *time.Time `json:"by_yellow_warning,omitempty"`
	SelfMonitoring        bool       `json:"self_monitoring"`
}

type SessionView struct {
	Token           string    `json:"token"`
	WarningType     string    `json:"warning_type"`
	ProcessingPhase string    `json:"processing_phase"`
	FullBatchFiles  int       `json:"full_batch_files"`
	DailyFiles      int       `json:"daily_files"`
	CreatedAt       time.Time `json:"created_at"`
}

type FetchResponse struct {
	Submitted bool                 `json:"submitted"`
	State     dkservice.FetchState `json:"state"`
}

type RecordSentKeysRequest struct {
	MessageType string `json:"message_type"`
	Keys        []struct {
		RollingStartIntervalNumber int64  `json:"rolling_start_interval_number"`
		Password                   string `json:"password"`
	} `json:"keys"`
}

type SentKeyView struct {
	RollingStartIntervalNumber int64     `json:"rolling_start_interval_number"`
	MessageType                string    `json:"message_type"`
	CreatedAt                  time.Time `json:"created_at"`
}

func newPhaseView(p regmodels.Phase, settingsURL string) PhaseView {
	v := PhaseView{
		Phase:       p.Name(),
		Details:     regmodels.Describe(p),
		UserVisible: regmodels.UserVisible(p),
		Refreshable: regmodels.Refreshable(p),
	}
	if _, ok := p.(regmodels.BluetoothNotEnabled); ok {
		v.SystemSettingsURL = settingsURL
	}
	return v
}

func newStatusView(s qmodels.Status) StatusView {
	switch st := s.(type) {
	case qmodels.JailedForever:
		return StatusView{Kind: st.Kind()}
	case qmodels.JailedLimited:
		end := st.End
		return StatusView{
			Kind:                  st.Kind(),
			End:                   &end,
			BySelfYellowDiagnosis: st.BySelfYellowDiagnosis,
			ByRedWarning:          st.ByRedWarning,
			ByYellowWarning:       st.ByYellowWarning,
			SelfMonitoring:        st.SelfMonitoring,
		}
	case qmodels.Free:
		return StatusView{Kind: st.Kind(), SelfMonitoring: st.SelfMonitoring}
	}
	return StatusView{Kind: "unknown"}
}

func newSessionViews(sessions []*dkmodels.Session) []SessionView {
	out := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionView{
			Token:           s.Token,
			WarningType:     string(s.WarningType),
			ProcessingPhase: string(s.ProcessingPhase),
			FullBatchFiles:  len(s.FullBatchParts),
			DailyFiles:      len(s.DailyBatchesParts),
			CreatedAt:       s.CreatedAt,
		})
	}
	return out
}

func newSentKeyViews(keys []tekmodels.SentKey) []SentKeyView {
	out := make([]SentKeyView, 0, len(keys))
	for _, k := range keys {
		out = append(out, SentKeyView{
			RollingStartIntervalNumber: k.RollingStartIntervalNumber,
			MessageType:                string(k.MessageType),
			CreatedAt:                  k.CreatedAt,
		})
	}
	return out
}
