package httptransport

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Registration,Quarantine,DiagnosisKeys,SentKeys

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	dkmodels "exposure/internal/diagnosiskeys/models"
	dkservice "exposure/internal/diagnosiskeys/service"
	qmodels "exposure/internal/quarantine/models"
	regmodels "exposure/internal/registration/models"
	tekmodels "exposure/internal/tek/models"
	"exposure/internal/transport/http/mocks"
	dErrors "exposure/pkg/domain-errors"
	"exposure/pkg/platform/sentinel"
)

type HandlerSuite struct {
	suite.Suite
	registration  *mocks.MockRegistration
	quarantine    *mocks.MockQuarantine
	diagnosisKeys *mocks.MockDiagnosisKeys
	sentKeys      *mocks.MockSentKeys
	router        http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.registration = mocks.NewMockRegistration(ctrl)
	s.quarantine = mocks.NewMockQuarantine(ctrl)
	s.diagnosisKeys = mocks.NewMockDiagnosisKeys(ctrl)
	s.sentKeys = mocks.NewMockSentKeys(ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(s.registration, s.quarantine, s.diagnosisKeys, s.sentKeys, logger)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "# metrics") })
	s.router = NewRouter(h, metrics)
}

func (s *HandlerSuite) do(method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) TestStatus() {
	end := time.Date(2024, 5, 24, 10, 0, 0, 0, time.UTC)
	red := end
	s.quarantine.EXPECT().Current(gomock.Any()).Return(qmodels.JailedLimited{End: end, ByRedWarning: &red}, nil)
	s.quarantine.EXPECT().ShowQuarantineEnd(gomock.Any()).Return(false, nil)
	s.diagnosisKeys.EXPECT().Sessions(gomock.Any()).Return([]*dkmodels.Session{{
		Token:           "tok",
		WarningType:     qmodels.WarningRed,
		ProcessingPhase: dkmodels.PhaseDailyBatch,
		DailyBatchesParts: []dkmodels.BatchPart{
			{BatchNumber: 0, FileName: "a"}, {BatchNumber: 1, FileName: "b"},
		},
	}}, nil)
	s.diagnosisKeys.EXPECT().FetchState().Return(dkservice.FetchState{LastToken: "tok"})
	s.registration.EXPECT().Phase().Return(regmodels.CriticalFrameworkError{Register: true, Reason: regmodels.ErrorNetwork})
	s.registration.EXPECT().SystemSettingsURL().Return("settings://bluetooth")

	w := s.do(http.MethodGet, "/status", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp StatusResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("critical_framework_error", resp.Registration.Phase)
	s.True(resp.Registration.UserVisible)
	s.Empty(resp.Registration.SystemSettingsURL)
	s.Equal("jailed_limited", resp.Quarantine.Kind)
	s.Require().NotNil(resp.Quarantine.End)
	s.True(resp.Quarantine.End.Equal(end))
	s.Equal("RED", resp.WarningType)
	s.Equal("tok", resp.Fetch.LastToken)
	s.Require().Len(resp.PendingSessions, 1)
	s.Equal(2, resp.PendingSessions[0].DailyFiles)
}

func (s *HandlerSuite) TestIntent() {
	s.registration.EXPECT().SetWanted(gomock.Any(), true).Return(nil)
	s.registration.EXPECT().Phase().Return(regmodels.CheckPrerequisites{})
	s.registration.EXPECT().SystemSettingsURL().Return("")

	w := s.do(http.MethodPost, "/registration/intent?enabled=true", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"phase":"check_prerequisites"`)
}

func (s *HandlerSuite) TestIntent_InvalidParam() {
	w := s.do(http.MethodPost, "/registration/intent?enabled=maybe", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/registration/intent", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestRefresh_NotApplicable() {
	s.registration.EXPECT().Refresh(gomock.Any()).
		Return(dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict, "refresh does not apply"))

	w := s.do(http.MethodPost, "/registration/refresh", nil)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlerSuite) TestResolution() {
	s.registration.EXPECT().ResolutionResult(gomock.Any(), false).Return(nil)
	s.registration.EXPECT().Phase().Return(regmodels.ResolutionDeclined{Register: true})
	s.registration.EXPECT().SystemSettingsURL().Return("")

	w := s.do(http.MethodPost, "/registration/resolution?ok=false", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"refreshable":true`)
}

func (s *HandlerSuite) TestFetch() {
	s.diagnosisKeys.EXPECT().Fetch(gomock.Any()).Return(false)
	s.diagnosisKeys.EXPECT().FetchState().Return(dkservice.FetchState{Loading: true})

	w := s.do(http.MethodPost, "/diagnosis-keys/fetch", nil)
	s.Equal(http.StatusAccepted, w.Code)

	var resp FetchResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.False(resp.Submitted)
	s.True(resp.State.Loading)
}

func (s *HandlerSuite) TestProcess() {
	s.diagnosisKeys.EXPECT().ProcessKeysBasedOnToken(gomock.Any(), "abc-123").Return(nil)

	w := s.do(http.MethodPost, "/diagnosis-keys/process/abc-123", nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlerSuite) TestRecordSentKeys() {
	before := time.Now().UTC()
	s.sentKeys.EXPECT().Record(gomock.Any(), tekmodels.MessageSuspicion, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ tekmodels.MessageType, keys []tekmodels.SentKey) error {
			s.Require().Len(keys, 1)
			s.Equal(int64(2712960), keys[0].RollingStartIntervalNumber)
			s.Equal("pw", keys[0].Password)
			s.False(keys[0].CreatedAt.Before(before))
			s.WithinDuration(time.Now(), keys[0].CreatedAt, time.Minute)
			return nil
		})

	body := []byte(`{"message_type":"suspicion","keys":[{"rolling_start_interval_number":2712960,"password":"pw"}]}`)
	w := s.do(http.MethodPost, "/sent-keys", body)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodPost, "/sent-keys", []byte(`{"message_type":"upgrade","keys":[]}`))
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestListSentKeys() {
	created := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	s.sentKeys.EXPECT().List(gomock.Any(), tekmodels.MessageInfection).Return([]tekmodels.SentKey{
		{RollingStartIntervalNumber: 2712960, Password: "secret", MessageType: tekmodels.MessageInfection, CreatedAt: created},
	}, nil)

	w := s.do(http.MethodGet, "/sent-keys?message_type=infection", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "secret")

	var resp []SentKeyView
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp, 1)
	s.Equal(int64(2712960), resp[0].RollingStartIntervalNumber)
	s.Equal("infection", resp[0].MessageType)
	s.True(resp[0].CreatedAt.Equal(created))

	w = s.do(http.MethodGet, "/sent-keys", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestReportQuarantineFacts_UseRequestTime() {
	before := time.Now().UTC()
	stamped := func(_ context.Context, at time.Time) error {
		s.False(at.Before(before))
		s.WithinDuration(time.Now(), at, time.Minute)
		return nil
	}
	s.quarantine.EXPECT().ReportMedicalConfirmation(gomock.Any(), gomock.Any()).DoAndReturn(stamped)
	s.quarantine.EXPECT().ReportPositiveSelfDiagnose(gomock.Any(), gomock.Any()).DoAndReturn(stamped)
	s.quarantine.EXPECT().ReportSelfMonitoring(gomock.Any(), gomock.Any()).DoAndReturn(stamped)

	for _, target := range []string{"/quarantine/medical-confirmation", "/quarantine/self-diagnosis", "/quarantine/self-monitoring"} {
		w := s.do(http.MethodPost, target, nil)
		s.Equal(http.StatusNoContent, w.Code, target)
	}
}

func (s *HandlerSuite) TestReportQuarantineFact_ExplicitTime() {
	at := time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)
	s.quarantine.EXPECT().ReportPositiveSelfDiagnose(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, got time.Time) error {
			s.True(got.Equal(at), got)
			return nil
		})

	w := s.do(http.MethodPost, "/quarantine/self-diagnosis?at=2024-05-20T11:30:00%2B02:00", nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodPost, "/quarantine/self-diagnosis?at=yesterday", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	w = s.do(http.MethodPost, "/quarantine/self-diagnosis?at="+future, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestRevokeQuarantineFacts() {
	s.quarantine.EXPECT().RevokeMedicalConfirmation(gomock.Any()).Return(nil)
	s.quarantine.EXPECT().RevokePositiveSelfDiagnose(gomock.Any()).Return(nil)
	s.quarantine.EXPECT().RevokeSelfMonitoring(gomock.Any()).
		Return(dErrors.New(dErrors.CodeInternal, "failed to clear self monitoring"))

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/quarantine/medical-confirmation", nil).Code)
	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/quarantine/self-diagnosis", nil).Code)
	s.Equal(http.StatusInternalServerError, s.do(http.MethodDelete, "/quarantine/self-monitoring", nil).Code)
}

func (s *HandlerSuite) TestQuarantineEndSeen() {
	s.quarantine.EXPECT().QuarantineEndSeen(gomock.Any()).Return(nil)

	w := s.do(http.MethodPost, "/quarantine/end-seen", nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlerSuite) TestMetrics() {
	w := s.do(http.MethodGet, "/metrics", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("# metrics", w.Body.String())
}
