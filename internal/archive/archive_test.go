package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"exposure/internal/platform/config"
	dErrors "exposure/pkg/domain-errors"
)

type ClientSuite struct {
	suite.Suite
	srv      *httptest.Server
	cacheDir string
	client   *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	mux := http.NewServeMux()
	mux.HandleFunc("/cdn/exposures/at/index.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"full_7_batch": {"interval": 2668032, "batch_file_paths": ["/exposures/at/7/a.zip"]},
			"full_14_batch": {"interval": 2667024, "batch_file_paths": ["/exposures/at/14/a.zip", "/exposures/at/14/b.zip"]},
			"daily_batches": [{"interval": 2668176, "batch_file_paths": ["/exposures/at/d/1.zip"]}]
		}`))
	})
	mux.HandleFunc("/cdn/exposures/at/7/a.zip", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("archive-bytes"))
	})
	s.srv = httptest.NewServer(mux)
	s.T().Cleanup(s.srv.Close)

	s.cacheDir = s.T().TempDir()
	c, err := New(config.ArchiveConfig{BaseURL: s.srv.URL + "/cdn", RequestsPerSec: 100, Burst: 10}, s.cacheDir)
	s.Require().NoError(err)
	s.client = c
}

func (s *ClientSuite) TestNewValidates() {
	_, err := New(config.ArchiveConfig{}, s.cacheDir)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	_, err = New(config.ArchiveConfig{BaseURL: s.srv.URL}, "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ClientSuite) TestIndex() {
	idx, err := s.client.Index(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(2668032), idx.Full7Days.Interval)
	s.Len(idx.Full14Days.FilePaths, 2)
	s.Require().Len(idx.DailyBatches, 1)
	s.Equal([]string{"/exposures/at/d/1.zip"}, idx.DailyBatches[0].FilePaths)
}

func (s *ClientSuite) TestDownload() {
	local, err := s.client.Download(context.Background(), "/exposures/at/7/a.zip")
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.cacheDir, "exposures", "at", "7", "a.zip"), local)

	data, err := os.ReadFile(local)
	s.Require().NoError(err)
	s.Equal("archive-bytes", string(data))

	s.NoError(s.client.Remove([]string{local, local}))
	s.NoFileExists(local)
}

func (s *ClientSuite) TestDownloadFailureLeavesNothing() {
	_, err := s.client.Download(context.Background(), "/exposures/at/missing.zip")
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.NoFileExists(filepath.Join(s.cacheDir, "exposures", "at", "missing.zip"))
}

func (s *ClientSuite) TestPathsStayInCache() {
	local, err := s.client.localPath("../../etc/passwd")
	s.Require().NoError(err)
	s.Equal(filepath.Join(s.cacheDir, "etc", "passwd"), local)
}
