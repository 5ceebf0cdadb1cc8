// Package archive talks to the diagnosis-key content delivery network: it reads the
// archive index and downloads batch files into a local cache directory.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"exposure/internal/platform/config"
	dErrors "exposure/pkg/domain-errors"
)

const (
	indexPath    = "exposures/at/index.json"
	maxIndexSize = 4 << 20
)

// Batch is one archive window: its start interval and the files it consists of.
type Batch struct {
	Interval  int64    `json:"interval"`
	FilePaths []string `json:"batch_file_paths"`
}

// Index lists the published archives.
type Index struct {
	Full7Days    Batch   `json:"full_7_batch"`
	Full14Days   Batch   `json:"full_14_batch"`
	DailyBatches []Batch `json:"daily_batches"`
}

// Client fetches the index and batch files. Requests are paced by a token bucket.
type Client struct {
	http     *http.Client
	baseURL  *url.URL
	cacheDir string
	limiter  *rate.Limiter
	logger   *slog.Logger
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client for cfg.BaseURL that caches files under cacheDir.
func New(cfg config.ArchiveConfig, cacheDir string, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "archive base URL is required")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid archive base URL")
	}
	if cacheDir == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "cache directory is required")
	}

	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  base,
		cacheDir: cacheDir,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Index fetches the archive index.
func (c *Client) Index(ctx context.Context) (Index, error) {
	resp, err := c.get(ctx, indexPath)
	if err != nil {
		return Index{}, err
	}
	defer resp.Body.Close()

	var idx Index
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxIndexSize)).Decode(&idx); err != nil {
		return Index{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to decode archive index")
	}
	return idx, nil
}

// Download stores the file at remotePath in the cache and returns the local path.
// A partially written file never replaces a complete one.
func (c *Client) Download(ctx context.Context, remotePath string) (string, error) {
	local, err := c.localPath(remotePath)
	if err != nil {
		return "", err
	}

	resp, err := c.get(ctx, remotePath)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create cache directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(local), ".download-*")
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create cache file")
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to download "+remotePath)
	}
	if err := os.Rename(tmp.Name(), local); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store "+remotePath)
	}

	c.logger.DebugContext(ctx, "downloaded batch file", "path", remotePath, "bytes", n)
	return local, nil
}

// Remove deletes cached files. Missing files are ignored.
func (c *Client) Remove(files []string) error {
	var errs []error
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Client) get(ctx context.Context, p string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ref, err := url.Parse(strings.TrimPrefix(p, "/"))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid archive path "+p)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.ResolveReference(ref).String(), nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build archive request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "archive request failed")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, dErrors.Wrap(fmt.Errorf("GET %s: status %d", p, resp.StatusCode), dErrors.CodeUnavailable, "archive request failed")
	}
	return resp, nil
}

// localPath maps a remote path into the cache without letting it escape.
func (c *Client) localPath(remotePath string) (string, error) {
	clean := path.Clean("/" + remotePath)
	if clean == "/" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "empty archive path")
	}
	return filepath.Join(c.cacheDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
