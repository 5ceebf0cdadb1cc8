package configuration

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const maxDocumentSize = 1 << 20

// HTTPSource fetches the configuration document with a GET request.
type HTTPSource struct {
	client *http.Client
	url    string
}

// NewHTTPSource creates a source for url. A nil client uses http.DefaultClient.
func NewHTTPSource(client *http.Client, url string) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{client: client, url: url}
}

func (s *HTTPSource) Fetch(ctx context.Context) (Configuration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Configuration{}, fmt.Errorf("build configuration request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Configuration{}, fmt.Errorf("fetch configuration: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Configuration{}, fmt.Errorf("fetch configuration: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return Configuration{}, fmt.Errorf("read configuration: %w", err)
	}
	cfg, err := Decode(raw)
	if err != nil {
		return Configuration{}, fmt.Errorf("decode configuration: %w", err)
	}
	return cfg, nil
}
