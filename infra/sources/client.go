// Package sources implements the planner collaborators over HTTP and local
// JSON files. Implementations are selected by type in configuration through
// the registries in this package.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/depotplan/auth"
)

// maxBody bounds upstream payloads.
const maxBody = 16 << 20

// HTTPConfig configures one HTTP collaborator.
type HTTPConfig struct {
	URL     string            `json:"url"`
	Timeout time.Duration     `json:"timeout"`
	Headers map[string]string `json:"headers"`
	Auth    auth.Conf         `json:"auth"`
}

type httpClient struct {
	hc      *http.Client
	url     string
	headers map[string]string
}

func newHTTPClient(cfg HTTPConfig) (*httpClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hc := &http.Client{Timeout: timeout}
	if cfg.Auth.Enabled() {
		hc.Transport = auth.NewClientCred(cfg.Auth).Transport(nil)
	}
	return &httpClient{hc: hc, url: cfg.URL, headers: cfg.Headers}, nil
}

// do issues the request and returns the body of a 2xx response.
func (c *httpClient) do(ctx context.Context, method, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, url, resp.StatusCode)
	}
	return body, nil
}
