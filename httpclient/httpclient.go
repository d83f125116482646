package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"ed-digest/logger"
)

// Config captures shared HTTP client settings.
type Config struct {
	Timeout time.Duration
}

// loggingRoundTripper logs every outbound call and stamps the run id as
// X-Request-Id so a single batch run can be correlated server-side.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	req.Header.Set("X-Request-Id", logger.RunID())

	query := ""
	if req.URL != nil {
		query = req.URL.RawQuery
	}

	resp, err := l.inner.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		logger.ErrorWithFields("httpclient request failed", logger.Fields{
			"method":   req.Method,
			"url":      req.URL.String(),
			"query":    query,
			"duration": duration.String(),
			"error":    err.Error(),
		})
		return nil, err
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	logger.DebugWithFields("httpclient request done", logger.Fields{
		"method":   req.Method,
		"url":      req.URL.String(),
		"query":    query,
		"status":   status,
		"duration": duration.String(),
	})
	return resp, nil
}

// BaseClient bundles an http.Client with a base URL and helps building
// requests against it.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewBaseClient builds a BaseClient around a default logging http.Client.
func NewBaseClient(baseURL string) *BaseClient {
	return &BaseClient{
		HTTPClient: NewDefault(),
		BaseURL:    baseURL,
	}
}

// NewBaseClientWithClient uses an already-built http.Client. A nil client
// falls back to the default one.
func NewBaseClientWithClient(httpClient *http.Client, baseURL string) *BaseClient {
	if httpClient == nil {
		httpClient = NewDefault()
	}
	return &BaseClient{
		HTTPClient: httpClient,
		BaseURL:    baseURL,
	}
}

// NewRequest builds a request from the base URL, a relative path and query
// values. relPath must not carry its own query string: path.Join would
// mangle it.
func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain query string (use query parameter instead): %s", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if relPath != "" {
		base.Path = path.Join(base.Path, relPath)
	}
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, base.String(), body)
}

// Do executes the request with the wrapped client.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}

// New builds an http.Client with the given settings. A zero timeout means
// the 10 second default.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	transport := http.DefaultTransport
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: transport},
	}
}

// NewDefault builds an http.Client with the shared defaults.
func NewDefault() *http.Client {
	return New(Config{})
}
