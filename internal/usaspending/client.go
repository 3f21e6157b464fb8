package usaspending

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/flothjl/usaspending-mcp/internal/logging"
)

// DefaultBaseURL is the root of the public usaspending.gov API.
const DefaultBaseURL = "https://api.usaspending.gov/api/v2/"

// DefaultTimeout bounds a single upstream request made with the default
// client factory. The upstream API itself specifies no timeout; this is a
// safety default only.
const DefaultTimeout = 30 * time.Second

// Config configures a Client. The zero value selects defaults everywhere.
type Config struct {
	// BaseURL is the upstream API root and must end with a slash.
	// Empty selects DefaultBaseURL.
	BaseURL string

	// Timeout bounds each request issued through the default client factory.
	// Zero selects DefaultTimeout. Ignored when NewHTTPClient is set.
	Timeout time.Duration

	// NewHTTPClient returns the *http.Client used for a single request.
	// Each call receives a fresh client, so no connection state is shared
	// between invocations. Nil selects a factory producing
	// &http.Client{Timeout: Timeout}.
	NewHTTPClient func() *http.Client

	// QuietAwardErrors makes AwardDetail return an absent result instead of
	// an error when the upstream call fails. Validation errors are never
	// swallowed.
	QuietAwardErrors bool

	// Logger receives request-level debug logs. Nil selects slog.Default().
	Logger *slog.Logger
}

// Client issues requests against the usaspending.gov REST API. Build it once
// at process start; all methods are safe for concurrent use because no state
// is retained between calls.
type Client struct {
	baseURL       string
	newHTTPClient func() *http.Client
	quietAward    bool
	logger        *slog.Logger
}

// New returns a Client for the public usaspending.gov API with defaults.
func New() *Client {
	return NewWithConfig(Config{})
}

// NewWithConfig returns a Client with explicit configuration.
func NewWithConfig(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.NewHTTPClient == nil {
		timeout := cfg.Timeout
		cfg.NewHTTPClient = func() *http.Client {
			return &http.Client{Timeout: timeout}
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		baseURL:       cfg.BaseURL,
		newHTTPClient: cfg.NewHTTPClient,
		quietAward:    cfg.QuietAwardErrors,
		logger:        cfg.Logger,
	}
}

// BaseURL returns the configured upstream API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RawResponse is one upstream response: the requested URL, the status code,
// and the unparsed body.
type RawResponse struct {
	URL        string
	StatusCode int
	Body       []byte
}

// JSON parses the response body into v. A body that is not valid JSON is
// reported as a transport-kind *Error carrying the requested URL.
func (r *RawResponse) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return newTransportError(r.URL, fmt.Errorf("decoding response JSON: %w", err))
	}
	return nil
}

// Get issues a single GET request for path, relative to the base URL.
func (c *Client) Get(ctx context.Context, path string) (*RawResponse, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues a single POST request for path with body marshaled as JSON.
func (c *Client) Post(ctx context.Context, path string, body any) (*RawResponse, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// do performs exactly one upstream request. Non-2xx responses become
// status-kind errors; everything else that fails becomes a transport-kind
// error. There are no retries.
func (c *Client) do(ctx context.Context, method, path string, body any) (*RawResponse, error) {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, newTransportError(url, fmt.Errorf("encoding request body: %w", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, newTransportError(url, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.newHTTPClient().Do(req)
	if err != nil {
		return nil, newTransportError(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, newStatusError(url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(url, fmt.Errorf("reading response body: %w", err))
	}

	c.logger.Debug("upstream request completed",
		logging.Endpoint(path),
		logging.StatusCode(resp.StatusCode),
		slog.Duration(logging.KeyDuration, time.Since(start)),
	)

	return &RawResponse{URL: url, StatusCode: resp.StatusCode, Body: data}, nil
}
