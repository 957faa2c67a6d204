// Package transport issues DocuSign REST API requests over net/http.
//
// A Client is bound to one base URL, e.g. "https://na3.docusign.net/restapi/v2/",
// and resolves request paths against it. It keeps the body of the most recent
// response so callers can recover raw (non-JSON) payloads such as PDFs.
//
// The transport does not retry. Any failure, including a non-2xx status, is
// returned to the caller immediately.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte

	// ErrorCode and Message are parsed from DocuSign's error body when present.
	ErrorCode string
	Message   string
}

func (e *StatusError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("%s %s returned status %d: %s: %s", e.Method, e.URL, e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Client is an HTTP transport bound to a single DocuSign host.
type Client struct {
	baseURL   string
	client    *http.Client
	userAgent string
	metrics   *Metrics
	logger    hclog.Logger

	mu   sync.Mutex
	last []byte
}

// New creates a transport for baseURL. A nil cfg uses DefaultConfig.
func New(baseURL string, cfg *Config, logger hclog.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transport config: %w", err)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must use http or https scheme, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", baseURL)
	}

	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    cfg.NewHTTPClient(),
		userAgent: cfg.UserAgent,
		metrics:   cfg.Metrics,
		logger:    logger.Named("transport"),
	}, nil
}

// BaseURL returns the URL requests are resolved against, without a
// trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a request and returns the response body. Params are appended to
// any query string already present in path.
func (c *Client) Do(ctx context.Context, method, path string, params, headers map[string]string) ([]byte, error) {
	endpoint := c.buildURL(path, params)

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("sending request", "method", method, "path", path)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.observe(method, 0, time.Since(start))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.observe(method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.mu.Lock()
	c.last = body
	c.mu.Unlock()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
		var apiErr struct {
			ErrorCode string `json:"errorCode"`
			Message   string `json:"message"`
		}
		if err := json.Unmarshal(body, &apiErr); err == nil {
			statusErr.ErrorCode = apiErr.ErrorCode
			statusErr.Message = apiErr.Message
		}
		return nil, statusErr
	}

	return body, nil
}

// LastResponseBody returns the body of the most recent response, including
// error responses. It is nil before the first response.
func (c *Client) LastResponseBody() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// buildURL joins path onto the base URL and appends params.
func (c *Client) buildURL(path string, params map[string]string) string {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")

	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + values.Encode()
	}

	return endpoint
}
