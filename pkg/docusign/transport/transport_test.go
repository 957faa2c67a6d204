package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		cfg     *Config
		wantErr string
	}{
		{name: "https", baseURL: "https://na3.docusign.net/restapi/v2/"},
		{name: "http", baseURL: "http://127.0.0.1:8080"},
		{name: "bad scheme", baseURL: "ftp://na3.docusign.net", wantErr: "http or https"},
		{name: "no host", baseURL: "https:///restapi", wantErr: "has no host"},
		{name: "unparsable", baseURL: "https://na3.docusign.net/%zz", wantErr: "invalid base url"},
		{name: "negative timeout", baseURL: "https://na3.docusign.net", cfg: &Config{Timeout: -time.Second}, wantErr: "timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.baseURL, tt.cfg, nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, c)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimRight(tt.baseURL, "/"), c.BaseURL())
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	require.NotNil(t, cfg.TLSVerify)
	assert.True(t, *cfg.TLSVerify)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())

	insecure := false
	client := (&Config{Timeout: time.Second, TLSVerify: &insecure}).NewHTTPClient()
	tr, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, tr.TLSClientConfig)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)

	custom := &http.Client{}
	assert.Same(t, custom, (&Config{HTTPClient: custom}).NewHTTPClient())
}

func TestClient_Do(t *testing.T) {
	var (
		gotURI     string
		gotHeaders http.Header
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/restapi/v2/", &Config{UserAgent: "docusign-adapter/test"}, nil)
	require.NoError(t, err)

	t.Run("path, params and headers", func(t *testing.T) {
		body, err := c.Do(context.Background(), http.MethodGet, "/accounts/1/users",
			map[string]string{"status": "Active"},
			map[string]string{"X-DocuSign-Authentication": `{"Username":"u"}`})
		require.NoError(t, err)

		assert.JSONEq(t, `{"ok": true}`, string(body))
		assert.Equal(t, "/restapi/v2/accounts/1/users?status=Active", gotURI)
		assert.Equal(t, `{"Username":"u"}`, gotHeaders.Get("X-DocuSign-Authentication"))
		assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
		assert.Equal(t, "docusign-adapter/test", gotHeaders.Get("User-Agent"))
		assert.Equal(t, body, c.LastResponseBody())
	})

	t.Run("params join an existing query", func(t *testing.T) {
		_, err := c.Do(context.Background(), http.MethodGet, "accounts/1/envelopes?from_date=1970-01-01",
			map[string]string{"status": "sent"}, nil)
		require.NoError(t, err)

		assert.Equal(t, "/restapi/v2/accounts/1/envelopes?from_date=1970-01-01&status=sent", gotURI)
	})

	t.Run("headers override accept", func(t *testing.T) {
		_, err := c.Do(context.Background(), http.MethodGet, "/accounts/1/envelopes/e/documents/combined",
			nil, map[string]string{"Accept": "application/pdf"})
		require.NoError(t, err)

		assert.Equal(t, "application/pdf", gotHeaders.Get("Accept"))
	})
}

func TestClient_DoStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docusign-error":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errorCode": "INVALID_REQUEST_PARAMETER", "message": "The request contained at least one invalid parameter."}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream unavailable\n"))
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, nil, nil)
	require.NoError(t, err)

	t.Run("docusign error body", func(t *testing.T) {
		body, err := c.Do(context.Background(), http.MethodGet, "/docusign-error", nil, nil)
		require.Error(t, err)
		assert.Nil(t, body)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
		assert.Equal(t, "INVALID_REQUEST_PARAMETER", statusErr.ErrorCode)
		assert.Contains(t, err.Error(), "INVALID_REQUEST_PARAMETER")
		assert.Contains(t, string(c.LastResponseBody()), "INVALID_REQUEST_PARAMETER")
	})

	t.Run("plain body", func(t *testing.T) {
		_, err := c.Do(context.Background(), http.MethodGet, "/other", nil, nil)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
		assert.Empty(t, statusErr.ErrorCode)
		assert.Contains(t, err.Error(), "upstream unavailable")
	})
}

func TestClient_DoNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	c, err := New(url, &Config{Timeout: time.Second, Metrics: metrics}, nil)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), http.MethodGet, "/login_information", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
	assert.Nil(t, c.LastResponseBody())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "error")))
}

func TestMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	// Two transports share one Metrics, as the login protocol does.
	for i := 0; i < 2; i++ {
		c, err := New(srv.URL, &Config{Metrics: metrics}, nil)
		require.NoError(t, err)

		_, err = c.Do(context.Background(), http.MethodGet, "/ok", nil, nil)
		require.NoError(t, err)
		_, err = c.Do(context.Background(), http.MethodGet, "/missing", nil, nil)
		require.Error(t, err)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "200")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodGet, "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.duration))

	t.Run("nil metrics are a no-op", func(t *testing.T) {
		var m *Metrics
		assert.NotPanics(t, func() { m.observe(http.MethodGet, 200, time.Millisecond) })
		assert.NotPanics(t, func() { NewMetrics(nil).observe(http.MethodGet, 200, time.Millisecond) })
	})
}
