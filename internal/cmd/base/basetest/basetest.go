// Package basetest runs CLI commands against a fake DocuSign API.
package basetest

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/docusign-adapter/internal/cmd/base"
)

const (
	// AccountID is the account the fake login resolves.
	AccountID = "acc-1"

	// ConfigPath is where NewCommand writes the config file.
	ConfigPath = "/etc/docusign/config.hcl"

	apiPrefix = "/restapi/v2"
)

// Config is a minimal legacy auth configuration. Extra HCL may be appended.
const Config = `
host       = "https://demo.docusign.net/restapi/v2"
account_id = "acc-1"

legacy_auth {
  username       = "user@example.com"
  password       = "secret"
  integrator_key = "key-1"
}
`

const loginInformation = `{"loginAccounts": [
  {"accountId": "acc-1", "name": "Test", "baseUrl": "https://na3.docusign.net/restapi/v2/accounts/acc-1"}
]}`

// Response is a canned reply. Status 0 means 200.
type Response struct {
	Status      int
	ContentType string
	Body        string
}

// Server is a fake DocuSign REST API. Routes are keyed by request URI below
// /restapi/v2, query included.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]Response
	requests []string
}

// NewServer starts a server answering login_information and routes.
func NewServer(t testing.TB, routes map[string]Response) *Server {
	t.Helper()

	s := &Server{routes: map[string]Response{
		"/login_information": {Body: loginInformation},
	}}
	for k, v := range routes {
		s.routes[k] = v
	}

	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	uri := strings.TrimPrefix(r.URL.RequestURI(), apiPrefix)

	s.mu.Lock()
	s.requests = append(s.requests, uri)
	resp, ok := s.routes[uri]
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorCode": "RESOURCE_NOT_FOUND", "message": "not found"}`))
		return
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	if resp.Status != 0 {
		w.WriteHeader(resp.Status)
	}
	_, _ = w.Write([]byte(resp.Body))
}

// Requests returns the request URIs received so far, without the API prefix.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Rewrite points any DocuSign host at the server, keeping its path.
func (s *Server) Rewrite(host string) string {
	u, err := url.Parse(host)
	if err != nil {
		return host
	}
	return s.URL + u.Path
}

// Harness holds a command wired to a Server.
type Harness struct {
	Command  *base.Command
	UI       *cli.MockUi
	Fs       afero.Fs
	Out      *bytes.Buffer
	Registry *prometheus.Registry
}

// NewCommand returns a base command whose config file holds Config plus
// extra and whose transports reach srv.
func NewCommand(t testing.TB, srv *Server, extra string) *Harness {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ConfigPath, []byte(Config+extra), 0o600))

	h := &Harness{
		UI:       cli.NewMockUi(),
		Fs:       fs,
		Out:      new(bytes.Buffer),
		Registry: prometheus.NewRegistry(),
	}
	h.Command = &base.Command{
		Log:         hclog.NewNullLogger(),
		UI:          h.UI,
		Out:         h.Out,
		Fs:          fs,
		HostRewrite: srv.Rewrite,
		Registry:    h.Registry,
	}
	return h
}

// Args prefixes args with -config.
func Args(args ...string) []string {
	return append([]string{"-config", ConfigPath}, args...)
}
