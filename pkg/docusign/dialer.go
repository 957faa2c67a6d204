package docusign

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/docusign-adapter/pkg/docusign/transport"
)

// Transport issues a single REST call against the host it is bound to.
//
// Path is relative to that host and may already carry a query string; params
// are appended to it. The returned body is the raw response. Network and
// status failures are returned as errors and are not retried by the client.
type Transport interface {
	Do(ctx context.Context, method, path string, params, headers map[string]string) ([]byte, error)

	// LastResponseBody returns the most recently received raw body.
	LastResponseBody() []byte
}

// Dialer returns a Transport bound to host.
type Dialer func(host string) (Transport, error)

// Compile-time check that the default transport satisfies Transport.
var _ Transport = (*transport.Client)(nil)

// HTTPDialer returns a Dialer that builds net/http transports from cfg.
// A nil cfg uses transport.DefaultConfig.
func HTTPDialer(cfg *transport.Config, logger hclog.Logger) Dialer {
	return func(host string) (Transport, error) {
		var c *transport.Config
		if cfg != nil {
			copied := *cfg
			c = &copied
		}
		t, err := transport.New(host, c, logger)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}
