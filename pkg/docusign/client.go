package docusign

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
)

// Config is what New needs to log in.
type Config struct {
	// Host is the discovery host, e.g. "https://www.docusign.net/restapi/v2"
	// for production or "https://demo.docusign.net/restapi/v2" for the demo
	// environment.
	Host string

	// Auth supplies the default request headers.
	Auth Authenticator

	// AccountID selects the account to bind. When empty the first listed
	// account is bound without host resolution (see ResolveFirstAccount).
	AccountID string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required, validation.By(httpURL)),
		validation.Field(&c.Auth, validation.Required),
	)
}

func httpURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https scheme")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

// Option configures optional client behavior.
type Option func(*options)

type options struct {
	dialer Dialer
	logger hclog.Logger
}

// WithDialer overrides how transports are created. The default uses
// net/http with transport.DefaultConfig.
func WithDialer(d Dialer) Option {
	return func(o *options) {
		if d != nil {
			o.dialer = d
		}
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Client reads and reshapes account resources. Every listing call re-fetches
// from the API; nothing is cached. A Client is not safe for concurrent use.
type Client struct {
	session *Session
	logger  hclog.Logger
}

// New logs in and returns a Client bound to the resolved account. Login
// happens exactly once; an expired session is not renewed.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Op: "New", Err: ErrInvalidArgument, Msg: err.Error()}
	}

	o := options{logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.dialer == nil {
		o.dialer = HTTPDialer(nil, o.logger)
	}

	var (
		session *Session
		err     error
	)
	if cfg.AccountID != "" {
		session, err = ResolveSession(ctx, o.dialer, cfg.Host, cfg.Auth, cfg.AccountID, o.logger)
	} else {
		session, err = ResolveFirstAccount(ctx, o.dialer, cfg.Host, cfg.Auth, o.logger)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	return NewFromSession(session, o.logger), nil
}

// NewFromSession wraps an already resolved Session.
func NewFromSession(s *Session, logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		session: s,
		logger:  logger.Named("client"),
	}
}

// Session returns the session the client is bound to.
func (c *Client) Session() *Session {
	return c.session
}

// request describes one REST call.
type request struct {
	method  string
	path    string
	params  map[string]string
	headers map[string]string

	// unscoped skips the accounts/{accountId}/ prefix.
	unscoped bool
}

// do issues r and returns the raw body.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	defaults, err := c.session.auth.Headers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build authentication headers: %w", err)
	}

	method := r.method
	if method == "" {
		method = http.MethodGet
	}

	return c.session.transport.Do(ctx, method, c.requestPath(r), r.params, mergeHeaders(defaults, r.headers))
}

// getObject issues a GET and decodes the body as a JSON object.
func (c *Client) getObject(ctx context.Context, op, path string, params map[string]string) (map[string]any, error) {
	body, err := c.do(ctx, request{path: path, params: params})
	if err != nil {
		return nil, err
	}
	return decodeObject(op, body)
}

// requestPath prefixes the account scope and ensures a single leading slash.
func (c *Client) requestPath(r request) string {
	path := strings.TrimLeft(r.path, "/")
	if !r.unscoped {
		path = "accounts/" + c.session.accountID + "/" + path
	}
	return "/" + path
}

// mergeHeaders returns defaults overlaid with extra. Keys in extra replace
// keys in defaults; no default is dropped.
func mergeHeaders(defaults, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(extra))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
