// Package config loads the docusign CLI configuration file.
//
// Example configuration (HCL):
//
//	host       = "https://demo.docusign.net/restapi/v2"
//	account_id = env("DOCUSIGN_ACCOUNT_ID")
//	log_level  = "info"
//
//	legacy_auth {
//	  username       = env("DOCUSIGN_USERNAME")
//	  password       = env("DOCUSIGN_PASSWORD")
//	  integrator_key = env("DOCUSIGN_INTEGRATOR_KEY")
//	}
//
//	transport {
//	  timeout    = "30s"
//	  tls_verify = true
//	}
//
//	archive {
//	  directory = "./documents"
//	}
//
// jwt_auth may replace legacy_auth; exactly one of the two must be present.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/hashicorp-forge/docusign-adapter/internal/archive"
	"github.com/hashicorp-forge/docusign-adapter/pkg/docusign"
	"github.com/hashicorp-forge/docusign-adapter/pkg/docusign/jwtauth"
	"github.com/hashicorp-forge/docusign-adapter/pkg/docusign/transport"
)

// Config is the root of the configuration file.
type Config struct {
	// Host is the login discovery host.
	Host string `hcl:"host"`

	// AccountID selects the account to bind. Without it the first account
	// listed at login is used.
	AccountID string `hcl:"account_id,optional"`

	// LogLevel is one of trace, debug, info, warn, error or off.
	LogLevel string `hcl:"log_level,optional"`

	LegacyAuth *LegacyAuth `hcl:"legacy_auth,block"`
	JWTAuth    *JWTAuth    `hcl:"jwt_auth,block"`
	Transport  *Transport  `hcl:"transport,block"`
	Archive    *Archive    `hcl:"archive,block"`

	// dir is the directory of the loaded file; relative paths resolve
	// against it.
	dir string
}

// LegacyAuth configures X-DocuSign-Authentication header credentials.
type LegacyAuth struct {
	Username      string `hcl:"username"`
	Password      string `hcl:"password"`
	IntegratorKey string `hcl:"integrator_key"`
}

// JWTAuth configures OAuth JWT grant authentication.
type JWTAuth struct {
	IntegrationKey string `hcl:"integration_key"`
	UserID         string `hcl:"user_id"`
	PrivateKeyPath string `hcl:"private_key_path"`
	OAuthHost      string `hcl:"oauth_host,optional"`
}

// Transport configures the HTTP transport.
type Transport struct {
	Timeout   string `hcl:"timeout,optional"`
	TLSVerify *bool  `hcl:"tls_verify,optional"`
	UserAgent string `hcl:"user_agent,optional"`
}

// Archive selects where downloaded documents are stored. Directory and s3
// are mutually exclusive.
type Archive struct {
	Directory string            `hcl:"directory,optional"`
	S3        *archive.S3Config `hcl:"s3,block"`
}

var logLevels = []interface{}{"", "trace", "debug", "info", "warn", "error", "off"}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required, validation.By(httpURL)),
		validation.Field(&c.LogLevel, validation.In(logLevels...)),
		validation.Field(&c.LegacyAuth,
			validation.When(c.JWTAuth == nil, validation.Required.Error("legacy_auth or jwt_auth is required")),
			validation.When(c.JWTAuth != nil, validation.Nil.Error("cannot be combined with jwt_auth")),
		),
		validation.Field(&c.JWTAuth),
		validation.Field(&c.Transport),
		validation.Field(&c.Archive),
	)
}

// Validate checks if the configuration is valid
func (a *LegacyAuth) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Username, validation.Required),
		validation.Field(&a.Password, validation.Required),
		validation.Field(&a.IntegratorKey, validation.Required),
	)
}

// Validate checks if the configuration is valid
func (a *JWTAuth) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.IntegrationKey, validation.Required),
		validation.Field(&a.UserID, validation.Required),
		validation.Field(&a.PrivateKeyPath, validation.Required),
	)
}

// Validate checks if the configuration is valid
func (t *Transport) Validate() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Timeout, validation.By(positiveDuration)),
	)
}

// Validate checks if the configuration is valid
func (a *Archive) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Directory,
			validation.When(a.S3 == nil, validation.Required.Error("directory or s3 is required")),
			validation.When(a.S3 != nil, validation.Empty.Error("cannot be combined with s3")),
		),
		validation.Field(&a.S3),
	)
}

func httpURL(value interface{}) error {
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

func positiveDuration(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("must be a duration like \"30s\": %v", err)
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

// envFunc implements env("NAME"). Unset variables yield an empty string.
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

// Load reads and validates the configuration file at path. The file must end
// in .hcl (or .json for the JSON syntax). A nil fs uses the OS filesystem.
func Load(fs afero.Fs, path string) (*Config, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := hclsimple.Decode(path, src, evalContext(), &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)

	return &cfg, nil
}

// Level returns the configured log level, info when unset.
func (c *Config) Level() hclog.Level {
	if c.LogLevel == "" {
		return hclog.Info
	}
	return hclog.LevelFromString(c.LogLevel)
}

// resolve makes p relative to the configuration file's directory.
func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// ClientConfig returns the docusign.Config for auth.
func (c *Config) ClientConfig(auth docusign.Authenticator) docusign.Config {
	return docusign.Config{
		Host:      c.Host,
		Auth:      auth,
		AccountID: c.AccountID,
	}
}

// Authenticator builds the configured authenticator. For jwt_auth the
// private key is read from fs and ctx is used for token requests.
func (c *Config) Authenticator(ctx context.Context, fs afero.Fs, logger hclog.Logger) (docusign.Authenticator, error) {
	if c.LegacyAuth != nil {
		return docusign.Credentials{
			Username:      c.LegacyAuth.Username,
			Password:      c.LegacyAuth.Password,
			IntegratorKey: c.LegacyAuth.IntegratorKey,
		}, nil
	}
	return c.JWTSource(ctx, fs, logger)
}

// JWTSource builds the JWT grant source. It fails when jwt_auth is not
// configured.
func (c *Config) JWTSource(ctx context.Context, fs afero.Fs, logger hclog.Logger) (*jwtauth.Source, error) {
	if c.JWTAuth == nil {
		return nil, errors.New("jwt_auth is not configured")
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}

	keyPath := c.resolve(c.JWTAuth.PrivateKeyPath)
	key, err := afero.ReadFile(fs, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}

	return jwtauth.New(ctx, jwtauth.Config{
		IntegrationKey: c.JWTAuth.IntegrationKey,
		UserID:         c.JWTAuth.UserID,
		PrivateKey:     key,
		OAuthHost:      c.JWTAuth.OAuthHost,
	}, logger)
}

// TransportConfig returns the transport settings with metrics attached.
func (c *Config) TransportConfig(metrics *transport.Metrics) (*transport.Config, error) {
	cfg := transport.DefaultConfig()
	cfg.Metrics = metrics
	if c.Transport == nil {
		return cfg, nil
	}

	if c.Transport.Timeout != "" {
		d, err := time.ParseDuration(c.Transport.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid transport timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if c.Transport.TLSVerify != nil {
		verify := *c.Transport.TLSVerify
		cfg.TLSVerify = &verify
	}
	cfg.UserAgent = strings.TrimSpace(c.Transport.UserAgent)
	return cfg, nil
}

// Sink builds the archive sink, or returns nil when no archive is
// configured.
func (c *Config) Sink(ctx context.Context, fs afero.Fs, logger hclog.Logger) (archive.Sink, error) {
	if c.Archive == nil {
		return nil, nil
	}
	if c.Archive.S3 != nil {
		return archive.NewS3Sink(ctx, c.Archive.S3, logger)
	}
	return archive.NewFileSink(fs, c.resolve(c.Archive.Directory), logger), nil
}
