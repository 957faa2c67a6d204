// Package jwtauth authenticates DocuSign requests with the OAuth JWT grant.
//
// A Source signs an RS256 assertion for an integration key and impersonated
// user, exchanges it for an access token at the account server and sends
// that token as a bearer header. Tokens are reused until they expire.
//
// The impersonated user must have granted consent once. Until then the
// token request fails with ErrConsentRequired and ConsentURL returns the
// page where consent is given.
package jwtauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
	oauthjwt "golang.org/x/oauth2/jwt"

	"github.com/hashicorp-forge/docusign-adapter/pkg/docusign"
)

const (
	// DemoOAuthHost is the account server for the demo environment.
	DemoOAuthHost = "account-d.docusign.com"
	// ProductionOAuthHost is the account server for production accounts.
	ProductionOAuthHost = "account.docusign.com"

	// DefaultConsentRedirectURL is registered for every integration key.
	DefaultConsentRedirectURL = "https://developers.docusign.com/platform/auth/consent"

	assertionLifetime = time.Hour
)

// DefaultScopes are requested when Config.Scopes is empty.
var DefaultScopes = []string{"signature", "impersonation"}

// ErrConsentRequired means the impersonated user has not granted consent to
// the integration key. Open ConsentURL in a browser and try again.
var ErrConsentRequired = errors.New("consent required")

// Config holds the JWT grant settings.
type Config struct {
	// IntegrationKey is the OAuth client id.
	IntegrationKey string

	// UserID is the GUID of the user to impersonate.
	UserID string

	// PrivateKey is the PEM encoded RSA key registered for the integration
	// key.
	PrivateKey []byte

	// OAuthHost is the account server, DemoOAuthHost when empty.
	OAuthHost string

	// Scopes default to DefaultScopes.
	Scopes []string

	// TokenURL overrides "https://{OAuthHost}/oauth/token".
	TokenURL string

	// ConsentRedirectURL defaults to DefaultConsentRedirectURL.
	ConsentRedirectURL string

	// HTTPClient is used for token requests. Defaults to a client with a 30
	// second timeout.
	HTTPClient *http.Client
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.IntegrationKey, validation.Required),
		validation.Field(&c.UserID, validation.Required),
		validation.Field(&c.PrivateKey, validation.Required),
	)
}

func (c *Config) applyDefaults() {
	if c.OAuthHost == "" {
		c.OAuthHost = DemoOAuthHost
	}
	if len(c.Scopes) == 0 {
		c.Scopes = DefaultScopes
	}
	if c.TokenURL == "" {
		c.TokenURL = "https://" + c.OAuthHost + "/oauth/token"
	}
	if c.ConsentRedirectURL == "" {
		c.ConsentRedirectURL = DefaultConsentRedirectURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
}

// Source is a docusign.Authenticator backed by JWT grant access tokens.
type Source struct {
	cfg    Config
	tokens oauth2.TokenSource
	logger hclog.Logger
}

var _ docusign.Authenticator = (*Source)(nil)

// New creates a Source. As with oauth2.Config.TokenSource, ctx is used for
// every token request the Source makes, so it should outlive the Source.
func New(ctx context.Context, cfg Config, logger hclog.Logger) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid jwt auth config: %w", err)
	}
	cfg.applyDefaults()

	if _, err := jwt.ParseRSAPrivateKeyFromPEM(cfg.PrivateKey); err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	grant := &oauthjwt.Config{
		Email:      cfg.IntegrationKey,
		Subject:    cfg.UserID,
		PrivateKey: cfg.PrivateKey,
		Scopes:     cfg.Scopes,
		TokenURL:   cfg.TokenURL,
		Audience:   cfg.OAuthHost,
		Expires:    assertionLifetime,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)

	s := &Source{
		cfg:    cfg,
		logger: logger.Named("jwtauth"),
	}
	s.tokens = oauth2.ReuseTokenSource(nil, &grantSource{tokens: grant.TokenSource(ctx), source: s})
	return s, nil
}

// Token returns a valid access token, requesting a new one when the cached
// token has expired.
func (s *Source) Token() (*oauth2.Token, error) {
	return s.tokens.Token()
}

// Headers implements docusign.Authenticator.
func (s *Source) Headers(context.Context) (map[string]string, error) {
	tok, err := s.Token()
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"Authorization":            tok.Type() + " " + tok.AccessToken,
		docusign.HeaderContentType: "application/json",
	}, nil
}

// ConsentURL returns the page where the impersonated user grants consent to
// the integration key.
func (s *Source) ConsentURL() string {
	q := url.Values{
		"response_type": {"code"},
		"scope":         {strings.Join(s.cfg.Scopes, " ")},
		"client_id":     {s.cfg.IntegrationKey},
		"redirect_uri":  {s.cfg.ConsentRedirectURL},
	}
	return "https://" + s.cfg.OAuthHost + "/oauth/auth?" + q.Encode()
}

// grantSource maps token endpoint failures onto ErrConsentRequired and
// oauth2.RetrieveError codes.
type grantSource struct {
	tokens oauth2.TokenSource
	source *Source
}

func (g *grantSource) Token() (*oauth2.Token, error) {
	s := g.source
	s.logger.Debug("requesting access token", "oauth_host", s.cfg.OAuthHost, "user_id", s.cfg.UserID)

	tok, err := g.tokens.Token()
	if err != nil {
		return nil, s.tokenError(err)
	}
	if tok.AccessToken == "" {
		return nil, errors.New("token response has no access_token")
	}

	s.logger.Info("access token issued", "user_id", s.cfg.UserID, "expiry", tok.Expiry)
	return tok, nil
}

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (s *Source) tokenError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return fmt.Errorf("token request failed: %w", err)
	}
	if re.ErrorCode == "" {
		var body errorBody
		if json.Unmarshal(re.Body, &body) == nil {
			re.ErrorCode = body.Error
			re.ErrorDescription = body.ErrorDescription
		}
	}
	if re.ErrorCode == "consent_required" {
		s.logger.Warn("consent required", "consent_url", s.ConsentURL())
		return fmt.Errorf("%w for user %s", ErrConsentRequired, s.cfg.UserID)
	}
	return re
}
