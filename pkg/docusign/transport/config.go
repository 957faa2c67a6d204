package transport

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"
)

// Config contains configuration for the HTTP transport.
//
// Example configuration (HCL):
//
//	transport {
//	  timeout    = "30s"
//	  tls_verify = true
//	  user_agent = "docusign-adapter"
//	}
type Config struct {
	// Timeout for a single request.
	// Default: 30 seconds
	Timeout time.Duration `json:"timeout,omitempty"`

	// TLSVerify controls TLS certificate verification
	// Set to false only for development/testing with self-signed certs
	TLSVerify *bool `json:"tlsVerify,omitempty"`

	// UserAgent is sent with every request when set.
	UserAgent string `json:"userAgent,omitempty"`

	// Metrics records request counts and latencies. Optional.
	Metrics *Metrics `json:"-"`

	// HTTPClient replaces the client built by NewHTTPClient. Optional.
	HTTPClient *http.Client `json:"-"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		TLSVerify: &tlsVerify,
		Timeout:   30 * time.Second,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	}
	return nil
}

// NewHTTPClient creates a configured HTTP client for this transport
func (c *Config) NewHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}

	// Configure TLS verification
	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.TLSVerify == nil {
		c.TLSVerify = defaults.TLSVerify
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
}
