package docusign

import (
	"context"
	"encoding/json"
	"fmt"
)

// Header names used by the legacy authentication scheme.
const (
	HeaderAuthentication = "X-DocuSign-Authentication"
	HeaderContentType    = "Content-Type"
)

// Authenticator supplies the default headers sent with every request.
type Authenticator interface {
	Headers(ctx context.Context) (map[string]string, error)
}

// Credentials is the legacy username/password/integrator-key payload, sent
// as JSON in the X-DocuSign-Authentication header.
type Credentials struct {
	Username      string `json:"Username"`
	Password      string `json:"Password"`
	IntegratorKey string `json:"IntegratorKey"`
}

var _ Authenticator = Credentials{}

// Headers implements Authenticator.
func (c Credentials) Headers(context.Context) (map[string]string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode authentication header: %w", err)
	}
	return map[string]string{
		HeaderContentType:    "application/json",
		HeaderAuthentication: string(payload),
	}, nil
}

// GoString keeps the password out of %#v output.
func (c Credentials) GoString() string {
	return fmt.Sprintf("docusign.Credentials{Username:%q, IntegratorKey:%q}", c.Username, c.IntegratorKey)
}
