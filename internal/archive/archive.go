// Package archive stores downloaded envelope documents.
package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Sink persists a named document and reports where it was written.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (location string, err error)
}

// DefaultName is the archive name for an envelope's combined documents.
func DefaultName(envelopeID string) string {
	return envelopeID + ".pdf"
}

// validateName rejects names that would escape the archive root.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.Contains(name, "\\") || !filepath.IsLocal(name) {
		return fmt.Errorf("name %q must be a relative path inside the archive", name)
	}
	return nil
}
