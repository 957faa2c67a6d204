package docusign

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// GetCombinedDocuments downloads all documents of an envelope merged into a
// single PDF.
//
// The raw bytes come from the transport's last response body and are only
// returned when the response did not decode as JSON (or decoded to null). A
// JSON response, or an empty body, yields nil with no error.
func (c *Client) GetCombinedDocuments(ctx context.Context, envelopeID string) ([]byte, error) {
	path := fmt.Sprintf("envelopes/%s/documents/combined", url.PathEscape(envelopeID))

	body, err := c.do(ctx, request{path: path})
	if err != nil {
		return nil, fmt.Errorf("failed to get combined documents: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil && decoded != nil {
		c.logger.Debug("combined documents response was JSON, returning nothing",
			"envelope_id", envelopeID)
		return nil, nil
	}

	if raw := c.session.transport.LastResponseBody(); len(raw) > 0 {
		return raw, nil
	}
	return nil, nil
}
