package docusign

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// DefaultFromDate is used by ListEnvelopes when no date is given, so every
// envelope is returned.
const DefaultFromDate = "1970-01-01"

// Filters are extra envelope search parameters. A key with several values is
// sent once, with each value percent-encoded and the results comma-joined.
type Filters map[string][]string

// encode renders the filters as "&k=v" pairs in key order.
func (f Filters) encode() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		escaped := make([]string, len(f[k]))
		for i, v := range f[k] {
			escaped[i] = url.QueryEscape(v)
		}
		b.WriteString("&")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(strings.Join(escaped, ","))
	}
	return b.String()
}

type envelopeRef struct {
	EnvelopeID string `mapstructure:"envelopeId"`
}

type recipientRef struct {
	RecipientID string `mapstructure:"recipientId"`
}

// ListEnvelopes returns the ids of envelopes changed since fromDate
// (YYYY-MM-DD). Only the keys of the result are meaningful.
func (c *Client) ListEnvelopes(ctx context.Context, fromDate string, filters Filters) (map[string]struct{}, error) {
	const op = "ListEnvelopes"

	if fromDate == "" {
		fromDate = DefaultFromDate
	}
	path := "envelopes?from_date=" + url.QueryEscape(fromDate) + filters.encode()

	obj, err := c.getObject(ctx, op, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list envelopes: %w", err)
	}
	items, err := collection(op, obj, "envelopes")
	if err != nil {
		return nil, err
	}

	envelopes := make(map[string]struct{}, len(items))
	for _, item := range items {
		var ref envelopeRef
		if err := decodeItem(op, item, &ref, "envelopeId"); err != nil {
			return nil, err
		}
		envelopes[ref.EnvelopeID] = struct{}{}
	}
	return envelopes, nil
}

// ListRecipients returns the ids of the signers of an envelope.
func (c *Client) ListRecipients(ctx context.Context, envelopeID string) (map[string]struct{}, error) {
	const op = "ListRecipients"

	path := fmt.Sprintf("envelopes/%s/recipients", url.PathEscape(envelopeID))

	obj, err := c.getObject(ctx, op, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	items, err := collection(op, obj, "signers")
	if err != nil {
		return nil, err
	}

	recipients := make(map[string]struct{}, len(items))
	for _, item := range items {
		var ref recipientRef
		if err := decodeItem(op, item, &ref, "recipientId"); err != nil {
			return nil, err
		}
		recipients[ref.RecipientID] = struct{}{}
	}
	return recipients, nil
}
