package docusign

import (
	"context"
	"fmt"
	"net/url"
)

type templateRef struct {
	TemplateID string `mapstructure:"templateId"`
	Name       string `mapstructure:"name"`
}

// ListTemplatesForEnvelope maps template id to name for the templates an
// envelope was created from.
func (c *Client) ListTemplatesForEnvelope(ctx context.Context, envelopeID string) (map[string]string, error) {
	const op = "ListTemplatesForEnvelope"

	path := fmt.Sprintf("envelopes/%s/templates", url.PathEscape(envelopeID))

	obj, err := c.getObject(ctx, op, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list envelope templates: %w", err)
	}
	return templateMap(op, obj, "templates")
}

// ListTemplatesInFolder maps template id to name for the templates stored in
// a folder.
func (c *Client) ListTemplatesInFolder(ctx context.Context, folderID string) (map[string]string, error) {
	const op = "ListTemplatesInFolder"

	obj, err := c.getObject(ctx, op, "templates?folder="+url.QueryEscape(folderID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder templates: %w", err)
	}
	return templateMap(op, obj, "envelopeTemplates")
}

func templateMap(op string, obj map[string]any, key string) (map[string]string, error) {
	items, err := collection(op, obj, key)
	if err != nil {
		return nil, err
	}

	templates := make(map[string]string, len(items))
	for _, item := range items {
		var t templateRef
		if err := decodeItem(op, item, &t, "templateId", "name"); err != nil {
			return nil, err
		}
		templates[t.TemplateID] = t.Name
	}
	return templates, nil
}
