package docusign

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// decodeObject parses a JSON object body.
func decodeObject(op string, body []byte) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, malformed(op, "response is not a JSON object: %v", err)
	}
	if obj == nil {
		return nil, malformed(op, "response is null")
	}
	return obj, nil
}

// collection returns the list stored under key. A missing or null key is an
// empty collection.
func collection(op string, obj map[string]any, key string) ([]any, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, malformed(op, "%q is a %T, expected a list", key, raw)
	}
	return items, nil
}

// decodeItem decodes one JSON object into out and fails if any of the
// required keys is absent or null.
func decodeItem(op string, item any, out any, required ...string) error {
	m, ok := item.(map[string]any)
	if !ok {
		return malformed(op, "item is a %T, expected an object", item)
	}

	if missing := missingKeys(m, required); len(missing) > 0 {
		return malformed(op, "missing required key(s) %s", strings.Join(missing, ", "))
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(m); err != nil {
		return malformed(op, "%v", err)
	}
	return nil
}

// missingKeys returns the required keys that are absent from m or null.
func missingKeys(m map[string]any, required []string) []string {
	var missing []string
	for _, r := range required {
		if m[r] == nil {
			missing = append(missing, r)
		}
	}
	return missing
}
