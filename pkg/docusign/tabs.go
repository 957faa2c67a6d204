package docusign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
)

// TabType is the tab-type name used as a key in the tabs response.
type TabType string

// Tab types with dedicated extraction rules. Any other name is treated like
// a text tab.
const (
	TextTabs         TabType = "textTabs"
	FullNameTabs     TabType = "fullNameTabs"
	EmailAddressTabs TabType = "emailAddressTabs"
	SignHereTabs     TabType = "signHereTabs"
	CheckboxTabs     TabType = "checkboxTabs"
	InitialHereTabs  TabType = "initialHereTabs"
	RadioGroupTabs   TabType = "radioGroupTabs"
)

// Normalized values for boolean-like tabs. Unsigned signature tabs also use
// TabValueFalse.
const (
	TabValueTrue  = "1"
	TabValueFalse = "0"
)

// Tab is one normalized field.
type Tab struct {
	Type  TabType
	ID    string
	Label string
	Value string
}

// TabSet holds normalized tabs in response order.
type TabSet struct {
	tabs []Tab
}

// Tabs returns the normalized tabs in response order.
func (s *TabSet) Tabs() []Tab {
	out := make([]Tab, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// Flat maps label to value. Tabs sharing a label overwrite each other, so
// the tab that appears last in the response wins.
func (s *TabSet) Flat() map[string]string {
	out := make(map[string]string, len(s.tabs))
	for _, t := range s.tabs {
		out[t.Label] = t.Value
	}
	return out
}

// Grouped maps tab type to tab id to a single {label: value} entry. Every
// tab needs an id; a radio group without its own tabId is keyed by its
// group name.
func (s *TabSet) Grouped() (map[string]map[string]map[string]string, error) {
	out := make(map[string]map[string]map[string]string)
	for _, t := range s.tabs {
		if t.ID == "" {
			return nil, malformed("Grouped", "%s tab %q has no tabId", t.Type, t.Label)
		}
		byID, ok := out[string(t.Type)]
		if !ok {
			byID = make(map[string]map[string]string)
			out[string(t.Type)] = byID
		}
		byID[t.ID] = map[string]string{t.Label: t.Value}
	}
	return out, nil
}

// ListTabs returns the normalized tabs of one recipient on an envelope.
// Use Flat or Grouped on the result to pick the output shape.
func (c *Client) ListTabs(ctx context.Context, envelopeID, recipientID string) (*TabSet, error) {
	path := fmt.Sprintf("envelopes/%s/recipients/%s/tabs",
		url.PathEscape(envelopeID),
		url.PathEscape(recipientID))

	body, err := c.do(ctx, request{path: path})
	if err != nil {
		return nil, fmt.Errorf("failed to list tabs: %w", err)
	}

	return NormalizeTabs(body)
}

// NormalizeTabs converts a raw tabs response, an object of tab-type name to
// list of tabs, into a TabSet. Tab types and the tabs within them keep their
// response order.
func NormalizeTabs(body []byte) (*TabSet, error) {
	const op = "NormalizeTabs"

	groups, err := decodeTabGroups(op, body)
	if err != nil {
		return nil, err
	}

	set := &TabSet{}
	for _, g := range groups {
		var items []any
		if err := json.Unmarshal(g.raw, &items); err != nil {
			return nil, malformed(op, "%s is not a list: %v", g.typ, err)
		}
		for _, item := range items {
			tab, err := extractTab(op, g.typ, item)
			if err != nil {
				return nil, err
			}
			set.tabs = append(set.tabs, tab)
		}
	}
	return set, nil
}

type tabGroup struct {
	typ TabType
	raw json.RawMessage
}

// decodeTabGroups reads the top-level object key by key so the order of tab
// types survives decoding.
func decodeTabGroups(op string, body []byte) ([]tabGroup, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(op, "response is not JSON: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, malformed(op, "response is not a JSON object")
	}

	var groups []tabGroup
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(op, "%v", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, malformed(op, "unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, malformed(op, "%s: %v", key, err)
		}
		groups = append(groups, tabGroup{typ: TabType(key), raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, malformed(op, "%v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed(op, "unexpected data after JSON object")
	}
	return groups, nil
}

type valueTab struct {
	TabID    string `mapstructure:"tabId"`
	TabLabel string `mapstructure:"tabLabel"`
	Value    string `mapstructure:"value"`
}

type statusTab struct {
	TabID    string `mapstructure:"tabId"`
	TabLabel string `mapstructure:"tabLabel"`
	Status   string `mapstructure:"status"`
}

type checkboxTab struct {
	TabID    string `mapstructure:"tabId"`
	TabLabel string `mapstructure:"tabLabel"`
	Selected string `mapstructure:"selected"`
}

type radioGroupTab struct {
	TabID     string        `mapstructure:"tabId"`
	GroupName string        `mapstructure:"groupName"`
	Radios    []radioOption `mapstructure:"radios"`
}

type radioOption struct {
	Value    string `mapstructure:"value"`
	Selected string `mapstructure:"selected"`
}

// extractTab applies the extraction rule for typ to one tab object.
func extractTab(op string, typ TabType, item any) (Tab, error) {
	switch typ {
	case RadioGroupTabs:
		var t radioGroupTab
		if err := decodeItem(op, item, &t, "groupName"); err != nil {
			return Tab{}, err
		}
		// Several selected radios should not happen; the last one wins.
		value := ""
		for _, r := range t.Radios {
			if r.Selected == "true" {
				value = r.Value
			}
		}
		id := t.TabID
		if id == "" {
			id = t.GroupName
		}
		return Tab{Type: typ, ID: id, Label: t.GroupName, Value: value}, nil

	case SignHereTabs:
		var t statusTab
		if err := decodeItem(op, item, &t, "tabLabel"); err != nil {
			return Tab{}, err
		}
		value := t.Status
		if value == "" {
			value = TabValueFalse
		}
		return Tab{Type: typ, ID: t.TabID, Label: t.TabLabel, Value: value}, nil

	case CheckboxTabs:
		var t checkboxTab
		if err := decodeItem(op, item, &t, "tabLabel"); err != nil {
			return Tab{}, err
		}
		return Tab{Type: typ, ID: t.TabID, Label: t.TabLabel, Value: boolValue(t.Selected == "true")}, nil

	case InitialHereTabs:
		var t statusTab
		if err := decodeItem(op, item, &t, "tabLabel"); err != nil {
			return Tab{}, err
		}
		return Tab{Type: typ, ID: t.TabID, Label: t.TabLabel, Value: boolValue(t.Status == "signed")}, nil

	default:
		// textTabs, fullNameTabs, emailAddressTabs and unknown types.
		var t valueTab
		if err := decodeItem(op, item, &t, "tabLabel"); err != nil {
			return Tab{}, err
		}
		return Tab{Type: typ, ID: t.TabID, Label: t.TabLabel, Value: t.Value}, nil
	}
}

func boolValue(b bool) string {
	if b {
		return TabValueTrue
	}
	return TabValueFalse
}
