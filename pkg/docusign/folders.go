package docusign

import (
	"context"
	"fmt"
	"net/url"
)

// FolderScope selects which folders ListFolders returns.
type FolderScope string

const (
	// FolderScopeEnvelopes lists envelope folders only.
	FolderScopeEnvelopes FolderScope = ""
	// FolderScopeTemplatesOnly asks for template folders. The API is known to
	// return inconsistent results for this scope.
	FolderScopeTemplatesOnly FolderScope = "only"
	// FolderScopeInclude lists both envelope and template folders.
	FolderScopeInclude FolderScope = "include"
)

// Valid reports whether s is a known scope.
func (s FolderScope) Valid() bool {
	switch s {
	case FolderScopeEnvelopes, FolderScopeTemplatesOnly, FolderScopeInclude:
		return true
	}
	return false
}

// Folder is a node of the folder tree.
type Folder struct {
	FolderID string
	Name     string
	Folders  []Folder
}

// FlattenFolders maps the id of every folder reachable from roots, at any
// depth, to its name. Parents are visited before their children. The input
// is not modified.
func FlattenFolders(roots ...Folder) map[string]string {
	out := make(map[string]string)

	stack := make([]*Folder, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, &roots[i])
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		out[f.FolderID] = f.Name
		for i := len(f.Folders) - 1; i >= 0; i-- {
			stack = append(stack, &f.Folders[i])
		}
	}
	return out
}

// ListFolders returns every accessible folder in scope as a flat id to name
// mapping. An unknown scope fails before any request is made.
func (c *Client) ListFolders(ctx context.Context, scope FolderScope) (map[string]string, error) {
	const op = "ListFolders"

	if !scope.Valid() {
		return nil, invalidArgument(op, "unknown folder scope %q, expected \"\", %q or %q",
			scope, FolderScopeTemplatesOnly, FolderScopeInclude)
	}

	var params map[string]string
	if scope != FolderScopeEnvelopes {
		params = map[string]string{"template": string(scope)}
	}

	obj, err := c.getObject(ctx, op, "folders", params)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	items, err := collection(op, obj, "folders")
	if err != nil {
		return nil, err
	}

	roots, err := decodeFolders(op, items)
	if err != nil {
		return nil, err
	}
	return FlattenFolders(roots...), nil
}

type folderNode struct {
	FolderID string `mapstructure:"folderId"`
	Name     string `mapstructure:"name"`
	Folders  []any  `mapstructure:"folders"`
}

// decodeFolders builds Folder trees from raw folder objects without
// recursion. Each pending entry points at the slot its node decodes into.
func decodeFolders(op string, items []any) ([]Folder, error) {
	type pending struct {
		raw any
		dst *Folder
	}

	roots := make([]Folder, len(items))
	stack := make([]pending, 0, len(items))
	for i := range items {
		stack = append(stack, pending{raw: items[i], dst: &roots[i]})
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var node folderNode
		if err := decodeItem(op, p.raw, &node, "folderId", "name"); err != nil {
			return nil, err
		}
		p.dst.FolderID = node.FolderID
		p.dst.Name = node.Name

		if len(node.Folders) == 0 {
			continue
		}
		p.dst.Folders = make([]Folder, len(node.Folders))
		for i := range node.Folders {
			stack = append(stack, pending{raw: node.Folders[i], dst: &p.dst.Folders[i]})
		}
	}
	return roots, nil
}

type folderItem struct {
	EnvelopeID string `mapstructure:"envelopeId"`
	Subject    string `mapstructure:"subject"`
	Status     string `mapstructure:"status"`
}

// ListFolderContents maps the id of each envelope in a folder to its subject,
// suffixed with " (status)" when includeStatus is set.
//
// Only the first page of results is read. The API pages folder contents
// (totalSetSize and friends) but further pages are never requested.
func (c *Client) ListFolderContents(ctx context.Context, folderID string, includeStatus bool) (map[string]string, error) {
	const op = "ListFolderContents"

	obj, err := c.getObject(ctx, op, "folders/"+url.PathEscape(folderID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder contents: %w", err)
	}
	items, err := collection(op, obj, "folderItems")
	if err != nil {
		return nil, err
	}

	required := []string{"envelopeId", "subject"}
	if includeStatus {
		required = append(required, "status")
	}

	envelopes := make(map[string]string, len(items))
	for _, item := range items {
		var fi folderItem
		if err := decodeItem(op, item, &fi, required...); err != nil {
			return nil, err
		}
		subject := fi.Subject
		if includeStatus {
			subject += " (" + fi.Status + ")"
		}
		envelopes[fi.EnvelopeID] = subject
	}
	return envelopes, nil
}
