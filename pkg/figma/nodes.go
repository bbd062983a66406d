package figma

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrNodeNotFound is matched by the error returned when a requested node id
// is not part of the file.
var ErrNodeNotFound = errors.New("node not found")

var nodesPathPattern = regexp.MustCompile(`/nodes/([^/?#]+)`)

// ExtractNodeIDs returns the node ids selected by a Figma URL, read from the
// node-id query parameter, a /nodes/ path segment or the fragment, in that
// order of preference. A bare file key or a URL without a selection yields an
// empty slice.
func ExtractNodeIDs(fileURL string) ([]string, error) {
	s := strings.TrimSpace(fileURL)
	if !strings.Contains(s, "/") {
		return []string{}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse Figma URL: %w", err)
	}

	if ids := u.Query().Get("node-id"); ids != "" {
		return ParseNodeIDs(ids), nil
	}
	if matches := nodesPathPattern.FindStringSubmatch(u.Path); len(matches) == 2 {
		return ParseNodeIDs(matches[1]), nil
	}
	return ParseNodeIDs(u.Fragment), nil
}

// ParseNodeIDs splits a comma-separated list of node ids. Entries are
// trimmed, the URL form "12-34" is rewritten to the API form "12:34", and
// empty or repeated entries are dropped.
func ParseNodeIDs(s string) []string {
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))

	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		ids = append(ids, strings.ReplaceAll(id, "-", ":"))
	}

	return deduplicateNodeIDs(ids)
}

func deduplicateNodeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}

// File turns the requested subtrees into a FileResponse whose document is a
// DOCUMENT node holding them in request order. Every id must be present.
func (r *NodesResponse) File(nodeIDs []string) (*FileResponse, error) {
	ids := ParseNodeIDs(strings.Join(nodeIDs, ","))

	root := Node{Type: NodeDocument, Name: r.Name, Children: make([]Node, 0, len(ids))}
	var missing []string
	for _, id := range ids {
		data := r.Nodes[id]
		if data == nil {
			missing = append(missing, id)
			continue
		}
		root.Children = append(root.Children, data.Document)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, strings.Join(missing, ", "))
	}

	return &FileResponse{
		Name:         r.Name,
		LastModified: r.LastModified,
		Version:      r.Version,
		Document:     &root,
	}, nil
}
