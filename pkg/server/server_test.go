package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kataras/figma-dash/pkg/figma"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	files map[string]*figma.FileResponse
	err   error
}

func (s *stubFetcher) GetFile(_ context.Context, fileKey string) (*figma.FileResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	f, ok := s.files[fileKey]
	if !ok {
		return nil, &figma.APIError{StatusCode: http.StatusNotFound, Body: `{"status":404,"err":"Not found"}`}
	}
	return f, nil
}

func (s *stubFetcher) GetFileNodes(ctx context.Context, fileKey string, nodeIDs []string) (*figma.NodesResponse, error) {
	f, err := s.GetFile(ctx, fileKey)
	if err != nil {
		return nil, err
	}

	resp := &figma.NodesResponse{Name: f.Name, Nodes: map[string]*figma.NodeData{}}
	var walk func(n *figma.Node)
	walk = func(n *figma.Node) {
		for _, id := range nodeIDs {
			if n.ID == id {
				resp.Nodes[id] = &figma.NodeData{Document: *n}
			}
		}
		for i := range n.Children {
			walk(&n.Children[i])
		}
	}
	if f.Document != nil {
		walk(f.Document)
	}
	return resp, nil
}

func sampleFetcher(t *testing.T) *stubFetcher {
	t.Helper()
	var file figma.FileResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Served",
		"document": {"type": "DOCUMENT", "children": [
			{"type": "CANVAS", "name": "Page 1", "children": [
				{"type": "COMPONENT", "id": "1:1", "name": "Button", "fills": [{"type": "SOLID", "color": {"r": 1, "g": 0, "b": 0}}]}
			]}
		]}
	}`), &file))
	return &stubFetcher{files: map[string]*figma.FileResponse{"ABC123": &file}}
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := New(sampleFetcher(t), nil, Config{})

	rec := do(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestOutline(t *testing.T) {
	s := New(sampleFetcher(t), nil, Config{})

	tests := []struct {
		name        string
		target      string
		contentType string
		contains    string
	}{
		{"default text", "/files/ABC123/outline", "text/plain; charset=utf-8", "FIGMA DESIGN OUTLINE: Served"},
		{"markdown", "/files/ABC123/outline?format=md", "text/markdown; charset=utf-8", "# Figma Design Outline - Served"},
		{"json", "/files/ABC123/outline?format=json", "application/json", `"fileName": "Served"`},
		{"yaml", "/files/ABC123/outline?format=yaml", "application/yaml", "fileName: Served"},
		{"html", "/files/ABC123/outline?format=html", "text/html; charset=utf-8", "<title>Figma Design Outline - Served</title>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.target)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestOutlineNodeIDs(t *testing.T) {
	s := New(sampleFetcher(t), nil, Config{})

	rec := do(t, s, "/files/ABC123/outline?format=json&node-ids=1-1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary struct {
		FileName   string              `json:"fileName"`
		Components []map[string]string `json:"components"`
		Frames     []map[string]string `json:"frames"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "Served", summary.FileName)
	assert.Len(t, summary.Components, 1)
	assert.Empty(t, summary.Frames)
}

func TestOutlineDefaultFormat(t *testing.T) {
	s := New(sampleFetcher(t), nil, Config{DefaultFormat: "json"})

	rec := do(t, s, "/files/ABC123/outline")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestOutlineErrors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *stubFetcher
		cfg     Config
		target  string
		status  int
	}{
		{"unknown format", sampleFetcher(t), Config{}, "/files/ABC123/outline?format=pdf", http.StatusBadRequest},
		{"invalid key", sampleFetcher(t), Config{}, "/files/bad-key!/outline", http.StatusBadRequest},
		{"unknown file", sampleFetcher(t), Config{}, "/files/NOPE/outline", http.StatusNotFound},
		{"forbidden", &stubFetcher{err: &figma.APIError{StatusCode: http.StatusForbidden}}, Config{}, "/files/ABC123/outline", http.StatusForbidden},
		{"upstream down", &stubFetcher{err: context.DeadlineExceeded}, Config{}, "/files/ABC123/outline", http.StatusBadGateway},
		{"too deep", sampleFetcher(t), Config{MaxDepth: 1}, "/files/ABC123/outline", http.StatusUnprocessableEntity},
		{"unknown node", sampleFetcher(t), Config{}, "/files/ABC123/outline?node-ids=9:9", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.fetcher, nil, tt.cfg)
			rec := do(t, s, tt.target)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	s := New(sampleFetcher(t), log, Config{})

	do(t, s, "/files/NOPE/outline")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lastLine(buf.Bytes()), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "/files/NOPE/outline", entry["path"])
	assert.EqualValues(t, http.StatusNotFound, entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func lastLine(b []byte) []byte {
	lines := bytes.Split(bytes.TrimSpace(b), []byte("\n"))
	return lines[len(lines)-1]
}
