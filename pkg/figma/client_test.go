package figma

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFileKey(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "valid /file/ URL",
			url:  "https://www.figma.com/file/ABC123XYZ/Design-Name",
			want: "ABC123XYZ",
		},
		{
			name: "valid /design/ URL",
			url:  "https://www.figma.com/design/ABC123XYZ/Design-Name",
			want: "ABC123XYZ",
		},
		{
			name: "valid /proto/ URL",
			url:  "https://www.figma.com/proto/ABC123XYZ/Design-Name",
			want: "ABC123XYZ",
		},
		{
			name: "URL with node-id parameter",
			url:  "https://www.figma.com/design/4gkABR5gEZnIvlCaXmA4KI/Makis-s-file?node-id=11933-305884",
			want: "4gkABR5gEZnIvlCaXmA4KI",
		},
		{
			name: "URL with query directly after key",
			url:  "https://www.figma.com/file/ABC123XYZ?node-id=1-2",
			want: "ABC123XYZ",
		},
		{
			name: "URL without www subdomain",
			url:  "https://figma.com/file/ABC123XYZ/Design-Name",
			want: "ABC123XYZ",
		},
		{
			name: "URL with http protocol",
			url:  "http://www.figma.com/file/ABC123XYZ/Design-Name",
			want: "ABC123XYZ",
		},
		{
			name: "URL with trailing slash",
			url:  "https://www.figma.com/file/ABC123XYZ/",
			want: "ABC123XYZ",
		},
		{
			name: "bare file key",
			url:  "ABC123XYZ",
			want: "ABC123XYZ",
		},
		{
			name: "bare file key with surrounding spaces",
			url:  "  ABC123XYZ \n",
			want: "ABC123XYZ",
		},
		{
			name:    "invalid URL - missing file key",
			url:     "https://www.figma.com/file/",
			wantErr: true,
		},
		{
			name:    "invalid URL - wrong domain",
			url:     "https://www.example.com/file/ABC123XYZ",
			wantErr: true,
		},
		{
			name:    "invalid URL - wrong path",
			url:     "https://www.figma.com/dashboard/ABC123XYZ",
			wantErr: true,
		},
		{
			name:    "empty URL",
			url:     "",
			wantErr: true,
		},
		{
			name:    "key with path separator",
			url:     "ABC/123",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractFileKey(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func withFastRetries(t *testing.T) {
	t.Helper()
	old := RetryDelay
	RetryDelay = time.Millisecond
	t.Cleanup(func() { RetryDelay = old })
}

func TestGetFile(t *testing.T) {
	var gotToken, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Figma-Token")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Design System","version":"42","document":{"type":"DOCUMENT","children":[{"type":"CANVAS","name":"Page 1"}]}}`))
	}))
	defer srv.Close()

	client := NewClient("secret", WithBaseURL(srv.URL+"/"))
	file, err := client.GetFile(context.Background(), "ABC123")
	require.NoError(t, err)

	assert.Equal(t, "secret", gotToken)
	assert.Equal(t, "/files/ABC123", gotPath)
	assert.Equal(t, "Design System", file.Name)
	assert.Equal(t, "42", file.Version)
	require.NotNil(t, file.Document)
	assert.Equal(t, NodeDocument, file.Document.Type)
	require.Len(t, file.Document.Children, 1)
	assert.Equal(t, "Page 1", file.Document.Children[0].Name)
}

func TestGetFileOAuth(t *testing.T) {
	var gotAuth, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotToken = r.Header.Get("X-Figma-Token")
		w.Write([]byte(`{"name":"x"}`))
	}))
	defer srv.Close()

	client := NewClient("oauth-token", WithBaseURL(srv.URL), WithOAuth(true))
	_, err := client.GetFile(context.Background(), "ABC123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer oauth-token", gotAuth)
	assert.Empty(t, gotToken)
}

func TestGetFileRetries(t *testing.T) {
	withFastRetries(t)

	tests := []struct {
		name       string
		statuses   []int
		wantCalls  int32
		wantErr    bool
		wantStatus int
	}{
		{
			name:      "succeeds after rate limit",
			statuses:  []int{http.StatusTooManyRequests, http.StatusOK},
			wantCalls: 2,
		},
		{
			name:      "succeeds after server error",
			statuses:  []int{http.StatusBadGateway, http.StatusInternalServerError, http.StatusOK},
			wantCalls: 3,
		},
		{
			name:       "gives up after three attempts",
			statuses:   []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusOK},
			wantCalls:  3,
			wantErr:    true,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "does not retry forbidden",
			statuses:   []int{http.StatusForbidden, http.StatusOK},
			wantCalls:  1,
			wantErr:    true,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "does not retry not found",
			statuses:   []int{http.StatusNotFound},
			wantCalls:  1,
			wantErr:    true,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				status := tt.statuses[int(n)-1]
				if status != http.StatusOK {
					http.Error(w, `{"status":`+http.StatusText(status)+`}`, status)
					return
				}
				w.Write([]byte(`{"name":"Recovered","document":{"type":"DOCUMENT"}}`))
			}))
			defer srv.Close()

			client := NewClient("secret", WithBaseURL(srv.URL))
			file, err := client.GetFile(context.Background(), "KEY")

			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantErr {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr), "want *APIError, got %v", err)
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Recovered", file.Name)
		})
	}
}

func TestGetFileMalformedBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"name": "broken",,}`))
	}))
	defer srv.Close()

	client := NewClient("secret", WithBaseURL(srv.URL))
	_, err := client.GetFile(context.Background(), "KEY")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetFileCanceled(t *testing.T) {
	withFastRetries(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("secret", WithBaseURL(srv.URL))
	_, err := client.GetFile(ctx, "KEY")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractNodeIDs(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want []string
	}{
		{"single node-id with colon", "https://www.figma.com/file/ABC123/Design?node-id=123:456", []string{"123:456"}},
		{"url encoded colon", "https://www.figma.com/file/ABC123/Design?node-id=123%3A456", []string{"123:456"}},
		{"dash form", "https://www.figma.com/design/4gkABR5gEZnIvlCaXmA4KI/File?node-id=11933-305884", []string{"11933:305884"}},
		{"additional parameters", "https://www.figma.com/design/4gkABR5gEZnIvlCaXmA4KI/File?node-id=11933-305884&t=ObvUckUHZc8tSjeT-1", []string{"11933:305884"}},
		{"node-id as middle parameter", "https://www.figma.com/file/ABC123/Design?first=value&node-id=123:456&last=value", []string{"123:456"}},
		{"multiple mixed", "https://www.figma.com/file/ABC123/Design?node-id=123:456,789-012", []string{"123:456", "789:012"}},
		{"spaces trimmed", "https://www.figma.com/file/ABC123/Design?node-id=123:456, 789:012", []string{"123:456", "789:012"}},
		{"duplicates dropped", "https://www.figma.com/file/ABC123/Design?node-id=123:456,123:456,789:012", []string{"123:456", "789:012"}},
		{"fragment", "https://www.figma.com/file/ABC123/Design#123:456,789:012", []string{"123:456", "789:012"}},
		{"path", "https://www.figma.com/file/ABC123/Design/nodes/123:456,789:012", []string{"123:456", "789:012"}},
		{"no selection", "https://www.figma.com/file/ABC123/Design", []string{}},
		{"empty node-id", "https://www.figma.com/file/ABC123/Design?node-id=", []string{}},
		{"bare key", "ABC123", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractNodeIDs(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNodeIDs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"only separators", " , ,", []string{}},
		{"preserves order", "789:012, 123:456,789:012,345-678", []string{"789:012", "123:456", "345:678"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNodeIDs(tt.in))
		})
	}
}

func TestGetFileNodes(t *testing.T) {
	var gotPath, gotIDs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotIDs = r.URL.Query().Get("ids")
		w.Write([]byte(`{
			"name": "Design System",
			"version": "7",
			"nodes": {
				"1:2": {"document": {"id": "1:2", "type": "FRAME", "name": "Card"}, "components": {"3:4": {"key": "k", "name": "Button"}}},
				"9:9": null
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient("secret", WithBaseURL(srv.URL))
	resp, err := client.GetFileNodes(context.Background(), "ABC123", []string{"1-2", "9:9", "1:2"})
	require.NoError(t, err)

	assert.Equal(t, "/files/ABC123/nodes", gotPath)
	assert.Equal(t, "1:2,9:9", gotIDs)
	assert.Equal(t, "Design System", resp.Name)
	require.NotNil(t, resp.Nodes["1:2"])
	assert.Equal(t, "Card", resp.Nodes["1:2"].Document.Name)
	assert.Equal(t, "Button", resp.Nodes["1:2"].Components["3:4"].Name)
	assert.Nil(t, resp.Nodes["9:9"])

	t.Run("file keeps request order", func(t *testing.T) {
		file, err := resp.File([]string{"1:2"})
		require.NoError(t, err)
		assert.Equal(t, "Design System", file.Name)
		require.NotNil(t, file.Document)
		assert.Equal(t, NodeDocument, file.Document.Type)
		require.Len(t, file.Document.Children, 1)
		assert.Equal(t, "Card", file.Document.Children[0].Name)
	})

	t.Run("missing node", func(t *testing.T) {
		_, err := resp.File([]string{"1:2", "9-9", "5:5"})
		assert.ErrorIs(t, err, ErrNodeNotFound)
		assert.Contains(t, err.Error(), "9:9, 5:5")
	})

	t.Run("no ids", func(t *testing.T) {
		_, err := client.GetFileNodes(context.Background(), "ABC123", []string{" "})
		assert.Error(t, err)
	})
}

func TestGetFileComponents(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Figma-Token")
		w.Write([]byte(`{"status": 200, "error": false, "meta": {"components": [
			{"key": "c1", "file_key": "ABC123", "node_id": "1:1", "name": "Button/Primary", "description": "Main action",
			 "containing_frame": {"name": "Buttons", "nodeId": "1:0", "pageName": "Library"}}
		]}}`))
	}))
	defer srv.Close()

	client := NewClient("secret", WithBaseURL(srv.URL))
	resp, err := client.GetFileComponents(context.Background(), "ABC123")
	require.NoError(t, err)

	assert.Equal(t, "/files/ABC123/components", gotPath)
	assert.Equal(t, "secret", gotToken)
	require.Len(t, resp.Meta.Components, 1)
	c := resp.Meta.Components[0]
	assert.Equal(t, "Button/Primary", c.Name)
	assert.Equal(t, "1:1", c.NodeID)
	require.NotNil(t, c.ContainingFrame)
	assert.Equal(t, "Library", c.ContainingFrame.PageName)
}

func TestGetFileStyles(t *testing.T) {
	withFastRetries(t)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		assert.Equal(t, "/files/ABC123/styles", r.URL.Path)
		w.Write([]byte(`{"meta": {"styles": [
			{"key": "s1", "node_id": "2:1", "style_type": "FILL", "name": "Brand/Blue"},
			{"key": "s2", "node_id": "2:2", "style_type": "TEXT", "name": "Heading/H1", "description": "Page titles"}
		]}}`))
	}))
	defer srv.Close()

	client := NewClient("secret", WithBaseURL(srv.URL))
	resp, err := client.GetFileStyles(context.Background(), "ABC123")
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, resp.Meta.Styles, 2)
	assert.Equal(t, "FILL", resp.Meta.Styles[0].StyleType)
	assert.Equal(t, "Page titles", resp.Meta.Styles[1].Description)

	t.Run("api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"status":404,"err":"Not found"}`, http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewClient("secret", WithBaseURL(srv.URL)).GetFileStyles(context.Background(), "NOPE")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})
}
