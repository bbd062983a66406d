package figma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Version is the figma-dash release reported by the CLI and sent as User-Agent.
const Version = "0.3.0"

const (
	figmaAPIBase = "https://api.figma.com/v1"
	maxRetries   = 3
)

// RetryDelay is the base wait between attempts; attempt n waits n*RetryDelay.
// Tests shrink it to avoid real sleeps.
var RetryDelay = 2 * time.Second

// APIError is returned when the Figma API answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client represents a Figma API client. It is safe for concurrent use.
type Client struct {
	accessToken string
	baseURL     string
	oauth       bool
	httpClient  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another API root, e.g. an httptest server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithOAuth sends the token as an OAuth bearer token instead of a personal
// access token.
func WithOAuth(enabled bool) ClientOption {
	return func(c *Client) {
		c.oauth = enabled
	}
}

// NewClient creates a new Figma API client with the provided token.
// The default transport keeps HTTP/2 off, which avoids stream resets on very
// large file responses, and allows up to 10 minutes per request.
func NewClient(accessToken string, opts ...ClientOption) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		ForceAttemptHTTP2:   false,
	}

	c := &Client{
		accessToken: accessToken,
		baseURL:     figmaAPIBase,
		httpClient: &http.Client{
			Timeout:   10 * time.Minute,
			Transport: transport,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

var fileURLPattern = regexp.MustCompile(`^https?://(?:www\.)?figma\.com/(?:file|design|proto)/([A-Za-z0-9]+)(?:[/?#]|$)`)

var fileKeyPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// ExtractFileKey returns the file key from a Figma URL
// (figma.com/file/KEY/..., /design/KEY/... or /proto/KEY/...). Input that is
// already a bare key is returned unchanged.
func ExtractFileKey(fileURLOrKey string) (string, error) {
	s := strings.TrimSpace(fileURLOrKey)

	if matches := fileURLPattern.FindStringSubmatch(s); len(matches) == 2 {
		return matches[1], nil
	}

	if fileKeyPattern.MatchString(s) {
		return s, nil
	}

	return "", fmt.Errorf("invalid Figma file %q: must be a figma.com /file/, /design/ or /proto/ URL or a file key", fileURLOrKey)
}

// GetFile retrieves the complete file document from the Figma API.
// Transport failures, 429 and 5xx responses are retried up to 3 attempts in
// total; any other non-200 status fails immediately with an *APIError.
func (c *Client) GetFile(ctx context.Context, fileKey string) (*FileResponse, error) {
	return getJSON[FileResponse](ctx, c, "/files/"+url.PathEscape(fileKey), nil)
}

// GetFileNodes retrieves only the subtrees rooted at nodeIDs. Ids may use the
// URL form "12-34" or the API form "12:34".
func (c *Client) GetFileNodes(ctx context.Context, fileKey string, nodeIDs []string) (*NodesResponse, error) {
	ids := ParseNodeIDs(strings.Join(nodeIDs, ","))
	if len(ids) == 0 {
		return nil, errors.New("at least one node ID is required")
	}

	query := url.Values{"ids": {strings.Join(ids, ",")}}
	return getJSON[NodesResponse](ctx, c, "/files/"+url.PathEscape(fileKey)+"/nodes", query)
}

// GetFileComponents retrieves the components published from a file.
func (c *Client) GetFileComponents(ctx context.Context, fileKey string) (*ComponentsResponse, error) {
	return getJSON[ComponentsResponse](ctx, c, "/files/"+url.PathEscape(fileKey)+"/components", nil)
}

// GetFileStyles retrieves the styles (colors, text, effects, grids) published
// from a file.
func (c *Client) GetFileStyles(ctx context.Context, fileKey string) (*StylesResponse, error) {
	return getJSON[StylesResponse](ctx, c, "/files/"+url.PathEscape(fileKey)+"/styles", nil)
}

// getJSON issues a GET against the API and decodes the body into a new T,
// retrying the way GetFile documents.
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		out := new(T)
		retry, err := c.getOnce(ctx, endpoint, attempt, out)
		if err == nil {
			return out, nil
		}

		lastErr = err
		if !retry || attempt == maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * RetryDelay):
		}
	}

	return nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, endpoint string, attempt int, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "figma-dash/"+Version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("attempt %d failed to execute request: %w", attempt, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retry, apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return false, fmt.Errorf("failed to parse response: %w", err)
		}
		return true, fmt.Errorf("attempt %d failed to read response body: %w", attempt, err)
	}

	return false, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.oauth {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
		return
	}
	req.Header.Set("X-Figma-Token", c.accessToken)
}
