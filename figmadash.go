package figmadash

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kataras/figma-dash/pkg/extractor"
	"github.com/kataras/figma-dash/pkg/figma"
	"github.com/kataras/figma-dash/pkg/formatter"
)

// ErrMissingToken is returned by Run when no access token was configured.
var ErrMissingToken = errors.New("figma API token is required")

// Options configures a run.
type Options struct {
	AccessToken string
	File        string           // Figma file URL or bare file key
	NodeIDs     []string         // empty = ids selected by the File URL, or the whole file
	Format      formatter.Format // empty = text outline
	MaxDepth    int              // 0 = extractor.DefaultMaxDepth
	OAuth       bool             // send the token as an OAuth bearer token
	BaseURL     string           // empty = public Figma API
	Logger      Logger           // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fetcher retrieves a Figma file or some of its subtrees. *figma.Client
// implements it.
type Fetcher interface {
	GetFile(ctx context.Context, fileKey string) (*figma.FileResponse, error)
	GetFileNodes(ctx context.Context, fileKey string, nodeIDs []string) (*figma.NodesResponse, error)
}

// LibraryFetcher retrieves what a file publishes. *figma.Client implements it.
type LibraryFetcher interface {
	GetFileComponents(ctx context.Context, fileKey string) (*figma.ComponentsResponse, error)
	GetFileStyles(ctx context.Context, fileKey string) (*figma.StylesResponse, error)
}

// Result contains the extraction output.
type Result struct {
	Summary  *extractor.FeatureSummary
	FileName string
	Format   formatter.Format
	Output   string // rendered report
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

// NewClient builds the Figma API client described by opts.
func NewClient(opts Options) *figma.Client {
	clientOpts := []figma.ClientOption{figma.WithOAuth(opts.OAuth)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, figma.WithBaseURL(opts.BaseURL))
	}
	return figma.NewClient(opts.AccessToken, clientOpts...)
}

// Run fetches the file named by opts.File, extracts its design features and
// renders them in opts.Format.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.AccessToken == "" {
		return nil, ErrMissingToken
	}

	return RunWith(ctx, NewClient(opts), opts)
}

// RunWith is Run with a caller-supplied Fetcher; opts.AccessToken, OAuth and
// BaseURL are ignored.
func RunWith(ctx context.Context, fetcher Fetcher, opts Options) (*Result, error) {
	format := opts.Format
	if format == "" {
		format = formatter.FormatText
	}

	opts.logInfo("Extracting file key...")
	fileKey, err := figma.ExtractFileKey(opts.File)
	if err != nil {
		return nil, fmt.Errorf("extract file key: %w", err)
	}

	nodeIDs := figma.ParseNodeIDs(strings.Join(opts.NodeIDs, ","))
	if len(nodeIDs) == 0 {
		nodeIDs, err = figma.ExtractNodeIDs(opts.File)
		if err != nil {
			return nil, fmt.Errorf("extract node IDs: %w", err)
		}
	}

	if len(nodeIDs) > 0 {
		opts.logInfo("Fetching %d node(s) from Figma file: %s", len(nodeIDs), fileKey)
	} else {
		opts.logInfo("Fetching Figma file: %s", fileKey)
	}

	file, err := Fetch(ctx, fetcher, fileKey, nodeIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	if file.Document == nil {
		opts.logWarn("File %q has no document; the outline will be empty", fileKey)
	}

	opts.logInfo("Extracting design features...")
	result, err := Render(file, format, opts.MaxDepth)
	if err != nil {
		return nil, err
	}
	opts.logInfo("Found %d component(s), %d frame(s), %d color(s), %d text style(s)",
		len(result.Summary.Components),
		len(result.Summary.Frames),
		len(result.Summary.Colors),
		len(result.Summary.TextStyles))

	return result, nil
}

// Fetch retrieves the whole file, or only the subtrees rooted at nodeIDs when
// any are given. Subtrees come back under a DOCUMENT root in request order and
// a missing id fails with figma.ErrNodeNotFound.
func Fetch(ctx context.Context, fetcher Fetcher, fileKey string, nodeIDs []string) (*figma.FileResponse, error) {
	if len(nodeIDs) == 0 {
		return fetcher.GetFile(ctx, fileKey)
	}

	resp, err := fetcher.GetFileNodes(ctx, fileKey, nodeIDs)
	if err != nil {
		return nil, err
	}
	return resp.File(nodeIDs)
}

// Render extracts the features of an already fetched file and renders them.
func Render(file *figma.FileResponse, format formatter.Format, maxDepth int) (*Result, error) {
	if format == "" {
		format = formatter.FormatText
	}

	summary, err := extractor.ExtractFile(file, extractor.WithMaxDepth(maxDepth))
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}

	output, err := formatter.Render(summary, format)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", format, err)
	}

	return &Result{
		Summary:  summary,
		FileName: summary.FileName,
		Format:   format,
		Output:   output,
	}, nil
}

// LibraryResult contains the published library of a file.
type LibraryResult struct {
	Library *figma.Library
	Format  formatter.Format
	Output  string
}

// FetchLibrary retrieves the components and styles published from opts.File
// and renders them in opts.Format. Only File, Format and Logger are read.
func FetchLibrary(ctx context.Context, fetcher LibraryFetcher, opts Options) (*LibraryResult, error) {
	format := opts.Format
	if format == "" {
		format = formatter.FormatText
	}

	fileKey, err := figma.ExtractFileKey(opts.File)
	if err != nil {
		return nil, fmt.Errorf("extract file key: %w", err)
	}

	opts.logInfo("Fetching published components: %s", fileKey)
	components, err := fetcher.GetFileComponents(ctx, fileKey)
	if err != nil {
		return nil, fmt.Errorf("fetch components: %w", err)
	}

	opts.logInfo("Fetching published styles: %s", fileKey)
	styles, err := fetcher.GetFileStyles(ctx, fileKey)
	if err != nil {
		return nil, fmt.Errorf("fetch styles: %w", err)
	}

	lib := &figma.Library{
		FileKey:    fileKey,
		Components: components.Meta.Components,
		Styles:     styles.Meta.Styles,
	}
	if lib.Components == nil {
		lib.Components = []figma.PublishedComponent{}
	}
	if lib.Styles == nil {
		lib.Styles = []figma.StyleMetadata{}
	}
	opts.logInfo("Found %d published component(s), %d published style(s)", len(lib.Components), len(lib.Styles))

	output, err := formatter.RenderLibrary(lib, format)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", format, err)
	}

	return &LibraryResult{Library: lib, Format: format, Output: output}, nil
}
