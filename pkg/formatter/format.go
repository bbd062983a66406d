package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/kataras/figma-dash/pkg/extractor"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// Format names an output rendering of a feature summary.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatHTML     Format = "html"
)

// Formats lists every supported format, text first.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML, FormatHTML}

// ParseFormat resolves a format name. The empty string means text; "md" and
// "yml" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown output format %q (must be text, markdown, json, yaml or html)", name)
}

// ContentType returns the MIME type of the rendered format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render renders summary in the given format.
func Render(summary *extractor.FeatureSummary, format Format) (string, error) {
	switch format {
	case FormatText, "":
		return ToOutline(summary), nil
	case FormatMarkdown:
		return ToMarkdown(summary), nil
	case FormatJSON:
		return ToJSON(summary)
	case FormatYAML:
		return ToYAML(summary)
	case FormatHTML:
		return ToHTML(summary)
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

// ToJSON encodes the summary as indented JSON.
func ToJSON(summary *extractor.FeatureSummary) (string, error) {
	return encodeJSON(summary)
}

// ToYAML encodes the summary as YAML.
func ToYAML(summary *extractor.FeatureSummary) (string, error) {
	return encodeYAML(summary)
}

func encodeJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return string(b) + "\n", nil
}

func encodeYAML(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return buf.String(), nil
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ToHTML renders the markdown report as a standalone HTML page.
func ToHTML(summary *extractor.FeatureSummary) (string, error) {
	title := extractor.DefaultFileName
	if summary != nil && summary.FileName != "" {
		title = summary.FileName
	}
	return markdownPage("Figma Design Outline - "+title, ToMarkdown(summary))
}

// markdownPage converts md to a standalone HTML page. Names come from the
// design file, so the converted body goes through bluemonday before it is
// embedded.
func markdownPage(title, md string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(title)))
	sb.WriteString("</head>\n<body>\n")
	sb.Write(bluemonday.UGCPolicy().SanitizeBytes(body.Bytes()))
	sb.WriteString("</body>\n</html>\n")

	return sb.String(), nil
}
