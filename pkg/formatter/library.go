package formatter

import (
	"fmt"
	"strings"

	"github.com/kataras/figma-dash/pkg/figma"
)

// ToLibraryOutline renders the published components and styles of a file as
// plain text, in the layout of ToOutline.
func ToLibraryOutline(lib *figma.Library) string {
	if lib == nil {
		lib = &figma.Library{}
	}

	lines := []string{
		banner,
		"FIGMA PUBLISHED LIBRARY: " + orDefault(lib.FileKey, "unknown file"),
		banner,
		"",
		"📦 PUBLISHED COMPONENTS",
		rule,
	}

	if len(lib.Components) == 0 {
		lines = append(lines, "  No published components")
	}
	for _, c := range lib.Components {
		lines = append(lines, fmt.Sprintf("  • %s (%s)", orDefault(c.Name, "Unnamed Component"), c.NodeID))
		if c.Description != "" {
			lines = append(lines, "    Description: "+c.Description)
		}
		if where := containingFrame(c.ContainingFrame); where != "" {
			lines = append(lines, "    Frame: "+where)
		}
	}
	lines = append(lines, "", fmt.Sprintf("  Total: %d published component(s)", len(lib.Components)), "")

	lines = append(lines, "🎨 PUBLISHED STYLES", rule)
	if len(lib.Styles) == 0 {
		lines = append(lines, "  No published styles")
	}
	for _, s := range lib.Styles {
		lines = append(lines, fmt.Sprintf("  • [%s] %s (%s)", orDefault(s.StyleType, "?"), orDefault(s.Name, "Unnamed"), s.NodeID))
		if s.Description != "" {
			lines = append(lines, "    Description: "+s.Description)
		}
	}
	lines = append(lines, "", fmt.Sprintf("  Total: %d published style(s)", len(lib.Styles)), "", banner)

	return strings.Join(lines, "\n")
}

// ToLibraryMarkdown renders the published library as markdown tables.
func ToLibraryMarkdown(lib *figma.Library) string {
	if lib == nil {
		lib = &figma.Library{}
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Figma Published Library - %s\n\n", orDefault(lib.FileKey, "unknown file")))

	sb.WriteString("## Components\n\n")
	if len(lib.Components) == 0 {
		sb.WriteString("No published components.\n\n")
	} else {
		sb.WriteString("| Name | Node | Frame | Description |\n")
		sb.WriteString("|------|------|-------|-------------|\n")
		for _, c := range lib.Components {
			sb.WriteString(fmt.Sprintf("| %s | `%s` | %s | %s |\n",
				escapeCell(orDefault(c.Name, "Unnamed Component")),
				c.NodeID,
				escapeCell(containingFrame(c.ContainingFrame)),
				escapeCell(c.Description)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Styles\n\n")
	if len(lib.Styles) == 0 {
		sb.WriteString("No published styles.\n")
	} else {
		sb.WriteString("| Type | Name | Node | Description |\n")
		sb.WriteString("|------|------|------|-------------|\n")
		for _, s := range lib.Styles {
			sb.WriteString(fmt.Sprintf("| %s | %s | `%s` | %s |\n",
				s.StyleType,
				escapeCell(orDefault(s.Name, "Unnamed")),
				s.NodeID,
				escapeCell(s.Description)))
		}
	}

	return sb.String()
}

// RenderLibrary renders lib in the given format.
func RenderLibrary(lib *figma.Library, format Format) (string, error) {
	switch format {
	case FormatText, "":
		return ToLibraryOutline(lib), nil
	case FormatMarkdown:
		return ToLibraryMarkdown(lib), nil
	case FormatJSON:
		return encodeJSON(lib)
	case FormatYAML:
		return encodeYAML(lib)
	case FormatHTML:
		title := "Figma Published Library"
		if lib != nil && lib.FileKey != "" {
			title += " - " + lib.FileKey
		}
		return markdownPage(title, ToLibraryMarkdown(lib))
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

func containingFrame(f *figma.ContainingFrame) string {
	if f == nil {
		return ""
	}
	switch {
	case f.PageName != "" && f.Name != "":
		return f.PageName + " / " + f.Name
	case f.Name != "":
		return f.Name
	default:
		return f.PageName
	}
}
