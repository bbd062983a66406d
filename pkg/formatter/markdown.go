package formatter

import (
	"fmt"
	"strings"

	"github.com/kataras/figma-dash/pkg/extractor"
)

// ToMarkdown transforms a feature summary into a markdown document: tables
// for components and text styles, a page/frame list, and CSS custom
// properties for the color palette and text styles, ready to paste into a
// stylesheet.
func ToMarkdown(summary *extractor.FeatureSummary) string {
	if summary == nil {
		summary = &extractor.FeatureSummary{}
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Figma Design Outline - %s\n\n", orDefault(summary.FileName, extractor.DefaultFileName)))
	sb.WriteString("This document lists the design features extracted from the Figma file.\n\n")

	// Components
	if len(summary.Components) > 0 {
		sb.WriteString("## Components\n\n")
		sb.WriteString("| Component | ID | Description |\n")
		sb.WriteString("|-----------|----|-------------|\n")
		for _, c := range summary.Components {
			sb.WriteString(fmt.Sprintf("| %s | `%s` | %s |\n",
				escapeCell(orDefault(c.Name, "Unnamed Component")),
				escapeCell(c.ID),
				escapeCell(c.Description)))
		}
		sb.WriteString("\n")
	}

	// Frames
	if len(summary.Frames) > 0 {
		sb.WriteString("## Frames & Pages\n\n")
		for _, f := range summary.Frames {
			sb.WriteString(fmt.Sprintf("- **%s** (`%s`)\n", orDefault(f.Name, "Unnamed"), f.Type))
		}
		sb.WriteString("\n")
	}

	// Colors
	if len(summary.Colors) > 0 {
		sb.WriteString("## Color Palette\n\n")
		sb.WriteString("```css\n")
		for i, hex := range summary.Colors {
			sb.WriteString(fmt.Sprintf("--color-%d: %s;\n", i+1, hex))
		}
		sb.WriteString("```\n\n")
	}

	// Typography
	if len(summary.TextStyles) > 0 {
		styles := uniqueTextStyles(summary.TextStyles)

		sb.WriteString("## Text Styles\n\n")
		sb.WriteString("| # | Font Family | Size | Weight |\n")
		sb.WriteString("|---|-------------|------|--------|\n")
		for i, s := range styles {
			sb.WriteString(fmt.Sprintf("| %d | %s | %spx | %s |\n",
				i+1,
				escapeCell(styleOrDefault(s.FontFamily.String(), s.FontFamily.IsAbsent(), "Unknown")),
				escapeCell(styleOrDefault(s.FontSize.String(), s.FontSize.IsAbsent(), "?")),
				escapeCell(styleOrDefault(s.FontWeight.String(), s.FontWeight.IsAbsent(), "?"))))
		}
		sb.WriteString("\n")

		sb.WriteString("```css\n")
		for _, s := range styles {
			sb.WriteString(textStyleRule(s))
		}
		sb.WriteString("```\n\n")
	}

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Feature | Count |\n")
	sb.WriteString("|---------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Components | %d |\n", len(summary.Components)))
	sb.WriteString(fmt.Sprintf("| Frames | %d |\n", len(summary.Frames)))
	sb.WriteString(fmt.Sprintf("| Colors | %d |\n", len(summary.Colors)))
	sb.WriteString(fmt.Sprintf("| Text Styles | %d |\n", len(summary.TextStyles)))

	return sb.String()
}

// textStyleRule renders one text style as a CSS class. Absent fields are
// left out of the declaration block.
func textStyleRule(s extractor.TextStyle) string {
	nameParts := []string{"text"}
	var decls []string

	if !s.FontFamily.IsAbsent() {
		nameParts = append(nameParts, s.FontFamily.String())
		decls = append(decls, fmt.Sprintf("  font-family: '%s', system-ui, sans-serif;", s.FontFamily.String()))
	}
	if !s.FontSize.IsAbsent() {
		nameParts = append(nameParts, s.FontSize.String())
		decls = append(decls, fmt.Sprintf("  font-size: %spx;", s.FontSize.String()))
	}
	if !s.FontWeight.IsAbsent() {
		nameParts = append(nameParts, s.FontWeight.String())
		decls = append(decls, fmt.Sprintf("  font-weight: %s;", s.FontWeight.String()))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(".%s {\n", toKebabCase(strings.Join(nameParts, " "))))
	for _, d := range decls {
		sb.WriteString(d + "\n")
	}
	sb.WriteString("}\n")

	return sb.String()
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
// This is used for generating CSS class names from font names.
// Special characters are removed, and spaces/underscores are replaced with hyphens.
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}

	return result.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
