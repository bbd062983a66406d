package formatter

import (
	"fmt"
	"strings"

	"github.com/kataras/figma-dash/pkg/extractor"
)

const ruleWidth = 60

var (
	banner = strings.Repeat("=", ruleWidth)
	rule   = strings.Repeat("-", ruleWidth)
)

// ToOutline renders a feature summary as the plain text outline printed by
// the CLI. Sections whose collection is empty are left out entirely; the
// closing SUMMARY block is always present and reports the raw collection
// sizes of the summary.
func ToOutline(summary *extractor.FeatureSummary) string {
	if summary == nil {
		summary = &extractor.FeatureSummary{}
	}

	fileName := summary.FileName
	if fileName == "" {
		fileName = extractor.DefaultFileName
	}

	lines := []string{
		banner,
		"FIGMA DESIGN OUTLINE: " + fileName,
		banner,
		"",
	}

	if len(summary.Components) > 0 {
		lines = append(lines, "📦 COMPONENTS", rule)
		for _, c := range summary.Components {
			lines = append(lines, "  • "+orDefault(c.Name, "Unnamed Component"))
			if c.Description != "" {
				lines = append(lines, "    Description: "+c.Description)
			}
		}
		lines = append(lines, "", fmt.Sprintf("  Total: %d component(s)", len(summary.Components)), "")
	}

	if len(summary.Frames) > 0 {
		lines = append(lines, "🖼️  FRAMES & PAGES", rule)
		for _, f := range summary.Frames {
			lines = append(lines, fmt.Sprintf("  • %s (%s)", orDefault(f.Name, "Unnamed"), f.Type))
		}
		lines = append(lines, "", fmt.Sprintf("  Total: %d frame(s)", len(summary.Frames)), "")
	}

	if len(summary.Colors) > 0 {
		lines = append(lines, "🎨 COLOR PALETTE", rule)
		for i, hex := range summary.Colors {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, hex))
		}
		lines = append(lines, "", fmt.Sprintf("  Total: %d unique color(s)", len(summary.Colors)), "")
	}

	if len(summary.TextStyles) > 0 {
		styles := uniqueTextStyles(summary.TextStyles)

		lines = append(lines, "📝 TEXT STYLES", rule)
		for i, s := range styles {
			lines = append(lines, fmt.Sprintf("  %d. %s - %spx (Weight: %s)",
				i+1,
				styleOrDefault(s.FontFamily.String(), s.FontFamily.IsAbsent(), "Unknown"),
				styleOrDefault(s.FontSize.String(), s.FontSize.IsAbsent(), "?"),
				styleOrDefault(s.FontWeight.String(), s.FontWeight.IsAbsent(), "?"),
			))
		}
		lines = append(lines, "", fmt.Sprintf("  Total: %d unique text style(s)", len(styles)), "")
	}

	lines = append(lines,
		banner,
		"SUMMARY",
		banner,
		fmt.Sprintf("Components: %d", len(summary.Components)),
		fmt.Sprintf("Frames: %d", len(summary.Frames)),
		fmt.Sprintf("Colors: %d", len(summary.Colors)),
		fmt.Sprintf("Text Styles: %d", len(summary.TextStyles)),
		banner,
	)

	return strings.Join(lines, "\n")
}

// textStyleKey is the composite family_size_weight key. Unlike
// TextStyle.Equal it compares stringified values, so 16 and "16" collide.
func textStyleKey(s extractor.TextStyle) string {
	return s.FontFamily.String() + "_" + s.FontSize.String() + "_" + s.FontWeight.String()
}

// uniqueTextStyles keeps the first style for each textStyleKey, in order.
func uniqueTextStyles(styles []extractor.TextStyle) []extractor.TextStyle {
	seen := make(map[string]struct{}, len(styles))
	unique := make([]extractor.TextStyle, 0, len(styles))

	for _, s := range styles {
		key := textStyleKey(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, s)
	}

	return unique
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func styleOrDefault(s string, absent bool, def string) string {
	if absent {
		return def
	}
	return s
}
