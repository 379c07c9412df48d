package render

import (
	"html"
	"regexp"
	"strings"
)

// DescriptionLimit is the rune threshold beyond which card descriptions are
// truncated behind a show-more control.
const DescriptionLimit = 150

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.+?)\*`)
	codePattern   = regexp.MustCompile("`(.+?)`")
)

// escape HTML-escapes user-supplied text. Every interpolation in this
// package goes through here before any other transformation.
func escape(s string) string {
	return html.EscapeString(s)
}

// applyInlineFormatting converts the small whitelisted markup subset.
// It must only ever run on already-escaped text.
func applyInlineFormatting(escaped string) string {
	out := boldPattern.ReplaceAllString(escaped, "<strong>$1</strong>")
	out = italicPattern.ReplaceAllString(out, "<em>$1</em>")
	out = codePattern.ReplaceAllString(out, "<code>$1</code>")
	return out
}

// formatDescription renders a description: escape first, then the inline
// whitelist, then newline conversion. When truncate is set, text beyond
// DescriptionLimit runes is cut and a show-more control appended.
func formatDescription(desc, bulletinID string, truncate bool) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}

	truncated := false
	if truncate {
		runes := []rune(desc)
		if len(runes) > DescriptionLimit {
			desc = string(runes[:DescriptionLimit])
			truncated = true
		}
	}

	var sb strings.Builder
	for _, para := range strings.Split(desc, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		formatted := applyInlineFormatting(escape(para))
		formatted = strings.ReplaceAll(formatted, "\n", "<br>")
		sb.WriteString("<p>")
		sb.WriteString(formatted)
		sb.WriteString("</p>")
	}

	if truncated {
		sb.WriteString(`<button type="button" class="show-more-btn" data-bulletin-id="` +
			escape(bulletinID) + `">Show more</button>`)
	}
	return sb.String()
}
