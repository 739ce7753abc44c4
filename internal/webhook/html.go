package webhook

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var proposalPolicy = bluemonday.UGCPolicy()

// HTMLToText converts HTML to plain text, collapsing whitespace.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html // Fallback to original if parsing fails
	}
	return normalizeSpace(doc.Text())
}

// CleanProposal prepares webhook-returned proposal text for storage. Some
// workflows reply with HTML fragments; those are sanitized and flattened to
// text. Plain text passes through untouched.
func CleanProposal(s string) string {
	if !looksLikeHTML(s) {
		return s
	}
	return HTMLToText(proposalPolicy.Sanitize(s))
}

// looksLikeHTML is a cheap tag sniff, not a parser.
func looksLikeHTML(s string) bool {
	open := strings.IndexByte(s, '<')
	if open < 0 {
		return false
	}
	close := strings.IndexByte(s[open:], '>')
	return close > 1
}

// normalizeSpace collapses runs of whitespace into single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
