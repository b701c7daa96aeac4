// Package htmlsanitize cleans user-supplied text before it is stored.
//
// Idea descriptions may carry rich text and go through Sanitize. Short
// plain-text fields (titles, taglines, bios, messages) go through PlainText,
// which removes all markup.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = newRichPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "mark", "sub", "sup")
	p.AllowAttrs("class").OnElements("table", "tr", "td", "th", "code", "pre")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// Sanitize keeps safe formatting and links and drops scripts, event handlers,
// iframes and style blocks.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return richPolicy.Sanitize(s)
}

// PlainText strips every tag and trims surrounding whitespace.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	// StrictPolicy entity-escapes text; stored plain text stays unescaped.
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}

// IsPlainText reports whether s contains no tag-like markup.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
