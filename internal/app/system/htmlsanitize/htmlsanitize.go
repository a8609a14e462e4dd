// Package htmlsanitize cleans user-supplied content before it is stored.
// Saved AI-response snippets may carry rendered markdown (headings, lists,
// code blocks, tables); party names and titles must be plain text.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows the formatting markdown rendering produces and nothing
	// executable.
	ugc = bluemonday.UGCPolicy()

	// strict strips all markup.
	strict = bluemonday.StrictPolicy()
)

func init() {
	ugc.AllowTables()
	ugc.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td", "code", "pre")
	ugc.AllowElements("u", "s", "sub", "sup", "mark", "hr")
}

// Sanitize removes dangerous markup from snippet content, keeping the
// formatting subset markdown renderers emit.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// PlainText strips every tag and collapses surrounding whitespace. Used for
// party names and snippet titles.
func PlainText(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
