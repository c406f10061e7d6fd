// Package htmlsanitize cleans user-supplied HTML before it is stored.
//
// Description fields accept a limited rich-text subset; everything else
// (script, event handlers, iframes, forms) is stripped. Name and client
// fields are plain text and go through StripTags instead.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = buildRichPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

func buildRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("style").OnElements("table", "thead", "tbody", "tr", "th", "td")
	return p
}

// Sanitize returns the input with unsafe HTML removed. Safe formatting
// (paragraphs, emphasis, lists, tables, code blocks, images with http(s)
// sources) is preserved.
func Sanitize(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(richPolicy.Sanitize(input))
}

// StripTags removes all HTML, leaving only text content. Used for fields
// that must never contain markup.
func StripTags(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(plainPolicy.Sanitize(input))
}
