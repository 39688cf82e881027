// Package htmlsanitize strips unsafe markup from user-generated content
// before it is stored. Recipe descriptions, instructions, and comment bodies
// all pass through here; titles and names are reduced to plain text.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize keeps common formatting markup (paragraphs, emphasis, lists,
// links) and removes scripts, event handlers, and javascript: URLs.
func Sanitize(s string) string {
	return ugcPolicy.Sanitize(s)
}

// PlainText strips all markup, for single-line fields like titles.
func PlainText(s string) string {
	return strictPolicy.Sanitize(s)
}
