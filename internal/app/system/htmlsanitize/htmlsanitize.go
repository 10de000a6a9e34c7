// Package htmlsanitize strips dangerous markup from user-supplied HTML
// before it is stored or rendered. Used for template bodies, post text, and
// chapter descriptions that admins may paste rich content into.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize removes unsafe tags and attributes, keeping common user-generated
// content markup (links, emphasis, lists, images).
func Sanitize(html string) string {
	return policy.Sanitize(html)
}

var strict = bluemonday.StrictPolicy()

// Strip removes ALL markup, returning plain text. Used where a field must
// never contain HTML (names, titles, plain-text post bodies).
func Strip(html string) string {
	return strict.Sanitize(html)
}
