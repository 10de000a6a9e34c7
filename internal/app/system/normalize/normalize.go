// Package normalize centralizes the small string normalizations applied to
// user-entered identity fields before they hit the database.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status lowercases and trims a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Slug lowercases and trims a chapter slug.
func Slug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
