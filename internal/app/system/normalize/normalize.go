// Package normalize provides canonicalization helpers for user-supplied
// identity fields before they are stored or compared.
package normalize

import "strings"

// Email trims surrounding whitespace and lowercases an email address.
func Email(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Name trims surrounding whitespace from a display name. Case is preserved;
// case-insensitive comparison goes through the folded *_ci fields instead.
func Name(name string) string {
	return strings.TrimSpace(name)
}
