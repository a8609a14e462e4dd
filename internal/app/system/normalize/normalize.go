// Package normalize holds small input-normalization helpers used by the
// stores before writing user-supplied fields.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// PartyCode uppercases and trims a club party code.
func PartyCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
