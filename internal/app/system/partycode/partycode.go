// Package partycode generates the human-shareable join codes for study
// clubs. Codes are short, uppercase, and drawn from an alphabet without
// look-alike characters (no 0/O, 1/I/L) so they survive being read aloud
// or copied from a screenshot.
package partycode

import "github.com/google/uuid"

const (
	// Length is the number of characters in a party code.
	Length = 6

	alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"
)

// New returns a fresh party code. Uniqueness is enforced by the store's
// unique index; callers retry with a new code on a duplicate-key error.
func New() string {
	raw := uuid.New()
	code := make([]byte, Length)
	for i := 0; i < Length; i++ {
		code[i] = alphabet[int(raw[i])%len(alphabet)]
	}
	return string(code)
}

// Valid reports whether s has the shape of a party code: correct length and
// only characters from the code alphabet.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		found := false
		for j := 0; j < len(alphabet); j++ {
			if s[i] == alphabet[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
