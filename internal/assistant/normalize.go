package assistant

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a transcript before any matching: lowercase,
// diacritics stripped, everything removed except ASCII alphanumerics,
// whitespace and the Arabic script block (Urdu text must survive), then
// whitespace collapsed. Every matcher in this package operates on this
// form only.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = norm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining mark left over from NFD decomposition.
			continue
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r >= 0x0600 && r <= 0x06FF:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

// Tokens splits a normalized string into its whitespace-separated tokens.
func Tokens(s string) []string {
	return strings.Fields(s)
}
