// Package normalizer converts raw body tokens into canonical index terms.
// It lower-cases input, strips trailing punctuation, and rejects tokens
// that are empty or do not start with a letter.
package normalizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const trailingPunct = ".,:;?*"

// Normalize lower-cases the token, strips trailing characters from the set
// {. , : ; ? *}, and reports whether the result is a valid term. A valid
// term is non-empty and starts with a letter. Normalize is idempotent on
// accepted output and has no side effects.
func Normalize(token string) (string, bool) {
	term := strings.ToLower(token)
	term = strings.TrimRight(term, trailingPunct)
	if term == "" {
		return "", false
	}
	first, _ := utf8.DecodeRuneInString(term)
	if !unicode.IsLetter(first) {
		return "", false
	}
	return term, true
}
