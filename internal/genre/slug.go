// Package genre turns free-form genre labels into stable matching keys.
package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a label to a URL-safe slug.
// "Non Fiction" -> "non-fiction".
// "Science Fiction" -> "science-fiction".
// "Ficción" -> "ficcion".
func Slugify(s string) string {
	// NFKD splits accented letters so the ASCII filter keeps the base letter.
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
