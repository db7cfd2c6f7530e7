package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

var fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make keeps letters of any script so Hangul and kana titles still produce a readable slug.
func Make(input string) string {
	s, _, err := transform.String(fold, strings.TrimSpace(input))
	if err != nil {
		s = strings.TrimSpace(input)
	}
	s = strings.ToLower(s)
	s = nonWord.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}
