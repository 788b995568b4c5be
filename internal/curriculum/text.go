package curriculum

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/width"
)

var (
	htmlPolicy = bluemonday.StrictPolicy()

	dayMarkerPattern = regexp.MustCompile(`(?i)\bday\s*\d+|第\s*[0-9一二三四五六七八九十百]+\s*天`)
)

// stripHTML removes markup and decodes entities, leaving plain text.
func stripHTML(value string) string {
	if !strings.ContainsAny(value, "<&") {
		return strings.TrimSpace(value)
	}
	cleaned := html.UnescapeString(htmlPolicy.Sanitize(value))
	cleaned = strings.ReplaceAll(cleaned, "\u00a0", " ")
	return strings.TrimSpace(cleaned)
}

// fold maps full-width punctuation and digits to their ASCII forms so that
// markers such as "练习：1级" match the same patterns as "Exercises: Level 1".
func fold(value string) string {
	return width.Fold.String(value)
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}

func runeLen(value string) int {
	return utf8.RuneCountInString(value)
}

// trimDecoration drops leading emoji, punctuation and spaces from heading text.
func trimDecoration(value string) string {
	return strings.TrimLeftFunc(value, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func isDayMarker(value string) bool {
	return dayMarkerPattern.MatchString(fold(value))
}
