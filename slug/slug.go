// Package slug turns question text into the readable identifier used
// in question URLs.
package slug

import (
	"regexp"
	"strings"
)

var (
	markupTag   = regexp.MustCompile(`<[a-zA-Z/!?][^>]*>?`)
	octet       = regexp.MustCompile(`%([a-fA-F0-9][a-fA-F0-9])`)
	maskedOctet = regexp.MustCompile(`---([a-fA-F0-9][a-fA-F0-9])---`)
	entity      = regexp.MustCompile(`&.+?;`)
	disallowed  = regexp.MustCompile(`[^%a-z0-9 _-]`)
	whitespace  = regexp.MustCompile(`\s+`)
	hyphenRun   = regexp.MustCompile(`-+`)
)

const minSlugWords = 3

// StopWords are dropped from slugs that keep enough words without them.
var StopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "is": true,
	"the": true, "of": true, "for": true, "in": true, "what": true,
	"whats": true, "or": true, "to": true, "how": true, "do": true,
	"you": true, "they": true, "its": true, "if": true, "can": true,
	"test": true, "does": true, "on": true, "that": true, "was": true,
}

// Slugify returns the URL slug of text. Percent-encoded octets survive,
// everything else outside [a-z0-9_%-] is dropped, and stop words are
// removed unless fewer than three words would be left.
func Slugify(text string) string {
	s := markupTag.ReplaceAllString(strings.ToLower(text), "")

	s = octet.ReplaceAllString(s, "---$1---")
	s = strings.Replace(s, "%", "", -1)
	s = maskedOctet.ReplaceAllString(s, "%$1")

	s = entity.ReplaceAllString(s, "")
	s = strings.Replace(s, ".", "-", -1)
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	words := strings.Split(s, "-")
	kept := words[:0:0]
	for _, w := range words {
		if !StopWords[w] {
			kept = append(kept, w)
		}
	}
	if len(kept) < minSlugWords {
		return s
	}
	return strings.Join(kept, "-")
}

// Matches reports whether segment, as it appears escaped in a URL path,
// is the canonical slug for text.
func Matches(segment, text string) bool {
	return segment == Slugify(text)
}
