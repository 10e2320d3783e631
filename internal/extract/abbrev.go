package extract

import (
	"strings"
	"unicode"
)

// abbrevStopwords are skipped when generating an abbreviation from a
// certificate name. "certificate" itself is dropped so the CSSC family
// abbreviates the way operators expect.
var abbrevStopwords = map[string]struct{}{
	"of": {}, "the": {}, "and": {}, "for": {}, "on": {}, "in": {}, "to": {},
	"certificate": {}, "certificates": {},
}

// ResolveAbbrev picks the certificate abbreviation used in storage file
// names: an explicit abbreviation from extraction wins, otherwise one is
// generated deterministically from the certificate name. Never returns the
// full name unmodified and never returns empty for a non-empty name.
func ResolveAbbrev(explicit, certName string) string {
	if a := strings.ToUpper(strings.TrimSpace(explicit)); a != "" && !strings.EqualFold(a, certName) {
		return a
	}
	return GenerateAbbrev(certName)
}

// GenerateAbbrev builds an initialism from the significant words of name.
// Same name, same result.
func GenerateAbbrev(name string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if _, skip := abbrevStopwords[strings.ToLower(word)]; skip {
			continue
		}
		r := []rune(word)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		// name was all stopwords ("Certificate"); fall back to a fixed tag
		return "CERT"
	}
	return b.String()
}
