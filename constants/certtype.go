package constants

import "strings"

// CertType is the closed set of certificate term types. Unrecognized labels
// from extraction canonicalize to FullTerm.
type CertType string

const (
	FullTerm    CertType = "FullTerm"
	Interim     CertType = "Interim"
	Provisional CertType = "Provisional"
	ShortTerm   CertType = "ShortTerm"
	Conditional CertType = "Conditional"
	OtherTerm   CertType = "Other"
)

var allCertTypes = []CertType{
	FullTerm,
	Interim,
	Provisional,
	ShortTerm,
	Conditional,
	OtherTerm,
}

func CertTypeStrings() []string {
	result := make([]string, len(allCertTypes))
	for i, t := range allCertTypes {
		result[i] = string(t)
	}
	return result
}

// CanonicalizeCertType maps free-text term labels onto the closed enum.
// The boolean reports whether the label was recognized; unrecognized input
// falls back to FullTerm.
func CanonicalizeCertType(input string) (CertType, bool) {
	if input == "" {
		return FullTerm, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms seen on real certificates
	synonyms := map[string]CertType{
		"full term":    FullTerm,
		"full-term":    FullTerm,
		"permanent":    FullTerm,
		"interim":      Interim,
		"provisional":  Provisional,
		"short term":   ShortTerm,
		"short-term":   ShortTerm,
		"conditional":  Conditional,
		"conditioned":  Conditional,
		"other":        OtherTerm,
		"miscellanous": OtherTerm,
	}
	if t, ok := synonyms[normalized]; ok {
		return t, true
	}

	for _, t := range allCertTypes {
		if normalized == strings.ToLower(string(t)) {
			return t, true
		}
	}

	return FullTerm, false
}
