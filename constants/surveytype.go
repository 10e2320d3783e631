package constants

import "strings"

// SurveyType is the canonical next-survey classification on a certificate.
type SurveyType string

const (
	AnnualSurvey       SurveyType = "AnnualSurvey"
	IntermediateSurvey SurveyType = "IntermediateSurvey"
	SpecialSurvey      SurveyType = "SpecialSurvey"
	RenewalSurvey      SurveyType = "Renewal"
	OtherSurvey        SurveyType = "Other"
)

var allSurveyTypes = []SurveyType{
	AnnualSurvey,
	IntermediateSurvey,
	SpecialSurvey,
	RenewalSurvey,
	OtherSurvey,
}

func SurveyTypeStrings() []string {
	result := make([]string, len(allSurveyTypes))
	for i, t := range allSurveyTypes {
		result[i] = string(t)
	}
	return result
}

// CanonicalizeSurveyType maps free-text survey labels onto the enum.
// Unrecognized input falls back to OtherSurvey.
func CanonicalizeSurveyType(input string) (SurveyType, bool) {
	if input == "" {
		return OtherSurvey, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]SurveyType{
		"annual":         AnnualSurvey,
		"annual survey":  AnnualSurvey,
		"intermediate":   IntermediateSurvey,
		"special":        SpecialSurvey,
		"special survey": SpecialSurvey,
		"renewal":        RenewalSurvey,
		"renewal survey": RenewalSurvey,
	}
	if t, ok := synonyms[normalized]; ok {
		return t, true
	}

	for _, t := range allSurveyTypes {
		if normalized == strings.ToLower(string(t)) {
			return t, true
		}
	}

	return OtherSurvey, false
}
