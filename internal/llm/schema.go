package llm

// BuildCertificateJSONSchema returns a JSON-Schema (draft 2020-12 subset) as
// a generic map. We pass this to the model as a structured output constraint
// and also use it locally to validate the response.
func BuildCertificateJSONSchema(allowedCertTypes, allowedSurveyTypes []string) map[string]any {
	props := map[string]any{
		"cert_name":         map[string]any{"type": "string", "minLength": 1},
		"cert_abbrev":       map[string]any{"type": "string"},
		"cert_type":         map[string]any{"type": "string"},
		"cert_no":           map[string]any{"type": "string"},
		"issue_date":        dateProp(),
		"valid_date":        dateProp(),
		"last_endorse_date": dateProp(),
		"next_survey_type":  map[string]any{"type": "string"},
		"issuing_authority": map[string]any{"type": "string"},
		"ship_name":         map[string]any{"type": "string"},
		"imo_number":        map[string]any{"type": "string", "pattern": `^\d{7}$`},
		"confidence":        map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
	}

	if len(allowedCertTypes) > 0 {
		props["cert_type"] = map[string]any{"type": "string", "enum": allowedCertTypes}
	}
	if len(allowedSurveyTypes) > 0 {
		props["next_survey_type"] = map[string]any{"type": "string", "enum": allowedSurveyTypes}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"cert_name"},
	}
}

// dateProp accepts any of the date shapes the parser understands; the
// normalization to a calendar date happens after extraction, not here.
func dateProp() map[string]any {
	return map[string]any{"type": "string", "minLength": 4}
}
