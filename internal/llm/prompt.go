package llm

import (
	"strings"
)

// BuildSystemPrompt composes the system message with the closed enums, ship
// context, and strict-but-practical formatting rules.
func BuildSystemPrompt(req ExtractRequest) string {
	var typeLine string
	if len(req.AllowedCertTypes) > 0 {
		typeLine = "If the document states a term type, 'cert_type' MUST be exactly one of: " +
			strings.Join(req.AllowedCertTypes, ", ") + ". Omit it if the term is not stated. "
	} else {
		typeLine = "'cert_type' must be a short term-type label (e.g. Full Term, Interim). "
	}

	var surveyLine string
	if len(req.AllowedSurveyTypes) > 0 {
		surveyLine = "If a next survey is named, 'next_survey_type' MUST be one of: " +
			strings.Join(req.AllowedSurveyTypes, ", ") + ". "
	}

	var ctxBits []string
	if n := strings.TrimSpace(req.ShipName); n != "" {
		ctxBits = append(ctxBits, "Target ship: "+n+".")
	}
	if imo := strings.TrimSpace(req.IMO); imo != "" {
		ctxBits = append(ctxBits, "Target IMO: "+imo+".")
	}

	parts := []string{
		"You are a maritime certificate parser. Return ONLY JSON that matches the provided JSON Schema.",
		"The input is OCR text from a scanned ship compliance certificate (safety, load line, pollution prevention, class, and similar).",
		"Copy 'cert_name' and 'cert_no' exactly as printed, including punctuation.",
		"Report all dates exactly as printed on the document; do not reformat or guess missing parts.",
		"'ship_name' and 'imo_number' must come from the document itself, never from the target ship context.",
		typeLine,
		surveyLine,
		"If the certificate prints an abbreviation of its own name (e.g. CSSC, IOPP), include it as 'cert_abbrev'.",
		"Include 'confidence' as high, medium, or low for the extraction as a whole.",
		"Never output null. If a field is not present, omit it.",
	}
	if len(ctxBits) > 0 {
		parts = append(parts, "Ship context (hint only): "+strings.Join(ctxBits, " "))
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the filename hint plus the summary text,
// truncated the same way for every tier so results stay comparable.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if filename := strings.TrimSpace(req.FilenameHint); filename != "" {
		b.WriteString("Filename: ")
		b.WriteString(filename)
		b.WriteString("\n")
	}
	b.WriteString("\nDocument text (first ~6k chars):\n")
	text := strings.TrimSpace(req.SummaryText)
	if len(text) > 6000 {
		b.WriteString(text[:6000])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(text)
	}
	return b.String()
}
