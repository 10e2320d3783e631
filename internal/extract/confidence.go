package extract

import (
	"strings"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/entity"
)

// trackedFieldCount is the size of the full field set a tier can populate
// (everything on CertificateFields except the confidence label).
const trackedFieldCount = 11

// Assessment scores one tier's output. All components are exposed so the
// caller can log why a result was (in)sufficient.
type Assessment struct {
	Confidence       float64 // combined score, 0..1
	CriticalCoverage float64 // fraction of {cert_name, cert_no, ship_name}
	FieldCoverage    float64 // fraction of all tracked fields
	TextQualityOK    bool    // summary text long enough to trust
	IsCertificate    bool    // document classifies as a certificate
}

// Sufficient applies the acceptance gates: combined confidence, critical
// coverage, overall coverage, text quality, and document classification all
// have to pass.
func (a Assessment) Sufficient(minConfidence float64) bool {
	return a.Confidence >= minConfidence &&
		a.CriticalCoverage >= constants.MinCriticalFieldCoverage &&
		a.FieldCoverage >= constants.MinFieldCoverage &&
		a.TextQualityOK &&
		a.IsCertificate
}

// Assess scores fields extracted from summaryText. The model's self-reported
// label (high/medium/low) anchors the score when present; field coverage
// does the rest.
func Assess(fields entity.CertificateFields, summaryText string) Assessment {
	labelScore := 0.5 // neutral when the tier reports no label
	switch strings.ToLower(fields.ConfidenceLabel) {
	case "high":
		labelScore = 0.8
	case "medium":
		labelScore = 0.6
	case "low":
		labelScore = 0.3
	}

	critical := 0
	if fields.CertName != "" {
		critical++
	}
	if fields.CertNo != "" {
		critical++
	}
	if fields.ShipName != "" {
		critical++
	}
	criticalCoverage := float64(critical) / 3

	present := 0
	for _, v := range []string{
		fields.CertName, fields.CertAbbrev, fields.CertType, fields.CertNo,
		fields.IssueDate, fields.ValidDate, fields.LastEndorseDate,
		fields.NextSurveyType, fields.Authority, fields.ShipName, fields.IMONumber,
	} {
		if v != "" {
			present++
		}
	}
	fieldCoverage := float64(present) / trackedFieldCount

	return Assessment{
		Confidence:       0.5*labelScore + 0.3*criticalCoverage + 0.2*fieldCoverage,
		CriticalCoverage: criticalCoverage,
		FieldCoverage:    fieldCoverage,
		TextQualityOK:    len(strings.TrimSpace(summaryText)) >= constants.MinSummaryTextLength,
		IsCertificate:    ClassifiesAsCertificate(summaryText),
	}
}

// certificateMarkers are the keyword/structure heuristic for telling a
// compliance certificate apart from an arbitrary scanned page.
var certificateMarkers = []string{
	"certificate",
	"this is to certify",
	"issued under the provisions",
	"convention",
	"surveyor",
	"classification society",
	"flag state",
}

// ClassifiesAsCertificate reports whether text looks like a compliance
// certificate rather than an arbitrary document.
func ClassifiesAsCertificate(text string) bool {
	t := strings.ToLower(text)
	for _, marker := range certificateMarkers {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}
