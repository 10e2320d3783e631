package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetdocs/shipcert/internal/entity"
)

var sampleSummary = strings.Repeat("CARGO SHIP SAFETY CONSTRUCTION CERTIFICATE issued under the provisions of the SOLAS convention. ", 3)

func fullFields() entity.CertificateFields {
	return entity.CertificateFields{
		CertName:        "Cargo Ship Safety Construction Certificate",
		CertAbbrev:      "CSSC",
		CertType:        "FullTerm",
		CertNo:          "VN-2024-00123",
		IssueDate:       "01/03/2024",
		ValidDate:       "01/03/2029",
		NextSurveyType:  "AnnualSurvey",
		Authority:       "VR Classification",
		ShipName:        "PACIFIC GLORY",
		IMONumber:       "9176187",
		ConfidenceLabel: "high",
	}
}

func TestAssess_CompleteHighConfidenceIsSufficient(t *testing.T) {
	a := Assess(fullFields(), sampleSummary)
	assert.True(t, a.Sufficient(0.4))
	assert.Equal(t, 1.0, a.CriticalCoverage)
	assert.True(t, a.TextQualityOK)
	assert.True(t, a.IsCertificate)
}

func TestAssess_ShortSummaryDisqualifies(t *testing.T) {
	a := Assess(fullFields(), "CSSC certificate")
	assert.False(t, a.TextQualityOK)
	assert.False(t, a.Sufficient(0.4))
}

func TestAssess_MissingCriticalFieldsDisqualifies(t *testing.T) {
	f := fullFields()
	f.CertNo = ""
	f.ShipName = ""
	// 1/3 critical coverage misses the 2/3 gate
	a := Assess(f, sampleSummary)
	assert.False(t, a.Sufficient(0.4))
}

func TestAssess_TwoOfThreeCriticalPasses(t *testing.T) {
	f := fullFields()
	f.ShipName = ""
	a := Assess(f, sampleSummary)
	assert.InDelta(t, 2.0/3.0, a.CriticalCoverage, 1e-9)
	assert.True(t, a.Sufficient(0.4))
}

func TestAssess_LowLabelDragsConfidenceDown(t *testing.T) {
	f := entity.CertificateFields{
		CertName:        "Some Certificate",
		ConfidenceLabel: "low",
	}
	a := Assess(f, sampleSummary)
	assert.Less(t, a.Confidence, 0.4)
	assert.False(t, a.Sufficient(0.4))
}

func TestAssess_NonCertificateTextDisqualifies(t *testing.T) {
	prose := strings.Repeat("quarterly engine maintenance report with oil analysis results and spare parts inventory. ", 3)
	a := Assess(fullFields(), prose)
	assert.False(t, a.IsCertificate)
	assert.False(t, a.Sufficient(0.4))
}

func TestClassifiesAsCertificate(t *testing.T) {
	assert.True(t, ClassifiesAsCertificate("THIS IS TO CERTIFY that the ship..."))
	assert.True(t, ClassifiesAsCertificate("International Load Line Certificate"))
	assert.False(t, ClassifiesAsCertificate("crew shift roster for July"))
}
