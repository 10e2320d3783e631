package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryCSSC = `CARGO SHIP SAFETY CONSTRUCTION CERTIFICATE
Issued under the provisions of the International Convention for the Safety of Life at Sea, 1974

Certificate No: VN-2024-00123
Name of ship: PACIFIC GLORY
IMO Number: 9176187
Issued by: Vietnam Register

This is to certify that the ship was surveyed in accordance with the Convention.
Date of issue: 01/03/2024
Valid until: 01 March 2029
Last annual endorsement: 15/02/2025
This Full Term certificate is subject to annual survey.
`

func TestManualTier_LabelledFields(t *testing.T) {
	tier := NewManualTier(nil)

	f, err := tier.Attempt(context.Background(), Input{SummaryText: summaryCSSC})
	require.NoError(t, err)

	assert.Equal(t, "CARGO SHIP SAFETY CONSTRUCTION CERTIFICATE", f.CertName)
	assert.Equal(t, "VN-2024-00123", f.CertNo)
	assert.Equal(t, "PACIFIC GLORY", f.ShipName)
	assert.Equal(t, "9176187", f.IMONumber)
	assert.Equal(t, "Vietnam Register", f.Authority)
	assert.Equal(t, "01/03/2024", f.IssueDate)
	assert.Equal(t, "01 March 2029", f.ValidDate)
	assert.Equal(t, "15/02/2025", f.LastEndorseDate)
	assert.Equal(t, "Full Term", f.CertType)
	assert.Equal(t, "annual", f.NextSurveyType)
}

func TestManualTier_Deterministic(t *testing.T) {
	tier := NewManualTier(nil)

	a, err := tier.Attempt(context.Background(), Input{SummaryText: summaryCSSC})
	require.NoError(t, err)
	b, err := tier.Attempt(context.Background(), Input{SummaryText: summaryCSSC})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestManualTier_EmptyTextYieldsEmptyFields(t *testing.T) {
	tier := NewManualTier(nil)

	f, err := tier.Attempt(context.Background(), Input{SummaryText: ""})
	require.NoError(t, err)
	assert.Empty(t, f.CertName)
	assert.Empty(t, f.CertNo)
}

func TestRegexTier_NarrowPatterns(t *testing.T) {
	tier := NewRegexTier(nil)

	text := `SAFETY EQUIPMENT CERTIFICATE
No. SE/9921/24 issued 05/06/2024 for ship 9176187, expires 05/06/2026`
	f, err := tier.Attempt(context.Background(), Input{SummaryText: text})
	require.NoError(t, err)

	assert.Equal(t, "SAFETY EQUIPMENT CERTIFICATE", f.CertName)
	assert.Equal(t, "SE/9921/24", f.CertNo)
	assert.Equal(t, "9176187", f.IMONumber)
	assert.Equal(t, "05/06/2024", f.IssueDate)
	assert.Equal(t, "05/06/2026", f.ValidDate)
}

func TestRegexTier_IMOMustStartWithEightOrNine(t *testing.T) {
	tier := NewRegexTier(nil)

	f, err := tier.Attempt(context.Background(), Input{SummaryText: "ship number 1234567 in text"})
	require.NoError(t, err)
	assert.Empty(t, f.IMONumber)
}

func TestRegexTier_FilenameFallbackForName(t *testing.T) {
	tier := NewRegexTier(nil)

	f, err := tier.Attempt(context.Background(), Input{
		SummaryText:  "illegible scan",
		FilenameHint: "Load Line Certificate.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "Load Line Certificate", f.CertName)
}
