package survey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/common"
	"github.com/fleetdocs/shipcert/internal/dates"
	"github.com/fleetdocs/shipcert/internal/entity"
)

func dockingTestExtractor() *DockingExtractor {
	parser := dates.NewParserAt(func() time.Time {
		return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	})
	return NewDockingExtractor(parser, nil)
}

func cssc(name, content string) *entity.Certificate {
	return &entity.Certificate{
		CertName: name,
		CertType: constants.FullTerm,
		Content:  content,
	}
}

func TestDockingExtract_MostRecentFirst(t *testing.T) {
	ex := dockingTestExtractor()

	certs := []*entity.Certificate{
		cssc("Cargo Ship Safety Construction Certificate",
			"Dry docking survey completed on 12/03/2021.\nDate of issue: 20/03/2021"),
		cssc("CSSC",
			"Docking survey carried out 05/09/2023 at Hyundai Vinashin yard."),
	}

	got, err := ex.Extract(certs)
	require.NoError(t, err)

	assert.True(t, got.LastDocking.Equal(time.Date(2023, 9, 5, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, got.LastDocking2)
	assert.True(t, got.LastDocking2.Equal(time.Date(2021, 3, 20, 0, 0, 0, 0, time.UTC)))
	assert.False(t, got.LastDocking.Before(*got.LastDocking2), "last_docking must be >= last_docking_2")
}

func TestDockingExtract_TwoDatesOrdered(t *testing.T) {
	ex := dockingTestExtractor()

	certs := []*entity.Certificate{
		cssc("Dry Dock Survey Record",
			"Dry dock on 01/02/2020. Previous dry dock 15/07/2022."),
	}

	got, err := ex.Extract(certs)
	require.NoError(t, err)
	require.NotNil(t, got.LastDocking2)
	assert.False(t, got.LastDocking.Before(*got.LastDocking2))
}

func TestDockingExtract_DeduplicatesExactDates(t *testing.T) {
	ex := dockingTestExtractor()

	certs := []*entity.Certificate{
		cssc("Safety Construction Certificate",
			"Dry dock 10/10/2022. Docking survey 10/10/2022."),
	}

	got, err := ex.Extract(certs)
	require.NoError(t, err)
	assert.Nil(t, got.LastDocking2, "the same date found twice counts once")
}

func TestDockingExtract_IgnoresNonFullTerm(t *testing.T) {
	ex := dockingTestExtractor()

	interim := cssc("Safety Construction Certificate", "Dry dock 10/10/2022.")
	interim.CertType = constants.Interim

	_, err := ex.Extract([]*entity.Certificate{interim})
	assert.ErrorIs(t, err, common.ErrNoDockingData)
}

func TestDockingExtract_NoKeywordMatch(t *testing.T) {
	ex := dockingTestExtractor()

	certs := []*entity.Certificate{
		cssc("International Oil Pollution Prevention Certificate", "Issued 10/10/2022."),
	}
	_, err := ex.Extract(certs)
	assert.ErrorIs(t, err, common.ErrNoDockingData)
}

func TestDockingExtract_DiscardsOutOfRangeDates(t *testing.T) {
	ex := dockingTestExtractor()

	certs := []*entity.Certificate{
		cssc("CSSC", "Dry dock 10/10/1975. Keel laid 01/01/1970."),
	}
	_, err := ex.Extract(certs)
	assert.ErrorIs(t, err, common.ErrNoDockingData)
}

func TestDockingExtract_MonthNameDates(t *testing.T) {
	ex := dockingTestExtractor()

	certs := []*entity.Certificate{
		cssc("Docking Survey Statement", "Docking survey completed on 7 November 2024."),
	}
	got, err := ex.Extract(certs)
	require.NoError(t, err)
	assert.Equal(t, "07/11/2024", dates.Format(got.LastDocking))
}
