package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/common"
	"github.com/fleetdocs/shipcert/internal/entity"
	"github.com/fleetdocs/shipcert/internal/survey"
)

var complianceNow = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func newComplianceService(certs *memCertRepo, ships *memShipRepo) *ComplianceService {
	s := NewComplianceService(nil, certs, ships,
		survey.NewCalculator(survey.WindowConfig{}),
		survey.NewDockingExtractor(nil, nil))
	s.now = func() time.Time { return complianceNow }
	return s
}

func surveyCert(name string, surveyType constants.SurveyType, next time.Time) *entity.Certificate {
	return &entity.Certificate{
		ID:             uuid.New(),
		CertName:       name,
		CertType:       constants.FullTerm,
		NextSurveyDate: &next,
		NextSurveyType: surveyType,
	}
}

func TestSurveyWindows_SkipsCertificatesWithoutDueDate(t *testing.T) {
	ship := testShip()
	noSurvey := &entity.Certificate{ID: uuid.New(), CertName: "Interim Class Certificate"}
	due := surveyCert("Safety Equipment Certificate", constants.AnnualSurvey, complianceNow.AddDate(0, 0, 30))
	certs := newMemCertRepo(noSurvey, due)

	svc := newComplianceService(certs, &memShipRepo{ship: ship})
	windows, err := svc.SurveyWindows(context.Background(), ship.ID)
	require.NoError(t, err)

	require.Len(t, windows, 1)
	assert.Equal(t, due.ID, windows[0].Certificate.ID)
	assert.Equal(t, "±3M", windows[0].Window.WindowType)
}

func TestUpcomingSurveys_FiltersByWindow(t *testing.T) {
	ship := testShip()
	inWindow := surveyCert("Cargo Ship Safety Construction Certificate", constants.SpecialSurvey, complianceNow.AddDate(0, 0, 30))
	farOut := surveyCert("Load Line Certificate", constants.AnnualSurvey, complianceNow.AddDate(0, 0, 200))
	certs := newMemCertRepo(inWindow, farOut)

	svc := newComplianceService(certs, &memShipRepo{ship: ship})
	upcoming, err := svc.UpcomingSurveys(context.Background(), ship.ID)
	require.NoError(t, err)

	require.Len(t, upcoming, 1)
	assert.Equal(t, inWindow.ID, upcoming[0].Certificate.ID)
	assert.False(t, upcoming[0].Window.IsCritical)
	assert.False(t, upcoming[0].Window.IsOverdue)
}

func TestRefreshDockingDates_UpdatesShip(t *testing.T) {
	ship := testShip()
	cssc := &entity.Certificate{
		ID:       uuid.New(),
		CertName: "Cargo Ship Safety Construction Certificate",
		CertType: constants.FullTerm,
		Content: "Dry docking survey carried out on 12/05/2023.\n" +
			"Previous dry dock completed on 03/04/2021.",
	}
	certs := newMemCertRepo(cssc)
	ships := &memShipRepo{ship: ship}

	svc := newComplianceService(certs, ships)
	dd, err := svc.RefreshDockingDates(context.Background(), ship.ID)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC), dd.LastDocking)
	require.NotNil(t, dd.LastDocking2)
	assert.Equal(t, time.Date(2021, 4, 3, 0, 0, 0, 0, time.UTC), *dd.LastDocking2)

	require.NotNil(t, ships.lastDocking, "refresh must persist the derived dates")
	assert.True(t, ships.lastDocking.Equal(dd.LastDocking))
}

func TestRefreshDockingDates_NoData(t *testing.T) {
	ship := testShip()
	unrelated := &entity.Certificate{
		ID:       uuid.New(),
		CertName: "International Oil Pollution Prevention Certificate",
		CertType: constants.FullTerm,
	}
	certs := newMemCertRepo(unrelated)
	ships := &memShipRepo{ship: ship}

	svc := newComplianceService(certs, ships)
	_, err := svc.RefreshDockingDates(context.Background(), ship.ID)
	require.ErrorIs(t, err, common.ErrNoDockingData)
	assert.Nil(t, ships.lastDocking, "no update on a no-data outcome")
}

func TestRefreshNextSurveyDates_RewritesStaleDerivations(t *testing.T) {
	ship := testShip()
	issue := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	valid := time.Date(2029, 3, 1, 0, 0, 0, 0, time.UTC)
	stale := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	current := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	staleCert := &entity.Certificate{
		ID: uuid.New(), CertName: "Cargo Ship Safety Construction Certificate",
		CertType: constants.FullTerm, NextSurveyType: constants.AnnualSurvey,
		IssueDate: &issue, ValidDate: &valid, NextSurveyDate: &stale,
	}
	freshCert := &entity.Certificate{
		ID: uuid.New(), CertName: "Load Line Certificate",
		CertType: constants.FullTerm, NextSurveyType: constants.AnnualSurvey,
		IssueDate: &issue, ValidDate: &valid, NextSurveyDate: &current,
	}
	shortTerm := &entity.Certificate{
		ID: uuid.New(), CertName: "Provisional Radio Certificate",
		CertType: constants.ShortTerm, NextSurveyDate: &stale,
	}
	certs := newMemCertRepo(staleCert, freshCert, shortTerm)

	svc := newComplianceService(certs, &memShipRepo{ship: ship})
	updated, err := svc.RefreshNextSurveyDates(context.Background(), ship.ID)
	require.NoError(t, err)

	// stale anniversary rewritten, short-term cleared, fresh one untouched
	assert.Equal(t, 2, updated)
	require.NotNil(t, staleCert.NextSurveyDate)
	assert.Equal(t, current, *staleCert.NextSurveyDate)
	assert.Nil(t, shortTerm.NextSurveyDate)
	require.NotNil(t, freshCert.NextSurveyDate)
	assert.Equal(t, current, *freshCert.NextSurveyDate)
}
