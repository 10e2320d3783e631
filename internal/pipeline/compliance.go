package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdocs/shipcert/internal/entity"
	"github.com/fleetdocs/shipcert/internal/repository"
	"github.com/fleetdocs/shipcert/internal/survey"
)

// CertificateSurvey pairs a filed certificate with its computed window.
type CertificateSurvey struct {
	Certificate entity.Certificate
	Window      entity.SurveyWindow
}

// ComplianceService answers the read-side questions: which surveys are
// coming up, which are overdue, and when the ship last docked.
type ComplianceService struct {
	logger  *slog.Logger
	certs   repository.CertificateRepository
	ships   repository.ShipRepository
	calc    *survey.Calculator
	docking *survey.DockingExtractor
	now     func() time.Time
}

func NewComplianceService(
	logger *slog.Logger,
	certs repository.CertificateRepository,
	ships repository.ShipRepository,
	calc *survey.Calculator,
	docking *survey.DockingExtractor,
) *ComplianceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComplianceService{
		logger:  logger,
		certs:   certs,
		ships:   ships,
		calc:    calc,
		docking: docking,
		now:     time.Now,
	}
}

// SurveyWindows recomputes the window for every certificate of the ship that
// carries a next survey date. Windows are never persisted.
func (s *ComplianceService) SurveyWindows(ctx context.Context, shipID uuid.UUID) ([]CertificateSurvey, error) {
	certs, err := s.certs.ListByShip(ctx, shipID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}

	now := s.now()
	var out []CertificateSurvey
	for _, c := range certs {
		if c.NextSurveyDate == nil {
			continue
		}
		out = append(out, CertificateSurvey{
			Certificate: *c,
			Window:      s.calc.ComputeWindow(c.NextSurveyType, *c.NextSurveyDate, now),
		})
	}
	return out, nil
}

// UpcomingSurveys filters SurveyWindows down to those inside their
// admissibility window right now. Overdue-but-in-window specials included.
func (s *ComplianceService) UpcomingSurveys(ctx context.Context, shipID uuid.UUID) ([]CertificateSurvey, error) {
	all, err := s.SurveyWindows(ctx, shipID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var out []CertificateSurvey
	for _, cs := range all {
		if cs.Window.Upcoming(now) {
			out = append(out, cs)
		}
	}
	return out, nil
}

// RefreshDockingDates re-derives the ship's docking dates from its filed
// full-term construction certificates and persists them. A ship with no
// qualifying certificate surfaces ErrNoDockingData, which is a user-visible
// "no data" outcome, not a failure.
func (s *ComplianceService) RefreshDockingDates(ctx context.Context, shipID uuid.UUID) (entity.DockingDates, error) {
	certs, err := s.certs.ListByShip(ctx, shipID)
	if err != nil {
		return entity.DockingDates{}, fmt.Errorf("list certificates: %w", err)
	}

	dd, err := s.docking.Extract(certs)
	if err != nil {
		return entity.DockingDates{}, err
	}

	if err := s.ships.UpdateDockingDates(ctx, shipID, dd.LastDocking, dd.LastDocking2); err != nil {
		return entity.DockingDates{}, err
	}
	s.logger.Info("compliance.docking.updated",
		"ship_id", shipID, "last_docking", dd.LastDocking.Format("2006-01-02"))
	return dd, nil
}

// RefreshNextSurveyDates re-derives and persists the next survey date for
// every certificate of the ship. Used after endorsements or manual date
// corrections, when the stored derivation is stale. Returns the number of
// certificates whose stored date changed.
func (s *ComplianceService) RefreshNextSurveyDates(ctx context.Context, shipID uuid.UUID) (int, error) {
	certs, err := s.certs.ListByShip(ctx, shipID)
	if err != nil {
		return 0, fmt.Errorf("list certificates: %w", err)
	}

	now := s.now()
	updated := 0
	for _, c := range certs {
		next := survey.DeriveNextSurveyDate(c.CertType, c.ValidDate, c.IssueDate, c.LastEndorseDate, now)
		if sameDate(next, c.NextSurveyDate) {
			continue
		}
		if err := s.certs.UpdateNextSurvey(ctx, c.ID, next, c.NextSurveyType); err != nil {
			return updated, fmt.Errorf("update next survey for certificate %s: %w", c.ID, err)
		}
		updated++
	}
	if updated > 0 {
		s.logger.Info("compliance.next_survey.refreshed", "ship_id", shipID, "updated", updated)
	}
	return updated, nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
