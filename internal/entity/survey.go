package entity

import (
	"time"

	"github.com/fleetdocs/shipcert/constants"
)

// SurveyWindow is the computed admissibility window for a certificate's next
// survey. Recomputed on demand; only NextSurveyDate is persisted.
type SurveyWindow struct {
	SurveyType     constants.SurveyType `json:"survey_type"`
	NextSurveyDate time.Time            `json:"next_survey_date"`
	WindowOpen     time.Time            `json:"window_open"`
	WindowClose    time.Time            `json:"window_close"`
	WindowType     string               `json:"window_type"` // "-3M" or "±3M"
	Rule           string               `json:"rule"`        // human-readable, for audit output
	IsOverdue      bool                 `json:"is_overdue"`
	IsCritical     bool                 `json:"is_critical"`
}

// Upcoming reports whether the survey surfaces in the upcoming list at now.
func (w SurveyWindow) Upcoming(now time.Time) bool {
	return !now.Before(w.WindowOpen) && !now.After(w.WindowClose)
}

// DockingDates is the result of docking-date extraction across a ship's
// full-term construction/docking certificates.
type DockingDates struct {
	LastDocking  time.Time  `json:"last_docking"`
	LastDocking2 *time.Time `json:"last_docking_2,omitempty"`
}
