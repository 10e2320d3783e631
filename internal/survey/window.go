// Package survey computes forward-looking compliance dates for a ship's
// certificates: next-survey windows, anniversary-date derivation, and
// docking-date extraction.
package survey

import (
	"fmt"
	"time"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/entity"
)

// WindowConfig holds the windowing thresholds, tunable per deployment.
type WindowConfig struct {
	WindowDays       int // half-width of the admissibility window, default 90
	DueSoonDays      int // critical when due within this many days, default 7
	BadlyOverdueDays int // critical when past due by more than this, default 30
}

// Calculator applies the survey-type-dependent windowing rules.
type Calculator struct {
	cfg WindowConfig
}

func NewCalculator(cfg WindowConfig) *Calculator {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = constants.SurveyWindowDays
	}
	if cfg.DueSoonDays <= 0 {
		cfg.DueSoonDays = constants.CriticalDueSoonDays
	}
	if cfg.BadlyOverdueDays <= 0 {
		cfg.BadlyOverdueDays = constants.CriticalOverdueDays
	}
	return &Calculator{cfg: cfg}
}

// ComputeWindow computes the admissibility window for a survey due on
// nextSurveyDate, evaluated at currentDate.
//
// SpecialSurvey has no post-date extension: the window closes on the survey
// date itself and overdue starts the day after, no grace. Every other type
// gets the symmetric ±window.
func (c *Calculator) ComputeWindow(surveyType constants.SurveyType, nextSurveyDate, currentDate time.Time) entity.SurveyWindow {
	next := truncateDay(nextSurveyDate)
	now := truncateDay(currentDate)
	daysUntil := daysBetween(now, next)

	w := entity.SurveyWindow{
		SurveyType:     surveyType,
		NextSurveyDate: next,
		WindowOpen:     next.AddDate(0, 0, -c.cfg.WindowDays),
	}

	if surveyType == constants.SpecialSurvey {
		w.WindowClose = next
		w.WindowType = "-3M"
		w.Rule = fmt.Sprintf("special survey: window opens %d days before due date and closes on it; no grace period", c.cfg.WindowDays)
		w.IsOverdue = now.After(next)
		w.IsCritical = daysUntil <= c.cfg.DueSoonDays
		return w
	}

	w.WindowClose = next.AddDate(0, 0, c.cfg.WindowDays)
	w.WindowType = "±3M"
	w.Rule = fmt.Sprintf("survey window is ±%d days around the due date; overdue after the window closes", c.cfg.WindowDays)
	w.IsOverdue = now.After(w.WindowClose)
	w.IsCritical = daysUntil <= c.cfg.DueSoonDays || daysUntil < -c.cfg.BadlyOverdueDays
	return w
}

// DeriveNextSurveyDate derives the next survey date from the certificate's
// term type and reference dates.
//
//   - ShortTerm certificates require no survey (nil).
//   - Interim certificates are surveyed 3 months before expiry.
//   - Everything else follows anniversary logic: the survey falls on the
//     day/month of the valid date, in the first anniversary year after the
//     base date (last endorsement, else issue date, else today).
func DeriveNextSurveyDate(certType constants.CertType, validDate, issueDate, lastEndorse *time.Time, now time.Time) *time.Time {
	switch certType {
	case constants.ShortTerm:
		return nil
	case constants.Interim:
		if validDate == nil {
			return nil
		}
		d := truncateDay(*validDate).AddDate(0, -3, 0)
		return &d
	}

	if validDate == nil {
		return nil
	}
	base := truncateDay(now)
	if lastEndorse != nil {
		base = truncateDay(*lastEndorse)
	} else if issueDate != nil {
		base = truncateDay(*issueDate)
	}

	annDay, annMonth := validDate.Day(), validDate.Month()
	thisYear := anniversaryDate(base.Year(), annMonth, annDay)
	year := base.Year()
	if !base.Before(thisYear) {
		year++
	}
	d := anniversaryDate(year, annMonth, annDay)
	return &d
}

// anniversaryDate builds year/month/day, clamping Feb-29 to Feb-28 in
// non-leap years.
func anniversaryDate(year int, month time.Month, day int) time.Time {
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
