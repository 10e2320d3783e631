// Package dates normalizes the heterogeneous date strings found on scanned
// maritime certificates into canonical calendar dates (midnight UTC).
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/common"
)

// CanonicalFormat is the output format used across the app (DD/MM/YYYY).
const CanonicalFormat = "02/01/2006"

var (
	// day-first numeric: DD/MM/YYYY, DD-MM-YYYY, DD.MM.YYYY (2- or 4-digit year)
	reDayFirst = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2,4})$`)
	// ISO: YYYY-MM-DD
	reISO = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	// "7 November 2025", "07 Nov 2025"
	reDayMonthName = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]+),?\s+(\d{2,4})$`)
	// "November 2025", "Nov 2025" (day defaults to 1)
	reMonthName = regexp.MustCompile(`^([A-Za-z]+),?\s+(\d{2,4})$`)

	reSpaces = regexp.MustCompile(`\s+`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// Parser converts raw date strings into calendar dates. The zero value is
// not usable; construct with NewParser.
type Parser struct {
	now func() time.Time
}

func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// NewParserAt pins the clock, so range checks are reproducible in tests.
func NewParserAt(now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{now: now}
}

// Parse normalizes raw into a calendar date at midnight UTC. It fails with
// *common.DateParseError when no known pattern matches or the result falls
// outside [1980-01-01, 31 Dec of next year]. Parsing the canonical output
// again yields the same date.
func (p *Parser) Parse(raw string) (time.Time, error) {
	s := reSpaces.ReplaceAllString(strings.TrimSpace(raw), " ")
	if s == "" {
		return time.Time{}, &common.DateParseError{Raw: raw, Reason: "empty"}
	}

	var year, day int
	var month time.Month

	switch {
	case reDayFirst.MatchString(s):
		m := reDayFirst.FindStringSubmatch(s)
		day, _ = strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		month = time.Month(mm)
		year = expandYear(atoi(m[3]), len(m[3]))
	case reISO.MatchString(s):
		m := reISO.FindStringSubmatch(s)
		year, _ = strconv.Atoi(m[1])
		mm, _ := strconv.Atoi(m[2])
		month = time.Month(mm)
		day, _ = strconv.Atoi(m[3])
	case reDayMonthName.MatchString(s):
		m := reDayMonthName.FindStringSubmatch(s)
		day, _ = strconv.Atoi(m[1])
		var ok bool
		month, ok = monthsByName[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, &common.DateParseError{Raw: raw, Reason: "unknown month name"}
		}
		year = expandYear(atoi(m[3]), len(m[3]))
	case reMonthName.MatchString(s):
		m := reMonthName.FindStringSubmatch(s)
		var ok bool
		month, ok = monthsByName[strings.ToLower(m[1])]
		if !ok {
			return time.Time{}, &common.DateParseError{Raw: raw, Reason: "unknown month name"}
		}
		day = 1
		year = expandYear(atoi(m[2]), len(m[2]))
	default:
		return time.Time{}, &common.DateParseError{Raw: raw, Reason: "no pattern matched"}
	}

	if month < time.January || month > time.December {
		return time.Time{}, &common.DateParseError{Raw: raw, Reason: "month out of range"}
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31/02 becomes 02/03 or 03/03);
	// reject anything that did not round-trip.
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, &common.DateParseError{Raw: raw, Reason: "invalid calendar date"}
	}

	if year < constants.MinValidYear || year > p.now().Year()+1 {
		return time.Time{}, &common.DateParseError{Raw: raw, Reason: "year out of accepted range"}
	}
	return t, nil
}

// Format renders a date in the canonical DD/MM/YYYY form.
func Format(t time.Time) string {
	return t.Format(CanonicalFormat)
}

// expandYear resolves two-digit years: <50 is 20xx, >=50 is 19xx.
func expandYear(y, digits int) int {
	if digits > 2 {
		return y
	}
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
