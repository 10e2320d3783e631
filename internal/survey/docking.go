package survey

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/common"
	"github.com/fleetdocs/shipcert/internal/dates"
	"github.com/fleetdocs/shipcert/internal/entity"
)

// dockingKeywords select candidate certificates by name (case-insensitive
// substring match).
var dockingKeywords = []string{
	"safety construction",
	"cssc",
	"dry dock",
	"dd",
	"docking survey",
}

// dateToken matches the date shapes the parser understands.
const dateToken = `(\d{1,2}[./\-]\d{1,2}[./\-]\d{2,4}|\d{4}-\d{1,2}-\d{1,2}|\d{1,2}\s+[A-Za-z]+\s+\d{4})`

// dockingPatterns are applied in order; earlier patterns are more specific,
// later ones are fallbacks against generic certificate dates.
var dockingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)dry[\s-]?dock(?:ing)?(?:\s+survey)?\D{0,40}?` + dateToken),
	regexp.MustCompile(`(?i)docking\s+survey\D{0,40}?` + dateToken),
	regexp.MustCompile(`(?i)construction\s+survey\D{0,40}?` + dateToken),
	regexp.MustCompile(`(?i)(?:date\s+of\s+issue|issued?\s+on|issued?)\D{0,30}?` + dateToken),
	regexp.MustCompile(`(?i)(?:certificate|completed|carried\s+out)\D{0,30}?` + dateToken),
}

// DockingExtractor scans full-term construction/docking certificates for
// docking dates and picks the two most recent.
type DockingExtractor struct {
	parser *dates.Parser
	logger *slog.Logger
}

func NewDockingExtractor(parser *dates.Parser, logger *slog.Logger) *DockingExtractor {
	if parser == nil {
		parser = dates.NewParser()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DockingExtractor{parser: parser, logger: logger}
}

// Extract returns the most recent and second most recent docking dates found
// across certs. It fails wrapping common.ErrNoDockingData when no certificate
// qualifies or no valid date survives parsing; callers report that as a
// "no data" result, not a crash.
func (d *DockingExtractor) Extract(certs []*entity.Certificate) (entity.DockingDates, error) {
	candidates := make([]*entity.Certificate, 0, len(certs))
	for _, c := range certs {
		if c.CertType != constants.FullTerm {
			continue
		}
		if matchesDockingKeyword(c.CertName) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return entity.DockingDates{}, fmt.Errorf("no docking-related full-term certificate found: %w", common.ErrNoDockingData)
	}

	// Gather dates in discovery order; the stable sort below keeps that
	// order as the tie-break for equal dates.
	var found []time.Time
	seen := make(map[time.Time]struct{})
	for _, c := range candidates {
		for _, raw := range scanDockingDates(c.Content) {
			t, err := d.parser.Parse(raw)
			if err != nil {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			found = append(found, t)
		}
	}
	if len(found) == 0 {
		return entity.DockingDates{}, fmt.Errorf("no valid docking date in %d candidate certificate(s): %w", len(candidates), common.ErrNoDockingData)
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].After(found[j]) })

	out := entity.DockingDates{LastDocking: found[0]}
	if len(found) > 1 {
		second := found[1]
		out.LastDocking2 = &second
	}
	d.logger.Info("docking.extract.ok",
		"candidates", len(candidates),
		"dates_found", len(found),
		"last_docking", dates.Format(out.LastDocking),
	)
	return out, nil
}

func matchesDockingKeyword(name string) bool {
	n := strings.ToLower(name)
	for _, kw := range dockingKeywords {
		if strings.Contains(n, kw) {
			return true
		}
	}
	return false
}

// scanDockingDates applies the ordered pattern set and returns raw date
// tokens in discovery order.
func scanDockingDates(text string) []string {
	var out []string
	for _, re := range dockingPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			out = append(out, m[1])
		}
	}
	return out
}
