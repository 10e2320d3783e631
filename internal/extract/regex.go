package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/entity"
)

var (
	// ships in service carry IMO numbers starting with 8 or 9
	reBareIMO = regexp.MustCompile(`\b([89]\d{6})\b`)
	// certificate-number-looking tokens near a "No" marker
	reBareCertNo = regexp.MustCompile(`(?i)\bno\s*[.:]?\s*([A-Z0-9][A-Z0-9./\-]{3,})`)
	reBareDate   = regexp.MustCompile(dateToken)

	issueAdjacent = regexp.MustCompile(`(?i)issu`)
	validAdjacent = regexp.MustCompile(`(?i)(expir|valid)`)
)

// RegexTier is the last resort: narrow regexes against the raw text with no
// semantic disambiguation beyond position and keyword adjacency.
type RegexTier struct {
	logger *slog.Logger
}

func NewRegexTier(logger *slog.Logger) *RegexTier {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegexTier{logger: logger}
}

func (t *RegexTier) Name() constants.ExtractionTier { return constants.TierRegex }

func (t *RegexTier) Attempt(_ context.Context, in Input) (entity.CertificateFields, error) {
	text := in.SummaryText
	var f entity.CertificateFields

	f.CertName = findCertificateName(text)
	if f.CertName == "" && in.FilenameHint != "" {
		// position fallback: the filename is usually the certificate name
		f.CertName = strings.TrimSuffix(in.FilenameHint, extOf(in.FilenameHint))
	}
	if m := reBareIMO.FindStringSubmatch(text); m != nil {
		f.IMONumber = m[1]
	}
	if m := reBareCertNo.FindStringSubmatch(text); m != nil {
		f.CertNo = strings.TrimSpace(m[1])
	}

	// Dates by keyword adjacency: a date within a short window after an
	// issue/expiry marker claims that slot; otherwise first date is the
	// issue, last is the expiry.
	locs := reBareDate.FindAllStringIndex(text, -1)
	for _, loc := range locs {
		token := text[loc[0]:loc[1]]
		window := text[max(0, loc[0]-40):loc[0]]
		switch {
		case f.IssueDate == "" && issueAdjacent.MatchString(window):
			f.IssueDate = token
		case f.ValidDate == "" && validAdjacent.MatchString(window):
			f.ValidDate = token
		}
	}
	if len(locs) > 0 && f.IssueDate == "" {
		f.IssueDate = text[locs[0][0]:locs[0][1]]
	}
	if len(locs) > 1 && f.ValidDate == "" {
		last := text[locs[len(locs)-1][0]:locs[len(locs)-1][1]]
		if last != f.IssueDate {
			f.ValidDate = last
		}
	}

	t.logger.Debug("extract.regex.done",
		"cert_name", f.CertName, "cert_no", f.CertNo, "imo", f.IMONumber)
	return f, nil
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}
