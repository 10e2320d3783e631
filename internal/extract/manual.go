package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/entity"
)

// dateToken matches the date shapes the parser understands downstream.
const dateToken = `(\d{1,2}[./\-]\d{1,2}[./\-]\d{2,4}|\d{4}-\d{1,2}-\d{1,2}|\d{1,2}\s+[A-Za-z]+\s+\d{2,4}|[A-Za-z]+\s+\d{4})`

// Label-proximity patterns for the structured blocks certificates print.
var (
	reCertNoLabel    = regexp.MustCompile(`(?im)^.*?certificate\s*(?:no|number|n°)\s*[.:]?\s*([A-Z0-9][A-Z0-9./\-]{2,})`)
	reIssueLabel     = regexp.MustCompile(`(?i)(?:date\s+of\s+issue|issued?\s+(?:on|at\s+.{0,40}?on))\s*[.:]?\s*` + dateToken)
	reValidLabel     = regexp.MustCompile(`(?i)(?:valid\s+until|date\s+of\s+expiry|expiry\s+date|expires?\s+on)\s*[.:]?\s*` + dateToken)
	reEndorseLabel   = regexp.MustCompile(`(?i)(?:last\s+)?(?:annual\s+)?endorse(?:ment|d)\s*(?:date|on)?\s*[.:]?\s*` + dateToken)
	reShipNameLabel  = regexp.MustCompile(`(?im)^\s*(?:name\s+of\s+(?:the\s+)?ship|ship'?s?\s+name|vessel)\s*[.:]\s*(.+)$`)
	reIMOLabel       = regexp.MustCompile(`(?i)imo\s*(?:no|number|n°)?\s*[.:]?\s*(\d{7})`)
	reAuthorityLabel = regexp.MustCompile(`(?im)^\s*issued\s+(?:by|under\s+the\s+authority\s+of)\s*[.:]?\s*(.+)$`)
	reCertTypeLabel  = regexp.MustCompile(`(?i)\b(full\s*term|interim|provisional|short\s*term|conditional)\b`)
	reSurveyLabel    = regexp.MustCompile(`(?i)\b(annual|intermediate|special|renewal)\s+survey\b`)
)

// ManualTier applies deterministic keyword and field-position heuristics to
// the summary text. No model round-trip: same text, same output.
type ManualTier struct {
	logger *slog.Logger
}

func NewManualTier(logger *slog.Logger) *ManualTier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ManualTier{logger: logger}
}

func (t *ManualTier) Name() constants.ExtractionTier { return constants.TierManual }

func (t *ManualTier) Attempt(_ context.Context, in Input) (entity.CertificateFields, error) {
	text := in.SummaryText
	var f entity.CertificateFields

	f.CertName = findCertificateName(text)
	if m := reCertNoLabel.FindStringSubmatch(text); m != nil {
		f.CertNo = strings.TrimSpace(m[1])
	}
	if m := reIssueLabel.FindStringSubmatch(text); m != nil {
		f.IssueDate = strings.TrimSpace(m[1])
	}
	if m := reValidLabel.FindStringSubmatch(text); m != nil {
		f.ValidDate = strings.TrimSpace(m[1])
	}
	if m := reEndorseLabel.FindStringSubmatch(text); m != nil {
		f.LastEndorseDate = strings.TrimSpace(m[1])
	}
	if m := reShipNameLabel.FindStringSubmatch(text); m != nil {
		f.ShipName = strings.TrimSpace(m[1])
	}
	if m := reIMOLabel.FindStringSubmatch(text); m != nil {
		f.IMONumber = m[1]
	}
	if m := reAuthorityLabel.FindStringSubmatch(text); m != nil {
		f.Authority = strings.TrimSpace(m[1])
	}
	if m := reCertTypeLabel.FindStringSubmatch(text); m != nil {
		f.CertType = strings.TrimSpace(m[1])
	}
	if m := reSurveyLabel.FindStringSubmatch(text); m != nil {
		f.NextSurveyType = strings.TrimSpace(m[1])
	}

	t.logger.Debug("extract.manual.done",
		"cert_name", f.CertName, "cert_no", f.CertNo, "imo", f.IMONumber)
	return f, nil
}

// findCertificateName returns the first line naming a certificate, skipping
// boilerplate lines that merely mention the word.
func findCertificateName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		l := strings.TrimSpace(line)
		lower := strings.ToLower(l)
		if !strings.Contains(lower, "certificate") {
			continue
		}
		if strings.HasPrefix(lower, "this is to certify") || strings.Contains(lower, "certificate no") {
			continue
		}
		// headings are short; paragraphs are not
		if len(l) > 10 && len(l) < 120 {
			return l
		}
	}
	return ""
}
