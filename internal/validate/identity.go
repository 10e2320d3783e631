// Package validate checks extracted certificates against the target ship's
// identity and against already-filed certificates.
package validate

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/fleetdocs/shipcert/internal/entity"
)

// MatchResult classifies an identity validation outcome.
type MatchResult string

const (
	Match        MatchResult = "MATCH"
	SoftMismatch MatchResult = "SOFT_MISMATCH"
	HardMismatch MatchResult = "HARD_MISMATCH"
)

// ReferenceOnlyNote tags soft-mismatched certificates. The wording is what
// operators see on the certificate record.
const ReferenceOnlyNote = "Chỉ để tham khảo"

// Outcome is the result of identity validation. Note is non-nil only for
// soft mismatches; Message is human-readable for the per-file result list.
type Outcome struct {
	Result  MatchResult
	Note    *string
	Message string
}

// Blocking reports whether the outcome stops certificate creation.
func (o Outcome) Blocking() bool {
	return o.Result == HardMismatch
}

// IdentityValidator compares extracted ship identity against the target
// ship record.
type IdentityValidator struct {
	logger *slog.Logger
}

func NewIdentityValidator(logger *slog.Logger) *IdentityValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityValidator{logger: logger}
}

// Validate classifies the extracted identity against ship.
//
// An IMO conflict (both present, different) is a hard mismatch and blocks the
// upload. A differing ship name with a matching or absent document IMO is a
// soft mismatch: the certificate is still filed, tagged reference-only. A
// document with neither IMO nor ship name cannot contradict the target and
// passes as a match; extraction quality governs acceptance there.
func (v *IdentityValidator) Validate(extractedIMO, extractedShipName string, ship *entity.Ship) Outcome {
	docIMO := NormalizeIMO(extractedIMO)
	shipIMO := NormalizeIMO(ship.IMO)

	if docIMO != "" && shipIMO != "" && docIMO != shipIMO {
		v.logger.Warn("identity.hard_mismatch",
			"ship_id", ship.ID, "ship_imo", shipIMO, "doc_imo", docIMO)
		return Outcome{
			Result:  HardMismatch,
			Message: "IMO number on the document (" + docIMO + ") conflicts with ship " + ship.Name + " (IMO " + shipIMO + ")",
		}
	}

	docName := normalizeShipName(extractedShipName)
	targetName := normalizeShipName(ship.Name)
	if docName != "" && targetName != "" && docName != targetName {
		note := ReferenceOnlyNote
		v.logger.Info("identity.soft_mismatch",
			"ship_id", ship.ID, "ship_name", ship.Name, "doc_ship_name", extractedShipName)
		return Outcome{
			Result:  SoftMismatch,
			Note:    &note,
			Message: "ship name on the document (" + extractedShipName + ") differs from " + ship.Name + "; filed for reference only",
		}
	}

	return Outcome{Result: Match}
}

var (
	reIMODigits = regexp.MustCompile(`\d{7}`)
	reSpace     = regexp.MustCompile(`\s+`)
)

// NormalizeIMO extracts the 7-digit IMO number from noisy label text
// ("IMO 9176187", "IMO No. 9176187"). Empty when none is present.
func NormalizeIMO(raw string) string {
	return reIMODigits.FindString(raw)
}

// normalizeShipName folds case, collapses whitespace, and strips common
// vessel prefixes so "M/V PACIFIC GLORY" matches "Pacific Glory".
func normalizeShipName(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for _, prefix := range []string{"M/V ", "MV ", "M/T ", "MT ", "S/S "} {
		s = strings.TrimPrefix(s, prefix)
	}
	return reSpace.ReplaceAllString(s, " ")
}
