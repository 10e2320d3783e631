// Package extract implements the 3-tier certificate field extraction
// fallback: AI-assisted, manual pattern rules, then direct regex.
package extract

import (
	"context"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/entity"
)

// Input is the per-document payload every tier sees.
type Input struct {
	SummaryText  string
	FilenameHint string

	// Target ship context. Hints only; tiers never copy these into the
	// extracted identity fields.
	ShipName string
	IMO      string
}

// Tier is the uniform capability each fallback tier implements. Tiers are
// independent: the orchestrator tries them in fixed order, once each, and
// never merges partial results across tiers.
type Tier interface {
	Name() constants.ExtractionTier
	Attempt(ctx context.Context, in Input) (entity.CertificateFields, error)
}
