package llm

import (
	"context"

	"github.com/fleetdocs/shipcert/internal/entity"
)

// ExtractRequest carries everything the backend needs to pull structured
// certificate fields out of a Document-AI summary.
type ExtractRequest struct {
	SummaryText  string
	FilenameHint string

	// Target ship context, given to the model as a hint only; identity
	// validation happens downstream regardless.
	ShipName string
	IMO      string

	AllowedCertTypes   []string
	AllowedSurveyTypes []string
}

// FieldExtractor is the interface the extraction tiers depend on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (entity.CertificateFields, []byte /*rawJSON*/, error)
}
