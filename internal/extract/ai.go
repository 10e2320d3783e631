package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/entity"
	"github.com/fleetdocs/shipcert/internal/llm"
)

// AITier sends the Document-AI summary to the LLM extraction backend.
type AITier struct {
	extractor llm.FieldExtractor
	logger    *slog.Logger
}

func NewAITier(extractor llm.FieldExtractor, logger *slog.Logger) *AITier {
	if logger == nil {
		logger = slog.Default()
	}
	return &AITier{extractor: extractor, logger: logger}
}

func (t *AITier) Name() constants.ExtractionTier { return constants.TierAI }

func (t *AITier) Attempt(ctx context.Context, in Input) (entity.CertificateFields, error) {
	fields, _, err := t.extractor.ExtractFields(ctx, llm.ExtractRequest{
		SummaryText:        in.SummaryText,
		FilenameHint:       in.FilenameHint,
		ShipName:           in.ShipName,
		IMO:                in.IMO,
		AllowedCertTypes:   constants.CertTypeStrings(),
		AllowedSurveyTypes: constants.SurveyTypeStrings(),
	})
	if err != nil {
		return entity.CertificateFields{}, fmt.Errorf("ai extraction: %w", err)
	}
	return fields, nil
}
