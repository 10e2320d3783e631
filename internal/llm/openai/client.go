package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/fleetdocs/shipcert/internal/common"
	"github.com/fleetdocs/shipcert/internal/entity"
	"github.com/fleetdocs/shipcert/internal/llm"
)

// Client implements llm.FieldExtractor against the OpenAI chat API.
type Client struct {
	cfg Config
	api *goopenai.Client
	log *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Client{
		cfg: cfg,
		api: goopenai.NewClientWithConfig(apiCfg),
		log: logger,
	}
}

// ExtractFields sends the summary text plus the field schema and parses the
// model's JSON response defensively. Transport failures come back tagged
// retryable; schema/content failures do not, so the caller can fall through
// to the next tier.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (entity.CertificateFields, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(req.SummaryText),
		"filename", req.FilenameHint,
	)

	schema := llm.BuildCertificateJSONSchema(req.AllowedCertTypes, req.AllowedSurveyTypes)
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return entity.CertificateFields{}, nil, fmt.Errorf("marshal schema: %w", err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: llm.BuildSystemPrompt(req)},
			{Role: goopenai.ChatMessageRoleUser, Content: llm.BuildUserPrompt(req) + "\n\nReturn ONLY JSON that matches the provided schema."},
			{Role: goopenai.ChatMessageRoleSystem, Content: "JSON Schema:\n" + string(schemaJSON)},
		},
	})
	if err != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.CertificateFields{}, nil, common.WrapRetryable("openai chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return entity.CertificateFields{}, nil, fmt.Errorf("no choices in openai response")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	rawContent := []byte(content)

	cleaned, _, err := llm.NormalizeAndSanitizeJSON(rawContent, c.log)
	if err != nil {
		c.log.Error("llm.extract.sanitize_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.CertificateFields{}, rawContent, fmt.Errorf("sanitize response: %w", err)
	}
	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.log.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.CertificateFields{}, rawContent, fmt.Errorf("schema validation failed: %w", err)
	}

	var out entity.CertificateFields
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return entity.CertificateFields{}, cleaned, fmt.Errorf("unmarshal fields: %w", err)
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"cert_name", out.CertName,
		"cert_no", out.CertNo,
		"ship_name", out.ShipName,
		"imo", out.IMONumber,
		"confidence", out.ConfidenceLabel,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}
