// Package docai turns uploaded certificate scans into the plain-text page
// summary that field extraction consumes. The backend is a Vertex AI
// multimodal model reading the document bytes directly.
package docai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/google/uuid"

	"github.com/fleetdocs/shipcert/internal/common"
)

const summarySystemPrompt = "You are a maritime document transcription tool. " +
	"Your task is to transcribe the content of a ship certificate scan into plain text. " +
	"Accuracy and information preservation are of utmost importance."

const summaryUserPrompt = `Transcribe the provided document.

Follow these rules:
1. Transcribe all printed and stamped text, keeping the original line structure where possible.
2. Keep labels together with their values (e.g. "Certificate No: ..." on one line).
3. Transcribe dates exactly as printed. Do not reformat or interpret them.
4. Ignore decorative borders, logos and page numbers.

Return ONLY the transcribed text, with no preamble and no markdown fences.`

// Summarizer is the capability the extraction pipeline depends on. An empty
// summary is a valid result; completeness is judged downstream.
type Summarizer interface {
	Summarize(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Config carries the Vertex AI connection settings.
type Config struct {
	ProjectID string
	Region    string
	Model     string
}

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = "us-central1"
	}
	if c.Model == "" {
		c.Model = "gemini-1.5-pro"
	}
}

// VertexSummarizer implements Summarizer on a pre-configured generative model.
type VertexSummarizer struct {
	base   *genai.Client
	model  *genai.GenerativeModel
	logger *slog.Logger
}

func NewVertexSummarizer(ctx context.Context, cfg Config, logger *slog.Logger) (*VertexSummarizer, error) {
	cfg.applyDefaults()
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("docai: project id cannot be empty: %w", common.ErrInvalidInput)
	}
	if logger == nil {
		logger = slog.Default()
	}

	base, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := base.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(summarySystemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.0),
	}

	return &VertexSummarizer{base: base, model: model, logger: logger}, nil
}

func (s *VertexSummarizer) Summarize(ctx context.Context, data []byte, mimeType string) (string, error) {
	reqID := uuid.NewString()
	start := time.Now()
	s.logger.Info("docai.summarize.start", "req_id", reqID, "mime", mimeType, "bytes", len(data))

	resp, err := s.model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: data},
		genai.Text(summaryUserPrompt),
	)
	if err != nil {
		s.logger.Error("docai.summarize.error", "req_id", reqID, "err", err)
		return "", common.WrapRetryable("docai.summarize", err)
	}

	text := extractText(resp)
	if text == "" {
		// tolerated: blank pages and illegible scans summarize to nothing
		s.logger.Warn("docai.summarize.empty", "req_id", reqID)
	}
	s.logger.Info("docai.summarize.ok",
		"req_id", reqID, "chars", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}

func (s *VertexSummarizer) Close() error {
	if s.base != nil {
		return s.base.Close()
	}
	return nil
}

// extractText concatenates the text parts of the first candidate. Fenced
// output slips through occasionally despite the prompt; strip it.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	out := strings.TrimSpace(b.String())
	out = strings.TrimPrefix(out, "```text")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}
