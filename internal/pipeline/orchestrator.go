// Package pipeline coordinates summarization, tiered field extraction,
// identity validation, duplicate detection, persistence and upload for
// certificate files.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/common"
	"github.com/fleetdocs/shipcert/internal/dates"
	"github.com/fleetdocs/shipcert/internal/docai"
	"github.com/fleetdocs/shipcert/internal/entity"
	"github.com/fleetdocs/shipcert/internal/extract"
	"github.com/fleetdocs/shipcert/internal/repository"
	"github.com/fleetdocs/shipcert/internal/storage"
	"github.com/fleetdocs/shipcert/internal/survey"
	"github.com/fleetdocs/shipcert/internal/validate"
)

// Orchestrator runs one certificate file through the full pipeline:
// summarize, extract (tiered), validate identity, detect duplicates,
// persist, upload. Each step blocks on the previous.
type Orchestrator struct {
	logger        *slog.Logger
	summarizer    docai.Summarizer
	tiers         []extract.Tier
	parser        *dates.Parser
	identity      *validate.IdentityValidator
	duplicates    *validate.DuplicateDetector
	certs         repository.CertificateRepository
	ships         repository.ShipRepository
	uploader      storage.Uploader // nil disables upload
	minConfidence float64
	now           func() time.Time
}

func NewOrchestrator(
	logger *slog.Logger,
	summarizer docai.Summarizer,
	tiers []extract.Tier,
	parser *dates.Parser,
	identity *validate.IdentityValidator,
	duplicates *validate.DuplicateDetector,
	certs repository.CertificateRepository,
	ships repository.ShipRepository,
	uploader storage.Uploader,
	minConfidence float64,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = dates.NewParser()
	}
	if minConfidence == 0 {
		minConfidence = constants.MinExtractionConfidence
	}
	return &Orchestrator{
		logger:        logger,
		summarizer:    summarizer,
		tiers:         tiers,
		parser:        parser,
		identity:      identity,
		duplicates:    duplicates,
		certs:         certs,
		ships:         ships,
		uploader:      uploader,
		minConfidence: minConfidence,
		now:           time.Now,
	}
}

// ProcessFile runs one file end-to-end and reports the per-file outcome.
// Failures are returned in the FileResult, never as a panic-the-batch error;
// the error return is reserved for ship lookup failures that invalidate the
// whole request.
func (o *Orchestrator) ProcessFile(ctx context.Context, shipID uuid.UUID, filename string, data []byte) (entity.FileResult, error) {
	ship, err := o.ships.GetByID(ctx, shipID)
	if err != nil {
		return entity.FileResult{}, fmt.Errorf("load ship: %w", err)
	}
	return o.processFor(ctx, ship, filename, data), nil
}

func (o *Orchestrator) processFor(ctx context.Context, ship *entity.Ship, filename string, data []byte) entity.FileResult {
	res := entity.FileResult{Filename: filename}

	ext := constants.NormalizeExt(filepath.Ext(filename))
	contentType, ok := constants.MimeTypes[ext]
	if !ok {
		res.Status = constants.FileStatusRejected
		res.Message = fmt.Sprintf("unsupported file type %q", ext)
		return res
	}

	summary, err := o.summarizer.Summarize(ctx, data, contentType)
	if err != nil {
		o.logger.Error("pipeline.summarize.failed", "filename", filename, "err", err)
		res.Status = constants.FileStatusError
		res.Message = err.Error()
		res.Retryable = common.Retryable(err)
		return res
	}

	result, best, err := o.runTiers(ctx, extract.Input{
		SummaryText:  summary,
		FilenameHint: filename,
		ShipName:     ship.Name,
		IMO:          ship.IMO,
	})
	if err != nil {
		o.logger.Warn("pipeline.extract.insufficient", "filename", filename, "err", err)
		res.Status = constants.FileStatusExtractionFailed
		res.Message = err.Error()
		res.BestEffort = best
		return res
	}
	o.logger.Info("pipeline.extract.ok",
		"filename", filename, "tier", string(result.Tier), "confidence", result.Confidence)

	cert := o.buildCertificate(ship, result, summary, filename)

	// Identity check runs before duplicate detection; a hard mismatch
	// short-circuits everything, including upload.
	outcome := o.identity.Validate(cert.ExtractedIMO, cert.ExtractedShipName, ship)
	if outcome.Blocking() {
		o.logger.Warn("pipeline.identity.rejected", "filename", filename, "msg", outcome.Message)
		res.Status = constants.FileStatusRejected
		res.Message = outcome.Message
		return res
	}
	cert.ValidationNote = outcome.Note

	matches, err := o.duplicates.FindDuplicates(ctx, cert, ship.ID)
	if err != nil {
		res.Status = constants.FileStatusError
		res.Message = err.Error()
		res.Retryable = common.Retryable(err)
		return res
	}
	if len(matches) > 0 {
		conflict := &common.DuplicateConflictError{CertNo: cert.CertNo, Count: len(matches)}
		o.logger.Warn("pipeline.duplicate.pending", "filename", filename, "count", len(matches))
		res.Status = constants.FileStatusPendingDuplicate
		res.Message = conflict.Error()
		res.Duplicates = matches
		return res
	}

	if err := o.certs.Insert(ctx, cert); err != nil {
		res.Status = constants.FileStatusError
		res.Message = err.Error()
		res.Retryable = common.Retryable(err)
		return res
	}
	res.CertificateID = cert.ID

	if o.uploader != nil {
		stored, err := o.uploader.Upload(ctx, data, storageFilename(cert, ext), ship.Name, contentType)
		if err != nil {
			// certificate exists; the caller may retry the upload alone
			o.logger.Error("pipeline.upload.failed", "filename", filename, "err", err)
			res.Status = constants.FileStatusError
			res.Message = err.Error()
			res.Retryable = common.Retryable(err)
			return res
		}
		if err := o.certs.UpdateFileRef(ctx, cert.ID, stored.FileID, stored.FileURL); err != nil {
			res.Status = constants.FileStatusError
			res.Message = err.Error()
			return res
		}
	}

	if outcome.Result == validate.SoftMismatch {
		res.Status = constants.FileStatusReferenceOnly
		res.Message = outcome.Message
	} else {
		res.Status = constants.FileStatusCreated
	}
	o.logger.Info("pipeline.file.done",
		"filename", filename, "status", string(res.Status), "certificate_id", cert.ID)
	return res
}

// runTiers tries each tier once, in order, and accepts the first whose
// output passes the completeness gates. Partial results are never merged
// across tiers; the best-scoring partial travels with the failure instead.
func (o *Orchestrator) runTiers(ctx context.Context, in extract.Input) (entity.ExtractionResult, *entity.CertificateFields, error) {
	var (
		best           *entity.CertificateFields
		bestConfidence float64
	)
	for _, tier := range o.tiers {
		fields, err := tier.Attempt(ctx, in)
		if err != nil {
			// a failing tier degrades to the next one
			o.logger.Warn("pipeline.tier.failed", "tier", string(tier.Name()), "err", err)
			continue
		}
		a := extract.Assess(fields, in.SummaryText)
		o.logger.Debug("pipeline.tier.assessed",
			"tier", string(tier.Name()),
			"confidence", a.Confidence,
			"critical_coverage", a.CriticalCoverage,
			"field_coverage", a.FieldCoverage,
		)
		if a.Sufficient(o.minConfidence) {
			return entity.ExtractionResult{
				Tier:       tier.Name(),
				Fields:     fields,
				Confidence: a.Confidence,
			}, nil, nil
		}
		if best == nil || a.Confidence > bestConfidence {
			f := fields
			best = &f
			bestConfidence = a.Confidence
		}
	}
	return entity.ExtractionResult{}, best, &common.ExtractionInsufficientError{BestConfidence: bestConfidence}
}

// buildCertificate maps a tier's raw field set onto the persisted entity.
// Every date goes through the parser; an unparseable date leaves its field
// unset rather than failing the document.
func (o *Orchestrator) buildCertificate(ship *entity.Ship, result entity.ExtractionResult, summary, filename string) *entity.Certificate {
	f := result.Fields

	certType, known := constants.CanonicalizeCertType(f.CertType)
	if !known && f.CertType != "" {
		o.logger.Warn("unrecognized certificate type, defaulting", "raw", f.CertType, "filename", filename)
	}
	surveyType, _ := constants.CanonicalizeSurveyType(f.NextSurveyType)

	cert := &entity.Certificate{
		ID:                uuid.New(),
		ShipID:            ship.ID,
		CertName:          strings.TrimSpace(f.CertName),
		CertAbbrev:        extract.ResolveAbbrev(f.CertAbbrev, f.CertName),
		CertType:          certType,
		CertNo:            strings.TrimSpace(f.CertNo),
		NextSurveyType:    surveyType,
		IssuingAuthority:  strings.TrimSpace(f.Authority),
		ExtractedShipName: strings.TrimSpace(f.ShipName),
		ExtractedIMO:      validate.NormalizeIMO(f.IMONumber),
		ShipName:          ship.Name,
		Content:           summary,
		Confidence:        result.Confidence,
	}
	cert.IssueDate = o.parseDate(f.IssueDate, "issue_date", filename)
	cert.ValidDate = o.parseDate(f.ValidDate, "valid_date", filename)
	cert.LastEndorseDate = o.parseDate(f.LastEndorseDate, "last_endorse_date", filename)
	cert.NextSurveyDate = survey.DeriveNextSurveyDate(
		cert.CertType, cert.ValidDate, cert.IssueDate, cert.LastEndorseDate, o.now())
	return cert
}

func (o *Orchestrator) parseDate(raw, field, filename string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := o.parser.Parse(raw)
	if err != nil {
		o.logger.Warn("date unparseable, field left unset",
			"field", field, "raw", raw, "filename", filename, "err", err)
		return nil
	}
	return &t
}

// storageFilename names the uploaded object after the certificate, not the
// scan. The abbreviation is never the full certificate name.
func storageFilename(cert *entity.Certificate, ext string) string {
	base := cert.CertAbbrev
	if cert.CertNo != "" {
		base += "_" + cert.CertNo
	}
	return base + "." + ext
}
