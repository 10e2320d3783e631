package validate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/entity"
)

// CertificateFinder is the slice of the certificate store the detector
// depends on.
type CertificateFinder interface {
	ListByShip(ctx context.Context, shipID uuid.UUID) ([]*entity.Certificate, error)
	FindByCertNo(ctx context.Context, shipID uuid.UUID, certNo string) ([]*entity.Certificate, error)
}

// DuplicateDetector scores a newly extracted certificate against the ship's
// existing certificates.
type DuplicateDetector struct {
	certs     CertificateFinder
	threshold float64
	logger    *slog.Logger
}

func NewDuplicateDetector(certs CertificateFinder, threshold float64, logger *slog.Logger) *DuplicateDetector {
	if threshold <= 0 {
		threshold = constants.DuplicateSimilarityThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DuplicateDetector{certs: certs, threshold: threshold, logger: logger}
}

// FindDuplicates returns every existing certificate whose similarity to the
// candidate meets the threshold (inclusive). A non-empty result suspends
// automatic creation; the caller resolves the conflict.
//
// When the candidate carries a cert_no, exact-number matches are checked
// first; a hit there answers without scanning the ship's full certificate
// list. Candidates without a cert_no, or whose number is unseen, fall back
// to the full scan so name/date collisions are still caught.
func (d *DuplicateDetector) FindDuplicates(ctx context.Context, candidate *entity.Certificate, shipID uuid.UUID) ([]entity.DuplicateMatch, error) {
	if candidate.CertNo != "" {
		exact, err := d.certs.FindByCertNo(ctx, shipID, candidate.CertNo)
		if err != nil {
			return nil, fmt.Errorf("find certificates by number for ship %s: %w", shipID, err)
		}
		if matches := d.score(candidate, exact); len(matches) > 0 {
			d.logMatches(shipID, candidate.CertNo, len(matches))
			return matches, nil
		}
	}

	existing, err := d.certs.ListByShip(ctx, shipID)
	if err != nil {
		return nil, fmt.Errorf("list certificates for ship %s: %w", shipID, err)
	}
	matches := d.score(candidate, existing)
	if len(matches) > 0 {
		d.logMatches(shipID, candidate.CertNo, len(matches))
	}
	return matches, nil
}

func (d *DuplicateDetector) score(candidate *entity.Certificate, existing []*entity.Certificate) []entity.DuplicateMatch {
	var matches []entity.DuplicateMatch
	for _, ex := range existing {
		sim := Similarity(candidate, ex)
		if sim >= d.threshold {
			matches = append(matches, entity.DuplicateMatch{Certificate: ex, Similarity: sim})
		}
	}
	return matches
}

func (d *DuplicateDetector) logMatches(shipID uuid.UUID, certNo string, n int) {
	d.logger.Warn("duplicate.found",
		"ship_id", shipID, "cert_no", certNo, "matches", n)
}

// Similarity is the fraction of {cert_name, cert_no, issue_date, valid_date}
// that match exactly, counting only fields present on the candidate. A
// candidate with none of the four present scores 0.
func Similarity(candidate, existing *entity.Certificate) float64 {
	present, matched := 0, 0

	if name := strings.TrimSpace(candidate.CertName); name != "" {
		present++
		if strings.EqualFold(name, strings.TrimSpace(existing.CertName)) {
			matched++
		}
	}
	if no := strings.TrimSpace(candidate.CertNo); no != "" {
		present++
		if no == strings.TrimSpace(existing.CertNo) {
			matched++
		}
	}
	if candidate.IssueDate != nil {
		present++
		if existing.IssueDate != nil && candidate.IssueDate.Equal(*existing.IssueDate) {
			matched++
		}
	}
	if candidate.ValidDate != nil {
		present++
		if existing.ValidDate != nil && candidate.ValidDate.Equal(*existing.ValidDate) {
			matched++
		}
	}

	if present == 0 {
		return 0
	}
	return float64(matched) / float64(present)
}
