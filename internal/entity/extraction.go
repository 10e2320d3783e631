package entity

import (
	"github.com/google/uuid"

	"github.com/fleetdocs/shipcert/constants"
)

// CertificateFields is the normalized field set produced by any extraction
// tier. Dates are raw strings here; the orchestrator runs them through the
// date parser before anything is persisted.
type CertificateFields struct {
	CertName        string `json:"cert_name"`
	CertAbbrev      string `json:"cert_abbrev,omitempty"`
	CertType        string `json:"cert_type,omitempty"`
	CertNo          string `json:"cert_no,omitempty"`
	IssueDate       string `json:"issue_date,omitempty"`
	ValidDate       string `json:"valid_date,omitempty"`
	LastEndorseDate string `json:"last_endorse_date,omitempty"`
	NextSurveyType  string `json:"next_survey_type,omitempty"`
	Authority       string `json:"issuing_authority,omitempty"`
	ShipName        string `json:"ship_name,omitempty"`
	IMONumber       string `json:"imo_number,omitempty"`
	// ConfidenceLabel is the model's self-reported confidence: high/medium/low.
	ConfidenceLabel string `json:"confidence,omitempty"`
}

// ExtractionResult holds one tier's output. Transient: exists only during
// the orchestration call.
type ExtractionResult struct {
	Tier       constants.ExtractionTier
	Fields     CertificateFields
	Confidence float64
}

// FileResult is the per-file outcome row returned from a batch upload.
// One file's failure never aborts sibling files.
type FileResult struct {
	Filename      string               `json:"filename"`
	Status        constants.FileStatus `json:"status"`
	CertificateID uuid.UUID            `json:"certificate_id,omitempty"`
	Message       string               `json:"message,omitempty"`
	Retryable     bool                 `json:"retryable,omitempty"`
	// BestEffort carries the partial field set when extraction fell short,
	// for manual correction.
	BestEffort *CertificateFields `json:"best_effort,omitempty"`
	// Duplicates lists conflicting existing certificates when status is
	// PENDING_DUPLICATE_RESOLUTION.
	Duplicates []DuplicateMatch `json:"duplicates,omitempty"`
}

// DuplicateMatch pairs an existing certificate with its similarity score.
type DuplicateMatch struct {
	Certificate *Certificate `json:"certificate"`
	Similarity  float64      `json:"similarity"`
}
