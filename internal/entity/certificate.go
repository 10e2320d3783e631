package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdocs/shipcert/constants"
)

// Certificate represents one compliance document tied to a ship, for data
// transfer between layers.
type Certificate struct {
	ID               uuid.UUID            `json:"id"`
	ShipID           uuid.UUID            `json:"ship_id"`
	CertName         string               `json:"cert_name"`
	CertAbbrev       string               `json:"cert_abbrev"`
	CertType         constants.CertType   `json:"cert_type"`
	CertNo           string               `json:"cert_no"`
	IssueDate        *time.Time           `json:"issue_date,omitempty"`
	ValidDate        *time.Time           `json:"valid_date,omitempty"`
	LastEndorseDate  *time.Time           `json:"last_endorse_date,omitempty"`
	NextSurveyDate   *time.Time           `json:"next_survey_date,omitempty"`
	NextSurveyType   constants.SurveyType `json:"next_survey_type"`
	IssuingAuthority string               `json:"issuing_authority,omitempty"`
	// ExtractedShipName and ExtractedIMO are the identity fields read off the
	// document itself; ShipName below is the denormalized target-ship name at
	// filing time.
	ExtractedShipName string     `json:"extracted_ship_name,omitempty"`
	ExtractedIMO      string     `json:"extracted_imo,omitempty"`
	ShipName          string     `json:"ship_name"`
	Content           string     `json:"content,omitempty"` // summary text kept for re-analysis
	ValidationNote    *string    `json:"validation_note,omitempty"`
	Confidence        float64    `json:"confidence"` // 0..1
	FileID            string     `json:"file_id,omitempty"`
	FileURL           string     `json:"file_url,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
