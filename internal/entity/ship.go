package entity

import (
	"time"

	"github.com/google/uuid"
)

// Ship is the source of truth for identity validation. Certificates hold a
// weak reference (ShipID) plus a denormalized name copy.
type Ship struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	IMO          string     `json:"imo"` // 7 digits
	LastDocking  *time.Time `json:"last_docking,omitempty"`
	LastDocking2 *time.Time `json:"last_docking_2,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
