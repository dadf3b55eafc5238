package store

import (
	"time"

	"meeting-reservation-backend/internal/model"
)

// ApplicationFilter narrows an admin application listing. Nil/zero fields
// are ignored. CreatedFrom/CreatedTo form a half-open interval on created_at.
type ApplicationFilter struct {
	Status      *model.Status
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// GenderBreakdown aggregates applications of every status for one date.
type GenderBreakdown struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Other  int `json:"other"`
	Total  int `json:"total"`
}
