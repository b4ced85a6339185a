package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field statuses. Only an active field can take new reservations.
const (
	FieldActive   = "active"
	FieldInactive = "inactive"
)

// Field is a bookable sports field.  It corresponds to a row in the
// `fields` table.  Fields are owned by nobody and mutated only by
// administrators.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name.
//  Description – optional free text.
//  HourlyRate  – price per hour, two decimal places.
//  PhotoURLs   – gallery image URLs (JSON column).
//  Facilities  – facility labels (JSON column).
//  Status      – active or inactive.
type Field struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	PhotoURLs   []string        `json:"photo_urls"`
	Facilities  []string        `json:"facilities"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsActive reports whether the field accepts new reservations.
func (f *Field) IsActive() bool { return f.Status == FieldActive }

// FieldFilter narrows a field listing.  Empty values are ignored.
type FieldFilter struct {
	Status string
	Name   string // substring match
}
