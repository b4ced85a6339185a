package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the four reservation statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// BlocksAvailability reports whether a reservation in status s occupies
// its slot.  Cancelled and completed reservations never block.
func BlocksAvailability(s string) bool {
	return s == StatusPending || s == StatusConfirmed
}

// Reservation records one booking of a field for a single same-day time
// window.  It corresponds to a row in the `bookings` table.  Date is a
// YYYY-MM-DD calendar day and StartTime/EndTime are HH:mm values.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – account that owns the booking.
//  FieldID    – field being booked.
//  Date       – calendar day of the booking.
//  StartTime  – inclusive start, HH:mm.
//  EndTime    – exclusive end, HH:mm.
//  TotalPrice – duration × hourly rate, fixed at creation.
//  Status     – pending, confirmed, cancelled or completed.
//  Note       – optional free-text note from the customer.
type Reservation struct {
	ID         uint64          `json:"id"`
	UserID     uint64          `json:"user_id"`
	FieldID    uint64          `json:"field_id"`
	Date       string          `json:"date"`
	StartTime  string          `json:"start_time"`
	EndTime    string          `json:"end_time"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
	Note       *string         `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// FieldSummary is the projection of a field embedded in read responses.
type FieldSummary struct {
	ID         uint64          `json:"id"`
	Name       string          `json:"name"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
}

// OwnerSummary is the projection of a user embedded in read responses.
type OwnerSummary struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ReservationDetail is a reservation enriched with its field and owner.
type ReservationDetail struct {
	Reservation
	Field FieldSummary `json:"field"`
	User  OwnerSummary `json:"user"`
}

// ReservationFilter narrows a reservation listing.  Zero values are
// ignored.
type ReservationFilter struct {
	UserID  uint64
	FieldID uint64
	Status  string
	Date    string
}

// SlotConflict identifies a reservation that collides with a requested
// window.
type SlotConflict struct {
	ID        uint64 `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
