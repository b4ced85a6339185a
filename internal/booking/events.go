package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// Lifecycle event types.
const (
	EventCreated       = "booking.created"
	EventCancelled     = "booking.cancelled"
	EventStatusChanged = "booking.status_changed"
	EventDeleted       = "booking.deleted"
)

// Event describes a committed change to a reservation.
type Event struct {
	ID             string
	Type           string
	ReservationID  uint64
	UserID         uint64
	FieldID        uint64
	FieldName      string
	Date           string
	StartTime      string
	EndTime        string
	TotalPrice     decimal.Decimal
	Status         string
	PreviousStatus string
	OccurredAt     time.Time
}

// Publisher delivers lifecycle events.  Delivery is best effort: the
// manager logs a failed publish and carries on.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

func newEvent(typ string, r model.Reservation, fieldName, previous string, at time.Time) Event {
	return Event{
		ID:             uuid.NewString(),
		Type:           typ,
		ReservationID:  r.ID,
		UserID:         r.UserID,
		FieldID:        r.FieldID,
		FieldName:      fieldName,
		Date:           r.Date,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		TotalPrice:     r.TotalPrice,
		Status:         r.Status,
		PreviousStatus: previous,
		OccurredAt:     at.UTC(),
	}
}
