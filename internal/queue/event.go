// Package queue carries booking lifecycle events over RabbitMQ: the wire
// payload, a publisher implementing booking.Publisher and a consumer that
// journals every event.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/booking"
)

// QueueName is the durable queue all booking events go to.  It is also
// the routing key on the default exchange.
const QueueName = "booking.events"

// HeaderEventType names the AMQP header that repeats the event type.
const HeaderEventType = "event_type"

// BookingEvent is the JSON body of a booking event message.
type BookingEvent struct {
	EventID        string          `json:"event_id"`
	EventType      string          `json:"event_type"`
	ReservationID  uint64          `json:"reservation_id"`
	UserID         uint64          `json:"user_id"`
	FieldID        uint64          `json:"field_id"`
	FieldName      string          `json:"field_name"`
	Date           string          `json:"date"`
	StartTime      string          `json:"start_time"`
	EndTime        string          `json:"end_time"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previous_status,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// FromEvent converts a domain event into its wire form.
func FromEvent(ev booking.Event) BookingEvent {
	return BookingEvent{
		EventID:        ev.ID,
		EventType:      ev.Type,
		ReservationID:  ev.ReservationID,
		UserID:         ev.UserID,
		FieldID:        ev.FieldID,
		FieldName:      ev.FieldName,
		Date:           ev.Date,
		StartTime:      ev.StartTime,
		EndTime:        ev.EndTime,
		TotalPrice:     ev.TotalPrice,
		Status:         ev.Status,
		PreviousStatus: ev.PreviousStatus,
		OccurredAt:     ev.OccurredAt,
	}
}

// NewMessage builds a persistent JSON publishing for ev.
func NewMessage(ev booking.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(FromEvent(ev))
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    ev.OccurredAt,
		Headers:      amqp.Table{HeaderEventType: ev.Type},
		Body:         body,
	}, nil
}

var errMalformed = errors.New("malformed booking event")

// decodeEvent parses a message body.  The header event type, when set,
// must agree with the body.
func decodeEvent(body []byte, headerType string) (BookingEvent, error) {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return BookingEvent{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if ev.EventType == "" || ev.ReservationID == 0 {
		return BookingEvent{}, fmt.Errorf("%w: missing event_type or reservation_id", errMalformed)
	}
	if headerType != "" && headerType != ev.EventType {
		return BookingEvent{}, fmt.Errorf("%w: header type %q does not match body type %q", errMalformed, headerType, ev.EventType)
	}
	return ev, nil
}
