package booking

import (
	"context"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// SlotQuery selects the active reservations of one field on one day that
// may collide with [Start, End).  ExcludeID, when non-zero, drops that
// reservation from the result.
type SlotQuery struct {
	FieldID   uint64
	Date      string
	Start     string
	End       string
	ExcludeID uint64
}

// Store is the persistence port of the booking core.  Find methods return
// a nil record rather than an error when nothing matches.  Implementations
// tag storage failures with ErrDataAccess.
type Store interface {
	FindField(ctx context.Context, id uint64) (*model.Field, error)
	FindReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	FindDetail(ctx context.Context, id uint64) (*model.ReservationDetail, error)
	// FindReservations returns matches ordered by date then start time,
	// both descending.
	FindReservations(ctx context.Context, f model.ReservationFilter) ([]model.ReservationDetail, error)
	// FindBlocking returns pending or confirmed reservations matching q.
	// It may return a superset of the overlapping rows; callers re-apply
	// the overlap test.
	FindBlocking(ctx context.Context, q SlotQuery) ([]model.Reservation, error)
	InsertReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservationStatus(ctx context.Context, id uint64, status string) error
	DeleteReservation(ctx context.Context, id uint64) error
	// WithFieldLock runs fn while holding an exclusive lock on the field.
	// The Store handed to fn is scoped to the lock; a non-nil error from
	// fn discards every write made through it.
	WithFieldLock(ctx context.Context, fieldID uint64, fn func(ctx context.Context, s Store) error) error
}
