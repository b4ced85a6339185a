package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// Manager owns reservation creation and status transitions.  It holds no
// mutable state of its own; all coordination happens in the Store.
type Manager struct {
	store   Store
	checker *Checker
	pub     Publisher
	log     *zap.Logger
	now     func() time.Time
	strict  bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for date validation and event
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithStrictTransitions makes UpdateStatus reject moves outside
// pending→confirmed, pending→cancelled, confirmed→completed and
// confirmed→cancelled.
func WithStrictTransitions(strict bool) Option {
	return func(m *Manager) { m.strict = strict }
}

// NewManager wires a Manager.  pub and log may be nil.
func NewManager(store Store, pub Publisher, log *zap.Logger, opts ...Option) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		store:   store,
		checker: NewChecker(store),
		pub:     pub,
		log:     log,
		now:     time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// CheckAvailability delegates to the availability checker.
func (m *Manager) CheckAvailability(ctx context.Context, fieldID uint64, date, start, end string, excludeID uint64) (Availability, error) {
	if _, err := ParseDate(date); err != nil {
		return Availability{}, err
	}
	return m.checker.Check(ctx, fieldID, date, start, end, excludeID)
}

// Default opening hours used by Schedule when none are given.
const (
	DefaultOpen  = "06:00"
	DefaultClose = "23:00"
)

// Schedule returns the booked and free windows of a field on date.  Empty
// opens or closes fall back to the default opening hours.
func (m *Manager) Schedule(ctx context.Context, fieldID uint64, date, opens, closes string) (Schedule, error) {
	if _, err := ParseDate(date); err != nil {
		return Schedule{}, err
	}
	if opens == "" {
		opens = DefaultOpen
	}
	if closes == "" {
		closes = DefaultClose
	}
	f, err := m.store.FindField(ctx, fieldID)
	if err != nil {
		return Schedule{}, DataAccess("find field", err)
	}
	if f == nil {
		return Schedule{}, fmt.Errorf("%w: field %d does not exist", ErrNotFound, fieldID)
	}
	return m.checker.Schedule(ctx, fieldID, date, opens, closes)
}

// Create books a field for the requested window.  The field lookup, the
// availability check and the insert run under the field lock so that two
// overlapping requests cannot both succeed.  The returned reservation is
// read back after the lock is released.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*model.ReservationDetail, error) {
	slot, err := ValidateCreate(req, m.now())
	if err != nil {
		return nil, err
	}
	if req.Note != nil {
		n := strings.TrimSpace(*req.Note)
		if n == "" {
			req.Note = nil
		} else {
			req.Note = &n
		}
	}

	var (
		res       model.Reservation
		fieldName string
	)
	err = m.store.WithFieldLock(ctx, req.FieldID, func(ctx context.Context, tx Store) error {
		f, err := tx.FindField(ctx, req.FieldID)
		if err != nil {
			return DataAccess("find field", err)
		}
		if f == nil {
			return fmt.Errorf("%w: field %d does not exist", ErrNotFound, req.FieldID)
		}
		if !f.IsActive() {
			return fmt.Errorf("%w: field %q is not available for booking", ErrInvalidState, f.Name)
		}
		av, err := NewChecker(tx).check(ctx, f.ID, req.Date, slot, 0)
		if err != nil {
			return err
		}
		if !av.Available {
			return fmt.Errorf("%w: time slot %s on %s is already booked", ErrConflict, slot, req.Date)
		}
		res = model.Reservation{
			UserID:     req.UserID,
			FieldID:    f.ID,
			Date:       req.Date,
			StartTime:  FormatClock(slot.Start),
			EndTime:    FormatClock(slot.End),
			TotalPrice: Price(f.HourlyRate, slot),
			Status:     model.StatusPending,
			Note:       req.Note,
		}
		fieldName = f.Name
		if err := tx.InsertReservation(ctx, &res); err != nil {
			return DataAccess("insert reservation", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("reservation created",
		zap.Uint64("reservation_id", res.ID),
		zap.Uint64("field_id", res.FieldID),
		zap.Uint64("user_id", res.UserID),
		zap.String("date", res.Date),
		zap.String("slot", slot.String()),
		zap.String("total_price", res.TotalPrice.StringFixed(2)),
	)
	m.publish(ctx, newEvent(EventCreated, res, fieldName, "", m.now()))

	d, err := m.store.FindDetail(ctx, res.ID)
	if err != nil {
		return nil, DataAccess("read back reservation", err)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, res.ID)
	}
	return d, nil
}

// Cancel moves a pending or confirmed reservation to cancelled.  Only the
// owner or an administrator may cancel.
func (m *Manager) Cancel(ctx context.Context, id, requesterID uint64, requesterIsAdmin bool) (*model.ReservationDetail, error) {
	r, err := m.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requesterIsAdmin && r.UserID != requesterID {
		return nil, fmt.Errorf("%w: reservation %d belongs to another user", ErrForbidden, id)
	}
	if r.Status != model.StatusPending && r.Status != model.StatusConfirmed {
		return nil, fmt.Errorf("%w: reservation with status %s cannot be cancelled", ErrInvalidState, r.Status)
	}
	return m.setStatus(ctx, *r, model.StatusCancelled, EventCancelled)
}

// UpdateStatus applies an administrative status change.  Callers enforce
// the admin role.
func (m *Manager) UpdateStatus(ctx context.Context, id uint64, status string) (*model.ReservationDetail, error) {
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	r, err := m.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.strict && !allowedTransition(r.Status, status) {
		return nil, fmt.Errorf("%w: cannot change status from %s to %s", ErrInvalidState, r.Status, status)
	}
	if model.BlocksAvailability(r.Status) || !model.BlocksAvailability(status) {
		return m.setStatus(ctx, *r, status, EventStatusChanged)
	}
	return m.reactivate(ctx, *r, status)
}

// reactivate moves a cancelled or completed reservation back to a blocking
// status.  Its window is re-checked under the field lock, excluding the
// reservation itself.
func (m *Manager) reactivate(ctx context.Context, r model.Reservation, status string) (*model.ReservationDetail, error) {
	slot, err := NewSlot(r.StartTime, r.EndTime)
	if err != nil {
		return nil, err
	}
	previous := r.Status
	err = m.store.WithFieldLock(ctx, r.FieldID, func(ctx context.Context, tx Store) error {
		cur, err := tx.FindReservation(ctx, r.ID)
		if err != nil {
			return DataAccess("find reservation", err)
		}
		if cur == nil {
			return fmt.Errorf("%w: reservation %d", ErrNotFound, r.ID)
		}
		previous = cur.Status
		av, err := NewChecker(tx).check(ctx, r.FieldID, r.Date, slot, r.ID)
		if err != nil {
			return err
		}
		if !av.Available {
			return fmt.Errorf("%w: time slot %s on %s is already booked", ErrConflict, slot, r.Date)
		}
		if err := tx.UpdateReservationStatus(ctx, r.ID, status); err != nil {
			return DataAccess("update reservation status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.statusChanged(ctx, r.ID, previous, status, EventStatusChanged)
}

// Delete hard deletes a reservation.  Callers enforce the admin role.
func (m *Manager) Delete(ctx context.Context, id uint64) error {
	d, err := m.store.FindDetail(ctx, id)
	if err != nil {
		return DataAccess("find reservation", err)
	}
	if d == nil {
		return fmt.Errorf("%w: reservation %d", ErrNotFound, id)
	}
	if err := m.store.DeleteReservation(ctx, id); err != nil {
		return DataAccess("delete reservation", err)
	}
	m.log.Info("reservation deleted", zap.Uint64("reservation_id", id))
	m.publish(ctx, newEvent(EventDeleted, d.Reservation, d.Field.Name, d.Status, m.now()))
	return nil
}

// List returns reservations matching f, newest date first and, within a
// day, latest start first.
func (m *Manager) List(ctx context.Context, f model.ReservationFilter) ([]model.ReservationDetail, error) {
	if f.Status != "" && !model.ValidStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	if f.Date != "" {
		if _, err := ParseDate(f.Date); err != nil {
			return nil, err
		}
	}
	out, err := m.store.FindReservations(ctx, f)
	if err != nil {
		return nil, DataAccess("list reservations", err)
	}
	return out, nil
}

// Get returns one enriched reservation.
func (m *Manager) Get(ctx context.Context, id uint64) (*model.ReservationDetail, error) {
	d, err := m.store.FindDetail(ctx, id)
	if err != nil {
		return nil, DataAccess("find reservation", err)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
	}
	return d, nil
}

func (m *Manager) find(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, err := m.store.FindReservation(ctx, id)
	if err != nil {
		return nil, DataAccess("find reservation", err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
	}
	return r, nil
}

func (m *Manager) setStatus(ctx context.Context, r model.Reservation, status, eventType string) (*model.ReservationDetail, error) {
	if err := m.store.UpdateReservationStatus(ctx, r.ID, status); err != nil {
		return nil, DataAccess("update reservation status", err)
	}
	return m.statusChanged(ctx, r.ID, r.Status, status, eventType)
}

// statusChanged reads the reservation back after a status write, then logs
// and publishes the change.
func (m *Manager) statusChanged(ctx context.Context, id uint64, previous, status, eventType string) (*model.ReservationDetail, error) {
	d, err := m.store.FindDetail(ctx, id)
	if err != nil {
		return nil, DataAccess("read back reservation", err)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
	}
	m.log.Info("reservation status changed",
		zap.Uint64("reservation_id", id),
		zap.String("from", previous),
		zap.String("to", status),
	)
	m.publish(ctx, newEvent(eventType, d.Reservation, d.Field.Name, previous, m.now()))
	return d, nil
}

func (m *Manager) publish(ctx context.Context, ev Event) {
	if m.pub == nil {
		return
	}
	if err := m.pub.Publish(ctx, ev); err != nil {
		m.log.Warn("publish booking event failed",
			zap.String("event_type", ev.Type),
			zap.Uint64("reservation_id", ev.ReservationID),
			zap.Error(err),
		)
	}
}

var transitions = map[string][]string{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCompleted, model.StatusCancelled},
}

func allowedTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
