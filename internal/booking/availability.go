package booking

import (
	"context"
	"sort"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// Availability is the outcome of an availability check.  Conflicts is
// unordered.
type Availability struct {
	Available bool                 `json:"available"`
	Conflicts []model.SlotConflict `json:"conflicts"`
}

// Checker answers whether a window on a field is free.  It never writes.
type Checker struct {
	store Store
}

// NewChecker returns a Checker reading from store.
func NewChecker(store Store) *Checker { return &Checker{store: store} }

// Check reports the active reservations of fieldID on date that overlap
// [start, end).  Only pending and confirmed reservations block.  A non-zero
// excludeID is ignored during the check.
func (c *Checker) Check(ctx context.Context, fieldID uint64, date, start, end string, excludeID uint64) (Availability, error) {
	slot, err := NewSlot(start, end)
	if err != nil {
		return Availability{}, err
	}
	return c.check(ctx, fieldID, date, slot, excludeID)
}

func (c *Checker) check(ctx context.Context, fieldID uint64, date string, slot Slot, excludeID uint64) (Availability, error) {
	rows, err := c.store.FindBlocking(ctx, SlotQuery{
		FieldID:   fieldID,
		Date:      date,
		Start:     FormatClock(slot.Start),
		End:       FormatClock(slot.End),
		ExcludeID: excludeID,
	})
	if err != nil {
		return Availability{}, DataAccess("find blocking reservations", err)
	}
	conflicts := make([]model.SlotConflict, 0)
	for _, r := range rows {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if !model.BlocksAvailability(r.Status) {
			continue
		}
		existing, err := NewSlot(r.StartTime, r.EndTime)
		if err != nil {
			// A stored row that fails to parse cannot be proven free.
			conflicts = append(conflicts, model.SlotConflict{ID: r.ID, StartTime: r.StartTime, EndTime: r.EndTime})
			continue
		}
		if existing.Overlaps(slot) {
			conflicts = append(conflicts, model.SlotConflict{ID: r.ID, StartTime: r.StartTime, EndTime: r.EndTime})
		}
	}
	return Availability{Available: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// Window is a free stretch of time on a field.
type Window struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Schedule is the booked and free time of one field on one day.
type Schedule struct {
	FieldID uint64               `json:"field_id"`
	Date    string               `json:"date"`
	Booked  []model.SlotConflict `json:"booked"`
	Free    []Window             `json:"free"`
}

// Schedule lists the blocking reservations of fieldID on date that fall
// inside [opens, closes) and the gaps between them.
func (c *Checker) Schedule(ctx context.Context, fieldID uint64, date, opens, closes string) (Schedule, error) {
	day, err := NewSlot(opens, closes)
	if err != nil {
		return Schedule{}, err
	}
	rows, err := c.store.FindBlocking(ctx, SlotQuery{FieldID: fieldID, Date: date, Start: FormatClock(day.Start), End: FormatClock(day.End)})
	if err != nil {
		return Schedule{}, DataAccess("find blocking reservations", err)
	}

	type booked struct {
		id   uint64
		slot Slot
		r    model.Reservation
	}
	var taken []booked
	for _, r := range rows {
		s, err := NewSlot(r.StartTime, r.EndTime)
		if err != nil || !model.BlocksAvailability(r.Status) || !s.Overlaps(day) {
			continue
		}
		taken = append(taken, booked{id: r.ID, slot: s, r: r})
	}
	sort.Slice(taken, func(i, j int) bool {
		if taken[i].slot.Start != taken[j].slot.Start {
			return taken[i].slot.Start < taken[j].slot.Start
		}
		return taken[i].id < taken[j].id
	})

	out := Schedule{FieldID: fieldID, Date: date, Booked: make([]model.SlotConflict, 0, len(taken)), Free: make([]Window, 0)}
	cursor := day.Start
	for _, b := range taken {
		out.Booked = append(out.Booked, model.SlotConflict{ID: b.id, StartTime: b.r.StartTime, EndTime: b.r.EndTime})
		if b.slot.Start > cursor {
			out.Free = append(out.Free, Window{StartTime: FormatClock(cursor), EndTime: FormatClock(b.slot.Start)})
		}
		if b.slot.End > cursor {
			cursor = b.slot.End
		}
	}
	if cursor < day.End {
		out.Free = append(out.Free, Window{StartTime: FormatClock(cursor), EndTime: FormatClock(day.End)})
	}
	return out, nil
}
