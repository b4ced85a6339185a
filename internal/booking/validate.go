package booking

import (
	"fmt"
	"strings"
	"time"
)

const maxNoteLen = 1000

// CreateRequest carries the input of Manager.Create.
type CreateRequest struct {
	FieldID   uint64
	UserID    uint64
	Date      string
	StartTime string
	EndTime   string
	Note      *string
}

// ValidateCreate checks req against the booking input rules and returns the
// parsed slot.  today is truncated to the calendar day in its own location;
// a date before it is rejected.
func ValidateCreate(req CreateRequest, today time.Time) (Slot, error) {
	if req.FieldID == 0 {
		return Slot{}, fmt.Errorf("%w: field_id is required", ErrValidation)
	}
	if req.UserID == 0 {
		return Slot{}, fmt.Errorf("%w: user is required", ErrValidation)
	}
	d, err := ParseDate(req.Date)
	if err != nil {
		return Slot{}, err
	}
	y, m, day := today.Date()
	if d.Before(time.Date(y, m, day, 0, 0, 0, 0, time.UTC)) {
		return Slot{}, fmt.Errorf("%w: date cannot be in the past", ErrValidation)
	}
	slot, err := NewSlot(req.StartTime, req.EndTime)
	if err != nil {
		return Slot{}, err
	}
	if req.Note != nil && len(strings.TrimSpace(*req.Note)) > maxNoteLen {
		return Slot{}, fmt.Errorf("%w: note must be at most %d characters", ErrValidation, maxNoteLen)
	}
	return slot, nil
}
