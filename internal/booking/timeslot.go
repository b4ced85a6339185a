package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the wire format of reservation dates.
const DateLayout = "2006-01-02"

// clockRe accepts 24h HH:mm with an optional leading zero on the hour.
var clockRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock converts an HH:mm value into minutes since midnight.
func ParseClock(s string) (int, error) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: invalid time %q, expected HH:mm", ErrValidation, s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return h*60 + min, nil
}

// FormatClock renders minutes since midnight as zero padded HH:mm.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrValidation, s)
	}
	return d, nil
}

// Overlaps reports whether the half-open intervals [a,b) and [c,d)
// intersect.  Intervals that only touch at an endpoint do not overlap.
func Overlaps(a, b, c, d int) bool {
	return a < d && c < b
}

// Slot is a same-day half-open window [Start, End) in minutes since
// midnight.
type Slot struct {
	Start int
	End   int
}

// NewSlot parses start and end and requires end to be after start.
func NewSlot(start, end string) (Slot, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Slot{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Slot{}, err
	}
	if e <= s {
		return Slot{}, fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}
	return Slot{Start: s, End: e}, nil
}

// Minutes is the length of the slot.
func (s Slot) Minutes() int { return s.End - s.Start }

// Overlaps reports whether s and o share any instant.
func (s Slot) Overlaps(o Slot) bool { return Overlaps(s.Start, s.End, o.Start, o.End) }

func (s Slot) String() string { return FormatClock(s.Start) + "-" + FormatClock(s.End) }
