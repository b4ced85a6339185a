package booking

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

func seedReservation(s *MemoryStore, id uint64, start, end, status string) {
	s.PutReservation(model.Reservation{
		ID: id, UserID: 1, FieldID: 1, Date: "2025-01-15",
		StartTime: start, EndTime: end, Status: status,
		TotalPrice: decimal.Zero,
	})
}

func TestCheckOverlapCases(t *testing.T) {
	s := NewMemoryStore()
	seedReservation(s, 1, "09:00", "11:00", model.StatusConfirmed)
	c := NewChecker(s)
	ctx := context.Background()

	av, err := c.Check(ctx, 1, "2025-01-15", "10:00", "12:00", 0)
	require.NoError(t, err)
	assert.False(t, av.Available)
	require.Len(t, av.Conflicts, 1)
	assert.Equal(t, model.SlotConflict{ID: 1, StartTime: "09:00", EndTime: "11:00"}, av.Conflicts[0])

	av, err = c.Check(ctx, 1, "2025-01-15", "11:00", "12:00", 0)
	require.NoError(t, err)
	assert.True(t, av.Available)
	assert.Empty(t, av.Conflicts)

	av, err = c.Check(ctx, 1, "2025-01-15", "08:00", "09:00", 0)
	require.NoError(t, err)
	assert.True(t, av.Available)

	// other day and other field are independent
	av, err = c.Check(ctx, 1, "2025-01-16", "09:00", "11:00", 0)
	require.NoError(t, err)
	assert.True(t, av.Available)
	av, err = c.Check(ctx, 2, "2025-01-15", "09:00", "11:00", 0)
	require.NoError(t, err)
	assert.True(t, av.Available)
}

func TestCheckMatchesOverlapDefinition(t *testing.T) {
	s := NewMemoryStore()
	seedReservation(s, 1, "10:00", "12:00", model.StatusPending)
	c := NewChecker(s)
	// every window on a half-hour grid between 08:00 and 14:00
	for a := 480; a < 840; a += 30 {
		for b := a + 30; b <= 840; b += 30 {
			av, err := c.Check(context.Background(), 1, "2025-01-15", FormatClock(a), FormatClock(b), 0)
			require.NoError(t, err)
			want := a < 720 && 600 < b
			assert.Equal(t, want, !av.Available, "%s-%s", FormatClock(a), FormatClock(b))
		}
	}
}

func TestCheckIgnoresCancelledAndCompleted(t *testing.T) {
	s := NewMemoryStore()
	seedReservation(s, 1, "09:00", "11:00", model.StatusCancelled)
	seedReservation(s, 2, "09:00", "11:00", model.StatusCompleted)

	av, err := NewChecker(s).Check(context.Background(), 1, "2025-01-15", "09:00", "11:00", 0)
	require.NoError(t, err)
	assert.True(t, av.Available)
}

func TestCheckExcludesReservation(t *testing.T) {
	s := NewMemoryStore()
	seedReservation(s, 7, "09:00", "11:00", model.StatusPending)
	c := NewChecker(s)

	av, err := c.Check(context.Background(), 1, "2025-01-15", "10:00", "10:30", 7)
	require.NoError(t, err)
	assert.True(t, av.Available)

	av, err = c.Check(context.Background(), 1, "2025-01-15", "10:00", "10:30", 8)
	require.NoError(t, err)
	assert.False(t, av.Available)
}

func TestCheckRejectsMalformedWindow(t *testing.T) {
	_, err := NewChecker(NewMemoryStore()).Check(context.Background(), 1, "2025-01-15", "11:00", "10:00", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestScheduleGaps(t *testing.T) {
	s := NewMemoryStore()
	seedReservation(s, 1, "09:00", "10:00", model.StatusConfirmed)
	seedReservation(s, 2, "10:00", "11:00", model.StatusPending)
	seedReservation(s, 3, "08:30", "09:30", model.StatusCancelled)
	seedReservation(s, 4, "13:00", "14:00", model.StatusPending)

	sc, err := NewChecker(s).Schedule(context.Background(), 1, "2025-01-15", "08:00", "12:00")
	require.NoError(t, err)
	assert.Equal(t, []Window{{"08:00", "09:00"}, {"11:00", "12:00"}}, sc.Free)
	require.Len(t, sc.Booked, 2)
	assert.Equal(t, uint64(1), sc.Booked[0].ID)
	assert.Equal(t, uint64(2), sc.Booked[1].ID)
}

func TestScheduleClipsToOpeningHours(t *testing.T) {
	s := NewMemoryStore()
	seedReservation(s, 1, "07:00", "09:00", model.StatusConfirmed)
	seedReservation(s, 2, "11:30", "13:00", model.StatusConfirmed)

	sc, err := NewChecker(s).Schedule(context.Background(), 1, "2025-01-15", "08:00", "12:00")
	require.NoError(t, err)
	assert.Equal(t, []Window{{"09:00", "11:30"}}, sc.Free)

	empty, err := NewChecker(s).Schedule(context.Background(), 1, "2025-01-16", "08:00", "12:00")
	require.NoError(t, err)
	assert.Empty(t, empty.Booked)
	assert.Equal(t, []Window{{"08:00", "12:00"}}, empty.Free)
}
