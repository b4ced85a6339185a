package field

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/booking"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

type memRepo struct {
	rows   map[uint64]model.Field
	nextID uint64
	fail   error
}

func newMemRepo() *memRepo { return &memRepo{rows: map[uint64]model.Field{}} }

func (r *memRepo) List(_ context.Context, f model.FieldFilter) ([]model.Field, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	var out []model.Field
	for _, fl := range r.rows {
		if f.Status != "" && fl.Status != f.Status {
			continue
		}
		if f.Name != "" && !strings.Contains(fl.Name, f.Name) {
			continue
		}
		out = append(out, fl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, id uint64) (model.Field, error) {
	f, ok := r.rows[id]
	if !ok {
		return model.Field{}, sql.ErrNoRows
	}
	return f, nil
}

func (r *memRepo) Create(_ context.Context, f *model.Field) error {
	r.nextID++
	f.ID = r.nextID
	r.rows[f.ID] = *f
	return nil
}

func (r *memRepo) Update(_ context.Context, f *model.Field) error {
	if _, ok := r.rows[f.ID]; !ok {
		return sql.ErrNoRows
	}
	r.rows[f.ID] = *f
	return nil
}

func (r *memRepo) SetStatus(_ context.Context, id uint64, status string) error {
	f, ok := r.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	f.Status = status
	r.rows[id] = f
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uint64) error {
	if _, ok := r.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.rows, id)
	return nil
}

type countingCache struct{ n int }

func (c *countingCache) Invalidate(context.Context) error { c.n++; return nil }

func ptr[T any](v T) *T { return &v }

func TestCreateDefaultsAndValidation(t *testing.T) {
	cache := &countingCache{}
	svc := NewService(newMemRepo(), cache, nil)
	ctx := context.Background()

	f, err := svc.Create(ctx, Input{Name: ptr("  Lapangan A "), HourlyRate: ptr(decimal.RequireFromString("150000.456"))})
	require.NoError(t, err)
	assert.Equal(t, "Lapangan A", f.Name)
	assert.Equal(t, model.FieldActive, f.Status)
	assert.Equal(t, "150000.46", f.HourlyRate.StringFixed(2))
	assert.Equal(t, []string{}, f.Facilities)
	assert.Equal(t, 1, cache.n)

	bad := []Input{
		{Name: ptr("AB"), HourlyRate: ptr(decimal.NewFromInt(1))},
		{Name: ptr("Lapangan"), HourlyRate: ptr(decimal.Zero)},
		{Name: ptr("Lapangan"), HourlyRate: ptr(decimal.NewFromInt(-5))},
		{Name: ptr("Lapangan"), HourlyRate: ptr(decimal.NewFromInt(5)), Status: ptr("closed")},
		{Name: ptr("Lapangan")},
	}
	for _, in := range bad {
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, booking.ErrValidation)
	}
	assert.Equal(t, 1, cache.n)
}

func TestUpdatePartial(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)
	ctx := context.Background()
	f, err := svc.Create(ctx, Input{Name: ptr("Lapangan A"), Description: ptr("indoor"), HourlyRate: ptr(decimal.NewFromInt(100000)), Facilities: []string{"parkir"}})
	require.NoError(t, err)

	up, err := svc.Update(ctx, f.ID, Input{HourlyRate: ptr(decimal.NewFromInt(120000))})
	require.NoError(t, err)
	assert.Equal(t, "Lapangan A", up.Name)
	assert.Equal(t, "indoor", up.Description)
	assert.Equal(t, []string{"parkir"}, up.Facilities)
	assert.True(t, decimal.NewFromInt(120000).Equal(up.HourlyRate))

	_, err = svc.Update(ctx, 99, Input{Name: ptr("Lapangan Z")})
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestToggleStatus(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)
	ctx := context.Background()
	f, err := svc.Create(ctx, Input{Name: ptr("Lapangan A"), HourlyRate: ptr(decimal.NewFromInt(100000))})
	require.NoError(t, err)

	f, err = svc.ToggleStatus(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FieldInactive, f.Status)
	f, err = svc.ToggleStatus(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FieldActive, f.Status)

	_, err = svc.ToggleStatus(ctx, 42)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestListAndDelete(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	for _, n := range []string{"Futsal A", "Futsal B", "Mini Soccer"} {
		_, err := svc.Create(ctx, Input{Name: ptr(n), HourlyRate: ptr(decimal.NewFromInt(50000))})
		require.NoError(t, err)
	}
	_, err := svc.ToggleStatus(ctx, 2)
	require.NoError(t, err)

	out, err := svc.List(ctx, model.FieldFilter{Status: model.FieldActive, Name: "Futsal"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Futsal A", out[0].Name)

	all, err := svc.List(ctx, model.FieldFilter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), all[0].ID)

	_, err = svc.List(ctx, model.FieldFilter{Status: "open"})
	assert.ErrorIs(t, err, booking.ErrValidation)

	require.NoError(t, svc.Delete(ctx, 1))
	assert.ErrorIs(t, svc.Delete(ctx, 1), booking.ErrNotFound)

	repo.fail = errors.New("db down")
	_, err = svc.List(ctx, model.FieldFilter{})
	assert.ErrorIs(t, err, booking.ErrDataAccess)
}
