package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/booking"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

var (
	ts            = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	fieldCols     = []string{"id", "name", "description", "hourly_rate", "photo_urls", "facilities", "status", "created_at", "updated_at"}
	bookingCols   = []string{"id", "user_id", "field_id", "date", "start_time", "end_time", "total_price", "status", "note", "created_at", "updated_at"}
	detailCols    = append(append([]string{}, bookingCols...), "field_name", "hourly_rate", "user_name", "email", "phone")
	lockFieldSQL  = regexp.QuoteMeta("SELECT id FROM fields WHERE id = ? FOR UPDATE")
	selectField   = regexp.QuoteMeta("FROM fields WHERE id = ?")
	selectBlocked = regexp.QuoteMeta("b.status IN ('pending', 'confirmed')")
)

func newMock(t *testing.T) (*BookingStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBookingStore(db), mock
}

func fieldRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows(fieldCols).
		AddRow(1, "Lapangan A", "rumput sintetis", "150000.00", []byte(`["a.jpg"]`), []byte(`["parkir","kantin"]`), status, ts, ts)
}

func newManager(store booking.Store) *booking.Manager {
	return booking.NewManager(store, nil, nil, booking.WithClock(func() time.Time { return ts }))
}

func TestCreateLocksFieldAndCommits(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockFieldSQL).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(selectField).WithArgs(1).WillReturnRows(fieldRow(model.FieldActive))
	mock.ExpectQuery(selectBlocked).
		WithArgs(1, "2025-01-15", "11:00", "09:00").
		WillReturnRows(sqlmock.NewRows(bookingCols))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(10, 1, "2025-01-15", "09:00", "11:00", sqlmock.AnyArg(), model.StatusPending, nil).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b WHERE b.id = ?")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(5, 10, 1, "2025-01-15", "09:00", "11:00", "300000.00", model.StatusPending, nil, ts, ts))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("JOIN users u ON u.id = b.user_id WHERE b.id = ?")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(detailCols).
			AddRow(5, 10, 1, "2025-01-15", "09:00", "11:00", "300000.00", model.StatusPending, nil, ts, ts,
				"Lapangan A", "150000.00", "Budi", "budi@example.com", "081234567890"))

	d, err := newManager(store).Create(context.Background(), booking.CreateRequest{
		FieldID: 1, UserID: 10, Date: "2025-01-15", StartTime: "09:00", EndTime: "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), d.ID)
	assert.True(t, decimal.NewFromInt(300000).Equal(d.TotalPrice))
	assert.Equal(t, "Lapangan A", d.Field.Name)
	assert.Equal(t, uint64(1), d.Field.ID)
	assert.Equal(t, model.OwnerSummary{ID: 10, Name: "Budi", Email: "budi@example.com", Phone: "081234567890"}, d.User)
	assert.Nil(t, d.Note)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackOnConflict(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockFieldSQL).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(selectField).WithArgs(1).WillReturnRows(fieldRow(model.FieldActive))
	mock.ExpectQuery(selectBlocked).
		WithArgs(1, "2025-01-15", "12:00", "10:00").
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(3, 11, 1, "2025-01-15", "09:00", "11:00", "300000.00", model.StatusConfirmed, nil, ts, ts))
	mock.ExpectRollback()

	_, err := newManager(store).Create(context.Background(), booking.CreateRequest{
		FieldID: 1, UserID: 10, Date: "2025-01-15", StartTime: "10:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, booking.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackOnInactiveField(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockFieldSQL).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(selectField).WithArgs(1).WillReturnRows(fieldRow(model.FieldInactive))
	mock.ExpectRollback()

	_, err := newManager(store).Create(context.Background(), booking.CreateRequest{
		FieldID: 1, UserID: 10, Date: "2025-01-15", StartTime: "10:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, booking.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertFailureIsDataAccess(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockFieldSQL).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(selectField).WithArgs(1).WillReturnRows(fieldRow(model.FieldActive))
	mock.ExpectQuery(selectBlocked).WillReturnRows(sqlmock.NewRows(bookingCols))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})
	mock.ExpectRollback()

	_, err := newManager(store).Create(context.Background(), booking.CreateRequest{
		FieldID: 1, UserID: 10, Date: "2025-01-15", StartTime: "10:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, booking.ErrDataAccess)
	var me *mysql.MySQLError
	assert.ErrorAs(t, err, &me)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindFieldAbsentIsNil(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(selectField).WithArgs(9).WillReturnRows(sqlmock.NewRows(fieldCols))

	f, err := store.FindField(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, f)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindFieldDecodesJSONColumns(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(selectField).WithArgs(1).WillReturnRows(fieldRow(model.FieldActive))

	f, err := store.FindField(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, []string{"a.jpg"}, f.PhotoURLs)
	assert.Equal(t, []string{"parkir", "kantin"}, f.Facilities)
	assert.True(t, decimal.NewFromInt(150000).Equal(f.HourlyRate))
}

func TestFindFieldCorruptJSONColumnIsDataAccess(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(selectField).WithArgs(1).WillReturnRows(sqlmock.NewRows(fieldCols).
		AddRow(1, "Lapangan A", nil, "150000.00", []byte(`["a.jpg"]`), []byte(`{not json`), model.FieldActive, ts, ts))

	f, err := store.FindField(context.Background(), 1)
	assert.Nil(t, f)
	require.ErrorIs(t, err, booking.ErrDataAccess)
	assert.Contains(t, err.Error(), "facilities")
}

func TestFindBlockingExcludesID(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(selectBlocked+`.*`+regexp.QuoteMeta("AND b.id <> ?")).
		WithArgs(1, "2025-01-15", "11:00", "10:00", 4).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	av, err := booking.NewChecker(store).Check(context.Background(), 1, "2025-01-15", "10:00", "11:00", 4)
	require.NoError(t, err)
	assert.True(t, av.Available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindReservationsFiltersAndOrders(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.user_id = ? AND b.status = ? ORDER BY b.date DESC, b.start_time DESC")).
		WithArgs(10, model.StatusPending).
		WillReturnRows(sqlmock.NewRows(detailCols).
			AddRow(2, 10, 1, "2025-01-16", "10:00", "11:00", "150000.00", model.StatusPending, "bawa bola", ts, ts,
				"Lapangan A", "150000.00", "Budi", "budi@example.com", nil))

	out, err := store.FindReservations(context.Background(), model.ReservationFilter{UserID: 10, Status: model.StatusPending})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Note)
	assert.Equal(t, "bawa bola", *out[0].Note)
	assert.Equal(t, "", out[0].User.Phone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryFailureIsDataAccess(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b WHERE b.id = ?")).
		WillReturnError(&mysql.MySQLError{Number: 2006, Message: "MySQL server has gone away"})

	_, err := newManager(store).Cancel(context.Background(), 1, 10, false)
	assert.ErrorIs(t, err, booking.ErrDataAccess)
}
