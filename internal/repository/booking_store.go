package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/booking"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// BookingStore implements booking.Store on the bookings table.  A store
// returned by NewBookingStore runs each call on the pool; the store passed
// to a WithFieldLock callback runs on the locking transaction.
type BookingStore struct {
	db *sql.DB
	tx *sql.Tx
	q  querier
}

// NewBookingStore returns a BookingStore bound to db.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db, q: db} }

var _ booking.Store = (*BookingStore)(nil)

const reservationColumns = `b.id, b.user_id, b.field_id, DATE_FORMAT(b.date, '%Y-%m-%d'), TIME_FORMAT(b.start_time, '%H:%i'), TIME_FORMAT(b.end_time, '%H:%i'), b.total_price, b.status, b.note, b.created_at, b.updated_at`

const detailQuery = `SELECT ` + reservationColumns + `, f.name, f.hourly_rate, u.name, u.email, u.phone
FROM bookings b
JOIN fields f ON f.id = b.field_id
JOIN users u ON u.id = b.user_id`

func scanReservation(row interface{ Scan(...any) error }, extra ...any) (model.Reservation, error) {
	var (
		r    model.Reservation
		note sql.NullString
	)
	dest := append([]any{&r.ID, &r.UserID, &r.FieldID, &r.Date, &r.StartTime, &r.EndTime, &r.TotalPrice, &r.Status, &note, &r.CreatedAt, &r.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return r, err
	}
	if note.Valid {
		n := note.String
		r.Note = &n
	}
	return r, nil
}

func scanDetail(row interface{ Scan(...any) error }) (model.ReservationDetail, error) {
	var (
		d     model.ReservationDetail
		phone sql.NullString
	)
	r, err := scanReservation(row, &d.Field.Name, &d.Field.HourlyRate, &d.User.Name, &d.User.Email, &phone)
	if err != nil {
		return d, err
	}
	d.Reservation = r
	d.Field.ID = r.FieldID
	d.User.ID = r.UserID
	d.User.Phone = phone.String
	return d, nil
}

func (s *BookingStore) FindField(ctx context.Context, id uint64) (*model.Field, error) {
	f, err := scanField(s.q.QueryRowContext(ctx, `SELECT `+fieldColumns+` FROM fields WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, booking.DataAccess("select field", err)
	}
	return &f, nil
}

func (s *BookingStore) FindReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, err := scanReservation(s.q.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM bookings b WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, booking.DataAccess("select booking", err)
	}
	return &r, nil
}

func (s *BookingStore) FindDetail(ctx context.Context, id uint64) (*model.ReservationDetail, error) {
	d, err := scanDetail(s.q.QueryRowContext(ctx, detailQuery+` WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, booking.DataAccess("select booking detail", err)
	}
	return &d, nil
}

func (s *BookingStore) FindReservations(ctx context.Context, f model.ReservationFilter) ([]model.ReservationDetail, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != 0 {
		where = append(where, "b.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.FieldID != 0 {
		where = append(where, "b.field_id = ?")
		args = append(args, f.FieldID)
	}
	if f.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, f.Status)
	}
	if f.Date != "" {
		where = append(where, "b.date = ?")
		args = append(args, f.Date)
	}
	q := detailQuery
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY b.date DESC, b.start_time DESC, b.id DESC"

	rows, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, booking.DataAccess("list bookings", err)
	}
	defer rows.Close()
	out := make([]model.ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, booking.DataAccess("scan booking", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, booking.DataAccess("list bookings", err)
	}
	return out, nil
}

// FindBlocking pushes the half-open overlap test into SQL:
// existing.start < requested.end AND requested.start < existing.end.
func (s *BookingStore) FindBlocking(ctx context.Context, q booking.SlotQuery) ([]model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM bookings b
WHERE b.field_id = ? AND b.date = ? AND b.status IN ('pending', 'confirmed')
AND b.start_time < ? AND b.end_time > ?`
	args := []any{q.FieldID, q.Date, q.End, q.Start}
	if q.ExcludeID != 0 {
		query += " AND b.id <> ?"
		args = append(args, q.ExcludeID)
	}
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, booking.DataAccess("select overlapping bookings", err)
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, booking.DataAccess("scan booking", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, booking.DataAccess("select overlapping bookings", err)
	}
	return out, nil
}

// InsertReservation inserts r and reads the row back to populate the id,
// defaults and timestamps.
func (s *BookingStore) InsertReservation(ctx context.Context, r *model.Reservation) error {
	const q = `INSERT INTO bookings (user_id, field_id, date, start_time, end_time, total_price, status, note) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var note sql.NullString
	if r.Note != nil {
		note = sql.NullString{String: *r.Note, Valid: true}
	}
	res, err := s.q.ExecContext(ctx, q, r.UserID, r.FieldID, r.Date, r.StartTime, r.EndTime, r.TotalPrice, r.Status, note)
	if err != nil {
		return booking.DataAccess("insert booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return booking.DataAccess("insert booking", err)
	}
	saved, err := scanReservation(s.q.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM bookings b WHERE b.id = ?`, id))
	if err != nil {
		return booking.DataAccess("reload booking", err)
	}
	*r = saved
	return nil
}

func (s *BookingStore) UpdateReservationStatus(ctx context.Context, id uint64, status string) error {
	if _, err := s.q.ExecContext(ctx, `UPDATE bookings SET status = ?, updated_at = NOW() WHERE id = ?`, status, id); err != nil {
		return booking.DataAccess("update booking status", err)
	}
	return nil
}

func (s *BookingStore) DeleteReservation(ctx context.Context, id uint64) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id); err != nil {
		return booking.DataAccess("delete booking", err)
	}
	return nil
}

// WithFieldLock opens a transaction and takes an exclusive row lock on the
// field before calling fn.  Concurrent callers for the same field block on
// the SELECT ... FOR UPDATE until the holder commits or rolls back.
func (s *BookingStore) WithFieldLock(ctx context.Context, fieldID uint64, fn func(ctx context.Context, st booking.Store) error) error {
	if s.tx != nil {
		if err := lockField(ctx, s.tx, fieldID); err != nil {
			return err
		}
		return fn(ctx, s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return booking.DataAccess("begin transaction", err)
	}
	if err := lockField(ctx, tx, fieldID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := fn(ctx, &BookingStore{db: s.db, tx: tx, q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return booking.DataAccess("commit transaction", err)
	}
	return nil
}

// lockField locks the field row.  A missing field is not an error here;
// the callback sees it as absent.
func lockField(ctx context.Context, tx *sql.Tx, fieldID uint64) error {
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM fields WHERE id = ? FOR UPDATE`, fieldID).Scan(&id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return booking.DataAccess("lock field", err)
	}
	return nil
}
