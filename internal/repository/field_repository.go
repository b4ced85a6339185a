package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// FieldRepo persists rows of the fields table.
type FieldRepo struct {
	db *sql.DB
}

// NewFieldRepo returns a FieldRepo bound to db.
func NewFieldRepo(db *sql.DB) *FieldRepo { return &FieldRepo{db: db} }

const fieldColumns = `id, name, description, hourly_rate, photo_urls, facilities, status, created_at, updated_at`

func scanField(row interface{ Scan(...any) error }) (model.Field, error) {
	var (
		f           model.Field
		desc        sql.NullString
		photos, fac sql.Null[datatypes.JSON]
	)
	if err := row.Scan(&f.ID, &f.Name, &desc, &f.HourlyRate, &photos, &fac, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return f, err
	}
	f.Description = desc.String
	var err error
	if f.PhotoURLs, err = decodeList(photos.V); err != nil {
		return f, fmt.Errorf("field %d photo_urls: %w", f.ID, err)
	}
	if f.Facilities, err = decodeList(fac.V); err != nil {
		return f, fmt.Errorf("field %d facilities: %w", f.ID, err)
	}
	return f, nil
}

func decodeList(raw datatypes.JSON) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func encodeList(v []string) datatypes.JSON {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}

// List returns fields matching f, most recently created first.
func (r *FieldRepo) List(ctx context.Context, f model.FieldFilter) ([]model.Field, error) {
	q := `SELECT ` + fieldColumns + ` FROM fields`
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if name := strings.TrimSpace(f.Name); name != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+name+"%")
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Field, 0)
	for rows.Next() {
		fl, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, fl)
	}
	return out, rows.Err()
}

// GetByID returns the field with id or sql.ErrNoRows.
func (r *FieldRepo) GetByID(ctx context.Context, id uint64) (model.Field, error) {
	return scanField(r.db.QueryRowContext(ctx, `SELECT `+fieldColumns+` FROM fields WHERE id = ?`, id))
}

// Create inserts f and reloads it to pick up defaults and timestamps.
func (r *FieldRepo) Create(ctx context.Context, f *model.Field) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO fields (name, description, hourly_rate, photo_urls, facilities, status) VALUES (?, ?, ?, ?, ?, ?)`,
		f.Name, nullString(f.Description), f.HourlyRate, encodeList(f.PhotoURLs), encodeList(f.Facilities), f.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	saved, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*f = saved
	return nil
}

// Update overwrites the mutable columns of f.  It returns sql.ErrNoRows
// when the field does not exist.
func (r *FieldRepo) Update(ctx context.Context, f *model.Field) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE fields SET name = ?, description = ?, hourly_rate = ?, photo_urls = ?, facilities = ?, status = ?, updated_at = NOW() WHERE id = ?`,
		f.Name, nullString(f.Description), f.HourlyRate, encodeList(f.PhotoURLs), encodeList(f.Facilities), f.Status, f.ID)
	if err != nil {
		return err
	}
	if err := affected(res); err != nil {
		return err
	}
	saved, err := r.GetByID(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = saved
	return nil
}

// SetStatus changes only the status column.
func (r *FieldRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE fields SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// Delete removes the field.  Its bookings go with it through the
// ON DELETE CASCADE foreign key.
func (r *FieldRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fields WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// affected maps a zero row count to sql.ErrNoRows.  The connection is
// opened with clientFoundRows so the count is of matched rows.
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// IsNotFound reports whether err means no row matched.
func IsNotFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }
