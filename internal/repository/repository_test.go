package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestFieldListFilters(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM fields WHERE status = ? AND name LIKE ? ORDER BY created_at DESC")).
		WithArgs(model.FieldActive, "%Futsal%").
		WillReturnRows(sqlmock.NewRows(fieldCols).
			AddRow(2, "Futsal B", nil, "90000.00", nil, []byte(`[]`), model.FieldActive, ts, ts))

	out, err := NewFieldRepo(db).List(context.Background(), model.FieldFilter{Status: model.FieldActive, Name: " Futsal "})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "", out[0].Description)
	assert.Equal(t, []string{}, out[0].PhotoURLs)
	assert.Equal(t, []string{}, out[0].Facilities)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldCreateReloads(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fields")).
		WithArgs("Lapangan A", "rumput sintetis", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), model.FieldActive).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(selectField).WithArgs(1).WillReturnRows(fieldRow(model.FieldActive))

	f := &model.Field{Name: "Lapangan A", Description: "rumput sintetis", HourlyRate: decimal.NewFromInt(150000), Status: model.FieldActive}
	require.NoError(t, NewFieldRepo(db).Create(context.Background(), f))
	assert.Equal(t, uint64(1), f.ID)
	assert.Equal(t, ts, f.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldDeleteMissing(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM fields WHERE id = ?")).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewFieldRepo(db).Delete(context.Background(), 7)
	assert.True(t, IsNotFound(err))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("budi@example.com", "Budi", "0812", "hash", model.RoleUser).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	u := &model.User{Email: " Budi@Example.com ", Name: "Budi", Phone: "0812", PasswordHash: "hash", Role: model.RoleUser}
	err := NewUserRepo(db).Create(context.Background(), u)
	assert.ErrorIs(t, err, ErrEmailExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRotate(t *testing.T) {
	db, mock := newDB(t)
	exp := time.Now().UTC().Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=? LIMIT 1 FOR UPDATE")).
		WithArgs("old").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).AddRow(10, exp, nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at")).WithArgs("old").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens")).WithArgs(10, "new", exp).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	uid, err := NewTokenRepo(db).Rotate(context.Background(), "old", "new", exp)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), uid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRotateRevoked(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash=?")).
		WithArgs("old").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(10, time.Now().UTC().Add(time.Hour), time.Now().UTC()))
	mock.ExpectRollback()

	_, err := NewTokenRepo(db).Rotate(context.Background(), "old", "new", time.Now())
	assert.ErrorIs(t, err, ErrTokenInvalid)
	require.NoError(t, mock.ExpectationsWereMet())
}
