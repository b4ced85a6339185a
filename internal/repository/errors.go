// Package repository implements MySQL persistence for fields, bookings,
// users and refresh tokens.  Booking persistence satisfies booking.Store;
// the other repositories are consumed directly by services and handlers.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrEmailExists is returned by UserRepo.Create when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// ErrTokenInvalid is returned when a refresh token is unknown, revoked or
// expired.
var ErrTokenInvalid = errors.New("refresh token invalid")

// querier is the subset shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// isDuplicate reports a MySQL unique key violation (error 1062).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
