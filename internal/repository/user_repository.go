package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// UserRepo persists accounts in the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, email, name, phone, password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var (
		u     model.User
		phone sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &phone, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	u.Phone = phone.String
	return u, err
}

// Create inserts u with an already hashed password and sets its ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, phone, password_hash, role) VALUES (?,?,?,?,?)",
		u.Email, u.Name, u.Phone, u.PasswordHash, u.Role)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateProfile changes the display name and phone number.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, phone string) (model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, phone=?, updated_at=NOW() WHERE id=?", name, phone, id)
	if err != nil {
		return model.User{}, err
	}
	if err := affected(res); err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
