package model

import "time"

// Roles carried in the JWT role claim.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account as stored in the `users` table.  The
// password hash never leaves the repository layer in responses; handlers
// use Profile for output.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  Name         – display name.
//  Phone        – contact phone number.
//  PasswordHash – bcrypt hashed password.
//  Role         – user or admin.
type User struct {
	ID           uint64
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Profile is the public view of a user.
type Profile struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileOf strips the credential fields from u.
func ProfileOf(u User) Profile {
	return Profile{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, Role: u.Role, CreatedAt: u.CreatedAt}
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA‑256 hash of the token is stored.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
