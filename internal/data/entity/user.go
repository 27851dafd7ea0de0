package entity

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleClient UserRole = "client"
)

// IsValid reports whether the role is one of the known role values.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleClient
}

type User struct {
	ID               int64     `db:"id"`
	FullName         string    `db:"full_name"`
	Email            string    `db:"email"`
	Phone            string    `db:"phone"`
	PasswordHash     string    `db:"password_hash"`
	Role             UserRole  `db:"role"`
	Verified         bool      `db:"verified"`
	VerificationCode *string   `db:"verification_code"` // nil once verified
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
