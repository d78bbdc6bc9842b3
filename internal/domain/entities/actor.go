package entities

import "time"

// Role determines default data visibility and mutation permissions
type Role string

const (
	// RoleUser is the patient role
	RoleUser        Role = "user"
	RoleInterpreter Role = "interpreter"
	RoleAdmin       Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleInterpreter || r == RoleAdmin
}

// Actor is an authenticated identity performing an operation, carrying a
// role resolved server-side. It is passed explicitly into every service
// call; nothing reads it from global state.
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Profile is the identity record backing authentication and role
// resolution. MetadataRole mirrors the role claim an identity provider may
// carry when no profile role has been assigned yet.
type Profile struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	Phone        string    `json:"phone" db:"phone"`
	Role         Role      `json:"role" db:"role"`
	MetadataRole Role      `json:"metadata_role" db:"metadata_role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
