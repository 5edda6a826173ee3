package model

import "time"

// User roles.  Owners list facilities and manage slots; renters
// search and book.
const (
	RoleOwner  = "OWNER"
	RoleRenter = "RENTER"
)

// User mirrors the `users` table.  Credentials live here; contact
// details live in the Profile row sharing the same ID.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
