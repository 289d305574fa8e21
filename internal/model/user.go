package model

import "time"

// User represents an identity record as stored in the `users` table. Users
// are created by administrative insert; the scope string and active flag are
// mutable by administrators. Deleting a user cascades to any access and
// refresh tokens it owns.
//
// The Scope field is free text interpreted by the auth package: either the
// literal "superuser" or "{facilityScope}:{role}" where role is "regular"
// or "admin".
type User struct {
	ID           uint64    `json:"id"`       // users.id
	Username     string    `json:"username"` // users.username (unique, case-sensitive)
	PasswordHash string    `json:"-"`        // users.password_hash (bcrypt, never serialized)
	Scope        string    `json:"scope"`    // users.scope
	Active       bool      `json:"active"`   // users.active
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
