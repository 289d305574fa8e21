package model

import "time"

// Facility represents a tenant row in the `facilities` table. The Scope
// field is a unique short token (e.g. "first") that user and token scopes
// reference; it must never equal the reserved "superuser" literal, which
// the facility repository rejects at write time.
type Facility struct {
	ID        uint64    `json:"id"`      // facilities.id
	Name      string    `json:"name"`    // facilities.name (unique)
	Scope     string    `json:"scope"`   // facilities.scope (unique)
	Active    bool      `json:"active"`  // facilities.active
	Address   string    `json:"address"` // facilities.address
	City      string    `json:"city"`    // facilities.city
	State     string    `json:"state"`   // facilities.state
	Zipcode   string    `json:"zipcode"` // facilities.zipcode
	Phone     string    `json:"phone"`   // facilities.phone
	Email     string    `json:"email"`   // facilities.email
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
