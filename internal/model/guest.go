package model

import "time"

// Guest represents a row in the `guests` table. A guest belongs to exactly
// one facility and may accumulate checkins over time.
type Guest struct {
	ID         uint64    `json:"id"`          // guests.id
	FacilityID uint64    `json:"facility_id"` // guests.facility_id
	FirstName  string    `json:"first_name"`  // guests.first_name
	LastName   string    `json:"last_name"`   // guests.last_name
	Active     bool      `json:"active"`      // guests.active
	Favorite   string    `json:"favorite"`    // guests.favorite (preferred mat, free text)
	Comments   string    `json:"comments"`    // guests.comments
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
