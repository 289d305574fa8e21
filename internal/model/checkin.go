package model

import "time"

// Checkin represents a row in the `checkins` table: one mat on one night at
// one facility. GuestID is nullable; an unassigned checkin is an empty mat
// generated from a template.
type Checkin struct {
	ID            uint64    `json:"id"`                       // checkins.id
	FacilityID    uint64    `json:"facility_id"`              // checkins.facility_id
	GuestID       *uint64   `json:"guest_id,omitempty"`       // checkins.guest_id (nullable)
	CheckinDate   time.Time `json:"checkin_date"`             // checkins.checkin_date
	MatNumber     int       `json:"mat_number"`               // checkins.mat_number
	Features      string    `json:"features"`                 // checkins.features (e.g. "H", "S", "HS")
	PaymentType   string    `json:"payment_type,omitempty"`   // checkins.payment_type
	PaymentAmount float64   `json:"payment_amount,omitempty"` // checkins.payment_amount
	ShowerTime    string    `json:"shower_time,omitempty"`    // checkins.shower_time (HH:MM)
	WakeupTime    string    `json:"wakeup_time,omitempty"`    // checkins.wakeup_time (HH:MM)
	Comments      string    `json:"comments,omitempty"`       // checkins.comments
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
