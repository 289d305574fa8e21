// Package queue defines message payloads exchanged over the message broker
// and the publisher that delivers them.
package queue

// CheckinCreatedEvent is published when a guest is checked in. It carries
// enough for downstream consumers to notify or aggregate without querying
// the primary database.
type CheckinCreatedEvent struct {
	CheckinID    uint64  `json:"checkin_id"`
	FacilityID   uint64  `json:"facility_id"`
	FacilityName string  `json:"facility_name"`
	GuestID      uint64  `json:"guest_id,omitempty"`
	CheckinDate  string  `json:"checkin_date"`
	MatNumber    int     `json:"mat_number"`
	PaymentType  string  `json:"payment_type,omitempty"`
	Amount       float64 `json:"payment_amount,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
