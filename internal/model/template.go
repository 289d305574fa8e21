package model

import "time"

// Template represents a row in the `templates` table. Templates describe a
// facility's mat layout (ranges like "1-58" plus feature subsets) and are
// used to generate the empty checkins for a new date.
type Template struct {
	ID           uint64    `json:"id"`            // templates.id
	FacilityID   uint64    `json:"facility_id"`   // templates.facility_id
	Name         string    `json:"name"`          // templates.name (unique per facility)
	Active       bool      `json:"active"`        // templates.active
	AllMats      string    `json:"all_mats"`      // templates.all_mats (e.g. "1-58")
	HandicapMats string    `json:"handicap_mats"` // templates.handicap_mats
	SocketMats   string    `json:"socket_mats"`   // templates.socket_mats
	WorkMats     string    `json:"work_mats"`     // templates.work_mats
	Comments     string    `json:"comments"`      // templates.comments
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
