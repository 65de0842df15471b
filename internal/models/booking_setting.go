package models

import "time"

// BookingSetting is the campus-wide daily capacity default. Applies to every
// business day unless a DayOverride supersedes it.
type BookingSetting struct {
	CampusID          string    `db:"campus_id" json:"campus_id"`
	MaxBookingsPerDay int       `db:"max_bookings_per_day" json:"max_bookings_per_day"`
	UpdatedBy         *string   `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// DayOverride is a per-date exception to campus capacity or open/closed
// status. Absence means the campus default and standard business-day rules
// apply.
type DayOverride struct {
	ID           string    `db:"id" json:"id"`
	CampusID     string    `db:"campus_id" json:"campus_id"`
	OverrideDate time.Time `db:"override_date" json:"override_date"`
	MaxBookings  *int      `db:"max_bookings" json:"max_bookings,omitempty"`
	IsClosed     bool      `db:"is_closed" json:"is_closed"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
