package models

import (
	"time"

	"github.com/lib/pq"
)

// ScheduleConfig extends or restricts the Monday-Friday business-day set for
// a campus. Holiday dates are stored as YYYY-MM-DD strings.
type ScheduleConfig struct {
	CampusID        string         `db:"campus_id" json:"campus_id"`
	IncludeSaturday bool           `db:"include_saturday" json:"include_saturday"`
	IncludeSunday   bool           `db:"include_sunday" json:"include_sunday"`
	HolidayDates    pq.StringArray `db:"holiday_dates" json:"holiday_dates"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// IsHoliday reports whether the date is on the campus holiday list.
func (c *ScheduleConfig) IsHoliday(date time.Time) bool {
	if c == nil {
		return false
	}
	formatted := FormatDate(date)
	for _, h := range c.HolidayDates {
		if h == formatted {
			return true
		}
	}
	return false
}

// DaySummary is the read-time capacity view for one (campus, date) pair.
type DaySummary struct {
	CampusID string    `json:"campus_id"`
	Date     time.Time `json:"date"`
	Capacity int       `json:"capacity"`
	Booked   int       `json:"booked"`
	Bookable bool      `json:"bookable"`
	Closed   bool      `json:"closed"`
}

// Remaining returns the free capacity for the day, never negative.
func (s DaySummary) Remaining() int {
	if !s.Bookable {
		return 0
	}
	if s.Booked >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Booked
}
