package models

import "time"

// AppointmentType enumerates the services the clinic offers.
type AppointmentType string

const (
	AppointmentTypePhysicalExam AppointmentType = "physical_exam"
	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeDental       AppointmentType = "dental"
)

// Valid reports whether the type is a known service.
func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentTypePhysicalExam, AppointmentTypeConsultation, AppointmentTypeDental:
		return true
	}
	return false
}

// AppointmentStatus enumerates appointment lifecycle states. Only scheduled
// and completed appointments occupy daily capacity.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// Valid reports whether the status is a known lifecycle state.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// TimeSlot is a bookable window within a clinic day.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// BookingSlots is the fixed slot table for scheduled bookings. Walk-ins use
// the all-day placeholder instead.
var BookingSlots = []TimeSlot{
	{Start: "08:00", End: "10:00"},
	{Start: "10:00", End: "12:00"},
	{Start: "13:00", End: "15:00"},
	{Start: "15:00", End: "17:00"},
}

// Walk-in placeholder window.
const (
	WalkInStartTime = "00:00"
	WalkInEndTime   = "23:59"
)

// Appointment is a clinic booking. Patient identity is snapshotted at booking
// time; walk-ins have no account to join against.
type Appointment struct {
	ID              string            `db:"id" json:"id"`
	CampusID        string            `db:"campus_id" json:"campus_id"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	StartTime       string            `db:"start_time" json:"start_time"`
	EndTime         string            `db:"end_time" json:"end_time"`
	AppointmentType AppointmentType   `db:"appointment_type" json:"appointment_type"`
	Status          AppointmentStatus `db:"status" json:"status"`
	PatientName     string            `db:"patient_name" json:"patient_name"`
	PatientEmail    *string           `db:"patient_email" json:"patient_email,omitempty"`
	PatientPhone    *string           `db:"patient_phone" json:"patient_phone,omitempty"`
	WalkIn          bool              `db:"walk_in" json:"walk_in"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentFilter narrows down appointment listings.
type AppointmentFilter struct {
	CampusID string
	DateFrom *time.Time
	DateTo   *time.Time
	Statuses []AppointmentStatus
	Page     int
	PageSize int
}
