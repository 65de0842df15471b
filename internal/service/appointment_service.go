package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-health/clinic-booking-api/internal/models"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
)

type appointmentRepository interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Create(ctx context.Context, appointment *models.Appointment) error
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	Delete(ctx context.Context, id string) error
}

type admissionChecker interface {
	DaySummary(ctx context.Context, campusID string, date time.Time) (*models.DaySummary, error)
	Invalidate(ctx context.Context, campusID string, date time.Time)
}

type bookingMetrics interface {
	ObserveAdmission(outcome string)
}

// AppointmentService owns the booking lifecycle. Admission is a
// point-in-time check against the shared capacity accounting, not a
// reservation; concurrent bookings against a nearly-full day can race past
// the cap.
type AppointmentService struct {
	repo      appointmentRepository
	capacity  admissionChecker
	metrics   bookingMetrics
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAppointmentService constructs the service.
func NewAppointmentService(repo appointmentRepository, capacity admissionChecker, metrics bookingMetrics, validate *validator.Validate, logger *zap.Logger) *AppointmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentService{repo: repo, capacity: capacity, metrics: metrics, validator: validate, logger: logger}
}

// CreateAppointmentRequest describes a booking. Walk-ins skip the slot table
// and take the all-day placeholder.
type CreateAppointmentRequest struct {
	CampusID        string  `json:"campus_id" validate:"required"`
	AppointmentDate string  `json:"appointment_date" validate:"required"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	AppointmentType string  `json:"appointment_type" validate:"required"`
	PatientName     string  `json:"patient_name" validate:"required"`
	PatientEmail    *string `json:"patient_email" validate:"omitempty,email"`
	PatientPhone    *string `json:"patient_phone"`
	WalkIn          bool    `json:"walk_in"`
}

// ListAppointmentsRequest describes listing filters.
type ListAppointmentsRequest struct {
	CampusID string
	DateFrom *time.Time
	DateTo   *time.Time
	Statuses []models.AppointmentStatus
	Page     int
	PageSize int
}

// UpdateStatusRequest transitions an appointment's lifecycle state.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create books an appointment after the admission gate.
func (s *AppointmentService) Create(ctx context.Context, req CreateAppointmentRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	appointmentType := models.AppointmentType(req.AppointmentType)
	if !appointmentType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown appointment type")
	}
	date, err := models.ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "appointment_date must be YYYY-MM-DD")
	}

	start, end := req.StartTime, req.EndTime
	if req.WalkIn {
		start, end = models.WalkInStartTime, models.WalkInEndTime
	} else if !validSlot(start, end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time/end_time must match a clinic slot")
	}

	summary, err := s.capacity.DaySummary(ctx, req.CampusID, date)
	if err != nil {
		return nil, err
	}
	if !summary.Bookable {
		s.observeAdmission("rejected_closed")
		return nil, appErrors.Clone(appErrors.ErrDayNotBookable, "selected day is not open for booking")
	}
	if summary.Booked >= summary.Capacity {
		s.observeAdmission("rejected_full")
		return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "selected day is fully booked")
	}

	appointment := &models.Appointment{
		CampusID:        req.CampusID,
		AppointmentDate: date,
		StartTime:       start,
		EndTime:         end,
		AppointmentType: appointmentType,
		Status:          models.AppointmentStatusScheduled,
		PatientName:     req.PatientName,
		PatientEmail:    req.PatientEmail,
		PatientPhone:    req.PatientPhone,
		WalkIn:          req.WalkIn,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create appointment")
	}

	s.capacity.Invalidate(ctx, req.CampusID, date)
	s.observeAdmission("admitted")
	s.logger.Sugar().Infow("appointment booked",
		"appointment_id", appointment.ID, "campus_id", req.CampusID, "date", req.AppointmentDate, "walk_in", req.WalkIn)
	return appointment, nil
}

// Get returns an appointment by id.
func (s *AppointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get appointment")
	}
	return appointment, nil
}

// List returns appointments matching the filters.
func (s *AppointmentService) List(ctx context.Context, req ListAppointmentsRequest) ([]models.Appointment, *models.Pagination, error) {
	filter := models.AppointmentFilter{
		CampusID: req.CampusID,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Statuses: req.Statuses,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	appointments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return appointments, pagination, nil
}

// UpdateStatus transitions an appointment. Scheduled bookings may complete,
// cancel, or no-show; completed and no-show bookings may revert to scheduled
// during triage. Cancelled is terminal.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	desired := models.AppointmentStatus(req.Status)
	if !desired.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown appointment status")
	}

	appointment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == desired {
		return appointment, nil
	}
	if !transitionAllowed(appointment.Status, desired) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "status transition not allowed")
	}

	if err := s.repo.UpdateStatus(ctx, id, desired); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}

	appointment.Status = desired
	s.capacity.Invalidate(ctx, appointment.CampusID, appointment.AppointmentDate)
	return appointment, nil
}

// Delete removes an appointment. Administrative action outside the
// reschedule core.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	appointment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete appointment")
	}
	s.capacity.Invalidate(ctx, appointment.CampusID, appointment.AppointmentDate)
	return nil
}

func (s *AppointmentService) observeAdmission(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveAdmission(outcome)
	}
}

func validSlot(start, end string) bool {
	for _, slot := range models.BookingSlots {
		if slot.Start == start && slot.End == end {
			return true
		}
	}
	return false
}

func transitionAllowed(from, to models.AppointmentStatus) bool {
	switch from {
	case models.AppointmentStatusScheduled:
		return to == models.AppointmentStatusCompleted || to == models.AppointmentStatusCancelled || to == models.AppointmentStatusNoShow
	case models.AppointmentStatusCompleted, models.AppointmentStatusNoShow:
		return to == models.AppointmentStatusScheduled
	}
	return false
}
