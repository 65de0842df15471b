package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campus-health/clinic-booking-api/internal/models"
	"github.com/campus-health/clinic-booking-api/internal/notify"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
	"github.com/campus-health/clinic-booking-api/pkg/jobs"
)

type reminderAppointmentReader interface {
	ListByDate(ctx context.Context, campusID string, date time.Time, statuses []models.AppointmentStatus) ([]models.Appointment, error)
}

type reminderMetrics interface {
	ObserveReminders(sent, skipped, failed int)
}

// ReminderService fans appointment reminders out over the worker pool and
// reports aggregate outcomes. A send failure never invalidates the booking
// or reschedule it was attached to.
type ReminderService struct {
	appointments reminderAppointmentReader
	sender       notify.EmailSender
	pool         *jobs.Pool
	metrics      reminderMetrics
	logger       *zap.Logger
}

// NewReminderService constructs the service. A nil sender disables delivery;
// every recipient is then counted as skipped.
func NewReminderService(appointments reminderAppointmentReader, sender notify.EmailSender, pool *jobs.Pool, metrics reminderMetrics, logger *zap.Logger) *ReminderService {
	if pool == nil {
		pool = jobs.NewPool(1, logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{appointments: appointments, sender: sender, pool: pool, metrics: metrics, logger: logger}
}

// BulkReminderRequest targets one campus day. TemplateOverride replaces the
// default body when staff customise the message.
type BulkReminderRequest struct {
	CampusID         string  `json:"campus_id"`
	Date             string  `json:"date"`
	TemplateOverride *string `json:"template_override,omitempty"`
}

// BulkReminderResult aggregates delivery outcomes.
type BulkReminderResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// SendBulkReminders emails every scheduled appointment on the day.
func (s *ReminderService) SendBulkReminders(ctx context.Context, req BulkReminderRequest) (*BulkReminderResult, error) {
	if req.CampusID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "campus_id is required")
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	appointments, err := s.appointments.ListByDate(ctx, req.CampusID, date, []models.AppointmentStatus{models.AppointmentStatusScheduled})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day")
	}

	result := &BulkReminderResult{}
	var tasks []jobs.Task
	for _, appointment := range appointments {
		if appointment.PatientEmail == nil || *appointment.PatientEmail == "" || s.sender == nil {
			result.Skipped++
			continue
		}
		msg := s.buildMessage(appointment, req.TemplateOverride)
		tasks = append(tasks, jobs.Task{
			ID: appointment.ID,
			Run: func(taskCtx context.Context) error {
				return s.sender.Send(taskCtx, msg)
			},
		})
	}

	for _, r := range s.pool.RunBatch(ctx, tasks) {
		if r.Err != nil {
			result.Failed++
		} else {
			result.Sent++
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveReminders(result.Sent, result.Skipped, result.Failed)
	}
	s.logger.Sugar().Infow("bulk reminders dispatched",
		"campus_id", req.CampusID, "date", req.Date,
		"sent", result.Sent, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func (s *ReminderService) buildMessage(appointment models.Appointment, override *string) notify.EmailMessage {
	body := fmt.Sprintf("This is a reminder of your clinic appointment on %s between %s and %s.",
		models.FormatDate(appointment.AppointmentDate), appointment.StartTime, appointment.EndTime)
	if override != nil && *override != "" {
		body = *override
	}
	return notify.EmailMessage{
		To:      *appointment.PatientEmail,
		ToName:  appointment.PatientName,
		Subject: fmt.Sprintf("Appointment reminder for %s", models.FormatDate(appointment.AppointmentDate)),
		Body:    body,
	}
}
