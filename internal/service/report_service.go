package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campus-health/clinic-booking-api/internal/models"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
	"github.com/campus-health/clinic-booking-api/pkg/export"
)

type reportAppointmentReader interface {
	ListByDate(ctx context.Context, campusID string, date time.Time, statuses []models.AppointmentStatus) ([]models.Appointment, error)
}

// ReportService renders a campus day's appointment list for staff.
type ReportService struct {
	appointments reportAppointmentReader
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	logger       *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(appointments reportAppointmentReader, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		appointments: appointments,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		logger:       logger,
	}
}

// DailyReport renders the day's appointments as csv or pdf.
func (s *ReportService) DailyReport(ctx context.Context, campusID, rawDate, format string) ([]byte, string, string, error) {
	date, err := models.ParseDate(rawDate)
	if err != nil {
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	appointments, err := s.appointments.ListByDate(ctx, campusID, date, nil)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day")
	}

	dataset := export.Dataset{
		Headers: []string{"Time", "Patient", "Type", "Status", "Walk-in"},
	}
	for _, a := range appointments {
		walkIn := "no"
		if a.WalkIn {
			walkIn = "yes"
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Time":    fmt.Sprintf("%s-%s", a.StartTime, a.EndTime),
			"Patient": a.PatientName,
			"Type":    string(a.AppointmentType),
			"Status":  string(a.Status),
			"Walk-in": walkIn,
		})
	}

	switch format {
	case "pdf":
		payload, err := s.pdf.Render(dataset, fmt.Sprintf("Appointments %s", rawDate))
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return payload, "application/pdf", fmt.Sprintf("appointments-%s.pdf", rawDate), nil
	case "", "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
		}
		return payload, "text/csv", fmt.Sprintf("appointments-%s.csv", rawDate), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
