package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campus-health/clinic-booking-api/internal/models"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
)

type rescheduleAppointmentStore interface {
	ListByDate(ctx context.Context, campusID string, date time.Time, statuses []models.AppointmentStatus) ([]models.Appointment, error)
	UpdateSchedule(ctx context.Context, id string, date time.Time) error
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
}

type placementReader interface {
	PlacementState(ctx context.Context, campusID string, date time.Time) (*models.DaySummary, error)
	Invalidate(ctx context.Context, campusID string, date time.Time)
}

type rescheduleMetrics interface {
	ObserveReschedule(mode string, moved int)
}

// RescheduleService moves batches of appointments onto future bookable days.
// Moves are applied one appointment at a time and are not rolled back on
// mid-batch failure; callers must re-fetch after a PARTIAL_BATCH error.
type RescheduleService struct {
	appointments rescheduleAppointmentStore
	capacity     placementReader
	metrics      rescheduleMetrics
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          RescheduleServiceConfig
}

// RescheduleServiceConfig tunes the allocator and the manual path policy.
type RescheduleServiceConfig struct {
	// HorizonDays bounds the auto-spread search ahead of the source date.
	HorizonDays int
	// AllowManualOverbook degrades manual over-capacity targets from a
	// blocking error to a warning the caller can surface.
	AllowManualOverbook bool
}

// NewRescheduleService wires the allocator.
func NewRescheduleService(
	appointments rescheduleAppointmentStore,
	capacity placementReader,
	metrics rescheduleMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg RescheduleServiceConfig,
) *RescheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 365
	}
	return &RescheduleService{
		appointments: appointments,
		capacity:     capacity,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
	}
}

// AutoRescheduleRequest moves the listed appointments off the source date.
// The id order is the caller's listing order and decides who lands on the
// nearer target day when capacity is tight.
type AutoRescheduleRequest struct {
	CampusID       string   `json:"campus_id" validate:"required"`
	SourceDate     string   `json:"source_date" validate:"required"`
	AppointmentIDs []string `json:"appointment_ids" validate:"required,min=1"`
}

// ManualAssignment pins one appointment to an explicit target date.
type ManualAssignment struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
	TargetDate    string `json:"target_date" validate:"required"`
}

// ManualRescheduleRequest applies caller-chosen target dates.
type ManualRescheduleRequest struct {
	CampusID    string             `json:"campus_id" validate:"required"`
	SourceDate  string             `json:"source_date" validate:"required"`
	Assignments []ManualAssignment `json:"assignments" validate:"required,min=1,dive"`
}

// TriageRequest saves the completion checklist for a day before rescheduling.
type TriageRequest struct {
	CampusID        string   `json:"campus_id" validate:"required"`
	AppointmentDate string   `json:"appointment_date" validate:"required"`
	CompletedIDs    []string `json:"completed_ids"`
}

// Move records one applied reassignment.
type Move struct {
	AppointmentID string `json:"appointment_id"`
	FromDate      string `json:"from_date"`
	ToDate        string `json:"to_date"`
}

// RescheduleResult reports the applied moves. Warnings carry manual-mode
// over-capacity notices when the overbook policy allows saving anyway.
type RescheduleResult struct {
	Moves    []Move   `json:"moves"`
	Warnings []string `json:"warnings,omitempty"`
}

// TriageResult reports checklist effects. Idempotent saves report zeros.
type TriageResult struct {
	MarkedCompleted int `json:"marked_completed"`
	Reverted        int `json:"reverted"`
}

// AutoReschedule spreads the batch greedily onto the nearest bookable days
// with room, filling each day to its cap before spilling to the next. On
// PLACEMENT_NOT_FOUND or PARTIAL_BATCH the returned result still lists the
// moves that were applied before the failure; they are not rolled back.
func (s *RescheduleService) AutoReschedule(ctx context.Context, req AutoRescheduleRequest) (*RescheduleResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid auto reschedule payload")
	}
	source, err := models.ParseDate(req.SourceDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "source_date must be YYYY-MM-DD")
	}

	if err := s.ensureOnSourceDay(ctx, req.CampusID, source, req.AppointmentIDs); err != nil {
		return nil, err
	}

	result := &RescheduleResult{}
	touched := map[string]time.Time{}
	defer func() {
		s.capacity.Invalidate(ctx, req.CampusID, source)
		for _, day := range touched {
			s.capacity.Invalidate(ctx, req.CampusID, day)
		}
	}()

	horizon := source.AddDate(0, 0, s.cfg.HorizonDays)
	candidate := source.AddDate(0, 0, 1)
	remaining := 0

	for _, id := range req.AppointmentIDs {
		// Advance to the next bookable day with room. The running counter
		// covers allocations already made in this run, so one query per
		// candidate day is enough.
		for remaining == 0 {
			if candidate.After(horizon) {
				s.logger.Sugar().Warnw("auto reschedule exhausted horizon",
					"campus_id", req.CampusID, "source_date", req.SourceDate,
					"applied", len(result.Moves), "batch", len(req.AppointmentIDs))
				return result, appErrors.Clone(appErrors.ErrPlacementNotFound,
					fmt.Sprintf("placed %d of %d appointments before exhausting the %d-day horizon; applied moves were kept", len(result.Moves), len(req.AppointmentIDs), s.cfg.HorizonDays))
			}
			state, stateErr := s.capacity.PlacementState(ctx, req.CampusID, candidate)
			if stateErr != nil {
				return result, stateErr
			}
			if state.Bookable && state.Booked < state.Capacity {
				remaining = state.Capacity - state.Booked
				break
			}
			candidate = candidate.AddDate(0, 0, 1)
		}

		if err := s.appointments.UpdateSchedule(ctx, id, candidate); err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrPartialBatch.Code, appErrors.ErrPartialBatch.Status,
				fmt.Sprintf("failed moving appointment %s after %d successful moves; re-fetch to see actual state", id, len(result.Moves)))
		}
		result.Moves = append(result.Moves, Move{
			AppointmentID: id,
			FromDate:      models.FormatDate(source),
			ToDate:        models.FormatDate(candidate),
		})
		touched[models.FormatDate(candidate)] = candidate
		remaining--
		if remaining == 0 {
			candidate = candidate.AddDate(0, 0, 1)
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveReschedule("auto", len(result.Moves))
	}
	s.logger.Sugar().Infow("auto reschedule applied",
		"campus_id", req.CampusID, "source_date", req.SourceDate, "moved", len(result.Moves))
	return result, nil
}

// ManualReschedule validates the caller-supplied targets fail-fast, then
// applies each move independently. Validation failures mutate nothing.
func (s *RescheduleService) ManualReschedule(ctx context.Context, req ManualRescheduleRequest) (*RescheduleResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid manual reschedule payload")
	}
	source, err := models.ParseDate(req.SourceDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "source_date must be YYYY-MM-DD")
	}

	moveSet, err := s.appointments.ListByDate(ctx, req.CampusID, source, []models.AppointmentStatus{models.AppointmentStatusScheduled})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source day")
	}
	pending := make(map[string]struct{}, len(moveSet))
	for _, a := range moveSet {
		pending[a.ID] = struct{}{}
	}

	targets := make(map[string]time.Time, len(req.Assignments))
	batchPerDate := map[string]int{}
	for _, assignment := range req.Assignments {
		if _, dup := targets[assignment.AppointmentID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("appointment %s assigned more than once", assignment.AppointmentID))
		}
		if _, ok := pending[assignment.AppointmentID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("appointment %s is not awaiting reschedule on %s", assignment.AppointmentID, req.SourceDate))
		}
		target, parseErr := models.ParseDate(assignment.TargetDate)
		if parseErr != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("target date for appointment %s must be YYYY-MM-DD", assignment.AppointmentID))
		}
		if target.Equal(source) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("appointment %s targets the source date", assignment.AppointmentID))
		}
		targets[assignment.AppointmentID] = target
		batchPerDate[models.FormatDate(target)]++
	}

	var missing []string
	for _, a := range moveSet {
		if _, ok := targets[a.ID]; !ok {
			missing = append(missing, a.ID)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("missing target dates for appointments: %s", strings.Join(missing, ", ")))
	}

	warnings, err := s.checkManualCapacity(ctx, req.CampusID, batchPerDate, targets)
	if err != nil {
		return nil, err
	}

	result := &RescheduleResult{Warnings: warnings}
	touched := map[string]time.Time{}
	defer func() {
		s.capacity.Invalidate(ctx, req.CampusID, source)
		for _, day := range touched {
			s.capacity.Invalidate(ctx, req.CampusID, day)
		}
	}()

	// Apply in the source day's listing order so partial failures are
	// predictable.
	for _, a := range moveSet {
		target := targets[a.ID]
		if err := s.appointments.UpdateSchedule(ctx, a.ID, target); err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrPartialBatch.Code, appErrors.ErrPartialBatch.Status,
				fmt.Sprintf("failed moving appointment %s after %d successful moves; re-fetch to see actual state", a.ID, len(result.Moves)))
		}
		result.Moves = append(result.Moves, Move{
			AppointmentID: a.ID,
			FromDate:      models.FormatDate(source),
			ToDate:        models.FormatDate(target),
		})
		touched[models.FormatDate(target)] = target
	}

	if s.metrics != nil {
		s.metrics.ObserveReschedule("manual", len(result.Moves))
	}
	s.logger.Sugar().Infow("manual reschedule applied",
		"campus_id", req.CampusID, "source_date", req.SourceDate, "moved", len(result.Moves), "warnings", len(warnings))
	return result, nil
}

// SaveTriage persists the completion checklist: checked items become
// completed, unchecked previously-completed items revert to scheduled.
// Saving the same checklist twice issues no further writes.
func (s *RescheduleService) SaveTriage(ctx context.Context, req TriageRequest) (*TriageResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid triage payload")
	}
	date, err := models.ParseDate(req.AppointmentDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "appointment_date must be YYYY-MM-DD")
	}

	appointments, err := s.appointments.ListByDate(ctx, req.CampusID, date, []models.AppointmentStatus{
		models.AppointmentStatusScheduled,
		models.AppointmentStatusCompleted,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day")
	}

	onDay := make(map[string]struct{}, len(appointments))
	for _, a := range appointments {
		onDay[a.ID] = struct{}{}
	}
	completed := make(map[string]struct{}, len(req.CompletedIDs))
	for _, id := range req.CompletedIDs {
		if _, ok := onDay[id]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("appointment %s is not on %s", id, req.AppointmentDate))
		}
		completed[id] = struct{}{}
	}

	result := &TriageResult{}
	for _, a := range appointments {
		desired := models.AppointmentStatusScheduled
		if _, ok := completed[a.ID]; ok {
			desired = models.AppointmentStatusCompleted
		}
		if a.Status == desired {
			continue
		}
		if err := s.appointments.UpdateStatus(ctx, a.ID, desired); err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrPartialBatch.Code, appErrors.ErrPartialBatch.Status,
				fmt.Sprintf("failed updating appointment %s; re-fetch to see actual state", a.ID))
		}
		if desired == models.AppointmentStatusCompleted {
			result.MarkedCompleted++
		} else {
			result.Reverted++
		}
	}

	s.capacity.Invalidate(ctx, req.CampusID, date)
	return result, nil
}

// ensureOnSourceDay rejects ids that are not scheduled on the source date
// before anything mutates.
func (s *RescheduleService) ensureOnSourceDay(ctx context.Context, campusID string, source time.Time, ids []string) error {
	scheduled, err := s.appointments.ListByDate(ctx, campusID, source, []models.AppointmentStatus{models.AppointmentStatusScheduled})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source day")
	}
	known := make(map[string]struct{}, len(scheduled))
	for _, a := range scheduled {
		known[a.ID] = struct{}{}
	}
	var unknown []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("appointments not scheduled on the source date: %s", strings.Join(unknown, ", ")))
	}
	return nil
}

// checkManualCapacity computes the would-be load per target date, counting
// the batch members already aimed at the same date. Over-capacity targets
// block or warn per the configured policy; non-bookable targets always block.
func (s *RescheduleService) checkManualCapacity(ctx context.Context, campusID string, batchPerDate map[string]int, targets map[string]time.Time) ([]string, error) {
	seen := map[string]bool{}
	var warnings []string
	var violations []string
	for _, target := range targets {
		key := models.FormatDate(target)
		if seen[key] {
			continue
		}
		seen[key] = true

		state, err := s.capacity.PlacementState(ctx, campusID, target)
		if err != nil {
			return nil, err
		}
		if !state.Bookable {
			return nil, appErrors.Clone(appErrors.ErrDayNotBookable, fmt.Sprintf("%s is not a bookable day", key))
		}
		wouldBe := state.Booked + batchPerDate[key]
		if wouldBe > state.Capacity {
			violations = append(violations, fmt.Sprintf("%s would hold %d of %d", key, wouldBe, state.Capacity))
		}
	}
	if len(violations) == 0 {
		return nil, nil
	}
	sort.Strings(violations)
	if s.cfg.AllowManualOverbook {
		for _, v := range violations {
			warnings = append(warnings, "over capacity: "+v)
		}
		return warnings, nil
	}
	return nil, appErrors.Clone(appErrors.ErrCapacityExceeded, "targets exceed capacity: "+strings.Join(violations, "; "))
}
