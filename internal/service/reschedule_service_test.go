package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-health/clinic-booking-api/internal/models"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
)

// fakeClinic backs both the appointment store and the capacity reads so the
// allocator sees its own writes, the way the real repositories behave.
type fakeClinic struct {
	appts       map[string]*models.Appointment
	order       []string
	defaultCap  int
	caps        map[string]int
	closed      map[string]bool
	failMoveFor string
	stateCalls  map[string]int
	moveCalls   int
	statusCalls int
	invalidated []string
}

func newFakeClinic(defaultCap int) *fakeClinic {
	return &fakeClinic{
		appts:      map[string]*models.Appointment{},
		defaultCap: defaultCap,
		caps:       map[string]int{},
		closed:     map[string]bool{},
		stateCalls: map[string]int{},
	}
}

func (f *fakeClinic) add(id string, date time.Time, status models.AppointmentStatus) {
	f.appts[id] = &models.Appointment{
		ID:              id,
		CampusID:        "campus-1",
		AppointmentDate: date,
		StartTime:       "08:00",
		EndTime:         "10:00",
		Status:          status,
	}
	f.order = append(f.order, id)
}

func (f *fakeClinic) ListByDate(_ context.Context, _ string, date time.Time, statuses []models.AppointmentStatus) ([]models.Appointment, error) {
	allowed := map[models.AppointmentStatus]struct{}{}
	for _, s := range statuses {
		allowed[s] = struct{}{}
	}
	var out []models.Appointment
	for _, id := range f.order {
		a := f.appts[id]
		if !a.AppointmentDate.Equal(date) {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[a.Status]; !ok {
				continue
			}
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeClinic) UpdateSchedule(_ context.Context, id string, date time.Time) error {
	f.moveCalls++
	if id == f.failMoveFor {
		return assert.AnError
	}
	a := f.appts[id]
	a.AppointmentDate = date
	a.Status = models.AppointmentStatusScheduled
	return nil
}

func (f *fakeClinic) UpdateStatus(_ context.Context, id string, status models.AppointmentStatus) error {
	f.statusCalls++
	f.appts[id].Status = status
	return nil
}

func (f *fakeClinic) PlacementState(_ context.Context, _ string, date time.Time) (*models.DaySummary, error) {
	key := models.FormatDate(date)
	f.stateCalls[key]++
	booked := 0
	for _, a := range f.appts {
		if a.AppointmentDate.Equal(date) &&
			(a.Status == models.AppointmentStatusScheduled || a.Status == models.AppointmentStatusCompleted) {
			booked++
		}
	}
	capacity := f.defaultCap
	if c, ok := f.caps[key]; ok {
		capacity = c
	}
	return &models.DaySummary{
		CampusID: "campus-1",
		Date:     date,
		Capacity: capacity,
		Booked:   booked,
		Bookable: !f.closed[key],
		Closed:   f.closed[key],
	}, nil
}

func (f *fakeClinic) Invalidate(_ context.Context, _ string, date time.Time) {
	f.invalidated = append(f.invalidated, models.FormatDate(date))
}

func (f *fakeClinic) dateOf(id string) string {
	return models.FormatDate(f.appts[id].AppointmentDate)
}

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time { return monday.AddDate(0, 0, offset) }

func newRescheduleService(f *fakeClinic, cfg RescheduleServiceConfig) *RescheduleService {
	return NewRescheduleService(f, f, nil, nil, zap.NewNop(), cfg)
}

func TestAutoRescheduleFillsNearestDaysFirst(t *testing.T) {
	clinic := newFakeClinic(2)
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	clinic.add("a2", monday, models.AppointmentStatusScheduled)
	clinic.add("a3", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	result, err := svc.AutoReschedule(context.Background(), AutoRescheduleRequest{
		CampusID:       "campus-1",
		SourceDate:     "2026-03-02",
		AppointmentIDs: []string{"a1", "a2", "a3"},
	})
	require.NoError(t, err)
	require.Len(t, result.Moves, 3)

	assert.Equal(t, "2026-03-03", clinic.dateOf("a1"))
	assert.Equal(t, "2026-03-03", clinic.dateOf("a2"))
	assert.Equal(t, "2026-03-04", clinic.dateOf("a3"))

	// One capacity read per candidate day; the running counter covers the
	// rest of the run.
	assert.Equal(t, 1, clinic.stateCalls["2026-03-03"])
	assert.Equal(t, 1, clinic.stateCalls["2026-03-04"])
}

func TestAutoRescheduleCountsExistingLoad(t *testing.T) {
	clinic := newFakeClinic(2)
	clinic.add("existing", day(1), models.AppointmentStatusScheduled)
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	clinic.add("a2", monday, models.AppointmentStatusScheduled)
	clinic.add("a3", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	result, err := svc.AutoReschedule(context.Background(), AutoRescheduleRequest{
		CampusID:       "campus-1",
		SourceDate:     "2026-03-02",
		AppointmentIDs: []string{"a1", "a2", "a3"},
	})
	require.NoError(t, err)
	require.Len(t, result.Moves, 3)

	assert.Equal(t, "2026-03-03", clinic.dateOf("a1"))
	assert.Equal(t, "2026-03-04", clinic.dateOf("a2"))
	assert.Equal(t, "2026-03-04", clinic.dateOf("a3"))
}

func TestAutoRescheduleSkipsClosedDays(t *testing.T) {
	clinic := newFakeClinic(5)
	clinic.closed["2026-03-03"] = true
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	result, err := svc.AutoReschedule(context.Background(), AutoRescheduleRequest{
		CampusID:       "campus-1",
		SourceDate:     "2026-03-02",
		AppointmentIDs: []string{"a1"},
	})
	require.NoError(t, err)
	require.Len(t, result.Moves, 1)
	assert.Equal(t, "2026-03-04", clinic.dateOf("a1"))
}

func TestAutoRescheduleHorizonExhausted(t *testing.T) {
	clinic := newFakeClinic(2)
	clinic.closed["2026-03-03"] = true
	clinic.closed["2026-03-04"] = true
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{HorizonDays: 2})

	result, err := svc.AutoReschedule(context.Background(), AutoRescheduleRequest{
		CampusID:       "campus-1",
		SourceDate:     "2026-03-02",
		AppointmentIDs: []string{"a1"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPlacementNotFound.Code, appErrors.FromError(err).Code)
	assert.Contains(t, err.Error(), "placed 0 of 1")
	require.NotNil(t, result)
	assert.Empty(t, result.Moves)
	assert.Equal(t, "2026-03-02", clinic.dateOf("a1"))
}

func TestAutoRescheduleKeepsMovesBeforeHorizonFailure(t *testing.T) {
	clinic := newFakeClinic(1)
	clinic.closed["2026-03-04"] = true
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	clinic.add("a2", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{HorizonDays: 2})

	result, err := svc.AutoReschedule(context.Background(), AutoRescheduleRequest{
		CampusID:       "campus-1",
		SourceDate:     "2026-03-02",
		AppointmentIDs: []string{"a1", "a2"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPlacementNotFound.Code, appErrors.FromError(err).Code)
	require.Len(t, result.Moves, 1)
	assert.Equal(t, "2026-03-03", clinic.dateOf("a1"))
	assert.Equal(t, "2026-03-02", clinic.dateOf("a2"))
}

func TestAutoRescheduleRejectsUnknownIDs(t *testing.T) {
	clinic := newFakeClinic(2)
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	_, err := svc.AutoReschedule(context.Background(), AutoRescheduleRequest{
		CampusID:       "campus-1",
		SourceDate:     "2026-03-02",
		AppointmentIDs: []string{"a1", "zz", "aa"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Contains(t, err.Error(), "aa, zz")
	assert.Zero(t, clinic.moveCalls)
}

func TestAutoRescheduleSurfacesPartialBatch(t *testing.T) {
	clinic := newFakeClinic(5)
	clinic.failMoveFor = "a2"
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	clinic.add("a2", monday, models.AppointmentStatusScheduled)
	clinic.add("a3", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	result, err := svc.AutoReschedule(context.Background(), AutoRescheduleRequest{
		CampusID:       "campus-1",
		SourceDate:     "2026-03-02",
		AppointmentIDs: []string{"a1", "a2", "a3"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPartialBatch.Code, appErrors.FromError(err).Code)
	require.Len(t, result.Moves, 1)
	assert.Equal(t, "2026-03-03", clinic.dateOf("a1"))
	assert.Equal(t, "2026-03-02", clinic.dateOf("a2"))
	assert.Equal(t, "2026-03-02", clinic.dateOf("a3"))
}

func TestManualRescheduleAppliesTargets(t *testing.T) {
	clinic := newFakeClinic(5)
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	clinic.add("a2", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	result, err := svc.ManualReschedule(context.Background(), ManualRescheduleRequest{
		CampusID:   "campus-1",
		SourceDate: "2026-03-02",
		Assignments: []ManualAssignment{
			{AppointmentID: "a1", TargetDate: "2026-03-05"},
			{AppointmentID: "a2", TargetDate: "2026-03-06"},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Moves, 2)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "2026-03-05", clinic.dateOf("a1"))
	assert.Equal(t, "2026-03-06", clinic.dateOf("a2"))
}

func TestManualRescheduleRequiresEveryTarget(t *testing.T) {
	clinic := newFakeClinic(5)
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	clinic.add("a2", monday, models.AppointmentStatusScheduled)
	clinic.add("a3", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	_, err := svc.ManualReschedule(context.Background(), ManualRescheduleRequest{
		CampusID:   "campus-1",
		SourceDate: "2026-03-02",
		Assignments: []ManualAssignment{
			{AppointmentID: "a1", TargetDate: "2026-03-05"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Contains(t, err.Error(), "missing target dates for appointments: a2, a3")
	assert.Zero(t, clinic.moveCalls)
}

func TestManualRescheduleRejectsSourceDateTarget(t *testing.T) {
	clinic := newFakeClinic(5)
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	_, err := svc.ManualReschedule(context.Background(), ManualRescheduleRequest{
		CampusID:   "campus-1",
		SourceDate: "2026-03-02",
		Assignments: []ManualAssignment{
			{AppointmentID: "a1", TargetDate: "2026-03-02"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Contains(t, err.Error(), "targets the source date")
}

func TestManualRescheduleBlocksOverCapacity(t *testing.T) {
	clinic := newFakeClinic(1)
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	clinic.add("a2", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	_, err := svc.ManualReschedule(context.Background(), ManualRescheduleRequest{
		CampusID:   "campus-1",
		SourceDate: "2026-03-02",
		Assignments: []ManualAssignment{
			{AppointmentID: "a1", TargetDate: "2026-03-05"},
			{AppointmentID: "a2", TargetDate: "2026-03-05"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, appErrors.FromError(err).Code)
	assert.Contains(t, err.Error(), "2026-03-05 would hold 2 of 1")
	assert.Zero(t, clinic.moveCalls)
}

func TestManualRescheduleOverbookPolicyWarnsInstead(t *testing.T) {
	clinic := newFakeClinic(1)
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	clinic.add("a2", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{AllowManualOverbook: true})

	result, err := svc.ManualReschedule(context.Background(), ManualRescheduleRequest{
		CampusID:   "campus-1",
		SourceDate: "2026-03-02",
		Assignments: []ManualAssignment{
			{AppointmentID: "a1", TargetDate: "2026-03-05"},
			{AppointmentID: "a2", TargetDate: "2026-03-05"},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Moves, 2)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "over capacity")
	assert.Equal(t, "2026-03-05", clinic.dateOf("a1"))
	assert.Equal(t, "2026-03-05", clinic.dateOf("a2"))
}

func TestManualRescheduleClosedTargetAlwaysBlocks(t *testing.T) {
	clinic := newFakeClinic(5)
	clinic.closed["2026-03-05"] = true
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{AllowManualOverbook: true})

	_, err := svc.ManualReschedule(context.Background(), ManualRescheduleRequest{
		CampusID:   "campus-1",
		SourceDate: "2026-03-02",
		Assignments: []ManualAssignment{
			{AppointmentID: "a1", TargetDate: "2026-03-05"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDayNotBookable.Code, appErrors.FromError(err).Code)
	assert.Zero(t, clinic.moveCalls)
}

func TestSaveTriageMarksAndReverts(t *testing.T) {
	clinic := newFakeClinic(5)
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	clinic.add("a2", monday, models.AppointmentStatusCompleted)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	// a1 checked, a2 unchecked: a1 completes, a2 reverts.
	result, err := svc.SaveTriage(context.Background(), TriageRequest{
		CampusID:        "campus-1",
		AppointmentDate: "2026-03-02",
		CompletedIDs:    []string{"a1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.MarkedCompleted)
	assert.Equal(t, 1, result.Reverted)
	assert.Equal(t, models.AppointmentStatusCompleted, clinic.appts["a1"].Status)
	assert.Equal(t, models.AppointmentStatusScheduled, clinic.appts["a2"].Status)
}

func TestSaveTriageIsIdempotent(t *testing.T) {
	clinic := newFakeClinic(5)
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	clinic.add("a2", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	req := TriageRequest{
		CampusID:        "campus-1",
		AppointmentDate: "2026-03-02",
		CompletedIDs:    []string{"a1"},
	}
	first, err := svc.SaveTriage(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, first.MarkedCompleted)
	writes := clinic.statusCalls

	second, err := svc.SaveTriage(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, second.MarkedCompleted)
	assert.Zero(t, second.Reverted)
	assert.Equal(t, writes, clinic.statusCalls)
}

func TestSaveTriageRejectsForeignIDs(t *testing.T) {
	clinic := newFakeClinic(5)
	clinic.add("a1", monday, models.AppointmentStatusScheduled)
	svc := newRescheduleService(clinic, RescheduleServiceConfig{})

	_, err := svc.SaveTriage(context.Background(), TriageRequest{
		CampusID:        "campus-1",
		AppointmentDate: "2026-03-02",
		CompletedIDs:    []string{"other"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, clinic.statusCalls)
}
