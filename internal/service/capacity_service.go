package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/campus-health/clinic-booking-api/internal/models"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
)

type capacityCountReader interface {
	CountByDate(ctx context.Context, campusID string, date time.Time) (int, error)
	CountByDateRange(ctx context.Context, campusID string, from, to time.Time) (map[string]int, error)
}

type capacitySettingReader interface {
	Get(ctx context.Context, campusID string) (*models.BookingSetting, error)
}

type capacityOverrideReader interface {
	GetByDate(ctx context.Context, campusID string, date time.Time) (*models.DayOverride, error)
	ListRange(ctx context.Context, campusID string, from, to time.Time) (map[string]models.DayOverride, error)
}

type capacityScheduleReader interface {
	Get(ctx context.Context, campusID string) (*models.ScheduleConfig, error)
}

type daySummaryCache interface {
	Get(ctx context.Context, campusID string, date time.Time) (*models.DaySummary, bool)
	Set(ctx context.Context, campusID string, summary models.DaySummary)
	Invalidate(ctx context.Context, campusID string, date time.Time)
}

// IsBookableDay decides whether a date accepts bookings for a campus. A
// closed override beats everything; weekend and holiday rules follow.
// Pastness is an admission concern, not a business-day concern.
func IsBookableDay(date time.Time, cfg *models.ScheduleConfig, override *models.DayOverride) bool {
	if override != nil && override.IsClosed {
		return false
	}
	switch date.Weekday() {
	case time.Saturday:
		if cfg == nil || !cfg.IncludeSaturday {
			return false
		}
	case time.Sunday:
		if cfg == nil || !cfg.IncludeSunday {
			return false
		}
	}
	return !cfg.IsHoliday(date)
}

// CapacityService is the single source of capacity math. Every
// capacity-sensitive operation (admission, auto reschedule, manual
// reschedule) reads through it.
type CapacityService struct {
	appointments capacityCountReader
	settings     capacitySettingReader
	overrides    capacityOverrideReader
	schedules    capacityScheduleReader
	cache        daySummaryCache
	logger       *zap.Logger
	defaultMax   int
}

// CapacityServiceConfig tunes accounting defaults.
type CapacityServiceConfig struct {
	DefaultMaxPerDay int
}

// NewCapacityService wires capacity accounting. The cache is optional.
func NewCapacityService(
	appointments capacityCountReader,
	settings capacitySettingReader,
	overrides capacityOverrideReader,
	schedules capacityScheduleReader,
	cache daySummaryCache,
	logger *zap.Logger,
	cfg CapacityServiceConfig,
) *CapacityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultMaxPerDay <= 0 {
		cfg.DefaultMaxPerDay = 50
	}
	return &CapacityService{
		appointments: appointments,
		settings:     settings,
		overrides:    overrides,
		schedules:    schedules,
		cache:        cache,
		logger:       logger,
		defaultMax:   cfg.DefaultMaxPerDay,
	}
}

// EffectiveCapacity resolves the cap for one (campus, date): day override
// first, then the campus setting, then the documented default.
func (s *CapacityService) EffectiveCapacity(ctx context.Context, campusID string, date time.Time) (int, error) {
	override, err := s.override(ctx, campusID, date)
	if err != nil {
		return 0, err
	}
	return s.capacityFor(ctx, campusID, override)
}

// CurrentLoad counts the non-cancelled appointments occupying a day.
func (s *CapacityService) CurrentLoad(ctx context.Context, campusID string, date time.Time) (int, error) {
	count, err := s.appointments.CountByDate(ctx, campusID, date)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count bookings")
	}
	return count, nil
}

// HasCapacity reports whether a new booking fits the day. Point-in-time
// check only; concurrent admissions can still race past the cap.
func (s *CapacityService) HasCapacity(ctx context.Context, campusID string, date time.Time) (bool, error) {
	summary, err := s.DaySummary(ctx, campusID, date)
	if err != nil {
		return false, err
	}
	return summary.Bookable && summary.Booked < summary.Capacity, nil
}

// DaySummary returns the cached capacity view for one (campus, date).
func (s *CapacityService) DaySummary(ctx context.Context, campusID string, date time.Time) (*models.DaySummary, error) {
	date = models.NormalizeDate(date)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, campusID, date); ok {
			return cached, nil
		}
	}
	summary, err := s.dayState(ctx, campusID, date)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, campusID, *summary)
	}
	return summary, nil
}

// PlacementState is the allocator's read path. It always hits the store so a
// reschedule run never packs days against stale counts.
func (s *CapacityService) PlacementState(ctx context.Context, campusID string, date time.Time) (*models.DaySummary, error) {
	return s.dayState(ctx, campusID, models.NormalizeDate(date))
}

// RangeSummaries computes day summaries for an inclusive date range using
// grouped queries instead of one round-trip per day.
func (s *CapacityService) RangeSummaries(ctx context.Context, campusID string, from, to time.Time) ([]models.DaySummary, error) {
	from = models.NormalizeDate(from)
	to = models.NormalizeDate(to)
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range end precedes range start")
	}

	scheduleCfg, err := s.scheduleConfig(ctx, campusID)
	if err != nil {
		return nil, err
	}
	defaultCap, err := s.campusDefault(ctx, campusID)
	if err != nil {
		return nil, err
	}
	overrides, err := s.overrides.ListRange(ctx, campusID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day overrides")
	}
	counts, err := s.appointments.CountByDateRange(ctx, campusID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count bookings")
	}

	summaries := make([]models.DaySummary, 0, int(to.Sub(from).Hours()/24)+1)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := models.FormatDate(day)
		var override *models.DayOverride
		if o, ok := overrides[key]; ok {
			copied := o
			override = &copied
		}
		capacity := defaultCap
		if override != nil && override.MaxBookings != nil {
			capacity = *override.MaxBookings
		}
		summaries = append(summaries, models.DaySummary{
			CampusID: campusID,
			Date:     day,
			Capacity: capacity,
			Booked:   counts[key],
			Bookable: IsBookableDay(day, scheduleCfg, override),
			Closed:   override != nil && override.IsClosed,
		})
	}
	return summaries, nil
}

// Invalidate drops the cached summary for a (campus, date) after a mutation.
func (s *CapacityService) Invalidate(ctx context.Context, campusID string, date time.Time) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, campusID, models.NormalizeDate(date))
	}
}

func (s *CapacityService) dayState(ctx context.Context, campusID string, date time.Time) (*models.DaySummary, error) {
	override, err := s.override(ctx, campusID, date)
	if err != nil {
		return nil, err
	}
	scheduleCfg, err := s.scheduleConfig(ctx, campusID)
	if err != nil {
		return nil, err
	}
	capacity, err := s.capacityFor(ctx, campusID, override)
	if err != nil {
		return nil, err
	}
	load, err := s.CurrentLoad(ctx, campusID, date)
	if err != nil {
		return nil, err
	}
	return &models.DaySummary{
		CampusID: campusID,
		Date:     date,
		Capacity: capacity,
		Booked:   load,
		Bookable: IsBookableDay(date, scheduleCfg, override),
		Closed:   override != nil && override.IsClosed,
	}, nil
}

func (s *CapacityService) capacityFor(ctx context.Context, campusID string, override *models.DayOverride) (int, error) {
	if override != nil && override.MaxBookings != nil {
		return *override.MaxBookings, nil
	}
	return s.campusDefault(ctx, campusID)
}

func (s *CapacityService) campusDefault(ctx context.Context, campusID string) (int, error) {
	setting, err := s.settings.Get(ctx, campusID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.defaultMax, nil
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking setting")
	}
	return setting.MaxBookingsPerDay, nil
}

func (s *CapacityService) override(ctx context.Context, campusID string, date time.Time) (*models.DayOverride, error) {
	override, err := s.overrides.GetByDate(ctx, campusID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day override")
	}
	return override, nil
}

func (s *CapacityService) scheduleConfig(ctx context.Context, campusID string) (*models.ScheduleConfig, error) {
	cfg, err := s.schedules.Get(ctx, campusID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule config")
	}
	return cfg, nil
}
