package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/campus-health/clinic-booking-api/internal/models"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
)

type settingsBookingRepo interface {
	Get(ctx context.Context, campusID string) (*models.BookingSetting, error)
	Upsert(ctx context.Context, setting *models.BookingSetting) error
}

type settingsOverrideRepo interface {
	GetByDate(ctx context.Context, campusID string, date time.Time) (*models.DayOverride, error)
	ListRange(ctx context.Context, campusID string, from, to time.Time) (map[string]models.DayOverride, error)
	Upsert(ctx context.Context, override *models.DayOverride) error
	Delete(ctx context.Context, campusID string, date time.Time) error
}

type settingsScheduleRepo interface {
	Get(ctx context.Context, campusID string) (*models.ScheduleConfig, error)
	Upsert(ctx context.Context, cfg *models.ScheduleConfig) error
}

type settingsCampusReader interface {
	GetByID(ctx context.Context, id string) (*models.Campus, error)
}

type settingsInvalidator interface {
	Invalidate(ctx context.Context, campusID string, date time.Time)
}

// SettingsService manages campus capacity defaults, day overrides, and
// business-day rules.
type SettingsService struct {
	settings   settingsBookingRepo
	overrides  settingsOverrideRepo
	schedules  settingsScheduleRepo
	campuses   settingsCampusReader
	cache      settingsInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
	defaultMax int
}

// SettingsServiceConfig tunes defaults.
type SettingsServiceConfig struct {
	DefaultMaxPerDay int
}

// NewSettingsService constructs the service.
func NewSettingsService(
	settings settingsBookingRepo,
	overrides settingsOverrideRepo,
	schedules settingsScheduleRepo,
	campuses settingsCampusReader,
	cache settingsInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg SettingsServiceConfig,
) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultMaxPerDay <= 0 {
		cfg.DefaultMaxPerDay = 50
	}
	return &SettingsService{
		settings:   settings,
		overrides:  overrides,
		schedules:  schedules,
		campuses:   campuses,
		cache:      cache,
		validator:  validate,
		logger:     logger,
		defaultMax: cfg.DefaultMaxPerDay,
	}
}

// UpsertBookingSettingRequest sets the campus-wide daily cap.
type UpsertBookingSettingRequest struct {
	MaxBookingsPerDay int `json:"max_bookings_per_day" validate:"required,min=1"`
}

// UpsertDayOverrideRequest writes a per-date exception.
type UpsertDayOverrideRequest struct {
	Date        string  `json:"date" validate:"required"`
	MaxBookings *int    `json:"max_bookings" validate:"omitempty,min=0"`
	IsClosed    bool    `json:"is_closed"`
	Notes       *string `json:"notes"`
}

// UpsertScheduleConfigRequest writes weekend and holiday rules.
type UpsertScheduleConfigRequest struct {
	IncludeSaturday bool     `json:"include_saturday"`
	IncludeSunday   bool     `json:"include_sunday"`
	HolidayDates    []string `json:"holiday_dates"`
}

// GetBookingSetting returns the stored setting, or the documented default
// when the campus was never configured.
func (s *SettingsService) GetBookingSetting(ctx context.Context, campusID string) (*models.BookingSetting, error) {
	if err := s.ensureCampus(ctx, campusID); err != nil {
		return nil, err
	}
	setting, err := s.settings.Get(ctx, campusID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.BookingSetting{CampusID: campusID, MaxBookingsPerDay: s.defaultMax}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking setting")
	}
	return setting, nil
}

// UpsertBookingSetting writes the campus daily cap.
func (s *SettingsService) UpsertBookingSetting(ctx context.Context, campusID string, req UpsertBookingSettingRequest, actor *models.JWTClaims) (*models.BookingSetting, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "max_bookings_per_day must be at least 1")
	}
	if err := s.ensureCampus(ctx, campusID); err != nil {
		return nil, err
	}
	setting := &models.BookingSetting{CampusID: campusID, MaxBookingsPerDay: req.MaxBookingsPerDay}
	if actor != nil {
		setting.UpdatedBy = &actor.UserID
	}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save booking setting")
	}
	s.logger.Sugar().Infow("booking setting updated", "campus_id", campusID, "max_per_day", req.MaxBookingsPerDay)
	return setting, nil
}

// GetDayOverride fetches the override for a date.
func (s *SettingsService) GetDayOverride(ctx context.Context, campusID, rawDate string) (*models.DayOverride, error) {
	date, err := models.ParseDate(rawDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	override, err := s.overrides.GetByDate(ctx, campusID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no override for this date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day override")
	}
	return override, nil
}

// ListDayOverrides returns overrides within [from, to].
func (s *SettingsService) ListDayOverrides(ctx context.Context, campusID, rawFrom, rawTo string) ([]models.DayOverride, error) {
	from, err := models.ParseDate(rawFrom)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD")
	}
	to, err := models.ParseDate(rawTo)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD")
	}
	byDate, err := s.overrides.ListRange(ctx, campusID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list day overrides")
	}
	overrides := make([]models.DayOverride, 0, len(byDate))
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if o, ok := byDate[models.FormatDate(day)]; ok {
			overrides = append(overrides, o)
		}
	}
	return overrides, nil
}

// UpsertDayOverride writes a per-date exception and drops the cached
// availability for that date.
func (s *SettingsService) UpsertDayOverride(ctx context.Context, campusID string, req UpsertDayOverrideRequest) (*models.DayOverride, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid override payload")
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if err := s.ensureCampus(ctx, campusID); err != nil {
		return nil, err
	}
	override := &models.DayOverride{
		CampusID:     campusID,
		OverrideDate: date,
		MaxBookings:  req.MaxBookings,
		IsClosed:     req.IsClosed,
		Notes:        req.Notes,
	}
	if err := s.overrides.Upsert(ctx, override); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save day override")
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, campusID, date)
	}
	s.logger.Sugar().Infow("day override saved", "campus_id", campusID, "date", req.Date, "closed", req.IsClosed)
	return override, nil
}

// DeleteDayOverride removes the exception; the date falls back to campus
// defaults and standard business-day rules.
func (s *SettingsService) DeleteDayOverride(ctx context.Context, campusID, rawDate string) error {
	date, err := models.ParseDate(rawDate)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if err := s.overrides.Delete(ctx, campusID, date); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete day override")
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, campusID, date)
	}
	return nil
}

// GetScheduleConfig returns the campus business-day rules, defaulting to
// Monday-Friday with no holidays.
func (s *SettingsService) GetScheduleConfig(ctx context.Context, campusID string) (*models.ScheduleConfig, error) {
	if err := s.ensureCampus(ctx, campusID); err != nil {
		return nil, err
	}
	cfg, err := s.schedules.Get(ctx, campusID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.ScheduleConfig{CampusID: campusID, HolidayDates: pq.StringArray{}}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule config")
	}
	return cfg, nil
}

// UpsertScheduleConfig writes weekend flags and the holiday list.
func (s *SettingsService) UpsertScheduleConfig(ctx context.Context, campusID string, req UpsertScheduleConfigRequest) (*models.ScheduleConfig, error) {
	if err := s.ensureCampus(ctx, campusID); err != nil {
		return nil, err
	}
	holidays := make(pq.StringArray, 0, len(req.HolidayDates))
	for _, raw := range req.HolidayDates {
		if _, err := models.ParseDate(raw); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "holiday dates must be YYYY-MM-DD")
		}
		holidays = append(holidays, raw)
	}
	cfg := &models.ScheduleConfig{
		CampusID:        campusID,
		IncludeSaturday: req.IncludeSaturday,
		IncludeSunday:   req.IncludeSunday,
		HolidayDates:    holidays,
	}
	if err := s.schedules.Upsert(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule config")
	}
	s.logger.Sugar().Infow("schedule config updated", "campus_id", campusID, "holidays", len(holidays))
	return cfg, nil
}

func (s *SettingsService) ensureCampus(ctx context.Context, campusID string) error {
	if _, err := s.campuses.GetByID(ctx, campusID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "campus not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campus")
	}
	return nil
}
