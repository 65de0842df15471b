package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-health/clinic-booking-api/internal/models"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
)

type mockBookingSettingRepo struct {
	setting *models.BookingSetting
	saved   *models.BookingSetting
}

func (m *mockBookingSettingRepo) Get(_ context.Context, _ string) (*models.BookingSetting, error) {
	if m.setting == nil {
		return nil, sql.ErrNoRows
	}
	return m.setting, nil
}

func (m *mockBookingSettingRepo) Upsert(_ context.Context, setting *models.BookingSetting) error {
	m.saved = setting
	m.setting = setting
	return nil
}

type mockOverrideRepo struct {
	byDate  map[string]*models.DayOverride
	saved   *models.DayOverride
	deleted []string
}

func (m *mockOverrideRepo) GetByDate(_ context.Context, _ string, date time.Time) (*models.DayOverride, error) {
	if o, ok := m.byDate[models.FormatDate(date)]; ok {
		return o, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockOverrideRepo) ListRange(_ context.Context, _ string, _, _ time.Time) (map[string]models.DayOverride, error) {
	out := map[string]models.DayOverride{}
	for k, o := range m.byDate {
		out[k] = *o
	}
	return out, nil
}

func (m *mockOverrideRepo) Upsert(_ context.Context, override *models.DayOverride) error {
	if m.byDate == nil {
		m.byDate = map[string]*models.DayOverride{}
	}
	m.byDate[models.FormatDate(override.OverrideDate)] = override
	m.saved = override
	return nil
}

func (m *mockOverrideRepo) Delete(_ context.Context, _ string, date time.Time) error {
	key := models.FormatDate(date)
	delete(m.byDate, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type mockScheduleRepo struct {
	cfg   *models.ScheduleConfig
	saved *models.ScheduleConfig
}

func (m *mockScheduleRepo) Get(_ context.Context, _ string) (*models.ScheduleConfig, error) {
	if m.cfg == nil {
		return nil, sql.ErrNoRows
	}
	return m.cfg, nil
}

func (m *mockScheduleRepo) Upsert(_ context.Context, cfg *models.ScheduleConfig) error {
	m.cfg = cfg
	m.saved = cfg
	return nil
}

type mockCampusReader struct {
	known map[string]bool
}

func (m *mockCampusReader) GetByID(_ context.Context, id string) (*models.Campus, error) {
	if !m.known[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Campus{ID: id, Name: "Main"}, nil
}

type countingInvalidator struct {
	dates []string
}

func (c *countingInvalidator) Invalidate(_ context.Context, _ string, date time.Time) {
	c.dates = append(c.dates, models.FormatDate(date))
}

func newSettingsService(settings *mockBookingSettingRepo, overrides *mockOverrideRepo, schedules *mockScheduleRepo, cache *countingInvalidator) *SettingsService {
	campuses := &mockCampusReader{known: map[string]bool{"campus-1": true}}
	return NewSettingsService(settings, overrides, schedules, campuses, cache, nil, zap.NewNop(), SettingsServiceConfig{DefaultMaxPerDay: 50})
}

func TestGetBookingSettingFallsBackToDefault(t *testing.T) {
	svc := newSettingsService(&mockBookingSettingRepo{}, &mockOverrideRepo{}, &mockScheduleRepo{}, nil)

	setting, err := svc.GetBookingSetting(context.Background(), "campus-1")
	require.NoError(t, err)
	assert.Equal(t, 50, setting.MaxBookingsPerDay)
}

func TestUpsertBookingSettingValidatesMinimum(t *testing.T) {
	settings := &mockBookingSettingRepo{}
	svc := newSettingsService(settings, &mockOverrideRepo{}, &mockScheduleRepo{}, nil)

	_, err := svc.UpsertBookingSetting(context.Background(), "campus-1", UpsertBookingSettingRequest{MaxBookingsPerDay: 0}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, settings.saved)

	actor := &models.JWTClaims{UserID: "staff-1", Role: models.UserRoleStaff}
	setting, err := svc.UpsertBookingSetting(context.Background(), "campus-1", UpsertBookingSettingRequest{MaxBookingsPerDay: 25}, actor)
	require.NoError(t, err)
	assert.Equal(t, 25, setting.MaxBookingsPerDay)
	require.NotNil(t, setting.UpdatedBy)
	assert.Equal(t, "staff-1", *setting.UpdatedBy)
}

func TestSettingsRejectUnknownCampus(t *testing.T) {
	svc := newSettingsService(&mockBookingSettingRepo{}, &mockOverrideRepo{}, &mockScheduleRepo{}, nil)

	_, err := svc.GetBookingSetting(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpsertDayOverrideInvalidatesAvailability(t *testing.T) {
	overrides := &mockOverrideRepo{}
	cache := &countingInvalidator{}
	svc := newSettingsService(&mockBookingSettingRepo{}, overrides, &mockScheduleRepo{}, cache)

	override, err := svc.UpsertDayOverride(context.Background(), "campus-1", UpsertDayOverrideRequest{
		Date:        "2026-03-03",
		MaxBookings: intPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, *override.MaxBookings)
	assert.Equal(t, []string{"2026-03-03"}, cache.dates)

	require.NoError(t, svc.DeleteDayOverride(context.Background(), "campus-1", "2026-03-03"))
	assert.Equal(t, []string{"2026-03-03"}, overrides.deleted)
	assert.Equal(t, []string{"2026-03-03", "2026-03-03"}, cache.dates)
}

func TestListDayOverridesReturnsDateOrder(t *testing.T) {
	overrides := &mockOverrideRepo{byDate: map[string]*models.DayOverride{
		"2026-03-05": {OverrideDate: day(3), IsClosed: true},
		"2026-03-03": {OverrideDate: day(1), MaxBookings: intPtr(5)},
	}}
	svc := newSettingsService(&mockBookingSettingRepo{}, overrides, &mockScheduleRepo{}, nil)

	list, err := svc.ListDayOverrides(context.Background(), "campus-1", "2026-03-02", "2026-03-06")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-03-03", models.FormatDate(list[0].OverrideDate))
	assert.Equal(t, "2026-03-05", models.FormatDate(list[1].OverrideDate))
}

func TestGetScheduleConfigDefaultsToWeekdays(t *testing.T) {
	svc := newSettingsService(&mockBookingSettingRepo{}, &mockOverrideRepo{}, &mockScheduleRepo{}, nil)

	cfg, err := svc.GetScheduleConfig(context.Background(), "campus-1")
	require.NoError(t, err)
	assert.False(t, cfg.IncludeSaturday)
	assert.False(t, cfg.IncludeSunday)
	assert.Empty(t, cfg.HolidayDates)
}

func TestUpsertScheduleConfigValidatesHolidayDates(t *testing.T) {
	schedules := &mockScheduleRepo{}
	svc := newSettingsService(&mockBookingSettingRepo{}, &mockOverrideRepo{}, schedules, nil)

	_, err := svc.UpsertScheduleConfig(context.Background(), "campus-1", UpsertScheduleConfigRequest{
		HolidayDates: []string{"03/17/2026"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, schedules.saved)

	cfg, err := svc.UpsertScheduleConfig(context.Background(), "campus-1", UpsertScheduleConfigRequest{
		IncludeSaturday: true,
		HolidayDates:    []string{"2026-03-17"},
	})
	require.NoError(t, err)
	assert.True(t, cfg.IncludeSaturday)
	assert.True(t, cfg.IsHoliday(time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC)))
}
