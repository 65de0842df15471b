package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-health/clinic-booking-api/internal/models"
)

type stubCountRepo struct {
	counts      map[string]int
	rangeCounts map[string]int
	dateCalls   int
}

func (s *stubCountRepo) CountByDate(_ context.Context, _ string, date time.Time) (int, error) {
	s.dateCalls++
	return s.counts[models.FormatDate(date)], nil
}

func (s *stubCountRepo) CountByDateRange(_ context.Context, _ string, _, _ time.Time) (map[string]int, error) {
	return s.rangeCounts, nil
}

type stubSettingRepo struct {
	setting *models.BookingSetting
}

func (s *stubSettingRepo) Get(_ context.Context, _ string) (*models.BookingSetting, error) {
	if s.setting == nil {
		return nil, sql.ErrNoRows
	}
	return s.setting, nil
}

type stubOverrideRepo struct {
	byDate map[string]*models.DayOverride
}

func (s *stubOverrideRepo) GetByDate(_ context.Context, _ string, date time.Time) (*models.DayOverride, error) {
	if o, ok := s.byDate[models.FormatDate(date)]; ok {
		return o, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubOverrideRepo) ListRange(_ context.Context, _ string, _, _ time.Time) (map[string]models.DayOverride, error) {
	out := map[string]models.DayOverride{}
	for k, o := range s.byDate {
		out[k] = *o
	}
	return out, nil
}

type stubScheduleRepo struct {
	cfg *models.ScheduleConfig
}

func (s *stubScheduleRepo) Get(_ context.Context, _ string) (*models.ScheduleConfig, error) {
	if s.cfg == nil {
		return nil, sql.ErrNoRows
	}
	return s.cfg, nil
}

type memorySummaryCache struct {
	store map[string]models.DaySummary
}

func (m *memorySummaryCache) key(campusID string, date time.Time) string {
	return campusID + ":" + models.FormatDate(date)
}

func (m *memorySummaryCache) Get(_ context.Context, campusID string, date time.Time) (*models.DaySummary, bool) {
	if s, ok := m.store[m.key(campusID, date)]; ok {
		return &s, true
	}
	return nil, false
}

func (m *memorySummaryCache) Set(_ context.Context, campusID string, summary models.DaySummary) {
	if m.store == nil {
		m.store = map[string]models.DaySummary{}
	}
	m.store[m.key(campusID, summary.Date)] = summary
}

func (m *memorySummaryCache) Invalidate(_ context.Context, campusID string, date time.Time) {
	delete(m.store, m.key(campusID, date))
}

func intPtr(v int) *int { return &v }

var (
	saturday = time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	sunday   = time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
)

func TestIsBookableDay(t *testing.T) {
	saturdays := &models.ScheduleConfig{IncludeSaturday: true}
	holidays := &models.ScheduleConfig{HolidayDates: pq.StringArray{"2026-03-02"}}
	cases := []struct {
		name     string
		date     time.Time
		cfg      *models.ScheduleConfig
		override *models.DayOverride
		want     bool
	}{
		{"weekday default", monday, nil, nil, true},
		{"saturday default", saturday, nil, nil, false},
		{"sunday default", sunday, nil, nil, false},
		{"saturday included", saturday, saturdays, nil, true},
		{"sunday stays excluded", sunday, saturdays, nil, false},
		{"holiday", monday, holidays, nil, false},
		{"closed override beats weekday", monday, nil, &models.DayOverride{IsClosed: true}, false},
		{"closed override beats saturday flag", saturday, saturdays, &models.DayOverride{IsClosed: true}, false},
		{"capacity override does not open weekend", saturday, nil, &models.DayOverride{MaxBookings: intPtr(10)}, false},
		{"capacity override keeps weekday open", monday, nil, &models.DayOverride{MaxBookings: intPtr(10)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsBookableDay(tc.date, tc.cfg, tc.override))
		})
	}
}

func newCapacityService(counts *stubCountRepo, setting *stubSettingRepo, overrides *stubOverrideRepo, schedules *stubScheduleRepo, cache daySummaryCache) *CapacityService {
	return NewCapacityService(counts, setting, overrides, schedules, cache, zap.NewNop(), CapacityServiceConfig{DefaultMaxPerDay: 50})
}

func TestEffectiveCapacityFallbackChain(t *testing.T) {
	ctx := context.Background()
	counts := &stubCountRepo{}
	overrides := &stubOverrideRepo{byDate: map[string]*models.DayOverride{
		"2026-03-03": {OverrideDate: day(1), MaxBookings: intPtr(5)},
	}}

	// Override wins over setting.
	svc := newCapacityService(counts, &stubSettingRepo{setting: &models.BookingSetting{MaxBookingsPerDay: 20}}, overrides, &stubScheduleRepo{}, nil)
	got, err := svc.EffectiveCapacity(ctx, "campus-1", day(1))
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	// Setting wins over default.
	got, err = svc.EffectiveCapacity(ctx, "campus-1", monday)
	require.NoError(t, err)
	assert.Equal(t, 20, got)

	// Default when nothing is configured.
	svc = newCapacityService(counts, &stubSettingRepo{}, &stubOverrideRepo{}, &stubScheduleRepo{}, nil)
	got, err = svc.EffectiveCapacity(ctx, "campus-1", monday)
	require.NoError(t, err)
	assert.Equal(t, 50, got)
}

func TestHasCapacity(t *testing.T) {
	ctx := context.Background()
	counts := &stubCountRepo{counts: map[string]int{"2026-03-02": 2}}
	setting := &stubSettingRepo{setting: &models.BookingSetting{MaxBookingsPerDay: 3}}
	svc := newCapacityService(counts, setting, &stubOverrideRepo{}, &stubScheduleRepo{}, nil)

	ok, err := svc.HasCapacity(ctx, "campus-1", monday)
	require.NoError(t, err)
	assert.True(t, ok)

	counts.counts["2026-03-02"] = 3
	ok, err = svc.HasCapacity(ctx, "campus-1", monday)
	require.NoError(t, err)
	assert.False(t, ok)

	// Closed day never has capacity regardless of load.
	svc = newCapacityService(&stubCountRepo{}, setting, &stubOverrideRepo{byDate: map[string]*models.DayOverride{
		"2026-03-02": {IsClosed: true},
	}}, &stubScheduleRepo{}, nil)
	ok, err = svc.HasCapacity(ctx, "campus-1", monday)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDaySummaryUsesCache(t *testing.T) {
	ctx := context.Background()
	counts := &stubCountRepo{counts: map[string]int{"2026-03-02": 1}}
	cache := &memorySummaryCache{}
	svc := newCapacityService(counts, &stubSettingRepo{}, &stubOverrideRepo{}, &stubScheduleRepo{}, cache)

	first, err := svc.DaySummary(ctx, "campus-1", monday)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Booked)
	assert.Equal(t, 1, counts.dateCalls)

	second, err := svc.DaySummary(ctx, "campus-1", monday)
	require.NoError(t, err)
	assert.Equal(t, first.Booked, second.Booked)
	assert.Equal(t, 1, counts.dateCalls)

	svc.Invalidate(ctx, "campus-1", monday)
	_, err = svc.DaySummary(ctx, "campus-1", monday)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.dateCalls)
}

func TestPlacementStateBypassesCache(t *testing.T) {
	ctx := context.Background()
	counts := &stubCountRepo{counts: map[string]int{"2026-03-02": 1}}
	cache := &memorySummaryCache{}
	cache.Set(ctx, "campus-1", models.DaySummary{CampusID: "campus-1", Date: monday, Capacity: 50, Booked: 99})
	svc := newCapacityService(counts, &stubSettingRepo{}, &stubOverrideRepo{}, &stubScheduleRepo{}, cache)

	state, err := svc.PlacementState(ctx, "campus-1", monday)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Booked)
	assert.Equal(t, 1, counts.dateCalls)
}

func TestRangeSummaries(t *testing.T) {
	ctx := context.Background()
	counts := &stubCountRepo{rangeCounts: map[string]int{
		"2026-03-02": 3,
		"2026-03-04": 1,
	}}
	overrides := &stubOverrideRepo{byDate: map[string]*models.DayOverride{
		"2026-03-03": {OverrideDate: day(1), IsClosed: true},
		"2026-03-04": {OverrideDate: day(2), MaxBookings: intPtr(10)},
	}}
	setting := &stubSettingRepo{setting: &models.BookingSetting{MaxBookingsPerDay: 30}}
	svc := newCapacityService(counts, setting, overrides, &stubScheduleRepo{}, nil)

	summaries, err := svc.RangeSummaries(ctx, "campus-1", monday, day(5))
	require.NoError(t, err)
	require.Len(t, summaries, 6)

	byDate := map[string]models.DaySummary{}
	for _, s := range summaries {
		byDate[models.FormatDate(s.Date)] = s
	}

	open := byDate["2026-03-02"]
	assert.Equal(t, 30, open.Capacity)
	assert.Equal(t, 3, open.Booked)
	assert.True(t, open.Bookable)

	closed := byDate["2026-03-03"]
	assert.False(t, closed.Bookable)
	assert.True(t, closed.Closed)

	overridden := byDate["2026-03-04"]
	assert.Equal(t, 10, overridden.Capacity)
	assert.Equal(t, 1, overridden.Booked)
	assert.Equal(t, 9, overridden.Remaining())

	weekend := byDate["2026-03-07"]
	assert.False(t, weekend.Bookable)
	assert.False(t, weekend.Closed)

	_, err = svc.RangeSummaries(ctx, "campus-1", day(5), monday)
	require.Error(t, err)
}
