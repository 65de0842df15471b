package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campus-health/clinic-booking-api/internal/models"
)

const dayOverrideColumns = `id, campus_id, override_date, max_bookings, is_closed, notes, created_at, updated_at`

// DayOverrideRepository persists per-date capacity exceptions.
type DayOverrideRepository struct {
	db *sqlx.DB
}

// NewDayOverrideRepository constructs a day override repository.
func NewDayOverrideRepository(db *sqlx.DB) *DayOverrideRepository {
	return &DayOverrideRepository{db: db}
}

// GetByDate fetches the override for one (campus, date) pair. Returns
// sql.ErrNoRows when the date has no override.
func (r *DayOverrideRepository) GetByDate(ctx context.Context, campusID string, date time.Time) (*models.DayOverride, error) {
	query := fmt.Sprintf(`SELECT %s FROM day_overrides WHERE campus_id = $1 AND override_date = $2`, dayOverrideColumns)
	var override models.DayOverride
	if err := r.db.GetContext(ctx, &override, query, campusID, date); err != nil {
		return nil, err
	}
	return &override, nil
}

// ListRange returns overrides in [from, to] keyed by YYYY-MM-DD.
func (r *DayOverrideRepository) ListRange(ctx context.Context, campusID string, from, to time.Time) (map[string]models.DayOverride, error) {
	query := fmt.Sprintf(`SELECT %s FROM day_overrides WHERE campus_id = $1 AND override_date BETWEEN $2 AND $3 ORDER BY override_date ASC`, dayOverrideColumns)
	var overrides []models.DayOverride
	if err := r.db.SelectContext(ctx, &overrides, query, campusID, from, to); err != nil {
		return nil, fmt.Errorf("list day overrides: %w", err)
	}
	byDate := make(map[string]models.DayOverride, len(overrides))
	for _, o := range overrides {
		byDate[models.FormatDate(o.OverrideDate)] = o
	}
	return byDate, nil
}

// Upsert writes the override for its (campus, date) pair.
func (r *DayOverrideRepository) Upsert(ctx context.Context, override *models.DayOverride) error {
	if override.ID == "" {
		override.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if override.CreatedAt.IsZero() {
		override.CreatedAt = now
	}
	override.UpdatedAt = now
	const query = `INSERT INTO day_overrides (id, campus_id, override_date, max_bookings, is_closed, notes, created_at, updated_at)
VALUES (:id, :campus_id, :override_date, :max_bookings, :is_closed, :notes, :created_at, :updated_at)
ON CONFLICT (campus_id, override_date) DO UPDATE SET max_bookings = EXCLUDED.max_bookings, is_closed = EXCLUDED.is_closed, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, override); err != nil {
		return fmt.Errorf("upsert day override: %w", err)
	}
	return nil
}

// Delete removes the override for a (campus, date) pair.
func (r *DayOverrideRepository) Delete(ctx context.Context, campusID string, date time.Time) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM day_overrides WHERE campus_id = $1 AND override_date = $2", campusID, date); err != nil {
		return fmt.Errorf("delete day override: %w", err)
	}
	return nil
}
