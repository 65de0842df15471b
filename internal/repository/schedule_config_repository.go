package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campus-health/clinic-booking-api/internal/models"
)

// ScheduleConfigRepository persists per-campus business-day rules.
type ScheduleConfigRepository struct {
	db *sqlx.DB
}

// NewScheduleConfigRepository constructs a schedule config repository.
func NewScheduleConfigRepository(db *sqlx.DB) *ScheduleConfigRepository {
	return &ScheduleConfigRepository{db: db}
}

// Get fetches the campus schedule config. Returns sql.ErrNoRows when the
// campus runs on default Monday-Friday rules.
func (r *ScheduleConfigRepository) Get(ctx context.Context, campusID string) (*models.ScheduleConfig, error) {
	const query = `SELECT campus_id, include_saturday, include_sunday, holiday_dates, updated_at FROM schedule_configs WHERE campus_id = $1`
	var cfg models.ScheduleConfig
	if err := r.db.GetContext(ctx, &cfg, query, campusID); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert writes the campus schedule config.
func (r *ScheduleConfigRepository) Upsert(ctx context.Context, cfg *models.ScheduleConfig) error {
	cfg.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO schedule_configs (campus_id, include_saturday, include_sunday, holiday_dates, updated_at)
VALUES (:campus_id, :include_saturday, :include_sunday, :holiday_dates, :updated_at)
ON CONFLICT (campus_id) DO UPDATE SET include_saturday = EXCLUDED.include_saturday, include_sunday = EXCLUDED.include_sunday, holiday_dates = EXCLUDED.holiday_dates, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("upsert schedule config: %w", err)
	}
	return nil
}
