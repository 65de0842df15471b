package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campus-health/clinic-booking-api/internal/models"
)

// BookingSettingRepository persists per-campus capacity defaults.
type BookingSettingRepository struct {
	db *sqlx.DB
}

// NewBookingSettingRepository constructs a booking setting repository.
func NewBookingSettingRepository(db *sqlx.DB) *BookingSettingRepository {
	return &BookingSettingRepository{db: db}
}

// Get fetches the campus setting. Returns sql.ErrNoRows when the campus has
// never been configured.
func (r *BookingSettingRepository) Get(ctx context.Context, campusID string) (*models.BookingSetting, error) {
	const query = `SELECT campus_id, max_bookings_per_day, updated_by, updated_at FROM booking_settings WHERE campus_id = $1`
	var setting models.BookingSetting
	if err := r.db.GetContext(ctx, &setting, query, campusID); err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert writes the campus setting.
func (r *BookingSettingRepository) Upsert(ctx context.Context, setting *models.BookingSetting) error {
	setting.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO booking_settings (campus_id, max_bookings_per_day, updated_by, updated_at)
VALUES (:campus_id, :max_bookings_per_day, :updated_by, :updated_at)
ON CONFLICT (campus_id) DO UPDATE SET max_bookings_per_day = EXCLUDED.max_bookings_per_day, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, setting); err != nil {
		return fmt.Errorf("upsert booking setting: %w", err)
	}
	return nil
}
