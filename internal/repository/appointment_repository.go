package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campus-health/clinic-booking-api/internal/models"
)

const appointmentColumns = `id, campus_id, appointment_date, start_time, end_time, appointment_type, status, patient_name, patient_email, patient_phone, walk_in, created_at, updated_at`

// AppointmentRepository persists appointments.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs an appointment repository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// List returns appointments matching filters.
func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	base := "FROM appointments"
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.CampusID != "" {
		where = append(where, fmt.Sprintf("campus_id = $%d", len(args)+1))
		args = append(args, filter.CampusID)
	}
	if filter.DateFrom != nil {
		where = append(where, fmt.Sprintf("appointment_date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		where = append(where, fmt.Sprintf("appointment_date <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(statuses))
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY appointment_date ASC, start_time ASC, created_at ASC LIMIT %d OFFSET %d`,
		appointmentColumns, base, whereClause, size, offset)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}
	return appointments, total, nil
}

// ListByDate returns a campus day's appointments in stable listing order,
// optionally narrowed by status.
func (r *AppointmentRepository) ListByDate(ctx context.Context, campusID string, date time.Time, statuses []models.AppointmentStatus) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE campus_id = $1 AND appointment_date = $2`, appointmentColumns)
	args := []interface{}{campusID, date}
	if len(statuses) > 0 {
		raw := make([]string, len(statuses))
		for i, s := range statuses {
			raw[i] = string(s)
		}
		query += " AND status = ANY($3)"
		args = append(args, pq.Array(raw))
	}
	query += " ORDER BY start_time ASC, created_at ASC"
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("list appointments by date: %w", err)
	}
	return appointments, nil
}

// GetByID fetches an appointment.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)
	var appointment models.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// Create inserts an appointment.
func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if appointment.CreatedAt.IsZero() {
		appointment.CreatedAt = now
	}
	appointment.UpdatedAt = now
	query := `INSERT INTO appointments (id, campus_id, appointment_date, start_time, end_time, appointment_type, status, patient_name, patient_email, patient_phone, walk_in, created_at, updated_at)
VALUES (:id, :campus_id, :appointment_date, :start_time, :end_time, :appointment_type, :status, :patient_name, :patient_email, :patient_phone, :walk_in, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, appointment); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// UpdateSchedule moves an appointment to a new date and restores it to the
// scheduled state. Returns sql.ErrNoRows when the id is absent.
func (r *AppointmentRepository) UpdateSchedule(ctx context.Context, id string, date time.Time) error {
	const query = `UPDATE appointments SET appointment_date = $1, status = $2, updated_at = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, date, models.AppointmentStatusScheduled, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update appointment schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update appointment schedule: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatus transitions an appointment's lifecycle state. Returns
// sql.ErrNoRows when the id is absent.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	const query = `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an appointment. Administrative path only; the reschedule
// core never hard-deletes.
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM appointments WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// CountByDate returns the day's booking load. Scheduled and completed count;
// cancelled and no_show do not free historical slots they never used.
func (r *AppointmentRepository) CountByDate(ctx context.Context, campusID string, date time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM appointments WHERE campus_id = $1 AND appointment_date = $2 AND status IN ('scheduled', 'completed')`
	var count int
	if err := r.db.GetContext(ctx, &count, query, campusID, date); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return count, nil
}

// CountByDateRange returns per-date booking loads keyed by YYYY-MM-DD.
func (r *AppointmentRepository) CountByDateRange(ctx context.Context, campusID string, from, to time.Time) (map[string]int, error) {
	const query = `SELECT appointment_date, COUNT(*) AS total FROM appointments
WHERE campus_id = $1 AND appointment_date BETWEEN $2 AND $3 AND status IN ('scheduled', 'completed')
GROUP BY appointment_date`
	rows := []struct {
		AppointmentDate time.Time `db:"appointment_date"`
		Total           int       `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, campusID, from, to); err != nil {
		return nil, fmt.Errorf("count appointments by range: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[models.FormatDate(row.AppointmentDate)] = row.Total
	}
	return counts, nil
}
