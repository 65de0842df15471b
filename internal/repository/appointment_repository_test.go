package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-health/clinic-booking-api/internal/models"
)

func newAppointmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func appointmentRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "campus_id", "appointment_date", "start_time", "end_time", "appointment_type", "status", "patient_name", "patient_email", "patient_phone", "walk_in", "created_at", "updated_at"})
	for _, id := range ids {
		rows.AddRow(id, "campus-1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "08:00", "10:00", "consultation", "scheduled", "Dewi", nil, nil, false, time.Now(), time.Now())
	}
	return rows
}

func TestAppointmentRepositoryList(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(`SELECT id, campus_id, .+ FROM appointments WHERE 1=1 AND campus_id = \$1 ORDER BY appointment_date ASC, start_time ASC, created_at ASC LIMIT 50 OFFSET 0`).
		WithArgs("campus-1").
		WillReturnRows(appointmentRows("a1", "a2"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM appointments WHERE 1=1 AND campus_id = $1")).
		WithArgs("campus-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	list, total, err := repo.List(context.Background(), models.AppointmentFilter{CampusID: "campus-1"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryListByDateFiltersStatus(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, campus_id, .+ FROM appointments WHERE campus_id = \$1 AND appointment_date = \$2 AND status = ANY\(\$3\) ORDER BY start_time ASC, created_at ASC`).
		WithArgs("campus-1", date, sqlmock.AnyArg()).
		WillReturnRows(appointmentRows("a1"))

	list, err := repo.ListByDate(context.Background(), "campus-1", date, []models.AppointmentStatus{models.AppointmentStatusScheduled})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectExec("INSERT INTO appointments").
		WillReturnResult(sqlmock.NewResult(1, 1))

	appointment := &models.Appointment{
		CampusID:        "campus-1",
		AppointmentDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:       "08:00",
		EndTime:         "10:00",
		AppointmentType: models.AppointmentTypeConsultation,
		Status:          models.AppointmentStatusScheduled,
		PatientName:     "Dewi",
	}
	require.NoError(t, repo.Create(context.Background(), appointment))
	assert.NotEmpty(t, appointment.ID)
	assert.False(t, appointment.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryUpdateScheduleResetsStatus(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	target := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET appointment_date = $1, status = $2, updated_at = $3 WHERE id = $4")).
		WithArgs(target, models.AppointmentStatusScheduled, sqlmock.AnyArg(), "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateSchedule(context.Background(), "a1", target))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryUpdateScheduleMissingRow(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	mock.ExpectExec("UPDATE appointments SET appointment_date").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateSchedule(context.Background(), "missing", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryCountByDateExcludesCancelled(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM appointments WHERE campus_id = $1 AND appointment_date = $2 AND status IN ('scheduled', 'completed')")).
		WithArgs("campus-1", date).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByDate(context.Background(), "campus-1", date)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryCountByDateRange(t *testing.T) {
	db, mock, cleanup := newAppointmentRepoMock(t)
	defer cleanup()
	repo := NewAppointmentRepository(db)

	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"appointment_date", "total"}).
		AddRow(from, 3).
		AddRow(from.AddDate(0, 0, 2), 1)
	mock.ExpectQuery(`SELECT appointment_date, COUNT\(\*\) AS total FROM appointments`).
		WithArgs("campus-1", from, to).
		WillReturnRows(rows)

	counts, err := repo.CountByDateRange(context.Background(), "campus-1", from, to)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2026-03-02": 3, "2026-03-04": 1}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
