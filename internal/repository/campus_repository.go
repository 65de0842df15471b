package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campus-health/clinic-booking-api/internal/models"
)

// CampusRepository reads clinic locations.
type CampusRepository struct {
	db *sqlx.DB
}

// NewCampusRepository constructs a campus repository.
func NewCampusRepository(db *sqlx.DB) *CampusRepository {
	return &CampusRepository{db: db}
}

// GetByID fetches a campus.
func (r *CampusRepository) GetByID(ctx context.Context, id string) (*models.Campus, error) {
	const query = `SELECT id, name, code, active, created_at, updated_at FROM campuses WHERE id = $1`
	var campus models.Campus
	if err := r.db.GetContext(ctx, &campus, query, id); err != nil {
		return nil, err
	}
	return &campus, nil
}

// List returns all active campuses.
func (r *CampusRepository) List(ctx context.Context) ([]models.Campus, error) {
	const query = `SELECT id, name, code, active, created_at, updated_at FROM campuses WHERE active = TRUE ORDER BY name ASC`
	var campuses []models.Campus
	if err := r.db.SelectContext(ctx, &campuses, query); err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}
	return campuses, nil
}
