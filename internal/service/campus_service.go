package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/campus-health/clinic-booking-api/internal/models"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
)

type campusReader interface {
	GetByID(ctx context.Context, id string) (*models.Campus, error)
	List(ctx context.Context) ([]models.Campus, error)
}

// CampusService reads campus records.
type CampusService struct {
	campuses campusReader
	logger   *zap.Logger
}

// NewCampusService builds a new campus service.
func NewCampusService(campuses campusReader, logger *zap.Logger) *CampusService {
	return &CampusService{campuses: campuses, logger: logger}
}

// Get returns one campus by id.
func (s *CampusService) Get(ctx context.Context, id string) (*models.Campus, error) {
	campus, err := s.campuses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "campus not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campus")
	}
	return campus, nil
}

// List returns all campuses.
func (s *CampusService) List(ctx context.Context) ([]models.Campus, error) {
	campuses, err := s.campuses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list campuses")
	}
	return campuses, nil
}
