package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-health/clinic-booking-api/internal/models"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
	"github.com/campus-health/clinic-booking-api/pkg/response"
)

type campusService interface {
	Get(ctx context.Context, id string) (*models.Campus, error)
	List(ctx context.Context) ([]models.Campus, error)
}

type availabilityService interface {
	DaySummary(ctx context.Context, campusID string, date time.Time) (*models.DaySummary, error)
	RangeSummaries(ctx context.Context, campusID string, from, to time.Time) ([]models.DaySummary, error)
}

// CampusHandler exposes campus lookup and availability endpoints.
type CampusHandler struct {
	campuses     campusService
	availability availabilityService
}

// NewCampusHandler builds a new handler.
func NewCampusHandler(campuses campusService, availability availabilityService) *CampusHandler {
	return &CampusHandler{campuses: campuses, availability: availability}
}

// List godoc
// @Summary List campuses
// @Tags Campuses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /campuses [get]
func (h *CampusHandler) List(c *gin.Context) {
	campuses, err := h.campuses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, campuses, nil)
}

// Get godoc
// @Summary Get campus by id
// @Tags Campuses
// @Produce json
// @Param id path string true "Campus id"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id} [get]
func (h *CampusHandler) Get(c *gin.Context) {
	campus, err := h.campuses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, campus, nil)
}

// Availability godoc
// @Summary Day summaries for a date range
// @Tags Campuses
// @Produce json
// @Param id path string true "Campus id"
// @Param from query string true "Start date YYYY-MM-DD"
// @Param to query string true "End date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/availability [get]
func (h *CampusHandler) Availability(c *gin.Context) {
	from, err := models.ParseDate(c.Query("from"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be YYYY-MM-DD"))
		return
	}
	to, err := models.ParseDate(c.Query("to"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must be YYYY-MM-DD"))
		return
	}
	if to.Before(from) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must not precede from"))
		return
	}
	summaries, err := h.availability.RangeSummaries(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// DayAvailability godoc
// @Summary Summary for a single day
// @Tags Campuses
// @Produce json
// @Param id path string true "Campus id"
// @Param date path string true "Date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/availability/{date} [get]
func (h *CampusHandler) DayAvailability(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	summary, err := h.availability.DaySummary(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
