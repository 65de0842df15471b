package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-health/clinic-booking-api/internal/models"
	"github.com/campus-health/clinic-booking-api/internal/service"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
	"github.com/campus-health/clinic-booking-api/pkg/response"
)

type settingsService interface {
	GetBookingSetting(ctx context.Context, campusID string) (*models.BookingSetting, error)
	UpsertBookingSetting(ctx context.Context, campusID string, req service.UpsertBookingSettingRequest, actor *models.JWTClaims) (*models.BookingSetting, error)
	GetDayOverride(ctx context.Context, campusID, date string) (*models.DayOverride, error)
	ListDayOverrides(ctx context.Context, campusID, from, to string) ([]models.DayOverride, error)
	UpsertDayOverride(ctx context.Context, campusID string, req service.UpsertDayOverrideRequest) (*models.DayOverride, error)
	DeleteDayOverride(ctx context.Context, campusID, date string) error
	GetScheduleConfig(ctx context.Context, campusID string) (*models.ScheduleConfig, error)
	UpsertScheduleConfig(ctx context.Context, campusID string, req service.UpsertScheduleConfigRequest) (*models.ScheduleConfig, error)
}

// SettingsHandler exposes campus capacity and business-day configuration.
type SettingsHandler struct {
	service settingsService
}

// NewSettingsHandler builds a new handler.
func NewSettingsHandler(service settingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetBookingSetting godoc
// @Summary Get campus booking setting
// @Tags Settings
// @Produce json
// @Param id path string true "Campus id"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/booking-setting [get]
func (h *SettingsHandler) GetBookingSetting(c *gin.Context) {
	setting, err := h.service.GetBookingSetting(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, setting, nil)
}

// UpsertBookingSetting godoc
// @Summary Set campus booking setting
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path string true "Campus id"
// @Param payload body service.UpsertBookingSettingRequest true "Setting payload"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/booking-setting [put]
func (h *SettingsHandler) UpsertBookingSetting(c *gin.Context) {
	var req service.UpsertBookingSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid setting payload"))
		return
	}
	setting, err := h.service.UpsertBookingSetting(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, setting, nil)
}

// GetOverride godoc
// @Summary Get a day override
// @Tags Settings
// @Produce json
// @Param id path string true "Campus id"
// @Param date path string true "Date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/overrides/{date} [get]
func (h *SettingsHandler) GetOverride(c *gin.Context) {
	override, err := h.service.GetDayOverride(c.Request.Context(), c.Param("id"), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, override, nil)
}

// ListOverrides godoc
// @Summary List day overrides in a range
// @Tags Settings
// @Produce json
// @Param id path string true "Campus id"
// @Param from query string true "Start date YYYY-MM-DD"
// @Param to query string true "End date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/overrides [get]
func (h *SettingsHandler) ListOverrides(c *gin.Context) {
	overrides, err := h.service.ListDayOverrides(c.Request.Context(), c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overrides, nil)
}

// UpsertOverride godoc
// @Summary Create or update a day override
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path string true "Campus id"
// @Param date path string true "Date YYYY-MM-DD"
// @Param payload body service.UpsertDayOverrideRequest true "Override payload"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/overrides/{date} [put]
func (h *SettingsHandler) UpsertOverride(c *gin.Context) {
	var req service.UpsertDayOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid override payload"))
		return
	}
	if req.Date == "" {
		req.Date = c.Param("date")
	}
	if req.Date != c.Param("date") {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date mismatch between path and body"))
		return
	}
	override, err := h.service.UpsertDayOverride(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, override, nil)
}

// DeleteOverride godoc
// @Summary Delete a day override
// @Tags Settings
// @Param id path string true "Campus id"
// @Param date path string true "Date YYYY-MM-DD"
// @Success 204
// @Router /campuses/{id}/overrides/{date} [delete]
func (h *SettingsHandler) DeleteOverride(c *gin.Context) {
	if err := h.service.DeleteDayOverride(c.Request.Context(), c.Param("id"), c.Param("date")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetScheduleConfig godoc
// @Summary Get campus business-day rules
// @Tags Settings
// @Produce json
// @Param id path string true "Campus id"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/schedule-config [get]
func (h *SettingsHandler) GetScheduleConfig(c *gin.Context) {
	cfg, err := h.service.GetScheduleConfig(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// UpsertScheduleConfig godoc
// @Summary Set campus business-day rules
// @Tags Settings
// @Accept json
// @Produce json
// @Param id path string true "Campus id"
// @Param payload body service.UpsertScheduleConfigRequest true "Config payload"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/schedule-config [put]
func (h *SettingsHandler) UpsertScheduleConfig(c *gin.Context) {
	var req service.UpsertScheduleConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid config payload"))
		return
	}
	cfg, err := h.service.UpsertScheduleConfig(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}
