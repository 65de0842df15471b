package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-health/clinic-booking-api/internal/service"
	appErrors "github.com/campus-health/clinic-booking-api/pkg/errors"
	"github.com/campus-health/clinic-booking-api/pkg/response"
)

type rescheduleService interface {
	AutoReschedule(ctx context.Context, req service.AutoRescheduleRequest) (*service.RescheduleResult, error)
	ManualReschedule(ctx context.Context, req service.ManualRescheduleRequest) (*service.RescheduleResult, error)
	SaveTriage(ctx context.Context, req service.TriageRequest) (*service.TriageResult, error)
}

type reminderService interface {
	SendBulkReminders(ctx context.Context, req service.BulkReminderRequest) (*service.BulkReminderResult, error)
}

// RescheduleHandler exposes the reschedule and triage endpoints.
type RescheduleHandler struct {
	reschedules rescheduleService
	reminders   reminderService
}

// NewRescheduleHandler builds a new handler.
func NewRescheduleHandler(reschedules rescheduleService, reminders reminderService) *RescheduleHandler {
	return &RescheduleHandler{reschedules: reschedules, reminders: reminders}
}

// Auto godoc
// @Summary Auto-spread a day's appointments onto future days
// @Tags Reschedule
// @Accept json
// @Produce json
// @Param id path string true "Campus id"
// @Param payload body service.AutoRescheduleRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/reschedule/auto [post]
func (h *RescheduleHandler) Auto(c *gin.Context) {
	var req service.AutoRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reschedule payload"))
		return
	}
	req.CampusID = c.Param("id")
	result, err := h.reschedules.AutoReschedule(c.Request.Context(), req)
	if err != nil {
		// Partial effects stay applied; surface them alongside the error so
		// the operator knows what moved.
		if result != nil && len(result.Moves) > 0 {
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{Data: result, Error: appErr})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Manual godoc
// @Summary Apply caller-chosen reschedule targets
// @Tags Reschedule
// @Accept json
// @Produce json
// @Param id path string true "Campus id"
// @Param payload body service.ManualRescheduleRequest true "Assignments payload"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/reschedule/manual [post]
func (h *RescheduleHandler) Manual(c *gin.Context) {
	var req service.ManualRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reschedule payload"))
		return
	}
	req.CampusID = c.Param("id")
	result, err := h.reschedules.ManualReschedule(c.Request.Context(), req)
	if err != nil {
		if result != nil && len(result.Moves) > 0 {
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{Data: result, Error: appErr})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Triage godoc
// @Summary Save the completion checklist for a day
// @Tags Reschedule
// @Accept json
// @Produce json
// @Param id path string true "Campus id"
// @Param payload body service.TriageRequest true "Checklist payload"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/reschedule/triage [post]
func (h *RescheduleHandler) Triage(c *gin.Context) {
	var req service.TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid triage payload"))
		return
	}
	req.CampusID = c.Param("id")
	result, err := h.reschedules.SaveTriage(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Reminders godoc
// @Summary Send bulk reminders for a day
// @Tags Reschedule
// @Accept json
// @Produce json
// @Param id path string true "Campus id"
// @Param payload body service.BulkReminderRequest true "Reminder payload"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id}/reminders [post]
func (h *RescheduleHandler) Reminders(c *gin.Context) {
	var req service.BulkReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reminder payload"))
		return
	}
	req.CampusID = c.Param("id")
	result, err := h.reminders.SendBulkReminders(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
