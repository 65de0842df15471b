package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/campus-health/clinic-booking-api/pkg/response"
)

type reportService interface {
	DailyReport(ctx context.Context, campusID, rawDate, format string) ([]byte, string, string, error)
}

// ReportHandler serves downloadable day reports.
type ReportHandler struct {
	service reportService
}

// NewReportHandler builds a new handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Daily godoc
// @Summary Download the appointment list for a day
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Campus id"
// @Param date query string true "Date YYYY-MM-DD"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /campuses/{id}/reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, filename, err := h.service.DailyReport(c.Request.Context(), c.Param("id"), c.Query("date"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, contentType, payload)
}
