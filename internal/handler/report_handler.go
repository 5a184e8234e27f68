package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frcteamops/pitcrew-api/internal/models"
	"github.com/frcteamops/pitcrew-api/internal/service"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
	"github.com/frcteamops/pitcrew-api/pkg/response"
)

type hoursProvider interface {
	MeetingHours(ctx context.Context, season models.SeasonContext) (*models.MeetingHours, error)
	AttendanceReport(ctx context.Context, season models.SeasonContext, opts service.ReportOptions) ([]models.MemberHoursReport, error)
}

type reportExporter interface {
	AttendanceReport(ctx context.Context, season models.SeasonContext, opts service.ReportOptions, format service.ReportFormat) (*service.ExportResult, error)
}

// ReportHandler exposes hours reporting endpoints.
type ReportHandler struct {
	hours   hoursProvider
	export  reportExporter
	seasons seasonResolver
}

// NewReportHandler constructs a report handler.
func NewReportHandler(hours hoursProvider, export reportExporter, seasons seasonResolver) *ReportHandler {
	return &ReportHandler{hours: hours, export: export, seasons: seasons}
}

// MeetingHours godoc
// @Summary Season meeting hours
// @Description Totals of scheduled hours per bucket for a season
// @Tags Reports
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reports/meeting-hours [get]
func (h *ReportHandler) MeetingHours(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}
	hours, err := h.hours.MeetingHours(c.Request.Context(), season)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hours, nil)
}

// AttendanceReport godoc
// @Summary Per-member attendance report
// @Description Earned versus required hours for each active member
// @Tags Reports
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Param userId query string false "Restrict to a single member"
// @Param meetingId query string false "Restrict to a single meeting"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reports/attendance [get]
func (h *ReportHandler) AttendanceReport(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}
	opts := service.ReportOptions{
		UserID:    c.Query("userId"),
		MeetingID: c.Query("meetingId"),
	}
	report, err := h.hours.AttendanceReport(c.Request.Context(), season, opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export attendance report
// @Description Downloads the attendance report as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param seasonId query string false "Season ID, defaults to current"
// @Param userId query string false "Restrict to a single member"
// @Param format query string true "Export format (csv or pdf)"
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Router /reports/attendance/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.ReportFormat(c.DefaultQuery("format", "csv"))
	opts := service.ReportOptions{UserID: c.Query("userId")}

	result, err := h.export.AttendanceReport(c.Request.Context(), season, opts, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
