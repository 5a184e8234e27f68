package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/frcteamops/pitcrew-api/internal/models"
	"github.com/frcteamops/pitcrew-api/internal/service"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
	"github.com/frcteamops/pitcrew-api/pkg/response"
)

// AttendanceHandler exposes attendance endpoints.
type AttendanceHandler struct {
	service   *service.AttendanceService
	seasons   *service.SeasonService
	dashboard *service.DashboardService
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(svc *service.AttendanceService, seasons *service.SeasonService, dashboard *service.DashboardService) *AttendanceHandler {
	return &AttendanceHandler{service: svc, seasons: seasons, dashboard: dashboard}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Param userId query string false "Filter by member"
// @Param meetingId query string false "Filter by meeting"
// @Param approval query string false "Approval state (unapp, app, rej)"
// @Param absent query bool false "Filter by absent flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := models.AttendanceFilter{
		SeasonID:  season.SeasonID,
		UserID:    c.Query("userId"),
		MeetingID: c.Query("meetingId"),
	}
	if approval := c.Query("approval"); approval != "" {
		state := models.ApprovalState(approval)
		filter.Approval = &state
	}
	if absent := c.Query("absent"); absent != "" {
		if val, err := strconv.ParseBool(absent); err == nil {
			filter.Absent = &val
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	records, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Get godoc
// @Summary Get attendance record by ID
// @Tags Attendance
// @Produce json
// @Param id path string true "Attendance ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Save godoc
// @Summary Save attendance record
// @Description Creates or updates an attendance row. Omit meeting_id to record exempt time.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Param payload body service.SaveAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Save(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.service.Save(c.Request.Context(), season, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context(), record.SeasonID)
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Void godoc
// @Summary Void attendance record
// @Description Soft deletes an attendance row so it no longer counts toward hours
// @Tags Attendance
// @Produce json
// @Param id path string true "Attendance ID"
// @Success 204
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Void(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Void(c.Request.Context(), record.ID); err != nil {
		response.Error(c, err)
		return
	}
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context(), record.SeasonID)
	}
	response.NoContent(c)
}
