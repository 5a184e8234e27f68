package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frcteamops/pitcrew-api/internal/models"
	"github.com/frcteamops/pitcrew-api/internal/service"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
	"github.com/frcteamops/pitcrew-api/pkg/response"
)

// MeetingHandler exposes meeting endpoints.
type MeetingHandler struct {
	meetings   *service.MeetingService
	attendance *service.AttendanceService
	seasons    *service.SeasonService
	access     *service.AccessService
	dashboard  *service.DashboardService
	metrics    *service.MetricsService
}

// NewMeetingHandler constructs a meeting handler.
func NewMeetingHandler(meetings *service.MeetingService, attendance *service.AttendanceService, seasons *service.SeasonService, access *service.AccessService, dashboard *service.DashboardService, metrics *service.MetricsService) *MeetingHandler {
	return &MeetingHandler{meetings: meetings, attendance: attendance, seasons: seasons, access: access, dashboard: dashboard, metrics: metrics}
}

// List godoc
// @Summary List meetings
// @Tags Meetings
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Param type query string false "Meeting type (reg, bns, evnt)"
// @Param ended query bool false "Filter by concluded flag"
// @Param from query string false "Start date lower bound (RFC3339)"
// @Param to query string false "Start date upper bound (RFC3339)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /meetings [get]
func (h *MeetingHandler) List(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := models.MeetingFilter{SeasonID: season.SeasonID}
	if meetingType := c.Query("type"); meetingType != "" {
		mt := models.MeetingType(meetingType)
		filter.Type = &mt
	}
	if ended := c.Query("ended"); ended != "" {
		if val, err := strconv.ParseBool(ended); err == nil {
			filter.Ended = &val
		}
	}
	if from := c.Query("from"); from != "" {
		if ts, err := time.Parse(time.RFC3339, from); err == nil {
			filter.DateFrom = &ts
		}
	}
	if to := c.Query("to"); to != "" {
		if ts, err := time.Parse(time.RFC3339, to); err == nil {
			filter.DateTo = &ts
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

	meetings, pagination, err := h.meetings.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meetings, pagination)
}

// Get godoc
// @Summary Get meeting by ID
// @Tags Meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} response.Envelope
// @Router /meetings/{id} [get]
func (h *MeetingHandler) Get(c *gin.Context) {
	meeting, err := h.meetings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}

// Create godoc
// @Summary Create meeting
// @Tags Meetings
// @Accept json
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Param payload body service.SaveMeetingRequest true "Meeting payload"
// @Success 201 {object} response.Envelope
// @Router /meetings [post]
func (h *MeetingHandler) Create(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.SaveMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	meeting, err := h.meetings.Create(c.Request.Context(), season, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, meeting.SeasonID)
	response.Created(c, meeting)
}

// Update godoc
// @Summary Update meeting
// @Tags Meetings
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param payload body service.SaveMeetingRequest true "Meeting payload"
// @Success 200 {object} response.Envelope
// @Router /meetings/{id} [put]
func (h *MeetingHandler) Update(c *gin.Context) {
	var req service.SaveMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	meeting, err := h.meetings.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, meeting.SeasonID)
	response.JSON(c, http.StatusOK, meeting, nil)
}

// Void godoc
// @Summary Void meeting
// @Description Soft deletes a meeting so it no longer counts toward hours
// @Tags Meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 204
// @Router /meetings/{id} [delete]
func (h *MeetingHandler) Void(c *gin.Context) {
	meeting, err := h.meetings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.meetings.Void(c.Request.Context(), meeting.ID); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c, meeting.SeasonID)
	response.NoContent(c)
}

// End godoc
// @Summary End meeting
// @Description Concludes a meeting and records absences for members without a record
// @Tags Meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /meetings/{id}/end [post]
func (h *MeetingHandler) End(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	meetingID := c.Param("id")

	result := h.access.ExecuteWithAccess(c.Request.Context(), "end_meeting", claims.UserID,
		[]string{models.PermManageMeetings}, "you are not allowed to end meetings",
		func() (interface{}, error) {
			if err := h.attendance.EndMeeting(c.Request.Context(), meetingID); err != nil {
				return nil, err
			}
			return h.meetings.Get(c.Request.Context(), meetingID)
		})
	h.metrics.RecordGateOutcome("end_meeting", result.Outcome)

	switch result.Outcome {
	case service.GateGranted:
		if meeting, ok := result.Data.(*models.Meeting); ok {
			h.invalidateDashboard(c, meeting.SeasonID)
		}
		response.JSON(c, http.StatusOK, result.Data, nil)
	case service.GateDenied:
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, result.Message))
	default:
		if result.Err != nil {
			response.Error(c, result.Err)
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, result.Message))
	}
}

func (h *MeetingHandler) invalidateDashboard(c *gin.Context, seasonID string) {
	if h.dashboard == nil {
		return
	}
	h.dashboard.Invalidate(c.Request.Context(), seasonID)
}
