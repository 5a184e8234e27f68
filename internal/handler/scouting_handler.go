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

// ScoutingHandler exposes competition event and scouting form endpoints.
type ScoutingHandler struct {
	service *service.ScoutingService
	seasons *service.SeasonService
}

// NewScoutingHandler constructs a scouting handler.
func NewScoutingHandler(svc *service.ScoutingService, seasons *service.SeasonService) *ScoutingHandler {
	return &ScoutingHandler{service: svc, seasons: seasons}
}

// ListEvents godoc
// @Summary List season events
// @Tags Scouting
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Success 200 {object} response.Envelope
// @Router /scouting/events [get]
func (h *ScoutingHandler) ListEvents(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}
	events, err := h.service.Events(c.Request.Context(), season)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// CreateEvent godoc
// @Summary Create competition event
// @Tags Scouting
// @Accept json
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Param payload body service.CreateEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Router /scouting/events [post]
func (h *ScoutingHandler) CreateEvent(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.service.CreateEvent(c.Request.Context(), season, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// ListMatchForms godoc
// @Summary List field scouting forms
// @Tags Scouting
// @Produce json
// @Param eventId query string false "Filter by event"
// @Param teamNumber query int false "Filter by team number"
// @Param scoutedBy query string false "Filter by submitting member"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /scouting/match-forms [get]
func (h *ScoutingHandler) ListMatchForms(c *gin.Context) {
	filter := models.ScoutingFilter{
		EventID:   c.Query("eventId"),
		ScoutedBy: c.Query("scoutedBy"),
	}
	if team, err := strconv.Atoi(c.Query("teamNumber")); err == nil {
		filter.TeamNumber = team
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	entries, pagination, err := h.service.MatchForms(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// SubmitMatchForm godoc
// @Summary Submit field scouting form
// @Tags Scouting
// @Accept json
// @Produce json
// @Param payload body service.SubmitMatchFormRequest true "Match form payload"
// @Success 201 {object} response.Envelope
// @Router /scouting/match-forms [post]
func (h *ScoutingHandler) SubmitMatchForm(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SubmitMatchFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.SubmitMatchForm(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// ListPitForms godoc
// @Summary List pit scouting forms for an event
// @Tags Scouting
// @Produce json
// @Param eventId query string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /scouting/pit-forms [get]
func (h *ScoutingHandler) ListPitForms(c *gin.Context) {
	eventID := c.Query("eventId")
	if eventID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "eventId is required"))
		return
	}
	entries, err := h.service.PitForms(c.Request.Context(), eventID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// SubmitPitForm godoc
// @Summary Submit pit scouting form
// @Description Upserts the single pit form kept per team per event
// @Tags Scouting
// @Accept json
// @Produce json
// @Param payload body service.SubmitPitFormRequest true "Pit form payload"
// @Success 200 {object} response.Envelope
// @Router /scouting/pit-forms [post]
func (h *ScoutingHandler) SubmitPitForm(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SubmitPitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.SubmitPitForm(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Coverage godoc
// @Summary Scouting coverage for a season
// @Tags Scouting
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Success 200 {object} response.Envelope
// @Router /scouting/coverage [get]
func (h *ScoutingHandler) Coverage(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}
	coverage, err := h.service.Coverage(c.Request.Context(), season)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coverage, nil)
}
