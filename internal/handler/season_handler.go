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

// SeasonHandler exposes season endpoints.
type SeasonHandler struct {
	service *service.SeasonService
}

// NewSeasonHandler constructs a season handler.
func NewSeasonHandler(svc *service.SeasonService) *SeasonHandler {
	return &SeasonHandler{service: svc}
}

// List godoc
// @Summary List seasons
// @Tags Seasons
// @Produce json
// @Param year query int false "Filter by year"
// @Param current query bool false "Filter by current flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /seasons [get]
func (h *SeasonHandler) List(c *gin.Context) {
	var filter models.SeasonFilter
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		filter.Year = year
	}
	if current := c.Query("current"); current != "" {
		if val, err := strconv.ParseBool(current); err == nil {
			filter.Current = &val
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

	seasons, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, seasons, pagination)
}

// Current godoc
// @Summary Get the current season
// @Tags Seasons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /seasons/current [get]
func (h *SeasonHandler) Current(c *gin.Context) {
	season, err := h.service.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, season, nil)
}

// Get godoc
// @Summary Get season by ID
// @Tags Seasons
// @Produce json
// @Param id path string true "Season ID"
// @Success 200 {object} response.Envelope
// @Router /seasons/{id} [get]
func (h *SeasonHandler) Get(c *gin.Context) {
	season, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, season, nil)
}

// Create godoc
// @Summary Create season
// @Tags Seasons
// @Accept json
// @Produce json
// @Param payload body service.CreateSeasonRequest true "Season payload"
// @Success 201 {object} response.Envelope
// @Router /seasons [post]
func (h *SeasonHandler) Create(c *gin.Context) {
	var req service.CreateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	season, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, season)
}

// Update godoc
// @Summary Update season
// @Tags Seasons
// @Accept json
// @Produce json
// @Param id path string true "Season ID"
// @Param payload body service.UpdateSeasonRequest true "Season payload"
// @Success 200 {object} response.Envelope
// @Router /seasons/{id} [put]
func (h *SeasonHandler) Update(c *gin.Context) {
	var req service.UpdateSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	season, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, season, nil)
}

// SetCurrent godoc
// @Summary Mark a season as current
// @Tags Seasons
// @Produce json
// @Param id path string true "Season ID"
// @Success 200 {object} response.Envelope
// @Router /seasons/{id}/set-current [post]
func (h *SeasonHandler) SetCurrent(c *gin.Context) {
	season, err := h.service.SetCurrent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, season, nil)
}
