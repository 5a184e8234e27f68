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

// SponsorHandler exposes sponsor endpoints.
type SponsorHandler struct {
	service   *service.SponsorService
	seasons   *service.SeasonService
	dashboard *service.DashboardService
}

// NewSponsorHandler constructs a sponsor handler.
func NewSponsorHandler(svc *service.SponsorService, seasons *service.SeasonService, dashboard *service.DashboardService) *SponsorHandler {
	return &SponsorHandler{service: svc, seasons: seasons, dashboard: dashboard}
}

// List godoc
// @Summary List sponsors
// @Tags Sponsors
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Param tier query string false "Filter by tier"
// @Param active query bool false "Filter by active flag"
// @Param search query string false "Search by name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /sponsors [get]
func (h *SponsorHandler) List(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := models.SponsorFilter{SeasonID: season.SeasonID, Search: c.Query("search")}
	if tier := c.Query("tier"); tier != "" {
		t := models.SponsorTier(tier)
		filter.Tier = &t
	}
	if active := c.Query("active"); active != "" {
		if val, err := strconv.ParseBool(active); err == nil {
			filter.Active = &val
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

	sponsors, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sponsors, pagination)
}

// Get godoc
// @Summary Get sponsor by ID
// @Tags Sponsors
// @Produce json
// @Param id path string true "Sponsor ID"
// @Success 200 {object} response.Envelope
// @Router /sponsors/{id} [get]
func (h *SponsorHandler) Get(c *gin.Context) {
	sponsor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sponsor, nil)
}

// Create godoc
// @Summary Create sponsor
// @Tags Sponsors
// @Accept json
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Param payload body service.SaveSponsorRequest true "Sponsor payload"
// @Success 201 {object} response.Envelope
// @Router /sponsors [post]
func (h *SponsorHandler) Create(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.SaveSponsorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sponsor, err := h.service.Create(c.Request.Context(), season, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context(), sponsor.SeasonID)
	}
	response.Created(c, sponsor)
}

// Update godoc
// @Summary Update sponsor
// @Tags Sponsors
// @Accept json
// @Produce json
// @Param id path string true "Sponsor ID"
// @Param payload body service.SaveSponsorRequest true "Sponsor payload"
// @Success 200 {object} response.Envelope
// @Router /sponsors/{id} [put]
func (h *SponsorHandler) Update(c *gin.Context) {
	var req service.SaveSponsorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sponsor, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context(), sponsor.SeasonID)
	}
	response.JSON(c, http.StatusOK, sponsor, nil)
}

// Deactivate godoc
// @Summary Deactivate sponsor
// @Tags Sponsors
// @Produce json
// @Param id path string true "Sponsor ID"
// @Success 204
// @Router /sponsors/{id} [delete]
func (h *SponsorHandler) Deactivate(c *gin.Context) {
	sponsor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), sponsor.ID); err != nil {
		response.Error(c, err)
		return
	}
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context(), sponsor.SeasonID)
	}
	response.NoContent(c)
}

// Totals godoc
// @Summary Season sponsorship totals
// @Tags Sponsors
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Success 200 {object} response.Envelope
// @Router /sponsors/totals [get]
func (h *SponsorHandler) Totals(c *gin.Context) {
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}
	totals, err := h.service.Totals(c.Request.Context(), season)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, totals, nil)
}
