package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frcteamops/pitcrew-api/internal/middleware"
	"github.com/frcteamops/pitcrew-api/internal/models"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
	"github.com/frcteamops/pitcrew-api/pkg/response"
)

type dashboardService interface {
	Snapshot(ctx context.Context, season models.SeasonContext) (*models.DashboardSnapshot, bool, error)
}

// DashboardHandler wires the dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
	seasons seasonResolver
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc dashboardService, seasons seasonResolver) *DashboardHandler {
	return &DashboardHandler{service: svc, seasons: seasons}
}

// Snapshot godoc
// @Summary Season overview dashboard
// @Tags Dashboard
// @Produce json
// @Param seasonId query string false "Season ID, defaults to current"
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Snapshot(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	season, err := resolveSeason(c, h.seasons)
	if err != nil {
		response.Error(c, err)
		return
	}

	start := time.Now()
	snapshot, cacheHit, err := h.service.Snapshot(c.Request.Context(), season)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, snapshot, nil, meta)
}
