package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/frcteamops/pitcrew-api/internal/middleware"
	"github.com/frcteamops/pitcrew-api/internal/models"
)

type seasonResolver interface {
	Resolve(ctx context.Context, seasonID string) (models.SeasonContext, error)
}

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// resolveSeason maps the optional seasonId query parameter to a season
// context, falling back to the current season when absent.
func resolveSeason(c *gin.Context, seasons seasonResolver) (models.SeasonContext, error) {
	return seasons.Resolve(c.Request.Context(), c.Query("seasonId"))
}
