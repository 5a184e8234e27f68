package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/frcteamops/pitcrew-api/internal/models"
	"github.com/frcteamops/pitcrew-api/internal/service"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
	"github.com/frcteamops/pitcrew-api/pkg/response"
)

// RequirePermission blocks the request unless the authenticated member holds
// at least one of the given permission codes. Grants are re-resolved from the
// store on every call, so revocations apply without waiting for token expiry.
func RequirePermission(access *service.AccessService, codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := mustClaims(c)
		if claims == nil {
			return
		}

		ok, err := access.HasAccess(c.Request.Context(), claims.UserID, codes...)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermissionOrSelf behaves like RequirePermission but also admits the
// member when the :id path parameter matches their own user ID.
func RequirePermissionOrSelf(access *service.AccessService, codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := mustClaims(c)
		if claims == nil {
			return
		}

		if targetID := c.Param("id"); targetID != "" && targetID == claims.UserID {
			c.Next()
			return
		}

		ok, err := access.HasAccess(c.Request.Context(), claims.UserID, codes...)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func mustClaims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		response.Error(c, appErrors.ErrUnauthorized)
		c.Abort()
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		c.Abort()
		return nil
	}
	return claims
}
