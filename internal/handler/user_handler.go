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

// UserHandler exposes member, group and permission endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler constructs a user handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List members
// @Tags Members
// @Produce json
// @Param active query bool false "Filter by active flag"
// @Param groupId query string false "Filter by group membership"
// @Param search query string false "Search name or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter models.UserFilter
	if active := c.Query("active"); active != "" {
		if val, err := strconv.ParseBool(active); err == nil {
			filter.Active = &val
		}
	}
	filter.GroupID = c.Query("groupId")
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	users, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// Get godoc
// @Summary Get member by ID
// @Tags Members
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Create godoc
// @Summary Create member
// @Tags Members
// @Accept json
// @Produce json
// @Param payload body service.CreateUserRequest true "Member payload"
// @Success 201 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	user, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Update godoc
// @Summary Update member
// @Tags Members
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body service.UpdateUserRequest true "Member payload"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	user, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Deactivate godoc
// @Summary Deactivate member
// @Tags Members
// @Produce json
// @Param id path string true "User ID"
// @Success 204
// @Router /users/{id} [delete]
func (h *UserHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// EffectivePermissions godoc
// @Summary Effective permission codes for a member
// @Description Union of group grants and direct grants
// @Tags Members
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/permissions [get]
func (h *UserHandler) EffectivePermissions(c *gin.Context) {
	codes, err := h.service.EffectivePermissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, codes, nil)
}

// GrantUserPermission godoc
// @Summary Grant permission directly to a member
// @Tags Members
// @Produce json
// @Param id path string true "User ID"
// @Param permissionId path string true "Permission ID"
// @Success 204
// @Router /users/{id}/permissions/{permissionId} [post]
func (h *UserHandler) GrantUserPermission(c *gin.Context) {
	if err := h.service.GrantUserPermission(c.Request.Context(), c.Param("id"), c.Param("permissionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RevokeUserPermission godoc
// @Summary Revoke a direct permission grant
// @Tags Members
// @Produce json
// @Param id path string true "User ID"
// @Param permissionId path string true "Permission ID"
// @Success 204
// @Router /users/{id}/permissions/{permissionId} [delete]
func (h *UserHandler) RevokeUserPermission(c *gin.Context) {
	if err := h.service.RevokeUserPermission(c.Request.Context(), c.Param("id"), c.Param("permissionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListGroups godoc
// @Summary List groups
// @Tags Groups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /groups [get]
func (h *UserHandler) ListGroups(c *gin.Context) {
	groups, err := h.service.Groups(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// CreateGroup godoc
// @Summary Create group
// @Tags Groups
// @Accept json
// @Produce json
// @Param payload body service.CreateGroupRequest true "Group payload"
// @Success 201 {object} response.Envelope
// @Router /groups [post]
func (h *UserHandler) CreateGroup(c *gin.Context) {
	var req service.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.CreateGroup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// AddGroupMember godoc
// @Summary Add member to group
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Param userId path string true "User ID"
// @Success 204
// @Router /groups/{id}/members/{userId} [post]
func (h *UserHandler) AddGroupMember(c *gin.Context) {
	if err := h.service.AddGroupMember(c.Request.Context(), c.Param("id"), c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RemoveGroupMember godoc
// @Summary Remove member from group
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Param userId path string true "User ID"
// @Success 204
// @Router /groups/{id}/members/{userId} [delete]
func (h *UserHandler) RemoveGroupMember(c *gin.Context) {
	if err := h.service.RemoveGroupMember(c.Request.Context(), c.Param("id"), c.Param("userId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListPermissions godoc
// @Summary List permission catalogue
// @Tags Groups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /permissions [get]
func (h *UserHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.service.Permissions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, permissions, nil)
}

// GroupPermissions godoc
// @Summary List a group's permissions
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /groups/{id}/permissions [get]
func (h *UserHandler) GroupPermissions(c *gin.Context) {
	permissions, err := h.service.GroupPermissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, permissions, nil)
}

// GrantGroupPermission godoc
// @Summary Grant permission to a group
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Param permissionId path string true "Permission ID"
// @Success 204
// @Router /groups/{id}/permissions/{permissionId} [post]
func (h *UserHandler) GrantGroupPermission(c *gin.Context) {
	if err := h.service.GrantGroupPermission(c.Request.Context(), c.Param("id"), c.Param("permissionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RevokeGroupPermission godoc
// @Summary Revoke a group's permission
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Param permissionId path string true "Permission ID"
// @Success 204
// @Router /groups/{id}/permissions/{permissionId} [delete]
func (h *UserHandler) RevokeGroupPermission(c *gin.Context) {
	if err := h.service.RevokeGroupPermission(c.Request.Context(), c.Param("id"), c.Param("permissionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
