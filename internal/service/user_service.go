package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/frcteamops/pitcrew-api/internal/models"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type groupManager interface {
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListPermissions(ctx context.Context) ([]models.Permission, error)
	GroupPermissions(ctx context.Context, groupID string) ([]models.Permission, error)
	CreateGroup(ctx context.Context, group *models.Group) error
	AddMember(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	GrantToGroup(ctx context.Context, groupID, permissionID string) error
	RevokeFromGroup(ctx context.Context, groupID, permissionID string) error
	GrantToUser(ctx context.Context, userID, permissionID string) error
	RevokeFromUser(ctx context.Context, userID, permissionID string) error
	EffectiveCodes(ctx context.Context, userID string) ([]string, error)
}

// CreateUserRequest describes member creation payload.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
}

// UpdateUserRequest describes member update payload.
type UpdateUserRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Active   *bool  `json:"active"`
}

// CreateGroupRequest describes group creation payload.
type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// UserService manages members, groups and permission grants.
type UserService struct {
	repo      userRepository
	groups    groupManager
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, groups groupManager, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, groups: groups, validator: validate, logger: logger}
}

// Get returns one member.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// List returns members with pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return users, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create registers a new member with a hashed password.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	return user, nil
}

// Update edits a member.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FullName = req.FullName
	if req.Active != nil {
		user.Active = *req.Active
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}
	return user, nil
}

// Deactivate soft-deletes a member.
func (s *UserService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate user")
	}
	return nil
}

// Groups returns all defined groups.
func (s *UserService) Groups(ctx context.Context) ([]models.Group, error) {
	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	return groups, nil
}

// Permissions returns all defined permissions.
func (s *UserService) Permissions(ctx context.Context) ([]models.Permission, error) {
	permissions, err := s.groups.ListPermissions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list permissions")
	}
	return permissions, nil
}

// GroupPermissions returns the permissions held by one group.
func (s *UserService) GroupPermissions(ctx context.Context, groupID string) ([]models.Permission, error) {
	permissions, err := s.groups.GroupPermissions(ctx, groupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group permissions")
	}
	return permissions, nil
}

// EffectivePermissions returns the codes a member currently holds.
func (s *UserService) EffectivePermissions(ctx context.Context, userID string) ([]string, error) {
	codes, err := s.groups.EffectiveCodes(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve permissions")
	}
	return codes, nil
}

// CreateGroup registers a new group.
func (s *UserService) CreateGroup(ctx context.Context, req CreateGroupRequest) (*models.Group, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group payload")
	}
	group := &models.Group{Name: req.Name, Description: req.Description}
	if err := s.groups.CreateGroup(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create group")
	}
	return group, nil
}

// AddGroupMember links a member to a group.
func (s *UserService) AddGroupMember(ctx context.Context, groupID, userID string) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.groups.AddMember(ctx, groupID, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add group member")
	}
	return nil
}

// RemoveGroupMember unlinks a member from a group.
func (s *UserService) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	if err := s.groups.RemoveMember(ctx, groupID, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove group member")
	}
	return nil
}

// GrantGroupPermission attaches a permission to a group.
func (s *UserService) GrantGroupPermission(ctx context.Context, groupID, permissionID string) error {
	if err := s.groups.GrantToGroup(ctx, groupID, permissionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grant group permission")
	}
	return nil
}

// RevokeGroupPermission detaches a permission from a group.
func (s *UserService) RevokeGroupPermission(ctx context.Context, groupID, permissionID string) error {
	if err := s.groups.RevokeFromGroup(ctx, groupID, permissionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke group permission")
	}
	return nil
}

// GrantUserPermission attaches a direct permission grant to a member.
func (s *UserService) GrantUserPermission(ctx context.Context, userID, permissionID string) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.groups.GrantToUser(ctx, userID, permissionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grant user permission")
	}
	return nil
}

// RevokeUserPermission removes a direct permission grant.
func (s *UserService) RevokeUserPermission(ctx context.Context, userID, permissionID string) error {
	if err := s.groups.RevokeFromUser(ctx, userID, permissionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke user permission")
	}
	return nil
}
