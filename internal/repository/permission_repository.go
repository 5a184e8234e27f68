package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/frcteamops/pitcrew-api/internal/models"
)

// PermissionRepository resolves effective permissions and manages groups.
type PermissionRepository struct {
	db *sqlx.DB
}

// NewPermissionRepository constructs the repository.
func NewPermissionRepository(db *sqlx.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// EffectiveCodes returns the union of permission codes a user holds through
// group membership and direct grants. An unknown user yields an empty set,
// never an error.
func (r *PermissionRepository) EffectiveCodes(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT p.code FROM permissions p
JOIN group_permissions gp ON gp.permission_id = p.id
JOIN user_groups ug ON ug.group_id = gp.group_id
WHERE ug.user_id = $1
UNION
SELECT p.code FROM permissions p
JOIN user_permissions up ON up.permission_id = p.id
WHERE up.user_id = $1`
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query, userID); err != nil {
		return nil, fmt.Errorf("effective permission codes: %w", err)
	}
	return codes, nil
}

// ListGroups returns all groups.
func (r *PermissionRepository) ListGroups(ctx context.Context) ([]models.Group, error) {
	const query = `SELECT id, name, description, created_at, updated_at FROM groups ORDER BY name`
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// ListPermissions returns all defined permissions.
func (r *PermissionRepository) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	const query = `SELECT id, code, description FROM permissions ORDER BY code`
	var permissions []models.Permission
	if err := r.db.SelectContext(ctx, &permissions, query); err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return permissions, nil
}

// GroupPermissions returns the permissions held by a group.
func (r *PermissionRepository) GroupPermissions(ctx context.Context, groupID string) ([]models.Permission, error) {
	const query = `SELECT p.id, p.code, p.description FROM permissions p
JOIN group_permissions gp ON gp.permission_id = p.id
WHERE gp.group_id = $1
ORDER BY p.code`
	var permissions []models.Permission
	if err := r.db.SelectContext(ctx, &permissions, query, groupID); err != nil {
		return nil, fmt.Errorf("group permissions: %w", err)
	}
	return permissions, nil
}

// CreateGroup inserts a new group.
func (r *PermissionRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now
	const query = `INSERT INTO groups (id, name, description, created_at, updated_at) VALUES (:id, :name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

// AddMember links a user to a group; duplicate links are ignored.
func (r *PermissionRepository) AddMember(ctx context.Context, groupID, userID string) error {
	const query = `INSERT INTO user_groups (user_id, group_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, groupID); err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	return nil
}

// RemoveMember unlinks a user from a group.
func (r *PermissionRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	const query = `DELETE FROM user_groups WHERE user_id = $1 AND group_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, groupID); err != nil {
		return fmt.Errorf("remove group member: %w", err)
	}
	return nil
}

// GrantToGroup attaches a permission to a group; duplicates are ignored.
func (r *PermissionRepository) GrantToGroup(ctx context.Context, groupID, permissionID string) error {
	const query = `INSERT INTO group_permissions (group_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, groupID, permissionID); err != nil {
		return fmt.Errorf("grant permission to group: %w", err)
	}
	return nil
}

// RevokeFromGroup detaches a permission from a group.
func (r *PermissionRepository) RevokeFromGroup(ctx context.Context, groupID, permissionID string) error {
	const query = `DELETE FROM group_permissions WHERE group_id = $1 AND permission_id = $2`
	if _, err := r.db.ExecContext(ctx, query, groupID, permissionID); err != nil {
		return fmt.Errorf("revoke permission from group: %w", err)
	}
	return nil
}

// GrantToUser attaches a direct permission grant to a user.
func (r *PermissionRepository) GrantToUser(ctx context.Context, userID, permissionID string) error {
	const query = `INSERT INTO user_permissions (user_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, permissionID); err != nil {
		return fmt.Errorf("grant permission to user: %w", err)
	}
	return nil
}

// RevokeFromUser removes a direct permission grant.
func (r *PermissionRepository) RevokeFromUser(ctx context.Context, userID, permissionID string) error {
	const query = `DELETE FROM user_permissions WHERE user_id = $1 AND permission_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, permissionID); err != nil {
		return fmt.Errorf("revoke permission from user: %w", err)
	}
	return nil
}
