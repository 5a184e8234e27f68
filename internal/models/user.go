package models

import "time"

// User represents a team member stored in the users table. Access rights
// come from group membership and direct permission grants, not a role column.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Group bundles permissions and is assigned to users (flat many-to-many, no
// nesting).
type Group struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Permission is a named capability checked by gated operations.
type Permission struct {
	ID          string  `db:"id" json:"id"`
	Code        string  `db:"code" json:"code"`
	Description *string `db:"description" json:"description,omitempty"`
}

// Well-known permission codes.
const (
	PermManageUsers      = "manage_users"
	PermManageSeasons    = "manage_seasons"
	PermManageMeetings   = "manage_meetings"
	PermApproveHours     = "approve_hours"
	PermRecordAttendance = "record_attendance"
	PermViewReports      = "view_reports"
	PermManageSponsors   = "manage_sponsors"
	PermSubmitScouting   = "submit_scouting"
	PermViewDashboard    = "view_dashboard"
)

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Active    *bool
	GroupID   string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
