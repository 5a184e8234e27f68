package models

import "time"

// Season models a competition year scoping meetings, attendance and reports.
type Season struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Year      int       `db:"year" json:"year"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Current   bool      `db:"current" json:"current"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SeasonContext scopes an accounting operation to one season. It is resolved
// once per request by the caller instead of being looked up inside the
// computation, so the accounting functions stay independently testable.
type SeasonContext struct {
	SeasonID string
}

// SeasonFilter defines filters supported by season list endpoints.
type SeasonFilter struct {
	Year      int
	Current   *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
