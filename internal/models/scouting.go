package models

import "time"

// Event is a locally stored competition event. Rows are maintained by hand;
// synchronisation with external competition APIs happens outside this
// service.
type Event struct {
	ID        string    `db:"id" json:"id"`
	SeasonID  string    `db:"season_id" json:"season_id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Location  *string   `db:"location" json:"location,omitempty"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MatchScoutingEntry is one field form submitted for a team in a match.
type MatchScoutingEntry struct {
	ID            string    `db:"id" json:"id"`
	EventID       string    `db:"event_id" json:"event_id"`
	MatchNumber   int       `db:"match_number" json:"match_number"`
	TeamNumber    int       `db:"team_number" json:"team_number"`
	ScoutedBy     string    `db:"scouted_by" json:"scouted_by"`
	AutoPoints    int       `db:"auto_points" json:"auto_points"`
	TeleopPoints  int       `db:"teleop_points" json:"teleop_points"`
	EndgamePoints int       `db:"endgame_points" json:"endgame_points"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// PitScoutingEntry is one pit form submitted for a team at an event.
type PitScoutingEntry struct {
	ID           string    `db:"id" json:"id"`
	EventID      string    `db:"event_id" json:"event_id"`
	TeamNumber   int       `db:"team_number" json:"team_number"`
	ScoutedBy    string    `db:"scouted_by" json:"scouted_by"`
	Drivetrain   *string   `db:"drivetrain" json:"drivetrain,omitempty"`
	WeightKg     *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	Capabilities *string   `db:"capabilities" json:"capabilities,omitempty"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ScoutingFilter scopes match/pit scouting queries.
type ScoutingFilter struct {
	EventID    string
	TeamNumber int
	ScoutedBy  string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// ScoutingCoverage counts form submissions per event.
type ScoutingCoverage struct {
	MatchForms int `db:"match_forms" json:"match_forms"`
	PitForms   int `db:"pit_forms" json:"pit_forms"`
}
