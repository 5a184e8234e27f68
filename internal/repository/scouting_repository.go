package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/frcteamops/pitcrew-api/internal/models"
)

// ScoutingRepository handles persistence for events and scouting forms.
type ScoutingRepository struct {
	db *sqlx.DB
}

// NewScoutingRepository constructs the repository.
func NewScoutingRepository(db *sqlx.DB) *ScoutingRepository {
	return &ScoutingRepository{db: db}
}

// FindEventByID returns an event by identifier.
func (r *ScoutingRepository) FindEventByID(ctx context.Context, id string) (*models.Event, error) {
	const query = `SELECT id, season_id, code, name, location, start_date, end_date, created_at, updated_at FROM events WHERE id = $1 LIMIT 1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return &event, nil
}

// ListEvents returns the events of a season.
func (r *ScoutingRepository) ListEvents(ctx context.Context, seasonID string) ([]models.Event, error) {
	const query = `SELECT id, season_id, code, name, location, start_date, end_date, created_at, updated_at FROM events WHERE season_id = $1 ORDER BY start_date`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, seasonID); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// CreateEvent inserts a new event.
func (r *ScoutingRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	const query = `INSERT INTO events (id, season_id, code, name, location, start_date, end_date, created_at, updated_at) VALUES (:id, :season_id, :code, :name, :location, :start_date, :end_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// ListMatchEntries returns match scouting entries matching the filter.
func (r *ScoutingRepository) ListMatchEntries(ctx context.Context, filter models.ScoutingFilter) ([]models.MatchScoutingEntry, int, error) {
	baseQuery := `FROM match_scouting WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.EventID != "" {
		conditions = append(conditions, fmt.Sprintf("event_id = $%d", len(args)+1))
		args = append(args, filter.EventID)
	}
	if filter.TeamNumber > 0 {
		conditions = append(conditions, fmt.Sprintf("team_number = $%d", len(args)+1))
		args = append(args, filter.TeamNumber)
	}
	if filter.ScoutedBy != "" {
		conditions = append(conditions, fmt.Sprintf("scouted_by = $%d", len(args)+1))
		args = append(args, filter.ScoutedBy)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"match_number": true, "team_number": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "match_number"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT id, event_id, match_number, team_number, scouted_by, auto_points, teleop_points, endgame_points, notes, created_at %s ORDER BY %s %s LIMIT %d OFFSET %d", baseQuery, sortBy, sortOrder, pageSize, offset)

	var entries []models.MatchScoutingEntry
	if err := r.db.SelectContext(ctx, &entries, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list match scouting: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count match scouting: %w", err)
	}

	return entries, total, nil
}

// CreateMatchEntry inserts a new match scouting form.
func (r *ScoutingRepository) CreateMatchEntry(ctx context.Context, entry *models.MatchScoutingEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO match_scouting (id, event_id, match_number, team_number, scouted_by, auto_points, teleop_points, endgame_points, notes, created_at) VALUES (:id, :event_id, :match_number, :team_number, :scouted_by, :auto_points, :teleop_points, :endgame_points, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create match scouting: %w", err)
	}
	return nil
}

// ListPitEntries returns pit scouting entries for an event.
func (r *ScoutingRepository) ListPitEntries(ctx context.Context, eventID string) ([]models.PitScoutingEntry, error) {
	const query = `SELECT id, event_id, team_number, scouted_by, drivetrain, weight_kg, capabilities, notes, created_at, updated_at FROM pit_scouting WHERE event_id = $1 ORDER BY team_number`
	var entries []models.PitScoutingEntry
	if err := r.db.SelectContext(ctx, &entries, query, eventID); err != nil {
		return nil, fmt.Errorf("list pit scouting: %w", err)
	}
	return entries, nil
}

// UpsertPitEntry inserts or refreshes the pit form for a team at an event.
func (r *ScoutingRepository) UpsertPitEntry(ctx context.Context, entry *models.PitScoutingEntry) (*models.PitScoutingEntry, error) {
	now := time.Now().UTC()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	const query = `INSERT INTO pit_scouting (id, event_id, team_number, scouted_by, drivetrain, weight_kg, capabilities, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (event_id, team_number)
DO UPDATE SET scouted_by = EXCLUDED.scouted_by, drivetrain = EXCLUDED.drivetrain, weight_kg = EXCLUDED.weight_kg, capabilities = EXCLUDED.capabilities, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
RETURNING id, event_id, team_number, scouted_by, drivetrain, weight_kg, capabilities, notes, created_at, updated_at`
	var stored models.PitScoutingEntry
	if err := r.db.GetContext(ctx, &stored, query, entry.ID, entry.EventID, entry.TeamNumber, entry.ScoutedBy, entry.Drivetrain, entry.WeightKg, entry.Capabilities, entry.Notes, entry.CreatedAt, entry.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert pit scouting: %w", err)
	}
	return &stored, nil
}

// Coverage counts scouting form submissions across a season's events.
func (r *ScoutingRepository) Coverage(ctx context.Context, seasonID string) (*models.ScoutingCoverage, error) {
	const query = `SELECT
(SELECT COUNT(*) FROM match_scouting ms JOIN events e ON e.id = ms.event_id WHERE e.season_id = $1) AS match_forms,
(SELECT COUNT(*) FROM pit_scouting ps JOIN events e ON e.id = ps.event_id WHERE e.season_id = $1) AS pit_forms`
	var coverage models.ScoutingCoverage
	if err := r.db.GetContext(ctx, &coverage, query, seasonID); err != nil {
		return nil, fmt.Errorf("scouting coverage: %w", err)
	}
	return &coverage, nil
}
