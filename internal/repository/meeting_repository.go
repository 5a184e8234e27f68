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

// MeetingRepository handles persistence for meetings.
type MeetingRepository struct {
	db *sqlx.DB
}

// NewMeetingRepository constructs the repository.
func NewMeetingRepository(db *sqlx.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

const meetingColumns = `id, season_id, type, title, description, start_time, end_time, ended, void, created_at, updated_at`

// FindByID returns a meeting by identifier.
func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*models.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s FROM meetings WHERE id = $1 LIMIT 1`, meetingColumns)
	var meeting models.Meeting
	if err := r.db.GetContext(ctx, &meeting, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find meeting by id: %w", err)
	}
	return &meeting, nil
}

// ListBySeason returns every non-void meeting of a season, for hour
// aggregation.
func (r *MeetingRepository) ListBySeason(ctx context.Context, seasonID string) ([]models.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s FROM meetings WHERE season_id = $1 AND void = $2 ORDER BY start_time`, meetingColumns)
	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, query, seasonID, models.VoidNo); err != nil {
		return nil, fmt.Errorf("list season meetings: %w", err)
	}
	return meetings, nil
}

// List returns meetings matching the filter with a total count.
func (r *MeetingRepository) List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, int, error) {
	baseQuery := `FROM meetings WHERE void = 'n'`
	var conditions []string
	var args []interface{}

	if filter.SeasonID != "" {
		conditions = append(conditions, fmt.Sprintf("season_id = $%d", len(args)+1))
		args = append(args, filter.SeasonID)
	}
	if filter.Type != nil && filter.Type.Valid() {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, *filter.Type)
	}
	if filter.Ended != nil {
		conditions = append(conditions, fmt.Sprintf("ended = $%d", len(args)+1))
		args = append(args, *filter.Ended)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("start_time >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("start_time <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"start_time": true, "type": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "start_time"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", meetingColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var meetings []models.Meeting
	if err := r.db.SelectContext(ctx, &meetings, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list meetings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count meetings: %w", err)
	}

	return meetings, total, nil
}

// Create inserts a new meeting.
func (r *MeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	if meeting.ID == "" {
		meeting.ID = uuid.NewString()
	}
	if meeting.Void == "" {
		meeting.Void = models.VoidNo
	}
	now := time.Now().UTC()
	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = now
	}
	meeting.UpdatedAt = now

	const query = `INSERT INTO meetings (id, season_id, type, title, description, start_time, end_time, ended, void, created_at, updated_at) VALUES (:id, :season_id, :type, :title, :description, :start_time, :end_time, :ended, :void, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, meeting); err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}
	return nil
}

// Update updates mutable fields of a meeting.
func (r *MeetingRepository) Update(ctx context.Context, meeting *models.Meeting) error {
	meeting.UpdatedAt = time.Now().UTC()
	const query = `UPDATE meetings SET type = :type, title = :title, description = :description, start_time = :start_time, end_time = :end_time, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, meeting); err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}
	return nil
}

// Void soft-deletes a meeting.
func (r *MeetingRepository) Void(ctx context.Context, id string) error {
	const query = `UPDATE meetings SET void = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.VoidYes, time.Now().UTC()); err != nil {
		return fmt.Errorf("void meeting: %w", err)
	}
	return nil
}
