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

// SeasonRepository handles persistence for seasons.
type SeasonRepository struct {
	db *sqlx.DB
}

// NewSeasonRepository constructs the repository.
func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

const seasonColumns = `id, name, year, start_date, end_date, current, created_at, updated_at`

// FindCurrent returns the season flagged as current.
func (r *SeasonRepository) FindCurrent(ctx context.Context) (*models.Season, error) {
	query := fmt.Sprintf(`SELECT %s FROM seasons WHERE current = TRUE LIMIT 1`, seasonColumns)
	var season models.Season
	if err := r.db.GetContext(ctx, &season, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find current season: %w", err)
	}
	return &season, nil
}

// FindByID returns a season by identifier.
func (r *SeasonRepository) FindByID(ctx context.Context, id string) (*models.Season, error) {
	query := fmt.Sprintf(`SELECT %s FROM seasons WHERE id = $1 LIMIT 1`, seasonColumns)
	var season models.Season
	if err := r.db.GetContext(ctx, &season, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find season by id: %w", err)
	}
	return &season, nil
}

// List returns seasons matching the filter with a total count.
func (r *SeasonRepository) List(ctx context.Context, filter models.SeasonFilter) ([]models.Season, int, error) {
	baseQuery := `FROM seasons WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.Current != nil {
		conditions = append(conditions, fmt.Sprintf("current = $%d", len(args)+1))
		args = append(args, *filter.Current)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"year": true, "start_date": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "start_date"
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
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", seasonColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var seasons []models.Season
	if err := r.db.SelectContext(ctx, &seasons, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list seasons: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count seasons: %w", err)
	}

	return seasons, total, nil
}

// Create inserts a new season.
func (r *SeasonRepository) Create(ctx context.Context, season *models.Season) error {
	if season.ID == "" {
		season.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if season.CreatedAt.IsZero() {
		season.CreatedAt = now
	}
	season.UpdatedAt = now

	const query = `INSERT INTO seasons (id, name, year, start_date, end_date, current, created_at, updated_at) VALUES (:id, :name, :year, :start_date, :end_date, :current, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, season); err != nil {
		return fmt.Errorf("create season: %w", err)
	}
	return nil
}

// Update updates mutable fields of a season.
func (r *SeasonRepository) Update(ctx context.Context, season *models.Season) error {
	season.UpdatedAt = time.Now().UTC()
	const query = `UPDATE seasons SET name = :name, year = :year, start_date = :start_date, end_date = :end_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, season); err != nil {
		return fmt.Errorf("update season: %w", err)
	}
	return nil
}

// SetCurrent flips the current flag to the given season in one transaction,
// so exactly one season is current at any time.
func (r *SeasonRepository) SetCurrent(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set current season: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `UPDATE seasons SET current = FALSE, updated_at = $1 WHERE current = TRUE`, now); err != nil {
		return fmt.Errorf("clear current season: %w", err)
	}
	result, err := tx.ExecContext(ctx, `UPDATE seasons SET current = TRUE, updated_at = $2 WHERE id = $1`, id, now)
	if err != nil {
		return fmt.Errorf("set current season: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set current season: %w", err)
	}
	commit = true
	return nil
}
