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

// SponsorRepository handles persistence for sponsors.
type SponsorRepository struct {
	db *sqlx.DB
}

// NewSponsorRepository constructs the repository.
func NewSponsorRepository(db *sqlx.DB) *SponsorRepository {
	return &SponsorRepository{db: db}
}

const sponsorColumns = `id, season_id, name, contact_name, contact_email, tier, amount_cents, active, created_at, updated_at`

// FindByID returns a sponsor by identifier.
func (r *SponsorRepository) FindByID(ctx context.Context, id string) (*models.Sponsor, error) {
	query := fmt.Sprintf(`SELECT %s FROM sponsors WHERE id = $1 LIMIT 1`, sponsorColumns)
	var sponsor models.Sponsor
	if err := r.db.GetContext(ctx, &sponsor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find sponsor by id: %w", err)
	}
	return &sponsor, nil
}

// List returns sponsors matching the filter with a total count.
func (r *SponsorRepository) List(ctx context.Context, filter models.SponsorFilter) ([]models.Sponsor, int, error) {
	baseQuery := `FROM sponsors WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.SeasonID != "" {
		conditions = append(conditions, fmt.Sprintf("season_id = $%d", len(args)+1))
		args = append(args, filter.SeasonID)
	}
	if filter.Tier != nil && filter.Tier.Valid() {
		conditions = append(conditions, fmt.Sprintf("tier = $%d", len(args)+1))
		args = append(args, *filter.Tier)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"name": true, "tier": true, "amount_cents": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "name"
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
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", sponsorColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var sponsors []models.Sponsor
	if err := r.db.SelectContext(ctx, &sponsors, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list sponsors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sponsors: %w", err)
	}

	return sponsors, total, nil
}

// Create inserts a new sponsor.
func (r *SponsorRepository) Create(ctx context.Context, sponsor *models.Sponsor) error {
	if sponsor.ID == "" {
		sponsor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sponsor.CreatedAt.IsZero() {
		sponsor.CreatedAt = now
	}
	sponsor.UpdatedAt = now

	const query = `INSERT INTO sponsors (id, season_id, name, contact_name, contact_email, tier, amount_cents, active, created_at, updated_at) VALUES (:id, :season_id, :name, :contact_name, :contact_email, :tier, :amount_cents, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sponsor); err != nil {
		return fmt.Errorf("create sponsor: %w", err)
	}
	return nil
}

// Update updates mutable fields of a sponsor.
func (r *SponsorRepository) Update(ctx context.Context, sponsor *models.Sponsor) error {
	sponsor.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sponsors SET name = :name, contact_name = :contact_name, contact_email = :contact_email, tier = :tier, amount_cents = :amount_cents, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, sponsor); err != nil {
		return fmt.Errorf("update sponsor: %w", err)
	}
	return nil
}

// Deactivate performs a soft delete by marking the sponsor inactive.
func (r *SponsorRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE sponsors SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate sponsor: %w", err)
	}
	return nil
}

// Totals summarises active sponsorship income for a season.
func (r *SponsorRepository) Totals(ctx context.Context, seasonID string) (*models.SponsorTotals, error) {
	const query = `SELECT COUNT(*) AS count, COALESCE(SUM(amount_cents), 0) AS amount_cents FROM sponsors WHERE season_id = $1 AND active = TRUE`
	var totals models.SponsorTotals
	if err := r.db.GetContext(ctx, &totals, query, seasonID); err != nil {
		return nil, fmt.Errorf("sponsor totals: %w", err)
	}
	return &totals, nil
}
