package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/frcteamops/pitcrew-api/internal/models"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
)

type seasonRepository interface {
	FindCurrent(ctx context.Context) (*models.Season, error)
	FindByID(ctx context.Context, id string) (*models.Season, error)
	List(ctx context.Context, filter models.SeasonFilter) ([]models.Season, int, error)
	Create(ctx context.Context, season *models.Season) error
	Update(ctx context.Context, season *models.Season) error
	SetCurrent(ctx context.Context, id string) error
}

// CreateSeasonRequest describes season creation payload.
type CreateSeasonRequest struct {
	Name      string    `json:"name" validate:"required"`
	Year      int       `json:"year" validate:"required,gte=1992"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// UpdateSeasonRequest describes season update payload.
type UpdateSeasonRequest struct {
	Name      string    `json:"name" validate:"required"`
	Year      int       `json:"year" validate:"required,gte=1992"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// SeasonService manages seasons and resolves the season scope of a request.
type SeasonService struct {
	repo      seasonRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSeasonService constructs a SeasonService.
func NewSeasonService(repo seasonRepository, validate *validator.Validate, logger *zap.Logger) *SeasonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeasonService{repo: repo, validator: validate, logger: logger}
}

// Resolve turns an optional season id into the SeasonContext every accounting
// call takes. An empty id resolves to the current season.
func (s *SeasonService) Resolve(ctx context.Context, seasonID string) (models.SeasonContext, error) {
	if seasonID == "" {
		current, err := s.repo.FindCurrent(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.SeasonContext{}, appErrors.Clone(appErrors.ErrNoCurrentSeason, "")
			}
			return models.SeasonContext{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve current season")
		}
		return models.SeasonContext{SeasonID: current.ID}, nil
	}
	season, err := s.repo.FindByID(ctx, seasonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SeasonContext{}, appErrors.Clone(appErrors.ErrNotFound, "season not found")
		}
		return models.SeasonContext{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load season")
	}
	return models.SeasonContext{SeasonID: season.ID}, nil
}

// Current returns the season flagged current.
func (s *SeasonService) Current(ctx context.Context) (*models.Season, error) {
	season, err := s.repo.FindCurrent(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoCurrentSeason, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current season")
	}
	return season, nil
}

// Get returns one season.
func (s *SeasonService) Get(ctx context.Context, id string) (*models.Season, error) {
	season, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "season not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load season")
	}
	return season, nil
}

// List returns seasons with pagination metadata.
func (s *SeasonService) List(ctx context.Context, filter models.SeasonFilter) ([]models.Season, *models.Pagination, error) {
	seasons, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list seasons")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return seasons, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create registers a new season.
func (s *SeasonService) Create(ctx context.Context, req CreateSeasonRequest) (*models.Season, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid season payload")
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must be after start date")
	}
	season := &models.Season{
		Name:      req.Name,
		Year:      req.Year,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.repo.Create(ctx, season); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create season")
	}
	return season, nil
}

// Update edits a season.
func (s *SeasonService) Update(ctx context.Context, id string, req UpdateSeasonRequest) (*models.Season, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid season payload")
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must be after start date")
	}
	season, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	season.Name = req.Name
	season.Year = req.Year
	season.StartDate = req.StartDate
	season.EndDate = req.EndDate
	if err := s.repo.Update(ctx, season); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update season")
	}
	return season, nil
}

// SetCurrent marks a season as the current one, clearing the previous flag.
func (s *SeasonService) SetCurrent(ctx context.Context, id string) (*models.Season, error) {
	if err := s.repo.SetCurrent(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "season not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set current season")
	}
	return s.Get(ctx, id)
}
