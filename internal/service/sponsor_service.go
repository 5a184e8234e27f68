package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/frcteamops/pitcrew-api/internal/models"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
)

type sponsorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Sponsor, error)
	List(ctx context.Context, filter models.SponsorFilter) ([]models.Sponsor, int, error)
	Create(ctx context.Context, sponsor *models.Sponsor) error
	Update(ctx context.Context, sponsor *models.Sponsor) error
	Deactivate(ctx context.Context, id string) error
	Totals(ctx context.Context, seasonID string) (*models.SponsorTotals, error)
}

// SaveSponsorRequest describes sponsor create and update payloads.
type SaveSponsorRequest struct {
	Name         string             `json:"name" validate:"required"`
	ContactName  *string            `json:"contact_name"`
	ContactEmail *string            `json:"contact_email" validate:"omitempty,email"`
	Tier         models.SponsorTier `json:"tier" validate:"required"`
	AmountCents  int64              `json:"amount_cents" validate:"gte=0"`
}

// SponsorService manages sponsorship records per season.
type SponsorService struct {
	repo      sponsorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSponsorService constructs a SponsorService.
func NewSponsorService(repo sponsorRepository, validate *validator.Validate, logger *zap.Logger) *SponsorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SponsorService{repo: repo, validator: validate, logger: logger}
}

// Get returns one sponsor.
func (s *SponsorService) Get(ctx context.Context, id string) (*models.Sponsor, error) {
	sponsor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sponsor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sponsor")
	}
	return sponsor, nil
}

// List returns sponsors with pagination metadata.
func (s *SponsorService) List(ctx context.Context, filter models.SponsorFilter) ([]models.Sponsor, *models.Pagination, error) {
	sponsors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sponsors")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return sponsors, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create registers a new sponsor in the given season.
func (s *SponsorService) Create(ctx context.Context, season models.SeasonContext, req SaveSponsorRequest) (*models.Sponsor, error) {
	if err := s.validateSave(req); err != nil {
		return nil, err
	}
	sponsor := &models.Sponsor{
		SeasonID:     season.SeasonID,
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		Tier:         req.Tier,
		AmountCents:  req.AmountCents,
		Active:       true,
	}
	if err := s.repo.Create(ctx, sponsor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create sponsor")
	}
	return sponsor, nil
}

// Update edits a sponsor.
func (s *SponsorService) Update(ctx context.Context, id string, req SaveSponsorRequest) (*models.Sponsor, error) {
	if err := s.validateSave(req); err != nil {
		return nil, err
	}
	sponsor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sponsor.Name = req.Name
	sponsor.ContactName = req.ContactName
	sponsor.ContactEmail = req.ContactEmail
	sponsor.Tier = req.Tier
	sponsor.AmountCents = req.AmountCents
	if err := s.repo.Update(ctx, sponsor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update sponsor")
	}
	return sponsor, nil
}

// Deactivate marks a sponsor inactive.
func (s *SponsorService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate sponsor")
	}
	return nil
}

// Totals summarises active sponsorship income for a season.
func (s *SponsorService) Totals(ctx context.Context, season models.SeasonContext) (*models.SponsorTotals, error) {
	totals, err := s.repo.Totals(ctx, season.SeasonID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sponsor totals")
	}
	return totals, nil
}

func (s *SponsorService) validateSave(req SaveSponsorRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sponsor payload")
	}
	if !req.Tier.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown sponsor tier")
	}
	return nil
}
