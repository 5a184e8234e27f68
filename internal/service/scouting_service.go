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

type scoutingRepository interface {
	FindEventByID(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, seasonID string) ([]models.Event, error)
	CreateEvent(ctx context.Context, event *models.Event) error
	ListMatchEntries(ctx context.Context, filter models.ScoutingFilter) ([]models.MatchScoutingEntry, int, error)
	CreateMatchEntry(ctx context.Context, entry *models.MatchScoutingEntry) error
	ListPitEntries(ctx context.Context, eventID string) ([]models.PitScoutingEntry, error)
	UpsertPitEntry(ctx context.Context, entry *models.PitScoutingEntry) (*models.PitScoutingEntry, error)
	Coverage(ctx context.Context, seasonID string) (*models.ScoutingCoverage, error)
}

// CreateEventRequest describes event creation payload.
type CreateEventRequest struct {
	Code      string    `json:"code" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Location  *string   `json:"location"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// SubmitMatchFormRequest describes a field scouting form submission.
type SubmitMatchFormRequest struct {
	EventID       string  `json:"event_id" validate:"required"`
	MatchNumber   int     `json:"match_number" validate:"required,gt=0"`
	TeamNumber    int     `json:"team_number" validate:"required,gt=0"`
	AutoPoints    int     `json:"auto_points" validate:"gte=0"`
	TeleopPoints  int     `json:"teleop_points" validate:"gte=0"`
	EndgamePoints int     `json:"endgame_points" validate:"gte=0"`
	Notes         *string `json:"notes"`
}

// SubmitPitFormRequest describes a pit scouting form submission.
type SubmitPitFormRequest struct {
	EventID      string   `json:"event_id" validate:"required"`
	TeamNumber   int      `json:"team_number" validate:"required,gt=0"`
	Drivetrain   *string  `json:"drivetrain"`
	WeightKg     *float64 `json:"weight_kg" validate:"omitempty,gt=0"`
	Capabilities *string  `json:"capabilities"`
	Notes        *string  `json:"notes"`
}

// ScoutingService manages competition events and scouting form submissions.
type ScoutingService struct {
	repo      scoutingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScoutingService constructs a ScoutingService.
func NewScoutingService(repo scoutingRepository, validate *validator.Validate, logger *zap.Logger) *ScoutingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoutingService{repo: repo, validator: validate, logger: logger}
}

// Events lists a season's events.
func (s *ScoutingService) Events(ctx context.Context, season models.SeasonContext) ([]models.Event, error) {
	events, err := s.repo.ListEvents(ctx, season.SeasonID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, nil
}

// CreateEvent registers a competition event in the given season.
func (s *ScoutingService) CreateEvent(ctx context.Context, season models.SeasonContext, req CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}
	event := &models.Event{
		SeasonID:  season.SeasonID,
		Code:      req.Code,
		Name:      req.Name,
		Location:  req.Location,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	return event, nil
}

// MatchForms lists match scouting entries with pagination metadata.
func (s *ScoutingService) MatchForms(ctx context.Context, filter models.ScoutingFilter) ([]models.MatchScoutingEntry, *models.Pagination, error) {
	entries, total, err := s.repo.ListMatchEntries(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list match forms")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return entries, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// SubmitMatchForm stores a field scouting form for the acting member.
func (s *ScoutingService) SubmitMatchForm(ctx context.Context, scoutedBy string, req SubmitMatchFormRequest) (*models.MatchScoutingEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid match form payload")
	}
	if err := s.ensureEvent(ctx, req.EventID); err != nil {
		return nil, err
	}
	entry := &models.MatchScoutingEntry{
		EventID:       req.EventID,
		MatchNumber:   req.MatchNumber,
		TeamNumber:    req.TeamNumber,
		ScoutedBy:     scoutedBy,
		AutoPoints:    req.AutoPoints,
		TeleopPoints:  req.TeleopPoints,
		EndgamePoints: req.EndgamePoints,
		Notes:         req.Notes,
	}
	if err := s.repo.CreateMatchEntry(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store match form")
	}
	return entry, nil
}

// PitForms lists pit scouting entries for an event.
func (s *ScoutingService) PitForms(ctx context.Context, eventID string) ([]models.PitScoutingEntry, error) {
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListPitEntries(ctx, eventID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pit forms")
	}
	return entries, nil
}

// SubmitPitForm stores or refreshes the pit form for a team at an event.
// One row per team per event; a resubmission overwrites the previous form.
func (s *ScoutingService) SubmitPitForm(ctx context.Context, scoutedBy string, req SubmitPitFormRequest) (*models.PitScoutingEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pit form payload")
	}
	if err := s.ensureEvent(ctx, req.EventID); err != nil {
		return nil, err
	}
	entry := &models.PitScoutingEntry{
		EventID:      req.EventID,
		TeamNumber:   req.TeamNumber,
		ScoutedBy:    scoutedBy,
		Drivetrain:   req.Drivetrain,
		WeightKg:     req.WeightKg,
		Capabilities: req.Capabilities,
		Notes:        req.Notes,
	}
	stored, err := s.repo.UpsertPitEntry(ctx, entry)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store pit form")
	}
	return stored, nil
}

// Coverage counts form submissions across a season's events.
func (s *ScoutingService) Coverage(ctx context.Context, season models.SeasonContext) (*models.ScoutingCoverage, error) {
	coverage, err := s.repo.Coverage(ctx, season.SeasonID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scouting coverage")
	}
	return coverage, nil
}

func (s *ScoutingService) ensureEvent(ctx context.Context, eventID string) error {
	if _, err := s.repo.FindEventByID(ctx, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return nil
}
