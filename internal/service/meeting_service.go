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

type meetingRepository interface {
	FindByID(ctx context.Context, id string) (*models.Meeting, error)
	List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, int, error)
	Create(ctx context.Context, meeting *models.Meeting) error
	Update(ctx context.Context, meeting *models.Meeting) error
	Void(ctx context.Context, id string) error
}

// SaveMeetingRequest describes meeting create and update payloads.
type SaveMeetingRequest struct {
	Type        models.MeetingType `json:"type" validate:"required"`
	Title       string             `json:"title" validate:"required"`
	Description *string            `json:"description"`
	StartTime   time.Time          `json:"start_time" validate:"required"`
	EndTime     *time.Time         `json:"end_time"`
}

// MeetingService manages the meeting lifecycle up to the ended transition,
// which belongs to AttendanceService.
type MeetingService struct {
	repo      meetingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMeetingService constructs a MeetingService.
func NewMeetingService(repo meetingRepository, validate *validator.Validate, logger *zap.Logger) *MeetingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingService{repo: repo, validator: validate, logger: logger}
}

// Get returns one meeting.
func (s *MeetingService) Get(ctx context.Context, id string) (*models.Meeting, error) {
	meeting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	if meeting.IsVoid() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
	}
	return meeting, nil
}

// List returns meetings with pagination metadata.
func (s *MeetingService) List(ctx context.Context, filter models.MeetingFilter) ([]models.Meeting, *models.Pagination, error) {
	meetings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list meetings")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return meetings, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create schedules a new meeting in the given season.
func (s *MeetingService) Create(ctx context.Context, season models.SeasonContext, req SaveMeetingRequest) (*models.Meeting, error) {
	if err := s.validateSave(req); err != nil {
		return nil, err
	}
	meeting := &models.Meeting{
		SeasonID:    season.SeasonID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Void:        models.VoidNo,
	}
	if err := s.repo.Create(ctx, meeting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create meeting")
	}
	return meeting, nil
}

// Update edits an existing meeting. Ended meetings stay editable so an
// organizer can fix a wrong end time after the fact.
func (s *MeetingService) Update(ctx context.Context, id string, req SaveMeetingRequest) (*models.Meeting, error) {
	if err := s.validateSave(req); err != nil {
		return nil, err
	}
	meeting, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	meeting.Type = req.Type
	meeting.Title = req.Title
	meeting.Description = req.Description
	meeting.StartTime = req.StartTime
	meeting.EndTime = req.EndTime
	if err := s.repo.Update(ctx, meeting); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update meeting")
	}
	return meeting, nil
}

// Void soft-deletes a meeting.
func (s *MeetingService) Void(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Void(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to void meeting")
	}
	return nil
}

func (s *MeetingService) validateSave(req SaveMeetingRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid meeting payload")
	}
	if !req.Type.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown meeting type")
	}
	if req.EndTime != nil && !req.EndTime.After(req.StartTime) {
		return appErrors.Clone(appErrors.ErrValidation, "end time must be after start time")
	}
	return nil
}
