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

type attendanceRepository interface {
	FindByID(ctx context.Context, id string) (*models.Attendance, error)
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	Create(ctx context.Context, record *models.Attendance) error
	Update(ctx context.Context, record *models.Attendance) error
	Void(ctx context.Context, id string) error
	ActiveUsersWithoutRecord(ctx context.Context, meetingID string) ([]models.User, error)
	EndMeetingWithAbsences(ctx context.Context, meetingID string, endTime time.Time, absences []models.Attendance) error
}

type attendanceMeetingReader interface {
	FindByID(ctx context.Context, id string) (*models.Meeting, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SaveAttendanceRequest is the write payload for attendance rows. A nil
// MeetingID marks the row exempt.
type SaveAttendanceRequest struct {
	ID        string               `json:"id"`
	UserID    string               `json:"user_id" validate:"required"`
	MeetingID *string              `json:"meeting_id"`
	TimeIn    time.Time            `json:"time_in" validate:"required"`
	TimeOut   *time.Time           `json:"time_out"`
	Absent    bool                 `json:"absent"`
	Approval  models.ApprovalState `json:"approval"`
}

// AttendanceService owns attendance writes and the end-meeting transition.
type AttendanceService struct {
	repo      attendanceRepository
	meetings  attendanceMeetingReader
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, meetings attendanceMeetingReader, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, meetings: meetings, audit: audit, validator: validate, logger: logger}
}

// List returns attendance rows with pagination metadata.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return records, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one attendance record.
func (s *AttendanceService) Get(ctx context.Context, id string) (*models.Attendance, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}
	return record, nil
}

// Save validates and upserts an attendance row. An approved, present,
// non-void row must carry a time out; absent rows are forced to approved
// because an absence needs no separate adjudication; a row without a declared
// state defaults to unapproved.
func (s *AttendanceService) Save(ctx context.Context, season models.SeasonContext, req SaveAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	approval := req.Approval
	if approval == "" {
		approval = models.ApprovalUnapproved
	}
	if !approval.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown approval state")
	}
	if req.Absent {
		approval = models.ApprovalApproved
	}
	if approval == models.ApprovalApproved && !req.Absent && req.TimeOut == nil {
		return nil, appErrors.Clone(appErrors.ErrApprovalNeedsTimeOut, "")
	}

	if req.MeetingID != nil {
		meeting, err := s.meetings.FindByID(ctx, *req.MeetingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
		}
		if meeting.IsVoid() {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
	}

	var record *models.Attendance
	if req.ID != "" {
		existing, err := s.repo.FindByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
		}
		existing.MeetingID = req.MeetingID
		existing.TimeIn = req.TimeIn
		existing.TimeOut = req.TimeOut
		existing.Absent = req.Absent
		existing.Approval = approval
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance record")
		}
		record = existing
	} else {
		record = &models.Attendance{
			UserID:    req.UserID,
			SeasonID:  season.SeasonID,
			MeetingID: req.MeetingID,
			TimeIn:    req.TimeIn,
			TimeOut:   req.TimeOut,
			Absent:    req.Absent,
			Approval:  approval,
			Void:      models.VoidNo,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance record")
		}
	}

	s.recordAudit(ctx, record)
	return record, nil
}

// Void soft-deletes an attendance record.
func (s *AttendanceService) Void(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Void(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to void attendance record")
	}
	return nil
}

// EndMeeting marks the meeting ended and synthesizes an approved absent row
// for every active member who has no non-void record for it. The flag and
// the synthesized rows commit together or not at all.
func (s *AttendanceService) EndMeeting(ctx context.Context, meetingID string) error {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load meeting")
	}
	if meeting.IsVoid() {
		return appErrors.Clone(appErrors.ErrNotFound, "meeting not found")
	}
	if meeting.Ended {
		return appErrors.Clone(appErrors.ErrMeetingEnded, "")
	}

	missing, err := s.repo.ActiveUsersWithoutRecord(ctx, meetingID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list members without attendance")
	}

	endTime := time.Now().UTC()
	if meeting.EndTime != nil {
		endTime = *meeting.EndTime
	}

	absences := make([]models.Attendance, 0, len(missing))
	for i := range missing {
		absences = append(absences, models.Attendance{
			UserID:    missing[i].ID,
			SeasonID:  meeting.SeasonID,
			MeetingID: &meeting.ID,
			TimeIn:    meeting.StartTime,
			Absent:    true,
			Approval:  models.ApprovalApproved,
			Void:      models.VoidNo,
		})
	}

	if err := s.repo.EndMeetingWithAbsences(ctx, meetingID, endTime, absences); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrMeetingEnded, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to end meeting")
	}

	if s.audit != nil {
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			Action:     models.AuditActionMeetingEnd,
			Resource:   "meeting",
			ResourceID: &meeting.ID,
		}); err != nil {
			s.logger.Warn("failed to record end meeting audit log", zap.Error(err))
		}
	}
	return nil
}

func (s *AttendanceService) recordAudit(ctx context.Context, record *models.Attendance) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &record.UserID,
		Action:     models.AuditActionAttendanceWrite,
		Resource:   "attendance",
		ResourceID: &record.ID,
	}); err != nil {
		s.logger.Warn("failed to record attendance audit log", zap.Error(err))
	}
}
