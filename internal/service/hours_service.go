package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/frcteamops/pitcrew-api/internal/models"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
)

type hoursMeetingReader interface {
	ListBySeason(ctx context.Context, seasonID string) ([]models.Meeting, error)
}

type hoursAttendanceReader interface {
	ListForReport(ctx context.Context, seasonID, userID, meetingID string) ([]models.AttendanceRecord, error)
}

type hoursUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ActiveMembers(ctx context.Context) ([]models.User, error)
}

// ReportOptions narrows the attendance report to one member or one meeting.
type ReportOptions struct {
	UserID    string
	MeetingID string
}

// HoursService computes season hour aggregates and per-member reports.
type HoursService struct {
	meetings   hoursMeetingReader
	attendance hoursAttendanceReader
	users      hoursUserReader
	logger     *zap.Logger
}

// NewHoursService constructs a HoursService.
func NewHoursService(meetings hoursMeetingReader, attendance hoursAttendanceReader, users hoursUserReader, logger *zap.Logger) *HoursService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HoursService{meetings: meetings, attendance: attendance, users: users, logger: logger}
}

// MeetingHours sums the durations of every non-void meeting in the season,
// split by bucket. Regular meetings land in Hours once concluded and in
// HoursFuture otherwise. A meeting without an end time fails the whole
// computation rather than being skipped, since a silently shortened total
// would misstate the hour requirement.
func (s *HoursService) MeetingHours(ctx context.Context, season models.SeasonContext) (*models.MeetingHours, error) {
	meetings, err := s.meetings.ListBySeason(ctx, season.SeasonID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list season meetings")
	}

	totals := &models.MeetingHours{}
	for i := range meetings {
		meeting := &meetings[i]
		if meeting.EndTime == nil {
			return nil, appErrors.Clone(appErrors.ErrMeetingOpen, "meeting \""+meeting.Title+"\" has no end time")
		}
		duration := meeting.EndTime.Sub(meeting.StartTime).Hours()

		switch meeting.Type.Bucket() {
		case models.BucketEvent:
			totals.EventHours += duration
		case models.BucketRegular:
			if meeting.Type == models.MeetingTypeBonus {
				totals.BonusHours += duration
				continue
			}
			if meeting.Ended {
				totals.Hours += duration
			} else {
				totals.HoursFuture += duration
			}
		}
	}

	totals.Hours = round2(totals.Hours)
	totals.HoursFuture = round2(totals.HoursFuture)
	totals.BonusHours = round2(totals.BonusHours)
	totals.EventHours = round2(totals.EventHours)
	return totals, nil
}

// AttendanceReport produces the actual-versus-required hours figures per
// member. The required baseline is the season's concluded regular hours;
// exempt rows shrink that baseline for their member instead of contributing
// attended time.
func (s *HoursService) AttendanceReport(ctx context.Context, season models.SeasonContext, opts ReportOptions) ([]models.MemberHoursReport, error) {
	totals, err := s.MeetingHours(ctx, season)
	if err != nil {
		return nil, err
	}

	members, err := s.resolveMembers(ctx, opts.UserID)
	if err != nil {
		return nil, err
	}

	records, err := s.attendance.ListForReport(ctx, season.SeasonID, opts.UserID, opts.MeetingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance records")
	}

	type accumulator struct {
		regular float64
		event   float64
		exempt  float64
	}
	perUser := make(map[string]*accumulator, len(members))
	for i := range members {
		perUser[members[i].ID] = &accumulator{}
	}

	for i := range records {
		record := &records[i]
		acc, ok := perUser[record.UserID]
		if !ok {
			continue
		}
		if record.Exempt() {
			if record.TimeOut != nil {
				acc.exempt += record.TimeOut.Sub(record.TimeIn).Hours()
			}
			continue
		}
		if record.Approval != models.ApprovalApproved || record.Absent || record.TimeOut == nil {
			continue
		}
		duration := record.TimeOut.Sub(record.TimeIn).Hours()
		if record.MeetingType != nil && record.MeetingType.Bucket() == models.BucketEvent {
			acc.event += duration
		} else {
			acc.regular += duration
		}
	}

	reports := make([]models.MemberHoursReport, 0, len(members))
	for i := range members {
		member := &members[i]
		acc := perUser[member.ID]
		required := totals.Hours - acc.exempt
		if required < 0 {
			required = 0
		}
		reports = append(reports, models.MemberHoursReport{
			UserID:              member.ID,
			FullName:            member.FullName,
			ReqRegTime:          round2(required),
			RegTime:             round2(acc.regular),
			RegTimePercentage:   percentage(acc.regular, required),
			EventTime:           round2(acc.event),
			EventTimePercentage: percentage(acc.event, totals.EventHours),
		})
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].FullName < reports[j].FullName })
	return reports, nil
}

func (s *HoursService) resolveMembers(ctx context.Context, userID string) ([]models.User, error) {
	if userID != "" {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
		}
		return []models.User{*user}, nil
	}
	members, err := s.users.ActiveMembers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active members")
	}
	return members, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percentage computes earned over required as a whole-number percentage,
// defined as 0 when the denominator is 0.
func percentage(earned, required float64) int {
	if required <= 0 {
		return 0
	}
	return int(math.Round(earned / required * 100))
}
