package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/frcteamops/pitcrew-api/internal/models"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
)

type mockMeetingReader struct {
	meetings []models.Meeting
	err      error
}

func (m *mockMeetingReader) ListBySeason(ctx context.Context, seasonID string) ([]models.Meeting, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.meetings, nil
}

type mockAttendanceReader struct {
	records []models.AttendanceRecord
	err     error
}

func (m *mockAttendanceReader) ListForReport(ctx context.Context, seasonID, userID, meetingID string) ([]models.AttendanceRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.AttendanceRecord
	for _, record := range m.records {
		if userID != "" && record.UserID != userID {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

type mockUserReader struct {
	users map[string]models.User
}

func (m *mockUserReader) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserReader) ActiveMembers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		if u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

func regMeeting(id string, start time.Time, hours float64, ended bool) models.Meeting {
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	return models.Meeting{
		ID:        id,
		SeasonID:  "ssn-1",
		Type:      models.MeetingTypeRegular,
		Title:     "Build Night " + id,
		StartTime: start,
		EndTime:   &end,
		Ended:     ended,
		Void:      models.VoidNo,
	}
}

func typedMeeting(id string, mt models.MeetingType, start time.Time, hours float64) models.Meeting {
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	return models.Meeting{
		ID:        id,
		SeasonID:  "ssn-1",
		Type:      mt,
		Title:     "Meeting " + id,
		StartTime: start,
		EndTime:   &end,
		Ended:     true,
		Void:      models.VoidNo,
	}
}

func TestMeetingHoursBucketsByTypeAndStatus(t *testing.T) {
	base := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	meetings := []models.Meeting{
		regMeeting("m1", base, 2, true),
		regMeeting("m2", base.AddDate(0, 0, 1), 1, true),
		regMeeting("m3", base.AddDate(0, 0, 7), 3, false),
		typedMeeting("m4", models.MeetingTypeBonus, base.AddDate(0, 0, 2), 1.5),
		typedMeeting("m5", models.MeetingTypeEvent, base.AddDate(0, 0, 3), 8),
	}
	svc := NewHoursService(&mockMeetingReader{meetings: meetings}, &mockAttendanceReader{}, &mockUserReader{}, zap.NewNop())

	totals, err := svc.MeetingHours(context.Background(), models.SeasonContext{SeasonID: "ssn-1"})
	require.NoError(t, err)
	assert.Equal(t, 3.0, totals.Hours)
	assert.Equal(t, 3.0, totals.HoursFuture)
	assert.Equal(t, 1.5, totals.BonusHours)
	assert.Equal(t, 8.0, totals.EventHours)
}

func TestMeetingHoursOrderIndependent(t *testing.T) {
	base := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	forward := []models.Meeting{
		regMeeting("m1", base, 2, true),
		regMeeting("m2", base.AddDate(0, 0, 1), 1, true),
	}
	reversed := []models.Meeting{forward[1], forward[0]}

	svcForward := NewHoursService(&mockMeetingReader{meetings: forward}, &mockAttendanceReader{}, &mockUserReader{}, zap.NewNop())
	svcReversed := NewHoursService(&mockMeetingReader{meetings: reversed}, &mockAttendanceReader{}, &mockUserReader{}, zap.NewNop())

	a, err := svcForward.MeetingHours(context.Background(), models.SeasonContext{SeasonID: "ssn-1"})
	require.NoError(t, err)
	b, err := svcReversed.MeetingHours(context.Background(), models.SeasonContext{SeasonID: "ssn-1"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 3.0, a.Hours)
}

func TestMeetingHoursFailsOnOpenMeeting(t *testing.T) {
	base := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	open := models.Meeting{
		ID:        "m-open",
		SeasonID:  "ssn-1",
		Type:      models.MeetingTypeRegular,
		Title:     "Still Running",
		StartTime: base,
		Void:      models.VoidNo,
	}
	meetings := []models.Meeting{regMeeting("m1", base.AddDate(0, 0, -1), 2, true), open}
	svc := NewHoursService(&mockMeetingReader{meetings: meetings}, &mockAttendanceReader{}, &mockUserReader{}, zap.NewNop())

	_, err := svc.MeetingHours(context.Background(), models.SeasonContext{SeasonID: "ssn-1"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrMeetingOpen.Code, appErr.Code)
}

func attRecord(userID, meetingID string, mt models.MeetingType, start time.Time, hours float64, approval models.ApprovalState, absent bool) models.AttendanceRecord {
	out := start.Add(time.Duration(hours * float64(time.Hour)))
	return models.AttendanceRecord{
		Attendance: models.Attendance{
			ID:        userID + "-" + meetingID,
			UserID:    userID,
			SeasonID:  "ssn-1",
			MeetingID: &meetingID,
			TimeIn:    start,
			TimeOut:   &out,
			Absent:    absent,
			Approval:  approval,
			Void:      models.VoidNo,
		},
		MeetingType: &mt,
	}
}

func exemptRecord(userID string, start time.Time, hours float64) models.AttendanceRecord {
	out := start.Add(time.Duration(hours * float64(time.Hour)))
	return models.AttendanceRecord{
		Attendance: models.Attendance{
			ID:       userID + "-exempt",
			UserID:   userID,
			SeasonID: "ssn-1",
			TimeIn:   start,
			TimeOut:  &out,
			Approval: models.ApprovalApproved,
			Void:     models.VoidNo,
		},
	}
}

func TestAttendanceReportComputesPercentages(t *testing.T) {
	base := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	meetings := []models.Meeting{
		regMeeting("m1", base, 2, true),
		regMeeting("m2", base.AddDate(0, 0, 1), 4, true),
	}
	records := []models.AttendanceRecord{
		attRecord("usr-1", "m1", models.MeetingTypeRegular, base, 2, models.ApprovalApproved, false),
	}
	users := &mockUserReader{users: map[string]models.User{
		"usr-1": {ID: "usr-1", FullName: "Dana Smith", Active: true},
	}}
	svc := NewHoursService(&mockMeetingReader{meetings: meetings}, &mockAttendanceReader{records: records}, users, zap.NewNop())

	reports, err := svc.AttendanceReport(context.Background(), models.SeasonContext{SeasonID: "ssn-1"}, ReportOptions{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 6.0, reports[0].ReqRegTime)
	assert.Equal(t, 2.0, reports[0].RegTime)
	assert.Equal(t, 33, reports[0].RegTimePercentage)
	assert.Equal(t, 0, reports[0].EventTimePercentage)
}

func TestAttendanceReportExemptShrinksDenominator(t *testing.T) {
	base := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	meetings := []models.Meeting{
		regMeeting("m1", base, 2, true),
		regMeeting("m2", base.AddDate(0, 0, 1), 4, true),
	}
	records := []models.AttendanceRecord{
		exemptRecord("usr-1", base, 2),
	}
	users := &mockUserReader{users: map[string]models.User{
		"usr-1": {ID: "usr-1", FullName: "Dana Smith", Active: true},
	}}
	svc := NewHoursService(&mockMeetingReader{meetings: meetings}, &mockAttendanceReader{records: records}, users, zap.NewNop())

	reports, err := svc.AttendanceReport(context.Background(), models.SeasonContext{SeasonID: "ssn-1"}, ReportOptions{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 4.0, reports[0].ReqRegTime)
	assert.Equal(t, 0.0, reports[0].RegTime)
	assert.Equal(t, 0, reports[0].RegTimePercentage)
}

func TestAttendanceReportIgnoresUnapprovedAndAbsent(t *testing.T) {
	base := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	meetings := []models.Meeting{regMeeting("m1", base, 4, true)}
	records := []models.AttendanceRecord{
		attRecord("usr-1", "m1", models.MeetingTypeRegular, base, 4, models.ApprovalUnapproved, false),
		attRecord("usr-2", "m1", models.MeetingTypeRegular, base, 4, models.ApprovalApproved, true),
		attRecord("usr-3", "m1", models.MeetingTypeRegular, base, 4, models.ApprovalRejected, false),
	}
	users := &mockUserReader{users: map[string]models.User{
		"usr-1": {ID: "usr-1", FullName: "Alex", Active: true},
		"usr-2": {ID: "usr-2", FullName: "Blake", Active: true},
		"usr-3": {ID: "usr-3", FullName: "Casey", Active: true},
	}}
	svc := NewHoursService(&mockMeetingReader{meetings: meetings}, &mockAttendanceReader{records: records}, users, zap.NewNop())

	reports, err := svc.AttendanceReport(context.Background(), models.SeasonContext{SeasonID: "ssn-1"}, ReportOptions{})
	require.NoError(t, err)
	require.Len(t, reports, 3)
	for _, report := range reports {
		assert.Equal(t, 0.0, report.RegTime)
		assert.Equal(t, 4.0, report.ReqRegTime)
		assert.Equal(t, 0, report.RegTimePercentage)
	}
}

func TestAttendanceReportEventHours(t *testing.T) {
	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	meetings := []models.Meeting{
		regMeeting("m1", base.AddDate(0, 0, -7), 2, true),
		typedMeeting("e1", models.MeetingTypeEvent, base, 8),
	}
	records := []models.AttendanceRecord{
		attRecord("usr-1", "e1", models.MeetingTypeEvent, base, 6, models.ApprovalApproved, false),
	}
	users := &mockUserReader{users: map[string]models.User{
		"usr-1": {ID: "usr-1", FullName: "Dana Smith", Active: true},
	}}
	svc := NewHoursService(&mockMeetingReader{meetings: meetings}, &mockAttendanceReader{records: records}, users, zap.NewNop())

	reports, err := svc.AttendanceReport(context.Background(), models.SeasonContext{SeasonID: "ssn-1"}, ReportOptions{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 6.0, reports[0].EventTime)
	assert.Equal(t, 75, reports[0].EventTimePercentage)
}

func TestAttendanceReportUnknownUser(t *testing.T) {
	svc := NewHoursService(&mockMeetingReader{}, &mockAttendanceReader{}, &mockUserReader{}, zap.NewNop())

	_, err := svc.AttendanceReport(context.Background(), models.SeasonContext{SeasonID: "ssn-1"}, ReportOptions{UserID: "ghost"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
