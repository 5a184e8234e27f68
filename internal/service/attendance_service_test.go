package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/frcteamops/pitcrew-api/internal/models"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records     map[string]models.Attendance
	created     *models.Attendance
	updated     *models.Attendance
	voided      []string
	missing     []models.User
	endErr      error
	endCalled   bool
	endAbsences []models.Attendance
}

func (m *mockAttendanceRepo) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	if r, ok := m.records[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	return nil, 0, nil
}

func (m *mockAttendanceRepo) Create(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = "att-new"
	}
	if m.records == nil {
		m.records = make(map[string]models.Attendance)
	}
	m.records[record.ID] = *record
	m.created = record
	return nil
}

func (m *mockAttendanceRepo) Update(ctx context.Context, record *models.Attendance) error {
	m.records[record.ID] = *record
	m.updated = record
	return nil
}

func (m *mockAttendanceRepo) Void(ctx context.Context, id string) error {
	m.voided = append(m.voided, id)
	return nil
}

func (m *mockAttendanceRepo) ActiveUsersWithoutRecord(ctx context.Context, meetingID string) ([]models.User, error) {
	return m.missing, nil
}

func (m *mockAttendanceRepo) EndMeetingWithAbsences(ctx context.Context, meetingID string, endTime time.Time, absences []models.Attendance) error {
	m.endCalled = true
	m.endAbsences = absences
	return m.endErr
}

type mockMeetingFinder struct {
	meetings map[string]models.Meeting
}

func (m *mockMeetingFinder) FindByID(ctx context.Context, id string) (*models.Meeting, error) {
	if mtg, ok := m.meetings[id]; ok {
		return &mtg, nil
	}
	return nil, sql.ErrNoRows
}

type mockAuditWriter struct {
	logs []models.AuditLog
}

func (m *mockAuditWriter) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func newAttendanceService(repo *mockAttendanceRepo, meetings *mockMeetingFinder) *AttendanceService {
	return NewAttendanceService(repo, meetings, &mockAuditWriter{}, validator.New(), zap.NewNop())
}

func TestSaveRejectsApprovedWithoutTimeOut(t *testing.T) {
	svc := newAttendanceService(&mockAttendanceRepo{}, &mockMeetingFinder{})

	_, err := svc.Save(context.Background(), models.SeasonContext{SeasonID: "ssn-1"}, SaveAttendanceRequest{
		UserID:   "usr-1",
		TimeIn:   time.Now().UTC(),
		Approval: models.ApprovalApproved,
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrApprovalNeedsTimeOut.Code, appErr.Code)
}

func TestSaveAbsentForcesApproval(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := newAttendanceService(repo, &mockMeetingFinder{})

	record, err := svc.Save(context.Background(), models.SeasonContext{SeasonID: "ssn-1"}, SaveAttendanceRequest{
		UserID:   "usr-1",
		TimeIn:   time.Now().UTC(),
		Absent:   true,
		Approval: models.ApprovalUnapproved,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, record.Approval)
	assert.True(t, record.Absent)
	assert.NotNil(t, repo.created)
}

func TestSaveDefaultsToUnapproved(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := newAttendanceService(repo, &mockMeetingFinder{})

	record, err := svc.Save(context.Background(), models.SeasonContext{SeasonID: "ssn-1"}, SaveAttendanceRequest{
		UserID: "usr-1",
		TimeIn: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalUnapproved, record.Approval)
	assert.Equal(t, "ssn-1", record.SeasonID)
	assert.Equal(t, models.VoidNo, record.Void)
}

func TestSaveUpdatesExistingRecord(t *testing.T) {
	in := time.Date(2026, 2, 3, 18, 0, 0, 0, time.UTC)
	out := in.Add(2 * time.Hour)
	repo := &mockAttendanceRepo{records: map[string]models.Attendance{
		"att-1": {ID: "att-1", UserID: "usr-1", SeasonID: "ssn-1", TimeIn: in, Approval: models.ApprovalUnapproved, Void: models.VoidNo},
	}}
	svc := newAttendanceService(repo, &mockMeetingFinder{})

	record, err := svc.Save(context.Background(), models.SeasonContext{SeasonID: "ssn-1"}, SaveAttendanceRequest{
		ID:       "att-1",
		UserID:   "usr-1",
		TimeIn:   in,
		TimeOut:  &out,
		Approval: models.ApprovalApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, "att-1", record.ID)
	assert.Equal(t, models.ApprovalApproved, record.Approval)
	require.NotNil(t, repo.updated)
	assert.Nil(t, repo.created)
}

func TestSaveUnknownMeeting(t *testing.T) {
	svc := newAttendanceService(&mockAttendanceRepo{}, &mockMeetingFinder{})
	meetingID := "ghost"

	_, err := svc.Save(context.Background(), models.SeasonContext{SeasonID: "ssn-1"}, SaveAttendanceRequest{
		UserID:    "usr-1",
		MeetingID: &meetingID,
		TimeIn:    time.Now().UTC(),
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestEndMeetingSynthesizesAbsences(t *testing.T) {
	start := time.Date(2026, 2, 3, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	repo := &mockAttendanceRepo{
		missing: []models.User{
			{ID: "usr-2", FullName: "Blake", Active: true},
			{ID: "usr-3", FullName: "Casey", Active: true},
		},
	}
	meetings := &mockMeetingFinder{meetings: map[string]models.Meeting{
		"mtg-1": {ID: "mtg-1", SeasonID: "ssn-1", Type: models.MeetingTypeRegular, StartTime: start, EndTime: &end, Void: models.VoidNo},
	}}
	svc := newAttendanceService(repo, meetings)

	err := svc.EndMeeting(context.Background(), "mtg-1")
	require.NoError(t, err)
	require.True(t, repo.endCalled)
	require.Len(t, repo.endAbsences, 2)
	for _, absence := range repo.endAbsences {
		assert.True(t, absence.Absent)
		assert.Equal(t, models.ApprovalApproved, absence.Approval)
		assert.Equal(t, start, absence.TimeIn)
		require.NotNil(t, absence.MeetingID)
		assert.Equal(t, "mtg-1", *absence.MeetingID)
	}
}

func TestEndMeetingAlreadyEnded(t *testing.T) {
	start := time.Date(2026, 2, 3, 18, 0, 0, 0, time.UTC)
	meetings := &mockMeetingFinder{meetings: map[string]models.Meeting{
		"mtg-1": {ID: "mtg-1", SeasonID: "ssn-1", StartTime: start, Ended: true, Void: models.VoidNo},
	}}
	svc := newAttendanceService(&mockAttendanceRepo{}, meetings)

	err := svc.EndMeeting(context.Background(), "mtg-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrMeetingEnded.Code, appErr.Code)
}

func TestEndMeetingRollsBackOnFailure(t *testing.T) {
	start := time.Date(2026, 2, 3, 18, 0, 0, 0, time.UTC)
	repo := &mockAttendanceRepo{
		missing: []models.User{{ID: "usr-2", Active: true}},
		endErr:  fmt.Errorf("insert absence for user usr-2: connection reset"),
	}
	meetings := &mockMeetingFinder{meetings: map[string]models.Meeting{
		"mtg-1": {ID: "mtg-1", SeasonID: "ssn-1", StartTime: start, Void: models.VoidNo},
	}}
	svc := newAttendanceService(repo, meetings)

	err := svc.EndMeeting(context.Background(), "mtg-1")
	require.Error(t, err)
	// The repository owns the transaction; a failed insert surfaces as an
	// error and no partial state is reported back.
	assert.True(t, repo.endCalled)
}
