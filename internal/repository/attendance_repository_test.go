package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/frcteamops/pitcrew-api/internal/models"
)

func newAttendanceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now().UTC()
	meetingID := "mtg-1"
	rows := sqlmock.NewRows([]string{"id", "user_id", "season_id", "meeting_id", "time_in", "time_out", "absent", "approval", "void", "created_at", "updated_at"}).
		AddRow("att-1", "usr-1", "ssn-1", meetingID, now, nil, false, models.ApprovalUnapproved, models.VoidNo, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT a.id, a.user_id, a.season_id, a.meeting_id, a.time_in, a.time_out, a.absent, a.approval, a.void, a.created_at, a.updated_at FROM attendance a WHERE a.id = $1 LIMIT 1`)).
		WithArgs("att-1").
		WillReturnRows(rows)

	record, err := repo.FindByID(context.Background(), "att-1")
	require.NoError(t, err)
	require.Equal(t, "usr-1", record.UserID)
	require.False(t, record.Exempt())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT a.id, a.user_id`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	record, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.Nil(t, record)
}

func TestAttendanceRepositoryListForReport(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now().UTC()
	out := now.Add(2 * time.Hour)
	meetingType := models.MeetingTypeRegular
	rows := sqlmock.NewRows([]string{"id", "user_id", "season_id", "meeting_id", "time_in", "time_out", "absent", "approval", "void", "created_at", "updated_at", "member_name", "meeting_title", "meeting_type"}).
		AddRow("att-1", "usr-1", "ssn-1", "mtg-1", now, out, false, models.ApprovalApproved, models.VoidNo, now, now, "Dana Smith", "Build Night", meetingType).
		AddRow("att-2", "usr-1", "ssn-1", nil, now, out, false, models.ApprovalApproved, models.VoidNo, now, now, "Dana Smith", nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE a.void = 'n' AND a.season_id = $1 AND a.user_id = $2`)).
		WithArgs("ssn-1", "usr-1").
		WillReturnRows(rows)

	records, err := repo.ListForReport(context.Background(), "ssn-1", "usr-1", "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.False(t, records[0].Exempt())
	require.True(t, records[1].Exempt())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCreateDefaultsVoid(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO attendance`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.Attendance{
		UserID:   "usr-1",
		SeasonID: "ssn-1",
		TimeIn:   time.Now().UTC(),
		Approval: models.ApprovalUnapproved,
	}
	err := repo.Create(context.Background(), record)
	require.NoError(t, err)
	require.NotEmpty(t, record.ID)
	require.Equal(t, models.VoidNo, record.Void)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryEndMeetingWithAbsences(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	endTime := time.Now().UTC()
	meetingID := "mtg-1"
	absences := []models.Attendance{
		{UserID: "usr-2", SeasonID: "ssn-1", MeetingID: &meetingID, TimeIn: endTime, Absent: true, Approval: models.ApprovalApproved, Void: models.VoidNo},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE meetings SET ended = TRUE, end_time = COALESCE(end_time, $2), updated_at = $3 WHERE id = $1 AND ended = FALSE`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO attendance`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.EndMeetingWithAbsences(context.Background(), meetingID, endTime, absences)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryEndMeetingAlreadyEnded(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE meetings SET ended = TRUE`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.EndMeetingWithAbsences(context.Background(), "mtg-1", time.Now().UTC(), nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryCountPendingApprovals(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM attendance WHERE season_id = $1 AND void = 'n' AND approval = 'unapp'`)).
		WithArgs("ssn-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	total, err := repo.CountPendingApprovals(context.Background(), "ssn-1")
	require.NoError(t, err)
	require.Equal(t, 4, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
