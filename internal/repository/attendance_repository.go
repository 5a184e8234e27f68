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

// AttendanceRepository handles persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.user_id, a.season_id, a.meeting_id, a.time_in, a.time_out, a.absent, a.approval, a.void, a.created_at, a.updated_at`

// FindByID returns an attendance record by identifier.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance a WHERE a.id = $1 LIMIT 1`, attendanceColumns)
	var record models.Attendance
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance by id: %w", err)
	}
	return &record, nil
}

// List returns attendance rows with member and meeting metadata.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	base := `FROM attendance a
JOIN users u ON u.id = a.user_id
LEFT JOIN meetings m ON m.id = a.meeting_id`
	where := []string{"a.void = 'n'"}
	args := []interface{}{}

	if filter.SeasonID != "" {
		where = append(where, fmt.Sprintf("a.season_id = $%d", len(args)+1))
		args = append(args, filter.SeasonID)
	}
	if filter.UserID != "" {
		where = append(where, fmt.Sprintf("a.user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.MeetingID != "" {
		where = append(where, fmt.Sprintf("a.meeting_id = $%d", len(args)+1))
		args = append(args, filter.MeetingID)
	}
	if filter.Approval != nil && filter.Approval.Valid() {
		where = append(where, fmt.Sprintf("a.approval = $%d", len(args)+1))
		args = append(args, *filter.Approval)
	}
	if filter.Absent != nil {
		where = append(where, fmt.Sprintf("a.absent = $%d", len(args)+1))
		args = append(args, *filter.Absent)
	}
	whereClause := strings.Join(where, " AND ")

	sortBy := filter.SortBy
	allowedSort := map[string]string{
		"time_in":    "a.time_in",
		"approval":   "a.approval",
		"created_at": "a.created_at",
	}
	sortColumn, ok := allowedSort[sortBy]
	if !ok {
		sortColumn = "a.time_in"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s,
        u.full_name AS member_name, m.title AS meeting_title, m.type AS meeting_type
        %s WHERE %s
        ORDER BY %s %s
        LIMIT %d OFFSET %d`, attendanceColumns, base, whereClause, sortColumn, order, size, offset)

	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return rows, total, nil
}

// ListForReport returns the non-void rows feeding the hours report, with the
// linked meeting type when present.
func (r *AttendanceRepository) ListForReport(ctx context.Context, seasonID, userID, meetingID string) ([]models.AttendanceRecord, error) {
	where := []string{"a.void = 'n'", "a.season_id = $1"}
	args := []interface{}{seasonID}
	if userID != "" {
		where = append(where, fmt.Sprintf("a.user_id = $%d", len(args)+1))
		args = append(args, userID)
	}
	if meetingID != "" {
		where = append(where, fmt.Sprintf("a.meeting_id = $%d", len(args)+1))
		args = append(args, meetingID)
	}
	query := fmt.Sprintf(`SELECT %s, u.full_name AS member_name, m.title AS meeting_title, m.type AS meeting_type
FROM attendance a
JOIN users u ON u.id = a.user_id
LEFT JOIN meetings m ON m.id = a.meeting_id
WHERE %s
ORDER BY a.time_in`, attendanceColumns, strings.Join(where, " AND "))

	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("report attendance: %w", err)
	}
	return rows, nil
}

// Create inserts a new attendance record.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Void == "" {
		record.Void = models.VoidNo
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO attendance (id, user_id, season_id, meeting_id, time_in, time_out, absent, approval, void, created_at, updated_at) VALUES (:id, :user_id, :season_id, :meeting_id, :time_in, :time_out, :absent, :approval, :void, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// Update mutates an existing attendance record in place.
func (r *AttendanceRepository) Update(ctx context.Context, record *models.Attendance) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE attendance SET meeting_id = :meeting_id, time_in = :time_in, time_out = :time_out, absent = :absent, approval = :approval, void = :void, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return nil
}

// Void soft-deletes an attendance record.
func (r *AttendanceRepository) Void(ctx context.Context, id string) error {
	const query = `UPDATE attendance SET void = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.VoidYes, time.Now().UTC()); err != nil {
		return fmt.Errorf("void attendance: %w", err)
	}
	return nil
}

// ActiveUsersWithoutRecord returns active members lacking a non-void
// attendance row for the meeting.
func (r *AttendanceRepository) ActiveUsersWithoutRecord(ctx context.Context, meetingID string) ([]models.User, error) {
	const query = `SELECT u.id, u.email, u.password_hash, u.full_name, u.active, u.last_login, u.created_at, u.updated_at
FROM users u
WHERE u.active = TRUE
AND NOT EXISTS (
    SELECT 1 FROM attendance a WHERE a.user_id = u.id AND a.meeting_id = $1 AND a.void = 'n'
)`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, meetingID); err != nil {
		return nil, fmt.Errorf("users without attendance: %w", err)
	}
	return users, nil
}

// EndMeetingWithAbsences marks the meeting ended and inserts the synthesized
// absent rows in a single transaction, so the ended flag and the absence
// records are observed together or not at all.
func (r *AttendanceRepository) EndMeetingWithAbsences(ctx context.Context, meetingID string, endTime time.Time, absences []models.Attendance) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin end meeting: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE meetings SET ended = TRUE, end_time = COALESCE(end_time, $2), updated_at = $3 WHERE id = $1 AND ended = FALSE`,
		meetingID, endTime, now)
	if err != nil {
		return fmt.Errorf("mark meeting ended: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}

	const insert = `INSERT INTO attendance (id, user_id, season_id, meeting_id, time_in, time_out, absent, approval, void, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i := range absences {
		rec := &absences[i]
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rec.UpdatedAt = now
		if _, err := tx.ExecContext(ctx, insert, rec.ID, rec.UserID, rec.SeasonID, rec.MeetingID, rec.TimeIn, rec.TimeOut, rec.Absent, rec.Approval, rec.Void, rec.CreatedAt, rec.UpdatedAt); err != nil {
			return fmt.Errorf("insert absence for user %s: %w", rec.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit end meeting: %w", err)
	}
	commit = true
	return nil
}

// CountPendingApprovals counts non-void unapproved rows in a season.
func (r *AttendanceRepository) CountPendingApprovals(ctx context.Context, seasonID string) (int, error) {
	const query = `SELECT COUNT(*) FROM attendance WHERE season_id = $1 AND void = 'n' AND approval = 'unapp'`
	var total int
	if err := r.db.GetContext(ctx, &total, query, seasonID); err != nil {
		return 0, fmt.Errorf("count pending approvals: %w", err)
	}
	return total, nil
}
