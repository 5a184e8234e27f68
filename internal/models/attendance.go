package models

import "time"

// ApprovalState classifies a single attendance record.
type ApprovalState string

const (
	ApprovalUnapproved ApprovalState = "unapp"
	ApprovalApproved   ApprovalState = "app"
	ApprovalRejected   ApprovalState = "rej"
)

// Valid returns true when the state is a supported value.
func (s ApprovalState) Valid() bool {
	switch s {
	case ApprovalUnapproved, ApprovalApproved, ApprovalRejected:
		return true
	default:
		return false
	}
}

// Attendance joins a member, a season and optionally a meeting. A row with no
// linked meeting is exempt: it shrinks the member's required-hours baseline
// instead of being scored as present or absent.
type Attendance struct {
	ID        string        `db:"id" json:"id"`
	UserID    string        `db:"user_id" json:"user_id"`
	SeasonID  string        `db:"season_id" json:"season_id"`
	MeetingID *string       `db:"meeting_id" json:"meeting_id,omitempty"`
	TimeIn    time.Time     `db:"time_in" json:"time_in"`
	TimeOut   *time.Time    `db:"time_out" json:"time_out,omitempty"`
	Absent    bool          `db:"absent" json:"absent"`
	Approval  ApprovalState `db:"approval" json:"approval"`
	Void      string        `db:"void" json:"void"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// IsVoid reports whether the record is soft-deleted.
func (a *Attendance) IsVoid() bool {
	return a.Void == VoidYes
}

// Exempt reports whether the record reduces required hours rather than
// contributing attended hours.
func (a *Attendance) Exempt() bool {
	return a.MeetingID == nil
}

// AttendanceRecord extends a row with member and meeting metadata for lists.
type AttendanceRecord struct {
	Attendance
	MemberName   string       `db:"member_name" json:"member_name"`
	MeetingTitle *string      `db:"meeting_title" json:"meeting_title,omitempty"`
	MeetingType  *MeetingType `db:"meeting_type" json:"meeting_type,omitempty"`
}

// AttendanceFilter scopes attendance listing queries.
type AttendanceFilter struct {
	SeasonID  string
	UserID    string
	MeetingID string
	Approval  *ApprovalState
	Absent    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// MemberHoursReport is the per-member output of the attendance report.
type MemberHoursReport struct {
	UserID              string  `json:"user"`
	FullName            string  `json:"full_name"`
	ReqRegTime          float64 `json:"req_reg_time"`
	RegTime             float64 `json:"reg_time"`
	RegTimePercentage   int     `json:"reg_time_percentage"`
	EventTime           float64 `json:"event_time"`
	EventTimePercentage int     `json:"event_time_percentage"`
}
