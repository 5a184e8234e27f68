package models

import "time"

// MeetingType categorises a meeting and drives how its duration is
// aggregated.
type MeetingType string

const (
	MeetingTypeRegular MeetingType = "reg"
	MeetingTypeBonus   MeetingType = "bns"
	MeetingTypeEvent   MeetingType = "evnt"
)

// Valid returns true when the type is a supported value.
func (t MeetingType) Valid() bool {
	switch t {
	case MeetingTypeRegular, MeetingTypeBonus, MeetingTypeEvent:
		return true
	default:
		return false
	}
}

// HourBucket names the accumulator an attendance duration counts toward.
type HourBucket int

const (
	BucketRegular HourBucket = iota
	BucketEvent
)

// Bucket maps a meeting type to the report accumulator its hours feed.
// Regular and bonus meetings both count toward regular hours.
func (t MeetingType) Bucket() HourBucket {
	if t == MeetingTypeEvent {
		return BucketEvent
	}
	return BucketRegular
}

// Void flag values used across soft-deletable rows.
const (
	VoidYes = "y"
	VoidNo  = "n"
)

// Meeting is a scheduled block of time belonging to a season. EndTime stays
// nil while the meeting is in progress.
type Meeting struct {
	ID          string      `db:"id" json:"id"`
	SeasonID    string      `db:"season_id" json:"season_id"`
	Type        MeetingType `db:"type" json:"type"`
	Title       string      `db:"title" json:"title"`
	Description *string     `db:"description" json:"description,omitempty"`
	StartTime   time.Time   `db:"start_time" json:"start_time"`
	EndTime     *time.Time  `db:"end_time" json:"end_time,omitempty"`
	Ended       bool        `db:"ended" json:"ended"`
	Void        string      `db:"void" json:"void"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// IsVoid reports whether the meeting is soft-deleted.
func (m *Meeting) IsVoid() bool {
	return m.Void == VoidYes
}

// MeetingFilter scopes meeting listing queries.
type MeetingFilter struct {
	SeasonID  string
	Type      *MeetingType
	Ended     *bool
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// MeetingHours aggregates season meeting durations by bucket. Hours holds
// concluded regular meetings, HoursFuture the not-yet-concluded ones.
type MeetingHours struct {
	Hours       float64 `json:"hours"`
	HoursFuture float64 `json:"hours_future"`
	BonusHours  float64 `json:"bonus_hours"`
	EventHours  float64 `json:"event_hours"`
}
