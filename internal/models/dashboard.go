package models

import "time"

// SystemMetrics is a lightweight runtime metrics snapshot for API consumers.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"avg_request_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// DashboardSnapshot aggregates headline figures for a season.
type DashboardSnapshot struct {
	SeasonID         string           `json:"season_id"`
	ActiveMembers    int              `json:"active_members"`
	MeetingHours     MeetingHours     `json:"meeting_hours"`
	AvgRegPercentage float64          `json:"avg_reg_percentage"`
	SponsorTotals    SponsorTotals    `json:"sponsor_totals"`
	ScoutingCoverage ScoutingCoverage `json:"scouting_coverage"`
	UpcomingMeetings int              `json:"upcoming_meetings"`
	PendingApprovals int              `json:"pending_approvals"`
	GeneratedAt      time.Time        `json:"generated_at"`
}
