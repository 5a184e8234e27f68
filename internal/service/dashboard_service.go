package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/frcteamops/pitcrew-api/internal/models"
	appErrors "github.com/frcteamops/pitcrew-api/pkg/errors"
)

type dashboardHoursProvider interface {
	MeetingHours(ctx context.Context, season models.SeasonContext) (*models.MeetingHours, error)
	AttendanceReport(ctx context.Context, season models.SeasonContext, opts ReportOptions) ([]models.MemberHoursReport, error)
}

type dashboardMemberReader interface {
	ActiveMembers(ctx context.Context) ([]models.User, error)
}

type dashboardMeetingReader interface {
	ListBySeason(ctx context.Context, seasonID string) ([]models.Meeting, error)
}

type dashboardApprovalCounter interface {
	CountPendingApprovals(ctx context.Context, seasonID string) (int, error)
}

type dashboardSponsorProvider interface {
	Totals(ctx context.Context, season models.SeasonContext) (*models.SponsorTotals, error)
}

type dashboardScoutingProvider interface {
	Coverage(ctx context.Context, season models.SeasonContext) (*models.ScoutingCoverage, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Hours     dashboardHoursProvider
	Members   dashboardMemberReader
	Meetings  dashboardMeetingReader
	Approvals dashboardApprovalCounter
	Sponsors  dashboardSponsorProvider
	Scouting  dashboardScoutingProvider
	Cache     *CacheService
	Logger    *zap.Logger
	Config    DashboardServiceConfig
	Now       func() time.Time
}

// DashboardService composes the season overview payload.
type DashboardService struct {
	hours     dashboardHoursProvider
	members   dashboardMemberReader
	meetings  dashboardMeetingReader
	approvals dashboardApprovalCounter
	sponsors  dashboardSponsorProvider
	scouting  dashboardScoutingProvider
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
	cfg       DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		hours:     params.Hours,
		members:   params.Members,
		meetings:  params.Meetings,
		approvals: params.Approvals,
		sponsors:  params.Sponsors,
		scouting:  params.Scouting,
		cache:     params.Cache,
		logger:    logger,
		now:       now,
		cfg:       cfg,
	}
}

// Snapshot returns the season overview and indicates cache utilisation.
func (s *DashboardService) Snapshot(ctx context.Context, season models.SeasonContext) (*models.DashboardSnapshot, bool, error) {
	if season.SeasonID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "season is required")
	}
	cacheKey := fmt.Sprintf("dash:season:%s", season.SeasonID)
	if s.cache != nil {
		var cached models.DashboardSnapshot
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			return nil, false, err
		}
		if hit {
			return &cached, true, nil
		}
	}

	snapshot, err := s.compose(ctx, season)
	if err != nil {
		return nil, false, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, snapshot, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return snapshot, false, nil
}

// Invalidate drops the cached snapshot for a season after a write that
// changes its figures.
func (s *DashboardService) Invalidate(ctx context.Context, seasonID string) {
	if s.cache == nil || seasonID == "" {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("dash:season:%s", seasonID)); err != nil {
		s.logger.Warn("dashboard cache invalidate failed", zap.String("season_id", seasonID), zap.Error(err))
	}
}

func (s *DashboardService) compose(ctx context.Context, season models.SeasonContext) (*models.DashboardSnapshot, error) {
	snapshot := &models.DashboardSnapshot{
		SeasonID:    season.SeasonID,
		GeneratedAt: s.now().UTC(),
	}

	members, err := s.members.ActiveMembers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count active members")
	}
	snapshot.ActiveMembers = len(members)

	hours, err := s.hours.MeetingHours(ctx, season)
	if err != nil {
		return nil, err
	}
	snapshot.MeetingHours = *hours

	reports, err := s.hours.AttendanceReport(ctx, season, ReportOptions{})
	if err != nil {
		return nil, err
	}
	if len(reports) > 0 {
		var sum int
		for i := range reports {
			sum += reports[i].RegTimePercentage
		}
		snapshot.AvgRegPercentage = round2(float64(sum) / float64(len(reports)))
	}

	meetings, err := s.meetings.ListBySeason(ctx, season.SeasonID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list season meetings")
	}
	cutoff := s.now().UTC()
	for i := range meetings {
		if !meetings[i].Ended && meetings[i].StartTime.After(cutoff) {
			snapshot.UpcomingMeetings++
		}
	}

	pending, err := s.approvals.CountPendingApprovals(ctx, season.SeasonID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending approvals")
	}
	snapshot.PendingApprovals = pending

	if s.sponsors != nil {
		totals, err := s.sponsors.Totals(ctx, season)
		if err != nil {
			return nil, err
		}
		snapshot.SponsorTotals = *totals
	}

	if s.scouting != nil {
		coverage, err := s.scouting.Coverage(ctx, season)
		if err != nil {
			return nil, err
		}
		snapshot.ScoutingCoverage = *coverage
	}

	return snapshot, nil
}
