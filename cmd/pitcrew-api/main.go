package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	_ "github.com/frcteamops/pitcrew-api/api/swagger"
	"github.com/frcteamops/pitcrew-api/internal/handler"
	"github.com/frcteamops/pitcrew-api/internal/repository"
	"github.com/frcteamops/pitcrew-api/internal/router"
	"github.com/frcteamops/pitcrew-api/internal/service"
	"github.com/frcteamops/pitcrew-api/pkg/cache"
	"github.com/frcteamops/pitcrew-api/pkg/config"
	"github.com/frcteamops/pitcrew-api/pkg/database"
	"github.com/frcteamops/pitcrew-api/pkg/logger"
)

// @title PitCrew API
// @version 1.0.0
// @description Team operations backend: attendance hours, permissions, scouting, sponsors
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The dashboard cache is an optimization; the API stays up without it.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()

	seasonRepo := repository.NewSeasonRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	userRepo := repository.NewUserRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	sponsorRepo := repository.NewSponsorRepository(db)
	scoutingRepo := repository.NewScoutingRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.Enabled && redisClient != nil)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
		SingleSession:      cfg.JWT.SingleSession,
	})
	accessService := service.NewAccessService(permissionRepo, logr)
	seasonService := service.NewSeasonService(seasonRepo, validate, logr)
	meetingService := service.NewMeetingService(meetingRepo, validate, logr)
	attendanceService := service.NewAttendanceService(attendanceRepo, meetingRepo, userRepo, validate, logr)
	userService := service.NewUserService(userRepo, permissionRepo, validate, logr)
	sponsorService := service.NewSponsorService(sponsorRepo, validate, logr)
	scoutingService := service.NewScoutingService(scoutingRepo, validate, logr)
	hoursService := service.NewHoursService(meetingRepo, attendanceRepo, userRepo, logr)
	exportService := service.NewExportService(hoursService, nil, nil, logr)
	dashboardService := service.NewDashboardService(service.DashboardServiceParams{
		Hours:     hoursService,
		Members:   userRepo,
		Meetings:  meetingRepo,
		Approvals: attendanceRepo,
		Sponsors:  sponsorService,
		Scouting:  scoutingService,
		Cache:     cacheService,
		Logger:    logr,
		Config:    service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})

	r := router.New(router.Deps{
		Config: cfg,
		Logger: logr,

		Auth:       handler.NewAuthHandler(authService),
		Users:      handler.NewUserHandler(userService),
		Seasons:    handler.NewSeasonHandler(seasonService),
		Meetings:   handler.NewMeetingHandler(meetingService, attendanceService, seasonService, accessService, dashboardService, metricsService),
		Attendance: handler.NewAttendanceHandler(attendanceService, seasonService, dashboardService),
		Reports:    handler.NewReportHandler(hoursService, exportService, seasonService),
		Sponsors:   handler.NewSponsorHandler(sponsorService, seasonService, dashboardService),
		Scouting:   handler.NewScoutingHandler(scoutingService, seasonService),
		Dashboard:  handler.NewDashboardHandler(dashboardService, seasonService),
		Metrics:    handler.NewMetricsHandler(metricsService),

		AuthService:    authService,
		AccessService:  accessService,
		MetricsService: metricsService,
		AuditRepo:      userRepo,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
