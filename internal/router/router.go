package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/frcteamops/pitcrew-api/internal/handler"
	"github.com/frcteamops/pitcrew-api/internal/middleware"
	"github.com/frcteamops/pitcrew-api/internal/models"
	"github.com/frcteamops/pitcrew-api/internal/repository"
	"github.com/frcteamops/pitcrew-api/internal/service"
	"github.com/frcteamops/pitcrew-api/pkg/config"
	"github.com/frcteamops/pitcrew-api/pkg/logger"
	corsmiddleware "github.com/frcteamops/pitcrew-api/pkg/middleware/cors"
	reqidmiddleware "github.com/frcteamops/pitcrew-api/pkg/middleware/requestid"
)

// Deps carries everything the router needs to register routes.
type Deps struct {
	Config *config.Config
	Logger *zap.Logger

	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Seasons    *handler.SeasonHandler
	Meetings   *handler.MeetingHandler
	Attendance *handler.AttendanceHandler
	Reports    *handler.ReportHandler
	Sponsors   *handler.SponsorHandler
	Scouting   *handler.ScoutingHandler
	Dashboard  *handler.DashboardHandler
	Metrics    *handler.MetricsHandler

	AuthService    *service.AuthService
	AccessService  *service.AccessService
	MetricsService *service.MetricsService
	AuditRepo      *repository.UserRepository
}

// New builds the gin engine with all middleware and routes registered.
func New(deps Deps) *gin.Engine {
	cfg := deps.Config
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.MetricsService))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", deps.Metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", deps.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", deps.Auth.Login)
	auth.POST("/refresh", deps.Auth.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.AuthService))

	authed.POST("/auth/logout", deps.Auth.Logout)
	authed.POST("/auth/change-password", deps.Auth.ChangePassword)
	authed.GET("/auth/me", deps.Auth.Me)

	authed.GET("/metrics/snapshot", deps.Metrics.Snapshot)

	users := authed.Group("/users")
	users.GET("", middleware.RequirePermission(deps.AccessService, models.PermManageUsers), deps.Users.List)
	users.POST("", middleware.RequirePermission(deps.AccessService, models.PermManageUsers), deps.Users.Create)
	users.GET("/:id", middleware.RequirePermissionOrSelf(deps.AccessService, models.PermManageUsers), deps.Users.Get)
	users.PUT("/:id", middleware.RequirePermission(deps.AccessService, models.PermManageUsers), deps.Users.Update)
	users.DELETE("/:id", middleware.RequirePermission(deps.AccessService, models.PermManageUsers), deps.Users.Deactivate)
	users.GET("/:id/permissions", middleware.RequirePermissionOrSelf(deps.AccessService, models.PermManageUsers), deps.Users.EffectivePermissions)
	users.POST("/:id/permissions/:permissionId",
		middleware.RequirePermission(deps.AccessService, models.PermManageUsers),
		middleware.Audit(deps.AuditRepo, models.AuditActionPermissionGrant, "user_permission"),
		deps.Users.GrantUserPermission)
	users.DELETE("/:id/permissions/:permissionId",
		middleware.RequirePermission(deps.AccessService, models.PermManageUsers),
		middleware.Audit(deps.AuditRepo, models.AuditActionPermissionRevoke, "user_permission"),
		deps.Users.RevokeUserPermission)

	groups := authed.Group("/groups")
	groups.Use(middleware.RequirePermission(deps.AccessService, models.PermManageUsers))
	groups.GET("", deps.Users.ListGroups)
	groups.POST("", deps.Users.CreateGroup)
	groups.GET("/:id/permissions", deps.Users.GroupPermissions)
	groups.POST("/:id/members/:userId", deps.Users.AddGroupMember)
	groups.DELETE("/:id/members/:userId", deps.Users.RemoveGroupMember)
	groups.POST("/:id/permissions/:permissionId",
		middleware.Audit(deps.AuditRepo, models.AuditActionPermissionGrant, "group_permission"),
		deps.Users.GrantGroupPermission)
	groups.DELETE("/:id/permissions/:permissionId",
		middleware.Audit(deps.AuditRepo, models.AuditActionPermissionRevoke, "group_permission"),
		deps.Users.RevokeGroupPermission)

	authed.GET("/permissions", middleware.RequirePermission(deps.AccessService, models.PermManageUsers), deps.Users.ListPermissions)

	seasons := authed.Group("/seasons")
	seasons.GET("", deps.Seasons.List)
	seasons.GET("/current", deps.Seasons.Current)
	seasons.GET("/:id", deps.Seasons.Get)
	seasons.POST("", middleware.RequirePermission(deps.AccessService, models.PermManageSeasons), deps.Seasons.Create)
	seasons.PUT("/:id", middleware.RequirePermission(deps.AccessService, models.PermManageSeasons), deps.Seasons.Update)
	seasons.POST("/:id/set-current",
		middleware.RequirePermission(deps.AccessService, models.PermManageSeasons),
		middleware.Audit(deps.AuditRepo, models.AuditActionSeasonChange, "season"),
		deps.Seasons.SetCurrent)

	meetings := authed.Group("/meetings")
	meetings.GET("", deps.Meetings.List)
	meetings.GET("/:id", deps.Meetings.Get)
	meetings.POST("", middleware.RequirePermission(deps.AccessService, models.PermManageMeetings), deps.Meetings.Create)
	meetings.PUT("/:id", middleware.RequirePermission(deps.AccessService, models.PermManageMeetings), deps.Meetings.Update)
	meetings.DELETE("/:id", middleware.RequirePermission(deps.AccessService, models.PermManageMeetings), deps.Meetings.Void)
	// End checks manage_meetings itself through the access gate so the denial
	// is observable as a gate outcome, not just a 403.
	meetings.POST("/:id/end", deps.Meetings.End)

	attendance := authed.Group("/attendance")
	attendance.GET("", deps.Attendance.List)
	attendance.GET("/:id", deps.Attendance.Get)
	attendance.POST("", middleware.RequirePermission(deps.AccessService, models.PermRecordAttendance, models.PermApproveHours), deps.Attendance.Save)
	attendance.DELETE("/:id", middleware.RequirePermission(deps.AccessService, models.PermApproveHours), deps.Attendance.Void)

	reports := authed.Group("/reports")
	reports.Use(middleware.RequirePermission(deps.AccessService, models.PermViewReports))
	reports.GET("/meeting-hours", deps.Reports.MeetingHours)
	reports.GET("/attendance", deps.Reports.AttendanceReport)
	if cfg.Exports.Enabled {
		reports.GET("/attendance/export", deps.Reports.Export)
	}

	sponsors := authed.Group("/sponsors")
	sponsors.GET("", deps.Sponsors.List)
	sponsors.GET("/totals", deps.Sponsors.Totals)
	sponsors.GET("/:id", deps.Sponsors.Get)
	sponsors.POST("", middleware.RequirePermission(deps.AccessService, models.PermManageSponsors), deps.Sponsors.Create)
	sponsors.PUT("/:id", middleware.RequirePermission(deps.AccessService, models.PermManageSponsors), deps.Sponsors.Update)
	sponsors.DELETE("/:id", middleware.RequirePermission(deps.AccessService, models.PermManageSponsors), deps.Sponsors.Deactivate)

	scouting := authed.Group("/scouting")
	scouting.GET("/events", deps.Scouting.ListEvents)
	scouting.POST("/events", middleware.RequirePermission(deps.AccessService, models.PermManageSeasons), deps.Scouting.CreateEvent)
	scouting.GET("/match-forms", deps.Scouting.ListMatchForms)
	scouting.POST("/match-forms", middleware.RequirePermission(deps.AccessService, models.PermSubmitScouting), deps.Scouting.SubmitMatchForm)
	scouting.GET("/pit-forms", deps.Scouting.ListPitForms)
	scouting.POST("/pit-forms", middleware.RequirePermission(deps.AccessService, models.PermSubmitScouting), deps.Scouting.SubmitPitForm)
	scouting.GET("/coverage", deps.Scouting.Coverage)

	if cfg.Dashboard.Enabled {
		authed.GET("/dashboard", middleware.RequirePermission(deps.AccessService, models.PermViewDashboard), deps.Dashboard.Snapshot)
	}

	return r
}
