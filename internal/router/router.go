package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/coursedesk/coursedesk-backend/internal/config"
	"github.com/coursedesk/coursedesk-backend/internal/handler"
	"github.com/coursedesk/coursedesk-backend/internal/middleware"
	"github.com/coursedesk/coursedesk-backend/internal/response"
	"github.com/coursedesk/coursedesk-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Course    *handler.CourseHandler
	Import    *handler.ImportHandler
	Wizard    *handler.WizardHandler
	Dashboard *handler.DashboardHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/faculty/login", handlers.Auth.FacultyLogin)

		// Authenticated profile routes
		auth.POST("/faculty/logout", middleware.RequireFacultyJWT(authService), handlers.Auth.FacultyLogout)
		auth.GET("/faculty/me", middleware.RequireFacultyJWT(authService), handlers.Auth.GetFacultyProfile)
	}

	// ─── 2. Faculty Group (JWT + Single Device) ────────────────────────
	facultyAPI := router.Group("/api/v1/faculty")
	facultyAPI.Use(
		middleware.RequireFacultyJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		// Dashboard
		facultyAPI.GET("/dashboard", handlers.Dashboard.GetDashboard)

		// Course catalog. Static segments before :slug so Gin routes
		// /courses/export to the exporter, not to GetCourse.
		facultyAPI.GET("/courses", handlers.Course.ListCourses)
		facultyAPI.GET("/courses/export", handlers.Course.ExportCourses)
		facultyAPI.GET("/courses/import/template", middleware.CacheControl(86400), handlers.Course.ImportTemplate)
		facultyAPI.POST("/courses/import", handlers.Import.UploadSheet)
		facultyAPI.GET("/courses/:slug", handlers.Course.GetCourse)
		facultyAPI.GET("/courses/:slug/schedules", handlers.Course.GetCourseSchedules)
		facultyAPI.PATCH("/courses/:slug/archive", handlers.Course.ArchiveCourse)
		facultyAPI.PATCH("/courses/:slug/unarchive", handlers.Course.UnarchiveCourse)

		// Schedule wizard
		facultyAPI.POST("/wizard", handlers.Wizard.StartWizard)
		facultyAPI.GET("/wizard/:id", handlers.Wizard.GetWizard)
		facultyAPI.POST("/wizard/:id/next", handlers.Wizard.NextStep)
		facultyAPI.POST("/wizard/:id/back", handlers.Wizard.BackStep)
		facultyAPI.POST("/wizard/:id/skip", handlers.Wizard.SkipStep)
		facultyAPI.POST("/wizard/:id/cancel", handlers.Wizard.CancelWizard)
		facultyAPI.POST("/wizard/:id/submit", handlers.Wizard.SubmitWizard)
	}

	return router
}
