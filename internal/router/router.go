package router

import (
	"time"

	"github.com/edutrain/training-backend/internal/config"
	"github.com/edutrain/training-backend/internal/handler"
	"github.com/edutrain/training-backend/internal/middleware"
	"github.com/edutrain/training-backend/internal/model"
	"github.com/edutrain/training-backend/internal/response"
	"github.com/edutrain/training-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Dashboard  *handler.DashboardHandler
	Course     *handler.CourseHandler
	Student    *handler.StudentHandler
	Teacher    *handler.TeacherHandler
	Department *handler.DepartmentHandler
	Class      *handler.ClassHandler
	Enrollment *handler.EnrollmentHandler
	WS         *handler.WSHandler
	System     *handler.SystemHandler
}

// Paths that stream or send already-compressed bodies.
var uncompressedPaths = []string{
	"/api/v1/students/export",
	"/api/v1/system/metrics",
	"/ws/v1/admin/events",
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// loginLimiter throttles the login endpoint per client IP.
func SetupRouter(
	authService *service.AuthService,
	loginLimiter *middleware.RateLimiter,
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
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	brotliConfig := middleware.DefaultBrotliConfig
	brotliConfig.SkipPaths = uncompressedPaths
	router.Use(middleware.BrotliWithConfig(brotliConfig))

	// Health check.
	router.GET("/health", handlers.System.Health)

	requireAuth := []gin.HandlerFunc{
		middleware.RequireJWT(authService),
		middleware.CheckSingleSession(authService),
	}
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	studentOnly := middleware.RequireRole(model.RoleStudent)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(middleware.NoStore())
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)

		authed := auth.Group("", requireAuth...)
		authed.POST("/logout", handlers.Auth.Logout)
		authed.GET("/me", handlers.Auth.Me)
		authed.PUT("/password", handlers.Auth.ChangePassword)
	}

	// ─── 2. Authenticated API (JWT + Single Session) ───────────────────
	api := router.Group("/api/v1", requireAuth...)
	{
		users := api.Group("/users", adminOnly)
		users.GET("", handlers.User.List)
		users.POST("", handlers.User.Create)
		users.PUT("/:id/status", handlers.User.UpdateStatus)

		api.GET("/dashboard", adminOnly, handlers.Dashboard.GetSummary)
		api.GET("/system/metrics", adminOnly, handlers.System.SystemMetricsSSE)

		courses := api.Group("/courses")
		courses.GET("", handlers.Course.List)
		courses.GET("/:id", handlers.Course.Get)
		courses.POST("", adminOnly, handlers.Course.Create)
		courses.PUT("/:id", adminOnly, handlers.Course.Update)
		courses.DELETE("/:id", adminOnly, handlers.Course.Delete)

		students := api.Group("/students")
		students.GET("/me", studentOnly, handlers.Student.Me)
		students.POST("/me/recharge", studentOnly, handlers.Student.Recharge)
		students.GET("/export", adminOnly, middleware.NoStore(), handlers.Student.Export)
		students.POST("/import", adminOnly, handlers.Student.Import)
		students.GET("", adminOnly, handlers.Student.List)
		students.GET("/:id", adminOnly, handlers.Student.Get)
		students.POST("", adminOnly, handlers.Student.Create)
		students.PUT("/:id", adminOnly, handlers.Student.Update)
		students.DELETE("/:id", adminOnly, handlers.Student.Delete)

		teachers := api.Group("/teachers")
		teachers.GET("", handlers.Teacher.List)
		teachers.GET("/:id", handlers.Teacher.Get)
		teachers.POST("", adminOnly, handlers.Teacher.Create)
		teachers.PUT("/:id", adminOnly, handlers.Teacher.Update)
		teachers.DELETE("/:id", adminOnly, handlers.Teacher.Delete)

		departments := api.Group("/departments")
		departments.GET("", handlers.Department.GetAll)
		departments.GET("/:id", handlers.Department.Get)
		departments.POST("", adminOnly, handlers.Department.Create)
		departments.PUT("/:id", adminOnly, handlers.Department.Update)
		departments.DELETE("/:id", adminOnly, handlers.Department.Delete)

		classes := api.Group("/classes")
		classes.GET("", handlers.Class.List)
		classes.GET("/available", studentOnly, handlers.Class.Available)
		classes.GET("/:id", handlers.Class.Get)
		classes.POST("", adminOnly, handlers.Class.Create)
		classes.PUT("/:id", adminOnly, handlers.Class.Update)
		classes.DELETE("/:id", adminOnly, handlers.Class.Delete)

		enrollments := api.Group("/enrollments")
		enrollments.GET("", handlers.Enrollment.List)
		enrollments.POST("", studentOnly, handlers.Enrollment.Apply)
		enrollments.PUT("/:id/review", adminOnly, handlers.Enrollment.Review)
	}

	// ─── 3. WebSocket Group (token in query) ───────────────────────────
	ws := router.Group("/ws/v1", requireAuth...)
	{
		ws.GET("/admin/events", adminOnly, handlers.WS.AdminEvents)
	}

	return router
}
