package router

import (
	"net/http"
	"time"

	"github.com/akademix/examly-backend/internal/config"
	"github.com/akademix/examly-backend/internal/handler"
	"github.com/akademix/examly-backend/internal/middleware"
	"github.com/akademix/examly-backend/internal/model"
	"github.com/akademix/examly-backend/internal/response"
	"github.com/akademix/examly-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Attempt   *handler.AttemptHandler
	Answer    *handler.AnswerHandler
	Integrity *handler.IntegrityHandler
	Exam      *handler.ExamHandler
	Monitor   *handler.MonitorHandler
	WS        *handler.WSHandler
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

	// Health check and Prometheus scrape endpoint.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/student/login", handlers.Auth.StudentLogin)
		auth.POST("/staff/login", handlers.Auth.StaffLogin)

		// Authenticated profile routes
		auth.POST("/student/logout", middleware.RequireStudentJWT(authService), handlers.Auth.StudentLogout)
		auth.GET("/student/me", middleware.RequireStudentJWT(authService), handlers.Auth.GetStudentProfile)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/lobby", handlers.Attempt.GetLobby)
		studentAPI.POST("/attempts", handlers.Attempt.StartAttempt)
		studentAPI.GET("/attempts/:id", handlers.Attempt.GetAttempt)
		studentAPI.POST("/attempts/:id/submit", handlers.Attempt.SubmitAttempt)
		studentAPI.POST("/attempts/:id/heartbeat", handlers.Attempt.SaveHeartbeat)
		studentAPI.GET("/attempts/:id/resume", handlers.Attempt.ResumeAttempt)
		studentAPI.PUT("/attempts/:id/answers/:question_id", handlers.Answer.SaveAnswer)
		studentAPI.GET("/attempts/:id/answers", handlers.Answer.ListAnswers)
		studentAPI.POST("/attempts/:id/integrity-events", handlers.Integrity.RecordEvent)
	}

	// ─── 3. WebSocket Group (Staff WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStaffWSAuth(authService))
	{
		ws.GET("/staff/exams/:id/integrity", handlers.WS.IntegrityFeed)
	}

	// ─── 4. Staff Group (JWT + Role) ───────────────────────────────────
	staffAPI := router.Group("/api/v1/staff")
	staffAPI.Use(middleware.RequireStaffJWT(authService))
	{
		// Exam management (admins only)
		staffAPI.POST("/exams",
			middleware.RequireRole(model.StaffRoleAdmin),
			handlers.Exam.CreateExam,
		)
		staffAPI.PUT("/exams/:id",
			middleware.RequireRole(model.StaffRoleAdmin),
			handlers.Exam.UpdateExam,
		)
		staffAPI.DELETE("/exams/:id",
			middleware.RequireRole(model.StaffRoleAdmin),
			handlers.Exam.DeleteExam,
		)
		staffAPI.POST("/exams/:id/publish",
			middleware.RequireRole(model.StaffRoleAdmin),
			handlers.Exam.PublishExam,
		)
		staffAPI.POST("/exams/:id/archive",
			middleware.RequireRole(model.StaffRoleAdmin),
			handlers.Exam.ArchiveExam,
		)
		staffAPI.PUT("/exams/:id/questions",
			middleware.RequireRole(model.StaffRoleAdmin),
			handlers.Exam.ReplaceQuestions,
		)

		// Read surfaces for proctors and admins
		staffAPI.GET("/exams", handlers.Exam.ListExams)
		staffAPI.GET("/exams/:id", handlers.Exam.GetExam)
		staffAPI.GET("/exams/:id/questions", handlers.Exam.ListQuestions)
		staffAPI.GET("/exams/:id/attempts", handlers.Exam.ListAttempts)
		staffAPI.GET("/exams/:id/monitor", handlers.Monitor.GetExamSnapshot)
		staffAPI.GET("/attempts/:id/answers", handlers.Answer.ListAttemptAnswers)
		staffAPI.GET("/attempts/:id/integrity-events", handlers.Integrity.ListEvents)
		staffAPI.GET("/notifications", handlers.Monitor.ListNotifications)

		// Session administration
		staffAPI.POST("/students/:id/reset-session",
			middleware.RequireRole(model.StaffRoleAdmin),
			handlers.Auth.ResetStudentSession,
		)
	}

	return router
}
