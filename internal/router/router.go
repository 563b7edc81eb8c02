package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hirepulse/hirepulse-backend/internal/config"
	"github.com/hirepulse/hirepulse-backend/internal/handler"
	"github.com/hirepulse/hirepulse-backend/internal/middleware"
	"github.com/hirepulse/hirepulse-backend/internal/response"
	"github.com/hirepulse/hirepulse-backend/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Candidate *handler.CandidateHandler
	Practice  *handler.PracticeHandler
	Exam      *handler.ExamHandler
	Monitor   *handler.MonitorHandler
	WS        *handler.WSHandler
}

// Limiters are the per-key request budgets. Cleanup is owned by the caller.
type Limiters struct {
	Auth *middleware.RateLimiter
	AI   *middleware.RateLimiter
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	limiters *Limiters,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
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

	router.Use(response.RequestIDMiddleware())

	// XLSX is already zipped.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		SkipPaths: []string{"/export", "/metrics"},
	}))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/exams/:code", middleware.CacheControl(60), handlers.Exam.GetBriefing)
		publicAPI.GET("/leaderboard", middleware.NoStore(), handlers.Exam.GlobalLeaderboard)
	}

	requireSession := []gin.HandlerFunc{
		middleware.RequireJWT(authService),
		middleware.CheckActiveSession(authService),
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(limiters.Auth.Middleware())
	{
		auth.POST("/signup", handlers.Auth.SignUp)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/exam/login", handlers.Auth.ExamLogin)

		auth.POST("/logout", append(requireSession, handlers.Auth.Logout)...)
		auth.GET("/me", append(requireSession, handlers.Auth.Me)...)
	}

	// ─── 2. Candidate Group (JWT + Latest Login) ───────────────────────
	candidateAPI := router.Group("/api/v1/candidate")
	candidateAPI.Use(requireSession...)
	candidateAPI.Use(middleware.RequireCandidate())
	{
		candidateAPI.GET("/dashboard", handlers.Candidate.Dashboard)
		candidateAPI.GET("/sessions", handlers.Candidate.Sessions)
		candidateAPI.PUT("/profile", handlers.Candidate.UpdateProfile)

		ai := candidateAPI.Group("")
		ai.Use(limiters.AI.Middleware())
		ai.POST("/coding/challenge", handlers.Practice.CodingChallenge)
		ai.POST("/coding/validate", handlers.Practice.ValidateCode)
		ai.POST("/resume/analyze", handlers.Practice.AnalyzeResume)
	}

	// ─── 3. WebSocket Group (candidate or exam-context token) ──────────
	ws := router.Group("/ws/v1")
	ws.Use(requireSession...)
	ws.Use(middleware.RequireInterviewee())
	{
		ws.GET("/interview/stream", handlers.WS.InterviewStream)
	}

	// ─── 4. Recruiter Group ────────────────────────────────────────────
	recruiterAPI := router.Group("/api/v1/recruiter")
	recruiterAPI.Use(requireSession...)
	recruiterAPI.Use(middleware.RequireRecruiter())
	{
		recruiterAPI.GET("/company", handlers.Exam.GetCompany)
		recruiterAPI.PUT("/company", handlers.Exam.UpdateCompany)

		recruiterAPI.POST("/exams", handlers.Exam.CreateExam)
		recruiterAPI.GET("/exams", handlers.Exam.ListExams)
		recruiterAPI.GET("/exams/:code/export", handlers.Exam.ExportResults)
		recruiterAPI.GET("/exams/:code/monitor", handlers.Monitor.MonitorExamSSE)

		recruiterAPI.GET("/leaderboard", handlers.Exam.Leaderboard)
	}

	return router
}
