package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devang9890/resume/pkg/auth"
	"github.com/devang9890/resume/pkg/logger"
	"github.com/devang9890/resume/pkg/metrics"
)

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

type RouterConfig struct {
	AuthHandler   *AuthHandler
	ResumeHandler *ResumeHandler
	AIHandler     *AIHandler
	JWTService    *auth.JWTService
	// AILimiter is optional. Without it the AI routes are unlimited.
	AILimiter RateLimiter
	Health    map[string]HealthCheck
	Logger    logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 16 << 20
	router.Use(gin.Recovery(), metrics.GinMiddleware(), ErrorMiddleware(cfg.Logger))

	authMiddleware := AuthMiddleware(cfg.JWTService, cfg.Logger)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler(cfg.Health, cfg.Logger))

		users := api.Group("/users")
		{
			users.POST("/register", cfg.AuthHandler.Register)
			users.POST("/login", cfg.AuthHandler.Login)
			users.GET("/me", authMiddleware, cfg.AuthHandler.Me)
		}

		resumes := api.Group("/resumes")
		resumes.Use(authMiddleware)
		{
			resumes.POST("", cfg.ResumeHandler.CreateResume)
			resumes.GET("", cfg.ResumeHandler.ListResumes)
			resumes.GET("/:id", cfg.ResumeHandler.GetResume)
			resumes.PUT("/:id", cfg.ResumeHandler.UpdateResume)
			resumes.DELETE("/:id", cfg.ResumeHandler.DeleteResume)
		}

		public := api.Group("/public")
		{
			public.GET("/resumes/:id", cfg.ResumeHandler.GetPublicResume)
		}

		ai := api.Group("/ai")
		ai.Use(authMiddleware, RateLimitMiddleware(cfg.AILimiter, "ai", cfg.Logger))
		{
			ai.POST("/upload-resume", cfg.AIHandler.UploadResume)
			ai.POST("/upload-resume-pdf", cfg.AIHandler.UploadResumePDF)
			ai.POST("/enhance-pro-sum", cfg.AIHandler.EnhanceProfessionalSummary)
			ai.POST("/enhance-job-desc", cfg.AIHandler.EnhanceJobDescription)
		}
	}

	return router
}

func healthHandler(checks map[string]HealthCheck, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		deps := gin.H{}
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				log.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
				deps[name] = "DOWN"
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "UP"
		}
		overall := "UP"
		if status != http.StatusOK {
			overall = "DOWN"
		}
		c.JSON(status, gin.H{"status": overall, "dependencies": deps})
	}
}
