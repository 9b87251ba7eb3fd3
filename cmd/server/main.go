package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/devang9890/resume/adapters/event"
	httpAdapter "github.com/devang9890/resume/adapters/http"
	"github.com/devang9890/resume/adapters/llm"
	"github.com/devang9890/resume/adapters/media_storage"
	"github.com/devang9890/resume/adapters/persistence"
	"github.com/devang9890/resume/adapters/scanner"
	"github.com/devang9890/resume/adapters/textextract"
	authUC "github.com/devang9890/resume/internal/application/usecase/auth"
	resumeUC "github.com/devang9890/resume/internal/application/usecase/resume"
	"github.com/devang9890/resume/internal/config"
	"github.com/devang9890/resume/pkg/auth"
	"github.com/devang9890/resume/pkg/logger"
	"github.com/devang9890/resume/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, "resume-api")
	defer appLogger.Sync()
	appLogger.Info("Start Resume Builder API Server...")

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "resume-api")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	resumeRepo := persistence.NewPostgresResumeRepo(dbPool)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	transformer, err := media_storage.NewCloudinaryTransformer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize image transformer", err)
	}
	aiClient, err := llm.NewClient(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI client", err)
	}
	extractor := llm.NewResumeExtractor(aiClient, cfg.AI.Model, appLogger)
	enhancer := llm.NewTextEnhancer(aiClient, cfg.AI.Model)
	imageScanner := scanner.NewClamdScanner(cfg.Clamd.Addr)
	if imageScanner == nil {
		appLogger.Warn("Image malware scanning disabled, clamd.addr is empty")
	}
	limiter := persistence.NewRedisRateLimiter(redisClient, cfg.RateLimit.AIPerMinute)

	// Use Cases
	ingestUseCase := resumeUC.NewIngestResumeUseCase(resumeRepo, extractor, kafkaClient, resumeUC.IngestOptions{
		MinTextLength: cfg.Ingestion.MinTextLength,
		CallTimeout:   cfg.AI.Timeout,
		RetryBackoff:  cfg.Ingestion.RetryBackoff,
	}, appLogger)
	updateUseCase := resumeUC.NewUpdateResumeUseCase(resumeRepo, transformer, imageScanner, kafkaClient, resumeUC.UpdateOptions{
		AssetTimeout: cfg.Cloudinary.Timeout,
	}, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(
		authUC.NewRegisterUseCase(userRepo, jwtSvc, appLogger),
		authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger),
		authUC.NewGetMeUseCase(userRepo),
	)
	resumeHandler := httpAdapter.NewResumeHandler(
		resumeUC.NewCreateResumeUseCase(resumeRepo, kafkaClient, appLogger),
		resumeUC.NewListResumesUseCase(resumeRepo),
		resumeUC.NewGetResumeUseCase(resumeRepo),
		resumeUC.NewGetPublicResumeUseCase(resumeRepo),
		updateUseCase,
		resumeUC.NewDeleteResumeUseCase(resumeRepo, kafkaClient, appLogger),
	)
	aiHandler := httpAdapter.NewAIHandler(
		ingestUseCase,
		resumeUC.NewIngestPDFUseCase(textextract.NewPDFExtractor(), ingestUseCase),
		resumeUC.NewEnhanceTextUseCase(enhancer, cfg.AI.Timeout),
	)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:   authHandler,
		ResumeHandler: resumeHandler,
		AIHandler:     aiHandler,
		JWTService:    jwtSvc,
		AILimiter:     limiter,
		Health: map[string]httpAdapter.HealthCheck{
			"postgres": dbPool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
		Logger: appLogger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
