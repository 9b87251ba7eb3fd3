package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/devang9890/resume/adapters/event"
	"github.com/devang9890/resume/adapters/media_storage"
	workerUC "github.com/devang9890/resume/internal/application/usecase/resume"
	"github.com/devang9890/resume/internal/config"
	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/pkg/logger"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, "resume-worker")
	defer appLogger.Sync()
	appLogger.Info("Starting Resume Worker...")

	// Cloudinary
	transformer, err := media_storage.NewCloudinaryTransformer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize image transformer", err)
	}

	// Worker Use Case
	processEventUC := workerUC.NewProcessResumeEventUseCase(transformer, appLogger)

	// Kafka Consumer
	consumer := event.NewReader(cfg)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Worker listening", zap.String("topic", resume.EventsTopic), zap.String("group", event.ConsumerGroup))
	if err := event.Consume(ctx, consumer, processEventUC.Execute, appLogger); err != nil {
		appLogger.Error("Consumer stopped", err)
	}
	appLogger.Info("Worker stopped")
}
