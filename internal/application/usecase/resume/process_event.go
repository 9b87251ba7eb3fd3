package resume

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/pkg/logger"
	"github.com/devang9890/resume/pkg/metrics"
)

// ProcessResumeEventUseCase runs in the worker. It destroys image assets
// that a committed change left unreferenced.
type ProcessResumeEventUseCase struct {
	transformer service.ImageTransformer
	logger      logger.Logger
}

func NewProcessResumeEventUseCase(transformer service.ImageTransformer, log logger.Logger) *ProcessResumeEventUseCase {
	return &ProcessResumeEventUseCase{transformer: transformer, logger: log}
}

func (uc *ProcessResumeEventUseCase) Execute(ctx context.Context, evt resume.Event) error {
	log := uc.logger.With(zap.String("type", string(evt.Type)), zap.String("resume_id", evt.ResumeID.String()))

	switch evt.Type {
	case resume.EventImageReplaced, resume.EventDeleted:
		if evt.AssetID == "" {
			metrics.ObserveEvent(string(evt.Type), "skipped")
			return nil
		}
		if err := uc.transformer.Delete(ctx, evt.AssetID); err != nil {
			metrics.ObserveEvent(string(evt.Type), "failed")
			return fmt.Errorf("destroy asset %s: %w", evt.AssetID, err)
		}
		log.Info("Destroyed unreferenced image asset", zap.String("asset_id", evt.AssetID))
	case resume.EventCreated, resume.EventUpdated:
		log.Debug("Resume lifecycle event")
	default:
		log.Warn("Unknown resume event type, skip.")
		metrics.ObserveEvent(string(evt.Type), "skipped")
		return nil
	}

	metrics.ObserveEvent(string(evt.Type), metrics.OutcomeOK)
	return nil
}
