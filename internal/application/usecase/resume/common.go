package resume

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/internal/domain/resume"
	"github.com/devang9890/resume/pkg/apperror"
	"github.com/devang9890/resume/pkg/logger"
)

const (
	publishTimeout = 10 * time.Second
	// defaultCallTimeout applies when no bound was configured.
	defaultCallTimeout = 60 * time.Second
)

func notFound(id uuid.UUID) *apperror.AppError {
	return apperror.NewNotFound("resume", id.String())
}

func persistenceError(details string, err error) *apperror.AppError {
	return apperror.NewInternal(details, err).WithKind(apperror.KindPersistence)
}

// withCallTimeout bounds one external call. A non-positive d falls back to
// defaultCallTimeout.
func withCallTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultCallTimeout
	}
	return context.WithTimeout(ctx, d)
}

// timedOut reports whether callCtx hit its own deadline while the parent
// was still live.
func timedOut(parent, callCtx context.Context) bool {
	return parent.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded)
}

// publishAsync sends events in order on a detached context. Delivery
// failures are logged; the committed document is never rolled back.
func publishAsync(pub service.EventPublisher, log logger.Logger, events ...resume.Event) {
	if pub == nil || len(events) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		for _, evt := range events {
			if err := pub.Publish(ctx, evt); err != nil {
				log.Error("Failed to publish resume event", err,
					zap.String("type", string(evt.Type)),
					zap.String("resume_id", evt.ResumeID.String()))
			}
		}
	}()
}

// discardAsset destroys an uploaded image that no document references.
func discardAsset(transformer service.ImageTransformer, log logger.Logger, assetID string) {
	if assetID == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := transformer.Delete(ctx, assetID); err != nil {
			log.Warn("Failed to discard orphaned image asset", zap.String("asset_id", assetID), zap.Error(err))
		}
	}()
}
