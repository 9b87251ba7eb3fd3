package service

import (
	"context"

	"github.com/devang9890/resume/internal/domain/resume"
)

type EventPublisher interface {
	Publish(ctx context.Context, evt resume.Event) error
}
