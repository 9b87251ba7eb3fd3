package resume

import (
	"context"
	"strings"
	"time"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/pkg/apperror"
)

// MaxEnhanceLength bounds the prose sent for rewriting, in bytes.
const MaxEnhanceLength = 5000

type EnhanceTextUseCase struct {
	enhancer service.TextEnhancer
	timeout  time.Duration
}

func NewEnhanceTextUseCase(enhancer service.TextEnhancer, timeout time.Duration) *EnhanceTextUseCase {
	return &EnhanceTextUseCase{enhancer: enhancer, timeout: timeout}
}

type EnhanceTextInput struct {
	Target service.EnhanceTarget
	Text   string
}

type EnhanceTextOutput struct {
	Content string
}

func (uc *EnhanceTextUseCase) Execute(ctx context.Context, input EnhanceTextInput) (*EnhanceTextOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, apperror.NewInvalidInput("text to enhance is required", nil)
	}
	if len(text) > MaxEnhanceLength {
		return nil, apperror.NewInvalidInput("text to enhance is too long", nil)
	}

	callCtx, cancel := withCallTimeout(ctx, uc.timeout)
	defer cancel()

	content, err := uc.enhancer.Enhance(callCtx, input.Target, text)
	if err != nil {
		kind := apperror.KindOf(err)
		if timedOut(ctx, callCtx) {
			kind = apperror.KindTransport
		}
		return nil, apperror.NewUpstream(kind, "text enhancement failed", err)
	}
	if content == "" {
		return nil, apperror.NewUpstream(apperror.KindEmptyResponse, "text enhancement returned nothing", nil)
	}
	return &EnhanceTextOutput{Content: content}, nil
}
