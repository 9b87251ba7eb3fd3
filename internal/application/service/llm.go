package service

import (
	"context"
)

// ResumeExtractor turns free-form resume text into a candidate document.
// The candidate is untrusted and must be validated before use. Failures
// are *ExtractionError.
type ResumeExtractor interface {
	Extract(ctx context.Context, rawText, titleHint string) (map[string]any, error)
}

type EnhanceTarget string

const (
	EnhanceProfessionalSummary EnhanceTarget = "professional_summary"
	EnhanceJobDescription      EnhanceTarget = "job_description"
)

// TextEnhancer rewrites a short passage of resume prose.
type TextEnhancer interface {
	Enhance(ctx context.Context, target EnhanceTarget, text string) (string, error)
}
