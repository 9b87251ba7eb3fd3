package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/pkg/apperror"
	"github.com/devang9890/resume/pkg/logger"
)

const extractionSystemPrompt = "You are an expert AI agent that extracts structured data from resumes."

const extractionTemplate = `{
  "professional_summary": "",
  "skills": [],
  "personal_info": {
    "image": "",
    "full_name": "",
    "profession": "",
    "email": "",
    "phone": "",
    "location": "",
    "linkedin": "",
    "website": ""
  },
  "experience": [
    {
      "company": "",
      "position": "",
      "start_date": "",
      "end_date": "",
      "description": "",
      "is_current": false
    }
  ],
  "projects": [
    {
      "name": "",
      "type": "",
      "description": "",
      "link": ""
    }
  ],
  "education": [
    {
      "institution": "",
      "degree": "",
      "field": "",
      "graduation_date": "",
      "gpa": ""
    }
  ]
}`

type openAIExtractor struct {
	client *openai.Client
	model  string
	log    logger.Logger
}

func NewResumeExtractor(client *openai.Client, model string, log logger.Logger) service.ResumeExtractor {
	return &openAIExtractor{client: client, model: model, log: log}
}

func extractionPrompt(rawText, titleHint string) string {
	var b strings.Builder
	b.WriteString("Extract data from this resume text and return it as a pure JSON object in the following format:\n")
	b.WriteString(extractionTemplate)
	b.WriteString("\n\nUse empty strings and empty arrays for anything the text does not mention.")
	if titleHint != "" {
		fmt.Fprintf(&b, "\nThe document is titled %q.", titleHint)
	}
	b.WriteString("\n\nResume text:\n")
	b.WriteString(rawText)
	return b.String()
}

// Extract makes exactly one request. Retrying is the caller's decision.
func (e *openAIExtractor) Extract(ctx context.Context, rawText, titleHint string) (map[string]any, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: extractionPrompt(rawText, titleHint)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	content, err := complete(ctx, e.client, req)
	if err != nil {
		return nil, err
	}

	candidate, err := parseCandidate(content)
	if err != nil {
		e.log.Warn("Extraction response is not a JSON object", zap.Int("length", len(content)), zap.Error(err))
		return nil, &service.ExtractionError{Kind: apperror.KindMalformedPayload, Message: err.Error(), Err: err}
	}
	return candidate, nil
}

// parseCandidate accepts a bare JSON object, optionally wrapped in a
// markdown code fence.
func parseCandidate(content string) (map[string]any, error) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is %T, want object", v)
	}
	return obj, nil
}
