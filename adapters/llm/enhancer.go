package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/devang9890/resume/internal/application/service"
)

var enhancePrompts = map[service.EnhanceTarget]string{
	service.EnhanceProfessionalSummary: "You are an expert in resume writing. Your task is to enhance the professional summary of a resume. " +
		"The summary should be 1-2 sentences, highlighting key skills, experience, and career objectives. " +
		"Make it compelling, ATS-friendly, and return only the improved text.",
	service.EnhanceJobDescription: "You are an expert in resume writing. Your task is to enhance the job description section of a resume. " +
		"Make each point action-oriented, impactful, and ATS-optimized using strong verbs and quantifiable achievements. " +
		"Return only the improved text.",
}

type openAIEnhancer struct {
	client *openai.Client
	model  string
}

func NewTextEnhancer(client *openai.Client, model string) service.TextEnhancer {
	return &openAIEnhancer{client: client, model: model}
}

func (e *openAIEnhancer) Enhance(ctx context.Context, target service.EnhanceTarget, text string) (string, error) {
	prompt, ok := enhancePrompts[target]
	if !ok {
		return "", fmt.Errorf("unknown enhance target %q", target)
	}

	content, err := complete(ctx, e.client, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}
