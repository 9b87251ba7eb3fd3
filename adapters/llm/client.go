package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/devang9890/resume/internal/application/service"
	"github.com/devang9890/resume/internal/config"
	"github.com/devang9890/resume/pkg/apperror"
)

const defaultHTTPTimeout = 60 * time.Second

// NewClient builds a chat completion client for any OpenAI-compatible
// endpoint.
func NewClient(cfg config.Config) (*openai.Client, error) {
	if cfg.AI.ApiKey == "" {
		return nil, fmt.Errorf("AI api key is not configured")
	}

	clientCfg := openai.DefaultConfig(cfg.AI.ApiKey)
	if cfg.AI.BaseURL != "" {
		clientCfg.BaseURL = cfg.AI.BaseURL
	}
	// Callers bound each request with their own context; the client
	// timeout only backstops a caller that forgot to.
	timeout := cfg.AI.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return openai.NewClientWithConfig(clientCfg), nil
}

// classify maps a chat completion failure onto an extraction error kind.
// Anything without an HTTP status from the provider is a transport
// failure.
func classify(err error) *service.ExtractionError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &service.ExtractionError{
			Kind:    apperror.KindProvider,
			Status:  apiErr.HTTPStatusCode,
			Message: apiErr.Message,
			Err:     err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &service.ExtractionError{
			Kind:    apperror.KindProvider,
			Status:  reqErr.HTTPStatusCode,
			Message: http.StatusText(reqErr.HTTPStatusCode),
			Err:     err,
		}
	}
	return &service.ExtractionError{
		Kind:    apperror.KindTransport,
		Message: err.Error(),
		Err:     err,
	}
}

func firstContent(resp openai.ChatCompletionResponse) (string, bool) {
	if len(resp.Choices) == 0 {
		return "", false
	}
	content := resp.Choices[0].Message.Content
	return content, strings.TrimSpace(content) != ""
}

func complete(ctx context.Context, client *openai.Client, req openai.ChatCompletionRequest) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	content, ok := firstContent(resp)
	if !ok {
		return "", &service.ExtractionError{Kind: apperror.KindEmptyResponse, Message: "provider returned no content"}
	}
	return content, nil
}
