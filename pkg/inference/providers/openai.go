package providers

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/leaxer/engine/pkg/inference"
)

func init() {
	inference.RegisterProvider("openai", func(modelName string) (inference.Client, error) {
		return newOpenAIClient(modelName)
	})
}

type openaiClient struct {
	sdk       *openai.Client
	modelName string
}

func newOpenAIClient(modelName string) (*openaiClient, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("openai: OPENAI_API_KEY environment variable not set")
	}
	return &openaiClient{sdk: openai.NewClient(key), modelName: modelName}, nil
}

// Complete performs a blocking generation with retry on transient errors.
func (c *openaiClient) Complete(ctx context.Context, req inference.Request) (inference.Response, error) {
	var resp inference.Response
	err := inference.WithRetry(ctx, 4, func() error {
		var innerErr error
		resp, innerErr = c.doComplete(ctx, req)
		return innerErr
	})
	return resp, err
}

func (c *openaiClient) doComplete(ctx context.Context, req inference.Request) (inference.Response, error) {
	maxTokens := 1024
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.sdk.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.modelName,
		MaxTokens: maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return inference.Response{}, mapOpenAIError(err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	return inference.Response{
		Text:         text,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func mapOpenAIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		base := inference.ProviderError{Code: apiErr.HTTPStatusCode, Message: apiErr.Message, Cause: err}
		switch apiErr.HTTPStatusCode {
		case 429:
			return &inference.RateLimitError{ProviderError: base}
		case 401, 403:
			return &inference.AuthError{ProviderError: base}
		case 500, 502, 503:
			return &inference.ServerError{ProviderError: base}
		}
	}
	return fmt.Errorf("openai: %w", err)
}
