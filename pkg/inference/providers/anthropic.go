// Package providers registers the concrete inference provider adapters.
// Import with a blank identifier to activate all of them:
//
//	import _ "github.com/leaxer/engine/pkg/inference/providers"
package providers

import (
	"context"
	"errors"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/leaxer/engine/pkg/inference"
)

func init() {
	inference.RegisterProvider("anthropic", func(modelName string) (inference.Client, error) {
		return newAnthropicClient(modelName)
	})
}

type anthropicClient struct {
	sdk       anthropicsdk.Client
	modelName string
}

func newAnthropicClient(modelName string) (*anthropicClient, error) {
	sdk := anthropicsdk.NewClient(option.WithAPIKey("")) // reads ANTHROPIC_API_KEY automatically
	return &anthropicClient{sdk: sdk, modelName: modelName}, nil
}

// Complete performs a blocking generation with retry on transient errors.
func (a *anthropicClient) Complete(ctx context.Context, req inference.Request) (inference.Response, error) {
	var resp inference.Response
	err := inference.WithRetry(ctx, 4, func() error {
		var innerErr error
		resp, innerErr = a.doComplete(ctx, req)
		return innerErr
	})
	return resp, err
}

func (a *anthropicClient) doComplete(ctx context.Context, req inference.Request) (inference.Response, error) {
	maxTokens := int64(1024)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(a.modelName),
		MaxTokens: maxTokens,
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := a.sdk.Messages.New(ctx, params)
	if err != nil {
		return inference.Response{}, mapAnthropicError(err)
	}

	var text string
	for _, b := range msg.Content {
		if b.Type == "text" {
			text += b.Text
		}
	}
	return inference.Response{
		Text:         text,
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	}, nil
}

func mapAnthropicError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *anthropicsdk.Error
	if errors.As(err, &apiErr) {
		base := inference.ProviderError{Code: apiErr.StatusCode, Message: apiErr.Error(), Cause: err}
		switch apiErr.StatusCode {
		case 429:
			return &inference.RateLimitError{ProviderError: base}
		case 401, 403:
			return &inference.AuthError{ProviderError: base}
		case 500, 502, 503, 529:
			return &inference.ServerError{ProviderError: base}
		}
	}
	return fmt.Errorf("anthropic: %w", err)
}
