package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/leaxer/engine/pkg/inference"
	"github.com/leaxer/engine/pkg/node"
)

// DefaultTextModel is used when a text generation node has no model
// configured.
const DefaultTextModel = "anthropic:claude-sonnet-4-6"

// textGeneration drives a text model through pkg/inference. The model runner
// itself (process pools, GPU placement) stays external; this node only
// issues one blocking completion per invocation.
type textGeneration struct {
	newClient func(modelID string) (inference.Client, error)
}

func (t *textGeneration) Type() string        { return "generate.text" }
func (t *textGeneration) Label() string       { return "Text Generation" }
func (t *textGeneration) Category() string    { return "Generation/Text" }
func (t *textGeneration) Description() string { return "Generates text from a prompt" }

func (t *textGeneration) InputSpec() map[string]node.FieldSpec {
	return map[string]node.FieldSpec{
		"prompt": {
			Type:      node.TypeString,
			Label:     "Prompt",
			Multiline: true,
		},
		"system": {
			Type:     node.TypeString,
			Label:    "System Prompt",
			Optional: true,
			Default:  "",
		},
		"model": {
			Type:         node.TypeString,
			Label:        "Model",
			Default:      DefaultTextModel,
			Configurable: true,
			Description:  "provider:model-name",
		},
		"max_tokens": {
			Type:         node.TypeInteger,
			Label:        "Max Tokens",
			Default:      1024,
			Configurable: true,
		},
	}
}

func (t *textGeneration) OutputSpec() map[string]node.FieldSpec {
	return map[string]node.FieldSpec{
		"text": {Type: node.TypeString, Label: "Text"},
	}
}

func (t *textGeneration) Process(ctx context.Context, inputs, config map[string]any) (map[string]any, error) {
	resolved := node.ResolveAll(inputs, config, t.InputSpec())

	prompt, _ := resolved["prompt"].(string)
	if prompt == "" {
		return nil, fmt.Errorf("generate.text: prompt is empty")
	}
	modelID, _ := resolved["model"].(string)
	system, _ := resolved["system"].(string)
	maxTokens := 0
	if n, ok := intValue(resolved["max_tokens"]); ok {
		maxTokens = n
	}

	client, err := t.newClient(modelID)
	if err != nil {
		return nil, fmt.Errorf("generate.text: %w", err)
	}
	resp, err := client.Complete(ctx, inference.Request{
		System:    system,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate.text: %w", err)
	}
	return map[string]any{"text": resp.Text}, nil
}

// intValue converts the integral representations a decoded graph may carry.
// Parsed workflows hold json.Number config values, not native ints.
func intValue(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return int(x), true
		}
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i), true
		}
		if f, err := x.Float64(); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int(f), true
		}
	}
	return 0, false
}
