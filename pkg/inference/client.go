// Package inference provides the provider-agnostic text generation client
// used by the builtin generation nodes. Model IDs use the form
// "provider:model-name"; provider adapters register themselves from the
// providers subpackage.
package inference

import (
	"context"
	"fmt"
	"sync"
)

// Request is a single blocking text generation call.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Response is the generated text plus token accounting.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Client is the provider-agnostic inference interface. A Client is bound to
// one concrete model at construction time.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// ProviderFactory creates a Client for a model name within a provider.
type ProviderFactory func(modelName string) (Client, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]ProviderFactory{}
)

// RegisterProvider registers a factory for a named provider. Call from
// init() in provider packages.
func RegisterProvider(name string, factory ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// NewClient constructs a Client for a "provider:model-name" model ID.
func NewClient(modelID string) (Client, error) {
	provider, modelName, err := ParseModelID(modelID)
	if err != nil {
		return nil, fmt.Errorf("NewClient: %w", err)
	}
	registryMu.RLock()
	factory, ok := registry[provider]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no provider registered for %q (model ID %q)", provider, modelID)
	}
	return factory(modelName)
}

// ParseModelID splits "provider:model-name" into its parts. Both must be
// non-empty and the colon separator is required.
func ParseModelID(id string) (provider, modelName string, err error) {
	for i, c := range id {
		if c == ':' {
			p, m := id[:i], id[i+1:]
			if p == "" {
				return "", "", fmt.Errorf("model ID %q: empty provider name", id)
			}
			if m == "" {
				return "", "", fmt.Errorf("model ID %q: empty model name", id)
			}
			return p, m, nil
		}
	}
	return "", "", fmt.Errorf("model ID %q: missing 'provider:model-name' format", id)
}
