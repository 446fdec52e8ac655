// Package registry maintains the process-wide table of node types: builtins
// registered at startup and custom types discovered from manifest files,
// with tear-free hot reload of the custom subset.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leaxer/engine/pkg/manifest"
	"github.com/leaxer/engine/pkg/node"
)

// Source tells where a node type was registered from.
type Source string

const (
	SourceBuiltin Source = "builtin"
	SourceCustom  Source = "custom"
)

// Options configures a Registry.
type Options struct {
	// CustomNodesDir is scanned for .hcl node manifests. Empty disables
	// custom node discovery entirely.
	CustomNodesDir string
	// HotReload gates ReloadCustomNodes. Off by default: rescanning
	// arbitrary manifests at runtime is opt-in.
	HotReload bool
}

// Registry maps node type identifiers to implementations and capability
// descriptors. Builtins are registered once at startup and never
// invalidated; the custom subset is replaced wholesale on reload, so
// concurrent readers always observe either the old set or the new one,
// never a mix.
type Registry struct {
	opts     Options
	builtins map[string]node.Node

	mu     sync.RWMutex
	custom map[string]node.Node
}

// New creates a Registry with no registered types.
func New(opts Options) *Registry {
	return &Registry{
		opts:     opts,
		builtins: make(map[string]node.Node),
		custom:   make(map[string]node.Node),
	}
}

// RegisterBuiltin adds a builtin node type. Registering the same type twice
// is a wiring bug and panics.
func (r *Registry) RegisterBuiltin(n node.Node) {
	t := n.Type()
	if _, exists := r.builtins[t]; exists {
		panic(fmt.Sprintf("node type %q already registered", t))
	}
	slog.Debug("registering builtin node type", "type", t)
	r.builtins[t] = n
}

// GetModule returns the implementation for a node type. Builtins shadow
// custom types of the same name.
func (r *Registry) GetModule(nodeType string) (node.Node, bool) {
	if n, ok := r.builtins[nodeType]; ok {
		return n, true
	}
	r.mu.RLock()
	n, ok := r.custom[nodeType]
	r.mu.RUnlock()
	return n, ok
}

// GetSpec returns the capability descriptor for a node type.
func (r *Registry) GetSpec(nodeType string) (*node.NodeSpec, bool) {
	n, ok := r.GetModule(nodeType)
	if !ok {
		return nil, false
	}
	return node.SpecOf(n), true
}

// GetMetadata is GetSpec with a typed not-found error for callers that
// propagate failures instead of branching.
func (r *Registry) GetMetadata(nodeType string) (*node.NodeSpec, error) {
	spec, ok := r.GetSpec(nodeType)
	if !ok {
		return nil, &NotFoundError{Type: nodeType}
	}
	return spec, nil
}

// ListTypes returns all registered type identifiers, lexicographically
// sorted.
func (r *Registry) ListTypes() []string {
	r.mu.RLock()
	types := make([]string, 0, len(r.builtins)+len(r.custom))
	for t := range r.custom {
		types = append(types, t)
	}
	r.mu.RUnlock()
	for t := range r.builtins {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Metadata is one row of ListAllWithMetadata.
type Metadata struct {
	Type       string                    `json:"type"`
	Label      string                    `json:"label"`
	Category   string                    `json:"category"`
	InputSpec  map[string]node.FieldSpec `json:"input_spec"`
	OutputSpec map[string]node.FieldSpec `json:"output_spec"`
	Source     Source                    `json:"source"`
}

// ListAllWithMetadata returns every registered type with its descriptor and
// registration source, sorted by type identifier.
func (r *Registry) ListAllWithMetadata() []Metadata {
	out := make([]Metadata, 0, len(r.builtins))
	for t, n := range r.builtins {
		out = append(out, metadataOf(t, n, SourceBuiltin))
	}
	r.mu.RLock()
	for t, n := range r.custom {
		out = append(out, metadataOf(t, n, SourceCustom))
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

func metadataOf(t string, n node.Node, src Source) Metadata {
	return Metadata{
		Type:       t,
		Label:      n.Label(),
		Category:   n.Category(),
		InputSpec:  n.InputSpec(),
		OutputSpec: n.OutputSpec(),
		Source:     src,
	}
}

// Stats reports registry population counts; Total is always Builtin+Custom.
type Stats struct {
	Total   int `json:"total"`
	Builtin int `json:"builtin"`
	Custom  int `json:"custom"`
}

// Stats returns the current population counts.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	custom := len(r.custom)
	r.mu.RUnlock()
	return Stats{
		Total:   len(r.builtins) + custom,
		Builtin: len(r.builtins),
		Custom:  custom,
	}
}

// HotReloadEnabled reports whether ReloadCustomNodes is permitted.
func (r *Registry) HotReloadEnabled() bool {
	return r.opts.HotReload
}

// LoadCustomNodes performs the initial scan of the custom-nodes directory.
// Unlike ReloadCustomNodes it does not require hot reload to be enabled; it
// is part of startup population.
func (r *Registry) LoadCustomNodes() (int, error) {
	return r.rescan()
}

// ReloadCustomNodes rescans the custom-nodes directory and atomically
// replaces the custom subset. Builtin types are never touched; if scanning
// fails the previous custom set stays in place. Returns the number of
// custom types now registered.
func (r *Registry) ReloadCustomNodes() (int, error) {
	if !r.opts.HotReload {
		return 0, &HotReloadDisabledError{}
	}
	return r.rescan()
}

func (r *Registry) rescan() (int, error) {
	if r.opts.CustomNodesDir == "" {
		return 0, nil
	}
	nodes, err := manifest.LoadDir(r.opts.CustomNodesDir)
	if err != nil {
		return 0, fmt.Errorf("scan custom nodes: %w", err)
	}

	fresh := make(map[string]node.Node, len(nodes))
	for _, n := range nodes {
		t := n.Type()
		if _, taken := r.builtins[t]; taken {
			slog.Warn("custom node type collides with a builtin, skipping", "type", t)
			continue
		}
		fresh[t] = n
	}

	r.mu.Lock()
	r.custom = fresh
	r.mu.Unlock()

	slog.Info("custom node types loaded", "dir", r.opts.CustomNodesDir, "count", len(fresh))
	return len(fresh), nil
}
