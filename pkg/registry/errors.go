package registry

import "fmt"

// NotFoundError is returned when a node type is not registered.
type NotFoundError struct {
	Type string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("node type %q not registered", e.Type)
}

// HotReloadDisabledError is returned by ReloadCustomNodes when the registry
// was configured without hot reload.
type HotReloadDisabledError struct{}

func (e *HotReloadDisabledError) Error() string {
	return "hot reload of custom nodes is disabled"
}
