package workflow

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind identifies a class of validation or scheduling failure.
type ErrorKind string

const (
	ErrInvalidGraphFormat       ErrorKind = "invalid_graph_format"
	ErrInvalidEdgeReference     ErrorKind = "invalid_edge_reference"
	ErrInvalidHandleDirection   ErrorKind = "invalid_handle_direction"
	ErrMultipleInputConnections ErrorKind = "multiple_input_connections"
	ErrTypeMismatch             ErrorKind = "type_mismatch"
	ErrCycleDetected            ErrorKind = "cycle_detected"
)

// Error is a structured validation or scheduling failure. Kind names the
// violation; Meta carries the offending identifiers for diagnostics.
type Error struct {
	Kind ErrorKind
	Meta map[string]any
}

func (e *Error) Error() string {
	if len(e.Meta) == 0 {
		return string(e.Kind)
	}
	keys := make([]string, 0, len(e.Meta))
	for k := range e.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Meta[k]))
	}
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(parts, " "))
}

// KindOf extracts the ErrorKind from err, or "" if err is not a workflow
// Error.
func KindOf(err error) ErrorKind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}
