package node

import "fmt"

// FieldErrorKind discriminates field validation failures.
type FieldErrorKind string

const (
	ErrRequiredField     FieldErrorKind = "required_field"
	ErrFieldTypeMismatch FieldErrorKind = "type_mismatch"
)

// FieldError reports a field validation failure with enough metadata for a
// precise diagnostic.
type FieldError struct {
	Kind     FieldErrorKind
	Field    string
	Expected string
	Actual   string
}

func (e *FieldError) Error() string {
	switch e.Kind {
	case ErrRequiredField:
		return fmt.Sprintf("field %q: required value missing and no default declared", e.Field)
	case ErrFieldTypeMismatch:
		return fmt.Sprintf("field %q: type mismatch: expected %s, got %s", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Kind)
}
