package semantics

import (
	"errors"
	"fmt"
	"strings"
)

// DefinitionError indicates an invalid model definition. It is returned by
// New, before any request can be served.
type DefinitionError struct {
	msg string
}

func newDefinitionError(format string, args ...any) *DefinitionError {
	return &DefinitionError{msg: fmt.Sprintf(format, args...)}
}

func (e *DefinitionError) Error() string {
	return e.msg
}

// IsDefinitionError checks if the error is a DefinitionError.
func IsDefinitionError(err error) bool {
	var e *DefinitionError
	return errors.As(err, &e)
}

// DisallowedOperatorError indicates a request used an operator outside the
// filter's declared operator set.
type DisallowedOperatorError struct {
	Filter   string
	Operator Operator
	Allowed  []Operator
}

func newDisallowedOperatorError(filter string, op Operator, allowed []Operator) *DisallowedOperatorError {
	return &DisallowedOperatorError{Filter: filter, Operator: op, Allowed: allowed}
}

func (e *DisallowedOperatorError) Error() string {
	names := make([]string, len(e.Allowed))
	for i, op := range e.Allowed {
		names[i] = string(op)
	}
	return fmt.Sprintf("operator %q is not allowed for filter %q (allowed: %s)",
		e.Operator, e.Filter, strings.Join(names, ", "))
}

// IsDisallowedOperatorError checks if the error is a DisallowedOperatorError.
func IsDisallowedOperatorError(err error) bool {
	var e *DisallowedOperatorError
	return errors.As(err, &e)
}

// UnsortableFieldError indicates an order-by field is not in the model's
// sortable set.
type UnsortableFieldError struct {
	Field string
}

func newUnsortableFieldError(field string) *UnsortableFieldError {
	return &UnsortableFieldError{Field: field}
}

func (e *UnsortableFieldError) Error() string {
	return fmt.Sprintf("field %q is not sortable", e.Field)
}

// IsUnsortableFieldError checks if the error is an UnsortableFieldError.
func IsUnsortableFieldError(err error) bool {
	var e *UnsortableFieldError
	return errors.As(err, &e)
}

// UnknownFieldError indicates a request referenced a name the model does not
// declare. Only raised when the model is built with Strict set; the default
// behavior is to drop unknown names silently.
type UnknownFieldError struct {
	Kind    string // "dimension", "metric" or "filter"
	Name    string
	Allowed []string
}

func newUnknownFieldError(kind, name string, allowed []string) *UnknownFieldError {
	return &UnknownFieldError{Kind: kind, Name: name, Allowed: allowed}
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown %s %q (allowed: %s)", e.Kind, e.Name, strings.Join(e.Allowed, ", "))
}

// IsUnknownFieldError checks if the error is an UnknownFieldError.
func IsUnknownFieldError(err error) bool {
	var e *UnknownFieldError
	return errors.As(err, &e)
}

// InvalidExpressionError wraps a filter expression that failed to parse or
// referenced an undeclared filter name.
type InvalidExpressionError struct {
	Expression string
	Err        error
}

func newInvalidExpressionError(expr string, err error) *InvalidExpressionError {
	return &InvalidExpressionError{Expression: expr, Err: err}
}

func (e *InvalidExpressionError) Error() string {
	return fmt.Sprintf("invalid filter expression %q: %v", e.Expression, e.Err)
}

func (e *InvalidExpressionError) Unwrap() error {
	return e.Err
}

// IsInvalidExpressionError checks if the error is an InvalidExpressionError.
func IsInvalidExpressionError(err error) bool {
	var e *InvalidExpressionError
	return errors.As(err, &e)
}

// IsValidationError reports whether the error belongs to the request
// validation taxonomy, i.e. should be treated as a bad request rather than an
// internal failure.
func IsValidationError(err error) bool {
	return IsDisallowedOperatorError(err) ||
		IsUnsortableFieldError(err) ||
		IsUnknownFieldError(err) ||
		IsInvalidExpressionError(err)
}
