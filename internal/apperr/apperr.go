// Package apperr defines the error kinds surfaced by the query layer.
//
// Every kind is a sentinel that constructors wrap with %w, so callers
// classify failures with errors.Is regardless of how much context was
// added on the way up:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a required-but-empty caller argument.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a missing task, section, or document.
	ErrNotFound = errors.New("not found")

	// ErrToolNotImplemented marks a harness call for an unregistered tool.
	ErrToolNotImplemented = errors.New("tool not implemented")
)

// Validation returns an error wrapping ErrValidation.
func Validation(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFound returns an error wrapping ErrNotFound.
func NotFound(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// NotFoundCause is NotFound with an underlying cause kept inspectable.
func NotFoundCause(cause error, format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...), cause: cause}
}

// ToolNotImplemented returns an error wrapping ErrToolNotImplemented.
func ToolNotImplemented(name string) error {
	return &kindError{kind: ErrToolNotImplemented, msg: "tool not implemented: " + name}
}

// IsCallerError reports whether err is something the caller can fix
// (bad argument or missing target) rather than an infrastructure failure.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrToolNotImplemented)
}

// kindError carries the message shown to callers, the sentinel kind,
// and an optional cause.
type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string {
	return e.msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *kindError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}
