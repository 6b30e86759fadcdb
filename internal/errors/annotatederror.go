// Package errors extends the standard library errors with annotations that
// carry [slog.Attr] and the source location where the error was raised.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
)

// annotatedError is an error with structured logging annotations attached.
type annotatedError struct {
	message string
	wrapped error
	attrs   []slog.Attr
	// source is the file:line where the error was created, e.g. "main.go:42".
	source string
}

// Error implements the error interface.
func (e *annotatedError) Error() string {
	if e.wrapped != nil {
		return e.message + ": " + e.wrapped.Error()
	}
	return e.message
}

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *annotatedError) Unwrap() error {
	return e.wrapped
}

// newAnnotated creates an annotatedError capturing the caller's source
// location. skip counts stack frames above newAnnotated, so the exported
// constructors pass 2 to point at their own caller.
func newAnnotated(message string, wrapped error, skip int, attrs ...slog.Attr) *annotatedError {
	source := ""
	if _, file, line, ok := runtime.Caller(skip); ok {
		source = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return &annotatedError{
		message: message,
		wrapped: wrapped,
		attrs:   attrs,
		source:  source,
	}
}

// NewSentinel creates a sentinel error suitable for package-level error values.
func NewSentinel(message string) error {
	return newAnnotated(message, nil, 2)
}

// Wrap annotates err with a message and optional [slog.Attr] for logging.
func Wrap(err error, message string, attrs ...slog.Attr) error {
	return newAnnotated(message, err, 2, attrs...)
}

// New, Join, Is, As, and Unwrap mirror the standard library so that callers
// only need to import this package.
func New(text string) error { return errors.New(text) }

func Join(errs ...error) error { return errors.Join(errs...) }

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func Unwrap(err error) error { return errors.Unwrap(err) }

// SlogError converts an error into a [slog.Attr] with the error message, the
// deepest annotated source location, and all annotations found in the chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	var (
		annotations []any
		source      string
	)
	walkChain(err, func(ae *annotatedError) {
		for _, attr := range ae.attrs {
			annotations = append(annotations, attr)
		}
		if ae.source != "" {
			source = ae.source
		}
	})

	args := []any{slog.String("message", err.Error())}
	if source != "" {
		args = append(args, slog.String("source", source))
	}
	if len(annotations) > 0 {
		args = append(args, slog.Group("annotations", annotations...))
	}
	return slog.Group("error", args...)
}

// walkChain visits every annotatedError in the error tree, including joined
// errors, ordered outermost first.
func walkChain(err error, visit func(*annotatedError)) {
	if err == nil {
		return
	}
	if ae, ok := err.(*annotatedError); ok { //nolint:errorlint // walking the chain manually
		visit(ae)
	}
	switch unwrapped := err.(type) { //nolint:errorlint // walking the chain manually
	case interface{ Unwrap() error }:
		walkChain(unwrapped.Unwrap(), visit)
	case interface{ Unwrap() []error }:
		for _, joined := range unwrapped.Unwrap() {
			walkChain(joined, visit)
		}
	}
}
