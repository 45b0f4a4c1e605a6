package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrProvider      = errors.New("provider error")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// serviceError keeps the stage/operation tags separate from the human-readable
// message so Details can surface the bare message while Error() renders the
// fully tagged form.
type serviceError struct {
	marker    error
	stage     string
	operation string
	message   string
	cause     error
}

func (e *serviceError) Error() string {
	detail := buildDetail(e.stage, e.operation, e.message)
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.marker, detail, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.marker, detail)
}

func (e *serviceError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.marker, e.cause}
	}
	return []error{e.marker}
}

// Wrap builds an error carrying stage context while tagging it with the
// provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrTransient
	}
	return &serviceError{
		marker:    marker,
		stage:     strings.TrimSpace(stage),
		operation: strings.TrimSpace(operation),
		message:   strings.TrimSpace(message),
		cause:     err,
	}
}

// ErrorDetails summarizes a wrapped service error. Message is the bare
// human-readable message without stage/operation tags.
type ErrorDetails struct {
	Message   string
	Stage     string
	Operation string
	Marker    error
	Cause     error
}

var markers = []error{
	ErrValidation,
	ErrConfiguration,
	ErrNotFound,
	ErrProvider,
	ErrTimeout,
	ErrTransient,
}

// Details resolves the marker and the human-readable message for a service
// error. For errors not produced by Wrap the full error text is the message.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	details := ErrorDetails{Message: err.Error()}
	for _, marker := range markers {
		if errors.Is(err, marker) {
			details.Marker = marker
			break
		}
	}
	var svcErr *serviceError
	if errors.As(err, &svcErr) {
		details.Stage = svcErr.stage
		details.Operation = svcErr.operation
		details.Cause = svcErr.cause
		switch {
		case svcErr.message != "":
			details.Message = svcErr.message
		case svcErr.cause != nil:
			details.Message = svcErr.cause.Error()
		default:
			details.Message = buildDetail(svcErr.stage, svcErr.operation, "")
		}
	}
	return details
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage != "" {
		parts = append(parts, stage)
	}
	if operation != "" {
		parts = append(parts, operation)
	}
	if message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
