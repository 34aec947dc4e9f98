package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ErrorDetails summarizes an error for operator-facing logs.
type ErrorDetails struct {
	Kind    string
	Message string
	Hint    string
}

// Details classifies err by its marker and suggests a next step.
func Details(err error) ErrorDetails {
	if err == nil {
		return ErrorDetails{}
	}
	details := ErrorDetails{Message: err.Error()}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		details.Kind = "timeout"
		details.Hint = "raise fetch.timeout_seconds or check the source host"
	case errors.Is(err, ErrExternalTool):
		details.Kind = "external_tool"
		details.Hint = "run yt-dlp manually against the source to see the full error"
	case errors.Is(err, ErrNotFound):
		details.Kind = "not_found"
		details.Hint = "register the owner directory with 'medialib owner set'"
	case errors.Is(err, ErrValidation):
		details.Kind = "validation"
		details.Hint = "check the request owner and source"
	case errors.Is(err, ErrConfiguration):
		details.Kind = "configuration"
		details.Hint = "check the medialib config file"
	case errors.Is(err, context.Canceled):
		details.Kind = "canceled"
		details.Hint = "the daemon was stopped while the request ran"
	default:
		details.Kind = "transient"
		details.Hint = "check logs for details"
	}
	return details
}

// FailureMessage renders the short message persisted alongside a failed request.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	const limit = 512
	if len(msg) > limit {
		msg = msg[:limit] + "..."
	}
	return msg
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
