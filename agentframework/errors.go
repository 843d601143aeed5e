// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrAgent is the base error for agent-related failures.
	ErrAgent = errors.New("agent error")

	// ErrExecution indicates a runtime failure during agent execution.
	ErrExecution = fmt.Errorf("%w: execution", ErrAgent)

	// ErrInitialization indicates an agent configuration or setup failure.
	ErrInitialization = fmt.Errorf("%w: initialization", ErrAgent)

	// ErrConfiguration indicates missing or invalid process configuration,
	// such as a required environment variable that is not set.
	ErrConfiguration = fmt.Errorf("%w: configuration", ErrInitialization)

	// ErrSession indicates a session lifecycle failure.
	ErrSession = fmt.Errorf("%w: session", ErrAgent)

	// ErrSessionModeLocked is returned when attempting to change a session's
	// mode (service-managed vs local) after it has been set.
	ErrSessionModeLocked = fmt.Errorf("%w: mode already set", ErrSession)

	// ErrService is the base error for backend service failures.
	ErrService = errors.New("service error")

	// ErrContentFilter indicates the request was rejected by a content filter.
	ErrContentFilter = fmt.Errorf("%w: content filter", ErrService)

	// ErrInvalidRequest indicates the request was malformed or invalid.
	ErrInvalidRequest = fmt.Errorf("%w: invalid request", ErrService)

	// ErrInvalidResponse indicates the service returned an unexpected response.
	ErrInvalidResponse = fmt.Errorf("%w: invalid response", ErrService)

	// ErrAuth indicates an authentication or authorization failure.
	ErrAuth = fmt.Errorf("%w: authentication", ErrService)

	// ErrNotFound indicates the addressed resource does not exist.
	ErrNotFound = fmt.Errorf("%w: not found", ErrService)

	// ErrTool is the base error for tool-related failures.
	ErrTool = errors.New("tool error")

	// ErrToolExecution indicates a failure during tool invocation.
	ErrToolExecution = fmt.Errorf("%w: execution", ErrTool)

	// ErrUnknownTool indicates the model requested a tool that is not registered.
	ErrUnknownTool = fmt.Errorf("%w: unknown tool", ErrTool)
)

// ServiceError provides rich context for backend service failures.
// Use errors.As to extract it from a wrapped error chain.
type ServiceError struct {
	StatusCode int
	Message    string
	Code       string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("service error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("service error %d: %s", e.StatusCode, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// SentinelForStatus picks the sentinel matching an HTTP status and optional
// service error code.
func SentinelForStatus(status int, code string) error {
	switch {
	case code == "content_filter" || code == "ResponsibleAIPolicyViolation":
		return ErrContentFilter
	case status == 401 || status == 403:
		return ErrAuth
	case status == 404:
		return ErrNotFound
	case status == 400 || status == 422:
		return ErrInvalidRequest
	default:
		return ErrService
	}
}

// ToolError provides context for tool invocation failures.
type ToolError struct {
	ToolName string
	Message  string
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q: %s", e.ToolName, e.Message)
}

func (e *ToolError) Unwrap() error { return e.Err }

// ErrorClass tells an interactive caller whether it can keep going after an error.
type ErrorClass int

const (
	// ClassNone is returned for a nil error.
	ClassNone ErrorClass = iota

	// ClassRecoverable errors fail the current turn only.
	ClassRecoverable

	// ClassFatal errors end the program.
	ClassFatal
)

func (c ErrorClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassRecoverable:
		return "recoverable"
	default:
		return "fatal"
	}
}

// ClassifyError maps an error chain onto an [ErrorClass].
//
// Cancellation, authentication, initialization and configuration failures are
// fatal. Service, tool and session failures are recoverable. Anything else
// (transport failures, unexpected errors) is treated as recoverable so an
// interactive session survives a dropped connection.
func ClassifyError(err error) ErrorClass {
	switch {
	case err == nil:
		return ClassNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ClassFatal
	case errors.Is(err, ErrAuth), errors.Is(err, ErrInitialization):
		return ClassFatal
	default:
		return ClassRecoverable
	}
}
