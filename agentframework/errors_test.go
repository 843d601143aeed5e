// Copyright (c) Microsoft. All rights reserved.

package agentframework_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

func TestErrorSentinelChain(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		match  bool
	}{
		{"ErrExecution wraps ErrAgent", af.ErrExecution, af.ErrAgent, true},
		{"ErrSession wraps ErrAgent", af.ErrSession, af.ErrAgent, true},
		{"ErrSessionModeLocked wraps ErrSession", af.ErrSessionModeLocked, af.ErrSession, true},
		{"ErrSessionModeLocked wraps ErrAgent", af.ErrSessionModeLocked, af.ErrAgent, true},
		{"ErrContentFilter wraps ErrService", af.ErrContentFilter, af.ErrService, true},
		{"ErrAuth wraps ErrService", af.ErrAuth, af.ErrService, true},
		{"ErrToolExecution wraps ErrTool", af.ErrToolExecution, af.ErrTool, true},
		{"ErrConfiguration wraps ErrInitialization", af.ErrConfiguration, af.ErrInitialization, true},
		{"ErrNotFound wraps ErrService", af.ErrNotFound, af.ErrService, true},
		{"ErrUnknownTool wraps ErrTool", af.ErrUnknownTool, af.ErrTool, true},
		{"ErrUnknownTool is not ErrToolExecution", af.ErrUnknownTool, af.ErrToolExecution, false},
		{"ErrAgent does not wrap ErrService", af.ErrAgent, af.ErrService, false},
		{"ErrTool does not wrap ErrAgent", af.ErrTool, af.ErrAgent, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := errors.Is(tc.err, tc.target); got != tc.match {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tc.err, tc.target, got, tc.match)
			}
		})
	}
}

func TestServiceError(t *testing.T) {
	svcErr := &af.ServiceError{
		StatusCode: 429,
		Message:    "rate limited",
		Code:       "rate_limit_exceeded",
		Err:        af.ErrService,
	}

	// Check error message
	msg := svcErr.Error()
	if msg == "" {
		t.Fatal("error message should not be empty")
	}

	// errors.Is should match ErrService
	if !errors.Is(svcErr, af.ErrService) {
		t.Error("ServiceError should wrap ErrService")
	}

	// errors.As should extract ServiceError
	var extracted *af.ServiceError
	if !errors.As(svcErr, &extracted) {
		t.Fatal("errors.As should extract ServiceError")
	}
	if extracted.StatusCode != 429 {
		t.Errorf("StatusCode = %d", extracted.StatusCode)
	}
}

func TestToolError(t *testing.T) {
	toolErr := &af.ToolError{
		ToolName: "get_weather",
		Message:  "API timeout",
		Err:      af.ErrToolExecution,
	}

	if !errors.Is(toolErr, af.ErrToolExecution) {
		t.Error("ToolError should wrap ErrToolExecution")
	}
	if !errors.Is(toolErr, af.ErrTool) {
		t.Error("ToolError should transitively wrap ErrTool")
	}

	var extracted *af.ToolError
	if !errors.As(toolErr, &extracted) {
		t.Fatal("errors.As should extract ToolError")
	}
	if extracted.ToolName != "get_weather" {
		t.Errorf("ToolName = %q", extracted.ToolName)
	}
}

func TestSentinelForStatus(t *testing.T) {
	tests := []struct {
		status int
		code   string
		want   error
	}{
		{400, "content_filter", af.ErrContentFilter},
		{400, "ResponsibleAIPolicyViolation", af.ErrContentFilter},
		{401, "", af.ErrAuth},
		{403, "", af.ErrAuth},
		{404, "", af.ErrNotFound},
		{400, "invalid_value", af.ErrInvalidRequest},
		{422, "", af.ErrInvalidRequest},
		{429, "rate_limit_exceeded", af.ErrService},
		{500, "", af.ErrService},
	}
	for _, tc := range tests {
		if got := af.SentinelForStatus(tc.status, tc.code); got != tc.want {
			t.Errorf("SentinelForStatus(%d, %q) = %v, want %v", tc.status, tc.code, got, tc.want)
		}
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want af.ErrorClass
	}{
		{"nil", nil, af.ClassNone},
		{"cancelled", fmt.Errorf("run: %w", context.Canceled), af.ClassFatal},
		{"deadline", context.DeadlineExceeded, af.ClassFatal},
		{"auth", &af.ServiceError{StatusCode: 401, Err: af.ErrAuth}, af.ClassFatal},
		{"missing config", fmt.Errorf("%w: AZURE_SEARCH_ENDPOINT", af.ErrConfiguration), af.ClassFatal},
		{"rate limited", &af.ServiceError{StatusCode: 429, Err: af.ErrService}, af.ClassRecoverable},
		{"content filter", &af.ServiceError{StatusCode: 400, Err: af.ErrContentFilter}, af.ClassRecoverable},
		{"unknown tool", &af.ToolError{ToolName: "x", Err: af.ErrUnknownTool}, af.ClassRecoverable},
		{"plain", errors.New("connection reset"), af.ClassRecoverable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := af.ClassifyError(tc.err); got != tc.want {
				t.Errorf("ClassifyError = %s, want %s", got, tc.want)
			}
		})
	}
}
