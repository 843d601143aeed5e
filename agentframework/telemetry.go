// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"context"
	"log/slog"
	"time"
)

// usageAttrs flattens usage into slog attributes, including the reasoning and
// cached-input counters when the service reported them.
func usageAttrs(u UsageDetails) []any {
	attrs := []any{
		"input_tokens", u.InputTokens,
		"output_tokens", u.OutputTokens,
		"total_tokens", u.TotalTokens,
	}
	if n, ok := u.ReasoningTokens(); ok {
		attrs = append(attrs, "reasoning_tokens", n)
	}
	if n, ok := u.Count(CountCachedInputTokens); ok {
		attrs = append(attrs, "cached_input_tokens", n)
	}
	return attrs
}

// LoggingMiddleware returns an [AgentMiddleware] that logs agent runs using slog.
func LoggingMiddleware(logger *slog.Logger) AgentMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next AgentHandler) AgentHandler {
		return func(ctx context.Context, req *AgentRequest) (*AgentResponse, error) {
			start := time.Now()
			logger.InfoContext(ctx, "agent run started",
				"message_count", len(req.Messages),
			)

			resp, err := next(ctx, req)

			duration := time.Since(start)
			if err != nil {
				logger.ErrorContext(ctx, "agent run failed",
					"duration", duration,
					"error", err,
					"class", ClassifyError(err),
				)
				return nil, err
			}

			attrs := append([]any{
				"duration", duration,
				"response_messages", len(resp.Messages),
				"tool_rounds", resp.ToolRounds,
			}, usageAttrs(resp.Usage)...)
			logger.InfoContext(ctx, "agent run completed", attrs...)
			return resp, nil
		}
	}
}

// ChatLoggingMiddleware returns a [ChatMiddleware] that logs every model
// request at debug level. Inside the tool-calling loop this shows one line
// per round.
func ChatLoggingMiddleware(logger *slog.Logger) ChatMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ChatHandler) ChatHandler {
		return func(ctx context.Context, messages []Message, opts *ChatOptions) (*ChatResponse, error) {
			start := time.Now()
			resp, err := next(ctx, messages, opts)
			if err != nil {
				logger.DebugContext(ctx, "chat request failed", "error", err)
				return nil, err
			}
			attrs := append([]any{
				"duration", time.Since(start),
				"input_messages", len(messages),
				"tool_choice", opts.ToolChoice,
				"response_id", resp.ResponseID,
				"function_calls", len(resp.FunctionCalls()),
			}, usageAttrs(resp.Usage)...)
			logger.DebugContext(ctx, "chat request", attrs...)
			return resp, nil
		}
	}
}
