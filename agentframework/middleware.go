// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// AgentHandler processes an agent run.
type AgentHandler func(ctx context.Context, req *AgentRequest) (*AgentResponse, error)

// AgentRequest carries the inputs of an agent run through the middleware
// pipeline. Middleware may replace Session or Options before calling next.
type AgentRequest struct {
	Messages []Message
	Session  *Session
	Options  *ChatOptions
}

// AgentMiddleware wraps an [AgentHandler]. It calls next to continue or
// returns early to short-circuit the run.
type AgentMiddleware func(next AgentHandler) AgentHandler

// ChatHandler sends one request to the model. Every round of the tool-call
// loop passes through it.
type ChatHandler func(ctx context.Context, messages []Message, opts *ChatOptions) (*ChatResponse, error)

// ChatMiddleware wraps a [ChatHandler].
type ChatMiddleware func(next ChatHandler) ChatHandler

// FunctionHandler invokes a tool the model called.
type FunctionHandler func(ctx context.Context, tool Tool, args json.RawMessage) (any, error)

// FunctionMiddleware wraps a [FunctionHandler].
type FunctionMiddleware func(next FunctionHandler) FunctionHandler

// chain wraps h so that mws[0] is the outermost layer.
func chain[H any, M ~func(H) H](h H, mws []M) H {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// ToolTimeoutMiddleware bounds each tool invocation by d. A call that runs
// out of time fails with a [ToolError] and the loop reports it to the model
// like any other tool failure.
func ToolTimeoutMiddleware(d time.Duration) FunctionMiddleware {
	return func(next FunctionHandler) FunctionHandler {
		return func(ctx context.Context, tool Tool, args json.RawMessage) (any, error) {
			tctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			res, err := next(tctx, tool, args)
			if err != nil && ctx.Err() == nil && tctx.Err() == context.DeadlineExceeded {
				return nil, &ToolError{
					ToolName: tool.Name(),
					Message:  fmt.Sprintf("timed out after %s", d),
					Err:      fmt.Errorf("%w: %w", ErrToolExecution, err),
				}
			}
			return res, err
		}
	}
}

// ToolLoggingMiddleware logs every tool invocation with its duration.
func ToolLoggingMiddleware(logger *slog.Logger) FunctionMiddleware {
	return func(next FunctionHandler) FunctionHandler {
		return func(ctx context.Context, tool Tool, args json.RawMessage) (any, error) {
			start := time.Now()
			logger.DebugContext(ctx, "tool call", "tool", tool.Name(), "args", string(args))
			res, err := next(ctx, tool, args)
			if err != nil {
				logger.WarnContext(ctx, "tool failed", "tool", tool.Name(), "duration", time.Since(start), "error", err)
				return res, err
			}
			logger.InfoContext(ctx, "tool completed", "tool", tool.Name(), "duration", time.Since(start))
			return res, nil
		}
	}
}
