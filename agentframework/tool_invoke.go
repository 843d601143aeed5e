// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// ToolChoicePolicy picks the tool choice for the request that carries the
// results of the given round (0-based) back to the model.
type ToolChoicePolicy func(round, maxRounds int) ToolChoice

// TightenToolChoice lets the model call tools freely until the last reserve
// rounds, then sends [ToolChoiceNone] so it has to answer in text.
func TightenToolChoice(reserve int) ToolChoicePolicy {
	return func(round, maxRounds int) ToolChoice {
		if round < maxRounds-reserve {
			return ToolChoiceAuto
		}
		return ToolChoiceNone
	}
}

// InvocationConfig controls the function invocation loop behavior.
type InvocationConfig struct {
	// MaxRounds bounds how many times tool results are sent back to the
	// model. A run issues at most MaxRounds+1 requests. Default: 5.
	MaxRounds int

	// ToolChoice schedules the tool choice per round.
	// Default: TightenToolChoice(2).
	ToolChoice ToolChoicePolicy

	// MaxConsecutiveErrors is the maximum number of consecutive tool errors
	// before aborting. Default: 3.
	MaxConsecutiveErrors int

	// IncludeDetailedErrors includes full error text in tool results sent
	// back to the model. When false, a generic error message is used.
	IncludeDetailedErrors bool
}

// DefaultInvocationConfig returns the default configuration.
func DefaultInvocationConfig() InvocationConfig {
	return InvocationConfig{
		MaxRounds:            5,
		ToolChoice:           TightenToolChoice(2),
		MaxConsecutiveErrors: 3,
	}
}

func (c InvocationConfig) withDefaults() InvocationConfig {
	d := DefaultInvocationConfig()
	if c.MaxRounds <= 0 {
		c.MaxRounds = d.MaxRounds
	}
	if c.ToolChoice == nil {
		c.ToolChoice = d.ToolChoice
	}
	if c.MaxConsecutiveErrors <= 0 {
		c.MaxConsecutiveErrors = d.MaxConsecutiveErrors
	}
	return c
}

// invocationResult is the outcome of a tool-calling run.
type invocationResult struct {
	Response *ChatResponse

	// Rounds counts the tool-result requests that were sent.
	Rounds int

	// Usage totals every request of the run.
	Usage UsageDetails
}

// invokeFunctions runs the tool-calling loop: send the request, invoke every
// function call in the response, send the results back, and repeat until the
// model stops calling tools or MaxRounds result rounds have been sent.
//
// When the service keeps the conversation (the response carries a
// ConversationID) only the results are sent, chained to that response.
// Otherwise the assistant turn and the results are appended to the local history.
func invokeFunctions(
	ctx context.Context,
	client ChatHandler,
	messages []Message,
	opts *ChatOptions,
	config InvocationConfig,
	fnMiddleware []FunctionMiddleware,
) (*invocationResult, error) {
	config = config.withDefaults()

	toolMap, err := toolIndex(opts.Tools)
	if err != nil {
		return nil, err
	}

	resp, err := client(ctx, messages, opts)
	if err != nil {
		return nil, err
	}
	out := &invocationResult{Response: resp}
	out.Usage.Add(resp.Usage)

	consecutiveErrors := 0
	for round := 0; round < config.MaxRounds; round++ {
		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return out, nil
		}

		tools := make([]Tool, len(calls))
		for i, call := range calls {
			tool, ok := toolMap[call.Name]
			if !ok {
				return nil, &ToolError{
					ToolName: call.Name,
					Message:  fmt.Sprintf("model requested unknown tool (call %s)", call.CallID),
					Err:      ErrUnknownTool,
				}
			}
			if tool.Approval() == ApprovalAlways {
				// The caller resolves approval and re-runs with the decision.
				resp.Messages = append(resp.Messages, Message{
					Role: RoleAssistant,
					Contents: Contents{&ApprovalRequestContent{
						CallID:    call.CallID,
						Name:      call.Name,
						Arguments: call.Arguments,
					}},
				})
				return out, nil
			}
			if tool.DeclarationOnly() {
				return out, nil
			}
			tools[i] = tool
		}

		results := make([]Message, 0, len(calls))
		for i, call := range calls {
			result, invokeErr := invokeToolWithMiddleware(ctx, tools[i], json.RawMessage(call.Arguments), fnMiddleware)
			if invokeErr != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				consecutiveErrors++
				slog.WarnContext(ctx, "tool invocation error",
					"tool", call.Name,
					"call_id", call.CallID,
					"error", invokeErr,
					"consecutive_errors", consecutiveErrors,
				)
				if consecutiveErrors >= config.MaxConsecutiveErrors {
					return nil, fmt.Errorf("%w: max consecutive errors reached (%d): %w", ErrToolExecution, consecutiveErrors, invokeErr)
				}
				errMsg := "error invoking tool"
				if config.IncludeDetailedErrors {
					errMsg = "error: " + invokeErr.Error()
				}
				results = append(results, NewToolMessage(call.CallID, errMsg))
				continue
			}
			consecutiveErrors = 0
			results = append(results, NewToolMessage(call.CallID, result))
		}

		next := opts.Clone()
		next.ToolChoice = config.ToolChoice(round, config.MaxRounds)
		if resp.ConversationID != "" {
			next.ConversationID = resp.ConversationID
			messages = results
		} else {
			messages = append(messages, resp.Messages...)
			messages = append(messages, results...)
		}

		slog.DebugContext(ctx, "sending tool results",
			"round", round+1,
			"results", len(results),
			"tool_choice", next.ToolChoice,
		)

		resp, err = client(ctx, messages, next)
		if err != nil {
			return nil, err
		}
		out.Response = resp
		out.Rounds = round + 1
		out.Usage.Add(resp.Usage)
		opts = next
	}

	if pending := len(resp.FunctionCalls()); pending > 0 {
		slog.WarnContext(ctx, "tool round limit reached, returning last response",
			"max_rounds", config.MaxRounds,
			"pending_calls", pending,
		)
	}
	return out, nil
}

// invokeToolWithMiddleware runs the tool through the function middleware chain.
func invokeToolWithMiddleware(ctx context.Context, tool Tool, args json.RawMessage, mws []FunctionMiddleware) (any, error) {
	handler := func(ctx context.Context, t Tool, a json.RawMessage) (any, error) {
		return t.Invoke(ctx, a)
	}
	final := chain(FunctionHandler(handler), mws)
	return final(ctx, tool, args)
}
