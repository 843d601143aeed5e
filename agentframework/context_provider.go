// Copyright (c) Microsoft. All rights reserved.

package agentframework

import "context"

// ContextProvider injects dynamic context into each agent invocation.
// Implementations can supply additional instructions, messages, or tools
// based on runtime state, such as documents retrieved for the user's question.
type ContextProvider interface {
	// Invoking is called before each agent run. The returned InvocationContext
	// is merged into the request (instructions appended, messages prepended,
	// tools added).
	Invoking(ctx context.Context, messages []Message) (*InvocationContext, error)

	// Invoked is called after each agent run with the request and response messages.
	Invoked(ctx context.Context, request, response []Message) error

	// SessionCreated is called when an agent creates a new session.
	SessionCreated(ctx context.Context, sessionID string) error
}

// InvocationContext holds the dynamic context returned by a [ContextProvider].
type InvocationContext struct {
	Instructions string
	Messages     []Message
	Tools        []Tool
}

// NoOpContextProvider is a [ContextProvider] that does nothing.
// Embed it to provide default implementations for unused hooks.
type NoOpContextProvider struct{}

func (NoOpContextProvider) Invoking(context.Context, []Message) (*InvocationContext, error) {
	return &InvocationContext{}, nil
}

func (NoOpContextProvider) Invoked(context.Context, []Message, []Message) error { return nil }

func (NoOpContextProvider) SessionCreated(context.Context, string) error { return nil }

// ContextProviderFunc adapts a function to a [ContextProvider] that only
// implements Invoking.
type ContextProviderFunc func(ctx context.Context, messages []Message) (*InvocationContext, error)

func (f ContextProviderFunc) Invoking(ctx context.Context, messages []Message) (*InvocationContext, error) {
	return f(ctx, messages)
}

func (ContextProviderFunc) Invoked(context.Context, []Message, []Message) error { return nil }

func (ContextProviderFunc) SessionCreated(context.Context, string) error { return nil }
