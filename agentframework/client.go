// Copyright (c) Microsoft. All rights reserved.

package agentframework

import "context"

// ChatClient is the interface for interacting with an LLM backend.
// The openai package implements it over the Responses API and the agents
// package over Foundry agent threads.
type ChatClient interface {
	// Response sends messages to the model and returns a complete response.
	// When opts.ConversationID is set, messages hold only the new turn.
	Response(ctx context.Context, messages []Message, opts *ChatOptions) (*ChatResponse, error)

	// StreamResponse sends messages and returns a stream of incremental updates.
	StreamResponse(ctx context.Context, messages []Message, opts *ChatOptions) (*ResponseStream[ChatResponseUpdate], error)
}
