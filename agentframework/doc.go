// Copyright (c) Microsoft. All rights reserved.

// Package agentframework provides the core types shared by the samples:
// messages and content, the [ChatClient] abstraction, tools, and an [Agent]
// that resolves function calls in a bounded loop.
//
// # Quick Start
//
//	client := openai.New("", openai.WithBaseURL(endpoint+"openai/v1"),
//	    openai.WithAzureCredential(cred), openai.WithModel("gpt-5-mini"))
//
//	agent := agentframework.NewAgent(client,
//	    agentframework.WithInstructions("Answer from the knowledge base."),
//	    agentframework.WithTools(searchTool),
//	)
//
//	resp, err := agent.Run(ctx, []agentframework.Message{
//	    agentframework.NewUserMessage("What is the refund policy?"),
//	})
//
// # Tool calls
//
// When tools are configured, [Agent.Run] invokes every function call the
// model makes and sends the results back. [InvocationConfig] bounds the loop:
// at most MaxRounds result rounds are sent, and the [ToolChoicePolicy] can
// withhold tools near the end so the model produces a text answer. A call to
// a tool that is not registered fails the run with [ErrUnknownTool].
//
// Use [NewTypedTool] for type-safe tools with automatic JSON Schema generation:
//
//	type SearchArgs struct {
//	    Query string `json:"query" jsonschema:"description=Search terms,required"`
//	}
//
// # Sessions
//
// A [Session] is either service-managed (the service keeps the conversation
// and the session tracks the last response or thread ID) or local (messages
// are kept in a [MessageStore]). The first response decides.
//
// # Errors
//
// Errors wrap the sentinels in this package; [ClassifyError] tells an
// interactive loop whether to continue after a failed turn.
package agentframework
