// Copyright (c) Microsoft. All rights reserved.

// Package openai provides a [agentframework.ChatClient] for the Responses
// API, as served by OpenAI, by Azure OpenAI v1 endpoints and by Foundry
// project endpoints.
//
// Azure OpenAI with Entra ID:
//
//	client := openai.New("",
//	    openai.WithBaseURL(openai.AzureBaseURL("https://my-resource.openai.azure.com/")),
//	    openai.WithAzureCredential(cred),
//	    openai.WithModel("gpt-5-mini"),
//	)
//
// A Foundry prompt agent:
//
//	client := openai.New("",
//	    openai.WithBaseURL(openai.ProjectBaseURL(projectEndpoint)),
//	    openai.WithAPIVersion("2025-11-15-preview"),
//	    openai.WithTokenScope(openai.ScopeAIFoundry),
//	    openai.WithAzureCredential(cred),
//	    openai.WithAgent("knowledge-agent", "3"),
//	)
//
// Responses are stored by the service unless ChatOptions.Store is false, and
// a stored response's ID is returned as the ConversationID so the next turn
// can chain to it with previous_response_id.
//
// Function calls, MCP calls and approvals, code interpreter and image
// generation items are mapped to the matching content types. Usage includes
// reasoning and cached-input token counts when the service reports them.
//
// # Testing
//
// The client uses an unexported transport interface internally.
// For testing, provide a mock http.Client via [WithHTTPClient]
// with a custom RoundTripper.
package openai
