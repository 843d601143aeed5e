// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

// Token scopes for [WithTokenScope].
const (
	// ScopeCognitiveServices is the scope for Azure OpenAI resources.
	ScopeCognitiveServices = "https://cognitiveservices.azure.com/.default"

	// ScopeAIFoundry is the scope for Foundry project endpoints.
	ScopeAIFoundry = "https://ai.azure.com/.default"
)

// clientConfig holds resolved configuration for the client.
type clientConfig struct {
	baseURL         string
	organization    string
	httpClient      *http.Client
	headers         map[string]string
	model           string
	azureCredential azcore.TokenCredential
	tokenScope      string
	apiVersion      string
	agent           *AgentReference
	chatMiddleware  []af.ChatMiddleware
}

// Option configures a [Client].
type Option func(*clientConfig)

// AgentReference names a Foundry prompt-agent version. Requests that carry
// one use the agent's model, instructions and tools.
type AgentReference struct {
	Name    string
	Version string
}

// WithBaseURL overrides the API base URL. See [AzureBaseURL] and [ProjectBaseURL].
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithOrganization sets the OpenAI organization header.
func WithOrganization(org string) Option {
	return func(c *clientConfig) { c.organization = org }
}

// WithHTTPClient provides a custom http.Client for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// WithHeaders adds custom headers to every request.
// An "api-key" header switches to Azure key authentication.
func WithHeaders(headers map[string]string) Option {
	return func(c *clientConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithAzureAPIKey authenticates with an Azure resource key.
func WithAzureAPIKey(key string) Option {
	return WithHeaders(map[string]string{"api-key": key})
}

// WithModel sets the default model (deployment name on Azure) for requests.
func WithModel(model string) Option {
	return func(c *clientConfig) { c.model = model }
}

// WithAzureCredential enables Microsoft Entra ID token authentication using
// the provided credential. Tokens are requested for the scope set by
// [WithTokenScope].
func WithAzureCredential(cred azcore.TokenCredential) Option {
	return func(c *clientConfig) { c.azureCredential = cred }
}

// WithTokenScope overrides the token scope. Default: [ScopeCognitiveServices].
func WithTokenScope(scope string) Option {
	return func(c *clientConfig) { c.tokenScope = scope }
}

// WithAPIVersion adds an api-version query parameter to every request.
func WithAPIVersion(version string) Option {
	return func(c *clientConfig) { c.apiVersion = version }
}

// WithAgent routes requests through a Foundry agent version. The request
// then omits model, tools and instructions.
func WithAgent(name, version string) Option {
	return func(c *clientConfig) { c.agent = &AgentReference{Name: name, Version: version} }
}

// WithChatMiddleware adds middleware to the chat pipeline.
// Middleware is applied in the order provided (first = outermost).
func WithChatMiddleware(mw ...af.ChatMiddleware) Option {
	return func(c *clientConfig) { c.chatMiddleware = append(c.chatMiddleware, mw...) }
}
