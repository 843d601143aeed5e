// Copyright (c) Microsoft. All rights reserved.

// Package setup wires configuration, logging and clients for the samples.
package setup

import (
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/jochenvw/azure-ai-samples/go/agents"
	"github.com/jochenvw/azure-ai-samples/go/internal/config"
	"github.com/jochenvw/azure-ai-samples/go/internal/credential"
	"github.com/jochenvw/azure-ai-samples/go/internal/logging"
	"github.com/jochenvw/azure-ai-samples/go/openai"
	"github.com/jochenvw/azure-ai-samples/go/search"
)

// Init loads .env and installs the default logger. Close the returned Closer
// before exiting.
func Init() (io.Closer, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return logging.Setup(), nil
}

// Credential returns the credential selected by AZURE_CREDENTIAL.
func Credential() (azcore.TokenCredential, error) {
	return credential.FromEnv()
}

// ResponsesClient creates a Responses client for an Azure OpenAI resource.
// A key in s takes precedence over cred, which may then be nil.
func ResponsesClient(s config.OpenAISettings, model string, cred azcore.TokenCredential, opts ...openai.Option) *openai.Client {
	base := []openai.Option{
		openai.WithBaseURL(openai.AzureBaseURL(s.Endpoint)),
		openai.WithModel(model),
	}
	if s.APIKey != "" {
		base = append(base, openai.WithAzureAPIKey(s.APIKey))
	} else {
		base = append(base, openai.WithAzureCredential(cred))
	}
	return openai.New("", append(base, opts...)...)
}

// ProjectResponsesClient creates a Responses client for a Foundry project
// endpoint, used to invoke prompt agents.
func ProjectResponsesClient(projectEndpoint string, cred azcore.TokenCredential, opts ...openai.Option) *openai.Client {
	base := []openai.Option{
		openai.WithBaseURL(openai.ProjectBaseURL(projectEndpoint)),
		openai.WithAzureCredential(cred),
		openai.WithTokenScope(openai.ScopeAIFoundry),
		openai.WithAPIVersion(agents.VersionsAPIVersion),
	}
	return openai.New("", append(base, opts...)...)
}

// SearchClient creates an Azure AI Search client. A key in s takes precedence
// over cred.
func SearchClient(s config.SearchSettings, cred azcore.TokenCredential, opts *search.ClientOptions) (*search.Client, error) {
	sc := search.TokenCredential(cred)
	if s.APIKey != "" {
		sc = search.KeyCredential(s.APIKey)
	}
	return search.NewClient(s.Endpoint, s.Index, sc, opts)
}

// NeedsCredential reports whether any of the given keys is empty, meaning an
// Entra ID credential is required.
func NeedsCredential(keys ...string) bool {
	for _, k := range keys {
		if k == "" {
			return true
		}
	}
	return len(keys) == 0
}
