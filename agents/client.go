// Copyright (c) Microsoft. All rights reserved.

// Package agents manages agents hosted by a Foundry project: classic agents
// run over threads, and versioned prompt agents invoked through the Responses
// API with an agent reference.
//
// A classic agent with an Azure AI Search index:
//
//	a, err := client.CreateAgent(ctx, agents.CreateAgentRequest{
//	    Model:         "gpt-4.1",
//	    Name:          "search-agent",
//	    Tools:         []agents.AgentTool{agents.AzureAISearchTool()},
//	    ToolResources: agents.AzureAISearchResources(connID, "kb-index", agents.QueryVectorSemanticHybrid, 20),
//	})
//	defer client.DeleteAgent(context.Background(), a.ID)
//	agent := af.NewAgent(client.NewThreadClient(a.ID))
package agents

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	"github.com/jochenvw/azure-ai-samples/go/internal/azhttp"
)

const (
	// Scope is the Entra ID scope for Foundry project endpoints.
	Scope = "https://ai.azure.com/.default"

	// ClassicAPIVersion serves assistants, threads and runs.
	ClassicAPIVersion = "v1"

	// VersionsAPIVersion serves versioned prompt agents.
	VersionsAPIVersion = "2025-11-15-preview"
)

// ClientOptions configures a [Client].
type ClientOptions struct {
	Transport  policy.Transporter
	MaxRetries int32
}

// Client talks to one Foundry project endpoint, such as
// https://acct.services.ai.azure.com/api/projects/demo.
type Client struct {
	classic  *azhttp.Client
	versions *azhttp.Client
}

// NewClient creates a project client authorized with cred.
func NewClient(projectEndpoint string, cred azcore.TokenCredential, opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}
	auth := azhttp.Auth{Credential: cred, Scope: Scope}
	azOpts := &azhttp.Options{Transport: opts.Transport, MaxRetries: opts.MaxRetries}

	classic, err := azhttp.NewClient("agents", projectEndpoint, ClassicAPIVersion, auth, azOpts)
	if err != nil {
		return nil, err
	}
	versions, err := azhttp.NewClient("agents", projectEndpoint, VersionsAPIVersion, auth, azOpts)
	if err != nil {
		return nil, err
	}
	return &Client{classic: classic, versions: versions}, nil
}
