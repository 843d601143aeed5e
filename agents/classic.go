// Copyright (c) Microsoft. All rights reserved.

package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/internal/azhttp"
)

// Azure AI Search query types accepted by the azure_ai_search tool.
const (
	QuerySimple               = "simple"
	QuerySemantic             = "semantic"
	QueryVector               = "vector"
	QueryVectorSimpleHybrid   = "vector_simple_hybrid"
	QueryVectorSemanticHybrid = "vector_semantic_hybrid"
)

// AgentTool is a tool attached to a classic agent.
type AgentTool struct {
	Type     string            `json:"type"`
	Function *functionToolSpec `json:"function,omitempty"`
}

type functionToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// AzureAISearchTool returns the hosted Azure AI Search tool. Pair it with
// [AzureAISearchResources].
func AzureAISearchTool() AgentTool { return AgentTool{Type: "azure_ai_search"} }

// SearchIndex binds a project search connection to an index.
type SearchIndex struct {
	ConnectionID string `json:"index_connection_id"`
	IndexName    string `json:"index_name"`
	QueryType    string `json:"query_type,omitempty"`
	TopK         int    `json:"top_k,omitempty"`
	Filter       string `json:"filter,omitempty"`
}

// ToolResources holds the resources used by an agent's hosted tools.
type ToolResources struct {
	AzureAISearch *AzureAISearchResource `json:"azure_ai_search,omitempty"`
}

// AzureAISearchResource lists the indexes the azure_ai_search tool may query.
type AzureAISearchResource struct {
	Indexes []SearchIndex `json:"indexes"`
}

// AzureAISearchResources returns tool resources for a single index.
func AzureAISearchResources(connectionID, index, queryType string, topK int) *ToolResources {
	return &ToolResources{AzureAISearch: &AzureAISearchResource{
		Indexes: []SearchIndex{{ConnectionID: connectionID, IndexName: index, QueryType: queryType, TopK: topK}},
	}}
}

// CreateAgentRequest is the body of a classic agent creation.
type CreateAgentRequest struct {
	Model         string            `json:"model"`
	Name          string            `json:"name,omitempty"`
	Description   string            `json:"description,omitempty"`
	Instructions  string            `json:"instructions,omitempty"`
	Temperature   *float64          `json:"temperature,omitempty"`
	TopP          *float64          `json:"top_p,omitempty"`
	Tools         []AgentTool       `json:"tools,omitempty"`
	ToolResources *ToolResources    `json:"tool_resources,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Agent is a classic agent.
type Agent struct {
	ID            string         `json:"id"`
	Object        string         `json:"object"`
	CreatedAt     int64          `json:"created_at"`
	Name          string         `json:"name"`
	Model         string         `json:"model"`
	Instructions  string         `json:"instructions"`
	Temperature   *float64       `json:"temperature,omitempty"`
	Tools         []AgentTool    `json:"tools"`
	ToolResources *ToolResources `json:"tool_resources,omitempty"`
}

// CreateAgent creates a classic agent.
func (c *Client) CreateAgent(ctx context.Context, req CreateAgentRequest) (*Agent, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("%w: agent model is required", af.ErrConfiguration)
	}
	var a Agent
	if err := c.classic.Do(ctx, azhttp.Call{Method: http.MethodPost, Path: "/assistants", Body: req}, &a); err != nil {
		return nil, fmt.Errorf("create agent %q: %w", req.Name, err)
	}
	slog.InfoContext(ctx, "agent created", "agent_id", a.ID, "name", a.Name, "model", a.Model)
	return &a, nil
}

// DeleteAgent deletes a classic agent.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	var out struct {
		Deleted bool `json:"deleted"`
	}
	err := c.classic.Do(ctx, azhttp.Call{Method: http.MethodDelete, Path: "/assistants/" + url.PathEscape(agentID)}, &out)
	if err != nil {
		return fmt.Errorf("delete agent %s: %w", agentID, err)
	}
	if !out.Deleted {
		return fmt.Errorf("%w: agent %s was not deleted", af.ErrInvalidResponse, agentID)
	}
	slog.InfoContext(ctx, "agent deleted", "agent_id", agentID)
	return nil
}
