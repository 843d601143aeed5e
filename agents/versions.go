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

// DefinitionTool is a tool in a prompt agent definition. Only the fields of
// its Type are set.
type DefinitionTool struct {
	Type string `json:"type"`

	// mcp
	ServerLabel         string   `json:"server_label,omitempty"`
	ServerURL           string   `json:"server_url,omitempty"`
	RequireApproval     string   `json:"require_approval,omitempty"`
	AllowedTools        []string `json:"allowed_tools,omitempty"`
	ProjectConnectionID string   `json:"project_connection_id,omitempty"`

	// function
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// MCPTool returns a remote MCP server tool that runs without approval.
// connectionID names the project connection holding the server credentials.
func MCPTool(label, serverURL, connectionID string, allowedTools ...string) DefinitionTool {
	return DefinitionTool{
		Type:                "mcp",
		ServerLabel:         label,
		ServerURL:           serverURL,
		RequireApproval:     "never",
		AllowedTools:        allowedTools,
		ProjectConnectionID: connectionID,
	}
}

// FunctionTool declares t in an agent definition. The service returns calls
// to it as function_call items for the caller to run.
func FunctionTool(t af.Tool) DefinitionTool {
	return DefinitionTool{
		Type:        "function",
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}

// Reasoning configures reasoning models in an agent definition.
type Reasoning struct {
	Effort  af.ReasoningEffort  `json:"effort,omitempty"`
	Summary af.ReasoningSummary `json:"summary,omitempty"`
}

// PromptAgentDefinition is the definition of a prompt agent version.
type PromptAgentDefinition struct {
	Kind         string           `json:"kind"`
	Model        string           `json:"model"`
	Instructions string           `json:"instructions,omitempty"`
	Tools        []DefinitionTool `json:"tools,omitempty"`
	Temperature  *float64         `json:"temperature,omitempty"`
	Reasoning    *Reasoning       `json:"reasoning,omitempty"`
}

// CreateVersionRequest is the body of a prompt agent version creation.
type CreateVersionRequest struct {
	Definition  PromptAgentDefinition `json:"definition"`
	Description string                `json:"description,omitempty"`
	Metadata    map[string]string     `json:"metadata,omitempty"`
}

// AgentVersion is one immutable version of a named agent.
type AgentVersion struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Version     string                `json:"version"`
	Description string                `json:"description"`
	CreatedAt   int64                 `json:"created_at"`
	Definition  PromptAgentDefinition `json:"definition"`
}

// CreateAgentVersion creates a new version of the prompt agent name, creating
// the agent on first use.
func (c *Client) CreateAgentVersion(ctx context.Context, name string, req CreateVersionRequest) (*AgentVersion, error) {
	if name == "" || req.Definition.Model == "" {
		return nil, fmt.Errorf("%w: agent name and model are required", af.ErrConfiguration)
	}
	if req.Definition.Kind == "" {
		req.Definition.Kind = "prompt"
	}
	var v AgentVersion
	err := c.versions.Do(ctx, azhttp.Call{
		Method: http.MethodPost,
		Path:   "/agents/" + url.PathEscape(name) + "/versions",
		Body:   req,
	}, &v)
	if err != nil {
		return nil, fmt.Errorf("create agent version %s: %w", name, err)
	}
	slog.InfoContext(ctx, "agent version created", "name", v.Name, "version", v.Version)
	return &v, nil
}

// DeleteAgentVersion deletes one version of a prompt agent.
func (c *Client) DeleteAgentVersion(ctx context.Context, name, version string) error {
	err := c.versions.Do(ctx, azhttp.Call{
		Method: http.MethodDelete,
		Path:   "/agents/" + url.PathEscape(name) + "/versions/" + url.PathEscape(version),
		Status: []int{http.StatusOK, http.StatusNoContent},
	}, nil)
	if err != nil {
		return fmt.Errorf("delete agent version %s/%s: %w", name, version, err)
	}
	slog.InfoContext(ctx, "agent version deleted", "name", name, "version", version)
	return nil
}
