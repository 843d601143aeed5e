// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"encoding/json"
	"strings"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

// responsesRequest is the Responses API request body.
type responsesRequest struct {
	Model              string            `json:"model,omitempty"`
	Input              []inputItem       `json:"input"`
	Instructions       string            `json:"instructions,omitempty"`
	Tools              []toolSpec        `json:"tools,omitempty"`
	ToolChoice         any               `json:"tool_choice,omitempty"`
	PreviousResponseID string            `json:"previous_response_id,omitempty"`
	Reasoning          *reasoningParam   `json:"reasoning,omitempty"`
	MaxOutputTokens    *int              `json:"max_output_tokens,omitempty"`
	Temperature        *float64          `json:"temperature,omitempty"`
	TopP               *float64          `json:"top_p,omitempty"`
	Store              *bool             `json:"store,omitempty"`
	Stream             bool              `json:"stream,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	User               string            `json:"user,omitempty"`
	Agent              *agentParam       `json:"agent,omitempty"`
}

type reasoningParam struct {
	Effort  string `json:"effort,omitempty"`
	Summary string `json:"summary,omitempty"`
}

type agentParam struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// inputItem is one element of the request input: a role message, a
// function_call echoed back, a function_call_output, or an
// mcp_approval_response. Unused fields are omitted.
type inputItem struct {
	Type              string  `json:"type,omitempty"`
	Role              string  `json:"role,omitempty"`
	Content           any     `json:"content,omitempty"`
	CallID            string  `json:"call_id,omitempty"`
	Name              string  `json:"name,omitempty"`
	Arguments         string  `json:"arguments,omitempty"`
	Output            *string `json:"output,omitempty"`
	ApprovalRequestID string  `json:"approval_request_id,omitempty"`
	Approve           *bool   `json:"approve,omitempty"`
	Reason            string  `json:"reason,omitempty"`
}

type inputPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type toolSpec struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// buildRequest converts framework types into a Responses API request.
func buildRequest(messages []af.Message, opts *af.ChatOptions, cfg *clientConfig) *responsesRequest {
	req := &responsesRequest{Model: cfg.model}
	if opts == nil {
		opts = &af.ChatOptions{}
	}
	if opts.ModelID != "" {
		req.Model = opts.ModelID
	}
	req.Temperature = opts.Temperature
	req.TopP = opts.TopP
	req.MaxOutputTokens = opts.MaxTokens
	req.User = opts.User
	req.Store = opts.Store
	req.Metadata = opts.Metadata
	req.PreviousResponseID = opts.ConversationID
	req.ToolChoice = convertToolChoice(opts.ToolChoice)

	if r := opts.Reasoning; r != nil && (r.Effort != "" || r.Summary != "") {
		req.Reasoning = &reasoningParam{Effort: string(r.Effort), Summary: string(r.Summary)}
	}

	req.Input = convertMessages(messages)
	if !hasSystemMessage(messages) {
		req.Instructions = opts.Instructions
	}

	for _, t := range opts.Tools {
		req.Tools = append(req.Tools, toolSpec{
			Type:        "function",
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}

	if cfg.agent != nil {
		// The agent definition owns these.
		req.Agent = &agentParam{Type: "agent_reference", Name: cfg.agent.Name, Version: cfg.agent.Version}
		req.Model = ""
		req.Tools = nil
		req.Instructions = ""
	}
	return req
}

func hasSystemMessage(messages []af.Message) bool {
	for _, m := range messages {
		if m.Role == af.RoleSystem {
			return true
		}
	}
	return false
}

// convertMessages translates framework Messages into Responses input items.
// Assistant function calls and tool results become separate items keyed by
// call ID.
func convertMessages(messages []af.Message) []inputItem {
	items := make([]inputItem, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case af.RoleTool:
			for _, c := range msg.Contents {
				if fr, ok := c.(*af.FunctionResultContent); ok {
					out := marshalResult(fr.Result)
					items = append(items, inputItem{Type: "function_call_output", CallID: fr.CallID, Output: &out})
				}
			}

		case af.RoleAssistant:
			var text strings.Builder
			var calls []inputItem
			for _, c := range msg.Contents {
				switch v := c.(type) {
				case *af.TextContent:
					text.WriteString(v.Text)
				case *af.FunctionCallContent:
					calls = append(calls, inputItem{Type: "function_call", CallID: v.CallID, Name: v.Name, Arguments: v.Arguments})
				}
			}
			if text.Len() > 0 {
				items = append(items, inputItem{Role: "assistant", Content: text.String()})
			}
			items = append(items, calls...)

		default:
			var parts []inputPart
			for _, c := range msg.Contents {
				switch v := c.(type) {
				case *af.TextContent:
					parts = append(parts, inputPart{Type: "input_text", Text: v.Text})
				case *af.DataContent:
					parts = append(parts, inputPart{Type: "input_image", ImageURL: v.URI})
				case *af.URIContent:
					parts = append(parts, inputPart{Type: "input_image", ImageURL: v.URI})
				case *af.ApprovalResponseContent:
					approve := v.Approved
					items = append(items, inputItem{
						Type:              "mcp_approval_response",
						ApprovalRequestID: v.CallID,
						Approve:           &approve,
						Reason:            v.Reason,
					})
				}
			}
			switch {
			case len(parts) == 1 && parts[0].Type == "input_text":
				items = append(items, inputItem{Role: string(msg.Role), Content: parts[0].Text})
			case len(parts) > 0:
				items = append(items, inputItem{Role: string(msg.Role), Content: parts})
			}
		}
	}
	return items
}

func convertToolChoice(tc af.ToolChoice) any {
	if tc == "" {
		return nil
	}
	if name, ok := tc.FunctionName(); ok {
		return map[string]string{"type": "function", "name": name}
	}
	return string(tc)
}

func marshalResult(v any) string {
	switch r := v.(type) {
	case string:
		return r
	case nil:
		return ""
	case json.RawMessage:
		return string(r)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err.Error()
	}
	return string(b)
}
