// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"encoding/json"
	"strings"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

// responseObject is the Responses API response body, also embedded in the
// response.completed, response.incomplete and response.failed stream events.
type responseObject struct {
	ID                string         `json:"id"`
	Object            string         `json:"object"`
	CreatedAt         int64          `json:"created_at"`
	Model             string         `json:"model"`
	Status            string         `json:"status"`
	Output            []outputItem   `json:"output"`
	Usage             *responseUsage `json:"usage,omitempty"`
	Error             *apiError      `json:"error,omitempty"`
	IncompleteDetails *struct {
		Reason string `json:"reason"`
	} `json:"incomplete_details,omitempty"`
}

// outputItem covers every output item type the client understands. Fields
// that do not apply to an item's type are left empty.
type outputItem struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Role   string `json:"role,omitempty"`
	Status string `json:"status,omitempty"`

	// message
	Content []outputContent `json:"content,omitempty"`

	// reasoning
	Summary []outputContent `json:"summary,omitempty"`

	// function_call, mcp_call, mcp_approval_request
	CallID      string          `json:"call_id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Arguments   string          `json:"arguments,omitempty"`
	ServerLabel string          `json:"server_label,omitempty"`
	Output      *string         `json:"output,omitempty"`
	Error       json.RawMessage `json:"error,omitempty"`

	// code_interpreter_call
	Code    string       `json:"code,omitempty"`
	Outputs []codeOutput `json:"outputs,omitempty"`

	// image_generation_call, base64 PNG
	Result string `json:"result,omitempty"`
}

type outputContent struct {
	Type        string       `json:"type"`
	Text        string       `json:"text,omitempty"`
	Refusal     string       `json:"refusal,omitempty"`
	Annotations []annotation `json:"annotations,omitempty"`
}

type annotation struct {
	Type       string `json:"type"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
	FileID     string `json:"file_id,omitempty"`
	Filename   string `json:"filename,omitempty"`
	StartIndex int    `json:"start_index,omitempty"`
	EndIndex   int    `json:"end_index,omitempty"`
}

type codeOutput struct {
	Type string `json:"type"`
	Logs string `json:"logs,omitempty"`
	URL  string `json:"url,omitempty"`
}

type responseUsage struct {
	InputTokens        int `json:"input_tokens"`
	InputTokensDetails *struct {
		CachedTokens int `json:"cached_tokens"`
	} `json:"input_tokens_details,omitempty"`
	OutputTokens        int `json:"output_tokens"`
	OutputTokensDetails *struct {
		ReasoningTokens int `json:"reasoning_tokens"`
	} `json:"output_tokens_details,omitempty"`
	TotalTokens int `json:"total_tokens"`
}

func (u *responseUsage) details() af.UsageDetails {
	if u == nil {
		return af.UsageDetails{}
	}
	d := af.UsageDetails{
		InputTokens:  u.InputTokens,
		OutputTokens: u.OutputTokens,
		TotalTokens:  u.TotalTokens,
	}
	if u.InputTokensDetails != nil || u.OutputTokensDetails != nil {
		d.AdditionalCounts = make(map[string]int, 2)
	}
	if u.InputTokensDetails != nil {
		d.AdditionalCounts[af.CountCachedInputTokens] = u.InputTokensDetails.CachedTokens
	}
	if u.OutputTokensDetails != nil {
		d.AdditionalCounts[af.CountReasoningTokens] = u.OutputTokensDetails.ReasoningTokens
	}
	return d
}

// parseResponse converts a Responses API response into framework types.
// chained reports whether the service stored the response, in which case its
// ID continues the conversation.
func parseResponse(raw *responseObject, chained bool) *af.ChatResponse {
	resp := &af.ChatResponse{
		ResponseID: raw.ID,
		ModelID:    raw.Model,
		CreatedAt:  raw.CreatedAt,
		Usage:      raw.Usage.details(),
	}
	if chained {
		resp.ConversationID = raw.ID
	}

	msg := af.Message{Role: af.RoleAssistant}
	for i := range raw.Output {
		item := &raw.Output[i]
		if item.Type == "message" && msg.MessageID == "" {
			msg.MessageID = item.ID
		}
		msg.Contents = append(msg.Contents, itemContents(item, true)...)
	}
	if len(msg.Contents) > 0 {
		resp.Messages = []af.Message{msg}
	}
	resp.FinishReason = finishReason(raw, len(resp.FunctionCalls()) > 0)
	return resp
}

// itemContents maps one output item to framework content. withText is false
// while streaming, where message text and reasoning arrive as deltas.
func itemContents(item *outputItem, withText bool) af.Contents {
	var cs af.Contents
	switch item.Type {
	case "message":
		if !withText {
			return nil
		}
		for _, c := range item.Content {
			switch c.Type {
			case "output_text":
				cs = append(cs, &af.TextContent{Text: c.Text, Annotations: convertAnnotations(c.Annotations)})
			case "refusal":
				cs = append(cs, &af.ErrorContent{Message: c.Refusal, ErrorCode: "refusal"})
			}
		}
	case "reasoning":
		if !withText {
			return nil
		}
		var parts []string
		for _, s := range item.Summary {
			if s.Text != "" {
				parts = append(parts, s.Text)
			}
		}
		if len(parts) > 0 {
			cs = append(cs, &af.TextReasoningContent{Text: strings.Join(parts, "\n\n")})
		}
	case "function_call":
		cs = append(cs, &af.FunctionCallContent{CallID: item.CallID, Name: item.Name, Arguments: item.Arguments})
	case "mcp_call":
		cs = append(cs, &af.MCPServerCallContent{CallID: item.ID, ServerLabel: item.ServerLabel, Name: item.Name, Arguments: item.Arguments})
		result := &af.MCPServerResultContent{CallID: item.ID, Error: errorText(item.Error)}
		if item.Output != nil {
			result.Result = *item.Output
		}
		cs = append(cs, result)
	case "mcp_approval_request":
		cs = append(cs, &af.ApprovalRequestContent{CallID: item.ID, ServerLabel: item.ServerLabel, Name: item.Name, Arguments: item.Arguments})
	case "code_interpreter_call":
		cs = append(cs, &af.CodeInterpreterCallContent{CallID: item.ID, Code: item.Code})
		var logs []string
		for _, o := range item.Outputs {
			if o.Type == "logs" {
				logs = append(logs, o.Logs)
			}
		}
		if len(logs) > 0 {
			cs = append(cs, &af.CodeInterpreterResultContent{CallID: item.ID, Output: strings.Join(logs, "\n")})
		}
	case "image_generation_call":
		if item.Result != "" {
			cs = append(cs, &af.ImageGenResultContent{CallID: item.ID, URI: "data:image/png;base64," + item.Result})
		}
	}
	return cs
}

func convertAnnotations(in []annotation) []af.Annotation {
	var out []af.Annotation
	for _, a := range in {
		switch a.Type {
		case "url_citation":
			out = append(out, af.Annotation{Kind: af.AnnotationURLCitation, Title: a.Title, URL: a.URL, StartIndex: a.StartIndex, EndIndex: a.EndIndex})
		case "file_citation":
			out = append(out, af.Annotation{Kind: af.AnnotationFileCitation, Title: a.Filename, FileID: a.FileID})
		}
	}
	return out
}

// errorText renders an MCP error, which the service sends as a string or an object.
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var e apiError
	if json.Unmarshal(raw, &e) == nil && e.Message != "" {
		return e.Message
	}
	return string(raw)
}

func finishReason(raw *responseObject, hasCalls bool) af.FinishReason {
	switch raw.Status {
	case "incomplete":
		if raw.IncompleteDetails != nil && raw.IncompleteDetails.Reason == "content_filter" {
			return af.FinishReasonContentFilter
		}
		return af.FinishReasonLength
	case "completed":
		if hasCalls {
			return af.FinishReasonToolCalls
		}
		return af.FinishReasonStop
	default:
		return af.FinishReason(raw.Status)
	}
}

// responseFailure turns a failed response into a ServiceError, or returns nil.
func responseFailure(raw *responseObject, status int) error {
	if raw.Status != "failed" && raw.Error == nil {
		return nil
	}
	e := apiError{Message: "response failed"}
	if raw.Error != nil {
		e = *raw.Error
	}
	return &af.ServiceError{
		StatusCode: status,
		Message:    e.Message,
		Code:       e.Code,
		Err:        af.SentinelForStatus(status, e.Code),
	}
}
