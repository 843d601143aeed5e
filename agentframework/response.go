// Copyright (c) Microsoft. All rights reserved.

package agentframework

import "strings"

// ChatResponse is the complete (non-streaming) response from a [ChatClient].
type ChatResponse struct {
	Messages   []Message
	ResponseID string

	// ConversationID is set when the service keeps the conversation state and
	// the next request can continue it by reference.
	ConversationID string
	ModelID        string
	CreatedAt      int64
	FinishReason   FinishReason
	Usage          UsageDetails
	Extra          map[string]any
	Raw            any
}

// Text returns the concatenated text of all messages in this response.
func (r *ChatResponse) Text() string {
	var b strings.Builder
	for i := range r.Messages {
		b.WriteString(r.Messages[i].Text())
	}
	return b.String()
}

// FunctionCalls returns every function call across the response messages.
func (r *ChatResponse) FunctionCalls() []*FunctionCallContent {
	var calls []*FunctionCallContent
	for i := range r.Messages {
		calls = append(calls, r.Messages[i].FunctionCalls()...)
	}
	return calls
}

// ChatResponseUpdate is a single chunk received during streaming from a [ChatClient].
type ChatResponseUpdate struct {
	Contents       Contents
	Role           Role
	ResponseID     string
	ConversationID string
	ModelID        string
	FinishReason   FinishReason
	Usage          UsageDetails
	Raw            any
}

// Text returns the concatenated text of all [TextContent] items in this update.
func (u *ChatResponseUpdate) Text() string {
	return contentsText(u.Contents)
}

// AgentResponse is the complete response from an [Agent] run.
type AgentResponse struct {
	Messages       []Message
	ResponseID     string
	ConversationID string
	AgentID        string
	Usage          UsageDetails

	// ToolRounds is the number of tool-result round trips the run needed.
	ToolRounds int
	Extra      map[string]any
	Raw        any
}

// Text returns the concatenated text of all messages in this agent response.
func (r *AgentResponse) Text() string {
	var b strings.Builder
	for i := range r.Messages {
		b.WriteString(r.Messages[i].Text())
	}
	return b.String()
}

// Citations returns every citation across the response messages in order.
func (r *AgentResponse) Citations() []Annotation {
	var out []Annotation
	for i := range r.Messages {
		out = append(out, r.Messages[i].Citations()...)
	}
	return out
}

// UserInputRequests returns all [ApprovalRequestContent] items across messages.
func (r *AgentResponse) UserInputRequests() []Content {
	var reqs []Content
	for _, m := range r.Messages {
		for _, c := range m.Contents {
			if c.Type() == ContentTypeApprovalRequest {
				reqs = append(reqs, c)
			}
		}
	}
	return reqs
}

// AgentResponseUpdate is a single streaming chunk from an [Agent] run.
type AgentResponseUpdate struct {
	Contents       Contents
	Role           Role
	AgentID        string
	ResponseID     string
	ConversationID string
	Usage          UsageDetails
	Raw            any
}

// Text returns the concatenated text of all [TextContent] items in this update.
func (u *AgentResponseUpdate) Text() string {
	return contentsText(u.Contents)
}

func contentsText(cs Contents) string {
	var b strings.Builder
	for _, c := range cs {
		if tc, ok := c.(*TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

// ChatResponseFromUpdates builds a complete [ChatResponse] by merging
// a sequence of streaming updates.
func ChatResponseFromUpdates(updates []ChatResponseUpdate) *ChatResponse {
	resp := &ChatResponse{}
	var all Contents
	for _, u := range updates {
		all = append(all, u.Contents...)
		if u.ResponseID != "" {
			resp.ResponseID = u.ResponseID
		}
		if u.ConversationID != "" {
			resp.ConversationID = u.ConversationID
		}
		if u.ModelID != "" {
			resp.ModelID = u.ModelID
		}
		if u.FinishReason != "" {
			resp.FinishReason = u.FinishReason
		}
		if !u.Usage.IsZero() {
			resp.Usage = u.Usage
		}
	}
	if merged := mergeContentDeltas(all); len(merged) > 0 {
		resp.Messages = []Message{{Role: firstRole(len(updates), func(i int) Role { return updates[i].Role }), Contents: merged}}
	}
	return resp
}

// AgentResponseFromUpdates builds a complete [AgentResponse] by merging
// a sequence of streaming updates.
func AgentResponseFromUpdates(updates []AgentResponseUpdate) *AgentResponse {
	resp := &AgentResponse{}
	var all Contents
	for _, u := range updates {
		all = append(all, u.Contents...)
		if u.AgentID != "" {
			resp.AgentID = u.AgentID
		}
		if u.ResponseID != "" {
			resp.ResponseID = u.ResponseID
		}
		if u.ConversationID != "" {
			resp.ConversationID = u.ConversationID
		}
		if !u.Usage.IsZero() {
			resp.Usage = u.Usage
		}
	}
	if merged := mergeContentDeltas(all); len(merged) > 0 {
		resp.Messages = []Message{{Role: firstRole(len(updates), func(i int) Role { return updates[i].Role }), Contents: merged}}
	}
	return resp
}

func firstRole(n int, at func(int) Role) Role {
	for i := 0; i < n; i++ {
		if r := at(i); r != "" {
			return r
		}
	}
	return RoleAssistant
}

// mergeContentDeltas consolidates runs of TextContent (and their annotations)
// into single items and passes other content through as-is. Reasoning deltas
// are merged the same way.
func mergeContentDeltas(cs Contents) Contents {
	if len(cs) == 0 {
		return nil
	}
	var merged Contents
	var text *TextContent
	var reasoning *TextReasoningContent
	flush := func() {
		if text != nil {
			merged = append(merged, text)
			text = nil
		}
		if reasoning != nil {
			merged = append(merged, reasoning)
			reasoning = nil
		}
	}
	for _, c := range cs {
		switch v := c.(type) {
		case *TextContent:
			if reasoning != nil {
				flush()
			}
			if text == nil {
				text = &TextContent{}
			}
			text.Text += v.Text
			text.Annotations = append(text.Annotations, v.Annotations...)
		case *TextReasoningContent:
			if text != nil {
				flush()
			}
			if reasoning == nil {
				reasoning = &TextReasoningContent{}
			}
			reasoning.Text += v.Text
		default:
			flush()
			merged = append(merged, c)
		}
	}
	flush()
	return merged
}
