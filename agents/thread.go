// Copyright (c) Microsoft. All rights reserved.

package agents

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/internal/azhttp"
)

const defaultPollInterval = 500 * time.Millisecond

// ThreadClient runs a classic agent over threads and implements
// [af.ChatClient]. The thread ID is the conversation ID: a request without
// one starts a new thread.
//
// Local function tools are not supported; a run that requires action fails.
type ThreadClient struct {
	c            *Client
	agentID      string
	pollInterval time.Duration
}

var _ af.ChatClient = (*ThreadClient)(nil)

// ThreadOption configures a [ThreadClient].
type ThreadOption func(*ThreadClient)

// WithPollInterval sets how often run status is checked.
func WithPollInterval(d time.Duration) ThreadOption {
	return func(t *ThreadClient) { t.pollInterval = d }
}

// NewThreadClient returns a chat client for the classic agent agentID.
func (c *Client) NewThreadClient(agentID string, opts ...ThreadOption) *ThreadClient {
	t := &ThreadClient{c: c, agentID: agentID, pollInterval: defaultPollInterval}
	for _, o := range opts {
		o(t)
	}
	return t
}

type threadObject struct {
	ID string `json:"id"`
}

type threadMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type runRequest struct {
	AssistantID            string   `json:"assistant_id"`
	Model                  string   `json:"model,omitempty"`
	AdditionalInstructions string   `json:"additional_instructions,omitempty"`
	ToolChoice             any      `json:"tool_choice,omitempty"`
	Temperature            *float64 `json:"temperature,omitempty"`
	TopP                   *float64 `json:"top_p,omitempty"`
	MaxCompletionTokens    *int     `json:"max_completion_tokens,omitempty"`
}

type runObject struct {
	ID        string `json:"id"`
	ThreadID  string `json:"thread_id"`
	Status    string `json:"status"`
	Model     string `json:"model"`
	CreatedAt int64  `json:"created_at"`
	LastError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"last_error"`
	IncompleteDetails *struct {
		Reason string `json:"reason"`
	} `json:"incomplete_details"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type messageList struct {
	Data []threadMessage `json:"data"`
}

type threadMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	RunID   string `json:"run_id"`
	Content []struct {
		Type string `json:"type"`
		Text *struct {
			Value       string             `json:"value"`
			Annotations []threadAnnotation `json:"annotations"`
		} `json:"text"`
	} `json:"content"`
}

type threadAnnotation struct {
	Type        string `json:"type"`
	Text        string `json:"text"`
	StartIndex  int    `json:"start_index"`
	EndIndex    int    `json:"end_index"`
	URLCitation *struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"url_citation"`
	FileCitation *struct {
		FileID string `json:"file_id"`
	} `json:"file_citation"`
}

// Response posts the new messages to the thread, runs the agent and returns
// the run's assistant messages.
func (t *ThreadClient) Response(ctx context.Context, messages []af.Message, opts *af.ChatOptions) (*af.ChatResponse, error) {
	if opts == nil {
		opts = &af.ChatOptions{}
	}
	threadID := opts.ConversationID
	if threadID == "" {
		var th threadObject
		if err := t.c.classic.Do(ctx, azhttp.Call{Method: http.MethodPost, Path: "/threads", Body: struct{}{}}, &th); err != nil {
			return nil, fmt.Errorf("create thread: %w", err)
		}
		threadID = th.ID
		slog.DebugContext(ctx, "thread created", "thread_id", threadID)
	}
	threadPath := "/threads/" + url.PathEscape(threadID)

	var instructions []string
	for _, m := range messages {
		text := m.Text()
		if text == "" {
			continue
		}
		switch m.Role {
		case af.RoleSystem:
			instructions = append(instructions, text)
		case af.RoleUser, af.RoleAssistant:
			err := t.c.classic.Do(ctx, azhttp.Call{
				Method: http.MethodPost,
				Path:   threadPath + "/messages",
				Body:   threadMessageRequest{Role: string(m.Role), Content: text},
			}, nil)
			if err != nil {
				return nil, fmt.Errorf("add message: %w", err)
			}
		}
	}

	// A system message already carries the instructions on a new conversation.
	if len(instructions) == 0 && opts.Instructions != "" {
		instructions = append(instructions, opts.Instructions)
	}

	req := runRequest{
		AssistantID:            t.agentID,
		Model:                  opts.ModelID,
		AdditionalInstructions: strings.Join(instructions, "\n"),
		ToolChoice:             runToolChoice(opts.ToolChoice),
		Temperature:            opts.Temperature,
		TopP:                   opts.TopP,
		MaxCompletionTokens:    opts.MaxTokens,
	}
	var run runObject
	if err := t.c.classic.Do(ctx, azhttp.Call{Method: http.MethodPost, Path: threadPath + "/runs", Body: req}, &run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	if err := t.wait(ctx, threadPath, &run); err != nil {
		return nil, err
	}

	var list messageList
	err := t.c.classic.Do(ctx, azhttp.Call{
		Method: http.MethodGet,
		Path:   threadPath + "/messages",
		Query:  url.Values{"run_id": {run.ID}, "order": {"asc"}},
	}, &list)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	resp := &af.ChatResponse{
		ResponseID:     run.ID,
		ConversationID: threadID,
		ModelID:        run.Model,
		CreatedAt:      run.CreatedAt,
		FinishReason:   af.FinishReasonStop,
	}
	for _, m := range list.Data {
		if m.Role != string(af.RoleAssistant) {
			continue
		}
		resp.Messages = append(resp.Messages, convertThreadMessage(m))
	}
	if run.Usage != nil {
		resp.Usage = af.UsageDetails{
			InputTokens:  run.Usage.PromptTokens,
			OutputTokens: run.Usage.CompletionTokens,
			TotalTokens:  run.Usage.TotalTokens,
		}
	}
	if run.Status == "incomplete" {
		resp.FinishReason = af.FinishReasonLength
		if run.IncompleteDetails != nil && run.IncompleteDetails.Reason == "content_filter" {
			resp.FinishReason = af.FinishReasonContentFilter
		}
	}
	return resp, nil
}

// StreamResponse runs the agent to completion and yields the response as a
// single update.
func (t *ThreadClient) StreamResponse(ctx context.Context, messages []af.Message, opts *af.ChatOptions) (*af.ResponseStream[af.ChatResponseUpdate], error) {
	return af.NewResponseStream(ctx, func(ctx context.Context, ch chan<- af.ChatResponseUpdate) error {
		resp, err := t.Response(ctx, messages, opts)
		if err != nil {
			return err
		}
		var contents af.Contents
		for _, m := range resp.Messages {
			contents = append(contents, m.Contents...)
		}
		select {
		case ch <- af.ChatResponseUpdate{
			Contents:       contents,
			Role:           af.RoleAssistant,
			ResponseID:     resp.ResponseID,
			ConversationID: resp.ConversationID,
			ModelID:        resp.ModelID,
			FinishReason:   resp.FinishReason,
			Usage:          resp.Usage,
		}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}), nil
}

// wait polls run until it reaches a terminal status.
func (t *ThreadClient) wait(ctx context.Context, threadPath string, run *runObject) error {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()
	for {
		switch run.Status {
		case "completed", "incomplete":
			return nil
		case "failed":
			e := af.ServiceError{StatusCode: http.StatusOK, Message: "run failed"}
			if run.LastError != nil {
				e.Code, e.Message = run.LastError.Code, run.LastError.Message
			}
			e.Err = af.SentinelForStatus(e.StatusCode, e.Code)
			return &e
		case "cancelled", "expired":
			return &af.ServiceError{StatusCode: http.StatusOK, Message: "run " + run.Status, Code: run.Status, Err: af.ErrService}
		case "requires_action":
			return &af.ServiceError{
				StatusCode: http.StatusOK,
				Message:    "run requires action; local function tools are not supported on threads",
				Code:       run.Status,
				Err:        af.ErrInvalidRequest,
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := t.c.classic.Do(ctx, azhttp.Call{Method: http.MethodGet, Path: threadPath + "/runs/" + url.PathEscape(run.ID)}, run); err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		slog.DebugContext(ctx, "run status", "run_id", run.ID, "status", run.Status)
	}
}

func runToolChoice(tc af.ToolChoice) any {
	if tc == "" {
		return nil
	}
	if name, ok := tc.FunctionName(); ok {
		return map[string]any{"type": "function", "function": map[string]string{"name": name}}
	}
	return string(tc)
}

func convertThreadMessage(m threadMessage) af.Message {
	msg := af.Message{Role: af.RoleAssistant, MessageID: m.ID}
	for _, c := range m.Content {
		if c.Type != "text" || c.Text == nil {
			continue
		}
		tc := &af.TextContent{Text: c.Text.Value}
		for _, a := range c.Text.Annotations {
			switch {
			case a.URLCitation != nil:
				tc.Annotations = append(tc.Annotations, af.Annotation{
					Kind:       af.AnnotationURLCitation,
					Title:      a.URLCitation.Title,
					URL:        a.URLCitation.URL,
					StartIndex: a.StartIndex,
					EndIndex:   a.EndIndex,
				})
			case a.FileCitation != nil:
				tc.Annotations = append(tc.Annotations, af.Annotation{
					Kind:       af.AnnotationFileCitation,
					Title:      a.Text,
					FileID:     a.FileCitation.FileID,
					StartIndex: a.StartIndex,
					EndIndex:   a.EndIndex,
				})
			}
		}
		msg.Contents = append(msg.Contents, tc)
	}
	return msg
}
