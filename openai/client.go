// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

const responsesPath = "/responses"

// Client implements [agentframework.ChatClient] using the Responses API.
// Use [New] to create one.
type Client struct {
	tp      transport
	cfg     *clientConfig
	handler af.ChatHandler
}

// Verify interface compliance at compile time.
var _ af.ChatClient = (*Client)(nil)

// New creates a [Client] with the given API key and options. Pass an empty
// key when authenticating with [WithAzureCredential] or [WithAzureAPIKey].
//
//	client := openai.New("",
//	    openai.WithBaseURL(openai.AzureBaseURL(endpoint)),
//	    openai.WithAzureCredential(cred),
//	    openai.WithModel("gpt-5-mini"),
//	)
func New(apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	c := &Client{
		tp:  newHTTPTransport(apiKey, cfg),
		cfg: cfg,
	}
	c.handler = c.coreResponse
	for i := len(cfg.chatMiddleware) - 1; i >= 0; i-- {
		c.handler = cfg.chatMiddleware[i](c.handler)
	}
	return c
}

// Model returns the default model, or "" when requests go through an agent.
func (c *Client) Model() string {
	if c.cfg.agent != nil {
		return ""
	}
	return c.cfg.model
}

// Response sends a non-streaming request and returns the complete response.
func (c *Client) Response(ctx context.Context, messages []af.Message, opts *af.ChatOptions) (*af.ChatResponse, error) {
	return c.handler(ctx, messages, opts)
}

// coreResponse is the base implementation called by the middleware chain.
func (c *Client) coreResponse(ctx context.Context, messages []af.Message, opts *af.ChatOptions) (*af.ChatResponse, error) {
	req := buildRequest(messages, opts, c.cfg)

	resp, err := c.tp.do(ctx, http.MethodPost, responsesPath, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", af.ErrService, err)
	}

	var raw responseObject
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", af.ErrInvalidResponse, err)
	}
	if err := responseFailure(&raw, resp.StatusCode); err != nil {
		return nil, err
	}

	result := parseResponse(&raw, stored(req))
	result.Raw = &raw
	slog.DebugContext(ctx, "response received",
		"response_id", raw.ID,
		"status", raw.Status,
		"output_items", len(raw.Output),
	)
	return result, nil
}

// StreamResponse sends a streaming request and returns a [af.ResponseStream]
// that yields incremental updates parsed from server-sent events.
func (c *Client) StreamResponse(ctx context.Context, messages []af.Message, opts *af.ChatOptions) (*af.ResponseStream[af.ChatResponseUpdate], error) {
	req := buildRequest(messages, opts, c.cfg)
	req.Stream = true

	resp, err := c.tp.do(ctx, http.MethodPost, responsesPath, req)
	if err != nil {
		return nil, err
	}

	chained := stored(req)
	return af.NewResponseStream(ctx, func(ctx context.Context, ch chan<- af.ChatResponseUpdate) error {
		defer resp.Body.Close()
		return parseSSEStream(ctx, resp.Body, chained, ch)
	}), nil
}

// stored reports whether the service keeps the response for chaining.
// Responses are stored unless the request opts out.
func stored(req *responsesRequest) bool {
	return req.Store == nil || *req.Store
}

// streamEvent is the union of the Responses streaming events the client reads.
type streamEvent struct {
	Type       string          `json:"type"`
	Delta      string          `json:"delta,omitempty"`
	Item       *outputItem     `json:"item,omitempty"`
	Annotation *annotation     `json:"annotation,omitempty"`
	Response   *responseObject `json:"response,omitempty"`

	// error events
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// parseSSEStream reads Responses server-sent events from r and sends parsed
// updates to ch. It returns when the response completes, the body ends, the
// context is cancelled, or the service reports a failure.
func parseSSEStream(ctx context.Context, r io.Reader, chained bool, ch chan<- af.ChatResponseUpdate) error {
	scanner := bufio.NewScanner(r)
	// Completed events carry the whole response and can be large.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "" || data == "[DONE]" {
			continue
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			slog.DebugContext(ctx, "skipping malformed stream event", "error", err)
			continue
		}

		update, done, err := eventUpdate(&ev, chained)
		if err != nil {
			return err
		}
		if update != nil {
			update.Raw = &ev
			select {
			case ch <- *update:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if done {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read SSE stream: %v", af.ErrService, err)
	}
	return nil
}

// eventUpdate maps one stream event to an update. done is true for the
// terminal completed and incomplete events.
func eventUpdate(ev *streamEvent, chained bool) (update *af.ChatResponseUpdate, done bool, err error) {
	switch ev.Type {
	case "response.created":
		if ev.Response == nil {
			return nil, false, nil
		}
		return &af.ChatResponseUpdate{Role: af.RoleAssistant, ResponseID: ev.Response.ID, ModelID: ev.Response.Model}, false, nil

	case "response.output_text.delta":
		return &af.ChatResponseUpdate{Contents: af.Contents{&af.TextContent{Text: ev.Delta}}}, false, nil

	case "response.reasoning_summary_text.delta":
		return &af.ChatResponseUpdate{Contents: af.Contents{&af.TextReasoningContent{Text: ev.Delta}}}, false, nil

	case "response.output_text.annotation.added":
		if ev.Annotation == nil {
			return nil, false, nil
		}
		anns := convertAnnotations([]annotation{*ev.Annotation})
		if len(anns) == 0 {
			return nil, false, nil
		}
		return &af.ChatResponseUpdate{Contents: af.Contents{&af.TextContent{Annotations: anns}}}, false, nil

	case "response.output_item.done":
		if ev.Item == nil {
			return nil, false, nil
		}
		cs := itemContents(ev.Item, false)
		if len(cs) == 0 {
			return nil, false, nil
		}
		return &af.ChatResponseUpdate{Contents: cs}, false, nil

	case "response.completed", "response.incomplete":
		if ev.Response == nil {
			return nil, true, nil
		}
		raw := ev.Response
		u := &af.ChatResponseUpdate{
			ResponseID: raw.ID,
			ModelID:    raw.Model,
			Usage:      raw.Usage.details(),
		}
		if chained {
			u.ConversationID = raw.ID
		}
		hasCalls := false
		for _, item := range raw.Output {
			if item.Type == "function_call" {
				hasCalls = true
			}
		}
		u.FinishReason = finishReason(raw, hasCalls)
		return u, true, nil

	case "response.failed":
		if ev.Response != nil {
			if err := responseFailure(ev.Response, http.StatusOK); err != nil {
				return nil, true, err
			}
		}
		return nil, true, &af.ServiceError{StatusCode: http.StatusOK, Message: "response failed", Err: af.ErrService}

	case "error":
		return nil, true, &af.ServiceError{
			StatusCode: http.StatusOK,
			Message:    ev.Message,
			Code:       ev.Code,
			Err:        af.SentinelForStatus(http.StatusOK, ev.Code),
		}
	}
	return nil, false, nil
}
