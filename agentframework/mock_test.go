// Copyright (c) Microsoft. All rights reserved.

package agentframework_test

import (
	"context"
	"fmt"
	"sync"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

// mockClient implements ChatClient for testing.
type mockClient struct {
	responseFn func(ctx context.Context, msgs []af.Message, opts *af.ChatOptions) (*af.ChatResponse, error)
}

func (m *mockClient) Response(ctx context.Context, msgs []af.Message, opts *af.ChatOptions) (*af.ChatResponse, error) {
	return m.responseFn(ctx, msgs, opts)
}

func (m *mockClient) StreamResponse(ctx context.Context, msgs []af.Message, opts *af.ChatOptions) (*af.ResponseStream[af.ChatResponseUpdate], error) {
	return af.NewResponseStream(ctx, func(ctx context.Context, ch chan<- af.ChatResponseUpdate) error {
		resp, err := m.responseFn(ctx, msgs, opts)
		if err != nil {
			return err
		}
		for _, msg := range resp.Messages {
			ch <- af.ChatResponseUpdate{
				Contents:       msg.Contents,
				Role:           msg.Role,
				ResponseID:     resp.ResponseID,
				ConversationID: resp.ConversationID,
			}
		}
		return nil
	}), nil
}

// recordedCall captures what the agent sent on one request.
type recordedCall struct {
	messages []af.Message
	opts     *af.ChatOptions
}

// scriptedClient replays canned responses in order and records every request.
// Once the script is exhausted the last response is repeated.
type scriptedClient struct {
	mu        sync.Mutex
	responses []*af.ChatResponse
	calls     []recordedCall
}

func newScriptedClient(responses ...*af.ChatResponse) *scriptedClient {
	return &scriptedClient{responses: responses}
}

func (s *scriptedClient) Response(_ context.Context, msgs []af.Message, opts *af.ChatOptions) (*af.ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, recordedCall{
		messages: append([]af.Message(nil), msgs...),
		opts:     opts.Clone(),
	})
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("no scripted response")
	}
	i := len(s.calls) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	resp := *s.responses[i]
	return &resp, nil
}

func (s *scriptedClient) StreamResponse(ctx context.Context, msgs []af.Message, opts *af.ChatOptions) (*af.ResponseStream[af.ChatResponseUpdate], error) {
	resp, err := s.Response(ctx, msgs, opts)
	if err != nil {
		return nil, err
	}
	return af.NewResponseStream(ctx, func(ctx context.Context, ch chan<- af.ChatResponseUpdate) error {
		for _, m := range resp.Messages {
			ch <- af.ChatResponseUpdate{Contents: m.Contents, Role: m.Role, ResponseID: resp.ResponseID, ConversationID: resp.ConversationID}
		}
		return nil
	}), nil
}

func (s *scriptedClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedClient) call(i int) recordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}

// callResponse builds an assistant response requesting the given function calls.
// Each name gets call ID "<name>-<n>".
func callResponse(names ...string) *af.ChatResponse {
	var cs af.Contents
	for i, n := range names {
		cs = append(cs, &af.FunctionCallContent{CallID: fmt.Sprintf("%s-%d", n, i), Name: n, Arguments: `{}`})
	}
	return &af.ChatResponse{Messages: []af.Message{{Role: af.RoleAssistant, Contents: cs}}}
}

func textResponse(text string) *af.ChatResponse {
	return &af.ChatResponse{Messages: []af.Message{af.NewAssistantMessage(text)}}
}
