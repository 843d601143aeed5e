// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"context"
	"sync"
)

// MessageStore persists conversation messages for a [Session].
type MessageStore interface {
	// ListMessages returns all stored messages in order.
	ListMessages(ctx context.Context) ([]Message, error)

	// AddMessages appends messages to the store.
	AddMessages(ctx context.Context, msgs []Message) error

	// Serialize returns the store's state as a serializable map.
	Serialize() (map[string]any, error)
}

// InMemoryStore is an in-memory [MessageStore]. When MaxMessages is set the
// oldest messages are dropped once the store grows beyond it; a leading
// system message is always kept.
type InMemoryStore struct {
	mu          sync.Mutex
	messages    []Message
	MaxMessages int
}

// NewInMemoryStore creates an empty [InMemoryStore].
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) ListMessages(_ context.Context) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...), nil
}

func (s *InMemoryStore) AddMessages(_ context.Context, msgs []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgs...)
	s.trim()
	return nil
}

func (s *InMemoryStore) trim() {
	if s.MaxMessages <= 0 || len(s.messages) <= s.MaxMessages {
		return
	}
	if s.messages[0].Role == RoleSystem && s.MaxMessages > 1 {
		keep := s.messages[len(s.messages)-(s.MaxMessages-1):]
		s.messages = append([]Message{s.messages[0]}, keep...)
		return
	}
	s.messages = append([]Message(nil), s.messages[len(s.messages)-s.MaxMessages:]...)
}

func (s *InMemoryStore) Serialize() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]any{
		"messages": append([]Message(nil), s.messages...),
	}, nil
}
