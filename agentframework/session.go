// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SessionMode reports where a session's conversation state lives.
type SessionMode int

const (
	// SessionModeUnset means no response has fixed the mode yet.
	SessionModeUnset SessionMode = iota

	// SessionModeService means the service holds the conversation and the
	// session only tracks its ID (a previous response ID or a thread ID).
	SessionModeService

	// SessionModeLocal means messages are kept in a [MessageStore].
	SessionModeLocal
)

func (m SessionMode) String() string {
	switch m {
	case SessionModeService:
		return "service"
	case SessionModeLocal:
		return "local"
	default:
		return "unset"
	}
}

// Session manages conversation state for an agent interaction.
// It operates in one of two mutually exclusive modes:
//   - Service-managed: conversation state lives server-side (identified by ServiceID)
//   - Locally-managed: messages are stored locally via a [MessageStore]
//
// Setting one mode locks out the other. The service ID may be updated while
// the session stays in service mode, since every response advances it.
type Session struct {
	mu              sync.Mutex
	id              string
	serviceID       string
	store           MessageStore
	contextProvider ContextProvider
}

// SessionOption configures a [Session].
type SessionOption func(*Session)

// WithSessionStore puts the session in local mode with the given store.
func WithSessionStore(store MessageStore) SessionOption {
	return func(s *Session) { s.store = store }
}

// WithSessionServiceID puts the session in service mode, continuing an
// existing service conversation.
func WithSessionServiceID(id string) SessionOption {
	return func(s *Session) { s.serviceID = id }
}

// WithSessionContextProvider attaches a context provider to the session.
func WithSessionContextProvider(cp ContextProvider) SessionOption {
	return func(s *Session) { s.contextProvider = cp }
}

// NewSession creates a new Session with a generated ID.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{id: uuid.NewString()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the session's current mode.
func (s *Session) Mode() SessionMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.serviceID != "":
		return SessionModeService
	case s.store != nil:
		return SessionModeLocal
	default:
		return SessionModeUnset
	}
}

// ServiceID returns the service-managed conversation ID, or empty if locally managed.
func (s *Session) ServiceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serviceID
}

// SetServiceID locks the session into service-managed mode or advances the
// conversation ID. Returns ErrSessionModeLocked if the session is in local mode.
func (s *Session) SetServiceID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return fmt.Errorf("%w: cannot switch to service mode", ErrSessionModeLocked)
	}
	s.serviceID = id
	return nil
}

// Store returns the local message store, or nil if service-managed.
func (s *Session) Store() MessageStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// SetStore locks the session into locally-managed mode.
// Returns ErrSessionModeLocked if the session is already in service mode.
func (s *Session) SetStore(store MessageStore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serviceID != "" {
		return fmt.Errorf("%w: cannot switch to local mode", ErrSessionModeLocked)
	}
	s.store = store
	return nil
}

// ContextProvider returns the session's context provider, if any.
func (s *Session) ContextProvider() ContextProvider { return s.contextProvider }

// Serialize returns the session state as a serializable map.
func (s *Session) Serialize() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := map[string]any{"id": s.id}
	if s.serviceID != "" {
		state["serviceId"] = s.serviceID
	}
	if s.store != nil {
		storeState, err := s.store.Serialize()
		if err != nil {
			return nil, fmt.Errorf("serialize store: %w", err)
		}
		state["store"] = storeState
	}
	return state, nil
}
