// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Agent is the top-level conversational agent. It composes a [ChatClient] with
// tools, middleware, session management, and context providers.
//
// Create one with [NewAgent] and functional options:
//
//	agent := agentframework.NewAgent(client,
//	    agentframework.WithName("assistant"),
//	    agentframework.WithInstructions("You are helpful."),
//	    agentframework.WithTools(searchTool),
//	)
type Agent struct {
	id                  string
	name                string
	description         string
	client              ChatClient
	instructions        string
	tools               []Tool
	defaultOptions      *ChatOptions
	messageStoreFactory func() MessageStore
	contextProvider     ContextProvider
	agentMiddleware     []AgentMiddleware
	chatMiddleware      []ChatMiddleware
	functionMiddleware  []FunctionMiddleware
	invocationConfig    InvocationConfig
}

// AgentOption configures an [Agent] via [NewAgent].
type AgentOption func(*Agent)

// WithID overrides the generated agent ID.
func WithID(id string) AgentOption {
	return func(a *Agent) { a.id = id }
}

// WithName sets the agent's display name.
func WithName(name string) AgentOption {
	return func(a *Agent) { a.name = name }
}

// WithDescription sets the agent's description.
func WithDescription(desc string) AgentOption {
	return func(a *Agent) { a.description = desc }
}

// WithInstructions sets the system instructions for the agent.
func WithInstructions(instructions string) AgentOption {
	return func(a *Agent) { a.instructions = instructions }
}

// WithTools adds tools to the agent's default tool set.
func WithTools(tools ...Tool) AgentOption {
	return func(a *Agent) { a.tools = append(a.tools, tools...) }
}

// WithDefaultOptions sets default [ChatOptions] for all requests.
func WithDefaultOptions(opts *ChatOptions) AgentOption {
	return func(a *Agent) { a.defaultOptions = opts }
}

// WithMessageStoreFactory sets a factory for creating message stores
// when a session is initialized in local mode.
func WithMessageStoreFactory(f func() MessageStore) AgentOption {
	return func(a *Agent) { a.messageStoreFactory = f }
}

// WithContextProvider attaches a [ContextProvider] for dynamic context injection.
func WithContextProvider(cp ContextProvider) AgentOption {
	return func(a *Agent) { a.contextProvider = cp }
}

// WithAgentMiddleware adds [AgentMiddleware] to the agent pipeline.
func WithAgentMiddleware(mws ...AgentMiddleware) AgentOption {
	return func(a *Agent) { a.agentMiddleware = append(a.agentMiddleware, mws...) }
}

// WithChatMiddleware adds [ChatMiddleware] around every model request,
// including each round of the tool-calling loop.
func WithChatMiddleware(mws ...ChatMiddleware) AgentOption {
	return func(a *Agent) { a.chatMiddleware = append(a.chatMiddleware, mws...) }
}

// WithFunctionMiddleware adds [FunctionMiddleware] to the tool invocation pipeline.
func WithFunctionMiddleware(mws ...FunctionMiddleware) AgentOption {
	return func(a *Agent) { a.functionMiddleware = append(a.functionMiddleware, mws...) }
}

// WithInvocationConfig overrides the default [InvocationConfig] for the
// function calling loop. Zero fields take their defaults.
func WithInvocationConfig(cfg InvocationConfig) AgentOption {
	return func(a *Agent) { a.invocationConfig = cfg }
}

// NewAgent creates an Agent with the given [ChatClient] and options.
func NewAgent(client ChatClient, opts ...AgentOption) *Agent {
	a := &Agent{
		id:               uuid.NewString(),
		client:           client,
		invocationConfig: DefaultInvocationConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the agent's display name.
func (a *Agent) Name() string { return a.name }

// Description returns the agent's description.
func (a *Agent) Description() string { return a.description }

// RunOption configures a single [Agent.Run] or [Agent.RunStream] call.
type RunOption func(*runConfig)

type runConfig struct {
	session *Session
	tools   []Tool
	options *ChatOptions
}

// WithSession attaches a [Session] for multi-turn conversation.
func WithSession(s *Session) RunOption {
	return func(c *runConfig) { c.session = s }
}

// WithRunTools provides per-call tool overrides (merged with agent defaults).
func WithRunTools(tools ...Tool) RunOption {
	return func(c *runConfig) { c.tools = tools }
}

// WithRunOptions provides per-call [ChatOptions] overrides.
func WithRunOptions(opts *ChatOptions) RunOption {
	return func(c *runConfig) { c.options = opts }
}

// Run sends messages to the agent and returns a complete response.
// When tools are configured the tool-calling loop resolves function calls
// before the response is returned.
func (a *Agent) Run(ctx context.Context, messages []Message, opts ...RunOption) (*AgentResponse, error) {
	cfg := a.buildRunConfig(opts)
	wrapped := chain(a.buildHandler(cfg), a.agentMiddleware)
	return wrapped(ctx, &AgentRequest{
		Messages: messages,
		Session:  cfg.session,
		Options:  cfg.options,
	})
}

// RunStream sends messages to the agent and returns a streaming response.
// Function calls are streamed to the caller, not invoked. The session is
// updated once the stream has been fully consumed.
func (a *Agent) RunStream(ctx context.Context, messages []Message, opts ...RunOption) (*AgentResponseStream, error) {
	cfg := a.buildRunConfig(opts)

	chatOpts := a.prepareChatOptions(cfg)
	allMessages, err := a.prepareMessages(ctx, messages, cfg, chatOpts)
	if err != nil {
		return nil, err
	}

	chatStream, err := a.client.StreamResponse(ctx, allMessages, chatOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecution, err)
	}

	stream := NewResponseStream(ctx, func(ctx context.Context, ch chan<- AgentResponseUpdate) error {
		defer chatStream.Close()
		var seen []ChatResponseUpdate
		for {
			u, ok, err := chatStream.Next(ctx)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExecution, err)
			}
			if !ok {
				break
			}
			seen = append(seen, u)
			update := AgentResponseUpdate{
				Contents:       u.Contents,
				Role:           u.Role,
				AgentID:        a.id,
				ResponseID:     u.ResponseID,
				ConversationID: u.ConversationID,
				Usage:          u.Usage,
				Raw:            u.Raw,
			}
			select {
			case ch <- update:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		a.finishRun(ctx, cfg, messages, ChatResponseFromUpdates(seen))
		return nil
	})
	return NewAgentResponseStream(stream), nil
}

// NewSession creates a new [Session] pre-configured for this agent. Its
// mode is decided by the first response: a response that carries a
// conversation ID puts the session in service mode, anything else gives it a
// local message store.
func (a *Agent) NewSession() *Session {
	s := NewSession(WithSessionContextProvider(a.contextProvider))
	if a.contextProvider != nil {
		if err := a.contextProvider.SessionCreated(context.Background(), s.ID()); err != nil {
			slog.Warn("context provider session hook failed", "session_id", s.ID(), "error", err)
		}
	}
	return s
}

func (a *Agent) buildRunConfig(opts []RunOption) *runConfig {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (a *Agent) prepareChatOptions(cfg *runConfig) *ChatOptions {
	opts := MergeChatOptions(a.defaultOptions, cfg.options)

	if len(a.tools) > 0 || len(cfg.tools) > 0 {
		opts = MergeChatOptions(opts, &ChatOptions{Tools: append(append([]Tool(nil), a.tools...), cfg.tools...)})
	}

	if a.instructions != "" {
		if opts.Instructions != "" {
			opts.Instructions = a.instructions + "\n" + opts.Instructions
		} else {
			opts.Instructions = a.instructions
		}
	}
	return opts
}

func (a *Agent) contextProviderFor(cfg *runConfig) ContextProvider {
	if cfg.session != nil && cfg.session.ContextProvider() != nil {
		return cfg.session.ContextProvider()
	}
	return a.contextProvider
}

func (a *Agent) prepareMessages(ctx context.Context, messages []Message, cfg *runConfig, opts *ChatOptions) ([]Message, error) {
	var allMessages []Message

	if cfg.session != nil {
		if store := cfg.session.Store(); store != nil {
			history, err := store.ListMessages(ctx)
			if err != nil {
				return nil, fmt.Errorf("%w: load history: %w", ErrSession, err)
			}
			allMessages = append(allMessages, history...)
		}
		if sid := cfg.session.ServiceID(); sid != "" {
			opts.ConversationID = sid
		}
	}

	allMessages = append(allMessages, messages...)

	if cp := a.contextProviderFor(cfg); cp != nil {
		invCtx, err := cp.Invoking(ctx, allMessages)
		if err != nil {
			return nil, fmt.Errorf("%w: context provider: %w", ErrExecution, err)
		}
		if invCtx != nil {
			if invCtx.Instructions != "" {
				if opts.Instructions != "" {
					opts.Instructions += "\n" + invCtx.Instructions
				} else {
					opts.Instructions = invCtx.Instructions
				}
			}
			if len(invCtx.Messages) > 0 {
				allMessages = append(append([]Message(nil), invCtx.Messages...), allMessages...)
			}
			if len(invCtx.Tools) > 0 {
				opts.Tools = append(opts.Tools, invCtx.Tools...)
			}
		}
	}

	// A service-managed conversation already holds the system message from
	// its first turn; later instructions travel on the request instead.
	if opts.ConversationID == "" {
		allMessages = PrependInstructions(allMessages, opts.Instructions)
	}
	return allMessages, nil
}

func (a *Agent) buildHandler(cfg *runConfig) AgentHandler {
	return func(ctx context.Context, req *AgentRequest) (*AgentResponse, error) {
		// Middleware may replace the session or options on the request.
		cfg.session = req.Session
		cfg.options = req.Options

		chatOpts := a.prepareChatOptions(cfg)
		allMessages, err := a.prepareMessages(ctx, req.Messages, cfg, chatOpts)
		if err != nil {
			return nil, err
		}

		slog.DebugContext(ctx, "agent run",
			"agent_id", a.id,
			"agent_name", a.name,
			"message_count", len(allMessages),
			"tool_count", len(chatOpts.Tools),
			"conversation_id", chatOpts.ConversationID,
		)

		chat := chain(ChatHandler(a.client.Response), a.chatMiddleware)

		var result *invocationResult
		if len(chatOpts.Tools) > 0 {
			result, err = invokeFunctions(ctx, chat, allMessages, chatOpts, a.invocationConfig, a.functionMiddleware)
		} else {
			var resp *ChatResponse
			resp, err = chat(ctx, allMessages, chatOpts)
			if err == nil {
				result = &invocationResult{Response: resp, Usage: resp.Usage}
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExecution, err)
		}

		chatResp := result.Response
		a.finishRun(ctx, cfg, req.Messages, chatResp)

		return &AgentResponse{
			Messages:       chatResp.Messages,
			ResponseID:     chatResp.ResponseID,
			ConversationID: chatResp.ConversationID,
			AgentID:        a.id,
			Usage:          result.Usage,
			ToolRounds:     result.Rounds,
			Extra:          chatResp.Extra,
			Raw:            chatResp.Raw,
		}, nil
	}
}

// finishRun records the turn in the session and notifies the context provider.
// Failures are logged; the response has already been produced.
func (a *Agent) finishRun(ctx context.Context, cfg *runConfig, request []Message, resp *ChatResponse) {
	if cfg.session != nil {
		if err := a.updateSession(ctx, cfg.session, request, resp); err != nil {
			slog.WarnContext(ctx, "failed to update session", "session_id", cfg.session.ID(), "error", err)
		}
	}
	if cp := a.contextProviderFor(cfg); cp != nil {
		if err := cp.Invoked(ctx, request, resp.Messages); err != nil {
			slog.WarnContext(ctx, "context provider invoked hook failed", "error", err)
		}
	}
}

func (a *Agent) updateSession(ctx context.Context, session *Session, request []Message, resp *ChatResponse) error {
	if resp.ConversationID != "" && session.Store() == nil {
		// Each response moves the service conversation forward.
		return session.SetServiceID(resp.ConversationID)
	}

	store := session.Store()
	if store == nil {
		if a.messageStoreFactory != nil {
			store = a.messageStoreFactory()
		} else {
			store = NewInMemoryStore()
		}
		if err := session.SetStore(store); err != nil {
			return err
		}
	}

	if err := store.AddMessages(ctx, request); err != nil {
		return err
	}
	return store.AddMessages(ctx, resp.Messages)
}
