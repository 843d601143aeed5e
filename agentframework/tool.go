// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

// ApprovalMode says whether a tool call waits for a human decision.
type ApprovalMode string

const (
	ApprovalNever  ApprovalMode = "never"
	ApprovalAlways ApprovalMode = "always"
)

// Tool is a function the model may call.
type Tool interface {
	// Name is the function name sent to the model.
	Name() string

	// Description tells the model when to call the tool.
	Description() string

	// Parameters is the JSON Schema of the arguments object.
	Parameters() json.RawMessage

	// Invoke runs the tool with the arguments the model produced.
	Invoke(ctx context.Context, args json.RawMessage) (any, error)

	// DeclarationOnly tools are sent to the model but never invoked
	// locally; a response calling one is returned to the caller.
	DeclarationOnly() bool

	// Approval reports whether calls need approval first.
	Approval() ApprovalMode
}

// FunctionTool is a [Tool] backed by a Go function.
type FunctionTool struct {
	name            string
	description     string
	parameters      json.RawMessage
	fn              func(ctx context.Context, args json.RawMessage) (any, error)
	declarationOnly bool
	approvalMode    ApprovalMode
}

var _ Tool = (*FunctionTool)(nil)

// ToolOption configures a [FunctionTool].
type ToolOption func(*FunctionTool)

// WithApprovalRequired makes every call return an approval request instead
// of running.
func WithApprovalRequired() ToolOption {
	return func(t *FunctionTool) { t.approvalMode = ApprovalAlways }
}

// WithDeclarationOnly marks the tool as declaration-only.
func WithDeclarationOnly() ToolOption {
	return func(t *FunctionTool) { t.declarationOnly = true }
}

// NewTool creates a [FunctionTool] from a raw JSON Schema and handler. A nil
// schema declares a tool without arguments.
func NewTool(name, description string, parameters json.RawMessage, fn func(ctx context.Context, args json.RawMessage) (any, error), opts ...ToolOption) *FunctionTool {
	if len(parameters) == 0 {
		parameters = json.RawMessage(`{"type":"object","properties":{}}`)
	}
	t := &FunctionTool{name: name, description: description, parameters: parameters, fn: fn}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTypedTool creates a [FunctionTool] whose schema is generated from Args
// and whose handler receives decoded arguments.
//
//	type SearchArgs struct {
//	    Query string `json:"query" jsonschema:"description=Search terms,required"`
//	}
func NewTypedTool[Args any](name, description string, fn func(ctx context.Context, args Args) (any, error), opts ...ToolOption) *FunctionTool {
	decode := func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args Args
		if len(raw) == 0 {
			raw = json.RawMessage(`{}`)
		}
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, &ToolError{ToolName: name, Message: "invalid arguments: " + err.Error(), Err: ErrToolExecution}
		}
		return fn(ctx, args)
	}
	return NewTool(name, description, GenerateSchema[Args](), decode, opts...)
}

func (t *FunctionTool) Name() string                { return t.name }
func (t *FunctionTool) Description() string         { return t.description }
func (t *FunctionTool) Parameters() json.RawMessage { return t.parameters }
func (t *FunctionTool) DeclarationOnly() bool       { return t.declarationOnly }
func (t *FunctionTool) Approval() ApprovalMode      { return t.approvalMode }

// Invoke runs the backing function.
func (t *FunctionTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	if t.fn == nil {
		return nil, &ToolError{ToolName: t.name, Message: "tool has no implementation", Err: ErrToolExecution}
	}
	return t.fn(ctx, args)
}

// GenerateSchema builds a JSON Schema from a Go struct type using reflection.
// Supports struct tags: json (field name), jsonschema (description, required, enum).
func GenerateSchema[T any]() json.RawMessage {
	var zero T
	return generateSchemaFromType(zero)
}

var toolNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// toolIndex maps tools by name. Names must be valid function names and
// unique within one request.
func toolIndex(tools []Tool) (map[string]Tool, error) {
	m := make(map[string]Tool, len(tools))
	for _, t := range tools {
		name := t.Name()
		if !toolNamePattern.MatchString(name) {
			return nil, fmt.Errorf("%w: invalid tool name %q", ErrConfiguration, name)
		}
		if _, dup := m[name]; dup {
			return nil, fmt.Errorf("%w: duplicate tool name %q", ErrConfiguration, name)
		}
		m[name] = t
	}
	return m, nil
}
