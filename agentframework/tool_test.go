// Copyright (c) Microsoft. All rights reserved.

package agentframework_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

type lookupArgs struct {
	Query string `json:"query" jsonschema:"description=Document name or keywords,required"`
	Top   int    `json:"top"`
}

func lookupTool() *af.FunctionTool {
	return af.NewTypedTool("lookup_document", "Find a document",
		func(ctx context.Context, a lookupArgs) (any, error) {
			if a.Top == 0 {
				a.Top = 5
			}
			return map[string]any{"query": a.Query, "top": a.Top}, nil
		},
	)
}

func TestNewTool_Defaults(t *testing.T) {
	tool := af.NewTool("get_time", "Current time", nil,
		func(ctx context.Context, args json.RawMessage) (any, error) { return "10:30", nil },
	)
	if tool.DeclarationOnly() || tool.Approval() != "" {
		t.Errorf("declarationOnly = %v, approval = %q", tool.DeclarationOnly(), tool.Approval())
	}
	if string(tool.Parameters()) != `{"type":"object","properties":{}}` {
		t.Errorf("Parameters = %s", tool.Parameters())
	}
	if out, err := tool.Invoke(context.Background(), nil); err != nil || out != "10:30" {
		t.Errorf("Invoke = %v, %v", out, err)
	}
}

func TestNewTypedTool_Invoke(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    map[string]any
		wantErr bool
	}{
		{"full", `{"query":"claims.pdf","top":3}`, map[string]any{"query": "claims.pdf", "top": 3}, false},
		{"defaults", `{"query":"coverage limits"}`, map[string]any{"query": "coverage limits", "top": 5}, false},
		{"empty body", ``, map[string]any{"query": "", "top": 5}, false},
		{"wrong type", `{"top":"three"}`, nil, true},
	}
	tool := lookupTool()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tool.Invoke(context.Background(), json.RawMessage(tc.args))
			if tc.wantErr {
				var toolErr *af.ToolError
				if !errors.As(err, &toolErr) || toolErr.ToolName != "lookup_document" || !errors.Is(err, af.ErrToolExecution) {
					t.Errorf("error = %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			got := out.(map[string]any)
			if got["query"] != tc.want["query"] || got["top"] != tc.want["top"] {
				t.Errorf("out = %v, want %v", got, tc.want)
			}
		})
	}

	var schema struct {
		Type     string   `json:"type"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(tool.Parameters(), &schema); err != nil {
		t.Fatal(err)
	}
	if schema.Type != "object" || len(schema.Required) != 1 || schema.Required[0] != "query" {
		t.Errorf("schema = %s", tool.Parameters())
	}
}

func TestToolOptions(t *testing.T) {
	risky := af.NewTool("delete_index", "Delete the index", nil,
		func(ctx context.Context, args json.RawMessage) (any, error) { return nil, nil },
		af.WithApprovalRequired(),
	)
	if risky.Approval() != af.ApprovalAlways {
		t.Errorf("Approval = %q", risky.Approval())
	}

	decl := af.NewTool("client_side", "Handled by the caller", nil, nil, af.WithDeclarationOnly())
	if !decl.DeclarationOnly() {
		t.Error("not declaration-only")
	}
	if _, err := decl.Invoke(context.Background(), nil); !errors.Is(err, af.ErrToolExecution) {
		t.Errorf("Invoke error = %v", err)
	}
}

func TestAgent_RejectsInvalidToolNames(t *testing.T) {
	noop := func(ctx context.Context, args json.RawMessage) (any, error) { return nil, nil }
	tests := []struct {
		name  string
		tools []af.Tool
	}{
		{"space in name", []af.Tool{af.NewTool("search docs", "x", nil, noop)}},
		{"empty name", []af.Tool{af.NewTool("", "x", nil, noop)}},
		{"duplicate from context", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newScriptedClient(textResponse("unused"))
			opts := []af.AgentOption{af.WithTools(tc.tools...)}
			if tc.tools == nil {
				dup := af.NewTool("search", "x", nil, noop)
				opts = []af.AgentOption{
					af.WithTools(dup),
					af.WithContextProvider(af.ContextProviderFunc(func(context.Context, []af.Message) (*af.InvocationContext, error) {
						return &af.InvocationContext{Tools: []af.Tool{dup}}, nil
					})),
				}
			}
			_, err := af.NewAgent(client, opts...).Run(context.Background(), []af.Message{af.NewUserMessage("q")})
			if !errors.Is(err, af.ErrConfiguration) {
				t.Fatalf("error = %v, want ErrConfiguration", err)
			}
			if client.callCount() != 0 {
				t.Errorf("client called %d times", client.callCount())
			}
		})
	}
}
