// Copyright (c) Microsoft. All rights reserved.

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/internal/config"
)

func TestLoad_OverridesEnvironment(t *testing.T) {
	t.Setenv("AI_SEARCH_INDEX_NAME", "from-env")
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("AI_SEARCH_INDEX_NAME=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := config.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("AI_SEARCH_INDEX_NAME"); got != "from-file" {
		t.Errorf("AI_SEARCH_INDEX_NAME = %q, want from-file", got)
	}
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	if err := config.Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"your-search-endpoint", true},
		{"YOUR-INDEX", true},
		{"https://svc.search.windows.net", false},
		{"kb-index", false},
	}
	for _, tc := range tests {
		if got := config.IsPlaceholder(tc.in); got != tc.want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLoader_CollectsAllMissing(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://res.openai.azure.com/")
	t.Setenv("AI_SEARCH_ENDPOINT", "your-search-endpoint")
	t.Setenv("AI_SEARCH_INDEX_NAME", "")

	l := config.NewLoader()
	oa := l.OpenAI()
	l.Search()
	l.Require("AI_SEARCH_ENDPOINT")

	if oa.Endpoint != "https://res.openai.azure.com/" {
		t.Errorf("Endpoint = %q", oa.Endpoint)
	}
	err := l.Err()
	var missing *config.MissingEnvError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingEnvError", err)
	}
	want := []string{"AI_SEARCH_ENDPOINT", "AI_SEARCH_INDEX_NAME"}
	if !reflect.DeepEqual(missing.Names, want) {
		t.Errorf("Names = %v, want %v", missing.Names, want)
	}
	if !errors.Is(err, af.ErrConfiguration) {
		t.Error("error does not wrap ErrConfiguration")
	}
	if af.ClassifyError(err) != af.ClassFatal {
		t.Errorf("class = %s, want fatal", af.ClassifyError(err))
	}
}

func TestLoader_Defaults(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://res.openai.azure.com/")
	t.Setenv("AZURE_MODEL_NAME", "")
	t.Setenv("AZURE_OPENAI_RESPONSES_DEPLOYMENT_NAME", "")
	t.Setenv("AI_SEARCH_SEMANTIC_CONFIG", "")

	l := config.NewLoader()
	oa := l.OpenAI()
	if oa.Model != config.DefaultModel || oa.ResponsesDeployment != config.DefaultModel {
		t.Errorf("model = %q, deployment = %q", oa.Model, oa.ResponsesDeployment)
	}
	if got := l.Optional("AI_SEARCH_SEMANTIC_CONFIG", "default"); got != "default" {
		t.Errorf("Optional = %q", got)
	}
	if err := l.Err(); err != nil {
		t.Errorf("Err = %v", err)
	}
}

func TestLoader_ProjectAndKnowledgeBase(t *testing.T) {
	t.Setenv("AZURE_AI_PROJECT_ENDPOINT", " https://acct.services.ai.azure.com/api/projects/demo ")
	t.Setenv("AZURE_AI_MODEL_DEPLOYMENT_NAME", "gpt-4.1")
	t.Setenv("KNOWLEDGE_BASE_MCP_ENDPOINT", "https://svc.search.windows.net/knowledgebases/kb/mcp")
	t.Setenv("KB_PROJECT_CONNECTION_NAME", "kb-conn")

	l := config.NewLoader()
	p := l.Project()
	kb := l.KnowledgeBase()
	if err := l.Err(); err != nil {
		t.Fatal(err)
	}
	if p.Endpoint != "https://acct.services.ai.azure.com/api/projects/demo" || p.Model != "gpt-4.1" {
		t.Errorf("project = %+v", p)
	}
	if kb.ConnectionName != "kb-conn" {
		t.Errorf("knowledge base = %+v", kb)
	}
}
