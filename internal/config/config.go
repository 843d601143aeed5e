// Copyright (c) Microsoft. All rights reserved.

// Package config reads sample configuration from the environment.
//
// Values come from the process environment after an optional .env file has
// been applied with [Load]. A [Loader] collects every missing variable so a
// sample can report them all at once:
//
//	l := config.NewLoader()
//	oa := l.OpenAI()
//	s := l.Search()
//	if err := l.Err(); err != nil {
//	    return err
//	}
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

// DefaultModel is used when AZURE_MODEL_NAME is not set.
const DefaultModel = "gpt-5-mini"

// Load applies the given .env files, or ".env" when none are given. Values in
// the files override the environment. A missing file is not an error.
func Load(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Overload(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%w: load %s: %w", af.ErrConfiguration, f, err)
		}
	}
	return nil
}

// IsPlaceholder reports whether v is unset or still holds a template value
// such as "your-search-endpoint".
func IsPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.HasPrefix(strings.ToLower(v), "your-")
}

// MissingEnvError lists required variables that are unset or placeholders.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Names, ", ")
}

func (e *MissingEnvError) Unwrap() error { return af.ErrConfiguration }

// Loader reads variables and remembers the required ones that are missing.
type Loader struct {
	missing []string
}

// NewLoader returns an empty Loader.
func NewLoader() *Loader { return &Loader{} }

// Require returns the trimmed value of name, recording it as missing when it
// is unset or a placeholder.
func (l *Loader) Require(name string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if IsPlaceholder(v) {
		for _, m := range l.missing {
			if m == name {
				return ""
			}
		}
		l.missing = append(l.missing, name)
		return ""
	}
	return v
}

// Optional returns the trimmed value of name, or def when it is unset or a
// placeholder.
func (l *Loader) Optional(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if IsPlaceholder(v) {
		return def
	}
	return v
}

// Err returns a *MissingEnvError naming every missing variable, or nil.
func (l *Loader) Err() error {
	if len(l.missing) == 0 {
		return nil
	}
	return &MissingEnvError{Names: append([]string(nil), l.missing...)}
}

// OpenAISettings configures an Azure OpenAI Responses client.
type OpenAISettings struct {
	Endpoint string // AZURE_OPENAI_ENDPOINT
	Model    string // AZURE_MODEL_NAME

	// ResponsesDeployment overrides Model for reasoning samples.
	ResponsesDeployment string // AZURE_OPENAI_RESPONSES_DEPLOYMENT_NAME

	// APIKey selects key authentication; empty means Entra ID.
	APIKey string // AZURE_OPENAI_API_KEY
}

// OpenAI reads [OpenAISettings].
func (l *Loader) OpenAI() OpenAISettings {
	s := OpenAISettings{
		Endpoint: l.Require("AZURE_OPENAI_ENDPOINT"),
		Model:    l.Optional("AZURE_MODEL_NAME", DefaultModel),
		APIKey:   l.Optional("AZURE_OPENAI_API_KEY", ""),
	}
	s.ResponsesDeployment = l.Optional("AZURE_OPENAI_RESPONSES_DEPLOYMENT_NAME", s.Model)
	return s
}

// SearchSettings configures an Azure AI Search client.
type SearchSettings struct {
	Endpoint string // AI_SEARCH_ENDPOINT
	Index    string // AI_SEARCH_INDEX_NAME
	APIKey   string // AI_SEARCH_API_KEY

	// Empty values disable semantic ranking and vector queries.
	SemanticConfig string // AI_SEARCH_SEMANTIC_CONFIG
	VectorField    string // AI_SEARCH_VECTOR_FIELD
}

// Search reads [SearchSettings].
func (l *Loader) Search() SearchSettings {
	return SearchSettings{
		Endpoint:       l.Require("AI_SEARCH_ENDPOINT"),
		Index:          l.Require("AI_SEARCH_INDEX_NAME"),
		APIKey:         l.Optional("AI_SEARCH_API_KEY", ""),
		SemanticConfig: l.Optional("AI_SEARCH_SEMANTIC_CONFIG", ""),
		VectorField:    l.Optional("AI_SEARCH_VECTOR_FIELD", ""),
	}
}

// ProjectSettings configures a Foundry project client.
type ProjectSettings struct {
	Endpoint string // AZURE_AI_PROJECT_ENDPOINT
	Model    string // AZURE_AI_MODEL_DEPLOYMENT_NAME
}

// Project reads [ProjectSettings].
func (l *Loader) Project() ProjectSettings {
	return ProjectSettings{
		Endpoint: l.Require("AZURE_AI_PROJECT_ENDPOINT"),
		Model:    l.Require("AZURE_AI_MODEL_DEPLOYMENT_NAME"),
	}
}

// KnowledgeBaseSettings locates a knowledge base exposed as an MCP server.
type KnowledgeBaseSettings struct {
	MCPEndpoint    string // KNOWLEDGE_BASE_MCP_ENDPOINT
	ConnectionName string // KB_PROJECT_CONNECTION_NAME
}

// KnowledgeBase reads [KnowledgeBaseSettings].
func (l *Loader) KnowledgeBase() KnowledgeBaseSettings {
	return KnowledgeBaseSettings{
		MCPEndpoint:    l.Require("KNOWLEDGE_BASE_MCP_ENDPOINT"),
		ConnectionName: l.Require("KB_PROJECT_CONNECTION_NAME"),
	}
}
