// Copyright (c) Microsoft. All rights reserved.

// Package rag retrieves documents from Azure AI Search and shapes them for a
// model, either as a tool result, as injected context, or as a one-shot
// search-then-generate answer.
package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/search"
)

const (
	// DefaultTop is the number of documents returned when Retriever.Top is unset.
	DefaultTop = 5

	// nameScanTop is how many documents a document-name lookup scans.
	nameScanTop = 50
)

// Searcher runs a search query. *search.Client implements it.
type Searcher interface {
	Search(ctx context.Context, opts search.SearchOptions) ([]search.Document, error)
}

// Retriever turns a free-text or document-name query into search results.
type Retriever struct {
	Client Searcher
	// SemanticConfig enables semantic ranking when set.
	SemanticConfig string
	// VectorField enables an integrated-vectorization query against this field.
	VectorField string
	Top         int
	// Select limits the returned fields. Empty returns all retrievable fields.
	Select []string
	Logger *slog.Logger
}

var nonNameWords = []string{"content", "article", "about", "what", "how"}

// IsDocumentName reports whether query looks like a file name rather than a
// question: at most two words, an underscore, and none of the question words.
func IsDocumentName(query string) bool {
	words := strings.Fields(query)
	if len(words) == 0 || len(words) > 2 || !strings.Contains(query, "_") {
		return false
	}
	lower := strings.ToLower(query)
	for _, w := range nonNameWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}

// DocumentName extracts the lookup name from a document-name query.
func DocumentName(query string) string {
	words := strings.Fields(query)
	if len(words) == 0 {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(words[0]), ".pdf", "")
}

func (r *Retriever) top() int {
	if r.Top > 0 {
		return r.Top
	}
	return DefaultTop
}

func (r *Retriever) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// QueryOptions returns the content query for text: semantic ranking and a
// vector query when the retriever is configured for them.
func (r *Retriever) QueryOptions(text string) search.SearchOptions {
	opts := search.SearchOptions{Text: text, Top: r.top(), Select: r.Select}
	if r.SemanticConfig != "" {
		opts.QueryType = search.QueryTypeSemantic
		opts.SemanticConfiguration = r.SemanticConfig
	}
	if r.VectorField != "" {
		opts.VectorQueries = []search.VectorQuery{{Text: text, K: r.top(), Fields: r.VectorField}}
	}
	return opts
}

// Retrieve searches for query. Document-name queries scan the index for
// matching titles; other queries run the configured content query. If the
// service rejects the query, Retrieve retries once as a simple full-text search.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]search.Document, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("%w: retriever has no search client", af.ErrConfiguration)
	}
	var (
		docs []search.Document
		err  error
	)
	if IsDocumentName(query) {
		docs, err = r.byName(ctx, DocumentName(query))
	} else {
		opts := r.QueryOptions(query)
		r.logger().DebugContext(ctx, "searching", "query", query, "kind", opts.Kind())
		docs, err = r.Client.Search(ctx, opts)
	}
	if err == nil {
		return docs, nil
	}
	return r.fallback(ctx, query, err)
}

// Search runs the content query for query, with the same fallback as Retrieve
// but without the document-name lookup.
func (r *Retriever) Search(ctx context.Context, query string) ([]search.Document, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("%w: retriever has no search client", af.ErrConfiguration)
	}
	docs, err := r.Client.Search(ctx, r.QueryOptions(query))
	if err == nil {
		return docs, nil
	}
	return r.fallback(ctx, query, err)
}

func (r *Retriever) byName(ctx context.Context, name string) ([]search.Document, error) {
	r.logger().DebugContext(ctx, "document name lookup", "name", name)
	all, err := r.Client.Search(ctx, search.SearchOptions{Text: "*", Top: nameScanTop, Select: r.Select})
	if err != nil {
		return nil, err
	}
	var docs []search.Document
	for _, d := range all {
		if strings.Contains(strings.ToLower(d.Field("title")), name) {
			docs = append(docs, d)
			if len(docs) == r.top() {
				break
			}
		}
	}
	return docs, nil
}

// fallback retries a query the service rejected. Other errors are returned as is.
func (r *Retriever) fallback(ctx context.Context, query string, cause error) ([]search.Document, error) {
	var svcErr *af.ServiceError
	if !errors.As(cause, &svcErr) || errors.Is(cause, af.ErrAuth) {
		return nil, cause
	}
	r.logger().WarnContext(ctx, "search failed, falling back to simple full-text search", "error", cause)
	docs, err := r.Client.Search(ctx, search.SearchOptions{Text: query, Top: r.top(), Select: r.Select})
	if err != nil {
		return nil, fmt.Errorf("fallback search: %w", err)
	}
	return docs, nil
}
