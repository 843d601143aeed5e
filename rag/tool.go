// Copyright (c) Microsoft. All rights reserved.

package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

// SearchToolName is the function name the model calls.
const SearchToolName = "search_knowledge_base"

const searchToolDescription = "Search the knowledge base for documents. For finding a specific document by name, " +
	"use just the document name (e.g., 'document.pdf'). For content search, use descriptive keywords. " +
	"Call this tool separately for each document you need to find."

var searchToolParameters = json.RawMessage(`{
	"type": "object",
	"properties": {
		"query": {
			"type": "string",
			"description": "Either a document filename (e.g., 'document.pdf') or descriptive search terms"
		}
	},
	"required": ["query"]
}`)

// SearchInstructions is a system prompt that steers the model toward one
// search call per document.
const SearchInstructions = "You are a helpful assistant that searches a knowledge base to answer questions. " +
	"When comparing documents, search for each document separately by its exact filename. " +
	"Make one search call per document. Always use the search tool to find information before answering."

type searchArgs struct {
	Query string `json:"query"`
}

// NewSearchTool exposes r as the search_knowledge_base function tool. The
// result is the [FormatJSON] rendering of the retrieved documents.
func NewSearchTool(r *Retriever) *af.FunctionTool {
	return af.NewTool(SearchToolName, searchToolDescription, searchToolParameters,
		func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args searchArgs
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, &af.ToolError{ToolName: SearchToolName, Message: "invalid arguments: " + err.Error(), Err: af.ErrToolExecution}
			}
			if strings.TrimSpace(args.Query) == "" {
				return nil, &af.ToolError{ToolName: SearchToolName, Message: "query is required", Err: af.ErrToolExecution}
			}
			docs, err := r.Retrieve(ctx, args.Query)
			if err != nil {
				return nil, fmt.Errorf("search %q: %w", args.Query, err)
			}
			r.logger().InfoContext(ctx, "knowledge base searched", "query", args.Query, "documents", len(docs))
			return FormatJSON(docs, DefaultJSONContentLen), nil
		})
}
