// Copyright (c) Microsoft. All rights reserved.

package rag

import (
	"context"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
)

// ContextProvider searches for the latest user message before every run and
// adds the results to the instructions.
type ContextProvider struct {
	af.NoOpContextProvider

	Retriever *Retriever
	// MaxContentLen caps each document. Defaults to DefaultContextContentLen.
	MaxContentLen int
	// MaxTokens bounds the injected context. Zero means no bound.
	MaxTokens int
}

var _ af.ContextProvider = (*ContextProvider)(nil)

func (p *ContextProvider) Invoking(ctx context.Context, messages []af.Message) (*af.InvocationContext, error) {
	query := af.LastUserText(messages)
	if query == "" {
		return &af.InvocationContext{}, nil
	}
	docs, err := p.Retriever.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	maxLen := p.MaxContentLen
	if maxLen == 0 {
		maxLen = DefaultContextContentLen
	}
	text, n, err := FormatContextBudget(docs, maxLen, p.MaxTokens)
	if err != nil {
		return nil, err
	}
	p.Retriever.logger().DebugContext(ctx, "context injected", "documents", n, "retrieved", len(docs))
	return &af.InvocationContext{Instructions: "Context from search:\n\n" + text}, nil
}
