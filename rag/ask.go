// Copyright (c) Microsoft. All rights reserved.

package rag

import (
	"context"
	"fmt"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/search"
)

// AnswerInstructions asks the model to ground its answer in numbered sources.
const AnswerInstructions = "You are a helpful assistant that answers questions based on the provided context. " +
	"Always cite your sources using [number] references. " +
	"If the context doesn't contain enough information, say so."

// Answer is the result of [Ask].
type Answer struct {
	Text      string
	Documents []search.Document
	Usage     af.UsageDetails
}

// Ask answers question by searching first and passing the formatted results
// to a single model call. model overrides the client's default when set.
func Ask(ctx context.Context, client af.ChatClient, r *Retriever, question, model string) (*Answer, error) {
	docs, err := r.Search(ctx, question)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("Context from search:\n\n%s\n\n---\n\nQuestion: %s",
		FormatContext(docs, DefaultContextContentLen), question)

	resp, err := client.Response(ctx, []af.Message{
		af.NewSystemMessage(AnswerInstructions),
		af.NewUserMessage(prompt),
	}, &af.ChatOptions{ModelID: model})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	return &Answer{Text: resp.Text(), Documents: docs, Usage: resp.Usage}, nil
}
