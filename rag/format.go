// Copyright (c) Microsoft. All rights reserved.

package rag

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"

	"github.com/jochenvw/azure-ai-samples/go/search"
)

const (
	// DefaultJSONContentLen caps each document's content in [FormatJSON].
	DefaultJSONContentLen = 500

	// DefaultContextContentLen caps each document's content in [FormatContext].
	DefaultContextContentLen = 2000

	// NoDocuments is the context text when a search returns nothing.
	NoDocuments = "No relevant documents found."

	contextSeparator = "\n\n---\n\n"
)

var (
	titleFields   = []string{"title", "name", "fileName"}
	contentFields = []string{"content", "chunk", "text"}
)

type jsonResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// FormatJSON renders docs as an indented JSON array of {title, content}
// objects in result order, the shape returned to the model by the search tool.
// Content is cut to maxLen runes.
func FormatJSON(docs []search.Document, maxLen int) string {
	out := make([]jsonResult, 0, len(docs))
	for _, d := range docs {
		title := d.Field("title")
		if title == "" {
			title = "N/A"
		}
		content, _ := truncate(d.Field("chunk", "content", "text"), maxLen)
		out = append(out, jsonResult{Title: title, Content: content})
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	return string(b)
}

// FormatContext renders docs as numbered context blocks for a prompt:
//
//	[1] title
//	content
//
// Blocks are separated by a "---" line. Content longer than maxLen runes is
// cut and suffixed with "...".
func FormatContext(docs []search.Document, maxLen int) string {
	if len(docs) == 0 {
		return NoDocuments
	}
	blocks := make([]string, len(docs))
	for i, d := range docs {
		blocks[i] = contextBlock(i+1, d, maxLen)
	}
	return strings.Join(blocks, contextSeparator)
}

// FormatContextBudget is [FormatContext] limited to maxTokens o200k tokens.
// Trailing documents that do not fit are dropped; the first document is
// always kept. It returns the context and the number of documents included.
func FormatContextBudget(docs []search.Document, maxLen, maxTokens int) (string, int, error) {
	if len(docs) == 0 {
		return NoDocuments, 0, nil
	}
	if maxTokens <= 0 {
		return FormatContext(docs, maxLen), len(docs), nil
	}
	sepTokens, err := CountTokens(contextSeparator)
	if err != nil {
		return "", 0, err
	}

	var blocks []string
	used := 0
	for i, d := range docs {
		block := contextBlock(i+1, d, maxLen)
		n, err := CountTokens(block)
		if err != nil {
			return "", 0, err
		}
		if i > 0 {
			n += sepTokens
		}
		if i > 0 && used+n > maxTokens {
			break
		}
		blocks = append(blocks, block)
		used += n
	}
	return strings.Join(blocks, contextSeparator), len(blocks), nil
}

func contextBlock(i int, d search.Document, maxLen int) string {
	title := d.Field(titleFields...)
	if title == "" {
		title = fmt.Sprintf("Document %d", i)
	}
	content := d.Field(contentFields...)
	if content == "" {
		content = string(d.Raw())
	}
	if cut, ok := truncate(content, maxLen); ok {
		content = cut + "..."
	}
	return fmt.Sprintf("[%d] %s\n%s", i, title, content)
}

// truncate cuts s to n runes and reports whether it did.
func truncate(s string, n int) (string, bool) {
	if n <= 0 || len(s) <= n {
		return s, false
	}
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}

var o200k = sync.OnceValues(func() (tokenizer.Codec, error) {
	return tokenizer.Get(tokenizer.O200kBase)
})

// CountTokens counts text in the o200k_base encoding used by GPT-4o and GPT-5 models.
func CountTokens(text string) (int, error) {
	enc, err := o200k()
	if err != nil {
		return 0, fmt.Errorf("load tokenizer: %w", err)
	}
	ids, _, err := enc.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return len(ids), nil
}
