// Copyright (c) Microsoft. All rights reserved.

// Command responses-rag answers one question with the classic RAG pattern:
// query Azure AI Search directly, then pass the formatted results to the
// Responses API. Works with models that the hosted search tool does not
// support.
//
// Required: AZURE_OPENAI_ENDPOINT, AI_SEARCH_ENDPOINT, AI_SEARCH_INDEX_NAME.
// Optional: AZURE_MODEL_NAME, AI_SEARCH_API_KEY, AI_SEARCH_SEMANTIC_CONFIG,
// AI_SEARCH_VECTOR_FIELD (semantic and vector queries are used only when set).
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/jochenvw/azure-ai-samples/go/internal/config"
	"github.com/jochenvw/azure-ai-samples/go/internal/console"
	"github.com/jochenvw/azure-ai-samples/go/internal/setup"
	"github.com/jochenvw/azure-ai-samples/go/rag"
)

const defaultQuestion = "What are the main topics covered in the documents?"

func main() {
	question := flag.String("q", "", "question to answer; prompts when empty")
	top := flag.Int("top", 10, "number of documents to retrieve")
	model := flag.String("model", "", "model deployment; default AZURE_MODEL_NAME")
	flag.Parse()

	out := console.New(os.Stdout)
	if err := run(out, *question, *top, *model); err != nil {
		out.Error(err)
		os.Exit(1)
	}
}

func run(out *console.Printer, question string, top int, model string) error {
	closer, err := setup.Init()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out.Banner("Azure AI Search + Responses API")

	l := config.NewLoader()
	oa := l.OpenAI()
	ss := l.Search()
	if err := l.Err(); err != nil {
		return err
	}
	if model == "" {
		model = oa.Model
	}

	var cred azcore.TokenCredential
	if setup.NeedsCredential(oa.APIKey, ss.APIKey) {
		if cred, err = setup.Credential(); err != nil {
			return err
		}
	}
	sc, err := setup.SearchClient(ss, cred, nil)
	if err != nil {
		return err
	}
	retriever := &rag.Retriever{
		Client:         sc,
		SemanticConfig: ss.SemanticConfig,
		VectorField:    ss.VectorField,
		Top:            top,
	}

	if question == "" {
		out.Printf("\nEnter your search query (or press Enter for default): ")
		if question, err = readQuestion(os.Stdin); err != nil {
			return err
		}
	}

	out.Section("Searching")
	out.KeyValue("Index", ss.Index)
	out.KeyValue("Query type", retriever.QueryOptions(question).Kind())

	client := setup.ResponsesClient(oa, model, cred)
	answer, err := rag.Ask(ctx, client, retriever, question, model)
	if err != nil {
		return err
	}

	out.KeyValue("Documents", len(answer.Documents))
	for i, d := range answer.Documents {
		out.Info("  [%d] %s", i+1, d.Field("title", "name", "fileName"))
	}
	out.Section("Answer (" + model + ")")
	out.Println(answer.Text)
	out.Section("Usage")
	out.Usage(answer.Usage)
	return nil
}

// readQuestion reads one line from in, falling back to defaultQuestion when
// it is blank or input ends before any text.
func readQuestion(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read question: %w", err)
	}
	if q := strings.TrimSpace(line); q != "" {
		return q, nil
	}
	return defaultQuestion, nil
}
