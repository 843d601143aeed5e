// Copyright (c) Microsoft. All rights reserved.

// Command chat demonstrates a multi-turn conversational agent with tool use
// over the Azure OpenAI Responses API.
//
// Usage:
//
//	export AZURE_OPENAI_ENDPOINT=https://<resource>.openai.azure.com/
//	export AZURE_MODEL_NAME=gpt-5-mini         # optional
//	export AZURE_OPENAI_API_KEY=<key>          # optional, Entra ID otherwise
//	go run ./samples/chat
//
// Prefix a message with "stream " to stream the reply.
//
// With -context every message is first searched in Azure AI Search and the
// results are added to the instructions, bounded by -max-context-tokens:
//
//	export AZURE_SEARCH_ENDPOINT=https://<service>.search.windows.net
//	export AZURE_SEARCH_INDEX_NAME=<index>
//	go run ./samples/chat -context -max-context-tokens 2000
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/internal/config"
	"github.com/jochenvw/azure-ai-samples/go/internal/console"
	"github.com/jochenvw/azure-ai-samples/go/internal/setup"
	"github.com/jochenvw/azure-ai-samples/go/internal/tools"
	"github.com/jochenvw/azure-ai-samples/go/rag"
)

const instructions = "You are a helpful assistant. Use the calculate tool for arithmetic and the get_time tool for the current time. Keep responses concise."

type options struct {
	searchContext    bool
	maxContextTokens int
	top              int
}

func main() {
	var o options
	flag.BoolVar(&o.searchContext, "context", false, "add Azure AI Search results for each message to the instructions")
	flag.IntVar(&o.maxContextTokens, "max-context-tokens", 3000, "token budget for search context (0 = unbounded)")
	flag.IntVar(&o.top, "top", rag.DefaultTop, "documents retrieved per message with -context")
	flag.Parse()

	out := console.New(os.Stdout)
	if err := run(out, o); err != nil {
		out.Error(err)
		os.Exit(1)
	}
}

func run(out *console.Printer, o options) error {
	closer, err := setup.Init()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	l := config.NewLoader()
	oa := l.OpenAI()
	var ss config.SearchSettings
	if o.searchContext {
		ss = l.Search()
	}
	if err := l.Err(); err != nil {
		return err
	}
	var cred azcore.TokenCredential
	if setup.NeedsCredential(oa.APIKey) || (o.searchContext && setup.NeedsCredential(ss.APIKey)) {
		if cred, err = setup.Credential(); err != nil {
			return err
		}
	}
	client := setup.ResponsesClient(oa, oa.Model, cred)

	var retriever *rag.Retriever
	if o.searchContext {
		sc, err := setup.SearchClient(ss, cred, nil)
		if err != nil {
			return err
		}
		retriever = &rag.Retriever{
			Client:         sc,
			SemanticConfig: ss.SemanticConfig,
			VectorField:    ss.VectorField,
			Top:            o.top,
		}
	}

	agent := af.NewAgent(client, agentOptions(retriever, o.maxContextTokens)...)
	session := agent.NewSession()

	out.Banner("Chat")
	out.KeyValue("Endpoint", oa.Endpoint)
	out.KeyValue("Model", oa.Model)
	if retriever != nil {
		out.KeyValue("Search context", ss.Index)
		out.KeyValue("Context budget", o.maxContextTokens)
	}
	out.Info("Type 'quit' to exit. Prefix a message with 'stream ' for streaming.")

	repl := &console.REPL{In: os.Stdin, Out: out}
	return repl.Run(ctx, func(ctx context.Context, input string) error {
		msgs := func(text string) []af.Message { return []af.Message{af.NewUserMessage(text)} }

		if text, ok := strings.CutPrefix(input, "stream "); ok {
			stream, err := agent.RunStream(ctx, msgs(text), af.WithSession(session))
			if err != nil {
				return err
			}
			defer stream.Close()

			out.Printf("%s ", out.Label("Assistant"))
			for {
				update, ok, err := stream.Next(ctx)
				if err != nil {
					out.Println()
					return err
				}
				if !ok {
					break
				}
				out.Printf("%s", update.Text())
			}
			out.Println()
			return nil
		}

		resp, err := agent.Run(ctx, msgs(input), af.WithSession(session))
		if err != nil {
			return err
		}
		out.Printf("%s %s\n", out.Label("Assistant"), resp.Text())
		if resp.Usage.TotalTokens > 0 {
			out.Info("[tokens: %d in, %d out]", resp.Usage.InputTokens, resp.Usage.OutputTokens)
		}
		return nil
	})
}

// agentOptions configures the chat agent. A non-nil retriever adds search
// results for each message, bounded to maxContextTokens.
func agentOptions(retriever *rag.Retriever, maxContextTokens int) []af.AgentOption {
	opts := []af.AgentOption{
		af.WithName("assistant"),
		af.WithInstructions(instructions),
		af.WithTools(tools.Calculator(), timeTool()),
		af.WithAgentMiddleware(af.LoggingMiddleware(slog.Default())),
		af.WithFunctionMiddleware(af.ToolLoggingMiddleware(slog.Default())),
	}
	if retriever != nil {
		opts = append(opts, af.WithContextProvider(&rag.ContextProvider{
			Retriever: retriever,
			MaxTokens: maxContextTokens,
		}))
	}
	return opts
}

func timeTool() af.Tool {
	return af.NewTool("get_time",
		"Get the current time.",
		json.RawMessage(`{"type":"object","properties":{}}`),
		func(ctx context.Context, args json.RawMessage) (any, error) {
			now := time.Now()
			return map[string]string{
				"time":     now.Format("3:04 PM"),
				"date":     now.Format("Monday, January 2, 2006"),
				"timezone": now.Location().String(),
				"iso8601":  now.Format(time.RFC3339),
			}, nil
		},
	)
}
