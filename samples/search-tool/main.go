// Copyright (c) Microsoft. All rights reserved.

// Command search-tool runs a multi-turn conversation in which the model calls
// a local search_knowledge_base function backed by Azure AI Search. Turns are
// chained by previous response ID, so only new messages are sent.
//
// Required: AZURE_OPENAI_ENDPOINT, AI_SEARCH_ENDPOINT, AI_SEARCH_INDEX_NAME.
// Optional: AZURE_MODEL_NAME, AI_SEARCH_API_KEY, AI_SEARCH_SEMANTIC_CONFIG
// (default "default"), AI_SEARCH_VECTOR_FIELD (default "text_vector").
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/tidwall/gjson"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/internal/config"
	"github.com/jochenvw/azure-ai-samples/go/internal/console"
	"github.com/jochenvw/azure-ai-samples/go/internal/setup"
	"github.com/jochenvw/azure-ai-samples/go/rag"
)

type options struct {
	question  string
	maxRounds int
	reserve   int
	top       int

	toolTimeout time.Duration
}

func main() {
	var o options
	flag.StringVar(&o.question, "q", "", "ask a single question and exit")
	flag.IntVar(&o.maxRounds, "max-rounds", 5, "maximum tool-call rounds per turn")
	flag.IntVar(&o.reserve, "reserve", 2, "final rounds in which tool calls are disabled")
	flag.IntVar(&o.top, "top", rag.DefaultTop, "documents per search")
	flag.DurationVar(&o.toolTimeout, "tool-timeout", 30*time.Second, "timeout for one search call")
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
	ss := l.Search()
	if err := l.Err(); err != nil {
		return err
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
		SemanticConfig: l.Optional("AI_SEARCH_SEMANTIC_CONFIG", "default"),
		VectorField:    l.Optional("AI_SEARCH_VECTOR_FIELD", "text_vector"),
		Top:            o.top,
		Select:         []string{"chunk", "title"},
	}

	agent := af.NewAgent(setup.ResponsesClient(oa, oa.Model, cred),
		af.WithName("search-assistant"),
		af.WithInstructions(rag.SearchInstructions),
		af.WithTools(rag.NewSearchTool(retriever)),
		af.WithDefaultOptions(&af.ChatOptions{ToolChoice: af.ToolChoiceAuto}),
		af.WithInvocationConfig(af.InvocationConfig{
			MaxRounds:  o.maxRounds,
			ToolChoice: af.TightenToolChoice(o.reserve),
		}),
		af.WithFunctionMiddleware(
			af.ToolLoggingMiddleware(slog.Default()),
			af.ToolTimeoutMiddleware(o.toolTimeout),
			traceSearches(out),
		),
	)
	session := agent.NewSession()

	ask := func(ctx context.Context, question string) error {
		resp, err := agent.Run(ctx, []af.Message{af.NewUserMessage(question)}, askOptions(session, o.question != "")...)
		if err != nil {
			return err
		}
		out.Printf("%s %s\n", out.Label("Assistant"), resp.Text())
		out.Info("[tokens: %d in, %d out, %d total]", resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Usage.TotalTokens)
		return nil
	}

	out.Banner("Responses API + search tool")
	out.KeyValue("Model", oa.Model)
	out.KeyValue("Index", ss.Index)
	out.KeyValue("Query type", retriever.QueryOptions("x").Kind())

	if o.question != "" {
		return ask(ctx, o.question)
	}
	out.Info("Type 'quit' to exit.")
	repl := &console.REPL{In: os.Stdin, Out: out, StopOnEmpty: true}
	return repl.Run(ctx, ask)
}

// askOptions returns the run options for one question. A single question
// must be grounded, so its first request requires a tool call.
func askOptions(session *af.Session, single bool) []af.RunOption {
	opts := []af.RunOption{af.WithSession(session)}
	if single {
		opts = append(opts, af.WithRunOptions(&af.ChatOptions{ToolChoice: af.ToolChoiceRequired}))
	}
	return opts
}

// traceSearches prints each search the model requests and how many documents
// it returned.
func traceSearches(out *console.Printer) af.FunctionMiddleware {
	return func(next af.FunctionHandler) af.FunctionHandler {
		return func(ctx context.Context, tool af.Tool, args json.RawMessage) (any, error) {
			if tool.Name() != rag.SearchToolName {
				return next(ctx, tool, args)
			}
			query := gjson.GetBytes(args, "query").String()
			out.Info("  searching: %q", query)
			res, err := next(ctx, tool, args)
			if s, ok := res.(string); ok && err == nil {
				out.Info("  found %d documents", len(gjson.Parse(s).Array()))
			}
			return res, err
		}
	}
}
