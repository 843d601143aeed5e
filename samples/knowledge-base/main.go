// Copyright (c) Microsoft. All rights reserved.

// Command knowledge-base chats with a Foundry prompt agent that answers from
// an Azure AI Search knowledge base through its MCP endpoint (agentic
// retrieval: query planning, parallel subqueries and semantic reranking run
// in the service).
//
// Required: AZURE_AI_PROJECT_ENDPOINT, AZURE_AI_MODEL_DEPLOYMENT_NAME,
// KNOWLEDGE_BASE_MCP_ENDPOINT
// ({search_endpoint}/knowledgebases/{kb}/mcp?api-version=2025-11-01-preview),
// KB_PROJECT_CONNECTION_NAME.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/agents"
	"github.com/jochenvw/azure-ai-samples/go/internal/config"
	"github.com/jochenvw/azure-ai-samples/go/internal/console"
	"github.com/jochenvw/azure-ai-samples/go/internal/setup"
	"github.com/jochenvw/azure-ai-samples/go/openai"
)

const (
	agentName = "KnowledgeBaseAgent"

	agentInstructions = `You are a helpful assistant that uses a knowledge base to answer questions.
You must always use the knowledge base tool to retrieve information.
Always provide citations using the tool and render them as: ` + "`[message_idx:search_idx†source_name]`."
)

func main() {
	cleanup := flag.Bool("cleanup", false, "delete the agent version on exit")
	flag.Parse()

	out := console.New(os.Stdout)
	if err := run(out, *cleanup); err != nil {
		out.Error(err)
		os.Exit(1)
	}
}

func run(out *console.Printer, cleanup bool) (err error) {
	closer, err := setup.Init()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	l := config.NewLoader()
	ps := l.Project()
	kb := l.KnowledgeBase()
	if err := l.Err(); err != nil {
		return err
	}
	cred, err := setup.Credential()
	if err != nil {
		return err
	}
	projects, err := agents.NewClient(ps.Endpoint, cred, nil)
	if err != nil {
		return err
	}

	v, err := projects.CreateAgentVersion(ctx, agentName, agents.CreateVersionRequest{
		Definition: agents.PromptAgentDefinition{
			Model:        ps.Model,
			Instructions: agentInstructions,
			Tools: []agents.DefinitionTool{
				agents.MCPTool("knowledge-base", kb.MCPEndpoint, kb.ConnectionName, "knowledge_base_retrieve"),
			},
		},
		Description: "Agent using agentic retrieval for knowledge base access",
	})
	if err != nil {
		return err
	}
	out.Success("Created agent: %s (version %s)", v.Name, v.Version)
	if cleanup {
		defer func() {
			if derr := projects.DeleteAgentVersion(context.WithoutCancel(ctx), v.Name, v.Version); derr != nil {
				err = errors.Join(err, derr)
				return
			}
			out.Info("Deleted agent version: %s v%s", v.Name, v.Version)
		}()
	}

	client := setup.ProjectResponsesClient(ps.Endpoint, cred, openai.WithAgent(v.Name, v.Version))
	agent := af.NewAgent(client, af.WithName(v.Name))
	session := agent.NewSession()

	out.Banner("Chat with Knowledge Base Agent (type 'quit' to exit)")
	repl := &console.REPL{In: os.Stdin, Out: out}
	return repl.Run(ctx, func(ctx context.Context, input string) error {
		resp, err := agent.Run(ctx, []af.Message{af.NewUserMessage(input)}, af.WithSession(session))
		if err != nil {
			return err
		}
		for _, m := range resp.Messages {
			for _, c := range m.Contents {
				if call, ok := c.(*af.MCPServerCallContent); ok {
					out.Info("  [%s] %s", call.ServerLabel, call.Name)
				}
			}
		}
		out.Printf("\n%s %s\n", out.Label("Agent"), resp.Text())
		out.Citations(resp.Citations())
		return nil
	})
}
