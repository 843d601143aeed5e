// Copyright (c) Microsoft. All rights reserved.

// Command agent-search creates a classic Foundry agent with the hosted Azure
// AI Search tool and chats with it over a thread. Every turn forces a tool
// call and prints the citations the service returns. The agent is deleted on
// exit.
//
// Required: AZURE_AI_PROJECT_ENDPOINT, AZURE_AI_MODEL_DEPLOYMENT_NAME,
// AI_SEARCH_PROJECT_CONNECTION_ID, AI_SEARCH_INDEX_NAME.
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
)

const agentInstructions = "You are a helpful agent that searches information using Azure AI Search. " +
	"Always use the search tool and index to find data and provide accurate information."

func main() {
	name := flag.String("name", "GrecoSearchAgent", "agent name")
	topK := flag.Int("top-k", 20, "documents the search tool retrieves")
	flag.Parse()

	out := console.New(os.Stdout)
	if err := run(out, *name, *topK); err != nil {
		out.Error(err)
		os.Exit(1)
	}
}

func run(out *console.Printer, name string, topK int) (err error) {
	closer, err := setup.Init()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	l := config.NewLoader()
	ps := l.Project()
	connID := l.Require("AI_SEARCH_PROJECT_CONNECTION_ID")
	index := l.Require("AI_SEARCH_INDEX_NAME")
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

	temperature := 0.1
	created, err := projects.CreateAgent(ctx, agents.CreateAgentRequest{
		Model:         ps.Model,
		Name:          name,
		Instructions:  agentInstructions,
		Temperature:   &temperature,
		Tools:         []agents.AgentTool{agents.AzureAISearchTool()},
		ToolResources: agents.AzureAISearchResources(connID, index, agents.QueryVectorSemanticHybrid, topK),
	})
	if err != nil {
		return err
	}
	defer func() {
		if derr := projects.DeleteAgent(context.WithoutCancel(ctx), created.ID); derr != nil {
			err = errors.Join(err, derr)
			return
		}
		out.Info("Deleted agent %s", created.ID)
	}()

	agent := af.NewAgent(projects.NewThreadClient(created.ID),
		af.WithName(created.Name),
		af.WithInstructions("You are a helpful agent that uses the search tool and index to find information."),
	)
	session := agent.NewSession()

	out.Banner("Azure AI Agent with Azure AI Search")
	out.KeyValue("Agent", created.ID)
	out.KeyValue("Index", index)
	out.Info("The conversation keeps context across turns. Type 'quit', 'exit' or 'q' to end it.")

	repl := &console.REPL{In: os.Stdin, Out: out, Prompt: "User", StopOnEmpty: true}
	return repl.Run(ctx, func(ctx context.Context, input string) error {
		stream, err := agent.RunStream(ctx, []af.Message{af.NewUserMessage(input)},
			af.WithSession(session),
			af.WithRunOptions(&af.ChatOptions{ToolChoice: af.ToolChoiceRequired}),
		)
		if err != nil {
			return err
		}
		defer stream.Close()

		out.Printf("%s ", out.Label("Agent"))
		var citations []af.Annotation
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
			for _, c := range update.Contents {
				if tc, ok := c.(*af.TextContent); ok {
					citations = append(citations, tc.Annotations...)
				}
			}
		}
		out.Println()
		out.Citations(citations)
		return nil
	})
}
