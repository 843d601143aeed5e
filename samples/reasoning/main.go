// Copyright (c) Microsoft. All rights reserved.

// Command reasoning compares reasoning effort levels and reports how many
// output tokens each spends on internal reasoning.
//
// By default it calls the Responses API of an Azure OpenAI resource
// (AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_RESPONSES_DEPLOYMENT_NAME). With -agent
// it creates a Foundry prompt agent version per effort instead
// (AZURE_AI_PROJECT_ENDPOINT, AZURE_AI_MODEL_DEPLOYMENT_NAME) and deletes the
// versions afterwards.
//
//	go run ./samples/reasoning -efforts low,medium,high -tools
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	af "github.com/jochenvw/azure-ai-samples/go/agentframework"
	"github.com/jochenvw/azure-ai-samples/go/agents"
	"github.com/jochenvw/azure-ai-samples/go/internal/config"
	"github.com/jochenvw/azure-ai-samples/go/internal/console"
	"github.com/jochenvw/azure-ai-samples/go/internal/setup"
	"github.com/jochenvw/azure-ai-samples/go/internal/tools"
	"github.com/jochenvw/azure-ai-samples/go/openai"
)

const (
	primesPrompt = "What are the three largest prime numbers below 1000? Explain your reasoning step by step."
	mathPrompt   = "What is 25 * 47 + 133? Walk me through the math step by step."
	toolsPrompt  = "Calculate the factorial of 7, then divide by 42. Use the calculate tool."

	toolsInstructions = "You are a math assistant. Use the calculate tool when asked to compute something."
)

type options struct {
	efforts []af.ReasoningEffort
	summary af.ReasoningSummary
	tools   bool
	agent   bool
	prompt  string
}

func main() {
	efforts := flag.String("efforts", "", "comma-separated efforts; default high, or low,medium,high with -agent")
	summary := flag.String("summary", "", "reasoning summary: auto, concise or detailed")
	withTools := flag.Bool("tools", false, "also run the calculator tool test at high effort")
	agent := flag.Bool("agent", false, "run through Foundry prompt agent versions")
	prompt := flag.String("prompt", "", "override the prompt")
	flag.Parse()

	out := console.New(os.Stdout)
	o, err := parseOptions(*efforts, *summary, *withTools, *agent, *prompt)
	if err == nil {
		err = run(out, o)
	}
	if err != nil {
		out.Error(err)
		os.Exit(1)
	}
}

func parseOptions(efforts, summary string, withTools, agent bool, prompt string) (options, error) {
	o := options{summary: af.ReasoningSummary(summary), tools: withTools, agent: agent, prompt: prompt}
	if efforts == "" {
		efforts = "high"
		if agent {
			efforts = "low,medium,high"
		}
	}
	for _, s := range strings.Split(efforts, ",") {
		e, err := af.ParseReasoningEffort(s)
		if err != nil {
			return o, err
		}
		o.efforts = append(o.efforts, e)
	}
	if agent && o.summary == "" {
		o.summary = af.ReasoningSummaryConcise
	}
	if o.prompt == "" {
		o.prompt = primesPrompt
		if agent {
			o.prompt = mathPrompt
		}
	}
	return o, nil
}

func run(out *console.Printer, o options) error {
	closer, err := setup.Init()
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if o.agent {
		return runAgents(ctx, out, o)
	}
	return runResponses(ctx, out, o)
}

func runResponses(ctx context.Context, out *console.Printer, o options) error {
	l := config.NewLoader()
	oa := l.OpenAI()
	if err := l.Err(); err != nil {
		return err
	}
	var (
		cred azcore.TokenCredential
		err  error
	)
	if oa.APIKey == "" {
		if cred, err = setup.Credential(); err != nil {
			return err
		}
	}
	client := setup.ResponsesClient(oa, oa.ResponsesDeployment, cred)

	out.Banner("Responses API: reasoning effort")
	out.KeyValue("Deployment", oa.ResponsesDeployment)
	out.Printf("\n%s %s\n", out.Label("User"), o.prompt)

	for _, effort := range o.efforts {
		out.Section(fmt.Sprintf("reasoning.effort = %s", effort))
		resp, err := client.Response(ctx, []af.Message{af.NewUserMessage(o.prompt)}, &af.ChatOptions{
			Reasoning: &af.ReasoningOptions{Effort: effort, Summary: o.summary},
		})
		if err != nil {
			return err
		}
		printResult(out, resp.Messages, resp.Usage)
	}

	if o.tools {
		out.Section("reasoning.effort = high (with function calling)")
		agent := af.NewAgent(client,
			af.WithInstructions(toolsInstructions),
			af.WithTools(tools.Calculator()),
			af.WithDefaultOptions(&af.ChatOptions{Reasoning: &af.ReasoningOptions{Effort: af.ReasoningEffortHigh}}),
			af.WithAgentMiddleware(af.LoggingMiddleware(slog.Default())),
		)
		resp, err := agent.Run(ctx, []af.Message{af.NewUserMessage(toolsPrompt)})
		if err != nil {
			return err
		}
		out.KeyValue("Tool rounds", resp.ToolRounds)
		printResult(out, resp.Messages, resp.Usage)
	}
	return nil
}

func runAgents(ctx context.Context, out *console.Printer, o options) (err error) {
	l := config.NewLoader()
	ps := l.Project()
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

	var created []*agents.AgentVersion
	defer func() {
		// Clean up even when the run was interrupted.
		cleanup := context.WithoutCancel(ctx)
		for _, v := range created {
			if derr := projects.DeleteAgentVersion(cleanup, v.Name, v.Version); derr != nil {
				err = errors.Join(err, derr)
			}
		}
	}()

	invoke := func(name string, def agents.PromptAgentDefinition, localTools []af.Tool, prompt string) (*af.AgentResponse, error) {
		v, err := projects.CreateAgentVersion(ctx, name, agents.CreateVersionRequest{Definition: def})
		if err != nil {
			return nil, err
		}
		created = append(created, v)
		out.KeyValue("Agent", fmt.Sprintf("%s (version %s)", v.Name, v.Version))

		client := setup.ProjectResponsesClient(ps.Endpoint, cred, openai.WithAgent(v.Name, v.Version))
		agent := af.NewAgent(client, af.WithName(v.Name), af.WithTools(localTools...))
		return agent.Run(ctx, []af.Message{af.NewUserMessage(prompt)})
	}

	out.Banner("Agent Service: reasoning effort")
	out.KeyValue("Project", ps.Endpoint)
	out.KeyValue("Model", ps.Model)

	for _, effort := range o.efforts {
		out.Section("Reasoning effort: " + strings.ToUpper(string(effort)))
		resp, err := invoke("reasoning-test-"+string(effort), agents.PromptAgentDefinition{
			Model:     ps.Model,
			Reasoning: &agents.Reasoning{Effort: effort, Summary: o.summary},
		}, nil, o.prompt)
		if err != nil {
			return err
		}
		printResult(out, resp.Messages, resp.Usage)
	}

	if o.tools {
		out.Section("Reasoning effort: HIGH (with function calling)")
		calc := tools.Calculator()
		resp, err := invoke("reasoning-tools-test-high", agents.PromptAgentDefinition{
			Model:        ps.Model,
			Instructions: toolsInstructions,
			Tools:        []agents.DefinitionTool{agents.FunctionTool(calc)},
			Reasoning:    &agents.Reasoning{Effort: af.ReasoningEffortHigh},
		}, []af.Tool{calc}, toolsPrompt)
		if err != nil {
			return err
		}
		printResult(out, resp.Messages, resp.Usage)
	}
	return nil
}

func printResult(out *console.Printer, messages []af.Message, usage af.UsageDetails) {
	var text strings.Builder
	for _, m := range messages {
		for _, c := range m.Contents {
			switch c := c.(type) {
			case *af.TextReasoningContent:
				if c.Text != "" {
					out.Info("Reasoning summary: %s", c.Text)
				}
			case *af.TextContent:
				text.WriteString(c.Text)
			}
		}
	}
	out.Printf("\n%s %s\n\n", out.Label("Assistant"), text.String())

	out.Println("Token usage:")
	out.Usage(usage)
	if r, ok := usage.ReasoningTokens(); ok {
		out.Success("%d tokens used for internal reasoning", r)
		if ratio := usage.ReasoningRatio(); ratio > 0 {
			out.KeyValue("Reasoning ratio", fmt.Sprintf("%.1f%% of output tokens", ratio*100))
		}
	} else {
		out.Warn("reasoning_tokens not reported; check model and deployment support")
	}
}
