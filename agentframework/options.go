// Copyright (c) Microsoft. All rights reserved.

package agentframework

import (
	"fmt"
	"strings"
)

// ToolChoice controls how the model selects tools.
type ToolChoice string

const (
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceRequired ToolChoice = "required"
	ToolChoiceNone     ToolChoice = "none"
)

// ToolChoiceFunction returns a ToolChoice that forces the model to call
// the named function.
func ToolChoiceFunction(name string) ToolChoice {
	return ToolChoice("function:" + name)
}

// FunctionName returns the forced function name, if tc was built by
// [ToolChoiceFunction].
func (tc ToolChoice) FunctionName() (string, bool) {
	return strings.CutPrefix(string(tc), "function:")
}

// ReasoningEffort trades latency for more internal deliberation.
type ReasoningEffort string

const (
	ReasoningEffortMinimal ReasoningEffort = "minimal"
	ReasoningEffortLow     ReasoningEffort = "low"
	ReasoningEffortMedium  ReasoningEffort = "medium"
	ReasoningEffortHigh    ReasoningEffort = "high"
)

// ParseReasoningEffort validates a user-supplied effort level.
func ParseReasoningEffort(s string) (ReasoningEffort, error) {
	switch e := ReasoningEffort(strings.ToLower(strings.TrimSpace(s))); e {
	case ReasoningEffortMinimal, ReasoningEffortLow, ReasoningEffortMedium, ReasoningEffortHigh:
		return e, nil
	default:
		return "", fmt.Errorf("%w: unknown reasoning effort %q", ErrConfiguration, s)
	}
}

// ReasoningSummary selects whether and how the service summarizes reasoning.
type ReasoningSummary string

const (
	ReasoningSummaryAuto     ReasoningSummary = "auto"
	ReasoningSummaryConcise  ReasoningSummary = "concise"
	ReasoningSummaryDetailed ReasoningSummary = "detailed"
)

// ReasoningOptions configures reasoning models.
type ReasoningOptions struct {
	Effort  ReasoningEffort
	Summary ReasoningSummary
}

// ChatOptions configures a single chat request.
// Pointer fields use nil to represent "unset" (use provider default).
type ChatOptions struct {
	ModelID      string
	Temperature  *float64
	TopP         *float64
	MaxTokens    *int
	Tools        []Tool
	ToolChoice   ToolChoice
	Reasoning    *ReasoningOptions
	Metadata     map[string]string
	User         string
	Instructions string

	// ConversationID continues a service-managed conversation. For the
	// Responses API this is the previous response ID; for agent threads it
	// is the thread ID.
	ConversationID string
	Store          *bool

	// Extra holds provider-specific options not covered by standard fields.
	Extra map[string]any
}

// Clone returns a shallow copy whose maps and tool slice may be modified
// without affecting o.
func (o *ChatOptions) Clone() *ChatOptions {
	if o == nil {
		return &ChatOptions{}
	}
	cp := *o
	if o.Tools != nil {
		cp.Tools = append([]Tool(nil), o.Tools...)
	}
	if o.Metadata != nil {
		cp.Metadata = make(map[string]string, len(o.Metadata))
		for k, v := range o.Metadata {
			cp.Metadata[k] = v
		}
	}
	if o.Extra != nil {
		cp.Extra = make(map[string]any, len(o.Extra))
		for k, v := range o.Extra {
			cp.Extra[k] = v
		}
	}
	return &cp
}

// MergeChatOptions produces a new ChatOptions by overlaying override values
// onto base. Nil or zero-value fields in override do not overwrite base.
// Tools are merged by name (override replaces same-named tools).
// Metadata is merged (override keys win). Instructions are concatenated.
func MergeChatOptions(base, override *ChatOptions) *ChatOptions {
	if base == nil {
		return override.Clone()
	}
	merged := base.Clone()
	if override == nil {
		return merged
	}

	if override.ModelID != "" {
		merged.ModelID = override.ModelID
	}
	if override.Temperature != nil {
		merged.Temperature = override.Temperature
	}
	if override.TopP != nil {
		merged.TopP = override.TopP
	}
	if override.MaxTokens != nil {
		merged.MaxTokens = override.MaxTokens
	}
	if override.ToolChoice != "" {
		merged.ToolChoice = override.ToolChoice
	}
	if override.Reasoning != nil {
		r := *override.Reasoning
		if merged.Reasoning != nil && r.Summary == "" {
			r.Summary = merged.Reasoning.Summary
		}
		merged.Reasoning = &r
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.ConversationID != "" {
		merged.ConversationID = override.ConversationID
	}
	if override.Store != nil {
		merged.Store = override.Store
	}

	if override.Instructions != "" {
		if merged.Instructions != "" {
			merged.Instructions += "\n" + override.Instructions
		} else {
			merged.Instructions = override.Instructions
		}
	}

	// Tools: base order first, override replaces same-named entries in place.
	if len(override.Tools) > 0 {
		byName := make(map[string]Tool, len(override.Tools))
		for _, t := range override.Tools {
			byName[t.Name()] = t
		}
		tools := make([]Tool, 0, len(merged.Tools)+len(override.Tools))
		seen := make(map[string]bool, len(merged.Tools))
		for _, t := range merged.Tools {
			if o, ok := byName[t.Name()]; ok {
				t = o
			}
			tools = append(tools, t)
			seen[t.Name()] = true
		}
		for _, t := range override.Tools {
			if !seen[t.Name()] {
				tools = append(tools, t)
				seen[t.Name()] = true
			}
		}
		merged.Tools = tools
	}

	if len(override.Metadata) > 0 {
		if merged.Metadata == nil {
			merged.Metadata = make(map[string]string, len(override.Metadata))
		}
		for k, v := range override.Metadata {
			merged.Metadata[k] = v
		}
	}

	if len(override.Extra) > 0 {
		if merged.Extra == nil {
			merged.Extra = make(map[string]any, len(override.Extra))
		}
		for k, v := range override.Extra {
			merged.Extra[k] = v
		}
	}

	return merged
}
