// Copyright (c) Microsoft. All rights reserved.

package agentframework

// Keys used in [UsageDetails.AdditionalCounts].
const (
	CountReasoningTokens   = "reasoning_tokens"
	CountCachedInputTokens = "cached_input_tokens"
)

// UsageDetails holds token consumption statistics for a model response.
type UsageDetails struct {
	InputTokens  int `json:"inputTokenCount,omitempty"`
	OutputTokens int `json:"outputTokenCount,omitempty"`
	TotalTokens  int `json:"totalTokenCount,omitempty"`

	// AdditionalCounts carries provider-specific counters such as
	// reasoning_tokens and cached_input_tokens.
	AdditionalCounts map[string]int `json:"additionalCounts,omitempty"`
}

// Count returns the named additional counter and whether the service reported it.
func (u UsageDetails) Count(name string) (int, bool) {
	v, ok := u.AdditionalCounts[name]
	return v, ok
}

// ReasoningTokens returns the number of output tokens spent on internal reasoning.
func (u UsageDetails) ReasoningTokens() (int, bool) {
	return u.Count(CountReasoningTokens)
}

// ReasoningRatio returns reasoning tokens as a fraction of output tokens,
// or 0 when either count is missing.
func (u UsageDetails) ReasoningRatio() float64 {
	r, ok := u.ReasoningTokens()
	if !ok || u.OutputTokens == 0 {
		return 0
	}
	return float64(r) / float64(u.OutputTokens)
}

// Add accumulates other into u. Used to total usage across tool-call rounds.
func (u *UsageDetails) Add(other UsageDetails) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
	if len(other.AdditionalCounts) == 0 {
		return
	}
	if u.AdditionalCounts == nil {
		u.AdditionalCounts = make(map[string]int, len(other.AdditionalCounts))
	}
	for k, v := range other.AdditionalCounts {
		u.AdditionalCounts[k] += v
	}
}

// IsZero reports whether no usage was recorded.
func (u UsageDetails) IsZero() bool {
	return u.InputTokens == 0 && u.OutputTokens == 0 && u.TotalTokens == 0 && len(u.AdditionalCounts) == 0
}
