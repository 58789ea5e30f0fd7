package llm

import "strings"

// Rate is a model's price in USD per million tokens.
type Rate struct {
	In  float64
	Out float64
}

// Cost returns the USD cost of a call at this rate.
func (r Rate) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*r.In + float64(outputTokens)*r.Out) / 1e6
}

// PriceFor looks up the billing rate for a model id. Dated releases
// fall back to the longest listed prefix, so claude-haiku-4-5-20251001
// bills at the claude-haiku-4-5 rate without its own row.
func PriceFor(model string) (Rate, bool) {
	if r, ok := rates[model]; ok {
		return r, true
	}
	best := ""
	for prefix := range rates {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return Rate{}, false
	}
	return rates[best], true
}

// rates mirrors the published per-million-token prices. Checked
// against models.dev 2026-02-15.
var rates = map[string]Rate{
	// Anthropic
	"claude-3-5-haiku":  {0.8, 4},
	"claude-3-5-sonnet": {3, 15},
	"claude-3-7-sonnet": {3, 15},
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4":   {3, 15},
	"claude-sonnet-4-5": {3, 15},
	"claude-opus-4":     {15, 75},
	"claude-opus-4-5":   {5, 25},
	"claude-opus-4-6":   {5, 25},

	// OpenAI
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"gpt-5-pro":    {15, 120},
	"gpt-5.1":      {1.25, 10},
	"gpt-5.2":      {1.75, 14},
	"o3":           {2, 8},
	"o4-mini":      {1.1, 4.4},

	// Google
	"gemini-1.5-flash":       {0.075, 0.3},
	"gemini-1.5-pro":         {1.25, 5},
	"gemini-2.0-flash":       {0.1, 0.4},
	"gemini-2.5-flash":       {0.3, 2.5},
	"gemini-2.5-flash-lite":  {0.1, 0.4},
	"gemini-2.5-pro":         {1.25, 10},
	"gemini-3-flash-preview": {0.5, 3},
	"gemini-3-pro-preview":   {2, 12},
}
