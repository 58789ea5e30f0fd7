package llm

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouter model ids are vendor-namespaced, so the tier aliases map
// to namespaced ids here.
var openRouterAliases = map[string]string{
	"fast":  "google/gemini-2.5-flash",
	"smart": "anthropic/claude-sonnet-4-5",
}

// OpenRouter serves completions through openrouter.ai, which speaks
// the OpenAI wire protocol.
type OpenRouter struct {
	*OpenAI
}

// NewOpenRouter builds an OpenRouter-backed client.
func NewOpenRouter(apiKey, model string) (*OpenRouter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter: missing API key")
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = openRouterBaseURL
	return &OpenRouter{OpenAI: &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  modelID(model, openRouterAliases),
	}}, nil
}
