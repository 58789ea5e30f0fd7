package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/zhitui/zhitui/internal/store"
)

// NewClient builds the configured backend wrapped in the audit and
// retry layers. Retry sits outermost so every attempt is recorded in
// the event log individually.
func NewClient(ctx context.Context, cfg Config, events store.EventRepo) (Client, error) {
	var (
		base Client
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropic(cfg.APIKey, cfg.Model)
	case "openai":
		base, err = NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "gemini":
		base, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
	case "openrouter":
		base, err = NewOpenRouter(cfg.APIKey, cfg.Model)
	case "mock":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("configure %s: %w", cfg.Provider, err)
	}
	return WithRetry(WithAudit(base, cfg.Provider, events), cfg.Retry), nil
}

// NewClientFromEnv builds a client from the environment. An explicit
// ZHITUI_LLM_PROVIDER must validate on its own; otherwise the
// provider-standard key variables are probed as a fallback.
func NewClientFromEnv(ctx context.Context, events store.EventRepo) (Client, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		if os.Getenv("ZHITUI_LLM_PROVIDER") != "" {
			return nil, err
		}
		found, ok := Discover()
		if !ok {
			return nil, err
		}
		cfg = found
	}
	return NewClient(ctx, cfg, events)
}
