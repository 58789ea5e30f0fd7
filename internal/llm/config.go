package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and tunes one backend. A single flat key/model pair
// covers every backend because only one is ever active per process.
type Config struct {
	// Provider picks the backend: anthropic, openai, gemini,
	// openrouter or mock.
	Provider string

	// APIKey authenticates against the chosen backend.
	APIKey string

	// Model is a tier alias (fast, smart) or a literal model id.
	Model string

	// BaseURL overrides the endpoint for OpenAI-compatible gateways.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds one call including retries. Generating a full
	// problem batch is slow, so the default is generous.
	Timeout time.Duration
}

// DefaultConfig returns the stock configuration: Anthropic on the
// fast tier.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Model:    "fast",
		Retry: RetryConfig{
			Attempts:  3,
			BaseDelay: time.Second,
			MaxDelay:  10 * time.Second,
		},
		Timeout: 2 * time.Minute,
	}
}

// ConfigFromEnv reads the ZHITUI_LLM_* variables over the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("ZHITUI_LLM_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("ZHITUI_LLM_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("ZHITUI_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ZHITUI_LLM_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	return cfg
}

// Discover probes the provider-standard key variables and returns a
// config for the first one set. Gemini leads because its free tier is
// the most common zero-setup path.
func Discover() (Config, bool) {
	probes := []struct{ provider, env string }{
		{"gemini", "GEMINI_API_KEY"},
		{"anthropic", "ANTHROPIC_API_KEY"},
		{"openai", "OPENAI_API_KEY"},
		{"openrouter", "OPENROUTER_API_KEY"},
	}
	for _, pr := range probes {
		if key := os.Getenv(pr.env); key != "" {
			cfg := DefaultConfig()
			cfg.Provider = pr.provider
			cfg.APIKey = key
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks the provider name and its key.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic", "openai", "gemini", "openrouter":
		if c.APIKey == "" {
			return fmt.Errorf("no API key for provider %q: set ZHITUI_LLM_API_KEY", c.Provider)
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	return nil
}
