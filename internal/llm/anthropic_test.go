package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// testAnthropic points a client at a stub messages endpoint.
func testAnthropic(t *testing.T, handler http.HandlerFunc) *Anthropic {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
	)
	return &Anthropic{client: &client, model: "claude-haiku-4-5-20251001"}
}

func messagesReply(text, stopReason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": text},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": stopReason,
			"usage": map[string]any{
				"input_tokens":  50,
				"output_tokens": 30,
			},
		})
	}
}

func TestAnthropicComplete(t *testing.T) {
	c := testAnthropic(t, messagesReply(`{"answer":"e^x"}`, "end_turn"))

	reply, err := c.Complete(context.Background(), Prompt{
		System:    "你是出题老师。",
		User:      "出一道导数题。",
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(reply.Body) != `{"answer":"e^x"}` {
		t.Fatalf("body = %s", reply.Body)
	}
	if reply.Usage.Input != 50 || reply.Usage.Output != 30 {
		t.Fatalf("usage = %+v", reply.Usage)
	}
}

func TestAnthropicCompleteTruncated(t *testing.T) {
	c := testAnthropic(t, messagesReply(`{"answer":"e^`, "max_tokens"))

	_, err := c.Complete(context.Background(), Prompt{User: "test", MaxTokens: 4})
	var trunc *TruncatedError
	if !errors.As(err, &trunc) {
		t.Fatalf("want TruncatedError, got %T (%v)", err, err)
	}
}

func TestAnthropicCompleteRateLimited(t *testing.T) {
	c := testAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"type": "error",
			"error": map[string]any{
				"type":    "rate_limit_error",
				"message": "Rate limit exceeded",
			},
		})
	})

	_, err := c.Complete(context.Background(), Prompt{User: "test", MaxTokens: 100})
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("want RateLimitError, got %T (%v)", err, err)
	}
}

func TestAnthropicCompleteServerError(t *testing.T) {
	c := testAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"type": "error",
			"error": map[string]any{
				"type":    "api_error",
				"message": "Internal server error",
			},
		})
	})

	_, err := c.Complete(context.Background(), Prompt{User: "test", MaxTokens: 100})
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("want BackendError, got %T (%v)", err, err)
	}
}

func TestNewAnthropicAliases(t *testing.T) {
	cases := []struct{ in, want string }{
		{"fast", "claude-haiku-4-5-20251001"},
		{"smart", "claude-sonnet-4-5-20250929"},
		{"claude-opus-4-6", "claude-opus-4-6"},
	}
	for _, tc := range cases {
		c, err := NewAnthropic("test-key", tc.in)
		if err != nil {
			t.Fatalf("NewAnthropic(%q): %v", tc.in, err)
		}
		if c.Model() != tc.want {
			t.Errorf("Model() for %q = %q, want %q", tc.in, c.Model(), tc.want)
		}
	}
}

func TestNewAnthropicRequiresKey(t *testing.T) {
	if _, err := NewAnthropic("", "fast"); err == nil {
		t.Fatal("want error for missing key")
	}
}
