package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// testOpenAI points a client at a stub chat completions endpoint.
func testOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  "gpt-5-mini",
	}
}

func chatReply(content, finishReason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-5-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": finishReason,
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     40,
				"completion_tokens": 25,
				"total_tokens":      65,
			},
		})
	}
}

func TestOpenAIComplete(t *testing.T) {
	c := testOpenAI(t, chatReply(`{"answer":"5"}`, "stop"))

	reply, err := c.Complete(context.Background(), Prompt{
		System:    "你是出题老师。",
		User:      "出一道极限题。",
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(reply.Body) != `{"answer":"5"}` {
		t.Fatalf("body = %s", reply.Body)
	}
	if reply.Usage.Input != 40 || reply.Usage.Output != 25 {
		t.Fatalf("usage = %+v", reply.Usage)
	}
	if reply.Usage.Total() != 65 {
		t.Fatalf("total = %d", reply.Usage.Total())
	}
	if reply.Model != "gpt-5-mini" {
		t.Fatalf("model = %q", reply.Model)
	}
}

func TestOpenAICompleteSchemaMismatch(t *testing.T) {
	c := testOpenAI(t, chatReply(`{"wrong":"shape"}`, "stop"))

	_, err := c.Complete(context.Background(), Prompt{
		User:      "test",
		MaxTokens: 256,
		Schema: &Schema{
			Name: "answer-only",
			Definition: map[string]any{
				"type":       "object",
				"properties": map[string]any{"answer": map[string]any{"type": "string"}},
				"required":   []any{"answer"},
			},
		},
	})
	var bad *BadReplyError
	if !errors.As(err, &bad) {
		t.Fatalf("want BadReplyError, got %T (%v)", err, err)
	}
	if string(bad.Body) != `{"wrong":"shape"}` {
		t.Fatalf("error body = %s", bad.Body)
	}
}

func TestOpenAICompleteTruncated(t *testing.T) {
	c := testOpenAI(t, chatReply(`{"answer":"5`, "length"))

	_, err := c.Complete(context.Background(), Prompt{User: "test", MaxTokens: 4})
	var trunc *TruncatedError
	if !errors.As(err, &trunc) {
		t.Fatalf("want TruncatedError, got %T (%v)", err, err)
	}
}

func TestOpenAICompleteRateLimited(t *testing.T) {
	c := testOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "tokens",
				"message": "Rate limit exceeded",
				"code":    "rate_limit_exceeded",
			},
		})
	})

	_, err := c.Complete(context.Background(), Prompt{User: "test", MaxTokens: 100})
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("want RateLimitError, got %T (%v)", err, err)
	}
}

func TestOpenAICompleteServerError(t *testing.T) {
	c := testOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "server_error", "message": "boom"},
		})
	})

	_, err := c.Complete(context.Background(), Prompt{User: "test", MaxTokens: 100})
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("want BackendError, got %T (%v)", err, err)
	}
	if be.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d", be.Status)
	}
}

func TestNewOpenAIAliases(t *testing.T) {
	cases := []struct{ in, want string }{
		{"fast", "gpt-5-mini"},
		{"smart", "gpt-5.1"},
		{"gpt-4.1", "gpt-4.1"},
	}
	for _, tc := range cases {
		c, err := NewOpenAI("test-key", tc.in, "")
		if err != nil {
			t.Fatalf("NewOpenAI(%q): %v", tc.in, err)
		}
		if c.Model() != tc.want {
			t.Errorf("Model() for %q = %q, want %q", tc.in, c.Model(), tc.want)
		}
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI("", "fast", ""); err == nil {
		t.Fatal("want error for missing key")
	}
}
