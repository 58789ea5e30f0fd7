package llm

import "testing"

func TestNewOpenRouter(t *testing.T) {
	t.Run("namespaced id passes through", func(t *testing.T) {
		c, err := NewOpenRouter("sk-or-test", "deepseek/deepseek-v3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Model() != "deepseek/deepseek-v3" {
			t.Errorf("Model() = %q", c.Model())
		}
	})

	t.Run("tier aliases map to namespaced ids", func(t *testing.T) {
		cases := []struct{ in, want string }{
			{"fast", "google/gemini-2.5-flash"},
			{"smart", "anthropic/claude-sonnet-4-5"},
		}
		for _, tc := range cases {
			c, err := NewOpenRouter("sk-or-test", tc.in)
			if err != nil {
				t.Fatalf("NewOpenRouter(%q): %v", tc.in, err)
			}
			if c.Model() != tc.want {
				t.Errorf("Model() for %q = %q, want %q", tc.in, c.Model(), tc.want)
			}
		}
	})

	t.Run("missing key", func(t *testing.T) {
		if _, err := NewOpenRouter("", "fast"); err == nil {
			t.Fatal("want error for missing key")
		}
	})
}
