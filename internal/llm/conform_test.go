package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func gradeSchema() *Schema {
	return &Schema{
		Name:        "test-grade",
		Description: "a graded item",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"score": map[string]any{"type": "integer", "minimum": 0},
				"grade": map[string]any{"type": "string", "enum": []any{"优", "良", "差"}},
			},
			"required": []any{"name", "score"},
		},
	}
}

func TestConform(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"all fields", `{"name":"小明","score":92,"grade":"优"}`, true},
		{"optional omitted", `{"name":"小红","score":80}`, true},
		{"missing required", `{"name":"小刚"}`, false},
		{"wrong type", `{"name":"小丽","score":"九十"}`, false},
		{"enum violation", `{"name":"小王","score":70,"grade":"中"}`, false},
		{"below minimum", `{"name":"小张","score":-1}`, false},
		{"not JSON", `{oops`, false},
		{"empty", ``, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := conform(gradeSchema(), json.RawMessage(tc.body))
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				var bad *BadReplyError
				if !errors.As(err, &bad) {
					t.Fatalf("want BadReplyError, got %T (%v)", err, err)
				}
				if string(bad.Body) != tc.body {
					t.Fatalf("error body = %s", bad.Body)
				}
			}
		})
	}
}

func TestConformNested(t *testing.T) {
	schema := &Schema{
		Name: "test-nested",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"problem": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{"type": "string"},
					},
					"required": []any{"text"},
				},
				"tags": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"problem", "tags"},
		},
	}

	ok := json.RawMessage(`{"problem":{"text":"求极限"},"tags":["极限"]}`)
	if err := conform(schema, ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := json.RawMessage(`{"problem":{"text":"求极限"},"tags":[1,2]}`)
	if err := conform(schema, bad); err == nil {
		t.Fatal("want error for wrong array item type")
	}
}

func TestConformCachesByName(t *testing.T) {
	s := gradeSchema()
	if err := conform(s, json.RawMessage(`{"name":"a","score":1}`)); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, ok := compiled.Load(s.Name); !ok {
		t.Fatal("schema was not cached")
	}
	if err := conform(s, json.RawMessage(`{"name":"b","score":2}`)); err != nil {
		t.Fatalf("second call: %v", err)
	}
}
