package author

import "github.com/zhitui/zhitui/internal/llm"

// ProblemBatchSchema defines the JSON schema for LLM problem generation
// responses. One response carries a whole batch.
var ProblemBatchSchema = &llm.Schema{
	Name:        "problem-batch",
	Description: "A batch of math practice problems with reference answers",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"problems": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type":        "string",
							"enum":        []any{"fill_in", "multiple_choice"},
							"description": "Problem shape: typed answer or pick from options",
						},
						"question_text": map[string]any{
							"type":        "string",
							"description": "The question prompt in Chinese, math in plain ASCII notation",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The reference answer. For multiple_choice: the exact text of the correct option.",
						},
						"answer_type": map[string]any{
							"type":        "string",
							"enum":        []any{"numeric", "formula", "string"},
							"description": "How a fill_in answer is graded. Use string for multiple_choice.",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options for multiple_choice. Empty array for fill_in.",
						},
						"knowledge_tags": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Knowledge tags this problem practices, chosen from the requested tags",
						},
						"difficulty": map[string]any{
							"type":        "number",
							"minimum":     0,
							"maximum":     1,
							"description": "Estimated difficulty from 0 (easy) to 1 (hard)",
						},
					},
					"required":             []any{"type", "question_text", "answer", "answer_type", "options", "knowledge_tags", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"problems"},
		"additionalProperties": false,
	},
}
