package author

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/llm"
)

// maxBatchSize bounds one generation request.
const maxBatchSize = 20

// LLMGenerator implements Generator on top of an LLM client.
type LLMGenerator struct {
	client llm.Client
	config Config
}

// New creates a new LLMGenerator with the given client and config.
func New(client llm.Client, cfg Config) *LLMGenerator {
	return &LLMGenerator{client: client, config: cfg}
}

// problemOutput is one raw problem from the LLM before validation.
type problemOutput struct {
	Type          string   `json:"type"`
	QuestionText  string   `json:"question_text"`
	Answer        string   `json:"answer"`
	AnswerType    string   `json:"answer_type"`
	Options       []string `json:"options"`
	KnowledgeTags []string `json:"knowledge_tags"`
	Difficulty    float64  `json:"difficulty"`
}

type batchOutput struct {
	Problems []problemOutput `json:"problems"`
}

// Generate produces a validated batch of problems for the request.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) ([]catalog.Problem, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", req.Count)
	}
	if req.Count > maxBatchSize {
		return nil, fmt.Errorf("count %d exceeds batch limit %d", req.Count, maxBatchSize)
	}

	ctx = llm.WithPurpose(ctx, "problem-gen")

	prompt := llm.Prompt{
		System:      systemPrompt,
		User:        buildUserMessage(req, g.config),
		Schema:      ProblemBatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.client.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var batch batchOutput
	if err := json.Unmarshal(resp.Body, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if len(batch.Problems) == 0 {
		return nil, &ValidationError{
			Validator: "mapping",
			Message:   "response contains no problems",
			Retryable: true,
		}
	}
	// An over-delivering model is trimmed; an under-delivering one is
	// accepted as-is. The caller sees how many problems came back.
	if len(batch.Problems) > req.Count {
		batch.Problems = batch.Problems[:req.Count]
	}

	problems := make([]catalog.Problem, 0, len(batch.Problems))
	seen := make(map[string]bool, len(batch.Problems))
	for i, raw := range batch.Problems {
		p, merr := mapOutput(raw, req)
		if merr != nil {
			return nil, fmt.Errorf("problem %d: %w", i+1, merr)
		}

		key := normalizeQuestion(p.QuestionText)
		if seen[key] {
			return nil, fmt.Errorf("problem %d: %w", i+1, &ValidationError{
				Validator: "dedup",
				Message:   "repeats an earlier question in the batch",
				Retryable: true,
			})
		}
		seen[key] = true

		for _, v := range g.config.Validators {
			if verr := v.Validate(ctx, &p, req); verr != nil {
				return nil, fmt.Errorf("problem %d: %w", i+1, verr)
			}
		}
		problems = append(problems, p)
	}

	return problems, nil
}

// mapOutput converts one raw LLM problem into a catalog.Problem. The
// multiple-choice answer text is resolved to its option index here;
// everything else is checked by the validators.
func mapOutput(raw problemOutput, req Request) (catalog.Problem, error) {
	p := catalog.Problem{
		ID:            uuid.NewString(),
		Type:          catalog.ProblemType(raw.Type),
		Subject:       req.Subject,
		Chapter:       req.Chapter,
		KnowledgeTags: raw.KnowledgeTags,
		Difficulty:    raw.Difficulty,
		QuestionText:  raw.QuestionText,
	}
	if len(p.KnowledgeTags) == 0 {
		p.KnowledgeTags = req.Tags
	}

	switch p.Type {
	case catalog.TypeFillIn:
		p.Answer = raw.Answer
		p.AnswerType = catalog.AnswerType(raw.AnswerType)
	case catalog.TypeMultipleChoice:
		p.Options = raw.Options
		p.CorrectOption = -1
		want := strings.TrimSpace(raw.Answer)
		for i, opt := range raw.Options {
			if strings.TrimSpace(opt) == want {
				p.CorrectOption = i
				break
			}
		}
		if p.CorrectOption < 0 {
			return catalog.Problem{}, &ValidationError{
				Validator: "mapping",
				Message:   fmt.Sprintf("answer %q not found among options", raw.Answer),
				Retryable: true,
			}
		}
	}
	return p, nil
}
