package author

import (
	"github.com/zhitui/zhitui/internal/algebra"
	"github.com/zhitui/zhitui/internal/judge"
)

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators run on every
	// generated problem. They execute in order; the first failure
	// rejects the whole batch.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxExistingSamples is the maximum number of existing bank
	// questions to include in the prompt for deduplication.
	MaxExistingSamples int
}

// DefaultConfig returns a Config with the standard validator chain and
// recommended defaults. The answer check uses the same judge the drill
// loop grades with.
func DefaultConfig() Config {
	grader := judge.New(algebra.NewSimplifier(algebra.DefaultConfig()), judge.DefaultConfig())
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&AnswerCheckValidator{Grader: grader},
			&DedupValidator{},
		},
		MaxTokens:          2048,
		Temperature:        0.7,
		MaxExistingSamples: 12,
	}
}
