package author

import (
	"context"
	"fmt"

	"github.com/zhitui/zhitui/internal/catalog"
)

// Validator checks a generated problem before it is accepted into a
// bank. Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for error
	// messages and logging), e.g. "structural", "answer-check", "dedup".
	Name() string

	// Validate checks the problem and returns nil if it passes. The
	// context bounds any grading the check performs. The validator
	// receives the full Request for context (requested tags, existing
	// bank questions).
	Validate(ctx context.Context, p *catalog.Problem, req Request) *ValidationError
}

// ValidationError describes why a generated problem was rejected.
type ValidationError struct {
	Validator string // name of the validator that failed
	Message   string // human-readable description of the failure
	Retryable bool   // whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
