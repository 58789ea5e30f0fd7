package author

import (
	"context"
	"strings"

	"github.com/zhitui/zhitui/internal/catalog"
)

// DedupValidator rejects problems whose question text duplicates one
// already in the bank. Comparison ignores whitespace runs and letter
// case.
type DedupValidator struct{}

func (v *DedupValidator) Name() string { return "dedup" }

func (v *DedupValidator) Validate(_ context.Context, p *catalog.Problem, req Request) *ValidationError {
	key := normalizeQuestion(p.QuestionText)
	for _, q := range req.Existing {
		if normalizeQuestion(q) == key {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "duplicates an existing bank problem",
				Retryable: true,
			}
		}
	}
	return nil
}

// normalizeQuestion canonicalizes question text for duplicate detection.
func normalizeQuestion(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
