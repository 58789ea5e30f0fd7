package author

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zhitui/zhitui/internal/catalog"
)

const (
	maxQuestionRunes = 500
	choiceCount      = 4
)

// StructuralValidator checks field-level invariants: the catalog rules
// plus the stricter authoring conventions (option count, length limit).
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(_ context.Context, p *catalog.Problem, _ Request) *ValidationError {
	if err := p.Validate(); err != nil {
		return &ValidationError{
			Validator: v.Name(),
			Message:   err.Error(),
			Retryable: true,
		}
	}
	if utf8.RuneCountInString(p.QuestionText) > maxQuestionRunes {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question text exceeds %d characters", maxQuestionRunes),
			Retryable: true,
		}
	}
	if p.Type == catalog.TypeMultipleChoice {
		if len(p.Options) != choiceCount {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("multiple choice must have exactly %d options, got %d", choiceCount, len(p.Options)),
				Retryable: true,
			}
		}
		seen := make(map[string]bool, choiceCount)
		for i, opt := range p.Options {
			opt = strings.TrimSpace(opt)
			if opt == "" {
				return &ValidationError{
					Validator: v.Name(),
					Message:   fmt.Sprintf("option %d is empty", i+1),
					Retryable: true,
				}
			}
			if seen[opt] {
				return &ValidationError{
					Validator: v.Name(),
					Message:   fmt.Sprintf("duplicate option %q", opt),
					Retryable: true,
				}
			}
			seen[opt] = true

			// The judge reads a pure-numeral submission as a 1-based
			// position when it is in range, so an option whose text is
			// a different in-range numeral can never be picked by text.
			if n, err := strconv.Atoi(opt); err == nil && n >= 1 && n <= len(p.Options) && n != i+1 {
				return &ValidationError{
					Validator: v.Name(),
					Message:   fmt.Sprintf("option %d reads %q, which selects option %d instead", i+1, opt, n),
					Retryable: true,
				}
			}
		}
	}
	return nil
}
