package author

import (
	"context"
	"fmt"

	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/judge"
)

// Grader grades a submission against a problem's reference answer.
type Grader interface {
	Grade(ctx context.Context, p catalog.Problem, submission string) judge.Verdict
}

// AnswerCheckValidator replays the reference answer through the grader.
// A problem whose own answer does not grade as correct is defective:
// the answer fails to parse, the formula blows the equivalence budget,
// or the option key points at the wrong entry.
type AnswerCheckValidator struct {
	Grader Grader
}

func (v *AnswerCheckValidator) Name() string { return "answer-check" }

func (v *AnswerCheckValidator) Validate(ctx context.Context, p *catalog.Problem, _ Request) *ValidationError {
	submission := p.Answer
	if p.Type == catalog.TypeMultipleChoice {
		if p.CorrectOption < 0 || p.CorrectOption >= len(p.Options) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "correct option out of range",
				Retryable: true,
			}
		}
		submission = p.Options[p.CorrectOption]
	}
	if verdict := v.Grader.Grade(ctx, *p, submission); !verdict.Correct() {
		msg := fmt.Sprintf("reference answer %q grades as %s", submission, verdict.Outcome)
		if verdict.Diagnostic != "" {
			msg += ": " + verdict.Diagnostic
		}
		return &ValidationError{
			Validator: v.Name(),
			Message:   msg,
			Retryable: true,
		}
	}
	return nil
}
