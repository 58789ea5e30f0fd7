// Package judge grades submissions against problem reference answers.
// Grading never returns an error: anything the judge cannot decide,
// including malformed input, engine timeouts, and defective problem
// data, becomes an ungradable verdict carrying a diagnostic.
package judge

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/zhitui/zhitui/internal/algebra"
	"github.com/zhitui/zhitui/internal/catalog"
)

// Combined tolerance for numeric comparison: |a-b| must not exceed
// numAbsTol + numRelTol*max(|a|,|b|).
const (
	numAbsTol = 1e-6
	numRelTol = 1e-6
)

// Judge grades submissions. Safe for concurrent use.
type Judge struct {
	engine algebra.Engine
	cfg    Config
}

// New builds a judge over the given algebra engine. Zero config fields
// fall back to DefaultConfig values.
func New(engine algebra.Engine, cfg Config) *Judge {
	def := DefaultConfig()
	if cfg.FormulaBudget <= 0 {
		cfg.FormulaBudget = def.FormulaBudget
	}
	return &Judge{engine: engine, cfg: cfg}
}

var (
	correct   = Verdict{Outcome: OutcomeCorrect}
	incorrect = Verdict{Outcome: OutcomeIncorrect}
)

func ungradable(diag string) Verdict {
	return Verdict{Outcome: OutcomeUngradable, Diagnostic: diag}
}

// Grade judges one submission against the problem's reference answer.
// The context bounds formula equivalence checks; all other answer types
// grade without blocking.
func (j *Judge) Grade(ctx context.Context, p catalog.Problem, submission string) Verdict {
	switch p.Type {
	case catalog.TypeMultipleChoice:
		return gradeChoice(p, submission)
	case catalog.TypeFillIn:
		switch p.AnswerType {
		case catalog.AnswerNumeric:
			return j.gradeNumeric(p.Answer, submission)
		case catalog.AnswerFormula:
			return j.gradeFormula(ctx, p.Answer, submission)
		case catalog.AnswerString:
			return j.gradeString(p.Answer, submission)
		}
	}
	return ungradable("problem carries no gradable answer type")
}

func (j *Judge) gradeNumeric(want, got string) Verdict {
	w, ok := j.number(want)
	if !ok {
		// Defective reference answer; not the learner's fault.
		return ungradable("reference answer is not a number")
	}
	g, ok := j.number(got)
	if !ok {
		return ungradable("submission is not a number")
	}
	if math.Abs(w-g) <= numAbsTol+numRelTol*math.Max(math.Abs(w), math.Abs(g)) {
		return correct
	}
	return incorrect
}

// number parses a numeric submission. Plain decimals go through
// strconv; anything else (fractions, roots, constants) is evaluated as
// a closed expression.
func (j *Judge) number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	v, err := j.engine.Eval(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (j *Judge) gradeFormula(ctx context.Context, want, got string) Verdict {
	if strings.TrimSpace(got) == "" {
		return ungradable("empty submission")
	}
	ctx, cancel := context.WithTimeout(ctx, j.cfg.FormulaBudget)
	defer cancel()

	eq, err := j.engine.Equivalent(ctx, want, got)
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, algebra.ErrBudget):
		return ungradable("equivalence check exceeded its time budget")
	case errors.Is(err, context.Canceled):
		return ungradable("grading was cancelled")
	case errors.Is(err, algebra.ErrInconclusive):
		return ungradable("equivalence check was inconclusive")
	default:
		return ungradable("cannot parse the expression")
	}
	if eq {
		return correct
	}
	return incorrect
}

// gradeString compares after whitespace normalization. String answers
// have no parse failure: an empty submission is just a wrong one.
func (j *Judge) gradeString(want, got string) Verdict {
	g := normalizeText(got)
	w := normalizeText(want)
	if w == g || (j.cfg.CaseFold && strings.EqualFold(w, g)) {
		return correct
	}
	return incorrect
}

func gradeChoice(p catalog.Problem, got string) Verdict {
	s := strings.TrimSpace(got)
	if s == "" {
		return ungradable("empty selection")
	}

	// A selection is a 1-based option number or exact option text. A
	// number in range always means the index; out-of-range numbers
	// still get a chance to match an option's literal text.
	idx := -1
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(p.Options) {
		idx = n - 1
	} else {
		norm := normalizeText(s)
		for i, opt := range p.Options {
			if normalizeText(opt) == norm {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ungradable("selection names no option")
		}
	}

	if idx == p.CorrectOption {
		return correct
	}
	return incorrect
}

// normalizeText trims the ends and collapses internal whitespace runs
// to single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
