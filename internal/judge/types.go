package judge

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Outcome classifies one graded submission.
type Outcome string

const (
	OutcomeCorrect    Outcome = "correct"
	OutcomeIncorrect  Outcome = "incorrect"
	OutcomeUngradable Outcome = "ungradable"
)

// Verdict is the result of grading: the outcome plus, for ungradable
// submissions, a diagnostic naming what could not be graded.
type Verdict struct {
	Outcome    Outcome
	Diagnostic string
}

// Gradable reports whether the verdict carries evidence about the
// learner. Ungradable submissions never reach the mastery estimator.
func (v Verdict) Gradable() bool {
	return v.Outcome == OutcomeCorrect || v.Outcome == OutcomeIncorrect
}

// Correct reports a correct outcome.
func (v Verdict) Correct() bool { return v.Outcome == OutcomeCorrect }

// Config tunes grading behavior.
type Config struct {
	// FormulaBudget is the hard wall-clock limit for one formula
	// equivalence check. When it expires the verdict is ungradable.
	FormulaBudget time.Duration

	// CaseFold compares string answers case-insensitively when set.
	CaseFold bool
}

// DefaultConfig returns the grading defaults.
func DefaultConfig() Config {
	return Config{
		FormulaBudget: 300 * time.Millisecond,
		CaseFold:      false,
	}
}

// ConfigFromEnv reads the ZHITUI_JUDGE_* variables over the defaults.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("ZHITUI_JUDGE_FORMULA_BUDGET"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("ZHITUI_JUDGE_FORMULA_BUDGET=%q: not a duration", v)
		}
		cfg.FormulaBudget = d
	}
	if v := os.Getenv("ZHITUI_JUDGE_CASE_FOLD"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("ZHITUI_JUDGE_CASE_FOLD=%q: not a boolean", v)
		}
		cfg.CaseFold = b
	}
	return cfg, nil
}

// Validate rejects budgets that could never finish a check.
func (c Config) Validate() error {
	if c.FormulaBudget < 0 {
		return fmt.Errorf("formula budget %v is negative", c.FormulaBudget)
	}
	return nil
}
