// Package catalog loads and serves the immutable problem banks. Banks are
// JSON files validated against an embedded schema before any problem is
// accepted; a bank that fails validation is rejected whole at load time.
package catalog

import (
	"encoding/json"
	"fmt"
)

// ProblemType discriminates the two problem shapes.
type ProblemType string

const (
	TypeFillIn         ProblemType = "fill_in"
	TypeMultipleChoice ProblemType = "multiple_choice"
)

// AnswerType declares how a fill-in answer is graded.
type AnswerType string

const (
	AnswerNumeric AnswerType = "numeric"
	AnswerFormula AnswerType = "formula"
	AnswerString  AnswerType = "string"
)

// Problem is one immutable bank entry. Exactly one of the two field groups
// is populated: (Answer, AnswerType) for fill-in, (Options, CorrectOption)
// for multiple choice.
type Problem struct {
	ID            string      `json:"id"`
	Type          ProblemType `json:"type"`
	Subject       string      `json:"subject,omitempty"`
	Chapter       string      `json:"chapter,omitempty"`
	KnowledgeTags []string    `json:"knowledge_tags"`
	Difficulty    float64     `json:"difficulty"`
	QuestionText  string      `json:"question_text"`

	// Fill-in fields.
	Answer     string     `json:"answer,omitempty"`
	AnswerType AnswerType `json:"answer_type,omitempty"`

	// Multiple-choice fields. CorrectOption indexes into Options.
	Options       []string `json:"options,omitempty"`
	CorrectOption int      `json:"correct_option,omitempty"`
}

// MarshalJSON emits correct_option only for multiple-choice problems.
// omitempty alone cannot express that: index 0 is a valid correct
// option and must survive a write/load round trip.
func (p Problem) MarshalJSON() ([]byte, error) {
	type alias Problem
	out := struct {
		alias
		CorrectOption *int `json:"correct_option,omitempty"`
	}{alias: alias(p)}
	if p.Type == TypeMultipleChoice {
		out.CorrectOption = &p.CorrectOption
	}
	return json.Marshal(out)
}

// Validate re-checks the structural invariants in Go. The JSON schema
// enforces the same rules for bank files; this guards problems built in
// code (authoring, tests).
func (p *Problem) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("problem has empty id")
	}
	if len(p.KnowledgeTags) == 0 {
		return fmt.Errorf("problem %s: no knowledge tags", p.ID)
	}
	for _, tag := range p.KnowledgeTags {
		if tag == "" {
			return fmt.Errorf("problem %s: empty knowledge tag", p.ID)
		}
	}
	if p.Difficulty < 0 || p.Difficulty > 1 {
		return fmt.Errorf("problem %s: difficulty %v outside [0,1]", p.ID, p.Difficulty)
	}
	if p.QuestionText == "" {
		return fmt.Errorf("problem %s: empty question text", p.ID)
	}

	switch p.Type {
	case TypeFillIn:
		if p.Answer == "" {
			return fmt.Errorf("problem %s: fill_in without answer", p.ID)
		}
		switch p.AnswerType {
		case AnswerNumeric, AnswerFormula, AnswerString:
		default:
			return fmt.Errorf("problem %s: invalid answer_type %q", p.ID, p.AnswerType)
		}
		if len(p.Options) > 0 {
			return fmt.Errorf("problem %s: fill_in with options", p.ID)
		}
	case TypeMultipleChoice:
		if len(p.Options) < 2 {
			return fmt.Errorf("problem %s: multiple_choice needs at least 2 options", p.ID)
		}
		if p.CorrectOption < 0 || p.CorrectOption >= len(p.Options) {
			return fmt.Errorf("problem %s: correct_option %d out of range [0,%d)",
				p.ID, p.CorrectOption, len(p.Options))
		}
		if p.Answer != "" || p.AnswerType != "" {
			return fmt.Errorf("problem %s: multiple_choice with fill_in answer fields", p.ID)
		}
	default:
		return fmt.Errorf("problem %s: invalid type %q", p.ID, p.Type)
	}
	return nil
}
