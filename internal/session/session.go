// Package session orchestrates one practice loop: grade a submission,
// fold the verdict into the mastery estimates, commit everything as a
// single attempt, and pick the next problem.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/zhitui/zhitui/internal/bkt"
	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/judge"
	"github.com/zhitui/zhitui/internal/selector"
	"github.com/zhitui/zhitui/internal/store"
)

// ProblemRepository resolves and lists problems.
type ProblemRepository interface {
	Get(id string) (catalog.Problem, error)
	All() []catalog.Problem
}

// Grader turns a submission into a verdict.
type Grader interface {
	Grade(ctx context.Context, p catalog.Problem, submission string) judge.Verdict
}

// Storage is the transactional commit seam.
type Storage interface {
	CommitAttempt(ctx context.Context, att *store.AttemptRecord, tags []string,
		update func(tag string, cur store.MasteryRecord, seen bool) store.MasteryRecord) error
}

// MasteryReader lists a user's current estimates.
type MasteryReader interface {
	All(ctx context.Context, userID string) ([]store.MasteryRecord, error)
}

// RecentReader lists the problem ids of a user's latest attempts,
// newest first.
type RecentReader interface {
	RecentProblemIDs(ctx context.Context, userID string, n int) ([]string, error)
}

// Picker chooses the next problem from the current state.
type Picker interface {
	Next(problems []catalog.Problem, mastery map[string]selector.TagMastery,
		recent []string) (catalog.Problem, error)
}

// Deps are the collaborators a Controller is wired from.
type Deps struct {
	Problems ProblemRepository
	Grader   Grader
	Storage  Storage
	Mastery  MasteryReader
	Recents  RecentReader
	Picker   Picker
}

// Config tunes the controller.
type Config struct {
	// Params drive the mastery updates. Nil uses the defaults.
	Params *bkt.ParamSet

	// Window is how many recent attempts feed the anti-repeat check.
	// It should match the picker's window. Zero uses the default.
	Window int
}

// Result reports one graded submission.
type Result struct {
	AttemptID   string
	Verdict     judge.Verdict
	Transitions []store.TagTransition
}

// Controller runs the practice loop for any number of users. Safe for
// concurrent use.
type Controller struct {
	deps   Deps
	params *bkt.ParamSet
	window int
}

// New wires a controller. All Deps fields are required.
func New(deps Deps, cfg Config) (*Controller, error) {
	switch {
	case deps.Problems == nil:
		return nil, fmt.Errorf("session: nil problem repository")
	case deps.Grader == nil:
		return nil, fmt.Errorf("session: nil grader")
	case deps.Storage == nil:
		return nil, fmt.Errorf("session: nil storage")
	case deps.Mastery == nil:
		return nil, fmt.Errorf("session: nil mastery reader")
	case deps.Recents == nil:
		return nil, fmt.Errorf("session: nil recent reader")
	case deps.Picker == nil:
		return nil, fmt.Errorf("session: nil picker")
	}

	params := cfg.Params
	if params == nil {
		var err error
		params, err = bkt.NewParamSet(bkt.DefaultParams(), nil)
		if err != nil {
			return nil, err
		}
	}
	window := cfg.Window
	if window <= 0 {
		window = selector.DefaultConfig().Window
	}
	return &Controller{deps: deps, params: params, window: window}, nil
}

// Submit grades one submission and commits the attempt. Gradable
// verdicts update every tag the problem carries; ungradable ones are
// logged without touching mastery. Cancellation observed before the
// write phase leaves no trace; once the write phase starts the commit
// runs to completion even if ctx is cancelled mid-flight.
func (c *Controller) Submit(ctx context.Context, userID, problemID, submission string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("session: empty user id")
	}

	p, err := c.deps.Problems.Get(problemID)
	if err != nil {
		return nil, fmt.Errorf("resolve problem: %w", err)
	}

	verdict := c.deps.Grader.Grade(ctx, p, submission)

	// Last cancellation point before state changes.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	att := &store.AttemptRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		ProblemID:  p.ID,
		Submission: submission,
		Verdict:    string(verdict.Outcome),
	}

	var update func(tag string, cur store.MasteryRecord, seen bool) store.MasteryRecord
	if verdict.Gradable() {
		correct := verdict.Correct()
		update = func(tag string, cur store.MasteryRecord, seen bool) store.MasteryRecord {
			params := c.params.For(tag)
			prior := bkt.Initial(params)
			if seen {
				prior = bkt.MasteryEstimate{PMastery: cur.PMastery, Attempts: cur.Attempts}
			}
			next := bkt.Update(prior, correct, params)
			att.Transitions = append(att.Transitions, store.TagTransition{
				Tag:    tag,
				Before: prior.PMastery,
				After:  next.PMastery,
			})
			return store.MasteryRecord{PMastery: next.PMastery, Attempts: next.Attempts}
		}
	}

	if err := c.deps.Storage.CommitAttempt(ctx, att, p.KnowledgeTags, update); err != nil {
		return nil, fmt.Errorf("commit attempt: %w", err)
	}

	return &Result{
		AttemptID:   att.ID,
		Verdict:     verdict,
		Transitions: att.Transitions,
	}, nil
}

// NextProblem picks the user's next problem from the current mastery
// state and anti-repeat window.
func (c *Controller) NextProblem(ctx context.Context, userID string) (catalog.Problem, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Problem{}, err
	}

	recs, err := c.deps.Mastery.All(ctx, userID)
	if err != nil {
		return catalog.Problem{}, fmt.Errorf("load mastery: %w", err)
	}
	mastery := make(map[string]selector.TagMastery, len(recs))
	for _, rec := range recs {
		mastery[rec.Tag] = selector.TagMastery{PMastery: rec.PMastery, Attempts: rec.Attempts}
	}

	recent, err := c.deps.Recents.RecentProblemIDs(ctx, userID, c.window)
	if err != nil {
		return catalog.Problem{}, fmt.Errorf("load recent attempts: %w", err)
	}

	return c.deps.Picker.Next(c.deps.Problems.All(), mastery, recent)
}

// Mastery returns the user's current estimates keyed by tag.
func (c *Controller) Mastery(ctx context.Context, userID string) (map[string]bkt.MasteryEstimate, error) {
	recs, err := c.deps.Mastery.All(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load mastery: %w", err)
	}
	out := make(map[string]bkt.MasteryEstimate, len(recs))
	for _, rec := range recs {
		out[rec.Tag] = bkt.MasteryEstimate{PMastery: rec.PMastery, Attempts: rec.Attempts}
	}
	return out, nil
}
