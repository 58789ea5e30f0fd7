// Package drill is the interactive practice screen: it serves problems
// picked for the learner's weakest tags, grades each answer, and shows
// how the mastery estimates moved.
package drill

import (
	"context"
	"errors"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/judge"
	"github.com/zhitui/zhitui/internal/router"
	"github.com/zhitui/zhitui/internal/screen"
	"github.com/zhitui/zhitui/internal/screens/summary"
	"github.com/zhitui/zhitui/internal/selector"
	"github.com/zhitui/zhitui/internal/session"
	"github.com/zhitui/zhitui/internal/ui/components"
	"github.com/zhitui/zhitui/internal/ui/layout"
)

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phaseFeedback
)

// DrillScreen runs one practice session for one learner.
type DrillScreen struct {
	ctrl *session.Controller
	user string

	phase       phase
	quitConfirm bool
	errMsg      string
	exhausted   bool

	problem   catalog.Problem
	hasAnswer bool // guards double submission while a grade is in flight
	input     components.TextInput
	choice    components.MultiChoice
	last      *session.Result

	answered  int
	correct   int
	incorrect int
	ungraded  int
	firstSeen map[string]float64
	lastSeen  map[string]float64
	attempts  map[string]int
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)

// New creates a drill screen over the session controller.
func New(ctrl *session.Controller, user string) *DrillScreen {
	return &DrillScreen{
		ctrl:      ctrl,
		user:      user,
		firstSeen: make(map[string]float64),
		lastSeen:  make(map[string]float64),
		attempts:  make(map[string]int),
	}
}

func (d *DrillScreen) Init() tea.Cmd {
	return d.loadProblem()
}

func (d *DrillScreen) Title() string {
	return "Drill"
}

func (d *DrillScreen) KeyHints() []layout.KeyHint {
	if d.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End drill"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch d.phase {
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Next problem"},
			{Key: "Esc", Description: "End drill"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "End drill"},
		}
	}
}

func (d *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case problemReadyMsg:
		return d.handleProblemReady(msg)
	case gradedMsg:
		return d.handleGraded(msg)
	case tea.KeyMsg:
		return d.handleKey(msg)
	}

	if d.phase == phaseAnswering && !d.quitConfirm && d.problem.Type == catalog.TypeFillIn {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *DrillScreen) handleProblemReady(msg problemReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, selector.ErrNoEligible) {
			// Nothing left to serve; close out with what was done.
			d.exhausted = true
			return d, d.finish()
		}
		d.errMsg = msg.Err.Error()
		return d, nil
	}

	d.problem = msg.Problem
	d.hasAnswer = false
	d.last = nil
	d.phase = phaseAnswering

	if d.problem.Type == catalog.TypeMultipleChoice {
		d.choice = components.NewMultiChoice(d.problem.Options, d.problem.CorrectOption)
		return d, nil
	}
	d.input = components.NewTextInput("输入答案…", 80)
	return d, d.input.Init()
}

func (d *DrillScreen) handleGraded(msg gradedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		d.errMsg = msg.Err.Error()
		return d, nil
	}

	d.last = msg.Result
	d.answered++
	switch msg.Result.Verdict.Outcome {
	case judge.OutcomeCorrect:
		d.correct++
	case judge.OutcomeIncorrect:
		d.incorrect++
	default:
		d.ungraded++
	}
	for _, tr := range msg.Result.Transitions {
		if _, ok := d.firstSeen[tr.Tag]; !ok {
			d.firstSeen[tr.Tag] = tr.Before
		}
		d.lastSeen[tr.Tag] = tr.After
		d.attempts[tr.Tag]++
	}

	if d.problem.Type == catalog.TypeFillIn {
		d.input.Mark(string(msg.Result.Verdict.Outcome))
	}
	d.phase = phaseFeedback
	return d, nil
}

func (d *DrillScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if d.errMsg != "" {
		return d, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if d.quitConfirm {
		switch key {
		case "y", "Y", "enter":
			d.quitConfirm = false
			return d, d.finish()
		case "n", "N", "esc":
			d.quitConfirm = false
		}
		return d, nil
	}

	switch d.phase {
	case phaseFeedback:
		if key == "esc" {
			return d, d.finish()
		}
		d.phase = phaseLoading
		return d, d.loadProblem()

	case phaseAnswering:
		if key == "esc" {
			d.quitConfirm = true
			return d, nil
		}
		if d.hasAnswer {
			return d, nil
		}

		if d.problem.Type == catalog.TypeMultipleChoice {
			var cmd tea.Cmd
			d.choice, cmd = d.choice.Update(msg)
			if idx := d.choice.Chosen(); idx >= 0 {
				d.hasAnswer = true
				return d, d.submit(strconv.Itoa(idx + 1))
			}
			return d, cmd
		}

		if key == "enter" {
			answer := d.input.Value()
			if answer == "" {
				return d, nil
			}
			d.hasAnswer = true
			return d, d.submit(answer)
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}

	return d, nil
}

// loadProblem asks the controller for the next problem.
func (d *DrillScreen) loadProblem() tea.Cmd {
	ctrl, user := d.ctrl, d.user
	return func() tea.Msg {
		p, err := ctrl.NextProblem(context.Background(), user)
		return problemReadyMsg{Problem: p, Err: err}
	}
}

// submit grades and commits the answer.
func (d *DrillScreen) submit(answer string) tea.Cmd {
	ctrl, user, problemID := d.ctrl, d.user, d.problem.ID
	return func() tea.Msg {
		res, err := ctrl.Submit(context.Background(), user, problemID, answer)
		return gradedMsg{Result: res, Err: err}
	}
}

// finish swaps this screen for the session summary.
func (d *DrillScreen) finish() tea.Cmd {
	out := summary.Outcome{
		Answered:  d.answered,
		Correct:   d.correct,
		Incorrect: d.incorrect,
		Ungraded:  d.ungraded,
		Exhausted: d.exhausted,
	}
	for tag, from := range d.firstSeen {
		out.Tags = append(out.Tags, summary.TagMovement{
			Tag:      tag,
			From:     from,
			To:       d.lastSeen[tag],
			Attempts: d.attempts[tag],
		})
	}
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(out)}
	}
}
