// Package review lists the problems a learner has answered wrong so
// they can be reread before the next drill.
package review

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/router"
	"github.com/zhitui/zhitui/internal/screen"
	"github.com/zhitui/zhitui/internal/store"
	"github.com/zhitui/zhitui/internal/ui/layout"
	"github.com/zhitui/zhitui/internal/ui/theme"
)

type reviewLoadedMsg struct {
	Problems []catalog.Problem
	Missing  []string // wrong IDs no longer present in any loaded bank
	Err      error
}

// ReviewScreen shows the learner's wrong answers, most recent first.
type ReviewScreen struct {
	attempts store.AttemptRepo
	cat      *catalog.Catalog
	user     string

	problems []catalog.Problem
	missing  []string
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates a review screen for one learner.
func New(attempts store.AttemptRepo, cat *catalog.Catalog, user string) *ReviewScreen {
	return &ReviewScreen{
		attempts: attempts,
		cat:      cat,
		user:     user,
		expanded: make(map[int]bool),
	}
}

func (s *ReviewScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ids, err := s.attempts.WrongProblemIDs(context.Background(), s.user)
		if err != nil {
			return reviewLoadedMsg{Err: err}
		}

		var msg reviewLoadedMsg
		for _, id := range ids {
			p, err := s.cat.Get(id)
			if err != nil {
				msg.Missing = append(msg.Missing, id)
				continue
			}
			msg.Problems = append(msg.Problems, p)
		}
		return msg
	}
}

func (s *ReviewScreen) Title() string {
	return "Review"
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answer"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.problems = msg.Problems
			s.missing = msg.Missing
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.problems)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *ReviewScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading wrong answers...")
	}
	if len(s.problems) == 0 && len(s.missing) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  没有错题，继续保持！")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, p := range s.problems {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  [%s]  难度 %.1f",
			prefix, clip(p.QuestionText, 46), strings.Join(p.KnowledgeTags, " "), p.Difficulty)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := "    正确答案: " + referenceAnswer(p)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Success).Render(detail)))
			b.WriteString("\n")
		}
	}

	if len(s.missing) > 0 {
		b.WriteString("\n")
		note := fmt.Sprintf("  %d wrong answers refer to problems no longer in the loaded banks.",
			len(s.missing))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(note)))
		b.WriteString("\n")
	}

	return b.String()
}

func referenceAnswer(p catalog.Problem) string {
	if p.Type == catalog.TypeMultipleChoice {
		if p.CorrectOption >= 0 && p.CorrectOption < len(p.Options) {
			return fmt.Sprintf("%d) %s", p.CorrectOption+1, p.Options[p.CorrectOption])
		}
		return ""
	}
	return p.Answer
}

// clip truncates s to at most max runes, appending an ellipsis when
// anything was cut.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
