// Package history lists a learner's recent attempts with their
// verdicts and mastery movements.
package history

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

const historyPageSize = 50

type historyLoadedMsg struct {
	Attempts []store.AttemptRecord
	Err      error
}

// HistoryScreen displays recent attempts, newest first.
type HistoryScreen struct {
	attempts store.AttemptRepo
	cat      *catalog.Catalog
	user     string

	records  []store.AttemptRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a history screen for one learner.
func New(attempts store.AttemptRepo, cat *catalog.Catalog, user string) *HistoryScreen {
	return &HistoryScreen{
		attempts: attempts,
		cat:      cat,
		user:     user,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		records, err := s.attempts.History(context.Background(), s.user,
			store.QueryOpts{Limit: historyPageSize})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Attempts: records}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Attempts
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
			if s.selected < len(s.records)-1 {
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

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  还没有练习记录。")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %s  %s",
			prefix, verdictGlyph(rec.Verdict),
			rec.CreatedAt.Format("01-02 15:04"),
			clip(s.problemText(rec.ProblemID), 44))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    答: %s", rec.Submission)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
			b.WriteString("\n")
			for _, tr := range rec.Transitions {
				trLine := fmt.Sprintf("    %s  %.3f → %.3f", tr.Tag, tr.Before, tr.After)
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(trLine)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// problemText resolves an id to its question text, falling back to the
// id for problems no longer in the loaded banks.
func (s *HistoryScreen) problemText(id string) string {
	if s.cat != nil {
		if p, err := s.cat.Get(id); err == nil {
			return p.QuestionText
		}
	}
	return id
}

func verdictGlyph(verdict string) string {
	switch verdict {
	case "correct":
		return theme.Correct.Render("✓")
	case "incorrect":
		return theme.Incorrect.Render("✗")
	default:
		return theme.Ungraded.Render("?")
	}
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
