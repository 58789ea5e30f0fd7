// Package stats renders the learner's mastery estimates and attempt
// totals as a read-only dashboard screen.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhitui/zhitui/internal/router"
	"github.com/zhitui/zhitui/internal/screen"
	"github.com/zhitui/zhitui/internal/store"
	"github.com/zhitui/zhitui/internal/ui/components"
	"github.com/zhitui/zhitui/internal/ui/layout"
	"github.com/zhitui/zhitui/internal/ui/theme"
)

type statsLoadedMsg struct {
	Records []store.MasteryRecord
	Stats   *store.AttemptStats
	Err     error
}

// StatsScreen shows per-tag mastery bars and overall attempt counts.
type StatsScreen struct {
	mastery  store.MasteryRepo
	attempts store.AttemptRepo
	user     string

	records []store.MasteryRecord
	stats   *store.AttemptStats
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a stats screen for one learner.
func New(mastery store.MasteryRepo, attempts store.AttemptRepo, user string) *StatsScreen {
	return &StatsScreen{mastery: mastery, attempts: attempts, user: user}
}

func (s *StatsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		records, err := s.mastery.All(ctx, s.user)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		stats, err := s.attempts.Stats(ctx, s.user)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		return statsLoadedMsg{Records: records, Stats: stats}
	}
}

func (s *StatsScreen) Title() string {
	return "Stats"
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
			s.stats = msg.Stats
			// Weakest tags first, matching what the selector favors.
			sort.Slice(s.records, func(i, j int) bool {
				if s.records[i].PMastery != s.records[j].PMastery {
					return s.records[i].PMastery < s.records[j].PMastery
				}
				return s.records[i].Tag < s.records[j].Tag
			})
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading stats...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  还没有练习记录，先做几道题吧。")
	}

	var b strings.Builder
	b.WriteString("\n")

	// Pad tags to a shared display width so the bars line up.
	labelW := 0
	for _, r := range s.records {
		if w := lipgloss.Width(r.Tag); w > labelW {
			labelW = w
		}
	}

	barWidth := min(width-8, 56)
	for _, r := range s.records {
		label := r.Tag + strings.Repeat(" ", labelW-lipgloss.Width(r.Tag))
		bar := components.NewMasteryBar(label, r.PMastery, true, barWidth)
		line := bar.View() + lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d 题", r.Attempts))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")
	}

	if s.stats != nil && s.stats.Total > 0 {
		b.WriteString("\n")
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 48)))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		totals := fmt.Sprintf("Attempts: %d    Correct: %d    Incorrect: %d    Ungradable: %d",
			s.stats.Total, s.stats.Correct, s.stats.Incorrect, s.stats.Ungradable)
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Text).
			Render(totals))
		b.WriteString("\n")

		extra := fmt.Sprintf("Distinct problems: %d    Current streak: %d",
			s.stats.DistinctProblems, s.stats.Streak)
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(extra))
		b.WriteString("\n")
	}

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
