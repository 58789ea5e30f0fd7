package summary

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhitui/zhitui/internal/router"
	"github.com/zhitui/zhitui/internal/screen"
	"github.com/zhitui/zhitui/internal/ui/layout"
	"github.com/zhitui/zhitui/internal/ui/theme"
)

// TagMovement records how one knowledge tag's mastery estimate moved
// over the course of a drill.
type TagMovement struct {
	Tag      string
	From     float64
	To       float64
	Attempts int
}

// Outcome is what a finished drill hands to the summary screen.
type Outcome struct {
	Answered  int
	Correct   int
	Incorrect int
	Ungraded  int
	Exhausted bool
	Tags      []TagMovement
}

// SummaryScreen shows the outcome of a finished drill.
type SummaryScreen struct {
	out Outcome
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a summary screen for a drill outcome.
func New(out Outcome) *SummaryScreen {
	sort.Slice(out.Tags, func(i, j int) bool {
		return out.Tags[i].Tag < out.Tags[j].Tag
	})
	return &SummaryScreen{out: out}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Drill Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			// The drill replaced itself with this screen, so a single
			// pop lands back on home.
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("练习结束"))
	b.WriteString("\n\n")

	if s.out.Exhausted {
		b.WriteString(center.Foreground(theme.TextDim).
			Render("You worked through every eligible problem in the bank."))
		b.WriteString("\n\n")
	}

	if s.out.Answered == 0 {
		b.WriteString(center.Foreground(theme.TextDim).Render("Nothing answered this time."))
		b.WriteString("\n")
		return b.String()
	}

	stats := fmt.Sprintf("Answered: %d        Correct: %d", s.out.Answered, s.out.Correct)
	if graded := s.out.Correct + s.out.Incorrect; graded > 0 {
		stats += fmt.Sprintf("        Accuracy: %.0f%%",
			float64(s.out.Correct)/float64(graded)*100)
	}
	if s.out.Ungraded > 0 {
		stats += fmt.Sprintf("        Ungradable: %d", s.out.Ungraded)
	}
	b.WriteString(center.Foreground(theme.Text).Render(stats))
	b.WriteString("\n\n")

	if len(s.out.Tags) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 48)))
		b.WriteString(center.Foreground(theme.TextDim).Render("掌握度"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, mv := range s.out.Tags {
			line := fmt.Sprintf("%s    %.3f → %.3f    (%d 题)",
				mv.Tag, mv.From, mv.To, mv.Attempts)
			style := lipgloss.NewStyle().Foreground(theme.Text)
			switch {
			case mv.To > mv.From:
				style = style.Foreground(theme.Success)
			case mv.To < mv.From:
				style = style.Foreground(theme.Error)
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Press Enter to go home."))

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
