package drill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/judge"
	"github.com/zhitui/zhitui/internal/ui/theme"
)

func (d *DrillScreen) View(width, height int) string {
	if d.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", d.errMsg))
	}
	if d.quitConfirm {
		return renderQuitConfirm(width)
	}

	switch d.phase {
	case phaseLoading:
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Picking your next problem...")
	case phaseFeedback:
		return d.renderFeedback(width)
	default:
		return d.renderProblem(width)
	}
}

func (d *DrillScreen) renderProblem(width int) string {
	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + strings.Join(d.problem.KnowledgeTags, " "))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("难度 %.1f  #%d  ✓ %d", d.problem.Difficulty, d.answered+1, d.correct))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(d.problem.QuestionText))
	b.WriteString("\n\n")

	if d.problem.Type == catalog.TypeMultipleChoice {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, d.choice.View()))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Pick with number keys, or arrows + Enter"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("答案: " + d.input.View()))
	}

	return b.String()
}

func (d *DrillScreen) renderFeedback(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if d.last != nil {
		switch d.last.Verdict.Outcome {
		case judge.OutcomeCorrect:
			b.WriteString(center.Foreground(theme.Success).Bold(true).Render("答对了！"))
		case judge.OutcomeIncorrect:
			b.WriteString(center.Foreground(theme.Error).Bold(true).Render("再想想"))
			b.WriteString("\n")
			b.WriteString(center.Foreground(theme.TextDim).
				Render("正确答案: " + referenceAnswer(d.problem)))
		default:
			b.WriteString(center.Foreground(theme.Warn).Bold(true).Render("没看懂这个答案"))
			b.WriteString("\n")
			note := "这题不计入掌握度，换一题试试"
			if d.last.Verdict.Diagnostic != "" {
				note = d.last.Verdict.Diagnostic + " — " + note
			}
			b.WriteString(center.Foreground(theme.TextDim).Render(note))
		}
	}
	b.WriteString("\n\n")

	if d.last != nil && len(d.last.Transitions) > 0 {
		var lines []string
		for _, tr := range d.last.Transitions {
			arrow := theme.Success
			if tr.After < tr.Before {
				arrow = theme.Error
			}
			lines = append(lines, fmt.Sprintf("%s  %.3f %s %.3f",
				tr.Tag, tr.Before,
				lipgloss.NewStyle().Foreground(arrow).Render("→"),
				tr.After))
		}
		block := strings.Join(lines, "\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
		b.WriteString("\n\n")
	}

	b.WriteString(center.Foreground(theme.TextDim).Render("Press any key for the next problem..."))
	return b.String()
}

func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("End this drill?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Everything answered so far is already saved."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, show my summary"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

// referenceAnswer renders the expected answer the way the learner
// would have typed it.
func referenceAnswer(p catalog.Problem) string {
	if p.Type == catalog.TypeMultipleChoice {
		if p.CorrectOption >= 0 && p.CorrectOption < len(p.Options) {
			return fmt.Sprintf("%d) %s", p.CorrectOption+1, p.Options[p.CorrectOption])
		}
		return ""
	}
	return p.Answer
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
