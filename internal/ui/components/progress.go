package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/zhitui/zhitui/internal/ui/theme"
)

// MasteryBar renders one tag's mastery estimate as a labelled bar.
// Fill color shifts with the estimate so weak tags stand out.
type MasteryBar struct {
	Label       string
	Value       float64 // in [0,1]
	ShowPercent bool
	Width       int
}

// NewMasteryBar creates a mastery bar.
func NewMasteryBar(label string, value float64, showPercent bool, width int) MasteryBar {
	return MasteryBar{Label: label, Value: value, ShowPercent: showPercent, Width: width}
}

// View renders the bar.
func (p MasteryBar) View() string {
	var result string

	if p.Label != "" {
		result += theme.Body.Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	value := p.Value
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	filled := int(float64(barWidth) * value)
	if filled > barWidth {
		filled = barWidth
	}
	empty := barWidth - filled

	fill := theme.Success
	switch {
	case value < 0.4:
		fill = theme.Error
	case value < 0.7:
		fill = theme.Accent
	}

	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %3d%%", int(value*100)))
	}

	return result
}
