package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/zhitui/zhitui/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for answer entry. After Mark it
// shows a verdict glyph next to the field.
type TextInput struct {
	Model   textinput.Model
	marked  bool
	verdict string
}

// NewTextInput creates a focused answer input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input with its verdict marker, if any.
func (t TextInput) View() string {
	view := t.Model.View()
	if !t.marked {
		return view
	}
	switch t.verdict {
	case "correct":
		return view + " " + theme.Correct.Render("✓")
	case "incorrect":
		return view + " " + theme.Incorrect.Render("✗")
	default:
		return view + " " + theme.Ungraded.Render("?")
	}
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Mark records the grading outcome for display.
func (t *TextInput) Mark(verdict string) {
	t.marked = true
	t.verdict = verdict
}
