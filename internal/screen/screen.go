package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhitui/zhitui/internal/ui/layout"
)

// Screen is one full-frame view in the application. The app shell owns
// the header and footer; screens render only the content area.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles a message and returns the updated screen.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area.
	View(width, height int) string

	// Title names the screen in the header.
	Title() string
}

// KeyHintProvider lets a screen override the footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
