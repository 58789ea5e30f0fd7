// Package app hosts the root Bubble Tea model: a header and footer
// frame around a router-managed stack of screens.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/router"
	"github.com/zhitui/zhitui/internal/screen"
	"github.com/zhitui/zhitui/internal/screens/home"
	"github.com/zhitui/zhitui/internal/session"
	"github.com/zhitui/zhitui/internal/store"
	"github.com/zhitui/zhitui/internal/ui/layout"
)

// Options carries the wired services the TUI runs on.
type Options struct {
	Controller *session.Controller
	Mastery    store.MasteryRepo
	Attempts   store.AttemptRepo
	Catalog    *catalog.Catalog
	User       string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	user   string
	width  int
	height int
}

// newAppModel creates an AppModel rooted at the home screen.
func newAppModel(opts Options) AppModel {
	root := home.New(opts.Controller, opts.Mastery, opts.Attempts, opts.Catalog, opts.User)
	return AppModel{
		router: router.New(root),
		user:   opts.User,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

// Update owns only ctrl+c and window sizing. Esc stays with the
// screens: the drill turns it into a quit confirmation instead of an
// immediate pop.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.user, m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(footerHints, provider.KeyHints()...)
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
