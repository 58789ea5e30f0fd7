// Package home is the landing screen: a menu into the drill, stats and
// review screens, with a one-line progress strip.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhitui/zhitui/internal/catalog"
	"github.com/zhitui/zhitui/internal/router"
	"github.com/zhitui/zhitui/internal/screen"
	drillscreen "github.com/zhitui/zhitui/internal/screens/drill"
	"github.com/zhitui/zhitui/internal/screens/history"
	"github.com/zhitui/zhitui/internal/screens/review"
	"github.com/zhitui/zhitui/internal/screens/stats"
	"github.com/zhitui/zhitui/internal/session"
	"github.com/zhitui/zhitui/internal/store"
	"github.com/zhitui/zhitui/internal/ui/components"
	"github.com/zhitui/zhitui/internal/ui/layout"
	"github.com/zhitui/zhitui/internal/ui/theme"
)

type homeStatsMsg struct {
	Attempts int
	Streak   int
	Weakest  string
	WeakestP float64
	Tags     int
}

// HomeScreen is the application's landing screen.
type HomeScreen struct {
	ctrl     *session.Controller
	mastery  store.MasteryRepo
	attempts store.AttemptRepo
	cat      *catalog.Catalog
	user     string

	menu  components.Menu
	stats *homeStatsMsg
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen and wires its menu to the other screens.
func New(ctrl *session.Controller, mastery store.MasteryRepo, attempts store.AttemptRepo, cat *catalog.Catalog, user string) *HomeScreen {
	h := &HomeScreen{
		ctrl:     ctrl,
		mastery:  mastery,
		attempts: attempts,
		cat:      cat,
		user:     user,
	}

	items := []components.MenuItem{
		{Label: "开始练习", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: drillscreen.New(h.ctrl, h.user)}
			}
		}},
		{Label: "掌握度", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: stats.New(h.mastery, h.attempts, h.user)}
			}
		}},
		{Label: "错题本", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: review.New(h.attempts, h.cat, h.user)}
			}
		}},
		{Label: "练习记录", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(h.attempts, h.cat, h.user)}
			}
		}},
		{Label: "退出", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

// Init loads the progress strip. The router re-runs it whenever a
// child screen pops back to home, so the strip stays current.
func (h *HomeScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg homeStatsMsg

		if st, err := h.attempts.Stats(ctx, h.user); err == nil && st != nil {
			msg.Attempts = st.Total
			msg.Streak = st.Streak
		}
		if recs, err := h.mastery.All(ctx, h.user); err == nil {
			msg.Tags = len(recs)
			for _, r := range recs {
				if msg.Weakest == "" || r.PMastery < msg.WeakestP {
					msg.Weakest, msg.WeakestP = r.Tag, r.PMastery
				}
			}
		}
		return msg
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case homeStatsMsg:
		h.stats = &msg
		return h, nil
	case tea.KeyMsg:
		if msg.String() == "q" {
			return h, tea.Quit
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	title := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("智 推")
	subtitle := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("跟着掌握度走的数学刷题")

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, title))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, subtitle))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.renderProgressStrip()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	return lipgloss.PlaceVertical(height, lipgloss.Center, b.String())
}

func (h *HomeScreen) renderProgressStrip() string {
	if h.stats == nil {
		return theme.Hint.Render("…")
	}
	if h.stats.Attempts == 0 {
		return theme.Hint.Render("还没有记录，从第一题开始。")
	}

	parts := []string{
		fmt.Sprintf("做题 %d", h.stats.Attempts),
	}
	if h.stats.Streak > 1 {
		parts = append(parts, fmt.Sprintf("连对 %d", h.stats.Streak))
	}
	if h.stats.Weakest != "" {
		parts = append(parts, fmt.Sprintf("薄弱 %s %.0f%%", h.stats.Weakest, h.stats.WeakestP*100))
	}
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(strings.Join(parts, "    "))
}
