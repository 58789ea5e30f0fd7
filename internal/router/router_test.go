package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhitui/zhitui/internal/screen"
)

type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "first"})

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("Active() = %q, want second", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("pushed screen's Init did not run")
	}
}

func TestPop(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Push(&stubScreen{title: "second"})
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("Active() = %q, want first", r.Active().Title())
	}
}

func TestPopRefreshesRevealedScreen(t *testing.T) {
	first := &stubScreen{title: "first"}
	r := New(first)
	r.Push(&stubScreen{title: "second"})
	r.Pop()

	if !first.initRan {
		t.Error("revealed screen's Init did not run on pop")
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("Depth() = %d after pop at bottom, want 1", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "first"})

	s2 := &stubScreen{title: "second"}
	r.Replace(s2)

	if r.Depth() != 1 {
		t.Errorf("Depth() = %d after replace, want 1", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("Active() = %q, want second", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("replacement screen's Init did not run")
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Push(&stubScreen{title: "second"})
	r.Replace(&stubScreen{title: "third"})

	if r.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("Active() = %q, want third", r.Active().Title())
	}
}

func TestNavigationMessages(t *testing.T) {
	r := New(&stubScreen{title: "first"})

	r.Update(PushScreenMsg{Screen: &stubScreen{title: "second"}})
	if r.Active().Title() != "second" {
		t.Errorf("after push msg Active() = %q, want second", r.Active().Title())
	}

	s3 := &stubScreen{title: "third"}
	r.Update(ReplaceScreenMsg{Screen: s3})
	if r.Active().Title() != "third" || r.Depth() != 2 {
		t.Errorf("after replace msg Active() = %q depth %d, want third depth 2",
			r.Active().Title(), r.Depth())
	}
	if !s3.initRan {
		t.Error("replace msg did not run Init")
	}

	r.Update(PopScreenMsg{})
	if r.Active().Title() != "first" {
		t.Errorf("after pop msg Active() = %q, want first", r.Active().Title())
	}
}
