package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// Reply is one canned Mock result.
type Reply struct {
	Body  json.RawMessage
	Usage Usage
	Err   error
}

// Mock replays canned replies in order and records every prompt it
// receives. Safe for concurrent use.
type Mock struct {
	mu      sync.Mutex
	queue   []Reply
	prompts []Prompt
}

// NewMock builds a Mock preloaded with replies.
func NewMock(replies ...Reply) *Mock {
	return &Mock{queue: replies}
}

func (m *Mock) Model() string { return "mock" }

// Complete pops the next canned reply. An empty queue reads as a
// backend failure.
func (m *Mock) Complete(_ context.Context, p Prompt) (*Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, p)

	if len(m.queue) == 0 {
		return nil, &BackendError{Err: errors.New("mock reply queue empty")}
	}
	r := m.queue[0]
	m.queue = m.queue[1:]

	if r.Err != nil {
		return nil, r.Err
	}
	return &Completion{Body: r.Body, Model: "mock", Usage: r.Usage}, nil
}

// Enqueue appends a reply to the queue.
func (m *Mock) Enqueue(r Reply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, r)
}

// Prompts returns a copy of every prompt seen so far.
func (m *Mock) Prompts() []Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Prompt, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Calls returns the number of Complete calls seen so far.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
