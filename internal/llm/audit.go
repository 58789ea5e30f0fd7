package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zhitui/zhitui/internal/store"
)

type auditClient struct {
	inner   Client
	backend string
	events  store.EventRepo
}

// WithAudit wraps a client so every call, failed ones included, lands
// in the event log. A failure to record never fails the call itself.
func WithAudit(c Client, backend string, events store.EventRepo) Client {
	return &auditClient{inner: c, backend: backend, events: events}
}

func (a *auditClient) Model() string { return a.inner.Model() }

func (a *auditClient) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	started := time.Now()
	reply, err := a.inner.Complete(ctx, p)

	ev := store.LLMRequestEventData{
		Provider:    a.backend,
		Model:       a.inner.Model(),
		Purpose:     Purpose(ctx),
		LatencyMs:   time.Since(started).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(p),
	}
	if reply != nil {
		ev.Model = reply.Model
		ev.InputTokens = reply.Usage.Input
		ev.OutputTokens = reply.Usage.Output
		ev.ResponseBody = string(reply.Body)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	if logErr := a.events.AppendLLMRequest(ctx, ev); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: LLM event not recorded: %v\n", logErr)
	}
	return reply, err
}

// transcript renders a prompt for the event log.
func transcript(p Prompt) string {
	var b strings.Builder
	if p.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(p.System)
		b.WriteString("\n\n")
	}
	b.WriteString("[user]\n")
	b.WriteString(p.User)
	b.WriteString("\n")
	if p.Schema != nil {
		if def, err := json.Marshal(p.Schema.Definition); err == nil {
			b.WriteString(fmt.Sprintf("\n[schema %s]\n", p.Schema.Name))
			b.Write(def)
			b.WriteString("\n")
		}
	}
	return b.String()
}
