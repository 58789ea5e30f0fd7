// Package llm drives the problem-authoring model calls. Every call is
// single turn: one system instruction, one user request, optionally a
// JSON schema the reply must satisfy. Conversations are out of scope;
// the authoring pipeline regenerates from scratch instead of steering
// a model mid-dialogue.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client is implemented by every model backend.
type Client interface {
	// Complete sends one prompt and returns the model's reply. When
	// the prompt carries a Schema, the reply body is JSON that has
	// already been checked against it.
	Complete(ctx context.Context, p Prompt) (*Completion, error)

	// Model returns the model id this client is bound to.
	Model() string
}

// Prompt is one self-contained instruction to the model.
type Prompt struct {
	// System sets the model's role. Empty means no system instruction.
	System string

	// User is the request body.
	User string

	// Schema, when set, constrains the reply to a JSON shape. The
	// backends use their native structured-output mechanism and the
	// reply is validated here again before the caller sees it.
	Schema *Schema

	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature in [0,1]. Zero means deterministic.
	Temperature float64
}

// Schema names a JSON shape a reply must satisfy.
type Schema struct {
	// Name identifies the schema to the backend. Kebab-case.
	Name string

	// Description tells the model what the shape represents.
	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Completion is a model reply.
type Completion struct {
	// Body is the reply: schema-conformant JSON when the prompt
	// carried a Schema, raw text bytes otherwise.
	Body json.RawMessage

	// Model is the model that actually served the call, which can be
	// a dated release of the requested id.
	Model string

	// Usage counts the tokens billed for this call.
	Usage Usage
}

// Usage counts tokens for one call.
type Usage struct {
	Input  int
	Output int
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.Input + u.Output }

// finishReply is the shared tail of every backend's Complete: reject
// truncated or empty replies, check the schema, build the Completion.
func finishReply(p Prompt, body []byte, model string, usage Usage, truncated bool) (*Completion, error) {
	if truncated {
		return nil, &TruncatedError{Model: model}
	}
	if len(body) == 0 {
		return nil, &BadReplyError{Err: errors.New("empty reply")}
	}
	if p.Schema != nil {
		if err := conform(p.Schema, body); err != nil {
			return nil, err
		}
	}
	return &Completion{Body: body, Model: model, Usage: usage}, nil
}

// modelID resolves a tier alias (fast, smart) against a backend's
// alias table. Unlisted names pass through as literal model ids.
func modelID(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
