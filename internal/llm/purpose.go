package llm

import "context"

type purposeKey struct{}

// WithPurpose labels the context so the event log can tell what a
// model call was for, e.g. "problem-gen".
func WithPurpose(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, purposeKey{}, label)
}

// Purpose returns the label set by WithPurpose, or "misc".
func Purpose(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return "misc"
}
