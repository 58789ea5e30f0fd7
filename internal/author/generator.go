// Package author generates new bank problems with an LLM and gates
// them behind a validator chain before they are written to a bank file.
package author

import (
	"context"

	"github.com/zhitui/zhitui/internal/catalog"
)

// Generator produces practice problems using an LLM provider.
type Generator interface {
	// Generate produces a batch of problems for the given request.
	// Every returned problem has passed the configured validators.
	Generate(ctx context.Context, req Request) ([]catalog.Problem, error)
}
