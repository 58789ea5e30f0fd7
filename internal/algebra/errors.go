package algebra

import (
	"errors"
	"fmt"
)

// ErrBudget reports that expansion exceeded the configured term budget.
var ErrBudget = errors.New("algebra: expansion budget exceeded")

// ErrInconclusive reports that too few sample points were defined for both
// expressions to support an equivalence verdict.
var ErrInconclusive = errors.New("algebra: equivalence inconclusive")

// errNotPolynomial is internal control flow: the expression has no
// polynomial normal form and equivalence falls back to numeric sampling.
var errNotPolynomial = errors.New("algebra: not a polynomial")

// ParseError describes a rejected input expression.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("algebra: parse %q at offset %d: %s", e.Input, e.Pos, e.Msg)
}
