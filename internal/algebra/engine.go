// Package algebra decides whether two hand-entered math expressions denote
// the same function. It is the equivalence engine behind formula grading:
// expressions are parsed into trees, lowered where possible into an expanded
// polynomial normal form over exact rationals (so (x+1)^2 and x^2+2x+1 meet
// in the same representation), and otherwise compared numerically at seeded
// random sample points. Every entry point is bounded: expansion carries a
// term budget and honors context cancellation, so a pathological input costs
// a verdict, never a hung goroutine.
package algebra

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"
)

// Engine is the capability the answer judge depends on. Implementations
// must be deterministic: identical inputs produce identical results.
type Engine interface {
	// Equivalent reports whether expressions a and b denote the same value
	// for every assignment of their free variables. Errors mean "could not
	// decide" (parse failure, budget, cancellation), not "not equivalent".
	Equivalent(ctx context.Context, a, b string) (bool, error)

	// Eval computes a constant expression (no free variables).
	Eval(expr string) (float64, error)
}

// Config bounds the engine.
type Config struct {
	// MaxTerms caps the total monomials allocated during one expansion.
	MaxTerms int
	// MaxExponent caps integer powers eligible for expansion; larger
	// exponents divert to sampling.
	MaxExponent int
	// SamplePoints is the number of random evaluation points per comparison.
	SamplePoints int
	// MinComparable is the number of points that must be defined for both
	// sides before a sampling verdict counts.
	MinComparable int
	// Seed fixes the sampling sequence.
	Seed int64
}

// DefaultConfig returns the bounds used in production.
func DefaultConfig() Config {
	return Config{
		MaxTerms:      4096,
		MaxExponent:   64,
		SamplePoints:  12,
		MinComparable: 3,
		Seed:          1,
	}
}

// Simplifier is the default Engine.
type Simplifier struct {
	cfg Config
}

// NewSimplifier builds a Simplifier, filling zero config fields from
// DefaultConfig.
func NewSimplifier(cfg Config) *Simplifier {
	def := DefaultConfig()
	if cfg.MaxTerms <= 0 {
		cfg.MaxTerms = def.MaxTerms
	}
	if cfg.MaxExponent <= 0 {
		cfg.MaxExponent = def.MaxExponent
	}
	if cfg.SamplePoints <= 0 {
		cfg.SamplePoints = def.SamplePoints
	}
	if cfg.MinComparable <= 0 {
		cfg.MinComparable = def.MinComparable
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	return &Simplifier{cfg: cfg}
}

const (
	sampleAbsTol = 1e-9
	sampleRelTol = 1e-9
	sampleSpan   = 5.0 // points drawn uniformly from (-span/2, span/2)
)

// Equivalent implements Engine.
func (s *Simplifier) Equivalent(ctx context.Context, a, b string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	astA, err := Parse(a)
	if err != nil {
		return false, err
	}
	astB, err := Parse(b)
	if err != nil {
		return false, err
	}

	// First try the exact route: expand (a - b) and test for the zero
	// polynomial. A nonzero difference with a free variable cannot vanish
	// identically, so that answers the question outright. A nonzero
	// difference built only from pi/e is a pair of constants and falls
	// through to numeric comparison.
	budget := s.cfg.MaxTerms
	diff := &Binary{Op: '-', X: astA, Y: astB}
	p, err := toPoly(ctx, diff, s.cfg.MaxExponent, &budget)
	switch {
	case err == nil:
		if p.isZero() {
			return true, nil
		}
		if p.hasFreeVar() {
			return false, nil
		}
	case errors.Is(err, errNotPolynomial):
		// sampling below
	default:
		return false, err
	}

	return s.sample(ctx, astA, astB)
}

// sample compares both trees at seeded random points. Points where either
// side is undefined are skipped; a verdict requires MinComparable defined
// points (one suffices for constant expressions).
func (s *Simplifier) sample(ctx context.Context, astA, astB Node) (bool, error) {
	varSet := make(map[string]bool)
	collectVars(astA, varSet)
	collectVars(astB, varSet)
	vars := make([]string, 0, len(varSet))
	for v := range varSet {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	points := s.cfg.SamplePoints
	required := s.cfg.MinComparable
	if len(vars) == 0 {
		points = 1
		required = 1
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))
	binding := make(map[string]float64, len(vars))
	compared := 0
	for i := 0; i < points; i++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		for _, v := range vars {
			binding[v] = rng.Float64()*sampleSpan - sampleSpan/2
		}
		va, err := evalNode(astA, binding)
		if err != nil {
			return false, err
		}
		vb, err := evalNode(astB, binding)
		if err != nil {
			return false, err
		}
		if !defined(va) || !defined(vb) {
			continue
		}
		compared++
		if math.Abs(va-vb) > sampleAbsTol+sampleRelTol*math.Max(math.Abs(va), math.Abs(vb)) {
			return false, nil
		}
	}
	if compared < required {
		return false, ErrInconclusive
	}
	return true, nil
}

// Eval implements Engine. The expression must be constant: pi and e are
// known, free variables are not.
func (s *Simplifier) Eval(expr string) (float64, error) {
	n, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	v, err := evalNode(n, nil)
	if err != nil {
		return 0, err
	}
	if !defined(v) {
		return 0, &ParseError{Input: expr, Pos: 0, Msg: "expression is undefined"}
	}
	return v, nil
}
