package algebra

import (
	"context"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// poly is a multivariate polynomial in expanded normal form: a map from a
// canonical monomial signature to its term. Exact big.Rat coefficients keep
// the zero test free of rounding. Zero-coefficient terms are pruned on the
// spot, so the zero polynomial is exactly the empty map. The constants pi
// and e are carried as opaque indeterminates; being transcendental, a
// nonzero polynomial in them never collapses to zero.
type poly map[string]*term

type term struct {
	coef *big.Rat
	vars map[string]int // variable -> exponent, exponents > 0
}

func monoKey(vars map[string]int) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for v := range vars {
		names = append(names, v)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, v := range names {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(v)
		b.WriteByte('^')
		b.WriteString(strconv.Itoa(vars[v]))
	}
	return b.String()
}

func constPoly(r *big.Rat) poly {
	p := make(poly)
	if r.Sign() != 0 {
		p[""] = &term{coef: new(big.Rat).Set(r), vars: map[string]int{}}
	}
	return p
}

func varPoly(name string) poly {
	vars := map[string]int{name: 1}
	return poly{monoKey(vars): &term{coef: big.NewRat(1, 1), vars: vars}}
}

// addTerm merges one term into p, pruning when the coefficient cancels.
// budget counts distinct stored monomials across the whole conversion.
func (p poly) addTerm(coef *big.Rat, vars map[string]int, budget *int) error {
	key := monoKey(vars)
	if existing, ok := p[key]; ok {
		existing.coef.Add(existing.coef, coef)
		if existing.coef.Sign() == 0 {
			delete(p, key)
		}
		return nil
	}
	if coef.Sign() == 0 {
		return nil
	}
	*budget--
	if *budget < 0 {
		return ErrBudget
	}
	copied := make(map[string]int, len(vars))
	for v, e := range vars {
		copied[v] = e
	}
	p[key] = &term{coef: new(big.Rat).Set(coef), vars: copied}
	return nil
}

func addPolys(a, b poly, negate bool, budget *int) (poly, error) {
	out := make(poly, len(a)+len(b))
	for _, t := range a {
		if err := out.addTerm(t.coef, t.vars, budget); err != nil {
			return nil, err
		}
	}
	for _, t := range b {
		coef := t.coef
		if negate {
			coef = new(big.Rat).Neg(t.coef)
		}
		if err := out.addTerm(coef, t.vars, budget); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func negPoly(a poly) poly {
	out := make(poly, len(a))
	for key, t := range a {
		vars := make(map[string]int, len(t.vars))
		for v, e := range t.vars {
			vars[v] = e
		}
		out[key] = &term{coef: new(big.Rat).Neg(t.coef), vars: vars}
	}
	return out
}

func mulPolys(ctx context.Context, a, b poly, budget *int) (poly, error) {
	out := make(poly)
	coef := new(big.Rat)
	for _, ta := range a {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, tb := range b {
			coef.Mul(ta.coef, tb.coef)
			vars := make(map[string]int, len(ta.vars)+len(tb.vars))
			for v, e := range ta.vars {
				vars[v] = e
			}
			for v, e := range tb.vars {
				vars[v] += e
			}
			if err := out.addTerm(coef, vars, budget); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func powPoly(ctx context.Context, base poly, exp int, budget *int) (poly, error) {
	out := constPoly(big.NewRat(1, 1))
	for i := 0; i < exp; i++ {
		var err error
		out, err = mulPolys(ctx, out, base, budget)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// scalePolyInv divides every coefficient by the nonzero constant c.
func scalePolyInv(a poly, c *big.Rat) poly {
	inv := new(big.Rat).Inv(c)
	out := make(poly, len(a))
	for key, t := range a {
		vars := make(map[string]int, len(t.vars))
		for v, e := range t.vars {
			vars[v] = e
		}
		out[key] = &term{coef: new(big.Rat).Mul(t.coef, inv), vars: vars}
	}
	return out
}

// asConstant returns the value of a constant polynomial, or nil.
func (p poly) asConstant() *big.Rat {
	if len(p) == 0 {
		return new(big.Rat)
	}
	if t, ok := p[""]; ok && len(p) == 1 {
		return t.coef
	}
	return nil
}

func (p poly) isZero() bool { return len(p) == 0 }

// hasFreeVar reports whether any monomial carries a variable other than the
// named constants.
func (p poly) hasFreeVar() bool {
	for _, t := range p {
		for v := range t.vars {
			if _, isConst := constants[v]; !isConst {
				return true
			}
		}
	}
	return false
}

// toPoly lowers a tree into expanded normal form. It fails with
// errNotPolynomial for shapes that have none (function calls, division by a
// non-constant, fractional or negative or oversized exponents) and with
// ErrBudget when expansion outgrows the term budget.
func toPoly(ctx context.Context, n Node, maxExp int, budget *int) (poly, error) {
	switch v := n.(type) {
	case *Num:
		return constPoly(v.Val), nil
	case *Var:
		return varPoly(v.Name), nil
	case *Unary:
		inner, err := toPoly(ctx, v.X, maxExp, budget)
		if err != nil {
			return nil, err
		}
		return negPoly(inner), nil
	case *Binary:
		switch v.Op {
		case '+', '-':
			left, err := toPoly(ctx, v.X, maxExp, budget)
			if err != nil {
				return nil, err
			}
			right, err := toPoly(ctx, v.Y, maxExp, budget)
			if err != nil {
				return nil, err
			}
			return addPolys(left, right, v.Op == '-', budget)
		case '*':
			left, err := toPoly(ctx, v.X, maxExp, budget)
			if err != nil {
				return nil, err
			}
			right, err := toPoly(ctx, v.Y, maxExp, budget)
			if err != nil {
				return nil, err
			}
			return mulPolys(ctx, left, right, budget)
		case '/':
			left, err := toPoly(ctx, v.X, maxExp, budget)
			if err != nil {
				return nil, err
			}
			right, err := toPoly(ctx, v.Y, maxExp, budget)
			if err != nil {
				return nil, err
			}
			c := right.asConstant()
			if c == nil || c.Sign() == 0 {
				return nil, errNotPolynomial
			}
			return scalePolyInv(left, c), nil
		case '^':
			base, err := toPoly(ctx, v.X, maxExp, budget)
			if err != nil {
				return nil, err
			}
			expPoly, err := toPoly(ctx, v.Y, maxExp, budget)
			if err != nil {
				return nil, err
			}
			c := expPoly.asConstant()
			if c == nil || !c.IsInt() || c.Sign() < 0 {
				return nil, errNotPolynomial
			}
			if !c.Num().IsInt64() || c.Num().Int64() > int64(maxExp) {
				return nil, errNotPolynomial
			}
			return powPoly(ctx, base, int(c.Num().Int64()), budget)
		}
	case *Call:
		return nil, errNotPolynomial
	}
	return nil, errNotPolynomial
}
