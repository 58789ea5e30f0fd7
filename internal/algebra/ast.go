package algebra

import (
	"fmt"
	"math"
	"math/big"
)

// Node is a parsed expression tree node.
type Node interface {
	String() string
}

// Num is an exact rational literal.
type Num struct {
	Val *big.Rat
}

// Var is a free variable or a named constant (pi, e).
type Var struct {
	Name string
}

// Unary is negation.
type Unary struct {
	X Node
}

// Binary is one of + - * / ^.
type Binary struct {
	Op byte
	X  Node
	Y  Node
}

// Call applies a single-argument function (sin, cos, tan, exp, ln, log,
// sqrt, abs).
type Call struct {
	Fn  string
	Arg Node
}

func (n *Num) String() string    { return n.Val.RatString() }
func (n *Var) String() string    { return n.Name }
func (n *Unary) String() string  { return fmt.Sprintf("(-%s)", n.X) }
func (n *Binary) String() string { return fmt.Sprintf("(%s %c %s)", n.X, n.Op, n.Y) }
func (n *Call) String() string   { return fmt.Sprintf("%s(%s)", n.Fn, n.Arg) }

// constants are symbols with fixed values, never sampled as free variables.
var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// collectVars accumulates the free variables of n into out.
func collectVars(n Node, out map[string]bool) {
	switch v := n.(type) {
	case *Var:
		if _, isConst := constants[v.Name]; !isConst {
			out[v.Name] = true
		}
	case *Unary:
		collectVars(v.X, out)
	case *Binary:
		collectVars(v.X, out)
		collectVars(v.Y, out)
	case *Call:
		collectVars(v.Arg, out)
	}
}
