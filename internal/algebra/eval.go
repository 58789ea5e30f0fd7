package algebra

import (
	"fmt"
	"math"
)

// evalNode computes the value of n under the given variable bindings.
// Domain violations (log of a negative, division by zero, overflow) surface
// as NaN or Inf in the result; callers decide whether that point counts.
func evalNode(n Node, vars map[string]float64) (float64, error) {
	switch v := n.(type) {
	case *Num:
		f, _ := v.Val.Float64()
		return f, nil
	case *Var:
		if c, ok := constants[v.Name]; ok {
			return c, nil
		}
		if val, ok := vars[v.Name]; ok {
			return val, nil
		}
		return 0, fmt.Errorf("algebra: unknown variable %q", v.Name)
	case *Unary:
		x, err := evalNode(v.X, vars)
		if err != nil {
			return 0, err
		}
		return -x, nil
	case *Binary:
		x, err := evalNode(v.X, vars)
		if err != nil {
			return 0, err
		}
		y, err := evalNode(v.Y, vars)
		if err != nil {
			return 0, err
		}
		switch v.Op {
		case '+':
			return x + y, nil
		case '-':
			return x - y, nil
		case '*':
			return x * y, nil
		case '/':
			return x / y, nil
		case '^':
			return math.Pow(x, y), nil
		}
		return 0, fmt.Errorf("algebra: unknown operator %q", v.Op)
	case *Call:
		arg, err := evalNode(v.Arg, vars)
		if err != nil {
			return 0, err
		}
		switch v.Fn {
		case "sin":
			return math.Sin(arg), nil
		case "cos":
			return math.Cos(arg), nil
		case "tan":
			return math.Tan(arg), nil
		case "exp":
			return math.Exp(arg), nil
		case "ln", "log":
			return math.Log(arg), nil
		case "sqrt":
			return math.Sqrt(arg), nil
		case "abs":
			return math.Abs(arg), nil
		}
		return 0, fmt.Errorf("algebra: unknown function %q", v.Fn)
	}
	return 0, fmt.Errorf("algebra: unknown node %T", n)
}

func defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
