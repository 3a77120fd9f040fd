package ops

import (
	"dsq/internal/exec"
	"dsq/internal/value"
)

// BinaryOp implements "Arithmetic/comparison" and the
// short-circuiting and/or operators.
type BinaryOp struct {
	Left  Operator
	Op    string
	Right Operator
}

func (o BinaryOp) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	// and/or short-circuit: the right operand is only evaluated when needed.
	if o.Op == "and" {
		l, err := o.Left.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		if !l.IsTruthy() {
			return value.Bool(false), nil
		}
		r, err := o.Right.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		return value.Bool(r.IsTruthy()), nil
	}
	if o.Op == "or" {
		l, err := o.Left.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		if l.IsTruthy() {
			return value.Bool(true), nil
		}
		r, err := o.Right.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		return value.Bool(r.IsTruthy()), nil
	}

	l, err := o.Left.Eval(ctx, input)
	if err != nil {
		return value.Null, err
	}
	r, err := o.Right.Eval(ctx, input)
	if err != nil {
		return value.Null, err
	}

	switch o.Op {
	case "+":
		return value.Add(l, r)
	case "-":
		return value.Sub(l, r)
	case "*":
		return value.Mul(l, r)
	case "/":
		return value.Div(l, r)
	case "%":
		return value.Mod(l, r)
	case "==":
		return value.Bool(value.Equals(l, r)), nil
	case "!=":
		return value.Bool(!value.Equals(l, r)), nil
	case "<":
		return value.Bool(orderedLess(l, r)), nil
	case "<=":
		return value.Bool(!orderedLess(r, l) && !isUnordered(l, r)), nil
	case ">":
		return value.Bool(orderedLess(r, l)), nil
	case ">=":
		return value.Bool(!orderedLess(l, r) && !isUnordered(l, r)), nil
	default:
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "unknown binary operator " + o.Op}
	}
}

// isUnordered reports whether a comparison between a and b must yield
// false regardless of direction — true exactly when either is NaN
// ("NaN yields false in all ordered comparisons").
func isUnordered(a, b value.Value) bool {
	return isNaN(a) || isNaN(b)
}

func isNaN(v value.Value) bool {
	return v.Kind() == value.KindFloat && v.AsFloat() != v.AsFloat()
}

func orderedLess(a, b value.Value) bool {
	if isUnordered(a, b) {
		return false
	}
	return value.Less(a, b)
}
