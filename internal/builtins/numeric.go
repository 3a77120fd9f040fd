package builtins

import (
	"fmt"
	"math"
	"math/big"
	"math/rand"

	"dsq/internal/value"
)

func unaryMathFn(name string, f func(float64) float64) {
	registerFn(name, 1, func(args []value.Value) (value.Value, error) {
		x, ok := value.ToFloat64(args[0])
		if !ok {
			return value.Null, fmt.Errorf("%s: expected numeric argument, got %s", name, args[0].TypeName())
		}
		return value.Float(f(x)), nil
	})
}

func registerNumeric() {
	registerFn("abs", 1, func(args []value.Value) (value.Value, error) {
		v := args[0]
		switch v.Kind() {
		case value.KindInt:
			i := v.AsInt()
			if i < 0 {
				i = -i
			}
			return value.Int(i), nil
		case value.KindBigInt:
			return value.BigInt(new(big.Int).Abs(v.AsBigInt())), nil
		case value.KindFloat:
			return value.Float(math.Abs(v.AsFloat())), nil
		default:
			return value.Null, fmt.Errorf("abs: expected numeric argument, got %s", v.TypeName())
		}
	})
	unaryMathFn("sqrt", math.Sqrt)
	unaryMathFn("log10", math.Log10)
	unaryMathFn("exp", math.Exp)
	unaryMathFn("sin", math.Sin)
	unaryMathFn("cos", math.Cos)
	unaryMathFn("tan", math.Tan)
	unaryMathFn("asin", math.Asin)
	unaryMathFn("acos", math.Acos)
	unaryMathFn("atan", math.Atan)

	registerFn("floor", 1, func(args []value.Value) (value.Value, error) {
		x, ok := value.ToFloat64(args[0])
		if !ok {
			return value.Null, fmt.Errorf("floor: expected numeric argument, got %s", args[0].TypeName())
		}
		return value.Int(int64(math.Floor(x))), nil
	})
	registerFn("ceil", 1, func(args []value.Value) (value.Value, error) {
		x, ok := value.ToFloat64(args[0])
		if !ok {
			return value.Null, fmt.Errorf("ceil: expected numeric argument, got %s", args[0].TypeName())
		}
		return value.Int(int64(math.Ceil(x))), nil
	})
	registerFnRange("round", 1, 2, func(args []value.Value) (value.Value, error) {
		x, ok := value.ToFloat64(args[0])
		if !ok {
			return value.Null, fmt.Errorf("round: expected numeric argument, got %s", args[0].TypeName())
		}
		precision := int64(0)
		if len(args) == 2 {
			precision = args[1].AsInt()
		}
		mult := math.Pow(10, float64(precision))
		r := math.Round(x*mult) / mult
		if precision <= 0 {
			return value.Int(int64(r)), nil
		}
		return value.Float(r), nil
	})
	registerFn("mround", 2, func(args []value.Value) (value.Value, error) {
		x, ok1 := value.ToFloat64(args[0])
		m, ok2 := value.ToFloat64(args[1])
		if !ok1 || !ok2 {
			return value.Null, fmt.Errorf("mround: expected two numeric arguments")
		}
		if m == 0 {
			return value.Null, fmt.Errorf("mround: multiple cannot be zero")
		}
		return value.Float(math.Round(x/m) * m), nil
	})
	registerFn("pow", 2, func(args []value.Value) (value.Value, error) {
		base, ok1 := value.ToFloat64(args[0])
		exp, ok2 := value.ToFloat64(args[1])
		if !ok1 || !ok2 {
			return value.Null, fmt.Errorf("pow: expected two numeric arguments")
		}
		return value.Float(math.Pow(base, exp)), nil
	})
	registerFn("pi", 0, func(args []value.Value) (value.Value, error) {
		return value.Float(math.Pi), nil
	})
	registerFn("rand", 0, func(args []value.Value) (value.Value, error) {
		return value.Float(rand.Float64()), nil
	})
	registerFn("randbetween", 2, func(args []value.Value) (value.Value, error) {
		lo, hi := args[0].AsInt(), args[1].AsInt()
		if hi <= lo {
			return value.Null, fmt.Errorf("randbetween: hi must be greater than lo")
		}
		return value.Int(lo + rand.Int63n(hi-lo)), nil
	})

	// iferror's two arguments are filter sub-programs (it
	// always catches regardless of error mode); dispatch lives in
	// internal/ops, not here.
	registerHigherOrder("iferror", 2, 2)
}
