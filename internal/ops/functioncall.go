package ops

import (
	"sort"

	"dsq/internal/builtins"
	"dsq/internal/exec"
	"dsq/internal/value"
)

// FunctionCall evaluates each argument program against the input and
// dispatches to a builtin or user function.
// HigherOrder names (map, filter, select, sort_by, group_by, min_by,
// max_by, iferror, transform_values, map_values) receive their Args as
// uncompiled sub-programs evaluated per-element here rather than
// pre-evaluated values.
type FunctionCall struct {
	Name string
	Args []Operator
}

func (o FunctionCall) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	if b, ok := builtins.Lookup(o.Name); ok {
		if b.HigherOrder {
			return o.evalHigherOrder(ctx, input)
		}
		// A bare name with no parens (e.g. "length", "keys", "reverse")
		// parses as a zero-argument call; for single-argument builtins
		// this is jq's implicit-input idiom, so it operates on "." the
		// same as the explicit form would" interchangeably).
		if len(o.Args) == 0 && b.MinArity == 1 && b.MaxArity == 1 {
			if err := ctx.PushFrame(o.Name, input); err != nil {
				return value.Null, err
			}
			defer ctx.PopFrame()
			return b.Fn([]value.Value{input})
		}
		if !b.CheckArity(len(o.Args)) {
			return value.Null, &exec.RuntimeError{Kind: "operation", Message: "wrong arity for " + o.Name}
		}
		args := make([]value.Value, len(o.Args))
		for i, a := range o.Args {
			v, err := a.Eval(ctx, input)
			if err != nil {
				return value.Null, err
			}
			args[i] = v
		}
		if err := ctx.PushFrame(o.Name, input); err != nil {
			return value.Null, err
		}
		defer ctx.PopFrame()
		return b.Fn(args)
	}

	if fn, ok := ctx.LookupUserFunction(o.Name); ok {
		return callUserFunctionWithArgs(ctx, o.Name, fn, o.Args, input)
	}

	return value.Null, &exec.RuntimeError{Kind: "operation", Message: "user-defined function execution not yet implemented: " + o.Name}
}

func (o FunctionCall) evalHigherOrder(ctx *exec.Context, input value.Value) (value.Value, error) {
	switch o.Name {
	case "iferror":
		if len(o.Args) != 2 {
			return value.Null, &exec.RuntimeError{Kind: "operation", Message: "iferror expects 2 arguments"}
		}
		// iferror ALWAYS catches regardless of error mode.
		v, err := o.Args[0].Eval(ctx, input)
		if err == nil {
			return v, nil
		}
		return o.Args[1].Eval(ctx, input)

	case "select":
		if len(o.Args) != 1 {
			return value.Null, &exec.RuntimeError{Kind: "operation", Message: "select expects 1 argument"}
		}
		cond, err := o.Args[0].Eval(ctx, input)
		if err != nil {
			return handleElementError(ctx, err)
		}
		if cond.IsTruthy() {
			return input, nil
		}
		return value.Null, nil

	case "map":
		return o.mapOver(ctx, input, dropNullUnlessIdentity)

	case "filter":
		return o.filterOver(ctx, input)

	case "sort_by":
		return o.sortByOver(ctx, input, false)

	case "min_by":
		return o.minMaxByOver(ctx, input, true)

	case "max_by":
		return o.minMaxByOver(ctx, input, false)

	case "group_by":
		return o.groupByOver(ctx, input)

	case "transform_values", "map_values":
		return o.transformValuesOver(ctx, input)

	default:
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "unhandled higher-order builtin " + o.Name}
	}
}

func dropNullUnlessIdentity(body Operator) bool {
	_, isIdentity := body.(Identity)
	return !isIdentity
}

func (o FunctionCall) mapOver(ctx *exec.Context, input value.Value, shouldDropNull func(Operator) bool) (value.Value, error) {
	if len(o.Args) != 1 {
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "map expects 1 argument"}
	}
	elems, err := iterableElements(input)
	if err != nil {
		return value.Null, err
	}
	drop := shouldDropNull(o.Args[0])
	var out []value.Value
	for _, e := range elems {
		if err := ctx.CheckDeadline(); err != nil {
			return value.Null, err
		}
		v, err := o.Args[0].Eval(ctx, e)
		if err != nil {
			v, err = handleElementError(ctx, err)
			if err != nil {
				return value.Null, err
			}
		}
		if drop && v.IsNull() {
			continue
		}
		out = append(out, v)
	}
	return value.Array(out), nil
}

func (o FunctionCall) filterOver(ctx *exec.Context, input value.Value) (value.Value, error) {
	if len(o.Args) != 1 {
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "filter expects 1 argument"}
	}
	elems, err := iterableElements(input)
	if err != nil {
		return value.Null, err
	}
	var out []value.Value
	for _, e := range elems {
		if err := ctx.CheckDeadline(); err != nil {
			return value.Null, err
		}
		cond, err := o.Args[0].Eval(ctx, e)
		if err != nil {
			cond, err = handleElementError(ctx, err)
			if err != nil {
				return value.Null, err
			}
		}
		if cond.IsTruthy() {
			out = append(out, e)
		}
	}
	return value.Array(out), nil
}

func (o FunctionCall) sortByOver(ctx *exec.Context, input value.Value, desc bool) (value.Value, error) {
	if len(o.Args) != 1 {
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "sort_by expects 1 argument"}
	}
	elems, err := iterableElements(input)
	if err != nil {
		return value.Null, err
	}
	keys := make([]value.Value, len(elems))
	for i, e := range elems {
		if err := ctx.CheckDeadline(); err != nil {
			return value.Null, err
		}
		k, err := o.Args[0].Eval(ctx, e)
		if err != nil {
			return value.Null, err
		}
		keys[i] = k
	}
	idx := make([]int, len(elems))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		if desc {
			return value.Less(keys[idx[j]], keys[idx[i]])
		}
		return value.Less(keys[idx[i]], keys[idx[j]])
	})
	out := make([]value.Value, len(elems))
	for i, p := range idx {
		out[i] = elems[p]
	}
	return value.Array(out), nil
}

func (o FunctionCall) minMaxByOver(ctx *exec.Context, input value.Value, wantMin bool) (value.Value, error) {
	if len(o.Args) != 1 {
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "min_by/max_by expects 1 argument"}
	}
	elems, err := iterableElements(input)
	if err != nil {
		return value.Null, err
	}
	if len(elems) == 0 {
		return value.Null, nil
	}
	bestElem := elems[0]
	bestKey, err := o.Args[0].Eval(ctx, elems[0])
	if err != nil {
		return value.Null, err
	}
	for _, e := range elems[1:] {
		if err := ctx.CheckDeadline(); err != nil {
			return value.Null, err
		}
		k, err := o.Args[0].Eval(ctx, e)
		if err != nil {
			return value.Null, err
		}
		if (wantMin && value.Less(k, bestKey)) || (!wantMin && value.Less(bestKey, k)) {
			bestKey = k
			bestElem = e
		}
	}
	return bestElem, nil
}

func (o FunctionCall) groupByOver(ctx *exec.Context, input value.Value) (value.Value, error) {
	if len(o.Args) != 1 {
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "group_by expects 1 argument"}
	}
	elems, err := iterableElements(input)
	if err != nil {
		return value.Null, err
	}
	var order []string
	groups := map[string][]value.Value{}
	for _, e := range elems {
		if err := ctx.CheckDeadline(); err != nil {
			return value.Null, err
		}
		k, err := o.Args[0].Eval(ctx, e)
		if err != nil {
			return value.Null, err
		}
		s, err := value.ToJSONString(k, false)
		if err != nil {
			return value.Null, err
		}
		if _, seen := groups[s]; !seen {
			order = append(order, s)
		}
		groups[s] = append(groups[s], e)
	}
	out := make([]value.Value, len(order))
	for i, k := range order {
		out[i] = value.Array(groups[k])
	}
	return value.Array(out), nil
}

func (o FunctionCall) transformValuesOver(ctx *exec.Context, input value.Value) (value.Value, error) {
	if len(o.Args) != 1 {
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "transform_values/map_values expects 1 argument"}
	}
	if input.Kind() != value.KindObject {
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "transform_values/map_values requires an object input"}
	}
	src := input.AsObject()
	out := value.NewObject()
	for _, k := range src.Keys() {
		if err := ctx.CheckDeadline(); err != nil {
			return value.Null, err
		}
		v, _ := src.Get(k)
		nv, err := o.Args[0].Eval(ctx, v)
		if err != nil {
			nv, err = handleElementError(ctx, err)
			if err != nil {
				return value.Null, err
			}
		}
		out.Set(k, nv)
	}
	return value.Object(out), nil
}

// handleElementError applies the active error mode to a per-element
// failure inside map/filter/select/transform_values.
// Strict re-raises; Ignore substitutes null and continues; Collect
// records the error and substitutes null.
func handleElementError(ctx *exec.Context, err error) (value.Value, error) {
	switch ctx.ErrorMode() {
	case exec.ErrorModeStrict:
		return value.Null, err
	case exec.ErrorModeCollect:
		ctx.RecordError(err)
		return value.Null, nil
	default: // ErrorModeIgnore
		return value.Null, nil
	}
}

// iterableElements produces the uniform per-element view the design
// requires for map/filter/select/sort_by/group_by/min_by/max_by:
// arrays, frames (rows as objects), and series all iterate the same
// way.
func iterableElements(v value.Value) ([]value.Value, error) {
	switch v.Kind() {
	case value.KindArray:
		return v.AsArray(), nil
	case value.KindFrame:
		return v.AsFrame().Rows(), nil
	case value.KindSeries:
		s := v.AsSeries()
		out := make([]value.Value, s.Len())
		for i := 0; i < s.Len(); i++ {
			out[i] = s.Get(i)
		}
		return out, nil
	default:
		return nil, &exec.RuntimeError{Kind: "operation", Message: "expected array/frame/series, got " + v.TypeName()}
	}
}

// callUserFunctionWithArgs binds a host-registered function's
// parameters to evaluated argument values in a fresh scope, then
// evaluates its body with the original input.
func callUserFunctionWithArgs(ctx *exec.Context, name string, fn *exec.UserFunction, argProgs []Operator, input value.Value) (value.Value, error) {
	body, ok := fn.Body.(Operator)
	if !ok {
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "malformed user function " + name}
	}
	if err := ctx.PushFrame(name, input); err != nil {
		return value.Null, err
	}
	defer ctx.PopFrame()
	ctx.PushScope()
	defer ctx.PopScope()
	for i, param := range fn.Params {
		if i >= len(argProgs) {
			break
		}
		v, err := argProgs[i].Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		ctx.SetVar(param, v)
	}
	return body.Eval(ctx, input)
}

// callUserFunction invokes a zero-argument bare function reference
// ($name resolving to a user function, Variable) with the
// current input as its sole argument.
func callUserFunction(ctx *exec.Context, name string, input value.Value) (value.Value, error) {
	fn, _ := ctx.LookupUserFunction(name)
	body, ok := fn.Body.(Operator)
	if !ok {
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "malformed user function " + name}
	}
	if err := ctx.PushFrame(name, input); err != nil {
		return value.Null, err
	}
	defer ctx.PopFrame()
	return body.Eval(ctx, input)
}
