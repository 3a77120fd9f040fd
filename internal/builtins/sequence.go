package builtins

import (
	"fmt"
	"sort"

	"dsq/internal/value"
)

// registerSequence registers 's sequence-transform group. The
// comparator-bearing higher-order names (map, filter, select, sort_by,
// group_by, min_by, max_by) are metadata only here: their bodies are
// uncompiled filter sub-programs dispatched per-element by
// internal/ops, not plain-value functions. transform_values and
// map_values are registered the same way in misc.go.
func registerSequence() {
	registerHigherOrder("map", 2, 2)
	registerHigherOrder("filter", 2, 2)
	registerHigherOrder("select", 2, 2)
	registerHigherOrder("sort_by", 2, 2)
	registerHigherOrder("group_by", 2, 2)
	registerHigherOrder("min_by", 2, 2)
	registerHigherOrder("max_by", 2, 2)

	registerFn("sort", 1, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		out := append([]value.Value(nil), elems...)
		sortValues(out)
		return value.Array(out), nil
	})
	registerFn("reverse", 1, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		out := make([]value.Value, len(elems))
		for i, e := range elems {
			out[len(elems)-1-i] = e
		}
		return value.Array(out), nil
	})
	registerFn("unique", 1, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		out := append([]value.Value(nil), elems...)
		sortValues(out)
		var deduped []value.Value
		for i, e := range out {
			if i == 0 || !value.Equals(e, out[i-1]) {
				deduped = append(deduped, e)
			}
		}
		return value.Array(deduped), nil
	})
	registerFn("flatten", 1, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		var out []value.Value
		for _, e := range elems {
			if e.Kind() == value.KindArray {
				out = append(out, e.AsArray()...)
			} else {
				out = append(out, e)
			}
		}
		return value.Array(out), nil
	})
	registerFn("first", 1, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		if len(elems) == 0 {
			return value.Null, nil
		}
		return elems[0], nil
	})
	registerFn("last", 1, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		if len(elems) == 0 {
			return value.Null, nil
		}
		return elems[len(elems)-1], nil
	})
	registerFnRange("range", 1, 3, func(args []value.Value) (value.Value, error) {
		var lo, hi, step int64
		switch len(args) {
		case 1:
			lo, hi, step = 0, args[0].AsInt(), 1
		case 2:
			lo, hi, step = args[0].AsInt(), args[1].AsInt(), 1
		default:
			lo, hi, step = args[0].AsInt(), args[1].AsInt(), args[2].AsInt()
		}
		if step == 0 {
			return value.Null, fmt.Errorf("range: step cannot be zero")
		}
		var out []value.Value
		if step > 0 {
			for i := lo; i < hi; i += step {
				out = append(out, value.Int(i))
			}
		} else {
			for i := lo; i > hi; i += step {
				out = append(out, value.Int(i))
			}
		}
		return value.Array(out), nil
	})
	registerFn("repeat", 2, func(args []value.Value) (value.Value, error) {
		v := args[0]
		n := args[1].AsInt()
		if n < 0 {
			n = 0
		}
		out := make([]value.Value, n)
		for i := range out {
			out[i] = v
		}
		return value.Array(out), nil
	})
	registerFn("array_pop", 1, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		if len(elems) == 0 {
			return value.Array(nil), nil
		}
		return value.Array(append([]value.Value(nil), elems[:len(elems)-1]...)), nil
	})
	registerFn("array_push", 2, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		out := append(append([]value.Value(nil), elems...), args[1])
		return value.Array(out), nil
	})
	registerFn("array_shift", 1, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		if len(elems) == 0 {
			return value.Array(nil), nil
		}
		return value.Array(append([]value.Value(nil), elems[1:]...)), nil
	})
	registerFn("array_unshift", 2, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		out := append([]value.Value{args[1]}, elems...)
		return value.Array(out), nil
	})
}

// sortValues sorts in place under the total order.
func sortValues(vs []value.Value) {
	sort.SliceStable(vs, func(i, j int) bool { return value.Less(vs[i], vs[j]) })
}
