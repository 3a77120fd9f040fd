package builtins

import (
	"sort"

	"dsq/internal/value"
)

func registerMeta() {
	registerFn("length", 1, func(args []value.Value) (value.Value, error) {
		return value.Int(int64(args[0].Length())), nil
	})
	registerFn("keys", 1, func(args []value.Value) (value.Value, error) {
		v := args[0]
		var names []string
		switch v.Kind() {
		case value.KindObject:
			names = v.AsObject().Keys()
		case value.KindFrame:
			names = v.AsFrame().ColumnNames()
		default:
			return value.Null, &value.KindError{Op: "keys", Kind: v.TypeName()}
		}
		sort.Strings(names)
		out := make([]value.Value, len(names))
		for i, n := range names {
			out[i] = value.String(n)
		}
		return value.Array(out), nil
	})
	registerFn("values", 1, func(args []value.Value) (value.Value, error) {
		v := args[0]
		if v.Kind() != value.KindObject {
			return value.Null, &value.KindError{Op: "values", Kind: v.TypeName()}
		}
		names := v.AsObject().Keys()
		sort.Strings(names)
		out := make([]value.Value, len(names))
		for i, n := range names {
			val, _ := v.AsObject().Get(n)
			out[i] = val
		}
		return value.Array(out), nil
	})
	registerFn("type", 1, func(args []value.Value) (value.Value, error) {
		return value.String(args[0].TypeName()), nil
	})
	registerFn("empty", 0, func(args []value.Value) (value.Value, error) {
		// Zero-output semantics are approximated as null; map/filter
		// already drop null results per map contract.
		return value.Null, nil
	})
	registerFn("has", 2, func(args []value.Value) (value.Value, error) {
		v, k := args[0], args[1]
		switch v.Kind() {
		case value.KindObject:
			_, ok := v.AsObject().Get(k.AsString())
			return value.Bool(ok), nil
		case value.KindArray:
			i := int(k.AsInt())
			return value.Bool(i >= 0 && i < len(v.AsArray())), nil
		default:
			return value.Null, &value.KindError{Op: "has", Kind: v.TypeName()}
		}
	})
	registerFnRange("coalesce", 1, -1, func(args []value.Value) (value.Value, error) {
		for _, a := range args {
			if !a.IsNull() {
				return a, nil
			}
		}
		return value.Null, nil
	})
}
