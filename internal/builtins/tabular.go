package builtins

import (
	"fmt"

	"dsq/internal/value"
)

func registerTabularFns() {
	registerFn("columns", 1, func(args []value.Value) (value.Value, error) {
		v := args[0]
		if v.Kind() != value.KindFrame {
			return value.Null, &value.KindError{Op: "columns", Kind: v.TypeName()}
		}
		names := v.AsFrame().ColumnNames()
		out := make([]value.Value, len(names))
		for i, n := range names {
			out[i] = value.String(n)
		}
		return value.Array(out), nil
	})
	registerFn("shape", 1, func(args []value.Value) (value.Value, error) {
		v := args[0]
		if v.Kind() != value.KindFrame {
			return value.Null, &value.KindError{Op: "shape", Kind: v.TypeName()}
		}
		f := v.AsFrame()
		return value.Array([]value.Value{value.Int(int64(f.NumRows())), value.Int(int64(f.NumCols()))}), nil
	})
	registerFn("dtypes", 1, func(args []value.Value) (value.Value, error) {
		v := args[0]
		if v.Kind() != value.KindFrame {
			return value.Null, &value.KindError{Op: "dtypes", Kind: v.TypeName()}
		}
		f := v.AsFrame()
		obj := value.NewObject()
		for _, n := range f.ColumnNames() {
			obj.Set(n, value.String(f.Column(n).DType.String()))
		}
		return value.Object(obj), nil
	})
	registerFn("transpose", 1, func(args []value.Value) (value.Value, error) {
		v := args[0]
		if v.Kind() != value.KindFrame {
			return value.Null, &value.KindError{Op: "transpose", Kind: v.TypeName()}
		}
		f := v.AsFrame()
		names := f.ColumnNames()
		rowObjs := make([]value.Value, f.NumRows())
		for i := 0; i < f.NumRows(); i++ {
			obj := value.NewObject()
			for j, n := range names {
				obj.Set(fmt.Sprintf("col%d", j), f.Column(n).Get(i))
			}
			rowObjs[i] = value.Object(obj)
		}
		return value.Array(rowObjs), nil
	})
	registerFn("zip", 2, func(args []value.Value) (value.Value, error) {
		a, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		b, err := elementsOf(args[1])
		if err != nil {
			return value.Null, err
		}
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		out := make([]value.Value, n)
		for i := 0; i < n; i++ {
			out[i] = value.Array([]value.Value{a[i], b[i]})
		}
		return value.Array(out), nil
	})
	// Named table_join rather than join: lists a string "join"
	// (array + separator) and a tabular "join(path, key-expr)" under the
	// same name; the registry has no per-arity overload slots, so the
	// tabular form is disambiguated here (see DESIGN.md Open Questions).
	// It takes two values already in hand and a plain field-name key
	// string; it loads no file and accepts no `.k1 == .k2` predicate.
	registerFn("table_join", 3, func(args []value.Value) (value.Value, error) {
		left, right, key := args[0], args[1], args[2].AsString()
		leftRows, err := elementsOf(left)
		if err != nil {
			return value.Null, err
		}
		rightRows, err := elementsOf(right)
		if err != nil {
			return value.Null, err
		}
		index := make(map[string]value.Value, len(rightRows))
		for _, r := range rightRows {
			k, err := value.Field(r, key)
			if err != nil {
				return value.Null, err
			}
			index[k.AsString()] = r
		}
		var out []value.Value
		for _, l := range leftRows {
			k, err := value.Field(l, key)
			if err != nil {
				return value.Null, err
			}
			rr, ok := index[k.AsString()]
			if !ok {
				continue
			}
			merged, err := value.Add(l, rr)
			if err != nil {
				return value.Null, err
			}
			out = append(out, merged)
		}
		return value.Array(out), nil
	})
	registerFn("fromjson", 1, func(args []value.Value) (value.Value, error) {
		return value.FromJSONBytes([]byte(args[0].AsString()))
	})
	registerFn("tojson", 1, func(args []value.Value) (value.Value, error) {
		s, err := value.ToJSONString(args[0], false)
		if err != nil {
			return value.Null, err
		}
		return value.String(s), nil
	})
}
