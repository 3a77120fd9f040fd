package builtins

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"dsq/internal/value"
)

func registerMiscFns() {
	registerFn("humanize", 1, func(args []value.Value) (value.Value, error) {
		v := args[0]
		f, ok := value.ToFloat64(v)
		if !ok {
			return value.Null, &value.KindError{Op: "humanize", Kind: v.TypeName()}
		}
		return value.String(humanize.Comma(int64(f))), nil
	})
	registerFn("generate_uuidv4", 0, func(args []value.Value) (value.Value, error) {
		return value.String(uuid.New().String()), nil
	})
	registerFn("group_concat", 2, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		sep := args[1].AsString()
		parts := make([]string, len(elems))
		for i, e := range elems {
			if e.Kind() == value.KindString {
				parts[i] = e.AsString()
			} else {
				s, err := value.ToJSONString(e, false)
				if err != nil {
					return value.Null, err
				}
				parts[i] = s
			}
		}
		return value.String(strings.Join(parts, sep)), nil
	})

	// transform_values/map_values apply a sub-program to every object
	// value; like map/filter their bodies are uncompiled filter
	// sub-programs, dispatched by internal/ops, not by this registry.
	registerHigherOrder("transform_values", 2, 2)
	registerHigherOrder("map_values", 2, 2)
}
