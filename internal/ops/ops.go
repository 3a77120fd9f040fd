// Package ops implements the operator tree: compiled
// filter programs as a tree of polymorphic nodes, each evaluated by a
// single Eval call against an input value and a mutable exec.Context.
// Operators are plain Go structs implementing a shared interface and
// walked directly, rather than opcodes interpreted by a stack machine
// (see DESIGN.md).
package ops

import (
	"dsq/internal/exec"
	"dsq/internal/value"
)

// Operator is one compiled node: given an input value and context,
// produce an output value or a runtime error.
type Operator interface {
	Eval(ctx *exec.Context, input value.Value) (value.Value, error)
}

// Identity returns its input unchanged.
type Identity struct{}

func (Identity) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	return input, nil
}

// Literal always returns the same pre-built value.
type Literal struct {
	Value value.Value
}

func (o Literal) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	return o.Value, nil
}

// Chain is linear pipeline composition ("Pipeline is
// implemented as linear composition"): each stage's output feeds the
// next stage's input.
type Chain struct {
	Stages []Operator
}

func (o Chain) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	cur := input
	for _, stage := range o.Stages {
		var err error
		cur, err = stage.Eval(ctx, cur)
		if err != nil {
			return value.Null, err
		}
	}
	return cur, nil
}

// FieldAccess walks a flattened field chain.
type FieldAccess struct {
	Base   Operator
	Fields []string
}

func (o FieldAccess) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	base, err := o.Base.Eval(ctx, input)
	if err != nil {
		return value.Null, err
	}
	cur := base
	for i, f := range o.Fields {
		next, err := value.Field(cur, f)
		if err != nil {
			return value.Null, err
		}
		cur = next
		// Once a frame's first-level field yields a series,
		// further hops treat each row (element) as an object; value.Field
		// already maps arrays element-wise, so a series obtained from a
		// frame column needs conversion to continue the walk.
		if cur.Kind() == value.KindSeries && i < len(o.Fields)-1 {
			s := cur.AsSeries()
			elems := make([]value.Value, s.Len())
			for j := 0; j < s.Len(); j++ {
				elems[j] = s.Get(j)
			}
			cur = value.Array(elems)
		}
	}
	return cur, nil
}

// Index evaluates IndexProgram for the index, then applies value.Index.
type Index struct {
	Base  Operator
	Index Operator
}

func (o Index) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	base, err := o.Base.Eval(ctx, input)
	if err != nil {
		return value.Null, err
	}
	idxVal, err := o.Index.Eval(ctx, input)
	if err != nil {
		return value.Null, err
	}
	if !value.IsNumeric(idxVal) {
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "index: expected numeric index"}
	}
	f, _ := value.ToFloat64(idxVal)
	return value.Index(base, int(f)), nil
}

// Slice applies Python-style half-open slicing with optional endpoints
//.
type Slice struct {
	Base  Operator
	Start Operator // nil if omitted
	End   Operator // nil if omitted
}

func (o Slice) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	base, err := o.Base.Eval(ctx, input)
	if err != nil {
		return value.Null, err
	}
	length := base.Length()
	start, end := 0, length
	if o.Start != nil {
		sv, err := o.Start.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		f, _ := value.ToFloat64(sv)
		start = resolveSliceIndex(int(f), length)
	}
	if o.End != nil {
		ev, err := o.End.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		f, _ := value.ToFloat64(ev)
		end = resolveSliceIndex(int(f), length)
	}
	if start > end {
		start = end
	}
	switch base.Kind() {
	case value.KindArray:
		arr := base.AsArray()
		return value.Array(append([]value.Value(nil), arr[start:end]...)), nil
	case value.KindFrame:
		return value.FrameValue(base.AsFrame().SliceRows(start, end)), nil
	case value.KindString:
		runes := []rune(base.AsString())
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start > end {
			start = end
		}
		return value.String(string(runes[start:end])), nil
	default:
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "slice: unsupported type " + base.TypeName()}
	}
}

func resolveSliceIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	return i
}

// Iterate yields array elements, frame rows, or series elements.
// Evaluated as a Sequence child it contributes a spliced array (see
// Sequence.Eval); evaluated standalone it returns the whole array.
type Iterate struct {
	Base Operator
}

func (o Iterate) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	base, err := o.Base.Eval(ctx, input)
	if err != nil {
		return value.Null, err
	}
	switch base.Kind() {
	case value.KindArray:
		return base, nil
	case value.KindFrame:
		return value.Array(base.AsFrame().Rows()), nil
	case value.KindSeries:
		s := base.AsSeries()
		out := make([]value.Value, s.Len())
		for i := 0; i < s.Len(); i++ {
			out[i] = s.Get(i)
		}
		return value.Array(out), nil
	default:
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "iterate: unsupported type " + base.TypeName()}
	}
}

// Not inverts truthiness.
type Not struct {
	Operand Operator
}

func (o Not) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	v, err := o.Operand.Eval(ctx, input)
	if err != nil {
		return value.Null, err
	}
	return value.Bool(!v.IsTruthy()), nil
}

// If evaluates Cond, then dispatches to Then or Else.
type If struct {
	Cond Operator
	Then Operator
	Else Operator
}

func (o If) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	cond, err := o.Cond.Eval(ctx, input)
	if err != nil {
		return value.Null, err
	}
	if cond.IsTruthy() {
		return o.Then.Eval(ctx, input)
	}
	return o.Else.Eval(ctx, input)
}

// Sequence concatenates each sub-program's result into one array,
// splicing array-valued results.
type Sequence struct {
	Items []Operator
}

func (o Sequence) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	var out []value.Value
	for _, item := range o.Items {
		v, err := item.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		if v.Kind() == value.KindArray {
			out = append(out, v.AsArray()...)
		} else {
			out = append(out, v)
		}
	}
	return value.Array(out), nil
}

// ObjectEntry is one compiled {key: value} pair.
type ObjectEntry struct {
	Key   Operator
	Value Operator
}

// ObjectConstruct builds an object from compiled key/value programs,
// last-write-wins on duplicate keys.
type ObjectConstruct struct {
	Entries []ObjectEntry
}

func (o ObjectConstruct) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	obj := value.NewObject()
	for _, e := range o.Entries {
		k, err := e.Key.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		v, err := e.Value.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		obj.Set(k.AsString(), v)
	}
	return value.Object(obj), nil
}

// ArrayConstruct evaluates each element program and wraps the results.
type ArrayConstruct struct {
	Elements []Operator
}

func (o ArrayConstruct) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	out := make([]value.Value, len(o.Elements))
	for i, e := range o.Elements {
		v, err := e.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		out[i] = v
	}
	return value.Array(out), nil
}

// Variable looks up $name in the context, or — for bare function
// references — invokes a same-named user function with the current
// input.
type Variable struct {
	Name string
}

func (o Variable) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	if v, ok := ctx.LookupVar(o.Name); ok {
		return v, nil
	}
	if _, ok := ctx.LookupUserFunction(o.Name); ok {
		return callUserFunction(ctx, o.Name, input)
	}
	return value.Null, &exec.RuntimeError{Kind: "operation", Message: "undefined variable $" + o.Name}
}

// Del rebuilds the container without the field/index selected by a
// single-step target.
type Del struct {
	// FieldName is set for `del(.field)`; IndexOp is set for
	// `del(.[expr])`. Exactly one is non-empty/non-nil.
	FieldName string
	IndexOp   Operator
}

func (o Del) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	switch input.Kind() {
	case value.KindObject:
		out := value.NewObject()
		for _, k := range input.AsObject().Keys() {
			if k == o.FieldName {
				continue
			}
			v, _ := input.AsObject().Get(k)
			out.Set(k, v)
		}
		return value.Object(out), nil
	case value.KindArray:
		if o.IndexOp == nil {
			return value.Null, &exec.RuntimeError{Kind: "operation", Message: "del: array target requires an index"}
		}
		idxVal, err := o.IndexOp.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		f, _ := value.ToFloat64(idxVal)
		arr := input.AsArray()
		idx := int(f)
		if idx < 0 {
			idx += len(arr)
		}
		if idx < 0 || idx >= len(arr) {
			return input, nil
		}
		out := make([]value.Value, 0, len(arr)-1)
		out = append(out, arr[:idx]...)
		out = append(out, arr[idx+1:]...)
		return value.Array(out), nil
	default:
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "del: unsupported target type " + input.TypeName()}
	}
}
