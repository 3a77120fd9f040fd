package ops

import (
	"dsq/internal/exec"
	"dsq/internal/value"
)

// Assignment implements Assignment: `+=` folds value into
// the current target via `+`; `|=` replaces the target with
// value_program evaluated against the *current target value*. Fields
// is the flattened single field chain the target must resolve to
// ("Path must resolve to a single field chain; deeper
// paths require structural copy-on-write").
type Assignment struct {
	Fields []string
	Op     string // "+=" or "|="
	Value  Operator
}

func (o Assignment) Eval(ctx *exec.Context, input value.Value) (value.Value, error) {
	current, err := walkFields(input, o.Fields)
	if err != nil {
		return value.Null, err
	}

	var newTarget value.Value
	switch o.Op {
	case "+=":
		operand, err := o.Value.Eval(ctx, input)
		if err != nil {
			return value.Null, err
		}
		newTarget, err = value.Add(current, operand)
		if err != nil {
			return value.Null, err
		}
	case "|=":
		newTarget, err = o.Value.Eval(ctx, current)
		if err != nil {
			return value.Null, err
		}
	default:
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "unknown assignment operator " + o.Op}
	}

	return setPath(input, o.Fields, newTarget)
}

func walkFields(v value.Value, fields []string) (value.Value, error) {
	cur := v
	for _, f := range fields {
		next, err := value.Field(cur, f)
		if err != nil {
			return value.Null, err
		}
		cur = next
	}
	return cur, nil
}

// setPath rebuilds root with fields[len-1] set to newVal, copying every
// object traversed along the path (copy-on-write).
func setPath(root value.Value, fields []string, newVal value.Value) (value.Value, error) {
	if len(fields) == 0 {
		return newVal, nil
	}
	if root.Kind() != value.KindObject {
		return value.Null, &exec.RuntimeError{Kind: "operation", Message: "assignment target is not an object"}
	}
	src := root.AsObject()
	out := value.NewObject()
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		out.Set(k, v)
	}
	head := fields[0]
	if len(fields) == 1 {
		out.Set(head, newVal)
		return value.Object(out), nil
	}
	child, _ := src.Get(head)
	newChild, err := setPath(child, fields[1:], newVal)
	if err != nil {
		return value.Null, err
	}
	out.Set(head, newChild)
	return value.Object(out), nil
}
