// Package builtins implements the dsq builtin function registry: a
// process-wide, immutable name -> function table populated at init()
// time and read through Lookup. Neither the compiler nor the execution
// context holds it; internal/ops looks a name up when the call is
// evaluated.
package builtins

import "dsq/internal/value"

// Fn is a pure builtin implementation: given already-evaluated
// arguments, produce a value or an error. Builtins never touch
// execution context directly.
type Fn func(args []value.Value) (value.Value, error)

// Builtin is one registry entry.
type Builtin struct {
	Name string
	// MinArity/MaxArity bound the accepted argument count; MaxArity
	// of -1 means unbounded.
	MinArity int
	MaxArity int
	// HigherOrder marks names whose arguments are uncompiled filter
	// sub-programs evaluated per-element by the executor rather than
	// plain values (map, filter, select, sort_by, group_by, min_by,
	// max_by, transform_values, map_values) — FunctionCall.
	// Fn is nil for these; internal/ops dispatches them directly.
	HigherOrder bool
	Fn          Fn
}

var registry = map[string]*Builtin{}

func register(b *Builtin) {
	if _, dup := registry[b.Name]; dup {
		panic("duplicate builtin registration: " + b.Name)
	}
	registry[b.Name] = b
}

// registerFn is shorthand for a fixed-arity pure builtin.
func registerFn(name string, arity int, fn Fn) {
	register(&Builtin{Name: name, MinArity: arity, MaxArity: arity, Fn: fn})
}

// registerFnRange is shorthand for a variable-arity pure builtin.
func registerFnRange(name string, min, max int, fn Fn) {
	register(&Builtin{Name: name, MinArity: min, MaxArity: max, Fn: fn})
}

// registerHigherOrder records a name whose body is evaluated by the
// executor rather than this registry.
func registerHigherOrder(name string, minArity, maxArity int) {
	register(&Builtin{Name: name, MinArity: minArity, MaxArity: maxArity, HigherOrder: true})
}

// Lookup returns the registered builtin by exact name ("no
// namespacing").
func Lookup(name string) (*Builtin, bool) {
	b, ok := registry[name]
	return b, ok
}

// CheckArity reports whether n arguments satisfy b's arity contract
// ("MUST reject wrong-arity inputs").
func (b *Builtin) CheckArity(n int) bool {
	if n < b.MinArity {
		return false
	}
	if b.MaxArity == -1 {
		return true
	}
	return n <= b.MaxArity
}

func init() {
	registerMeta()
	registerNumeric()
	registerAggregation()
	registerSequence()
	registerStringFns()
	registerHashFns()
	registerURLFns()
	registerDateTimeFns()
	registerTabularFns()
	registerMiscFns()
}
