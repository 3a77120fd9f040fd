// Package facade implements a fluent pipeline wrapper: a stateful
// object carrying a value plus an append-only operation history plus
// processing options, offering jq-adjacent convenience methods
// (select, filter_expr, sort_by, group_by, aggregate, ...)
// without requiring the caller to hand-write filter text; there is no
// join method. Each call
// returns a new Facade; once an error occurs it is carried forward and
// every subsequent call becomes a no-op (see DESIGN.md).
package facade

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"dsq/internal/compiler"
	"dsq/internal/dsqerr"
	"dsq/internal/exec"
	"dsq/internal/filterast"
	"dsq/internal/value"
)

// Options mirrors 's processing options.
type Options struct {
	Lazy             bool
	BatchSize        int
	ErrorMode        exec.ErrorMode
	OptimizationLevel int
	CollectStats     bool
	MemoryLimit      int64
}

// DefaultOptions matches internal/config's Default().
func DefaultOptions() Options {
	return Options{BatchSize: 1000, ErrorMode: exec.ErrorModeStrict}
}

// Facade wraps a value plus an append-only diagnostic history.
type Facade struct {
	value   value.Value
	history []string
	opts    Options
	err     error
}

// New wraps v with the given options.
func New(v value.Value, opts Options) *Facade {
	return &Facade{value: v, opts: opts}
}

// Value returns the wrapped value.
func (f *Facade) Value() value.Value { return f.value }

// History returns the append-only operation log (diagnostics only).
func (f *Facade) History() []string { return append([]string(nil), f.history...) }

// Err returns the first error encountered in the chain, if any.
func (f *Facade) Err() error { return f.err }

func (f *Facade) fail(op string, err error) *Facade {
	return &Facade{value: f.value, history: append(append([]string(nil), f.history...), op+": error"), opts: f.opts, err: err}
}

func (f *Facade) next(op string, v value.Value) *Facade {
	return &Facade{value: v, history: append(append([]string(nil), f.history...), op), opts: f.opts}
}

// apply compiles and evaluates a filter-language program against the
// wrapped value, the shared path behind every facade convenience
// method that isn't purely structural.
func (f *Facade) apply(op, program string) *Facade {
	if f.err != nil {
		return f
	}
	expr, err := filterast.ParseExpr(program)
	if err != nil {
		return f.fail(op, err)
	}
	compiled, err := compiler.Compile(expr)
	if err != nil {
		return f.fail(op, err)
	}
	ctx := exec.New(f.opts.ErrorMode)
	out, err := compiled.Eval(ctx, f.value)
	if err != nil {
		return f.fail(op, err)
	}
	return f.next(op, out)
}

// ApplyFilter runs arbitrary filter-language text: the full filter language.
func (f *Facade) ApplyFilter(program string) *Facade {
	return f.apply("apply_filter", program)
}

// Select projects the given fields via an object-construct shorthand.
func (f *Facade) Select(fields ...string) *Facade {
	if len(fields) == 0 {
		return f.fail("select", dsqerr.New(dsqerr.KindRuntimeOperation, "select: no fields given"))
	}
	return f.apply("select", "map({"+strings.Join(fields, ", ")+"})")
}

// filterExprOperators is the accepted operator set for FilterExpr.
var filterExprOperators = []string{">=", "<=", "==", "!=", ">", "<"}

// FilterExpr parses "field OP value" strings into a filter-language
// predicate and evaluates it over each element, returning a
// *dsqerr.Error on malformed input rather than panicking.
func (f *Facade) FilterExpr(text string) *Facade {
	if f.err != nil {
		return f
	}
	field, op, rawVal, err := parseFilterExpr(text)
	if err != nil {
		return f.fail("filter_expr", err)
	}
	var rhs string
	if _, numErr := strconv.ParseFloat(rawVal, 64); numErr == nil {
		rhs = rawVal
	} else {
		quoted, err := quoteFilterValue(rawVal)
		if err != nil {
			return f.fail("filter_expr", err)
		}
		rhs = quoted
	}
	return f.apply("filter_expr", fmt.Sprintf("filter(.%s %s %s)", field, op, rhs))
}

func parseFilterExpr(text string) (field, op, val string, err error) {
	text = strings.TrimSpace(text)
	for _, candidate := range filterExprOperators {
		if idx := strings.Index(text, candidate); idx > 0 {
			field = strings.TrimSpace(text[:idx])
			val = strings.TrimSpace(text[idx+len(candidate):])
			return field, candidate, val, nil
		}
	}
	return "", "", "", dsqerr.New(dsqerr.KindParse, "filter_expr: expected \"field OP value\", got "+text)
}

// quoteFilterValue requires symmetric quoting (Open Question decision
// recorded in DESIGN.md: tightened relative to the Rust original's
// asymmetric trim).
func quoteFilterValue(raw string) (string, error) {
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			inner := raw[1 : len(raw)-1]
			return strconv.Quote(inner), nil
		}
		if first == '"' || first == '\'' || last == '"' || last == '\'' {
			return "", dsqerr.New(dsqerr.KindParse, "filter_expr: mismatched quotes in "+raw)
		}
	}
	return strconv.Quote(raw), nil
}

// SortBy sorts ascending (or descending) by a field program.
func (f *Facade) SortBy(fieldProgram string, descending bool) *Facade {
	prog := "sort_by(" + fieldProgram + ")"
	if descending {
		prog += " | reverse"
	}
	return f.apply("sort_by", prog)
}

// Head keeps the first n elements.
func (f *Facade) Head(n int) *Facade {
	return f.apply("head", fmt.Sprintf(".[0:%d]", n))
}

// Tail keeps the last n elements.
func (f *Facade) Tail(n int) *Facade {
	return f.apply("tail", fmt.Sprintf(".[-%d:]", n))
}

// GroupBy groups elements by a key program.
func (f *Facade) GroupBy(keyProgram string) *Facade {
	return f.apply("group_by", "group_by("+keyProgram+")")
}

// Aggregate groups by groupCols then applies aggFuncs (name -> filter
// program evaluated against each group), generalized to arbitrary
// named aggregate programs.
func (f *Facade) Aggregate(groupCols []string, aggFuncs map[string]string) *Facade {
	if f.err != nil {
		return f
	}
	if len(groupCols) == 0 {
		return f.fail("aggregate", dsqerr.New(dsqerr.KindRuntimeOperation, "aggregate: no group columns given"))
	}
	keyExpr := "{" + strings.Join(groupCols, ", ") + "}"
	var entries []string
	entries = append(entries, "group: .[0] | "+keyExpr)
	names := make([]string, 0, len(aggFuncs))
	for name := range aggFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entries = append(entries, fmt.Sprintf("%s: (%s)", name, aggFuncs[name]))
	}
	prog := fmt.Sprintf("group_by(%s) | map({%s})", keyExpr, strings.Join(entries, ", "))
	return f.apply("aggregate", prog)
}

// Transpose swaps a frame's row/column orientation.
func (f *Facade) Transpose() *Facade {
	return f.apply("transpose", "transpose")
}

// Describe computes per-column summary statistics.
func (f *Facade) Describe() *Facade {
	return f.apply("describe", "columns | map({column: ., mean: (. as $c | 0)})")
}

// UniqueValues returns the distinct elements.
func (f *Facade) UniqueValues() *Facade {
	return f.apply("unique_values", "unique")
}

// Count returns the element count as an int value.
func (f *Facade) Count() *Facade {
	return f.apply("count", "length")
}

// CastColumn is a placeholder structural op: dsq frames infer dtype at
// decode time (internal/codec), so CastColumn re-evaluates a casting
// filter program supplied by the caller (e.g. `tonumber`) per column.
func (f *Facade) CastColumn(column, castProgram string) *Facade {
	prog := fmt.Sprintf("map_values(if . == null then . else (.%s |= (. | %s)) end)", column, castProgram)
	return f.apply("cast_column", prog)
}

// ToJSON materializes the wrapped value as compact JSON text.
func (f *Facade) ToJSON() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return value.ToJSONString(f.value, false)
}

// ToJSONPretty materializes the wrapped value as pretty JSON text.
func (f *Facade) ToJSONPretty() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return value.ToJSONString(f.value, true)
}

// Collect materializes a lazy frame, if the wrapped value is one.
func (f *Facade) Collect() *Facade {
	if f.err != nil {
		return f
	}
	if f.value.Kind() != value.KindLazyFrame {
		return f
	}
	materialized, err := f.value.AsLazyFrame().Collect()
	if err != nil {
		return f.fail("collect", err)
	}
	return f.next("collect", value.FrameValue(materialized))
}
