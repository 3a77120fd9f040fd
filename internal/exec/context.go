// Package exec holds the execution context threaded through every
// operator's Eval call: variable bindings, the user-function table,
// the call stack, the current deadline, and the active error mode.
// It holds no builtin registry handle; operators look builtins up in
// the package-level table of internal/builtins.
package exec

import (
	"context"
	"fmt"
	"time"

	"dsq/internal/value"
)

// ErrorMode selects how operators that can contain errors behave
//.
type ErrorMode int

const (
	// ErrorModeStrict aborts execution on the first error.
	ErrorModeStrict ErrorMode = iota
	// ErrorModeCollect accumulates errors in the context and continues.
	ErrorModeCollect
	// ErrorModeIgnore turns an errored element into null (or drops it
	// in map/filter) and continues.
	ErrorModeIgnore
)

// UserFunction is a registered name -> (params, body) binding. dsq's
// grammar has no `def`, so this table is populated only through the
// host embedding API, not parsed filter text (see DESIGN.md Open
// Question decisions).
type UserFunction struct {
	Params []string
	Body   interface{} // *ops.Operator, untyped here to avoid an exec<->ops import cycle
}

// StackFrame records one call-stack entry for diagnostics and the
// recursion-depth bound.
type StackFrame struct {
	FunctionName string
	Input        value.Value
}

const defaultMaxDepth = 1000

// Context is the mutable state threaded through operator evaluation.
// Variable scopes are a slice of maps so a call frame's bindings shadow
// the caller's without mutating it ("shadowed per call frame").
type Context struct {
	scopes    []map[string]value.Value
	userFns   map[string]*UserFunction
	stack     []StackFrame
	maxDepth  int
	errorMode ErrorMode
	errs      []error
	deadline  time.Time
	hasDL     bool
	ctx       context.Context
}

// New creates a root execution context.
func New(mode ErrorMode) *Context {
	return &Context{
		scopes:    []map[string]value.Value{{}},
		userFns:   map[string]*UserFunction{},
		maxDepth:  defaultMaxDepth,
		errorMode: mode,
		ctx:       context.Background(),
	}
}

// WithDeadline attaches a cooperative cancellation deadline.
func (c *Context) WithDeadline(ctx context.Context, deadline time.Time) {
	c.ctx = ctx
	c.deadline = deadline
	c.hasDL = true
}

// CheckDeadline is called by iterating operators before each iteration.
func (c *Context) CheckDeadline() error {
	if c.ctx != nil {
		select {
		case <-c.ctx.Done():
			return &RuntimeError{Kind: "Timeout", Message: "execution cancelled"}
		default:
		}
	}
	if c.hasDL && time.Now().After(c.deadline) {
		return &RuntimeError{Kind: "Timeout", Message: "deadline exceeded"}
	}
	return nil
}

// ErrorMode reports the active error mode.
func (c *Context) ErrorMode() ErrorMode { return c.errorMode }

// RecordError appends to the collected-error list (ErrorModeCollect).
func (c *Context) RecordError(err error) { c.errs = append(c.errs, err) }

// Errors returns every error collected so far under ErrorModeCollect.
func (c *Context) Errors() []error { return c.errs }

// PushScope opens a new variable scope (call-frame entry).
func (c *Context) PushScope() { c.scopes = append(c.scopes, map[string]value.Value{}) }

// PopScope closes the innermost variable scope.
func (c *Context) PopScope() {
	if len(c.scopes) > 1 {
		c.scopes = c.scopes[:len(c.scopes)-1]
	}
}

// SetVar binds name in the innermost scope.
func (c *Context) SetVar(name string, v value.Value) {
	c.scopes[len(c.scopes)-1][name] = v
}

// LookupVar searches scopes innermost-first.
func (c *Context) LookupVar(name string) (value.Value, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if v, ok := c.scopes[i][name]; ok {
			return v, true
		}
	}
	return value.Null, false
}

// LookupUserFunction finds a host-registered user function by name.
func (c *Context) LookupUserFunction(name string) (*UserFunction, bool) {
	fn, ok := c.userFns[name]
	return fn, ok
}

// RegisterUserFunction installs a host-provided function binding.
func (c *Context) RegisterUserFunction(name string, fn *UserFunction) {
	c.userFns[name] = fn
}

// PushFrame pushes a call-stack frame, enforcing the recursion bound
// (function calls push a frame; identity/arithmetic/field
// access do not).
func (c *Context) PushFrame(functionName string, input value.Value) error {
	if len(c.stack) >= c.maxDepth {
		return &RuntimeError{Kind: "RecursionLimit", Message: fmt.Sprintf("call stack exceeded depth %d", c.maxDepth)}
	}
	c.stack = append(c.stack, StackFrame{FunctionName: functionName, Input: input})
	return nil
}

// PopFrame pops the innermost call-stack frame.
func (c *Context) PopFrame() {
	if len(c.stack) > 0 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// StackDepth reports the current call-stack depth.
func (c *Context) StackDepth() int { return len(c.stack) }

// RuntimeError is the error type operators and the executor return on
// failure.
type RuntimeError struct {
	Kind    string
	Message string
}

func (e *RuntimeError) Error() string { return e.Kind + ": " + e.Message }
