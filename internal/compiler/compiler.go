// Package compiler lowers the filter AST (internal/filterast) to the
// operator tree (internal/ops). The visitor-dispatch shape
// (VisitXExpr methods driven by Expr.Accept) targets tree construction
// directly rather than bytecode emission, since operators are walked
// as a tree rather than interpreted by a stack machine (see
// DESIGN.md).
package compiler

import (
	"fmt"

	"dsq/internal/filterast"
	"dsq/internal/ops"
	"dsq/internal/value"
)

// CompileError reports a compile-time failure.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string { return "compile error: " + e.Message }

const maxCompileDepth = 500

// Compiler lowers one parsed filter to an operator tree.
type Compiler struct {
	depth int
}

func New() *Compiler {
	return &Compiler{}
}

// Compile lowers expr to an operator tree, or returns a *CompileError
// (a recursion-depth counter bounds the traversal).
func Compile(expr filterast.Expr) (op ops.Operator, err error) {
	c := New()
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*CompileError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()
	return c.compile(expr), nil
}

func (c *Compiler) compile(expr filterast.Expr) ops.Operator {
	c.depth++
	if c.depth > maxCompileDepth {
		panic(&CompileError{Message: "recursion depth exceeded during compilation"})
	}
	defer func() { c.depth-- }()

	result := expr.Accept(c)
	op, ok := result.(ops.Operator)
	if !ok {
		panic(&CompileError{Message: "malformed AST node produced no operator"})
	}
	return op
}

func (c *Compiler) VisitIdentity(e *filterast.Identity) interface{} {
	return ops.Identity{}
}

func (c *Compiler) VisitLiteral(e *filterast.Literal) interface{} {
	return ops.Literal{Value: e.Value}
}

func (c *Compiler) VisitVariable(e *filterast.Variable) interface{} {
	return ops.Variable{Name: e.Name}
}

// VisitFieldAccess flattens Base into the field chain when Base is
// itself a field-access or identity, so `.a.b.c` compiles to one
// FieldAccess operator.
func (c *Compiler) VisitFieldAccess(e *filterast.FieldAccess) interface{} {
	if fa, ok := e.Base.(*filterast.FieldAccess); ok {
		merged := &filterast.FieldAccess{Base: fa.Base, Fields: append(append([]string{}, fa.Fields...), e.Fields...)}
		return c.VisitFieldAccess(merged)
	}
	return ops.FieldAccess{Base: c.compile(e.Base), Fields: e.Fields}
}

// VisitIndex: a string-literal index compiles to field-access
// (`.["field with spaces"]`).
func (c *Compiler) VisitIndex(e *filterast.Index) interface{} {
	if lit, ok := e.Index.(*filterast.Literal); ok && lit.Value.Kind() == value.KindString {
		return ops.FieldAccess{Base: c.compile(e.Base), Fields: []string{lit.Value.AsString()}}
	}
	return ops.Index{Base: c.compile(e.Base), Index: c.compile(e.Index)}
}

func (c *Compiler) VisitSlice(e *filterast.Slice) interface{} {
	s := ops.Slice{Base: c.compile(e.Base)}
	if e.Start != nil {
		s.Start = c.compile(e.Start)
	}
	if e.End != nil {
		s.End = c.compile(e.End)
	}
	return s
}

func (c *Compiler) VisitIterate(e *filterast.Iterate) interface{} {
	return ops.Iterate{Base: c.compile(e.Base)}
}

// VisitPipeline implements "Pipeline is implemented as linear
// composition" and rule 5: adjacent `map(a) | map(b)` stages fuse into
// one `map(a | b)`.
func (c *Compiler) VisitPipeline(e *filterast.Pipeline) interface{} {
	if fused, ok := fuseMapPipeline(e); ok {
		return c.compile(fused)
	}
	left := c.compile(e.Left)
	right := c.compile(e.Right)

	var stages []ops.Operator
	if leftChain, ok := left.(ops.Chain); ok {
		stages = append(stages, leftChain.Stages...)
	} else {
		stages = append(stages, left)
	}
	if rightChain, ok := right.(ops.Chain); ok {
		stages = append(stages, rightChain.Stages...)
	} else {
		stages = append(stages, right)
	}
	return ops.Chain{Stages: stages}
}

// fuseMapPipeline detects `map(a) | map(b) | ... | map(z)` and rewrites
// it to a single `map(a | b | ... | z)` call.
func fuseMapPipeline(e *filterast.Pipeline) (filterast.Expr, bool) {
	// The parser nests pipelines to the left, so fuse the inner chain first.
	left := e.Left
	if inner, ok := left.(*filterast.Pipeline); ok {
		if fused, ok := fuseMapPipeline(inner); ok {
			left = fused
		}
	}
	leftCall, ok := left.(*filterast.FunctionCall)
	if !ok || leftCall.Name != "map" || len(leftCall.Args) != 1 {
		return nil, false
	}
	rightCall, ok := e.Right.(*filterast.FunctionCall)
	if !ok || rightCall.Name != "map" || len(rightCall.Args) != 1 {
		return nil, false
	}
	fused := &filterast.FunctionCall{
		Name: "map",
		Args: []filterast.Expr{&filterast.Pipeline{Left: leftCall.Args[0], Right: rightCall.Args[0]}},
	}
	return fused, true
}

func (c *Compiler) VisitSequence(e *filterast.Sequence) interface{} {
	items := make([]ops.Operator, len(e.Items))
	for i, it := range e.Items {
		items[i] = c.compile(it)
	}
	return ops.Sequence{Items: items}
}

func (c *Compiler) VisitBinaryOp(e *filterast.BinaryOp) interface{} {
	return ops.BinaryOp{Left: c.compile(e.Left), Op: e.Op, Right: c.compile(e.Right)}
}

func (c *Compiler) VisitUnaryOp(e *filterast.UnaryOp) interface{} {
	switch e.Op {
	case "not":
		return ops.Not{Operand: c.compile(e.Operand)}
	case "del":
		return c.compileDel(e.Operand)
	default:
		panic(&CompileError{Message: "unknown unary operator " + e.Op})
	}
}

// compileDel implements Del: only single-step targets are
// supported (a field-access with one field, or an index expression).
func (c *Compiler) compileDel(target filterast.Expr) ops.Operator {
	switch t := target.(type) {
	case *filterast.FieldAccess:
		if len(t.Fields) != 1 {
			panic(&CompileError{Message: "del: only single-step field targets are supported"})
		}
		return ops.Del{FieldName: t.Fields[0]}
	case *filterast.Index:
		return ops.Del{IndexOp: c.compile(t.Index)}
	default:
		panic(&CompileError{Message: "del: target must be a field or index access"})
	}
}

func (c *Compiler) VisitIf(e *filterast.If) interface{} {
	return ops.If{Cond: c.compile(e.Cond), Then: c.compile(e.Then), Else: c.compile(e.Else)}
}

func (c *Compiler) VisitObjectCtor(e *filterast.ObjectCtor) interface{} {
	entries := make([]ops.ObjectEntry, len(e.Entries))
	for i, entry := range e.Entries {
		entries[i] = ops.ObjectEntry{Key: c.compile(entry.KeyExpr), Value: c.compile(entry.ValueExpr)}
	}
	return ops.ObjectConstruct{Entries: entries}
}

func (c *Compiler) VisitArrayCtor(e *filterast.ArrayCtor) interface{} {
	elems := make([]ops.Operator, len(e.Elements))
	for i, el := range e.Elements {
		elems[i] = c.compile(el)
	}
	return ops.ArrayConstruct{Elements: elems}
}

func (c *Compiler) VisitFunctionCall(e *filterast.FunctionCall) interface{} {
	args := make([]ops.Operator, len(e.Args))
	for i, a := range e.Args {
		args[i] = c.compile(a)
	}
	return ops.FunctionCall{Name: e.Name, Args: args}
}

// VisitAssignment implements Assignment: the target must
// flatten to a single field chain.
func (c *Compiler) VisitAssignment(e *filterast.Assignment) interface{} {
	fa, ok := e.Target.(*filterast.FieldAccess)
	if !ok {
		panic(&CompileError{Message: "assignment target must be a field-access chain"})
	}
	if _, isIdentityBase := fa.Base.(*filterast.Identity); !isIdentityBase {
		panic(&CompileError{Message: fmt.Sprintf("assignment target must start from identity, got %T", fa.Base)})
	}
	return ops.Assignment{Fields: fa.Fields, Op: e.Op, Value: c.compile(e.Value)}
}
