// Package filterast defines the filter-language AST and its parser.
// The node set uses a visitor-dispatch Expr/ExprVisitor shape for a
// pipeline expression language: no statements, only expressions.
package filterast

import "dsq/internal/value"

// Expr is a node in the filter AST. The AST is finite and acyclic.
type Expr interface {
	Accept(visitor ExprVisitor) interface{}
}

// Identity is `.`.
type Identity struct{}

func (e *Identity) Accept(v ExprVisitor) interface{} { return v.VisitIdentity(e) }

// Literal carries a pre-parsed value.
type Literal struct {
	Value value.Value
}

func (e *Literal) Accept(v ExprVisitor) interface{} { return v.VisitLiteral(e) }

// Variable is `$name`.
type Variable struct {
	Name string
}

func (e *Variable) Accept(v ExprVisitor) interface{} { return v.VisitVariable(e) }

// FieldAccess is a flattened field-access chain. Base is the
// expression the chain starts from.
type FieldAccess struct {
	Base   Expr
	Fields []string
}

func (e *FieldAccess) Accept(v ExprVisitor) interface{} { return v.VisitFieldAccess(e) }

// Index is `base[indexExpr]`.
type Index struct {
	Base  Expr
	Index Expr
}

func (e *Index) Accept(v ExprVisitor) interface{} { return v.VisitIndex(e) }

// Slice is `base[start?:end?]`.
type Slice struct {
	Base  Expr
	Start Expr // nil if omitted
	End   Expr // nil if omitted
}

func (e *Slice) Accept(v ExprVisitor) interface{} { return v.VisitSlice(e) }

// Iterate is `base[]`.
type Iterate struct {
	Base Expr
}

func (e *Iterate) Accept(v ExprVisitor) interface{} { return v.VisitIterate(e) }

// Pipeline is `left | right`.
type Pipeline struct {
	Left  Expr
	Right Expr
}

func (e *Pipeline) Accept(v ExprVisitor) interface{} { return v.VisitPipeline(e) }

// Sequence is `p1, p2, ..., pn`.
type Sequence struct {
	Items []Expr
}

func (e *Sequence) Accept(v ExprVisitor) interface{} { return v.VisitSequence(e) }

// BinaryOp covers arithmetic, comparison, and/or (Op is the literal
// operator text: "+", "-", "*", "/", "==", "!=", "<", "<=", ">", ">=",
// "and", "or").
type BinaryOp struct {
	Left  Expr
	Op    string
	Right Expr
}

func (e *BinaryOp) Accept(v ExprVisitor) interface{} { return v.VisitBinaryOp(e) }

// UnaryOp covers `not` and `del` (Op is "not" or "del").
type UnaryOp struct {
	Op      string
	Operand Expr
}

func (e *UnaryOp) Accept(v ExprVisitor) interface{} { return v.VisitUnaryOp(e) }

// If is `if cond then thenExpr else elseExpr end`.
type If struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (e *If) Accept(v ExprVisitor) interface{} { return v.VisitIf(e) }

// ObjectEntry is one `{...}` entry. The parser itself desugars the
// shorthand `{name}` to `{"name": .name}`: KeyExpr is the string
// literal, ValueExpr is the field access, and Shorthand stays true to
// record the original form. The compiler treats it like any other entry.
type ObjectEntry struct {
	KeyExpr   Expr // static string/ident key, or a parenthesized computed key
	ValueExpr Expr
	Shorthand bool
}

// ObjectCtor is `{ entry, entry, ... }`.
type ObjectCtor struct {
	Entries []ObjectEntry
}

func (e *ObjectCtor) Accept(v ExprVisitor) interface{} { return v.VisitObjectCtor(e) }

// ArrayCtor is `[ p1, p2, ... ]`.
type ArrayCtor struct {
	Elements []Expr
}

func (e *ArrayCtor) Accept(v ExprVisitor) interface{} { return v.VisitArrayCtor(e) }

// FunctionCall is `name(arg1, ..., argn)`, or a bare `name` with no
// parens (Args is nil in that case — Variable note: a bare
// identifier may resolve to a zero-arg builtin or a user function
// invoked with the current input).
type FunctionCall struct {
	Name string
	Args []Expr
}

func (e *FunctionCall) Accept(v ExprVisitor) interface{} { return v.VisitFunctionCall(e) }

// Assignment is `target += value` or `target |= value`.
type Assignment struct {
	Target Expr
	Op     string // "+=" or "|="
	Value  Expr
}

func (e *Assignment) Accept(v ExprVisitor) interface{} { return v.VisitAssignment(e) }

// ExprVisitor dispatches over every AST node kind.
type ExprVisitor interface {
	VisitIdentity(e *Identity) interface{}
	VisitLiteral(e *Literal) interface{}
	VisitVariable(e *Variable) interface{}
	VisitFieldAccess(e *FieldAccess) interface{}
	VisitIndex(e *Index) interface{}
	VisitSlice(e *Slice) interface{}
	VisitIterate(e *Iterate) interface{}
	VisitPipeline(e *Pipeline) interface{}
	VisitSequence(e *Sequence) interface{}
	VisitBinaryOp(e *BinaryOp) interface{}
	VisitUnaryOp(e *UnaryOp) interface{}
	VisitIf(e *If) interface{}
	VisitObjectCtor(e *ObjectCtor) interface{}
	VisitArrayCtor(e *ArrayCtor) interface{}
	VisitFunctionCall(e *FunctionCall) interface{}
	VisitAssignment(e *Assignment) interface{}
}
