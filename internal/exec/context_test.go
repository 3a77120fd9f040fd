package exec

import (
	"testing"

	"dsq/internal/value"
)

func TestVariableScoping(t *testing.T) {
	ctx := New(ErrorModeStrict)
	ctx.SetVar("x", value.Int(1))
	ctx.PushScope()
	ctx.SetVar("x", value.Int(2))
	if v, ok := ctx.LookupVar("x"); !ok || v.AsInt() != 2 {
		t.Fatalf("expected shadowed x=2, got %v", v)
	}
	ctx.PopScope()
	if v, ok := ctx.LookupVar("x"); !ok || v.AsInt() != 1 {
		t.Fatalf("expected outer x=1 after PopScope, got %v", v)
	}
}

func TestRecursionLimit(t *testing.T) {
	ctx := New(ErrorModeStrict)
	ctx.maxDepth = 2
	if err := ctx.PushFrame("a", value.Null); err != nil {
		t.Fatalf("first push: %v", err)
	}
	if err := ctx.PushFrame("b", value.Null); err != nil {
		t.Fatalf("second push: %v", err)
	}
	if err := ctx.PushFrame("c", value.Null); err == nil {
		t.Fatal("expected recursion limit error on third push")
	}
}

func TestPopFrameUnderflowIsNoOp(t *testing.T) {
	ctx := New(ErrorModeStrict)
	ctx.PopFrame()
	if ctx.StackDepth() != 0 {
		t.Fatalf("expected depth 0, got %d", ctx.StackDepth())
	}
}

func TestRecordErrorsAccumulate(t *testing.T) {
	ctx := New(ErrorModeCollect)
	ctx.RecordError(&RuntimeError{Kind: "operation", Message: "one"})
	ctx.RecordError(&RuntimeError{Kind: "operation", Message: "two"})
	if len(ctx.Errors()) != 2 {
		t.Fatalf("expected 2 recorded errors, got %d", len(ctx.Errors()))
	}
}

func TestUserFunctionRegistration(t *testing.T) {
	ctx := New(ErrorModeStrict)
	fn := &UserFunction{Params: []string{"x"}}
	ctx.RegisterUserFunction("double", fn)
	got, ok := ctx.LookupUserFunction("double")
	if !ok || got != fn {
		t.Fatalf("expected registered function to be found")
	}
	if _, ok := ctx.LookupUserFunction("missing"); ok {
		t.Fatal("expected missing function to be absent")
	}
}
