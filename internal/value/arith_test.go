package value

import (
	"math/big"
	"testing"
)

func TestAddNumericCoercion(t *testing.T) {
	v, err := Add(Int(1), Float(2.5))
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindFloat || v.AsFloat() != 3.5 {
		t.Errorf("expected float 3.5, got %v", v)
	}
}

func TestAddOverflowPromotesToBigInt(t *testing.T) {
	max := Int(9223372036854775807)
	v, err := Add(max, Int(1))
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindBigInt {
		t.Errorf("expected overflow to promote to bigint, got %v (%v)", v.Kind(), v)
	}
}

func TestAddStringsConcatenate(t *testing.T) {
	v, err := Add(String("foo"), String("bar"))
	if err != nil {
		t.Fatal(err)
	}
	if v.AsString() != "foobar" {
		t.Errorf("expected foobar, got %q", v.AsString())
	}
}

func TestAddArraysAppend(t *testing.T) {
	v, err := Add(Array([]Value{Int(1)}), Array([]Value{Int(2), Int(3)}))
	if err != nil {
		t.Fatal(err)
	}
	got := v.AsArray()
	if len(got) != 3 || got[0].AsInt() != 1 || got[2].AsInt() != 3 {
		t.Errorf("unexpected concatenation: %v", got)
	}
}

func TestAddObjectsRightBiasedMerge(t *testing.T) {
	o1 := NewObject()
	o1.Set("a", Int(1))
	o1.Set("b", Int(2))
	o2 := NewObject()
	o2.Set("b", Int(20))
	o2.Set("c", Int(3))
	v, err := Add(Object(o1), Object(o2))
	if err != nil {
		t.Fatal(err)
	}
	out := v.AsObject()
	b, _ := out.Get("b")
	if b.AsInt() != 20 {
		t.Errorf("expected right-biased merge to keep b=20, got %v", b)
	}
	if out.Len() != 3 {
		t.Errorf("expected 3 keys, got %d", out.Len())
	}
}

func TestSubArrayDifference(t *testing.T) {
	v, err := Sub(Array([]Value{Int(1), Int(2), Int(3)}), Array([]Value{Int(2)}))
	if err != nil {
		t.Fatal(err)
	}
	got := v.AsArray()
	if len(got) != 2 || got[0].AsInt() != 1 || got[1].AsInt() != 3 {
		t.Errorf("unexpected array difference: %v", got)
	}
}

func TestDivExactIntegersStayIntegral(t *testing.T) {
	v, err := Div(Int(10), Int(2))
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindInt || v.AsInt() != 5 {
		t.Errorf("expected exact int 5, got %v", v)
	}
}

func TestDivInexactProducesFloat(t *testing.T) {
	v, err := Div(Int(10), Int(3))
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindFloat {
		t.Errorf("expected float for inexact division, got %v", v.Kind())
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(Int(1), Int(0)); err == nil {
		t.Error("expected division by zero to error")
	}
}

func TestModTruncatedTowardZero(t *testing.T) {
	v, err := Mod(Int(-7), Int(3))
	if err != nil {
		t.Fatal(err)
	}
	if v.AsInt() != -1 {
		t.Errorf("expected -7 %% 3 == -1, got %v", v)
	}
}

func TestMulStringRepeat(t *testing.T) {
	v, err := Mul(String("ab"), Int(3))
	if err != nil {
		t.Fatal(err)
	}
	if v.AsString() != "ababab" {
		t.Errorf("expected ababab, got %q", v.AsString())
	}
}

func TestToFrameUnionsColumns(t *testing.T) {
	o1 := NewObject()
	o1.Set("a", Int(1))
	o2 := NewObject()
	o2.Set("a", Int(2))
	o2.Set("b", String("x"))
	v, err := ToFrame(Array([]Value{Object(o1), Object(o2)}))
	if err != nil {
		t.Fatal(err)
	}
	f := v.AsFrame()
	if f.NumCols() != 2 || f.NumRows() != 2 {
		t.Fatalf("unexpected frame shape: %d cols, %d rows", f.NumCols(), f.NumRows())
	}
	bCol := f.Column("b")
	if !bCol.Get(0).IsNull() {
		t.Errorf("expected missing field to fill null, got %v", bCol.Get(0))
	}
}

func TestBigIntExactDivisionStaysBigInt(t *testing.T) {
	huge := new(big.Int)
	huge.SetString("1000000000000000000000", 10)
	v, err := Div(BigInt(huge), Int(2))
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindBigInt {
		t.Errorf("expected bigint quotient to stay bigint, got %v", v.Kind())
	}
}
