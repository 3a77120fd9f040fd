package value

import (
	"math/big"
	"testing"
)

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null, false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero int", Int(0), false},
		{"nonzero int", Int(1), true},
		{"zero float", Float(0), false},
		{"nan", Float(nan()), false},
		{"empty string", String(""), false},
		{"nonempty string", String("x"), true},
		{"empty array", Array(nil), false},
		{"nonempty array", Array([]Value{Int(1)}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsTruthy(); got != tt.want {
				t.Errorf("IsTruthy(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestBigIntNormalization(t *testing.T) {
	v := BigInt(big.NewInt(42))
	if v.Kind() != KindInt {
		t.Fatalf("expected small bigint to normalize to KindInt, got %v", v.Kind())
	}
	huge := new(big.Int)
	huge.SetString("123456789012345678901234567890", 10)
	v2 := BigInt(huge)
	if v2.Kind() != KindBigInt {
		t.Fatalf("expected huge bigint to stay KindBigInt, got %v", v2.Kind())
	}
}

func TestCompareTotalOrder(t *testing.T) {
	order := []Value{
		Null,
		Bool(false),
		Bool(true),
		Int(1),
		Float(2.5),
		String("a"),
		Array([]Value{Int(1)}),
		func() Value {
			o := NewObject()
			o.Set("a", Int(1))
			return Object(o)
		}(),
	}
	for i := 0; i < len(order)-1; i++ {
		if !Less(order[i], order[i+1]) {
			t.Errorf("expected %v < %v", order[i], order[i+1])
		}
	}
}

func TestEqualsNaN(t *testing.T) {
	n := Float(nan())
	if Equals(n, n) {
		t.Error("NaN must not equal itself")
	}
}

func TestEqualsFramesAlwaysFalse(t *testing.T) {
	f := MustNewFrame(nil)
	a := FrameValue(f)
	b := FrameValue(f)
	if Equals(a, b) {
		t.Error("frame equality must always be false, even for the same frame")
	}
}

func TestEqualsCrossNumeric(t *testing.T) {
	if !Equals(Int(3), Float(3.0)) {
		t.Error("int 3 should equal float 3.0")
	}
}

func TestIndexNegative(t *testing.T) {
	arr := Array([]Value{Int(1), Int(2), Int(3)})
	if Index(arr, -1).AsInt() != 3 {
		t.Errorf("expected last element 3, got %v", Index(arr, -1))
	}
	if !Index(arr, 10).IsNull() {
		t.Error("expected out of range index to be null")
	}
}

func TestFieldOnNull(t *testing.T) {
	v, err := Field(Null, "x")
	if err != nil || !v.IsNull() {
		t.Errorf("field on null should be null, got %v, %v", v, err)
	}
}

func TestFieldOnArrayMaps(t *testing.T) {
	o1 := NewObject()
	o1.Set("x", Int(1))
	o2 := NewObject()
	o2.Set("x", Int(2))
	arr := Array([]Value{Object(o1), Object(o2)})
	v, err := Field(arr, "x")
	if err != nil {
		t.Fatal(err)
	}
	got := v.AsArray()
	if len(got) != 2 || got[0].AsInt() != 1 || got[1].AsInt() != 2 {
		t.Errorf("unexpected field-over-array result: %v", got)
	}
}

func TestObjectInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("b", Int(2))
	o.Set("a", Int(1))
	o.Set("b", Int(20))
	keys := o.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Errorf("expected insertion order [b a], got %v", keys)
	}
	v, _ := o.Get("b")
	if v.AsInt() != 20 {
		t.Errorf("expected overwrite to update value, got %v", v)
	}
}
