// Package value implements the unified value model shared by the
// filter language, the executor, and the format codecs: a tagged union
// that admits both JSON-shaped data (null, bool, int, bigint, float,
// string, array, object) and tabular data (frame, lazy frame, series).
package value

import (
	"fmt"
	"math/big"
)

// Kind identifies which variant of Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindBigInt
	KindFloat
	KindString
	KindArray
	KindObject
	KindFrame
	KindLazyFrame
	KindSeries
)

// Value is a tagged union over the value model described in // Only the field matching Kind is meaningful; the rest are zero.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	bi     *big.Int
	f      float64
	s      string
	arr    []Value
	obj    *Object
	frame  *Frame
	lazy   *LazyFrame
	series *Series
}

// Null is the singleton null value.
var Null = Value{kind: KindNull}

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// BigInt builds a bigint value, normalizing down to KindInt when the
// magnitude fits in int64 — a bigint never holds an int64-representable
// value.
func BigInt(bi *big.Int) Value {
	if bi.IsInt64() {
		return Int(bi.Int64())
	}
	return Value{kind: KindBigInt, bi: new(big.Int).Set(bi)}
}

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func Array(vs []Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindArray, arr: vs}
}

func Object(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

func FrameValue(f *Frame) Value { return Value{kind: KindFrame, frame: f} }

func LazyFrameValue(lf *LazyFrame) Value { return Value{kind: KindLazyFrame, lazy: lf} }

func SeriesValue(s *Series) Value { return Value{kind: KindSeries, series: s} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload; only meaningful when Kind() == KindBool.
func (v Value) AsBool() bool { return v.b }

// AsInt returns the int64 payload; only meaningful when Kind() == KindInt.
func (v Value) AsInt() int64 { return v.i }

// AsBigInt returns the big.Int payload; only meaningful when Kind() == KindBigInt.
func (v Value) AsBigInt() *big.Int { return v.bi }

// AsFloat returns the float64 payload; only meaningful when Kind() == KindFloat.
func (v Value) AsFloat() float64 { return v.f }

// AsString returns the string payload; only meaningful when Kind() == KindString.
func (v Value) AsString() string { return v.s }

// AsArray returns the array payload; only meaningful when Kind() == KindArray.
func (v Value) AsArray() []Value { return v.arr }

// AsObject returns the object payload; only meaningful when Kind() == KindObject.
func (v Value) AsObject() *Object { return v.obj }

// AsFrame returns the frame payload; only meaningful when Kind() == KindFrame.
func (v Value) AsFrame() *Frame { return v.frame }

// AsLazyFrame returns the lazy frame payload; only meaningful when Kind() == KindLazyFrame.
func (v Value) AsLazyFrame() *LazyFrame { return v.lazy }

// AsSeries returns the series payload; only meaningful when Kind() == KindSeries.
func (v Value) AsSeries() *Series { return v.series }

// TypeName returns the type_name tag for v.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindBigInt:
		return "biginteger"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFrame:
		return "dataframe"
	case KindLazyFrame:
		return "lazyframe"
	case KindSeries:
		return "series"
	default:
		return "unknown"
	}
}

// IsTruthy applies : false/null/0/0.0/NaN/""/empty collections
// are falsy, everything else truthy.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindBigInt:
		return v.bi.Sign() != 0
	case KindFloat:
		return v.f != 0 && v.f == v.f // NaN != NaN
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) != 0
	case KindObject:
		return v.obj.Len() != 0
	case KindFrame:
		return v.frame.NumRows() != 0
	case KindSeries:
		return v.series.Len() != 0
	case KindLazyFrame:
		return true
	default:
		return true
	}
}

// Length implements length(v).
func (v Value) Length() int {
	switch v.kind {
	case KindNull:
		return 0
	case KindString:
		return len([]rune(v.s))
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	case KindFrame:
		return v.frame.NumRows()
	case KindSeries:
		return v.series.Len()
	default:
		return 1
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindBigInt:
		return v.bi.String()
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return v.s
	default:
		j, err := ToJSONString(v, false)
		if err != nil {
			return fmt.Sprintf("<%s>", v.TypeName())
		}
		return j
	}
}
