package value

import (
	"math"
	"math/big"
	"sort"
)

// isNumeric reports whether v is int, bigint, or float.
func isNumeric(v Value) bool {
	switch v.kind {
	case KindInt, KindBigInt, KindFloat:
		return true
	}
	return false
}

// IsNumeric reports whether v is int, bigint, or float.
func IsNumeric(v Value) bool { return isNumeric(v) }

// ToFloat64 widens any numeric value to float64; ok is false for
// non-numeric values (builtins use this to accept int/bigint/float
// interchangeably per "numeric ops coerce int<->float").
func ToFloat64(v Value) (float64, bool) {
	if !isNumeric(v) {
		return 0, false
	}
	return asFloat(v), true
}

// asFloat widens any numeric variant to float64 (conversions
// to the generic model widen to float when a single numeric type is needed).
func asFloat(v Value) float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindBigInt:
		f := new(big.Float).SetInt(v.bi)
		out, _ := f.Float64()
		return out
	case KindFloat:
		return v.f
	}
	return math.NaN()
}

// compareNumeric orders two numeric values. Two non-float integral
// values (int/bigint) compare exactly via big.Int; any float operand
// downgrades the comparison to float64.
func compareNumeric(a, b Value) int {
	if a.kind != KindFloat && b.kind != KindFloat {
		ai := toBigInt(a)
		bi := toBigInt(b)
		return ai.Cmp(bi)
	}
	af, bf := asFloat(a), asFloat(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

func toBigInt(v Value) *big.Int {
	switch v.kind {
	case KindInt:
		return big.NewInt(v.i)
	case KindBigInt:
		return v.bi
	}
	return big.NewInt(0)
}

// typeRank orders Kinds for the total order:
// null < bool < numeric < string < array < object.
// Frame/Series/LazyFrame rank after object, and Compare treats any two
// of them as equal.
func typeRank(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindInt, KindBigInt, KindFloat:
		return 2
	case KindString:
		return 3
	case KindArray:
		return 4
	case KindObject:
		return 5
	default:
		return 6
	}
}

// Compare implements the total order. It returns -1, 0, or 1.
// NaN floats never tie: ordered comparisons involving NaN are defined
// to return false, so Compare reports NaN as neither less than nor
// greater than anything except by arbitrary but stable tie-break
// (NaN sorts as greater than every other float so sort/min/max stay total).
func Compare(a, b Value) int {
	ra, rb := typeRank(a.kind), typeRank(b.kind)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNull:
		return 0
	case KindBool:
		if a.b == b.b {
			return 0
		}
		if !a.b {
			return -1
		}
		return 1
	case KindInt, KindBigInt, KindFloat:
		aNaN := a.kind == KindFloat && math.IsNaN(a.f)
		bNaN := b.kind == KindFloat && math.IsNaN(b.f)
		if aNaN && bNaN {
			return 0
		}
		if aNaN {
			return 1
		}
		if bNaN {
			return -1
		}
		return compareNumeric(a, b)
	case KindString:
		switch {
		case a.s < b.s:
			return -1
		case a.s > b.s:
			return 1
		default:
			return 0
		}
	case KindArray:
		n := len(a.arr)
		if len(b.arr) < n {
			n = len(b.arr)
		}
		for i := 0; i < n; i++ {
			if c := Compare(a.arr[i], b.arr[i]); c != 0 {
				return c
			}
		}
		switch {
		case len(a.arr) < len(b.arr):
			return -1
		case len(a.arr) > len(b.arr):
			return 1
		default:
			return 0
		}
	case KindObject:
		ak, bk := a.obj.Keys(), b.obj.Keys()
		sort.Strings(ak)
		sort.Strings(bk)
		n := len(ak)
		if len(bk) < n {
			n = len(bk)
		}
		for i := 0; i < n; i++ {
			if ak[i] != bk[i] {
				if ak[i] < bk[i] {
					return -1
				}
				return 1
			}
		}
		if len(ak) != len(bk) {
			if len(ak) < len(bk) {
				return -1
			}
			return 1
		}
		for _, k := range ak {
			av, _ := a.obj.Get(k)
			bv, _ := b.obj.Get(k)
			if c := Compare(av, bv); c != 0 {
				return c
			}
		}
		return 0
	default:
		return 0
	}
}

// Less reports a < b under the total order.
func Less(a, b Value) bool { return Compare(a, b) < 0 }

// Equals implements equals(a, b): cross-type numeric equality,
// float NaN never equal (including to itself), frames/series always
// unequal, structural
// recursion for array/object.
func Equals(a, b Value) bool {
	if a.kind == KindFrame && b.kind == KindFrame {
		return false
	}
	if a.kind == KindSeries && b.kind == KindSeries {
		return false
	}
	if isNumeric(a) && isNumeric(b) {
		if (a.kind == KindFloat && math.IsNaN(a.f)) || (b.kind == KindFloat && math.IsNaN(b.f)) {
			return false
		}
		return compareNumeric(a, b) == 0
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equals(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return a.obj.Equal(b.obj, Equals)
	default:
		return false
	}
}

// Index implements index(v, i): negative counts from the end,
// out-of-range is null, frames return a row-as-object, strings index by
// character not byte.
func Index(v Value, i int) Value {
	switch v.kind {
	case KindArray:
		n := len(v.arr)
		idx := i
		if idx < 0 {
			idx += n
		}
		if idx < 0 || idx >= n {
			return Null
		}
		return v.arr[idx]
	case KindString:
		runes := []rune(v.s)
		n := len(runes)
		idx := i
		if idx < 0 {
			idx += n
		}
		if idx < 0 || idx >= n {
			return Null
		}
		return String(string(runes[idx]))
	case KindFrame:
		return v.frame.Row(i)
	case KindSeries:
		return v.series.Get(i)
	case KindNull:
		return Null
	default:
		return Null
	}
}

// Field implements field(v, k): object get misses to null,
// array maps field over elements, frame returns the named column as a
// series, null stays null.
func Field(v Value, k string) (Value, error) {
	switch v.kind {
	case KindNull:
		return Null, nil
	case KindObject:
		val, ok := v.obj.Get(k)
		if !ok {
			return Null, nil
		}
		return val, nil
	case KindArray:
		out := make([]Value, len(v.arr))
		for i, e := range v.arr {
			fv, err := Field(e, k)
			if err != nil {
				return Null, err
			}
			out[i] = fv
		}
		return Array(out), nil
	case KindFrame:
		col := v.frame.Column(k)
		if col == nil {
			return Null, nil
		}
		return SeriesValue(col), nil
	default:
		return Null, &KindError{Op: "field access", Kind: v.TypeName()}
	}
}

// KindError reports an operation applied to a value kind that does not support it.
type KindError struct {
	Op   string
	Kind string
}

func (e *KindError) Error() string {
	return "cannot apply " + e.Op + " to " + e.Kind
}
