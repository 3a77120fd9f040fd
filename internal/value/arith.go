package value

import (
	"math/big"
)

// Add implements `+`: numeric operands coerce int/bigint/float,
// strings concatenate, arrays append (concatenate), objects merge with the
// right operand's keys taking precedence on conflict.
func Add(a, b Value) (Value, error) {
	switch {
	case isNumeric(a) && isNumeric(b):
		return numericBinOp(a, b, func(x, y int64) (int64, bool) {
			r := x + y
			overflow := (y > 0 && r < x) || (y < 0 && r > x)
			return r, !overflow
		}, func(x, y *big.Int) *big.Int {
			return new(big.Int).Add(x, y)
		}, func(x, y float64) float64 { return x + y }), nil
	case a.kind == KindString && b.kind == KindString:
		return String(a.s + b.s), nil
	case a.kind == KindArray && b.kind == KindArray:
		out := make([]Value, 0, len(a.arr)+len(b.arr))
		out = append(out, a.arr...)
		out = append(out, b.arr...)
		return Array(out), nil
	case a.kind == KindObject && b.kind == KindObject:
		out := a.obj.Clone()
		b.obj.Each(func(k string, v Value) { out.Set(k, v) })
		return Object(out), nil
	case a.kind == KindNull:
		return b, nil
	case b.kind == KindNull:
		return a, nil
	default:
		return Null, &KindError{Op: "+", Kind: a.TypeName() + " and " + b.TypeName()}
	}
}

// Sub implements `-`: numeric subtraction; arrays remove every
// element of b found in a (jq's array-difference semantics).
func Sub(a, b Value) (Value, error) {
	switch {
	case isNumeric(a) && isNumeric(b):
		return numericBinOp(a, b, func(x, y int64) (int64, bool) {
			r := x - y
			overflow := (y < 0 && r < x) || (y > 0 && r > x)
			return r, !overflow
		}, func(x, y *big.Int) *big.Int {
			return new(big.Int).Sub(x, y)
		}, func(x, y float64) float64 { return x - y }), nil
	case a.kind == KindArray && b.kind == KindArray:
		out := make([]Value, 0, len(a.arr))
		for _, e := range a.arr {
			found := false
			for _, r := range b.arr {
				if Equals(e, r) {
					found = true
					break
				}
			}
			if !found {
				out = append(out, e)
			}
		}
		return Array(out), nil
	default:
		return Null, &KindError{Op: "-", Kind: a.TypeName() + " and " + b.TypeName()}
	}
}

// Mul implements `*`: numeric multiplication; string * int
// repeats the string (jq extension, harmless to keep); object * object
// deep-merges right-biased.
func Mul(a, b Value) (Value, error) {
	switch {
	case isNumeric(a) && isNumeric(b):
		return numericBinOp(a, b, func(x, y int64) (int64, bool) {
			if x == 0 || y == 0 {
				return 0, true
			}
			r := x * y
			return r, r/y == x
		}, func(x, y *big.Int) *big.Int {
			return new(big.Int).Mul(x, y)
		}, func(x, y float64) float64 { return x * y }), nil
	case a.kind == KindString && b.kind == KindInt:
		return repeatString(a.s, b.i), nil
	case a.kind == KindInt && b.kind == KindString:
		return repeatString(b.s, a.i), nil
	case a.kind == KindObject && b.kind == KindObject:
		return deepMerge(a, b), nil
	default:
		return Null, &KindError{Op: "*", Kind: a.TypeName() + " and " + b.TypeName()}
	}
}

func repeatString(s string, n int64) Value {
	if n <= 0 {
		return Null
	}
	out := make([]byte, 0, len(s)*int(n))
	for i := int64(0); i < n; i++ {
		out = append(out, s...)
	}
	return String(string(out))
}

func deepMerge(a, b Value) Value {
	if a.kind != KindObject || b.kind != KindObject {
		return b
	}
	out := a.obj.Clone()
	b.obj.Each(func(k string, bv Value) {
		if av, ok := out.Get(k); ok {
			out.Set(k, deepMerge(av, bv))
		} else {
			out.Set(k, bv)
		}
	})
	return Object(out)
}

// Div implements `/`: numeric division (always produces a float
// unless both operands are exact integers and divide evenly); string /
// string splits a on the separator b (jq's split-via-division idiom).
func Div(a, b Value) (Value, error) {
	switch {
	case isNumeric(a) && isNumeric(b):
		if isZero(b) {
			return Null, &KindError{Op: "/ by zero", Kind: a.TypeName()}
		}
		if a.kind != KindFloat && b.kind != KindFloat {
			ai, bi := toBigInt(a), toBigInt(b)
			q, r := new(big.Int).QuoRem(ai, bi, new(big.Int))
			if r.Sign() == 0 {
				return BigInt(q), nil
			}
		}
		return Float(asFloat(a) / asFloat(b)), nil
	case a.kind == KindString && b.kind == KindString:
		parts := splitString(a.s, b.s)
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = String(p)
		}
		return Array(out), nil
	default:
		return Null, &KindError{Op: "/", Kind: a.TypeName() + " and " + b.TypeName()}
	}
}

func splitString(s, sep string) []string {
	if sep == "" {
		runes := []rune(s)
		out := make([]string, len(runes))
		for i, r := range runes {
			out[i] = string(r)
		}
		return out
	}
	var out []string
	for {
		i := indexOf(s, sep)
		if i < 0 {
			out = append(out, s)
			return out
		}
		out = append(out, s[:i])
		s = s[i+len(sep):]
	}
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

// Mod implements `%`: integer modulo, truncated toward zero like jq/C.
func Mod(a, b Value) (Value, error) {
	if !isNumeric(a) || !isNumeric(b) {
		return Null, &KindError{Op: "%", Kind: a.TypeName() + " and " + b.TypeName()}
	}
	if isZero(b) {
		return Null, &KindError{Op: "% by zero", Kind: a.TypeName()}
	}
	ai, bi := toBigInt(a), toBigInt(b)
	_, r := new(big.Int).QuoRem(ai, bi, new(big.Int))
	return BigInt(r), nil
}

func isZero(v Value) bool {
	switch v.kind {
	case KindInt:
		return v.i == 0
	case KindBigInt:
		return v.bi.Sign() == 0
	case KindFloat:
		return v.f == 0
	}
	return false
}

// numericBinOp applies the int-overflow-safe path when both operands are
// plain int64 and the op doesn't overflow, otherwise widens to big.Int,
// and widens to float64 the moment either operand is already a float
// ("numeric ops coerce int<->float").
func numericBinOp(a, b Value, intOp func(x, y int64) (int64, bool), bigOp func(x, y *big.Int) *big.Int, floatOp func(x, y float64) float64) Value {
	if a.kind == KindFloat || b.kind == KindFloat {
		return Float(floatOp(asFloat(a), asFloat(b)))
	}
	if a.kind == KindInt && b.kind == KindInt {
		if r, ok := intOp(a.i, b.i); ok {
			return Int(r)
		}
	}
	return BigInt(bigOp(toBigInt(a), toBigInt(b)))
}

// ToFrame implements to_frame: an array of uniform objects
// becomes a frame whose columns are the union of the objects' keys in
// first-seen order, missing fields filling as null.
func ToFrame(v Value) (Value, error) {
	if v.kind == KindFrame {
		return v, nil
	}
	if v.kind != KindArray {
		return Null, &KindError{Op: "to_frame", Kind: v.TypeName()}
	}
	var colNames []string
	seen := map[string]bool{}
	for _, row := range v.arr {
		if row.kind != KindObject {
			return Null, &KindError{Op: "to_frame: non-object row", Kind: row.TypeName()}
		}
		for _, k := range row.obj.Keys() {
			if !seen[k] {
				seen[k] = true
				colNames = append(colNames, k)
			}
		}
	}
	cols := make([]*Series, len(colNames))
	for i, name := range colNames {
		data := make([]Value, len(v.arr))
		for r, row := range v.arr {
			if val, ok := row.obj.Get(name); ok {
				data[r] = val
			} else {
				data[r] = Null
			}
		}
		cols[i] = NewSeries(name, inferDType(data), data)
	}
	f, err := NewFrame(cols)
	if err != nil {
		return Null, err
	}
	return FrameValue(f), nil
}

func inferDType(data []Value) DType {
	seenKind := KindNull
	for _, v := range data {
		if v.kind == KindNull {
			continue
		}
		if seenKind == KindNull {
			seenKind = v.kind
			continue
		}
		if seenKind != v.kind {
			return DTypeString
		}
	}
	switch seenKind {
	case KindBool:
		return DTypeBool
	case KindInt, KindBigInt:
		return DTypeInt64
	case KindFloat:
		return DTypeFloat64
	case KindString:
		return DTypeString
	default:
		return DTypeNull
	}
}
