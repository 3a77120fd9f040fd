package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strconv"
)

// FromJSONBytes decodes a single JSON document into a Value. Numbers
// are decoded via json.Number so integer literals that overflow int64
// upgrade to bigint instead of losing precision as float64.
func FromJSONBytes(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Null, err
	}
	return FromGo(raw), nil
}

// FromGo converts an already-decoded Go value (as produced by
// encoding/json with UseNumber) into the value model. It also upgrades
// bare strings that parse as integer literals to bigint, matching
// from_json's "strings parseable as arbitrary-precision
// integers upgrade to bigint" rule when called on string leaves that
// originated as JSON number tokens too large for float64 precision.
func FromGo(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return Null
	case bool:
		return Bool(t)
	case string:
		return stringFromJSON(t)
	case json.Number:
		return numberFromJSON(t)
	case float64:
		return Float(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case []interface{}:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = FromGo(e)
		}
		return Array(out)
	case map[string]interface{}:
		obj := NewObject()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Set(k, FromGo(t[k]))
		}
		return Object(obj)
	default:
		return Null
	}
}

// stringFromJSON implements the bigint round-trip rule: a
// decoded JSON string that is itself a valid integer literal too large
// for int64 upgrades to bigint, so to_json(bigint) -> JSON string ->
// from_json recovers the original bigint. Strings that fit in int64 are
// left as strings: only to_json's own bigint encoding produces
// over-int64-magnitude numeral strings in practice, so this narrow rule
// does not clobber ordinary numeric-looking string data.
func stringFromJSON(s string) Value {
	if isIntegerLiteral(s) {
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			if bi, ok := new(big.Int).SetString(s, 10); ok {
				return BigInt(bi)
			}
		}
	}
	return String(s)
}

func isIntegerLiteral(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
	}
	if i >= len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func numberFromJSON(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		return Int(i)
	}
	if bi, ok := new(big.Int).SetString(n.String(), 10); ok {
		return BigInt(bi)
	}
	f, err := n.Float64()
	if err != nil {
		return Null
	}
	return Float(f)
}

// ToGo converts a Value into a plain Go value suitable for
// encoding/json.Marshal: frames serialize as an array of row objects,
// bigint as a decimal string, NaN/Inf floats are rejected.
func ToGo(v Value) (interface{}, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i, nil
	case KindBigInt:
		return v.bi.String(), nil
	case KindFloat:
		if isNonFinite(v.f) {
			return nil, fmt.Errorf("cannot serialize non-finite float %v to JSON", v.f)
		}
		return v.f, nil
	case KindString:
		return v.s, nil
	case KindArray:
		out := make([]interface{}, len(v.arr))
		for i, e := range v.arr {
			g, err := ToGo(e)
			if err != nil {
				return nil, err
			}
			out[i] = g
		}
		return out, nil
	case KindObject:
		out := make(map[string]interface{}, v.obj.Len())
		var err error
		v.obj.Each(func(k string, val Value) {
			if err != nil {
				return
			}
			var g interface{}
			g, err = ToGo(val)
			out[k] = g
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case KindFrame:
		rows := make([]interface{}, v.frame.NumRows())
		for i, row := range v.frame.Rows() {
			g, err := ToGo(row)
			if err != nil {
				return nil, err
			}
			rows[i] = g
		}
		return rows, nil
	case KindLazyFrame:
		f, err := v.lazy.Collect()
		if err != nil {
			return nil, err
		}
		return ToGo(FrameValue(f))
	case KindSeries:
		out := make([]interface{}, v.series.Len())
		for i := 0; i < v.series.Len(); i++ {
			g, err := ToGo(v.series.Get(i))
			if err != nil {
				return nil, err
			}
			out[i] = g
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot serialize %s to JSON", v.TypeName())
	}
}

func isNonFinite(f float64) bool {
	return f != f || f > maxFinite || f < -maxFinite
}

const maxFinite = 1.7976931348623157e+308

// ToJSONString renders v as JSON text, compact or pretty-printed with a
// two-space indent.
func ToJSONString(v Value, pretty bool) (string, error) {
	g, err := ToGo(v)
	if err != nil {
		return "", err
	}
	var out []byte
	if pretty {
		out, err = json.MarshalIndent(g, "", "  ")
	} else {
		out, err = json.Marshal(g)
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ParseNumberLiteral parses a decimal numeral (no sign handling beyond
// what strconv accepts) the way the filter lexer's number literals are
// upgraded: int when it fits int64, else bigint.
func ParseNumberLiteral(s string) (Value, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	if bi, ok := new(big.Int).SetString(s, 10); ok {
		return BigInt(bi), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Null, err
	}
	return Float(f), nil
}
