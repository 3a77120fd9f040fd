package builtins

import (
	"math"
	"testing"

	"dsq/internal/value"
)

func call(t *testing.T, name string, args ...value.Value) value.Value {
	t.Helper()
	b, ok := Lookup(name)
	if !ok {
		t.Fatalf("builtin %q not registered", name)
	}
	if !b.CheckArity(len(args)) {
		t.Fatalf("builtin %q rejects arity %d", name, len(args))
	}
	if b.HigherOrder {
		t.Fatalf("builtin %q is higher-order, cannot call directly", name)
	}
	out, err := b.Fn(args)
	if err != nil {
		t.Fatalf("%s(%v): unexpected error: %v", name, args, err)
	}
	return out
}

func arr(vs ...value.Value) value.Value { return value.Array(vs) }

func TestLookupUnknownBuiltin(t *testing.T) {
	if _, ok := Lookup("definitely_not_a_builtin"); ok {
		t.Fatal("expected miss")
	}
}

func TestHigherOrderBuiltinsHaveNilFn(t *testing.T) {
	for _, name := range []string{"map", "filter", "select", "sort_by", "group_by", "min_by", "max_by", "iferror", "transform_values", "map_values"} {
		b, ok := Lookup(name)
		if !ok {
			t.Fatalf("%s not registered", name)
		}
		if !b.HigherOrder || b.Fn != nil {
			t.Fatalf("%s should be higher-order with nil Fn", name)
		}
	}
}

func TestMetaBuiltins(t *testing.T) {
	obj := value.NewObject()
	obj.Set("b", value.Int(2))
	obj.Set("a", value.Int(1))
	v := value.Object(obj)

	if got := call(t, "length", v); got.AsInt() != 2 {
		t.Fatalf("length = %v", got)
	}
	keys := call(t, "keys", v)
	if keys.AsArray()[0].AsString() != "a" || keys.AsArray()[1].AsString() != "b" {
		t.Fatalf("keys not sorted: %v", keys)
	}
	values := call(t, "values", v)
	if values.AsArray()[0].AsInt() != 1 {
		t.Fatalf("values not key-sorted: %v", values)
	}
	if got := call(t, "type", value.Int(5)); got.AsString() != "integer" {
		t.Fatalf("type = %v", got)
	}
	if got := call(t, "has", v, value.String("a")); !got.IsTruthy() {
		t.Fatal("has(a) should be true")
	}
	if got := call(t, "has", v, value.String("z")); got.IsTruthy() {
		t.Fatal("has(z) should be false")
	}
	if got := call(t, "coalesce", value.Null, value.Null, value.Int(9)); got.AsInt() != 9 {
		t.Fatalf("coalesce = %v", got)
	}
}

func TestNumericBuiltins(t *testing.T) {
	if got := call(t, "abs", value.Int(-5)); got.AsInt() != 5 {
		t.Fatalf("abs(-5) = %v", got)
	}
	if got := call(t, "floor", value.Float(1.9)); got.AsInt() != 1 {
		t.Fatalf("floor(1.9) = %v", got)
	}
	if got := call(t, "ceil", value.Float(1.1)); got.AsInt() != 2 {
		t.Fatalf("ceil(1.1) = %v", got)
	}
	if got := call(t, "round", value.Float(1.005), value.Int(2)); math.Abs(got.AsFloat()-1.0) > 0.5 {
		// sanity: just exercise the two-arg path without assuming exact
		// binary-float rounding behavior
		t.Fatalf("round produced implausible result: %v", got)
	}
	if got := call(t, "pow", value.Int(2), value.Int(10)); got.AsFloat() != 1024 {
		t.Fatalf("pow(2,10) = %v", got)
	}
	if got := call(t, "pi"); math.Abs(got.AsFloat()-math.Pi) > 1e-12 {
		t.Fatalf("pi = %v", got)
	}
}

func TestAggregationBuiltins(t *testing.T) {
	nums := arr(value.Int(1), value.Int(2), value.Int(3), value.Int(4))
	if got := call(t, "sum", nums); got.AsFloat() != 10 {
		t.Fatalf("sum = %v", got)
	}
	if got := call(t, "mean", nums); got.AsFloat() != 2.5 {
		t.Fatalf("mean = %v", got)
	}
	if got := call(t, "min", nums); got.AsInt() != 1 {
		t.Fatalf("min = %v", got)
	}
	if got := call(t, "max", nums); got.AsInt() != 4 {
		t.Fatalf("max = %v", got)
	}
	if got := call(t, "median", nums); got.AsFloat() != 2.5 {
		t.Fatalf("median = %v", got)
	}
	if got := call(t, "count", nums); got.AsInt() != 4 {
		t.Fatalf("count = %v", got)
	}
	mask := arr(value.Bool(true), value.Bool(false), value.Bool(true), value.Bool(false))
	if got := call(t, "count_if", nums, mask); got.AsInt() != 2 {
		t.Fatalf("count_if = %v", got)
	}
	if got := call(t, "avg_if", nums, mask); got.AsFloat() != 2 {
		t.Fatalf("avg_if = %v", got)
	}
	freq := arr(value.Int(1), value.Int(1), value.Int(2))
	if got := call(t, "most_frequent", freq); got.AsInt() != 1 {
		t.Fatalf("most_frequent = %v", got)
	}
	if got := call(t, "least_frequent", freq); got.AsInt() != 2 {
		t.Fatalf("least_frequent = %v", got)
	}
}

func TestSequenceBuiltins(t *testing.T) {
	nums := arr(value.Int(3), value.Int(1), value.Int(2))
	sorted := call(t, "sort", nums)
	if sorted.AsArray()[0].AsInt() != 1 || sorted.AsArray()[2].AsInt() != 3 {
		t.Fatalf("sort = %v", sorted)
	}
	reversed := call(t, "reverse", arr(value.Int(1), value.Int(2)))
	if reversed.AsArray()[0].AsInt() != 2 {
		t.Fatalf("reverse = %v", reversed)
	}
	uniq := call(t, "unique", arr(value.Int(1), value.Int(1), value.Int(2)))
	if len(uniq.AsArray()) != 2 {
		t.Fatalf("unique = %v", uniq)
	}
	flat := call(t, "flatten", arr(arr(value.Int(1), value.Int(2)), value.Int(3)))
	if len(flat.AsArray()) != 3 {
		t.Fatalf("flatten = %v", flat)
	}
	rng := call(t, "range", value.Int(3))
	if len(rng.AsArray()) != 3 || rng.AsArray()[2].AsInt() != 2 {
		t.Fatalf("range(3) = %v", rng)
	}
	pushed := call(t, "array_push", arr(value.Int(1)), value.Int(2))
	if len(pushed.AsArray()) != 2 || pushed.AsArray()[1].AsInt() != 2 {
		t.Fatalf("array_push = %v", pushed)
	}
}

func TestStringBuiltins(t *testing.T) {
	if got := call(t, "tolower", value.String("ABC")); got.AsString() != "abc" {
		t.Fatalf("tolower = %v", got)
	}
	if got := call(t, "trim", value.String("  hi  ")); got.AsString() != "hi" {
		t.Fatalf("trim = %v", got)
	}
	if got := call(t, "contains", value.String("hello"), value.String("ell")); !got.IsTruthy() {
		t.Fatal("contains should be true")
	}
	split := call(t, "split", value.String("a,b,c"), value.String(","))
	if len(split.AsArray()) != 3 {
		t.Fatalf("split = %v", split)
	}
	joined := call(t, "join", arr(value.String("a"), value.String("b")), value.String("-"))
	if joined.AsString() != "a-b" {
		t.Fatalf("join = %v", joined)
	}
	if got := call(t, "snake_case", value.String("helloWorld")); got.AsString() != "hello_world" {
		t.Fatalf("snake_case = %v", got)
	}
	if got := call(t, "camel_case", value.String("hello_world")); got.AsString() != "helloWorld" {
		t.Fatalf("camel_case = %v", got)
	}
	if got := call(t, "transliterate", value.String("café")); got.AsString() != "cafe" {
		t.Fatalf("transliterate = %v", got)
	}
}

func TestHashBuiltins(t *testing.T) {
	if got := call(t, "md5", value.String("")); got.AsString() != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Fatalf("md5(\"\") = %v", got)
	}
	b64 := call(t, "base64_encode", value.String("hi"))
	if b64.AsString() != "aGk=" {
		t.Fatalf("base64_encode = %v", b64)
	}
	back := call(t, "base64_decode", b64)
	if back.AsString() != "hi" {
		t.Fatalf("base64_decode round trip = %v", back)
	}
	enc := call(t, "base58_encode", value.String("hello"))
	dec := call(t, "base58_decode", enc)
	if dec.AsString() != "hello" {
		t.Fatalf("base58 round trip = %v", dec)
	}
}

func TestURLBuiltins(t *testing.T) {
	u := "https://www.example.com:8080/path?q=1#frag"
	parsed := call(t, "url_parse", value.String(u))
	obj := parsed.AsObject()
	host, _ := obj.Get("host")
	if host.AsString() != "www.example.com" {
		t.Fatalf("url_parse host = %v", host)
	}
	domain := call(t, "url_extract_domain", value.String(u))
	if domain.AsString() != "www.example.com" {
		t.Fatalf("url_extract_domain = %v", domain)
	}
	stripped := call(t, "url_set_domain_without_www", value.String(u))
	if stripped.AsString() == "" {
		t.Fatal("url_set_domain_without_www produced empty result")
	}
}

func TestDateTimeBuiltins(t *testing.T) {
	ts := value.String("2024-03-15T10:30:00Z")
	if got := call(t, "year", ts); got.AsInt() != 2024 {
		t.Fatalf("year = %v", got)
	}
	if got := call(t, "month", ts); got.AsInt() != 3 {
		t.Fatalf("month = %v", got)
	}
	if got := call(t, "day", ts); got.AsInt() != 15 {
		t.Fatalf("day = %v", got)
	}
	start := call(t, "start_of_month", ts)
	if start.AsString() != "2024-03-01" {
		t.Fatalf("start_of_month = %v", start)
	}
}

func TestTabularBuiltins(t *testing.T) {
	a := arr(value.Int(1), value.Int(2))
	b := arr(value.String("x"), value.String("y"))
	zipped := call(t, "zip", a, b)
	if len(zipped.AsArray()) != 2 {
		t.Fatalf("zip = %v", zipped)
	}
	pair := zipped.AsArray()[0].AsArray()
	if pair[0].AsInt() != 1 || pair[1].AsString() != "x" {
		t.Fatalf("zip element = %v", pair)
	}

	row1 := value.NewObject()
	row1.Set("id", value.Int(1))
	row2 := value.NewObject()
	row2.Set("id", value.Int(2))
	right1 := value.NewObject()
	right1.Set("id", value.Int(1))
	right1.Set("name", value.String("one"))
	left := arr(value.Object(row1), value.Object(row2))
	right := arr(value.Object(right1))
	joined := call(t, "table_join", left, right, value.String("id"))
	if len(joined.AsArray()) != 1 {
		t.Fatalf("table_join = %v", joined)
	}
}

func TestMiscBuiltins(t *testing.T) {
	id1 := call(t, "generate_uuidv4")
	id2 := call(t, "generate_uuidv4")
	if id1.AsString() == id2.AsString() {
		t.Fatal("generate_uuidv4 should not repeat")
	}
	if got := call(t, "humanize", value.Int(1234567)); got.AsString() != "1,234,567" {
		t.Fatalf("humanize = %v", got)
	}
	concat := call(t, "group_concat", arr(value.String("a"), value.String("b")), value.String(", "))
	if concat.AsString() != "a, b" {
		t.Fatalf("group_concat = %v", concat)
	}
}
