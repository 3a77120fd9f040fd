package codec

import (
	"testing"

	"dsq/internal/value"
)

func TestJSONRoundTrip(t *testing.T) {
	in := []byte(`{"a":1,"b":[1,2,3],"c":"x"}`)
	v, err := DecodeJSON(in)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	out, err := EncodeJSON(v, JSONOptions{})
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	v2, err := DecodeJSON(out)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if !value.Equals(v, v2) {
		t.Fatalf("round trip mismatch: %v vs %v", v, v2)
	}
}

func TestJSONLinesRoundTrip(t *testing.T) {
	in := []byte("{\"a\":1}\n{\"a\":2}\n")
	v, err := DecodeJSONLines(byteReader(in))
	if err != nil {
		t.Fatalf("DecodeJSONLines: %v", err)
	}
	if len(v.AsArray()) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(v.AsArray()))
	}
	out, err := EncodeJSONLines(v)
	if err != nil {
		t.Fatalf("EncodeJSONLines: %v", err)
	}
	v2, err := DecodeJSONLines(byteReader(out))
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if len(v2.AsArray()) != 2 {
		t.Fatalf("expected 2 elements after round trip, got %d", len(v2.AsArray()))
	}
}

func TestJSON5Comments(t *testing.T) {
	in := []byte(`{
		// a comment
		name: 'alice', /* trailing */
		age: 30,
	}`)
	v, err := DecodeJSON5(in)
	if err != nil {
		t.Fatalf("DecodeJSON5: %v", err)
	}
	name, ok := v.AsObject().Get("name")
	if !ok || name.AsString() != "alice" {
		t.Fatalf("name = %v", v)
	}
}

func TestCSVDecodeInfersTypes(t *testing.T) {
	in := []byte("name,age,score\nalice,30,9.5\nbob,25,8.1\n")
	v, err := DecodeCSV(in, DefaultOptions())
	if err != nil {
		t.Fatalf("DecodeCSV: %v", err)
	}
	f := v.AsFrame()
	if f.NumRows() != 2 || f.NumCols() != 3 {
		t.Fatalf("shape = %d rows, %d cols", f.NumRows(), f.NumCols())
	}
	age := f.Column("age")
	if age.DType != value.DTypeInt64 {
		t.Fatalf("age dtype = %v", age.DType)
	}
	if age.Get(0).AsInt() != 30 {
		t.Fatalf("age[0] = %v", age.Get(0))
	}
	score := f.Column("score")
	if score.DType != value.DTypeFloat64 {
		t.Fatalf("score dtype = %v", score.DType)
	}
}

func TestCSVEncodeDecodeRoundTrip(t *testing.T) {
	cols := []*value.Series{
		value.NewSeries("id", value.DTypeInt64, []value.Value{value.Int(1), value.Int(2)}),
		value.NewSeries("name", value.DTypeString, []value.Value{value.String("a"), value.String("b")}),
	}
	f, err := value.NewFrame(cols)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	out, err := EncodeCSV(value.FrameValue(f), DefaultOptions())
	if err != nil {
		t.Fatalf("EncodeCSV: %v", err)
	}
	v2, err := DecodeCSV(out, DefaultOptions())
	if err != nil {
		t.Fatalf("DecodeCSV round trip: %v", err)
	}
	if v2.AsFrame().NumRows() != 2 {
		t.Fatalf("round trip rows = %d", v2.AsFrame().NumRows())
	}
}

func TestDetectSeparatorTSV(t *testing.T) {
	in := []byte("a\tb\tc\n1\t2\t3\n4\t5\t6\n")
	if sep := DetectSeparator(in); sep != '\t' {
		t.Fatalf("DetectSeparator = %q, want tab", sep)
	}
}

func TestDetectFromPath(t *testing.T) {
	cases := map[string]Format{
		"data.json":    FormatJSON,
		"data.jsonl":   FormatJSONL,
		"data.json5":   FormatJSON5,
		"data.csv":     FormatCSV,
		"data.tsv":     FormatTSV,
		"data.parquet": FormatParquet,
	}
	for path, want := range cases {
		got, ok := DetectFromPath(path)
		if !ok || got != want {
			t.Fatalf("DetectFromPath(%q) = %v, %v; want %v", path, got, ok, want)
		}
	}
}
