package value

import "testing"

func newTestFrame(t *testing.T) *Frame {
	t.Helper()
	id := NewSeries("id", DTypeInt64, []Value{Int(1), Int(2), Int(3)})
	name := NewSeries("name", DTypeString, []Value{String("a"), String("b"), String("c")})
	f, err := NewFrame([]*Series{id, name})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestNewFrameRejectsMismatchedLength(t *testing.T) {
	id := NewSeries("id", DTypeInt64, []Value{Int(1), Int(2)})
	name := NewSeries("name", DTypeString, []Value{String("a")})
	if _, err := NewFrame([]*Series{id, name}); err == nil {
		t.Error("expected mismatched column lengths to error")
	}
}

func TestNewFrameRejectsDuplicateColumns(t *testing.T) {
	a := NewSeries("x", DTypeInt64, []Value{Int(1)})
	b := NewSeries("x", DTypeInt64, []Value{Int(2)})
	if _, err := NewFrame([]*Series{a, b}); err == nil {
		t.Error("expected duplicate column name to error")
	}
}

func TestFrameRowProjection(t *testing.T) {
	f := newTestFrame(t)
	row := f.Row(1)
	if row.Kind() != KindObject {
		t.Fatalf("expected row to project to object, got %v", row.Kind())
	}
	name, _ := row.AsObject().Get("name")
	if name.AsString() != "b" {
		t.Errorf("expected row 1 name 'b', got %v", name)
	}
}

func TestFrameRowNegativeIndex(t *testing.T) {
	f := newTestFrame(t)
	row := f.Row(-1)
	id, _ := row.AsObject().Get("id")
	if id.AsInt() != 3 {
		t.Errorf("expected last row id 3, got %v", id)
	}
}

func TestFrameWithColumnReplace(t *testing.T) {
	f := newTestFrame(t)
	replaced, err := f.WithColumn(NewSeries("id", DTypeInt64, []Value{Int(10), Int(20), Int(30)}))
	if err != nil {
		t.Fatal(err)
	}
	if replaced.NumCols() != f.NumCols() {
		t.Errorf("expected column count unchanged on replace, got %d vs %d", replaced.NumCols(), f.NumCols())
	}
	if f.Column("id").Get(0).AsInt() != 1 {
		t.Error("expected original frame untouched by WithColumn (copy-on-write)")
	}
	if replaced.Column("id").Get(0).AsInt() != 10 {
		t.Errorf("expected replaced column value 10, got %v", replaced.Column("id").Get(0))
	}
}

func TestFrameFilterRows(t *testing.T) {
	f := newTestFrame(t)
	filtered := f.FilterRows(func(i int) bool {
		return f.Column("id").Get(i).AsInt() >= 2
	})
	if filtered.NumRows() != 2 {
		t.Fatalf("expected 2 rows after filter, got %d", filtered.NumRows())
	}
}

func TestLazyFrameCollectAppliesOpsInOrder(t *testing.T) {
	f := newTestFrame(t)
	lf := NewLazyFrame(f).Then(func(fr *Frame) (*Frame, error) {
		return fr.SliceRows(0, 2), nil
	}).Then(func(fr *Frame) (*Frame, error) {
		return fr.FilterRows(func(i int) bool {
			return fr.Column("id").Get(i).AsInt() != 1
		}), nil
	})
	out, err := lf.Collect()
	if err != nil {
		t.Fatal(err)
	}
	if out.NumRows() != 1 {
		t.Fatalf("expected 1 row after slice+filter, got %d", out.NumRows())
	}
}
