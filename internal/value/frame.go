package value

import (
	"fmt"
)

// DType is the declared element type of a Series/frame column.
type DType int

const (
	DTypeNull DType = iota
	DTypeBool
	DTypeInt8
	DTypeInt16
	DTypeInt32
	DTypeInt64
	DTypeUint8
	DTypeUint16
	DTypeUint32
	DTypeUint64
	DTypeFloat32
	DTypeFloat64
	DTypeString
	DTypeDate
	DTypeDatetime
	DTypeBinary
)

func (d DType) String() string {
	switch d {
	case DTypeNull:
		return "null"
	case DTypeBool:
		return "bool"
	case DTypeInt8:
		return "int8"
	case DTypeInt16:
		return "int16"
	case DTypeInt32:
		return "int32"
	case DTypeInt64:
		return "int64"
	case DTypeUint8:
		return "uint8"
	case DTypeUint16:
		return "uint16"
	case DTypeUint32:
		return "uint32"
	case DTypeUint64:
		return "uint64"
	case DTypeFloat32:
		return "float32"
	case DTypeFloat64:
		return "float64"
	case DTypeString:
		return "string"
	case DTypeDate:
		return "date"
	case DTypeDatetime:
		return "datetime"
	case DTypeBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Series is a single named, typed column: an ordered vector of Values
// all conceptually of the same DType (widened to int/float/string when
// bridging to the generic value model, per ).
type Series struct {
	Name  string
	DType DType
	Data  []Value
}

func NewSeries(name string, dtype DType, data []Value) *Series {
	if data == nil {
		data = []Value{}
	}
	return &Series{Name: name, DType: dtype, Data: data}
}

func (s *Series) Len() int { return len(s.Data) }

// Get returns the i-th element with negative-index wraparound and
// out-of-range returning Null.
func (s *Series) Get(i int) Value {
	n := len(s.Data)
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return Null
	}
	return s.Data[idx]
}

func (s *Series) Clone() *Series {
	data := make([]Value, len(s.Data))
	copy(data, s.Data)
	return &Series{Name: s.Name, DType: s.DType, Data: data}
}

// Frame is a columnar table: ordered named columns of equal length
//.
type Frame struct {
	columnNames []string
	columns     map[string]*Series
	numRows     int
}

// NewFrame builds a frame from ordered columns, validating equal length.
func NewFrame(cols []*Series) (*Frame, error) {
	f := &Frame{columns: make(map[string]*Series, len(cols))}
	rows := -1
	for _, c := range cols {
		if rows == -1 {
			rows = c.Len()
		} else if c.Len() != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name, c.Len(), rows)
		}
		if _, dup := f.columns[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		f.columnNames = append(f.columnNames, c.Name)
		f.columns[c.Name] = c
	}
	if rows == -1 {
		rows = 0
	}
	f.numRows = rows
	return f, nil
}

// MustNewFrame panics on validation failure; used for internally
// constructed frames known to already be well-formed.
func MustNewFrame(cols []*Series) *Frame {
	f, err := NewFrame(cols)
	if err != nil {
		panic(err)
	}
	return f
}

func EmptyFrame() *Frame {
	return &Frame{columns: map[string]*Series{}}
}

func (f *Frame) NumRows() int { return f.numRows }
func (f *Frame) NumCols() int { return len(f.columnNames) }

// ColumnNames returns column names in declaration order.
func (f *Frame) ColumnNames() []string {
	out := make([]string, len(f.columnNames))
	copy(out, f.columnNames)
	return out
}

// Column returns the named column, or nil if absent.
func (f *Frame) Column(name string) *Series {
	return f.columns[name]
}

// Row projects row i to an object of column -> value.
func (f *Frame) Row(i int) Value {
	if i < 0 {
		i += f.numRows
	}
	if i < 0 || i >= f.numRows {
		return Null
	}
	obj := NewObject()
	for _, name := range f.columnNames {
		obj.Set(name, f.columns[name].Get(i))
	}
	return Object(obj)
}

// Rows projects every row to an object, in row order.
func (f *Frame) Rows() []Value {
	rows := make([]Value, f.numRows)
	for i := 0; i < f.numRows; i++ {
		rows[i] = f.Row(i)
	}
	return rows
}

// WithColumn returns a new frame with name added/replaced (copy-on-write).
func (f *Frame) WithColumn(s *Series) (*Frame, error) {
	cols := make([]*Series, 0, len(f.columnNames)+1)
	replaced := false
	for _, name := range f.columnNames {
		if name == s.Name {
			cols = append(cols, s)
			replaced = true
		} else {
			cols = append(cols, f.columns[name])
		}
	}
	if !replaced {
		cols = append(cols, s)
	}
	return NewFrame(cols)
}

// DropColumn returns a new frame without name.
func (f *Frame) DropColumn(name string) *Frame {
	cols := make([]*Series, 0, len(f.columnNames))
	for _, n := range f.columnNames {
		if n != name {
			cols = append(cols, f.columns[n])
		}
	}
	return MustNewFrame(cols)
}

// Select returns a new frame projected onto the given columns, in the order requested.
func (f *Frame) Select(names []string) (*Frame, error) {
	cols := make([]*Series, 0, len(names))
	for _, n := range names {
		c := f.columns[n]
		if c == nil {
			return nil, fmt.Errorf("column %q not found", n)
		}
		cols = append(cols, c)
	}
	return NewFrame(cols)
}

// SliceRows returns a new frame with rows [start, end) (Python-style
// half-open, caller already resolved negative/clamped bounds).
func (f *Frame) SliceRows(start, end int) *Frame {
	if start < 0 {
		start = 0
	}
	if end > f.numRows {
		end = f.numRows
	}
	if start > end {
		start = end
	}
	cols := make([]*Series, 0, len(f.columnNames))
	for _, name := range f.columnNames {
		src := f.columns[name]
		cols = append(cols, NewSeries(name, src.DType, append([]Value{}, src.Data[start:end]...)))
	}
	return MustNewFrame(cols)
}

// FilterRows returns a new frame retaining only rows where keep(i) is true.
func (f *Frame) FilterRows(keep func(i int) bool) *Frame {
	idx := make([]int, 0, f.numRows)
	for i := 0; i < f.numRows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return f.TakeRows(idx)
}

// TakeRows returns a new frame containing exactly the given row indices, in order.
func (f *Frame) TakeRows(idx []int) *Frame {
	cols := make([]*Series, 0, len(f.columnNames))
	for _, name := range f.columnNames {
		src := f.columns[name]
		data := make([]Value, len(idx))
		for i, r := range idx {
			data[i] = src.Get(r)
		}
		cols = append(cols, NewSeries(name, src.DType, data))
	}
	return MustNewFrame(cols)
}

// LazyFrame is a deferred frame: a pending transform chain over a source
// frame, materialized on Collect.
type LazyFrame struct {
	source *Frame
	ops    []func(*Frame) (*Frame, error)
}

func NewLazyFrame(source *Frame) *LazyFrame {
	return &LazyFrame{source: source}
}

// Then appends a deferred transform and returns a new LazyFrame (the
// receiver's op list is not mutated).
func (lf *LazyFrame) Then(op func(*Frame) (*Frame, error)) *LazyFrame {
	ops := make([]func(*Frame) (*Frame, error), len(lf.ops)+1)
	copy(ops, lf.ops)
	ops[len(lf.ops)] = op
	return &LazyFrame{source: lf.source, ops: ops}
}

// Collect runs every deferred transform in order and returns the result.
func (lf *LazyFrame) Collect() (*Frame, error) {
	f := lf.source
	for _, op := range lf.ops {
		var err error
		f, err = op(f)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}
