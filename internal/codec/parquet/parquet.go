// Package parquet implements the Parquet half of the codec boundary,
// built on github.com/parquet-go/parquet-go (see DESIGN.md). Schemas
// are built dynamically from a frame's column names/dtypes rather than
// from a fixed Go struct, since dsq frames have a schema only known at
// runtime.
package parquet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"dsq/internal/dsqerr"
	"dsq/internal/value"
)

// Options carries the Parquet write-side knobs calls out
// ("compression setting carried through").
type Options struct {
	Compression string // "", "snappy", "gzip", "zstd", "uncompressed"
}

func compressionCodec(name string) parquet.Compression {
	switch name {
	case "gzip":
		return &parquet.Gzip
	case "zstd":
		return &parquet.Zstd
	case "uncompressed", "none":
		return &parquet.Uncompressed
	default:
		return &parquet.Snappy
	}
}

// schemaFromFrame builds a dynamic *parquet.Schema from a frame's
// columns, widening every column to its nearest Parquet leaf type and
// marking every field optional (frames may contain nulls).
func schemaFromFrame(f *value.Frame) *parquet.Schema {
	group := parquet.Group{}
	for _, name := range f.ColumnNames() {
		col := f.Column(name)
		group[name] = parquet.Optional(leafNode(col.DType))
	}
	return parquet.NewSchema("dsq_row", group)
}

func leafNode(dt value.DType) parquet.Node {
	switch dt {
	case value.DTypeBool:
		return parquet.Leaf(parquet.BooleanType)
	case value.DTypeInt8, value.DTypeInt16, value.DTypeInt32, value.DTypeInt64:
		return parquet.Int(64)
	case value.DTypeUint8, value.DTypeUint16, value.DTypeUint32, value.DTypeUint64:
		return parquet.Uint(64)
	case value.DTypeFloat32, value.DTypeFloat64:
		return parquet.Leaf(parquet.DoubleType)
	case value.DTypeBinary:
		return parquet.Leaf(parquet.ByteArrayType)
	default:
		return parquet.String()
	}
}

// Encode writes a frame value as Parquet bytes.
func Encode(v value.Value, opts Options) ([]byte, error) {
	if v.Kind() != value.KindFrame {
		return nil, dsqerr.New(dsqerr.KindIO, "parquet: output value is not a frame/table")
	}
	f := v.AsFrame()
	schema := schemaFromFrame(f)

	var buf bytes.Buffer
	writer := parquet.NewGenericWriter[map[string]any](&buf,
		schema,
		parquet.Compression(compressionCodec(opts.Compression)),
	)

	names := f.ColumnNames()
	rows := make([]map[string]any, f.NumRows())
	for i := 0; i < f.NumRows(); i++ {
		row := make(map[string]any, len(names))
		for _, name := range names {
			g, err := value.ToGo(f.Column(name).Get(i))
			if err != nil {
				return nil, dsqerr.New(dsqerr.KindIO, fmt.Sprintf("parquet: %v", err))
			}
			row[name] = g
		}
		rows[i] = row
	}
	if _, err := writer.Write(rows); err != nil {
		return nil, dsqerr.New(dsqerr.KindIO, "parquet: "+err.Error())
	}
	if err := writer.Close(); err != nil {
		return nil, dsqerr.New(dsqerr.KindIO, "parquet: "+err.Error())
	}
	return buf.Bytes(), nil
}

// Decode reads Parquet bytes into a frame value. Column dtypes are
// inferred from each column's first non-null decoded value.
func Decode(data []byte) (value.Value, error) {
	reader := parquet.NewGenericReader[map[string]any](bytes.NewReader(data), int64(len(data)))
	defer reader.Close()

	schema := reader.Schema()
	names := make([]string, 0)
	for _, f := range schema.Fields() {
		names = append(names, f.Name())
	}

	var allRows []map[string]any
	buf := make([]map[string]any, 1024)
	for i := range buf {
		buf[i] = map[string]any{}
	}
	for {
		n, err := reader.Read(buf)
		for i := 0; i < n; i++ {
			allRows = append(allRows, buf[i])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return value.Null, dsqerr.New(dsqerr.KindIO, "parquet: "+err.Error())
		}
		if n == 0 {
			break
		}
	}

	columns := make(map[string][]value.Value, len(names))
	for _, name := range names {
		columns[name] = make([]value.Value, len(allRows))
	}
	for i, row := range allRows {
		for _, name := range names {
			columns[name][i] = value.FromGo(row[name])
		}
	}

	series := make([]*value.Series, len(names))
	for i, name := range names {
		series[i] = value.NewSeries(name, inferDType(columns[name]), columns[name])
	}
	f, err := value.NewFrame(series)
	if err != nil {
		return value.Null, dsqerr.New(dsqerr.KindIO, "parquet: "+err.Error())
	}
	return value.FrameValue(f), nil
}

func inferDType(vs []value.Value) value.DType {
	for _, v := range vs {
		switch v.Kind() {
		case value.KindInt, value.KindBigInt:
			return value.DTypeInt64
		case value.KindFloat:
			return value.DTypeFloat64
		case value.KindBool:
			return value.DTypeBool
		case value.KindString:
			return value.DTypeString
		}
	}
	return value.DTypeString
}
