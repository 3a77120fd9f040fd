package codec

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"dsq/internal/pexec"
	"dsq/internal/value"
)

// JSONOptions controls encoding.
type JSONOptions struct {
	Pretty   bool
	SortKeys bool
}

// DecodeJSON parses a single JSON document").
func DecodeJSON(data []byte) (value.Value, error) {
	v, err := value.FromJSONBytes(data)
	if err != nil {
		return value.Null, ioErr("json: " + err.Error())
	}
	return v, nil
}

// EncodeJSON renders v as JSON text per opts. A large frame (§5's
// first parallel region, >10 000 rows) converts its rows to Go values
// concurrently via internal/pexec before a single sequential
// json.Marshal; the conversion is the expensive step, not the encode.
func EncodeJSON(v value.Value, opts JSONOptions) ([]byte, error) {
	if v.Kind() == value.KindFrame && v.AsFrame().NumRows() > pexec.ParallelThreshold {
		return encodeLargeFrameJSON(v.AsFrame(), opts)
	}
	s, err := value.ToJSONString(v, opts.Pretty)
	if err != nil {
		return nil, ioErr("json: " + err.Error())
	}
	return []byte(s), nil
}

func encodeLargeFrameJSON(f *value.Frame, opts JSONOptions) ([]byte, error) {
	n := f.NumRows()
	results, err := pexec.MapChunks(context.Background(), n, 0, func(start, end int) (interface{}, error) {
		chunk := make([]interface{}, end-start)
		for i := start; i < end; i++ {
			g, err := value.ToGo(f.Row(i))
			if err != nil {
				return nil, err
			}
			chunk[i-start] = g
		}
		return chunk, nil
	})
	if err != nil {
		return nil, ioErr("json: " + err.Error())
	}
	rows := make([]interface{}, 0, n)
	for _, r := range results {
		if r == nil {
			continue
		}
		rows = append(rows, r.([]interface{})...)
	}
	var out []byte
	if opts.Pretty {
		out, err = json.MarshalIndent(rows, "", "  ")
	} else {
		out, err = json.Marshal(rows)
	}
	if err != nil {
		return nil, ioErr("json: " + err.Error())
	}
	return out, nil
}

// DecodeJSONLines parses one JSON value per non-blank line") into an array value.
func DecodeJSONLines(r io.Reader) (value.Value, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var out []value.Value
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		v, err := value.FromJSONBytes(line)
		if err != nil {
			return value.Null, ioErr("jsonl: " + err.Error())
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return value.Null, ioErr("jsonl: " + err.Error())
	}
	return value.Array(out), nil
}

// EncodeJSONLines writes one compact JSON value per line. If v is not
// an array, it writes a single line.
func EncodeJSONLines(v value.Value) ([]byte, error) {
	elems := []value.Value{v}
	if v.Kind() == value.KindArray {
		elems = v.AsArray()
	}
	var buf bytes.Buffer
	for _, e := range elems {
		s, err := value.ToJSONString(e, false)
		if err != nil {
			return nil, ioErr("jsonl: " + err.Error())
		}
		buf.WriteString(s)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
