// CSV/TSV codec, built on a header-row + encoding/csv.Reader/Writer
// shape: configurable separator/comment, header flag, null-value
// list, skip-rows before/after header, comma-or-tab auto-detection,
// infer_schema_length, and trim_whitespace. The quote character is
// always encoding/csv's `"`; Options.Quote is not consulted.
package codec

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"dsq/internal/value"
)

// Options mirrors internal/config's Formats.CSV knobs.
type Options struct {
	Separator         rune // 0 triggers auto-detection
	Quote             rune
	Comment           rune
	HasHeader         bool
	NullValues        []string
	SkipRowsBefore    int
	SkipRowsAfter     int
	InferSchemaLength int // 0 means scan all rows
	TrimWhitespace    bool
}

// DefaultOptions matches 's stated defaults.
func DefaultOptions() Options {
	return Options{
		Separator: ',',
		Quote:     '"',
		HasHeader: true,
	}
}

// DetectSeparator auto-detects comma vs tab by checking which yields the
// same field count, greater than one, across every non-blank sampled
// line; comma wins when both or neither do.
func DetectSeparator(data []byte) rune {
	lines := strings.Split(string(data), "\n")
	sample := lines
	if len(sample) > 20 {
		sample = sample[:20]
	}
	commaOK := consistentFieldCount(sample, ',')
	tabOK := consistentFieldCount(sample, '\t')
	if tabOK && !commaOK {
		return '\t'
	}
	return ','
}

func consistentFieldCount(lines []string, sep rune) bool {
	want := -1
	seen := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := strings.Count(l, string(sep)) + 1
		if want == -1 {
			want = n
		} else if n != want {
			return false
		}
		seen++
	}
	return seen > 0 && want > 1
}

// DecodeCSV parses CSV/TSV bytes into a frame value.
func DecodeCSV(data []byte, opts Options) (value.Value, error) {
	sep := opts.Separator
	if sep == 0 {
		sep = DetectSeparator(data)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	if opts.Comment != 0 {
		r.Comment = opts.Comment
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return value.Null, ioErr("csv: " + err.Error())
	}
	if opts.SkipRowsBefore > 0 && opts.SkipRowsBefore <= len(records) {
		records = records[opts.SkipRowsBefore:]
	}

	if len(records) == 0 {
		f, _ := value.NewFrame(nil)
		return value.FrameValue(f), nil
	}

	var headers []string
	if opts.HasHeader {
		headers = records[0]
		records = records[1:]
	} else {
		headers = make([]string, len(records[0]))
		for i := range headers {
			headers[i] = "column_" + strconv.Itoa(i+1)
		}
	}
	if opts.SkipRowsAfter > 0 && opts.SkipRowsAfter <= len(records) {
		records = records[opts.SkipRowsAfter:]
	}

	nullSet := map[string]bool{}
	for _, n := range opts.NullValues {
		nullSet[n] = true
	}

	columns := make([][]string, len(headers))
	for _, rec := range records {
		for i := range headers {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			if opts.TrimWhitespace {
				cell = strings.TrimSpace(cell)
			}
			columns[i] = append(columns[i], cell)
		}
	}

	inferLen := opts.InferSchemaLength
	series := make([]*value.Series, len(headers))
	for i, name := range headers {
		series[i] = inferCSVColumn(name, columns[i], nullSet, inferLen)
	}
	f, err := value.NewFrame(series)
	if err != nil {
		return value.Null, ioErr("csv: " + err.Error())
	}
	return value.FrameValue(f), nil
}

// inferCSVColumn widens a column of raw strings to int64, float64, or
// leaves it as string, sampling the first inferLen cells (0 = all).
func inferCSVColumn(name string, cells []string, nullSet map[string]bool, inferLen int) *value.Series {
	sample := cells
	if inferLen > 0 && inferLen < len(sample) {
		sample = sample[:inferLen]
	}
	isInt, isFloat := true, true
	any := false
	for _, c := range sample {
		if c == "" || nullSet[c] {
			continue
		}
		any = true
		if _, err := strconv.ParseInt(c, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(c, 64); err != nil {
			isFloat = false
		}
	}
	if !any {
		isInt, isFloat = false, false
	}

	data := make([]value.Value, len(cells))
	dtype := value.DTypeString
	switch {
	case isInt:
		dtype = value.DTypeInt64
		for i, c := range cells {
			if c == "" || nullSet[c] {
				data[i] = value.Null
				continue
			}
			n, err := strconv.ParseInt(c, 10, 64)
			if err != nil {
				data[i] = value.String(c)
				continue
			}
			data[i] = value.Int(n)
		}
	case isFloat:
		dtype = value.DTypeFloat64
		for i, c := range cells {
			if c == "" || nullSet[c] {
				data[i] = value.Null
				continue
			}
			f, err := strconv.ParseFloat(c, 64)
			if err != nil {
				data[i] = value.String(c)
				continue
			}
			data[i] = value.Float(f)
		}
	default:
		for i, c := range cells {
			if nullSet[c] {
				data[i] = value.Null
				continue
			}
			data[i] = value.String(c)
		}
	}
	return value.NewSeries(name, dtype, data)
}

// EncodeCSV renders a frame value as CSV/TSV bytes.
func EncodeCSV(v value.Value, opts Options) ([]byte, error) {
	if v.Kind() != value.KindFrame {
		return nil, ioErr("csv: output value is not a frame/table")
	}
	f := v.AsFrame()
	sep := opts.Separator
	if sep == 0 {
		sep = ','
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = sep

	names := f.ColumnNames()
	if opts.HasHeader {
		if err := w.Write(names); err != nil {
			return nil, ioErr("csv: " + err.Error())
		}
	}
	for i := 0; i < f.NumRows(); i++ {
		row := make([]string, len(names))
		for j, name := range names {
			row[j] = cellString(f.Column(name).Get(i))
		}
		if err := w.Write(row); err != nil {
			return nil, ioErr("csv: " + err.Error())
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, ioErr("csv: " + err.Error())
	}
	return buf.Bytes(), nil
}

func cellString(v value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return ""
	case value.KindString:
		return v.AsString()
	default:
		s, err := value.ToJSONString(v, false)
		if err != nil {
			return ""
		}
		return strings.Trim(s, `"`)
	}
}
