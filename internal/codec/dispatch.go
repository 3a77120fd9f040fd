package codec

import (
	"bytes"

	"dsq/internal/codec/parquet"
	"dsq/internal/value"
)

func byteReader(data []byte) *bytes.Reader {
	return bytes.NewReader(data)
}

// Decode parses data according to format, dispatching to the matching
// per-format decoder.
func Decode(format Format, data []byte, csvOpts Options) (value.Value, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatJSON5:
		return DecodeJSON5(data)
	case FormatJSONL:
		return DecodeJSONLines(byteReader(data))
	case FormatCSV:
		return DecodeCSV(data, csvOpts)
	case FormatTSV:
		tsvOpts := csvOpts
		tsvOpts.Separator = '\t'
		return DecodeCSV(data, tsvOpts)
	case FormatParquet:
		return parquet.Decode(data)
	default:
		return value.Null, ioErr("unknown format " + string(format))
	}
}

// Encode renders v according to format.
func Encode(format Format, v value.Value, jsonOpts JSONOptions, csvOpts Options, pqOpts parquet.Options) ([]byte, error) {
	switch format {
	case FormatJSON, FormatJSON5:
		return EncodeJSON(v, jsonOpts)
	case FormatJSONL:
		return EncodeJSONLines(v)
	case FormatCSV:
		return EncodeCSV(v, csvOpts)
	case FormatTSV:
		tsvOpts := csvOpts
		tsvOpts.Separator = '\t'
		return EncodeCSV(v, tsvOpts)
	case FormatParquet:
		return parquet.Encode(v, pqOpts)
	default:
		return nil, ioErr("unknown format " + string(format))
	}
}
