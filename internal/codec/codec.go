// Package codec implements the §6 file-format boundary: JSON,
// JSON-lines, JSON5, CSV/TSV, and (via internal/codec/parquet) Parquet
// read/write. Codecs convert between raw bytes and internal/value
// values; the executor never sees a format-specific type.
package codec

import (
	"path/filepath"
	"strings"

	"dsq/internal/dsqerr"
)

// Format identifies a wire format ("File formats").
type Format string

const (
	FormatJSON    Format = "json"
	FormatJSONL   Format = "jsonl"
	FormatJSON5   Format = "json5"
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatParquet Format = "parquet"
)

// DetectFromPath infers a Format from a file extension.
func DetectFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".jsonl", ".ndjson":
		return FormatJSONL, true
	case ".json5":
		return FormatJSON5, true
	case ".csv":
		return FormatCSV, true
	case ".tsv":
		return FormatTSV, true
	case ".parquet":
		return FormatParquet, true
	default:
		return "", false
	}
}

func ioErr(message string) error {
	return dsqerr.New(dsqerr.KindIO, message)
}
