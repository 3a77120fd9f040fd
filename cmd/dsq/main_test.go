package main

import (
	"testing"

	"dsq/internal/codec"
	"dsq/internal/config"
)

func TestSplitKV(t *testing.T) {
	name, val, err := splitKV("limit=10", "--arg")
	if err != nil {
		t.Fatalf("splitKV: %v", err)
	}
	if name != "limit" || val != "10" {
		t.Fatalf("splitKV = %q, %q", name, val)
	}
}

func TestSplitKVMissingEquals(t *testing.T) {
	if _, _, err := splitKV("nope", "--arg"); err == nil {
		t.Fatal("expected error for missing '='")
	}
}

func TestResolveOutputFormatDefaultsToJSON(t *testing.T) {
	cfg := config.Default()
	opts := &cliOptions{}
	if got := resolveOutputFormat(opts, cfg); got != codec.FormatJSON {
		t.Fatalf("resolveOutputFormat = %v, want json", got)
	}
}

func TestResolveOutputFormatFlagWins(t *testing.T) {
	cfg := config.Default()
	cfg.IO.DefaultOutputFormat = "csv"
	opts := &cliOptions{outputFormat: "parquet"}
	if got := resolveOutputFormat(opts, cfg); got != codec.FormatParquet {
		t.Fatalf("resolveOutputFormat = %v, want parquet", got)
	}
}

func TestResolveInputFormatDetectsFromPath(t *testing.T) {
	cfg := config.Default()
	opts := &cliOptions{}
	format, _, err := resolveInputFormat([]string{"data.csv"}, opts, cfg)
	if err != nil {
		t.Fatalf("resolveInputFormat: %v", err)
	}
	if format != codec.FormatCSV {
		t.Fatalf("resolveInputFormat = %v, want csv", format)
	}
}

func TestCSVOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Formats.CSV.Separator = ";"
	o := csvOptionsFromConfig(cfg)
	if o.Separator != ';' {
		t.Fatalf("csvOptionsFromConfig separator = %q, want ;", o.Separator)
	}
}

func TestResolveColorFlagExplicitNoColor(t *testing.T) {
	cfg := config.Default()
	opts := &cliOptions{noColor: true}
	if resolveColorFlag(opts, cfg) {
		t.Fatal("expected --no-color to win")
	}
}
