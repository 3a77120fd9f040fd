package config

import "testing"

func TestParseMemoryLimit(t *testing.T) {
	cases := map[string]int{
		"1024":  1024,
		"1KB":   1 << 10,
		"2MB":   2 << 20,
		"1GB":   1 << 30,
		"10B":   10,
		"1gb":   1 << 30,
	}
	for in, want := range cases {
		got, err := ParseMemoryLimit(in)
		if err != nil {
			t.Fatalf("ParseMemoryLimit(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMemoryLimit(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseMemoryLimitInvalid(t *testing.T) {
	if _, err := ParseMemoryLimit("not-a-number"); err == nil {
		t.Fatal("expected error for invalid memory limit")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Filter.MaxRecursionDepth != 500 {
		t.Fatalf("default max recursion depth = %d", cfg.Filter.MaxRecursionDepth)
	}
	if cfg.Filter.ErrorMode != "strict" {
		t.Fatalf("default error mode = %q", cfg.Filter.ErrorMode)
	}
	if cfg.Formats.CSV.Separator != "," {
		t.Fatalf("default CSV separator = %q", cfg.Formats.CSV.Separator)
	}
}

func TestApplyEnvOverridesBatchSize(t *testing.T) {
	cfg := Default()
	t.Setenv("DSQ_BATCH_SIZE", "2500")
	applyEnv(cfg)
	if cfg.Performance.BatchSize != 2500 {
		t.Fatalf("batch size after env override = %d", cfg.Performance.BatchSize)
	}
}

func TestApplyEnvMemoryLimit(t *testing.T) {
	cfg := Default()
	t.Setenv("DSQ_MEMORY_LIMIT", "1GB")
	applyEnv(cfg)
	if cfg.Performance.MemoryLimit != 1<<30 {
		t.Fatalf("memory limit after env override = %d", cfg.Performance.MemoryLimit)
	}
}
