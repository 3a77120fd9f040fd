// Package config loads dsq's runtime configuration: defaults, then a
// discovered TOML/YAML file, then environment variables, then CLI
// flags. The nested Config tree is carried over
// directly from the Rust original's dsq/config.rs struct shape (see
// DESIGN.md §12) rather than flattened, since the original's grouping
// is genuinely clearer and already implies non-flat config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"dsq/internal/dsqerr"
	"dsq/internal/value"
)

// Config is the root configuration tree, mirroring the Rust original's
// io/filter/formats/display/performance/modules/debug/variables shape.
type Config struct {
	IO          IOConfig               `mapstructure:"io" yaml:"io" toml:"io"`
	Filter      FilterConfig           `mapstructure:"filter" yaml:"filter" toml:"filter"`
	Formats     FormatConfigs          `mapstructure:"formats" yaml:"formats" toml:"formats"`
	Display     DisplayConfig          `mapstructure:"display" yaml:"display" toml:"display"`
	Performance PerformanceConfig      `mapstructure:"performance" yaml:"performance" toml:"performance"`
	Modules     ModuleConfig           `mapstructure:"modules" yaml:"modules" toml:"modules"`
	Debug       DebugConfig            `mapstructure:"debug" yaml:"debug" toml:"debug"`
	Variables   map[string]value.Value `mapstructure:"-" yaml:"-" toml:"-"`
}

type IOConfig struct {
	DefaultInputFormat  string `mapstructure:"default_input_format" yaml:"default_input_format" toml:"default_input_format"`
	DefaultOutputFormat string `mapstructure:"default_output_format" yaml:"default_output_format" toml:"default_output_format"`
	AutoDetectFormat    bool   `mapstructure:"auto_detect_format" yaml:"auto_detect_format" toml:"auto_detect_format"`
	BufferSize          int    `mapstructure:"buffer_size" yaml:"buffer_size" toml:"buffer_size"`
	OverwriteByDefault  bool   `mapstructure:"overwrite_by_default" yaml:"overwrite_by_default" toml:"overwrite_by_default"`
	MaxMemoryFileSize   int    `mapstructure:"max_memory_file_size" yaml:"max_memory_file_size" toml:"max_memory_file_size"`
	Limit               int    `mapstructure:"limit" yaml:"limit" toml:"limit"` // output row cap; no CLI flag sets it and nothing reads it
}

type FilterConfig struct {
	LazyEvaluation         bool   `mapstructure:"lazy_evaluation" yaml:"lazy_evaluation" toml:"lazy_evaluation"`
	DataframeOptimizations bool   `mapstructure:"dataframe_optimizations" yaml:"dataframe_optimizations" toml:"dataframe_optimizations"`
	OptimizationLevel      string `mapstructure:"optimization_level" yaml:"optimization_level" toml:"optimization_level"`
	MaxRecursionDepth      int    `mapstructure:"max_recursion_depth" yaml:"max_recursion_depth" toml:"max_recursion_depth"`
	MaxExecutionTimeMs     int    `mapstructure:"max_execution_time_ms" yaml:"max_execution_time_ms" toml:"max_execution_time_ms"`
	CollectStats           bool   `mapstructure:"collect_stats" yaml:"collect_stats" toml:"collect_stats"`
	ErrorMode              string `mapstructure:"error_mode" yaml:"error_mode" toml:"error_mode"`
}

type FormatConfigs struct {
	CSV     CSVConfig     `mapstructure:"csv" yaml:"csv" toml:"csv"`
	JSON    JSONConfig    `mapstructure:"json" yaml:"json" toml:"json"`
	Parquet ParquetConfig `mapstructure:"parquet" yaml:"parquet" toml:"parquet"`
}

// CSVConfig carries infer_schema_length/trim_whitespace/null_values,
// present in the Rust original but only loosely implied by the original design notes §6.
type CSVConfig struct {
	Separator         string   `mapstructure:"separator" yaml:"separator" toml:"separator"`
	HasHeader         bool     `mapstructure:"has_header" yaml:"has_header" toml:"has_header"`
	QuoteChar         string   `mapstructure:"quote_char" yaml:"quote_char" toml:"quote_char"`
	CommentChar       string   `mapstructure:"comment_char" yaml:"comment_char" toml:"comment_char"`
	NullValues        []string `mapstructure:"null_values" yaml:"null_values" toml:"null_values"`
	TrimWhitespace    bool     `mapstructure:"trim_whitespace" yaml:"trim_whitespace" toml:"trim_whitespace"`
	InferSchemaLength int      `mapstructure:"infer_schema_length" yaml:"infer_schema_length" toml:"infer_schema_length"`
}

type JSONConfig struct {
	PrettyPrint     bool `mapstructure:"pretty_print" yaml:"pretty_print" toml:"pretty_print"`
	MaintainOrder   bool `mapstructure:"maintain_order" yaml:"maintain_order" toml:"maintain_order"`
	SortKeys        bool `mapstructure:"sort_keys" yaml:"sort_keys" toml:"sort_keys"`
}

type ParquetConfig struct {
	Compression     string `mapstructure:"compression" yaml:"compression" toml:"compression"`
	WriteStatistics bool   `mapstructure:"write_statistics" yaml:"write_statistics" toml:"write_statistics"`
	RowGroupSize    int    `mapstructure:"row_group_size" yaml:"row_group_size" toml:"row_group_size"`
}

type DisplayConfig struct {
	Color      ColorConfig `mapstructure:"color" yaml:"color" toml:"color"`
	Compact    bool        `mapstructure:"compact" yaml:"compact" toml:"compact"`
	SortKeys   bool        `mapstructure:"sort_keys" yaml:"sort_keys" toml:"sort_keys"`
	RawOutput  bool        `mapstructure:"raw_output" yaml:"raw_output" toml:"raw_output"`
	ExitStatus bool        `mapstructure:"exit_status" yaml:"exit_status" toml:"exit_status"`
}

type ColorConfig struct {
	Enabled    *bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	AutoDetect bool  `mapstructure:"auto_detect" yaml:"auto_detect" toml:"auto_detect"`
}

type PerformanceConfig struct {
	BatchSize   int  `mapstructure:"batch_size" yaml:"batch_size" toml:"batch_size"`
	MemoryLimit int  `mapstructure:"memory_limit" yaml:"memory_limit" toml:"memory_limit"` // bytes; 0 = unset
	Threads     int  `mapstructure:"threads" yaml:"threads" toml:"threads"`
	Parallel    bool `mapstructure:"parallel" yaml:"parallel" toml:"parallel"`
}

type ModuleConfig struct {
	LibraryPaths []string `mapstructure:"library_paths" yaml:"library_paths" toml:"library_paths"`
	AutoLoad     []string `mapstructure:"auto_load" yaml:"auto_load" toml:"auto_load"`
}

type DebugConfig struct {
	Verbosity int    `mapstructure:"verbosity" yaml:"verbosity" toml:"verbosity"`
	ShowPlans bool   `mapstructure:"show_plans" yaml:"show_plans" toml:"show_plans"`
	DebugMode bool   `mapstructure:"debug_mode" yaml:"debug_mode" toml:"debug_mode"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file" toml:"log_file"`
}

// Default returns the baseline configuration ("defaults").
func Default() *Config {
	return &Config{
		IO: IOConfig{
			AutoDetectFormat: true,
			BufferSize:       64 * 1024,
		},
		Filter: FilterConfig{
			LazyEvaluation:    false,
			MaxRecursionDepth: 500,
			ErrorMode:         "strict",
		},
		Formats: FormatConfigs{
			CSV: CSVConfig{
				Separator:         ",",
				HasHeader:         true,
				QuoteChar:         `"`,
				InferSchemaLength: 0,
			},
			JSON: JSONConfig{SortKeys: false},
			Parquet: ParquetConfig{
				Compression: "snappy",
			},
		},
		Display: DisplayConfig{
			Color: ColorConfig{AutoDetect: true},
		},
		Performance: PerformanceConfig{
			BatchSize: 1000,
			Threads:   0,
		},
		Variables: map[string]value.Value{},
	}
}

// configFileCandidates implements 's search order: ./dsq.{toml,
// yaml}, ./.dsq.{toml,yaml}, $HOME/.config/dsq/…, $HOME/.dsq.*,
// /etc/dsq/….
func configFileCandidates() []string {
	home, _ := os.UserHomeDir()
	candidates := []string{
		"dsq.toml", "dsq.yaml", "dsq.yml",
		".dsq.toml", ".dsq.yaml", ".dsq.yml",
	}
	if home != "" {
		candidates = append(candidates,
			filepath.Join(home, ".config", "dsq", "config.toml"),
			filepath.Join(home, ".config", "dsq", "config.yaml"),
			filepath.Join(home, ".dsq.toml"),
			filepath.Join(home, ".dsq.yaml"),
		)
	}
	candidates = append(candidates,
		filepath.Join("/etc", "dsq", "config.toml"),
		filepath.Join("/etc", "dsq", "config.yaml"),
	)
	return candidates
}

// FindConfigFile returns the first existing candidate path, if any.
func FindConfigFile() (string, bool) {
	for _, path := range configFileCandidates() {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Load builds a Config by layering a discovered file (via viper, per
// DESIGN.md §12) over Default, then applying environment overrides.
func Load() (*Config, error) {
	cfg := Default()
	if path, ok := FindConfigFile(); ok {
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return dsqerr.New(dsqerr.KindConfig, "config: "+err.Error())
	}

	v := viper.New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		v.SetConfigType("toml")
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	default:
		return dsqerr.New(dsqerr.KindConfig, "config: unrecognized extension for "+path)
	}
	if err := v.ReadConfig(strings.NewReader(string(data))); err != nil {
		return dsqerr.New(dsqerr.KindConfig, "config: "+err.Error())
	}
	if err := v.Unmarshal(cfg); err != nil {
		return dsqerr.New(dsqerr.KindConfig, "config: "+err.Error())
	}
	return nil
}

// Save writes cfg to path as TOML or YAML, inferred from extension.
func Save(cfg *Config, path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err = toml.Marshal(cfg)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return dsqerr.New(dsqerr.KindConfig, "config: unrecognized extension for "+path)
	}
	if err != nil {
		return dsqerr.New(dsqerr.KindConfig, "config: "+err.Error())
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnv overrides cfg fields from the DSQ_* environment variables.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("DSQ_LAZY"); ok {
		cfg.Filter.LazyEvaluation = parseBool(v, cfg.Filter.LazyEvaluation)
	}
	if v, ok := os.LookupEnv("DSQ_COLORS"); ok {
		b := parseBool(v, true)
		cfg.Display.Color.Enabled = &b
	}
	if v, ok := os.LookupEnv("DSQ_LIBRARY_PATH"); ok {
		cfg.Modules.LibraryPaths = filepath.SplitList(v)
	}
	if v, ok := os.LookupEnv("DSQ_BATCH_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Performance.BatchSize = n
		}
	}
	if v, ok := os.LookupEnv("DSQ_MEMORY_LIMIT"); ok {
		if n, err := ParseMemoryLimit(v); err == nil {
			cfg.Performance.MemoryLimit = n
		}
	}
	if v, ok := os.LookupEnv("DSQ_THREADS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Performance.Threads = n
		}
	}
	if v, ok := os.LookupEnv("DSQ_DEBUG"); ok {
		cfg.Debug.DebugMode = parseBool(v, cfg.Debug.DebugMode)
	}
	if v, ok := os.LookupEnv("DSQ_VERBOSITY"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Debug.Verbosity = n
		}
	}
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

// ParseMemoryLimit parses a byte count with an optional B/KB/MB/GB
// suffix, case-insensitive.
func ParseMemoryLimit(s string) (int, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	multiplier := 1
	suffixes := []struct {
		suffix string
		mul    int
	}{
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	}
	for _, sfx := range suffixes {
		if strings.HasSuffix(s, sfx.suffix) {
			multiplier = sfx.mul
			s = strings.TrimSuffix(s, sfx.suffix)
			break
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, dsqerr.New(dsqerr.KindConfig, fmt.Sprintf("invalid memory limit %q", s))
	}
	return n * multiplier, nil
}
