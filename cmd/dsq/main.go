// cmd/dsq is the CLI entrypoint: it reads filter text and
// tabular/JSON input, runs the filter through the core compiler and
// executor, and writes the formatted result to stdout. Built on
// github.com/spf13/cobra rather than a hand-rolled alias-dispatch
// switch (see DESIGN.md for the rationale).
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"dsq/internal/codec"
	"dsq/internal/codec/parquet"
	"dsq/internal/compiler"
	"dsq/internal/config"
	"dsq/internal/dsqerr"
	"dsq/internal/exec"
	"dsq/internal/filterast"
	"dsq/internal/formatter"
	"dsq/internal/value"
)

var version = "0.1.0"

type cliOptions struct {
	inputFormat  string
	outputFormat string
	filterFile   string
	lazy         bool
	noLazy       bool
	slurp        bool
	rawOutput    bool
	compact      bool
	sortKeys     bool
	color        bool
	noColor      bool
	libraryPath  []string
	args         []string
	argjson      []string
	batchSize    int
	memoryLimit  string
	threads      int
	verbose      bool
	exitStatus   bool
}

func main() {
	os.Exit(runMain())
}

// runMain builds and executes the root command, returning the process
// exit code instead of calling os.Exit directly so the testscript
// suite can drive it in-process via testscript.RunMain.
func runMain() int {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:     "dsq [flags] <filter> [files...]",
		Short:   "dsq runs a jq-like filter over JSON, CSV, TSV, or Parquet data",
		Version: version,
		Args:    cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
		SilenceUsage: true,
	}

	flags := root.Flags()
	flags.StringVarP(&opts.inputFormat, "input-format", "i", "", "force input format (json|jsonl|json5|csv|tsv|parquet)")
	flags.StringVarP(&opts.outputFormat, "output-format", "o", "", "force output format")
	flags.StringVarP(&opts.filterFile, "from-file", "f", "", "read the filter program from a file")
	flags.BoolVar(&opts.lazy, "lazy", false, "enable lazy-frame evaluation")
	flags.BoolVar(&opts.noLazy, "no-lazy", false, "disable lazy-frame evaluation")
	flags.BoolVar(&opts.slurp, "slurp", false, "read the whole input as a single array")
	flags.BoolVarP(&opts.rawOutput, "raw-output", "r", false, "print a bare string without quotes")
	flags.BoolVarP(&opts.compact, "compact-output", "c", false, "print compact JSON instead of pretty")
	flags.BoolVar(&opts.sortKeys, "sort-keys", false, "sort object keys in output")
	flags.BoolVar(&opts.color, "color", false, "force colorized output")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colorized output")
	flags.StringSliceVarP(&opts.libraryPath, "library-path", "L", nil, "extend the module library search path")
	flags.StringArrayVar(&opts.args, "arg", nil, "bind a string variable: --arg name value")
	flags.StringArrayVar(&opts.argjson, "argjson", nil, "bind a JSON-decoded variable: --argjson name json")
	flags.IntVar(&opts.batchSize, "batch-size", 0, "override the configured batch size")
	flags.StringVar(&opts.memoryLimit, "memory-limit", "", "override the configured memory limit (e.g. 512MB)")
	flags.IntVar(&opts.threads, "threads", 0, "override the configured worker thread count")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print diagnostics to stderr")
	flags.BoolVar(&opts.exitStatus, "exit-status", false, "exit 1 if the final value is false or null")

	if err := root.Execute(); err != nil {
		var derr *dsqerr.Error
		if asDsqErr(err, &derr) {
			fmt.Fprintln(os.Stderr, derr.Error())
			return derr.ExitCode()
		}
		fmt.Fprintln(os.Stderr, "dsq: "+err.Error())
		return 1
	}
	return 0
}

func asDsqErr(err error, out **dsqerr.Error) bool {
	if derr, ok := err.(*dsqerr.Error); ok {
		*out = derr
		return true
	}
	return false
}

func run(cmd *cobra.Command, args []string, opts *cliOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, opts)

	program, remaining, err := resolveProgram(args, opts)
	if err != nil {
		return err
	}

	expr, err := filterast.ParseExpr(program)
	if err != nil {
		return dsqerr.New(dsqerr.KindParse, err.Error())
	}
	compiled, err := compiler.Compile(expr)
	if err != nil {
		return dsqerr.New(dsqerr.KindCompile, err.Error())
	}

	input, err := readInput(remaining, opts, cfg)
	if err != nil {
		return err
	}

	errorMode := exec.ErrorModeStrict
	switch cfg.Filter.ErrorMode {
	case "collect":
		errorMode = exec.ErrorModeCollect
	case "ignore":
		errorMode = exec.ErrorModeIgnore
	}
	ctx := exec.New(errorMode)
	if cfg.Filter.MaxExecutionTimeMs > 0 {
		deadline := time.Now().Add(time.Duration(cfg.Filter.MaxExecutionTimeMs) * time.Millisecond)
		ctx.WithDeadline(cmd.Context(), deadline)
	}
	if err := bindVariables(ctx, opts); err != nil {
		return err
	}

	out, err := compiled.Eval(ctx, input)
	if err != nil {
		return toRuntimeDsqErr(err)
	}

	outFormat := resolveOutputFormat(opts, cfg)
	formatted, err := renderOutput(out, outFormat, opts, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, formatted)

	if opts.exitStatus && !out.IsTruthy() {
		os.Exit(1)
	}
	return nil
}

func applyFlagOverrides(cfg *config.Config, opts *cliOptions) {
	if opts.lazy {
		cfg.Filter.LazyEvaluation = true
	}
	if opts.noLazy {
		cfg.Filter.LazyEvaluation = false
	}
	if opts.batchSize > 0 {
		cfg.Performance.BatchSize = opts.batchSize
	}
	if opts.memoryLimit != "" {
		if n, err := config.ParseMemoryLimit(opts.memoryLimit); err == nil {
			cfg.Performance.MemoryLimit = n
		}
	}
	if opts.threads > 0 {
		cfg.Performance.Threads = opts.threads
	}
	if len(opts.libraryPath) > 0 {
		cfg.Modules.LibraryPaths = append(cfg.Modules.LibraryPaths, opts.libraryPath...)
	}
}

// resolveProgram separates the filter-program argument from the file
// operands ("reads filter text from argument or file").
func resolveProgram(args []string, opts *cliOptions) (program string, remaining []string, err error) {
	if opts.filterFile != "" {
		data, rerr := os.ReadFile(opts.filterFile)
		if rerr != nil {
			return "", nil, dsqerr.New(dsqerr.KindIO, "reading filter file: "+rerr.Error())
		}
		return string(data), args, nil
	}
	if len(args) == 0 {
		return "", nil, dsqerr.New(dsqerr.KindConfig, "usage: dsq [flags] <filter> [files...]")
	}
	return args[0], args[1:], nil
}

func readInput(files []string, opts *cliOptions, cfg *config.Config) (value.Value, error) {
	format, csvOpts, err := resolveInputFormat(files, opts, cfg)
	if err != nil {
		return value.Null, err
	}

	var data []byte
	if len(files) == 0 {
		data, err = io.ReadAll(bufio.NewReader(os.Stdin))
	} else {
		data, err = os.ReadFile(files[0])
	}
	if err != nil {
		return value.Null, dsqerr.New(dsqerr.KindIO, "reading input: "+err.Error())
	}

	v, err := codec.Decode(format, data, csvOpts)
	if err != nil {
		return value.Null, err
	}
	if opts.slurp && v.Kind() != value.KindArray {
		v = value.Array([]value.Value{v})
	}
	return v, nil
}

func resolveInputFormat(files []string, opts *cliOptions, cfg *config.Config) (codec.Format, codec.Options, error) {
	csvOpts := csvOptionsFromConfig(cfg)
	if opts.inputFormat != "" {
		return codec.Format(opts.inputFormat), csvOpts, nil
	}
	if cfg.IO.DefaultInputFormat != "" {
		return codec.Format(cfg.IO.DefaultInputFormat), csvOpts, nil
	}
	if len(files) > 0 {
		if f, ok := codec.DetectFromPath(files[0]); ok {
			return f, csvOpts, nil
		}
	}
	return codec.FormatJSON, csvOpts, nil
}

func resolveOutputFormat(opts *cliOptions, cfg *config.Config) codec.Format {
	if opts.outputFormat != "" {
		return codec.Format(opts.outputFormat)
	}
	if cfg.IO.DefaultOutputFormat != "" {
		return codec.Format(cfg.IO.DefaultOutputFormat)
	}
	return codec.FormatJSON
}

func csvOptionsFromConfig(cfg *config.Config) codec.Options {
	o := codec.DefaultOptions()
	if cfg.Formats.CSV.Separator != "" {
		o.Separator = []rune(cfg.Formats.CSV.Separator)[0]
	}
	if cfg.Formats.CSV.QuoteChar != "" {
		o.Quote = []rune(cfg.Formats.CSV.QuoteChar)[0]
	}
	if cfg.Formats.CSV.CommentChar != "" {
		o.Comment = []rune(cfg.Formats.CSV.CommentChar)[0]
	}
	o.HasHeader = cfg.Formats.CSV.HasHeader
	o.NullValues = cfg.Formats.CSV.NullValues
	o.InferSchemaLength = cfg.Formats.CSV.InferSchemaLength
	o.TrimWhitespace = cfg.Formats.CSV.TrimWhitespace
	return o
}

// renderOutput dispatches non-JSON-family output straight to the
// codec layer ("-o csv" writes the result as CSV) and
// everything else through internal/formatter for CLI display.
func renderOutput(v value.Value, format codec.Format, opts *cliOptions, cfg *config.Config) (string, error) {
	switch format {
	case codec.FormatCSV, codec.FormatTSV, codec.FormatParquet:
		pqOpts := parquet.Options{Compression: cfg.Formats.Parquet.Compression}
		data, err := codec.Encode(format, v, codec.JSONOptions{}, csvOptionsFromConfig(cfg), pqOpts)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		fopts := formatter.Options{
			Compact:   opts.compact || cfg.Display.Compact,
			SortKeys:  opts.sortKeys || cfg.Display.SortKeys || cfg.Formats.JSON.SortKeys,
			RawOutput: opts.rawOutput || cfg.Display.RawOutput,
			Color:     resolveColorFlag(opts, cfg),
			NoColor:   opts.noColor,
		}
		return formatter.Format(v, fopts)
	}
}

func resolveColorFlag(opts *cliOptions, cfg *config.Config) bool {
	if opts.color {
		return true
	}
	if opts.noColor {
		return false
	}
	if cfg.Display.Color.Enabled != nil {
		return *cfg.Display.Color.Enabled
	}
	if cfg.Display.Color.AutoDetect {
		return isatty.IsTerminal(os.Stdout.Fd())
	}
	return false
}

// bindVariables implements `--arg k v` (string) and
// `--argjson k j` (parsed JSON).
func bindVariables(ctx *exec.Context, opts *cliOptions) error {
	for _, kv := range opts.args {
		name, raw, err := splitKV(kv, "--arg")
		if err != nil {
			return err
		}
		ctx.SetVar(name, value.String(raw))
	}
	for _, kv := range opts.argjson {
		name, raw, err := splitKV(kv, "--argjson")
		if err != nil {
			return err
		}
		v, err := value.FromJSONBytes([]byte(raw))
		if err != nil {
			return dsqerr.New(dsqerr.KindConfig, "--argjson "+name+": "+err.Error())
		}
		ctx.SetVar(name, v)
	}
	return nil
}

func splitKV(kv, flag string) (name, val string, err error) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], nil
		}
	}
	return "", "", dsqerr.New(dsqerr.KindConfig, flag+" expects name=value, got "+kv)
}

func toRuntimeDsqErr(err error) error {
	if _, ok := err.(*dsqerr.Error); ok {
		return err
	}
	msg := err.Error()
	switch e := err.(type) {
	case *exec.RuntimeError:
		switch e.Kind {
		case "RecursionLimit":
			return dsqerr.New(dsqerr.KindRuntimeRecursion, msg)
		case "Timeout":
			return dsqerr.New(dsqerr.KindRuntimeTimeout, msg)
		default:
			return dsqerr.New(dsqerr.KindRuntimeOperation, msg)
		}
	default:
		return dsqerr.New(dsqerr.KindRuntimeOperation, msg)
	}
}
