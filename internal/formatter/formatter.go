// Package formatter renders a value.Value as the CLI's final output
// text: compact or pretty JSON, optionally sorted keys, optionally raw
// (unquoted single string), optionally ANSI-colorized.
package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"dsq/internal/value"
)

// Options mirrors the §6 CLI output flags.
type Options struct {
	Compact    bool // --compact-output
	SortKeys   bool // --sort-keys: emit object keys in sorted order
	RawOutput  bool // --raw-output: print a bare string without quotes
	Color      bool
	NoColor    bool
	forceColor *bool // test hook
}

// ResolveColor applies §6's "--color/--no-color" precedence: an
// explicit flag wins, otherwise color follows whether stdout is a
// terminal (mattn/go-isatty, already pulled in by the pack's CLI
// stack).
func ResolveColor(opts Options, stdoutFd uintptr) bool {
	if opts.forceColor != nil {
		return *opts.forceColor
	}
	if opts.NoColor {
		return false
	}
	if opts.Color {
		return true
	}
	return isatty.IsTerminal(stdoutFd)
}

const (
	ansiReset  = "\x1b[0m"
	ansiKey    = "\x1b[34m"
	ansiString = "\x1b[32m"
	ansiNumber = "\x1b[36m"
	ansiBool   = "\x1b[33m"
	ansiNull   = "\x1b[90m"
	ansiPunct  = "\x1b[37m"
)

// Format renders v to its final CLI output string.
func Format(v value.Value, opts Options) (string, error) {
	if opts.RawOutput && v.Kind() == value.KindString {
		return v.AsString(), nil
	}
	f := &printer{indentStr: "  ", color: opts.Color && !opts.NoColor, compact: opts.Compact, sortKeys: opts.SortKeys}
	f.write(v, 0)
	return f.out.String(), nil
}

type printer struct {
	out       strings.Builder
	indentStr string
	color     bool
	compact   bool
	sortKeys  bool
}

func (p *printer) colorize(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

func (p *printer) newline(depth int) {
	if p.compact {
		return
	}
	p.out.WriteByte('\n')
	for i := 0; i < depth; i++ {
		p.out.WriteString(p.indentStr)
	}
}

func (p *printer) write(v value.Value, depth int) {
	switch v.Kind() {
	case value.KindNull:
		p.out.WriteString(p.colorize(ansiNull, "null"))
	case value.KindBool:
		p.out.WriteString(p.colorize(ansiBool, strconv.FormatBool(v.AsBool())))
	case value.KindInt:
		p.out.WriteString(p.colorize(ansiNumber, strconv.FormatInt(v.AsInt(), 10)))
	case value.KindBigInt:
		p.out.WriteString(p.colorize(ansiNumber, v.AsBigInt().String()))
	case value.KindFloat:
		p.out.WriteString(p.colorize(ansiNumber, strconv.FormatFloat(v.AsFloat(), 'g', -1, 64)))
	case value.KindString:
		p.out.WriteString(p.colorize(ansiString, quoteJSON(v.AsString())))
	case value.KindArray:
		p.writeArray(v.AsArray(), depth)
	case value.KindObject:
		p.writeObject(v, depth)
	case value.KindFrame:
		p.writeArray(v.AsFrame().Rows(), depth)
	case value.KindLazyFrame:
		f, err := v.AsLazyFrame().Collect()
		if err != nil {
			p.out.WriteString(fmt.Sprintf("<error: %v>", err))
			return
		}
		p.writeArray(f.Rows(), depth)
	case value.KindSeries:
		s := v.AsSeries()
		elems := make([]value.Value, s.Len())
		for i := 0; i < s.Len(); i++ {
			elems[i] = s.Get(i)
		}
		p.writeArray(elems, depth)
	default:
		p.out.WriteString("null")
	}
}

func (p *printer) writeArray(elems []value.Value, depth int) {
	if len(elems) == 0 {
		p.out.WriteString(p.colorize(ansiPunct, "[]"))
		return
	}
	p.out.WriteString(p.colorize(ansiPunct, "["))
	for i, e := range elems {
		p.newline(depth + 1)
		p.write(e, depth+1)
		if i < len(elems)-1 {
			p.out.WriteString(p.colorize(ansiPunct, ","))
		}
	}
	p.newline(depth)
	p.out.WriteString(p.colorize(ansiPunct, "]"))
}

func (p *printer) writeObject(v value.Value, depth int) {
	keys := v.AsObject().Keys()
	if p.sortKeys {
		sort.Strings(keys)
	}
	if len(keys) == 0 {
		p.out.WriteString(p.colorize(ansiPunct, "{}"))
		return
	}
	p.out.WriteString(p.colorize(ansiPunct, "{"))
	for i, k := range keys {
		p.newline(depth + 1)
		p.out.WriteString(p.colorize(ansiKey, quoteJSON(k)))
		if p.compact {
			p.out.WriteString(p.colorize(ansiPunct, ":"))
		} else {
			p.out.WriteString(p.colorize(ansiPunct, ": "))
		}
		val, _ := v.AsObject().Get(k)
		p.write(val, depth+1)
		if i < len(keys)-1 {
			p.out.WriteString(p.colorize(ansiPunct, ","))
		}
	}
	p.newline(depth)
	p.out.WriteString(p.colorize(ansiPunct, "}"))
}

func quoteJSON(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
