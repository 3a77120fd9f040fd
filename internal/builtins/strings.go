package builtins

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"dsq/internal/value"
)

func registerStringFns() {
	registerFn("tostring", 1, func(args []value.Value) (value.Value, error) {
		v := args[0]
		if v.Kind() == value.KindString {
			return v, nil
		}
		s, err := value.ToJSONString(v, false)
		if err != nil {
			return value.Null, err
		}
		return value.String(s), nil
	})
	registerFn("tonumber", 1, func(args []value.Value) (value.Value, error) {
		v := args[0]
		if value.IsNumeric(v) {
			return v, nil
		}
		if v.Kind() != value.KindString {
			return value.Null, &value.KindError{Op: "tonumber", Kind: v.TypeName()}
		}
		n, err := value.ParseNumberLiteral(strings.TrimSpace(v.AsString()))
		if err != nil {
			return value.Null, err
		}
		return n, nil
	})
	lower := func(args []value.Value) (value.Value, error) {
		return value.String(strings.ToLower(args[0].AsString())), nil
	}
	upper := func(args []value.Value) (value.Value, error) {
		return value.String(strings.ToUpper(args[0].AsString())), nil
	}
	registerFn("lowercase", 1, lower)
	registerFn("tolower", 1, lower)
	registerFn("uppercase", 1, upper)
	registerFn("toupper", 1, upper)
	registerFn("lstrip", 1, func(args []value.Value) (value.Value, error) {
		return value.String(strings.TrimLeft(args[0].AsString(), " \t\n\r")), nil
	})
	registerFn("rstrip", 1, func(args []value.Value) (value.Value, error) {
		return value.String(strings.TrimRight(args[0].AsString(), " \t\n\r")), nil
	})
	registerFn("trim", 1, func(args []value.Value) (value.Value, error) {
		return value.String(strings.TrimSpace(args[0].AsString())), nil
	})
	registerFn("contains", 2, func(args []value.Value) (value.Value, error) {
		return value.Bool(strings.Contains(args[0].AsString(), args[1].AsString())), nil
	})
	registerFn("startswith", 2, func(args []value.Value) (value.Value, error) {
		return value.Bool(strings.HasPrefix(args[0].AsString(), args[1].AsString())), nil
	})
	registerFn("endswith", 2, func(args []value.Value) (value.Value, error) {
		return value.Bool(strings.HasSuffix(args[0].AsString(), args[1].AsString())), nil
	})
	registerFn("replace", 3, func(args []value.Value) (value.Value, error) {
		return value.String(strings.ReplaceAll(args[0].AsString(), args[1].AsString(), args[2].AsString())), nil
	})
	registerFn("split", 2, func(args []value.Value) (value.Value, error) {
		parts := strings.Split(args[0].AsString(), args[1].AsString())
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.String(p)
		}
		return value.Array(out), nil
	})
	registerFn("join", 2, func(args []value.Value) (value.Value, error) {
		elems, err := elementsOf(args[0])
		if err != nil {
			return value.Null, err
		}
		sep := args[1].AsString()
		parts := make([]string, len(elems))
		for i, e := range elems {
			if e.Kind() == value.KindString {
				parts[i] = e.AsString()
			} else {
				s, err := value.ToJSONString(e, false)
				if err != nil {
					return value.Null, err
				}
				parts[i] = s
			}
		}
		return value.String(strings.Join(parts, sep)), nil
	})
	registerFn("snake_case", 1, func(args []value.Value) (value.Value, error) {
		return value.String(toSnakeCase(args[0].AsString())), nil
	})
	registerFn("camel_case", 1, func(args []value.Value) (value.Value, error) {
		return value.String(toCamelCase(args[0].AsString())), nil
	})
	registerFn("spaces_to_tabs", 1, func(args []value.Value) (value.Value, error) {
		return value.String(strings.ReplaceAll(args[0].AsString(), "    ", "\t")), nil
	})
	registerFn("tabs_to_spaces", 1, func(args []value.Value) (value.Value, error) {
		return value.String(strings.ReplaceAll(args[0].AsString(), "\t", "    ")), nil
	})
	registerFn("transliterate", 1, func(args []value.Value) (value.Value, error) {
		return value.String(toASCII(args[0].AsString())), nil
	})
	registerFn("to_ascii", 1, func(args []value.Value) (value.Value, error) {
		return value.String(toASCII(args[0].AsString())), nil
	})
	registerFn("is_valid_utf8", 1, func(args []value.Value) (value.Value, error) {
		return value.Bool(utf8.ValidString(args[0].AsString())), nil
	})
	registerFn("to_valid_utf8", 1, func(args []value.Value) (value.Value, error) {
		return value.String(strings.ToValidUTF8(args[0].AsString(), "�")), nil
	})
}

func toSnakeCase(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '-':
			b.WriteByte('_')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = true
		}
	}
	return b.String()
}

func toCamelCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(strings.ToLower(p[:1]) + p[1:])
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + strings.ToLower(p[1:]))
	}
	return b.String()
}

func toASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if repl, ok := transliterationTable[r]; ok {
			b.WriteString(repl)
			continue
		}
	}
	return b.String()
}

var transliterationTable = map[rune]string{
	'á': "a", 'à': "a", 'â': "a", 'ä': "a", 'ã': "a", 'å': "a",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'í': "i", 'ì': "i", 'î': "i", 'ï': "i",
	'ó': "o", 'ò': "o", 'ô': "o", 'ö': "o", 'õ': "o",
	'ú': "u", 'ù': "u", 'û': "u", 'ü': "u",
	'ñ': "n", 'ç': "c", 'ý': "y", 'ß': "ss",
	'Á': "A", 'À': "A", 'Â': "A", 'Ä': "A", 'Ã': "A", 'Å': "A",
	'É': "E", 'È': "E", 'Ê': "E", 'Ë': "E",
	'Í': "I", 'Ì': "I", 'Î': "I", 'Ï': "I",
	'Ó': "O", 'Ò': "O", 'Ô': "O", 'Ö': "O", 'Õ': "O",
	'Ú': "U", 'Ù': "U", 'Û': "U", 'Ü': "U",
	'Ñ': "N", 'Ç': "C", 'Ý': "Y",
}
