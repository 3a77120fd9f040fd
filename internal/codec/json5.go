package codec

import (
	"strings"

	"dsq/internal/value"
)

// DecodeJSON5 parses a JSON5 document by rewriting the
// JSON5-specific syntax (comments, trailing commas, single-quoted
// strings, unquoted keys) down to strict JSON text and delegating to
// encoding/json. No JSON5 library appears anywhere in the retrieved
// corpus (grep across every go.mod found none), so this is a stdlib-
// only, justified exception (see DESIGN.md) — the rewrite covers the
// common JSON5 surface, not the full grammar (e.g. it does not accept
// hex numeric literals or leading `+`).
func DecodeJSON5(data []byte) (value.Value, error) {
	rewritten := stripJSON5(string(data))
	return DecodeJSON([]byte(rewritten))
}

func stripJSON5(s string) string {
	s = stripJSON5Comments(s)
	s = requoteJSON5Strings(s)
	s = requoteJSON5Keys(s)
	s = dropTrailingCommas(s)
	return s
}

// stripJSON5Comments removes `//...` and `/*...*/` comments outside of
// string literals.
func stripJSON5Comments(s string) string {
	var out strings.Builder
	inString := false
	var quote byte
	runes := []byte(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inString {
			out.WriteByte(c)
			if c == '\\' && i+1 < len(runes) {
				i++
				out.WriteByte(runes[i])
				continue
			}
			if c == quote {
				inString = false
			}
			continue
		}
		if c == '"' || c == '\'' {
			inString = true
			quote = c
			out.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(runes) && runes[i+1] == '/' {
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			if i < len(runes) {
				out.WriteByte('\n')
			}
			continue
		}
		if c == '/' && i+1 < len(runes) && runes[i+1] == '*' {
			i += 2
			for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
				i++
			}
			i++
			continue
		}
		out.WriteByte(c)
	}
	return out.String()
}

// requoteJSON5Strings rewrites single-quoted string literals to
// double-quoted JSON strings, escaping any embedded double quotes.
func requoteJSON5Strings(s string) string {
	var out strings.Builder
	runes := []byte(s)
	inDouble := false
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inDouble {
			out.WriteByte(c)
			if c == '\\' && i+1 < len(runes) {
				i++
				out.WriteByte(runes[i])
				continue
			}
			if c == '"' {
				inDouble = false
			}
			continue
		}
		if c == '"' {
			inDouble = true
			out.WriteByte(c)
			continue
		}
		if c == '\'' {
			out.WriteByte('"')
			i++
			for i < len(runes) && runes[i] != '\'' {
				if runes[i] == '"' {
					out.WriteByte('\\')
					out.WriteByte('"')
				} else if runes[i] == '\\' && i+1 < len(runes) {
					out.WriteByte(runes[i])
					i++
					out.WriteByte(runes[i])
				} else {
					out.WriteByte(runes[i])
				}
				i++
			}
			out.WriteByte('"')
			continue
		}
		out.WriteByte(c)
	}
	return out.String()
}

// requoteJSON5Keys wraps bare identifier object keys in double quotes.
func requoteJSON5Keys(s string) string {
	var out strings.Builder
	runes := []byte(s)
	inString := false
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inString {
			out.WriteByte(c)
			if c == '\\' && i+1 < len(runes) {
				i++
				out.WriteByte(runes[i])
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out.WriteByte(c)
			continue
		}
		if isIdentStart(c) {
			j := i
			for j < len(runes) && isIdentPart(runes[j]) {
				j++
			}
			k := j
			for k < len(runes) && (runes[k] == ' ' || runes[k] == '\t' || runes[k] == '\n' || runes[k] == '\r') {
				k++
			}
			if k < len(runes) && runes[k] == ':' {
				out.WriteByte('"')
				out.Write(runes[i:j])
				out.WriteByte('"')
				i = j - 1
				continue
			}
		}
		out.WriteByte(c)
	}
	return out.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// dropTrailingCommas removes a comma that precedes a closing `}` or
// `]`, ignoring commas inside string literals.
func dropTrailingCommas(s string) string {
	var out strings.Builder
	runes := []byte(s)
	inString := false
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inString {
			out.WriteByte(c)
			if c == '\\' && i+1 < len(runes) {
				i++
				out.WriteByte(runes[i])
				continue
			}
			if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t' || runes[j] == '\n' || runes[j] == '\r') {
				j++
			}
			if j < len(runes) && (runes[j] == '}' || runes[j] == ']') {
				continue
			}
		}
		out.WriteByte(c)
	}
	return out.String()
}
