package lexer

import "testing"

func tokenTypes(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestScanSimpleFieldAccess(t *testing.T) {
	toks := NewScanner(".foo.bar").ScanTokens()
	want := []TokenType{TokenDot, TokenIdent, TokenDot, TokenIdent, TokenEOF}
	assertTypes(t, toks, want)
}

func TestScanPipelineAndOperators(t *testing.T) {
	toks := NewScanner(". | map(.x + 1) == 2").ScanTokens()
	want := []TokenType{
		TokenDot, TokenPipe, TokenIdent, TokenLParen, TokenDot, TokenIdent,
		TokenPlus, TokenNumber, TokenRParen, TokenDoubleEq, TokenNumber, TokenEOF,
	}
	assertTypes(t, toks, want)
}

func TestScanStringEscapes(t *testing.T) {
	toks := NewScanner(`"a\nb"`).ScanTokens()
	if toks[0].Type != TokenString || toks[0].Lexeme != "a\nb" {
		t.Errorf("expected unescaped string, got %+v", toks[0])
	}
}

func TestScanVariable(t *testing.T) {
	toks := NewScanner("$name").ScanTokens()
	if toks[0].Type != TokenVar || toks[0].Lexeme != "name" {
		t.Errorf("expected variable token 'name', got %+v", toks[0])
	}
}

func TestScanNumberWithExponent(t *testing.T) {
	toks := NewScanner("1.5e10").ScanTokens()
	if toks[0].Type != TokenNumber || toks[0].Lexeme != "1.5e10" {
		t.Errorf("expected exponent number, got %+v", toks[0])
	}
}

func TestScanKeywords(t *testing.T) {
	toks := NewScanner("if . then 1 else 2 end").ScanTokens()
	want := []TokenType{TokenIf, TokenDot, TokenThen, TokenNumber, TokenElse, TokenNumber, TokenEnd, TokenEOF}
	assertTypes(t, toks, want)
}

func TestScanCompoundAssignmentOperators(t *testing.T) {
	toks := NewScanner("+= |=").ScanTokens()
	assertTypes(t, toks, []TokenType{TokenPlusEq, TokenPipeEq, TokenEOF})
}

func TestScanUnterminatedStringRecordsError(t *testing.T) {
	s := NewScanner(`"abc`)
	s.ScanTokens()
	if len(s.Errors()) == 0 {
		t.Error("expected unterminated string to record a lexer error")
	}
}

func TestScanCommentSkipped(t *testing.T) {
	toks := NewScanner("# a comment\n.foo").ScanTokens()
	assertTypes(t, toks, []TokenType{TokenDot, TokenIdent, TokenEOF})
}

func assertTypes(t *testing.T, toks []Token, want []TokenType) {
	t.Helper()
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: expected %s, got %s (%q)", i, w, toks[i].Type, toks[i].Lexeme)
		}
	}
}
