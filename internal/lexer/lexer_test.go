package lexer

import "testing"

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func assertTypes(t *testing.T, input string, want []TokenType) {
	t.Helper()
	tokens, errs := Tokenize(input)
	if len(errs) != 0 {
		t.Fatalf("Tokenize(%q) errors = %v", input, errs)
	}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("Tokenize(%q) = %v, want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokenize(%q)[%d] = %v, want %v", input, i, got[i], want[i])
		}
	}
}

func TestDelimiters(t *testing.T) {
	assertTypes(t, "()[]{}#{#(", []TokenType{
		LPAREN, RPAREN, LBRACKET, RBRACKET, LBRACE, RBRACE, HASH_LBRACE, HASH_LPAREN, EOF,
	})
}

func TestSymbolsAndKeywords(t *testing.T) {
	tokens, errs := Tokenize(`foo foo-bar? ns/name :kw :ns/kw`)
	if len(errs) != 0 {
		t.Fatalf("Tokenize() errors = %v", errs)
	}
	want := []struct {
		typ TokenType
		lit string
	}{
		{SYMBOL, "foo"},
		{SYMBOL, "foo-bar?"},
		{SYMBOL, "ns/name"},
		{KEYWORD, "kw"},
		{KEYWORD, "ns/kw"},
		{EOF, ""},
	}
	if len(tokens) != len(want) {
		t.Fatalf("Tokenize() = %+v, want %d tokens", tokens, len(want))
	}
	for i, w := range want {
		if tokens[i].Type != w.typ || tokens[i].Literal != w.lit {
			t.Errorf("token[%d] = %+v, want {%v %q}", i, tokens[i], w.typ, w.lit)
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		in   string
		typ  TokenType
		lit  string
	}{
		{"123", INT, "123"},
		{"-4", INT, "-4"},
		{"1.5", FLOAT, "1.5"},
		{"1e10", FLOAT, "1e10"},
		{"-1.5e-3", FLOAT, "-1.5e-3"},
	}
	for _, tt := range tests {
		tokens, errs := Tokenize(tt.in)
		if len(errs) != 0 {
			t.Fatalf("Tokenize(%q) errors = %v", tt.in, errs)
		}
		if tokens[0].Type != tt.typ || tokens[0].Literal != tt.lit {
			t.Errorf("Tokenize(%q)[0] = %+v, want {%v %q}", tt.in, tokens[0], tt.typ, tt.lit)
		}
	}
}

func TestReaderMacros(t *testing.T) {
	tokens, errs := Tokenize(`##Inf ##-Inf ##NaN`)
	if len(errs) != 0 {
		t.Fatalf("Tokenize() errors = %v", errs)
	}
	for i, tok := range tokens[:3] {
		if tok.Type != FLOAT {
			t.Errorf("token[%d].Type = %v, want FLOAT", i, tok.Type)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tokens, errs := Tokenize(`"a\nb\t\"c\""`)
	if len(errs) != 0 {
		t.Fatalf("Tokenize() errors = %v", errs)
	}
	want := "a\nb\t\"c\""
	if tokens[0].Type != STRING || tokens[0].Literal != want {
		t.Errorf("Tokenize(escaped string)[0] = %+v, want STRING %q", tokens[0], want)
	}
}

func TestUnterminatedString(t *testing.T) {
	tokens, errs := Tokenize(`"unterminated`)
	if len(errs) == 0 {
		t.Fatal("Tokenize(unterminated string): expected a LexError")
	}
	if tokens[0].Type != ILLEGAL {
		t.Errorf("Tokenize(unterminated string)[0].Type = %v, want ILLEGAL", tokens[0].Type)
	}
}

func TestIllegalCharacter(t *testing.T) {
	tokens, errs := Tokenize(`(@)`)
	if len(errs) == 0 {
		t.Fatal("Tokenize(\"@\"): expected a LexError")
	}
	if tokenTypes(tokens)[1] != ILLEGAL {
		t.Errorf("Tokenize(\"(@)\") = %v, want ILLEGAL at index 1", tokenTypes(tokens))
	}
}

func TestWhitespaceAndCommasAreEquivalent(t *testing.T) {
	a, _ := Tokenize("(1 2 3)")
	b, _ := Tokenize("(1, 2, 3)")
	if len(a) != len(b) {
		t.Fatalf("comma-separated and space-separated token counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Type != b[i].Type || a[i].Literal != b[i].Literal {
			t.Errorf("token[%d] differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestLineComments(t *testing.T) {
	tokens, errs := Tokenize("1 ; a comment\n2")
	if len(errs) != 0 {
		t.Fatalf("Tokenize() errors = %v", errs)
	}
	want := []TokenType{INT, INT, EOF}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("Tokenize(with comment) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPlaceholders(t *testing.T) {
	tokens, errs := Tokenize(`% %1 %2 %&`)
	if len(errs) != 0 {
		t.Fatalf("Tokenize() errors = %v", errs)
	}
	want := []string{"%", "%1", "%2", "%&"}
	for i, w := range want {
		if tokens[i].Type != PLACEHOLDER || tokens[i].Literal != w {
			t.Errorf("token[%d] = %+v, want PLACEHOLDER %q", i, tokens[i], w)
		}
	}
}

func TestNilTrueFalse(t *testing.T) {
	assertTypes(t, "nil true false", []TokenType{NIL, TRUE, FALSE, EOF})
}

func TestBOMIsStripped(t *testing.T) {
	tokens, errs := Tokenize("\xef\xbb\xbf42")
	if len(errs) != 0 {
		t.Fatalf("Tokenize(BOM+42) errors = %v", errs)
	}
	if tokens[0].Type != INT || tokens[0].Literal != "42" {
		t.Errorf("Tokenize(BOM+42)[0] = %+v, want INT \"42\"", tokens[0])
	}
}

func TestPositionsAreRuneCounted(t *testing.T) {
	// "é" is one rune but two UTF-8 bytes; column must count runes.
	tokens, _ := Tokenize("é foo")
	if tokens[1].Pos.Column != 3 {
		t.Errorf("second token column = %d, want 3 (rune-counted)", tokens[1].Pos.Column)
	}
}
