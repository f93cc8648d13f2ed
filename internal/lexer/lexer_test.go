package lexer

import "testing"

func kinds(t *testing.T, src string) []Kind {
	t.Helper()
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	var ks []Kind
	for _, tok := range toks {
		ks = append(ks, tok.Kind)
	}
	return ks
}

func TestTokenizeBasics(t *testing.T) {
	ks := kinds(t, `fn main() { let x = 1 + 2; }`)
	want := []Kind{KwFn, Ident, LParen, RParen, LBrace, KwLet, Ident, Assign, IntLit, Plus, IntLit, Semi, RBrace, EOF}
	if len(ks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(ks), len(want), ks)
	}
	for i := range want {
		if ks[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, ks[i], want[i])
		}
	}
}

func TestTokenizeOperators(t *testing.T) {
	ks := kinds(t, `== != <= >= && || .. ..= => ->`)
	want := []Kind{Eq, Ne, Le, Ge, AndAnd, OrOr, DotDot, DotDotEq, Arrow, ThinArrow, EOF}
	for i, w := range want {
		if ks[i] != w {
			t.Errorf("token %d: got %v want %v", i, ks[i], w)
		}
	}
}

func TestTokenizeString(t *testing.T) {
	toks, err := Tokenize(`"Hello, \"World\"\n"`)
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != StringLit {
		t.Fatalf("expected StringLit, got %v", toks[0].Kind)
	}
	if toks[0].Text != "Hello, \"World\"\n" {
		t.Errorf("got %q", toks[0].Text)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	if _, err := Tokenize(`"abc`); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestTokenizePrintlnMacro(t *testing.T) {
	toks, err := Tokenize(`println!("hi")`)
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != Ident || toks[0].Text != "println!" {
		t.Errorf("got %+v", toks[0])
	}
}

func TestTokenizeRejectsUnknownMacro(t *testing.T) {
	toks, err := Tokenize(`vec!(1, 2)`)
	if err != nil {
		t.Fatal(err)
	}
	// "vec" lexes as an Ident; the bang then lexes as Not. It is the parser's
	// job to reject a bang following an arbitrary name as an unsupported
	// macro invocation.
	if toks[0].Text != "vec" {
		t.Errorf("got %q", toks[0].Text)
	}
	if toks[1].Kind != Not {
		t.Errorf("expected Not token for bang, got %v", toks[1].Kind)
	}
}

func TestTokenizeComments(t *testing.T) {
	ks := kinds(t, "// comment\nlet /* block */ x = 1;")
	want := []Kind{KwLet, Ident, Assign, IntLit, Semi, EOF}
	if len(ks) != len(want) {
		t.Fatalf("got %v", ks)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	if _, err := Tokenize("let x = @;"); err == nil {
		t.Fatal("expected error for '@'")
	}
}
