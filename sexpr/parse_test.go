package sexpr

import (
	"math/big"
	"testing"
)

func num(s string) *Node {
	x, _, err := new(big.Float).SetPrec(DefaultPrec).Parse(s, 10)
	if err != nil {
		panic(err)
	}
	return &Node{Kind: KindNumber, Num: x}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *Node
	}{
		{"sym", "x", Sym("x")},
		{"num", "42", num("42")},
		{"negnum", "-4.5", num("-4.5")},
		{"exp", "1e3", num("1000")},
		{"true", "true", Bool(true)},
		{"false", "false", Bool(false)},
		{"str", `"hi there"`, Str("hi there")},
		{"empty", "()", List()},
		{"add", "(+ 1 2)", List(Sym("+"), num("1"), num("2"))},
		{"nested", "(pow (+ x 1) 2)", List(Sym("pow"), List(Sym("+"), Sym("x"), num("1")), num("2"))},
		{"ws", "  (  f\n\tx  )  ", List(Sym("f"), Sym("x"))},
		{"begin", "(define a 1) (+ a 1)", List(
			Sym("begin"),
			List(Sym("define"), Sym("a"), num("1")),
			List(Sym("+"), Sym("a"), num("1")),
		)},
		{"atoms", "1 2", List(Sym("begin"), num("1"), num("2"))},
		{"adjacent", "(f)(g)", List(Sym("begin"), List(Sym("f")), List(Sym("g")))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if !a.Equal(c.n) {
				t.Errorf("mismatched AST: want %v, got %v from %q", c.n, a, c.src)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		col  int
	}{
		{"empty", "", 1},
		{"spaces", "   ", 1},
		{"close", ")", 1},
		{"extraclose", "(+ 1 2))", 8},
		{"open", "(+ 1 2", 1},
		{"nestedopen", "(+ (* 1 2) (3", 12},
		{"badnum", "(+ 1x 2)", 4},
		{"string", `(text "abc)`, 7},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err == nil {
				t.Fatalf("%q parsed without error to %v", c.src, a)
			}
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("error was %#v, not *ParseError", err)
			}
			if pe.Pos() != c.col {
				t.Errorf("%q: wrong error position: want %d, got %d (%v)", c.src, c.col, pe.Pos(), err)
			}
		})
	}
}

func TestParsePrec(t *testing.T) {
	a, err := ParseString("0.1", ParsePrec(32))
	if err != nil {
		t.Fatal(err)
	}
	if p := a.Num.Prec(); p != 32 {
		t.Errorf("wrong precision: want 32, got %d", p)
	}
	b, err := ParseString("0.1")
	if err != nil {
		t.Fatal(err)
	}
	if p := b.Num.Prec(); p != DefaultPrec {
		t.Errorf("wrong default precision: want %d, got %d", DefaultPrec, p)
	}
}
