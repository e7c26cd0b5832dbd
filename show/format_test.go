package show_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/zephyrtronium/lispmark/sexpr"
	"github.com/zephyrtronium/lispmark/show"
)

func parse(t *testing.T, src string) *sexpr.Node {
	t.Helper()
	n, err := sexpr.ParseString(src)
	if err != nil {
		t.Fatalf("%q failed to parse: %v", src, err)
	}
	return n
}

func query(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("couldn't parse %q: %v", markup, err)
	}
	return doc
}

func TestFormatPlain(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"add", "(+ a b c)", "a+b+c"},
		{"add1", "(+ a)", "a"},
		{"sub", "(- a b)", "a−b"},
		{"sub-additive", "(- a (+ b c))", "a−(b+c)"},
		{"neg", "(- x)", "−x"},
		{"neg-sum", "(- (+ x y))", "−(x+y)"},
		{"neg-num", "-3", "−3"},
		{"add-neg", "(+ a -1)", "a+(−1)"},
		{"mul", "(* a b)", "a⋅b"},
		{"mul-coef", "(* 2 x)", "2\u2062x"},
		{"mul-additive", "(* (+ a b) c)", "(a+b)⋅c"},
		{"div", "(/ a b)", "ab"},
		{"div-chain", "(/ a b c)", "abc"},
		{"frac", "(frac 1 2)", "12"},
		{"pow", "(pow x 2)", "x2"},
		{"pow-caret", "(^ x 2)", "x2"},
		{"pow-sum-base", "(pow (+ x 1) 2)", "(x+1)2"},
		{"pow-prod-base", "(pow (* 2 x) 2)", "(2\u2062x)2"},
		{"pow-neg-base", "(pow -2 x)", "(−2)x"},
		{"pow-pow-base", "(pow (pow x 2) 3)", "(x2)3"},
		{"pow-sum-exp", "(pow x (+ n 1))", "xn+1"},
		{"sqrt", "(sqrt (+ a b))", "a+b"},
		{"eq", "(= x_1 infinity)", "x1=∞"},
		{"neq", "(!= a b)", "a≠b"},
		{"le", "(<= a b c)", "a≤b≤c"},
		{"pm", "(pm a b)", "a±b"},
		{"integral", "(integral f x)", "∫fdx"},
		{"integral-bounds", "(integral f x 0 1)", "∫01fdx"},
		{"integral-sum", "(integral (+ f g) x)", "∫(f+g)dx"},
		{"sum", "(sum (pow i 2) i 1 n)", "∑i=1ni2"},
		{"sum-bare", "(sum a)", "∑a"},
		{"prod", "(prod x i 1 n)", "∏i=1nx"},
		{"limit", "(limit (/ 1 x) x infinity)", "limx→∞1x"},
		{"deriv", "(deriv y x)", "ddxy"},
		{"deriv-order", "(deriv y x 2)", "d2dx2y"},
		{"partial", "(partial f t)", "∂∂tf"},
		{"sin", "(sin x)", "sin\u2061x"},
		{"sin-sum", "(sin (+ x 1))", "sin\u2061(x+1)"},
		{"sin-squared", "(sin x 2)", "sin2\u2061x"},
		{"log", "(log x)", "log\u2061x"},
		{"log-base", "(log x 2)", "log2\u2061x"},
		{"exp", "(exp x)", "ex"},
		{"abs", "(abs x)", "|x|"},
		{"floor", "(floor x)", "⌊x⌋"},
		{"fact", "(fact n)", "n!"},
		{"fact-sum", "(fact (+ n 1))", "(n+1)!"},
		{"binom", "(binom n k)", "(nk)"},
		{"matrix", "(matrix (a b) (c d))", "[abcd]"},
		{"det", "(det (matrix (a b) (c d)))", "|abcd|"},
		{"vec", "(vec x y)", "(xy)"},
		{"set", "(set 1 2 3)", "{1,2,3}"},
		{"empty-set", "(set)", "{}"},
		{"in", "(in x reals)", "x∈ℝ"},
		{"and-or", "(and (or a b) c)", "(a∨b)∧c"},
		{"not", "(not (= a b))", "¬(a=b)"},
		{"forall", "(forall x (> x 0))", "∀x:x>0"},
		{"paren", "(paren a b)", "(a,b)"},
		{"text", `(text "hello" world)`, "hello world"},
		{"subscript", "(subscript a n)", "an"},
		{"hat", "(hat x)", "x^"},
		{"greek", "(+ alpha Omega)", "α+Ω"},
		{"unknown", "(f x y)", "f(x,y)"},
		{"unknown-nested", "(g (+ 1 2))", "g(1+2)"},
		{"nil", "()", "()"},
		{"bool", "true", "true"},
		{"string", `"a < b"`, "a < b"},
		{"decimal", "0.5", "0.5"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n := show.Format(parse(t, c.src), nil)
			if got := n.Plain(); got != c.want {
				t.Errorf("%s: want %q, got %q", c.src, c.want, got)
			}
		})
	}
}

func TestFormatArity(t *testing.T) {
	cases := []struct {
		src string
		msg string
	}{
		{"(sqrt)", "sqrt expects 1 argument, got 0"},
		{"(pow x)", "pow expects 2 arguments, got 1"},
		{"(integral f)", "integral expects 2 or 4 arguments, got 1"},
		{"(integral f x a)", "integral expects 2 or 4 arguments, got 3"},
		{"(sum f i)", "sum expects 1 or 4 arguments, got 2"},
		{"(limit f x)", "limit expects 3 arguments, got 2"},
		{"(log)", "log expects 1 or 2 arguments, got 0"},
		{"(=)", "= expects at least 2 arguments, got 0"},
		{"(-)", "- expects at least 1 argument, got 0"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			n := show.Format(parse(t, c.src), nil)
			if n.Kind != show.ErrorBlock {
				t.Fatalf("%s formatted to %s, not an error", c.src, n.MathML())
			}
			if got := n.Plain(); got != c.msg {
				t.Errorf("%s: want message %q, got %q", c.src, c.msg, got)
			}
		})
	}
}

func TestFormatErrorInPlace(t *testing.T) {
	n := show.Format(parse(t, "(+ 1 (sqrt) (pow x 2))"), nil)
	doc := query(t, n.Render())
	if got := doc.Find("merror").Length(); got != 1 {
		t.Errorf("want 1 merror, got %d in %s", got, n.MathML())
	}
	if got := doc.Find("msup").Length(); got != 1 {
		t.Errorf("valid sibling was not formatted: %s", n.MathML())
	}
}

func TestFormatEnv(t *testing.T) {
	env := sexpr.NewEnv(sexpr.Bind("x", sexpr.Int(5, 64)))
	// Symbols display as themselves even when bound.
	if got := show.Format(sexpr.Sym("x"), env).Plain(); got != "x" {
		t.Errorf("bound symbol displayed as %q", got)
	}
	// Calls to bound functions get a function application operator.
	n := parse(t, "(max a b)")
	if got := show.Format(n, env).Plain(); got != "max\u2061(a,b)" {
		t.Errorf("bound function displayed as %q", got)
	}
	if got := show.Format(n, nil).Plain(); got != "max(a,b)" {
		t.Errorf("function without env displayed as %q", got)
	}
	if got := show.Format(parse(t, "(xor p q)"), env).Plain(); got != "xor\u2061(p,q)" {
		t.Errorf("prelude function displayed as %q", got)
	}
}

func TestMathML(t *testing.T) {
	doc := query(t, show.Render(parse(t, "(pow (+ x 1) 2)"), nil))
	if doc.Find("math").Length() != 1 {
		t.Fatal("no math element")
	}
	sup := doc.Find("math > msup")
	if sup.Length() != 1 {
		t.Fatal("no msup at top level")
	}
	base := sup.Children().First()
	if open := base.Children().First(); !open.Is("mo") || open.Text() != "(" {
		t.Errorf("power base is not parenthesized: %s", open.Text())
	}
	if got := sup.Children().Last().Text(); got != "2" {
		t.Errorf("wrong exponent %q", got)
	}
	if got := base.Find("mi").Text(); got != "x" {
		t.Errorf("wrong identifier %q", got)
	}
}

func TestMathMLEscapes(t *testing.T) {
	n := show.Format(parse(t, `(< a (text "<b>&"))`), nil)
	m := n.MathML()
	if strings.Contains(m, "<b>") || !strings.Contains(m, "&lt;") || !strings.Contains(m, "&amp;") {
		t.Errorf("text not escaped: %s", m)
	}
	doc := query(t, n.Render())
	if got := doc.Find("mtext").Text(); got != "<b>&" {
		t.Errorf("escaped text reads back as %q", got)
	}
	if got := doc.Find("mo").First().Text(); got != "<" {
		t.Errorf("operator reads back as %q", got)
	}
}

func TestMathMLAttrs(t *testing.T) {
	doc := query(t, show.Render(parse(t, "(binom n (overline k))"), nil))
	if v, _ := doc.Find("mfrac").Attr("linethickness"); v != "0" {
		t.Errorf("binomial has line thickness %q", v)
	}
	if v, _ := doc.Find("mover").Attr("accent"); v != "true" {
		t.Errorf("overline is not an accent: %q", v)
	}
	if v, _ := doc.Find("mi").Last().Attr("mathvariant"); v != "" {
		t.Errorf("single letter has mathvariant %q", v)
	}
	doc = query(t, show.Render(parse(t, "(cos theta)"), nil))
	if v, _ := doc.Find("mi").First().Attr("mathvariant"); v != "normal" {
		t.Errorf("function name has mathvariant %q", v)
	}
	if got := doc.Find("mi").Last().Text(); got != "θ" {
		t.Errorf("theta displayed as %q", got)
	}
}

func TestEveryOp(t *testing.T) {
	for _, op := range show.Ops() {
		for _, name := range op.Names() {
			if got := show.LookupOp(name); got != op {
				t.Errorf("%q looks up %v, want %v", name, got, op)
			}
		}
		for argc := 0; argc <= 5; argc++ {
			items := []*sexpr.Node{sexpr.Sym(op.String())}
			for i := 0; i < argc; i++ {
				items = append(items, sexpr.List(sexpr.Sym("a"), sexpr.Sym("b")))
			}
			n := show.Format(sexpr.List(items...), nil)
			if n.MathML() == "" {
				t.Errorf("%v with %d args formatted to nothing", op, argc)
			}
			if isErr := n.Kind == show.ErrorBlock; isErr == op.Accepts(argc) {
				t.Errorf("%v with %d args: error %t, accepts %t", op, argc, isErr, op.Accepts(argc))
			}
		}
	}
}

func TestLookupOp(t *testing.T) {
	cases := []struct {
		name string
		op   show.Op
	}{
		{"+", show.OpAdd},
		{"add", show.OpAdd},
		{"frac", show.OpDiv},
		{"^", show.OpPow},
		{"pow", show.OpPow},
		{"!=", show.OpNeq},
		{"integral", show.OpIntegral},
		{"arrow", show.OpArrow},
		{"f", show.OpNone},
		{"", show.OpNone},
	}
	for _, c := range cases {
		if got := show.LookupOp(c.name); got != c.op {
			t.Errorf("%q: want %v, got %v", c.name, c.op, got)
		}
	}
}

func ExampleRender() {
	n, _ := sexpr.ParseString("(pow (+ x 1) 2)")
	fmt.Println(show.Render(n, nil))
	// Output:
	// <math xmlns="http://www.w3.org/1998/Math/MathML"><msup><mrow><mo fence="true">(</mo><mrow><mi>x</mi><mo>+</mo><mn>1</mn></mrow><mo fence="true">)</mo></mrow><mn>2</mn></msup></math>
}
