package markup_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/zephyrtronium/lispmark/markup"
)

func text(s string) *markup.Text { return &markup.Text{Content: s} }

func para(c ...markup.Node) *markup.Paragraph { return &markup.Paragraph{Children: c} }

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		src  string
		doc  []markup.Node
	}{
		{"prose", "hello world\n", []markup.Node{para(text("hello world\n"))}},
		{"lines", "one\ntwo", []markup.Node{para(text("one\ntwo"))}},
		{"paragraphs", "a\n\nb\n", []markup.Node{para(text("a\n\n")), para(text("b\n"))}},
		{"leading-blank", "\n# H\n", []markup.Node{text("\n"), &markup.Header{Level: 1, Text: "H"}}},
		{"spaces-blank", "a\n  \nb", []markup.Node{para(text("a\n  \n")), para(text("b"))}},
		{"header", "a\n## Sub\nb", []markup.Node{
			para(text("a\n")),
			&markup.Header{Level: 2, Text: "Sub"},
			para(text("b")),
		}},
		{"bullets", "- one\n- two // c\n", []markup.Node{
			&markup.BulletPoint{Text: "one"},
			&markup.BulletPoint{Text: "two"},
		}},
		{"checkboxes", "-[ ] todo\n-[x] done\n", []markup.Node{
			&markup.Checkbox{Text: "todo"},
			&markup.Checkbox{Checked: true, Text: "done"},
		}},
		{"code", "```go\nx := 1\n\ny\n```\n", []markup.Node{&markup.CodeBlock{Language: "go", Code: "x := 1\n\ny\n"}}},
		{"code-plain", "```\n*z*\n```", []markup.Node{&markup.CodeBlock{Code: "*z*\n"}}},
		{"code-closes-paragraph", "a\n```\nb\n```\nc", []markup.Node{
			para(text("a\n")),
			&markup.CodeBlock{Code: "b\n"},
			para(text("c")),
		}},
		{"links", "see [a](u) and ![i](p)\n", []markup.Node{para(
			text("see "),
			&markup.Link{Text: "a", URL: "u"},
			text(" and "),
			&markup.Link{Text: "i", URL: "p", Image: true},
			text("\n"),
		)}},
		{"emphasis", "x **b** ||s||\n", []markup.Node{para(
			text("x "),
			&markup.Emphasis{Style: markup.StyleBold, Text: "b"},
			text(" "),
			&markup.Spoiler{Text: "s"},
			text("\n"),
		)}},
		{"emoji", "*👍🏽*", []markup.Node{para(&markup.Emphasis{Style: markup.StyleItalic, Text: "👍🏽"})}},
		{"inline-code", "run `go test` now", []markup.Node{para(text("run "), &markup.InlineCode{Code: "go test"}, text(" now"))}},
		{"quote", "> a\n> b\n", []markup.Node{&markup.BlockQuote{Children: []markup.Node{text("a\nb")}}}},
		{"quotes-apart", "> a\n\n> b", []markup.Node{
			&markup.BlockQuote{Children: []markup.Node{text("a")}},
			text("\n"),
			&markup.BlockQuote{Children: []markup.Node{text("b")}},
		}},
		{"quote-emphasis", "> *a*", []markup.Node{&markup.BlockQuote{Children: []markup.Node{
			&markup.Emphasis{Style: markup.StyleItalic, Text: "a"},
		}}}},
		{"page", "a\n===\nb", []markup.Node{para(text("a\n")), &markup.PageSeparator{}, para(text("b"))}},
		{"let", "let x = 5\n", []markup.Node{&markup.EvalBlock{Code: "(define x 5)"}}},
		{"let-chain", "let a = 1; let b = 2\n", []markup.Node{
			&markup.EvalBlock{Code: "(define a 1)"},
			&markup.EvalBlock{Code: "(define b 2)"},
		}},
		{"let-prose", "let us begin\n", []markup.Node{para(text("let us begin\n"))}},
		{"let-rest", "let a = (f 1)) rest\n", []markup.Node{
			&markup.EvalBlock{Code: "(define a (f 1))"},
			para(text(") rest\n")),
		}},
		{"forms", "x (eval (+ 1 2)) y fmt(z)\n", []markup.Node{para(
			text("x "),
			&markup.EvalBlock{Code: "(+ 1 2)"},
			text(" y "),
			&markup.ShowBlock{Code: "z"},
			text("\n"),
		)}},
		{"show-lines", "(show\n  (pow x 2))\nafter", []markup.Node{para(
			&markup.ShowBlock{Code: "(pow x 2)"},
			text("\nafter"),
		)}},
		{"table", "| a | b |\n---\n| 1 | 2 |\n| 3 |\n", []markup.Node{&markup.Table{
			Header: []string{"a", "b"},
			Rows:   [][]string{{"1", "2"}},
		}}},
		{"table-rows-join", "| a | b |\n---\n| 1 |\n| 2 |\nend", []markup.Node{
			&markup.Table{Header: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}},
			para(text("end")),
		}},
		{"table-empty", "| h |\n---\nafter\n", []markup.Node{
			&markup.Table{Header: []string{"h"}},
			para(text("after\n")),
		}},
		{"row-without-rule", "| a |\nb\n", []markup.Node{para(text("| a |\nb\n"))}},
		{"row-at-end", "x\n| a |", []markup.Node{para(text("x\n| a |"))}},
		{"comment-line", "a\n// note\nb\n", []markup.Node{para(text("a\nb\n"))}},
		{"comment-tail", "a // c\n", []markup.Node{para(text("a \n"))}},
		{"literal", `say "*x*"` + "\n", []markup.Node{para(text(`say "*x*"` + "\n"))}},
		{"escape", `\*x\*`, []markup.Node{para(text("*x*"))}},
		{"crlf", "a\r\n\r\nb", []markup.Node{para(text("a\r\n\r\n")), para(text("b"))}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc, err := markup.Parse(c.src)
			if err != nil {
				t.Fatalf("%q: %v", c.src, err)
			}
			if !reflect.DeepEqual(doc, c.doc) {
				t.Errorf("%q:\nwant %s\ngot  %s", c.src, dump(c.doc), dump(doc))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := markup.Parse("")
		if !errors.Is(err, markup.ErrEmptyInput) {
			t.Errorf("want ErrEmptyInput, got %v", err)
		}
	})
	t.Run("unclosed-fence", func(t *testing.T) {
		_, err := markup.Parse("```go\nx\n")
		var e *markup.EndOfInputError
		if !errors.As(err, &e) {
			t.Fatalf("want *EndOfInputError, got %v", err)
		}
		if e.Pos() != 0 || e.Expected != "```" {
			t.Errorf("wrong error %#v", e)
		}
	})
	t.Run("nested-fence", func(t *testing.T) {
		_, err := markup.Parse("```\na\n```go\n```\n")
		var e *markup.SyntaxError
		if !errors.As(err, &e) {
			t.Fatalf("want *SyntaxError, got %v", err)
		}
		if e.Pos() != 6 {
			t.Errorf("want position 6, got %d", e.Pos())
		}
	})
	t.Run("lex", func(t *testing.T) {
		_, err := markup.Parse("fine\n[a](b", markup.FileName("doc.md"))
		var e *markup.LexError
		if !errors.As(err, &e) {
			t.Fatalf("want *LexError, got %v", err)
		}
		if e.Line != 2 || !strings.HasPrefix(err.Error(), "doc.md:2:") {
			t.Errorf("wrong location: %v", err)
		}
		var ie markup.InputError
		if !errors.As(err, &ie) || ie.Pos() != 8 {
			t.Errorf("wrong position: %v", err)
		}
	})
}

// TestParseProse checks that documents without markup keep every byte in
// Text nodes.
func TestParseProse(t *testing.T) {
	docs := []string{
		"one two\n\nthree\n  \nfour",
		"\n\n\nx\n",
		"a\r\nb\r\n\r\n",
		"naïve café, 1 + 1 = 2.\n",
	}
	for _, src := range docs {
		doc, err := markup.Parse(src)
		if err != nil {
			t.Errorf("%q: %v", src, err)
			continue
		}
		if got := plain(doc); got != src {
			t.Errorf("%q: text is %q", src, got)
		}
	}
}

func TestParseParagraphs(t *testing.T) {
	// A blank line always ends a paragraph, so no paragraph contains
	// another and Text nodes in a paragraph never touch.
	src := "a *b*\nc\n\n> d\ne\n\n- f\ng\n"
	doc, err := markup.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range doc {
		p, ok := n.(*markup.Paragraph)
		if !ok {
			continue
		}
		for i, c := range p.Children {
			if _, ok := c.(*markup.Paragraph); ok {
				t.Errorf("nested paragraph in %s", dump(doc))
			}
			if i > 0 {
				_, a := p.Children[i-1].(*markup.Text)
				_, b := c.(*markup.Text)
				if a && b {
					t.Errorf("adjacent text in %s", dump(doc))
				}
			}
		}
	}
}

func TestMap(t *testing.T) {
	doc, err := markup.Parse("x (eval 1)\n\n> (show y)\n")
	if err != nil {
		t.Fatal(err)
	}
	var codes []string
	out := markup.Map(doc, func(n markup.Node) markup.Node {
		switch n := n.(type) {
		case *markup.EvalBlock:
			codes = append(codes, n.Code)
			return &markup.Fragment{Kind: markup.FragmentEval, Code: n.Code}
		case *markup.ShowBlock:
			codes = append(codes, n.Code)
			return &markup.Fragment{Kind: markup.FragmentShow, Code: n.Code, Markup: "<math/>"}
		}
		return n
	})
	if want := []string{"1", "y"}; !reflect.DeepEqual(codes, want) {
		t.Errorf("visited %q, want %q", codes, want)
	}
	var frags int
	markup.Walk(out, func(n markup.Node) {
		switch n.(type) {
		case *markup.Fragment:
			frags++
		case *markup.EvalBlock, *markup.ShowBlock:
			t.Errorf("block left in %s", dump(out))
		}
	})
	if frags != 2 {
		t.Errorf("want 2 fragments, got %d", frags)
	}
	// The input is unchanged.
	if _, ok := doc[0].(*markup.Paragraph).Children[1].(*markup.EvalBlock); !ok {
		t.Errorf("input modified: %s", dump(doc))
	}
}

// plain concatenates the text of a document.
func plain(doc []markup.Node) string {
	var b strings.Builder
	markup.Walk(doc, func(n markup.Node) {
		if t, ok := n.(*markup.Text); ok {
			b.WriteString(t.Content)
		}
	})
	return b.String()
}

// dump formats a document for test failures.
func dump(doc []markup.Node) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, n := range doc {
		if i > 0 {
			b.WriteString(", ")
		}
		switch n := n.(type) {
		case *markup.Paragraph:
			b.WriteString("Paragraph")
			b.WriteString(dump(n.Children))
		case *markup.BlockQuote:
			b.WriteString("BlockQuote")
			b.WriteString(dump(n.Children))
		default:
			b.WriteString(strings.TrimPrefix(reflect.TypeOf(n).String(), "*markup."))
			b.WriteString(strings.TrimPrefix(fmt.Sprintf("%+v", n), "&"))
		}
	}
	b.WriteByte(']')
	return b.String()
}
