package markup

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestChunks(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    int
		want []int
	}{
		{"one-line", "x", 1, []int{0, 1}},
		{"each-blank", "a\n\nb\n\nc\n", 1, []int{0, 3, 6, 8}},
		{"min-lines", "a\n\nb\n\nc\n", 3, []int{0, 6, 8}},
		{"trailing-blank", "a\n\n", 1, []int{0, 3}},
		{"fence", "```\n\n```\n\nx", 1, []int{0, 10, 11}},
		{"form", "(eval (f\n\nx))\n\ny", 1, []int{0, 15, 16}},
		{"quoted-paren", "(text \")\"\n\n)\n\nz", 1, []int{0, 14, 15}},
		{"escaped-paren", "\\(\n\nz", 1, []int{0, 4, 5}},
		{"crlf", "a\r\n\r\nb", 1, []int{0, 5, 6}},
		{"nbsp", "a\n\u00a0\nb", 1, []int{0, 6}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := chunks(c.src, c.n); !reflect.DeepEqual(got, c.want) {
				t.Errorf("%q by %d: want %v, got %v", c.src, c.n, c.want, got)
			}
		})
	}
}

// chunkdoc is a document that exercises every construct, with blank lines
// at which to cut.
const chunkdoc = `# Title

Some *prose* with (eval (define x 2)) and fmt((pow x 2)).
let y = (+ x 1)

- a bullet
-[x] a checkbox

> quoted
> lines

` + "```go\nfunc f() {\n\n}\n```" + `

| a | b |
---
| 1 | 2 |

(show
  (frac 1

   y))

===
tail "text" // comment
`

func TestParseChunked(t *testing.T) {
	src := strings.Repeat(chunkdoc, 8)
	if b := chunks(src, 3); len(b) < 10 {
		t.Fatalf("document only splits into %d chunks", len(b)-1)
	}
	want, err := Parse(src, ChunkLines(0))
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{1, 3, 17} {
		got, err := Parse(src, ChunkLines(n), Workers(4))
		if err != nil {
			t.Fatalf("chunks of %d: %v", n, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("chunks of %d differ from sequential parse", n)
		}
	}
}

func TestParseChunkedMisjudged(t *testing.T) {
	// The open paren in prose hides the fence from the chunker, so it cuts
	// inside the code block.
	src := "a (b\n```\n)\n\nx\n```\n\ny\n"
	if b := chunks(src, 1); len(b) < 3 || b[1] != 12 {
		t.Fatalf("unexpected chunks %v", b)
	}
	want, err := Parse(src, ChunkLines(0))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(src, ChunkLines(1))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
	if c, ok := got[1].(*CodeBlock); !ok || c.Code != ")\n\nx\n" {
		t.Errorf("code block parsed wrong: %#v", got[1])
	}
}

func TestParseChunkedErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		line int
		pos  int
	}{
		{"first", "[a](b\n\nok\n\n[c](d\n", 1, 3},
		{"later", "ok\n\n\n[c](d", 4, 8},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for i := 0; i < 10; i++ {
				_, err := Parse(c.src, ChunkLines(1), Workers(4))
				var le *LexError
				if !errors.As(err, &le) {
					t.Fatalf("want *LexError, got %v", err)
				}
				if le.Line != c.line || le.Pos() != c.pos {
					t.Fatalf("want line %d at %d, got %v", c.line, c.pos, err)
				}
			}
		})
	}
}
