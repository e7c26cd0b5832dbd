package show

import (
	"html"
	"strconv"
	"strings"
)

// Notation is a node in a notation tree. The tree mirrors presentation
// MathML: each Kind corresponds to one MathML element.
type Notation struct {
	Kind     Kind
	Text     string
	Attrs    []Attr
	Children []*Notation
}

// Attr is an attribute of a notation element.
type Attr struct {
	Name, Value string
}

// Kind is the type of a Notation node.
type Kind int8

const (
	KindNone Kind = iota

	Row        // mrow: children in sequence
	Ident      // mi: Text
	Number     // mn: Text
	Operator   // mo: Text
	TextRun    // mtext: Text
	Frac       // mfrac: numerator, denominator
	Sup        // msup: base, superscript
	Sub        // msub: base, subscript
	SubSup     // msubsup: base, subscript, superscript
	Under      // munder: base, underscript
	Over       // mover: base, overscript
	UnderOver  // munderover: base, underscript, overscript
	Sqrt       // msqrt: radicand
	Root       // mroot: radicand, index
	Table      // mtable: rows
	TableRow   // mtr: cells
	TableCell  // mtd: content
	ErrorBlock // merror: message
)

var elements = [...]string{
	KindNone:   "",
	Row:        "mrow",
	Ident:      "mi",
	Number:     "mn",
	Operator:   "mo",
	TextRun:    "mtext",
	Frac:       "mfrac",
	Sup:        "msup",
	Sub:        "msub",
	SubSup:     "msubsup",
	Under:      "munder",
	Over:       "mover",
	UnderOver:  "munderover",
	Sqrt:       "msqrt",
	Root:       "mroot",
	Table:      "mtable",
	TableRow:   "mtr",
	TableCell:  "mtd",
	ErrorBlock: "merror",
}

// Element returns the MathML element name for k.
func (k Kind) Element() string {
	if k <= KindNone || int(k) >= len(elements) {
		panic("show: invalid notation kind " + strconv.Itoa(int(k)))
	}
	return elements[k]
}

func (k Kind) String() string {
	if k == KindNone {
		return "None"
	}
	return k.Element()
}

// leaf reports whether k holds text rather than children.
func (k Kind) leaf() bool {
	switch k {
	case Ident, Number, Operator, TextRun:
		return true
	default:
		return false
	}
}

// MathML serializes the tree as presentation MathML without the enclosing
// math element.
func (n *Notation) MathML() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Notation) write(b *strings.Builder) {
	el := n.Kind.Element()
	b.WriteByte('<')
	b.WriteString(el)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if n.Kind.leaf() {
		b.WriteString(html.EscapeString(n.Text))
	} else {
		for _, c := range n.Children {
			c.write(b)
		}
	}
	b.WriteString("</")
	b.WriteString(el)
	b.WriteByte('>')
}

// Plain returns the text of the tree's leaves in order. It is mostly useful
// for debugging and tests.
func (n *Notation) Plain() string {
	var b strings.Builder
	n.plain(&b)
	return b.String()
}

func (n *Notation) plain(b *strings.Builder) {
	if n.Kind.leaf() {
		b.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.plain(b)
	}
}

func row(c ...*Notation) *Notation {
	return &Notation{Kind: Row, Children: c}
}

func mi(s string) *Notation {
	return &Notation{Kind: Ident, Text: s}
}

// upright is an identifier that is never italicized, like a function name.
func upright(s string) *Notation {
	return &Notation{Kind: Ident, Text: s, Attrs: []Attr{{"mathvariant", "normal"}}}
}

func mn(s string) *Notation {
	return &Notation{Kind: Number, Text: s}
}

func mo(s string) *Notation {
	return &Notation{Kind: Operator, Text: s}
}

func mtext(s string) *Notation {
	return &Notation{Kind: TextRun, Text: s}
}

func el(k Kind, c ...*Notation) *Notation {
	return &Notation{Kind: k, Children: c}
}

// fence surrounds content with a pair of stretchy delimiters.
func fence(open, close string, c ...*Notation) *Notation {
	l := &Notation{Kind: Operator, Text: open, Attrs: []Attr{{"fence", "true"}}}
	r := &Notation{Kind: Operator, Text: close, Attrs: []Attr{{"fence", "true"}}}
	return row(append(append([]*Notation{l}, c...), r)...)
}

// accent places a mark over base.
func accent(base *Notation, mark string) *Notation {
	return &Notation{Kind: Over, Attrs: []Attr{{"accent", "true"}}, Children: []*Notation{base, mo(mark)}}
}

// fail is an inline error node.
func fail(msg string) *Notation {
	return el(ErrorBlock, mtext(msg))
}

// Failure returns an error annotation to display in place of an expression
// that could not be processed.
func Failure(msg string) *Notation {
	return fail(msg)
}

// Render formats an expression and wraps the result in a math element.
func (n *Notation) Render() string {
	return `<math xmlns="http://www.w3.org/1998/Math/MathML">` + n.MathML() + `</math>`
}
