package markup

import (
	"io"
	"strconv"
	"strings"
)

// Parse parses a document. Long documents are split at blank lines and the
// pieces parsed in parallel; the result is the same as a sequential parse.
//
// Errors are ErrEmptyInput, *EndOfInputError, *SyntaxError, or *LexError.
// When a document has several errors, the first in document order is
// returned.
func Parse(src string, opts ...ParseOption) ([]Node, error) {
	if src == "" {
		return nil, ErrEmptyInput
	}
	ctx := defaultctx()
	for _, opt := range opts {
		ctx = opt.parseOption(ctx)
	}
	if ctx.chunk > 0 {
		if bounds := chunks(src, ctx.chunk); len(bounds) > 2 {
			return parseChunks(ctx, src, bounds)
		}
	}
	return parseRange(ctx.name, src, 0, len(src))
}

// parseRange parses the lines of src[start:end].
func parseRange(name, src string, start, end int) ([]Node, error) {
	p := parser{lex: newLexer(name, src, start, end), src: src}
	for {
		toks, err := p.line()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := p.parseLine(toks); err != nil {
			return nil, err
		}
	}
	return p.nodes, nil
}

type parser struct {
	lex *Lexer
	src string
	// nodes is the document so far.
	nodes []Node
	// para is the open paragraph, which is also the last node, or nil.
	para *Paragraph
	// back is a line pushed back by lookahead.
	back []Token
}

// line returns the next line of compacted tokens.
func (p *parser) line() ([]Token, error) {
	if p.back != nil {
		t := p.back
		p.back = nil
		return t, nil
	}
	for {
		toks, err := p.lex.NextLine()
		if err != nil {
			return nil, err
		}
		if len(toks) != 0 {
			return Compact(toks), nil
		}
	}
}

// push pushes a line back to be returned by the next call to line.
func (p *parser) push(toks []Token) {
	if p.back != nil {
		panic("markup: pushed two lines")
	}
	p.back = toks
}

func (p *parser) parseLine(toks []Token) error {
	switch {
	case blank(toks):
		if p.para != nil {
			p.addText(&p.para.Children, &Text{Content: p.raw(toks)})
			p.close()
		} else {
			p.emit(&Text{Content: p.raw(toks)})
		}
		return nil
	case commentOnly(toks):
		return nil
	}
	switch t := toks[0]; t.Kind {
	case TokHeader:
		p.close()
		p.emit(&Header{Level: t.Level, Text: t.Text})
	case TokCodeFence:
		return p.code(t)
	case TokBullet:
		p.close()
		p.emit(&BulletPoint{Text: p.item(toks[1:])})
	case TokCheckbox:
		p.close()
		p.emit(&Checkbox{Checked: t.Checked, Text: p.item(toks[1:])})
	case TokBlockQuote:
		p.quote(toks[1:])
	case TokTableRow:
		return p.table(toks)
	case TokPageSeparator:
		p.close()
		p.emit(&PageSeparator{})
	case TokLet:
		p.close()
		i := 0
		for ; i < len(toks) && toks[i].Kind == TokLet; i++ {
			p.emit(define(toks[i]))
		}
		if rest := toks[i:]; !blank(rest) {
			p.paragraph(rest)
		}
	case TokCode:
		panic("markup: code line outside fence")
	default:
		p.paragraph(toks)
	}
	return nil
}

// code parses a code block opened by the given fence.
func (p *parser) code(open Token) error {
	p.close()
	var b strings.Builder
	for {
		toks, err := p.line()
		if err == io.EOF {
			return &EndOfInputError{Expected: "```", Start: open.Span.Start}
		}
		if err != nil {
			return err
		}
		switch t := toks[0]; t.Kind {
		case TokCode:
			b.WriteString(t.Text)
			b.WriteByte('\n')
		case TokCodeFence:
			if t.Text != "" {
				return &SyntaxError{Msg: "code fence " + strconv.Quote(t.Text) + " inside code block", At: t.Span.Start}
			}
			p.emit(&CodeBlock{Language: open.Text, Code: b.String()})
			return nil
		default:
			panic("markup: unexpected " + t.Kind.String() + " in code block")
		}
	}
}

// table parses a table starting with the given header row. A row not
// followed by a rule is prose.
func (p *parser) table(head []Token) error {
	rule, err := p.line()
	switch {
	case err == io.EOF:
		p.paragraph(head)
		return nil
	case err != nil:
		return err
	case rule[0].Kind != TokTableRule:
		p.push(rule)
		p.paragraph(head)
		return nil
	}
	p.close()
	t := &Table{Header: head[0].Cells}
	var flat []string
	for {
		toks, err := p.line()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if toks[0].Kind != TokTableRow {
			p.push(toks)
			break
		}
		flat = append(flat, toks[0].Cells...)
	}
	// Cells are taken in header-width rows. Leftovers are dropped.
	w := len(t.Header)
	for len(flat) >= w {
		t.Rows = append(t.Rows, flat[:w:w])
		flat = flat[w:]
	}
	p.emit(t)
	return nil
}

// quote parses the content of a quoted line. Consecutive quoted lines join
// into one block.
func (p *parser) quote(toks []Token) {
	p.close()
	if len(toks) > 0 && toks[0].Kind == TokWhitespace {
		toks = toks[1:]
	}
	if n := len(toks); n > 0 && toks[n-1].Kind == TokNewline {
		toks = toks[:n-1]
	}
	children := p.inline(toks)
	if n := len(p.nodes); n > 0 {
		if q, ok := p.nodes[n-1].(*BlockQuote); ok {
			p.addText(&q.Children, &Text{Content: "\n"})
			p.addText(&q.Children, children...)
			return
		}
	}
	p.emit(&BlockQuote{Children: children})
}

// paragraph adds inline content to the open paragraph, opening one if
// needed.
func (p *parser) paragraph(toks []Token) {
	if p.para == nil {
		p.para = &Paragraph{}
		p.emit(p.para)
	}
	p.addText(&p.para.Children, p.inline(toks)...)
}

// inline converts a line of inline tokens to nodes. Adjacent prose joins
// into a single Text node.
func (p *parser) inline(toks []Token) []Node {
	var r []Node
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			r = append(r, &Text{Content: buf.String()})
			buf.Reset()
		}
	}
	for _, t := range toks {
		switch t.Kind {
		case TokText:
			switch t.Emphasis {
			case StyleNone:
				buf.WriteString(t.Text)
			case StyleSpoiler:
				flush()
				r = append(r, &Spoiler{Text: t.Text})
			default:
				flush()
				r = append(r, &Emphasis{Style: t.Emphasis, Text: t.Text})
			}
		case TokComment:
			// dropped
		case TokInlineCode:
			flush()
			r = append(r, &InlineCode{Code: t.Text})
		case TokLink, TokImage:
			flush()
			r = append(r, &Link{Text: t.Text, URL: t.Value, Image: t.Kind == TokImage})
		case TokExpr, TokFn:
			flush()
			if t.Value == "eval" {
				r = append(r, &EvalBlock{Code: t.Text})
			} else {
				r = append(r, &ShowBlock{Code: t.Text})
			}
		case TokLet:
			flush()
			r = append(r, define(t))
		default:
			// Whitespace, newlines, literals, and block markers out of
			// place are prose as written.
			buf.WriteString(p.src[t.Span.Start:t.Span.End])
		}
	}
	flush()
	return r
}

// addText appends nodes to a child list, joining adjacent Text nodes.
func (p *parser) addText(dst *[]Node, nodes ...Node) {
	for _, n := range nodes {
		if k := len(*dst); k > 0 {
			prev, ok1 := (*dst)[k-1].(*Text)
			cur, ok2 := n.(*Text)
			if ok1 && ok2 {
				prev.Content += cur.Content
				continue
			}
		}
		*dst = append(*dst, n)
	}
}

func (p *parser) emit(n Node) {
	p.nodes = append(p.nodes, n)
}

func (p *parser) close() {
	p.para = nil
}

// raw returns the source text covered by toks.
func (p *parser) raw(toks []Token) string {
	if len(toks) == 0 {
		return ""
	}
	return p.src[toks[0].Span.Start:toks[len(toks)-1].Span.End]
}

// item returns the trimmed text of a list item, up to any comment.
func (p *parser) item(toks []Token) string {
	for i, t := range toks {
		if t.Kind == TokComment || t.Kind == TokNewline {
			toks = toks[:i]
			break
		}
	}
	return strings.TrimSpace(p.raw(toks))
}

// define converts a let token to the equivalent definition.
func define(t Token) *EvalBlock {
	return &EvalBlock{Code: "(define " + t.Text + " " + t.Value + ")"}
}

// blank reports whether a line has nothing but whitespace.
func blank(toks []Token) bool {
	for _, t := range toks {
		if t.Kind != TokWhitespace && t.Kind != TokNewline {
			return false
		}
	}
	return true
}

// commentOnly reports whether a line has a comment and otherwise only
// whitespace.
func commentOnly(toks []Token) bool {
	c := false
	for _, t := range toks {
		switch t.Kind {
		case TokComment:
			c = true
		case TokWhitespace, TokNewline:
		default:
			return false
		}
	}
	return c
}
