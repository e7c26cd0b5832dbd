package markup

import (
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Lexer splits a document into tokens one line at a time. The unit of input
// is the grapheme cluster, so combining sequences and emoji with modifiers
// are never split, and CRLF is a single newline.
type Lexer struct {
	name string
	src  string
	// gs are the grapheme clusters of the lexed range. offs holds the
	// absolute byte offset of each, plus the end of the range.
	gs   []string
	offs []int
	// i is the index of the next grapheme to lex.
	i int
	// fence is whether the lexer is inside a code fence.
	fence bool
	// toks accumulates tokens for the current line.
	toks []Token
	// text is the index where pending plain text starts, or -1.
	text int
}

// NewLexer creates a lexer over a document. name is used in errors.
func NewLexer(name, src string) *Lexer {
	return newLexer(name, src, 0, len(src))
}

// newLexer creates a lexer over src[start:end]. Spans and errors are
// relative to the whole of src. start must be the start of a line.
func newLexer(name, src string, start, end int) *Lexer {
	l := &Lexer{name: name, src: src, text: -1}
	g := uniseg.NewGraphemes(src[start:end])
	for g.Next() {
		a, _ := g.Positions()
		l.gs = append(l.gs, g.Str())
		l.offs = append(l.offs, start+a)
	}
	l.offs = append(l.offs, end)
	return l
}

// Lex tokenizes an entire document.
func Lex(name, src string) ([]Token, error) {
	l := NewLexer(name, src)
	var r []Token
	for {
		toks, err := l.NextLine()
		if err == io.EOF {
			return r, nil
		}
		if err != nil {
			return r, err
		}
		r = append(r, toks...)
	}
}

// NextLine returns the tokens of the next line, ending with a Newline token
// unless the line ends the input. An embedded form that spans lines is
// returned whole with the rest of its last line. Once input is exhausted,
// or after an error, NextLine returns nil, io.EOF.
func (l *Lexer) NextLine() ([]Token, error) {
	if l.i >= len(l.gs) {
		return nil, io.EOF
	}
	l.toks = nil
	l.text = -1
	if l.fence {
		l.fenced()
		return l.toks, nil
	}
	i, done, err := l.block(l.i)
	if err == nil && !done {
		i, err = l.inline(i)
	}
	if err != nil {
		l.i = len(l.gs)
		return nil, err
	}
	l.i = i
	return l.toks, nil
}

// block lexes constructs recognized only at the start of a line. done is
// true if the whole line was consumed.
func (l *Lexer) block(i int) (next int, done bool, err error) {
	e := l.eol(i)
	switch {
	case l.match(i, "```"):
		l.push(i, e, Token{Kind: TokCodeFence, Text: strings.TrimSpace(l.slice(i+3, e))})
		l.fence = true
		return l.newline(e), true, nil
	case l.at(i) == "#":
		n := l.run(i, "#")
		if n <= 6 && l.at(i+n) == " " {
			l.push(i, e, Token{Kind: TokHeader, Level: n, Text: strings.TrimSpace(l.slice(i+n+1, e))})
			return l.newline(e), true, nil
		}
	case l.at(i) == "=":
		n := l.run(i, "=")
		if n >= 3 {
			k := i + n
			for isSpace(l.at(k)) {
				k++
			}
			if k < e {
				rest := strings.TrimSpace(l.slice(k, e))
				return 0, false, l.errorf(SyntaxViolation, k, e, "unexpected "+strconv.Quote(rest)+" after page separator")
			}
			l.push(i, e, Token{Kind: TokPageSeparator})
			return l.newline(e), true, nil
		}
	case l.at(i) == "|" && l.at(i+1) != "|":
		l.push(i, e, Token{Kind: TokTableRow, Cells: cells(l.slice(i, e))})
		return l.newline(e), true, nil
	case strings.TrimSpace(l.slice(i, e)) == "---":
		l.push(i, e, Token{Kind: TokTableRule})
		return l.newline(e), true, nil
	case l.match(i, "-[ ] "), l.match(i, "-[x] "), l.match(i, "-[X] "):
		l.push(i, i+5, Token{Kind: TokCheckbox, Checked: l.at(i+2) != " "})
		return i + 5, false, nil
	case l.match(i, "- ") && isAlnum(l.at(i+2)):
		l.push(i, i+2, Token{Kind: TokBullet})
		return i + 2, false, nil
	case l.at(i) == ">":
		l.push(i, i+1, Token{Kind: TokBlockQuote})
		return i + 1, false, nil
	case l.match(i, "let") && isSpace(l.at(i+3)):
		return l.let(i)
	}
	return i, false, nil
}

// let lexes a let binding starting at i. A binding may be followed by a
// semicolon and another binding. A line with no = after let is prose.
func (l *Lexer) let(i int) (int, bool, error) {
	e := l.eol(i)
	j := i + 3
	var name strings.Builder
	for ; j < e && l.gs[j] != "="; j++ {
		if l.gs[j] == `\` && j+1 < e {
			j++
		}
		name.WriteString(l.gs[j])
	}
	if j >= e {
		// No binding, just prose that starts with the word.
		return i, false, nil
	}
	n := strings.TrimSpace(name.String())
	if n == "" {
		return 0, false, l.errorf(EmptyIdentifier, i, j+1, "let with no name")
	}
	j++
	for isSpace(l.at(j)) {
		j++
	}
	vs := j
	depth := 0
value:
	for ; j < e; j++ {
		switch l.gs[j] {
		case "(":
			depth++
		case ")":
			depth--
			if depth < 0 {
				break value
			}
		case ";":
			if depth == 0 {
				break value
			}
		}
	}
	v := strings.TrimSpace(l.slice(vs, j))
	if v == "" {
		return 0, false, l.errorf(BrokenExpectation, vs, j, "expected value for "+strconv.Quote(n))
	}
	if strings.Contains(v, "let") {
		return 0, false, l.errorf(SyntaxViolation, vs, j, "let inside the value of "+strconv.Quote(n))
	}
	l.push(i, j, Token{Kind: TokLet, Text: n, Value: v})
	if l.at(j) == ";" {
		j++
		for isSpace(l.at(j)) {
			j++
		}
		if l.match(j, "let") && isSpace(l.at(j+3)) {
			return l.let(j)
		}
	}
	return j, false, nil
}

// inline lexes the rest of a line from i.
func (l *Lexer) inline(i int) (int, error) {
	for i < len(l.gs) {
		g := l.gs[i]
		switch {
		case isNewline(g):
			return l.newline(i), nil
		case isSpace(g):
			j := i
			for isSpace(l.at(j)) {
				j++
			}
			l.push(i, j, Token{Kind: TokWhitespace, Text: l.slice(i, j)})
			i = j
		case g == "/" && l.at(i+1) == "/" && (l.lineStart(i) || isSpace(l.gs[i-1])):
			e := l.eol(i)
			l.push(i, e, Token{Kind: TokComment, Text: l.slice(i+2, e)})
			i = e
		case g == `"`:
			j, err := l.literal(i)
			if err != nil {
				return 0, err
			}
			i = j
		case g == `\`:
			switch {
			case i+1 >= len(l.gs):
				return 0, l.errorf(AbruptEnd, i, i+1, "backslash at end of input")
			case isNewline(l.gs[i+1]):
				l.textAt(i)
				i++
			default:
				l.push(i, i+2, Token{Kind: TokText, Text: l.gs[i+1]})
				i += 2
			}
		case g == "`":
			if j := l.find(i+1, l.eol(i), "`"); j >= 0 {
				l.push(i, j+1, Token{Kind: TokInlineCode, Text: l.slice(i+1, j)})
				i = j + 1
			} else {
				l.textAt(i)
				i++
			}
		case g == "*", g == "_", g == "~", g == "|":
			i = l.emphasis(i)
		case g == "!" && l.at(i+1) == "[":
			j, err := l.link(i, i+1, TokImage)
			if err != nil {
				return 0, err
			}
			i = j
		case g == "[":
			j, err := l.link(i, i, TokLink)
			if err != nil {
				return 0, err
			}
			i = j
		case g == "(" && (l.match(i+1, "eval") || l.match(i+1, "show")) && formBoundary(l.at(i+5)):
			j, ok := l.balanced(i)
			if !ok {
				return 0, l.errorf(UnmatchedParen, i, i+5, "unbalanced parentheses in "+l.slice(i, i+5)+" form")
			}
			l.push(i, j, Token{Kind: TokExpr, Value: l.slice(i+1, i+5), Text: strings.TrimSpace(l.slice(i+5, j-1))})
			i = j
		case (l.match(i, "fmt(") || l.match(i, "eval(") || l.match(i, "show(")) && (i == 0 || !isWord(l.gs[i-1])):
			n := l.find(i, len(l.gs), "(")
			j, ok := l.balanced(n)
			if !ok {
				return 0, l.errorf(UnmatchedParen, i, n+1, "unbalanced parentheses in "+l.slice(i, n)+" call")
			}
			l.push(i, j, Token{Kind: TokFn, Value: l.slice(i, n), Text: strings.TrimSpace(l.slice(n+1, j-1))})
			i = j
		default:
			l.textAt(i)
			i++
		}
	}
	l.flush(i)
	return i, nil
}

// fenced lexes a line inside a code fence.
func (l *Lexer) fenced() {
	i := l.i
	e := l.eol(i)
	if l.match(i, "```") {
		lang := strings.TrimSpace(l.slice(i+3, e))
		l.push(i, e, Token{Kind: TokCodeFence, Text: lang})
		if lang == "" {
			l.fence = false
		}
	} else {
		l.push(i, e, Token{Kind: TokCode, Text: l.slice(i, e)})
	}
	l.i = l.newline(e)
}

// literal lexes a quoted string starting at i.
func (l *Lexer) literal(i int) (int, error) {
	e := l.eol(i)
	var b strings.Builder
	for j := i + 1; j < e; j++ {
		switch l.gs[j] {
		case `\`:
			if j+1 < e {
				j++
			}
		case `"`:
			l.push(i, j+1, Token{Kind: TokLiteral, Text: b.String()})
			return j + 1, nil
		}
		b.WriteString(l.gs[j])
	}
	return 0, l.errorf(AbruptEnd, i, e, "unterminated string literal")
}

// emphasis lexes emphasized text or a lone delimiter at i.
func (l *Lexer) emphasis(i int) int {
	var delim string
	var style Style
	switch {
	case l.match(i, "**"):
		delim, style = "**", StyleBold
	case l.match(i, "__"):
		delim, style = "__", StyleUnderline
	case l.match(i, "||"):
		delim, style = "||", StyleSpoiler
	case l.at(i) == "*":
		delim, style = "*", StyleItalic
	case l.at(i) == "~":
		delim, style = "~", StyleStrikethrough
	default:
		l.textAt(i)
		return i + 1
	}
	n := len(delim)
	e := l.eol(i)
	// The first closing delimiter wins. Emphasized text is never empty.
	for j := i + n + 1; j+n <= e; j++ {
		if l.match(j, delim) {
			l.push(i, j+n, Token{Kind: TokText, Emphasis: style, Text: l.slice(i+n, j)})
			return j + n
		}
	}
	l.textAt(i)
	return i + n
}

// link lexes [text](url) with the bracket at b. start is the start of the
// token, which precedes b for images.
func (l *Lexer) link(start, b int, kind TokenKind) (int, error) {
	e := l.eol(b)
	c := l.find(b+1, e, "]")
	if c < 0 || l.at(c+1) != "(" {
		l.textAt(start)
		return b + 1, nil
	}
	p := l.find(c+2, e, ")")
	if p < 0 {
		return 0, l.errorf(BrokenExpectation, c+1, e, "expected ) to close "+strings.ToLower(kind.String())+" URL")
	}
	l.push(start, p+1, Token{Kind: kind, Text: l.slice(b+1, c), Value: strings.TrimSpace(l.slice(c+2, p))})
	return p + 1, nil
}

// balanced returns the index after the parenthesis matching the one at i.
// Parentheses inside quoted strings do not count. The second result is false
// if the input ends first.
func (l *Lexer) balanced(i int) (int, bool) {
	depth := 0
	for j := i; j < len(l.gs); j++ {
		switch l.gs[j] {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return j + 1, true
			}
		case `"`:
			for j++; j < len(l.gs) && l.gs[j] != `"`; j++ {
				if l.gs[j] == `\` {
					j++
				}
			}
		}
	}
	return len(l.gs), false
}

// newline emits a newline token at i, if there is one, and returns the index
// after it.
func (l *Lexer) newline(i int) int {
	if i >= len(l.gs) {
		l.flush(i)
		return i
	}
	l.push(i, i+1, Token{Kind: TokNewline})
	return i + 1
}

// push appends a token spanning graphemes [i, j), first flushing any pending
// text that ends at i.
func (l *Lexer) push(i, j int, t Token) {
	l.flush(i)
	t.Span = l.span(i, j)
	l.toks = append(l.toks, t)
}

// textAt marks grapheme i as plain text.
func (l *Lexer) textAt(i int) {
	if l.text < 0 {
		l.text = i
	}
}

// flush emits pending plain text ending at i.
func (l *Lexer) flush(i int) {
	if l.text < 0 {
		return
	}
	l.toks = append(l.toks, Token{Kind: TokText, Text: l.slice(l.text, i), Span: l.span(l.text, i)})
	l.text = -1
}

func (l *Lexer) errorf(kind LexErrorKind, i, j int, msg string) *LexError {
	s := l.span(i, j)
	return &LexError{
		Kind:   kind,
		Span:   s,
		Line:   1 + strings.Count(l.src[:s.Start], "\n"),
		File:   l.name,
		Source: l.src,
		Msg:    msg,
	}
}

// at returns grapheme i, or the empty string past the end.
func (l *Lexer) at(i int) string {
	if i < 0 || i >= len(l.gs) {
		return ""
	}
	return l.gs[i]
}

// match reports whether the graphemes starting at i spell s, which must be
// ASCII.
func (l *Lexer) match(i int, s string) bool {
	for k := 0; k < len(s); k++ {
		if l.at(i+k) != s[k:k+1] {
			return false
		}
	}
	return true
}

// run counts consecutive copies of g starting at i.
func (l *Lexer) run(i int, g string) int {
	n := 0
	for l.at(i+n) == g {
		n++
	}
	return n
}

// find returns the index of the first g in [i, e), or -1.
func (l *Lexer) find(i, e int, g string) int {
	for ; i < e && i < len(l.gs); i++ {
		if l.gs[i] == g {
			return i
		}
	}
	return -1
}

// eol returns the index of the newline ending the line containing i, or the
// end of input.
func (l *Lexer) eol(i int) int {
	for ; i < len(l.gs); i++ {
		if isNewline(l.gs[i]) {
			return i
		}
	}
	return len(l.gs)
}

func (l *Lexer) lineStart(i int) bool {
	return i == 0 || isNewline(l.gs[i-1])
}

func (l *Lexer) slice(i, j int) string {
	return l.src[l.offs[i]:l.offs[j]]
}

func (l *Lexer) span(i, j int) Span {
	return Span{Start: l.offs[i], End: l.offs[j]}
}

func isNewline(g string) bool {
	return g == "\n" || g == "\r\n"
}

func isSpace(g string) bool {
	return g == " " || g == "\t"
}

func isAlnum(g string) bool {
	r, _ := utf8.DecodeRuneInString(g)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWord(g string) bool {
	return g == "_" || isAlnum(g)
}

// formBoundary reports whether g can follow the keyword of an embedded form.
func formBoundary(g string) bool {
	return isSpace(g) || isNewline(g) || g == "(" || g == ")"
}

// cells splits a table row into trimmed cells.
func cells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	r := strings.Split(line, "|")
	for i, c := range r {
		r[i] = strings.TrimSpace(c)
	}
	return r
}
