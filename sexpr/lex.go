package sexpr

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenOpen is an open paren.
	tokenOpen
	// tokenClose is a close paren.
	tokenClose
	// tokenNum is a decimal number.
	tokenNum
	// tokenSym is any other atom.
	tokenSym
	// tokenStr is a double-quoted string. The text is unquoted.
	tokenStr
)

var tokennames = [...]string{
	tokenNone:  "None",
	tokenEOF:   "EOF",
	tokenOpen:  "Open",
	tokenClose: "Close",
	tokenNum:   "Num",
	tokenSym:   "Sym",
	tokenStr:   "Str",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokennames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokennames[k]
}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("sexpr: double push")
	}
	l.p = tok
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time EOF is
// encountered, the result is an EOF token with a nil error. Subsequent times,
// if the EOF token is not pushed, the result is an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			continue
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		case r == '"':
			if err := l.scanStr(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenStr
			return tok, nil
		default:
			l.unreadRune()
			if err := l.scanAtom(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenSym
			if looksNumeric(tok.text) {
				if !validNum(tok.text) {
					return tok, &ParseError{Col: tok.pos, Msg: "invalid number " + strconv.Quote(tok.text)}
				}
				tok.kind = tokenNum
			}
			return tok, nil
		}
	}
}

// scanAtom scans runes up to whitespace, a paren, a quote, or EOF.
func (l *lexer) scanAtom() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if unicode.IsSpace(r) || r == '(' || r == ')' || r == '"' {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

// scanStr scans the body of a string after its opening quote. A backslash
// escapes the following rune.
func (l *lexer) scanStr() error {
	start := l.rune - 1
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return &ParseError{Col: start, Msg: "unterminated string"}
			}
			return err
		}
		switch r {
		case '"':
			return nil
		case '\\':
			r, err = l.readRune()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return &ParseError{Col: start, Msg: "unterminated string"}
				}
				return err
			}
			switch r {
			case 'n':
				r = '\n'
			case 't':
				r = '\t'
			}
		}
		l.buf.WriteRune(r)
	}
}

// looksNumeric reports whether an atom starts like a number: a digit,
// optionally preceded by a minus sign.
func looksNumeric(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	return s != "" && '0' <= s[0] && s[0] <= '9'
}

// validNum checks that a numeric-looking atom has digits, at most one decimal
// point, and at most one exponent with an optional sign and at least one
// digit.
func validNum(s string) bool {
	s = strings.TrimPrefix(s, "-")
	var dot, e, le, ed bool
	for _, r := range s {
		switch {
		case '0' <= r && r <= '9':
			if e {
				ed = true
			}
			le = false
		case r == '.':
			if dot || e {
				return false
			}
			dot = true
		case r == 'e' || r == 'E':
			if e {
				return false
			}
			e = true
			le = true
		case r == '+' || r == '-':
			if !le {
				return false
			}
			le = false
		default:
			return false
		}
	}
	return !e || ed
}
