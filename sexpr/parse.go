package sexpr

import (
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Expr = atom | '(' { Expr } ')'
// atom = number | string | symbol
// Program = Expr { Expr }
//
// A program with more than one top-level expression parses as
// (begin Expr Expr ...).

// Parse parses an S-expression program. The given options are applied in
// order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Node, error) {
	scan := lex(src)
	p := parsectx{prec: DefaultPrec}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	var forms []*Node
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenEOF {
			break
		}
		scan.push(tok)
		n, err := parseexpr(scan, &p)
		if err != nil {
			return nil, err
		}
		forms = append(forms, n)
	}
	switch len(forms) {
	case 0:
		return nil, &ParseError{Col: 1, Msg: "no expression"}
	case 1:
		return forms[0], nil
	default:
		return List(append([]*Node{Sym("begin")}, forms...)...), nil
	}
}

// ParseString is a shortcut to parse a string.
func ParseString(src string, opts ...ParseOption) (*Node, error) {
	return Parse(strings.NewReader(src), opts...)
}

// parseexpr parses a single expression.
func parseexpr(scan *lexer, p *parsectx) (*Node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenOpen:
		return parselist(scan, p, tok)
	case tokenClose:
		return nil, &ParseError{Col: tok.pos, Msg: "unexpected )"}
	case tokenNum:
		return p.num(tok)
	case tokenStr:
		return Str(tok.text), nil
	case tokenSym:
		switch tok.text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return Sym(tok.text), nil
	case tokenEOF:
		return nil, &ParseError{Col: tok.pos, Msg: "unexpected end of input"}
	default:
		panic("sexpr: unknown token: " + tok.String())
	}
}

// parselist parses list elements after the open paren up to and including the
// matching close paren.
func parselist(scan *lexer, p *parsectx, open lexToken) (*Node, error) {
	l := &Node{Kind: KindList}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenClose:
			return l, nil
		case tokenEOF:
			return nil, &ParseError{Col: open.pos, Msg: "open paren with no close paren"}
		}
		scan.push(tok)
		n, err := parseexpr(scan, p)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, n)
	}
}

func (p *parsectx) num(tok lexToken) (*Node, error) {
	x, _, err := new(big.Float).SetPrec(p.prec).Parse(tok.text, 10)
	if err != nil {
		return nil, &ParseError{Col: tok.pos, Msg: "invalid number " + strconv.Quote(tok.text) + ": " + err.Error()}
	}
	return &Node{Kind: KindNumber, Num: x}, nil
}
