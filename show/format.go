package show

import (
	"strings"

	"github.com/zephyrtronium/lispmark/sexpr"
)

// Invisible operators.
const (
	applyFunction  = "\u2061"
	invisibleTimes = "\u2062"
)

// Format converts an expression into a notation tree. The expression is not
// evaluated. Symbols always display as themselves; env is consulted only to
// mark calls to bound functions. env may be nil.
//
// Malformed operator forms, such as an operator with the wrong number of
// arguments, produce error nodes in place rather than failing the whole
// expression.
func Format(n *sexpr.Node, env *sexpr.Env) *Notation {
	f := formatter{env: env}
	return f.expr(n)
}

// Render formats an expression as a complete MathML math element.
func Render(n *sexpr.Node, env *sexpr.Env) string {
	return Format(n, env).Render()
}

type formatter struct {
	env *sexpr.Env
}

func (f *formatter) expr(n *sexpr.Node) *Notation {
	if n == nil {
		return fail("missing expression")
	}
	switch n.Kind {
	case sexpr.KindNumber:
		s := sexpr.FormatNumber(n.Num)
		if strings.HasPrefix(s, "-") {
			return row(mo("−"), mn(s[1:]))
		}
		return mn(s)
	case sexpr.KindBool:
		if n.Bool {
			return upright("true")
		}
		return upright("false")
	case sexpr.KindString:
		return mtext(n.Name)
	case sexpr.KindSymbol:
		return symbol(n.Name)
	case sexpr.KindList:
		if len(n.Items) == 0 {
			return fence("(", ")")
		}
		if name, ok := n.Head(); ok {
			return f.call(name, n.Items[1:])
		}
		// Head is not a symbol, e.g. ((f x) y).
		return row(f.expr(n.Items[0]), fence("(", ")", f.commas(n.Items[1:])...))
	case sexpr.KindApplication:
		return f.call(n.Name, n.Items)
	case sexpr.KindUserFunc:
		params := make([]*Notation, len(n.Params))
		for i, p := range n.Params {
			params[i] = symbol(p)
		}
		return row(fence("(", ")", commaJoin(params)...), mo("↦"), f.expr(n.Body))
	case sexpr.KindNativeFunc:
		return upright(n.Name)
	case sexpr.KindError:
		return fail(n.Name)
	default:
		panic("show: invalid node kind " + n.Kind.String())
	}
}

// call formats a call-shaped expression.
func (f *formatter) call(name string, args []*sexpr.Node) *Notation {
	op := LookupOp(name)
	if op == OpNone {
		return f.apply(name, args)
	}
	if !op.Accepts(len(args)) {
		return fail(name + " expects " + ops[op].arity.String() + ", got " + plural(len(args)))
	}
	return f.op(op, args)
}

// apply formats a call to a function with no dedicated notation as
// name(a, b).
func (f *formatter) apply(name string, args []*sexpr.Node) *Notation {
	head := symbol(name)
	if f.env != nil && f.env.IsFunc(name) {
		return row(head, mo(applyFunction), fence("(", ")", f.commas(args)...))
	}
	return row(head, fence("(", ")", f.commas(args)...))
}

func (f *formatter) commas(args []*sexpr.Node) []*Notation {
	r := make([]*Notation, len(args))
	for i, a := range args {
		r[i] = f.expr(a)
	}
	return commaJoin(r)
}

func commaJoin(c []*Notation) []*Notation {
	if len(c) == 0 {
		return nil
	}
	r := make([]*Notation, 0, 2*len(c)-1)
	for i, n := range c {
		if i > 0 {
			r = append(r, mo(","))
		}
		r = append(r, n)
	}
	return r
}

// group is the precedence class of an expression, used to decide where
// parentheses are needed.
type group int

const (
	atomic group = iota
	negated
	multiplicative
	additive
	relational
	logical
)

func classify(n *sexpr.Node) group {
	switch n.Kind {
	case sexpr.KindNumber:
		if n.Num.Sign() < 0 {
			return negated
		}
		return atomic
	case sexpr.KindList, sexpr.KindApplication:
		name, ok := n.Head()
		if !ok {
			return atomic
		}
		op := LookupOp(name)
		if !op.Accepts(len(n.Args())) {
			return atomic
		}
		switch op {
		case OpAdd:
			if len(n.Args()) == 1 {
				return classify(n.Args()[0])
			}
			return additive
		case OpSub:
			if len(n.Args()) == 1 {
				return negated
			}
			return additive
		case OpPm:
			if len(n.Args()) == 1 {
				return negated
			}
			return additive
		case OpMul:
			if len(n.Args()) == 1 {
				return classify(n.Args()[0])
			}
			return multiplicative
		case OpEq, OpNeq, OpLt, OpGt, OpLe, OpGe, OpApprox, OpIn, OpSubset:
			return relational
		case OpAnd, OpOr, OpImplies, OpNot, OpForall, OpExists:
			return logical
		case OpUnion, OpIntersect:
			return additive
		case OpIntegral, OpSum, OpProd, OpLimit, OpDeriv, OpPartial:
			// Big operators extend as far right as possible.
			return additive
		}
	case sexpr.KindUserFunc:
		return relational
	}
	return atomic
}

// operand formats n, parenthesized if its class is in wrap.
func (f *formatter) operand(n *sexpr.Node, wrap ...group) *Notation {
	c := classify(n)
	for _, g := range wrap {
		if c == g {
			return fence("(", ")", f.expr(n))
		}
	}
	return f.expr(n)
}

// isDiv reports whether n is a well-formed division.
func isDiv(n *sexpr.Node) bool {
	name, ok := n.Head()
	return ok && LookupOp(name) == OpDiv && OpDiv.Accepts(len(n.Args()))
}

// isPow reports whether n is a well-formed power.
func isPow(n *sexpr.Node) bool {
	name, ok := n.Head()
	return ok && LookupOp(name) == OpPow && OpPow.Accepts(len(n.Args()))
}

// simple reports whether n displays as a single token.
func simple(n *sexpr.Node) bool {
	switch n.Kind {
	case sexpr.KindSymbol, sexpr.KindBool:
		return true
	case sexpr.KindNumber:
		return n.Num.Sign() >= 0
	default:
		return false
	}
}

// infix joins operands with an operator, wrapping operands whose class is
// in wrap. Later operands are additionally wrapped if they are negated.
func (f *formatter) infix(sym string, args []*sexpr.Node, wrap ...group) *Notation {
	r := make([]*Notation, 0, 2*len(args)-1)
	for i, a := range args {
		if i == 0 {
			r = append(r, f.operand(a, wrap...))
			continue
		}
		r = append(r, mo(sym), f.operand(a, append(wrap, negated)...))
	}
	return row(r...)
}

// prefix formats a named function applied to one argument, like sin x or
// sin(x + 1).
func (f *formatter) prefix(name *Notation, arg *sexpr.Node) *Notation {
	if simple(arg) {
		return row(name, mo(applyFunction), f.expr(arg))
	}
	return row(name, mo(applyFunction), fence("(", ")", f.expr(arg)))
}

// large formats a large operator followed by its body, with optional limits.
func (f *formatter) large(sym string, body *sexpr.Node, under, over *Notation) *Notation {
	var o *Notation
	if under == nil {
		o = mo(sym)
	} else {
		o = el(UnderOver, mo(sym), under, over)
	}
	return row(o, f.operand(body, additive, relational, logical))
}

// derivative formats d/dx f or its nth order form, using d as the symbol.
func (f *formatter) derivative(d string, args []*sexpr.Node) *Notation {
	body, x := args[0], f.expr(args[1])
	var top, bot *Notation
	if len(args) == 3 {
		n := f.expr(args[2])
		top = el(Sup, mi(d), n)
		bot = row(mi(d), el(Sup, x, f.expr(args[2])))
	} else {
		top = mi(d)
		bot = row(mi(d), x)
	}
	return row(el(Frac, top, bot), f.operand(body, additive, relational, logical))
}

func (f *formatter) table(rows [][]*sexpr.Node) *Notation {
	t := el(Table)
	for _, r := range rows {
		tr := el(TableRow)
		for _, c := range r {
			tr.Children = append(tr.Children, el(TableCell, f.expr(c)))
		}
		t.Children = append(t.Children, tr)
	}
	return t
}

// matrixRows returns the rows of a matrix form. Each argument must be a
// list; its items, head included, are the cells of one row.
func matrixRows(args []*sexpr.Node) ([][]*sexpr.Node, bool) {
	rows := make([][]*sexpr.Node, len(args))
	for i, a := range args {
		switch a.Kind {
		case sexpr.KindList:
			rows[i] = a.Items
		case sexpr.KindApplication:
			rows[i] = append([]*sexpr.Node{sexpr.Sym(a.Name)}, a.Items...)
		default:
			return nil, false
		}
		if len(rows[i]) == 0 {
			return nil, false
		}
	}
	return rows, true
}

func (f *formatter) matrix(args []*sexpr.Node, open, close string) *Notation {
	rows, ok := matrixRows(args)
	if !ok {
		return fail("matrix rows must be non-empty lists")
	}
	return fence(open, close, f.table(rows))
}

func (f *formatter) words(args []*sexpr.Node) string {
	s := make([]string, len(args))
	for i, a := range args {
		switch a.Kind {
		case sexpr.KindString, sexpr.KindSymbol:
			s[i] = a.Name
		default:
			s[i] = a.String()
		}
	}
	return strings.Join(s, " ")
}

// op formats an operator form. The argument count has already been checked.
func (f *formatter) op(op Op, args []*sexpr.Node) *Notation {
	switch op {
	case OpAdd:
		if len(args) == 1 {
			return f.expr(args[0])
		}
		return f.infix("+", args, relational, logical)
	case OpSub:
		if len(args) == 1 {
			return row(mo("−"), f.operand(args[0], negated, additive, relational, logical))
		}
		r := []*Notation{f.operand(args[0], relational, logical)}
		for _, a := range args[1:] {
			r = append(r, mo("−"), f.operand(a, negated, additive, relational, logical))
		}
		return row(r...)
	case OpMul:
		if len(args) == 1 {
			return f.expr(args[0])
		}
		r := []*Notation{f.operand(args[0], additive, relational, logical)}
		for i, a := range args[1:] {
			// 2x rather than 2·x.
			sym := "⋅"
			if args[i].Kind == sexpr.KindNumber && a.Kind != sexpr.KindNumber && classify(a) == atomic {
				sym = invisibleTimes
			}
			r = append(r, mo(sym), f.operand(a, negated, additive, relational, logical))
		}
		return row(r...)
	case OpDiv:
		r := el(Frac, f.expr(args[0]), f.expr(args[1]))
		for _, a := range args[2:] {
			r = el(Frac, r, f.expr(a))
		}
		return r
	case OpPow:
		var base *Notation
		if isPow(args[0]) || isDiv(args[0]) {
			base = fence("(", ")", f.expr(args[0]))
		} else {
			base = f.operand(args[0], negated, multiplicative, additive, relational, logical)
		}
		return el(Sup, base, f.expr(args[1]))
	case OpSqrt:
		return el(Sqrt, f.expr(args[0]))
	case OpRoot:
		return el(Root, f.expr(args[0]), f.expr(args[1]))
	case OpEq:
		return f.infix("=", args, relational, logical)
	case OpNeq:
		return f.infix("≠", args, relational, logical)
	case OpLt:
		return f.infix("<", args, relational, logical)
	case OpGt:
		return f.infix(">", args, relational, logical)
	case OpLe:
		return f.infix("≤", args, relational, logical)
	case OpGe:
		return f.infix("≥", args, relational, logical)
	case OpApprox:
		return f.infix("≈", args, relational, logical)
	case OpPm:
		if len(args) == 1 {
			return row(mo("±"), f.operand(args[0], negated, additive, relational, logical))
		}
		return f.infix("±", args, relational, logical)
	case OpIntegral:
		// (integral f x) or (integral f x a b)
		var o *Notation
		if len(args) == 4 {
			o = el(SubSup, mo("∫"), f.expr(args[2]), f.expr(args[3]))
		} else {
			o = mo("∫")
		}
		return row(o, f.operand(args[0], additive, relational, logical), mi("d"), f.expr(args[1]))
	case OpSum, OpProd:
		sym := "∑"
		if op == OpProd {
			sym = "∏"
		}
		// (sum f) or (sum f i a b)
		if len(args) == 1 {
			return f.large(sym, args[0], nil, nil)
		}
		under := row(f.expr(args[1]), mo("="), f.expr(args[2]))
		return f.large(sym, args[0], under, f.expr(args[3]))
	case OpLimit:
		// (limit f x a)
		under := row(f.expr(args[1]), mo("→"), f.expr(args[2]))
		return row(el(Under, upright("lim"), under), f.operand(args[0], additive, relational, logical))
	case OpDeriv:
		return f.derivative("d", args)
	case OpPartial:
		return f.derivative("∂", args)
	case OpSin, OpCos, OpTan, OpCot, OpSec, OpCsc, OpSinh, OpCosh, OpTanh:
		name := upright(op.String())
		if len(args) == 2 {
			// (sin x 2) is sin² x.
			name = el(Sup, name, f.expr(args[1]))
		}
		return f.prefix(name, args[0])
	case OpArcsin, OpArccos, OpArctan, OpLn:
		return f.prefix(upright(op.String()), args[0])
	case OpLog:
		if len(args) == 2 {
			return f.prefix(el(Sub, upright("log"), f.expr(args[1])), args[0])
		}
		return f.prefix(upright("log"), args[0])
	case OpExp:
		return el(Sup, mi("e"), f.expr(args[0]))
	case OpAbs:
		return fence("|", "|", f.expr(args[0]))
	case OpFloor:
		return fence("⌊", "⌋", f.expr(args[0]))
	case OpCeil:
		return fence("⌈", "⌉", f.expr(args[0]))
	case OpFact:
		if simple(args[0]) {
			return row(f.expr(args[0]), mo("!"))
		}
		return row(fence("(", ")", f.expr(args[0])), mo("!"))
	case OpBinom:
		b := el(Frac, f.expr(args[0]), f.expr(args[1]))
		b.Attrs = []Attr{{"linethickness", "0"}}
		return fence("(", ")", b)
	case OpMatrix:
		return f.matrix(args, "[", "]")
	case OpVec:
		rows := make([][]*sexpr.Node, len(args))
		for i, a := range args {
			rows[i] = []*sexpr.Node{a}
		}
		return fence("(", ")", f.table(rows))
	case OpDet:
		if name, ok := args[0].Head(); ok && LookupOp(name) == OpMatrix && len(args[0].Args()) > 0 {
			return f.matrix(args[0].Args(), "|", "|")
		}
		return f.prefix(upright("det"), args[0])
	case OpSet:
		return fence("{", "}", f.commas(args)...)
	case OpIn:
		return f.infix("∈", args, relational, logical)
	case OpUnion:
		return f.infix("∪", args, relational, logical)
	case OpIntersect:
		return f.infix("∩", args, additive, relational, logical)
	case OpSubset:
		return f.infix("⊆", args, relational, logical)
	case OpAnd:
		return f.infix("∧", args, logical)
	case OpOr:
		return f.infix("∨", args, logical)
	case OpNot:
		return row(mo("¬"), f.operand(args[0], relational, logical))
	case OpImplies:
		return f.infix("⇒", args, logical)
	case OpForall:
		return row(mo("∀"), f.expr(args[0]), mo(":"), f.expr(args[1]))
	case OpExists:
		return row(mo("∃"), f.expr(args[0]), mo(":"), f.expr(args[1]))
	case OpParen:
		return fence("(", ")", f.commas(args)...)
	case OpBracket:
		return fence("[", "]", f.commas(args)...)
	case OpBrace:
		return fence("{", "}", f.commas(args)...)
	case OpText:
		return mtext(f.words(args))
	case OpSubscript:
		if len(args) == 3 {
			return el(SubSup, f.expr(args[0]), f.expr(args[1]), f.expr(args[2]))
		}
		return el(Sub, f.expr(args[0]), f.expr(args[1]))
	case OpOverline:
		return accent(f.expr(args[0]), "‾")
	case OpHat:
		return accent(f.expr(args[0]), "^")
	case OpDot:
		return accent(f.expr(args[0]), "˙")
	case OpDdot:
		return accent(f.expr(args[0]), "¨")
	case OpArrow:
		return accent(f.expr(args[0]), "→")
	default:
		panic("show: no notation for operator " + op.String())
	}
}
