package show

import "strconv"

// Op is an operator with a dedicated notation.
type Op int

const (
	OpNone Op = iota

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	OpSqrt
	OpRoot
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLe
	OpGe
	OpApprox
	OpPm
	OpIntegral
	OpSum
	OpProd
	OpLimit
	OpDeriv
	OpPartial
	OpSin
	OpCos
	OpTan
	OpCot
	OpSec
	OpCsc
	OpArcsin
	OpArccos
	OpArctan
	OpSinh
	OpCosh
	OpTanh
	OpLn
	OpLog
	OpExp
	OpAbs
	OpFloor
	OpCeil
	OpFact
	OpBinom
	OpMatrix
	OpVec
	OpDet
	OpSet
	OpIn
	OpUnion
	OpIntersect
	OpSubset
	OpAnd
	OpOr
	OpNot
	OpImplies
	OpForall
	OpExists
	OpParen
	OpBracket
	OpBrace
	OpText
	OpSubscript
	OpOverline
	OpHat
	OpDot
	OpDdot
	OpArrow

	opCount
)

// arity describes the argument counts an operator accepts.
type arity struct {
	// counts lists exact accepted counts. If empty, any count of at least
	// min is accepted.
	counts []int
	min    int
}

func exactly(n ...int) arity { return arity{counts: n} }
func atLeast(n int) arity    { return arity{min: n} }

func (a arity) ok(n int) bool {
	if len(a.counts) == 0 {
		return n >= a.min
	}
	for _, c := range a.counts {
		if c == n {
			return true
		}
	}
	return false
}

func (a arity) String() string {
	if len(a.counts) == 0 {
		return "at least " + plural(a.min)
	}
	s := ""
	for i, c := range a.counts {
		switch {
		case i == 0:
		case i == len(a.counts)-1:
			s += " or "
		default:
			s += ", "
		}
		s += strconv.Itoa(c)
	}
	if len(a.counts) == 1 {
		return plural(a.counts[0])
	}
	return s + " arguments"
}

func plural(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return strconv.Itoa(n) + " arguments"
}

type opinfo struct {
	names []string
	arity arity
}

// ops maps each operator to its names and accepted arities. The first name
// is canonical.
var ops = [opCount]opinfo{
	OpAdd:       {[]string{"+", "add"}, atLeast(1)},
	OpSub:       {[]string{"-", "sub"}, atLeast(1)},
	OpMul:       {[]string{"*", "mul"}, atLeast(1)},
	OpDiv:       {[]string{"/", "div", "frac"}, atLeast(2)},
	OpPow:       {[]string{"^", "pow"}, exactly(2)},
	OpSqrt:      {[]string{"sqrt"}, exactly(1)},
	OpRoot:      {[]string{"root"}, exactly(2)},
	OpEq:        {[]string{"=", "eq"}, atLeast(2)},
	OpNeq:       {[]string{"!=", "neq"}, exactly(2)},
	OpLt:        {[]string{"<", "lt"}, atLeast(2)},
	OpGt:        {[]string{">", "gt"}, atLeast(2)},
	OpLe:        {[]string{"<=", "le"}, atLeast(2)},
	OpGe:        {[]string{">=", "ge"}, atLeast(2)},
	OpApprox:    {[]string{"approx"}, atLeast(2)},
	OpPm:        {[]string{"pm"}, exactly(1, 2)},
	OpIntegral:  {[]string{"integral"}, exactly(2, 4)},
	OpSum:       {[]string{"sum"}, exactly(1, 4)},
	OpProd:      {[]string{"prod"}, exactly(1, 4)},
	OpLimit:     {[]string{"limit"}, exactly(3)},
	OpDeriv:     {[]string{"deriv"}, exactly(2, 3)},
	OpPartial:   {[]string{"partial"}, exactly(2, 3)},
	OpSin:       {[]string{"sin"}, exactly(1, 2)},
	OpCos:       {[]string{"cos"}, exactly(1, 2)},
	OpTan:       {[]string{"tan"}, exactly(1, 2)},
	OpCot:       {[]string{"cot"}, exactly(1, 2)},
	OpSec:       {[]string{"sec"}, exactly(1, 2)},
	OpCsc:       {[]string{"csc"}, exactly(1, 2)},
	OpArcsin:    {[]string{"arcsin"}, exactly(1)},
	OpArccos:    {[]string{"arccos"}, exactly(1)},
	OpArctan:    {[]string{"arctan"}, exactly(1)},
	OpSinh:      {[]string{"sinh"}, exactly(1, 2)},
	OpCosh:      {[]string{"cosh"}, exactly(1, 2)},
	OpTanh:      {[]string{"tanh"}, exactly(1, 2)},
	OpLn:        {[]string{"ln"}, exactly(1)},
	OpLog:       {[]string{"log"}, exactly(1, 2)},
	OpExp:       {[]string{"exp"}, exactly(1)},
	OpAbs:       {[]string{"abs"}, exactly(1)},
	OpFloor:     {[]string{"floor"}, exactly(1)},
	OpCeil:      {[]string{"ceil"}, exactly(1)},
	OpFact:      {[]string{"fact"}, exactly(1)},
	OpBinom:     {[]string{"binom"}, exactly(2)},
	OpMatrix:    {[]string{"matrix"}, atLeast(1)},
	OpVec:       {[]string{"vec"}, atLeast(1)},
	OpDet:       {[]string{"det"}, exactly(1)},
	OpSet:       {[]string{"set"}, atLeast(0)},
	OpIn:        {[]string{"in"}, exactly(2)},
	OpUnion:     {[]string{"union"}, atLeast(2)},
	OpIntersect: {[]string{"intersect"}, atLeast(2)},
	OpSubset:    {[]string{"subset"}, exactly(2)},
	OpAnd:       {[]string{"and"}, atLeast(2)},
	OpOr:        {[]string{"or"}, atLeast(2)},
	OpNot:       {[]string{"not"}, exactly(1)},
	OpImplies:   {[]string{"implies"}, exactly(2)},
	OpForall:    {[]string{"forall"}, exactly(2)},
	OpExists:    {[]string{"exists"}, exactly(2)},
	OpParen:     {[]string{"paren"}, atLeast(1)},
	OpBracket:   {[]string{"bracket"}, atLeast(1)},
	OpBrace:     {[]string{"brace"}, atLeast(1)},
	OpText:      {[]string{"text"}, atLeast(0)},
	OpSubscript: {[]string{"subscript"}, exactly(2, 3)},
	OpOverline:  {[]string{"overline"}, exactly(1)},
	OpHat:       {[]string{"hat"}, exactly(1)},
	OpDot:       {[]string{"dot"}, exactly(1)},
	OpDdot:      {[]string{"ddot"}, exactly(1)},
	OpArrow:     {[]string{"arrow"}, exactly(1)},
}

var opnames = func() map[string]Op {
	m := make(map[string]Op, 2*len(ops))
	for op := OpNone + 1; op < opCount; op++ {
		for _, name := range ops[op].names {
			if _, ok := m[name]; ok {
				panic("show: duplicate operator name " + name)
			}
			m[name] = op
		}
	}
	return m
}()

// LookupOp returns the operator with the given name or alias, or OpNone if
// there is none.
func LookupOp(name string) Op {
	return opnames[name]
}

// Ops returns all operators in order.
func Ops() []Op {
	r := make([]Op, 0, opCount-1)
	for op := OpNone + 1; op < opCount; op++ {
		r = append(r, op)
	}
	return r
}

// Names returns the name and aliases of op.
func (op Op) Names() []string {
	if op <= OpNone || op >= opCount {
		return nil
	}
	return append([]string(nil), ops[op].names...)
}

// Accepts reports whether op accepts n arguments.
func (op Op) Accepts(n int) bool {
	if op <= OpNone || op >= opCount {
		return false
	}
	return ops[op].arity.ok(n)
}

func (op Op) String() string {
	if op <= OpNone || op >= opCount {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
	return ops[op].names[0]
}
