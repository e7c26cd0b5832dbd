package sexpr

import (
	"errors"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a native function. Arguments are already evaluated.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. Call must not modify the elements of args.
	Call(env *Env, args []*Node) (*Node, error)

	// CanCall returns whether the function can be called with n arguments.
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"+":   fold{name: "+", identity: 0, op: (*big.Float).Add},
	"add": fold{name: "add", identity: 0, op: (*big.Float).Add},
	"*":   fold{name: "*", identity: 1, op: (*big.Float).Mul},
	"mul": fold{name: "mul", identity: 1, op: (*big.Float).Mul},
	"-":   subtract("-"),
	"sub": subtract("sub"),
	"/":   divide("/"),
	"div": divide("div"),

	"=":  compare{"=", func(c int) bool { return c == 0 }},
	"<":  compare{"<", func(c int) bool { return c < 0 }},
	">":  compare{">", func(c int) bool { return c > 0 }},
	"<=": compare{"<=", func(c int) bool { return c <= 0 }},
	">=": compare{">=", func(c int) bool { return c >= 0 }},

	"exp":  Monadic("exp", bigfloat.Exp),
	"ln":   Monadic("ln", bigfloat.Log),
	"sqrt": Monadic("sqrt", (*big.Float).Sqrt),
	"abs":  Monadic("abs", (*big.Float).Abs),
	"log":  logarithm{},
	"pow":  power{},
	"min":  extreme{"min", -1},
	"max":  extreme{"max", 1},
	"list": variadic(func(env *Env, args []*Node) (*Node, error) {
		items := make([]*Node, len(args))
		for i, a := range args {
			items[i] = a.Clone()
		}
		return List(items...), nil
	}),
}

// constants are bound as numbers in every new environment.
var constants = map[string]func(out *big.Float) *big.Float{
	"pi": bigfloat.Pi,
	"e": func(out *big.Float) *big.Float {
		one := new(big.Float).SetPrec(out.Prec()).SetInt64(1)
		return bigfloat.Exp(out, one)
	},
}

// numbers extracts the values of args, all of which must be numbers.
func numbers(fn string, args []*Node) ([]*big.Float, error) {
	r := make([]*big.Float, len(args))
	for i, a := range args {
		if a.Kind != KindNumber {
			return nil, &TypeError{Func: fn, Arg: i + 1, Want: KindNumber, Got: a.Kind}
		}
		r[i] = a.Num
	}
	return r, nil
}

// fold combines any number of arguments starting from an identity.
type fold struct {
	name     string
	identity int64
	op       func(z, x, y *big.Float) *big.Float
}

func (f fold) Call(env *Env, args []*Node) (*Node, error) {
	xs, err := numbers(f.name, args)
	if err != nil {
		return nil, err
	}
	r := new(big.Float).SetPrec(env.Prec()).SetInt64(f.identity)
	for _, x := range xs {
		f.op(r, r, x)
	}
	return &Node{Kind: KindNumber, Num: r}, nil
}

func (fold) CanCall(n int) bool {
	return true
}

// subtract negates a single argument and otherwise subtracts the rest of its
// arguments from the first.
type subtract string

func (f subtract) Call(env *Env, args []*Node) (*Node, error) {
	xs, err := numbers(string(f), args)
	if err != nil {
		return nil, err
	}
	r := new(big.Float).SetPrec(env.Prec())
	if len(xs) == 1 {
		r.Neg(xs[0])
		return &Node{Kind: KindNumber, Num: r}, nil
	}
	r.Set(xs[0])
	for _, x := range xs[1:] {
		r.Sub(r, x)
	}
	return &Node{Kind: KindNumber, Num: r}, nil
}

func (subtract) CanCall(n int) bool {
	return n >= 1
}

// divide takes the reciprocal of a single argument and otherwise divides the
// first argument by each of the rest in turn.
type divide string

func (f divide) Call(env *Env, args []*Node) (*Node, error) {
	xs, err := numbers(string(f), args)
	if err != nil {
		return nil, err
	}
	r := new(big.Float).SetPrec(env.Prec())
	first := 1
	if len(xs) == 1 {
		r.SetInt64(1)
	} else {
		r.Set(xs[0])
		xs = xs[1:]
		first = 2
	}
	for i, x := range xs {
		if x.Sign() == 0 || r.IsInf() && x.IsInf() {
			return nil, &DomainError{X: x, Arg: i + first, Func: string(f)}
		}
		r.Quo(r, x)
	}
	return &Node{Kind: KindNumber, Num: r}, nil
}

func (divide) CanCall(n int) bool {
	return n >= 1
}

// compare checks that each adjacent pair of arguments satisfies a relation.
type compare struct {
	name string
	ok   func(c int) bool
}

func (f compare) Call(env *Env, args []*Node) (*Node, error) {
	xs, err := numbers(f.name, args)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(xs); i++ {
		if !f.ok(xs[i-1].Cmp(xs[i])) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func (compare) CanCall(n int) bool {
	return n >= 2
}

// extreme finds the least or greatest argument.
type extreme struct {
	name string
	sign int
}

func (f extreme) Call(env *Env, args []*Node) (*Node, error) {
	xs, err := numbers(f.name, args)
	if err != nil {
		return nil, err
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x.Cmp(m) == f.sign {
			m = x
		}
	}
	return Num(m), nil
}

func (extreme) CanCall(n int) bool {
	return n >= 1
}

type monadic struct {
	name string
	f    func(out, in *big.Float) *big.Float
}

func (m monadic) Call(env *Env, args []*Node) (r *Node, err error) {
	xs, err := numbers(m.name, args)
	if err != nil {
		return nil, err
	}
	in := new(big.Float).SetPrec(env.Prec()).Set(xs[0])
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err = r.(error) // panic if not error
		if errors.As(err, &DomainError{}) || errors.As(err, &big.ErrNaN{}) {
			err = &DomainError{X: xs[0], Arg: 1, Func: m.name}
			return
		}
		panic(err)
	}()
	out := new(big.Float).SetPrec(env.Prec())
	m.f(out, in)
	return &Node{Kind: KindNumber, Num: out}, nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one number into a Func. f must set out to its
// result, to the precision of out; its return value is always ignored. If f
// is called on an argument outside f's domain, it should panic with an error
// of type big.ErrNaN, or that unwraps to it.
func Monadic(name string, f func(out, in *big.Float) *big.Float) Func {
	return monadic{name, f}
}

type variadic func(env *Env, args []*Node) (*Node, error)

func (f variadic) Call(env *Env, args []*Node) (*Node, error) {
	return f(env, args)
}

func (variadic) CanCall(n int) bool {
	return true
}

// logarithm is the common logarithm of one argument, or the logarithm of its
// first argument in the base of its second.
type logarithm struct{}

func (logarithm) Call(env *Env, args []*Node) (*Node, error) {
	xs, err := numbers("log", args)
	if err != nil {
		return nil, err
	}
	base := new(big.Float).SetPrec(env.Prec()).SetInt64(10)
	if len(xs) == 2 {
		base.Set(xs[1])
	}
	if xs[0].Sign() <= 0 {
		return nil, &DomainError{X: xs[0], Arg: 1, Func: "log"}
	}
	if base.Sign() <= 0 || base.Cmp(big.NewFloat(1)) == 0 {
		return nil, &DomainError{X: base, Arg: 2, Func: "log"}
	}
	num := bigfloat.Log(new(big.Float).SetPrec(env.Prec()), new(big.Float).SetPrec(env.Prec()).Set(xs[0]))
	den := bigfloat.Log(new(big.Float).SetPrec(env.Prec()), base)
	return &Node{Kind: KindNumber, Num: num.Quo(num, den)}, nil
}

func (logarithm) CanCall(n int) bool {
	return n == 1 || n == 2
}

// power raises its first argument to its second. Integer exponents are
// computed by repeated squaring so that negative bases are allowed.
type power struct{}

func (power) Call(env *Env, args []*Node) (*Node, error) {
	xs, err := numbers("pow", args)
	if err != nil {
		return nil, err
	}
	prec := env.Prec()
	x, y := xs[0], xs[1]
	r := new(big.Float).SetPrec(prec)
	if y.IsInt() && !y.IsInf() {
		k, acc := y.Int64()
		if acc == big.Exact && k > -1<<20 && k < 1<<20 {
			if k < 0 && x.Sign() == 0 {
				return nil, &DomainError{X: x, Arg: 1, Func: "pow"}
			}
			return &Node{Kind: KindNumber, Num: intpow(r, x, k)}, nil
		}
	}
	switch x.Sign() {
	case -1:
		return nil, &DomainError{X: x, Arg: 1, Func: "pow"}
	case 0:
		if y.Sign() <= 0 {
			return nil, &DomainError{X: y, Arg: 2, Func: "pow"}
		}
		return &Node{Kind: KindNumber, Num: r}, nil
	}
	r = bigfloat.Pow(r, new(big.Float).SetPrec(prec).Set(x), new(big.Float).SetPrec(prec).Set(y))
	return &Node{Kind: KindNumber, Num: r}, nil
}

func (power) CanCall(n int) bool {
	return n == 2
}

// intpow sets z to x**k and returns z.
func intpow(z, x *big.Float, k int64) *big.Float {
	neg := k < 0
	if neg {
		k = -k
	}
	b := new(big.Float).SetPrec(z.Prec()).Set(x)
	z.SetInt64(1)
	for k > 0 {
		if k&1 != 0 {
			z.Mul(z, b)
		}
		b.Mul(b, b)
		k >>= 1
	}
	if neg {
		z.Quo(new(big.Float).SetPrec(z.Prec()).SetInt64(1), z)
	}
	return z
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err DomainError) Error() string {
	r := FormatNumber(err.X) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}
