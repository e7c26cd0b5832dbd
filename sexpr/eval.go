package sexpr

import (
	"io"
	"strconv"
	"strings"
)

// Eval evaluates an expression in env and returns the result. Evaluating
// define forms binds names in env.
func (env *Env) Eval(n *Node) (*Node, error) {
	switch n.Kind {
	case KindNumber, KindBool, KindString, KindNativeFunc, KindUserFunc:
		return n, nil
	case KindSymbol:
		v, ok := env.Lookup(n.Name)
		if !ok {
			return nil, &NameError{Name: n.Name}
		}
		return v, nil
	case KindError:
		return nil, &EvalError{Msg: n.Name}
	case KindApplication:
		fn, err := env.Eval(Sym(n.Name))
		if err != nil {
			return nil, err
		}
		return env.call(n.Name, fn, n.Items)
	case KindList:
		if len(n.Items) == 0 {
			return Nil(), nil
		}
		head := n.Items[0]
		args := n.Items[1:]
		if head.Kind == KindSymbol {
			switch head.Name {
			case "quote":
				return env.quote(args)
			case "if":
				return env.cond(args)
			case "define":
				return env.define(args)
			case "begin":
				return env.begin(args)
			case "lambda":
				return nil, &EvalError{Msg: "lambda is not implemented"}
			}
		}
		fn, err := env.Eval(head)
		if err != nil {
			return nil, err
		}
		return env.call(head.String(), fn, args)
	case KindNone:
		return nil, &EvalError{Msg: "invalid expression"}
	default:
		panic("sexpr: invalid AST node " + n.Kind.String())
	}
}

func (env *Env) quote(args []*Node) (*Node, error) {
	if len(args) != 1 {
		return nil, &ArityError{Func: "quote", Want: "1", Got: len(args)}
	}
	return args[0], nil
}

func (env *Env) cond(args []*Node) (*Node, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, &ArityError{Func: "if", Want: "2 or 3", Got: len(args)}
	}
	c, err := env.Eval(args[0])
	if err != nil {
		return nil, err
	}
	if Truthy(c) {
		return env.Eval(args[1])
	}
	if len(args) == 3 {
		return env.Eval(args[2])
	}
	return Nil(), nil
}

func (env *Env) define(args []*Node) (*Node, error) {
	if len(args) != 2 {
		return nil, &ArityError{Func: "define", Want: "2", Got: len(args)}
	}
	if args[0].Kind != KindSymbol {
		return nil, &TypeError{Func: "define", Arg: 1, Want: KindSymbol, Got: args[0].Kind}
	}
	v, err := env.Eval(args[1])
	if err != nil {
		return nil, err
	}
	env.Set(args[0].Name, v)
	return v, nil
}

func (env *Env) begin(args []*Node) (*Node, error) {
	r := Nil()
	for _, a := range args {
		v, err := env.Eval(a)
		if err != nil {
			return nil, err
		}
		r = v
	}
	return r, nil
}

// call evaluates args left to right and applies fn to them.
func (env *Env) call(name string, fn *Node, args []*Node) (*Node, error) {
	vals := make([]*Node, len(args))
	for i, a := range args {
		v, err := env.Eval(a)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	switch fn.Kind {
	case KindNativeFunc:
		f := env.funcs[fn.Name]
		if f == nil {
			return nil, &EvalError{Msg: "unknown builtin " + strconv.Quote(fn.Name)}
		}
		if !f.CanCall(len(vals)) {
			return nil, &ArityError{Func: fn.Name, Got: len(vals)}
		}
		return f.Call(env, vals)
	case KindUserFunc:
		if len(fn.Params) != len(vals) {
			return nil, &ArityError{Func: name, Want: strconv.Itoa(len(fn.Params)), Got: len(vals)}
		}
		scope := env.child()
		for i, p := range fn.Params {
			scope.Set(p, vals[i])
		}
		return scope.Eval(fn.Body)
	default:
		return nil, &EvalError{Msg: "not a function: " + name}
	}
}

// Truthy reports whether a value counts as true in a condition. Only false
// and the empty list are false.
func Truthy(n *Node) bool {
	switch {
	case n.Kind == KindBool:
		return n.Bool
	case n.IsNil():
		return false
	default:
		return true
	}
}

// Eval is a shortcut to parse an expression and evaluate it in a new
// environment.
func Eval(src io.RuneScanner, opts ...EnvOption) (*Node, error) {
	env := NewEnv(opts...)
	a, err := Parse(src, ParsePrec(env.Prec()))
	if err != nil {
		return nil, err
	}
	return env.Eval(a)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...EnvOption) (*Node, error) {
	return Eval(strings.NewReader(src), opts...)
}

// NameError is an error from a lookup for a symbol that is missing from the
// environment.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "Symbol not found: " + strconv.Quote(err.Name)
}

// ArityError is an error indicating a call with the wrong number of
// arguments.
type ArityError struct {
	// Func is the function or special form that was called.
	Func string
	// Want describes the allowed argument counts, if known.
	Want string
	// Got is the number of arguments given.
	Got int
}

func (err *ArityError) Error() string {
	s := "cannot call " + err.Func + " with " + strconv.Itoa(err.Got) + " arguments"
	if err.Want != "" {
		s += " (want " + err.Want + ")"
	}
	return s
}

// TypeError is an error indicating an argument of the wrong kind.
type TypeError struct {
	// Func is the function or special form that was called.
	Func string
	// Arg is the 1-based index of the argument.
	Arg int
	// Want and Got are the expected and actual kinds.
	Want, Got Kind
}

func (err *TypeError) Error() string {
	return err.Func + ": argument " + strconv.Itoa(err.Arg) + " must be " + err.Want.String() + ", not " + err.Got.String()
}

// EvalError is any other error during evaluation.
type EvalError struct {
	Msg string
}

func (err *EvalError) Error() string {
	return err.Msg
}
