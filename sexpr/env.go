package sexpr

import (
	"math/big"
	"sort"
)

// Env is a binding environment for evaluating expressions. It is not safe to
// use an Env concurrently; each document render should use its own.
type Env struct {
	names  map[string]*Node
	funcs  map[string]Func
	parent *Env
	prec   uint
}

// EnvOption is an option used when creating an environment.
type EnvOption interface {
	envOption()
}

type (
	bindopt struct {
		name string
		val  *Node
	}
	funcopt struct {
		name string
		fn   Func
	}
	envprecopt uint
)

func (bindopt) envOption()    {}
func (funcopt) envOption()    {}
func (envprecopt) envOption() {}

// Bind sets the value of a name in the environment.
func Bind(name string, val *Node) EnvOption {
	return bindopt{name, val}
}

// BindFunc adds a native function to the environment. Passing a nil fn
// removes a default function.
func BindFunc(name string, fn Func) EnvOption {
	return funcopt{name, fn}
}

// Prec sets the precision of calculations.
func Prec(prec uint) EnvOption {
	return envprecopt(prec)
}

// NewEnv creates a new environment holding the builtin functions, the
// constants pi and e, and the boolean prelude. If no precision is given, the
// default is DefaultPrec.
func NewEnv(opts ...EnvOption) *Env {
	env := Env{
		names: make(map[string]*Node),
		funcs: make(map[string]Func, len(globalfuncs)),
		prec:  DefaultPrec,
	}
	// Apply the last precision first so that constants use it.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(envprecopt); ok && p != 0 {
			env.prec = uint(p)
			break
		}
	}
	for k, v := range globalfuncs {
		env.funcs[k] = v
	}
	for _, opt := range opts {
		if o, ok := opt.(funcopt); ok {
			env.funcs[o.name] = o.fn
		}
	}
	for k, v := range env.funcs {
		if v == nil {
			delete(env.funcs, k)
			continue
		}
		env.names[k] = &Node{Kind: KindNativeFunc, Name: k}
	}
	for k, v := range constants {
		env.names[k] = &Node{Kind: KindNumber, Num: v(new(big.Float).SetPrec(env.prec))}
	}
	for _, d := range prelude {
		env.names[d.name] = d.node()
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case bindopt:
			env.Set(opt.name, opt.val)
		case funcopt, envprecopt:
			// Already done.
		default:
			panic("sexpr: unknown option type")
		}
	}
	return &env
}

// child creates a scope whose unresolved lookups go to env.
func (env *Env) child() *Env {
	return &Env{
		names:  make(map[string]*Node),
		funcs:  env.funcs,
		parent: env,
		prec:   env.prec,
	}
}

// Set binds a copy of val to name in env. Returns env for chaining.
func (env *Env) Set(name string, val *Node) *Env {
	env.names[name] = val.Clone()
	return env
}

// Lookup returns a copy of the value bound to name, searching enclosing
// scopes. The second result is false if the name is unbound.
func (env *Env) Lookup(name string) (*Node, bool) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.names[name]; ok {
			return v.Clone(), true
		}
	}
	return nil, false
}

// IsFunc reports whether name is bound to a native or user function.
func (env *Env) IsFunc(name string) bool {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.names[name]; ok {
			return v.Kind == KindNativeFunc || v.Kind == KindUserFunc
		}
	}
	return false
}

// Names returns the sorted names bound directly in env.
func (env *Env) Names() []string {
	r := make([]string, 0, len(env.names))
	for k := range env.names {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Prec returns the precision to which values are computed in env.
func (env *Env) Prec() uint {
	return env.prec
}

// Clone creates an independent copy of the bindings in env.
func (env *Env) Clone() *Env {
	n := Env{
		names:  make(map[string]*Node, len(env.names)),
		funcs:  make(map[string]Func, len(env.funcs)),
		parent: env.parent,
		prec:   env.prec,
	}
	for k, v := range env.names {
		n.names[k] = v.Clone()
	}
	for k, v := range env.funcs {
		n.funcs[k] = v
	}
	return &n
}

// definition is a prelude function written as an expression.
type definition struct {
	name   string
	params []string
	body   string
}

func (d definition) node() *Node {
	body, err := ParseString(d.body)
	if err != nil {
		panic("sexpr: invalid prelude definition " + d.name + ": " + err.Error())
	}
	return &Node{Kind: KindUserFunc, Params: d.params, Body: body}
}

var prelude = []definition{
	{"not", []string{"a"}, "(if a false true)"},
	{"and", []string{"a", "b"}, "(if a b false)"},
	{"or", []string{"a", "b"}, "(if a true b)"},
	{"xor", []string{"a", "b"}, "(if a (not b) b)"},
}
