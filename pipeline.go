package lispmark

import (
	"github.com/zephyrtronium/lispmark/markup"
	"github.com/zephyrtronium/lispmark/sexpr"
	"github.com/zephyrtronium/lispmark/show"
)

// ParseDocument parses a document into its tree. Eval and show blocks are
// left as placeholders for the later passes.
func ParseDocument(src string, opts ...markup.ParseOption) ([]markup.Node, error) {
	return markup.Parse(src, opts...)
}

// Fragments holds the distinct expressions of the eval blocks of a document.
type Fragments struct {
	// Keys lists the keys of distinct expressions in order of first
	// appearance.
	Keys []sexpr.Key
	// Exprs maps each key to its expression.
	Exprs map[sexpr.Key]*sexpr.Node

	blocks map[*markup.EvalBlock]sexpr.Key
	errs   map[*markup.EvalBlock]error
}

// Lookup returns the key of the expression in an eval block. If the block's
// code failed to parse, the error is returned instead.
func (f *Fragments) Lookup(b *markup.EvalBlock) (sexpr.Key, error) {
	if err := f.errs[b]; err != nil {
		return "", err
	}
	k, ok := f.blocks[b]
	if !ok {
		panic("lispmark: eval block not from this document")
	}
	return k, nil
}

// Len returns the number of distinct expressions.
func (f *Fragments) Len() int {
	return len(f.Keys)
}

// CollectFragments parses the code of each eval block in doc, including
// those inside paragraphs and quotes. Blocks with structurally equal
// expressions share a key, so each distinct expression is evaluated once.
// Parse errors are recorded per block and reported by Lookup.
func CollectFragments(doc []markup.Node, opts ...sexpr.ParseOption) *Fragments {
	f := &Fragments{
		Exprs:  make(map[sexpr.Key]*sexpr.Node),
		blocks: make(map[*markup.EvalBlock]sexpr.Key),
		errs:   make(map[*markup.EvalBlock]error),
	}
	markup.Walk(doc, func(n markup.Node) {
		b, ok := n.(*markup.EvalBlock)
		if !ok {
			return
		}
		x, err := sexpr.ParseString(b.Code, opts...)
		if err != nil {
			f.errs[b] = err
			return
		}
		k := x.Key()
		if _, ok := f.Exprs[k]; !ok {
			f.Keys = append(f.Keys, k)
			f.Exprs[k] = x
		}
		f.blocks[b] = k
	})
	return f
}

// Result is the outcome of evaluating one expression.
type Result struct {
	Value *sexpr.Node
	Err   error
}

// Results maps fragment keys to their evaluation results.
type Results map[sexpr.Key]Result

// RunEvaluator evaluates each distinct expression once, in order of first
// appearance, so that definitions are visible to later expressions. env is
// modified by any definitions. Evaluation errors are recorded per expression
// and do not stop the pass.
func RunEvaluator(f *Fragments, env *sexpr.Env) Results {
	res := make(Results, len(f.Keys))
	for _, k := range f.Keys {
		v, err := env.Eval(f.Exprs[k])
		res[k] = Result{Value: v, Err: err}
	}
	return res
}

// InjectResults replaces each eval block in doc with a fragment. Successful
// evaluations display nothing; failures carry an error annotation. doc is
// not modified.
func InjectResults(doc []markup.Node, f *Fragments, res Results) []markup.Node {
	return markup.Map(doc, func(n markup.Node) markup.Node {
		b, ok := n.(*markup.EvalBlock)
		if !ok {
			return n
		}
		frag := &markup.Fragment{Kind: markup.FragmentEval, Code: b.Code}
		k, err := f.Lookup(b)
		if err == nil {
			r, ok := res[k]
			if !ok {
				panic("lispmark: missing result for " + b.Code)
			}
			err = r.Err
		}
		if err != nil {
			frag.Err = err
			frag.Markup = show.Failure(err.Error()).Render()
		}
		return frag
	})
}

// FormatShowBlocks replaces each show block in doc with a fragment holding
// the MathML rendering of its expression. Names are not resolved through
// env; it only tells which heads are functions. env may be nil, in which case
// expressions parse at DefaultPrec. A block whose code fails to parse carries
// the error and an error annotation. doc is not modified.
func FormatShowBlocks(doc []markup.Node, env *sexpr.Env) []markup.Node {
	prec := uint(sexpr.DefaultPrec)
	if env != nil {
		prec = env.Prec()
	}
	return markup.Map(doc, func(n markup.Node) markup.Node {
		b, ok := n.(*markup.ShowBlock)
		if !ok {
			return n
		}
		frag := &markup.Fragment{Kind: markup.FragmentShow, Code: b.Code}
		x, err := sexpr.ParseString(b.Code, sexpr.ParsePrec(prec))
		if err != nil {
			frag.Err = err
			frag.Markup = show.Failure(err.Error()).Render()
			return frag
		}
		frag.Markup = show.Render(x, env)
		return frag
	})
}

// Compile parses a document and runs every pass over it with a new
// environment. Eval and show blocks in the result are all replaced by
// fragments. The only errors are those from parsing the document; errors in
// expressions are localized to their fragments.
func Compile(src string, opts ...markup.ParseOption) ([]markup.Node, error) {
	doc, err := ParseDocument(src, opts...)
	if err != nil {
		return nil, err
	}
	env := sexpr.NewEnv()
	f := CollectFragments(doc, sexpr.ParsePrec(env.Prec()))
	res := RunEvaluator(f, env)
	doc = InjectResults(doc, f, res)
	return FormatShowBlocks(doc, env), nil
}
