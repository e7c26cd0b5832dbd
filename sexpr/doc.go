// Package sexpr implements a small S-expression language over
// arbitrary-precision numbers.
//
// Programs are parsed into Node trees, which compare structurally with Equal.
// Key gives each tree a string that is the same exactly for Equal trees, so
// that equal expressions can be evaluated once. An Env holds bindings,
// builtins, and the constants pi and e. Evaluation supports quote, if,
// define, and begin; lambda is reserved.
package sexpr
