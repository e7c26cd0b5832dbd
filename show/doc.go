// Package show formats expressions as mathematical notation.
//
// Format turns an expression into a Notation tree without evaluating it, and
// Render serializes the tree as MathML. Operators are a closed set named by
// Op. Malformed uses of an operator become error annotations in place rather
// than errors.
package show
