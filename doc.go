// Package lispmark compiles documents that mix prose, lightweight markup, and
// embedded S-expressions.
//
// A document is plain text with Markdown-like structure: headers, bullets,
// checkboxes, quotes, links, tables, code fences, and emphasis. Expressions
// appear in (eval ...) and (show ...) forms, in fmt(...), eval(...), and
// show(...) calls, and in let lines. Eval forms are evaluated numerically
// for their definitions. Show forms are rendered as MathML without being
// evaluated, so (show (+ a b)) displays "a + b" whatever a and b are bound
// to.
//
// Compilation runs in passes. ParseDocument builds the document tree.
// CollectFragments parses the eval blocks and deduplicates them by
// structure, RunEvaluator evaluates each distinct expression once in
// document order, and InjectResults puts the outcomes back into the tree.
// FormatShowBlocks then renders the show blocks. Compile does all of it.
package lispmark
