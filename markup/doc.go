// Package markup parses documents of prose with lightweight markup and
// embedded expressions.
//
// The Lexer works line by line over grapheme clusters and produces Tokens
// with byte spans. Parse builds a tree of Nodes from the tokens, replacing
// (eval ...) and (show ...) forms, fmt(...) style calls, and let lines with
// EvalBlock and ShowBlock placeholders. Long documents are split at blank
// lines and parsed in parallel.
package markup
