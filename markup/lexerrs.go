package markup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// LexErrorKind classifies lexical errors.
type LexErrorKind int8

const (
	// AbruptEnd is input ending inside a construct, like an unterminated
	// string or a trailing backslash.
	AbruptEnd LexErrorKind = iota + 1
	// BrokenExpectation is a construct missing a required part, like a link
	// with no closing parenthesis.
	BrokenExpectation
	// UnmatchedParen is an embedded form whose parentheses do not balance.
	UnmatchedParen
	// SyntaxViolation is a construct that is malformed, like a nested let.
	SyntaxViolation
	// EmptyIdentifier is a let with no name.
	EmptyIdentifier
)

var lexerrnames = [...]string{
	AbruptEnd:         "abrupt end",
	BrokenExpectation: "broken expectation",
	UnmatchedParen:    "unmatched paren",
	SyntaxViolation:   "syntax violation",
	EmptyIdentifier:   "empty identifier",
}

func (k LexErrorKind) String() string {
	if k <= 0 || int(k) >= len(lexerrnames) {
		return "LexErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
	return lexerrnames[k]
}

// LexError is an error from tokenizing a document. It implements InputError.
type LexError struct {
	Kind LexErrorKind
	// Span is the location of the offending input.
	Span Span
	// Line is the 1-based line on which Span starts.
	Line int
	// File is the name of the document, if any.
	File string
	// Source is the document.
	Source string
	// Msg describes the error.
	Msg string
}

func (err *LexError) Error() string {
	var b strings.Builder
	if err.File != "" {
		b.WriteString(err.File)
		b.WriteByte(':')
	}
	b.WriteString(strconv.Itoa(err.Line))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(err.Col()))
	b.WriteString(": ")
	b.WriteString(err.Kind.String())
	b.WriteString(": ")
	b.WriteString(err.Msg)
	return b.String()
}

// Pos returns the byte offset of the error in the document.
func (err *LexError) Pos() int {
	return err.Span.Start
}

// Col returns the 1-based column of the error in grapheme clusters.
func (err *LexError) Col() int {
	start := clamp(err.Span.Start, 0, len(err.Source))
	ls := strings.LastIndexByte(err.Source[:start], '\n') + 1
	return uniseg.GraphemeClusterCount(err.Source[ls:start]) + 1
}

// Snippet renders the error with the offending line, one line of context on
// each side, and a caret under the error position.
func (err *LexError) Snippet() string {
	return snippet("LEXICAL ERROR", err.File, err.Source, err.Line, err.Col(), err.Msg)
}

// snippet builds a caret diagnostic. line and col are 1-based and clamped to
// the source.
func snippet(header, name, src string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	line = clamp(line, 1, len(lines))
	if col < 1 {
		col = 1
	}
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, strings.TrimRight(lines[line-2], "\r"))
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, strings.TrimRight(lines[line-1], "\r"))
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, strings.TrimRight(lines[line], "\r"))
	}
	return b.String()
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
