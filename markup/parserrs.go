package markup

import (
	"errors"
	"strconv"
)

// ErrEmptyInput is the error from parsing an empty document.
var ErrEmptyInput = errors.New("markup: empty input")

// EndOfInputError is an error indicating that a document ended inside a
// construct. It implements InputError.
type EndOfInputError struct {
	// Expected is what would have ended the construct.
	Expected string
	// Start is the byte offset at which the construct started.
	Start int
}

func (err *EndOfInputError) Error() string {
	return errpos(err.Start, "unexpected end of input: expected "+strconv.Quote(err.Expected))
}

func (err *EndOfInputError) Pos() int {
	return err.Start
}

// SyntaxError is an error indicating a malformed construct. It implements
// InputError.
type SyntaxError struct {
	Msg string
	// At is the byte offset of the construct.
	At int
}

func (err *SyntaxError) Error() string {
	return errpos(err.At, err.Msg)
}

func (err *SyntaxError) Pos() int {
	return err.At
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting
// from invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the byte offset of the error in the document.
	Pos() int
}

var (
	_ InputError = (*EndOfInputError)(nil)
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*LexError)(nil)
)
