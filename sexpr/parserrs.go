package sexpr

import "strconv"

// ParseError is an error from tokenizing or parsing an expression.
type ParseError struct {
	// Col is the rune position of the token that caused the error, relative
	// to the start of the expression source.
	Col int
	// Msg describes the error.
	Msg string
}

func (err *ParseError) Error() string {
	return errpos(err.Col, err.Msg)
}

func (err *ParseError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}
