package model

import (
	"errors"
	"fmt"
)

var (
	// ErrFormatSniff is reported when the dialect of a delimited file could not be determined.
	ErrFormatSniff = errors.New("could not determine format dialect")

	// ErrVariableDefinition is returned when a type or annotation cell is not recognised.
	ErrVariableDefinition = errors.New("invalid variable definition")

	// ErrRowWidthMismatch is reported when a data row does not have as many cells as the header.
	ErrRowWidthMismatch = errors.New("row width does not match header")

	ErrConflictingHeaderMode = errors.New("simplified header cannot be combined with type or annotation rows")
	ErrMultipleClassColumns  = errors.New("multiple class variables defined")
	ErrClassRoleConflict     = errors.New("both class and multiclass roles used")
	ErrUnknownVariableType   = errors.New("unknown variable type")
	ErrInvalidValue          = errors.New("invalid value")
	ErrUnknownFormat         = errors.New("unknown file format")
	ErrNotFound              = errors.New("not found")
	ErrMissingClass          = errors.New("table has no class variable")
)

// ParseError is a fatal import or export error bound to a position in the source.
// Row and Column are 1-based; zero means the position does not apply.
type ParseError struct {
	Row    int
	Column int
	Err    error
	Msg    string
}

func (e *ParseError) Error() string {
	pos := ""
	switch {
	case e.Row > 0 && e.Column > 0:
		pos = fmt.Sprintf("row %d, column %d: ", e.Row, e.Column)
	case e.Row > 0:
		pos = fmt.Sprintf("row %d: ", e.Row)
	case e.Column > 0:
		pos = fmt.Sprintf("column %d: ", e.Column)
	}
	if e.Msg == "" {
		return pos + e.Err.Error()
	}
	return fmt.Sprintf("%s%s: %s", pos, e.Err, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError is a shorthand for building a positioned error with a formatted message.
func NewParseError(row, column int, err error, format string, args ...interface{}) *ParseError {
	return &ParseError{Row: row, Column: column, Err: err, Msg: fmt.Sprintf(format, args...)}
}
