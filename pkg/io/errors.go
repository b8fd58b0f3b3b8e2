package io

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// DataError is a recoverable problem found while reading a file. The import
// continues after it is reported.
type DataError struct {
	Line  int
	Kind  error
	Error string
}

func newDataError(line int, kind error, format string, args ...interface{}) DataError {
	return DataError{Line: line, Kind: kind, Error: fmt.Sprintf(format, args...)}
}

// warn logs a data error and appends it to errs.
func warn(errs []DataError, e DataError) []DataError {
	log.Warn().Int("line", e.Line).Str("kind", e.Kind.Error()).Msg(e.Error)
	return append(errs, e)
}
