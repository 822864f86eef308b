package lineindex

/*
BSD 3-Clause License

Copyright (c) Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'lineindex'
func tracer() tracing.Trace {
	return tracing.Select("lineindex")
}

// LineIndexError is an error type for the lineindex module
type LineIndexError string

func (e LineIndexError) Error() string {
	return string(e)
}

// ErrInconsistentLines is flagged by consistency checks whenever the line
// structure does not match the text.
const ErrInconsistentLines = LineIndexError("line index is inconsistent with text")

// ErrIndexOutOfBounds is flagged whenever an offset is greater than the
// length of the text.
const ErrIndexOutOfBounds = LineIndexError("index out of bounds")

// ErrIllegalArguments is flagged whenever function parameters are invalid.
const ErrIllegalArguments = LineIndexError("illegal arguments")

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
