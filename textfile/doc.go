/*
Package textfile provides a simple text storage for UTF-8 text files, kept
in memory and indexed by lines.

A Document applies every edit to its bytes first and then updates its line
index, so the index always sees the text after the edit.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package textfile

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'lineindex'
func tracer() tracing.Trace {
	return tracing.Select("lineindex")
}
