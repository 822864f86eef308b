/*
Package rbtree provides an order-statistics red-black tree, keyed by the
cumulative weight of its nodes.

The tree is not a map or set container. Nodes form a sequence, and every node
carries a scalar value (its weight). Subtrees aggregate the sum of their
values and their node count, which lets clients ask

  - which node covers a given cumulative offset,
  - which node sits at a given ordinal index,
  - at which offset and at which index a given node starts,
  - which nodes overlap an interval of offsets,

each in O(log n).

Weights are either integers (e.g., lengths of text lines) or floating point
values (e.g., rendered heights of lines). Two independent trees with different
weight types may be used side by side.

Storage model:
  - nodes live in an arena (a slice), children and parents are slot indices,
  - clients hold nodes by `Handle`, a slot number plus a generation,
  - a handle of a removed node is stale and will be rejected,
  - slot 0 is a sentinel standing for nil and is never written.

Structural operations panic when called with stale handles or with offsets or
indices out of range. These are programming errors, not recoverable conditions.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package rbtree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'lineindex'
func tracer() tracing.Trace {
	return tracing.Select("lineindex")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
