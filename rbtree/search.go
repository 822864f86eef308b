package rbtree

// Match is a node found by a range search.
type Match[V Weight] struct {
	Node  Handle
	Start V
	Value V
}

// End returns the end offset of the matched node's interval.
func (m Match[V]) End() V {
	return m.Start + m.Value
}

// SearchRange returns all nodes whose closed interval [start, start+value]
// intersects the closed interval [lo, hi], in sequence order. Nodes touching
// an edge of the query interval are included, so a node starting exactly at
// hi or ending exactly at lo is part of the result.
//
// The search descends the tree and skips every subtree lying completely
// outside of the query interval, thus it runs in O(k + log n) for k matches.
func (t *Tree[V, D]) SearchRange(lo, hi V) []Match[V] {
	if t.root == null || hi < lo {
		return nil
	}
	var result []Match[V]
	t.searchRange(t.root, 0, lo, hi, &result)
	return result
}

func (t *Tree[V, D]) searchRange(i int32, base, lo, hi V, result *[]Match[V]) {
	if i == null {
		return
	}
	n := &t.nodes[i]
	if base > hi || base+n.total < lo { // whole subtree is outside
		return
	}
	t.searchRange(n.left, base, lo, hi, result)
	start := base + t.nodes[n.left].total
	if overlaps(start, start+n.value, lo, hi) {
		*result = append(*result, Match[V]{Node: t.handle(i), Start: start, Value: n.value})
	}
	t.searchRange(n.right, start+n.value, lo, hi, result)
}

func overlaps[V Weight](start, end, lo, hi V) bool {
	return start <= hi && end >= lo
}
