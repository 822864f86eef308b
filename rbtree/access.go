package rbtree

import "fmt"

// First returns the first node in sequence order, or the zero handle for an
// empty tree.
func (t *Tree[V, D]) First() Handle {
	if t.root == null {
		return Handle{}
	}
	return t.handle(t.leftmost(t.root))
}

// Last returns the last node in sequence order, or the zero handle for an
// empty tree.
func (t *Tree[V, D]) Last() Handle {
	if t.root == null {
		return Handle{}
	}
	return t.handle(t.rightmost(t.root))
}

// Next returns the in-order successor of h, or the zero handle if h is the
// last node.
func (t *Tree[V, D]) Next(h Handle) Handle {
	return t.handle(t.successor(t.slot(h)))
}

// Prev returns the in-order predecessor of h, or the zero handle if h is the
// first node.
func (t *Tree[V, D]) Prev(h Handle) Handle {
	i := t.slot(h)
	if l := t.nodes[i].left; l != null {
		return t.handle(t.rightmost(l))
	}
	p := t.nodes[i].parent
	for p != null && i == t.nodes[p].left {
		i, p = p, t.nodes[p].parent
	}
	return t.handle(p)
}

// NodeAt returns the node at ordinal position index (0-based).
// It panics if index is not within [0, Len()).
func (t *Tree[V, D]) NodeAt(index int) Handle {
	if index < 0 || index >= t.Len() {
		panic(fmt.Sprintf("rbtree.NodeAt: index %d out of bounds [0,%d)", index, t.Len()))
	}
	i := t.root
	for {
		l := t.nodes[i].left
		lc := t.nodes[l].count
		switch {
		case index < lc:
			i = l
		case index == lc:
			return t.handle(i)
		default:
			index -= lc + 1
			i = t.nodes[i].right
		}
	}
}

// NodeContaining returns the node whose interval [start, start+value)
// contains offset. An offset on the boundary between two nodes belongs to the
// latter one, thus nodes with value 0 are never selected, except for an
// offset equal to Total(), which maps to the last node.
//
// It panics if offset is not within [0, Total()].
func (t *Tree[V, D]) NodeContaining(offset V) Handle {
	h, _, _ := t.locate(offset)
	return h
}

// IndexOf returns the ordinal position of node h.
func (t *Tree[V, D]) IndexOf(h Handle) int {
	i := t.slot(h)
	index := t.nodes[t.nodes[i].left].count
	for p := t.nodes[i].parent; p != null; i, p = p, t.nodes[p].parent {
		if i == t.nodes[p].right {
			index += t.nodes[t.nodes[p].left].count + 1
		}
	}
	return index
}

// StartOf returns the sum of the values of all nodes before h.
func (t *Tree[V, D]) StartOf(h Handle) V {
	i := t.slot(h)
	start := t.nodes[t.nodes[i].left].total
	for p := t.nodes[i].parent; p != null; i, p = p, t.nodes[p].parent {
		if i == t.nodes[p].right {
			start += t.nodes[t.nodes[p].left].total + t.nodes[p].value
		}
	}
	return start
}

// Position describes the location of an offset within a tree.
type Position[V Weight] struct {
	Node   Handle // node containing the offset
	Start  V      // start offset of Node
	Index  int    // ordinal position of Node
	Offset V      // offset relative to Start
	Value  V      // value of Node
}

// Position locates the node containing offset, in the same way as
// NodeContaining does. It returns false if offset is not within [0, Total()].
func (t *Tree[V, D]) Position(offset V) (Position[V], bool) {
	if t.root == null || offset < 0 || offset > t.Total() {
		return Position[V]{}, false
	}
	h, start, index := t.locate(offset)
	value := t.nodes[h.slot].value
	return Position[V]{
		Node:   h,
		Start:  start,
		Index:  index,
		Offset: offset - start,
		Value:  value,
	}, true
}

// locate descends from the root to the node containing offset, accumulating
// start offset and index on the way.
func (t *Tree[V, D]) locate(offset V) (Handle, V, int) {
	total := t.Total()
	if t.root == null || offset < 0 || offset > total {
		panic(fmt.Sprintf("rbtree: offset %v out of bounds [0,%v]", offset, total))
	}
	if offset == total {
		last := t.rightmost(t.root)
		return t.handle(last), total - t.nodes[last].value, t.Len() - 1
	}
	var start V
	index := 0
	i := t.root
	for {
		n := &t.nodes[i]
		lt := t.nodes[n.left].total
		if n.left != null && offset < start+lt {
			i = n.left
			continue
		}
		nodeStart := start + lt
		nodeIndex := index + t.nodes[n.left].count
		if offset < nodeStart+n.value || n.right == null {
			// the second condition catches float rounding at the right border
			return t.handle(i), nodeStart, nodeIndex
		}
		start = nodeStart + n.value
		index = nodeIndex + 1
		i = n.right
	}
}
