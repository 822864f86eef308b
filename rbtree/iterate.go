package rbtree

import "iter"

// ForEach walks nodes in sequence order.
//
// Iteration stops early if callback returns false. The tree must not be
// modified during iteration.
func (t *Tree[V, D]) ForEach(fn func(h Handle, value V, data D) bool) {
	if t == nil || t.root == null || fn == nil {
		return
	}
	for i := t.leftmost(t.root); i != null; i = t.successor(i) {
		n := &t.nodes[i]
		if !fn(t.handle(i), n.value, n.data) {
			return
		}
	}
}

// All returns an iterator over node handles and values in sequence order.
func (t *Tree[V, D]) All() iter.Seq2[Handle, V] {
	return func(yield func(Handle, V) bool) {
		t.ForEach(func(h Handle, value V, _ D) bool {
			return yield(h, value)
		})
	}
}

// Values returns all node values in sequence order.
func (t *Tree[V, D]) Values() []V {
	values := make([]V, 0, t.Len())
	t.ForEach(func(_ Handle, value V, _ D) bool {
		values = append(values, value)
		return true
	})
	return values
}

func (t *Tree[V, D]) successor(i int32) int32 {
	if r := t.nodes[i].right; r != null {
		return t.leftmost(r)
	}
	p := t.nodes[i].parent
	for p != null && i == t.nodes[p].right {
		i, p = p, t.nodes[p].parent
	}
	return p
}
