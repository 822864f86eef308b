package rbtree

import "fmt"

// Check validates structural tree invariants:
// red-black coloring, parent links, subtree aggregates and arena bookkeeping.
//
// This checker is strict and intended to be used in tests.
func (t *Tree[V, D]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	if len(t.nodes) == 0 {
		return fmt.Errorf("%w: missing sentinel", ErrCorruptTree)
	}
	if s := t.nodes[null]; s.count != 0 || s.total != 0 || s.red || s.gen != 0 {
		return fmt.Errorf("%w: sentinel has been written to", ErrCorruptTree)
	}
	if t.root == null {
		if live := len(t.nodes) - 1 - len(t.free); live != 0 {
			return fmt.Errorf("%w: empty tree with %d live slots", ErrCorruptTree, live)
		}
		return nil
	}
	if t.nodes[t.root].red {
		return fmt.Errorf("%w: root is red", ErrCorruptTree)
	}
	if t.nodes[t.root].parent != null {
		return fmt.Errorf("%w: root has a parent", ErrCorruptTree)
	}
	if _, err := t.checkNode(t.root); err != nil {
		return err
	}
	if live := len(t.nodes) - 1 - len(t.free); live != t.Len() {
		return fmt.Errorf("%w: %d live slots, but %d nodes reachable", ErrCorruptTree, live, t.Len())
	}
	for _, i := range t.free {
		if t.nodes[i].gen != 0 {
			return fmt.Errorf("%w: free slot %d is in use", ErrCorruptTree, i)
		}
	}
	return nil
}

// checkNode validates the subtree at i and returns its black height.
func (t *Tree[V, D]) checkNode(i int32) (blackHeight int, err error) {
	if i == null {
		return 1, nil
	}
	n := &t.nodes[i]
	if n.gen == 0 {
		return 0, fmt.Errorf("%w: reachable node %d is free", ErrCorruptTree, i)
	}
	for _, c := range [2]int32{n.left, n.right} {
		if c == null {
			continue
		}
		if t.nodes[c].parent != i {
			return 0, fmt.Errorf("%w: broken parent link %d -> %d", ErrCorruptTree, c, i)
		}
		if n.red && t.nodes[c].red {
			return 0, fmt.Errorf("%w: red node %d has red child %d", ErrCorruptTree, i, c)
		}
	}
	lh, err := t.checkNode(n.left)
	if err != nil {
		return 0, err
	}
	rh, err := t.checkNode(n.right)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("%w: black height mismatch at node %d (%d != %d)", ErrCorruptTree, i, lh, rh)
	}
	if n.value < 0 {
		return 0, fmt.Errorf("%w: negative value at node %d", ErrCorruptTree, i)
	}
	if total := n.value + t.nodes[n.left].total + t.nodes[n.right].total; total != n.total {
		return 0, fmt.Errorf("%w: total mismatch at node %d (%v != %v)", ErrCorruptTree, i, n.total, total)
	}
	if count := 1 + t.nodes[n.left].count + t.nodes[n.right].count; count != n.count {
		return 0, fmt.Errorf("%w: count mismatch at node %d (%d != %d)", ErrCorruptTree, i, n.count, count)
	}
	if !n.red {
		lh++
	}
	return lh, nil
}
