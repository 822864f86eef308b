package rbtree

import (
	"math/bits"
)

// Handle references a node of a tree. The zero value references no node.
//
// Handles stay valid as long as the node is part of its tree, independent
// of rotations or of changes of the node's value. Handles are comparable and
// may be used as map keys.
type Handle struct {
	slot int32
	gen  uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

const null int32 = 0 // sentinel slot

type node[V Weight, D any] struct {
	value  V
	total  V   // value + sum of children's totals
	count  int // 1 + sum of children's counts
	left   int32
	right  int32
	parent int32
	red    bool
	gen    uint32 // 0 for free slots
	data   D
}

// Tree is an order-statistics red-black tree over a sequence of weighted nodes.
//
// V is the weight type, D is the type of the payload carried by each node.
// The zero value is not usable; create trees with New.
type Tree[V Weight, D any] struct {
	nodes   []node[V, D] // nodes[0] is the nil sentinel
	free    []int32
	root    int32
	nextGen uint32
}

// New creates an empty tree.
func New[V Weight, D any](opts ...Option) (*Tree[V, D], error) {
	cfg := config{}
	if err := cfg.apply(opts); err != nil {
		return nil, err
	}
	t := &Tree[V, D]{}
	t.nodes = make([]node[V, D], 1, cfg.capacity+1)
	return t, nil
}

// Len returns the number of nodes in the tree.
func (t *Tree[V, D]) Len() int {
	if t == nil {
		return 0
	}
	return t.nodes[t.root].count
}

// IsEmpty reports whether the tree has no nodes.
func (t *Tree[V, D]) IsEmpty() bool {
	return t == nil || t.root == null
}

// Total returns the sum of all node values.
func (t *Tree[V, D]) Total() V {
	if t == nil {
		return 0
	}
	return t.nodes[t.root].total
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *Tree[V, D]) Height() int {
	var height func(int32) int
	height = func(i int32) int {
		if i == null {
			return 0
		}
		return 1 + max(height(t.nodes[i].left), height(t.nodes[i].right))
	}
	return height(t.root)
}

// Valid reports whether h references a node currently in the tree.
func (t *Tree[V, D]) Valid(h Handle) bool {
	if t == nil || h.gen == 0 || h.slot <= 0 || int(h.slot) >= len(t.nodes) {
		return false
	}
	return t.nodes[h.slot].gen == h.gen
}

// slot resolves a handle to its arena slot, panicking on stale handles.
func (t *Tree[V, D]) slot(h Handle) int32 {
	if !t.Valid(h) {
		panic(ErrStaleHandle.Error())
	}
	return h.slot
}

func (t *Tree[V, D]) handle(i int32) Handle {
	if i == null {
		return Handle{}
	}
	return Handle{slot: i, gen: t.nodes[i].gen}
}

// Value returns the value of node h.
func (t *Tree[V, D]) Value(h Handle) V {
	return t.nodes[t.slot(h)].value
}

// Data returns the payload of node h.
func (t *Tree[V, D]) Data(h Handle) D {
	return t.nodes[t.slot(h)].data
}

// SetData replaces the payload of node h. Payloads do not take part in
// aggregation, so no re-balancing is necessary.
func (t *Tree[V, D]) SetData(h Handle, data D) {
	t.nodes[t.slot(h)].data = data
}

// SetValue changes the value of node h and restores the aggregates of all
// ancestors. It reports whether the value actually changed.
func (t *Tree[V, D]) SetValue(h Handle, value V) bool {
	i := t.slot(h)
	if t.nodes[i].value == value {
		return false
	}
	t.nodes[i].value = value
	t.updateAggregates(i)
	return true
}

// --- Allocation ------------------------------------------------------------

func (t *Tree[V, D]) alloc(value V, data D) int32 {
	t.nextGen++
	if t.nextGen == 0 { // wrapped around, skip the zero generation
		t.nextGen++
	}
	n := node[V, D]{
		value: value,
		total: value,
		count: 1,
		red:   true,
		gen:   t.nextGen,
		data:  data,
	}
	if k := len(t.free); k > 0 {
		i := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[i] = n
		return i
	}
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

func (t *Tree[V, D]) release(i int32) {
	var zero node[V, D]
	t.nodes[i] = zero
	t.free = append(t.free, i)
}

// Reset drops all nodes and installs a single root node.
// All handles into the tree become stale.
func (t *Tree[V, D]) Reset(value V, data D) Handle {
	t.clear()
	t.root = t.alloc(value, data)
	t.nodes[t.root].red = false
	return t.handle(t.root)
}

// Clear drops all nodes. All handles into the tree become stale.
func (t *Tree[V, D]) Clear() {
	t.clear()
}

func (t *Tree[V, D]) clear() {
	t.nodes = t.nodes[:1]
	t.nodes[0] = node[V, D]{}
	t.free = t.free[:0]
	t.root = null
}

// Rebuild replaces the content of the tree by a sequence of nodes, given by
// their values and payloads (which must be of equal length). The tree is
// built in one pass, perfectly balanced, without re-balancing operations.
// It returns the handles of the new nodes in sequence order.
func (t *Tree[V, D]) Rebuild(values []V, data []D) []Handle {
	assert(len(values) == len(data), "rbtree.Rebuild: values and data differ in length")
	t.clear()
	n := len(values)
	handles := make([]Handle, n)
	if n == 0 {
		return handles
	}
	slots := make([]int32, n)
	for k := range n {
		slots[k] = t.alloc(values[k], data[k])
		handles[k] = t.handle(slots[k])
	}
	// every level is complete except possibly the deepest one, which is colored red
	redDepth := bits.Len(uint(n)) - 1
	t.root = t.buildBalanced(slots, 0, n-1, null, 0, redDepth)
	t.nodes[t.root].red = false
	tracer().Debugf("rbtree: rebuilt tree with %d nodes", n)
	return handles
}

func (t *Tree[V, D]) buildBalanced(slots []int32, lo, hi int, parent int32, depth, redDepth int) int32 {
	if lo > hi {
		return null
	}
	mid := lo + (hi-lo)/2
	i := slots[mid]
	t.nodes[i].parent = parent
	t.nodes[i].red = depth == redDepth
	t.nodes[i].left = t.buildBalanced(slots, lo, mid-1, i, depth+1, redDepth)
	t.nodes[i].right = t.buildBalanced(slots, mid+1, hi, i, depth+1, redDepth)
	t.recompute(i)
	return i
}

// --- Aggregates ------------------------------------------------------------

// recompute restores the aggregates of node i from its children.
func (t *Tree[V, D]) recompute(i int32) {
	n := &t.nodes[i]
	n.total = n.value + t.nodes[n.left].total + t.nodes[n.right].total
	n.count = 1 + t.nodes[n.left].count + t.nodes[n.right].count
}

// updateAggregates walks from node i up to the root, restoring aggregates.
func (t *Tree[V, D]) updateAggregates(i int32) {
	for i != null {
		t.recompute(i)
		i = t.nodes[i].parent
	}
}

// UpdateAggregates restores the aggregates on the path from node h to the
// root. Clients need to call it only if they changed node values by other
// means than SetValue.
func (t *Tree[V, D]) UpdateAggregates(h Handle) {
	t.updateAggregates(t.slot(h))
}

// --- Insertion -------------------------------------------------------------

// InsertAfter inserts a new node immediately after node `after` in sequence
// order and returns its handle.
func (t *Tree[V, D]) InsertAfter(after Handle, value V, data D) Handle {
	a := t.slot(after)
	i := t.alloc(value, data)
	if t.nodes[a].right == null {
		t.attach(i, a, false)
	} else {
		t.attach(i, t.leftmost(t.nodes[a].right), true)
	}
	return t.handle(i)
}

// InsertBefore inserts a new node immediately before node `before` in sequence
// order and returns its handle.
func (t *Tree[V, D]) InsertBefore(before Handle, value V, data D) Handle {
	b := t.slot(before)
	i := t.alloc(value, data)
	if t.nodes[b].left == null {
		t.attach(i, b, true)
	} else {
		t.attach(i, t.rightmost(t.nodes[b].left), false)
	}
	return t.handle(i)
}

// Append inserts a new node at the end of the sequence.
func (t *Tree[V, D]) Append(value V, data D) Handle {
	if t.root == null {
		t.root = t.alloc(value, data)
		t.nodes[t.root].red = false
		return t.handle(t.root)
	}
	return t.InsertAfter(t.Last(), value, data)
}

// Prepend inserts a new node at the start of the sequence.
func (t *Tree[V, D]) Prepend(value V, data D) Handle {
	if t.root == null {
		return t.Append(value, data)
	}
	return t.InsertBefore(t.First(), value, data)
}

// attach links fresh node i as a child of parent p and re-balances.
func (t *Tree[V, D]) attach(i, p int32, asLeft bool) {
	if asLeft {
		t.nodes[p].left = i
	} else {
		t.nodes[p].right = i
	}
	t.nodes[i].parent = p
	t.updateAggregates(p)
	t.insertFixup(i)
}

func (t *Tree[V, D]) insertFixup(z int32) {
	for t.isRed(t.nodes[z].parent) {
		p := t.nodes[z].parent
		g := t.nodes[p].parent
		if p == t.nodes[g].left {
			u := t.nodes[g].right
			if t.isRed(u) {
				t.nodes[p].red = false
				t.nodes[u].red = false
				t.nodes[g].red = true
				z = g
				continue
			}
			if z == t.nodes[p].right {
				z = p
				t.rotateLeft(z)
				p = t.nodes[z].parent
			}
			t.nodes[p].red = false
			t.nodes[g].red = true
			t.rotateRight(g)
		} else {
			u := t.nodes[g].left
			if t.isRed(u) {
				t.nodes[p].red = false
				t.nodes[u].red = false
				t.nodes[g].red = true
				z = g
				continue
			}
			if z == t.nodes[p].left {
				z = p
				t.rotateRight(z)
				p = t.nodes[z].parent
			}
			t.nodes[p].red = false
			t.nodes[g].red = true
			t.rotateLeft(g)
		}
	}
	t.nodes[t.root].red = false
}

// --- Removal ---------------------------------------------------------------

// Remove detaches node h from the tree and returns its last value and payload.
// The handle becomes stale.
func (t *Tree[V, D]) Remove(h Handle) (V, D) {
	z := t.slot(h)
	value, data := t.nodes[z].value, t.nodes[z].data
	y := z
	yRed := t.nodes[y].red
	var x, xParent int32
	switch {
	case t.nodes[z].left == null:
		x = t.nodes[z].right
		xParent = t.nodes[z].parent
		t.transplant(z, x)
	case t.nodes[z].right == null:
		x = t.nodes[z].left
		xParent = t.nodes[z].parent
		t.transplant(z, x)
	default:
		y = t.leftmost(t.nodes[z].right)
		yRed = t.nodes[y].red
		x = t.nodes[y].right
		if t.nodes[y].parent == z {
			xParent = y
		} else {
			xParent = t.nodes[y].parent
			t.transplant(y, x)
			t.nodes[y].right = t.nodes[z].right
			t.nodes[t.nodes[y].right].parent = y
		}
		t.transplant(z, y)
		t.nodes[y].left = t.nodes[z].left
		t.nodes[t.nodes[y].left].parent = y
		t.nodes[y].red = t.nodes[z].red
	}
	t.updateAggregates(xParent)
	if !yRed {
		t.removeFixup(x, xParent)
	}
	t.release(z)
	return value, data
}

// transplant replaces the subtree at u by the subtree at v. The sentinel is
// never written to.
func (t *Tree[V, D]) transplant(u, v int32) {
	p := t.nodes[u].parent
	switch {
	case p == null:
		t.root = v
	case u == t.nodes[p].left:
		t.nodes[p].left = v
	default:
		t.nodes[p].right = v
	}
	if v != null {
		t.nodes[v].parent = p
	}
}

func (t *Tree[V, D]) removeFixup(x, xParent int32) {
	for x != t.root && !t.isRed(x) {
		p := xParent
		if x == t.nodes[p].left {
			w := t.nodes[p].right
			if t.isRed(w) {
				t.nodes[w].red = false
				t.nodes[p].red = true
				t.rotateLeft(p)
				w = t.nodes[p].right
			}
			if !t.isRed(t.nodes[w].left) && !t.isRed(t.nodes[w].right) {
				t.setRed(w, true)
				x = p
				xParent = t.nodes[x].parent
				continue
			}
			if !t.isRed(t.nodes[w].right) {
				t.setRed(t.nodes[w].left, false)
				t.setRed(w, true)
				t.rotateRight(w)
				w = t.nodes[p].right
			}
			t.setRed(w, t.nodes[p].red)
			t.nodes[p].red = false
			t.setRed(t.nodes[w].right, false)
			t.rotateLeft(p)
			x = t.root
		} else {
			w := t.nodes[p].left
			if t.isRed(w) {
				t.nodes[w].red = false
				t.nodes[p].red = true
				t.rotateRight(p)
				w = t.nodes[p].left
			}
			if !t.isRed(t.nodes[w].left) && !t.isRed(t.nodes[w].right) {
				t.setRed(w, true)
				x = p
				xParent = t.nodes[x].parent
				continue
			}
			if !t.isRed(t.nodes[w].left) {
				t.setRed(t.nodes[w].right, false)
				t.setRed(w, true)
				t.rotateLeft(w)
				w = t.nodes[p].left
			}
			t.setRed(w, t.nodes[p].red)
			t.nodes[p].red = false
			t.setRed(t.nodes[w].left, false)
			t.rotateRight(p)
			x = t.root
		}
	}
	t.setRed(x, false)
}

// --- Rotations -------------------------------------------------------------

func (t *Tree[V, D]) isRed(i int32) bool {
	return i != null && t.nodes[i].red
}

func (t *Tree[V, D]) setRed(i int32, red bool) {
	if i != null {
		t.nodes[i].red = red
	}
}

// rotateLeft rotates the subtree at x to the left. The aggregate of the
// subtree as a whole does not change, so ancestors stay valid.
func (t *Tree[V, D]) rotateLeft(x int32) {
	y := t.nodes[x].right
	assert(y != null, "rotateLeft without right child")
	t.nodes[x].right = t.nodes[y].left
	if t.nodes[y].left != null {
		t.nodes[t.nodes[y].left].parent = x
	}
	t.transplant(x, y)
	t.nodes[y].left = x
	t.nodes[x].parent = y
	t.recompute(x)
	t.recompute(y)
}

func (t *Tree[V, D]) rotateRight(x int32) {
	y := t.nodes[x].left
	assert(y != null, "rotateRight without left child")
	t.nodes[x].left = t.nodes[y].right
	if t.nodes[y].right != null {
		t.nodes[t.nodes[y].right].parent = x
	}
	t.transplant(x, y)
	t.nodes[y].right = x
	t.nodes[x].parent = y
	t.recompute(x)
	t.recompute(y)
}

func (t *Tree[V, D]) leftmost(i int32) int32 {
	for t.nodes[i].left != null {
		i = t.nodes[i].left
	}
	return i
}

func (t *Tree[V, D]) rightmost(i int32) int32 {
	for t.nodes[i].right != null {
		i = t.nodes[i].right
	}
	return i
}
