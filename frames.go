package lineindex

import (
	"fmt"

	"github.com/npillmayer/lineindex/rbtree"
)

// FrameID is the identity of a line frame.
type FrameID rbtree.Handle

// IsZero reports whether id references no frame.
func (id FrameID) IsZero() bool {
	return rbtree.Handle(id).IsZero()
}

// FrameIndex keeps the rendered heights of lines, in line order. Frames carry
// an opaque payload owned by the client.
type FrameIndex struct {
	tree *rbtree.Tree[float64, any]
}

// FrameMatch is a frame found by a range query.
type FrameMatch struct {
	ID     FrameID
	Y      float64 // vertical start of the frame
	Height float64
}

// NewFrameIndex creates an empty frame index.
func NewFrameIndex() *FrameIndex {
	tree, err := rbtree.New[float64, any]()
	assert(err == nil, "lineindex.NewFrameIndex: cannot create frame tree")
	return &FrameIndex{tree: tree}
}

// Len returns the number of frames.
func (fx *FrameIndex) Len() int {
	return fx.tree.Len()
}

// Valid reports whether id references a frame of this index.
func (fx *FrameIndex) Valid(id FrameID) bool {
	return fx.tree.Valid(rbtree.Handle(id))
}

// Append adds a frame at the end.
func (fx *FrameIndex) Append(height float64, data any) FrameID {
	assertHeight(height)
	return FrameID(fx.tree.Append(height, data))
}

// Prepend adds a frame at the start.
func (fx *FrameIndex) Prepend(height float64, data any) FrameID {
	assertHeight(height)
	return FrameID(fx.tree.Prepend(height, data))
}

// InsertAfter adds a frame immediately after frame `after`.
func (fx *FrameIndex) InsertAfter(after FrameID, height float64, data any) FrameID {
	assertHeight(height)
	return FrameID(fx.tree.InsertAfter(rbtree.Handle(after), height, data))
}

// InsertBefore adds a frame immediately before frame `before`.
func (fx *FrameIndex) InsertBefore(before FrameID, height float64, data any) FrameID {
	assertHeight(height)
	return FrameID(fx.tree.InsertBefore(rbtree.Handle(before), height, data))
}

// Remove deletes a frame and returns its last height and payload.
func (fx *FrameIndex) Remove(id FrameID) (float64, any) {
	return fx.tree.Remove(rbtree.Handle(id))
}

// Rebuild replaces all frames by len(heights) frames with the given heights
// and nil payloads.
func (fx *FrameIndex) Rebuild(heights []float64) []FrameID {
	for _, h := range heights {
		assertHeight(h)
	}
	handles := fx.tree.Rebuild(heights, make([]any, len(heights)))
	ids := make([]FrameID, len(handles))
	for i, h := range handles {
		ids[i] = FrameID(h)
	}
	return ids
}

// Clear removes all frames.
func (fx *FrameIndex) Clear() {
	fx.tree.Clear()
}

// Height returns the height of a frame.
func (fx *FrameIndex) Height(id FrameID) float64 {
	return fx.tree.Value(rbtree.Handle(id))
}

// Y returns the vertical start of a frame, i.e. the sum of the heights of all
// frames before it.
func (fx *FrameIndex) Y(id FrameID) float64 {
	return fx.tree.StartOf(rbtree.Handle(id))
}

// Index returns the ordinal position of a frame.
func (fx *FrameIndex) Index(id FrameID) int {
	return fx.tree.IndexOf(rbtree.Handle(id))
}

// Data returns the client payload of a frame.
func (fx *FrameIndex) Data(id FrameID) any {
	return fx.tree.Data(rbtree.Handle(id))
}

// SetData replaces the client payload of a frame.
func (fx *FrameIndex) SetData(id FrameID, data any) {
	fx.tree.SetData(rbtree.Handle(id), data)
}

// SetHeight changes the height of a frame. It reports whether the height
// actually changed; unchanged heights leave the tree untouched.
func (fx *FrameIndex) SetHeight(id FrameID, height float64) bool {
	assertHeight(height)
	return fx.tree.SetValue(rbtree.Handle(id), height)
}

// FrameAt returns the frame covering vertical position y. Positions at or
// beyond the content height map to the last frame.
func (fx *FrameIndex) FrameAt(y float64) (FrameID, bool) {
	if fx.tree.IsEmpty() || y < 0 {
		return FrameID{}, false
	}
	y = min(y, fx.tree.Total())
	return FrameID(fx.tree.NodeContaining(y)), true
}

// RangeQuery returns all frames whose span [y, y+height] intersects the
// closed vertical interval [y0, y1], in order. Frames touching an edge of
// the interval are included.
func (fx *FrameIndex) RangeQuery(y0, y1 float64) []FrameMatch {
	matches := fx.tree.SearchRange(y0, y1)
	result := make([]FrameMatch, len(matches))
	for i, m := range matches {
		result[i] = FrameMatch{ID: FrameID(m.Node), Y: m.Start, Height: m.Value}
	}
	return result
}

// ContentHeight returns the sum of all frame heights.
func (fx *FrameIndex) ContentHeight() float64 {
	return fx.tree.Total()
}

// First returns the first frame, or a zero id if there are no frames.
func (fx *FrameIndex) First() FrameID {
	return FrameID(fx.tree.First())
}

// Next returns the frame after id, or a zero id.
func (fx *FrameIndex) Next(id FrameID) FrameID {
	return FrameID(fx.tree.Next(rbtree.Handle(id)))
}

// Check validates the structure of the frame tree.
func (fx *FrameIndex) Check() error {
	if err := fx.tree.Check(); err != nil {
		return fmt.Errorf("frame index: %w", err)
	}
	return nil
}

func assertHeight(h float64) {
	assert(h >= 0, "lineindex: frame height must not be negative")
}
