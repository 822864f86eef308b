package lineindex

import (
	"github.com/npillmayer/lineindex/rbtree"
)

// LineID is the identity of a line. It stays the same while the line is
// edited, for as long as the line exists.
type LineID rbtree.Handle

// IsZero reports whether id references no line.
func (id LineID) IsZero() bool {
	return rbtree.Handle(id).IsZero()
}

// LineData is the per-line payload of the line tree.
type LineData struct {
	TotalLength     int // length in bytes, including the delimiter
	DelimiterLength int // 0, 1 or 2
}

// Length returns the content length of a line, i.e. excluding the delimiter.
func (d LineData) Length() int {
	return d.TotalLength - d.DelimiterLength
}

type lineTree = rbtree.Tree[int, LineData]

// Line is a read-only view of a line of the index.
//
// Lines are cheap values. A Line keeps referring to the same logical line
// across edits, as long as the line is not removed (see Valid).
type Line struct {
	id LineID
	m  *Manager
}

// ID returns the identity of the line.
func (l Line) ID() LineID {
	return l.id
}

// Valid reports whether the line is still part of the index.
func (l Line) Valid() bool {
	return l.m != nil && l.m.lines.Valid(rbtree.Handle(l.id))
}

// Index returns the 0-based line number.
func (l Line) Index() int {
	return l.m.lines.IndexOf(rbtree.Handle(l.id))
}

// Start returns the offset of the first byte of the line.
func (l Line) Start() int {
	return l.m.lines.StartOf(rbtree.Handle(l.id))
}

// Data returns length information for the line.
func (l Line) Data() LineData {
	return l.m.lines.Data(rbtree.Handle(l.id))
}

// TotalLength returns the length of the line, including the delimiter.
func (l Line) TotalLength() int {
	return l.m.lines.Value(rbtree.Handle(l.id))
}

// DelimiterLength returns the length of the line delimiter (0, 1 or 2).
func (l Line) DelimiterLength() int {
	return l.Data().DelimiterLength
}

// Length returns the length of the line content, excluding the delimiter.
func (l Line) Length() int {
	return l.Data().Length()
}

// End returns the offset after the last byte of the line.
func (l Line) End() int {
	return l.Start() + l.TotalLength()
}

// Delimiter returns the kind of line delimiter ending this line.
func (l Line) Delimiter() DelimiterKind {
	switch l.DelimiterLength() {
	case 0:
		return NoDelimiter
	case 2:
		return CRLF
	}
	if l.m.src.CharAt(l.End()-1) == carriageReturn {
		return CR
	}
	return LF
}

// Next returns the line after l, if any.
func (l Line) Next() (Line, bool) {
	h := l.m.lines.Next(rbtree.Handle(l.id))
	if h.IsZero() {
		return Line{}, false
	}
	return l.m.line(h), true
}

// Prev returns the line before l, if any.
func (l Line) Prev() (Line, bool) {
	h := l.m.lines.Prev(rbtree.Handle(l.id))
	if h.IsZero() {
		return Line{}, false
	}
	return l.m.line(h), true
}

// Frame returns the line frame paired with l, if any.
func (l Line) Frame() (FrameID, bool) {
	return l.m.bridge.FrameOf(l.id)
}
