package lineindex

import "fmt"

// Bridge pairs lines with line frames. The line tree and the frame tree are
// independent structures; the bridge keeps a strict 1:1 relation between
// their nodes. Lines without a frame (and vice versa) are valid.
type Bridge struct {
	frameOf map[LineID]FrameID
	lineOf  map[FrameID]LineID
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{
		frameOf: make(map[LineID]FrameID),
		lineOf:  make(map[FrameID]LineID),
	}
}

// Pair pairs line with frame. Earlier pairings of either one are dissolved.
func (b *Bridge) Pair(line LineID, frame FrameID) {
	b.UnpairLine(line)
	b.UnpairFrame(frame)
	b.frameOf[line] = frame
	b.lineOf[frame] = line
}

// FrameOf returns the frame paired with line.
func (b *Bridge) FrameOf(line LineID) (FrameID, bool) {
	f, ok := b.frameOf[line]
	return f, ok
}

// LineOf returns the line paired with frame.
func (b *Bridge) LineOf(frame FrameID) (LineID, bool) {
	l, ok := b.lineOf[frame]
	return l, ok
}

// UnpairLine dissolves the pairing of line and returns the frame it was
// paired with.
func (b *Bridge) UnpairLine(line LineID) (FrameID, bool) {
	f, ok := b.frameOf[line]
	if ok {
		delete(b.frameOf, line)
		delete(b.lineOf, f)
	}
	return f, ok
}

// UnpairFrame dissolves the pairing of frame and returns the line it was
// paired with.
func (b *Bridge) UnpairFrame(frame FrameID) (LineID, bool) {
	l, ok := b.lineOf[frame]
	if ok {
		delete(b.lineOf, frame)
		delete(b.frameOf, l)
	}
	return l, ok
}

// Len returns the number of pairs.
func (b *Bridge) Len() int {
	return len(b.frameOf)
}

// Reset dissolves all pairings.
func (b *Bridge) Reset() {
	clear(b.frameOf)
	clear(b.lineOf)
}

// Check validates that both directions of the bridge mirror each other.
func (b *Bridge) Check() error {
	if len(b.frameOf) != len(b.lineOf) {
		return fmt.Errorf("%w: bridge has %d lines, but %d frames",
			ErrInconsistentLines, len(b.frameOf), len(b.lineOf))
	}
	for l, f := range b.frameOf {
		if back, ok := b.lineOf[f]; !ok || back != l {
			return fmt.Errorf("%w: bridge pairing is not symmetric", ErrInconsistentLines)
		}
	}
	return nil
}
