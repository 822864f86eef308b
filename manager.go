package lineindex

import (
	"iter"

	"github.com/npillmayer/lineindex/rbtree"
)

// CharacterSource is the text storage the line index is built upon.
// CharAt returns the byte at offset; offsets are always within the current
// text. Implementations must neither block nor call back into the Manager.
type CharacterSource interface {
	CharAt(offset int) byte
}

// CharacterSourceFunc adapts a function to a CharacterSource.
type CharacterSourceFunc func(offset int) byte

// CharAt calls f(offset).
func (f CharacterSourceFunc) CharAt(offset int) byte {
	return f(offset)
}

// Delegate receives notifications about structural changes of the line index.
// Notifications are sent synchronously, in the middle of an edit; delegates
// must not call edit operations of the Manager.
type Delegate interface {
	// DidInsertLine is called after a line has been inserted.
	DidInsertLine(line Line)
	// DidRemoveLine is called after a line has been removed. The line's
	// bridge pairing is dissolved only after all delegates have been
	// notified, so FrameOf(id) still works during this call.
	DidRemoveLine(id LineID, last LineData)
	// DidRebuild is called after all lines have been replaced.
	DidRebuild()
}

// NopDelegate implements Delegate with no-ops. It is meant to be embedded
// by delegates interested in a subset of notifications.
type NopDelegate struct{}

// DidInsertLine is part of interface Delegate.
func (NopDelegate) DidInsertLine(Line) {}

// DidRemoveLine is part of interface Delegate.
func (NopDelegate) DidRemoveLine(LineID, LineData) {}

// DidRebuild is part of interface Delegate.
func (NopDelegate) DidRebuild() {}

// Chain combines delegates, notifying them in order.
func Chain(delegates ...Delegate) Delegate {
	var c chain
	for _, d := range delegates {
		if d != nil {
			c = append(c, d)
		}
	}
	return c
}

type chain []Delegate

func (c chain) DidInsertLine(line Line) {
	for _, d := range c {
		d.DidInsertLine(line)
	}
}

func (c chain) DidRemoveLine(id LineID, last LineData) {
	for _, d := range c {
		d.DidRemoveLine(id, last)
	}
}

func (c chain) DidRebuild() {
	for _, d := range c {
		d.DidRebuild()
	}
}

// DefaultEstimatedLineHeight is the height given to frames of new lines
// before the view layer has measured them.
const DefaultEstimatedLineHeight = 12.0

// Option configures a Manager.
type Option func(*Manager)

// WithDelegate sets the delegate to be notified of inserted and removed lines.
func WithDelegate(d Delegate) Option {
	return func(m *Manager) {
		m.delegate = d
	}
}

// WithEstimatedLineHeight sets the height of frames created for new lines.
func WithEstimatedLineHeight(h float64) Option {
	return func(m *Manager) {
		if h >= 0 {
			m.estimatedLineHeight = h
		}
	}
}

// WithFrameSync lets the manager maintain a line frame for every line:
// frames are created and removed alongside lines and paired in the bridge.
func WithFrameSync() Option {
	return func(m *Manager) {
		m.sync = &frameSync{m: m}
	}
}

// Manager orchestrates the line index: the tree of document lines, the tree
// of line frames, and the bridge pairing them.
//
// Edits (Rebuild, InsertText, RemoveCharacters, ReplaceCharacters) are the
// only way to change the line tree. They have to be called after the text
// storage has been changed accordingly.
type Manager struct {
	src                 CharacterSource
	lines               *lineTree
	frames              *FrameIndex
	bridge              *Bridge
	delegate            Delegate
	sync                *frameSync
	estimatedLineHeight float64
}

// NewManager creates a line index for an empty text.
func NewManager(src CharacterSource, opts ...Option) *Manager {
	assert(src != nil, "lineindex.NewManager: character source is nil")
	lines, err := rbtree.New[int, LineData]()
	assert(err == nil, "lineindex.NewManager: cannot create line tree")
	m := &Manager{
		src:                 src,
		lines:               lines,
		frames:              NewFrameIndex(),
		bridge:              NewBridge(),
		estimatedLineHeight: DefaultEstimatedLineHeight,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.lines.Reset(0, LineData{})
	m.didRebuild()
	return m
}

func (m *Manager) line(h rbtree.Handle) Line {
	return Line{id: LineID(h), m: m}
}

// LineCount returns the number of lines. It is at least 1.
func (m *Manager) LineCount() int {
	return m.lines.Len()
}

// Length returns the length of the indexed text in bytes.
func (m *Manager) Length() int {
	return m.lines.Total()
}

// EstimatedLineHeight returns the height given to frames of new lines.
func (m *Manager) EstimatedLineHeight() float64 {
	return m.estimatedLineHeight
}

// LineAt returns the line with 0-based index. It panics if index is not
// within [0, LineCount()).
func (m *Manager) LineAt(index int) Line {
	return m.line(m.lines.NodeAt(index))
}

// LineContainingOffset returns the line containing the byte at offset. An
// offset equal to Length() belongs to the last line. It returns false for
// offsets outside of [0, Length()].
func (m *Manager) LineContainingOffset(offset int) (Line, bool) {
	if offset < 0 || offset > m.Length() {
		return Line{}, false
	}
	return m.line(m.lines.NodeContaining(offset)), true
}

// Line returns the line for id, if it still exists.
func (m *Manager) Line(id LineID) (Line, bool) {
	l := m.line(rbtree.Handle(id))
	return l, l.Valid()
}

// FirstLine returns the first line.
func (m *Manager) FirstLine() Line {
	return m.line(m.lines.First())
}

// LastLine returns the last line.
func (m *Manager) LastLine() Line {
	return m.line(m.lines.Last())
}

// Lines returns an iterator over all lines in order.
func (m *Manager) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for h := range m.lines.All() {
			if !yield(m.line(h)) {
				return
			}
		}
	}
}

// Frames returns the index of line frames.
func (m *Manager) Frames() *FrameIndex {
	return m.frames
}

// Bridge returns the pairing of lines and line frames.
func (m *Manager) Bridge() *Bridge {
	return m.bridge
}

// AttachFrame pairs a line with a line frame, replacing earlier pairings of
// either one.
func (m *Manager) AttachFrame(line Line, frame FrameID) {
	assert(line.Valid(), "lineindex.AttachFrame: line is not part of the index")
	assert(m.frames.Valid(frame), "lineindex.AttachFrame: frame is not part of the index")
	m.bridge.Pair(line.id, frame)
}

// LineOfFrame returns the line paired with frame, if any.
func (m *Manager) LineOfFrame(frame FrameID) (Line, bool) {
	id, ok := m.bridge.LineOf(frame)
	if !ok {
		return Line{}, false
	}
	return m.Line(id)
}

// SetHeight sets the rendered height of the frame paired with line. It
// reports whether the height changed, so callers can skip invalidating
// layout. It returns false if the line has no frame.
func (m *Manager) SetHeight(line Line, height float64) bool {
	frame, ok := m.bridge.FrameOf(line.id)
	if !ok {
		return false
	}
	return m.frames.SetHeight(frame, height)
}

// ContentHeight returns the sum of all line frame heights.
func (m *Manager) ContentHeight() float64 {
	return m.frames.ContentHeight()
}

// VisibleLine is a line together with its frame, as found by a viewport query.
type VisibleLine struct {
	Line   Line
	Frame  FrameID
	Y      float64 // vertical start of the frame
	Height float64
}

// VisibleLines returns the lines whose frames intersect the closed vertical
// interval [y0, y1], in line order. Frames without a paired line are skipped.
func (m *Manager) VisibleLines(y0, y1 float64) []VisibleLine {
	matches := m.frames.RangeQuery(y0, y1)
	visible := make([]VisibleLine, 0, len(matches))
	for _, match := range matches {
		line, ok := m.LineOfFrame(match.ID)
		if !ok {
			tracer().Debugf("lineindex: frame at y=%.1f has no paired line", match.Y)
			continue
		}
		visible = append(visible, VisibleLine{
			Line:   line,
			Frame:  match.ID,
			Y:      match.Y,
			Height: match.Height,
		})
	}
	return visible
}

// --- Notifications ---------------------------------------------------------

func (m *Manager) didInsertLine(line Line) {
	if m.sync != nil {
		m.sync.DidInsertLine(line)
	}
	if m.delegate != nil {
		m.delegate.DidInsertLine(line)
	}
}

func (m *Manager) didRemoveLine(id LineID, last LineData) {
	if m.delegate != nil {
		m.delegate.DidRemoveLine(id, last)
	}
	if m.sync != nil {
		m.sync.DidRemoveLine(id, last)
	}
	m.bridge.UnpairLine(id)
}

func (m *Manager) didRebuild() {
	m.bridge.Reset()
	if m.sync != nil {
		m.sync.DidRebuild()
	}
	if m.delegate != nil {
		m.delegate.DidRebuild()
	}
}
