package lineindex

import (
	"fmt"

	"github.com/npillmayer/lineindex/rbtree"
)

// Check validates the line index against the text of the character source:
// tree structure, line lengths, delimiter classification and, with frame
// sync enabled, the alignment of frames and lines.
//
// Check is expensive and intended to be used in tests.
func (m *Manager) Check() error {
	if err := m.lines.Check(); err != nil {
		return fmt.Errorf("line tree: %w", err)
	}
	if err := m.frames.Check(); err != nil {
		return err
	}
	if err := m.bridge.Check(); err != nil {
		return err
	}
	if m.LineCount() == 0 {
		return fmt.Errorf("%w: no lines", ErrInconsistentLines)
	}
	start := 0
	for line := range m.Lines() {
		if err := m.checkLine(line, start); err != nil {
			return err
		}
		start += line.TotalLength()
	}
	if start != m.Length() {
		return fmt.Errorf("%w: lines sum up to %d, text has %d bytes",
			ErrInconsistentLines, start, m.Length())
	}
	for l, f := range m.bridge.frameOf {
		if !m.lines.Valid(rbtree.Handle(l)) || !m.frames.Valid(f) {
			return fmt.Errorf("%w: bridge refers to a removed line or frame", ErrInconsistentLines)
		}
	}
	if m.sync != nil {
		return m.checkFrameAlignment()
	}
	return nil
}

func (m *Manager) checkLine(line Line, start int) error {
	data, total := line.Data(), line.TotalLength()
	index := line.Index()
	if line.Start() != start {
		return fmt.Errorf("%w: line %d starts at %d, expected %d",
			ErrInconsistentLines, index, line.Start(), start)
	}
	if data.TotalLength != total {
		return fmt.Errorf("%w: line %d has length %d, but payload says %d",
			ErrInconsistentLines, index, total, data.TotalLength)
	}
	if want := m.classify(start, total); data.DelimiterLength != want {
		return fmt.Errorf("%w: line %d has delimiter length %d, text says %d",
			ErrInconsistentLines, index, data.DelimiterLength, want)
	}
	_, hasNext := line.Next()
	if hasNext && data.DelimiterLength == 0 {
		return fmt.Errorf("%w: line %d is not terminated", ErrInconsistentLines, index)
	}
	if !hasNext && data.DelimiterLength != 0 {
		return fmt.Errorf("%w: last line %d is terminated", ErrInconsistentLines, index)
	}
	end := start + total
	if hasNext && total > 0 && end < m.Length() &&
		m.src.CharAt(end-1) == carriageReturn && m.src.CharAt(end) == lineFeed {
		return fmt.Errorf("%w: `\\r\\n` split after line %d", ErrInconsistentLines, index)
	}
	return nil
}

// classify determines the delimiter length of the bytes [start, start+total).
func (m *Manager) classify(start, total int) int {
	if total == 0 {
		return 0
	}
	switch m.src.CharAt(start + total - 1) {
	case carriageReturn:
		return 1
	case lineFeed:
		if total >= 2 && m.src.CharAt(start+total-2) == carriageReturn {
			return 2
		}
		return 1
	}
	return 0
}

func (m *Manager) checkFrameAlignment() error {
	if m.frames.Len() != m.LineCount() || m.bridge.Len() != m.LineCount() {
		return fmt.Errorf("%w: %d lines, %d frames, %d pairs", ErrInconsistentLines,
			m.LineCount(), m.frames.Len(), m.bridge.Len())
	}
	frame := m.frames.First()
	for line := range m.Lines() {
		paired, ok := line.Frame()
		if !ok || paired != frame {
			return fmt.Errorf("%w: frame of line %d is out of order", ErrInconsistentLines, line.Index())
		}
		frame = m.frames.Next(frame)
	}
	return nil
}
