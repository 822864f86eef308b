package lineindex

import (
	"fmt"
	"io"

	"github.com/npillmayer/lineindex/rbtree"
)

// LinesToDot outputs the internal structure of the line tree in Graphviz DOT
// format (for debugging purposes). Nodes are labelled with line number,
// start offset, length and delimiter.
func (m *Manager) LinesToDot(w io.Writer) error {
	return rbtree.ToDot(m.lines, w, func(h rbtree.Handle, value int, data LineData) string {
		line := m.line(h)
		return fmt.Sprintf("#%d @%d\\n%d+%s", line.Index(), line.Start(),
			data.Length(), dotDelimiter(line.Delimiter()))
	})
}

// FramesToDot outputs the internal structure of the frame tree in Graphviz
// DOT format.
func (m *Manager) FramesToDot(w io.Writer) error {
	return rbtree.ToDot(m.frames.tree, w, func(h rbtree.Handle, height float64, _ any) string {
		y := m.frames.Y(FrameID(h))
		if line, ok := m.LineOfFrame(FrameID(h)); ok {
			return fmt.Sprintf("#%d\\ny=%.1f h=%.1f", line.Index(), y, height)
		}
		return fmt.Sprintf("y=%.1f h=%.1f", y, height)
	})
}

// escaped for DOT labels
func dotDelimiter(k DelimiterKind) string {
	switch k {
	case LF:
		return `\\n`
	case CR:
		return `\\r`
	case CRLF:
		return `\\r\\n`
	}
	return "·"
}
