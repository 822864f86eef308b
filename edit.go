package lineindex

import (
	"fmt"

	"github.com/npillmayer/lineindex/rbtree"
)

// Rebuild replaces all lines by the lines of text. The previous lines are
// dropped without per-line notifications; the delegate receives DidRebuild
// instead.
func (m *Manager) Rebuild(text string) {
	var values []int
	var data []LineData
	lastEnd := 0
	for pos, n, ok := nextDelimiter(text, 0); ok; pos, n, ok = nextDelimiter(text, lastEnd) {
		total := pos + n - lastEnd
		values = append(values, total)
		data = append(data, LineData{TotalLength: total, DelimiterLength: n})
		lastEnd = pos + n
	}
	tail := len(text) - lastEnd
	values = append(values, tail)
	data = append(data, LineData{TotalLength: tail})
	m.lines.Rebuild(values, data)
	tracer().Debugf("lineindex: rebuilt %d lines from %d bytes", len(values), len(text))
	m.didRebuild()
}

// RemoveCharacters updates the lines after length bytes have been removed
// from the text at offset loc. The character source must already reflect the
// text after the removal.
//
// RemoveCharacters panics if [loc, loc+length) is not a range of the text.
func (m *Manager) RemoveCharacters(loc, length int) {
	if length == 0 {
		return
	}
	assert(loc >= 0 && length > 0 && loc+length <= m.Length(),
		fmt.Sprintf("lineindex.RemoveCharacters: range [%d,%d) out of bounds", loc, loc+length))
	tracer().Debugf("lineindex: remove %d bytes at %d", length, loc)
	for length > 0 {
		start := m.lines.NodeContaining(loc)
		startLoc := m.lines.StartOf(start)
		value := m.lines.Value(start)
		if loc > startLoc+m.lines.Data(start).Length() {
			// removal starts in the middle of a `\r\n` delimiter
			m.setLength(start, value-1)
			length--
			if length == 0 {
				m.joinSuccessor(start)
			}
			continue
		}
		if loc+length < startLoc+value {
			m.setLength(start, value-length)
			return
		}
		// the delimiter of the start line is removed: merge with the end line
		removedInStart := startLoc + value - loc
		assert(removedInStart > 0, "lineindex.RemoveCharacters: nothing removed from start line")
		end := m.lines.NodeContaining(loc + length)
		if end == start { // last line
			m.setLength(start, value-length)
			return
		}
		leftInEnd := m.lines.StartOf(end) + m.lines.Value(end) - (loc + length)
		for {
			next := m.lines.Next(start)
			m.removeLine(next)
			if next == end {
				break
			}
		}
		m.setLength(start, value-removedInStart+leftInEnd)
		return
	}
}

// InsertText updates the lines after text has been inserted at offset loc.
// The character source must already reflect the text after the insertion.
//
// InsertText panics if loc is not within [0, Length()].
func (m *Manager) InsertText(text string, loc int) {
	assert(loc >= 0 && loc <= m.Length(),
		fmt.Sprintf("lineindex.InsertText: offset %d out of bounds [0,%d]", loc, m.Length()))
	if text == "" {
		return
	}
	tracer().Debugf("lineindex: insert %d bytes at %d", len(text), loc)
	h := m.lines.NodeContaining(loc)
	if loc > m.lines.StartOf(h)+m.lines.Data(h).Length() {
		// inserting in the middle of a `\r\n` delimiter splits the line
		m.setLength(h, m.lines.Value(h)-1)
		h = m.insertLine(1, h)
		h = m.setLength(h, 1)
	}
	lastEnd := 0
	for pos, n, ok := nextDelimiter(text, 0); ok; pos, n, ok = nextDelimiter(text, lastEnd) {
		breakAt := loc + pos + n
		lineStart := m.lines.StartOf(h)
		rest := lineStart + m.lines.Value(h) - (loc + lastEnd)
		h = m.setLength(h, breakAt-lineStart)
		h = m.setLength(m.insertLine(rest, h), rest)
		lastEnd = pos + n
	}
	if lastEnd != len(text) {
		m.setLength(h, m.lines.Value(h)+len(text)-lastEnd)
	}
}

// ReplaceCharacters updates the lines after length bytes at offset loc have
// been replaced by text. The character source must already reflect the text
// after the replacement.
func (m *Manager) ReplaceCharacters(loc, length int, text string) {
	if length > 0 {
		// the removal has to see the text without the inserted bytes
		src := m.src
		m.withSource(CharacterSourceFunc(func(offset int) byte {
			if offset < loc {
				return src.CharAt(offset)
			}
			return src.CharAt(offset + len(text))
		}), func() {
			m.RemoveCharacters(loc, length)
		})
	}
	m.InsertText(text, loc)
}

func (m *Manager) withSource(src CharacterSource, edit func()) {
	saved := m.src
	m.src = src
	defer func() { m.src = saved }()
	edit()
}

// setLength sets the total length of a line and re-derives its delimiter
// length from the text. A line consisting of a single `\n` which follows a
// `\r` is merged into the previous line. setLength returns the line that
// finally holds the bytes, which is either h or a predecessor of h.
func (m *Manager) setLength(h rbtree.Handle, total int) rbtree.Handle {
	assert(total >= 0, "lineindex: negative line length")
	for {
		m.lines.SetValue(h, total)
		data := LineData{TotalLength: total}
		if total > 0 {
			start := m.lines.StartOf(h)
			switch m.src.CharAt(start + total - 1) {
			case carriageReturn:
				data.DelimiterLength = 1
			case lineFeed:
				if total >= 2 && m.src.CharAt(start+total-2) == carriageReturn {
					data.DelimiterLength = 2
				} else if total == 1 && start > 0 && m.src.CharAt(start-1) == carriageReturn {
					prev := m.lines.Prev(h)
					assert(!prev.IsZero(), "lineindex: no line before a line with start > 0")
					tracer().Debugf("lineindex: joining `\\n` at %d with preceding `\\r`", start)
					m.removeLine(h)
					h, total = prev, m.lines.Value(prev)+1
					continue
				} else {
					data.DelimiterLength = 1
				}
			}
		}
		m.lines.SetData(h, data)
		return h
	}
}

// joinSuccessor re-derives the line after h if it consists of a single byte,
// merging a lone `\n` into h when h now ends in `\r`.
func (m *Manager) joinSuccessor(h rbtree.Handle) {
	next := m.lines.Next(h)
	if !next.IsZero() && m.lines.Value(next) == 1 {
		m.setLength(next, 1)
	}
}

func (m *Manager) insertLine(length int, after rbtree.Handle) rbtree.Handle {
	h := m.lines.InsertAfter(after, length, LineData{TotalLength: length})
	m.didInsertLine(m.line(h))
	return h
}

func (m *Manager) removeLine(h rbtree.Handle) {
	assert(m.lines.Len() > 1, "lineindex: cannot remove the last remaining line")
	_, last := m.lines.Remove(h)
	m.didRemoveLine(LineID(h), last)
}
