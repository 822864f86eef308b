package lineindex

// LinePosition locates an offset within the lines of a text.
type LinePosition struct {
	LineStart   int // offset of the first byte of the line
	LineNumber  int // 0-based index of the line
	Column      int // offset relative to LineStart, in bytes
	TotalLength int // length of the line, including its delimiter
}

// LinePosition returns the position of offset in terms of lines. An offset at
// the boundary between two lines belongs to the later line; an offset equal to
// Length() belongs to the last line. It returns false for offsets outside of
// [0, Length()].
func (m *Manager) LinePosition(offset int) (LinePosition, bool) {
	pos, ok := m.lines.Position(offset)
	if !ok {
		return LinePosition{}, false
	}
	return LinePosition{
		LineStart:   pos.Start,
		LineNumber:  pos.Index,
		Column:      pos.Offset,
		TotalLength: pos.Value,
	}, true
}
