package lineindex

// frameSync keeps the frame tree aligned with the line tree: every line gets
// a frame of estimated height, in the same order, paired in the bridge.
type frameSync struct {
	m *Manager
}

func (fs *frameSync) DidInsertLine(line Line) {
	m := fs.m
	height := m.estimatedLineHeight
	var frame FrameID
	if after, ok := fs.frameOf(line.Prev()); ok {
		frame = m.frames.InsertAfter(after, height, nil)
	} else if before, ok := fs.frameOf(line.Next()); ok {
		frame = m.frames.InsertBefore(before, height, nil)
	} else if line.Index() == 0 {
		frame = m.frames.Prepend(height, nil)
	} else {
		frame = m.frames.Append(height, nil)
	}
	m.bridge.Pair(line.id, frame)
}

// frameOf returns the live frame paired with a neighbour line.
func (fs *frameSync) frameOf(line Line, exists bool) (FrameID, bool) {
	if !exists {
		return FrameID{}, false
	}
	frame, ok := line.Frame()
	if !ok || !fs.m.frames.Valid(frame) {
		return FrameID{}, false
	}
	return frame, true
}

func (fs *frameSync) DidRemoveLine(id LineID, _ LineData) {
	m := fs.m
	if frame, ok := m.bridge.UnpairLine(id); ok && m.frames.Valid(frame) {
		m.frames.Remove(frame)
	}
}

func (fs *frameSync) DidRebuild() {
	m := fs.m
	heights := make([]float64, m.LineCount())
	for i := range heights {
		heights[i] = m.estimatedLineHeight
	}
	frames := m.frames.Rebuild(heights)
	i := 0
	for line := range m.Lines() {
		m.bridge.Pair(line.id, frames[i])
		i++
	}
}
