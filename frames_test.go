package lineindex

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestFrameIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lineindex")
	defer teardown()
	//
	fx := NewFrameIndex()
	if _, ok := fx.FrameAt(0); ok {
		t.Errorf("empty frame index should not have a frame at 0")
	}
	a := fx.Append(10, "a")
	c := fx.Append(5, "c")
	b := fx.InsertAfter(a, 20, "b")
	z := fx.InsertBefore(a, 0, "z")
	if fx.Len() != 4 || fx.ContentHeight() != 35 {
		t.Fatalf("expected 4 frames of height 35, have %d of %.1f", fx.Len(), fx.ContentHeight())
	}
	if fx.Y(b) != 10 || fx.Y(c) != 30 || fx.Index(c) != 3 || fx.Data(b) != "b" {
		t.Errorf("frame b @%.1f, frame c @%.1f", fx.Y(b), fx.Y(c))
	}
	if f, _ := fx.FrameAt(12); f != b {
		t.Errorf("y=12 should be in frame b")
	}
	if f, _ := fx.FrameAt(100); f != c {
		t.Errorf("y beyond content should map to last frame")
	}
	if fx.SetHeight(b, 20) {
		t.Errorf("setting an unchanged height should report false")
	}
	if !fx.SetHeight(b, 25) || fx.ContentHeight() != 40 || fx.Y(c) != 35 {
		t.Errorf("height of b not updated")
	}
	matches := fx.RangeQuery(5, 36)
	if len(matches) != 3 || matches[0].ID != a || matches[2].ID != c || matches[1].Y != 10 {
		t.Errorf("unexpected range query result %+v", matches)
	}
	if matches = fx.RangeQuery(36, 100); len(matches) != 1 || matches[0].ID != c {
		t.Errorf("only frame c should intersect [36,100], have %+v", matches)
	}
	fx.Remove(z)
	if fx.Valid(z) || fx.Len() != 3 {
		t.Errorf("frame z should be removed")
	}
	if err := fx.Check(); err != nil {
		t.Error(err)
	}
}

func TestRangeQueryIncludesEdges(t *testing.T) {
	fx := NewFrameIndex()
	f0, f1, f2 := fx.Append(10, nil), fx.Append(10, nil), fx.Append(10, nil)
	for _, c := range []struct {
		y0, y1 float64
		want   []FrameID
	}{
		{0, 10, []FrameID{f0, f1}},
		{0, 9.5, []FrameID{f0}},
		{10.5, 19.5, []FrameID{f1}},
		{20, 20, []FrameID{f1, f2}},
		{30, 50, []FrameID{f2}},
		{31, 50, nil},
	} {
		matches := fx.RangeQuery(c.y0, c.y1)
		if len(matches) != len(c.want) {
			t.Errorf("[%.1f,%.1f]: expected %d frames, have %d", c.y0, c.y1, len(c.want), len(matches))
			continue
		}
		for i, m := range matches {
			if m.ID != c.want[i] {
				t.Errorf("[%.1f,%.1f]: frame %d is at index %d", c.y0, c.y1, i, fx.Index(m.ID))
			}
		}
	}
}

func TestBridge(t *testing.T) {
	fx := NewFrameIndex()
	f1, f2 := fx.Append(1, nil), fx.Append(1, nil)
	m, _ := newTestManager(t, "a\nb")
	l1, l2 := m.LineAt(0).ID(), m.LineAt(1).ID()
	b := NewBridge()
	b.Pair(l1, f1)
	b.Pair(l2, f1) // dissolves l1 <-> f1
	if _, ok := b.FrameOf(l1); ok {
		t.Errorf("line 1 should have lost its frame")
	}
	if l, _ := b.LineOf(f1); l != l2 {
		t.Errorf("frame 1 should be paired with line 2")
	}
	b.Pair(l1, f2)
	if b.Len() != 2 {
		t.Errorf("expected 2 pairs, have %d", b.Len())
	}
	if f, ok := b.UnpairLine(l1); !ok || f != f2 {
		t.Errorf("unpairing line 1 should return frame 2")
	}
	if l, ok := b.UnpairFrame(f1); !ok || l != l2 {
		t.Errorf("unpairing frame 1 should return line 2")
	}
	if b.Len() != 0 {
		t.Errorf("bridge should be empty")
	}
	b.Pair(l1, f1)
	b.Reset()
	if err := b.Check(); err != nil || b.Len() != 0 {
		t.Errorf("bridge should be empty after reset")
	}
}

func TestFrameSync(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lineindex")
	defer teardown()
	//
	m, buf := newTestManager(t, "a\nb\nc", WithFrameSync(), WithEstimatedLineHeight(10))
	if m.ContentHeight() != 30 || m.Frames().Len() != 3 {
		t.Fatalf("expected 3 frames of height 30, have %d of %.1f", m.Frames().Len(), m.ContentHeight())
	}
	second := m.LineAt(1)
	if !m.SetHeight(second, 20) {
		t.Errorf("changing the height of line 1 should report true")
	}
	if m.SetHeight(second, 20) {
		t.Errorf("unchanged height of line 1 should report false")
	}
	visible := m.VisibleLines(15, 35)
	if len(visible) != 2 || visible[0].Line != second || visible[0].Y != 10 ||
		visible[1].Line.Index() != 2 || visible[1].Y != 30 || visible[1].Height != 10 {
		t.Fatalf("unexpected visible lines %+v", visible)
	}
	frame, _ := second.Frame()
	if l, ok := m.LineOfFrame(frame); !ok || l != second {
		t.Errorf("frame of line 1 should lead back to line 1")
	}
	buf.insert(m, "x\ny\n", 2)
	if err := m.Check(); err != nil {
		t.Fatal(err)
	}
	if m.LineCount() != 5 || m.ContentHeight() != 60 {
		t.Errorf("expected 5 lines of height 60, have %d of %.1f", m.LineCount(), m.ContentHeight())
	}
	// the line at the insertion point keeps its identity and frame, and holds "x\n" now
	if got, _ := second.Frame(); got != frame || second.Index() != 1 || second.TotalLength() != 2 {
		t.Errorf("line 1 should have kept its frame")
	}
	if l := m.LineAt(3); l.Start() != 6 || m.Frames().Height(mustFrame(t, l)) != 10 {
		t.Errorf("line 'b' should have a new frame of estimated height")
	}
	buf.remove(m, 1, 6) // "\nx\ny\nb"
	if err := m.Check(); err != nil {
		t.Fatal(err)
	}
	if second.Valid() || m.Frames().Valid(frame) {
		t.Errorf("line 1 and its frame should be gone")
	}
	if m.LineCount() != 2 || m.ContentHeight() != 20 {
		t.Errorf("expected 2 lines of height 20, have %d of %.1f", m.LineCount(), m.ContentHeight())
	}
}

func mustFrame(t *testing.T, l Line) FrameID {
	t.Helper()
	f, ok := l.Frame()
	if !ok {
		t.Fatalf("line %d has no frame", l.Index())
	}
	return f
}

func TestUnsyncedFrames(t *testing.T) {
	m, buf := newTestManager(t, "a\nb\nc")
	if m.Frames().Len() != 0 || len(m.VisibleLines(0, 100)) != 0 {
		t.Fatalf("without frame sync there should be no frames")
	}
	f := m.Frames().Append(7, nil)
	m.Frames().Append(3, nil) // unpaired
	m.AttachFrame(m.LineAt(2), f)
	visible := m.VisibleLines(0, 100)
	if len(visible) != 1 || visible[0].Line.Index() != 2 {
		t.Errorf("only line 2 should be visible, have %+v", visible)
	}
	buf.remove(m, 3, 2)
	if m.Bridge().Len() != 0 {
		t.Errorf("removing line 2 should dissolve its pairing")
	}
	if err := m.Check(); err != nil {
		t.Error(err)
	}
}

func TestBroadcaster(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lineindex")
	defer teardown()
	//
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bc := NewBroadcaster(ctx, true)
	defer bc.Close()
	events, ok := bc.Subscribe(ctx, 16)
	if !ok {
		t.Fatalf("cannot subscribe")
	}
	rec := &recorder{}
	buf := &testBuffer{}
	m := NewManager(buf, WithDelegate(Chain(rec, bc)))
	buf.insert(m, "x\ny", 0)
	buf.remove(m, 1, 1)
	want := []LineEvent{
		{Kind: LinesRebuilt, Index: -1},
		{Kind: LineInserted, Index: 1},
		{Kind: LineRemoved, Index: -1},
	}
	for i, w := range want {
		select {
		case ev := <-events:
			if ev.Kind != w.Kind || ev.Index != w.Index {
				t.Errorf("event %d is %s/%d, want %s/%d", i, ev.Kind, ev.Index, w.Kind, w.Index)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for event %d", i)
		}
	}
	if rec.inserted != 1 || rec.removed != 1 {
		t.Errorf("chained recorder missed events")
	}
}

func TestCancelledSubscriberDoesNotLeak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lineindex")
	defer teardown()
	//
	before := runtime.NumGoroutine()
	bc := NewBroadcaster(context.Background(), true)
	var channels []<-chan LineEvent
	for range 20 {
		ctx, cancel := context.WithCancel(context.Background())
		events, ok := bc.Subscribe(ctx, 0)
		if !ok {
			t.Fatalf("cannot subscribe")
		}
		channels = append(channels, events)
		bc.DidRebuild() // nobody reads events
		cancel()
	}
	bc.DidRebuild()
	bc.Close()
	for i, events := range channels {
		timeout := time.After(time.Second)
	drain:
		for {
			select {
			case _, ok := <-events:
				if !ok {
					break drain
				}
			case <-timeout:
				t.Fatalf("channel of subscriber %d has not been closed", i)
			}
		}
	}
	if _, ok := bc.Subscribe(context.Background(), 1); ok {
		t.Errorf("subscribing to a closed broadcaster should fail")
	}
	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := runtime.NumGoroutine(); n > before {
		t.Errorf("%d goroutines left running, had %d before", n, before)
	}
}

func TestLinesToDot(t *testing.T) {
	m, _ := newTestManager(t, "ab\r\ncd\ne", WithFrameSync())
	var out bytes.Buffer
	if err := m.LinesToDot(&out); err != nil {
		t.Fatal(err)
	}
	dot := out.String()
	if !strings.HasPrefix(dot, "strict digraph {") || !strings.Contains(dot, `#0 @0\n2+\\r\\n`) {
		t.Errorf("unexpected DOT output:\n%s", dot)
	}
	out.Reset()
	if err := m.FramesToDot(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "#2") {
		t.Errorf("frame DOT output should name line 2:\n%s", out.String())
	}
}
