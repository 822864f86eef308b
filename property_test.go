package lineindex

import (
	"math/rand"
	"slices"
	"testing"
)

// How to run:
//   - Deterministic randomized edit test:
//     go test . -run TestRandomizedEdits -count=1
//   - Fuzz test:
//     go test . -run '^$' -fuzz FuzzEdits -fuzztime=10s

var fragments = []string{"a", "bc", "\r", "\n", "\r\n", "\n\r", "x\ry", "\r\r\n\n"}

func randomText(rng *rand.Rand, pieces int) string {
	var b []byte
	for range pieces {
		b = append(b, fragments[rng.Intn(len(fragments))]...)
	}
	return string(b)
}

type lineShape struct {
	total, delimiter int
}

func shapeOf(m *Manager) []lineShape {
	var shape []lineShape
	for line := range m.Lines() {
		shape = append(shape, lineShape{line.TotalLength(), line.DelimiterLength()})
	}
	return shape
}

// assertLikeRebuild checks that an incrementally edited index equals an
// index built from scratch for the same text.
func assertLikeRebuild(t *testing.T, m *Manager, buf *testBuffer, step int) {
	t.Helper()
	if err := m.Check(); err != nil {
		t.Fatalf("step %d: line index invalid for %q: %v", step, buf.text, err)
	}
	fresh := NewManager(buf)
	fresh.Rebuild(string(buf.text))
	if got, want := shapeOf(m), shapeOf(fresh); !slices.Equal(got, want) {
		t.Fatalf("step %d: lines of %q are %v, rebuild gives %v", step, buf.text, got, want)
	}
}

func runRandomEdits(t *testing.T, seed int64, steps int, opts ...Option) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m, buf := newTestManager(t, randomText(rng, 8), opts...)
	for step := range steps {
		n := len(buf.text)
		switch op := rng.Intn(10); {
		case op < 4:
			buf.insert(m, randomText(rng, 1+rng.Intn(3)), rng.Intn(n+1))
		case op < 8 && n > 0:
			loc := rng.Intn(n)
			buf.remove(m, loc, 1+rng.Intn(min(n-loc, 6)))
		case n > 0:
			loc := rng.Intn(n)
			buf.replace(m, loc, rng.Intn(min(n-loc, 4)+1), randomText(rng, 1+rng.Intn(2)))
		default:
			buf.insert(m, randomText(rng, 2), 0)
		}
		assertLikeRebuild(t, m, buf, step)
	}
}

func TestRandomizedEdits(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		runRandomEdits(t, seed, 300)
	}
}

func TestRandomizedEditsWithFrameSync(t *testing.T) {
	for seed := int64(11); seed <= 14; seed++ {
		runRandomEdits(t, seed, 200, WithFrameSync(), WithEstimatedLineHeight(3))
	}
}

// allTexts returns every text of up to n bytes over alphabet.
func allTexts(alphabet string, n int) []string {
	texts := []string{""}
	level := []string{""}
	for range n {
		var next []string
		for _, t := range level {
			for _, c := range alphabet {
				next = append(next, t+string(c))
			}
		}
		texts = append(texts, next...)
		level = next
	}
	return texts
}

func TestAllShortEdits(t *testing.T) {
	inserts := []string{"\n", "\r", "x", "\r\n", "a\r", "\na"}
	for _, text := range allTexts("a\r\n", 5) {
		for loc := 0; loc <= len(text); loc++ {
			for _, s := range inserts {
				m, buf := newTestManager(t, text)
				buf.insert(m, s, loc)
				assertLikeRebuild(t, m, buf, 0)
			}
			for length := 1; loc+length <= len(text); length++ {
				m, buf := newTestManager(t, text)
				buf.remove(m, loc, length)
				assertLikeRebuild(t, m, buf, 0)
				for _, s := range inserts {
					m, buf = newTestManager(t, text)
					buf.replace(m, loc, length, s)
					assertLikeRebuild(t, m, buf, 0)
				}
			}
		}
	}
}

func TestLineTotalsSumUp(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	m, buf := newTestManager(t, randomText(rng, 40))
	for range 100 {
		loc := rng.Intn(len(buf.text) + 1)
		buf.insert(m, randomText(rng, 2), loc)
		total := 0
		for line := range m.Lines() {
			total += line.TotalLength()
		}
		if total != len(buf.text) || m.Length() != total {
			t.Fatalf("lines sum up to %d, text has %d bytes", total, len(buf.text))
		}
		for offset := 0; offset <= len(buf.text); offset += 1 + rng.Intn(5) {
			line, ok := m.LineContainingOffset(offset)
			if !ok {
				t.Fatalf("no line for offset %d", offset)
			}
			if offset < line.Start() || offset > line.End() ||
				(offset == line.End() && offset != len(buf.text)) {
				t.Fatalf("line [%d,%d) does not contain offset %d", line.Start(), line.End(), offset)
			}
		}
	}
}

func TestRemoveInsertRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for range 200 {
		text := randomText(rng, 12)
		m, buf := newTestManager(t, text)
		before := shapeOf(m)
		loc := rng.Intn(len(text))
		length := 1 + rng.Intn(len(text)-loc)
		removed := text[loc : loc+length]
		buf.remove(m, loc, length)
		buf.insert(m, removed, loc)
		if string(buf.text) != text {
			t.Fatalf("test buffer broken")
		}
		if err := m.Check(); err != nil {
			t.Fatalf("removing and re-inserting %q in %q: %v", removed, text, err)
		}
		if after := shapeOf(m); !slices.Equal(before, after) {
			t.Fatalf("removing and re-inserting %q in %q: lines %v, were %v", removed, text, after, before)
		}
	}
}

func FuzzEdits(f *testing.F) {
	f.Add(int64(1), uint16(50))
	f.Add(int64(42), uint16(200))
	f.Fuzz(func(t *testing.T, seed int64, steps uint16) {
		runRandomEdits(t, seed, int(steps%400))
	})
}
