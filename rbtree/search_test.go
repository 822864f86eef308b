package rbtree

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"
)

func TestSearchRangeFindsOverlaps(t *testing.T) {
	// intervals: [0,10] [10,20] [20,25] [25,25] [25,40]
	tree, h := newIntTree(t, 10, 10, 5, 0, 15)
	cases := []struct {
		lo, hi int
		want   []Handle
	}{
		{0, 9, []Handle{h[0]}},
		{0, 10, []Handle{h[0], h[1]}},
		{5, 15, []Handle{h[0], h[1]}},
		{10, 10, []Handle{h[0], h[1]}},
		{11, 19, []Handle{h[1]}},
		{19, 26, []Handle{h[1], h[2], h[3], h[4]}},
		{25, 25, []Handle{h[2], h[3], h[4]}},
		{39, 100, []Handle{h[4]}},
		{40, 100, []Handle{h[4]}},
		{41, 100, nil},
		{-5, -1, nil},
	}
	for _, c := range cases {
		got := tree.SearchRange(c.lo, c.hi)
		if len(got) != len(c.want) {
			t.Errorf("[%d,%d]: expected %d matches, got %d", c.lo, c.hi, len(c.want), len(got))
			continue
		}
		for i := range got {
			if got[i].Node != c.want[i] {
				t.Errorf("[%d,%d]: match %d is node %d", c.lo, c.hi, i, tree.IndexOf(got[i].Node))
			}
			if got[i].Start != tree.StartOf(got[i].Node) {
				t.Errorf("[%d,%d]: match %d has wrong start %d", c.lo, c.hi, i, got[i].Start)
			}
		}
	}
}

func TestSearchRangeMatchesLinearScan(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	tree, err := New[float64, struct{}]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for range 300 {
		tree.Append(float64(r.Intn(4))*7.5, struct{}{})
	}
	total := tree.Total()
	for range 200 {
		lo := r.Float64() * total
		hi := lo + r.Float64()*60
		got := tree.SearchRange(lo, hi)
		var want []Handle
		var start float64
		tree.ForEach(func(h Handle, v float64, _ struct{}) bool {
			if overlaps(start, start+v, lo, hi) {
				want = append(want, h)
			}
			start += v
			return true
		})
		if len(got) != len(want) {
			t.Fatalf("[%v,%v]: expected %d matches, got %d", lo, hi, len(want), len(got))
		}
		for i := range got {
			if got[i].Node != want[i] {
				t.Fatalf("[%v,%v]: match %d differs", lo, hi, i)
			}
		}
	}
}

func TestToDot(t *testing.T) {
	tree, _ := newIntTree(t, 1, 2, 3)
	var buf bytes.Buffer
	if err := ToDot(tree, &buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "strict digraph {") || !strings.HasSuffix(out, "}\n") {
		t.Fatalf("unexpected DOT output:\n%s", out)
	}
	if strings.Count(out, "->") != 6 { // 3 nodes, 2 edges each (children or nil)
		t.Errorf("expected 6 edges, DOT is:\n%s", out)
	}
}
