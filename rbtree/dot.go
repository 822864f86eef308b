package rbtree

import (
	"fmt"
	"io"
	"strings"
)

// Labeler produces a node label for DOT output.
type Labeler[V Weight, D any] func(h Handle, value V, data D) string

// ToDot outputs the internal structure of a tree in Graphviz DOT format
// (for debugging purposes). If label is nil, nodes are labelled with their
// value and subtree total.
func ToDot[V Weight, D any](t *Tree[V, D], w io.Writer, label Labeler[V, D]) error {
	var b strings.Builder
	b.WriteString("strict digraph {\n")
	b.WriteString("\tnode [fontname=Arial,fontsize=12];\n")
	var nodelist, edgelist strings.Builder
	var walk func(i int32)
	walk = func(i int32) {
		n := &t.nodes[i]
		text := fmt.Sprintf("%v\\n∑%v", n.value, n.total)
		if label != nil {
			text = label(t.handle(i), n.value, n.data)
		}
		fmt.Fprintf(&nodelist, "\t\"%d\" [label=\"%s\" %s];\n", i, text, nodeDotStyles(n.red))
		for k, c := range [2]int32{n.left, n.right} {
			if c == null {
				nilid := fmt.Sprintf("nil%d_%d", i, k)
				fmt.Fprintf(&nodelist, "\t\"%s\" %s;\n", nilid, emptyNode())
				fmt.Fprintf(&edgelist, "\t\"%d\" -> \"%s\";\n", i, nilid)
				continue
			}
			fmt.Fprintf(&edgelist, "\t\"%d\" -> \"%d\";\n", i, c)
			walk(c)
		}
	}
	if t.root != null {
		walk(t.root)
	}
	b.WriteString(nodelist.String())
	b.WriteString(edgelist.String())
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	if err != nil {
		tracer().Errorf("tree DOT: %s", err.Error())
	}
	return err
}

func emptyNode() string {
	return "[label=\"\",color=black,shape=point]"
}

func nodeDotStyles(red bool) string {
	s := ",style=filled,shape=box,fontcolor=white"
	if red {
		s += ",fillcolor=\"#cc3333\""
	} else {
		s += ",fillcolor=black"
	}
	return s
}
