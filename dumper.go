// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package iptrie

import (
	"fmt"
	"io"
	"strings"
)

// dumpString renders dump's output as a string, for tests that want to
// assert on it without wiring up an io.Writer.
func (t *table[V]) dumpString() string {
	w := new(strings.Builder)
	t.dump(w)
	return w.String()
}

// dump writes the raw branch/leaf edge list to w, one line per edge, in the
// depth-first order Edges returns them.
func (t *table[V]) dump(w io.Writer) {
	stats := t.Stats()
	fmt.Fprintf(w, "### branches(%d) leaves(%d)\n", stats.Branches, stats.Leaves)

	for _, e := range t.pt.Edges() {
		switch {
		case e.ChildIsLeaf && e.IsBackEdge:
			fmt.Fprintf(w, "branch[%d] --%d--> leaf[%d] %s (back edge)\n",
				e.ParentIdx, e.Direction, e.ChildIdx, t.cd.decode(t.pt.Key(e.ChildIdx)))
		case e.ChildIsLeaf:
			fmt.Fprintf(w, "branch[%d] --%d--> leaf[%d] %s\n",
				e.ParentIdx, e.Direction, e.ChildIdx, t.cd.decode(t.pt.Key(e.ChildIdx)))
		default:
			fmt.Fprintf(w, "branch[%d] --%d--> branch[%d]\n", e.ParentIdx, e.Direction, e.ChildIdx)
		}
	}
}

// DumpDOT writes the trie's branch/leaf structure to w in Graphviz DOT
// format: an optional collaborator with no bit-exact format mandate
// beyond being accepted by dot.
func (t *table[V]) DumpDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph iptrie {"); err != nil {
		return err
	}
	defer fmt.Fprintln(w, "}")

	if _, err := fmt.Fprintln(w, `  n0 [shape=circle,label="root"];`); err != nil {
		return err
	}

	for _, e := range t.pt.Edges() {
		style := "solid"
		if e.IsBackEdge {
			style = "dashed"
		}
		if e.ChildIsLeaf {
			label := t.cd.decode(t.pt.Key(e.ChildIdx)).String()
			if _, err := fmt.Fprintf(w, "  n%d -> leaf%d [label=%q,style=%s];\n", e.ParentIdx, e.ChildIdx, fmt.Sprint(e.Direction), style); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "  leaf%d [shape=box,label=%q];\n", e.ChildIdx, label); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "  n%d -> n%d [label=%q,style=%s];\n", e.ParentIdx, e.ChildIdx, fmt.Sprint(e.Direction), style); err != nil {
			return err
		}
	}
	return nil
}
