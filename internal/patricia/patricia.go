// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

// Package patricia implements a dynamic binary radix trie over fixed-width
// bit-string keys: array-backed nodes, back edges encoded as a tagged
// leaf/branch reference, insertion, removal, exact and longest-prefix-match
// lookup.
//
// The encoding follows the classical two-array PATRICIA layout (a tree of
// "branching" nodes, each carrying the bit position it tests and an "escape"
// leaf used when no more specific entry exists below it, plus a flat array
// of leaves holding the real inserted prefixes) rather than a single array
// of self-referencing nodes: both encode the same back-edge semantics, but
// the two-array form lets a back edge always point straight at the prefix
// it represents instead of requiring index arithmetic to detect one.
package patricia

import (
	"sort"

	"github.com/Orange-OpenSource/iptrie/internal/bitkey"
)

// ref tags a child slot as either a leaf (negative, bitwise complement of
// the leaf index) or a branch (non-negative, the branch index itself).
type ref int32

func leafRef(i int32) ref   { return ref(^i) }
func branchRef(i int32) ref { return ref(i) }
func (r ref) isLeaf() bool  { return r < 0 }
func (r ref) leaf() int32   { return int32(^r) }
func (r ref) branch() int32 { return int32(r) }

// branch is an internal node: it tests bit, and escape names the leaf to
// report when neither child resolves to something more specific.
type branch struct {
	escape   int32
	parent   int32
	children [2]ref
	bit      uint8
}

type leaf[V any] struct {
	key bitkey.Key
	val V
}

// Trie is the array-backed Patricia trie, parameterised over payload V. Use
// V = struct{} to get set semantics with no duplicated logic.
type Trie[V any] struct {
	branches []branch
	leaves   []leaf[V]
	rootReal bool
	count    int
}

// New returns an empty Trie. The zero value is not usable; always go
// through New, which reserves the permanent root leaf at index 0.
func New[V any]() *Trie[V] {
	t := &Trie[V]{
		branches: make([]branch, 1, 8),
		leaves:   make([]leaf[V], 1, 8),
	}
	t.branches[0] = branch{escape: 0, parent: 0, children: [2]ref{leafRef(0), leafRef(0)}, bit: 1}
	return t
}

// Len returns the number of distinct prefixes currently stored (the
// zero-length/default prefix counts only if it was explicitly inserted).
func (t *Trie[V]) Len() int { return t.count }

// searchDeepestCandidate descends the branch tree guided by k's bits,
// stopping at the first leaf reference encountered.
func (t *Trie[V]) searchDeepestCandidate(k bitkey.Key) (b, l int32) {
	b = 0
	for {
		child := t.branches[b].children[k.Bit(t.branches[b].bit)]
		if child.isLeaf() {
			return b, child.leaf()
		}
		b = child.branch()
	}
}

// candidate resolves the leaf whose key covers k: the deepest one reachable
// by bit-guided descent, falling back through escape chains until one
// actually covers k. The implicit root leaf (index 0, zero-length prefix)
// always terminates the climb.
func (t *Trie[V]) candidate(k bitkey.Key) (b, l int32) {
	b, l = t.searchDeepestCandidate(k)
	if l != t.branches[b].escape {
		if bitkey.IsPrefixOf(t.leaves[l].key, k) {
			return b, l
		}
		l = t.branches[b].escape
	}
	for !bitkey.IsPrefixOf(t.leaves[l].key, k) {
		b = t.branches[b].parent
		l = t.branches[b].escape
	}
	return b, l
}

// Insert adds k with value v. If k is already present, its value is
// replaced and the previous value is returned with existed=true.
func (t *Trie[V]) Insert(k bitkey.Key, v V) (old V, existed bool) {
	if k.Len == 0 {
		old, existed = t.leaves[0].val, t.rootReal
		t.leaves[0].val = v
		if !t.rootReal {
			t.count++
		}
		t.rootReal = true
		return old, existed
	}

	t.leaves = append(t.leaves, leaf[V]{key: k, val: v})
	addedIdx := int32(len(t.leaves) - 1)

	b, l := t.searchDeepestCandidate(k)
	if l != t.branches[b].escape {
		if !bitkey.IsPrefixOf(t.leaves[l].key, k) {
			l = t.branches[b].escape
		}
	}

	for {
		switch t.leaves[l].key.Covering(k) {
		case bitkey.NoCover:
			b = t.branches[b].parent
			l = t.branches[b].escape
		case bitkey.WiderRange:
			t.insertPrefix(addedIdx, k, b, l)
			t.count++
			return old, false
		case bitkey.SameRange:
			old = t.leaves[l].val
			t.leaves[l].val = v
			t.leaves = t.leaves[:addedIdx]
			return old, true
		}
	}
}

// Replace behaves like Insert but additionally returns the previous key
// when one existed, useful for diagnostics.
func (t *Trie[V]) Replace(k bitkey.Key, v V) (oldKey bitkey.Key, oldVal V, existed bool) {
	oldVal, existed = t.Insert(k, v)
	if existed {
		oldKey = k
	}
	return oldKey, oldVal, existed
}

// insertPrefix places addedIdx (already appended to t.leaves, key addedKey)
// into the branch tree, given that deepestLeaf is a genuine ancestor of
// addedKey reachable through branch n.
func (t *Trie[V]) insertPrefix(addedIdx int32, addedKey bitkey.Key, n, deepestLeaf int32) {
	deepestKey := t.leaves[deepestLeaf].key
	clp := bitkey.CLP(addedKey, deepestKey)
	pos := clp + 1

	switch {
	case pos > deepestKey.Len && deepestKey.Len < addedKey.Len:
		// The divergence lies beyond the existing ancestor's own
		// length: addedKey is a more specific continuation of it.
		dir := addedKey.Bit(t.branches[n].bit)
		if t.branches[n].children[dir] == leafRef(t.branches[n].escape) {
			t.branches[n].children[dir] = leafRef(addedIdx)
		} else {
			t.insertPrefixBranching(n, deepestLeaf, t.branches[n].children[dir], deepestKey.Len+1, addedKey)
		}

	case pos > addedKey.Len:
		// addedKey is itself a strict ancestor of deepestKey.
		p := addedKey.Len + 1
		for t.branches[n].bit > p {
			n = t.branches[n].parent
		}
		if t.branches[n].bit < p {
			t.insertPrefixBranching(n, addedIdx, t.branches[n].children[deepestKey.Bit(t.branches[n].bit)], p, deepestKey)
		} else {
			t.replaceEscapeLeaf(n, t.branches[n].escape, addedIdx)
		}

	default:
		// Genuine sibling divergence: both keys have a real, differing
		// bit at pos.
		p := pos
		for t.branches[n].bit > p {
			n = t.branches[n].parent
		}
		if t.branches[n].bit < p {
			n = t.insertPrefixBranching(n, t.branches[n].escape, t.branches[n].children[deepestKey.Bit(t.branches[n].bit)], p, deepestKey)
		}
		t.branches[n].children[addedKey.Bit(t.branches[n].bit)] = leafRef(addedIdx)
	}
}

// insertPrefixBranching splices a new branch node testing bit p between n
// and n's current child x (in the direction slot dictates at p), with
// escape e, and returns the new branch's index.
func (t *Trie[V]) insertPrefixBranching(n, e int32, x ref, p uint8, slot bitkey.Key) int32 {
	t.branches = append(t.branches, branch{
		escape:   e,
		parent:   n,
		children: [2]ref{leafRef(e), leafRef(e)},
		bit:      p,
	})
	nn := int32(len(t.branches) - 1)

	dir := slot.Bit(p)
	t.branches[nn].children[dir] = x

	if !x.isLeaf() {
		t.branches[x.branch()].parent = nn
		if t.branches[x.branch()].escape == t.branches[n].escape {
			t.replaceEscapeLeaf(x.branch(), t.branches[n].escape, e)
		}
	}

	t.branches[n].children[dir] = branchRef(nn)
	return nn
}

// replaceEscapeLeaf rewrites every occurrence of old as n's escape (and
// recursively, any descendant branch that inherited it) to new.
func (t *Trie[V]) replaceEscapeLeaf(n, old, new int32) {
	t.branches[n].escape = new
	for i := 0; i < 2; i++ {
		c := t.branches[n].children[i]
		if c.isLeaf() {
			if c.leaf() == old {
				t.branches[n].children[i] = leafRef(new)
			}
		} else if t.branches[c.branch()].escape == old {
			t.replaceEscapeLeaf(c.branch(), old, new)
		}
	}
}

// Exact reports the value stored for k, if k itself (not a covering
// ancestor) was inserted.
func (t *Trie[V]) Exact(k bitkey.Key) (val V, ok bool) {
	if k.Len == 0 {
		if !t.rootReal {
			return val, false
		}
		return t.leaves[0].val, true
	}
	_, l := t.candidate(k)
	if l == 0 || !t.leaves[l].key.Equal(k) {
		return val, false
	}
	return t.leaves[l].val, true
}

// LPM returns the longest stored prefix covering k, its value, and whether
// a match exists. A miss (ok=false) happens only when the implicit root has
// no user-inserted zero-length prefix and no other entry covers k — which,
// since every key is covered by the zero-length prefix, only occurs when
// the root itself was never inserted.
func (t *Trie[V]) LPM(k bitkey.Key) (matched bitkey.Key, val V, ok bool) {
	_, l := t.candidate(k)
	if l == 0 && !t.rootReal {
		return matched, val, false
	}
	return t.leaves[l].key, t.leaves[l].val, true
}

// Delete removes k, reporting its previous value if it was present.
func (t *Trie[V]) Delete(k bitkey.Key) (old V, existed bool) {
	if k.Len == 0 {
		if !t.rootReal {
			return old, false
		}
		old = t.leaves[0].val
		t.leaves[0].val = old // keep zero-value intent explicit below
		var zero V
		t.leaves[0].val = zero
		t.rootReal = false
		t.count--
		return old, true
	}

	b, l := t.candidate(k)
	if l == 0 || !t.leaves[l].key.Equal(k) {
		return old, false
	}
	old = t.leaves[l].val

	if l == t.branches[b].escape {
		// l is only reachable by inheritance; climb to where it was
		// first introduced and replace it there with its own parent's
		// escape (root's escape never changes, so this always
		// terminates).
		for t.branches[t.branches[b].parent].escape == l {
			b = t.branches[b].parent
		}
		t.replaceEscapeLeaf(b, l, t.branches[t.branches[b].parent].escape)
	} else {
		dir := k.Bit(t.branches[b].bit)
		t.branches[b].children[dir] = leafRef(t.branches[b].escape)
	}

	t.swapRemoveLeaf(l)
	t.count--
	return old, true
}

// swapRemoveLeaf drops leaf l by moving the last leaf into its slot and
// patching every reference to the moved leaf's old index.
func (t *Trie[V]) swapRemoveLeaf(l int32) {
	lastIdx := int32(len(t.leaves) - 1)
	if lastIdx == l {
		t.leaves = t.leaves[:lastIdx]
		return
	}

	lastKey := t.leaves[lastIdx].key
	bb, _ := t.candidate(lastKey)

	if t.branches[bb].children[0] == leafRef(lastIdx) {
		t.branches[bb].children[0] = leafRef(l)
	}
	if t.branches[bb].children[1] == leafRef(lastIdx) {
		t.branches[bb].children[1] = leafRef(l)
	}
	for t.branches[bb].escape == lastIdx {
		t.branches[bb].escape = l
		bb = t.branches[bb].parent
	}

	t.leaves[l] = t.leaves[lastIdx]
	t.leaves = t.leaves[:lastIdx]
}

// All returns a range-over-func iterator over every stored (key, value)
// pair, in a stable but otherwise unspecified order.
func (t *Trie[V]) All() func(yield func(bitkey.Key, V) bool) {
	return func(yield func(bitkey.Key, V) bool) {
		if t.rootReal {
			if !yield(t.leaves[0].key, t.leaves[0].val) {
				return
			}
		}
		for i := 1; i < len(t.leaves); i++ {
			if !yield(t.leaves[i].key, t.leaves[i].val) {
				return
			}
		}
	}
}

// Entry is one (key, value) pair of a trie snapshot, as produced by
// Entries for LC-trie compression.
type Entry[V any] struct {
	Key bitkey.Key
	Val V
}

// Entries returns every stored prefix sorted lexicographically by bits,
// shorter-before-longer on ties — the order LC-trie construction requires
// of its input.
func (t *Trie[V]) Entries() []Entry[V] {
	entries := make([]Entry[V], 0, t.count)
	if t.rootReal {
		entries = append(entries, Entry[V]{t.leaves[0].key, t.leaves[0].val})
	}
	for i := 1; i < len(t.leaves); i++ {
		entries = append(entries, Entry[V]{t.leaves[i].key, t.leaves[i].val})
	}
	sort.Slice(entries, func(i, j int) bool {
		return bitkey.Less(entries[i].Key, entries[j].Key)
	})
	return entries
}

// Stats summarises the trie's current footprint, for the plain-text debug
// dump.
type Stats struct {
	Branches int
	Leaves   int
}

// Stats returns a snapshot of the trie's node counts.
func (t *Trie[V]) Stats() Stats {
	return Stats{Branches: len(t.branches), Leaves: t.count}
}

// ShrinkToFit trims the backing slices' capacity to their current length,
// reclaiming memory after a batch of deletions.
func (t *Trie[V]) ShrinkToFit() {
	branches := make([]branch, len(t.branches))
	copy(branches, t.branches)
	t.branches = branches

	leaves := make([]leaf[V], len(t.leaves))
	copy(leaves, t.leaves)
	t.leaves = leaves
}

// Edge describes one link of the underlying branch tree, for the optional
// graphviz dumper: ParentIdx/ChildIdx identify branch nodes (leaf
// children are reported with ChildIsLeaf set and ChildIdx holding the leaf
// index instead), Direction is 0 or 1, and IsBackEdge is true when the
// child is the parent's own escape leaf (a "no branch taken" edge).
type Edge struct {
	ParentIdx   int
	ChildIdx    int
	Direction   int
	ChildIsLeaf bool
	IsBackEdge  bool
}

// Edges returns every edge of the branch tree in depth-first order, rooted
// at branch 0.
func (t *Trie[V]) Edges() []Edge {
	var out []Edge
	var walk func(b int32)
	walk = func(b int32) {
		for dir := 0; dir < 2; dir++ {
			c := t.branches[b].children[dir]
			if c.isLeaf() {
				out = append(out, Edge{
					ParentIdx:   int(b),
					ChildIdx:    int(c.leaf()),
					Direction:   dir,
					ChildIsLeaf: true,
					IsBackEdge:  c.leaf() == t.branches[b].escape,
				})
				continue
			}
			out = append(out, Edge{
				ParentIdx: int(b),
				ChildIdx:  int(c.branch()),
				Direction: dir,
			})
			walk(c.branch())
		}
	}
	walk(0)
	return out
}

// Key returns the prefix key stored at leaf index leafIdx, for
// dumper/debugging use alongside Edges.
func (t *Trie[V]) Key(leafIdx int) bitkey.Key { return t.leaves[leafIdx].key }

// Value returns the value stored at leaf index leafIdx.
func (t *Trie[V]) Value(leafIdx int) V { return t.leaves[leafIdx].val }
