// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

// Package lctrie implements a level-compressed trie (LC-trie), built once
// from a frozen snapshot of prefixes and read-only thereafter. Internal
// nodes branch on k >= 1 bits at a time, with k chosen per subtree by a
// fill-factor heuristic, trading table size for fewer levels of
// indirection on realistic address-prefix distributions.
package lctrie

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/Orange-OpenSource/iptrie/internal/bitkey"
)

// DefaultFill and DefaultKMax are the fill-factor heuristic's defaults,
// tuned for realistic BGP-scale tables: branch as wide as the data allows
// while keeping at least half of each bucket range populated.
const (
	DefaultFill = 0.5
	DefaultKMax = 16
)

// Options controls LC-trie construction. The zero value is not valid; use
// NewOptions for the recommended defaults.
type Options struct {
	Fill float64
	KMax uint8
}

// NewOptions returns the recommended defaults.
func NewOptions() Options {
	return Options{Fill: DefaultFill, KMax: DefaultKMax}
}

type kind uint8

const (
	kindLeaf kind = iota
	kindInternal
)

type node struct {
	kind   kind
	s      uint8
	k      uint8
	base   int32 // internal: index of first of 2^k children in nodes; leaf: index into leaves
	escape int32 // leaf: index into leaves of the nearest covering ancestor
}

type entry[V any] struct {
	key bitkey.Key
	val V
}

// Entry is one (key, value) pair of a frozen snapshot, as produced by a
// Patricia trie's Entries method.
type Entry[V any] struct {
	Key bitkey.Key
	Val V
}

// Trie is the immutable, array-backed LC-trie produced by Compress.
type Trie[V any] struct {
	nodes    []node
	leaves   []entry[V]
	rootReal bool
}

// Compress builds an LC-trie from entries, which must already be sorted per
// lexicographic by bits, shorter before longer on ties — as
// produced by (*patricia.Trie[V]).Entries. rootReal reports whether the
// zero-length prefix was itself a real, user-inserted entry (as opposed to
// merely the universal match-any fallback).
func Compress[V any](entries []Entry[V], rootReal bool, opts Options) *Trie[V] {
	b := &builder[V]{opts: opts}

	flat := make([]entry[V], len(entries))
	for i, e := range entries {
		flat[i] = entry[V]{key: e.Key, val: e.Val}
	}
	b.leaves = flat

	// leaves[0] by convention, if present, is the zero-length sentinel:
	// Entries() always places it first since Less sorts shorter-before-
	// longer and it is uniquely the only Len==0 key.
	sentinel := int32(-1)
	lo := 0
	if len(flat) > 0 && flat[0].key.Len == 0 {
		sentinel = 0
		lo = 1
	}
	if sentinel < 0 {
		// No explicit root; still need a sentinel leaf slot so escape
		// references always resolve to a real leaves[] index.
		b.leaves = append([]entry[V]{{key: bitkey.Key{}}}, b.leaves...)
		sentinel = 0
		lo = 1
		// shift all comparisons below by re-deriving flat from b.leaves.
		flat = b.leaves
	}

	// build's very first call always reserves its own node at the current
	// length of b.nodes before recursing into any child, and b.nodes
	// starts empty, so the root node always lands at index 0 regardless
	// of the entries' shape (a lone leaf or a full subtree alike).
	root := b.build(flat, lo, len(flat), 0, sentinel)
	_ = root

	return &Trie[V]{nodes: b.nodes, leaves: b.leaves, rootReal: rootReal}
}

type builder[V any] struct {
	opts   Options
	nodes  []node
	leaves []entry[V]
}

// build constructs the subtree covering entries[lo:hi], all of whose keys
// already agree on bits [0:s], and returns the index of the node placed in
// b.nodes. covering is the leaf index of the nearest ancestor known to
// cover every key in this subrange (used when a bucket turns out empty).
func (b *builder[V]) build(entries []entry[V], lo, hi int, s uint8, covering int32) int32 {
	if lo >= hi {
		return b.emitLeaf(covering, covering)
	}

	for lo < hi && entries[lo].key.Len <= s {
		covering = int32(lo)
		lo++
	}
	if lo >= hi {
		return b.emitLeaf(covering, covering)
	}

	if hi-lo == 1 {
		return b.emitLeaf(int32(lo), covering)
	}

	k := chooseK(entries, lo, hi, s, b.opts)
	width := 1 << k

	nodeIdx := int32(len(b.nodes))
	b.nodes = append(b.nodes, node{kind: kindInternal, s: s, k: k})
	base := int32(len(b.nodes))
	b.nodes[nodeIdx].base = base
	// reserve the children slots up front so recursive calls that append
	// further descendants don't invalidate these indices.
	for i := 0; i < width; i++ {
		b.nodes = append(b.nodes, node{})
	}

	boundaries := collectBoundaries(entries, lo, hi, s, k)

	i := lo
	for bucket := 0; bucket < width; bucket++ {
		j := i
		for j < hi && int(entries[j].key.Nibble(s, k)) == bucket {
			j++
		}
		bucketCovering := resolveCovering(boundaries, bucket, k, covering)
		var child int32
		if j > i {
			child = b.build(entries, i, j, s+k, bucketCovering)
		} else {
			child = b.emitLeaf(bucketCovering, bucketCovering)
		}
		b.nodes[base+int32(bucket)] = b.nodes[child]
		i = j
	}
	// The per-bucket child nodes were built either as fresh recursive
	// subtrees or as placeholder leaves, and a copy of each was placed in
	// its slot above. The originals, appended after base+width, are left in
	// b.nodes untrimmed; a copied internal node still shares its children
	// with its original.
	return nodeIdx
}

// emitLeaf appends a leaf node referencing leaves[idx], falling back to
// escape on mismatch, and returns its node index.
func (b *builder[V]) emitLeaf(idx, escape int32) int32 {
	nodeIdx := int32(len(b.nodes))
	b.nodes = append(b.nodes, node{kind: kindLeaf, base: idx, escape: escape})
	return nodeIdx
}

type boundary struct {
	bits uint64
	len  uint8 // number of significant bits, relative to the subtree's own offset s
	leaf int32
}

// collectBoundaries finds every entry in [lo,hi) whose key ends strictly
// before s+k: such an entry is the covering ancestor for every bucket whose
// leading bits (down to the entry's own length) match it, not just the
// single bucket its own (zero-padded) nibble value names.
func collectBoundaries[V any](entries []entry[V], lo, hi int, s, k uint8) []boundary {
	var out []boundary
	for i := lo; i < hi; i++ {
		l := entries[i].key.Len
		if l >= s+k {
			continue
		}
		relLen := l - s
		out = append(out, boundary{
			bits: entries[i].key.Nibble(s, relLen),
			len:  relLen,
			leaf: int32(i),
		})
	}
	return out
}

// resolveCovering picks the most specific boundary whose bit prefix matches
// bucket (interpreted as a k-bit value at this subtree's offset), falling
// back to outer if none matches.
func resolveCovering(boundaries []boundary, bucket int, k uint8, outer int32) int32 {
	best := outer
	bestLen := int8(-1)
	for _, bd := range boundaries {
		shift := k - bd.len
		if uint64(bucket)>>shift == bd.bits {
			if int8(bd.len) > bestLen {
				best = bd.leaf
				bestLen = int8(bd.len)
			}
		}
	}
	return best
}

// chooseK picks the largest branching factor in [1, KMax] (and not
// exceeding the remaining bit width) whose resulting 2^k buckets are at
// least Fill-populated.
func chooseK[V any](entries []entry[V], lo, hi int, s uint8, opts Options) uint8 {
	remaining := bitkey.Width - int(s)
	maxK := int(opts.KMax)
	if remaining < maxK {
		maxK = remaining
	}
	if maxK < 1 {
		return 1
	}

	for k := maxK; k >= 1; k-- {
		populated := bitset.New(uint(1) << uint(k))
		for i := lo; i < hi; i++ {
			populated.Set(uint(entries[i].key.Nibble(s, uint8(k))))
		}
		ratio := float64(populated.Count()) / float64(uint64(1)<<uint(k))
		if ratio >= opts.Fill {
			return uint8(k)
		}
	}
	return 1
}

// Lookup returns the longest stored prefix covering q, mirroring
// (*patricia.Trie[V]).LPM. ok is false only when no root default was
// inserted and nothing else covers q.
func (t *Trie[V]) Lookup(q bitkey.Key) (matched bitkey.Key, val V, ok bool) {
	s := uint8(0)
	n := int32(0)
	for t.nodes[n].kind == kindInternal {
		k := t.nodes[n].k
		n = t.nodes[n].base + int32(q.Nibble(s, k))
		s += k
	}
	leafIdx := t.nodes[n].base
	if bitkey.IsPrefixOf(t.leaves[leafIdx].key, q) {
		return t.resolve(leafIdx)
	}
	return t.resolve(t.nodes[n].escape)
}

func (t *Trie[V]) resolve(leafIdx int32) (bitkey.Key, V, bool) {
	if leafIdx == 0 && !t.rootReal {
		var zero V
		return bitkey.Key{}, zero, false
	}
	e := t.leaves[leafIdx]
	return e.key, e.val, true
}

// Exact reports whether q itself (not merely a covering ancestor) is
// stored.
func (t *Trie[V]) Exact(q bitkey.Key) (val V, ok bool) {
	matched, val, ok := t.Lookup(q)
	if !ok || !matched.Equal(q) {
		var zero V
		return zero, false
	}
	return val, true
}

// Stats summarises node/leaf counts, mirroring the Patricia facade.
type Stats struct {
	Nodes  int
	Leaves int
}

// Stats returns a snapshot of the compressed trie's footprint.
func (t *Trie[V]) Stats() Stats {
	return Stats{Nodes: len(t.nodes), Leaves: len(t.leaves)}
}
