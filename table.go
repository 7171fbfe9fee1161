// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package iptrie

import (
	"net/netip"

	"github.com/Orange-OpenSource/iptrie/internal/bitkey"
	"github.com/Orange-OpenSource/iptrie/internal/lctrie"
	"github.com/Orange-OpenSource/iptrie/internal/patricia"
)

// table is the shared engine behind Table4, Table6 and TableMixed: all of
// the trie semantics live here once, and the three exported types are thin
// wrappers selecting a codec, exactly mirroring how little Table4/Table6
// differ from each other in the underlying bit operations.
type table[V any] struct {
	pt *patricia.Trie[V]
	cd codec
}

func newTable[V any](cd codec) table[V] {
	return table[V]{pt: patricia.New[V](), cd: cd}
}

// Insert adds pfx with value val. If pfx was already present, the previous
// value is returned with existed=true.
func (t *table[V]) Insert(pfx netip.Prefix, val V) (old V, existed bool, err error) {
	k, err := t.cd.encodePrefix(pfx)
	if err != nil {
		return old, false, err
	}
	old, existed = t.pt.Insert(k, val)
	return old, existed, nil
}

// Replace behaves like Insert but also reports the evicted key, mirroring
// the originating crate's RadixTrie::replace, which returns the evicted
// leaf rather than just its value. oldKey always equals pfx when existed,
// since a table stores each prefix at most once; returned anyway for parity
// with the crate's API shape.
func (t *table[V]) Replace(pfx netip.Prefix, val V) (oldVal V, oldKey netip.Prefix, existed bool, err error) {
	k, err := t.cd.encodePrefix(pfx)
	if err != nil {
		return oldVal, oldKey, false, err
	}
	oldK, oldVal, existed := t.pt.Replace(k, val)
	if existed {
		oldKey = t.cd.decode(oldK)
	}
	return oldVal, oldKey, existed, nil
}

// Delete removes pfx, reporting its previous value.
func (t *table[V]) Delete(pfx netip.Prefix) (old V, existed bool, err error) {
	k, err := t.cd.encodePrefix(pfx)
	if err != nil {
		return old, false, err
	}
	old, existed = t.pt.Delete(k)
	return old, existed, nil
}

// Get reports the value stored for pfx itself (not a covering ancestor).
func (t *table[V]) Get(pfx netip.Prefix) (val V, ok bool, err error) {
	k, err := t.cd.encodePrefix(pfx)
	if err != nil {
		return val, false, err
	}
	val, ok = t.pt.Exact(k)
	return val, ok, nil
}

// LookupPrefix returns the longest stored prefix covering pfx (treating pfx
// as a range, not a single address), its value, and whether a match exists.
func (t *table[V]) LookupPrefix(pfx netip.Prefix) (matched netip.Prefix, val V, ok bool, err error) {
	k, err := t.cd.encodePrefix(pfx)
	if err != nil {
		return matched, val, false, err
	}
	mk, val, ok := t.pt.LPM(k)
	if !ok {
		return matched, val, false, nil
	}
	return t.cd.decode(mk), val, true, nil
}

// Lookup returns the longest stored prefix covering the single address
// addr.
func (t *table[V]) Lookup(addr netip.Addr) (matched netip.Prefix, val V, ok bool, err error) {
	k, err := t.cd.encodeAddr(addr)
	if err != nil {
		return matched, val, false, err
	}
	mk, val, ok := t.pt.LPM(k)
	if !ok {
		return matched, val, false, nil
	}
	return t.cd.decode(mk), val, true, nil
}

// Contains reports whether any stored prefix covers addr.
func (t *table[V]) Contains(addr netip.Addr) bool {
	_, _, ok, _ := t.Lookup(addr)
	return ok
}

// Covers classifies b relative to a, independent
// of what is actually stored in the table.
func (t *table[V]) Covers(a, b netip.Prefix) (bitkey.Coverage, error) {
	ka, err := t.cd.encodePrefix(a)
	if err != nil {
		return bitkey.NoCover, err
	}
	kb, err := t.cd.encodePrefix(b)
	if err != nil {
		return bitkey.NoCover, err
	}
	return ka.Covering(kb), nil
}

// Len returns the number of stored prefixes.
func (t *table[V]) Len() int { return t.pt.Len() }

// Stats returns node/leaf counts for diagnostics.
func (t *table[V]) Stats() patricia.Stats { return t.pt.Stats() }

// ShrinkToFit trims backing storage after a batch of deletions.
func (t *table[V]) ShrinkToFit() { t.pt.ShrinkToFit() }

// All returns a range-over-func iterator over every (prefix, value) pair.
func (t *table[V]) All() func(yield func(netip.Prefix, V) bool) {
	return func(yield func(netip.Prefix, V) bool) {
		for k, v := range t.pt.All() {
			if !yield(t.cd.decode(k), v) {
				return
			}
		}
	}
}

// compress builds a frozen LC-trie snapshot of the current contents.
func (t *table[V]) compress(opts lctrie.Options) *lctrie.Trie[V] {
	src := t.pt.Entries()
	entries := make([]lctrie.Entry[V], len(src))
	for i, e := range src {
		entries[i] = lctrie.Entry[V]{Key: e.Key, Val: e.Val}
	}
	rootReal := len(entries) > 0 && entries[0].Key.Len == 0
	return lctrie.Compress(entries, rootReal, opts)
}
