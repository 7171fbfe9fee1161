// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package iptrie

import (
	"net/netip"

	"github.com/Orange-OpenSource/iptrie/internal/lctrie"
)

// Table4 is a longest-prefix-match map over IPv4 prefixes. The zero value
// is not usable; construct with NewTable4.
type Table4[V any] struct{ table[V] }

// NewTable4 returns an empty IPv4 table.
func NewTable4[V any]() *Table4[V] { return &Table4[V]{newTable[V](codec4())} }

// Compress freezes the current contents into a Compressed4 snapshot.
func (t *Table4[V]) Compress() *Compressed4[V] { return t.CompressWith(lctrie.NewOptions()) }

// CompressWith freezes the current contents using explicit fill-factor
// options, for tests and CLI tuning.
func (t *Table4[V]) CompressWith(opts lctrie.Options) *Compressed4[V] {
	return &Compressed4[V]{lt: t.compress(opts), cd: t.cd}
}

// Table6 is a longest-prefix-match map over IPv6 prefixes (excluding the
// ::ffff:0:0/96 embedded-v4 range; use TableMixed for dual-stack tables).
type Table6[V any] struct{ table[V] }

// NewTable6 returns an empty IPv6 table.
func NewTable6[V any]() *Table6[V] { return &Table6[V]{newTable[V](codec6())} }

// Compress freezes the current contents into a Compressed6 snapshot.
func (t *Table6[V]) Compress() *Compressed6[V] { return t.CompressWith(lctrie.NewOptions()) }

// CompressWith freezes the current contents using explicit fill-factor
// options.
func (t *Table6[V]) CompressWith(opts lctrie.Options) *Compressed6[V] {
	return &Compressed6[V]{lt: t.compress(opts), cd: t.cd}
}

// TableMixed is a longest-prefix-match map holding both IPv4 and IPv6
// prefixes in a single trie, embedding v4 at ::ffff:0:0/96.
type TableMixed[V any] struct{ table[V] }

// NewTableMixed returns an empty mixed-family table.
func NewTableMixed[V any]() *TableMixed[V] { return &TableMixed[V]{newTable[V](codecMixed())} }

// Compress freezes the current contents into a CompressedMixed snapshot.
func (t *TableMixed[V]) Compress() *CompressedMixed[V] { return t.CompressWith(lctrie.NewOptions()) }

// CompressWith freezes the current contents using explicit fill-factor
// options.
func (t *TableMixed[V]) CompressWith(opts lctrie.Options) *CompressedMixed[V] {
	return &CompressedMixed[V]{lt: t.compress(opts), cd: t.cd}
}

// unit is the zero-size payload used by the Set flavours, so set semantics
// add no memory over the map engine.
type unit = struct{}

// Set4 stores IPv4 prefixes with no associated value.
type Set4 struct{ t *Table4[unit] }

// NewSet4 returns an empty IPv4 set.
func NewSet4() *Set4 { return &Set4{t: NewTable4[unit]()} }

// Insert adds pfx. existed reports whether it was already present.
func (s *Set4) Insert(pfx netip.Prefix) (existed bool, err error) {
	_, existed, err = s.t.Insert(pfx, unit{})
	return existed, err
}

// Remove deletes pfx. existed reports whether it was present.
func (s *Set4) Remove(pfx netip.Prefix) (existed bool, err error) {
	_, existed, err = s.t.Delete(pfx)
	return existed, err
}

// Contains reports whether any stored prefix covers addr.
func (s *Set4) Contains(addr netip.Addr) bool { return s.t.Contains(addr) }

// ContainsExact reports whether pfx itself was inserted.
func (s *Set4) ContainsExact(pfx netip.Prefix) (bool, error) {
	_, ok, err := s.t.Get(pfx)
	return ok, err
}

// Lookup returns the longest stored prefix covering addr.
func (s *Set4) Lookup(addr netip.Addr) (matched netip.Prefix, ok bool, err error) {
	matched, _, ok, err = s.t.Lookup(addr)
	return matched, ok, err
}

// Len returns the number of stored prefixes.
func (s *Set4) Len() int { return s.t.Len() }

// All returns a range-over-func iterator over every stored prefix.
func (s *Set4) All() func(yield func(netip.Prefix) bool) {
	return func(yield func(netip.Prefix) bool) {
		for p := range s.t.All() {
			if !yield(p) {
				return
			}
		}
	}
}

// Set6 stores IPv6 prefixes with no associated value.
type Set6 struct{ t *Table6[unit] }

// NewSet6 returns an empty IPv6 set.
func NewSet6() *Set6 { return &Set6{t: NewTable6[unit]()} }

// Insert adds pfx. existed reports whether it was already present.
func (s *Set6) Insert(pfx netip.Prefix) (existed bool, err error) {
	_, existed, err = s.t.Insert(pfx, unit{})
	return existed, err
}

// Remove deletes pfx. existed reports whether it was present.
func (s *Set6) Remove(pfx netip.Prefix) (existed bool, err error) {
	_, existed, err = s.t.Delete(pfx)
	return existed, err
}

// Contains reports whether any stored prefix covers addr.
func (s *Set6) Contains(addr netip.Addr) bool { return s.t.Contains(addr) }

// Lookup returns the longest stored prefix covering addr.
func (s *Set6) Lookup(addr netip.Addr) (matched netip.Prefix, ok bool, err error) {
	matched, _, ok, err = s.t.Lookup(addr)
	return matched, ok, err
}

// Len returns the number of stored prefixes.
func (s *Set6) Len() int { return s.t.Len() }

// All returns a range-over-func iterator over every stored prefix.
func (s *Set6) All() func(yield func(netip.Prefix) bool) {
	return func(yield func(netip.Prefix) bool) {
		for p := range s.t.All() {
			if !yield(p) {
				return
			}
		}
	}
}

// SetMixed stores both IPv4 and IPv6 prefixes with no associated value.
type SetMixed struct{ t *TableMixed[unit] }

// NewSetMixed returns an empty mixed-family set.
func NewSetMixed() *SetMixed { return &SetMixed{t: NewTableMixed[unit]()} }

// Insert adds pfx. existed reports whether it was already present.
func (s *SetMixed) Insert(pfx netip.Prefix) (existed bool, err error) {
	_, existed, err = s.t.Insert(pfx, unit{})
	return existed, err
}

// Remove deletes pfx. existed reports whether it was present.
func (s *SetMixed) Remove(pfx netip.Prefix) (existed bool, err error) {
	_, existed, err = s.t.Delete(pfx)
	return existed, err
}

// Contains reports whether any stored prefix covers addr.
func (s *SetMixed) Contains(addr netip.Addr) bool { return s.t.Contains(addr) }

// Lookup returns the longest stored prefix covering addr.
func (s *SetMixed) Lookup(addr netip.Addr) (matched netip.Prefix, ok bool, err error) {
	matched, _, ok, err = s.t.Lookup(addr)
	return matched, ok, err
}

// Len returns the number of stored prefixes.
func (s *SetMixed) Len() int { return s.t.Len() }
