// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package iptrie

import (
	"net/netip"

	"github.com/Orange-OpenSource/iptrie/internal/lctrie"
)

// Compressed4 is a frozen, read-only IPv4 lookup table built from a
// Table4 snapshot. It trades insert/delete for fewer pointer hops per
// lookup.
type Compressed4[V any] struct {
	lt *lctrie.Trie[V]
	cd codec
}

// Lookup returns the longest stored prefix covering addr.
func (c *Compressed4[V]) Lookup(addr netip.Addr) (matched netip.Prefix, val V, ok bool, err error) {
	k, err := c.cd.encodeAddr(addr)
	if err != nil {
		return matched, val, false, err
	}
	mk, val, ok := c.lt.Lookup(k)
	if !ok {
		return matched, val, false, nil
	}
	return c.cd.decode(mk), val, true, nil
}

// Get reports the value stored for pfx itself.
func (c *Compressed4[V]) Get(pfx netip.Prefix) (val V, ok bool, err error) {
	k, err := c.cd.encodePrefix(pfx)
	if err != nil {
		return val, false, err
	}
	val, ok = c.lt.Exact(k)
	return val, ok, nil
}

// Stats returns node/leaf counts for diagnostics.
func (c *Compressed4[V]) Stats() lctrie.Stats { return c.lt.Stats() }

// Compressed6 is a frozen, read-only IPv6 lookup table built from a
// Table6 snapshot.
type Compressed6[V any] struct {
	lt *lctrie.Trie[V]
	cd codec
}

// Lookup returns the longest stored prefix covering addr.
func (c *Compressed6[V]) Lookup(addr netip.Addr) (matched netip.Prefix, val V, ok bool, err error) {
	k, err := c.cd.encodeAddr(addr)
	if err != nil {
		return matched, val, false, err
	}
	mk, val, ok := c.lt.Lookup(k)
	if !ok {
		return matched, val, false, nil
	}
	return c.cd.decode(mk), val, true, nil
}

// Get reports the value stored for pfx itself.
func (c *Compressed6[V]) Get(pfx netip.Prefix) (val V, ok bool, err error) {
	k, err := c.cd.encodePrefix(pfx)
	if err != nil {
		return val, false, err
	}
	val, ok = c.lt.Exact(k)
	return val, ok, nil
}

// Stats returns node/leaf counts for diagnostics.
func (c *Compressed6[V]) Stats() lctrie.Stats { return c.lt.Stats() }

// CompressedMixed is a frozen, read-only dual-stack lookup table built
// from a TableMixed snapshot.
type CompressedMixed[V any] struct {
	lt *lctrie.Trie[V]
	cd codec
}

// Lookup returns the longest stored prefix covering addr.
func (c *CompressedMixed[V]) Lookup(addr netip.Addr) (matched netip.Prefix, val V, ok bool, err error) {
	k, err := c.cd.encodeAddr(addr)
	if err != nil {
		return matched, val, false, err
	}
	mk, val, ok := c.lt.Lookup(k)
	if !ok {
		return matched, val, false, nil
	}
	return c.cd.decode(mk), val, true, nil
}

// Get reports the value stored for pfx itself.
func (c *CompressedMixed[V]) Get(pfx netip.Prefix) (val V, ok bool, err error) {
	k, err := c.cd.encodePrefix(pfx)
	if err != nil {
		return val, false, err
	}
	val, ok = c.lt.Exact(k)
	return val, ok, nil
}

// Stats returns node/leaf counts for diagnostics.
func (c *CompressedMixed[V]) Stats() lctrie.Stats { return c.lt.Stats() }
