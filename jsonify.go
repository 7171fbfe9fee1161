// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package iptrie

import (
	"encoding/json"
	"net/netip"

	"github.com/Orange-OpenSource/iptrie/internal/bitkey"
	"github.com/Orange-OpenSource/iptrie/internal/patricia"
)

// ListElement is one node of a table's forest representation: a prefix,
// its value, and the subnets nested directly beneath it (those not already
// covered by one of their own siblings).
type ListElement[V any] struct {
	Cidr    netip.Prefix     `json:"cidr"`
	Value   V                `json:"value"`
	Subnets []ListElement[V] `json:"subnets,omitempty"`
}

// DumpList returns the table's contents as a forest of ListElements, each
// root a prefix with no covering ancestor in the table, ordered by address
// with shorter prefixes before longer ones on ties.
func (t *table[V]) DumpList() []ListElement[V] {
	return buildForest(t.pt.Entries(), t.cd.decode)
}

// MarshalJSON renders the table as its forest representation.
func (t *table[V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.DumpList())
}

// buildForest assembles entries (already sorted per Entries' contract,
// ancestors always preceding their own descendants) into a forest, tracking
// the open ancestor chain on a stack rather than recursing per bart's
// dumpList, since the flat, pre-sorted input makes a single left-to-right
// pass sufficient.
func buildForest[V any](entries []patricia.Entry[V], decode func(bitkey.Key) netip.Prefix) []ListElement[V] {
	type frame struct {
		key  bitkey.Key
		elem *ListElement[V]
	}

	var roots []ListElement[V]
	var stack []frame

	for _, e := range entries {
		el := ListElement[V]{Cidr: decode(e.Key), Value: e.Val}

		for len(stack) > 0 && !bitkey.IsPrefixOf(stack[len(stack)-1].key, e.Key) {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, el)
			stack = append(stack, frame{e.Key, &roots[len(roots)-1]})
			continue
		}

		parent := stack[len(stack)-1].elem
		parent.Subnets = append(parent.Subnets, el)
		stack = append(stack, frame{e.Key, &parent.Subnets[len(parent.Subnets)-1]})
	}

	return roots
}
