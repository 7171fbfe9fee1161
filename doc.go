// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

// Package iptrie provides in-memory longest-prefix-match lookup tables for
// IPv4 and IPv6 CIDR prefixes.
//
// Two layouts are offered for different phases of a table's life:
//
//   - Table4/Table6/TableMixed: a mutable Patricia trie (internal/patricia),
//     supporting Insert, Delete and Lookup at any time.
//   - Compressed4/Compressed6/CompressedMixed: an immutable, array-backed
//     LC-trie (internal/lctrie) built once from a table snapshot via
//     Compress, trading mutability for fewer pointer hops per lookup.
//
// Set4/Set6/SetMixed wrap the map tables to provide membership-only
// semantics with no per-prefix value storage.
//
// TableMixed and SetMixed hold both address families in a single trie by
// embedding IPv4 addresses at ::ffff:0:0/96, so a single lookup answers
// either family without a branch at the call site.
package iptrie
