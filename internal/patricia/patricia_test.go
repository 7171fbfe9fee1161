// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package patricia

import (
	"testing"

	"github.com/Orange-OpenSource/iptrie/internal/bitkey"
)

func v4(a, b, c, d byte, length uint8) bitkey.Key {
	return bitkey.FromV4([4]byte{a, b, c, d}, length)
}

func TestInsertExactRoundtrip(t *testing.T) {
	t.Parallel()

	tr := New[int]()
	k := v4(10, 0, 0, 0, 8)
	if _, existed := tr.Insert(k, 1); existed {
		t.Fatal("first insert should not report existed")
	}
	val, ok := tr.Exact(k)
	if !ok || val != 1 {
		t.Fatalf("Exact = %v, %v, want 1, true", val, ok)
	}
	if tr.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tr.Len())
	}
}

func TestInsertDuplicateReplaces(t *testing.T) {
	t.Parallel()

	tr := New[int]()
	k := v4(10, 0, 0, 0, 8)
	tr.Insert(k, 1)
	old, existed := tr.Insert(k, 2)
	if !existed || old != 1 {
		t.Fatalf("Insert dup = %v, %v, want 1, true", old, existed)
	}
	if tr.Len() != 1 {
		t.Fatalf("Len = %d, want 1 after duplicate insert", tr.Len())
	}
	val, _ := tr.Exact(k)
	if val != 2 {
		t.Fatalf("value = %d, want 2", val)
	}
}

// TestInsertNarrowerAfterWider covers the "added extends deepest" branch of
// insertPrefix, the classic case from the worked derivation: 10.0.0.0/8 then
// 10.1.0.0/16.
func TestInsertNarrowerAfterWider(t *testing.T) {
	t.Parallel()

	tr := New[string]()
	tr.Insert(v4(10, 0, 0, 0, 8), "wide")
	tr.Insert(v4(10, 1, 0, 0, 16), "narrow")

	_, val, ok := tr.LPM(v4(10, 2, 0, 0, 32))
	if !ok || val != "wide" {
		t.Fatalf("LPM(10.2.0.0) = %v, %v, want wide, true", val, ok)
	}
	_, val, ok = tr.LPM(v4(10, 1, 5, 5, 32))
	if !ok || val != "narrow" {
		t.Fatalf("LPM(10.1.5.5) = %v, %v, want narrow, true", val, ok)
	}
}

// TestInsertWiderAfterNarrower covers the reverse insertion order: the wider
// ancestor arrives after its own more specific child already exists.
func TestInsertWiderAfterNarrower(t *testing.T) {
	t.Parallel()

	tr := New[string]()
	tr.Insert(v4(10, 1, 0, 0, 16), "narrow")
	tr.Insert(v4(10, 0, 0, 0, 8), "wide")

	_, val, ok := tr.LPM(v4(10, 2, 0, 0, 32))
	if !ok || val != "wide" {
		t.Fatalf("LPM(10.2.0.0) = %v, %v, want wide, true", val, ok)
	}
	_, val, ok = tr.LPM(v4(10, 1, 5, 5, 32))
	if !ok || val != "narrow" {
		t.Fatalf("LPM(10.1.5.5) = %v, %v, want narrow, true", val, ok)
	}
}

func TestInsertSiblingBranches(t *testing.T) {
	t.Parallel()

	tr := New[string]()
	tr.Insert(v4(10, 0, 0, 0, 8), "ten")
	tr.Insert(v4(11, 0, 0, 0, 8), "eleven")

	_, val, ok := tr.LPM(v4(10, 5, 5, 5, 32))
	if !ok || val != "ten" {
		t.Fatalf("LPM(10.x) = %v, %v, want ten, true", val, ok)
	}
	_, val, ok = tr.LPM(v4(11, 5, 5, 5, 32))
	if !ok || val != "eleven" {
		t.Fatalf("LPM(11.x) = %v, %v, want eleven, true", val, ok)
	}
	_, _, ok = tr.LPM(v4(12, 0, 0, 0, 32))
	if ok {
		t.Fatal("LPM(12.x) should miss: no root default inserted")
	}
}

func TestLPMFallsThroughToRoot(t *testing.T) {
	t.Parallel()

	tr := New[string]()
	tr.Insert(bitkey.Key{}, "default")
	tr.Insert(v4(10, 0, 0, 0, 8), "ten")

	_, val, ok := tr.LPM(v4(192, 168, 0, 1, 32))
	if !ok || val != "default" {
		t.Fatalf("LPM(192.168.0.1) = %v, %v, want default, true", val, ok)
	}
	_, val, ok = tr.LPM(v4(10, 1, 1, 1, 32))
	if !ok || val != "ten" {
		t.Fatalf("LPM(10.1.1.1) = %v, %v, want ten, true", val, ok)
	}
}

func TestDeleteRemovesEntry(t *testing.T) {
	t.Parallel()

	tr := New[int]()
	tr.Insert(v4(10, 0, 0, 0, 8), 1)
	tr.Insert(v4(10, 1, 0, 0, 16), 2)
	tr.Insert(v4(11, 0, 0, 0, 8), 3)

	old, ok := tr.Delete(v4(10, 1, 0, 0, 16))
	if !ok || old != 2 {
		t.Fatalf("Delete = %v, %v, want 2, true", old, ok)
	}
	if _, ok := tr.Exact(v4(10, 1, 0, 0, 16)); ok {
		t.Fatal("deleted key should no longer be exact-matchable")
	}
	_, val, ok := tr.LPM(v4(10, 1, 5, 5, 32))
	if !ok || val != 1 {
		t.Fatalf("LPM after delete = %v, %v, want 1, true (falls back to /8)", val, ok)
	}
	_, val, ok = tr.LPM(v4(11, 1, 1, 1, 32))
	if !ok || val != 3 {
		t.Fatalf("sibling lookup after unrelated delete = %v, %v, want 3, true", val, ok)
	}
	if tr.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tr.Len())
	}
}

func TestDeleteMissingKey(t *testing.T) {
	t.Parallel()

	tr := New[int]()
	tr.Insert(v4(10, 0, 0, 0, 8), 1)
	if _, ok := tr.Delete(v4(192, 168, 0, 0, 16)); ok {
		t.Fatal("deleting an absent key should report not-found")
	}
}

func TestDeleteRootDefault(t *testing.T) {
	t.Parallel()

	tr := New[int]()
	tr.Insert(bitkey.Key{}, 42)
	old, ok := tr.Delete(bitkey.Key{})
	if !ok || old != 42 {
		t.Fatalf("Delete(root) = %v, %v, want 42, true", old, ok)
	}
	if _, ok := tr.Exact(bitkey.Key{}); ok {
		t.Fatal("root should no longer be set")
	}
	if _, _, ok := tr.LPM(v4(1, 2, 3, 4, 32)); ok {
		t.Fatal("LPM should miss once the root default is removed and nothing else matches")
	}
}

// TestManyInsertDeleteKeepsConsistency exercises swap-remove reindexing
// across a larger, overlapping prefix set.
func TestManyInsertDeleteKeepsConsistency(t *testing.T) {
	t.Parallel()

	tr := New[int]()
	keys := []bitkey.Key{
		v4(10, 0, 0, 0, 8),
		v4(10, 1, 0, 0, 16),
		v4(10, 1, 1, 0, 24),
		v4(10, 2, 0, 0, 16),
		v4(172, 16, 0, 0, 12),
		v4(172, 16, 1, 0, 24),
		v4(192, 168, 0, 0, 16),
	}
	for i, k := range keys {
		tr.Insert(k, i)
	}
	if tr.Len() != len(keys) {
		t.Fatalf("Len = %d, want %d", tr.Len(), len(keys))
	}

	// Remove every other entry and confirm the rest remain exact-matchable.
	for i := 0; i < len(keys); i += 2 {
		if _, ok := tr.Delete(keys[i]); !ok {
			t.Fatalf("Delete(%v) failed", keys[i])
		}
	}
	for i, k := range keys {
		val, ok := tr.Exact(k)
		if i%2 == 0 {
			if ok {
				t.Fatalf("key %d should have been deleted", i)
			}
			continue
		}
		if !ok || val != i {
			t.Fatalf("key %d: Exact = %v, %v, want %d, true", i, val, ok, i)
		}
	}
}

func TestAllIteratesEveryEntry(t *testing.T) {
	t.Parallel()

	tr := New[int]()
	tr.Insert(bitkey.Key{}, 0)
	tr.Insert(v4(10, 0, 0, 0, 8), 1)
	tr.Insert(v4(11, 0, 0, 0, 8), 2)

	seen := map[int]bool{}
	for _, v := range tr.All() {
		seen[v] = true
	}
	if len(seen) != 3 || !seen[0] || !seen[1] || !seen[2] {
		t.Fatalf("All() saw %v, want {0,1,2}", seen)
	}
}

func TestEntriesSortedByKey(t *testing.T) {
	t.Parallel()

	tr := New[int]()
	tr.Insert(v4(11, 0, 0, 0, 8), 2)
	tr.Insert(v4(10, 0, 0, 0, 8), 1)
	tr.Insert(v4(10, 1, 0, 0, 16), 3)

	entries := tr.Entries()
	for i := 1; i < len(entries); i++ {
		if !bitkey.Less(entries[i-1].Key, entries[i].Key) {
			t.Fatalf("Entries() not sorted at %d", i)
		}
	}
}

func TestCoversExposesCoverage(t *testing.T) {
	t.Parallel()

	a := v4(10, 0, 0, 0, 8)
	b := v4(10, 1, 0, 0, 16)
	if a.Covering(b) != bitkey.WiderRange {
		t.Fatal("expected WiderRange")
	}
}

func TestReplaceReportsEvictedKey(t *testing.T) {
	t.Parallel()

	tr := New[string]()
	k := v4(10, 0, 0, 0, 8)

	oldKey, oldVal, existed := tr.Replace(k, "first")
	if existed || oldVal != "" || oldKey != (bitkey.Key{}) {
		t.Fatalf("first Replace = %v, %q, %v, want zero, \"\", false", oldKey, oldVal, existed)
	}

	oldKey, oldVal, existed = tr.Replace(k, "second")
	if !existed || oldVal != "first" || oldKey != k {
		t.Fatalf("second Replace = %v, %q, %v, want %v, \"first\", true", oldKey, oldVal, existed, k)
	}

	val, ok := tr.Exact(k)
	if !ok || val != "second" {
		t.Fatalf("Exact after Replace = %v, %v, want second, true", val, ok)
	}
	if tr.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tr.Len())
	}
}

func TestEdgesReachesEveryLeaf(t *testing.T) {
	t.Parallel()

	tr := New[int]()
	tr.Insert(v4(10, 0, 0, 0, 8), 1)
	tr.Insert(v4(10, 1, 0, 0, 16), 2)
	tr.Insert(v4(11, 0, 0, 0, 8), 3)

	leafIdx := map[int]bool{}
	for _, e := range tr.Edges() {
		if e.ChildIsLeaf && !e.IsBackEdge {
			leafIdx[e.ChildIdx] = true
		}
	}
	if len(leafIdx) == 0 {
		t.Fatal("expected at least one forward leaf edge")
	}
}
