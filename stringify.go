// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package iptrie

import (
	"fmt"
	"io"
	"strings"
)

// String returns a hierarchical tree diagram of the table's prefixes. If
// Fprint returns an error, String panics.
func (t *table[V]) String() string {
	w := new(strings.Builder)
	if err := t.Fprint(w); err != nil {
		panic(err)
	}
	return w.String()
}

// Fprint writes a hierarchical tree diagram of the table's prefixes,
// nested by CIDR coverage, to w:
//
//	▼
//	├─ 10.0.0.0/8 (ten)
//	│  ├─ 10.0.0.0/24 (ten-a)
//	│  └─ 10.1.0.0/16 (ten-b)
//	└─ 192.168.0.0/16 (private)
func (t *table[V]) Fprint(w io.Writer) error {
	forest := t.DumpList()
	if len(forest) == 0 {
		return nil
	}
	if _, err := fmt.Fprint(w, "▼\n"); err != nil {
		return err
	}
	return fprintForest(w, forest, "")
}

func fprintForest[V any](w io.Writer, elems []ListElement[V], pad string) error {
	glyphe, spacer := "├─ ", "│  "
	for i, el := range elems {
		if i == len(elems)-1 {
			glyphe, spacer = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s (%v)\n", pad, glyphe, el.Cidr, el.Value); err != nil {
			return err
		}
		if err := fprintForest(w, el.Subnets, pad+spacer); err != nil {
			return err
		}
	}
	return nil
}
