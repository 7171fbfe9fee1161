// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"
)

// loadPrefixFile reads one CIDR per line from path, transparently gunzipping
// when the name ends in .gz, and masks each prefix per the library's
// construction contract.
func loadPrefixFile(path string) ([]netip.Prefix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	var pfxs []netip.Prefix
	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pfx, err := netip.ParsePrefix(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		pfxs = append(pfxs, pfx.Masked())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pfxs, nil
}
