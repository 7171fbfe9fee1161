// Copyright (c) 2025 Orange-OpenSource
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"net/netip"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Orange-OpenSource/iptrie"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <prefix-file> <address>",
	Short: "Build a table from a prefix-list file and look up one address",
	Args:  cobra.ExactArgs(2),
	RunE:  runLookup,
}

func runLookup(_ *cobra.Command, args []string) error {
	pfxs, err := loadPrefixFile(args[0])
	if err != nil {
		return err
	}

	addr, err := netip.ParseAddr(args[1])
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", args[1], err)
	}

	tbl := iptrie.NewTableMixed[struct{}]()
	for _, p := range pfxs {
		if _, _, err := tbl.Insert(p, struct{}{}); err != nil {
			log.WithError(err).WithField("prefix", p).Warn("skipped invalid prefix")
		}
	}

	matched, _, ok, err := tbl.Lookup(addr)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("%s: no match\n", addr)
		return nil
	}
	fmt.Printf("%s: matched %s\n", addr, matched)
	return nil
}
